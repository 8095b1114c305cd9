// Copyright (C) 2024 J. Chanco. All Rights Reserved.

package ast

import "fmt"

// A TypeError reports a coercion applied to a value of the wrong variant.
// It carries the offending value and a label for the expected type.
type TypeError struct {
	Value Value  // the value that was found
	Want  string // a human-readable label for the expected type
}

// Error satisfies the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("value is %s, not %s", TypeName(e.Value), e.Want)
}

// TypeName returns a human-readable label for the variant of v.
func TypeName(v Value) string {
	switch v.(type) {
	case nullValue:
		return "null"
	case Bool:
		return "a boolean"
	case Number:
		return "a number"
	case String:
		return "a string"
	case Array:
		return "an array"
	case Object:
		return "an object"
	}
	return fmt.Sprintf("an invalid value (%T)", v)
}

// AsBool returns the content of v if it is a Bool.
func AsBool(v Value) (bool, error) {
	if b, ok := v.(Bool); ok {
		return bool(b), nil
	}
	return false, &TypeError{Value: v, Want: "a boolean"}
}

// AsFloat returns the content of v if it is a Number.
func AsFloat(v Value) (float64, error) {
	if n, ok := v.(Number); ok {
		return float64(n), nil
	}
	return 0, &TypeError{Value: v, Want: "a number"}
}

// AsInt returns the content of v truncated toward zero, if v is a Number.
func AsInt(v Value) (int64, error) {
	n, err := AsFloat(v)
	return int64(n), err
}

// AsString returns the content of v if it is a String.
func AsString(v Value) (string, error) {
	if s, ok := v.(String); ok {
		return string(s), nil
	}
	return "", &TypeError{Value: v, Want: "a string"}
}

// AsArray returns v if it is an Array.
func AsArray(v Value) (Array, error) {
	if a, ok := v.(Array); ok {
		return a, nil
	}
	return nil, &TypeError{Value: v, Want: "an array"}
}

// AsObject returns v if it is an Object.
func AsObject(v Value) (Object, error) {
	if o, ok := v.(Object); ok {
		return o, nil
	}
	return nil, &TypeError{Value: v, Want: "an object"}
}
