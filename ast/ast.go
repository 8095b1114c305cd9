// Copyright (C) 2024 J. Chanco. All Rights Reserved.

// Package ast defines an in-memory tree representation of JSON values, and
// a bidirectional codec between trees and ezjsonm lexeme streams.
package ast

import (
	"strconv"
	"strings"

	"github.com/jchanco/ezjsonm"
)

// A Value is an arbitrary JSON value. The concrete types are Null, Bool,
// Number, String, Array and Object. Values are immutable by convention:
// nothing in this module modifies an Array or Object after construction,
// so values may be freely shared, including across goroutines.
type Value interface {
	JSON() string // render the value as compact JSON text
}

// Null represents the JSON null constant.
var Null Value = nullValue{}

type nullValue struct{}

func (nullValue) JSON() string   { return "null" }
func (nullValue) String() string { return "null" }

// A Bool is a Boolean constant, true or false.
type Bool bool

func (b Bool) JSON() string {
	if b {
		return "true"
	}
	return "false"
}

// A Number is a numeric value. All numbers, integer or not, are carried as
// float64; integer values round-trip exactly up to the 53-bit mantissa.
type Number float64

func (n Number) JSON() string { return strconv.FormatFloat(float64(n), 'g', -1, 64) }

// Int returns the value of n truncated toward zero.
func (n Number) Int() int64 { return int64(n) }

// A String is a string value. The content is the decoded text; quotation
// and escaping happen only at the lexeme boundary.
type String string

func (s String) JSON() string { return ezjsonm.Quote(string(s)) }

// An Array is an ordered sequence of values.
type Array []Value

func (a Array) Len() int { return len(a) }

func (a Array) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

func (m *Member) JSON() string { return ezjsonm.Quote(m.Key) + ":" + m.Value.JSON() }

// Field constructs an object member with the given key and value.
// The value must be a type accepted by ToValue.
func Field(key string, value any) *Member { return &Member{Key: key, Value: ToValue(value)} }

// An Object is an ordered collection of key-value members. Insertion order
// is significant and preserved by every operation in this module. Keys are
// not required to be unique; lookups resolve to the first member with a
// matching key, and later duplicates are retained untouched.
type Object []*Member

func (o Object) Len() int { return len(o) }

// Find returns the first member of o with the given key, or nil.
func (o Object) Find(key string) *Member {
	if i := o.IndexKey(key); i >= 0 {
		return o[i]
	}
	return nil
}

// IndexKey returns the index of the first member of o with the given key,
// or -1.
func (o Object) IndexKey(key string) int {
	for i, m := range o {
		if m.Key == key {
			return i
		}
	}
	return -1
}

func (o Object) JSON() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

// ToValue converts a string, int, int64, float64, bool, or nil into a
// Value. A Value is returned unchanged. It panics if v does not have one of
// those types.
func ToValue(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case string:
		return String(t)
	case int:
		return Number(t)
	case int64:
		return Number(t)
	case float64:
		return Number(t)
	case bool:
		return Bool(t)
	case nil:
		return Null
	}
	panic("invalid value type")
}

// Equal reports whether a and b are structurally equal: same variant, same
// scalar content, and for containers the same sequence of elements or
// members in the same order, duplicate keys included.
func Equal(a, b Value) bool {
	switch t := a.(type) {
	case nullValue:
		_, ok := b.(nullValue)
		return ok
	case Bool:
		u, ok := b.(Bool)
		return ok && t == u
	case Number:
		u, ok := b.(Number)
		return ok && t == u
	case String:
		u, ok := b.(String)
		return ok && t == u
	case Array:
		u, ok := b.(Array)
		if !ok || len(t) != len(u) {
			return false
		}
		for i, v := range t {
			if !Equal(v, u[i]) {
				return false
			}
		}
		return true
	case Object:
		u, ok := b.(Object)
		if !ok || len(t) != len(u) {
			return false
		}
		for i, m := range t {
			if m.Key != u[i].Key || !Equal(m.Value, u[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
