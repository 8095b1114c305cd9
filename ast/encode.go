// Copyright (C) 2024 J. Chanco. All Rights Reserved.

package ast

import (
	"io"

	"github.com/jchanco/ezjsonm"
)

// Encode replays v into snk as a balanced lexeme sequence and calls Finish.
// The root must be an Object or an Array; a scalar root is rejected with a
// *TypeError before any lexeme is emitted. Whether the sink renders compact
// or indented output is the sink's concern alone; Encode always emits the
// same lexemes for the same value.
func Encode(v Value, snk ezjsonm.Sink) error {
	switch v.(type) {
	case Object, Array:
	default:
		return &TypeError{Value: v, Want: "an object or array"}
	}
	e := encoder{snk: snk}
	if err := e.value(v, func() error { return nil }); err != nil {
		return err
	}
	return snk.Finish()
}

// Format renders v to w as indented JSON text.
func Format(w io.Writer, v Value) error {
	return Encode(v, ezjsonm.NewWriter(w, nil))
}

// Compact renders v to w as JSON text with no inter-token whitespace.
func Compact(w io.Writer, v Value) error {
	return Encode(v, ezjsonm.NewWriter(w, &ezjsonm.WriterOptions{Compact: true}))
}

// An encoder walks a value and drives a sink. It mirrors the decoder: the
// "what to emit once this value is done" is carried as a continuation, and
// container nesting maps onto recursion depth through the chain.
type encoder struct {
	snk ezjsonm.Sink
}

func (e *encoder) emit(lx ezjsonm.Lexeme) error { return e.snk.Emit(lx) }

// value emits the lexemes denoting v, then continues with k.
func (e *encoder) value(v Value, k func() error) error {
	switch t := v.(type) {
	case Object:
		if err := e.emit(ezjsonm.Lexeme{Kind: ezjsonm.BeginObject}); err != nil {
			return err
		}
		return e.object(t, k)
	case Array:
		if err := e.emit(ezjsonm.Lexeme{Kind: ezjsonm.BeginArray}); err != nil {
			return err
		}
		return e.array(t, k)
	case nullValue:
		if err := e.emit(ezjsonm.Lexeme{Kind: ezjsonm.Null}); err != nil {
			return err
		}
		return k()
	case Bool:
		if err := e.emit(ezjsonm.Lexeme{Kind: ezjsonm.Bool, Flag: bool(t)}); err != nil {
			return err
		}
		return k()
	case Number:
		if err := e.emit(ezjsonm.Lexeme{Kind: ezjsonm.Number, Num: float64(t)}); err != nil {
			return err
		}
		return k()
	case String:
		if err := e.emit(ezjsonm.Lexeme{Kind: ezjsonm.String, Text: string(t)}); err != nil {
			return err
		}
		return k()
	}
	return &TypeError{Value: v, Want: "a JSON value"}
}

// array emits the remaining elements of an array and its closing lexeme,
// then continues with k.
func (e *encoder) array(vs Array, k func() error) error {
	if len(vs) == 0 {
		if err := e.emit(ezjsonm.Lexeme{Kind: ezjsonm.EndArray}); err != nil {
			return err
		}
		return k()
	}
	return e.value(vs[0], func() error { return e.array(vs[1:], k) })
}

// object emits the remaining members of an object and its closing lexeme,
// then continues with k.
func (e *encoder) object(ms Object, k func() error) error {
	if len(ms) == 0 {
		if err := e.emit(ezjsonm.Lexeme{Kind: ezjsonm.EndObject}); err != nil {
			return err
		}
		return k()
	}
	if err := e.emit(ezjsonm.Lexeme{Kind: ezjsonm.FieldName, Text: ms[0].Key}); err != nil {
		return err
	}
	return e.value(ms[0].Value, func() error { return e.object(ms[1:], k) })
}
