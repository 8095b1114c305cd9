// Copyright (C) 2024 J. Chanco. All Rights Reserved.

package ast

import (
	"fmt"
	"io"

	"github.com/jchanco/ezjsonm"
)

// A ProtocolError reports a lexeme that arrived where the document grammar
// does not permit one, or a stream that ended inside an open container.
// It is fatal: no partial tree is ever returned alongside it.
type ProtocolError struct {
	Lexeme ezjsonm.Lexeme // the offending lexeme; zero if the stream ended
	Want   string         // what the grammar required instead
}

// Error satisfies the error interface.
func (e *ProtocolError) Error() string {
	if e.Lexeme.Kind == ezjsonm.Invalid {
		return fmt.Sprintf("unexpected end of stream, want %s", e.Want)
	}
	return fmt.Sprintf("at %s: got %v, want %s", e.Lexeme.Loc.First, e.Lexeme.Kind, e.Want)
}

// Decode consumes one complete value from src and returns the tree it
// denotes. Errors reported by src, lexical errors included, abort the
// decode immediately and are returned verbatim; a lexeme out of
// grammatical order is a *ProtocolError.
//
// Decode does not verify that the root is a container: a grammar-enforcing
// Source such as the Scanner never yields a bare scalar at the root.
func Decode(src ezjsonm.Source) (Value, error) {
	d := decoder{src: src}
	lx, err := d.next("a value")
	if err != nil {
		return nil, err
	}
	var out Value
	if err := d.value(lx, func(v Value) error { out = v; return nil }); err != nil {
		return nil, err
	}
	return out, nil
}

// Parse reads JSON text from r and returns the tree for the single
// document it contains.
func Parse(r io.Reader) (Value, error) { return Decode(ezjsonm.NewScanner(r)) }

// A decoder builds values from a lexeme source by recursive descent. The
// "what to do with the finished value" at each point is carried as an
// explicit continuation, so the same three procedures assemble arbitrarily
// nested containers: nesting depth in the input maps directly onto
// recursion depth through the continuation chain.
type decoder struct {
	src ezjsonm.Source
}

// next returns the next lexeme of the stream. End of stream mid-value is a
// protocol violation naming what was required.
func (d *decoder) next(want string) (ezjsonm.Lexeme, error) {
	lx, err := d.src.Next()
	if err == io.EOF {
		return ezjsonm.Lexeme{}, &ProtocolError{Want: want}
	} else if err != nil {
		return ezjsonm.Lexeme{}, err
	}
	return lx, nil
}

// value decodes the single value opened by lx and hands it to k.
func (d *decoder) value(lx ezjsonm.Lexeme, k func(Value) error) error {
	switch lx.Kind {
	case ezjsonm.BeginObject:
		return d.object(nil, func(o Object) error { return k(o) })
	case ezjsonm.BeginArray:
		return d.array(nil, func(a Array) error { return k(a) })
	case ezjsonm.Null:
		return k(Null)
	case ezjsonm.Bool:
		return k(Bool(lx.Flag))
	case ezjsonm.Number:
		return k(Number(lx.Num))
	case ezjsonm.String:
		return k(String(lx.Text))
	}
	return &ProtocolError{Lexeme: lx, Want: "a value"}
}

// array accumulates the elements of an open array and hands the finished
// array to k.
func (d *decoder) array(acc Array, k func(Array) error) error {
	lx, err := d.next(`a value or "]"`)
	if err != nil {
		return err
	}
	if lx.Kind == ezjsonm.EndArray {
		return k(acc)
	}
	return d.value(lx, func(v Value) error { return d.array(append(acc, v), k) })
}

// object accumulates the members of an open object and hands the finished
// object to k. Members arrive as a FieldName lexeme followed by a value;
// duplicate keys are kept in arrival order.
func (d *decoder) object(acc Object, k func(Object) error) error {
	lx, err := d.next(`a field name or "}"`)
	if err != nil {
		return err
	}
	switch lx.Kind {
	case ezjsonm.EndObject:
		return k(acc)
	case ezjsonm.FieldName:
		key := lx.Text
		nx, err := d.next("a member value")
		if err != nil {
			return err
		}
		return d.value(nx, func(v Value) error {
			return d.object(append(acc, &Member{Key: key, Value: v}), k)
		})
	}
	return &ProtocolError{Lexeme: lx, Want: `a field name or "}"`}
}
