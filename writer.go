// Copyright (C) 2024 J. Chanco. All Rights Reserved.

package ezjsonm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// WriterOptions carry the formatting settings for a Writer.
// A nil *WriterOptions is ready for use and provides indented output.
type WriterOptions struct {
	// Emit no whitespace between tokens. When false, output is indented
	// with one member or element per line.
	Compact bool

	// The indentation unit for non-compact output. If empty, two spaces
	// are used.
	Indent string
}

func (o *WriterOptions) compact() bool {
	return o != nil && o.Compact
}

func (o *WriterOptions) indent() string {
	if o == nil || o.Indent == "" {
		return "  "
	}
	return o.Indent
}

// A Writer renders a lexeme stream as JSON text on an underlying io.Writer.
// It inserts the commas, colons and (unless compact) whitespace that the
// lexeme vocabulary omits, and verifies that the lexemes it is given form a
// balanced document with an object or array at the root. Formatting only
// ever changes whitespace, never the token sequence.
//
// The caller must call Finish after the last lexeme to flush buffered
// output.
type Writer struct {
	w       *bufio.Writer
	compact bool
	indent  string

	stack []wframe
	state wstate
	err   error
}

type wframe struct {
	kind Kind // BeginObject or BeginArray
	n    int  // members or elements written so far
}

type wstate byte

const (
	writeRoot   wstate = iota // before the root container
	writeInside               // inside a container, at member/element position
	writeValue                // inside an object, after a FieldName
	writeEnd                  // after the root container
	writeDone                 // after Finish
)

// NewWriter constructs a Writer that renders output to w using the settings
// from opts.
func NewWriter(w io.Writer, opts *WriterOptions) *Writer {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}
	return &Writer{w: bw, compact: opts.compact(), indent: opts.indent()}
}

// Emit renders a single lexeme. A lexeme that would unbalance the document
// or violate the grammar is an error, and no output is written for it.
func (w *Writer) Emit(lx Lexeme) error {
	if w.err != nil {
		return w.err
	}
	if err := w.emit(lx); err != nil {
		w.err = err
		return err
	}
	return nil
}

func (w *Writer) emit(lx Lexeme) error {
	switch lx.Kind {
	case BeginObject, BeginArray:
		if err := w.beginValue(); err != nil {
			return err
		}
		w.stack = append(w.stack, wframe{kind: lx.Kind})
		w.state = writeInside
		if lx.Kind == BeginObject {
			return w.w.WriteByte('{')
		}
		return w.w.WriteByte('[')

	case EndObject, EndArray:
		open := BeginObject
		if lx.Kind == EndArray {
			open = BeginArray
		}
		if len(w.stack) == 0 {
			return fmt.Errorf("unbalanced %v", lx.Kind)
		} else if top := w.stack[len(w.stack)-1]; top.kind != open {
			return fmt.Errorf("mismatched %v inside %v", lx.Kind, top.kind)
		} else if w.state == writeValue {
			return fmt.Errorf("%v where a member value is required", lx.Kind)
		} else if !w.compact && top.n > 0 {
			w.w.WriteByte('\n')
			w.writeIndent(len(w.stack) - 1)
		}
		w.stack = w.stack[:len(w.stack)-1]
		w.afterValue()
		if lx.Kind == EndObject {
			return w.w.WriteByte('}')
		}
		return w.w.WriteByte(']')

	case FieldName:
		if len(w.stack) == 0 || w.stack[len(w.stack)-1].kind != BeginObject || w.state != writeInside {
			return errors.New("field name outside an object")
		}
		w.writeSep()
		w.w.WriteString(Quote(lx.Text))
		w.w.WriteByte(':')
		if !w.compact {
			w.w.WriteByte(' ')
		}
		w.state = writeValue
		return nil

	case Null, Bool, Number, String:
		if w.state == writeRoot {
			return errors.New("document root must be an object or array")
		}
		if err := w.beginValue(); err != nil {
			return err
		}
		text, err := scalarText(lx)
		if err != nil {
			return err
		}
		w.afterValue()
		_, werr := w.w.WriteString(text)
		return werr
	}
	return fmt.Errorf("invalid lexeme %v", lx.Kind)
}

// Finish marks the end of the document and flushes buffered output.
// It is an error to call Finish with unclosed containers, or before any
// document has been written.
func (w *Writer) Finish() error {
	if w.err != nil {
		return w.err
	}
	if len(w.stack) != 0 {
		w.err = fmt.Errorf("finish with %d unclosed containers", len(w.stack))
		return w.err
	} else if w.state != writeEnd {
		w.err = errors.New("finish before a document was written")
		return w.err
	}
	w.state = writeDone
	if err := w.w.Flush(); err != nil {
		w.err = err
		return err
	}
	w.err = errors.New("write after finish")
	return nil
}

// beginValue validates that a value may occur here and writes any separator
// it needs. In an object a value is only legal directly after a FieldName,
// which already wrote its own separator.
func (w *Writer) beginValue() error {
	switch w.state {
	case writeRoot:
		return nil
	case writeValue:
		w.state = writeInside
		return nil
	case writeInside:
		if w.stack[len(w.stack)-1].kind == BeginObject {
			return errors.New("member value without a field name")
		}
		w.writeSep()
		return nil
	case writeEnd:
		return errors.New("value after the document root")
	}
	return errors.New("write after finish")
}

// writeSep writes the separator before the next member or element of the
// innermost container and counts it.
func (w *Writer) writeSep() {
	top := &w.stack[len(w.stack)-1]
	if top.n > 0 {
		w.w.WriteByte(',')
	}
	if !w.compact {
		w.w.WriteByte('\n')
		w.writeIndent(len(w.stack))
	}
	top.n++
}

// afterValue updates the grammar state after a complete value.
func (w *Writer) afterValue() {
	if len(w.stack) == 0 {
		w.state = writeEnd
	} else {
		w.state = writeInside
	}
}

func (w *Writer) writeIndent(depth int) {
	w.w.WriteString(strings.Repeat(w.indent, depth))
}

// scalarText renders the literal text of a scalar lexeme.
func scalarText(lx Lexeme) (string, error) {
	switch lx.Kind {
	case Null:
		return "null", nil
	case Bool:
		if lx.Flag {
			return "true", nil
		}
		return "false", nil
	case String:
		return Quote(lx.Text), nil
	case Number:
		if math.IsNaN(lx.Num) || math.IsInf(lx.Num, 0) {
			return "", fmt.Errorf("number %v has no JSON representation", lx.Num)
		}
		return strconv.FormatFloat(lx.Num, 'g', -1, 64), nil
	}
	return "", fmt.Errorf("not a scalar: %v", lx.Kind)
}
