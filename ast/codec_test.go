// Copyright (C) 2024 J. Chanco. All Rights Reserved.

package ast_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/jchanco/ezjsonm"
	"github.com/jchanco/ezjsonm/ast"
)

const testJSON = `{
  "list": [
    {"x": 1},
    {"x": 2}
  ],
  "y": {"hello": "there"},
  "o": ["hi", "yourself"],
  "y": [0, -1.5, 1e3, true, false, null]
}`

func TestParse(t *testing.T) {
	v, err := ast.Parse(strings.NewReader(testJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	const want = `{"list":[{"x":1},{"x":2}],"y":{"hello":"there"},` +
		`"o":["hi","yourself"],"y":[0,-1.5,1000,true,false,null]}`
	if got := v.JSON(); got != want {
		t.Errorf("Parse result:\n got %s\nwant %s", got, want)
	}
}

// Decoding and re-encoding a document must reproduce it exactly: array
// order, member order and duplicate keys included. Compact and indented
// renderings must decode to the same tree.
func TestRoundTrip(t *testing.T) {
	inputs := []string{
		`{}`,
		`[]`,
		`[[],{},[{}],{"":[]}]`,
		`{"a":1,"b":[true,null,"s"],"a":2}`,
		testJSON,
	}
	for _, input := range inputs {
		v, err := ast.Parse(strings.NewReader(input))
		if err != nil {
			t.Errorf("Input: %#q\nParse: %v", input, err)
			continue
		}

		var compact, indented bytes.Buffer
		if err := ast.Compact(&compact, v); err != nil {
			t.Errorf("Input: %#q\nCompact: %v", input, err)
			continue
		}
		if err := ast.Format(&indented, v); err != nil {
			t.Errorf("Input: %#q\nFormat: %v", input, err)
			continue
		}

		c, err := ast.Parse(&compact)
		if err != nil {
			t.Errorf("Input: %#q\nReparse compact: %v", input, err)
		} else if !ast.Equal(c, v) {
			t.Errorf("Input: %#q\nCompact round trip: got %s, want %s", input, c.JSON(), v.JSON())
		}
		f, err := ast.Parse(&indented)
		if err != nil {
			t.Errorf("Input: %#q\nReparse indented: %v", input, err)
		} else if !ast.Equal(f, v) {
			t.Errorf("Input: %#q\nIndented round trip: got %s, want %s", input, f.JSON(), v.JSON())
		}
	}
}

func TestEncodeScalarRoot(t *testing.T) {
	for _, v := range []ast.Value{ast.Null, ast.Bool(true), ast.Number(3), ast.String("s")} {
		var buf bytes.Buffer
		err := ast.Compact(&buf, v)
		var terr *ast.TypeError
		if !errors.As(err, &terr) {
			t.Errorf("Encode %s: got error %v, want *TypeError", v.JSON(), err)
		}
		if buf.Len() != 0 {
			t.Errorf("Encode %s: wrote %q before failing", v.JSON(), buf.String())
		}
	}
}

// A truncated document must produce a terminal error and no tree.
func TestDecodeTruncated(t *testing.T) {
	inputs := []string{
		`{`, `{"a"`, `{"a":`, `{"a":1`, `{"a":1,`, `[`, `[1`, `[1,`, `[[1],`,
	}
	for _, input := range inputs {
		v, err := ast.Parse(strings.NewReader(input))
		if err == nil {
			t.Errorf("Input: %#q\nParse unexpectedly returned %s", input, v.JSON())
			continue
		}
		var serr *ezjsonm.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Input: %#q\nGot error %v, want *SyntaxError", input, err)
		}
		if v != nil {
			t.Errorf("Input: %#q\nPartial tree %s returned alongside error", input, v.JSON())
		}
	}
}

// A fakeSource replays a fixed lexeme sequence, then a terminal error.
// Unlike the Scanner it does not enforce the grammar, so it can probe the
// decoder with out-of-order lexemes.
type fakeSource struct {
	lexemes []ezjsonm.Lexeme
	err     error // returned after the sequence is exhausted
}

func (f *fakeSource) Next() (ezjsonm.Lexeme, error) {
	if len(f.lexemes) == 0 {
		return ezjsonm.Lexeme{}, f.err
	}
	lx := f.lexemes[0]
	f.lexemes = f.lexemes[1:]
	return lx, nil
}

func lex(kind ezjsonm.Kind) ezjsonm.Lexeme { return ezjsonm.Lexeme{Kind: kind} }
func name(text string) ezjsonm.Lexeme      { return ezjsonm.Lexeme{Kind: ezjsonm.FieldName, Text: text} }

func TestDecodeProtocolErrors(t *testing.T) {
	tests := []struct {
		desc    string
		lexemes []ezjsonm.Lexeme
	}{
		{"value as a field name", []ezjsonm.Lexeme{
			lex(ezjsonm.BeginObject), lex(ezjsonm.Null),
		}},
		{"array close inside an object", []ezjsonm.Lexeme{
			lex(ezjsonm.BeginObject), lex(ezjsonm.EndArray),
		}},
		{"field name as a member value", []ezjsonm.Lexeme{
			lex(ezjsonm.BeginObject), name("a"), name("b"),
		}},
		{"field name inside an array", []ezjsonm.Lexeme{
			lex(ezjsonm.BeginArray), name("a"),
		}},
		{"stream ends inside an object", []ezjsonm.Lexeme{
			lex(ezjsonm.BeginObject), name("a"),
		}},
		{"stream ends inside an array", []ezjsonm.Lexeme{
			lex(ezjsonm.BeginArray), lex(ezjsonm.Number),
		}},
		{"empty stream", nil},
	}
	for _, tc := range tests {
		v, err := ast.Decode(&fakeSource{lexemes: tc.lexemes, err: io.EOF})
		var perr *ast.ProtocolError
		if !errors.As(err, &perr) {
			t.Errorf("Case %q: got error %v, want *ProtocolError", tc.desc, err)
		}
		if v != nil {
			t.Errorf("Case %q: partial tree %s returned alongside error", tc.desc, v.JSON())
		}
	}
}

func TestDecodeSourceError(t *testing.T) {
	fail := errors.New("source exploded")
	src := &fakeSource{lexemes: []ezjsonm.Lexeme{lex(ezjsonm.BeginArray)}, err: fail}
	if _, err := ast.Decode(src); !errors.Is(err, fail) {
		t.Errorf("Decode: got error %v, want %v", err, fail)
	}
}

// Deep nesting exercises the continuation chain well past any plausible
// fixed bookkeeping.
func TestDecodeDeepNesting(t *testing.T) {
	const depth = 500
	input := strings.Repeat(`[`, depth) + strings.Repeat(`]`, depth)
	v, err := ast.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var n int
	for cur := v; ; n++ {
		a, ok := cur.(ast.Array)
		if !ok {
			t.Fatalf("Depth %d: got %s, want an array", n, ast.TypeName(cur))
		}
		if len(a) == 0 {
			break
		}
		cur = a[0]
	}
	if n != depth-1 {
		t.Errorf("Got nesting depth %d, want %d", n, depth-1)
	}
}
