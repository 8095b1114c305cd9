// Copyright (C) 2024 J. Chanco. All Rights Reserved.

package ezjsonm

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"github.com/jchanco/ezjsonm/internal/escape"

	"go4.org/mem"
)

// A Scanner reads the lexemes of a single JSON document from an input
// stream. Each call to Next yields the next lexeme, or reports an error.
// Once the document root has been fully consumed, Next reports io.EOF;
// non-whitespace input after the root is an error.
//
// The scanner enforces the JSON grammar as it tokenizes: commas and colons
// are consumed internally and never surfaced, object keys are reported as
// FieldName lexemes distinct from String values, and the document root must
// be an object or an array. A consumer of its output therefore never sees a
// lexeme out of grammatical order.
type Scanner struct {
	r   *bufio.Reader
	buf bytes.Buffer // text of the current lexeme

	stack []Kind // enclosing containers, innermost last
	state scanState
	err   error

	pos, end int // start and end offsets of the current lexeme
	last     int // size in bytes of the last-read input rune

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
}

type scanState byte

const (
	scanRoot     scanState = iota // before the root container
	scanValue                     // a value is required
	scanKey                       // an object key is required
	scanKeyClose                  // an object key or "}" is permitted
	scanValClose                  // a value or "]" is permitted
	scanObjNext                   // "," or "}" is permitted
	scanArrNext                   // "," or "]" is permitted
	scanEnd                       // after the root container
)

// NewScanner constructs a new Scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{r: br}
}

// Next returns the next lexeme of the document, or reports an error.
// After the document root is complete and only whitespace remains, Next
// returns io.EOF. Malformed input is reported as a *SyntaxError; Next never
// yields a partial lexeme.
func (s *Scanner) Next() (Lexeme, error) {
	if s.err != nil {
		return Lexeme{}, s.err
	}
	lx, err := s.scan()
	if err != nil {
		s.err = err
		return Lexeme{}, err
	}
	return lx, nil
}

func (s *Scanner) scan() (Lexeme, error) {
	for {
		ch, err := s.skipSpace()
		if err == io.EOF {
			if s.state == scanEnd {
				return Lexeme{}, io.EOF
			}
			return Lexeme{}, s.failf(nil, "unexpected end of input")
		} else if err != nil {
			return Lexeme{}, s.fail(err)
		}

		switch s.state {
		case scanRoot:
			switch ch {
			case '{':
				return s.open(BeginObject, scanKeyClose), nil
			case '[':
				return s.open(BeginArray, scanValClose), nil
			}
			return Lexeme{}, s.failf(nil, "document root must be an object or array, got %q", ch)

		case scanKey, scanKeyClose:
			if ch == '}' && s.state == scanKeyClose {
				return s.close(EndObject)
			} else if ch != '"' {
				return Lexeme{}, s.failf(nil, "expected field name, got %q", ch)
			}
			text, err := s.scanString()
			if err != nil {
				return Lexeme{}, err
			}
			lx := s.make(FieldName)
			lx.Text = text
			if err := s.expect(':'); err != nil {
				return Lexeme{}, err
			}
			s.state = scanValue
			return lx, nil

		case scanValue, scanValClose:
			if ch == ']' && s.state == scanValClose {
				return s.close(EndArray)
			}
			return s.scanValue(ch)

		case scanObjNext, scanArrNext:
			closer, kind, next := '}', EndObject, scanKey
			if s.state == scanArrNext {
				closer, kind, next = ']', EndArray, scanValue
			}
			switch ch {
			case ',':
				s.state = next
				continue
			case closer:
				return s.close(kind)
			}
			return Lexeme{}, s.failf(nil, "expected %q or %q, got %q", ',', closer, ch)

		case scanEnd:
			return Lexeme{}, s.failf(nil, "unexpected %q after document", ch)
		}
	}
}

// scanValue consumes a single value whose first rune is ch.
func (s *Scanner) scanValue(ch rune) (Lexeme, error) {
	switch {
	case ch == '{':
		return s.open(BeginObject, scanKeyClose), nil
	case ch == '[':
		return s.open(BeginArray, scanValClose), nil
	case ch == '"':
		text, err := s.scanString()
		if err != nil {
			return Lexeme{}, err
		}
		lx := s.make(String)
		lx.Text = text
		s.advance()
		return lx, nil
	case ch == '-' || isDigit(ch):
		num, err := s.scanNumber(ch)
		if err != nil {
			return Lexeme{}, err
		}
		lx := s.make(Number)
		lx.Num = num
		s.advance()
		return lx, nil
	}

	// Constants: true, false, null.
	var kind Kind
	var want mem.RO
	switch ch {
	case 't':
		kind, want = Bool, mem.S("true")
	case 'f':
		kind, want = Bool, mem.S("false")
	case 'n':
		kind, want = Null, mem.S("null")
	default:
		return Lexeme{}, s.failf(nil, "unexpected %q", ch)
	}
	if err := s.scanName(ch); err != nil {
		return Lexeme{}, err
	}
	if got := mem.B(s.buf.Bytes()); !got.Equal(want) {
		return Lexeme{}, s.failf(nil, "unknown constant %q", got.StringCopy())
	}
	lx := s.make(kind)
	lx.Flag = ch == 't'
	s.advance()
	return lx, nil
}

// open records the start of a container and returns its opening lexeme.
func (s *Scanner) open(kind Kind, next scanState) Lexeme {
	s.stack = append(s.stack, kind)
	s.state = next
	return s.make(kind)
}

// close pops the innermost container and returns its closing lexeme.
func (s *Scanner) close(kind Kind) (Lexeme, error) {
	s.stack = s.stack[:len(s.stack)-1]
	lx := s.make(kind)
	s.advance()
	return lx, nil
}

// advance updates the grammar state after a complete value.
func (s *Scanner) advance() {
	switch s.top() {
	case BeginObject:
		s.state = scanObjNext
	case BeginArray:
		s.state = scanArrNext
	default:
		s.state = scanEnd
	}
}

func (s *Scanner) top() Kind {
	if len(s.stack) == 0 {
		return Invalid
	}
	return s.stack[len(s.stack)-1]
}

// make assembles a lexeme of the given kind at the current location.
func (s *Scanner) make(kind Kind) Lexeme { return Lexeme{Kind: kind, Loc: s.location()} }

func (s *Scanner) location() Location {
	return Location{
		Span:  Span{Pos: s.pos, End: s.end},
		First: LineCol{Line: s.pline + 1, Column: s.pcol},
		Last:  LineCol{Line: s.eline + 1, Column: s.ecol},
	}
}

// skipSpace discards whitespace and returns the first rune of the next
// lexeme, leaving the lexeme start markers at that rune.
func (s *Scanner) skipSpace() (rune, error) {
	for {
		s.buf.Reset()
		s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
		ch, err := s.rune()
		if err != nil {
			return 0, err
		}
		if !isSpace(ch) {
			return ch, nil
		}
		if ch == '\n' {
			s.eline++
			s.ecol = 0
		}
	}
}

// expect consumes whitespace and the single rune want.
func (s *Scanner) expect(want rune) error {
	ch, err := s.skipSpace()
	if err == io.EOF {
		return s.failf(nil, "unexpected end of input")
	} else if err != nil {
		return s.fail(err)
	} else if ch != want {
		return s.failf(nil, "expected %q, got %q", want, ch)
	}
	return nil
}

// scanString consumes the body and closing quote of a string whose opening
// quote has already been read, and returns the decoded text.
func (s *Scanner) scanString() (string, error) {
	var esc bool
	for {
		ch, err := s.rune()
		if err != nil {
			return "", s.fail(err)
		} else if ch == '"' && !esc {
			dec, err := escape.Unquote(mem.B(s.buf.Bytes()))
			if err != nil {
				return "", s.failf(err, "invalid string: %v", err)
			}
			return string(dec), nil
		}
		if esc {
			// We are awaiting the completion of a \-escape.
			switch ch {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				s.buf.WriteByte(byte(ch))
			case 'u':
				s.buf.WriteByte(byte(ch))
				if err := s.readHex4(); err != nil {
					return "", s.failf(err, "invalid Unicode escape: %v", err)
				}
			default:
				return "", s.failf(nil, "invalid %q after escape", ch)
			}
			esc = false
		} else if ch < ' ' {
			return "", s.failf(nil, "unescaped control %q", ch)
		} else if ch > unicode.MaxRune {
			return "", s.failf(nil, "invalid Unicode rune %q", ch)
		} else {
			s.buf.WriteRune(ch)
			esc = ch == '\\'
		}
	}
}

// readHex4 reads exactly 4 hexadecimal digits from the input.
func (s *Scanner) readHex4() error {
	for i := 0; i < 4; i++ {
		ch, err := s.rune()
		if err != nil {
			return err
		} else if !isHexDigit(ch) {
			return fmt.Errorf("not a hex digit: %q", ch)
		}
		s.buf.WriteRune(ch)
	}
	return nil
}

// scanNumber consumes a number whose first rune is start and parses it.
// All numbers, integers included, are represented as float64.
func (s *Scanner) scanNumber(start rune) (float64, error) {
	s.buf.WriteRune(start)

	if start == '-' {
		// A leading sign requires at least one digit after it.
		ch, err := s.require(isDigit, "digit")
		if err != nil {
			return 0, err
		}
		s.buf.WriteRune(ch)
	}

	// Consume the remainder of the integer part.
	_, ch, err := s.readWhile(isDigit)
	if err == io.EOF {
		return s.parseNumber()
	} else if err != nil {
		return 0, s.fail(err)
	}

	// Extra leading zeroes are disallowed: 0.12 is OK, 01.2 is not.
	if hasExtraLeadingZeroes(s.buf.Bytes()) {
		return 0, s.failf(nil, "extra leading zeroes")
	}

	// If a decimal point follows, consume a fractional part.
	if ch == '.' {
		s.buf.WriteRune(ch)
		var nr int
		nr, ch, err = s.readWhile(isDigit)
		if err == io.EOF && nr > 0 {
			return s.parseNumber()
		} else if err != nil {
			return 0, s.fail(err)
		} else if nr == 0 {
			return 0, s.failf(nil, "no digits after decimal point")
		}
	}

	// If an exponent follows, consume it.
	if ch != 'E' && ch != 'e' {
		s.unrune()
		return s.parseNumber()
	}
	s.buf.WriteRune(ch)
	ch, err = s.require(isExpStart, "sign or digit")
	if err != nil {
		return 0, err
	}
	s.buf.WriteRune(ch)
	nr, _, err := s.readWhile(isDigit)
	if nr == 0 && (ch == '-' || ch == '+') {
		return 0, s.failf(nil, "missing exponent digits")
	} else if err == io.EOF {
		return s.parseNumber()
	} else if err != nil {
		return 0, s.fail(err)
	}
	s.unrune()
	return s.parseNumber()
}

func (s *Scanner) parseNumber() (float64, error) {
	v, err := strconv.ParseFloat(s.buf.String(), 64)
	if err != nil {
		return 0, s.failf(err, "invalid number %q", s.buf.String())
	}
	return v, nil
}

// scanName consumes the remainder of a bare name (true, false, null).
func (s *Scanner) scanName(first rune) error {
	s.buf.Reset()
	s.buf.WriteRune(first)
	_, _, err := s.readWhile(isNameRune)
	if err == io.EOF {
		return nil
	} else if err != nil {
		return s.fail(err)
	}
	s.unrune()
	return nil
}

func (s *Scanner) rune() (rune, error) {
	ch, nb, err := s.r.ReadRune()
	s.last = nb
	s.end += nb
	s.ecol += nb
	return ch, err
}

func (s *Scanner) unrune() {
	s.end -= s.last
	s.ecol -= s.last
	s.last = 0
	s.r.UnreadRune()
}

// require reads a single rune matching f from the input, or reports an
// error mentioning the desired label.
func (s *Scanner) require(f func(rune) bool, label string) (rune, error) {
	ch, err := s.rune()
	if err != nil {
		return 0, s.failf(err, "want %s, got error: %v", label, err)
	} else if !f(ch) {
		s.unrune()
		return 0, s.failf(nil, "got %q, want %s", ch, label)
	}
	return ch, nil
}

// readWhile consumes runes matching f from the input until EOF or until a
// rune not matching f is found. The first non-matching rune (if any) is
// returned; it is the caller's responsibility to unread it if desired.
// The int reports the number of runes consumed.
func (s *Scanner) readWhile(f func(rune) bool) (int, rune, error) {
	var nr int
	for {
		ch, err := s.rune()
		if err != nil {
			return nr, 0, err
		} else if !f(ch) {
			return nr, ch, nil
		}
		s.buf.WriteRune(ch)
		nr++
	}
}

func (s *Scanner) fail(err error) error {
	return s.failf(err, "%v", err)
}

func (s *Scanner) failf(err error, msg string, args ...any) error {
	return &SyntaxError{
		First:   LineCol{Line: s.pline + 1, Column: s.pcol},
		Last:    LineCol{Line: s.eline + 1, Column: s.ecol},
		Message: fmt.Sprintf(msg, args...),
		err:     err,
	}
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isExpStart(ch rune) bool { return ch == '-' || ch == '+' || isDigit(ch) }
func isDigit(ch rune) bool    { return '0' <= ch && ch <= '9' }
func isNameRune(ch rune) bool { return ch >= 'a' && ch <= 'z' }

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// hasExtraLeadingZeroes reports whether the representation of an integer in
// buf has redundant leading zeroes, disallowed by the JSON grammar.
//
// OK: 0, 0.1, -1.0, -0.1 are all OK.
// Bad: -01, 01.2, -01.0, 00.1.
func hasExtraLeadingZeroes(buf []byte) bool {
	if buf[0] == '-' {
		buf = buf[1:] // skip leading sign
	}
	if buf[0] == '0' {
		// A leading zero is OK if it's the only digit.
		return len(buf) > 1
	}
	return false
}
