// Copyright (C) 2024 J. Chanco. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"unicode/utf8"

	"go4.org/mem"
)

const hexDigit = "0123456789abcdef"

// shortEsc maps a control byte to its single-letter escape, or 0 if the
// character needs a full \u00xx escape.
var shortEsc = [' ']byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
}

// Quote encodes src for inclusion in a JSON string. The result does not
// include the enclosing double quotation marks.
func Quote(src mem.RO) []byte {
	buf := make([]byte, 0, src.Len())
	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		src = src.SliceFrom(n)

		switch {
		case r == '"' || r == '\\':
			buf = append(buf, '\\', byte(r))
		case r >= ' ' && r < utf8.RuneSelf:
			buf = append(buf, byte(r))
		case r < ' ':
			if e := shortEsc[r]; e != 0 {
				buf = append(buf, '\\', e)
			} else {
				buf = append(buf, '\\', 'u', '0', '0', hexDigit[r>>4], hexDigit[r&15])
			}
		default:
			buf = utf8.AppendRune(buf, r)
		}
	}
	return buf
}

// Unquote decodes a JSON string body. The input must have the enclosing
// double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents. Invalid
// escapes are replaced by the Unicode replacement rune. Unquote reports an
// error for an incomplete escape sequence.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	for {
		i := mem.IndexByte(src, '\\')
		if i < 0 {
			return mem.Append(dec, src), nil
		}
		dec = mem.Append(dec, src.SliceTo(i))
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}

		r, n := mem.DecodeRune(src)
		if n == 0 {
			n = 1
		}
		src = src.SliceFrom(n)
		switch r {
		case '"', '\\', '/':
			dec = append(dec, byte(r))
		case 'b':
			dec = append(dec, '\b')
		case 'f':
			dec = append(dec, '\f')
		case 'n':
			dec = append(dec, '\n')
		case 'r':
			dec = append(dec, '\r')
		case 't':
			dec = append(dec, '\t')
		case 'u':
			if src.Len() < 4 {
				return nil, errors.New("incomplete Unicode escape")
			}
			if v, ok := parseHex4(src.SliceTo(4)); ok {
				dec = utf8.AppendRune(dec, rune(v))
			} else {
				dec = utf8.AppendRune(dec, utf8.RuneError)
			}
			src = src.SliceFrom(4)
		default:
			dec = utf8.AppendRune(dec, utf8.RuneError)
		}
	}
}

func parseHex4(data mem.RO) (int, bool) {
	var v int
	for i := 0; i < data.Len(); i++ {
		v <<= 4
		switch b := data.At(i); {
		case b >= '0' && b <= '9':
			v += int(b - '0')
		case b >= 'a' && b <= 'f':
			v += int(b - 'a' + 10)
		case b >= 'A' && b <= 'F':
			v += int(b - 'A' + 10)
		default:
			return 0, false
		}
	}
	return v, true
}
