// Copyright (C) 2024 J. Chanco. All Rights Reserved.

package ezjsonm

import "fmt"

// SyntaxError is the concrete type of errors reported by the Scanner for
// malformed input. It records the line and column range of the offending
// text.
type SyntaxError struct {
	First, Last LineCol
	Message     string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.First, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }
