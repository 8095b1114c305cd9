// Copyright (C) 2024 J. Chanco. All Rights Reserved.

package ezjsonm

// Kind is the type of a lexeme in the JSON grammar.
type Kind byte

// Constants defining the valid Kind values.
const (
	Invalid     Kind = iota // invalid lexeme
	BeginObject             // open brace "{"
	EndObject               // close brace "}"
	BeginArray              // open bracket "["
	EndArray                // close bracket "]"
	FieldName               // object member name
	Null                    // constant: null
	Bool                    // constant: true or false
	Number                  // number
	String                  // string value
)

var kindStr = [...]string{
	Invalid:     "invalid lexeme",
	BeginObject: `"{"`,
	EndObject:   `"}"`,
	BeginArray:  `"["`,
	EndArray:    `"]"`,
	FieldName:   "field name",
	Null:        "null",
	Bool:        "boolean",
	Number:      "number",
	String:      "string",
}

func (k Kind) String() string {
	v := int(k)
	if v >= len(kindStr) {
		return kindStr[Invalid]
	}
	return kindStr[v]
}

// A Lexeme is a single element of the lexical structure of a JSON document.
// The Kind determines which payload fields are meaningful: Text holds the
// decoded name of a FieldName and the decoded content of a String, Num the
// value of a Number, and Flag the value of a Bool. Loc records where in the
// source text the lexeme occurred, when it came from a Scanner; synthetic
// lexemes may leave it zero.
type Lexeme struct {
	Kind Kind
	Text string
	Num  float64
	Flag bool
	Loc  Location
}

// A Source is a pull interface yielding the lexemes of a JSON document one
// at a time. Next returns io.EOF when the stream is exhausted. Any other
// error is terminal: the source either produces the next lexeme or fails
// definitively, it never asks its caller to wait for more input.
type Source interface {
	Next() (Lexeme, error)
}

// A Sink is a push interface accepting the lexemes of a JSON document one
// at a time. Finish marks the end of the document; no further lexemes may
// be emitted after it. A sink may accept formatting hints at construction,
// but formatting must never change which lexemes it accepts.
type Sink interface {
	Emit(Lexeme) error
	Finish() error
}
