// Copyright (C) 2024 J. Chanco. All Rights Reserved.

// Package ezjsonm defines a lexeme-level representation of JSON documents,
// together with a pull-based tokenizer and a push-based writer for that
// representation.
//
// # Lexemes
//
// A JSON document is modelled as a flat sequence of Lexeme values: the
// structural markers BeginObject, EndObject, BeginArray and EndArray, the
// FieldName of each object member, and the scalar values Null, Bool, Number
// and String. Commas, colons and whitespace are a concern of the byte
// encoding only and never appear in the lexeme stream.
//
// # Sources
//
// The Source interface yields lexemes one at a time. Next returns io.EOF
// once the stream is exhausted; any other error is terminal. The Scanner
// type implements Source over an io.Reader:
//
//	src := ezjsonm.NewScanner(input)
//	for {
//	   lx, err := src.Next()
//	   if err == io.EOF {
//	      break
//	   } else if err != nil {
//	      log.Fatalf("Scan failed: %v", err)
//	   }
//	   log.Printf("Next lexeme: %v", lx.Kind)
//	}
//
// The scanner enforces the JSON grammar, including the rule that the
// document root must be an object or an array, so a consumer of its output
// observes only well-ordered lexemes. Lexical errors have concrete type
// *SyntaxError and carry the line and column range of the offending text.
//
// # Sinks
//
// The Sink interface accepts lexemes one at a time, with a terminal Finish
// call. The Writer type implements Sink over an io.Writer, rendering either
// compact or indented output. Formatting affects only the whitespace
// between tokens, never which tokens are written:
//
//	snk := ezjsonm.NewWriter(output, nil)
//	...
//	if err := snk.Finish(); err != nil {
//	   log.Fatalf("Write failed: %v", err)
//	}
//
// Building in-memory trees from a Source, and replaying trees into a Sink,
// is the business of the ast subpackage.
package ezjsonm
