// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package extract finds translatable strings in source files.

An [Extractor] turns the contents of one file into a list of [Message] values.
A [Scanner] walks a directory tree, picks an extractor per file by base-name
pattern, and yields every message it finds as an [Occurrence].

Two extractors are provided: [GoExtractor] for Go source, which recognises
calls to configured keyword functions such as Tr and TrN, and
[TemplExtractor] for templ markup, which generates Go from the template and
runs the Go extractor over the result.
*/
package extract

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Message is one translatable string found in a file.
type Message struct {
	// Line is the 1-based line of the msgid argument.
	Line int

	ID string

	// Plural is the msgid_plural, or "" for singular messages.
	Plural string

	// Comments are translator notes taken from tagged source comments,
	// with the tag removed.
	Comments []string
}

// Extractor extracts messages from the contents of a single file.
//
// The filename is used for diagnostics and position information only.
type Extractor interface {
	Extract(filename string, src []byte) ([]Message, error)
}

// ExtractorFunc adapts a function to the [Extractor] interface.
type ExtractorFunc func(filename string, src []byte) ([]Message, error)

// Extract calls f(filename, src).
func (f ExtractorFunc) Extract(filename string, src []byte) ([]Message, error) {
	return f(filename, src)
}

// Occurrence is a message together with the file it was found in.
type Occurrence struct {
	// Path is slash-separated and relative to the scanned root.
	Path string

	Message
}

// Method binds a base-name glob, such as "*.go", to an extractor.
type Method struct {
	Pattern   string
	Extractor Extractor
}

// DefaultMethods returns the Go and templ extraction methods sharing one
// [GoExtractor] with default settings.
func DefaultMethods() []Method {
	g := &GoExtractor{}

	return []Method{
		{Pattern: "*.go", Extractor: g},
		{Pattern: "*.templ", Extractor: &TemplExtractor{Go: g}},
	}
}

func defaultLogger(l *zerolog.Logger) *zerolog.Logger {
	if l != nil {
		return l
	}

	sub := log.With().Str("sys", "extract").Logger()

	return &sub
}
