// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

var (
	// DefaultExcludeDirs are directory names never descended into.
	// Directories whose name starts with "." are always skipped.
	DefaultExcludeDirs = []string{"vendor", "node_modules", "testdata"}

	// DefaultExcludeFiles are base-name globs of files never extracted.
	DefaultExcludeFiles = []string{"*_test.go", "*_templ.go"}
)

// Scanner walks directory trees and extracts messages from matching files.
//
// Nil ExcludeDirs and ExcludeFiles fall back to [DefaultExcludeDirs] and
// [DefaultExcludeFiles]; an empty non-nil slice excludes nothing.
type Scanner struct {
	// Methods are tried in order; the first whose pattern matches a file's
	// base name extracts it. Files matching no method are ignored.
	Methods []Method

	ExcludeDirs  []string
	ExcludeFiles []string

	// Logger receives per-file failures. Nil means the global logger.
	Logger *zerolog.Logger
}

// Scan is shorthand for a [Scanner] with the given methods and default exclusions.
func Scan(root string, methods []Method) iter.Seq[Occurrence] {
	s := &Scanner{Methods: methods}

	return s.Scan(root)
}

// Scan returns a lazy sequence of every message found under root.
//
// Files are visited in lexical order. A file that cannot be read or
// extracted is logged and skipped; the walk continues. The sequence can be
// iterated again to rescan.
func (s *Scanner) Scan(root string) iter.Seq[Occurrence] {
	return func(yield func(Occurrence) bool) {
		logger := defaultLogger(s.Logger)

		excludeDirs := s.ExcludeDirs
		if excludeDirs == nil {
			excludeDirs = DefaultExcludeDirs
		}

		excludeFiles := s.ExcludeFiles
		if excludeFiles == nil {
			excludeFiles = DefaultExcludeFiles
		}

		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable path")

				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}

				return nil
			}

			name := d.Name()

			if d.IsDir() {
				if path != root && (strings.HasPrefix(name, ".") || slices.Contains(excludeDirs, name)) {
					return filepath.SkipDir
				}

				return nil
			}

			if matchAny(excludeFiles, name) {
				return nil
			}

			m := s.method(name)
			if m == nil {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil || rel == "." {
				rel = name
			}

			rel = filepath.ToSlash(rel)

			src, err := os.ReadFile(path) // #nosec G304 -- walking a caller-supplied tree
			if err != nil {
				logger.Warn().Err(err).Str("file", rel).Msg("Skipping unreadable file")

				return nil
			}

			msgs, err := m.Extractor.Extract(path, src)
			if err != nil {
				logger.Warn().Err(err).Str("file", rel).Msg("Skipping file that failed extraction")

				return nil
			}

			for _, msg := range msgs {
				if !yield(Occurrence{Path: rel, Message: msg}) {
					return filepath.SkipAll
				}
			}

			return nil
		})
		if walkErr != nil {
			logger.Warn().Err(walkErr).Str("root", root).Msg("Scan stopped early")
		}
	}
}

func (s *Scanner) method(name string) *Method {
	for i := range s.Methods {
		if ok, _ := filepath.Match(s.Methods[i].Pattern, name); ok {
			return &s.Methods[i]
		}
	}

	return nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}

	return false
}
