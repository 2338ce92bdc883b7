// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package pipeline runs the offline catalogue lifecycle over a catalogue root:

	extract   source trees -> <root>/messages.pot
	sync      messages.pot -> <root>/<locale>/messages.po, then compile
	validate  <root>/<locale>/messages.po, reporting fuzzy entries
	compile   <root>/<locale>/messages.po -> <root>/<locale>/messages.mo

Operations are meant to run one at a time; nothing here locks files.
*/
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/transcat/transcat/config"
	"codeberg.org/transcat/transcat/extract"
)

// Workspace is a catalogue root plus the settings the operations need.
type Workspace struct {
	Root string

	// Domain names the catalogue files, "messages" for messages.pot.
	Domain string

	// Template header metadata.
	Project         string
	Version         string
	CopyrightHolder string
	BugsAddress     string
	GeneratedBy     string

	// Scanner extracts messages from source roots. Nil means
	// extract.DefaultMethods with default exclusions.
	Scanner *extract.Scanner

	// Out receives one line per completed step ("updated ...").
	Out io.Writer

	// Diagnostics receives per-file extraction counts and per-catalogue
	// compile reports.
	Diagnostics io.Writer

	Logger *zerolog.Logger

	// Now stamps template creation dates. Nil means time.Now.
	Now func() time.Time
}

// Result is the outcome of a batch operation for one locale.
type Result struct {
	Locale string

	// Path is the file written for the locale.
	Path string

	Err error
}

// FromConfig builds a workspace from the loaded configuration. Out and
// Diagnostics are left nil.
func FromConfig(cfg *config.Config) *Workspace {
	g := &extract.GoExtractor{
		Keywords:    cfg.Keywords(),
		CommentTags: cfg.Extract.CommentTags,
	}

	return &Workspace{
		Root:            cfg.Catalog.Root,
		Domain:          cfg.Catalog.Domain,
		Project:         cfg.Catalog.Project,
		Version:         cfg.Catalog.Version,
		CopyrightHolder: cfg.Catalog.CopyrightHolder,
		BugsAddress:     cfg.Catalog.BugsAddress,
		GeneratedBy:     "transcat " + config.BuildVersion,
		Scanner: &extract.Scanner{
			Methods: []extract.Method{
				{Pattern: "*.go", Extractor: g},
				{Pattern: "*.templ", Extractor: &extract.TemplExtractor{Go: g, Escapes: cfg.Extract.Escapes}},
			},
			ExcludeDirs:  cfg.Extract.ExcludeDirs,
			ExcludeFiles: cfg.Extract.ExcludeFiles,
		},
	}
}

func (w *Workspace) domain() string {
	if w.Domain == "" {
		return "messages"
	}

	return w.Domain
}

// TemplatePath returns <root>/<domain>.pot.
func (w *Workspace) TemplatePath() string {
	return filepath.Join(w.Root, w.domain()+".pot")
}

// CatalogPath returns the working catalogue path of locale.
func (w *Workspace) CatalogPath(locale string) string {
	return filepath.Join(w.Root, locale, w.domain()+".po")
}

// CompiledPath returns the compiled catalogue path of locale.
func (w *Workspace) CompiledPath(locale string) string {
	return filepath.Join(w.Root, locale, w.domain()+".mo")
}

// Locales returns the subdirectories of the root that hold a working
// catalogue, in lexical order. A missing root has no locales.
func (w *Workspace) Locales() ([]string, error) {
	entries, err := os.ReadDir(w.Root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list locales in %s: %w", w.Root, err)
	}

	var locales []string

	for _, entry := range entries {
		if !entry.IsDir() || checkLocale(entry.Name()) != nil {
			continue
		}

		if fileExists(w.CatalogPath(entry.Name())) {
			locales = append(locales, entry.Name())
		}
	}

	return locales, nil
}

// checkLocale rejects codes that are empty or would escape the root.
func checkLocale(locale string) error {
	switch {
	case locale == "":
		return ErrLocaleRequired
	case strings.ContainsAny(locale, `/\`), strings.HasPrefix(locale, "."):
		return fmt.Errorf("%w: %q", ErrInvalidLocale, locale)
	}

	return nil
}

func (w *Workspace) out() io.Writer {
	if w.Out == nil {
		return io.Discard
	}

	return w.Out
}

func (w *Workspace) diagnostics() io.Writer {
	if w.Diagnostics == nil {
		return io.Discard
	}

	return w.Diagnostics
}

func (w *Workspace) logger() *zerolog.Logger {
	if w.Logger != nil {
		return w.Logger
	}

	l := log.With().Str("sys", "pipeline").Logger()

	return &l
}

func (w *Workspace) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}

	return time.Now()
}

func fileExists(path string) bool {
	if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
		return true
	}

	return false
}
