// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the gettext header date format.
const DateLayout = "2006-01-02 15:04-0700"

const (
	placeholderRevisionDate = "YEAR-MO-DA HO:MI+ZONE"
	placeholderTranslator   = "FULL NAME <EMAIL@ADDRESS>"
	placeholderTeam         = "LANGUAGE <LL@li.org>"

	defaultPlurals = 2
)

var npluralsRegexp = regexp.MustCompile(`nplurals\s*=\s*(\d+)`)

// Field is a header field that has no dedicated Header member.
type Field struct {
	Key   string
	Value string
}

// Header is the metadata carried by the msgid "" entry of a catalogue,
// plus the comment block above it.
type Header struct {
	Project         string
	Version         string
	CopyrightHolder string
	BugsAddress     string

	// Locale is the catalogue's language, empty for a template.
	Locale string

	CreationDate   time.Time
	RevisionDate   time.Time
	LastTranslator string
	LanguageTeam   string
	PluralForms    string
	GeneratedBy    string

	// Fuzzy is the file-level fuzzy marker on the header entry.
	Fuzzy bool

	// Comments are the header comment lines without their leading "# ".
	Comments []string

	// Extra holds unknown fields in their original order.
	Extra []Field
}

// Clone returns a deep copy of h.
func (h Header) Clone() Header {
	h.Comments = slices.Clone(h.Comments)
	h.Extra = slices.Clone(h.Extra)

	return h
}

// NumPlurals returns nplurals from the Plural-Forms field, or 2 when absent.
func (h *Header) NumPlurals() int {
	m := npluralsRegexp.FindStringSubmatch(h.PluralForms)
	if m == nil {
		return defaultPlurals
	}

	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return defaultPlurals
	}

	return n
}

// TemplateComments returns the conventional comment block of a template.
func TemplateComments(project, holder string, year int) []string {
	return []string{
		fmt.Sprintf("Translations template for %s.", project),
		fmt.Sprintf("Copyright (C) %d %s", year, holder),
		fmt.Sprintf("This file is distributed under the same license as the %s project.", project),
		fmt.Sprintf("FIRST AUTHOR <EMAIL@ADDRESS>, %d.", year),
		"",
	}
}

// String renders the header as the msgstr of the msgid "" entry.
func (h *Header) String() string {
	var b strings.Builder

	field := func(k, v string) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteByte('\n')
	}

	project := h.Project
	if h.Version != "" {
		project += " " + h.Version
	}

	field("Project-Id-Version", project)
	field("Report-Msgid-Bugs-To", h.BugsAddress)
	field("POT-Creation-Date", formatDate(h.CreationDate, ""))
	field("PO-Revision-Date", formatDate(h.RevisionDate, placeholderRevisionDate))
	field("Last-Translator", orDefault(h.LastTranslator, placeholderTranslator))

	if h.Locale != "" {
		field("Language", h.Locale)
	}

	field("Language-Team", orDefault(h.LanguageTeam, placeholderTeam))

	if h.PluralForms != "" {
		field("Plural-Forms", h.PluralForms)
	}

	field("MIME-Version", "1.0")
	field("Content-Type", "text/plain; charset=utf-8")
	field("Content-Transfer-Encoding", "8bit")

	for _, f := range h.Extra {
		field(f.Key, f.Value)
	}

	if h.GeneratedBy != "" {
		field("Generated-By", h.GeneratedBy)
	}

	return b.String()
}

// parse fills h from a header msgstr. Unknown fields land in Extra.
func (h *Header) parse(msgstr string) {
	for line := range strings.SplitSeq(msgstr, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "Project-Id-Version":
			h.Project = value
		case "Report-Msgid-Bugs-To":
			h.BugsAddress = value
		case "POT-Creation-Date":
			h.CreationDate = parseDate(value)
		case "PO-Revision-Date":
			h.RevisionDate = parseDate(value)
		case "Last-Translator":
			h.LastTranslator = stripPlaceholder(value, placeholderTranslator)
		case "Language":
			h.Locale = value
		case "Language-Team":
			h.LanguageTeam = stripPlaceholder(value, placeholderTeam)
		case "Plural-Forms":
			h.PluralForms = value
		case "Generated-By":
			h.GeneratedBy = value
		case "MIME-Version", "Content-Type", "Content-Transfer-Encoding":
			// Always written as UTF-8, 8bit.
		default:
			h.Extra = append(h.Extra, Field{Key: key, Value: value})
		}
	}
}

func formatDate(t time.Time, placeholder string) string {
	if t.IsZero() {
		return placeholder
	}

	return t.Format(DateLayout)
}

func parseDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}
	}

	return t
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}

	return s
}

func stripPlaceholder(s, placeholder string) string {
	if s == placeholder {
		return ""
	}

	return s
}
