// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package catalog models gettext message catalogues and reads and writes them in
their portable forms: the textual .po/.pot form and the compiled .mo form.

A [Catalog] is an ordered set of [Entry] values keyed by msgid. Insertion order
is preserved so that a catalogue read from disk and written back produces the
same entry order.
*/
package catalog

import (
	"iter"
	"slices"
	"strconv"
)

// Location is a single source occurrence of a message.
type Location struct {
	Path string
	Line int
}

// String formats l as a gettext reference, "path:line".
func (l Location) String() string {
	if l.Line <= 0 {
		return l.Path
	}

	return l.Path + ":" + strconv.Itoa(l.Line)
}

// Entry is one translatable unit.
type Entry struct {
	// ID is the untranslated source string. It is unique within a catalogue.
	ID string

	// PluralID is the msgid_plural, empty for entries without plural forms.
	PluralID string

	// Translation is the msgstr of a singular entry.
	Translation string

	// PluralTranslations holds msgstr[0..n] of a plural entry.
	PluralTranslations []string

	// Locations are the source occurrences. Diagnostic only, not part of identity.
	Locations []Location

	// AutoComments are extractor-supplied notes ("#." lines).
	AutoComments []string

	// TranslatorComments are "# " lines written by humans.
	TranslatorComments []string

	// Flags are the "#," flags other than fuzzy, for example "python-format".
	Flags []string

	// Fuzzy marks a translation that is present but unconfirmed.
	Fuzzy bool

	// Line is the line of the msgid keyword in the file the entry was read from,
	// or 0 when the entry was not read from a file.
	Line int
}

// IsPlural reports whether e has plural forms.
func (e *Entry) IsPlural() bool {
	return e.PluralID != ""
}

// Translated reports whether e carries any non-empty translation.
func (e *Entry) Translated() bool {
	if !e.IsPlural() {
		return e.Translation != ""
	}

	return slices.ContainsFunc(e.PluralTranslations, func(s string) bool { return s != "" })
}

// Text returns the translation shown in diagnostics: the singular translation,
// or the first plural form.
func (e *Entry) Text() string {
	if e.IsPlural() && len(e.PluralTranslations) > 0 {
		return e.PluralTranslations[0]
	}

	return e.Translation
}

// Clone returns a deep copy of e.
func (e *Entry) Clone() *Entry {
	c := *e
	c.PluralTranslations = slices.Clone(e.PluralTranslations)
	c.Locations = slices.Clone(e.Locations)
	c.AutoComments = slices.Clone(e.AutoComments)
	c.TranslatorComments = slices.Clone(e.TranslatorComments)
	c.Flags = slices.Clone(e.Flags)

	return &c
}

// Catalog is an ordered collection of entries plus header metadata.
//
// The zero value is not ready for use; construct with [New].
type Catalog struct {
	Header

	entries []*Entry
	index   map[string]int
}

// New returns an empty catalogue with the given header.
func New(h Header) *Catalog {
	return &Catalog{
		Header: h.Clone(),
		index:  make(map[string]int),
	}
}

// Len returns the number of entries, excluding the header.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Get returns the entry for id.
func (c *Catalog) Get(id string) (*Entry, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}

	return c.entries[i], true
}

// All yields the entries in catalogue order.
func (c *Catalog) All() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for _, e := range c.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// IDs returns the msgids in catalogue order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.entries))
	for i, e := range c.entries {
		ids[i] = e.ID
	}

	return ids
}

// Put inserts e, or replaces the entry with the same ID in place.
func (c *Catalog) Put(e *Entry) {
	if i, ok := c.index[e.ID]; ok {
		c.entries[i] = e

		return
	}

	c.index[e.ID] = len(c.entries)
	c.entries = append(c.entries, e)
}

// Add records an occurrence of a message as the template builder sees it.
//
// A new id is inserted with loc and comments. For an existing id, loc is appended
// unless already present; comments are kept from the first occurrence.
// A plural id is filled in if the existing entry lacks one.
func (c *Catalog) Add(id, pluralID string, loc Location, comments []string) *Entry {
	if e, ok := c.Get(id); ok {
		if !slices.Contains(e.Locations, loc) {
			e.Locations = append(e.Locations, loc)
		}

		if e.PluralID == "" {
			e.PluralID = pluralID
		}

		return e
	}

	e := &Entry{
		ID:           id,
		PluralID:     pluralID,
		Locations:    []Location{loc},
		AutoComments: slices.Clone(comments),
	}
	c.Put(e)

	return e
}
