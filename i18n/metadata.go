// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Metadata describes a locale code.
type Metadata struct {
	// Code is the locale code as given, for example "pt_BR".
	Code string

	// Tag is the parsed language tag. It is the base locale's tag when
	// Known is false.
	Tag language.Tag

	// Known reports whether Code parsed as a language tag.
	Known bool

	regions   display.Namer
	languages display.Namer
}

// Metadata returns the cached metadata of locale. An unknown locale is
// described in the base locale with Known set to false.
func (r *Resolver) Metadata(locale string) *Metadata {
	return r.metadata.Get(r.normalize(locale))
}

// TerritoryName returns the name of the territory code, for example "DE", in
// locale. Unrecognised codes are returned unchanged.
func (r *Resolver) TerritoryName(locale, code string) string {
	region, err := language.ParseRegion(code)
	if err != nil {
		return code
	}

	md := r.Metadata(locale)
	if md.regions == nil {
		return code
	}

	if name := md.regions.Name(region); name != "" {
		return name
	}

	return code
}

// LanguageName returns the name of the language code, for example "pt_BR",
// in locale. Unrecognised codes are returned unchanged.
func (r *Resolver) LanguageName(locale, code string) string {
	tag, err := parseLocale(code)
	if err != nil {
		return code
	}

	md := r.Metadata(locale)
	if md.languages == nil {
		return code
	}

	if name := md.languages.Name(tag); name != "" {
		return name
	}

	return code
}

func (r *Resolver) loadMetadata(locale string) *Metadata {
	md := &Metadata{Code: locale, Tag: r.baseTag}

	if tag, err := parseLocale(locale); err == nil {
		md.Tag = tag
		md.Known = true
	} else {
		r.logger.Debug().Err(err).Str("locale", locale).Msg("Unknown locale")
	}

	md.regions = display.Regions(md.Tag)
	md.languages = display.Languages(md.Tag)

	return md
}
