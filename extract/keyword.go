// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errInvalidKeyword = errors.New("invalid keyword spec")

// Keyword describes a function whose arguments carry a msgid.
type Keyword struct {
	// Name is matched against the called function's name, ignoring any
	// package qualifier: "Tr" matches both Tr(...) and i18n.Tr(...).
	Name string

	// ID is the 0-based index of the msgid argument.
	ID int

	// Plural is the 0-based index of the msgid_plural argument, or -1.
	Plural int
}

// DefaultKeywords are recognised when a [GoExtractor] has no keywords configured.
var DefaultKeywords = []Keyword{
	{Name: "Tr", ID: 1, Plural: -1},
	{Name: "TrN", ID: 1, Plural: 2},
	{Name: "TrKey", ID: 1, Plural: -1},
	{Name: "Resolve", ID: 1, Plural: -1},
	{Name: "ResolvePlural", ID: 1, Plural: 2},
	{Name: "Lazy", ID: 0, Plural: -1},
	{Name: "LazyN", ID: 0, Plural: 1},
	{Name: "MsgKey", ID: 0, Plural: -1},
	{Name: "Gettext", ID: 0, Plural: -1},
	{Name: "NGettext", ID: 0, Plural: 1},
	{Name: "_", ID: 0, Plural: -1},
}

// ParseKeyword parses an xgettext-style keyword spec, "Name[:ID[,Plural]]",
// with 1-based argument positions. A bare name means the first argument.
//
//	ParseKeyword("Tr:2")     // Tr(ctx, "msgid")
//	ParseKeyword("TrN:2,3")  // TrN(ctx, "one", "many", n)
func ParseKeyword(spec string) (Keyword, error) {
	name, args, hasArgs := strings.Cut(strings.TrimSpace(spec), ":")
	if name == "" {
		return Keyword{}, fmt.Errorf("%w %q: empty name", errInvalidKeyword, spec)
	}

	kw := Keyword{Name: name, ID: 0, Plural: -1}
	if !hasArgs {
		return kw, nil
	}

	idArg, pluralArg, hasPlural := strings.Cut(args, ",")

	id, err := strconv.Atoi(strings.TrimSpace(idArg))
	if err != nil || id < 1 {
		return Keyword{}, fmt.Errorf("%w %q: bad msgid position", errInvalidKeyword, spec)
	}

	kw.ID = id - 1

	if hasPlural {
		plural, err := strconv.Atoi(strings.TrimSpace(pluralArg))
		if err != nil || plural < 1 || plural == id {
			return Keyword{}, fmt.Errorf("%w %q: bad plural position", errInvalidKeyword, spec)
		}

		kw.Plural = plural - 1
	}

	return kw, nil
}

// ParseKeywords parses each spec with [ParseKeyword].
func ParseKeywords(specs []string) ([]Keyword, error) {
	out := make([]Keyword, 0, len(specs))

	for _, s := range specs {
		kw, err := ParseKeyword(s)
		if err != nil {
			return nil, err
		}

		out = append(out, kw)
	}

	return out, nil
}
