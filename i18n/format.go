// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// placeholderPattern matches the placeholders gotext.Sprintf substitutes.
var placeholderPattern = regexp.MustCompile(`%\(([a-zA-Z0-9_]+)\)[.0-9]*[svTtbcdoqXxUeEfFgGp]`)

// Named holds values for %(name)s placeholders.
//
// Passing a Named value as the only format argument selects named
// substitution. Mixing Named with other arguments is not supported: the
// arguments are then applied positionally.
type Named map[string]any

// Format substitutes args into s. A single [Named] argument selects
// %(name)s substitution; any other arguments are applied positionally; with
// no arguments s is returned unchanged. [Translatable] arguments are not
// resolved here; use the context helpers for that.
//
// Verbs are Go fmt verbs on both paths, except that %s formats any value
// the way %v does, so "%s items" with 5 gives "5 items".
func (r *Resolver) Format(s string, args ...any) string {
	return r.format(s, args)
}

func (r *Resolver) format(s string, args []any) string {
	switch {
	case len(args) == 0:
		return s
	case len(args) == 1:
		if named, ok := args[0].(Named); ok {
			return r.formatNamed(s, named)
		}
	}

	wrapped := make([]any, len(args))
	for i, a := range args {
		wrapped[i] = arg{a}
	}

	return fmt.Sprintf(s, wrapped...)
}

// formatNamed hands s to gotext.Sprintf. A string without placeholders is
// returned as is. Names absent from values are printed back as written.
func (r *Resolver) formatNamed(s string, values Named) string {
	if !strings.Contains(s, "%(") {
		return s
	}

	names := r.formats.GetOrAdd(s, func() []string { return placeholderNames(s) })
	if len(names) == 0 {
		return s
	}

	params := make(map[string]interface{}, len(names))

	for _, name := range names {
		if v, ok := values[name]; ok {
			params[name] = arg{v}
		} else {
			params[name] = missingArg(name)
		}
	}

	return gotext.Sprintf(s, params)
}

// placeholderNames returns the distinct placeholder names of s in order.
func placeholderNames(s string) []string {
	var names []string

	for _, m := range placeholderPattern.FindAllStringSubmatch(s, -1) {
		seen := false

		for _, n := range names {
			if n == m[1] {
				seen = true

				break
			}
		}

		if !seen {
			names = append(names, m[1])
		}
	}

	return names
}

// arg formats a substituted value, reading %s as %v.
type arg struct{ v any }

func (a arg) Format(f fmt.State, verb rune) {
	if verb == 's' {
		verb = 'v'
	}

	fmt.Fprintf(f, fmt.FormatString(f, verb), a.v)
}

// missingArg prints its placeholder back, flags and verb included.
type missingArg string

func (m missingArg) Format(f fmt.State, verb rune) {
	fmt.Fprintf(f, "%%(%s)%s", string(m), strings.TrimPrefix(fmt.FormatString(f, verb), "%"))
}
