// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

type contextKeyType struct{}

var localeKey = contextKeyType{}

const (
	// LangParam is the URL query parameter read by [Resolver.FromRequest].
	LangParam = "lang"

	// LangCookie is the cookie read by [Resolver.FromRequest].
	LangCookie = "lang"
)

// LocaleProvider supplies the active locale for a call. It is consulted on
// every resolution; resolvers never cache its answer.
type LocaleProvider interface {
	Locale(ctx context.Context) string
}

// LocaleProviderFunc adapts a function to [LocaleProvider].
type LocaleProviderFunc func(ctx context.Context) string

func (f LocaleProviderFunc) Locale(ctx context.Context) string {
	return f(ctx)
}

// ContextLocale reads the locale stored by [WithLocale].
type ContextLocale struct{}

func (ContextLocale) Locale(ctx context.Context) string {
	return LocaleFrom(ctx)
}

// WithLocale returns a derived context that carries locale.
//
// The ctx must not be nil.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey, locale)
}

// LocaleFrom returns the locale stored in ctx, or "" when there is none.
// A nil ctx is allowed.
func LocaleFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	locale, _ := ctx.Value(localeKey).(string)

	return locale
}

// localeMatcher matches user preferences against the available locales.
// codes[i] is the locale code of the i-th supported tag.
type localeMatcher struct {
	matcher language.Matcher
	codes   []string
}

func (r *Resolver) localeMatcher() *localeMatcher {
	r.matcherMu.Lock()
	defer r.matcherMu.Unlock()

	if r.matcher != nil {
		return r.matcher
	}

	m := &localeMatcher{}

	var tags []language.Tag

	for _, code := range r.Locales() {
		md := r.Metadata(code)
		if !md.Known {
			continue
		}

		tags = append(tags, md.Tag)
		m.codes = append(m.codes, code)
	}

	m.matcher = language.NewMatcher(tags)
	r.matcher = m

	return m
}

func (r *Resolver) resetMatcher() {
	r.matcherMu.Lock()
	r.matcher = nil
	r.matcherMu.Unlock()
}

// FromRequest returns the best available locale for req by inspecting user
// preferences in priority order:
// 1) query parameter [LangParam]
// 2) cookie [LangCookie]
// 3) Accept-Language header
//
// If [LangParam] is "auto" (case-insensitive), the cookie is ignored.
// The base locale is returned when req is nil or nothing matches.
func (r *Resolver) FromRequest(req *http.Request) string {
	if req == nil {
		return r.base
	}

	q := req.URL.Query().Get(LangParam)
	auto := strings.EqualFold(q, "auto")

	preferred := make([]string, 0, 3)
	if q != "" && !auto {
		preferred = append(preferred, strings.ReplaceAll(q, "_", "-"))
	}

	if !auto {
		if c, err := req.Cookie(LangCookie); err == nil && c.Value != "" {
			preferred = append(preferred, strings.ReplaceAll(c.Value, "_", "-"))
		}
	}

	if al := req.Header.Get("Accept-Language"); al != "" {
		preferred = append(preferred, al)
	}

	m := r.localeMatcher()

	_, index := language.MatchStrings(m.matcher, preferred...)
	if index < 0 || index >= len(m.codes) {
		return r.base
	}

	return m.codes[index]
}

// WithRequest is equivalent to WithLocale(ctx, r.FromRequest(req)).
func (r *Resolver) WithRequest(ctx context.Context, req *http.Request) context.Context {
	return WithLocale(ctx, r.FromRequest(req))
}

// Locale returns the active locale for ctx according to the resolver's
// provider, or the base locale.
func (r *Resolver) Locale(ctx context.Context) string {
	return r.normalize(r.provider.Locale(ctx))
}

// Tr resolves message in the active locale of ctx. [Translatable] arguments
// are resolved in the same locale before substitution.
func (r *Resolver) Tr(ctx context.Context, message string, args ...any) string {
	return r.Resolve(r.Locale(ctx), message, resolveArgs(ctx, args)...)
}

// TrN is the plural form of [Resolver.Tr].
func (r *Resolver) TrN(ctx context.Context, singular, plural string, n int, args ...any) string {
	return r.ResolvePlural(r.Locale(ctx), singular, plural, n, resolveArgs(ctx, args)...)
}

// TrKey resolves key in the active locale of ctx as described in
// [Resolver.Key].
func (r *Resolver) TrKey(ctx context.Context, key string) string {
	return r.Key(r.Locale(ctx), key)
}

func resolveArgs(ctx context.Context, args []any) []any {
	var out []any

	for i, a := range args {
		switch v := a.(type) {
		case Translatable:
			if out == nil {
				out = append([]any(nil), args...)
			}

			out[i] = v.Tr(ctx)
		case Named:
			named := resolveNamed(ctx, v)
			if named != nil {
				if out == nil {
					out = append([]any(nil), args...)
				}

				out[i] = named
			}
		}
	}

	if out == nil {
		return args
	}

	return out
}

// resolveNamed returns a copy of values with Translatable values resolved,
// or nil when there are none.
func resolveNamed(ctx context.Context, values Named) Named {
	var out Named

	for k, v := range values {
		t, ok := v.(Translatable)
		if !ok {
			continue
		}

		if out == nil {
			out = make(Named, len(values))
			for k2, v2 := range values {
				out[k2] = v2
			}
		}

		out[k] = t.Tr(ctx)
	}

	return out
}

var (
	defaultMu       sync.RWMutex
	defaultResolver *Resolver
)

// Default returns the resolver installed by [Setup] or [SetDefault]. Before
// either is called it returns a resolver over [DefaultDomain] catalogues in
// the "i18n" directory.
func Default() *Resolver {
	defaultMu.RLock()
	r := defaultResolver
	defaultMu.RUnlock()

	if r != nil {
		return r
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultResolver == nil {
		// The options are constant and valid.
		defaultResolver, _ = New(Options{Root: "i18n"})
	}

	return defaultResolver
}

// SetDefault installs r as the resolver used by the package-level helpers.
func SetDefault(r *Resolver) {
	defaultMu.Lock()
	defaultResolver = r
	defaultMu.Unlock()
}

// Tr resolves message with the default resolver. See [Resolver.Tr].
func Tr(ctx context.Context, message string, args ...any) string {
	return Default().Tr(ctx, message, args...)
}

// TrN resolves a plural message with the default resolver. See [Resolver.TrN].
func TrN(ctx context.Context, singular, plural string, n int, args ...any) string {
	return Default().TrN(ctx, singular, plural, n, args...)
}

// TrKey resolves key with the default resolver. See [Resolver.TrKey].
func TrKey(ctx context.Context, key string) string {
	return Default().TrKey(ctx, key)
}
