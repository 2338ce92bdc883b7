// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"codeberg.org/transcat/transcat/core/lrucache"
	"codeberg.org/transcat/transcat/core/memo"
)

const (
	// BaseLocale is the locale used when none is set.
	BaseLocale = "en"

	// DefaultDomain is the gettext domain loaded under each locale.
	DefaultDomain = "messages"

	defaultFormatCacheSize = 512
)

var errInvalidBaseLocale = errors.New("invalid base locale")

// LegacyLookup resolves keys that predate the gettext catalogues.
// [legacy.Table] implements it.
//
// [legacy.Table]: codeberg.org/transcat/transcat/i18n/legacy.Table
type LegacyLookup interface {
	Lookup(namespace, key string) (string, bool)
}

// Options configures a [Resolver].
type Options struct {
	// Root is the catalogue root holding <locale>/<domain>.mo files.
	Root string

	// Domain is the catalogue file name without extension. Defaults to [DefaultDomain].
	Domain string

	// BaseLocale is used when a context carries no locale. Defaults to [BaseLocale].
	BaseLocale string

	// Legacy is consulted by [Resolver.Key] after the compiled catalogue.
	Legacy LegacyLookup

	// Provider supplies the active locale to the context helpers.
	// Defaults to [ContextLocale].
	Provider LocaleProvider

	// StrictMissingKeys logs every missing translation once per locale and message.
	StrictMissingKeys bool

	// FormatCacheSize bounds the number of named-format strings whose
	// placeholder names are kept.
	FormatCacheSize int

	// Logger defaults to the global logger tagged with sys=i18n.
	Logger *zerolog.Logger
}

// Resolver resolves messages against compiled catalogues.
//
// Catalogues and locale metadata are loaded on first use and kept until
// [Resolver.Invalidate] or [Resolver.InvalidateAll]. A locale without a
// compiled catalogue is remembered as absent. A Resolver is safe for
// concurrent use.
type Resolver struct {
	root     string
	domain   string
	base     string
	baseTag  language.Tag
	legacy   LegacyLookup
	provider LocaleProvider
	strict   bool
	logger   zerolog.Logger

	catalogs *memo.Memo[*compiled]
	metadata *memo.Memo[*Metadata]
	formats  *lrucache.Cache[[]string]

	// missingOnce deduplicates strict-mode warnings.
	// The key is locale+"\x00"+message.
	missingOnce sync.Map

	matcherMu sync.Mutex
	matcher   *localeMatcher
}

// New returns a Resolver for the catalogues under opts.Root.
func New(opts Options) (*Resolver, error) {
	r := &Resolver{
		root:     opts.Root,
		domain:   opts.Domain,
		base:     opts.BaseLocale,
		legacy:   opts.Legacy,
		provider: opts.Provider,
		strict:   opts.StrictMissingKeys,
	}

	if r.domain == "" {
		r.domain = DefaultDomain
	}

	if r.base == "" {
		r.base = BaseLocale
	}

	if r.provider == nil {
		r.provider = ContextLocale{}
	}

	if opts.Logger != nil {
		r.logger = *opts.Logger
	} else {
		r.logger = log.With().Str("sys", "i18n").Logger()
	}

	tag, err := parseLocale(r.base)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", errInvalidBaseLocale, r.base, err)
	}

	r.baseTag = tag

	size := opts.FormatCacheSize
	if size == 0 {
		size = defaultFormatCacheSize
	}

	if r.formats, err = lrucache.New[[]string](size); err != nil {
		return nil, fmt.Errorf("format cache: %w", err)
	}

	r.catalogs = memo.New(r.loadCatalog)
	r.metadata = memo.New(r.loadMetadata)

	return r, nil
}

// Base returns the base locale code.
func (r *Resolver) Base() string {
	return r.base
}

// CompiledPath returns the path of the compiled catalogue for locale.
func (r *Resolver) CompiledPath(locale string) string {
	return filepath.Join(r.root, locale, r.domain+".mo")
}

// Resolve returns the translation of message in locale, or message itself
// when there is none. args are substituted as described in [Resolver.Format].
func (r *Resolver) Resolve(locale, message string, args ...any) string {
	locale = r.normalize(locale)

	text, ok := r.catalogs.Get(locale).lookup(message)
	if !ok {
		text = message
		r.logMissingOnce(locale, message)
	}

	return r.format(text, args)
}

// ResolvePlural returns the plural form of a message for n in locale. When the
// catalogue has no usable form, singular is used for n == 1 and plural
// otherwise.
func (r *Resolver) ResolvePlural(locale, singular, plural string, n int, args ...any) string {
	locale = r.normalize(locale)

	text := plural
	if n == 1 {
		text = singular
	}

	if c := r.catalogs.Get(locale); c != nil && c.loc.IsTranslatedND(r.domain, singular, n) {
		text = c.loc.GetND(r.domain, singular, plural, n)
	} else {
		r.logMissingOnce(locale, singular)
	}

	return r.format(text, args)
}

// Key resolves key against the compiled catalogue, then the legacy lookup in
// the default namespace, and finally returns key itself.
func (r *Resolver) Key(locale, key string) string {
	locale = r.normalize(locale)

	if s, ok := r.catalogs.Get(locale).lookup(key); ok {
		return s
	}

	if r.legacy != nil {
		if s, ok := r.legacy.Lookup("", key); ok {
			return s
		}
	}

	r.logMissingOnce(locale, key)

	return key
}

// Has reports whether locale has a compiled catalogue.
func (r *Resolver) Has(locale string) bool {
	return r.catalogs.Get(r.normalize(locale)) != nil
}

// Invalidate drops the cached catalogue and metadata of locale so the next
// lookup reads it from disk again.
func (r *Resolver) Invalidate(locale string) {
	r.catalogs.Invalidate(locale)
	r.metadata.Invalidate(locale)
	r.resetMatcher()
}

// InvalidateAll drops every cached catalogue and all metadata.
func (r *Resolver) InvalidateAll() {
	r.logger.Debug().Int("formats", r.formats.Len()).Msg("Dropping cached catalogs")

	r.catalogs.Reset()
	r.metadata.Reset()
	r.formats.Purge()
	r.resetMatcher()
}

// Locales returns the base locale followed by every locale under the root
// with a compiled catalogue, sorted.
func (r *Resolver) Locales() []string {
	locales := []string{r.base}

	entries, err := os.ReadDir(r.root)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn().Err(err).Str("root", r.root).Msg("Failed to list locales")
		}

		return locales
	}

	var found []string

	for _, e := range entries {
		if !e.IsDir() || e.Name() == r.base || !validLocale(e.Name()) {
			continue
		}

		if _, err := os.Stat(r.CompiledPath(e.Name())); err == nil {
			found = append(found, e.Name())
		}
	}

	sort.Strings(found)

	return append(locales, found...)
}

// Preload loads the catalogue and metadata of every locale returned by
// [Resolver.Locales] concurrently.
func (r *Resolver) Preload(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, locale := range r.Locales() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			r.catalogs.Get(locale)
			r.metadata.Get(locale)

			return nil
		})
	}

	return g.Wait()
}

func (r *Resolver) normalize(locale string) string {
	if locale == "" {
		return r.base
	}

	return locale
}

// compiled is a loaded catalogue.
type compiled struct {
	loc *gotext.Locale

	// singular maps each msgid to its first translated form. Plural lookups
	// go through loc, which evaluates Plural-Forms.
	singular map[string]string
}

// lookup returns the singular translation of message. A nil catalogue has none.
func (c *compiled) lookup(message string) (string, bool) {
	if c == nil {
		return "", false
	}

	s, ok := c.singular[message]

	return s, ok
}

// loadCatalog reads the compiled catalogue of locale, or returns nil when the
// locale has none.
func (r *Resolver) loadCatalog(locale string) *compiled {
	if !validLocale(locale) {
		return nil
	}

	path := r.CompiledPath(locale)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn().Err(err).Str("locale", locale).Msg("Failed to read compiled catalog")
		}

		return nil
	}

	mo := gotext.NewMo()
	mo.Parse(data)

	// The base path is unused when translators are added manually.
	loc := gotext.NewLocale("", locale)
	loc.AddTranslator(r.domain, mo)

	// Form 0 is the singular whatever Plural-Forms says.
	translations := mo.GetDomain().GetTranslations()
	singular := make(map[string]string, len(translations))

	for id, tr := range translations {
		if s := tr.Trs[0]; s != "" {
			singular[id] = s
		}
	}

	r.logger.Info().
		Str("locale", locale).
		Str("domain", r.domain).
		Int("messages", len(singular)).
		Msg("Loaded locale")

	return &compiled{loc: loc, singular: singular}
}

// validLocale rejects codes that would escape the catalogue root.
func validLocale(locale string) bool {
	return locale != "" && !strings.ContainsAny(locale, `/\`) && !strings.HasPrefix(locale, ".")
}

// parseLocale accepts both underscore and hyphen separated codes.
func parseLocale(code string) (language.Tag, error) {
	return language.Parse(strings.ReplaceAll(code, "_", "-"))
}
