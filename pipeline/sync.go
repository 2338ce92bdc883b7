// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"codeberg.org/transcat/transcat/catalog"
)

// Merge returns existing restructured to match template.
//
// The result holds exactly the template's messages, in template order.
// For messages already in existing, the translations, translator comments
// and fuzzy flag are kept while locations, extractor comments, the plural id
// and flags come from the template. New messages are untranslated and not
// fuzzy. Messages only in existing are dropped.
//
// The header is existing's, with the template's creation date.
// Neither argument is modified.
func Merge(template, existing *catalog.Catalog) *catalog.Catalog {
	h := existing.Header.Clone()
	h.CreationDate = template.Header.CreationDate

	out := catalog.New(h)

	for t := range template.All() {
		e := t.Clone()
		e.Translation = ""
		e.PluralTranslations = nil
		e.TranslatorComments = nil
		e.Fuzzy = false
		e.Line = 0

		if old, ok := existing.Get(t.ID); ok {
			e.Translation = old.Translation
			e.PluralTranslations = slices.Clone(old.PluralTranslations)
			e.TranslatorComments = slices.Clone(old.TranslatorComments)
			e.Fuzzy = old.Fuzzy

			// Carry the text across a singular/plural change instead of
			// losing it to the other form's field.
			switch {
			case e.IsPlural() && len(e.PluralTranslations) == 0 && old.Translation != "":
				e.PluralTranslations = []string{old.Translation}
				e.Translation = ""
			case !e.IsPlural() && old.IsPlural():
				e.Translation = old.Text()
				e.PluralTranslations = nil
			}
		}

		out.Put(e)
	}

	return out
}

// Sync merges the template into the working catalogue of each locale and
// compiles the catalogues it updated. With no locales, every locale with a
// working catalogue is synced.
//
// A locale without a working catalogue is reported with ErrNotInitialized
// and the batch continues. The returned error joins every per-locale failure.
func (w *Workspace) Sync(ctx context.Context, locales ...string) ([]Result, error) {
	if len(locales) == 0 {
		var err error
		if locales, err = w.Locales(); err != nil {
			return nil, err
		}
	}

	fmt.Fprintf(w.out(), "Updating %v\n", locales)

	template, err := catalog.ReadFile(w.TemplatePath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoTemplate, w.TemplatePath())
	}

	if err != nil {
		return nil, err
	}

	var (
		results []Result
		errs    []error
		synced  []string
	)

	for _, locale := range locales {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)

			break
		}

		res := Result{Locale: locale, Path: w.CatalogPath(locale)}

		if err := w.syncLocale(template, locale); err != nil {
			res.Err = err
			errs = append(errs, &LocaleError{Locale: locale, Err: err})
		} else {
			synced = append(synced, locale)
		}

		results = append(results, res)
	}

	if len(synced) > 0 {
		if _, err := w.Compile(ctx, synced...); err != nil {
			errs = append(errs, err)
		}
	}

	return results, errors.Join(errs...)
}

func (w *Workspace) syncLocale(template *catalog.Catalog, locale string) error {
	if err := checkLocale(locale); err != nil {
		return err
	}

	poPath := w.CatalogPath(locale)

	if !fileExists(poPath) {
		fmt.Fprintf(w.diagnostics(), "ERROR: %s does not exist...\n", poPath)

		return ErrNotInitialized
	}

	existing, err := catalog.ReadFile(poPath)
	if err != nil {
		return err
	}

	merged := Merge(template, existing)

	if err := catalog.WriteFile(poPath, merged); err != nil {
		return err
	}

	w.logger().Debug().
		Str("locale", locale).
		Int("messages", merged.Len()).
		Msg("Synchronized catalog")

	fmt.Fprintln(w.out(), "updated", poPath)

	return nil
}
