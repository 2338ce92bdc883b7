// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"codeberg.org/transcat/transcat/catalog"
)

// CompileFile compiles the working catalogue at poPath into a .mo file
// beside it and returns the .mo path.
//
// Failures are returned as *CompileError. The .mo file is replaced
// atomically, so a failed compile leaves any previous file untouched.
func CompileFile(poPath string) (string, error) {
	moPath := strings.TrimSuffix(poPath, filepath.Ext(poPath)) + ".mo"

	c, err := catalog.ReadFile(poPath)
	if err != nil {
		return "", &CompileError{Path: poPath, Err: err}
	}

	if err := catalog.WriteMOFile(moPath, c); err != nil {
		return "", &CompileError{Path: poPath, Err: err}
	}

	return moPath, nil
}

// Compile compiles the working catalogue of each locale. With no locales,
// every locale with a working catalogue is compiled; named locales without
// one are skipped.
//
// Compilation continues past failures. The returned error joins them.
func (w *Workspace) Compile(ctx context.Context, locales ...string) ([]Result, error) {
	if len(locales) == 0 {
		var err error
		if locales, err = w.Locales(); err != nil {
			return nil, err
		}
	}

	var (
		results []Result
		errs    []error
	)

	for _, locale := range locales {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)

			break
		}

		if err := checkLocale(locale); err != nil {
			results = append(results, Result{Locale: locale, Err: err})
			errs = append(errs, &LocaleError{Locale: locale, Err: err})

			continue
		}

		poPath := w.CatalogPath(locale)
		if !fileExists(poPath) {
			continue
		}

		moPath, err := CompileFile(poPath)
		if err != nil {
			fmt.Fprintln(w.diagnostics(), "failed to compile", poPath)
			w.logger().Error().Err(err).Str("locale", locale).Msg("Failed to compile catalog")

			results = append(results, Result{Locale: locale, Path: poPath, Err: err})
			errs = append(errs, &LocaleError{Locale: locale, Err: err})

			continue
		}

		fmt.Fprintln(w.diagnostics(), "compiled", poPath)

		results = append(results, Result{Locale: locale, Path: moPath})
	}

	return results, errors.Join(errs...)
}
