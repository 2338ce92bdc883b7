// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pipeline

import (
	"errors"
	"fmt"
	"io/fs"

	"codeberg.org/transcat/transcat/catalog"
)

const fileFuzzyDiagnostic = `  File is fuzzy.  Remove line containing "#, fuzzy" found near the beginning of the file.`

// Validate reports whether the working catalogue of locale is free of fuzzy
// entries, with one diagnostic line per problem.
//
// A missing catalogue is reported as ErrNotExist rather than as invalid.
func (w *Workspace) Validate(locale string) (bool, []string, error) {
	if err := checkLocale(locale); err != nil {
		return false, nil, err
	}

	poPath := w.CatalogPath(locale)

	c, err := catalog.ReadFile(poPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil, fmt.Errorf("%w: %s", ErrNotExist, poPath)
	}

	if err != nil {
		return false, nil, err
	}

	diags := validateCatalog(c, poPath)

	return len(diags) == 0, diags, nil
}

func validateCatalog(c *catalog.Catalog, poPath string) []string {
	var diags []string

	if c.Header.Fuzzy {
		diags = append(diags, fileFuzzyDiagnostic)
	}

	for e := range c.All() {
		if !e.Fuzzy {
			continue
		}

		if e.Line > 0 {
			diags = append(diags, fmt.Sprintf("%s:%d: \"%s\" is fuzzy.", poPath, e.Line, e.Text()))
		} else {
			diags = append(diags, fileFuzzyDiagnostic)
		}
	}

	return diags
}
