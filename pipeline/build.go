// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"codeberg.org/transcat/transcat/catalog"
	"codeberg.org/transcat/transcat/extract"
)

// Build extracts every message under roots into a new template catalogue.
//
// Roots are scanned in order. A message seen for the first time is inserted
// with its location and comments; later occurrences only add a location.
// Locations are relative to the root they were found under; a root naming a
// single file is recorded as given.
// For each root, "<count>\t<path>" lines are written to Diagnostics, one per
// file with messages, in the order files were visited.
func (w *Workspace) Build(ctx context.Context, roots []string) (*catalog.Catalog, error) {
	now := w.now()

	c := catalog.New(catalog.Header{
		Project:         w.Project,
		Version:         w.Version,
		CopyrightHolder: w.CopyrightHolder,
		BugsAddress:     w.BugsAddress,
		CreationDate:    now,
		GeneratedBy:     w.GeneratedBy,
		Fuzzy:           true,
		Comments:        catalog.TemplateComments(w.Project, w.CopyrightHolder, now.Year()),
	})

	scanner := w.Scanner
	if scanner == nil {
		scanner = &extract.Scanner{Methods: extract.DefaultMethods()}
	}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		base := filepath.ToSlash(root)
		single := isFile(root)

		var (
			files  []string
			counts = make(map[string]int)
		)

		for occ := range scanner.Scan(root) {
			rel, file := occ.Path, path.Join(base, occ.Path)
			if single {
				rel, file = base, base
			}

			if _, seen := counts[file]; !seen {
				files = append(files, file)
			}

			counts[file]++

			c.Add(occ.ID, occ.Plural, catalog.Location{Path: rel, Line: occ.Line}, occ.Comments)
		}

		for _, file := range files {
			fmt.Fprintf(w.diagnostics(), "%d\t%s\n", counts[file], file)
		}
	}

	return c, nil
}

// Extract builds the template from roots and writes it to TemplatePath,
// replacing any previous template.
func (w *Workspace) Extract(ctx context.Context, roots []string) (*catalog.Catalog, error) {
	c, err := w.Build(ctx, roots)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(w.Root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create catalog root: %w", err)
	}

	p := w.TemplatePath()
	if err := catalog.WriteFile(p, c); err != nil {
		return nil, err
	}

	w.logger().Info().
		Str("path", p).
		Int("messages", c.Len()).
		Msg("Wrote template")

	fmt.Fprintln(w.out(), "wrote template to", p)

	return c, nil
}

func isFile(p string) bool {
	fi, err := os.Stat(p)

	return err == nil && !fi.IsDir()
}
