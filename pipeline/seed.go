// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	seedDirPermissions  = 0o777
	seedFilePermissions = 0o666
)

// Seed creates the working catalogue of a new locale as a copy of the
// template and returns its path.
//
// Seed only ever creates: an existing catalogue yields ErrAlreadyExists, and
// an existing locale directory without a catalogue yields ErrIncompleteLocale.
// Nothing is written in either case.
func (w *Workspace) Seed(locale string) (string, error) {
	if err := checkLocale(locale); err != nil {
		return "", err
	}

	template, err := os.ReadFile(w.TemplatePath())
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNoTemplate, w.TemplatePath())
	}

	if err != nil {
		return "", err
	}

	dir := filepath.Join(w.Root, locale)
	poPath := w.CatalogPath(locale)

	info, err := os.Stat(dir)

	switch {
	case err == nil && fileExists(poPath):
		return "", fmt.Errorf("%w: %s", ErrAlreadyExists, poPath)
	case err == nil && !info.IsDir():
		return "", fmt.Errorf("%w: %s is not a directory", ErrIncompleteLocale, dir)
	case err == nil:
		return "", fmt.Errorf("%w: %s", ErrIncompleteLocale, dir)
	case !errors.Is(err, fs.ErrNotExist):
		return "", err
	}

	if err := os.Mkdir(dir, seedDirPermissions); err != nil {
		return "", err
	}

	// Mkdir and OpenFile are subject to the umask.
	if err := os.Chmod(dir, seedDirPermissions); err != nil {
		return "", err
	}

	f, err := os.OpenFile(poPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, seedFilePermissions) // #nosec G302,G304
	if err != nil {
		return "", err
	}

	if _, err := f.Write(template); err != nil {
		f.Close()
		os.Remove(poPath)

		return "", err
	}

	if err := f.Close(); err != nil {
		return "", err
	}

	if err := os.Chmod(poPath, seedFilePermissions); err != nil {
		return "", err
	}

	w.logger().Info().Str("locale", locale).Str("path", poPath).Msg("Seeded locale")

	fmt.Fprintln(w.out(), "File created at", poPath)

	return poPath, nil
}
