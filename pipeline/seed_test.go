// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	t.Parallel()

	w, out, _ := newWorkspace(t)
	writeFile(t, w.TemplatePath(), fuzzyHeaderPO)

	path, err := w.Seed("fr")
	require.NoError(t, err)
	assert.Equal(t, w.CatalogPath("fr"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fuzzyHeaderPO, string(data))

	dirInfo, err := os.Stat(filepath.Join(w.Root, "fr"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o777), dirInfo.Mode().Perm())

	fileInfo, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o666), fileInfo.Mode().Perm())

	assert.Equal(t, "File created at "+path+"\n", out.String())

	// A second seed never overwrites.
	writeFile(t, path, cleanPO)

	_, err = w.Seed("fr")
	require.ErrorIs(t, err, ErrAlreadyExists)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cleanPO, string(data))
}

func TestSeedIncompleteLocale(t *testing.T) {
	t.Parallel()

	w, _, _ := newWorkspace(t)
	writeFile(t, w.TemplatePath(), fuzzyHeaderPO)
	require.NoError(t, os.MkdirAll(filepath.Join(w.Root, "de"), 0o755))

	_, err := w.Seed("de")
	require.ErrorIs(t, err, ErrIncompleteLocale)
	assert.NoFileExists(t, w.CatalogPath("de"))
}

func TestSeedErrors(t *testing.T) {
	t.Parallel()

	w, _, _ := newWorkspace(t)

	_, err := w.Seed("fr")
	require.ErrorIs(t, err, ErrNoTemplate)

	_, err = w.Seed("")
	require.ErrorIs(t, err, ErrLocaleRequired)

	_, err = w.Seed("a/b")
	require.ErrorIs(t, err, ErrInvalidLocale)
}
