// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leonelquinteros/gotext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/transcat/transcat/catalog"
)

func templateCatalog() *catalog.Catalog {
	t := catalog.New(catalog.Header{Project: "Example", CreationDate: fixedNow, Fuzzy: true})
	t.Add("Welcome", "", catalog.Location{Path: "web/home.go", Line: 9}, []string{"Page title."})
	t.Add("one item", "many items", catalog.Location{Path: "web/cart.go", Line: 3}, nil)
	t.Add("Contact", "", catalog.Location{Path: "web/contact.go", Line: 1}, nil)

	return t
}

func existingCatalog() *catalog.Catalog {
	e := catalog.New(catalog.Header{
		Project:        "Example",
		Locale:         "fr",
		CreationDate:   fixedNow.Add(-24 * time.Hour),
		LastTranslator: "Marie <marie@example.org>",
		PluralForms:    "nplurals=2; plural=(n > 1);",
	})
	e.Put(&catalog.Entry{
		ID:                 "Welcome",
		Translation:        "Bienvenue",
		TranslatorComments: []string{"checked"},
		Locations:          []catalog.Location{{Path: "web/old.go", Line: 1}},
		Line:               20,
	})
	e.Put(&catalog.Entry{
		ID:                 "one item",
		PluralID:           "many items",
		PluralTranslations: []string{"un élément", "plusieurs éléments"},
		Fuzzy:              true,
	})
	e.Put(&catalog.Entry{ID: "Retired", Translation: "Retraité"})

	return e
}

func TestMerge(t *testing.T) {
	t.Parallel()

	tmpl := templateCatalog()
	existing := existingCatalog()

	merged := Merge(tmpl, existing)

	// Template order, retirees dropped.
	assert.Equal(t, []string{"Welcome", "one item", "Contact"}, merged.IDs())

	welcome, _ := merged.Get("Welcome")
	assert.Equal(t, "Bienvenue", welcome.Translation)
	assert.Equal(t, []string{"checked"}, welcome.TranslatorComments)
	assert.Equal(t, []catalog.Location{{Path: "web/home.go", Line: 9}}, welcome.Locations)
	assert.Equal(t, []string{"Page title."}, welcome.AutoComments)
	assert.False(t, welcome.Fuzzy)

	items, _ := merged.Get("one item")
	assert.Equal(t, []string{"un élément", "plusieurs éléments"}, items.PluralTranslations)
	assert.True(t, items.Fuzzy, "fuzzy state is carried over, never cleared")

	contact, _ := merged.Get("Contact")
	assert.Empty(t, contact.Translation)
	assert.False(t, contact.Fuzzy)

	assert.Equal(t, "fr", merged.Header.Locale)
	assert.Equal(t, "Marie <marie@example.org>", merged.Header.LastTranslator)
	assert.Equal(t, fixedNow, merged.Header.CreationDate)

	// Inputs are untouched.
	old, _ := existing.Get("Welcome")
	assert.Equal(t, []catalog.Location{{Path: "web/old.go", Line: 1}}, old.Locations)
	assert.Equal(t, 3, existing.Len())
}

func TestMergeFormChange(t *testing.T) {
	t.Parallel()

	tmpl := catalog.New(catalog.Header{})
	tmpl.Add("File", "Files", catalog.Location{Path: "a.go", Line: 1}, nil)
	tmpl.Add("Folder", "", catalog.Location{Path: "a.go", Line: 2}, nil)

	existing := catalog.New(catalog.Header{})
	existing.Put(&catalog.Entry{ID: "File", Translation: "Fichier"})
	existing.Put(&catalog.Entry{ID: "Folder", PluralID: "Folders", PluralTranslations: []string{"Dossier", "Dossiers"}})

	merged := Merge(tmpl, existing)

	file, _ := merged.Get("File")
	assert.Equal(t, []string{"Fichier"}, file.PluralTranslations)
	assert.Empty(t, file.Translation)

	folder, _ := merged.Get("Folder")
	assert.Equal(t, "Dossier", folder.Translation)
	assert.Nil(t, folder.PluralTranslations)
}

func TestSync(t *testing.T) {
	t.Parallel()

	w, out, diags := newWorkspace(t)

	require.NoError(t, catalog.WriteFile(mustMkdirAll(t, w.TemplatePath()), templateCatalog()))
	require.NoError(t, catalog.WriteFile(mustMkdirAll(t, w.CatalogPath("fr")), existingCatalog()))

	results, err := w.Sync(context.Background(), "fr", "de")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotInitialized)

	var lerr *LocaleError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "de", lerr.Locale)

	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, ErrNotInitialized)
	assert.NoFileExists(t, w.CatalogPath("de"), "sync never seeds")

	synced, err := catalog.ReadFile(w.CatalogPath("fr"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Welcome", "one item", "Contact"}, synced.IDs())

	assert.Contains(t, out.String(), "Updating [fr de]\n")
	assert.Contains(t, out.String(), "updated "+w.CatalogPath("fr")+"\n")
	assert.Contains(t, diags.String(), "compiled "+w.CatalogPath("fr")+"\n")
	assert.NoFileExists(t, w.CompiledPath("de"))

	mo := gotext.NewMo()
	mo.ParseFile(w.CompiledPath("fr"))
	assert.Equal(t, "Bienvenue", mo.Get("Welcome"))
	// The fuzzy plural entry is not compiled.
	assert.Equal(t, "many items", mo.GetN("one item", "many items", 3))
}

func TestSyncAllLocales(t *testing.T) {
	t.Parallel()

	w, _, _ := newWorkspace(t)

	require.NoError(t, catalog.WriteFile(mustMkdirAll(t, w.TemplatePath()), templateCatalog()))
	require.NoError(t, catalog.WriteFile(mustMkdirAll(t, w.CatalogPath("fr")), existingCatalog()))
	require.NoError(t, catalog.WriteFile(mustMkdirAll(t, w.CatalogPath("es")), catalog.New(catalog.Header{})))

	results, err := w.Sync(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "es", results[0].Locale)
	assert.Equal(t, "fr", results[1].Locale)
	assert.FileExists(t, w.CompiledPath("es"))
	assert.FileExists(t, w.CompiledPath("fr"))
}

func TestSyncNoTemplate(t *testing.T) {
	t.Parallel()

	w, _, _ := newWorkspace(t)

	_, err := w.Sync(context.Background(), "fr")
	require.ErrorIs(t, err, ErrNoTemplate)
}
