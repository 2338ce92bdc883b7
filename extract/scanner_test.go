// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return root
}

func TestScan(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"b/page.go":           "package b\nfunc f() { Tr(ctx, \"Beta\") }\n",
		"a/page.go":           "package a\nfunc f() { Tr(ctx, \"Alpha\")\nTr(ctx, \"Alpha two\") }\n",
		"a/page_test.go":      "package a\nfunc g() { Tr(ctx, \"Test only\") }\n",
		"a/broken.go":         "package a\nfunc {\n",
		"vendor/dep/x.go":     "package dep\nfunc f() { Tr(ctx, \"Vendored\") }\n",
		".git/hooks/x.go":     "package hooks\nfunc f() { Tr(ctx, \"Hidden\") }\n",
		"notes.txt":           "Tr(ctx, \"Plain text\")\n",
		"c/d/deep.go":         "package d\nfunc f() { Tr(ctx, \"Deep\") }\n",
		"c/d/page_templ.go":   "package d\nfunc f() { Tr(ctx, \"Generated\") }\n",
		"testdata/fixture.go": "package testdata\nfunc f() { Tr(ctx, \"Fixture\") }\n",
	})

	nop := zerolog.Nop()
	s := &Scanner{Methods: DefaultMethods(), Logger: &nop}

	var got []Occurrence
	for occ := range s.Scan(root) {
		got = append(got, occ)
	}

	assert.Equal(t, []Occurrence{
		{Path: "a/page.go", Message: Message{Line: 2, ID: "Alpha"}},
		{Path: "a/page.go", Message: Message{Line: 3, ID: "Alpha two"}},
		{Path: "b/page.go", Message: Message{Line: 2, ID: "Beta"}},
		{Path: "c/d/deep.go", Message: Message{Line: 2, ID: "Deep"}},
	}, got)

	// Rescanning yields the same sequence.
	again := slices.Collect(s.Scan(root))
	assert.Equal(t, got, again)
}

func TestScanEarlyStop(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"a.go": "package p\nfunc f() { Tr(ctx, \"One\"); Tr(ctx, \"Two\") }\n",
		"b.go": "package p\nfunc f() { Tr(ctx, \"Three\") }\n",
	})

	nop := zerolog.Nop()
	s := &Scanner{Methods: DefaultMethods(), Logger: &nop}

	var ids []string

	for occ := range s.Scan(root) {
		ids = append(ids, occ.ID)
		if len(ids) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"One", "Two"}, ids)
}

func TestScanSingleFile(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"main.go": "package main\nfunc f() { Tr(ctx, \"Solo\") }\n",
	})

	got := slices.Collect(Scan(filepath.Join(root, "main.go"), DefaultMethods()))
	require.Len(t, got, 1)
	assert.Equal(t, "main.go", got[0].Path)
	assert.Equal(t, "Solo", got[0].ID)
}

func TestScanCustomMethod(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"strings.txt": "first\nsecond\n",
	})

	lines := ExtractorFunc(func(_ string, src []byte) ([]Message, error) {
		var out []Message

		for i, l := range strings.Split(strings.TrimSpace(string(src)), "\n") {
			out = append(out, Message{Line: i + 1, ID: l})
		}

		return out, nil
	})

	got := slices.Collect(Scan(root, []Method{{Pattern: "*.txt", Extractor: lines}}))
	assert.Equal(t, []Occurrence{
		{Path: "strings.txt", Message: Message{Line: 1, ID: "first"}},
		{Path: "strings.txt", Message: Message{Line: 2, ID: "second"}},
	}, got)
}
