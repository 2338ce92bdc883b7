// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/transcat/transcat/catalog"
	"codeberg.org/transcat/transcat/config"
	"codeberg.org/transcat/transcat/core/audit"
)

type cli struct {
	t      *testing.T
	config string
	root   string
}

// newCLI writes a configuration for a temporary project with one source file.
func newCLI(t *testing.T) *cli {
	t.Helper()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	root := filepath.Join(dir, "i18n")

	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "home.go"), []byte(`package web

func home(ctx context.Context, n int) {
	i18n.Tr(ctx, "Welcome")
	i18n.TrN(ctx, "one item", "many items", n)
}
`), 0o644))

	config := filepath.Join(dir, "transcat.yaml")
	require.NoError(t, os.WriteFile(config, fmt.Appendf(nil, `catalog:
  root: %s
  project: Example
  version: "1.0"
extract:
  sourceRoots:
    - %s
log:
  logLevel: error
`, root, src), 0o644))

	return &cli{t: t, config: config, root: root}
}

func (c *cli) run(args ...string) (int, string, string) {
	c.t.Helper()

	var stdout, stderr bytes.Buffer

	code := run(context.Background(), append([]string{"-config", c.config}, args...), &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func TestWorkflow(t *testing.T) {
	c := newCLI(t)
	pot := filepath.Join(c.root, "messages.pot")
	po := filepath.Join(c.root, "fr", "messages.po")
	mo := filepath.Join(c.root, "fr", "messages.mo")

	code, stdout, _ := c.run("extract")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "wrote template to "+pot)

	code, stdout, _ = c.run("init", "fr")
	require.Equal(t, 0, code)
	assert.Equal(t, "File created at "+po+"\n", stdout)

	code, _, stderr := c.run("init", "fr")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "transcat init:")

	// Seeded catalogues carry the template's file-level fuzzy marker.
	code, stdout, _ = c.run("validate", "fr")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "Validation failed...\nPlease correct the following errors before proceeding:\n")
	assert.Contains(t, stdout, "File is fuzzy.")

	translated, err := catalog.ReadFile(po)
	require.NoError(t, err)

	translated.Header.Fuzzy = false
	welcome, ok := translated.Get("Welcome")
	require.True(t, ok)
	welcome.Translation = "Bienvenue"
	require.NoError(t, catalog.WriteFile(po, translated))

	code, stdout, _ = c.run("validate", "fr")
	assert.Equal(t, 0, code)
	assert.Equal(t, "Translations for locale \"fr\" are valid!\n", stdout)

	code, stdout, _ = c.run("sync")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "updated "+po)
	assert.FileExists(t, mo)

	code, stdout, _ = c.run("resolve", "fr", "Welcome")
	assert.Equal(t, 0, code)
	assert.Equal(t, "Bienvenue\n", stdout)

	code, stdout, _ = c.run("resolve", "-n", "3", "fr", "one item", "many items")
	assert.Equal(t, 0, code)
	assert.Equal(t, "many items\n", stdout)

	code, _, stderr = c.run("compile")
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "compiled "+po)
}

// app returns an app for the temporary project and the span it records on.
func (c *cli) app() (*app, *audit.Span) {
	c.t.Helper()

	var cfg config.Config
	require.NoError(c.t, cfg.LoadConfig(c.config))

	span := &audit.Span{}

	return &app{cfg: &cfg, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}, span: span}, span
}

func TestSpanRecordsWork(t *testing.T) {
	c := newCLI(t)
	ctx := context.Background()

	a, span := c.app()
	require.NoError(t, runExtract(ctx, a, nil))

	pot := filepath.Join(c.root, "messages.pot")
	info, err := os.Stat(pot)
	require.NoError(t, err)
	assert.Equal(t, pot, span.Path)
	assert.Equal(t, int(info.Size()), span.Size)

	a, span = c.app()
	require.NoError(t, runInit(ctx, a, []string{"fr"}))
	assert.Equal(t, []string{"fr"}, span.Locales)
	assert.Equal(t, filepath.Join(c.root, "fr", "messages.po"), span.Path)
	assert.Positive(t, span.Size)

	a, _ = c.app()
	require.NoError(t, runInit(ctx, a, []string{"de"}))

	a, span = c.app()
	require.NoError(t, runSync(ctx, a, nil))
	assert.Equal(t, []string{"de", "fr"}, span.Locales)
	assert.Empty(t, span.Path)

	a, span = c.app()
	require.NoError(t, runCompile(ctx, a, []string{"fr"}))
	assert.Equal(t, []string{"fr"}, span.Locales)
}

func TestValidateUsage(t *testing.T) {
	c := newCLI(t)

	code, stdout, _ := c.run("validate")
	assert.Equal(t, 1, code)
	assert.Equal(t, "Must include locale code when executing validate.\n", stdout)

	code, stdout, _ = c.run("validate", "de")
	assert.Equal(t, 1, code)
	assert.Equal(t, "Portable object file for locale \"de\" does not exist.\n", stdout)
}

func TestSyncUninitialised(t *testing.T) {
	c := newCLI(t)

	code, _, _ := c.run("extract")
	require.Equal(t, 0, code)

	require.NoError(t, os.MkdirAll(filepath.Join(c.root, "de"), 0o755))

	code, _, stderr := c.run("sync", "de")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "does not exist")
}

func TestCommandLine(t *testing.T) {
	c := newCLI(t)

	var stdout, stderr bytes.Buffer

	assert.Equal(t, 1, run(context.Background(), nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Usage: transcat")

	code, _, stderr2 := c.run("frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr2, `unknown command "frobnicate"`)

	code, _, _ = c.run("init")
	assert.Equal(t, 1, code)

	code, _, _ = c.run("sync", "-bogus")
	assert.Equal(t, 1, code)

	stderr.Reset()
	assert.Equal(t, 0, run(context.Background(), []string{"-h"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "extract")
}
