// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package legacy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "strings.yaml",
			content: `greeting: Hello
errors:
  not_found: Page not found
`,
		},
		{
			name: "toml",
			file: "strings.toml",
			content: `greeting = "Hello"

[errors]
not_found = "Page not found"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			table, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, 2, table.Len())

			s, ok := table.Lookup("", "greeting")
			assert.True(t, ok)
			assert.Equal(t, "Hello", s)

			s, ok = table.Lookup("errors", "not_found")
			assert.True(t, ok)
			assert.Equal(t, "Page not found", s)

			_, ok = table.Lookup("", "not_found")
			assert.False(t, ok)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	json := filepath.Join(dir, "strings.json")
	require.NoError(t, os.WriteFile(json, []byte(`{}`), 0o644))

	_, err = Load(json)
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	nested := filepath.Join(dir, "nested.yaml")
	require.NoError(t, os.WriteFile(nested, []byte("a:\n  b:\n    c: d\n"), 0o644))

	_, err = Load(nested)
	require.Error(t, err)
}

func TestNilTable(t *testing.T) {
	t.Parallel()

	var table Table

	_, ok := table.Lookup("", "anything")
	assert.False(t, ok)
}
