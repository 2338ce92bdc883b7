// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/transcat/transcat/config"
)

func TestRenderEnv(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.SetDefaults()

	out := renderEnv(cfg)

	assert.Contains(t, out, "## Catalog\n# TRANSCAT_ROOT=i18n\n")
	assert.Contains(t, out, "# TRANSCAT_COMMENT_TAGS=NOTE:\n")
	assert.Contains(t, out, "# TRANSCAT_KEYWORDS=\n")
	assert.Contains(t, out, "# TRANSCAT_LEGACY_STRINGS=\n")
	assert.Contains(t, out, "# TRANSCAT_FORMAT_CACHE_SIZE=512\n")
	assert.NotContains(t, out, "## Build")
}

func TestRenderYAML(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.SetDefaults()

	out, err := renderYAML(cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "\ncatalog:\n")
	assert.Contains(t, out, "  # root: i18n\n")
	assert.Contains(t, out, "\nruntime:\n")
	assert.Contains(t, out, "  # baseLocale: en\n")
}
