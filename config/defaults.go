// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

// defaultFormatCacheSize bounds the number of parsed named-format strings kept in memory.
const defaultFormatCacheSize = 512

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.Catalog.Root = "i18n"
	cfg.Catalog.Domain = "messages"
	cfg.Catalog.Project = "PROJECT"
	cfg.Catalog.Version = "VERSION"
	cfg.Catalog.CopyrightHolder = "ORGANIZATION"
	cfg.Catalog.BugsAddress = "EMAIL@ADDRESS"

	cfg.Extract.SourceRoots = []string{"."}
	cfg.Extract.CommentTags = []string{"NOTE:"}
	cfg.Extract.RawKeywords = nil
	cfg.Extract.ExcludeDirs = nil
	cfg.Extract.ExcludeFiles = nil
	cfg.Extract.Escapes = []string{`\$`}

	cfg.Runtime.BaseLocale = "en"
	cfg.Runtime.StrictMissingKeys = false
	cfg.Runtime.LegacyStrings = ""
	cfg.Runtime.FormatCacheSize = defaultFormatCacheSize

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
