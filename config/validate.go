// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"

	"codeberg.org/transcat/transcat/extract"
)

// validation errors.
var (
	errEmptyRoot               = errors.New("catalog.root cannot be empty")
	errInvalidDomain           = errors.New("catalog.domain must be a plain file name")
	errNoSourceRoots           = errors.New("extract.sourceRoots cannot be empty")
	errInvalidBaseLocale       = errors.New("invalid runtime.baseLocale")
	errInvalidFormatCacheSize  = errors.New("runtime.formatCacheSize must be positive")
	errUnsupportedLegacyFormat = errors.New("runtime.legacyStrings must be a .yaml, .yml or .toml file")
	errInvalidLogLevel         = errors.New("invalid log.logLevel")
	errInvalidLogFormat        = errors.New("invalid log.logFormat")
)

// validateAndSet validates the configuration and normalises some fields.
func (cfg *Config) validateAndSet() error {
	cfg.Catalog.Root = strings.TrimSpace(cfg.Catalog.Root)
	if cfg.Catalog.Root == "" {
		return errEmptyRoot
	}

	cfg.Catalog.Root = filepath.Clean(cfg.Catalog.Root)

	if d := cfg.Catalog.Domain; d == "" || d != filepath.Base(d) || strings.HasPrefix(d, ".") {
		return fmt.Errorf("%w: %q", errInvalidDomain, d)
	}

	if len(cfg.Extract.SourceRoots) == 0 {
		return errNoSourceRoots
	}

	if _, err := extract.ParseKeywords(cfg.Extract.RawKeywords); err != nil {
		return err
	}

	// The base locale stays as written since it names a locale directory.
	if _, err := language.Parse(strings.ReplaceAll(cfg.Runtime.BaseLocale, "_", "-")); err != nil {
		return fmt.Errorf("%w %q: %w", errInvalidBaseLocale, cfg.Runtime.BaseLocale, err)
	}

	if cfg.Runtime.FormatCacheSize <= 0 {
		return errInvalidFormatCacheSize
	}

	if p := cfg.Runtime.LegacyStrings; p != "" {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yaml", ".yml", ".toml":
		default:
			return fmt.Errorf("%w: %q", errUnsupportedLegacyFormat, p)
		}
	}

	switch cfg.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	return nil
}
