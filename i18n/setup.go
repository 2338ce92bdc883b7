// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"codeberg.org/transcat/transcat/config"
	"codeberg.org/transcat/transcat/i18n/legacy"
)

// Setup builds a resolver from cfg and installs it as the default.
//
// The legacy string table, when configured, is loaded eagerly so that a bad
// file is reported at startup. Calling Setup again replaces the default
// resolver and with it every cached catalogue.
func Setup(cfg *config.Config) (*Resolver, error) {
	logger := log.With().Str("sys", "i18n").Logger()

	opts := Options{
		Root:              cfg.Catalog.Root,
		Domain:            cfg.Catalog.Domain,
		BaseLocale:        cfg.Runtime.BaseLocale,
		StrictMissingKeys: cfg.Runtime.StrictMissingKeys,
		FormatCacheSize:   cfg.Runtime.FormatCacheSize,
		Logger:            &logger,
	}

	if path := cfg.Runtime.LegacyStrings; path != "" {
		table, err := legacy.Load(path)
		if err != nil {
			return nil, err
		}

		opts.Legacy = table

		logger.Info().Int("count", table.Len()).Str("path", path).Msg("Loaded legacy strings")
	}

	r, err := New(opts)
	if err != nil {
		return nil, fmt.Errorf("i18n setup: %w", err)
	}

	SetDefault(r)

	return r, nil
}
