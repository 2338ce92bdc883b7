// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package config loads transcat's configuration.

Values are applied in this order, later sources overriding earlier ones:
built-in defaults, the YAML configuration file, a .env file, and finally
TRANSCAT_* environment variables. The result is then validated.
*/
package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"codeberg.org/transcat/transcat/extract"
)

// Global exposes the loaded configuration.
var Global Config

const (
	// ConfigFileEnv names the environment variable holding a configuration file path.
	ConfigFileEnv = "TRANSCAT_CONFIGFILE"

	defaultConfigFile  = "./transcat.yaml"
	fallbackConfigFile = "./transcat.yml"
)

// Config holds the application configuration.
type Config struct {
	Build buildInfo `yaml:"-"`

	Catalog struct {
		// Root holds messages.pot and one directory per locale.
		Root            string `env:"TRANSCAT_ROOT"             yaml:"root"`
		Domain          string `env:"TRANSCAT_DOMAIN"           yaml:"domain"`
		Project         string `env:"TRANSCAT_PROJECT"          yaml:"project"`
		Version         string `env:"TRANSCAT_VERSION"          yaml:"version"`
		CopyrightHolder string `env:"TRANSCAT_COPYRIGHT_HOLDER" yaml:"copyrightHolder"`
		BugsAddress     string `env:"TRANSCAT_BUGS_ADDRESS"     yaml:"bugsAddress"`
	} `yaml:"catalog"`

	Extract struct {
		SourceRoots  []string `env:"TRANSCAT_SOURCE_ROOTS"  yaml:"sourceRoots"`
		CommentTags  []string `env:"TRANSCAT_COMMENT_TAGS"  yaml:"commentTags"`
		RawKeywords  []string `env:"TRANSCAT_KEYWORDS"      yaml:"keywords"`
		ExcludeDirs  []string `env:"TRANSCAT_EXCLUDE_DIRS"  yaml:"excludeDirs"`
		ExcludeFiles []string `env:"TRANSCAT_EXCLUDE_FILES" yaml:"excludeFiles"`
		Escapes      []string `env:"TRANSCAT_ESCAPES"       yaml:"escapes"`
	} `yaml:"extract"`

	Runtime struct {
		BaseLocale string `env:"TRANSCAT_BASE_LOCALE" yaml:"baseLocale"`

		// Strict mode for missing keys.
		//
		// When enabled, missing translations are logged once per locale+message.
		StrictMissingKeys bool `env:"TRANSCAT_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`

		// LegacyStrings is an optional YAML or TOML string table consulted
		// after the compiled catalogues.
		LegacyStrings   string `env:"TRANSCAT_LEGACY_STRINGS"   yaml:"legacyStrings"`
		FormatCacheSize int    `env:"TRANSCAT_FORMAT_CACHE_SIZE" yaml:"formatCacheSize"`
	} `yaml:"runtime"`

	Log struct {
		Level   string   `env:"TRANSCAT_LOG_LEVEL"   yaml:"logLevel"`
		Outputs []string `env:"TRANSCAT_LOG_OUTPUTS" yaml:"logOutputs"`
		Format  string   `env:"TRANSCAT_LOG_FORMAT"  yaml:"logFormat"`
	} `yaml:"log"`
}

// LoadConfig loads the configuration from various sources.
//
// configFlag is the value of a -config command line flag, or "" when the
// flag was not given.
func (cfg *Config) LoadConfig(configFlag string) error {
	configFilePath := resolveConfigPath(configFlag)

	cfg.SetDefaults()

	cfg.Build.load()

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupLogging()

	cfg.print()

	return nil
}

// Keywords returns the configured extraction keywords, or nil when the
// extractor defaults apply. The specs were checked by LoadConfig.
func (cfg *Config) Keywords() []extract.Keyword {
	kws, err := extract.ParseKeywords(cfg.Extract.RawKeywords)
	if err != nil || len(kws) == 0 {
		return nil
	}

	return kws
}

// resolveConfigPath determines the config file path with the following precedence:
//  1. command line flag (-config)
//  2. environment variable (TRANSCAT_CONFIGFILE)
//  3. ./transcat.yaml, falling back to ./transcat.yml when only that exists
func resolveConfigPath(configFlag string) string {
	if configFlag != "" {
		return configFlag
	}

	if envVar := os.Getenv(ConfigFileEnv); envVar != "" {
		return envVar
	}

	if _, err := os.Stat(defaultConfigFile); os.IsNotExist(err) {
		if _, statErr := os.Stat(fallbackConfigFile); statErr == nil {
			log.Debug().Str("path", fallbackConfigFile).Msg("Using fallback configuration file")

			return fallbackConfigFile
		}
	}

	return defaultConfigFile
}
