// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// readEnv overrides fields of cfg from TRANSCAT_* environment variables.
// Variables that are not set leave the current value alone.
func readEnv(cfg *Config) error {
	return env.Parse(cfg)
}

// useDotEnv loads environment variables from a .env file, checking
// the current working directory, then the directory of the binary.
// Variables already present in the environment are never overridden.
//
// This function soft fails if the .env file doesn't exist in either location.
func useDotEnv() error {
	cwd, err := os.Getwd()
	if err != nil {
		log.Warn().
			Err(err).
			Msg("Could not get current working directory")
	} else {
		envPath := filepath.Join(cwd, ".env")
		if err := tryLoadDotEnv(envPath); err == nil {
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	dir := "."
	if exe, err := os.Executable(); err == nil {
		dir = filepath.Dir(exe)
	}

	if err := tryLoadDotEnv(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

// tryLoadDotEnv loads the .env file at envPath. A missing file is reported
// as an error wrapping [fs.ErrNotExist].
func tryLoadDotEnv(envPath string) error {
	if err := godotenv.Load(envPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug().
				Str("path", envPath).
				Msg("No .env file found, skipping")
		}

		return err
	}

	log.Info().
		Str("path", envPath).
		Msg("Loaded configuration from .env file")

	return nil
}
