// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is reported by Sync for a locale without a working catalogue.
	ErrNotInitialized = errors.New("catalog not initialized")

	// ErrNotExist is returned by Validate when the working catalogue is missing.
	ErrNotExist = errors.New("catalog does not exist")

	// ErrAlreadyExists is returned by Seed when the working catalogue exists.
	ErrAlreadyExists = errors.New("catalog already exists")

	// ErrIncompleteLocale is returned by Seed when the locale directory exists
	// but holds no working catalogue.
	ErrIncompleteLocale = errors.New("locale directory exists without a catalog")

	ErrLocaleRequired = errors.New("locale code required")
	ErrInvalidLocale  = errors.New("invalid locale code")
	ErrNoTemplate     = errors.New("template does not exist")
)

// CompileError reports a failure to compile a working catalogue.
type CompileError struct {
	// Path is the working catalogue that failed to compile.
	Path string
	Err  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s: %v", e.Path, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// LocaleError attributes an error in a batch operation to one locale.
type LocaleError struct {
	Locale string
	Err    error
}

func (e *LocaleError) Error() string {
	return fmt.Sprintf("locale %q: %v", e.Locale, e.Err)
}

func (e *LocaleError) Unwrap() error {
	return e.Err
}
