// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/natefinch/atomic"
)

// newFilePermissions applies to catalogue files that did not exist before a write.
// Existing files keep their mode.
const newFilePermissions = 0o644

// writeFileAtomic replaces path with data so that readers see either the old
// or the new content, never a partial write.
func writeFileAtomic(path string, data []byte) error {
	_, statErr := os.Stat(path)
	existed := statErr == nil

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if !existed && errors.Is(statErr, fs.ErrNotExist) {
		if err := os.Chmod(path, newFilePermissions); err != nil {
			return fmt.Errorf("failed to set permissions on %s: %w", path, err)
		}
	}

	return nil
}

// WriteMOFile atomically replaces path with the compiled form of c.
func WriteMOFile(path string, c *Catalog) error {
	data, err := EncodeMO(c)
	if err != nil {
		return err
	}

	return writeFileAtomic(path, data)
}
