// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package legacy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported string table format")

// Table maps namespace to key to string. The default namespace is "".
type Table map[string]map[string]string

// Lookup returns the string for key in namespace.
//
// No normalisation is performed on keys.
func (t Table) Lookup(namespace, key string) (string, bool) {
	s, ok := t[namespace][key]

	return s, ok
}

// Len returns the number of strings across all namespaces.
func (t Table) Len() int {
	n := 0
	for _, ns := range t {
		n += len(ns)
	}

	return n
}

// Load reads a table from a .yaml, .yml or .toml file.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read string table: %w", err)
	}

	var raw map[string]any

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode string table %s: %w", path, err)
	}

	return fromRaw(raw)
}

func fromRaw(raw map[string]any) (Table, error) {
	t := Table{}

	for key, value := range raw {
		switch v := value.(type) {
		case string:
			put(t, "", key, v)
		case map[string]any:
			for k, s := range v {
				str, ok := s.(string)
				if !ok {
					return nil, fmt.Errorf("string table: %s.%s: want string, got %T", key, k, s)
				}

				put(t, key, k, str)
			}
		default:
			return nil, fmt.Errorf("string table: %s: want string or table, got %T", key, value)
		}
	}

	return t, nil
}

func put(t Table, namespace, key, s string) {
	ns, ok := t[namespace]
	if !ok {
		ns = map[string]string{}
		t[namespace] = ns
	}

	ns[key] = s
}
