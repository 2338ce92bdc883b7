// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Genconfig writes example configuration files from transcat's defaults.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/transcat/transcat/config"
	"codeberg.org/transcat/transcat/core/audit"
)

const (
	envOutputFile  = ".env.example"
	yamlOutputFile = "transcat.yaml.example"
	filePerm       = 0o644

	envFileHeader = `# transcat configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
# List values are separated by commas.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# transcat configuration (via configuration file)
#
# Copy this file to transcat.yaml and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
)

func main() {
	audit.SetDefaultLogger()

	outDir := flag.String("o", "deploy", "output directory")
	flag.Parse()

	cfg := &config.Config{}
	cfg.SetDefaults()

	yamlContent, err := renderYAML(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("path", *outDir).Msg("Failed to create output directory")
	}

	for name, content := range map[string]string{
		envOutputFile:  renderEnv(cfg),
		yamlOutputFile: yamlContent,
	} {
		path := filepath.Join(*outDir, name)

		if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to write example file")
		}

		log.Info().Str("path", path).Msg("Generated example file")
	}
}

// renderEnv lists every environment variable of cfg, commented out, with its
// default value.
func renderEnv(cfg *config.Config) string {
	var sb strings.Builder
	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	// Iterate over the top-level struct fields.
	for i := range typ.NumField() {
		structField := typ.Field(i)
		structValue := val.Field(i)

		if structValue.Kind() != reflect.Struct || structField.Name == "Build" {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", structField.Name)

		// Iterate over the fields of the nested struct.
		innerTyp := structValue.Type()
		for j := range innerTyp.NumField() {
			field := innerTyp.Field(j)
			value := structValue.Field(j)

			tag, ok := field.Tag.Lookup("env")
			if !ok {
				continue
			}

			envVarName := strings.Split(tag, ",")[0]

			switch {
			case value.Kind() == reflect.Slice && value.Len() > 0:
				parts := make([]string, value.Len())
				for k := range value.Len() {
					parts[k] = fmt.Sprint(value.Index(k).Interface())
				}

				fmt.Fprintf(&sb, "# %s=%s\n", envVarName, strings.Join(parts, ","))
			case value.Kind() == reflect.Slice, value.Kind() == reflect.String && value.Len() == 0:
				// Omit the value to prompt user input.
				fmt.Fprintf(&sb, "# %s=\n", envVarName)
			default:
				fmt.Fprintf(&sb, "# %s=%v\n", envVarName, value.Interface())
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// renderYAML returns cfg as YAML with every value commented out.
func renderYAML(cfg *config.Config) (string, error) {
	var yamlContent strings.Builder

	if err := yaml.NewEncoder(&yamlContent, yaml.Indent(2)).Encode(cfg); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(yamlFileHeader)

	// Process the marshaled YAML line-by-line to create a clean template.
	for line := range strings.SplitSeq(yamlContent.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// Top-level keys (e.g., "catalog:") are treated as section headers.
		if !strings.HasPrefix(line, " ") {
			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		// By default, comment out the line.
		indentSize := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indentSize), trimmed)
	}

	return sb.String(), nil
}
