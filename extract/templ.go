// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"bytes"
	"strings"

	"github.com/a-h/templ/generator"
	"github.com/a-h/templ/parser/v2"
	"github.com/rs/zerolog"
)

// DefaultEscapes are stripped from templ sources before parsing when a
// [TemplExtractor] has no escapes configured. "\$" appears in inline scripts
// and otherwise breaks the templ parser.
var DefaultEscapes = []string{`\$`}

// TemplExtractor extracts messages from templ markup.
//
// The template is generated into Go and the result is handed to Go. Line
// numbers are mapped back to the .templ file through the generator's source
// map; a message whose position does not map gets line 0.
//
// A template that cannot be parsed or generated is logged and yields no
// messages rather than an error.
type TemplExtractor struct {
	// Go runs over the generated code. Nil means a zero [GoExtractor].
	Go *GoExtractor

	Escapes []string

	// Logger receives transform diagnostics. Nil means the global logger.
	Logger *zerolog.Logger
}

// Extract implements [Extractor].
func (t *TemplExtractor) Extract(filename string, src []byte) ([]Message, error) {
	logger := defaultLogger(t.Logger)

	escapes := t.Escapes
	if len(escapes) == 0 {
		escapes = DefaultEscapes
	}

	text := string(src)
	for _, esc := range escapes {
		text = strings.ReplaceAll(text, esc, "")
	}

	tf, err := parser.ParseString(text)
	if err != nil {
		logger.Warn().Err(err).Str("file", filename).Msg("Failed to parse templ file")

		return nil, nil
	}

	var buf bytes.Buffer

	op, err := generator.Generate(tf, &buf)
	if err != nil {
		logger.Warn().Err(err).Str("file", filename).Msg("Failed to generate Go from templ file")

		return nil, nil
	}

	g := t.Go
	if g == nil {
		g = &GoExtractor{}
	}

	gf, err := g.extract(filename, buf.Bytes())
	if err != nil {
		logger.Warn().Err(err).Str("file", filename).Msg("Generated code for templ file does not parse")

		return nil, nil
	}

	// Source map positions are 0-based; Go's are 1-based.
	for i := range gf.out {
		p := gf.pos[i]

		src, ok := op.SourceMap.SourcePositionFromTarget(uint32(p.Line-1), uint32(p.Column-1)) // #nosec G115
		if !ok {
			logger.Debug().Str("file", filename).Str("msgid", gf.out[i].ID).Msg("No templ position for message")

			gf.out[i].Line = 0

			continue
		}

		gf.out[i].Line = int(src.Line) + 1
	}

	return gf.out, nil
}
