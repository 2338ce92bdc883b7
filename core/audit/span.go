// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"fmt"
	"runtime/trace"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Span represents a catalogue operation in flight.
type Span struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration

	Operation string
	Locales   []string
	Path      string // main file written, if any
	Size      int    // size of the file at Path
	Error     error
}

// Begin starts timing the span and opens a runtime/trace task for it.
func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "transcat."+span.Operation)

	return ctx
}

// End stops timing the span. Calls after the first have no effect.
func (span *Span) End() {
	// only log once
	if span.task != nil {
		span.duration = time.Since(span.start)
		span.task.End()

		span.task = nil
	}
}

// Duration returns the time between Begin and End.
func (span *Span) Duration() time.Duration {
	return span.duration
}

// Log writes the span at debug level, or at error level when it failed.
func (span Span) Log() {
	event := log.Debug()
	if span.Error != nil {
		event = log.Error().Err(span.Error)
	}

	event.Str("sys", "audit")
	event.Str("operation", span.Operation)

	if len(span.Locales) > 0 {
		event.Strs("locales", span.Locales)
	}

	if span.Path != "" {
		event.Str("path", span.Path)
		event.Str("len", humanizeSize(span.Size))
	}

	event.Dur("dur", span.duration)

	event.Msg("Operation finished")
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
	bytesInGB = bytesInMB * bytesInKB
)

func humanizeSize(x int) string {
	if x < bytesInKB {
		return strconv.Itoa(x)
	}

	if x < bytesInMB {
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	}

	if x < bytesInGB {
		return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
	}

	return fmt.Sprintf("%.2fG", float64(x)/bytesInGB)
}
