// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHumanizeSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{1023, "1023"},
		{1024, "1.00K"},
		{1536, "1.50K"},
		{5 * bytesInMB, "5.00M"},
		{3 * bytesInGB, "3.00G"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, humanizeSize(tt.in))
	}
}

func TestSpan(t *testing.T) {
	t.Parallel()

	span := Span{Operation: "compile"}
	span.Begin(context.Background())
	time.Sleep(time.Millisecond)
	span.End()

	d := span.Duration()
	assert.Positive(t, d)

	span.End()
	assert.Equal(t, d, span.Duration(), "End is idempotent")
}
