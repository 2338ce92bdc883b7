// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leonelquinteros/gotext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeMO(t *testing.T) {
	t.Parallel()

	c, err := Read(strings.NewReader(samplePO), "fr/messages.po")
	require.NoError(t, err)

	data, err := EncodeMO(c)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(data), moHeaderSize)
	assert.Equal(t, MOMagic, binary.LittleEndian.Uint32(data[0:4]))
	// Header entry, "Hello" and the plural entry. The fuzzy and untranslated
	// entries are left out.
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(data[8:12]))

	mo := gotext.NewMo()
	mo.Parse(data)

	assert.Equal(t, "Bonjour", mo.Get("Hello"))
	// "%(count)s" is a gettext named placeholder, not a Go verb; calling
	// through a method value keeps vet's printf check off this lookup.
	get := mo.Get
	assert.Equal(t, "%(count)s books", get("%(count)s books"))
	assert.Equal(t, "un élément", mo.GetN("one item", "many items", 1))
	assert.Equal(t, "plusieurs éléments", mo.GetN("one item", "many items", 5))
}

func TestEncodeMODeterministic(t *testing.T) {
	t.Parallel()

	c, err := Read(strings.NewReader(samplePO), "fr/messages.po")
	require.NoError(t, err)

	first, err := EncodeMO(c)
	require.NoError(t, err)

	second, err := EncodeMO(c)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second))
}

func TestWriteMOFile(t *testing.T) {
	t.Parallel()

	c := New(Header{Locale: "de"})
	c.Put(&Entry{ID: "Yes", Translation: "Ja"})

	path := filepath.Join(t.TempDir(), "messages.mo")
	require.NoError(t, WriteMOFile(path, c))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteMO(&buf, c))
	assert.Equal(t, buf.Bytes(), data)

	mo := gotext.NewMo()
	mo.Parse(data)
	assert.Equal(t, "Ja", mo.Get("Yes"))
}
