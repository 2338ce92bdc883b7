// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sort"
	"strings"
)

// MOMagic is the little-endian GNU .mo magic number.
const MOMagic uint32 = 0x950412de

const (
	moHeaderSize = 7 * 4
	moPairSize   = 2 * 4
)

var errMOTooLarge = errors.New("catalogue too large for the .mo format")

type moPair struct {
	id  string
	str string
}

// moPairs collects the header and every non-fuzzy translated entry, sorted by
// the encoded msgid. Plural entries encode as "id\x00plural" with their forms
// joined by NUL.
func moPairs(c *Catalog) []moPair {
	pairs := make([]moPair, 0, c.Len()+1)
	pairs = append(pairs, moPair{id: "", str: c.Header.String()})

	for e := range c.All() {
		if e.Fuzzy || !e.Translated() {
			continue
		}

		if e.IsPlural() {
			pairs = append(pairs, moPair{
				id:  e.ID + "\x00" + e.PluralID,
				str: strings.Join(e.PluralTranslations, "\x00"),
			})

			continue
		}

		pairs = append(pairs, moPair{id: e.ID, str: e.Translation})
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].id < pairs[j].id })

	return pairs
}

// EncodeMO returns the compiled .mo form of c.
//
// The output is deterministic for a given catalogue. Fuzzy and untranslated
// entries are left out; no hash table is emitted.
func EncodeMO(c *Catalog) ([]byte, error) {
	pairs := moPairs(c)
	n := len(pairs)

	var ids, strs bytes.Buffer

	idIndex := make([]uint32, 0, 2*n)
	strIndex := make([]uint32, 0, 2*n)

	for _, p := range pairs {
		idIndex = append(idIndex, uint32(len(p.id)), uint32(ids.Len()))
		ids.WriteString(p.id)
		ids.WriteByte(0)

		strIndex = append(strIndex, uint32(len(p.str)), uint32(strs.Len()))
		strs.WriteString(p.str)
		strs.WriteByte(0)
	}

	idsOffset := moHeaderSize + 2*n*moPairSize
	strsOffset := idsOffset + ids.Len()

	if uint64(strsOffset)+uint64(strs.Len()) > math.MaxUint32 {
		return nil, errMOTooLarge
	}

	for i := 1; i < len(idIndex); i += 2 {
		idIndex[i] += uint32(idsOffset)
		strIndex[i] += uint32(strsOffset)
	}

	var out bytes.Buffer

	out.Grow(strsOffset + strs.Len())

	header := []uint32{
		MOMagic,
		0, // revision
		uint32(n),
		moHeaderSize,
		uint32(moHeaderSize + n*moPairSize),
		0, // hash table size
		uint32(idsOffset),
	}

	for _, table := range [][]uint32{header, idIndex, strIndex} {
		if err := binary.Write(&out, binary.LittleEndian, table); err != nil {
			return nil, err
		}
	}

	out.Write(ids.Bytes())
	out.Write(strs.Bytes())

	return out.Bytes(), nil
}

// WriteMO writes the compiled .mo form of c to w.
func WriteMO(w io.Writer, c *Catalog) error {
	data, err := EncodeMO(c)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
