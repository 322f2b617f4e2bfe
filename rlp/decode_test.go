// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package rlp

import (
	"bytes"
	"runtime"
	"testing"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAll(t *testing.T) {
	it, err := DecodeAll(decodeHex("c9845445737481e63201"))
	require.NoError(t, err)
	require.True(t, it.IsList())
	require.Len(t, it.Items(), 4)
	assert.Equal(t, []byte("TEst"), it.Items()[0].Bytes())
	assert.Equal(t, []byte{0xe6}, it.Items()[1].Bytes())
	assert.Equal(t, []byte{0x32}, it.Items()[2].Bytes())
	assert.Equal(t, []byte{0x01}, it.Items()[3].Bytes())
	for _, child := range it.Items() {
		assert.Equal(t, KindRaw, child.Kind())
	}
}

func TestDecodeVectors(t *testing.T) {
	for _, tt := range encodeTests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := DecodeAll(decodeHex(tt.output))
			require.NoError(t, err)
			if diff := cmp.Diff(normalize(tt.item), it, cmp.AllowUnexported(Item{}), cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("decoded item mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"empty input", "", ErrUnexpectedEOF},
		{"non-minimal single byte", "8100", ErrCanonSize},
		{"non-minimal single byte 7f", "817f", ErrCanonSize},
		{"long string form for 1 byte", "b80180", ErrCanonSize},
		{"long list form", "f80180", ErrCanonSize},
		{"leading zero length", "b9000100", ErrCanonSize},
		{"truncated string", "83646f", ErrValueTooLarge},
		{"truncated list", "c88363617483646f", ErrValueTooLarge},
		{"truncated length field", "bb0102", ErrUnexpectedEOF},
		{"child overruns parent", "c283646f67", ErrValueTooLarge},
		{"bad child", "c28100", ErrCanonSize},
		{"trailing data", "8080", ErrTrailingData},
		{"trailing data after list", "c000", ErrTrailingData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAll(decodeHex(tt.input))
			require.ErrorIs(t, err, tt.err)
			if tt.err != ErrTrailingData {
				require.ErrorIs(t, err, ErrMalformed)
			}
		})
	}
}

func TestDecodeConsumed(t *testing.T) {
	it, n, err := Decode(decodeHex("83646f67c0"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte("dog"), it.Bytes())
}

func TestDecodeDoesNotAlias(t *testing.T) {
	input := decodeHex("83646f67")
	it, err := DecodeAll(input)
	require.NoError(t, err)
	input[1] = 'x'
	assert.Equal(t, []byte("dog"), it.Bytes())
}

func nested(depth int) Item {
	it := List()
	for i := 1; i < depth; i++ {
		it = List(it)
	}
	return it
}

func TestDecodeDepthLimit(t *testing.T) {
	limits := Limits{MaxDepth: 3}
	_, err := limits.DecodeAll(EncodeToBytes(nested(3)))
	require.NoError(t, err)
	_, err = limits.DecodeAll(EncodeToBytes(nested(4)))
	require.ErrorIs(t, err, ErrDepthLimit)
	require.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeAll(EncodeToBytes(nested(DefaultMaxDepth)))
	require.NoError(t, err)
	_, err = DecodeAll(EncodeToBytes(nested(DefaultMaxDepth + 1)))
	require.ErrorIs(t, err, ErrDepthLimit)
}

func TestDecodeInputLimit(t *testing.T) {
	enc := EncodeToBytes(Raw(bytes.Repeat([]byte{1}, 100)))
	_, err := DecodeWithLimits(enc, Limits{MaxInputSize: 64 * datasize.B})
	require.ErrorIs(t, err, ErrInputTooLarge)
	_, err = DecodeWithLimits(enc, Limits{MaxInputSize: datasize.KB})
	require.NoError(t, err)
}

func TestSplit(t *testing.T) {
	input := decodeHex("c88363617483646f67" + "0f")
	isList, content, rest, err := Split(input)
	require.NoError(t, err)
	assert.True(t, isList)
	assert.Equal(t, decodeHex("0f"), rest)
	n, err := CountValues(content)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	s, rest, err := SplitString(content)
	require.NoError(t, err)
	assert.Equal(t, []byte("cat"), s)
	assert.Equal(t, decodeHex("83646f67"), rest)

	_, _, err = SplitString(input)
	assert.ErrorIs(t, err, ErrExpectedString)
	_, err = CountValues(decodeHex("83646f"))
	assert.ErrorIs(t, err, ErrValueTooLarge)
}

func TestDecodeWideListAllocation(t *testing.T) {
	const n = 1 << 16
	children := make([]Item, n)
	for i := range children {
		children[i] = List()
	}
	enc := EncodeToBytes(List(children...))

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	it, err := DecodeAll(enc)
	runtime.ReadMemStats(&after)
	require.NoError(t, err)
	require.Len(t, it.Items(), n)

	// a single child slice, no regrowth
	limit := uint64(n)*uint64(unsafe.Sizeof(Item{})) + 64*1024
	assert.LessOrEqual(t, after.TotalAlloc-before.TotalAlloc, limit)
	assert.LessOrEqual(t, unsafe.Sizeof(Item{}), uintptr(64))
}

// normalize maps an item to the form the decoder yields for its encoding.
func normalize(it Item) Item {
	if it.IsList() {
		children := make([]Item, len(it.Items()))
		for i, child := range it.Items() {
			children[i] = normalize(child)
		}
		return List(children...)
	}
	return Raw(it.Bytes())
}

func randomItem(c fuzz.Continue, depth int) Item {
	choice := c.Intn(5)
	if depth > 4 && choice == 4 {
		choice = 0
	}
	switch choice {
	case 0:
		return Num(c.Uint64())
	case 1:
		var b []byte
		c.Fuzz(&b)
		return Raw(b)
	case 2:
		return Empty()
	case 3:
		return Text(c.RandString())
	default:
		children := make([]Item, c.Intn(6))
		for i := range children {
			children[i] = randomItem(c, depth+1)
		}
		return List(children...)
	}
}

func TestRoundTripRandomItems(t *testing.T) {
	f := fuzz.NewWithSeed(42).NilChance(0.1).Funcs(func(it *Item, c fuzz.Continue) {
		*it = randomItem(c, 0)
	})
	for i := 0; i < 500; i++ {
		var it Item
		f.Fuzz(&it)
		enc := EncodeToBytes(it)
		require.Len(t, enc, EncodingSize(it))
		dec, err := DecodeAll(enc)
		require.NoError(t, err, "item %s", it)
		if diff := cmp.Diff(normalize(it), dec, cmp.AllowUnexported(Item{}), cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
		require.Equal(t, enc, EncodeToBytes(dec))
	}
}

func FuzzDecode(f *testing.F) {
	for _, tt := range encodeTests {
		f.Add(decodeHex(tt.output))
	}
	f.Add(decodeHex("c9845445737481e63201"))
	f.Add(decodeHex("8100"))
	f.Fuzz(func(t *testing.T, input []byte) {
		it, err := DecodeAll(input)
		if err != nil {
			return
		}
		// only canonical input is accepted, so re-encoding is the identity
		if !bytes.Equal(input, EncodeToBytes(it)) {
			t.Fatalf("re-encoding differs: %x != %x", input, EncodeToBytes(it))
		}
	})
}

func TestItemJSON(t *testing.T) {
	it := List(Num(64), Raw([]byte{0xde, 0xad}), Empty(), Text("x"), List())
	out, err := json.Marshal(it)
	require.NoError(t, err)
	assert.JSONEq(t, `{"List":[{"Num":64},{"Raw":"0xdead"},{"Empty":null},{"Text":"x"},{"List":[]}]}`, string(out))

	var back Item
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, it.Equal(back), "got %s", back)

	require.Error(t, json.Unmarshal([]byte(`{"Num":1,"Text":"x"}`), &back))
	require.Error(t, json.Unmarshal([]byte(`{"Bogus":1}`), &back))
	require.Error(t, json.Unmarshal([]byte(`{"Raw":"zz"}`), &back))
}
