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

package common

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimLeftZeroes(t *testing.T) {
	tests := []struct {
		in, want []byte
	}{
		{nil, []byte{}},
		{[]byte{}, []byte{}},
		{[]byte{0, 0, 0}, []byte{}},
		{[]byte{0, 0, 1, 0}, []byte{1, 0}},
		{[]byte{0x27, 0x10}, []byte{0x27, 0x10}},
	}
	for _, tt := range tests {
		got := TrimLeftZeroes(tt.in)
		assert.Equal(t, len(tt.want), len(got), "input %x", tt.in)
		assert.Equal(t, hex.EncodeToString(tt.want), hex.EncodeToString(got))
	}
}

func TestToFixedWidth(t *testing.T) {
	out, err := ToFixedWidth([]byte{0x27, 0x10}, 4)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0x27, 0x10}, out)

	out, err = ToFixedWidth(nil, 2)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0}, out)

	_, err = ToFixedWidth(make([]byte, 33), 32)
	require.ErrorIs(t, err, ErrLength)

	full := []byte{1, 2}
	out, err = ToFixedWidth(full, 2)
	require.NoError(t, err)
	require.Equal(t, full, out)
}

func TestFromHex(t *testing.T) {
	require.Equal(t, []byte{0x01, 0x23}, FromHex("0x123"))
	require.Equal(t, []byte{0xab}, FromHex("AB"))
	require.Equal(t, []byte{}, FromHex("0x"))
	require.Nil(t, FromHex("0xzz"))
}

func TestLeftPadBytes(t *testing.T) {
	val := []byte{1, 2, 3, 4}
	padded := []byte{0, 0, 0, 0, 1, 2, 3, 4}

	require.Equal(t, padded, LeftPadBytes(val, 8))
	require.Equal(t, val, LeftPadBytes(val, 2))
}

func TestHashData(t *testing.T) {
	require.Equal(t,
		"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		HashData().Hex())
	// split input must hash the same as joined input
	require.Equal(t, HashData([]byte("abc")), HashData([]byte("a"), []byte("bc")))
	require.Equal(t,
		"0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45",
		HashData([]byte("abc")).Hex())
}

func TestAddressHex(t *testing.T) {
	a := HexToAddress("0xE94F1FA4F27D9D288FFEA234BB62E1FBC086CA0C")
	require.Equal(t, "0xe94f1fa4f27d9d288ffea234bb62e1fbc086ca0c", a.Hex())
	require.True(t, IsHexAddress("e94f1fa4f27d9d288ffea234bb62e1fbc086ca0c"))
	require.False(t, IsHexAddress("0xe94f1fa4"))

	var b Address
	require.NoError(t, b.UnmarshalText([]byte(a.Hex())))
	require.Equal(t, a, b)
	require.Error(t, b.UnmarshalText([]byte("0x1234")))
}

func TestBytesToHashCrops(t *testing.T) {
	long := make([]byte, 40)
	long[39] = 7
	h := BytesToHash(long)
	require.Equal(t, byte(7), h[31])

	h = BytesToHash([]byte{1})
	require.Equal(t, byte(1), h[31])
	require.Equal(t, byte(0), h[0])
}
