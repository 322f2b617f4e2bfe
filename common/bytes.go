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
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrLength is returned when a value does not fit into the requested width.
var ErrLength = errors.New("invalid length")

// CopyBytes returns an exact copy of the provided bytes.
func CopyBytes(b []byte) (copiedBytes []byte) {
	if b == nil {
		return nil
	}
	copiedBytes = make([]byte, len(b))
	copy(copiedBytes, b)
	return
}

// TrimLeftZeroes returns a subslice of s without leading zeroes.
// The all-zero input (and the empty input) maps to the empty slice, which is
// the canonical RLP representation of zero.
func TrimLeftZeroes(s []byte) []byte {
	idx := 0
	for ; idx < len(s); idx++ {
		if s[idx] != 0 {
			break
		}
	}
	return s[idx:]
}

// LeftPadBytes zero-pads slice to the left up to length l.
// Slices that are already long enough are returned as is.
func LeftPadBytes(slice []byte, l int) []byte {
	if l <= len(slice) {
		return slice
	}
	padded := make([]byte, l)
	copy(padded[l-len(slice):], slice)
	return padded
}

// ToFixedWidth left-pads b with zeroes to exactly n bytes. The result aliases b
// when b is already n bytes long.
func ToFixedWidth(b []byte, n int) ([]byte, error) {
	if len(b) > n {
		return nil, fmt.Errorf("%w: %d bytes do not fit into %d", ErrLength, len(b), n)
	}
	if len(b) == 0 {
		return make([]byte, n), nil
	}
	return LeftPadBytes(b, n), nil
}

// FromHex returns the bytes represented by the hexadecimal string s, for
// literals known to be valid. s may be prefixed with "0x" and may have an odd
// number of digits. Invalid input yields nil; use hexutil.Decode to see why.
func FromHex(s string) []byte {
	if has0xPrefix(s) {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	h, err := hexutil.Decode("0x" + s)
	if err != nil {
		return nil
	}
	return h
}

func has0xPrefix(str string) bool {
	return len(str) >= 2 && str[0] == '0' && (str[1] == 'x' || str[1] == 'X')
}

