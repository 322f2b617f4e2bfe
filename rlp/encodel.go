/*
   Copyright 2021 Erigon contributors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package rlp

import (
	"math/bits"
)

// General design:
//      - rlp package doesn't manage memory - and Caller must ensure buffers are big enough.
//      - sizes are computed first (pure functions), then values are written into a buffer of exactly that size
//
// Composition:
//     - each Encode method does write to given buffer and return written len
//     - each Len method returns how many bytes the matching Encode method will write
//
// General rules:
//      - functions to calculate prefix len are fast (and pure). it's ok to call them multiple times during encoding of large object for readability.
//      - rlp has 2 data types: List and String (bytes array), and low-level funcs are operate with this types.
//      - but for convenience and performance - provided higher-level functions (for example EncodeU64 for integers)
//

// beLen is the number of bytes of the minimal big-endian representation of i.
func beLen(i uint64) int {
	return (bits.Len64(i) + 7) / 8
}

// putBE writes the minimal big-endian representation of i and returns its length.
func putBE(i uint64, to []byte) int {
	n := beLen(i)
	for j := n - 1; j >= 0; j-- {
		to[j] = byte(i)
		i >>= 8
	}
	return n
}

func ListPrefixLen(dataLen int) int {
	if dataLen >= 56 {
		return 1 + beLen(uint64(dataLen))
	}
	return 1
}

func EncodeListPrefix(dataLen int, to []byte) int {
	if dataLen >= 56 {
		n := putBE(uint64(dataLen), to[1:])
		to[0] = 0xf7 + byte(n)
		return 1 + n
	}
	to[0] = 0xc0 + byte(dataLen)
	return 1
}

// StringPrefixLen is the size of the header EncodeString writes in front of s.
// A single byte below 0x80 is its own encoding and has no header.
func StringPrefixLen(s []byte) int {
	switch {
	case len(s) == 1 && s[0] < 0x80:
		return 0
	case len(s) >= 56:
		return 1 + beLen(uint64(len(s)))
	default:
		return 1
	}
}

func StringLen(s []byte) int {
	return StringPrefixLen(s) + len(s)
}

func EncodeString(s []byte, to []byte) int {
	switch {
	case len(s) == 1 && s[0] < 0x80:
		to[0] = s[0]
		return 1
	case len(s) >= 56:
		n := putBE(uint64(len(s)), to[1:])
		to[0] = 0xb7 + byte(n)
		copy(to[1+n:], s)
		return 1 + n + len(s)
	default: // 0 <= len(s) < 56
		to[0] = 0x80 + byte(len(s))
		copy(to[1:], s)
		return 1 + len(s)
	}
}

func U64Len(i uint64) int {
	if i >= 0x80 {
		return 1 + beLen(i)
	}
	return 1
}

func EncodeU64(i uint64, to []byte) int {
	if i >= 0x80 {
		n := putBE(i, to[1:])
		to[0] = 0x80 + byte(n)
		return 1 + n
	}
	if i == 0 {
		to[0] = 0x80
		return 1
	}
	to[0] = byte(i)
	return 1
}
