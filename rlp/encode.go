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

// EncodingSize returns the exact length of the canonical encoding of it.
func EncodingSize(it Item) int {
	switch it.kind {
	case KindEmpty:
		return 1
	case KindNum:
		return U64Len(it.num)
	case KindList:
		n := payloadSize(it)
		return ListPrefixLen(n) + n
	default:
		return StringLen(it.Bytes())
	}
}

func payloadSize(it Item) int {
	var n int
	for _, child := range it.list {
		n += EncodingSize(child)
	}
	return n
}

// EncodeToBytes returns the canonical encoding of it.
func EncodeToBytes(it Item) []byte {
	buf := make([]byte, EncodingSize(it))
	encodeInto(it, buf)
	return buf
}

// AppendItem appends the canonical encoding of it to dst.
func AppendItem(dst []byte, it Item) []byte {
	size := EncodingSize(it)
	start := len(dst)
	if cap(dst)-start < size {
		grown := make([]byte, start, start+size)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:start+size]
	encodeInto(it, dst[start:])
	return dst
}

// encodeInto writes it into to, which must hold at least EncodingSize(it) bytes.
func encodeInto(it Item, to []byte) int {
	switch it.kind {
	case KindEmpty:
		to[0] = 0x80
		return 1
	case KindNum:
		return EncodeU64(it.num, to)
	case KindList:
		pos := EncodeListPrefix(payloadSize(it), to)
		for _, child := range it.list {
			pos += encodeInto(child, to[pos:])
		}
		return pos
	default:
		return EncodeString(it.Bytes(), to)
	}
}
