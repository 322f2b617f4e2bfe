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
	"fmt"
)

// BeInt parses a big-endian length field of the given size, rejecting leading zeros.
func BeInt(payload []byte, pos, length int) (int, error) {
	var r int
	if pos+length > len(payload) {
		return 0, ErrUnexpectedEOF
	}
	if length > 0 && payload[pos] == 0 {
		return 0, fmt.Errorf("%w: integer encoding for RLP must not have leading zeros: %x", ErrCanonSize, payload[pos:pos+length])
	}
	for _, b := range payload[pos : pos+length] {
		if r > (1<<(bitsOfInt-9))-1 {
			return 0, fmt.Errorf("%w: length field %x", ErrValueTooLarge, payload[pos:pos+length])
		}
		r = (r << 8) | int(b)
	}
	return r, nil
}

const bitsOfInt = 32 << (^uint(0) >> 63)

// Prefix parses the RLP prefix at payload[pos] and returns the position and length of
// the payload it announces. All non-canonical prefix forms are rejected.
func Prefix(payload []byte, pos int) (dataPos int, dataLen int, isList bool, err error) {
	if pos < 0 {
		return 0, 0, false, fmt.Errorf("%w: negative position not allowed", ErrMalformed)
	}
	if pos >= len(payload) {
		return 0, 0, false, fmt.Errorf("%w: unexpected end of payload", ErrUnexpectedEOF)
	}
	prefix := payload[pos]
	token := identifyToken(prefix)
	switch token {
	case TokenDecimal:
		return pos, 1, false, nil
	case TokenShortBlob:
		dataPos = pos + 1
		dataLen = int(token.Diff(prefix))
		if dataLen == 1 {
			if dataPos >= len(payload) {
				return 0, 0, false, ErrUnexpectedEOF
			}
			if payload[dataPos] < 0x80 {
				return 0, 0, false, fmt.Errorf("%w: single byte %#x below 0x80 must be encoded as itself", ErrCanonSize, payload[dataPos])
			}
		}
	case TokenLongBlob, TokenLongList:
		beLen := int(token.Diff(prefix))
		dataPos = pos + 1 + beLen
		dataLen, err = BeInt(payload, pos+1, beLen)
		if err != nil {
			return 0, 0, false, err
		}
		if dataLen < 56 {
			return 0, 0, false, fmt.Errorf("%w: long form used for %d bytes", ErrCanonSize, dataLen)
		}
		isList = token == TokenLongList
	case TokenShortList:
		dataPos = pos + 1
		dataLen = int(token.Diff(prefix))
		isList = true
	}
	if dataPos+dataLen > len(payload) || dataPos+dataLen < dataPos {
		return 0, 0, false, fmt.Errorf("%w: prefix at %d announces %d bytes, %d available", ErrValueTooLarge, pos, dataLen, len(payload)-dataPos)
	}
	return dataPos, dataLen, isList, nil
}
