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

// Token is the class of an RLP value, selected by its first (prefix) byte.
type Token int32

const (
	TokenUnknown Token = iota
	// TokenDecimal is a single byte in [0x00, 0x7f] that encodes itself
	TokenDecimal
	// TokenShortBlob is a string of 0-55 bytes, prefix [0x80, 0xb7]
	TokenShortBlob
	// TokenLongBlob is a string of 56+ bytes, prefix [0xb8, 0xbf]
	TokenLongBlob
	// TokenShortList is a list with a 0-55 byte payload, prefix [0xc0, 0xf7]
	TokenShortList
	// TokenLongList is a list with a 56+ byte payload, prefix [0xf8, 0xff]
	TokenLongList
)

func (t Token) String() string {
	switch t {
	case TokenDecimal:
		return "decimal"
	case TokenShortBlob:
		return "short_blob"
	case TokenLongBlob:
		return "long_blob"
	case TokenShortList:
		return "short_list"
	case TokenLongList:
		return "long_list"
	default:
		return "unknown"
	}
}

// Diff returns the distance of prefix from the first prefix byte of the token class.
func (t Token) Diff(n byte) byte {
	switch t {
	case TokenDecimal:
		return n - 0x00
	case TokenShortBlob:
		return n - 0x80
	case TokenLongBlob:
		return n - 0xb7
	case TokenShortList:
		return n - 0xc0
	case TokenLongList:
		return n - 0xf7
	default:
		return 0
	}
}

func identifyToken(b byte) Token {
	switch {
	case b <= 0x7f:
		return TokenDecimal
	case b <= 0xb7:
		return TokenShortBlob
	case b <= 0xbf:
		return TokenLongBlob
	case b <= 0xf7:
		return TokenShortList
	default:
		return TokenLongList
	}
}
