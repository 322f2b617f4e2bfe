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

// Split returns the content of the first RLP value in b and any bytes after it.
// Both slices alias b.
func Split(b []byte) (isList bool, content, rest []byte, err error) {
	dataPos, dataLen, isList, err := Prefix(b, 0)
	if err != nil {
		return false, nil, b, err
	}
	return isList, b[dataPos : dataPos+dataLen], b[dataPos+dataLen:], nil
}

// SplitString splits b into the content of an RLP string and any remaining bytes.
func SplitString(b []byte) (content, rest []byte, err error) {
	isList, content, rest, err := Split(b)
	if err != nil {
		return nil, b, err
	}
	if isList {
		return nil, b, ErrExpectedString
	}
	return content, rest, nil
}

// CountValues counts the encoded values in b, which is typically list content.
func CountValues(b []byte) (int, error) {
	i := 0
	for ; len(b) > 0; i++ {
		_, _, rest, err := Split(b)
		if err != nil {
			return 0, err
		}
		b = rest
	}
	return i, nil
}
