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

	"github.com/c2h5oh/datasize"
)

const (
	DefaultMaxDepth     = 1024
	DefaultMaxInputSize = 16 * datasize.MB
)

// Limits bound the work the decoder may do on untrusted input.
type Limits struct {
	MaxDepth     int
	MaxInputSize datasize.ByteSize
}

var DefaultLimits = Limits{MaxDepth: DefaultMaxDepth, MaxInputSize: DefaultMaxInputSize}

func (l Limits) withDefaults() Limits {
	if l.MaxDepth <= 0 {
		l.MaxDepth = DefaultMaxDepth
	}
	if l.MaxInputSize == 0 {
		l.MaxInputSize = DefaultMaxInputSize
	}
	return l
}

// Decode decodes the first item in b and reports how many bytes it occupied.
func Decode(b []byte) (Item, int, error) {
	return DefaultLimits.Decode(b)
}

// DecodeAll decodes exactly one item; bytes left after it are ErrTrailingData.
func DecodeAll(b []byte) (Item, error) {
	return DefaultLimits.DecodeAll(b)
}

func DecodeWithLimits(b []byte, limits Limits) (Item, error) {
	return limits.DecodeAll(b)
}

func (l Limits) Decode(b []byte) (Item, int, error) {
	l = l.withDefaults()
	if uint64(len(b)) > l.MaxInputSize.Bytes() {
		return Item{}, 0, fmt.Errorf("%w: %d bytes, limit %s", ErrInputTooLarge, len(b), l.MaxInputSize.HR())
	}
	if len(b) == 0 {
		return Item{}, 0, ErrUnexpectedEOF
	}
	return decodeItem(b, 0, 0, l.MaxDepth)
}

func (l Limits) DecodeAll(b []byte) (Item, error) {
	it, n, err := l.Decode(b)
	if err != nil {
		return Item{}, err
	}
	if n != len(b) {
		return Item{}, fmt.Errorf("%w: %d bytes after offset %d", ErrTrailingData, len(b)-n, n)
	}
	return it, nil
}

// decodeItem returns the item at payload[pos] and the position following it.
// A list's children are counted before any are decoded, so the slice holding
// them is sized by what the input contains rather than by a claimed length.
func decodeItem(payload []byte, pos, depth, maxDepth int) (Item, int, error) {
	dataPos, dataLen, isList, err := Prefix(payload, pos)
	if err != nil {
		return Item{}, 0, err
	}
	end := dataPos + dataLen
	if !isList {
		return Raw(cloneBytes(payload[dataPos:end])), end, nil
	}
	if depth+1 > maxDepth {
		return Item{}, 0, fmt.Errorf("%w: depth %d", ErrDepthLimit, maxDepth)
	}
	sub := payload[:end]
	n, err := CountValues(sub[dataPos:])
	if err != nil {
		return Item{}, 0, err
	}
	children := make([]Item, n)
	p := dataPos
	for i := range children {
		children[i], p, err = decodeItem(sub, p, depth+1, maxDepth)
		if err != nil {
			return Item{}, 0, err
		}
	}
	return List(children...), end, nil
}

func cloneBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
