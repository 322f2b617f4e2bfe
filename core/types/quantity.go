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

package types

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/erigontech/evmutils/common"
	"github.com/erigontech/evmutils/rlp"
)

// Quantity is an unsigned integer of at most 256 bits held in minimal big-endian
// form. Zero is the empty string.
type Quantity []byte

func QuantityFromUint64(v uint64) Quantity {
	return QuantityFromUint256(uint256.NewInt(v))
}

func QuantityFromUint256(v *uint256.Int) Quantity {
	if v.IsZero() {
		return Quantity{}
	}
	return v.Bytes()
}

func (q Quantity) Uint256() *uint256.Int {
	return new(uint256.Int).SetBytes(common.TrimLeftZeroes(q))
}

func (q Quantity) IsZero() bool {
	return len(common.TrimLeftZeroes(q)) == 0
}

func (q Quantity) String() string {
	return q.Uint256().Dec()
}

// canonical trims leading zeros and rejects values wider than 256 bits.
func (q Quantity) canonical(name string) (Quantity, error) {
	t := common.TrimLeftZeroes(q)
	if len(t) > 32 {
		return nil, malformed("%s exceeds 256 bits (%d bytes)", name, len(t))
	}
	return Quantity(t), nil
}

func decodeQuantity(name string, it rlp.Item) (Quantity, error) {
	if it.IsList() {
		return nil, malformed("%s: expected string, got list", name)
	}
	b := it.Bytes()
	if len(b) > 32 {
		return nil, malformed("%s exceeds 256 bits (%d bytes)", name, len(b))
	}
	if len(b) > 0 && b[0] == 0 {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedTransaction, name, rlp.ErrCanonInt)
	}
	return Quantity(common.CopyBytes(b)), nil
}
