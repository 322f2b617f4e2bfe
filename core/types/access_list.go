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
	"github.com/erigontech/evmutils/common"
	"github.com/erigontech/evmutils/common/length"
	"github.com/erigontech/evmutils/rlp"
)

// AccessTuple is the element type of an access list.
type AccessTuple struct {
	Address     common.Address `json:"address"`
	StorageKeys []common.Hash  `json:"storageKeys"`
}

// AccessList is an EIP-2930 access list.
type AccessList []AccessTuple


func (al AccessList) item() rlp.Item {
	tuples := make([]rlp.Item, len(al))
	for i, tuple := range al {
		keys := make([]rlp.Item, len(tuple.StorageKeys))
		for j, key := range tuple.StorageKeys {
			keys[j] = rlp.Raw(key.Bytes())
		}
		tuples[i] = rlp.List(rlp.Raw(tuple.Address.Bytes()), rlp.List(keys...))
	}
	return rlp.List(tuples...)
}

func decodeAccessList(it rlp.Item) (AccessList, error) {
	if !it.IsList() {
		return nil, malformed("access list: expected list")
	}
	al := make(AccessList, 0, len(it.Items()))
	for i, tupleItem := range it.Items() {
		if !tupleItem.IsList() || len(tupleItem.Items()) != 2 {
			return nil, malformed("access list tuple %d: expected [address, storageKeys]", i)
		}
		addrItem, keysItem := tupleItem.Items()[0], tupleItem.Items()[1]
		if addrItem.IsList() || len(addrItem.Bytes()) != length.Addr {
			return nil, malformed("access list tuple %d: address must be %d bytes", i, length.Addr)
		}
		if !keysItem.IsList() {
			return nil, malformed("access list tuple %d: storage keys must be a list", i)
		}
		tuple := AccessTuple{
			Address:     common.BytesToAddress(addrItem.Bytes()),
			StorageKeys: make([]common.Hash, 0, len(keysItem.Items())),
		}
		for j, key := range keysItem.Items() {
			if key.IsList() || len(key.Bytes()) != length.Hash {
				return nil, malformed("access list tuple %d: storage key %d must be %d bytes", i, j, length.Hash)
			}
			tuple.StorageKeys = append(tuple.StorageKeys, common.BytesToHash(key.Bytes()))
		}
		al = append(al, tuple)
	}
	return al, nil
}
