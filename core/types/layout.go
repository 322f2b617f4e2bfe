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

type field uint8

const (
	fieldChainID field = iota
	fieldNonce
	fieldGasPrice
	fieldTip
	fieldFeeCap
	fieldGasLimit
	fieldTo
	fieldValue
	fieldData
	fieldAccessList
)

var fieldNames = [...]string{
	fieldChainID:    "chainId",
	fieldNonce:      "nonce",
	fieldGasPrice:   "gasPrice",
	fieldTip:        "maxPriorityFeePerGas",
	fieldFeeCap:     "maxFeePerGas",
	fieldGasLimit:   "gasLimit",
	fieldTo:         "to",
	fieldValue:      "value",
	fieldData:       "data",
	fieldAccessList: "accessList",
}

func (f field) String() string { return fieldNames[f] }

// txLayout is the ordered field list of a transaction type, excluding the
// signature trailer.
type txLayout struct {
	typed  bool
	fields []field
}

// layouts drives both encoding and decoding of every supported transaction type.
var layouts = map[TxType]txLayout{
	LegacyTxType: {
		fields: []field{fieldNonce, fieldGasPrice, fieldGasLimit, fieldTo, fieldValue, fieldData},
	},
	AccessListTxType: {
		typed:  true,
		fields: []field{fieldChainID, fieldNonce, fieldGasPrice, fieldGasLimit, fieldTo, fieldValue, fieldData, fieldAccessList},
	},
	DynamicFeeTxType: {
		typed:  true,
		fields: []field{fieldChainID, fieldNonce, fieldTip, fieldFeeCap, fieldGasLimit, fieldTo, fieldValue, fieldData, fieldAccessList},
	},
}

const trailerLen = 3 // [v, r, s] or [chainId, 0, 0]

func layoutOf(tx Transaction) (txLayout, error) {
	l, ok := layouts[tx.Type()]
	if !ok {
		return txLayout{}, ErrUnsupportedType
	}
	return l, nil
}

// encodeFields returns the items of the layout fields of tx, in order.
func encodeFields(tx Transaction, l txLayout) ([]rlp.Item, error) {
	items := make([]rlp.Item, 0, len(l.fields)+trailerLen)
	for _, f := range l.fields {
		switch p := tx.ref(f).(type) {
		case *uint64:
			items = append(items, rlp.Num(*p))
		case *Quantity:
			q, err := p.canonical(f.String())
			if err != nil {
				return nil, err
			}
			items = append(items, rlp.Raw(q))
		case **common.Address:
			if *p == nil {
				items = append(items, rlp.Empty())
			} else {
				items = append(items, rlp.Raw((*p).Bytes()))
			}
		case *[]byte:
			items = append(items, rlp.Raw(*p))
		case *AccessList:
			items = append(items, p.item())
		default:
			return nil, malformed("field %s not supported by %s", f, tx.Type())
		}
	}
	return items, nil
}

// decodeFields fills the layout fields of tx from items, in order.
func decodeFields(tx Transaction, l txLayout, items []rlp.Item) error {
	for i, f := range l.fields {
		it := items[i]
		switch p := tx.ref(f).(type) {
		case *uint64:
			v, err := it.Uint64()
			if err != nil {
				return wrapRlp(f.String(), err)
			}
			*p = v
		case *Quantity:
			q, err := decodeQuantity(f.String(), it)
			if err != nil {
				return err
			}
			*p = q
		case **common.Address:
			if it.IsList() {
				return malformed("%s: expected string, got list", f)
			}
			switch b := it.Bytes(); len(b) {
			case 0:
				*p = nil
			case length.Addr:
				addr := common.BytesToAddress(b)
				*p = &addr
			default:
				return malformed("%s: address must be %d bytes, got %d", f, length.Addr, len(b))
			}
		case *[]byte:
			if it.IsList() {
				return malformed("%s: expected string, got list", f)
			}
			*p = it.Bytes()
		case *AccessList:
			al, err := decodeAccessList(it)
			if err != nil {
				return err
			}
			*p = al
		default:
			return malformed("field %s not supported by %s", f, tx.Type())
		}
	}
	return nil
}
