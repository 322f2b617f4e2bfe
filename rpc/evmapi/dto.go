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

package evmapi

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/erigontech/evmutils/common"
	"github.com/erigontech/evmutils/common/length"
	"github.com/erigontech/evmutils/core/types"
)

type SignatureJSON struct {
	V    uint64        `json:"v"`
	R    hexutil.Bytes `json:"r"`
	S    hexutil.Bytes `json:"s"`
	From hexutil.Bytes `json:"from,omitempty"`
	Hash hexutil.Bytes `json:"hash,omitempty"`
}

type AccessTupleJSON struct {
	Address     hexutil.Bytes   `json:"address"`
	StorageKeys []hexutil.Bytes `json:"storage_keys"`
}

// TxJSON carries the fields of every transaction type. Which of them are
// meaningful depends on the variant tag it is wrapped in.
type TxJSON struct {
	ChainID              uint64            `json:"chain_id"`
	Nonce                hexutil.Bytes     `json:"nonce"`
	GasPrice             hexutil.Bytes     `json:"gas_price,omitempty"`
	MaxPriorityFeePerGas hexutil.Bytes     `json:"max_priority_fee_per_gas,omitempty"`
	MaxFeePerGas         hexutil.Bytes     `json:"max_fee_per_gas,omitempty"`
	GasLimit             hexutil.Bytes     `json:"gas_limit"`
	To                   hexutil.Bytes     `json:"to"`
	Value                hexutil.Bytes     `json:"value"`
	Data                 hexutil.Bytes     `json:"data"`
	AccessList           []AccessTupleJSON `json:"access_list,omitempty"`
	Sign                 *SignatureJSON    `json:"sign,omitempty"`
}

// TransactionJSON is the tagged form {"Legacy":{..}}, {"EIP2930":{..}} or
// {"EIP1559":{..}}. Exactly one variant is set.
type TransactionJSON struct {
	Legacy  *TxJSON `json:"Legacy,omitempty"`
	EIP2930 *TxJSON `json:"EIP2930,omitempty"`
	EIP1559 *TxJSON `json:"EIP1559,omitempty"`
}

// TxResult is the result of create_transaction and encode_signed_transaction.
type TxResult struct {
	Raw  hexutil.Bytes `json:"raw"`
	Hash common.Hash   `json:"hash"`
}

func fixed(name string, b []byte, n int) ([]byte, error) {
	if len(b) != n {
		return nil, fmt.Errorf("%w: %s must be %d bytes, got %d", common.ErrLength, name, n, len(b))
	}
	return b, nil
}

func (s *SignatureJSON) toSignature() (*types.Signature, error) {
	if s == nil {
		return nil, nil
	}
	r, err := common.ToFixedWidth(s.R, length.Hash)
	if err != nil {
		return nil, fmt.Errorf("sign.r: %w", err)
	}
	ss, err := common.ToFixedWidth(s.S, length.Hash)
	if err != nil {
		return nil, fmt.Errorf("sign.s: %w", err)
	}
	sign := &types.Signature{V: s.V, R: common.BytesToHash(r), S: common.BytesToHash(ss)}
	if len(s.From) > 0 {
		from, err := fixed("sign.from", s.From, length.Addr)
		if err != nil {
			return nil, err
		}
		addr := common.BytesToAddress(from)
		sign.From = &addr
	}
	return sign, nil
}

func signatureJSON(s *types.Signature) *SignatureJSON {
	if s == nil {
		return nil
	}
	out := &SignatureJSON{
		V:    s.V,
		R:    common.TrimLeftZeroes(s.R[:]),
		S:    common.TrimLeftZeroes(s.S[:]),
		Hash: s.Hash.Bytes(),
	}
	if s.From != nil {
		out.From = s.From.Bytes()
	}
	return out
}

func (t *TxJSON) accessList() (types.AccessList, error) {
	al := make(types.AccessList, 0, len(t.AccessList))
	for i, tuple := range t.AccessList {
		addr, err := fixed(fmt.Sprintf("access_list[%d].address", i), tuple.Address, length.Addr)
		if err != nil {
			return nil, err
		}
		keys := make([]common.Hash, 0, len(tuple.StorageKeys))
		for j, key := range tuple.StorageKeys {
			k, err := fixed(fmt.Sprintf("access_list[%d].storage_keys[%d]", i, j), key, length.Hash)
			if err != nil {
				return nil, err
			}
			keys = append(keys, common.BytesToHash(k))
		}
		al = append(al, types.AccessTuple{Address: common.BytesToAddress(addr), StorageKeys: keys})
	}
	return al, nil
}

func (t *TxJSON) commonTx() (types.CommonTx, error) {
	ct := types.CommonTx{
		ChainID:  t.ChainID,
		Nonce:    types.Quantity(t.Nonce),
		GasLimit: types.Quantity(t.GasLimit),
		Value:    types.Quantity(t.Value),
		Data:     t.Data,
	}
	if len(t.To) > 0 {
		to, err := fixed("to", t.To, length.Addr)
		if err != nil {
			return ct, err
		}
		addr := common.BytesToAddress(to)
		ct.To = &addr
	}
	sign, err := t.Sign.toSignature()
	if err != nil {
		return ct, err
	}
	ct.Sign = sign
	return ct, nil
}

// ToTransaction converts the tagged JSON form into a transaction.
func (j *TransactionJSON) ToTransaction() (types.Transaction, error) {
	set := 0
	for _, v := range []*TxJSON{j.Legacy, j.EIP2930, j.EIP1559} {
		if v != nil {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: expected exactly one of Legacy, EIP2930, EIP1559", ErrInvalidRequest)
	}
	switch {
	case j.Legacy != nil:
		ct, err := j.Legacy.commonTx()
		if err != nil {
			return nil, err
		}
		return &types.LegacyTx{CommonTx: ct, GasPrice: types.Quantity(j.Legacy.GasPrice)}, nil
	case j.EIP2930 != nil:
		ct, err := j.EIP2930.commonTx()
		if err != nil {
			return nil, err
		}
		al, err := j.EIP2930.accessList()
		if err != nil {
			return nil, err
		}
		return &types.AccessListTx{
			LegacyTx:   types.LegacyTx{CommonTx: ct, GasPrice: types.Quantity(j.EIP2930.GasPrice)},
			AccessList: al,
		}, nil
	default:
		ct, err := j.EIP1559.commonTx()
		if err != nil {
			return nil, err
		}
		al, err := j.EIP1559.accessList()
		if err != nil {
			return nil, err
		}
		return &types.DynamicFeeTx{
			CommonTx:             ct,
			MaxPriorityFeePerGas: types.Quantity(j.EIP1559.MaxPriorityFeePerGas),
			MaxFeePerGas:         types.Quantity(j.EIP1559.MaxFeePerGas),
			AccessList:           al,
		}, nil
	}
}

func commonJSON(ct *types.CommonTx) *TxJSON {
	out := &TxJSON{
		ChainID:  ct.ChainID,
		Nonce:    hexutil.Bytes(ct.Nonce),
		GasLimit: hexutil.Bytes(ct.GasLimit),
		Value:    hexutil.Bytes(ct.Value),
		Data:     ct.Data,
		Sign:     signatureJSON(ct.Sign),
	}
	if ct.To != nil {
		out.To = ct.To.Bytes()
	}
	return out
}

func accessListJSON(al types.AccessList) []AccessTupleJSON {
	out := make([]AccessTupleJSON, 0, len(al))
	for _, tuple := range al {
		keys := make([]hexutil.Bytes, 0, len(tuple.StorageKeys))
		for _, k := range tuple.StorageKeys {
			keys = append(keys, k.Bytes())
		}
		out = append(out, AccessTupleJSON{Address: tuple.Address.Bytes(), StorageKeys: keys})
	}
	return out
}

// NewTransactionJSON returns the tagged JSON form of tx.
func NewTransactionJSON(tx types.Transaction) TransactionJSON {
	switch t := tx.(type) {
	case *types.LegacyTx:
		out := commonJSON(&t.CommonTx)
		out.GasPrice = hexutil.Bytes(t.GasPrice)
		return TransactionJSON{Legacy: out}
	case *types.AccessListTx:
		out := commonJSON(&t.CommonTx)
		out.GasPrice = hexutil.Bytes(t.GasPrice)
		out.AccessList = accessListJSON(t.AccessList)
		return TransactionJSON{EIP2930: out}
	case *types.DynamicFeeTx:
		out := commonJSON(&t.CommonTx)
		out.MaxPriorityFeePerGas = hexutil.Bytes(t.MaxPriorityFeePerGas)
		out.MaxFeePerGas = hexutil.Bytes(t.MaxFeePerGas)
		out.AccessList = accessListJSON(t.AccessList)
		return TransactionJSON{EIP1559: out}
	}
	return TransactionJSON{}
}
