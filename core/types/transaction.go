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

	"github.com/erigontech/evmutils/common"
)

// TxType is the EIP-2718 envelope type byte.
type TxType byte

const (
	LegacyTxType     TxType = 0x00
	AccessListTxType TxType = 0x01
	DynamicFeeTxType TxType = 0x02
)

func (t TxType) String() string {
	switch t {
	case LegacyTxType:
		return "Legacy"
	case AccessListTxType:
		return "EIP2930"
	case DynamicFeeTxType:
		return "EIP1559"
	default:
		return fmt.Sprintf("TxType(%#x)", byte(t))
	}
}

// Signature holds externally produced signature values. From, when set on input,
// names the expected signer. After parsing, From is the recovered sender and Hash
// the transaction hash.
type Signature struct {
	V    uint64
	R    common.Hash
	S    common.Hash
	From *common.Address
	Hash common.Hash
}

// Transaction is one of *LegacyTx, *AccessListTx or *DynamicFeeTx.
type Transaction interface {
	Type() TxType
	GetChainID() uint64
	GetNonce() Quantity
	GetTo() *common.Address
	GetValue() Quantity
	GetData() []byte
	GetSign() *Signature
	SetSign(*Signature)
	// ref returns a pointer to the storage of a layout field.
	ref(f field) any
}

// CommonTx holds the fields shared by every transaction type.
type CommonTx struct {
	ChainID  uint64
	Nonce    Quantity
	GasLimit Quantity
	To       *common.Address // nil means contract creation
	Value    Quantity
	Data     []byte
	Sign     *Signature
}

func (ct *CommonTx) GetChainID() uint64      { return ct.ChainID }
func (ct *CommonTx) GetNonce() Quantity      { return ct.Nonce }
func (ct *CommonTx) GetTo() *common.Address  { return ct.To }
func (ct *CommonTx) GetValue() Quantity      { return ct.Value }
func (ct *CommonTx) GetData() []byte         { return ct.Data }
func (ct *CommonTx) GetSign() *Signature     { return ct.Sign }
func (ct *CommonTx) SetSign(sign *Signature) { ct.Sign = sign }

func (ct *CommonTx) ref(f field) any {
	switch f {
	case fieldChainID:
		return &ct.ChainID
	case fieldNonce:
		return &ct.Nonce
	case fieldGasLimit:
		return &ct.GasLimit
	case fieldTo:
		return &ct.To
	case fieldValue:
		return &ct.Value
	case fieldData:
		return &ct.Data
	}
	return nil
}

// LegacyTx is the original transaction format, optionally replay protected with
// EIP-155.
type LegacyTx struct {
	CommonTx
	GasPrice Quantity
}

func (tx *LegacyTx) Type() TxType { return LegacyTxType }

func (tx *LegacyTx) ref(f field) any {
	if f == fieldGasPrice {
		return &tx.GasPrice
	}
	return tx.CommonTx.ref(f)
}

// AccessListTx is the EIP-2930 transaction.
type AccessListTx struct {
	LegacyTx
	AccessList AccessList
}

func (tx *AccessListTx) Type() TxType { return AccessListTxType }

func (tx *AccessListTx) ref(f field) any {
	if f == fieldAccessList {
		return &tx.AccessList
	}
	return tx.LegacyTx.ref(f)
}

// DynamicFeeTx is the EIP-1559 transaction.
type DynamicFeeTx struct {
	CommonTx
	MaxPriorityFeePerGas Quantity
	MaxFeePerGas         Quantity
	AccessList           AccessList
}

func (tx *DynamicFeeTx) Type() TxType { return DynamicFeeTxType }

func (tx *DynamicFeeTx) ref(f field) any {
	switch f {
	case fieldTip:
		return &tx.MaxPriorityFeePerGas
	case fieldFeeCap:
		return &tx.MaxFeePerGas
	case fieldAccessList:
		return &tx.AccessList
	}
	return tx.CommonTx.ref(f)
}

func newTransaction(t TxType) (Transaction, error) {
	switch t {
	case LegacyTxType:
		return &LegacyTx{}, nil
	case AccessListTxType:
		return &AccessListTx{}, nil
	case DynamicFeeTxType:
		return &DynamicFeeTx{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}
