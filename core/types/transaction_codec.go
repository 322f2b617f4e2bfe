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
	"github.com/erigontech/evmutils/crypto"
	"github.com/erigontech/evmutils/rlp"
)

// MarshalBinary returns the wire form of tx: the signed encoding when a signature
// is present, the signing payload otherwise.
func MarshalBinary(tx Transaction) ([]byte, error) {
	if tx.GetSign() == nil {
		return SigningPayload(tx)
	}
	return signedPayload(tx)
}

// TxHash is the hash of the wire form of tx.
func TxHash(tx Transaction) (common.Hash, error) {
	raw, err := MarshalBinary(tx)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(raw), nil
}

// CreateTransaction encodes tx and returns the encoding with the signing hash.
// An unsigned tx yields its signing payload; a signed one its wire form, with the
// signature values embedded as given. If Sign.From is set the signature must
// recover to it.
func CreateTransaction(tx Transaction) ([]byte, common.Hash, error) {
	hash, err := SigningHash(tx)
	if err != nil {
		return nil, common.Hash{}, err
	}
	sign := tx.GetSign()
	if sign == nil {
		payload, err := SigningPayload(tx)
		return payload, hash, err
	}
	if sign.From != nil {
		from, err := Sender(tx)
		if err != nil {
			return nil, common.Hash{}, err
		}
		if from != *sign.From {
			return nil, common.Hash{}, fmt.Errorf("%w: expected %s, got %s", ErrSenderMismatch, sign.From, from)
		}
	}
	raw, err := signedPayload(tx)
	if err != nil {
		return nil, common.Hash{}, err
	}
	return raw, hash, nil
}

// EncodeSignedTransaction is CreateTransaction for transactions that must be signed.
func EncodeSignedTransaction(tx Transaction) ([]byte, common.Hash, error) {
	if tx.GetSign() == nil {
		return nil, common.Hash{}, ErrMissingSignature
	}
	return CreateTransaction(tx)
}

// ParseTransaction decodes a legacy or typed transaction. Signed transactions get
// the recovered sender in Sign.From and the transaction hash in Sign.Hash.
func ParseTransaction(b []byte) (Transaction, error) {
	return ParseTransactionWithLimits(b, rlp.DefaultLimits)
}

func ParseTransactionWithLimits(b []byte, limits rlp.Limits) (Transaction, error) {
	if len(b) == 0 {
		return nil, malformed("empty input")
	}
	t, body := LegacyTxType, b
	switch {
	case b[0] >= 0xc0:
	case b[0] >= 0x80:
		return nil, malformed("unexpected string prefix %#x", b[0])
	default:
		t, body = TxType(b[0]), b[1:]
		if l, ok := layouts[t]; !ok || !l.typed {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
		}
	}
	tx, err := newTransaction(t)
	if err != nil {
		return nil, err
	}
	l := layouts[t]

	list, err := limits.DecodeAll(body)
	if err != nil {
		return nil, wrapRlp(t.String(), err)
	}
	if !list.IsList() {
		return nil, malformed("%s: expected list", t)
	}
	items := list.Items()
	n := len(l.fields)
	if len(items) != n && len(items) != n+trailerLen {
		return nil, malformed("%s: expected %d or %d fields, got %d", t, n, n+trailerLen, len(items))
	}
	if err := decodeFields(tx, l, items[:n]); err != nil {
		return nil, err
	}
	if len(items) == n {
		return tx, nil
	}

	v, err := items[n].Uint64()
	if err != nil {
		return nil, wrapRlp("v", err)
	}
	r, err := decodeQuantity("r", items[n+1])
	if err != nil {
		return nil, err
	}
	s, err := decodeQuantity("s", items[n+2])
	if err != nil {
		return nil, err
	}
	if !l.typed {
		// [chainId, 0, 0] marks an unsigned EIP-155 payload
		if r.IsZero() && s.IsZero() {
			tx.(*LegacyTx).ChainID = v
			return tx, nil
		}
		tx.(*LegacyTx).ChainID = DeriveChainID(v)
	}

	sign := &Signature{
		V: v,
		R: common.BytesToHash(r),
		S: common.BytesToHash(s),
	}
	tx.SetSign(sign)
	// canonical decoding makes the re-encoded wire form equal to b
	if sign.Hash, err = TxHash(tx); err != nil {
		return nil, err
	}
	from, err := Sender(tx)
	if err != nil {
		return nil, err
	}
	sign.From = &from
	return tx, nil
}
