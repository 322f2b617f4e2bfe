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
	"github.com/erigontech/evmutils/common/length"
	"github.com/erigontech/evmutils/crypto"
	"github.com/erigontech/evmutils/rlp"
)

var (
	ErrInvalidChainId = fmt.Errorf("%w: invalid chain id for signer", crypto.ErrRecovery)
	ErrSenderMismatch = fmt.Errorf("%w: recovered sender does not match", crypto.ErrRecovery)
)

// SigningPayload returns the bytes whose hash a sender signs. Legacy transactions
// with a non-zero chain id carry the EIP-155 [chainId, 0, 0] trailer.
func SigningPayload(tx Transaction) ([]byte, error) {
	l, err := layoutOf(tx)
	if err != nil {
		return nil, err
	}
	items, err := encodeFields(tx, l)
	if err != nil {
		return nil, err
	}
	if !l.typed {
		if chainID := tx.GetChainID(); chainID != 0 {
			items = append(items, rlp.Num(chainID), rlp.Empty(), rlp.Empty())
		}
	}
	return envelope(tx.Type(), l, items), nil
}

// SigningHash returns the hash that must be signed to authorize tx.
func SigningHash(tx Transaction) (common.Hash, error) {
	payload, err := SigningPayload(tx)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(payload), nil
}

func signedPayload(tx Transaction) ([]byte, error) {
	sign := tx.GetSign()
	if sign == nil {
		return nil, ErrMissingSignature
	}
	l, err := layoutOf(tx)
	if err != nil {
		return nil, err
	}
	items, err := encodeFields(tx, l)
	if err != nil {
		return nil, err
	}
	items = append(items,
		rlp.Num(sign.V),
		rlp.Raw(common.TrimLeftZeroes(sign.R[:])),
		rlp.Raw(common.TrimLeftZeroes(sign.S[:])),
	)
	return envelope(tx.Type(), l, items), nil
}

func envelope(t TxType, l txLayout, items []rlp.Item) []byte {
	body := rlp.List(items...)
	if !l.typed {
		return rlp.EncodeToBytes(body)
	}
	out := make([]byte, 1, 1+rlp.EncodingSize(body))
	out[0] = byte(t)
	return rlp.AppendItem(out, body)
}

// DeriveChainID derives the chain id from the v value of a legacy signature.
func DeriveChainID(v uint64) uint64 {
	if v < 35 {
		return 0
	}
	return (v - 35) / 2
}

// recoveryID extracts the y parity from the v value of sign.
func recoveryID(tx Transaction, sign *Signature) (byte, error) {
	if tx.Type() != LegacyTxType {
		if sign.V > 1 {
			return 0, fmt.Errorf("%w: y parity %d", crypto.ErrInvalidSignature, sign.V)
		}
		return byte(sign.V), nil
	}
	chainID := tx.GetChainID()
	switch {
	case sign.V == 27 || sign.V == 28:
		if chainID != 0 {
			return 0, fmt.Errorf("%w: v %d is not replay protected, chain id %d", ErrInvalidChainId, sign.V, chainID)
		}
		return byte(sign.V - 27), nil
	case sign.V >= 35:
		if DeriveChainID(sign.V) != chainID {
			return 0, fmt.Errorf("%w: v %d encodes chain id %d, have %d", ErrInvalidChainId, sign.V, DeriveChainID(sign.V), chainID)
		}
		return byte(sign.V - 35 - 2*chainID), nil
	default:
		return 0, fmt.Errorf("%w: legacy v %d", crypto.ErrInvalidSignature, sign.V)
	}
}

// Sender returns the address derived from the signature (V, R, S) of tx.
func Sender(tx Transaction) (common.Address, error) {
	sign := tx.GetSign()
	if sign == nil {
		return common.Address{}, ErrMissingSignature
	}
	recid, err := recoveryID(tx, sign)
	if err != nil {
		return common.Address{}, err
	}
	r := new(uint256.Int).SetBytes(sign.R[:])
	s := new(uint256.Int).SetBytes(sign.S[:])
	if !crypto.TransactionSignatureIsValid(recid, r, s, false) {
		return common.Address{}, fmt.Errorf("%w: r, s out of range", crypto.ErrInvalidSignature)
	}
	sighash, err := SigningHash(tx)
	if err != nil {
		return common.Address{}, err
	}
	// encode the signature in uncompressed format
	sig := make([]byte, length.Signature)
	copy(sig[:32], sign.R[:])
	copy(sig[32:64], sign.S[:])
	sig[64] = recid
	pub, err := crypto.Ecrecover(sighash[:], sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(pub)
}
