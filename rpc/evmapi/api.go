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
	"github.com/ledgerwatch/log/v3"

	"github.com/erigontech/evmutils/common"
	"github.com/erigontech/evmutils/common/length"
	"github.com/erigontech/evmutils/core/types"
	"github.com/erigontech/evmutils/crypto"
	"github.com/erigontech/evmutils/metrics"
	"github.com/erigontech/evmutils/rlp"
	"github.com/erigontech/evmutils/trie"
)

// API exposes the primitives of the service with JSON friendly arguments and
// results. It holds no mutable state and is safe for concurrent use.
type API struct {
	limits  rlp.Limits
	metrics *metrics.Set
	logger  log.Logger
}

// NewAPI creates an API bounded by limits. metrics may be nil.
func NewAPI(limits rlp.Limits, m *metrics.Set, logger log.Logger) *API {
	return &API{limits: limits, metrics: m, logger: logger}
}

// RlpEncode returns the canonical encoding of item.
func (api *API) RlpEncode(item rlp.Item) (hexutil.Bytes, error) {
	return rlp.EncodeToBytes(item), nil
}

// RlpDecode decodes exactly one item from b.
func (api *API) RlpDecode(b hexutil.Bytes) (rlp.Item, error) {
	return api.limits.DecodeAll(b)
}

// CreateTransaction encodes tx and returns the encoding with its signing hash.
func (api *API) CreateTransaction(tx TransactionJSON) (*TxResult, error) {
	txn, err := tx.ToTransaction()
	if err != nil {
		return nil, err
	}
	raw, hash, err := types.CreateTransaction(txn)
	if err != nil {
		return nil, err
	}
	return &TxResult{Raw: raw, Hash: hash}, nil
}

// EncodeSignedTransaction is CreateTransaction for a transaction carrying a signature.
func (api *API) EncodeSignedTransaction(tx TransactionJSON) (*TxResult, error) {
	txn, err := tx.ToTransaction()
	if err != nil {
		return nil, err
	}
	raw, hash, err := types.EncodeSignedTransaction(txn)
	if err != nil {
		return nil, err
	}
	return &TxResult{Raw: raw, Hash: hash}, nil
}

// ParseTransaction decodes a raw transaction. Signed ones carry the recovered
// sender and the transaction hash in their signature.
func (api *API) ParseTransaction(b hexutil.Bytes) (*TransactionJSON, error) {
	txn, err := types.ParseTransactionWithLimits(b, api.limits)
	if err != nil {
		return nil, err
	}
	out := NewTransactionJSON(txn)
	return &out, nil
}

func (api *API) Keccak256(b hexutil.Bytes) (hexutil.Bytes, error) {
	return crypto.Keccak256(b), nil
}

// RecoverPublicKey returns the uncompressed public key that signed hash.
func (api *API) RecoverPublicKey(hash, sig hexutil.Bytes) (hexutil.Bytes, error) {
	return crypto.Ecrecover(hash, sig)
}

func (api *API) PubToAddress(pub hexutil.Bytes) (hexutil.Bytes, error) {
	addr, err := crypto.PubkeyToAddress(pub)
	if err != nil {
		return nil, err
	}
	return addr.Bytes(), nil
}

func (api *API) IsValidPublic(pub hexutil.Bytes) error {
	return crypto.ValidatePublicKey(pub)
}

func (api *API) IsValidSignature(sig hexutil.Bytes) error {
	return crypto.ValidateSignature(sig)
}

func toRoot(b []byte) (common.Hash, error) {
	if len(b) != length.Hash {
		return common.Hash{}, fmt.Errorf("%w: root must be %d bytes, got %d", common.ErrLength, length.Hash, len(b))
	}
	return common.BytesToHash(b), nil
}

func toProof(nodes []hexutil.Bytes) [][]byte {
	proof := make([][]byte, len(nodes))
	for i, n := range nodes {
		proof[i] = n
	}
	return proof
}

// VerifyProof returns the value proven for key under root, or nil when the proof
// shows the key is absent.
func (api *API) VerifyProof(root, key hexutil.Bytes, proof []hexutil.Bytes) (*hexutil.Bytes, error) {
	h, err := toRoot(root)
	if err != nil {
		return nil, err
	}
	value, err := trie.VerifyProofWithLimits(h, key, toProof(proof), api.limits)
	if err != nil || value == nil {
		return nil, err
	}
	out := hexutil.Bytes(value)
	return &out, nil
}

// VerifyStorageProof returns the value of a storage slot proven under a storage
// root, or nil when the slot is empty.
func (api *API) VerifyStorageProof(root, slot hexutil.Bytes, proof []hexutil.Bytes) (*hexutil.Bytes, error) {
	h, err := toRoot(root)
	if err != nil {
		return nil, err
	}
	value, err := trie.VerifyStorageProof(h, slot, toProof(proof))
	if err != nil || value == nil {
		return nil, err
	}
	out := hexutil.Bytes(value)
	return &out, nil
}
