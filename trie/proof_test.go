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

package trie

import (
	"bytes"
	"fmt"
	"testing"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	gethrlp "github.com/ethereum/go-ethereum/rlp"
	gethtrie "github.com/ethereum/go-ethereum/trie"
	"github.com/ethereum/go-ethereum/triedb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/evmutils/common"
	"github.com/erigontech/evmutils/crypto"
	"github.com/erigontech/evmutils/rlp"
)

// proofList collects proof nodes in the order the trie emits them, root first.
type proofList [][]byte

func (l *proofList) Put(key []byte, value []byte) error {
	*l = append(*l, bytes.Clone(value))
	return nil
}

func (l *proofList) Delete(key []byte) error {
	return fmt.Errorf("delete not supported")
}

func newGethTrie(t *testing.T, kv map[string][]byte) (*gethtrie.Trie, common.Hash) {
	t.Helper()
	tr := gethtrie.NewEmpty(triedb.NewDatabase(rawdb.NewMemoryDatabase(), nil))
	for k, v := range kv {
		require.NoError(t, tr.Update([]byte(k), v))
	}
	return tr, common.Hash(tr.Hash())
}

func prove(t *testing.T, tr *gethtrie.Trie, key []byte) [][]byte {
	t.Helper()
	var proof proofList
	require.NoError(t, tr.Prove(key, &proof))
	return proof
}

func storageKey(slot uint64) []byte {
	padded := make([]byte, 32)
	for i := 0; i < 8; i++ {
		padded[31-i] = byte(slot >> (8 * i))
	}
	return crypto.Keccak256(padded)
}

// storageTrie mimics a contract storage trie: hashed slot keys, RLP encoded values.
func storageTrie(t *testing.T, slots int) (*gethtrie.Trie, common.Hash, map[uint64][]byte) {
	t.Helper()
	kv := map[string][]byte{}
	values := map[uint64][]byte{}
	for i := uint64(0); i < uint64(slots); i++ {
		value := crypto.Keccak256([]byte(fmt.Sprintf("value-%d", i)))[:20+i%12]
		enc, err := gethrlp.EncodeToBytes(value)
		require.NoError(t, err)
		kv[string(storageKey(i))] = enc
		values[i] = value
	}
	tr, root := newGethTrie(t, kv)
	return tr, root, values
}

func TestVerifyProofMembers(t *testing.T) {
	tr, root, values := storageTrie(t, 200)
	for slot, value := range values {
		key := storageKey(slot)
		proof := prove(t, tr, key)
		got, err := VerifyProof(root, key, proof)
		require.NoError(t, err, "slot %d", slot)
		decoded, err := rlp.DecodeAll(got)
		require.NoError(t, err)
		assert.Equal(t, value, decoded.Bytes(), "slot %d", slot)

		// go-ethereum verifies the same proof to the same value
		db := memorydb.New()
		for _, node := range proof {
			require.NoError(t, db.Put(crypto.Keccak256(node), node))
		}
		theirs, err := gethtrie.VerifyProof(gethcommon.Hash(root), key, db)
		require.NoError(t, err)
		assert.Equal(t, theirs, got)
	}
}

func TestVerifyProofNonMembers(t *testing.T) {
	tr, root, _ := storageTrie(t, 200)
	for slot := uint64(1000); slot < 1050; slot++ {
		key := storageKey(slot)
		proof := prove(t, tr, key)
		got, err := VerifyProof(root, key, proof)
		require.NoError(t, err, "slot %d", slot)
		assert.Nil(t, got, "slot %d", slot)
	}
}

func TestVerifyStorageProof(t *testing.T) {
	tr, root, values := storageTrie(t, 50)
	for _, slot := range []uint64{0, 1, 7, 49} {
		proof := prove(t, tr, storageKey(slot))
		got, err := VerifyStorageProof(root, []byte{byte(slot)}, proof)
		require.NoError(t, err)
		assert.Equal(t, values[slot], got)
	}
	got, err := VerifyStorageProof(root, []byte{0xff}, prove(t, tr, storageKey(0xff)))
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = VerifyStorageProof(root, make([]byte, 33), nil)
	require.ErrorIs(t, err, common.ErrLength)
}

func TestVerifyProofTampered(t *testing.T) {
	tr, root, _ := storageTrie(t, 200)
	key := storageKey(3)
	proof := prove(t, tr, key)
	require.Greater(t, len(proof), 1)

	for i := range proof {
		tampered := make([][]byte, len(proof))
		copy(tampered, proof)
		tampered[i] = bytes.Clone(proof[i])
		tampered[i][len(tampered[i])-1] ^= 0x01
		_, err := VerifyProof(root, key, tampered)
		require.ErrorIs(t, err, ErrProofHashMismatch, "node %d", i)
	}

	// a wrong root fails on the first node
	_, err := VerifyProof(common.HexToHash("0x01"), key, proof)
	require.ErrorIs(t, err, ErrProofHashMismatch)
}

func TestVerifyProofIncomplete(t *testing.T) {
	tr, root, _ := storageTrie(t, 200)
	key := storageKey(3)
	proof := prove(t, tr, key)

	_, err := VerifyProof(root, key, proof[:len(proof)-1])
	require.ErrorIs(t, err, ErrIncompleteProof)
	_, err = VerifyProof(root, key, nil)
	require.ErrorIs(t, err, ErrIncompleteProof)

	// extra trailing nodes are ignored
	extra := append(append([][]byte{}, proof...), []byte{0xc0})
	_, err = VerifyProof(root, key, extra)
	require.NoError(t, err)
}

func TestVerifyProofEmptyTrie(t *testing.T) {
	got, err := VerifyProof(EmptyRoot, storageKey(1), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, EmptyRoot, crypto.Keccak256Hash(rlp.EncodeToBytes(rlp.Empty())))
}

func TestVerifyProofEmbeddedNodes(t *testing.T) {
	// short keys and values produce nodes embedded in their parents
	kv := map[string][]byte{
		"do":    []byte("verb"),
		"dog":   []byte("puppy"),
		"doge":  []byte("coin"),
		"horse": []byte("stallion"),
		"dot":   []byte("x"),
	}
	tr, root := newGethTrie(t, kv)
	for k, v := range kv {
		proof := prove(t, tr, []byte(k))
		got, err := VerifyProof(root, []byte(k), proof)
		require.NoError(t, err, k)
		assert.Equal(t, v, got, k)
	}
	got, err := VerifyProof(root, []byte("cat"), prove(t, tr, []byte("cat")))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func leafNode(keyHex []byte, value []byte) []byte {
	return rlp.EncodeToBytes(rlp.List(rlp.Raw(hexToCompact(append(keyHex, terminator))), rlp.Raw(value)))
}

func TestVerifyProofHandBuilt(t *testing.T) {
	value := bytes.Repeat([]byte{0x42}, 40)
	key := []byte{0xab, 0xcd}
	leaf := leafNode([]byte{0xa, 0xb, 0xc, 0xd}, value)
	root := crypto.Keccak256Hash(leaf)

	got, err := VerifyProof(root, key, [][]byte{leaf})
	require.NoError(t, err)
	assert.Equal(t, value, got)

	// divergent nibble: absent
	got, err = VerifyProof(root, []byte{0xab, 0xce}, [][]byte{leaf})
	require.NoError(t, err)
	assert.Nil(t, got)

	// key runs out inside the leaf path
	_, err = VerifyProof(root, []byte{0xab}, [][]byte{leaf})
	require.ErrorIs(t, err, ErrKeyPathMismatch)

	// key continues past the leaf
	_, err = VerifyProof(root, []byte{0xab, 0xcd, 0xef}, [][]byte{leaf})
	require.ErrorIs(t, err, ErrKeyPathMismatch)

	// branch with an empty slot for the key
	children := make([]rlp.Item, 17)
	children[0xa] = rlp.Raw(crypto.Keccak256(leafNode([]byte{0xb, 0xc, 0xd}, value)))
	branch := rlp.EncodeToBytes(rlp.List(children...))
	got, err = VerifyProof(crypto.Keccak256Hash(branch), []byte{0x1b, 0xcd}, [][]byte{branch})
	require.NoError(t, err)
	assert.Nil(t, got)
	_, err = VerifyProof(crypto.Keccak256Hash(branch), key, [][]byte{branch})
	require.ErrorIs(t, err, ErrIncompleteProof)
	got, err = VerifyProof(crypto.Keccak256Hash(branch), key, [][]byte{branch, leafNode([]byte{0xb, 0xc, 0xd}, value)})
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestVerifyProofInvalidNodes(t *testing.T) {
	tests := map[string][]byte{
		"string node":    rlp.EncodeToBytes(rlp.Raw(bytes.Repeat([]byte{1}, 40))),
		"three elements": rlp.EncodeToBytes(rlp.List(rlp.Empty(), rlp.Empty(), rlp.Empty())),
		"bad flag":       rlp.EncodeToBytes(rlp.List(rlp.Raw([]byte{0x40, 0xab}), rlp.Raw(bytes.Repeat([]byte{1}, 40)))),
		"short ref":      rlp.EncodeToBytes(rlp.List(rlp.Raw([]byte{0x1a}), rlp.Raw(bytes.Repeat([]byte{1}, 31)))),
		"not rlp":        {0xf8, 0x80, 0x01},
	}
	for name, node := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := VerifyProof(crypto.Keccak256Hash(node), []byte{0xab}, [][]byte{node})
			require.ErrorIs(t, err, ErrInvalidNode)
		})
	}
}
