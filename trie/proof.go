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
	"errors"
	"fmt"

	"github.com/erigontech/evmutils/common"
	"github.com/erigontech/evmutils/common/length"
	"github.com/erigontech/evmutils/crypto"
	"github.com/erigontech/evmutils/rlp"
)

var (
	ErrProofHashMismatch = errors.New("proof node hash mismatch")
	ErrKeyPathMismatch   = errors.New("key does not match node path")
	ErrIncompleteProof   = errors.New("proof ends before the key is resolved")
	ErrInvalidNode       = errors.New("invalid trie node")
)

// EmptyRoot is the known root hash of an empty trie.
var EmptyRoot = common.HexToHash("56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421")

const (
	branchLen = 17
	shortLen  = 2
)

// VerifyProof checks that proof is a valid path from root for key and returns the
// value stored at key, or nil when the proof shows key is absent. Proof nodes are
// consumed in order, every hash reference by the next node. Nodes left over once
// the key is resolved are ignored.
func VerifyProof(root common.Hash, key []byte, proof [][]byte) ([]byte, error) {
	return VerifyProofWithLimits(root, key, proof, rlp.DefaultLimits)
}

func VerifyProofWithLimits(root common.Hash, key []byte, proof [][]byte, limits rlp.Limits) ([]byte, error) {
	if root == EmptyRoot && len(proof) == 0 {
		return nil, nil
	}
	v := &verifier{proof: proof, limits: limits}
	hexKey := keybytesToHex(key)
	return v.walk(root, hexKey[:len(hexKey)-1])
}

// VerifyStorageProof verifies a proof for a 32-byte storage slot of a trie that
// hashes its keys, and returns the slot value with its RLP string encoding removed.
func VerifyStorageProof(root common.Hash, slot []byte, proof [][]byte) ([]byte, error) {
	padded, err := common.ToFixedWidth(slot, length.Hash)
	if err != nil {
		return nil, err
	}
	stored, err := VerifyProof(root, crypto.Keccak256(padded), proof)
	if err != nil || stored == nil {
		return nil, err
	}
	value, rest, err := rlp.SplitString(stored)
	if err != nil {
		return nil, fmt.Errorf("%w: storage value: %w", ErrInvalidNode, err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: storage value: %w", ErrInvalidNode, rlp.ErrTrailingData)
	}
	return value, nil
}

type verifier struct {
	proof  [][]byte
	next   int
	limits rlp.Limits
}

// resolve returns the next proof node after checking it hashes to want.
func (v *verifier) resolve(want common.Hash) (rlp.Item, error) {
	if v.next >= len(v.proof) {
		return rlp.Item{}, fmt.Errorf("%w: missing node %x at index %d", ErrIncompleteProof, want, v.next)
	}
	enc := v.proof[v.next]
	if got := crypto.Keccak256Hash(enc); got != want {
		return rlp.Item{}, fmt.Errorf("%w: node %d hashes to %x, expected %x", ErrProofHashMismatch, v.next, got, want)
	}
	v.next++
	n, err := v.limits.DecodeAll(enc)
	if err != nil {
		return rlp.Item{}, fmt.Errorf("%w: node %d: %w", ErrInvalidNode, v.next-1, err)
	}
	return n, nil
}

// child follows a child reference: an empty string means no child, a 32-byte
// string is a hash reference, a list is a node embedded in its parent.
func (v *verifier) child(ref rlp.Item) (n rlp.Item, ok bool, err error) {
	if ref.IsList() {
		if size := rlp.EncodingSize(ref); size >= length.Hash {
			return rlp.Item{}, false, fmt.Errorf("%w: embedded node of %d bytes", ErrInvalidNode, size)
		}
		return ref, true, nil
	}
	switch b := ref.Bytes(); len(b) {
	case 0:
		return rlp.Item{}, false, nil
	case length.Hash:
		n, err := v.resolve(common.BytesToHash(b))
		return n, err == nil, err
	default:
		return rlp.Item{}, false, fmt.Errorf("%w: child reference of %d bytes", ErrInvalidNode, len(b))
	}
}

func (v *verifier) walk(root common.Hash, key []byte) ([]byte, error) {
	n, err := v.resolve(root)
	if err != nil {
		return nil, err
	}
	for {
		if !n.IsList() {
			return nil, fmt.Errorf("%w: node is a string", ErrInvalidNode)
		}
		elems := n.Items()
		var next rlp.Item
		switch len(elems) {
		case branchLen:
			if len(key) == 0 {
				return valueOf(elems[16])
			}
			next, key = elems[key[0]], key[1:]
		case shortLen:
			compact := elems[0].Bytes()
			if elems[0].IsList() || !validCompact(compact) {
				return nil, fmt.Errorf("%w: bad path encoding %x", ErrInvalidNode, compact)
			}
			path := compactToHex(compact)
			leaf := hasTerm(path)
			if leaf {
				path = path[:len(path)-1]
			}
			matched := prefixLen(path, key)
			switch {
			case matched == len(path):
			case matched == len(key):
				return nil, fmt.Errorf("%w: key ends inside node path %x", ErrKeyPathMismatch, path)
			default:
				// the key leaves the trie here
				return nil, nil
			}
			key = key[len(path):]
			if leaf {
				if len(key) != 0 {
					return nil, fmt.Errorf("%w: %d key nibbles left past leaf", ErrKeyPathMismatch, len(key))
				}
				return valueOf(elems[1])
			}
			next = elems[1]
		default:
			return nil, fmt.Errorf("%w: invalid number of list elements: %d", ErrInvalidNode, len(elems))
		}
		var ok bool
		n, ok, err = v.child(next)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
	}
}

func valueOf(it rlp.Item) ([]byte, error) {
	if it.IsList() {
		return nil, fmt.Errorf("%w: value is a list", ErrInvalidNode)
	}
	b := it.Bytes()
	if len(b) == 0 {
		return nil, nil
	}
	return bytes.Clone(b), nil
}
