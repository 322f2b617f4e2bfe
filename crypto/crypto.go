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

package crypto

import (
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/holiman/uint256"

	"github.com/erigontech/evmutils/common"
	"github.com/erigontech/evmutils/common/length"
)

// ErrRecovery covers every failure to recover or validate a key or signature.
var ErrRecovery = errors.New("recovery failed")

var (
	ErrInvalidPublicKey = fmt.Errorf("%w: invalid public key", ErrRecovery)
	ErrInvalidSignature = fmt.Errorf("%w: invalid signature", ErrRecovery)
)

var (
	secp256k1N     = new(uint256.Int).SetBytes(secp256k1.S256().Params().N.Bytes())
	secp256k1halfN = new(uint256.Int).Rsh(secp256k1N, 1)
)

// Keccak256 calculates and returns the Keccak256 hash of the input data.
func Keccak256(data ...[]byte) []byte {
	h := common.HashData(data...)
	return h[:]
}

// Keccak256Hash calculates and returns the Keccak256 hash of the input data,
// converting it to an internal Hash data structure.
func Keccak256Hash(data ...[]byte) common.Hash {
	return common.HashData(data...)
}

// Ecrecover returns the 65-byte uncompressed public key that created the given
// signature. sig is r ‖ s ‖ recovery id.
func Ecrecover(hash, sig []byte) ([]byte, error) {
	pub, err := SigToPub(hash, sig)
	if err != nil {
		return nil, err
	}
	return pub.SerializeUncompressed(), nil
}

// SigToPub returns the public key that created the given signature.
func SigToPub(hash, sig []byte) (*secp256k1.PublicKey, error) {
	if len(hash) != length.Hash {
		return nil, fmt.Errorf("%w: hash is required to be exactly %d bytes (%d)", ErrRecovery, length.Hash, len(hash))
	}
	if len(sig) != length.Signature {
		return nil, fmt.Errorf("%w: signature must be %d bytes long, got %d", ErrInvalidSignature, length.Signature, len(sig))
	}
	if sig[64] >= 4 {
		return nil, fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, sig[64])
	}
	// the compact form carries the recovery id first, offset by 27
	var compact [length.Signature]byte
	compact[0] = 27 + sig[64]
	copy(compact[1:], sig[:64])
	pub, _, err := ecdsa.RecoverCompact(compact[:], hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecovery, err)
	}
	return pub, nil
}

// PubkeyToAddress derives the address of a 64-byte public key, or a 65-byte one
// carrying the 0x04 prefix.
func PubkeyToAddress(pub []byte) (common.Address, error) {
	xy, err := stripPrefix(pub)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(Keccak256(xy)[12:]), nil
}

func stripPrefix(pub []byte) ([]byte, error) {
	switch len(pub) {
	case length.PublicKey - 1:
		return pub, nil
	case length.PublicKey:
		if pub[0] != 0x04 {
			return nil, fmt.Errorf("%w: unexpected prefix %#x", ErrInvalidPublicKey, pub[0])
		}
		return pub[1:], nil
	default:
		return nil, fmt.Errorf("%w: length %d, expected 64 or 65", ErrInvalidPublicKey, len(pub))
	}
}

// ValidatePublicKey checks the length and prefix of pub and that it is a point on
// secp256k1.
func ValidatePublicKey(pub []byte) error {
	xy, err := stripPrefix(pub)
	if err != nil {
		return err
	}
	if _, err := secp256k1.ParsePubKey(append([]byte{0x04}, xy...)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	return nil
}

// ValidateSignature checks a 64-byte r ‖ s signature, or a 65-byte one with a
// trailing recovery id of 0 or 1.
func ValidateSignature(sig []byte) error {
	var v byte
	switch len(sig) {
	case length.Signature - 1:
	case length.Signature:
		v = sig[64]
	default:
		return fmt.Errorf("%w: length %d, expected 64 or 65", ErrInvalidSignature, len(sig))
	}
	r := new(uint256.Int).SetBytes(sig[:32])
	s := new(uint256.Int).SetBytes(sig[32:64])
	if !TransactionSignatureIsValid(v, r, s, true) {
		return fmt.Errorf("%w: r, s out of range or recovery id %d", ErrInvalidSignature, v)
	}
	return nil
}

// TransactionSignatureIsValid reports whether v, r and s are valid signature values.
// Without allowPreEip2s the upper half of the s range is rejected.
func TransactionSignatureIsValid(v byte, r, s *uint256.Int, allowPreEip2s bool) bool {
	if r.IsZero() || s.IsZero() {
		return false
	}

	// reject upper range of s values (ECDSA malleability)
	// see discussion in secp256k1/libsecp256k1/include/secp256k1.h
	if !allowPreEip2s && s.Gt(secp256k1halfN) {
		return false
	}
	// Frontier: allow s to be in full N range
	return r.Lt(secp256k1N) && s.Lt(secp256k1N) && (v == 0 || v == 1)
}
