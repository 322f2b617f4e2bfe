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
	"errors"

	"github.com/erigontech/evmutils/common"
	"github.com/erigontech/evmutils/core/types"
	"github.com/erigontech/evmutils/crypto"
	"github.com/erigontech/evmutils/rlp"
	"github.com/erigontech/evmutils/trie"
)

// ErrInvalidRequest is returned for requests that cannot be dispatched: unknown
// methods, malformed JSON or wrong parameter counts.
var ErrInvalidRequest = errors.New("invalid request")

const (
	KindMalformedRlp         = "MalformedRlpError"
	KindTrailingData         = "TrailingDataError"
	KindLength               = "LengthError"
	KindUnsupportedType      = "UnsupportedTypeError"
	KindMalformedTransaction = "MalformedTransactionError"
	KindMissingSignature     = "MissingSignatureError"
	KindRecovery             = "RecoveryError"
	KindProofHashMismatch    = "ProofHashMismatchError"
	KindKeyPathMismatch      = "KeyPathMismatchError"
	KindIncompleteProof      = "IncompleteProofError"
	KindInvalidRequest       = "InvalidRequestError"
)

// Order matters: transaction and trie errors wrap rlp causes, so the more
// specific sentinels are tested first.
var errorKinds = []struct {
	err  error
	kind string
}{
	{types.ErrUnsupportedType, KindUnsupportedType},
	{types.ErrMissingSignature, KindMissingSignature},
	{crypto.ErrRecovery, KindRecovery},
	{types.ErrMalformedTransaction, KindMalformedTransaction},
	{trie.ErrProofHashMismatch, KindProofHashMismatch},
	{trie.ErrKeyPathMismatch, KindKeyPathMismatch},
	{trie.ErrIncompleteProof, KindIncompleteProof},
	{trie.ErrInvalidNode, KindMalformedRlp},
	{common.ErrLength, KindLength},
	{rlp.ErrTrailingData, KindTrailingData},
	{rlp.ErrMalformed, KindMalformedRlp},
	{ErrInvalidRequest, KindInvalidRequest},
}

// ErrorKind returns the category of err. Unknown errors are reported as
// InvalidRequestError; nil yields the empty string.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInvalidRequest
}

// errorText renders err as "<kind>: <message>".
func errorText(err error) string {
	return ErrorKind(err) + ": " + err.Error()
}
