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

package rlp

import (
	"errors"
	"fmt"
)

// ErrMalformed is the parent of every structural decoding error: callers that
// only care whether input is valid canonical RLP can test against it with errors.Is.
var ErrMalformed = errors.New("malformed rlp")

var (
	ErrTrailingData = errors.New("rlp: input contains more than one value")

	ErrCanonSize      = fmt.Errorf("%w: non-canonical size information", ErrMalformed)
	ErrCanonInt       = fmt.Errorf("%w: non-canonical integer (leading zero bytes)", ErrMalformed)
	ErrUint64Range    = fmt.Errorf("%w: uint64 overflow", ErrMalformed)
	ErrValueTooLarge  = fmt.Errorf("%w: value size exceeds available input length", ErrMalformed)
	ErrUnexpectedEOF  = fmt.Errorf("%w: unexpected end of input", ErrMalformed)
	ErrExpectedString = fmt.Errorf("%w: expected string or byte", ErrMalformed)
	ErrDepthLimit     = fmt.Errorf("%w: list nesting exceeds depth limit", ErrMalformed)
	ErrInputTooLarge  = fmt.Errorf("%w: input exceeds size limit", ErrMalformed)
)
