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
	"errors"
	"fmt"

	"github.com/erigontech/evmutils/rlp"
)

var (
	ErrUnsupportedType      = errors.New("transaction type not supported")
	ErrMalformedTransaction = errors.New("malformed transaction")
	ErrMissingSignature     = errors.New("transaction is not signed")
)

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedTransaction, fmt.Sprintf(format, args...))
}

// wrapRlp keeps the rlp cause visible to errors.Is while classifying it as a
// transaction shape error.
func wrapRlp(what string, err error) error {
	if errors.Is(err, rlp.ErrMalformed) || errors.Is(err, rlp.ErrTrailingData) {
		return fmt.Errorf("%w: %s: %w", ErrMalformedTransaction, what, err)
	}
	return err
}
