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

	"github.com/ethereum/go-ethereum/common/hexutil"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errItemJSON = errors.New("rlp item json: expected exactly one of Num, Raw, Empty, Text, List")

func (it Item) MarshalJSON() ([]byte, error) {
	switch it.kind {
	case KindEmpty:
		return []byte(`{"Empty":null}`), nil
	case KindNum:
		return json.Marshal(map[string]uint64{"Num": it.num})
	case KindRaw:
		return json.Marshal(map[string]hexutil.Bytes{"Raw": it.data})
	case KindText:
		return json.Marshal(map[string]string{"Text": string(it.data)})
	case KindList:
		return json.Marshal(map[string][]Item{"List": it.list})
	}
	return nil, fmt.Errorf("rlp item json: unknown kind %s", it.kind)
}

func (it *Item) UnmarshalJSON(input []byte) error {
	var fields map[string]jsoniter.RawMessage
	if err := json.Unmarshal(input, &fields); err != nil {
		return err
	}
	if len(fields) != 1 {
		return errItemJSON
	}
	for key, raw := range fields {
		switch key {
		case "Empty":
			*it = Empty()
		case "Num":
			var n uint64
			if err := json.Unmarshal(raw, &n); err != nil {
				return fmt.Errorf("rlp item json: Num: %w", err)
			}
			*it = Num(n)
		case "Raw":
			var b hexutil.Bytes
			if err := json.Unmarshal(raw, &b); err != nil {
				return fmt.Errorf("rlp item json: Raw: %w", err)
			}
			*it = Raw(b)
		case "Text":
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("rlp item json: Text: %w", err)
			}
			*it = Text(s)
		case "List":
			var children []Item
			if err := json.Unmarshal(raw, &children); err != nil {
				return fmt.Errorf("rlp item json: List: %w", err)
			}
			*it = List(children...)
		default:
			return errItemJSON
		}
	}
	return nil
}
