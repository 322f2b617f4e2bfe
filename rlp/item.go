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
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// Kind tags the variant held by an Item.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindNum
	KindRaw
	KindText
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindNum:
		return "Num"
	case KindRaw:
		return "Raw"
	case KindText:
		return "Text"
	case KindList:
		return "List"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Item is a node of a self-describing RLP tree. The zero value is Empty.
//
// Num, Text and Empty only exist on the encoding side: the decoder has no schema
// and yields Raw for every string and List for every list, so callers reinterpret
// values (see Uint64).
type Item struct {
	kind Kind
	num  uint64
	data []byte // Raw and Text content
	list []Item
}

func Empty() Item { return Item{} }

func Num(n uint64) Item { return Item{kind: KindNum, num: n} }

func Raw(b []byte) Item {
	if b == nil {
		b = []byte{}
	}
	return Item{kind: KindRaw, data: b}
}

func Text(s string) Item { return Item{kind: KindText, data: []byte(s)} }

func List(items ...Item) Item {
	if items == nil {
		items = []Item{}
	}
	return Item{kind: KindList, list: items}
}

func (it Item) Kind() Kind { return it.kind }

func (it Item) IsList() bool { return it.kind == KindList }

// Items returns the children of a List, nil for any other kind.
func (it Item) Items() []Item {
	if it.kind != KindList {
		return nil
	}
	return it.list
}

// Len is the number of children of a List, or the byte length of a string kind.
func (it Item) Len() int {
	if it.kind == KindList {
		return len(it.list)
	}
	return len(it.Bytes())
}

// Bytes returns the canonical byte-string form of a non-list item: Num in
// minimal big-endian, Text as UTF-8, Empty as the empty string. Lists return nil.
func (it Item) Bytes() []byte {
	switch it.kind {
	case KindEmpty:
		return []byte{}
	case KindNum:
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], it.num)
		n := beLen(it.num)
		return buf[8-n:]
	case KindRaw, KindText:
		return it.data
	default:
		return nil
	}
}

// Uint64 reinterprets a string item as a canonical big-endian unsigned integer.
func (it Item) Uint64() (uint64, error) {
	switch it.kind {
	case KindNum:
		return it.num, nil
	case KindList:
		return 0, ErrExpectedString
	}
	b := it.Bytes()
	switch {
	case len(b) > 8:
		return 0, ErrUint64Range
	case len(b) > 0 && b[0] == 0:
		return 0, ErrCanonInt
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

// Equal reports whether a and b have the same kind and the same content.
func (it Item) Equal(other Item) bool {
	if it.kind != other.kind {
		return false
	}
	switch it.kind {
	case KindEmpty:
		return true
	case KindNum:
		return it.num == other.num
	case KindRaw, KindText:
		return bytes.Equal(it.data, other.data)
	case KindList:
		if len(it.list) != len(other.list) {
			return false
		}
		for i := range it.list {
			if !it.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (it Item) String() string {
	var sb strings.Builder
	it.format(&sb)
	return sb.String()
}

func (it Item) format(sb *strings.Builder) {
	switch it.kind {
	case KindEmpty:
		sb.WriteString("Empty")
	case KindNum:
		fmt.Fprintf(sb, "Num(%d)", it.num)
	case KindText:
		fmt.Fprintf(sb, "Text(%q)", it.data)
	case KindRaw:
		fmt.Fprintf(sb, "Raw(%x)", it.data)
	case KindList:
		sb.WriteString("[")
		for i, child := range it.list {
			if i > 0 {
				sb.WriteString(", ")
			}
			child.format(sb)
		}
		sb.WriteString("]")
	}
}
