package rlp

import (
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func decodeHex(in string) []byte {
	payload, err := hex.DecodeString(in)
	if err != nil {
		panic(err)
	}
	return payload
}

var parseU64Tests = []struct {
	payload   []byte
	expectPos int
	expectRes uint64
	expectErr error
}{
	{payload: decodeHex("820400"), expectPos: 3, expectRes: 1024},
	{payload: decodeHex("07"), expectPos: 1, expectRes: 7},
	{payload: decodeHex("80"), expectPos: 1, expectRes: 0},
	{payload: decodeHex("8180"), expectPos: 2, expectRes: 128},
	{payload: decodeHex("88ffffffffffffffff"), expectPos: 9, expectRes: 0xffffffffffffffff},
	{payload: decodeHex("8105"), expectErr: ErrCanonSize},
	{payload: decodeHex("820004"), expectErr: ErrCanonInt},
	{payload: decodeHex("89010000000000000000"), expectErr: ErrUint64Range},
	{payload: decodeHex("c0"), expectErr: ErrExpectedString},
	{payload: decodeHex("8204"), expectErr: ErrValueTooLarge},
}

func TestPrimitives(t *testing.T) {
	for i, tt := range parseU64Tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			assert := assert.New(t)
			it, pos, err := Decode(tt.payload)
			var res uint64
			if err == nil {
				res, err = it.Uint64()
			}
			if tt.expectErr != nil {
				assert.ErrorIs(err, tt.expectErr)
				assert.ErrorIs(err, ErrMalformed)
				return
			}
			assert.NoError(err)
			assert.Equal(tt.expectPos, pos)
			assert.Equal(tt.expectRes, res)
		})
	}
}

var prefixTests = []struct {
	name      string
	payload   []byte
	expectPos int
	expectLen int
	isList    bool
	expectErr error
}{
	{name: "byte", payload: decodeHex("7f"), expectPos: 0, expectLen: 1},
	{name: "short string", payload: decodeHex("83646f67"), expectPos: 1, expectLen: 3},
	{name: "empty list", payload: decodeHex("c0"), expectPos: 1, expectLen: 0, isList: true},
	{name: "long string", payload: append(decodeHex("b838"), make([]byte, 56)...), expectPos: 2, expectLen: 56},
	{name: "long list", payload: append(decodeHex("f838"), make([]byte, 56)...), expectPos: 2, expectLen: 56, isList: true},
	{name: "long form for short string", payload: append(decodeHex("b837"), make([]byte, 55)...), expectErr: ErrCanonSize},
	{name: "long form for short list", payload: append(decodeHex("f801"), 0x01), expectErr: ErrCanonSize},
	{name: "length with leading zero", payload: append(decodeHex("b90038"), make([]byte, 56)...), expectErr: ErrCanonSize},
	{name: "truncated length", payload: decodeHex("b9"), expectErr: ErrUnexpectedEOF},
	{name: "truncated payload", payload: decodeHex("c3010203"[:6]), expectErr: ErrValueTooLarge},
	{name: "huge length", payload: decodeHex("bfffffffffffffffff"), expectErr: ErrValueTooLarge},
	{name: "empty input", payload: nil, expectErr: ErrUnexpectedEOF},
}

func TestPrefix(t *testing.T) {
	for _, tt := range prefixTests {
		t.Run(tt.name, func(t *testing.T) {
			pos, l, isList, err := Prefix(tt.payload, 0)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectPos, pos)
			assert.Equal(t, tt.expectLen, l)
			assert.Equal(t, tt.isList, isList)
		})
	}
}
