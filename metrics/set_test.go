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

package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterGetValue(t *testing.T) {
	s := NewSet(false)
	c := s.Calls("keccak256")
	for i := 0; i < 3; i++ {
		c.Inc()
	}
	require.Equal(t, float64(3), c.GetValue())
	require.Equal(t, uint64(3), c.GetValueUint64())

	// same labels address the same series
	require.Equal(t, uint64(3), s.Calls("keccak256").GetValueUint64())
	require.Zero(t, s.Calls("rlp_decode").GetValueUint64())
}

func TestErrorsByKind(t *testing.T) {
	s := NewSet(false)
	s.Errors("rlp_decode", "MalformedRlpError").Inc()
	s.Errors("rlp_decode", "MalformedRlpError").Inc()
	s.Errors("rlp_decode", "TrailingDataError").Inc()
	assert.Equal(t, uint64(2), s.Errors("rlp_decode", "MalformedRlpError").GetValueUint64())
	assert.Equal(t, uint64(1), s.Errors("rlp_decode", "TrailingDataError").GetValueUint64())
}

func TestDuration(t *testing.T) {
	s := NewSet(false)
	h := s.Duration("verify_proof")
	h.ObserveDuration(time.Now().Add(-time.Millisecond))
	h.Observe(0.5)
	require.Equal(t, uint64(2), h.SampleCount())
}

func TestHandler(t *testing.T) {
	s := NewSet(true)
	s.Calls("parse_transaction").Inc()
	s.Duration("parse_transaction").Observe(0.001)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, `evmutils_calls_total{method="parse_transaction"} 1`), text)
	assert.True(t, strings.Contains(text, "evmutils_call_duration_seconds_bucket"))
	assert.True(t, strings.Contains(text, "go_goroutines"))

	families, err := s.Gatherer().Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}
