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
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

type Histogram interface {
	prometheus.Observer
	// ObserveDuration records the time elapsed since start, in seconds.
	ObserveDuration(start time.Time)
	// SampleCount returns the number of observations so far.
	SampleCount() uint64
}

type histogram struct {
	prometheus.Observer
	metric prometheus.Metric
}

func (h *histogram) ObserveDuration(start time.Time) {
	h.Observe(time.Since(start).Seconds())
}

func (h *histogram) SampleCount() uint64 {
	var m dto.Metric
	if err := h.metric.Write(&m); err != nil {
		panic(fmt.Errorf("calling SampleCount with invalid metric: %w", err))
	}
	return m.GetHistogram().GetSampleCount()
}
