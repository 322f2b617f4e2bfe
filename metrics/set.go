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
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "evmutils"

// DefaultDurationBuckets spans 10µs to ~1.3s; operations are CPU bound and short.
var DefaultDurationBuckets = prometheus.ExponentialBuckets(10e-6, 4, 9)

// Set is the collection of metrics recorded for API calls. The zero value is not
// usable; create one with NewSet.
//
// The returned collectors are safe to use from concurrent goroutines.
type Set struct {
	registry *prometheus.Registry
	calls    *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewSet creates a Set backed by its own registry. When withRuntime is true the
// Go runtime and process collectors are registered too.
func NewSet(withRuntime bool) *Set {
	s := &Set{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_total",
			Help:      "Number of API calls by method.",
		}, []string{"method"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Number of failed API calls by method and error kind.",
		}, []string{"method", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "call_duration_seconds",
			Help:      "API call latency by method.",
			Buckets:   DefaultDurationBuckets,
		}, []string{"method"}),
	}
	s.registry.MustRegister(s.calls, s.failures, s.duration)
	if withRuntime {
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return s
}

// Calls returns the call counter of method.
func (s *Set) Calls(method string) Counter {
	return &counter{s.calls.WithLabelValues(method)}
}

// Errors returns the failure counter of method for the given error kind.
func (s *Set) Errors(method, kind string) Counter {
	return &counter{s.failures.WithLabelValues(method, kind)}
}

// Duration returns the latency histogram of method.
func (s *Set) Duration(method string) Histogram {
	o := s.duration.WithLabelValues(method)
	return &histogram{Observer: o, metric: o.(prometheus.Metric)}
}

func (s *Set) Gatherer() prometheus.Gatherer { return s.registry }

// Handler serves the registry in the Prometheus text exposition format.
func (s *Set) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}
