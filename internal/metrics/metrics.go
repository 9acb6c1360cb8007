// Copyright 2026 Dominik Schlosser
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics exposes Prometheus counters for verifications and API calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verifier and the API server.
type Metrics struct {
	// Verification outcomes by format and result ("valid" or an error kind)
	Verifications *prometheus.CounterVec

	// Verification latency by format
	VerifyLatency *prometheus.HistogramVec

	// API requests by route and status code
	Requests *prometheus.CounterVec
}

// New registers all metrics with reg. A nil reg creates unregistered
// collectors, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sanipasse_verifications_total",
			Help: "Total certificate verifications by format and result",
		}, []string{"format", "result"}),

		VerifyLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sanipasse_verification_duration_seconds",
			Help:    "Duration of a full verification, decoding included",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}, []string{"format"}),

		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sanipasse_api_requests_total",
			Help: "Total API requests by route and status code",
		}, []string{"route", "status"}),
	}
}

// ObserveVerification records one verification outcome.
func (m *Metrics) ObserveVerification(format, result string, d time.Duration) {
	if m != nil {
		m.Verifications.WithLabelValues(format, result).Inc()
		m.VerifyLatency.WithLabelValues(format).Observe(d.Seconds())
	}
}

// IncrementRequest records a served API request.
func (m *Metrics) IncrementRequest(route, status string) {
	if m != nil {
		m.Requests.WithLabelValues(route, status).Inc()
	}
}
