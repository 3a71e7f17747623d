// Copyright 2020 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics defines the metrics of the configured egresses.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	metrics "github.com/scionproto/staticrouter/pkg/metrics/v2"
	"github.com/scionproto/staticrouter/pkg/private/prom"
)

// Result values.
const (
	Success = prom.Success
	// ErrSend is an egress that failed to send.
	ErrSend = "err_send"
)

// EgressLabels identifies one egress and send result.
type EgressLabels struct {
	// Egress is the configured name of the egress.
	Egress string
	// Result is Success or ErrSend.
	Result string
}

// Labels returns the list of labels.
func (l EgressLabels) Labels() []string {
	return []string{prom.LabelEgress, prom.LabelResult}
}

// Values returns the label values in the order defined by Labels.
func (l EgressLabels) Values() []string {
	return []string{l.Egress, l.Result}
}

// Egress holds the per-egress counters.
type Egress struct {
	sends *prometheus.CounterVec
}

// NewEgress creates the egress metrics through f.
func NewEgress(f metrics.Factory) *Egress {
	return &Egress{
		sends: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "router_egress_sends_total",
				Help: "Total number of packets handed to an egress, by result.",
			},
			EgressLabels{}.Labels(),
		),
	}
}

// Sends returns the counter for the given label set.
func (e *Egress) Sends(l EgressLabels) prometheus.Counter {
	return e.sends.WithLabelValues(l.Values()...)
}
