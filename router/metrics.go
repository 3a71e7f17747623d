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

package router

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	metrics "github.com/scionproto/staticrouter/pkg/metrics/v2"
)

// MaxPacketSize is the largest packet the ingress reads. Larger datagrams are truncated by
// the socket and will fail to parse.
const MaxPacketSize = 9000

// RegisterCounters exports the error counters of r through f. The collectors read the router
// counters at scrape time, so they need no further updates.
func RegisterCounters(r *StaticRouter, f metrics.Factory) {
	f.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "router_parser_errors_total",
			Help: "Packets dropped because they could not be parsed or had no destination.",
		},
		func() float64 { return float64(r.ParserErrors()) },
	)
	f.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "router_route_errors_total",
			Help: "Packets dropped because no route matched their destination.",
		},
		func() float64 { return float64(r.RouteErrors()) },
	)
	f.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "router_egress_errors_total",
			Help: "Packets dropped because the egress failed to send them.",
		},
		func() float64 { return float64(r.EgressErrors()) },
	)
	f.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "router_dropped_pkts_total",
			Help: "Total number of packets dropped by the router.",
		},
		func() float64 { return float64(r.DroppedPackets()) },
	)
}

// Metrics are the per-packet metrics maintained by the ingress.
type Metrics struct {
	InputPacketsTotal  *prometheus.CounterVec
	InputBytesTotal    *prometheus.CounterVec
	RoutedPacketsTotal *prometheus.CounterVec
}

// NewMetrics creates the ingress metrics and registers them through f.
func NewMetrics(f metrics.Factory) *Metrics {
	return &Metrics{
		InputPacketsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "router_input_pkts_total",
				Help: "Total number of packets received",
			},
			[]string{"sizeclass"},
		),
		InputBytesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "router_input_bytes_total",
				Help: "Total number of bytes received",
			},
			[]string{"sizeclass"},
		),
		RoutedPacketsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "router_routed_pkts_total",
				Help: "Total number of packets handed to the router, by outcome.",
			},
			[]string{"status"},
		),
	}
}

// InputMetrics are the curried input counters of one size class.
type InputMetrics struct {
	Packets prometheus.Counter
	Bytes   prometheus.Counter
}

// IngressMetrics holds pre-resolved counter instances, so that the per-packet path does no
// label lookups.
type IngressMetrics struct {
	Input  [maxSizeClass]InputMetrics
	Routed [StatusCount]prometheus.Counter
}

// Resolve pre-resolves all counter instances of m. All of them are initialized to zero so
// that they are exported before the first packet arrives.
func (m *Metrics) Resolve() *IngressMetrics {
	im := &IngressMetrics{}
	for sc := minSizeClass; sc < maxSizeClass; sc++ {
		l := prometheus.Labels{"sizeclass": sc.String()}
		im.Input[sc] = InputMetrics{
			Packets: m.InputPacketsTotal.With(l),
			Bytes:   m.InputBytesTotal.With(l),
		}
		im.Input[sc].Packets.Add(0)
		im.Input[sc].Bytes.Add(0)
	}
	for s := StatusOK; s < statusMax; s++ {
		im.Routed[s] = m.RoutedPacketsTotal.With(prometheus.Labels{"status": s.String()})
		im.Routed[s].Add(0)
	}
	return im
}

// Observe accounts for one received packet of size pktSize and the outcome of routing it.
func (im *IngressMetrics) Observe(pktSize int, err error) {
	in := im.Input[ClassOfSize(pktSize)]
	in.Packets.Inc()
	in.Bytes.Add(float64(pktSize))
	im.Routed[StatusOf(err)].Inc()
}

// SizeClass is the number of bits needed to represent some given size. This is quicker than
// computing Log2 and serves the same purpose.
type SizeClass uint8

// maxSizeClass is the smallest NOT-supported SizeClass. It must be enough to support the
// largest valid packet size (MaxPacketSize). Larger packets are put in the last class.
const maxSizeClass SizeClass = 15

// This will fail to compile if MaxPacketSize cannot fit in (maxSizeClass - 1) bits.
const _ = uint(1<<(maxSizeClass-1) - 1 - MaxPacketSize)

// minSizeClass is the smallest SizeClass that we care about.
// All smaller classes are conflated with this one.
const minSizeClass SizeClass = 6

// ClassOfSize returns the size class of a packet of pktSize bytes.
func ClassOfSize(pktSize int) SizeClass {
	cs := SizeClass(bits.Len32(uint32(pktSize)))
	if cs > maxSizeClass-1 {
		return maxSizeClass - 1
	}
	if cs <= minSizeClass {
		return minSizeClass
	}
	return cs
}

// Returns a human-friendly representation of the given size class. Avoid bracket notation to
// make the values easier to use in monitoring queries.
func (sc SizeClass) String() string {
	low := strconv.Itoa((1 << sc) >> 1)
	high := strconv.Itoa((1 << sc) - 1)
	if sc == minSizeClass {
		low = "0"
	}
	if sc == maxSizeClass-1 {
		high = "inf"
	}
	return strings.Join([]string{low, high}, "_")
}
