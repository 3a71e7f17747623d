// Copyright 2026 Anapaya Systems
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

package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	metrics "github.com/scionproto/staticrouter/pkg/metrics/v2"
)

func TestFactoryConstLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := metrics.ApplyOptions(
		metrics.WithRegistry(reg),
		metrics.WithConstLabels(prometheus.Labels{"instance": "r1", "site": "lab"}),
	).Auto()

	c := f.NewCounter(prometheus.CounterOpts{
		Name:        "test_total",
		Help:        "Test counter.",
		ConstLabels: prometheus.Labels{"site": "edge"},
	})
	c.Add(2)

	expected := `
# HELP test_total Test counter.
# TYPE test_total counter
test_total{instance="r1",site="edge"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_total"))
}

func TestFactoryDefaultRegistry(t *testing.T) {
	var f metrics.Factory
	g := f.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "factory_default_registry_test",
		Help: "Test gauge.",
	}, func() float64 { return 1 })
	defer prometheus.Unregister(g)
	assert.Equal(t, float64(1), testutil.ToFloat64(g))
}
