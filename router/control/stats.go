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

package control

import (
	"context"

	"github.com/scionproto/staticrouter/pkg/log"
	"github.com/scionproto/staticrouter/private/periodic"
	"github.com/scionproto/staticrouter/router"
)

// StatsReporter is a periodic task that logs the router counters whenever they changed
// since its previous run.
type StatsReporter struct {
	Router *router.StaticRouter

	last Counters
}

var _ periodic.Task = (*StatsReporter)(nil)

func (s *StatsReporter) Name() string {
	return "router_stats_reporter"
}

func (s *StatsReporter) Run(ctx context.Context) {
	c := Snapshot{Router: s.Router}.Counters()
	if c == s.last {
		return
	}
	log.FromCtx(ctx).Info("Router counters",
		"parser_errors", c.ParserErrors,
		"route_errors", c.RouteErrors,
		"egress_errors", c.EgressErrors,
		"dropped_packets", c.DroppedPackets,
	)
	s.last = c
}

// Last returns the counters logged by the most recent report.
func (s *StatsReporter) Last() Counters {
	return s.last
}
