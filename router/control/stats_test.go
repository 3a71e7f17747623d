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

package control_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scionproto/staticrouter/pkg/private/xtest"
	"github.com/scionproto/staticrouter/private/periodic"
	"github.com/scionproto/staticrouter/router"
	"github.com/scionproto/staticrouter/router/control"
)

func TestStatsReporter(t *testing.T) {
	r := router.NewStaticRouter(nil)
	s := &control.StatsReporter{Router: r}

	s.Run(context.Background())
	assert.Equal(t, control.Counters{}, s.Last())

	_ = r.RoutePacket(nil, frameParser())
	s.Run(context.Background())
	assert.Equal(t, control.Counters{ParserErrors: 1, DroppedPackets: 1}, s.Last())
}

func TestStatsReporterPeriodic(t *testing.T) {
	r := router.NewStaticRouter(nil)
	_ = r.RoutePacket(nil, frameParser())
	s := &control.StatsReporter{Router: r}

	ran := make(chan struct{})
	task := periodic.Func{
		TaskName: s.Name(),
		Task: func(ctx context.Context) {
			s.Run(ctx)
			select {
			case <-ran:
			default:
				close(ran)
			}
		},
	}
	runner := periodic.Start(task, time.Hour, time.Second)
	xtest.AssertReadReturnsBefore(t, ran, time.Second)
	runner.Stop()
	assert.Equal(t, uint32(1), s.Last().DroppedPackets)
}
