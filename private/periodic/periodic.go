// Copyright 2018 Anapaya Systems
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

// Package periodic runs a task at a fixed period until it is stopped.
package periodic

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/scionproto/staticrouter/pkg/log"
)

// Event values of Metrics.Events.
const (
	EventStop    = "stop"
	EventKill    = "kill"
	EventTrigger = "triggered"
)

// A Task is a function that is run periodically.
type Task interface {
	// Run runs the task. The context is canceled when the timeout is exceeded or the runner
	// is killed.
	Run(context.Context)
	// Name returns the name of the task, used for logging.
	Name() string
}

// Metrics are the optional metrics of a Runner. Nil fields are not updated.
type Metrics struct {
	Events    func(event string) prometheus.Counter
	Period    prometheus.Gauge
	Runtime   prometheus.Gauge
	StartTime prometheus.Gauge
}

func (m Metrics) event(e string) {
	if m.Events != nil {
		m.Events(e).Inc()
	}
}

func setGauge(g prometheus.Gauge, v float64) {
	if g != nil {
		g.Set(v)
	}
}

// Runner runs a task periodically.
type Runner struct {
	task         Task
	ticker       *time.Ticker
	timeout      time.Duration
	stop         chan struct{}
	loopFinished chan struct{}
	ctx          context.Context
	cancelF      context.CancelFunc
	trigger      chan struct{}
	metrics      Metrics
}

// Start creates and starts a new Runner that runs task every period. A run that takes longer
// than timeout has its context canceled.
func Start(task Task, period, timeout time.Duration) *Runner {
	return StartWithMetrics(task, nil, period, timeout)
}

// StartWithMetrics is like Start and additionally updates m.
func StartWithMetrics(task Task, m *Metrics, period, timeout time.Duration) *Runner {
	if m == nil {
		m = &Metrics{}
	}
	ctx, cancelF := context.WithCancel(context.Background())
	logger := log.New("task", task.Name())
	ctx = log.CtxWith(ctx, logger)
	r := &Runner{
		task:         task,
		ticker:       time.NewTicker(period),
		timeout:      timeout,
		stop:         make(chan struct{}),
		loopFinished: make(chan struct{}),
		ctx:          ctx,
		cancelF:      cancelF,
		trigger:      make(chan struct{}),
		metrics:      *m,
	}
	logger.Debug("Starting periodic task", "period", period, "timeout", timeout)
	setGauge(m.Period, period.Seconds())
	setGauge(m.StartTime, float64(time.Now().UnixNano()/1e9))
	go func() {
		defer log.HandlePanic()
		r.runLoop()
	}()
	return r
}

// Stop stops the periodic execution and waits for a running task to finish.
func (r *Runner) Stop() {
	r.ticker.Stop()
	close(r.stop)
	<-r.loopFinished
	r.cancelF()
	r.metrics.event(EventStop)
}

// Kill stops the periodic execution and cancels the context of a running task.
func (r *Runner) Kill() {
	r.ticker.Stop()
	close(r.stop)
	r.cancelF()
	<-r.loopFinished
	r.metrics.event(EventKill)
}

// TriggerRun runs the task now, unless the runner is stopped. It blocks until the run
// starts.
func (r *Runner) TriggerRun() {
	select {
	case <-r.stop:
	case r.trigger <- struct{}{}:
		r.metrics.event(EventTrigger)
	}
}

func (r *Runner) runLoop() {
	defer close(r.loopFinished)
	// Run once immediately.
	r.onTick()
	for {
		select {
		case <-r.stop:
			return
		case <-r.ticker.C:
			r.onTick()
		case <-r.trigger:
			r.onTick()
		}
	}
}

func (r *Runner) onTick() {
	select {
	case <-r.stop:
		return
	default:
	}
	ctx, cancelF := context.WithTimeout(r.ctx, r.timeout)
	start := time.Now()
	r.task.Run(ctx)
	setGauge(r.metrics.Runtime, time.Since(start).Seconds())
	cancelF()
}

// Func is a Task from a function.
type Func struct {
	Task     func(context.Context)
	TaskName string
}

// Run runs the function.
func (f Func) Run(ctx context.Context) {
	f.Task(ctx)
}

// Name returns the task name.
func (f Func) Name() string {
	return f.TaskName
}
