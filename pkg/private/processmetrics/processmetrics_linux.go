// Copyright 2023 SCION Association
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

//go:build linux

package processmetrics

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/procfs"

	"github.com/scionproto/staticrouter/pkg/private/serrors"
)

var (
	runningTime = prometheus.NewDesc(
		"process_running_seconds_total",
		"CPU time the process used (running state) since it started (all threads summed).",
		nil, nil,
	)
	runnableTime = prometheus.NewDesc(
		"process_runnable_seconds_total",
		"CPU time the process was denied (runnable state) since it started (all threads summed).",
		nil, nil,
	)
	goCores = prometheus.NewDesc(
		"go_sched_maxprocs_threads",
		"The current runtime.GOMAXPROCS setting. The number of cores Go code uses simultaneously",
		nil, nil,
	)
	tasklistUpdates = prometheus.NewDesc(
		"process_metrics_tasklist_updates_total",
		"The number of time the processmetrics collector recreated its list of tasks.",
		nil, nil,
	)
)

// procStatCollector sums the scheduling statistics of all threads of the process.
type procStatCollector struct {
	mtx             sync.Mutex
	myPid           int
	myProcs         procfs.Procs
	myTasks         *os.File
	lastTaskCount   uint64
	taskListUpdates int64
	totalRunning    uint64
	totalRunnable   uint64
}

// updateStat reads /proc/<pid>/task/*/schedstat. The thread list is only rebuilt when the
// number of threads changed; Go never terminates the threads it creates.
func (c *procStatCollector) updateStat() error {
	var taskStat syscall.Stat_t
	if err := syscall.Fstat(int(c.myTasks.Fd()), &taskStat); err != nil {
		return err
	}
	//nolint:unconvert // this is required for arm64 support
	newCount := uint64(taskStat.Nlink - 2)
	if newCount != c.lastTaskCount {
		var err error
		c.taskListUpdates++
		c.myProcs, err = procfs.AllThreads(c.myPid)
		if err != nil {
			return err
		}
		c.lastTaskCount = newCount
	}

	var totalRunning, totalRunnable uint64
	var err error
	for _, p := range c.myProcs {
		schedStat, oneErr := p.Schedstat()
		if oneErr != nil {
			// The thread is gone. The others are still valid.
			err = oneErr
			continue
		}
		totalRunning += schedStat.RunningNanoseconds
		totalRunnable += schedStat.WaitingNanoseconds
	}
	c.totalRunning = totalRunning
	c.totalRunnable = totalRunnable
	return err
}

func (c *procStatCollector) Describe(ch chan<- *prometheus.Desc) {
	prometheus.DescribeByCollect(c, ch)
}

// Collect refreshes the statistics on every scrape.
func (c *procStatCollector) Collect(ch chan<- prometheus.Metric) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	_ = c.updateStat()

	ch <- prometheus.MustNewConstMetric(
		runningTime,
		prometheus.CounterValue,
		float64(c.totalRunning)/1e9,
	)
	ch <- prometheus.MustNewConstMetric(
		runnableTime,
		prometheus.CounterValue,
		float64(c.totalRunnable)/1e9,
	)
	ch <- prometheus.MustNewConstMetric(
		goCores,
		prometheus.GaugeValue,
		float64(runtime.GOMAXPROCS(-1)),
	)
	ch <- prometheus.MustNewConstMetric(
		tasklistUpdates,
		prometheus.CounterValue,
		float64(c.taskListUpdates),
	)
}

// Init registers the process statistics collector with reg. It fails if /proc is not
// readable or the collector is already registered; the process then just lacks the metrics.
func Init(reg prometheus.Registerer) error {
	me := os.Getpid()
	taskPath := filepath.Join(procfs.DefaultMountPoint, strconv.Itoa(me), "task")
	taskDir, err := os.Open(taskPath)
	if err != nil {
		return serrors.Wrap("opening task directory", err, "pid", me)
	}
	c := &procStatCollector{
		myPid:   me,
		myTasks: taskDir,
	}
	if err := c.updateStat(); err != nil {
		taskDir.Close()
		return serrors.Wrap("reading process statistics", err)
	}
	if err := reg.Register(c); err != nil {
		taskDir.Close()
		return serrors.Wrap("registering process metrics", err)
	}
	return nil
}
