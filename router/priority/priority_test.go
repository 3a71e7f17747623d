// Copyright 2025 ETH Zurich
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package priority_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	pr "github.com/scionproto/staticrouter/router/priority"
)

func TestReadAsync(t *testing.T) {
	queuesOut := newPriorityQueue(2)
	queues := toInChannels(queuesOut)
	v, ok := pr.ReadAsync(queues)
	assert.Equal(t, false, ok)
	assert.Equal(t, 0, v)

	// Send one value to each queue.
	queuesOut[1] <- 101
	queuesOut[0] <- 10

	// Should return the value from queue 0.
	v, ok = pr.ReadAsync(queues)
	assert.Equal(t, true, ok)
	assert.Equal(t, 10, v)
	// Should return the value from queue 1.
	v, ok = pr.ReadAsync(queues)
	assert.Equal(t, true, ok)
	assert.Equal(t, 101, v)

	// Should be empty now.
	v, ok = pr.ReadAsync(queues)
	assert.Equal(t, false, ok)

	// Send to best-effort queue.
	queuesOut[1] <- 102
	v, ok = pr.ReadAsync(queues)
	assert.Equal(t, true, ok)
	assert.Equal(t, 102, v)

	// Should be empty again.
	v, ok = pr.ReadAsync(queues)
	assert.Equal(t, false, ok)

	// Send to priority queue only.
	queuesOut[0] <- 11
	v, ok = pr.ReadAsync(queues)
	assert.Equal(t, true, ok)
	assert.Equal(t, 11, v)

	// Should be empty again.
	v, ok = pr.ReadAsync(queues)
	assert.Equal(t, false, ok)
}

func TestReadBlocking(t *testing.T) {
	queuesOut := newPriorityQueue(2)
	queues := toInChannels(queuesOut)
	// Send values.
	queuesOut[1] <- 100
	queuesOut[0] <- 10

	// Should not block.
	v, ok := pr.ReadBlocking(queues)
	assert.Equal(t, true, ok)
	assert.Equal(t, 10, v)
	v, ok = pr.ReadBlocking(queues)
	assert.Equal(t, true, ok)
	assert.Equal(t, 100, v)

	// This should block until new values arrive.
	finishedRead := atomic.Uint32{}
	results := make(chan int, 2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2; i++ {
			v, _ := pr.ReadBlocking(queues)
			finishedRead.Add(1)
			results <- v
		}
	}()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, uint32(0), finishedRead.Load())

	// Send to priority.
	queuesOut[0] <- 11
	assert.Equal(t, 11, <-results)
	assert.Equal(t, uint32(1), finishedRead.Load())

	// Send to best-effort.
	queuesOut[1] <- 101
	assert.Equal(t, 101, <-results)
	<-done
	assert.Equal(t, uint32(2), finishedRead.Load())
}

func TestReadContext(t *testing.T) {
	queuesOut := newPriorityQueue(2)
	queues := toInChannels(queuesOut)

	queuesOut[1] <- 1
	v, ok := pr.ReadContext(context.Background(), queues)
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	v, ok = pr.ReadContext(ctx, queues)
	assert.False(t, ok)
	assert.Equal(t, 0, v)

	// Closed channels report false.
	close(queuesOut[0])
	close(queuesOut[1])
	_, ok = pr.ReadContext(context.Background(), queues)
	assert.False(t, ok)
}

func TestLabelOf(t *testing.T) {
	assert.Equal(t, pr.WithBestEffort, pr.LabelOf(0))
	assert.Equal(t, pr.WithPriority, pr.LabelOf(1))
	assert.Equal(t, pr.WithPriority, pr.LabelOf(255))
	assert.Equal(t, "priority", pr.WithPriority.String())
	assert.Equal(t, "best_effort", pr.WithBestEffort.String())
}

func BenchmarkReadBlocking(b *testing.B) {
	queuesOut := newPriorityQueue(2)
	queues := toInChannels(queuesOut)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			select {
			case queuesOut[0] <- 0:
			case queuesOut[1] <- 1:
			case <-stop:
				return
			}
		}
	}()
	for i := 0; i < b.N; i++ {
		pr.ReadBlocking(queues)
	}
}

func newPriorityQueue(channelsBufferSize int) [pr.QueueCount]chan int {
	var q [pr.QueueCount]chan int
	for i := range q {
		q[i] = make(chan int, channelsBufferSize)
	}
	return q
}

func toInChannels(q [pr.QueueCount]chan int) [pr.QueueCount]<-chan int {
	var ret [pr.QueueCount]<-chan int
	for i := 0; i < pr.QueueCount; i++ {
		ret[i] = q[i]
	}
	return ret
}
