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

// Package priority provides two-level priority queues built from channels.
package priority

import (
	"context"
)

type PriorityLabel uint8

const (
	WithPriority PriorityLabel = iota
	WithBestEffort
	lastPriority

	QueueCount = int(lastPriority)
)

// LabelOf maps a packet priority to its queue. Any non-zero priority is served first.
func LabelOf(prio uint8) PriorityLabel {
	if prio > 0 {
		return WithPriority
	}
	return WithBestEffort
}

func (l PriorityLabel) String() string {
	switch l {
	case WithPriority:
		return "priority"
	case WithBestEffort:
		return "best_effort"
	}
	return "unknown"
}

type Queue[T any] [QueueCount]<-chan T

// ReadAsync returns a value from the queues read in their priority order.
// If no value is available, this function does not block and returns false.
func ReadAsync[T any](queue Queue[T]) (T, bool) {
	var v T
	var ok bool
loop:
	for _, q := range queue {
		select {
		case v, ok = <-q:
			if !ok {
				// Channel is closed.
				continue
			}
			break loop
		default:
		}
	}
	return v, ok
}

// ReadBlocking returns the first available value from the queues, retrieved in priority order.
// If no value is available at any queue, it blocks until one queue receives a value.
// It returns the value, and false if the channel it was read from is closed.
// There is no cheap general way to select over a variable number of channels (reflect.Select
// is expensive), so this is written for exactly two queues.
func ReadBlocking[T any](queue Queue[T]) (T, bool) {
	return ReadContext(context.Background(), queue)
}

// ReadContext is like ReadBlocking, but also returns (zero, false) once ctx is done.
func ReadContext[T any](ctx context.Context, queue Queue[T]) (T, bool) {
	// Compile guards because we have manual code below that is written only for the
	// case of two queues (channels) in the Queue definition.
	var _ [2 - len(queue)]int // assert( len(queue) <= 2 )
	var _ [len(queue) - 2]int // assert( len(queue) >= 2 )

	v, ok := ReadAsync(queue)
	if ok {
		return v, ok
	}
	// Block until any queue has a value.
	select {
	case v, ok := <-queue[0]:
		return v, ok
	case v, ok := <-queue[1]:
		return v, ok
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}
