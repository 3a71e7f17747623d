// Copyright 2025 SCION Association
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

package egress

import (
	"context"
	"errors"

	"github.com/scionproto/staticrouter/router"
	"github.com/scionproto/staticrouter/router/priority"
)

// ErrQueueFull is returned by Queue.SendPacket if the queue of the packet's priority is full.
var ErrQueueFull = errors.New("queue full")

// Packet is a packet held by a Queue.
type Packet struct {
	Data     []byte
	Priority uint8
}

// Queue is an in-memory egress. Packets are copied into one of two bounded queues according
// to their priority and are read back with Receive, priority packets first.
type Queue struct {
	queues [priority.QueueCount]chan Packet
	out    priority.Queue[Packet]
}

var _ router.Egress = (*Queue)(nil)

// NewQueue returns a queue egress holding up to size packets per priority.
func NewQueue(size int) *Queue {
	q := &Queue{}
	for i := range q.queues {
		q.queues[i] = make(chan Packet, size)
		q.out[i] = q.queues[i]
	}
	return q
}

// SendPacket enqueues a copy of packet. It never blocks.
func (q *Queue) SendPacket(packet []byte, parser router.PacketParser) error {
	prio := priorityOf(parser)
	p := Packet{
		Data:     append([]byte(nil), packet...),
		Priority: prio,
	}
	select {
	case q.queues[priority.LabelOf(prio)] <- p:
		return nil
	default:
		return ErrQueueFull
	}
}

// Receive returns the next packet, priority packets first. It blocks until a packet is
// available or ctx is done.
func (q *Queue) Receive(ctx context.Context) (Packet, error) {
	p, ok := priority.ReadContext(ctx, q.out)
	if !ok {
		return Packet{}, ctx.Err()
	}
	return p, nil
}

// TryReceive returns the next packet without blocking.
func (q *Queue) TryReceive() (Packet, bool) {
	return priority.ReadAsync(q.out)
}

// Len returns the number of queued packets.
func (q *Queue) Len() int {
	n := 0
	for _, c := range q.queues {
		n += len(c)
	}
	return n
}
