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

// Package egress contains the transports that routed packets can be sent through.
package egress

import (
	"sync/atomic"

	"github.com/scionproto/staticrouter/router"
)

// Prioritizer is implemented by parsers that can classify the last parsed packet.
type Prioritizer interface {
	Priority() uint8
}

// priorityOf returns the priority the parser assigned to the packet, or 0 if the parser does
// not classify packets.
func priorityOf(parser router.PacketParser) uint8 {
	if p, ok := parser.(Prioritizer); ok {
		return p.Priority()
	}
	return 0
}

// Discard accepts every packet and drops it.
type Discard struct {
	packets atomic.Uint64
}

var _ router.Egress = (*Discard)(nil)

func (d *Discard) SendPacket(_ []byte, _ router.PacketParser) error {
	d.packets.Add(1)
	return nil
}

// Packets returns the number of packets discarded so far.
func (d *Discard) Packets() uint64 {
	return d.packets.Load()
}
