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

package router

// Egress delivers an outbound packet over some transport.
//
// SendPacket receives the exact bytes given to StaticRouter.RoutePacket together with the
// parser that was used to route them, so that the egress can inspect parser-derived fields
// (e.g. a priority) without parsing again. Implementations must neither modify packet nor
// keep a reference to it after returning; anything queued must be copied.
//
// The router does not serialize calls to SendPacket. An egress shared by several routing
// goroutines has to synchronize itself. Likewise, any send timeout is the egress's business:
// the router waits for SendPacket to return.
type Egress interface {
	SendPacket(packet []byte, parser PacketParser) error
}

// EgressFunc adapts an ordinary function to the Egress interface.
type EgressFunc func(packet []byte, parser PacketParser) error

// SendPacket calls f(packet, parser).
func (f EgressFunc) SendPacket(packet []byte, parser PacketParser) error {
	return f(packet, parser)
}
