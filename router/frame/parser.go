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

package frame

import (
	"github.com/gopacket/gopacket"

	"github.com/scionproto/staticrouter/router"
)

var _ router.PacketParser = (*Parser)(nil)

// Parser parses frames for the router. The zero value is ready to use.
type Parser struct {
	frame Frame
	ok    bool
}

// NewParser returns a new parser. It exists to satisfy parser factories.
func NewParser() router.PacketParser {
	return &Parser{}
}

// Parse decodes and verifies packet. The parser keeps references into packet.
func (p *Parser) Parse(packet []byte) bool {
	p.ok = p.frame.DecodeFromBytes(packet, gopacket.NilDecodeFeedback) == nil
	return p.ok
}

// DestinationAddress returns the destination of the last parsed frame, if it has one.
func (p *Parser) DestinationAddress() (uint32, bool) {
	if !p.ok || !p.frame.HasDestination() {
		return 0, false
	}
	return p.frame.Destination, true
}

// Priority returns the priority byte of the last parsed frame.
func (p *Parser) Priority() uint8 {
	if !p.ok {
		return 0
	}
	return p.frame.Priority
}

// Payload returns the payload of the last parsed frame.
func (p *Parser) Payload() []byte {
	if !p.ok {
		return nil
	}
	return p.frame.LayerPayload()
}
