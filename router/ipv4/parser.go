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

// Package ipv4 routes raw IPv4 packets by their destination address.
package ipv4

import (
	"encoding/binary"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"

	"github.com/scionproto/staticrouter/router"
)

// DSCP code points that are given priority.
const (
	dscpEF  = 46
	dscpCS6 = 48
	dscpCS7 = 56
)

var _ router.PacketParser = (*Parser)(nil)

// Parser parses IPv4 headers. The destination address of a packet is its IPv4 destination,
// read as a big endian uint32. Packets with options, fragments and any payload are accepted.
// The header must be well-formed with a valid checksum, and the packet must be at least as
// long as its total length field claims.
type Parser struct {
	ip layers.IPv4
	ok bool
}

// NewParser returns a new parser.
func NewParser() router.PacketParser {
	return &Parser{}
}

func (p *Parser) Parse(packet []byte) bool {
	p.ok = false
	if err := p.ip.DecodeFromBytes(packet, gopacket.NilDecodeFeedback); err != nil {
		return false
	}
	if p.ip.Version != 4 || len(p.ip.DstIP) != 4 {
		return false
	}
	hdrLen := int(p.ip.IHL) * 4
	if int(p.ip.Length) > len(packet) || hdrLen > len(packet) {
		return false
	}
	if headerChecksum(packet[:hdrLen]) != 0 {
		return false
	}
	p.ok = true
	return true
}

// DestinationAddress returns the destination of the last parsed packet. Every IPv4 packet
// has one.
func (p *Parser) DestinationAddress() (uint32, bool) {
	if !p.ok {
		return 0, false
	}
	return binary.BigEndian.Uint32(p.ip.DstIP), true
}

// Priority returns 1 for packets marked EF, CS6 or CS7 and 0 for everything else.
func (p *Parser) Priority() uint8 {
	if !p.ok {
		return 0
	}
	switch p.ip.TOS >> 2 {
	case dscpEF, dscpCS6, dscpCS7:
		return 1
	}
	return 0
}

// Payload returns the IPv4 payload of the last parsed packet.
func (p *Parser) Payload() []byte {
	if !p.ok {
		return nil
	}
	return p.ip.Payload
}

// headerChecksum folds the ones' complement sum of hdr. It is zero for a header whose
// checksum field is correct.
func headerChecksum(hdr []byte) uint16 {
	var sum uint32
	for i := 0; i+1 < len(hdr); i += 2 {
		sum += uint32(binary.BigEndian.Uint16(hdr[i:]))
	}
	for sum > 0xffff {
		sum = sum>>16 + sum&0xffff
	}
	return ^uint16(sum)
}
