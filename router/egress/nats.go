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
	"strconv"

	"github.com/nats-io/nats.go"

	"github.com/scionproto/staticrouter/pkg/private/serrors"
	"github.com/scionproto/staticrouter/router"
)

// PriorityHeader carries the packet priority on published messages.
const PriorityHeader = "Router-Priority"

// Publisher publishes messages. It is satisfied by *nats.Conn.
type Publisher interface {
	PublishMsg(msg *nats.Msg) error
}

// NATS publishes every packet as one message on a fixed subject.
type NATS struct {
	Publisher Publisher
	Subject   string
}

var _ router.Egress = (*NATS)(nil)

// SendPacket publishes a copy of packet. The publisher buffers messages beyond the call.
func (n *NATS) SendPacket(packet []byte, parser router.PacketParser) error {
	msg := nats.NewMsg(n.Subject)
	msg.Data = append([]byte(nil), packet...)
	if p, ok := parser.(Prioritizer); ok {
		msg.Header.Set(PriorityHeader, strconv.Itoa(int(p.Priority())))
	}
	if err := n.Publisher.PublishMsg(msg); err != nil {
		return serrors.Wrap("publishing packet", err, "subject", n.Subject)
	}
	return nil
}

// ConnectNATS connects to the NATS server at url.
func ConnectNATS(url, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name(name))
	if err != nil {
		return nil, serrors.Wrap("connecting to NATS", err, "url", url)
	}
	return nc, nil
}
