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
	"net"
	"net/netip"
	"sync"
	"time"

	"github.com/scionproto/staticrouter/pkg/private/serrors"
	"github.com/scionproto/staticrouter/router"
)

// DefaultWriteTimeout bounds a single send if no timeout is configured.
const DefaultWriteTimeout = 100 * time.Millisecond

// UDP sends every packet as one datagram on a connected UDP socket.
type UDP struct {
	// WriteTimeout bounds each send. Zero means DefaultWriteTimeout.
	WriteTimeout time.Duration

	mtx  sync.Mutex
	conn *net.UDPConn
}

var _ router.Egress = (*UDP)(nil)

// DialUDP returns a UDP egress connected to remote.
func DialUDP(remote netip.AddrPort, writeTimeout time.Duration) (*UDP, error) {
	conn, err := net.DialUDP("udp", nil, net.UDPAddrFromAddrPort(remote))
	if err != nil {
		return nil, serrors.Wrap("dialing egress", err, "remote", remote)
	}
	return NewUDP(conn, writeTimeout), nil
}

// NewUDP wraps an already connected socket.
func NewUDP(conn *net.UDPConn, writeTimeout time.Duration) *UDP {
	return &UDP{WriteTimeout: writeTimeout, conn: conn}
}

// SendPacket writes packet to the socket. Writes are serialized, so the egress may be shared
// by several routing goroutines.
func (u *UDP) SendPacket(packet []byte, _ router.PacketParser) error {
	timeout := u.WriteTimeout
	if timeout == 0 {
		timeout = DefaultWriteTimeout
	}
	u.mtx.Lock()
	defer u.mtx.Unlock()
	if err := u.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	n, err := u.conn.Write(packet)
	if err != nil {
		return err
	}
	if n != len(packet) {
		return serrors.New("short write", "expected", len(packet), "written", n)
	}
	return nil
}

// RemoteAddr returns the address the egress sends to.
func (u *UDP) RemoteAddr() net.Addr {
	return u.conn.RemoteAddr()
}

// Close closes the socket.
func (u *UDP) Close() error {
	return u.conn.Close()
}
