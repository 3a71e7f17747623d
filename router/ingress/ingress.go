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

// Package ingress feeds packets received from the network into a StaticRouter.
package ingress

import (
	"context"
	"errors"
	"net"
	"time"

	"golang.org/x/net/ipv4"

	"github.com/scionproto/staticrouter/pkg/log"
	"github.com/scionproto/staticrouter/pkg/private/serrors"
	"github.com/scionproto/staticrouter/router"
)

// DefaultBatchSize is the number of datagrams read with one system call if no batch size is
// configured.
const DefaultBatchSize = 64

// UDPServer reads datagrams from a UDP socket and routes each of them. Every datagram is one
// frame. Routing failures are counted by the router and the metrics; they are never retried.
type UDPServer struct {
	// Conn is the socket to read from. Run closes it on return.
	Conn *net.UDPConn
	// Router routes the received frames.
	Router *router.StaticRouter
	// NewParser creates the parser of this server. It is called once per Run.
	NewParser func() router.PacketParser
	// BatchSize is the maximum number of datagrams read at once.
	BatchSize int
	// Metrics, if set, are updated for every received datagram.
	Metrics *router.IngressMetrics
}

// Run reads and routes datagrams until ctx is done or reading from the socket fails. It
// returns nil if it was stopped through ctx.
func (s *UDPServer) Run(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	batchSize := s.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	parser := s.NewParser()
	msgs := newMessages(batchSize)
	pconn := ipv4.NewPacketConn(s.Conn)

	done := make(chan struct{})
	stopped := make(chan struct{})
	defer func() {
		close(done)
		<-stopped
		s.Conn.Close()
	}()
	go func() {
		defer log.HandlePanic()
		defer close(stopped)
		select {
		case <-ctx.Done():
			// Unblock the pending read.
			_ = s.Conn.SetReadDeadline(time.Unix(1, 0))
		case <-done:
		}
	}()

	logger.Info("Ingress started", "local", s.Conn.LocalAddr(), "batch_size", batchSize)
	defer logger.Info("Ingress stopped", "local", s.Conn.LocalAddr())
	for {
		n, err := pconn.ReadBatch(msgs, 0)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return serrors.Wrap("reading from socket", err)
		}
		for i := range msgs[:n] {
			pkt := msgs[i].Buffers[0][:msgs[i].N]
			err := s.Router.RoutePacket(pkt, parser)
			if s.Metrics != nil {
				s.Metrics.Observe(len(pkt), err)
			}
			msgs[i].N = 0
		}
	}
}

func newMessages(n int) []ipv4.Message {
	msgs := make([]ipv4.Message, n)
	for i := range msgs {
		msgs[i].Buffers = [][]byte{make([]byte, router.MaxPacketSize)}
	}
	return msgs
}
