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

package egress_test

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/scionproto/staticrouter/router/egress"
	"github.com/scionproto/staticrouter/router/frame"
	"github.com/scionproto/staticrouter/router/mock_router"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func parsed(t *testing.T, prio uint8, payload []byte) ([]byte, *frame.Parser) {
	t.Helper()
	raw, err := frame.Encode(frame.Frame{
		Flags:       frame.FlagDestination,
		Priority:    prio,
		Destination: 1,
	}, payload)
	require.NoError(t, err)
	p := &frame.Parser{}
	require.True(t, p.Parse(raw))
	return raw, p
}

func TestDiscard(t *testing.T) {
	d := &egress.Discard{}
	require.NoError(t, d.SendPacket([]byte{1}, nil))
	require.NoError(t, d.SendPacket(nil, nil))
	assert.Equal(t, uint64(2), d.Packets())
}

func TestQueue(t *testing.T) {
	q := egress.NewQueue(2)
	low, lowParser := parsed(t, 0, []byte("low"))
	high, highParser := parsed(t, 3, []byte("high"))

	require.NoError(t, q.SendPacket(low, lowParser))
	require.NoError(t, q.SendPacket(high, highParser))
	assert.Equal(t, 2, q.Len())

	// The queue holds copies.
	low[len(low)-1] = 'X'

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	p, err := q.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(3), p.Priority)
	assert.Equal(t, high, p.Data)

	p, err = q.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), p.Priority)
	assert.Equal(t, byte('w'), p.Data[len(p.Data)-1])

	_, ok := q.TryReceive()
	assert.False(t, ok)
}

func TestQueueFull(t *testing.T) {
	q := egress.NewQueue(1)
	raw, p := parsed(t, 0, nil)
	require.NoError(t, q.SendPacket(raw, p))
	assert.ErrorIs(t, q.SendPacket(raw, p), egress.ErrQueueFull)

	// The priority queue is separate.
	raw, p = parsed(t, 1, nil)
	require.NoError(t, q.SendPacket(raw, p))
}

func TestQueueWithoutPrioritizer(t *testing.T) {
	ctrl := gomock.NewController(t)
	parser := mock_router.NewMockPacketParser(ctrl)

	q := egress.NewQueue(1)
	require.NoError(t, q.SendPacket([]byte{1, 2}, parser))
	p, ok := q.TryReceive()
	require.True(t, ok)
	assert.Equal(t, uint8(0), p.Priority)
}

func TestQueueReceiveCanceled(t *testing.T) {
	q := egress.NewQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := q.Receive(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type fakePublisher struct {
	msgs []*nats.Msg
	err  error
}

func (f *fakePublisher) PublishMsg(msg *nats.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func TestNATS(t *testing.T) {
	pub := &fakePublisher{}
	n := &egress.NATS{Publisher: pub, Subject: "router.out"}
	raw, p := parsed(t, 5, []byte("payload"))

	require.NoError(t, n.SendPacket(raw, p))
	require.Len(t, pub.msgs, 1)
	msg := pub.msgs[0]
	assert.Equal(t, "router.out", msg.Subject)
	assert.Equal(t, raw, msg.Data)
	assert.Equal(t, "5", msg.Header.Get(egress.PriorityHeader))

	raw[0] = 0
	assert.NotEqual(t, raw, msg.Data)

	pub.err = errors.New("connection closed")
	assert.Error(t, n.SendPacket(raw, p))
}

func TestUDP(t *testing.T) {
	receiver, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer receiver.Close()

	remote := receiver.LocalAddr().(*net.UDPAddr).AddrPort()
	u, err := egress.DialUDP(remote, 0)
	require.NoError(t, err)
	defer u.Close()
	assert.Equal(t, receiver.LocalAddr().String(), u.RemoteAddr().String())

	raw, p := parsed(t, 0, []byte("over the wire"))
	require.NoError(t, u.SendPacket(raw, p))

	buf := make([]byte, 1500)
	require.NoError(t, receiver.SetReadDeadline(time.Now().Add(time.Second)))
	n, err := receiver.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, raw, buf[:n])
}

func TestUDPClosed(t *testing.T) {
	u, err := egress.DialUDP(netip.MustParseAddrPort("127.0.0.1:9"), time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, u.Close())
	assert.Error(t, u.SendPacket([]byte{1}, nil))
}

func TestNewUDP(t *testing.T) {
	receiver, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer receiver.Close()
	conn, err := net.DialUDP("udp", nil, receiver.LocalAddr().(*net.UDPAddr))
	require.NoError(t, err)

	u := egress.NewUDP(conn, time.Second)
	defer u.Close()
	require.NoError(t, u.SendPacket([]byte("wrapped"), nil))

	buf := make([]byte, 64)
	require.NoError(t, receiver.SetReadDeadline(time.Now().Add(time.Second)))
	n, err := receiver.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "wrapped", string(buf[:n]))
}
