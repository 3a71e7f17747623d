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

// Package router contains a static, table-driven packet router. For every packet the router
// parses the frame with a caller-supplied PacketParser, looks the destination address up in a
// fixed route table and hands the packet to the Egress of the first matching route.
//
// The router neither queues nor retries. Each RoutePacket call either delivers the packet or
// fails with exactly one of ErrDataLoss, ErrNotFound or ErrUnavailable, and every failure
// increments exactly one of the three error counters.
package router

import (
	"errors"
	"sync/atomic"

	"github.com/scionproto/staticrouter/pkg/log"
)

var (
	// ErrDataLoss is returned for frames that fail to parse or carry no destination address.
	ErrDataLoss = errors.New("data loss")
	// ErrNotFound is returned when no route matches the destination address.
	ErrNotFound = errors.New("no route to destination")
	// ErrUnavailable is returned when the egress of the matching route fails to send.
	ErrUnavailable = errors.New("egress unavailable")
)

// Route binds a destination address to an egress.
type Route struct {
	Address uint32
	Egress  Egress
}

// StaticRouter routes packets through a route table that is fixed at construction.
//
// The route table is only read, and the counters are updated atomically, so one StaticRouter
// may serve several goroutines at once, provided that each of them uses its own
// PacketParser. The counters are never reset; build a new router to start from zero.
type StaticRouter struct {
	routes []Route

	parserErrors atomic.Uint32
	routeErrors  atomic.Uint32
	egressErrors atomic.Uint32
}

// NewStaticRouter returns a router for the given routes. The slice is referenced, not copied:
// the caller keeps ownership and must not modify it while the router is in use. Addresses
// need not be unique; lookups always resolve to the first matching route in slice order.
func NewStaticRouter(routes []Route) *StaticRouter {
	return &StaticRouter{routes: routes}
}

// Routes returns the route table. The returned slice must not be modified.
func (r *StaticRouter) Routes() []Route {
	return r.routes
}

// RoutePacket parses packet with parser, finds the route for its destination and sends it
// through that route's egress. It returns nil once the egress accepted the packet.
//
// The router does not keep packet nor parser beyond the call.
func (r *StaticRouter) RoutePacket(packet []byte, parser PacketParser) error {
	if !parser.Parse(packet) {
		r.parserErrors.Add(1)
		return discard(ErrDataLoss, "reason", "malformed frame", "len", len(packet))
	}
	dst, ok := parser.DestinationAddress()
	if !ok {
		r.parserErrors.Add(1)
		return discard(ErrDataLoss, "reason", "no destination address", "len", len(packet))
	}
	route, ok := r.lookup(dst)
	if !ok {
		r.routeErrors.Add(1)
		return discard(ErrNotFound, "dst", dst)
	}
	if err := route.Egress.SendPacket(packet, parser); err != nil {
		r.egressErrors.Add(1)
		return discard(ErrUnavailable, "dst", dst, "err", err)
	}
	return nil
}

// lookup returns the first route for dst.
func (r *StaticRouter) lookup(dst uint32) (Route, bool) {
	for _, route := range r.routes {
		if route.Address == dst {
			return route, true
		}
	}
	return Route{}, false
}

// ParserErrors returns the number of packets dropped because they could not be parsed or
// carried no destination address.
func (r *StaticRouter) ParserErrors() uint32 {
	return r.parserErrors.Load()
}

// RouteErrors returns the number of packets dropped because no route matched.
func (r *StaticRouter) RouteErrors() uint32 {
	return r.routeErrors.Load()
}

// EgressErrors returns the number of packets dropped because the egress failed to send.
func (r *StaticRouter) EgressErrors() uint32 {
	return r.egressErrors.Load()
}

// DroppedPackets returns the sum of the three error counters. The three counters are read
// one after the other; under concurrent routing the sum is not an atomic snapshot.
func (r *StaticRouter) DroppedPackets() uint32 {
	return r.ParserErrors() + r.RouteErrors() + r.EgressErrors()
}

// Convenience function to log a dropped packet at debug level and return err.
func discard(err error, ctx ...any) error {
	log.Debug("Discarding packet", append([]any{"error", err}, ctx...)...)
	return err
}
