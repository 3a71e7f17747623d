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

// Package control turns the router configuration into a route table and specifies the
// management interface expected of the router.
package control

import (
	"io"
	"net/netip"

	"github.com/nats-io/nats.go"

	"github.com/scionproto/staticrouter/pkg/log"
	metrics "github.com/scionproto/staticrouter/pkg/metrics/v2"
	"github.com/scionproto/staticrouter/pkg/private/serrors"
	"github.com/scionproto/staticrouter/private/app"
	"github.com/scionproto/staticrouter/router"
	"github.com/scionproto/staticrouter/router/config"
	ctrlmetrics "github.com/scionproto/staticrouter/router/control/internal/metrics"
	"github.com/scionproto/staticrouter/router/egress"
)

// ObservableRouter is the interface the management API expects of the router.
type ObservableRouter interface {
	ListRoutes() []RouteInfo
	Counters() Counters
}

// RouteInfo describes one entry of the route table.
type RouteInfo struct {
	// Address is the destination address of the route.
	Address uint32
	// Egress is the configured name of the egress.
	Egress string
	// Type is the egress type.
	Type string
	// Shadowed is set if an earlier route has the same address.
	Shadowed bool
}

// Counters is a snapshot of the router counters.
type Counters struct {
	ParserErrors   uint32
	RouteErrors    uint32
	EgressErrors   uint32
	DroppedPackets uint32
}

// Options configure BuildRoutes.
type Options struct {
	// ConnectNATS connects the nats egresses. Defaults to egress.ConnectNATS.
	ConnectNATS func(url, name string) (egress.Publisher, error)
	// Metrics creates the per-egress counters. If nil, egresses are not instrumented.
	Metrics *metrics.Factory
}

// EgressInfo is a configured egress.
type EgressInfo struct {
	Name   string
	Type   string
	Egress router.Egress
}

// Table is the route table built from the configuration.
type Table struct {
	// Routes is in configuration order.
	Routes []router.Route
	// Info describes Routes, index by index.
	Info []RouteInfo
	// Egresses is in configuration order.
	Egresses []EgressInfo

	cleanup app.Cleanup
}

// Egress returns the egress with the given name.
func (t *Table) Egress(name string) (router.Egress, bool) {
	for _, e := range t.Egresses {
		if e.Name == name {
			return e.Egress, true
		}
	}
	return nil, false
}

// Close releases the sockets and connections of the egresses.
func (t *Table) Close() error {
	return t.cleanup.Do()
}

// BuildRoutes creates the egresses and the route table described by cfg. The configuration
// must have been validated. On error, everything created so far is released.
func BuildRoutes(cfg config.RouterConfig, opts Options) (*Table, error) {
	if opts.ConnectNATS == nil {
		opts.ConnectNATS = func(url, name string) (egress.Publisher, error) {
			return egress.ConnectNATS(url, name)
		}
	}
	var m *ctrlmetrics.Egress
	if opts.Metrics != nil {
		m = ctrlmetrics.NewEgress(*opts.Metrics)
	}
	t := &Table{}
	byName := make(map[string]EgressInfo, len(cfg.Egresses))
	for _, ec := range cfg.Egresses {
		e, err := newEgress(ec, opts, &t.cleanup)
		if err != nil {
			_ = t.Close()
			return nil, serrors.Wrap("creating egress", err, "name", ec.Name, "type", ec.Type)
		}
		if m != nil {
			e = instrument(e, ec.Name, m)
		}
		info := EgressInfo{Name: ec.Name, Type: ec.Type, Egress: e}
		t.Egresses = append(t.Egresses, info)
		byName[ec.Name] = info
	}
	seen := make(map[uint32]struct{}, len(cfg.Routes))
	for i, rc := range cfg.Routes {
		addr, err := rc.Destination()
		if err != nil {
			_ = t.Close()
			return nil, serrors.Wrap("invalid route", err, "index", i)
		}
		e, ok := byName[rc.Egress]
		if !ok {
			_ = t.Close()
			return nil, serrors.New("route refers to unknown egress",
				"index", i, "egress", rc.Egress)
		}
		_, shadowed := seen[addr]
		seen[addr] = struct{}{}
		t.Routes = append(t.Routes, router.Route{Address: addr, Egress: e.Egress})
		t.Info = append(t.Info, RouteInfo{
			Address:  addr,
			Egress:   e.Name,
			Type:     e.Type,
			Shadowed: shadowed,
		})
	}
	log.Info("Route table built", "egresses", len(t.Egresses), "routes", len(t.Routes))
	return t, nil
}

func newEgress(cfg config.EgressConfig, opts Options, cleanup *app.Cleanup) (router.Egress, error) {
	switch cfg.Type {
	case config.EgressUDP:
		remote, err := netip.ParseAddrPort(cfg.Remote)
		if err != nil {
			return nil, err
		}
		timeout := cfg.WriteTimeout.Duration
		if timeout == 0 {
			timeout = egress.DefaultWriteTimeout
		}
		u, err := egress.DialUDP(remote, timeout)
		if err != nil {
			return nil, err
		}
		cleanup.Add(u.Close)
		return u, nil
	case config.EgressQueue:
		return egress.NewQueue(cfg.QueueSize), nil
	case config.EgressNATS:
		p, err := opts.ConnectNATS(cfg.URL, cfg.Name)
		if err != nil {
			return nil, err
		}
		if c, ok := p.(io.Closer); ok {
			cleanup.Add(c.Close)
		} else if nc, ok := p.(*nats.Conn); ok {
			cleanup.Add(func() error { return nc.Drain() })
		}
		return &egress.NATS{Publisher: p, Subject: cfg.Subject}, nil
	case config.EgressDiscard:
		return &egress.Discard{}, nil
	}
	return nil, serrors.New("unknown egress type")
}

// instrument counts the sends of e by result.
func instrument(e router.Egress, name string, m *ctrlmetrics.Egress) router.Egress {
	ok := m.Sends(ctrlmetrics.EgressLabels{Egress: name, Result: ctrlmetrics.Success})
	failed := m.Sends(ctrlmetrics.EgressLabels{Egress: name, Result: ctrlmetrics.ErrSend})
	return router.EgressFunc(func(packet []byte, parser router.PacketParser) error {
		if err := e.SendPacket(packet, parser); err != nil {
			failed.Inc()
			return err
		}
		ok.Inc()
		return nil
	})
}

// Snapshot wraps a router and its table as an ObservableRouter.
type Snapshot struct {
	Router *router.StaticRouter
	Table  *Table
}

var _ ObservableRouter = Snapshot{}

// ListRoutes returns the route table in configuration order.
func (s Snapshot) ListRoutes() []RouteInfo {
	return append([]RouteInfo(nil), s.Table.Info...)
}

// Counters returns the current router counters.
func (s Snapshot) Counters() Counters {
	return Counters{
		ParserErrors:   s.Router.ParserErrors(),
		RouteErrors:    s.Router.RouteErrors(),
		EgressErrors:   s.Router.EgressErrors(),
		DroppedPackets: s.Router.DroppedPackets(),
	}
}
