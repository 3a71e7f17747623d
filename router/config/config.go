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

// Package config defines the configuration of the router daemon.
package config

import (
	"fmt"
	"io"
	"net/netip"
	"strconv"
	"strings"

	"github.com/scionproto/staticrouter/pkg/log"
	"github.com/scionproto/staticrouter/pkg/private/serrors"
	"github.com/scionproto/staticrouter/pkg/private/util"
	"github.com/scionproto/staticrouter/private/config"
	"github.com/scionproto/staticrouter/private/env"
)

// Parser kinds.
const (
	ParserFrame = "frame"
	ParserIPv4  = "ipv4"
)

// Egress types.
const (
	EgressUDP     = "udp"
	EgressQueue   = "queue"
	EgressNATS    = "nats"
	EgressDiscard = "discard"
)

const (
	DefaultListen    = "127.0.0.1:30100"
	DefaultBatchSize = 64
	DefaultQueueSize = 1024
	DefaultNATSURL   = "nats://127.0.0.1:4222"
)

var _ config.Config = (*Config)(nil)

// Config is the configuration of the router daemon.
type Config struct {
	General env.General  `toml:"general,omitempty"`
	Logging log.Config   `toml:"log,omitempty"`
	Metrics env.Metrics  `toml:"metrics,omitempty"`
	API     env.API      `toml:"api,omitempty"`
	Router  RouterConfig `toml:"router,omitempty"`
}

func (cfg *Config) InitDefaults() {
	config.InitAll(
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.API,
		&cfg.Router,
	)
}

func (cfg *Config) Validate() error {
	return config.ValidateAll(
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.API,
		&cfg.Router,
	)
}

func (cfg *Config) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteSample(dst, path, config.CtxMap{config.ID: idSample},
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.API,
		&cfg.Router,
	)
}

var _ config.Config = (*RouterConfig)(nil)

// RouterConfig configures ingress, egresses and the route table.
type RouterConfig struct {
	// Listen is the UDP address frames are received on.
	Listen string `toml:"listen,omitempty"`
	// Parser is the wire format of received frames.
	Parser string `toml:"parser,omitempty"`
	// BatchSize is the number of datagrams read at once.
	BatchSize int `toml:"batch_size,omitempty"`
	// ReceiveBufferSize is the socket receive buffer size in bytes. Zero keeps the system
	// default.
	ReceiveBufferSize int `toml:"receive_buffer_size,omitempty"`
	// StatsInterval is the period at which the router counters are logged. Zero disables
	// the report.
	StatsInterval util.DurWrap `toml:"stats_interval,omitempty"`
	// Egresses are the named transports routes refer to.
	Egresses []EgressConfig `toml:"egress,omitempty"`
	// Routes is the route table. Order matters: the first route for an address wins.
	Routes []RouteConfig `toml:"routes,omitempty"`
}

func (cfg *RouterConfig) InitDefaults() {
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.Parser == "" {
		cfg.Parser = ParserFrame
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	for i := range cfg.Egresses {
		cfg.Egresses[i].InitDefaults()
	}
}

func (cfg *RouterConfig) Validate() error {
	if _, err := netip.ParseAddrPort(cfg.Listen); err != nil {
		return serrors.Wrap("invalid listen address", err, "listen", cfg.Listen)
	}
	switch cfg.Parser {
	case ParserFrame, ParserIPv4:
	default:
		return serrors.New("unknown parser", "parser", cfg.Parser)
	}
	if cfg.BatchSize < 1 {
		return serrors.New("batch_size must be positive", "batch_size", cfg.BatchSize)
	}
	if cfg.StatsInterval.Duration < 0 {
		return serrors.New("stats_interval must not be negative",
			"stats_interval", cfg.StatsInterval)
	}
	if cfg.ReceiveBufferSize < 0 {
		return serrors.New("receive_buffer_size must not be negative",
			"receive_buffer_size", cfg.ReceiveBufferSize)
	}
	names := make(map[string]struct{}, len(cfg.Egresses))
	for i := range cfg.Egresses {
		e := &cfg.Egresses[i]
		if err := e.Validate(); err != nil {
			return serrors.Wrap("invalid egress", err, "index", i)
		}
		if _, ok := names[e.Name]; ok {
			return serrors.New("duplicate egress name", "name", e.Name)
		}
		names[e.Name] = struct{}{}
	}
	seen := make(map[uint32]int, len(cfg.Routes))
	for i := range cfg.Routes {
		r := &cfg.Routes[i]
		if err := r.Validate(); err != nil {
			return serrors.Wrap("invalid route", err, "index", i)
		}
		if _, ok := names[r.Egress]; !ok {
			return serrors.New("route refers to unknown egress", "index", i, "egress", r.Egress)
		}
		addr, _ := r.Destination()
		if first, ok := seen[addr]; ok {
			log.Info("Duplicate route address, only the first route is used",
				"address", r.Address, "first", first, "shadowed", i)
			continue
		}
		seen[addr] = i
	}
	return nil
}

func (cfg *RouterConfig) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteString(dst, routerSample)
}

func (cfg *RouterConfig) ConfigName() string {
	return "router"
}

// EgressConfig configures one egress.
type EgressConfig struct {
	// Name identifies the egress in routes.
	Name string `toml:"name"`
	// Type is one of udp, queue, nats and discard.
	Type string `toml:"type"`
	// Remote is the address a udp egress sends to.
	Remote string `toml:"remote,omitempty"`
	// WriteTimeout bounds a single send of a udp egress.
	WriteTimeout util.DurWrap `toml:"write_timeout,omitempty"`
	// QueueSize is the capacity per priority of a queue egress.
	QueueSize int `toml:"queue_size,omitempty"`
	// URL is the server a nats egress connects to.
	URL string `toml:"url,omitempty"`
	// Subject is the subject a nats egress publishes on.
	Subject string `toml:"subject,omitempty"`
}

func (cfg *EgressConfig) InitDefaults() {
	switch cfg.Type {
	case EgressQueue:
		if cfg.QueueSize == 0 {
			cfg.QueueSize = DefaultQueueSize
		}
	case EgressNATS:
		if cfg.URL == "" {
			cfg.URL = DefaultNATSURL
		}
		if cfg.Subject == "" {
			cfg.Subject = "router." + cfg.Name
		}
	}
}

func (cfg *EgressConfig) Validate() error {
	if cfg.Name == "" {
		return serrors.New("egress without name")
	}
	switch cfg.Type {
	case EgressUDP:
		if _, err := netip.ParseAddrPort(cfg.Remote); err != nil {
			return serrors.Wrap("invalid remote", err, "name", cfg.Name, "remote", cfg.Remote)
		}
		if cfg.WriteTimeout.Duration < 0 {
			return serrors.New("negative write_timeout", "name", cfg.Name)
		}
	case EgressQueue:
		if cfg.QueueSize < 1 {
			return serrors.New("queue_size must be positive", "name", cfg.Name)
		}
	case EgressNATS:
		if cfg.Subject == "" {
			return serrors.New("nats egress without subject", "name", cfg.Name)
		}
	case EgressDiscard:
	default:
		return serrors.New("unknown egress type", "name", cfg.Name, "type", cfg.Type)
	}
	return nil
}

// RouteConfig is one entry of the route table.
type RouteConfig struct {
	// Address is the destination address: decimal, 0x-prefixed hexadecimal or a dotted IPv4
	// address.
	Address string `toml:"address"`
	// Egress is the name of the egress packets for Address are sent through.
	Egress string `toml:"egress"`
}

func (cfg *RouteConfig) Validate() error {
	if _, err := cfg.Destination(); err != nil {
		return err
	}
	if cfg.Egress == "" {
		return serrors.New("route without egress", "address", cfg.Address)
	}
	return nil
}

// Destination returns the parsed address of the route.
func (cfg *RouteConfig) Destination() (uint32, error) {
	return ParseAddress(cfg.Address)
}

// ParseAddress parses a 32 bit destination address. Accepted forms are decimal ("167772161"),
// hexadecimal ("0x0a000001") and dotted IPv4 ("10.0.0.1"). A dotted address maps to its
// big endian value.
func ParseAddress(s string) (uint32, error) {
	if strings.Contains(s, ".") {
		ip, err := netip.ParseAddr(s)
		if err != nil || !ip.Is4() {
			return 0, serrors.New("invalid IPv4 address", "address", s)
		}
		b := ip.As4()
		return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, serrors.Wrap("invalid address", err, "address", s)
	}
	return uint32(v), nil
}

// FormatAddress formats addr the way the route table is displayed.
func FormatAddress(addr uint32) string {
	return fmt.Sprintf("0x%08x", addr)
}
