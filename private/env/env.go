// Copyright 2018 ETH Zurich, Anapaya Systems
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

// Package env contains the configuration blocks and serving code shared by
// all applications.
package env

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scionproto/staticrouter/pkg/log"
	"github.com/scionproto/staticrouter/pkg/private/serrors"
	"github.com/scionproto/staticrouter/private/config"
)

const (
	// ShutdownGraceInterval is the time applications wait after issuing a
	// clean shutdown signal, before forcefully tearing down the application.
	ShutdownGraceInterval = 5 * time.Second

	// HandlerTimeout is the time after which the http handler gives up on a request and
	// returns an error instead.
	HandlerTimeout = time.Minute
)

var _ config.Config = (*General)(nil)

type General struct {
	// ID is the element ID. It is used as a label on logs and metrics.
	ID string `toml:"id,omitempty"`
	// ConfigDir is the directory relative to which other configuration files are resolved.
	ConfigDir string `toml:"config_dir,omitempty"`
}

func (cfg *General) InitDefaults() {
}

func (cfg *General) Validate() error {
	if cfg.ID == "" {
		return serrors.New("no element id specified")
	}
	return cfg.checkDir()
}

func (cfg *General) checkDir() error {
	if cfg.ConfigDir != "" {
		info, err := os.Stat(cfg.ConfigDir)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return serrors.New("config_dir is not a directory", "dir", cfg.ConfigDir)
		}
	}
	return nil
}

func (cfg *General) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, fmt.Sprintf(generalSample, ctx[config.ID]))
}

func (cfg *General) ConfigName() string {
	return "general"
}

var _ config.Config = (*Metrics)(nil)

type Metrics struct {
	config.NoDefaulter
	config.NoValidator
	// Prometheus contains the address to export prometheus metrics on. If
	// not set, metrics are not exported.
	Prometheus string `toml:"prometheus,omitempty"`
}

func (cfg *Metrics) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteString(dst, metricsSample)
}

func (cfg *Metrics) ConfigName() string {
	return "metrics"
}

// ServePrometheus serves the metrics of the default registry on /metrics until ctx is done.
func (cfg *Metrics) ServePrometheus(ctx context.Context) error {
	return cfg.ServeRegistry(ctx, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// ServeRegistry serves the metrics of the given registry on /metrics, and /debug/ from the
// default mux, until ctx is done. It returns immediately if no address is configured.
func (cfg *Metrics) ServeRegistry(
	ctx context.Context,
	reg prometheus.Registerer,
	gatherer prometheus.Gatherer,
) error {
	if cfg.Prometheus == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.InstrumentMetricHandler(
		reg,
		promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{Timeout: HandlerTimeout}),
	))
	// Handlers registered on the default mux, such as net/http/pprof, are served as well.
	mux.Handle("/debug/", http.DefaultServeMux)
	log.Info("Exporting prometheus metrics", "addr", cfg.Prometheus)
	return serve(ctx, &http.Server{Addr: cfg.Prometheus, Handler: mux}, "prometheus metrics")
}

var _ config.Config = (*API)(nil)

// API is the configuration of the management API.
type API struct {
	config.NoDefaulter
	config.NoValidator
	// Addr is the address to serve the management API on. If not set, the API is not
	// served.
	Addr string `toml:"addr,omitempty"`
}

func (cfg *API) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteString(dst, apiSample)
}

func (cfg *API) ConfigName() string {
	return "api"
}

// Serve serves handler on the configured address until ctx is done. It returns immediately
// if no address is configured.
func (cfg *API) Serve(ctx context.Context, handler http.Handler) error {
	if cfg.Addr == "" {
		return nil
	}
	log.Info("Exposing management API", "addr", cfg.Addr)
	return serve(ctx, &http.Server{Addr: cfg.Addr, Handler: handler}, "management API")
}

func serve(ctx context.Context, server *http.Server, what string) error {
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		defer log.HandlePanic()
		select {
		case <-ctx.Done():
			server.Close()
		case <-stopped:
		}
	}()
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return serrors.Wrap("serving "+what, err, "addr", server.Addr)
	}
	return nil
}
