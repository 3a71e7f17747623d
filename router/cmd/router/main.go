// Copyright 2020 Anapaya Systems
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

package main

import (
	"context"
	"io"
	"net"
	_ "net/http/pprof"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/scionproto/staticrouter/pkg/log"
	metrics "github.com/scionproto/staticrouter/pkg/metrics/v2"
	"github.com/scionproto/staticrouter/pkg/private/processmetrics"
	"github.com/scionproto/staticrouter/pkg/private/serrors"
	"github.com/scionproto/staticrouter/private/app"
	"github.com/scionproto/staticrouter/private/app/command"
	"github.com/scionproto/staticrouter/private/app/launcher"
	libconfig "github.com/scionproto/staticrouter/private/config"
	"github.com/scionproto/staticrouter/private/periodic"
	"github.com/scionproto/staticrouter/router"
	"github.com/scionproto/staticrouter/router/config"
	"github.com/scionproto/staticrouter/router/control"
	"github.com/scionproto/staticrouter/router/ingress"
	api "github.com/scionproto/staticrouter/router/mgmtapi"
)

var globalCfg config.Config

func main() {
	application := launcher.Application{
		TOMLConfig:  &globalCfg,
		ShortName:   "Static Router",
		Subcommands: []func(command.Pather) *cobra.Command{newRoutes},
		Main:        realMain,
	}
	application.Run()
}

func realMain(ctx context.Context) error {
	reg := prometheus.DefaultRegisterer
	if err := processmetrics.Init(reg); err != nil {
		return serrors.Wrap("registering process metrics", err)
	}
	factory := metrics.ApplyOptions(metrics.WithRegistry(reg)).Auto()

	newParser, err := control.NewParser(globalCfg.Router.Parser)
	if err != nil {
		return err
	}
	table, err := control.BuildRoutes(globalCfg.Router, control.Options{Metrics: &factory})
	if err != nil {
		return serrors.Wrap("building route table", err)
	}
	r := router.NewStaticRouter(table.Routes)
	router.RegisterCounters(r, factory)

	conn, err := listen(globalCfg.Router.Listen, globalCfg.Router.ReceiveBufferSize)
	if err != nil {
		_ = table.Close()
		return err
	}
	server := &ingress.UDPServer{
		Conn:      conn,
		Router:    r,
		NewParser: newParser,
		BatchSize: globalCfg.Router.BatchSize,
		Metrics:   router.NewMetrics(factory).Resolve(),
	}

	g, errCtx := errgroup.WithContext(ctx)
	var cleanup app.Cleanup
	if interval := globalCfg.Router.StatsInterval.Duration; interval > 0 {
		stats := periodic.Start(&control.StatsReporter{Router: r}, interval, interval)
		cleanup.Add(func() error { stats.Stop(); return nil })
	}
	g.Go(func() error {
		defer log.HandlePanic()
		<-errCtx.Done()
		return cleanup.Do()
	})

	// Initialize and start service management API.
	if globalCfg.API.Addr != "" {
		apiServer := api.Server{
			Config:   api.ConfigHandler(globalCfg),
			Info:     api.InfoHandler(globalCfg.General.ID),
			LogLevel: api.LogLevelHandler,
			Router:   control.Snapshot{Router: r, Table: table},
		}
		g.Go(func() error {
			defer log.HandlePanic()
			return globalCfg.API.Serve(errCtx, api.Handler(&apiServer, "/api/v1"))
		})
	}
	g.Go(func() error {
		defer log.HandlePanic()
		return globalCfg.Metrics.ServePrometheus(errCtx)
	})
	g.Go(func() error {
		defer log.HandlePanic()
		if err := server.Run(errCtx); err != nil {
			return serrors.Wrap("running ingress", err)
		}
		return nil
	})

	return waitThenClose(g, table)
}

// waitThenClose waits for every goroutine of g and only then closes the route table. The
// egresses must outlive the ingress, which may still be routing after the context is done.
func waitThenClose(g *errgroup.Group, table io.Closer) error {
	err := g.Wait()
	if cerr := table.Close(); cerr != nil && err == nil {
		err = serrors.Wrap("closing route table", cerr)
	}
	return err
}

func listen(addr string, rcvBuf int) (*net.UDPConn, error) {
	udpAddr, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return nil, serrors.Wrap("resolving listen address", err, "addr", addr)
	}
	conn, err := net.ListenUDP("udp4", udpAddr)
	if err != nil {
		return nil, serrors.Wrap("listening", err, "addr", addr)
	}
	if rcvBuf > 0 {
		if err := conn.SetReadBuffer(rcvBuf); err != nil {
			conn.Close()
			return nil, serrors.Wrap("setting receive buffer size", err, "size", rcvBuf)
		}
	}
	return conn, nil
}

func newRoutes(pather command.Pather) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:     "routes",
		Short:   "Print the route table of a configuration",
		Example: "  " + pather.CommandPath() + " routes --config router.toml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg config.Config
			if err := libconfig.LoadFile(file, &cfg); err != nil {
				return serrors.Wrap("loading config", err, "file", file)
			}
			cfg.Router.InitDefaults()
			if err := cfg.Router.Validate(); err != nil {
				return serrors.Wrap("validating router config", err, "file", file)
			}
			routes, err := control.RoutesOf(cfg.Router)
			if err != nil {
				return err
			}
			control.WriteRoutes(cmd.OutOrStdout(), routes)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "config", "", "Configuration file (required)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
