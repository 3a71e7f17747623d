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

// Package launcher includes the shared application execution boilerplate of all
// applications.
package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scionproto/staticrouter/pkg/log"
	"github.com/scionproto/staticrouter/pkg/private/prom"
	"github.com/scionproto/staticrouter/pkg/private/serrors"
	"github.com/scionproto/staticrouter/private/app/command"
	libconfig "github.com/scionproto/staticrouter/private/config"
)

// Configuration keys used by the launcher.
const (
	cfgConfigFile                = "config"
	cfgLogConsoleLevel           = "log.console.level"
	cfgLogConsoleFormat          = "log.console.format"
	cfgLogConsoleStacktraceLevel = "log.console.stacktrace_level"
	cfgLogConsoleDisableCaller   = "log.console.disable_caller"
	cfgGeneralID                 = "general.id"
)

// Application models a server application.
type Application struct {
	// TOMLConfig holds the Go data structure for the application-specific
	// TOML configuration. It is loaded, defaulted and validated before Main runs.
	TOMLConfig libconfig.Config

	// ShortName is the short name of the application. If empty, the executable name is used.
	ShortName string

	// Subcommands creates additional subcommands next to the built-in sample and version
	// subcommands.
	Subcommands []func(command.Pather) *cobra.Command

	// Main is the custom logic of the application. If nil, no custom logic is executed
	// (and only the setup/teardown harness runs). If Main returns an error, the
	// Run method will return a non-zero exit code.
	Main func(ctx context.Context) error

	// Registry is where the launcher registers its own metrics. If nil, the default
	// registerer is used.
	Registry prometheus.Registerer

	// ErrorWriter specifies where error output should be printed. If nil, os.Stderr is used.
	ErrorWriter io.Writer

	// cmd is the Cobra command for the application.
	cmd *cobra.Command

	// config contains the Viper configuration KV store.
	config *viper.Viper
}

// Run sets up the common server harness, and then passes control to the Main
// function (if one exists). The context passed to Main is canceled on SIGINT and SIGTERM.
//
// Run uses the following globals:
//
//	os.Args
//
// Run will exit the application if it encounters a fatal error.
func (a *Application) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := a.Execute(ctx, os.Args[0], os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintf(a.getErrorWriter(), "fatal error: %v\n", err)
		os.Exit(1)
	}
}

// Execute runs the application as executable with the given arguments until ctx is done or
// Main returns.
func (a *Application) Execute(ctx context.Context, executable string, args []string) error {
	executable = filepath.Base(executable)
	shortName := a.getShortName(executable)

	a.cmd = newCommandTemplate(executable, shortName, a.TOMLConfig, a.Subcommands...)
	a.cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return a.executeCommand(cmd.Context(), shortName)
	}
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}
	a.cmd.SetArgs(args)
	if a.ErrorWriter != nil {
		a.cmd.SetErr(a.ErrorWriter)
	}
	a.config = viper.New()
	a.config.SetDefault(cfgLogConsoleLevel, log.DefaultConsoleLevel)
	a.config.SetDefault(cfgLogConsoleFormat, "human")
	a.config.SetDefault(cfgLogConsoleStacktraceLevel, log.DefaultStacktraceLevel)
	a.config.SetDefault(cfgLogConsoleDisableCaller, false)
	a.config.SetDefault(cfgGeneralID, executable)
	// The configuration file location is specified through command-line flags.
	// Once the command-line flags are parsed, we register the location of the
	// config file with the viper config.
	if err := a.config.BindPFlag(cfgConfigFile, a.cmd.Flags().Lookup(cfgConfigFile)); err != nil {
		return err
	}
	return a.cmd.ExecuteContext(ctx)
}

func (a *Application) getShortName(executable string) string {
	if a.ShortName != "" {
		return a.ShortName
	}
	return executable
}

func (a *Application) executeCommand(ctx context.Context, shortName string) error {
	// Load launcher configurations from the same config file as the custom
	// application configuration.
	file := a.config.GetString(cfgConfigFile)
	a.config.SetConfigType("toml")
	a.config.SetConfigFile(file)
	if err := a.config.ReadInConfig(); err != nil {
		return serrors.Wrap("loading generic server config from file", err, "file", file)
	}
	if err := libconfig.LoadFile(file, a.TOMLConfig); err != nil {
		return serrors.Wrap("loading config from file", err, "file", file)
	}
	a.TOMLConfig.InitDefaults()

	reg := a.registry()
	logEntriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lib_log_emitted_entries_total",
			Help: "Total number of log entries emitted.",
		},
		[]string{"level"},
	)
	logEntriesTotal = prom.SafeRegister(reg, logEntriesTotal).(*prometheus.CounterVec)
	opt := log.WithEntriesCounter(log.EntriesCounter{
		Debug: logEntriesTotal.With(prometheus.Labels{"level": "debug"}),
		Info:  logEntriesTotal.With(prometheus.Labels{"level": "info"}),
		Error: logEntriesTotal.With(prometheus.Labels{"level": "error"}),
	})
	if err := log.Setup(a.getLogging(), opt); err != nil {
		return serrors.Wrap("initialize logging", err)
	}
	defer log.Flush()

	id := a.config.GetString(cfgGeneralID)
	log.Info("=====================> Service started", "app", shortName, "id", id)
	defer log.Info("=====================> Service stopped", "app", shortName, "id", id)
	defer log.HandlePanic()

	prom.ExportBuildInfo(reg)
	prom.ExportElementID(reg, id)
	if err := a.TOMLConfig.Validate(); err != nil {
		return serrors.Wrap("validate config", err)
	}

	if a.Main == nil {
		return nil
	}
	return a.Main(ctx)
}

func (a *Application) registry() prometheus.Registerer {
	if a.Registry != nil {
		return a.Registry
	}
	return prometheus.DefaultRegisterer
}

func (a *Application) getLogging() log.Config {
	return log.Config{
		Console: log.ConsoleConfig{
			Level:           a.config.GetString(cfgLogConsoleLevel),
			Format:          a.config.GetString(cfgLogConsoleFormat),
			StacktraceLevel: a.config.GetString(cfgLogConsoleStacktraceLevel),
			DisableCaller:   a.config.GetBool(cfgLogConsoleDisableCaller),
		},
	}
}

func (a *Application) getErrorWriter() io.Writer {
	if a.ErrorWriter != nil {
		return a.ErrorWriter
	}
	return os.Stderr
}
