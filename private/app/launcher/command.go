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

package launcher

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/scionproto/staticrouter/private/app/command"
	libconfig "github.com/scionproto/staticrouter/private/config"
)

// newCommandTemplate returns a command that only contains the common flags and subcommands.
// The caller sets RunE.
func newCommandTemplate(
	executable string,
	shortName string,
	config libconfig.Sampler,
	subcommands ...func(command.Pather) *cobra.Command,
) *cobra.Command {
	cmd := &cobra.Command{
		Use:           executable,
		Short:         shortName,
		Example:       fmt.Sprintf("  %s --config %s", executable, "router.toml"),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
	}
	cmd.AddCommand(
		command.NewSample(cmd, config),
		newVersion(cmd),
		command.NewGendocs(cmd),
	)
	for _, sub := range subcommands {
		cmd.AddCommand(sub(cmd))
	}
	cmd.Flags().String(cfgConfigFile, "", "Configuration file (required)")
	if err := cmd.MarkFlagRequired(cfgConfigFile); err != nil {
		panic(err)
	}
	return cmd
}

func newVersion(pather command.Pather) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version of " + pather.CommandPath(),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			version := "(devel)"
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				version = info.Main.Version
			}
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
