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

// Package command contains subcommands shared by the applications.
package command

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scionproto/staticrouter/private/config"
)

// Pather returns the command path of a command. It is used to render examples that refer to
// the full command line.
type Pather interface {
	CommandPath() string
}

// StringPather is a Pather with a fixed path.
type StringPather string

func (s StringPather) CommandPath() string {
	return string(s)
}

// NewSample creates a subcommand that writes the sample configuration of the application.
func NewSample(pather Pather, samplers ...config.Sampler) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample [file]",
		Short: "Write a sample configuration",
		Long: "Write a sample configuration to the given file, or to stdout if no file is\n" +
			"given. The sample documents all options and their defaults.",
		Example: "  " + pather.CommandPath() + " sample router.toml",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 1 {
				f, err := os.Create(filepath.Clean(args[0]))
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			config.WriteSample(w, nil, nil, samplers...)
			return nil
		},
	}
	return cmd
}
