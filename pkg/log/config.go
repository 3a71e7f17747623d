// Copyright 2019 Anapaya Systems
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

package log

import (
	"io"

	"github.com/scionproto/staticrouter/private/config"
)

const consoleSample = `
# Console logging level (debug|info|error) (default info)
level = "info"

# Console logging format (human|json) (default human)
format = "human"

# Level from which stack traces are attached (debug|info|error|none) (default none)
stacktrace_level = "none"

# Do not annotate entries with the calling file and line. (default false)
disable_caller = false
`

// Sample writes the sample of the logging block.
func (c *Config) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteSample(dst, path, ctx, &c.Console)
}

// ConfigName returns the name of the logging block.
func (c *Config) ConfigName() string {
	return "log"
}

// Validate checks that Setup would accept the configuration.
func (c *Config) Validate() error {
	return c.Console.Validate()
}

func (c *ConsoleConfig) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, consoleSample)
}

func (c *ConsoleConfig) ConfigName() string {
	return "console"
}
