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

package control

import (
	"github.com/scionproto/staticrouter/pkg/private/serrors"
	"github.com/scionproto/staticrouter/router"
	"github.com/scionproto/staticrouter/router/config"
	"github.com/scionproto/staticrouter/router/frame"
	"github.com/scionproto/staticrouter/router/ipv4"
)

// NewParser returns the parser constructor for the given wire format. Parsers are not safe
// for concurrent use, so every reading goroutine creates its own.
func NewParser(kind string) (func() router.PacketParser, error) {
	switch kind {
	case config.ParserFrame:
		return frame.NewParser, nil
	case config.ParserIPv4:
		return ipv4.NewParser, nil
	}
	return nil, serrors.New("unknown parser", "parser", kind)
}
