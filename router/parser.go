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

package router

// PacketParser extracts routing information from a raw frame of one specific wire format.
//
// A parser is stateful: DestinationAddress (and any format-specific accessor of the concrete
// implementation) refers to the frame most recently passed to a successful Parse call, and is
// only meaningful while that frame's buffer is alive. A parser is therefore not safe for
// concurrent use; give each goroutine its own instance.
type PacketParser interface {
	// Parse interprets packet as a frame of the parser's format. It returns false if the frame
	// is malformed, truncated or fails its integrity checks. After a failed Parse the state of
	// the parser is undefined until the next successful Parse.
	Parse(packet []byte) bool
	// DestinationAddress returns the destination of the last parsed frame. The boolean is false
	// if the frame is valid but carries no destination.
	DestinationAddress() (uint32, bool)
}
