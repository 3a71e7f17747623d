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

package mgmtapi

// Problem is an error response in the format of RFC 7807.
type Problem struct {
	// Detail is a human readable explanation of this occurrence of the problem.
	Detail *string `json:"detail,omitempty"`
	// Status is the HTTP status code.
	Status int `json:"status"`
	// Title is a short summary of the problem type.
	Title string `json:"title"`
	// Type identifies the problem type.
	Type *string `json:"type,omitempty"`
}

// Problem types.
const (
	InternalError = "/problems/internal-error"
	BadRequest    = "/problems/bad-request"
)

// Route is an entry of the route table.
type Route struct {
	Address    string `json:"address"`
	Egress     string `json:"egress"`
	EgressType string `json:"egress_type"`
	Shadowed   bool   `json:"shadowed,omitempty"`
	TableIndex int    `json:"index"`
}

// RoutesResponse lists the route table in table order.
type RoutesResponse struct {
	Routes []Route `json:"routes"`
}

// CountersResponse holds the router counters.
type CountersResponse struct {
	ParserErrors   uint32 `json:"parser_errors"`
	RouteErrors    uint32 `json:"route_errors"`
	EgressErrors   uint32 `json:"egress_errors"`
	DroppedPackets uint32 `json:"dropped_packets"`
}

// LogLevel is the body of the log level endpoints.
type LogLevel struct {
	Level string `json:"level"`
}

// StringRef returns a pointer to s.
func StringRef(s string) *string {
	return &s
}
