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

import (
	"errors"
)

// Status is the outcome of a RoutePacket call, in a form suitable for metric labels.
type Status uint8

const (
	StatusOK Status = iota
	StatusDataLoss
	StatusNotFound
	StatusUnavailable
	statusMax
)

// StatusCount is the number of distinct statuses.
const StatusCount = int(statusMax)

// StatusOf maps the error returned by RoutePacket to its Status. Errors that RoutePacket does
// not produce map to StatusUnavailable.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrDataLoss):
		return StatusDataLoss
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	default:
		return StatusUnavailable
	}
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDataLoss:
		return "data_loss"
	case StatusNotFound:
		return "not_found"
	case StatusUnavailable:
		return "unavailable"
	}
	return "unknown"
}
