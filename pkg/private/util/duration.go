// Copyright 2018 ETH Zurich
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

package util

import (
	"strconv"
	"strings"
	"time"

	"github.com/scionproto/staticrouter/pkg/private/serrors"
)

// units are ordered from largest to smallest, FmtDuration relies on it.
var units = []struct {
	suffix string
	dur    time.Duration
}{
	{"d", 24 * time.Hour},
	{"h", time.Hour},
	{"m", time.Minute},
	{"s", time.Second},
	{"ms", time.Millisecond},
	{"us", time.Microsecond},
	{"ns", time.Nanosecond},
}

// ParseDuration parses a duration of the form <integer><unit>, where unit is one of d, h, m,
// s, ms, us, µs or ns. Unlike time.ParseDuration only a single unit is allowed, and the unit
// is mandatory except for "0".
func ParseDuration(s string) (time.Duration, error) {
	if s == "0" {
		return 0, nil
	}
	s = strings.Replace(s, "µs", "us", 1)
	for i := len(units) - 1; i >= 0; i-- {
		u := units[i]
		if !strings.HasSuffix(s, u.suffix) {
			continue
		}
		num := strings.TrimSuffix(s, u.suffix)
		// Not a plain integer, e.g. "1h30m". Try the next unit.
		n, err := strconv.ParseInt(num, 10, 64)
		if err != nil {
			continue
		}
		return time.Duration(n) * u.dur, nil
	}
	return 0, serrors.New("invalid duration", "value", s)
}

// FmtDuration formats d with the largest unit that represents it exactly.
func FmtDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	for _, u := range units {
		if d%u.dur == 0 {
			return strconv.FormatInt(int64(d/u.dur), 10) + u.suffix
		}
	}
	return d.String()
}
