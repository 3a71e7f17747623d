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

package util_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scionproto/staticrouter/pkg/private/util"
)

func TestParseDuration(t *testing.T) {
	testCases := map[string]struct {
		input    string
		expected time.Duration
		err      bool
	}{
		"zero":          {input: "0", expected: 0},
		"days":          {input: "2d", expected: 48 * time.Hour},
		"seconds":       {input: "10s", expected: 10 * time.Second},
		"milliseconds":  {input: "250ms", expected: 250 * time.Millisecond},
		"micro":         {input: "3µs", expected: 3 * time.Microsecond},
		"nanoseconds":   {input: "7ns", expected: 7},
		"missing unit":  {input: "10", err: true},
		"unknown unit":  {input: "10y", err: true},
		"compound":      {input: "1h30m", err: true},
		"empty":         {input: "", err: true},
		"negative":      {input: "-5s", expected: -5 * time.Second},
		"fraction":      {input: "1.5s", err: true},
		"bare ms unit":  {input: "ms", err: true},
		"minutes":       {input: "15m", expected: 15 * time.Minute},
		"hours as days": {input: "24h", expected: 24 * time.Hour},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			d, err := util.ParseDuration(tc.input)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, d)
		})
	}
}

func TestFmtDuration(t *testing.T) {
	assert.Equal(t, "0s", util.FmtDuration(0))
	assert.Equal(t, "1d", util.FmtDuration(24*time.Hour))
	assert.Equal(t, "90m", util.FmtDuration(90*time.Minute))
	assert.Equal(t, "100ms", util.FmtDuration(100*time.Millisecond))
	assert.Equal(t, "1500us", util.FmtDuration(1500*time.Microsecond))
}

func TestDurWrap(t *testing.T) {
	var d util.DurWrap
	require.NoError(t, d.UnmarshalText([]byte("5s")))
	assert.Equal(t, 5*time.Second, d.Duration)
	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "5s", string(text))
	assert.Error(t, d.Set("five"))
}
