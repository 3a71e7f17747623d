// Copyright 2020 Anapaya Systems
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

package log_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scionproto/staticrouter/pkg/log"
	"github.com/scionproto/staticrouter/pkg/log/testlog"
	"github.com/scionproto/staticrouter/private/config"
)

func TestSetup(t *testing.T) {
	testCases := map[string]struct {
		cfg       log.Config
		assertErr assert.ErrorAssertionFunc
	}{
		"defaults": {
			assertErr: assert.NoError,
		},
		"json debug": {
			cfg:       log.Config{Console: log.ConsoleConfig{Level: "debug", Format: "json"}},
			assertErr: assert.NoError,
		},
		"bad level": {
			cfg:       log.Config{Console: log.ConsoleConfig{Level: "loud"}},
			assertErr: assert.Error,
		},
		"bad format": {
			cfg:       log.Config{Console: log.ConsoleConfig{Format: "xml"}},
			assertErr: assert.Error,
		},
		"bad stacktrace level": {
			cfg:       log.Config{Console: log.ConsoleConfig{StacktraceLevel: "often"}},
			assertErr: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			tc.assertErr(t, log.Setup(tc.cfg))
		})
	}
}

func TestEntriesCounter(t *testing.T) {
	info := prometheus.NewCounter(prometheus.CounterOpts{Name: "info_entries"})
	debug := prometheus.NewCounter(prometheus.CounterOpts{Name: "debug_entries"})
	require.NoError(t, log.Setup(
		log.Config{Console: log.ConsoleConfig{Level: "info"}},
		log.WithEntriesCounter(log.EntriesCounter{Info: info, Debug: debug}),
	))
	log.Info("counted")
	log.Debug("filtered")
	assert.Equal(t, 1.0, testutil.ToFloat64(info))
	assert.Equal(t, 0.0, testutil.ToFloat64(debug))

	require.NoError(t, log.SetLevel("debug"))
	assert.Equal(t, "debug", log.ConsoleLevel())
	log.Debug("counted now")
	assert.Equal(t, 1.0, testutil.ToFloat64(debug))
}

func TestFromCtx(t *testing.T) {
	assert.NotNil(t, log.FromCtx(context.Background()))

	l := testlog.NewLogger(t)
	ctx := log.CtxWith(context.Background(), l)
	assert.Equal(t, l, log.FromCtx(ctx))

	ctx, labeled := log.WithLabels(ctx, "egress", "uplink")
	assert.Equal(t, labeled, log.FromCtx(ctx))
	labeled.Debug("hello")
}

func TestConfigSample(t *testing.T) {
	var sample bytes.Buffer
	var cfg log.Config
	cfg.Sample(&sample, nil, nil)
	assert.Contains(t, sample.String(), "[console]")

	var decoded log.Config
	require.NoError(t, config.Decode(sample.Bytes(), &decoded))
	assert.Equal(t, "info", decoded.Console.Level)
	assert.Equal(t, "human", decoded.Console.Format)
	assert.NoError(t, decoded.Validate())

	decoded.Console.Format = "xml"
	assert.Error(t, decoded.Validate())
}
