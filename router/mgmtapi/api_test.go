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

package mgmtapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scionproto/staticrouter/pkg/log"
	"github.com/scionproto/staticrouter/router/config"
	"github.com/scionproto/staticrouter/router/control"
	"github.com/scionproto/staticrouter/router/mgmtapi"
)

type fakeRouter struct {
	routes   []control.RouteInfo
	counters control.Counters
}

func (f fakeRouter) ListRoutes() []control.RouteInfo { return f.routes }
func (f fakeRouter) Counters() control.Counters      { return f.counters }

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.RouterConfig{Routes: []config.RouteConfig{{Address: "0x1", Egress: "a"}}}
	s := &mgmtapi.Server{
		Config:   mgmtapi.ConfigHandler(cfg),
		Info:     mgmtapi.InfoHandler("router-1"),
		LogLevel: mgmtapi.LogLevelHandler,
		Router: fakeRouter{
			routes: []control.RouteInfo{
				{Address: 0x0a000001, Egress: "a", Type: config.EgressUDP},
				{Address: 2, Egress: "b", Type: config.EgressQueue},
				{Address: 0x0a000001, Egress: "c", Type: config.EgressDiscard, Shadowed: true},
			},
			counters: control.Counters{
				ParserErrors:   1,
				RouteErrors:    2,
				EgressErrors:   3,
				DroppedPackets: 6,
			},
		},
	}
	srv := httptest.NewServer(mgmtapi.Handler(s, "/api/v1"))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	rsp, err := http.Get(url)
	require.NoError(t, err)
	defer rsp.Body.Close()
	body, err := io.ReadAll(rsp.Body)
	require.NoError(t, err)
	return rsp, body
}

func TestGetRoutes(t *testing.T) {
	srv := newServer(t)
	rsp, body := get(t, srv.URL+"/api/v1/routes")
	require.Equal(t, http.StatusOK, rsp.StatusCode)
	assert.Equal(t, "application/json", rsp.Header.Get("Content-Type"))

	var got mgmtapi.RoutesResponse
	require.NoError(t, json.Unmarshal(body, &got))
	want := mgmtapi.RoutesResponse{Routes: []mgmtapi.Route{
		{Address: "0x0a000001", Egress: "a", EgressType: "udp", TableIndex: 0},
		{Address: "0x00000002", Egress: "b", EgressType: "queue", TableIndex: 1},
		{Address: "0x0a000001", Egress: "c", EgressType: "discard", Shadowed: true, TableIndex: 2},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
}

func TestGetCounters(t *testing.T) {
	srv := newServer(t)
	rsp, body := get(t, srv.URL+"/api/v1/counters")
	require.Equal(t, http.StatusOK, rsp.StatusCode)
	assert.JSONEq(t, `{
		"parser_errors": 1,
		"route_errors": 2,
		"egress_errors": 3,
		"dropped_packets": 6
	}`, string(body))
}

func TestGetConfigAndInfo(t *testing.T) {
	srv := newServer(t)
	rsp, body := get(t, srv.URL+"/api/v1/config")
	require.Equal(t, http.StatusOK, rsp.StatusCode)
	assert.Contains(t, string(body), `address = '0x1'`)

	rsp, body = get(t, srv.URL+"/api/v1/info")
	require.Equal(t, http.StatusOK, rsp.StatusCode)
	assert.Contains(t, string(body), "id: router-1")
}

func TestLogLevel(t *testing.T) {
	srv := newServer(t)
	t.Cleanup(func() { _ = log.SetLevel("info") })

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/log/level",
		strings.NewReader(`{"level": "debug"}`))
	require.NoError(t, err)
	rsp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	rsp.Body.Close()
	require.Equal(t, http.StatusOK, rsp.StatusCode)

	rsp, body := get(t, srv.URL+"/api/v1/log/level")
	require.Equal(t, http.StatusOK, rsp.StatusCode)
	assert.JSONEq(t, `{"level": "debug"}`, string(body))

	req, err = http.NewRequest(http.MethodPut, srv.URL+"/api/v1/log/level",
		strings.NewReader(`{"level": "loud"}`))
	require.NoError(t, err)
	rsp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer rsp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, rsp.StatusCode)
	assert.Equal(t, "application/problem+json", rsp.Header.Get("Content-Type"))
	var p mgmtapi.Problem
	require.NoError(t, json.NewDecoder(rsp.Body).Decode(&p))
	assert.Equal(t, "invalid log level", p.Title)
}

func TestCORS(t *testing.T) {
	srv := newServer(t)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/counters", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	rsp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer rsp.Body.Close()
	assert.Equal(t, "*", rsp.Header.Get("Access-Control-Allow-Origin"))
}

func TestUnknownPath(t *testing.T) {
	srv := newServer(t)
	rsp, _ := get(t, srv.URL+"/api/v1/interfaces")
	assert.Equal(t, http.StatusNotFound, rsp.StatusCode)
}
