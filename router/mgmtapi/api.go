// Copyright 2021 Anapaya Systems
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

// Package mgmtapi implements the http status API of the router.
package mgmtapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/pelletier/go-toml/v2"

	"github.com/scionproto/staticrouter/pkg/log"
	"github.com/scionproto/staticrouter/router/config"
	"github.com/scionproto/staticrouter/router/control"
)

// Server implements the http status API of the router.
type Server struct {
	Config   http.HandlerFunc
	Info     http.HandlerFunc
	LogLevel http.HandlerFunc
	Router   control.ObservableRouter
}

// Handler returns the API of s under baseURL, with CORS enabled for all origins.
func Handler(s *Server, baseURL string) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
	}))
	r.Route(baseURL, func(r chi.Router) {
		r.Get("/routes", s.GetRoutes)
		r.Get("/counters", s.GetCounters)
		r.Get("/config", s.GetConfig)
		r.Get("/info", s.GetInfo)
		r.Get("/log/level", s.GetLogLevel)
		r.Put("/log/level", s.SetLogLevel)
	})
	return r
}

// GetConfig is an indirection to the http handler.
func (s *Server) GetConfig(w http.ResponseWriter, r *http.Request) {
	s.Config(w, r)
}

// GetInfo is an indirection to the http handler.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.Info(w, r)
}

// GetLogLevel is an indirection to the http handler.
func (s *Server) GetLogLevel(w http.ResponseWriter, r *http.Request) {
	s.LogLevel(w, r)
}

// SetLogLevel is an indirection to the http handler.
func (s *Server) SetLogLevel(w http.ResponseWriter, r *http.Request) {
	s.LogLevel(w, r)
}

// GetRoutes lists the route table in table order.
func (s *Server) GetRoutes(w http.ResponseWriter, r *http.Request) {
	routes := s.Router.ListRoutes()
	rep := RoutesResponse{Routes: make([]Route, 0, len(routes))}
	for i, route := range routes {
		rep.Routes = append(rep.Routes, Route{
			Address:    config.FormatAddress(route.Address),
			Egress:     route.Egress,
			EgressType: route.Type,
			Shadowed:   route.Shadowed,
			TableIndex: i,
		})
	}
	writeJSON(w, rep)
}

// GetCounters returns the router counters.
func (s *Server) GetCounters(w http.ResponseWriter, r *http.Request) {
	c := s.Router.Counters()
	writeJSON(w, CountersResponse{
		ParserErrors:   c.ParserErrors,
		RouteErrors:    c.RouteErrors,
		EgressErrors:   c.EgressErrors,
		DroppedPackets: c.DroppedPackets,
	})
}

// ConfigHandler returns a handler that writes cfg as TOML.
func ConfigHandler(cfg any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := toml.Marshal(cfg)
		if err != nil {
			ErrorResponse(w, Problem{
				Detail: StringRef(err.Error()),
				Status: http.StatusInternalServerError,
				Title:  "unable to marshal config",
				Type:   StringRef(InternalError),
			})
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write(raw)
	}
}

// InfoHandler returns a handler that describes the running process.
func InfoHandler(id string) http.HandlerFunc {
	start := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		version := "(devel)"
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
			version = info.Main.Version
		}
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "id: %s\nversion: %s\nuptime: %s\n",
			id, version, time.Since(start).Round(time.Second))
	}
}

// LogLevelHandler reads the console log level on GET and changes it on PUT.
func LogLevelHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPut {
		var body LogLevel
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			ErrorResponse(w, Problem{
				Detail: StringRef(err.Error()),
				Status: http.StatusBadRequest,
				Title:  "malformed request body",
				Type:   StringRef(BadRequest),
			})
			return
		}
		if err := log.SetLevel(body.Level); err != nil {
			ErrorResponse(w, Problem{
				Detail: StringRef(err.Error()),
				Status: http.StatusBadRequest,
				Title:  "invalid log level",
				Type:   StringRef(BadRequest),
			})
			return
		}
		log.Info("Console log level changed", "level", body.Level)
	}
	writeJSON(w, LogLevel{Level: log.ConsoleLevel()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		ErrorResponse(w, Problem{
			Detail: StringRef(err.Error()),
			Status: http.StatusInternalServerError,
			Title:  "unable to marshal response",
			Type:   StringRef(InternalError),
		})
	}
}

// ErrorResponse creates a detailed error response.
func ErrorResponse(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	// no point in catching error here, there is nothing we can do about it anymore.
	_ = enc.Encode(p)
}
