// Copyright 2017 ETH Zurich
// Copyright 2018 ETH Zurich, Anapaya Systems
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

// Package prom contains some utility functions for dealing with prometheus
// metrics.
package prom

import (
	"runtime/debug"

	"github.com/prometheus/client_golang/prometheus"
)

// Common label names.
const (
	// LabelResult is the label for result classifications.
	LabelResult = "result"
	// LabelStatus is the label for status classifications.
	LabelStatus = "status"
	// LabelEgress is the label for the name of an egress.
	LabelEgress = "egress"
)

// Common result values.
const (
	// Success is no error.
	Success = "ok_success"
	// ErrNetwork is used for errors when sending something over the network.
	ErrNetwork = "err_network"
)

// Labels allows to safely pass label values into prometheus.
type Labels interface {
	Labels() []string
	Values() []string
}

// ExportElementID exports the element ID as configured in the config file.
func ExportElementID(reg prometheus.Registerer, id string) {
	g := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "router_elem_id",
			Help: "The element ID from the config file",
		},
		[]string{"cfg"},
	)
	SafeRegister(reg, g).(*prometheus.GaugeVec).WithLabelValues(id).Set(1)
}

// ExportBuildInfo exports the module version and the Go version the binary was built with.
func ExportBuildInfo(reg prometheus.Registerer) {
	version, goVersion := "(devel)", "unknown"
	if info, ok := debug.ReadBuildInfo(); ok {
		version, goVersion = info.Main.Version, info.GoVersion
	}
	g := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "router_build_info",
			Help: "Build information of the running binary",
		},
		[]string{"version", "goversion"},
	)
	SafeRegister(reg, g).(*prometheus.GaugeVec).WithLabelValues(version, goVersion).Set(1)
}

// SafeRegister registers c with reg and returns the registered collector. If an equal
// collector was already registered, that one is returned. In case of any other error this
// method panics (as MustRegister).
func SafeRegister(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}
