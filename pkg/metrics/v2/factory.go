// Copyright 2026 Anapaya Systems
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

// Package metrics creates prometheus collectors against a configurable registry. Production
// code uses the default registry; tests inject a fresh one so that collectors with the same
// name can be created repeatedly.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Option func(*Options)

// Options configures the metrics Factory, construct it using the ApplyOptions
// function.
type Options struct {
	registry    prometheus.Registerer
	constLabels prometheus.Labels
}

func (o Options) registerer() prometheus.Registerer {
	if o.registry != nil {
		return o.registry
	}
	return prometheus.DefaultRegisterer
}

// WithRegistry makes the factory register against registry instead of the default one.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(o *Options) {
		o.registry = registry
	}
}

// WithConstLabels adds labels to every collector created by the factory. Labels set
// explicitly in the collector options take precedence.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(o *Options) {
		o.constLabels = labels
	}
}

func ApplyOptions(options ...Option) Options {
	opts := Options{}
	for _, option := range options {
		option(&opts)
	}
	return opts
}

// Auto creates a Factory that registers with the configured registry.
func (o Options) Auto() Factory {
	return Factory{opts: o}
}

// Factory creates and registers collectors. The zero value registers with the default
// registry.
type Factory struct {
	opts Options
}

func (f Factory) labels(l prometheus.Labels) prometheus.Labels {
	if len(f.opts.constLabels) == 0 {
		return l
	}
	merged := prometheus.Labels{}
	for k, v := range f.opts.constLabels {
		merged[k] = v
	}
	for k, v := range l {
		merged[k] = v
	}
	return merged
}

func (f Factory) NewCounter(opts prometheus.CounterOpts) prometheus.Counter {
	opts.ConstLabels = f.labels(opts.ConstLabels)
	c := prometheus.NewCounter(opts)
	f.opts.registerer().MustRegister(c)
	return c
}

func (f Factory) NewCounterVec(
	opts prometheus.CounterOpts,
	labelNames []string,
) *prometheus.CounterVec {
	opts.ConstLabels = f.labels(opts.ConstLabels)
	c := prometheus.NewCounterVec(opts, labelNames)
	f.opts.registerer().MustRegister(c)
	return c
}

func (f Factory) NewCounterFunc(
	opts prometheus.CounterOpts,
	function func() float64,
) prometheus.CounterFunc {
	opts.ConstLabels = f.labels(opts.ConstLabels)
	c := prometheus.NewCounterFunc(opts, function)
	f.opts.registerer().MustRegister(c)
	return c
}

func (f Factory) NewGaugeFunc(
	opts prometheus.GaugeOpts,
	function func() float64,
) prometheus.GaugeFunc {
	opts.ConstLabels = f.labels(opts.ConstLabels)
	g := prometheus.NewGaugeFunc(opts, function)
	f.opts.registerer().MustRegister(g)
	return g
}
