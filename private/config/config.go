// Copyright 2019 Anapaya Systems
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

// Package config provides a unified pattern for configuration structs.
//
// Every configuration struct implements the Config interface. InitDefaults
// recursively fills in unset fields, Validate recursively checks them, and
// Sample writes a commented TOML sample. Samples are decoded back in the unit
// tests, which keeps them consistent with the implementation.
//
// Sample is allowed to panic if writing the sample fails.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/scionproto/staticrouter/pkg/private/serrors"
)

// ID is the sample context key for the element ID.
const ID = "id"

// Config is the interface that config structs should implement to allow for
// streamlined loading, validation and sample generation.
type Config interface {
	Sampler
	Validator
	Defaulter
}

type Validator interface {
	// Validate recursively checks that all fields contain valid values.
	Validate() error
}

type Defaulter interface {
	// InitDefaults recursively initializes the default values of all
	// uninitialized fields.
	InitDefaults()
}

type Sampler interface {
	// Sample creates a sample config and writes it to dst. Ctx provides
	// additional information. Sample is allowed to panic if an error
	// occurs.
	Sample(dst io.Writer, path Path, ctx CtxMap)
}

// TableSampler is a Sampler whose sample is a TOML table.
type TableSampler interface {
	Sampler
	// ConfigName returns the name of the config block.
	ConfigName() string
}

// Path is the path of a config block from the root of the config file.
type Path []string

// Extend returns a copy of p with s appended.
func (p Path) Extend(s string) Path {
	c := append(Path(nil), p...)
	return append(c, s)
}

// NoValidator implements a Validator that accepts everything.
type NoValidator struct{}

func (NoValidator) Validate() error {
	return nil
}

// NoDefaulter implements a Defaulter without defaults.
type NoDefaulter struct{}

func (NoDefaulter) InitDefaults() {}

// ValidateAll validates all validators. The first error encountered is returned.
func ValidateAll(validators ...Validator) error {
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return serrors.Wrap("Unable to validate", err, "type", fmt.Sprintf("%T", v))
		}
	}
	return nil
}

// InitAll initializes the defaults of all defaulters.
func InitAll(defaulters ...Defaulter) {
	for _, v := range defaulters {
		v.InitDefaults()
	}
}

// Decode decodes raw TOML into cfg. Unknown keys are an error.
func Decode(raw []byte, cfg any) error {
	return toml.NewDecoder(bytes.NewReader(raw)).DisallowUnknownFields().Decode(cfg)
}

// LoadFile reads file and decodes it into cfg.
func LoadFile(file string, cfg any) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	return Decode(raw, cfg)
}

// Load decodes the file into cfg, initializes the defaults and validates the result.
func Load(file string, cfg Config) error {
	if err := LoadFile(file, cfg); err != nil {
		return serrors.Wrap("loading config", err, "file", file)
	}
	cfg.InitDefaults()
	if err := cfg.Validate(); err != nil {
		return serrors.Wrap("validating config", err, "file", file)
	}
	return nil
}
