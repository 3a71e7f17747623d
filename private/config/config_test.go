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

package config_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scionproto/staticrouter/pkg/private/serrors"
	"github.com/scionproto/staticrouter/private/config"
)

type leaf struct {
	Name string `toml:"name"`
}

func (l *leaf) Sample(dst io.Writer, _ config.Path, ctx config.CtxMap) {
	config.WriteString(dst, "\nname = \""+ctx[config.ID]+"\"\n")
}

func (l *leaf) ConfigName() string { return "leaf" }

type outer struct {
	Size int  `toml:"size"`
	Leaf leaf `toml:"leaf"`
}

func (o *outer) InitDefaults() {
	if o.Size == 0 {
		o.Size = 8
	}
}

func (o *outer) Validate() error {
	if o.Size < 0 {
		return serrors.New("negative size", "size", o.Size)
	}
	return nil
}

func (o *outer) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, "\nsize = 8\n")
	config.WriteSample(dst, path, ctx, &o.Leaf)
}

func (o *outer) ConfigName() string { return "outer" }

func TestWriteSample(t *testing.T) {
	var buf bytes.Buffer
	config.WriteSample(&buf, nil, config.CtxMap{config.ID: "x"}, &outer{})
	assert.Equal(t, "\n[outer]\n    size = 8\n\n    [outer.leaf]\n        name = \"x\"\n",
		buf.String())

	var decoded struct {
		Outer outer `toml:"outer"`
	}
	require.NoError(t, config.Decode(buf.Bytes(), &decoded))
	assert.Equal(t, 8, decoded.Outer.Size)
	assert.Equal(t, "x", decoded.Outer.Leaf.Name)
}

func TestWriteSampleWithoutTable(t *testing.T) {
	var buf bytes.Buffer
	config.WriteSample(&buf, nil, config.CtxMap{config.ID: "y"}, config.Sampler(plain{}))
	assert.Equal(t, "top = \"y\"\n", buf.String())
}

type plain struct{}

func (plain) Sample(dst io.Writer, _ config.Path, ctx config.CtxMap) {
	config.WriteString(dst, "top = \""+ctx[config.ID]+"\"\n")
}

func TestDecodeUnknownField(t *testing.T) {
	var cfg outer
	assert.Error(t, config.Decode([]byte("size = 1\ncolour = \"red\"\n"), &cfg))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write := func(name, raw string) string {
		file := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(file, []byte(raw), 0o644))
		return file
	}

	var cfg outer
	require.NoError(t, config.Load(write("ok.toml", "[leaf]\nname = \"a\"\n"), &cfg))
	assert.Equal(t, 8, cfg.Size)
	assert.Equal(t, "a", cfg.Leaf.Name)

	assert.Error(t, config.Load(write("neg.toml", "size = -1\n"), &outer{}))
	assert.Error(t, config.Load(filepath.Join(dir, "missing.toml"), &outer{}))
}

func TestValidateAll(t *testing.T) {
	assert.NoError(t, config.ValidateAll(&outer{}, config.NoValidator{}))
	assert.Error(t, config.ValidateAll(&outer{Size: -1}))
	o := &outer{}
	config.InitAll(o, config.NoDefaulter{})
	assert.Equal(t, 8, o.Size)
}
