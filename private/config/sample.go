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

package config

import (
	"fmt"
	"io"
	"strings"
)

// CtxMap contains the context for sample generation.
type CtxMap map[string]string

// WriteSample writes the samples of all samplers to dst, in order. The sample of a
// TableSampler is preceded by its table header and indented. It panics if writing fails.
func WriteSample(dst io.Writer, path Path, ctx CtxMap, samplers ...Sampler) {
	for _, sampler := range samplers {
		var b strings.Builder
		ts, ok := sampler.(TableSampler)
		if !ok {
			sampler.Sample(&b, path, ctx)
			WriteString(dst, b.String())
			continue
		}
		p := path.Extend(ts.ConfigName())
		ts.Sample(&b, p, ctx)
		WriteString(dst, "\n["+strings.Join(p, ".")+"]")
		WriteString(dst, indent(b.String()))
	}
}

// WriteString writes s to dst. It panics if writing fails.
func WriteString(dst io.Writer, s string) {
	if _, err := io.WriteString(dst, s); err != nil {
		panic(fmt.Sprintf("Unable to write sample err=%s", err))
	}
}

// indent prefixes every non-empty line of s with four spaces. Every line of the result,
// including the last, ends with a newline.
func indent(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimSuffix(s, "\n"), "\n") {
		if line != "" {
			b.WriteString("    ")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
