// Copyright 2025 SCION Association
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

// Package app contains helpers shared by the applications.
package app

import (
	"sync"

	"github.com/scionproto/staticrouter/pkg/private/serrors"
)

// Cleanup collects cleanup functions and runs them in reverse order of registration.
type Cleanup struct {
	mtx   sync.Mutex
	funcs []func() error
}

// Add registers f to be run by Do.
func (c *Cleanup) Add(f func() error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.funcs = append(c.funcs, f)
}

// Do runs all registered functions, the last registered first, and forgets them. All of them
// are run; the errors are collected.
func (c *Cleanup) Do() error {
	c.mtx.Lock()
	funcs := c.funcs
	c.funcs = nil
	c.mtx.Unlock()

	var errs serrors.List
	for i := len(funcs) - 1; i >= 0; i-- {
		if err := funcs[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errs.ToError()
}
