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

package app_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scionproto/staticrouter/private/app"
)

func TestCleanup(t *testing.T) {
	var order []int
	var c app.Cleanup
	c.Add(func() error { order = append(order, 1); return nil })
	c.Add(func() error { order = append(order, 2); return errors.New("fail") })
	c.Add(func() error { order = append(order, 3); return nil })

	err := c.Do()
	assert.Error(t, err)
	assert.ErrorContains(t, err, "fail")
	assert.Equal(t, []int{3, 2, 1}, order)

	// Functions are only run once.
	assert.NoError(t, c.Do())
	assert.Len(t, order, 3)
}
