// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListenAddressValidator(t *testing.T) {
	t.Run("With host and port", func(t *testing.T) {
		assert.NoError(t, NewListenAddressValidator("listenAddress", "127.0.0.1:3222").Validate())
		assert.NoError(t, NewListenAddressValidator("listenAddress", " localhost:80 ").Validate())
	})
	t.Run("With system chosen port", func(t *testing.T) {
		assert.NoError(t, NewListenAddressValidator("listenAddress", "127.0.0.1:0").Validate())
	})
	t.Run("With port out of range", func(t *testing.T) {
		assert.EqualError(t, NewListenAddressValidator("listenAddress", "127.0.0.1:-1").Validate(),
			`the [listenAddress] has an invalid port "-1"`)
		assert.Error(t, NewListenAddressValidator("listenAddress", "127.0.0.1:65536").Validate())
		assert.Error(t, NewListenAddressValidator("listenAddress", "127.0.0.1:http").Validate())
	})
	t.Run("With missing host", func(t *testing.T) {
		assert.EqualError(t, NewListenAddressValidator("listenAddress", ":3222").Validate(),
			`the [listenAddress] has no host: ":3222"`)
	})
	t.Run("With missing port", func(t *testing.T) {
		assert.Error(t, NewListenAddressValidator("listenAddress", "127.0.0.1").Validate())
	})
}
