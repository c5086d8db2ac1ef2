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

package message

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tochemey/actornet/address"
	"github.com/tochemey/actornet/errors"
)

func TestMessage(t *testing.T) {
	src := address.New("runtime", "a")
	dst := address.New("runtime", "b")

	msg := New(src, dst, "ping")
	assert.NoError(t, msg.Validate())
	assert.Equal(t, "runtime:a -> runtime:b (string)", msg.String())

	reply := msg.Reply("pong")
	assert.True(t, reply.Source.Equals(dst))
	assert.True(t, reply.Destination.Equals(src))
	assert.Equal(t, "pong", reply.Payload)

	assert.ErrorIs(t, New(address.Address{}, dst, nil).Validate(), errors.ErrInvalidAddress)
	assert.ErrorIs(t, New(src, address.Address{}, nil).Validate(), errors.ErrInvalidAddress)
}
