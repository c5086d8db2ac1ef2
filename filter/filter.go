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

// Package filter transforms wire bytes on their way out of or into a transport.
//
// Outgoing filters run on the serialized envelope before it is framed.
// Incoming filters run on the received body before it is decoded. The
// address passed along is the destination for outgoing bytes and the
// remote source for incoming ones.
package filter

import (
	"github.com/tochemey/actornet/address"
	"github.com/tochemey/actornet/errors"
)

// Filter transforms data exchanged with addr.
type Filter interface {
	Filter(addr address.Address, data []byte) ([]byte, error)
}

// Func adapts a function to Filter.
type Func func(addr address.Address, data []byte) ([]byte, error)

// Filter implements Filter.
func (f Func) Filter(addr address.Address, data []byte) ([]byte, error) {
	return f(addr, data)
}

// Identity returns data unchanged.
var Identity Filter = Func(func(_ address.Address, data []byte) ([]byte, error) {
	return data, nil
})

// Chain applies filters in order. A nil entry is skipped.
type Chain []Filter

var _ Filter = Chain(nil)

// Filter implements Filter.
func (c Chain) Filter(addr address.Address, data []byte) ([]byte, error) {
	var err error
	for _, f := range c {
		if f == nil {
			continue
		}
		if data, err = f.Filter(addr, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// NewSelfBlock returns a Filter rejecting bytes exchanged with self or any
// address below it.
func NewSelfBlock(self address.Address) Filter {
	return Func(func(addr address.Address, data []byte) ([]byte, error) {
		if self.IsPrefixOf(addr) {
			return nil, errors.ErrMessageRejected
		}
		return data, nil
	})
}
