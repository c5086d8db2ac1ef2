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

package runner

import (
	"github.com/tochemey/actornet/checkpoint"
	"github.com/tochemey/actornet/log"
	"github.com/tochemey/actornet/serializer"
	"github.com/tochemey/actornet/transport"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(*Config)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(config *Config)

// Apply implements Option.
func (f OptionFunc) Apply(c *Config) {
	f(c)
}

// WithWorkers sets the number of workers taking work from the store
func WithWorkers(workers int) Option {
	return OptionFunc(func(config *Config) {
		config.workers = workers
	})
}

// WithSender sets where messages addressed outside of the store go.
// Without a sender those messages are dropped.
func WithSender(sender transport.Sender) Option {
	return OptionFunc(func(config *Config) {
		config.sender = sender
	})
}

// WithCheckpointer persists every checkpoint update
func WithCheckpointer(checkpointer checkpoint.Checkpointer) Option {
	return OptionFunc(func(config *Config) {
		config.checkpointer = checkpointer
	})
}

// WithSerializer sets the serializer of checkpointed states
func WithSerializer(s serializer.Serializer) Option {
	return OptionFunc(func(config *Config) {
		config.serializer = s
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(config *Config) {
		config.logger = logger
	})
}
