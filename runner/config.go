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
	"runtime"

	"github.com/tochemey/actornet/checkpoint"
	"github.com/tochemey/actornet/internal/validation"
	"github.com/tochemey/actornet/log"
	"github.com/tochemey/actornet/serializer"
	"github.com/tochemey/actornet/store"
	"github.com/tochemey/actornet/transport"
)

// Config defines the runner configuration
type Config struct {
	store        *store.Store
	handler      Handler
	workers      int
	sender       transport.Sender
	checkpointer checkpoint.Checkpointer
	serializer   serializer.Serializer
	logger       log.Logger
}

var _ validation.Validator = (*Config)(nil)

// NewConfig creates a runner configuration. The runner takes work from s
// and hands it to handler on one worker per CPU unless WithWorkers is set.
func NewConfig(s *store.Store, handler Handler, opts ...Option) *Config {
	config := &Config{
		store:      s,
		handler:    handler,
		workers:    runtime.NumCPU(),
		serializer: serializer.NewCBORSerializer(),
		logger:     log.DefaultLogger,
	}

	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

// Store returns the store
func (x *Config) Store() *store.Store {
	return x.store
}

// Handler returns the actor logic
func (x *Config) Handler() Handler {
	return x.handler
}

// Workers returns the number of workers
func (x *Config) Workers() int {
	return x.workers
}

// Sender returns the sender of messages leaving the store, if any
func (x *Config) Sender() transport.Sender {
	return x.sender
}

// Checkpointer returns the checkpointer, if any
func (x *Config) Checkpointer() checkpoint.Checkpointer {
	return x.checkpointer
}

// Serializer returns the serializer of checkpointed states
func (x *Config) Serializer() serializer.Serializer {
	return x.serializer
}

// Logger returns the logger
func (x *Config) Logger() log.Logger {
	return x.logger
}

// Validate checks the configuration
func (x *Config) Validate() error {
	return validation.
		New(validation.FailFast()).
		AddAssertion(x.store != nil, "store is required").
		AddAssertion(x.handler != nil, "handler is required").
		AddAssertion(x.workers > 0, "workers must be greater than 0").
		AddAssertion(x.serializer != nil, "serializer is required").
		AddAssertion(x.logger != nil, "logger is required").
		Validate()
}
