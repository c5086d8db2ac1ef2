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

package store

import (
	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/actornet/address"
	"github.com/tochemey/actornet/internal/validation"
	"github.com/tochemey/actornet/log"
	actormetric "github.com/tochemey/actornet/metric"
	"github.com/tochemey/actornet/serializer"
)

// Config defines the store configuration
type Config struct {
	prefix      address.Address
	concurrency int
	serializer  serializer.Serializer
	logger      log.Logger
	clock       clock.Clock
	meter       metric.Meter
}

var _ validation.Validator = (*Config)(nil)

// NewConfig creates a store configuration. prefix is the namespace the store
// is responsible for; every actor address is prefix plus one element.
// concurrency is the number of lock regions.
func NewConfig(prefix address.Address, concurrency int, opts ...Option) *Config {
	config := &Config{
		prefix:      prefix,
		concurrency: concurrency,
		serializer:  serializer.NewCBORSerializer(),
		logger:      log.DefaultLogger,
		clock:       clock.New(),
		meter:       actormetric.DefaultMeter(),
	}

	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

// Prefix returns the address prefix
func (x *Config) Prefix() address.Address {
	return x.prefix
}

// Concurrency returns the number of lock regions
func (x *Config) Concurrency() int {
	return x.concurrency
}

// Serializer returns the state and payload serializer
func (x *Config) Serializer() serializer.Serializer {
	return x.serializer
}

// Logger returns the logger
func (x *Config) Logger() log.Logger {
	return x.logger
}

// Clock returns the time source
func (x *Config) Clock() clock.Clock {
	return x.clock
}

// Meter returns the meter
func (x *Config) Meter() metric.Meter {
	return x.meter
}

// Validate checks the configuration
func (x *Config) Validate() error {
	return validation.
		New(validation.FailFast()).
		AddValidator(x.prefix).
		AddAssertion(x.concurrency > 0, "concurrency must be greater than 0").
		AddAssertion(x.serializer != nil, "serializer is required").
		AddAssertion(x.logger != nil, "logger is required").
		AddAssertion(x.clock != nil, "clock is required").
		AddAssertion(x.meter != nil, "meter is required").
		Validate()
}
