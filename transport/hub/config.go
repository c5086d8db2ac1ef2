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

package hub

import (
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/actornet/internal/validation"
	"github.com/tochemey/actornet/log"
	actormetric "github.com/tochemey/actornet/metric"
	"github.com/tochemey/actornet/serializer"
)

// Config defines the hub configuration
type Config struct {
	line       Line
	serializer serializer.Serializer
	logger     log.Logger
	meter      metric.Meter
}

var _ validation.Validator = (*Config)(nil)

// NewConfig creates a hub configuration. Without options the hub uses a
// PerfectLine, a CBORSerializer, the default logger and the global meter.
func NewConfig(opts ...Option) *Config {
	config := &Config{
		line:       PerfectLine{},
		serializer: serializer.NewCBORSerializer(),
		logger:     log.DefaultLogger,
		meter:      actormetric.DefaultMeter(),
	}

	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

// Line returns the simulated line
func (x *Config) Line() Line {
	return x.line
}

// Serializer returns the payload serializer
func (x *Config) Serializer() serializer.Serializer {
	return x.serializer
}

// Logger returns the logger
func (x *Config) Logger() log.Logger {
	return x.logger
}

// Meter returns the meter
func (x *Config) Meter() metric.Meter {
	return x.meter
}

// Validate checks the configuration
func (x *Config) Validate() error {
	return validation.
		New(validation.FailFast()).
		AddAssertion(x.line != nil, "line is required").
		AddAssertion(x.serializer != nil, "serializer is required").
		AddAssertion(x.logger != nil, "logger is required").
		AddAssertion(x.meter != nil, "meter is required").
		Validate()
}

// RandomLineConfig defines the fault model of a RandomLine.
// Rates are probabilities in [0, 1].
type RandomLineConfig struct {
	dropRate      float64
	duplicateRate float64
	corruptRate   float64
	minDelay      time.Duration
	maxDelay      time.Duration
	seed          uint64
}

var _ validation.Validator = (*RandomLineConfig)(nil)

// NewRandomLineConfig creates a RandomLineConfig with the given seed and no fault.
func NewRandomLineConfig(seed uint64, opts ...RandomLineOption) *RandomLineConfig {
	config := &RandomLineConfig{seed: seed}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// RandomLineOption configures a RandomLineConfig
type RandomLineOption func(*RandomLineConfig)

// WithDropRate sets the probability of losing a message
func WithDropRate(rate float64) RandomLineOption {
	return func(c *RandomLineConfig) { c.dropRate = rate }
}

// WithDuplicateRate sets the probability of delivering a message twice
func WithDuplicateRate(rate float64) RandomLineOption {
	return func(c *RandomLineConfig) { c.duplicateRate = rate }
}

// WithCorruptRate sets the probability of flipping one bit of a copy
func WithCorruptRate(rate float64) RandomLineOption {
	return func(c *RandomLineConfig) { c.corruptRate = rate }
}

// WithDelay sets the range the transit delay is drawn from, bounds included
func WithDelay(minDelay, maxDelay time.Duration) RandomLineOption {
	return func(c *RandomLineConfig) {
		c.minDelay = minDelay
		c.maxDelay = maxDelay
	}
}

// Validate checks the configuration
func (x *RandomLineConfig) Validate() error {
	return validation.
		New(validation.AllErrors()).
		AddAssertion(x.dropRate >= 0 && x.dropRate <= 1, "dropRate must be between 0 and 1").
		AddAssertion(x.duplicateRate >= 0 && x.duplicateRate <= 1, "duplicateRate must be between 0 and 1").
		AddAssertion(x.corruptRate >= 0 && x.corruptRate <= 1, "corruptRate must be between 0 and 1").
		AddValidator(validation.NewNonNegativeDurationValidator("minDelay", x.minDelay)).
		AddAssertion(x.maxDelay >= x.minDelay, "maxDelay must not be less than minDelay").
		Validate()
}
