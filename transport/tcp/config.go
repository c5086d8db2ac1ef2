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

package tcp

import (
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/actornet/address"
	"github.com/tochemey/actornet/filter"
	"github.com/tochemey/actornet/internal/validation"
	"github.com/tochemey/actornet/log"
	actormetric "github.com/tochemey/actornet/metric"
	"github.com/tochemey/actornet/serializer"
)

// DefaultPrefix is the namespace of TCP addresses when none is configured.
var DefaultPrefix = address.New("tcp")

// Config defines the TCP transport configuration
type Config struct {
	listenAddress   string
	maxMessageBytes int
	idleTimeout     time.Duration
	prefix          address.Address
	serializer      serializer.Serializer
	incoming        filter.Filter
	outgoing        filter.Filter
	logger          log.Logger
	meter           metric.Meter
}

var _ validation.Validator = (*Config)(nil)

// NewConfig creates a TCP transport configuration.
//
// listenAddress is the host:port to bind, port 0 picks a free port.
// maxMessageBytes bounds a single framed message in both directions, zero
// means no bound. idleTimeout closes a connection that made no progress
// for that long, zero disables it.
func NewConfig(listenAddress string, maxMessageBytes int, idleTimeout time.Duration, opts ...Option) *Config {
	config := &Config{
		listenAddress:   listenAddress,
		maxMessageBytes: maxMessageBytes,
		idleTimeout:     idleTimeout,
		prefix:          DefaultPrefix,
		serializer:      serializer.NewCBORSerializer(),
		incoming:        filter.Identity,
		outgoing:        filter.Identity,
		logger:          log.DefaultLogger,
		meter:           actormetric.DefaultMeter(),
	}

	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

// ListenAddress returns the bind address
func (x *Config) ListenAddress() string {
	return x.listenAddress
}

// MaxMessageBytes returns the maximum size of a framed message
func (x *Config) MaxMessageBytes() int {
	return x.maxMessageBytes
}

// IdleTimeout returns the connection idle timeout
func (x *Config) IdleTimeout() time.Duration {
	return x.idleTimeout
}

// Prefix returns the namespace of TCP addresses
func (x *Config) Prefix() address.Address {
	return x.prefix
}

// Serializer returns the payload serializer
func (x *Config) Serializer() serializer.Serializer {
	return x.serializer
}

// IncomingFilter returns the filter applied to received bytes
func (x *Config) IncomingFilter() filter.Filter {
	return x.incoming
}

// OutgoingFilter returns the filter applied to sent bytes
func (x *Config) OutgoingFilter() filter.Filter {
	return x.outgoing
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
		New(validation.AllErrors()).
		AddValidator(validation.NewListenAddressValidator("listenAddress", x.listenAddress)).
		AddAssertion(x.maxMessageBytes >= 0, "maxMessageBytes must not be negative").
		AddValidator(validation.NewNonNegativeDurationValidator("idleTimeout", x.idleTimeout)).
		AddValidator(x.prefix).
		AddAssertion(x.serializer != nil, "serializer is required").
		AddAssertion(x.incoming != nil, "incoming filter is required").
		AddAssertion(x.outgoing != nil, "outgoing filter is required").
		AddAssertion(x.logger != nil, "logger is required").
		AddAssertion(x.meter != nil, "meter is required").
		Validate()
}
