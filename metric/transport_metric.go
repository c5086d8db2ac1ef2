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

package metric

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// TransportMetric defines the TCP transport instrumentation
type TransportMetric struct {
	connectionsOpened metric.Int64Counter
	connectionsKilled metric.Int64Counter
	messagesSent      metric.Int64Counter
	messagesReceived  metric.Int64Counter
	messagesDropped   metric.Int64Counter
}

// NewTransportMetric creates an instance of TransportMetric
func NewTransportMetric(meter metric.Meter) (*TransportMetric, error) {
	transportMetric := new(TransportMetric)
	var err error

	if transportMetric.connectionsOpened, err = meter.Int64Counter(
		"transport_connections_opened",
		metric.WithDescription("Total number of connections accepted or dialed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create connectionsOpened instrument, %w", err)
	}

	if transportMetric.connectionsKilled, err = meter.Int64Counter(
		"transport_connections_killed",
		metric.WithDescription("Total number of connections closed on failure or idle timeout"),
	); err != nil {
		return nil, fmt.Errorf("failed to create connectionsKilled instrument, %w", err)
	}

	if transportMetric.messagesSent, err = meter.Int64Counter(
		"transport_messages_sent",
		metric.WithDescription("Total number of messages acknowledged by the remote end"),
	); err != nil {
		return nil, fmt.Errorf("failed to create messagesSent instrument, %w", err)
	}

	if transportMetric.messagesReceived, err = meter.Int64Counter(
		"transport_messages_received",
		metric.WithDescription("Total number of messages delivered to the endpoint"),
	); err != nil {
		return nil, fmt.Errorf("failed to create messagesReceived instrument, %w", err)
	}

	if transportMetric.messagesDropped, err = meter.Int64Counter(
		"transport_messages_dropped",
		metric.WithDescription("Total number of messages that could not be sent or delivered"),
	); err != nil {
		return nil, fmt.Errorf("failed to create messagesDropped instrument, %w", err)
	}

	return transportMetric, nil
}

// ConnectionsOpened returns the opened connections counter
func (x *TransportMetric) ConnectionsOpened() metric.Int64Counter {
	return x.connectionsOpened
}

// ConnectionsKilled returns the killed connections counter
func (x *TransportMetric) ConnectionsKilled() metric.Int64Counter {
	return x.connectionsKilled
}

// MessagesSent returns the sent messages counter
func (x *TransportMetric) MessagesSent() metric.Int64Counter {
	return x.messagesSent
}

// MessagesReceived returns the received messages counter
func (x *TransportMetric) MessagesReceived() metric.Int64Counter {
	return x.messagesReceived
}

// MessagesDropped returns the dropped messages counter
func (x *TransportMetric) MessagesDropped() metric.Int64Counter {
	return x.messagesDropped
}
