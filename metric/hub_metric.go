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
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// HubMetric defines the simulated network instrumentation
type HubMetric struct {
	inFlight     metric.Int64ObservableGauge
	delivered    metric.Int64Counter
	dropped      metric.Int64Counter
	registration metric.Registration
}

// NewHubMetric creates an instance of HubMetric. inFlight is observed on every collection.
func NewHubMetric(meter metric.Meter, inFlight func() int64) (*HubMetric, error) {
	hubMetric := new(HubMetric)
	var err error

	if hubMetric.inFlight, err = meter.Int64ObservableGauge(
		"hub_in_flight_messages",
		metric.WithDescription("Number of messages travelling through the simulated network"),
	); err != nil {
		return nil, fmt.Errorf("failed to create inFlight instrument, %w", err)
	}

	if hubMetric.delivered, err = meter.Int64Counter(
		"hub_delivered_messages",
		metric.WithDescription("Total number of messages handed to a joined endpoint"),
	); err != nil {
		return nil, fmt.Errorf("failed to create delivered instrument, %w", err)
	}

	if hubMetric.dropped, err = meter.Int64Counter(
		"hub_dropped_messages",
		metric.WithDescription("Total number of messages lost by the line or sent to unreachable addresses"),
	); err != nil {
		return nil, fmt.Errorf("failed to create dropped instrument, %w", err)
	}

	hubMetric.registration, err = meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		observer.ObserveInt64(hubMetric.inFlight, inFlight())
		return nil
	}, hubMetric.inFlight)
	if err != nil {
		return nil, fmt.Errorf("failed to register hub metrics callback, %w", err)
	}

	return hubMetric, nil
}

// InFlight returns the in-flight messages gauge
func (x *HubMetric) InFlight() metric.Int64ObservableGauge {
	return x.inFlight
}

// Delivered returns the delivered messages counter
func (x *HubMetric) Delivered() metric.Int64Counter {
	return x.delivered
}

// Dropped returns the dropped messages counter
func (x *HubMetric) Dropped() metric.Int64Counter {
	return x.dropped
}

// Unregister stops observing the hub.
func (x *HubMetric) Unregister() error {
	return x.registration.Unregister()
}
