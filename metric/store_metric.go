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

// StoreSource exposes the counts observed by StoreMetric.
type StoreSource interface {
	StoredMessageCount() int64
	ActorCount() int64
	ProcessingActorCount() int64
	ReadyActorCount() int64
}

// StoreMetric defines the store instrumentation
type StoreMetric struct {
	storedMessages metric.Int64ObservableGauge
	actors         metric.Int64ObservableGauge
	processing     metric.Int64ObservableGauge
	ready          metric.Int64ObservableGauge
	registration   metric.Registration
}

// NewStoreMetric creates the store instruments and observes source on every collection.
func NewStoreMetric(meter metric.Meter, source StoreSource) (*StoreMetric, error) {
	storeMetric := new(StoreMetric)
	var err error

	if storeMetric.storedMessages, err = meter.Int64ObservableGauge(
		"store_stored_messages",
		metric.WithDescription("Number of messages waiting in actor queues"),
	); err != nil {
		return nil, fmt.Errorf("failed to create storedMessages instrument, %w", err)
	}

	if storeMetric.actors, err = meter.Int64ObservableGauge(
		"store_actors",
		metric.WithDescription("Number of actors held by the store"),
	); err != nil {
		return nil, fmt.Errorf("failed to create actors instrument, %w", err)
	}

	if storeMetric.processing, err = meter.Int64ObservableGauge(
		"store_processing_actors",
		metric.WithDescription("Number of actors currently checked out for processing"),
	); err != nil {
		return nil, fmt.Errorf("failed to create processing instrument, %w", err)
	}

	if storeMetric.ready, err = meter.Int64ObservableGauge(
		"store_ready_actors",
		metric.WithDescription("Number of actors with pending messages waiting to be taken"),
	); err != nil {
		return nil, fmt.Errorf("failed to create ready instrument, %w", err)
	}

	storeMetric.registration, err = meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		observer.ObserveInt64(storeMetric.storedMessages, source.StoredMessageCount())
		observer.ObserveInt64(storeMetric.actors, source.ActorCount())
		observer.ObserveInt64(storeMetric.processing, source.ProcessingActorCount())
		observer.ObserveInt64(storeMetric.ready, source.ReadyActorCount())
		return nil
	}, storeMetric.storedMessages, storeMetric.actors, storeMetric.processing, storeMetric.ready)
	if err != nil {
		return nil, fmt.Errorf("failed to register store metrics callback, %w", err)
	}

	return storeMetric, nil
}

// StoredMessages returns the stored messages gauge
func (x *StoreMetric) StoredMessages() metric.Int64ObservableGauge {
	return x.storedMessages
}

// Actors returns the actors gauge
func (x *StoreMetric) Actors() metric.Int64ObservableGauge {
	return x.actors
}

// Processing returns the processing actors gauge
func (x *StoreMetric) Processing() metric.Int64ObservableGauge {
	return x.processing
}

// Ready returns the ready actors gauge
func (x *StoreMetric) Ready() metric.Int64ObservableGauge {
	return x.ready
}

// Unregister stops observing the store.
func (x *StoreMetric) Unregister() error {
	return x.registration.Unregister()
}
