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

// Package hub simulates a network inside one process.
//
// Peers join the hub with an address and an endpoint. Sent messages go
// through a Line that decides how many copies reach the wire and when each
// arrives; in-flight copies wait in a priority queue ordered by arrival time
// and are routed, once due, to the endpoint whose address is the longest
// prefix of the destination. Messages to addresses nobody joined are
// dropped without error.
//
// Join, Leave and Send are safe for concurrent use. Step must be called from
// a single goroutine, typically through transport.Run.
package hub

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Workiva/go-datastructures/queue"
	"go.uber.org/atomic"

	"github.com/tochemey/actornet/address"
	"github.com/tochemey/actornet/errors"
	"github.com/tochemey/actornet/message"
	actormetric "github.com/tochemey/actornet/metric"
	"github.com/tochemey/actornet/transport"
)

type commandKind int

const (
	joinCommand commandKind = iota
	leaveCommand
	sendCommand
)

type command struct {
	kind        commandKind
	address     address.Address
	endpoint    transport.Endpoint
	destination address.Address
	payload     []byte
}

// inFlight orders transit copies by arrival time then by enqueue order.
type inFlight struct {
	transit TransitMessage
	seq     uint64
}

var _ queue.Item = (*inFlight)(nil)

func (x *inFlight) Compare(other queue.Item) int {
	o := other.(*inFlight)
	switch {
	case x.transit.ArriveAt.Before(o.transit.ArriveAt):
		return -1
	case x.transit.ArriveAt.After(o.transit.ArriveAt):
		return 1
	case x.seq < o.seq:
		return -1
	case x.seq > o.seq:
		return 1
	default:
		return 0
	}
}

// Hub is the simulated network.
type Hub struct {
	config *Config

	mu       sync.Mutex
	commands []command
	wake     chan struct{}
	closed   atomic.Bool

	// owned by Step
	endpoints map[string]transport.Endpoint
	pending   *queue.PriorityQueue
	seq       uint64

	inFlightCount atomic.Int64
	metric        *actormetric.HubMetric
}

var (
	_ transport.Stepper = (*Hub)(nil)
	_ transport.Sender  = (*Hub)(nil)
)

// New creates a Hub.
func New(config *Config) (*Hub, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	hub := &Hub{
		config:    config,
		wake:      make(chan struct{}, 1),
		endpoints: make(map[string]transport.Endpoint),
		pending:   queue.NewPriorityQueue(64, true),
	}

	hubMetric, err := actormetric.NewHubMetric(config.Meter(), hub.inFlightCount.Load)
	if err != nil {
		return nil, err
	}
	hub.metric = hubMetric
	return hub, nil
}

// Join routes messages addressed under addr to endpoint. Joining an address
// again replaces its endpoint.
func (h *Hub) Join(addr address.Address, endpoint transport.Endpoint) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	return h.enqueue(command{kind: joinCommand, address: addr, endpoint: endpoint})
}

// Leave stops routing messages to addr. Copies still in flight are dropped on arrival.
func (h *Hub) Leave(addr address.Address) error {
	return h.enqueue(command{kind: leaveCommand, address: addr})
}

// Send serializes the payload of msg and hands it to the line on the next step.
func (h *Hub) Send(msg message.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	payload, err := h.config.Serializer().Serialize(msg.Payload)
	if err != nil {
		return fmt.Errorf("failed to serialize payload for %s: %w", msg.Destination, err)
	}

	return h.enqueue(command{
		kind:        sendCommand,
		address:     msg.Source,
		destination: msg.Destination,
		payload:     payload,
	})
}

// Wake implements transport.Stepper.
func (h *Hub) Wake() <-chan struct{} {
	return h.wake
}

// InFlight returns the number of copies waiting for their arrival time.
func (h *Hub) InFlight() int64 {
	return h.inFlightCount.Load()
}

// Step applies queued commands, delivers every copy due at now and returns
// the time until the next arrival.
func (h *Hub) Step(now time.Time) (time.Duration, error) {
	if h.closed.Load() {
		return 0, errors.ErrClosed
	}

	h.mu.Lock()
	commands := h.commands
	h.commands = nil
	h.mu.Unlock()

	for _, cmd := range commands {
		h.apply(now, cmd)
	}

	var due []TransitMessage
	for {
		head, ok := h.pending.Peek().(*inFlight)
		if !ok || head.transit.ArriveAt.After(now) {
			break
		}
		items, err := h.pending.Get(1)
		if err != nil {
			return 0, errors.ErrClosed
		}
		due = append(due, items[0].(*inFlight).transit)
	}
	h.inFlightCount.Store(int64(h.pending.Len()))

	if len(due) > 0 {
		for _, arrival := range h.config.Line().Arrive(now, due) {
			h.route(arrival)
		}
	}

	head, ok := h.pending.Peek().(*inFlight)
	if !ok {
		return transport.NoDeadline, nil
	}
	return max(0, head.transit.ArriveAt.Sub(now)), nil
}

// Close stops the hub. In-flight copies are discarded. Close is idempotent.
func (h *Hub) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}
	h.pending.Dispose()
	h.inFlightCount.Store(0)
	transport.Notify(h.wake)
	return h.metric.Unregister()
}

func (h *Hub) enqueue(cmd command) error {
	if h.closed.Load() {
		return errors.ErrClosed
	}

	h.mu.Lock()
	h.commands = append(h.commands, cmd)
	h.mu.Unlock()

	transport.Notify(h.wake)
	return nil
}

func (h *Hub) apply(now time.Time, cmd command) {
	logger := h.config.Logger()
	switch cmd.kind {
	case joinCommand:
		h.endpoints[cmd.address.String()] = cmd.endpoint
		logger.Debugf("hub: %s joined", cmd.address)
	case leaveCommand:
		delete(h.endpoints, cmd.address.String())
		logger.Debugf("hub: %s left", cmd.address)
	case sendCommand:
		transits := h.config.Line().Depart(now, cmd.address, cmd.destination, cmd.payload)
		if len(transits) == 0 {
			h.metric.Dropped().Add(context.Background(), 1)
			logger.Debugf("hub: line dropped message from %s to %s", cmd.address, cmd.destination)
			return
		}
		for _, transit := range transits {
			h.seq++
			_ = h.pending.Put(&inFlight{transit: transit, seq: h.seq})
		}
	}
}

func (h *Hub) route(arrival ArriveMessage) {
	logger := h.config.Logger()
	endpoint, ok := h.lookup(arrival.Destination)
	if !ok {
		h.metric.Dropped().Add(context.Background(), 1)
		logger.Debugf("hub: no endpoint for %s, message dropped", arrival.Destination)
		return
	}

	payload, err := h.config.Serializer().Deserialize(arrival.Payload)
	if err != nil {
		h.metric.Dropped().Add(context.Background(), 1)
		logger.Warnf("hub: dropping unreadable message from %s to %s: %v", arrival.Source, arrival.Destination, err)
		return
	}

	if err := endpoint.Deliver(message.New(arrival.Source, arrival.Destination, payload)); err != nil {
		logger.Warnf("hub: endpoint rejected message for %s: %v", arrival.Destination, err)
		return
	}
	h.metric.Delivered().Add(context.Background(), 1)
}

// lookup returns the endpoint joined under the longest prefix of addr.
func (h *Hub) lookup(addr address.Address) (transport.Endpoint, bool) {
	for n := addr.Size(); n > 0; n-- {
		if endpoint, ok := h.endpoints[addr.Prefix(n).String()]; ok {
			return endpoint, true
		}
	}
	return nil, false
}
