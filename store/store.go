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

// Package store holds actor states and their pending messages and schedules
// them for processing.
//
// The address space is split into lock regions by hashing the textual
// address. Take hands out one message at a time per actor: an actor taken
// for processing is not handed out again until its new state is given back
// with Store. Every actor registers a checkpoint; when it is not stored
// within the checkpoint timeout, Take restores the checkpointed state and
// delivers the checkpoint payload to the actor itself.
//
// The store is safe for concurrent use. Take is meant to be called from
// worker goroutines.
package store

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/zeebo/xxh3"
	"go.uber.org/atomic"

	"github.com/tochemey/actornet/address"
	"github.com/tochemey/actornet/errors"
	"github.com/tochemey/actornet/internal/queue"
	"github.com/tochemey/actornet/message"
	actormetric "github.com/tochemey/actornet/metric"
	"github.com/tochemey/actornet/transport"
)

// Store is the sharded actor store.
type Store struct {
	config  *Config
	regions []*region

	closed atomic.Bool
	done   chan struct{}

	signalMu sync.Mutex
	signal   chan struct{}

	metric *actormetric.StoreMetric
}

var (
	_ transport.Endpoint      = (*Store)(nil)
	_ actormetric.StoreSource = (*Store)(nil)
)

// New creates a Store.
func New(config *Config) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	regions := make([]*region, config.Concurrency())
	for i := range regions {
		regions[i] = newRegion()
	}

	store := &Store{
		config:  config,
		regions: regions,
		done:    make(chan struct{}),
		signal:  make(chan struct{}),
	}

	storeMetric, err := actormetric.NewStoreMetric(config.Meter(), store)
	if err != nil {
		return nil, err
	}
	store.metric = storeMetric
	return store, nil
}

// Prefix returns the namespace the store is responsible for.
func (s *Store) Prefix() address.Address {
	return s.config.Prefix()
}

// Owns reports whether addr lies in the store namespace.
func (s *Store) Owns(addr address.Address) bool {
	prefix := s.config.Prefix()
	return addr.Size() > prefix.Size() && prefix.IsPrefixOf(addr)
}

// Store saves the state of an actor and releases it from processing.
//
// The first store of an address requires a checkpoint. A store whose
// instance is older than the recorded one is ignored: a checkpoint fired
// while the actor was processing and the actor now belongs to the worker
// that received the checkpoint payload. A store of an actor handed out by
// Take whose address has since been discarded is ignored as well.
func (s *Store) Store(actor *Actor) error {
	return s.StoreWith(actor, nil)
}

// StoreWith is like Store and calls commit once the store is known to be
// accepted, before the state is applied. commit runs under the lock of the
// actor region and must not call back into the store. When commit fails
// the store is abandoned and its error returned.
func (s *Store) StoreWith(actor *Actor, commit func() error) error {
	if s.closed.Load() {
		return errors.ErrClosed
	}

	key, err := s.actorKey(actor.Address)
	if err != nil {
		return err
	}

	serializer := s.config.Serializer()
	state, err := serializer.Serialize(actor.State)
	if err != nil {
		return fmt.Errorf("failed to serialize state of %s: %w", actor.Address, err)
	}

	var checkpointPayload []byte
	if checkpoint := actor.Checkpoint; checkpoint != nil {
		if checkpoint.Timeout <= 0 || checkpoint.Payload == nil {
			return fmt.Errorf("%w: %s needs a positive timeout and a payload", errors.ErrCheckpointRequired, actor.Address)
		}
		if checkpointPayload, err = serializer.Serialize(checkpoint.Payload); err != nil {
			return fmt.Errorf("failed to serialize checkpoint payload of %s: %w", actor.Address, err)
		}
	}

	logger := s.config.Logger()
	now := s.config.Clock().Now()
	r := s.region(key)
	r.mu.Lock()

	data, ok := r.actors[key]
	switch {
	case !ok && actor.taken:
		r.mu.Unlock()
		logger.Debugf("store: ignoring state of discarded actor %s at instance %d", actor.Address, actor.Instance)
		return nil
	case !ok && actor.Checkpoint == nil:
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", errors.ErrCheckpointRequired, actor.Address)
	case ok && actor.Instance < data.instance:
		r.mu.Unlock()
		logger.Warnf("store: ignoring stale state of %s at instance %d, checkpoint instance is %d",
			actor.Address, actor.Instance, data.instance)
		return nil
	}

	if commit != nil {
		if err := commit(); err != nil {
			r.mu.Unlock()
			return err
		}
	}

	if !ok {
		data = &actorData{
			address: actor.Address,
			queue:   queue.NewFIFO[queuedMessage](),
		}
		r.actors[key] = data
	}

	data.instance = actor.Instance
	data.state = state

	if actor.Checkpoint != nil {
		data.checkpointState = state
		data.checkpointPayload = checkpointPayload
		data.checkpointTimeout = actor.Checkpoint.Timeout
		r.timeouts.Reset(key, now.Add(data.checkpointTimeout))
	} else if !r.timeouts.Contains(key) {
		_ = r.timeouts.Add(key, now.Add(data.checkpointTimeout))
	}

	r.processing.Remove(key)
	if !data.queue.IsEmpty() {
		r.available.Add(key)
	}
	r.mu.Unlock()

	s.notify()
	return nil
}

// StoreMessages appends every message to the queue of its destination actor.
// The destination actor is the store prefix plus the next element of the
// destination address. Messages outside the namespace or for unknown actors
// are dropped.
func (s *Store) StoreMessages(messages ...message.Message) error {
	if s.closed.Load() {
		return errors.ErrClosed
	}

	logger := s.config.Logger()
	prefixSize := s.config.Prefix().Size()
	stored := false

	for _, msg := range messages {
		if !s.Owns(msg.Destination) {
			logger.Debugf("store: dropping message for %s outside of %s", msg.Destination, s.config.Prefix())
			continue
		}

		payload, err := s.config.Serializer().Serialize(msg.Payload)
		if err != nil {
			logger.Warnf("store: dropping message for %s: %v", msg.Destination, err)
			continue
		}

		actorAddress := msg.Destination.Prefix(prefixSize + 1)
		key := actorAddress.String()
		r := s.region(key)

		r.mu.Lock()
		data, ok := r.actors[key]
		if !ok {
			r.mu.Unlock()
			logger.Debugf("store: dropping message for unknown actor %s", actorAddress)
			continue
		}

		data.queue.Push(queuedMessage{
			source:      msg.Source,
			destination: msg.Destination,
			payload:     payload,
		})
		r.pending++
		if !r.processing.Contains(key) {
			r.available.Add(key)
		}
		r.mu.Unlock()
		stored = true
	}

	if stored {
		s.notify()
	}
	return nil
}

// Deliver implements transport.Endpoint.
func (s *Store) Deliver(messages ...message.Message) error {
	return s.StoreMessages(messages...)
}

// Discard removes an actor, its pending messages and its checkpoint.
func (s *Store) Discard(addr address.Address) error {
	if s.closed.Load() {
		return errors.ErrClosed
	}

	key, err := s.actorKey(addr)
	if err != nil {
		return err
	}

	r := s.region(key)
	r.mu.Lock()
	r.discard(key)
	r.mu.Unlock()
	return nil
}

// Take blocks until a message is ready for an actor that is not processing,
// or a checkpoint expires, and returns the message with the actor state.
// The actor stays checked out until it is given back with Store or removed
// with Discard. Take returns ErrClosed once the store is closed.
func (s *Store) Take(ctx context.Context) (message.Message, *Actor, error) {
	clk := s.config.Clock()
	for {
		if s.closed.Load() {
			return message.Message{}, nil, errors.ErrClosed
		}

		// grab the signal before scanning so a concurrent store is not missed
		signal := s.waiter()
		now := clk.Now()

		var (
			next    = now
			hasNext bool
		)

		start := rand.IntN(len(s.regions))
		for i := range s.regions {
			r := s.regions[(start+i)%len(s.regions)]
			r.mu.Lock()
			w, deadline, ok := r.take(now)
			r.mu.Unlock()

			if w != nil {
				msg, actor, err := s.materialize(w)
				if err != nil {
					s.release(r, w.address.String())
					s.notify()
				}
				return msg, actor, err
			}
			if ok && (!hasNext || deadline.Before(next)) {
				next = deadline
				hasNext = true
			}
		}

		var (
			timer   *clock.Timer
			expired <-chan time.Time
		)
		if hasNext {
			timer = clk.Timer(next.Sub(now))
			expired = timer.C
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			return message.Message{}, nil, ctx.Err()
		case <-s.done:
			stopTimer(timer)
			return message.Message{}, nil, errors.ErrClosed
		case <-signal:
		case <-expired:
		}
		stopTimer(timer)
	}
}

// Close releases blocked Take calls. Every later operation fails with ErrClosed.
// Close is idempotent.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(s.done)
	return s.metric.Unregister()
}

// StoredMessageCount returns the number of queued messages.
func (s *Store) StoredMessageCount() int64 {
	return s.sum(func(r *region) int64 { return r.pending })
}

// ActorCount returns the number of actors.
func (s *Store) ActorCount() int64 {
	return s.sum(func(r *region) int64 { return int64(len(r.actors)) })
}

// ProcessingActorCount returns the number of actors checked out by Take.
func (s *Store) ProcessingActorCount() int64 {
	return s.sum(func(r *region) int64 { return int64(r.processing.Cardinality()) })
}

// ReadyActorCount returns the number of actors with messages waiting to be taken.
func (s *Store) ReadyActorCount() int64 {
	return s.sum(func(r *region) int64 { return int64(r.available.Cardinality()) })
}

func (s *Store) sum(count func(*region) int64) int64 {
	var total int64
	for _, r := range s.regions {
		r.mu.Lock()
		total += count(r)
		r.mu.Unlock()
	}
	return total
}

func (s *Store) materialize(w *work) (message.Message, *Actor, error) {
	serializer := s.config.Serializer()
	state, err := serializer.Deserialize(w.state)
	if err != nil {
		return message.Message{}, nil, fmt.Errorf("failed to deserialize state of %s: %w", w.address, err)
	}

	payload, err := serializer.Deserialize(w.payload)
	if err != nil {
		return message.Message{}, nil, fmt.Errorf("failed to deserialize message for %s: %w", w.address, err)
	}

	return message.New(w.source, w.dest, payload), &Actor{
		Address:  w.address,
		State:    state,
		Instance: w.instance,
		taken:    true,
	}, nil
}

// release hands an actor back after a failed take so it is not stuck in
// processing. A fired checkpoint deadline is armed again.
func (s *Store) release(r *region, key string) {
	now := s.config.Clock().Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.actors[key]
	if !ok {
		return
	}
	r.processing.Remove(key)
	if !data.queue.IsEmpty() {
		r.available.Add(key)
	}
	if !r.timeouts.Contains(key) {
		_ = r.timeouts.Add(key, now.Add(data.checkpointTimeout))
	}
}

func (s *Store) actorKey(addr address.Address) (string, error) {
	if addr.Size() != s.config.Prefix().Size()+1 || !s.Owns(addr) {
		return "", errors.NewErrInvalidAddress(fmt.Errorf("%s is not an actor under %s", addr, s.config.Prefix()))
	}
	return addr.String(), nil
}

func (s *Store) region(key string) *region {
	return s.regions[xxh3.HashString(key)%uint64(len(s.regions))]
}

func stopTimer(timer *clock.Timer) {
	if timer != nil {
		timer.Stop()
	}
}

func (s *Store) waiter() <-chan struct{} {
	s.signalMu.Lock()
	defer s.signalMu.Unlock()
	return s.signal
}

// notify wakes every waiting Take.
func (s *Store) notify() {
	s.signalMu.Lock()
	close(s.signal)
	s.signal = make(chan struct{})
	s.signalMu.Unlock()
}
