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

// Package runner drives actors kept in a store.
//
// Each worker takes a message and its actor from the store, hands them to
// the handler and writes the outcome back: the new state is stored, the
// produced messages are routed to the store when they stay in its
// namespace and to the sender otherwise. A failing handler leaves the
// actor state untouched.
package runner

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tochemey/actornet/address"
	actorerrors "github.com/tochemey/actornet/errors"
	"github.com/tochemey/actornet/message"
	"github.com/tochemey/actornet/store"
)

// Runner runs the workers of a store.
type Runner struct {
	config *Config
}

// New creates a Runner.
func New(config *Config) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Runner{config: config}, nil
}

// Spawn adds an actor to the store. The checkpoint is required and is saved
// through the checkpointer when one is configured.
func (r *Runner) Spawn(ctx context.Context, addr address.Address, state any, checkpoint *store.Checkpoint) error {
	if checkpoint == nil {
		return fmt.Errorf("%w: %s", actorerrors.ErrCheckpointRequired, addr)
	}

	return r.config.Store().StoreWith(&store.Actor{
		Address:    addr,
		State:      state,
		Checkpoint: checkpoint,
	}, func() error {
		return r.save(ctx, addr, state)
	})
}

// Recover adds an actor to the store from its last saved checkpoint.
func (r *Runner) Recover(ctx context.Context, addr address.Address, checkpoint *store.Checkpoint) error {
	checkpointer := r.config.Checkpointer()
	if checkpointer == nil {
		return fmt.Errorf("%w: no checkpointer configured", actorerrors.ErrCheckpointNotFound)
	}

	data, err := checkpointer.Restore(ctx, addr)
	if err != nil {
		return err
	}

	state, err := r.config.Serializer().Deserialize(data)
	if err != nil {
		return fmt.Errorf("failed to deserialize checkpoint of %s: %w", addr, err)
	}

	return r.Spawn(ctx, addr, state, checkpoint)
}

// Run starts the workers and blocks until ctx is done or the store is
// closed. It returns the first error a worker could not recover from.
func (r *Runner) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	for range r.config.Workers() {
		eg.Go(func() error {
			return r.work(ctx)
		})
	}
	return eg.Wait()
}

func (r *Runner) work(ctx context.Context) error {
	s := r.config.Store()
	logger := r.config.Logger()
	for {
		msg, actor, err := s.Take(ctx)
		if err != nil {
			if errors.Is(err, actorerrors.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			// the actor comes back once its checkpoint fires
			logger.Errorf("runner: %v", err)
			continue
		}

		if err := r.step(ctx, msg, actor); err != nil {
			if errors.Is(err, actorerrors.ErrClosed) {
				return nil
			}
			logger.Errorf("runner: %s: %v", actor.Address, err)
		}
	}
}

// step handles one message and writes the outcome back. Only a closed
// store is reported; other failures concern this actor alone.
func (r *Runner) step(ctx context.Context, msg message.Message, actor *store.Actor) error {
	s := r.config.Store()
	logger := r.config.Logger()
	outcome, err := r.handle(ctx, msg, actor)
	if err != nil {
		logger.Warnf("runner: %s failed to handle message from %s: %v", actor.Address, msg.Source, err)
		return s.Store(actor)
	}

	if outcome.Terminate {
		if err := s.Discard(actor.Address); err != nil {
			return err
		}

		if checkpointer := r.config.Checkpointer(); checkpointer != nil {
			if err := checkpointer.Delete(ctx, actor.Address); err != nil {
				logger.Warnf("runner: failed to delete checkpoint of %s: %v", actor.Address, err)
			}
		}
		return r.route(outcome.Messages)
	}

	actor.State = outcome.State
	actor.Checkpoint = outcome.Checkpoint

	var commit func() error
	if actor.Checkpoint != nil {
		commit = func() error {
			if err := r.save(ctx, actor.Address, actor.State); err != nil {
				logger.Warnf("runner: %v", err)
			}
			return nil
		}
	}

	if err := s.StoreWith(actor, commit); err != nil {
		if errors.Is(err, actorerrors.ErrClosed) {
			return err
		}
		logger.Errorf("runner: failed to store %s: %v", actor.Address, err)
	}
	return r.route(outcome.Messages)
}

func (r *Runner) handle(ctx context.Context, msg message.Message, actor *store.Actor) (outcome Outcome, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("handler panic: %v", recovered)
		}
	}()
	return r.config.Handler().Handle(ctx, msg, actor)
}

func (r *Runner) route(messages []message.Message) error {
	if len(messages) == 0 {
		return nil
	}

	s := r.config.Store()
	local := make([]message.Message, 0, len(messages))
	for _, msg := range messages {
		if s.Owns(msg.Destination) {
			local = append(local, msg)
			continue
		}

		sender := r.config.Sender()
		if sender == nil {
			r.config.Logger().Warnf("runner: dropping message to %s, no sender configured", msg.Destination)
			continue
		}

		if err := sender.Send(msg); err != nil {
			r.config.Logger().Warnf("runner: failed to send message to %s: %v", msg.Destination, err)
		}
	}
	return s.StoreMessages(local...)
}

func (r *Runner) save(ctx context.Context, addr address.Address, state any) error {
	checkpointer := r.config.Checkpointer()
	if checkpointer == nil {
		return nil
	}

	data, err := r.config.Serializer().Serialize(state)
	if err != nil {
		return fmt.Errorf("failed to serialize checkpoint of %s: %w", addr, err)
	}

	if err := checkpointer.Save(ctx, addr, data); err != nil {
		return fmt.Errorf("failed to save checkpoint of %s: %w", addr, err)
	}
	return nil
}
