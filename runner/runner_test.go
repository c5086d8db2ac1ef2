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
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/goleak"

	"github.com/tochemey/actornet/address"
	"github.com/tochemey/actornet/checkpoint"
	actorerrors "github.com/tochemey/actornet/errors"
	"github.com/tochemey/actornet/log"
	"github.com/tochemey/actornet/message"
	"github.com/tochemey/actornet/serializer"
	"github.com/tochemey/actornet/store"
)

var (
	prefix = address.New("runtime", "127.0.0.1:9000")
	client = address.New("tcp", "127.0.0.1:9001", "client")
	wake   = &store.Checkpoint{Timeout: time.Hour, Payload: "wake"}
)

type recordingSender struct {
	mu       sync.Mutex
	messages []message.Message
}

func (x *recordingSender) Send(msg message.Message) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.messages = append(x.messages, msg)
	return nil
}

func (x *recordingSender) sent() []message.Message {
	x.mu.Lock()
	defer x.mu.Unlock()
	return append([]message.Message(nil), x.messages...)
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(store.NewConfig(prefix, 4,
		store.WithLogger(log.DiscardLogger),
		store.WithMeter(noop.NewMeterProvider().Meter("test")),
	))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// start runs r until the test ends.
func start(t *testing.T, r *Runner) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
}

func wait[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case value := <-ch:
		return value
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
		var zero T
		return zero
	}
}

func TestRunner(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()

	t.Run("With state carried across messages", func(t *testing.T) {
		s := newStore(t)
		done := make(chan int, 1)
		handler := HandlerFunc(func(_ context.Context, _ message.Message, actor *store.Actor) (Outcome, error) {
			count := actor.State.(int) + 1
			if count == 10 {
				done <- count
			}
			return Outcome{State: count}, nil
		})

		r, err := New(NewConfig(s, handler, WithWorkers(4), WithLogger(log.DiscardLogger)))
		require.NoError(t, err)

		addr := prefix.Append("counter")
		require.NoError(t, r.Spawn(ctx, addr, 0, wake))
		start(t, r)

		for range 10 {
			require.NoError(t, s.StoreMessages(message.New(client, addr, "inc")))
		}
		assert.Equal(t, 10, wait(t, done))
	})
	t.Run("With local and remote routing", func(t *testing.T) {
		s := newStore(t)
		sender := new(recordingSender)
		ping, pong := prefix.Append("ping"), prefix.Append("pong")

		handler := HandlerFunc(func(_ context.Context, msg message.Message, actor *store.Actor) (Outcome, error) {
			hops := msg.Payload.(int)
			if hops == 20 {
				return Outcome{
					State:    actor.State,
					Messages: []message.Message{message.New(actor.Address, client, "done")},
				}, nil
			}

			next := ping
			if actor.Address.Equals(ping) {
				next = pong
			}
			return Outcome{
				State:    actor.State,
				Messages: []message.Message{message.New(actor.Address, next, hops+1)},
			}, nil
		})

		r, err := New(NewConfig(s, handler, WithWorkers(2), WithSender(sender), WithLogger(log.DiscardLogger)))
		require.NoError(t, err)
		require.NoError(t, r.Spawn(ctx, ping, "ping", wake))
		require.NoError(t, r.Spawn(ctx, pong, "pong", wake))
		start(t, r)

		require.NoError(t, s.StoreMessages(message.New(client, ping, 0)))
		require.Eventually(t, func() bool { return len(sender.sent()) == 1 }, 5*time.Second, 10*time.Millisecond)

		msg := sender.sent()[0]
		assert.Equal(t, "done", msg.Payload)
		assert.True(t, msg.Source.Equals(ping))
		assert.True(t, msg.Destination.Equals(client))
	})
	t.Run("With failing handler", func(t *testing.T) {
		s := newStore(t)
		done := make(chan int, 1)
		handler := HandlerFunc(func(_ context.Context, msg message.Message, actor *store.Actor) (Outcome, error) {
			switch msg.Payload {
			case "fail":
				return Outcome{}, errors.New("boom")
			case "panic":
				panic("boom")
			case "last":
				done <- actor.State.(int)
			}
			return Outcome{State: actor.State.(int) + 1}, nil
		})

		r, err := New(NewConfig(s, handler, WithWorkers(1), WithLogger(log.DiscardLogger)))
		require.NoError(t, err)

		addr := prefix.Append("fragile")
		require.NoError(t, r.Spawn(ctx, addr, 0, wake))
		start(t, r)

		for _, payload := range []string{"inc", "fail", "panic", "inc", "last"} {
			require.NoError(t, s.StoreMessages(message.New(client, addr, payload)))
		}
		assert.Equal(t, 2, wait(t, done))
	})
	t.Run("With terminate", func(t *testing.T) {
		s := newStore(t)
		checkpointer, err := checkpoint.NewFileCheckpointer(t.TempDir(), log.DiscardLogger)
		require.NoError(t, err)

		handler := HandlerFunc(func(context.Context, message.Message, *store.Actor) (Outcome, error) {
			return Outcome{Terminate: true}, nil
		})

		r, err := New(NewConfig(s, handler, WithCheckpointer(checkpointer), WithLogger(log.DiscardLogger)))
		require.NoError(t, err)

		addr := prefix.Append("ephemeral")
		require.NoError(t, r.Spawn(ctx, addr, "state", wake))
		assert.EqualValues(t, 1, s.ActorCount())
		start(t, r)

		require.NoError(t, s.StoreMessages(message.New(client, addr, "stop")))
		require.Eventually(t, func() bool { return s.ActorCount() == 0 }, 5*time.Second, 10*time.Millisecond)

		_, err = checkpointer.Restore(ctx, addr)
		assert.ErrorIs(t, err, actorerrors.ErrCheckpointNotFound)
	})
	t.Run("With checkpoint recovery", func(t *testing.T) {
		checkpointer, err := checkpoint.NewFileCheckpointer(t.TempDir(), log.DiscardLogger)
		require.NoError(t, err)
		addr := prefix.Append("durable")

		first := newStore(t)
		handled := make(chan struct{}, 1)
		r, err := New(NewConfig(first, HandlerFunc(func(context.Context, message.Message, *store.Actor) (Outcome, error) {
			handled <- struct{}{}
			return Outcome{State: 42, Checkpoint: wake}, nil
		}), WithCheckpointer(checkpointer), WithLogger(log.DiscardLogger)))
		require.NoError(t, err)
		require.NoError(t, r.Spawn(ctx, addr, 0, wake))
		start(t, r)

		require.NoError(t, first.StoreMessages(message.New(client, addr, "save")))
		wait(t, handled)
		require.Eventually(t, func() bool { return first.ProcessingActorCount() == 0 }, 5*time.Second, 10*time.Millisecond)

		second := newStore(t)
		states := make(chan any, 1)
		recovered, err := New(NewConfig(second, HandlerFunc(func(_ context.Context, _ message.Message, actor *store.Actor) (Outcome, error) {
			states <- actor.State
			return Outcome{State: actor.State}, nil
		}), WithCheckpointer(checkpointer), WithLogger(log.DiscardLogger)))
		require.NoError(t, err)

		require.NoError(t, recovered.Recover(ctx, addr, wake))
		start(t, recovered)

		require.NoError(t, second.StoreMessages(message.New(client, addr, "read")))
		assert.Equal(t, 42, wait(t, states))
	})
	t.Run("With actor discarded while a worker is still busy", func(t *testing.T) {
		s := newStore(t)
		victim, next := prefix.Append("victim"), prefix.Append("next")
		release := make(chan struct{})
		handled := make(chan string, 1)

		handler := HandlerFunc(func(_ context.Context, msg message.Message, actor *store.Actor) (Outcome, error) {
			switch msg.Payload {
			case "work":
				<-release
				return Outcome{State: "late", Checkpoint: wake}, nil
			case "wake":
				return Outcome{Terminate: true}, nil
			default:
				handled <- msg.Payload.(string)
				return Outcome{State: actor.State}, nil
			}
		})

		r, err := New(NewConfig(s, handler, WithWorkers(2), WithLogger(log.DiscardLogger)))
		require.NoError(t, err)
		require.NoError(t, r.Spawn(ctx, victim, "s", &store.Checkpoint{Timeout: 50 * time.Millisecond, Payload: "wake"}))
		start(t, r)

		require.NoError(t, s.StoreMessages(message.New(client, victim, "work")))
		require.Eventually(t, func() bool { return s.ActorCount() == 0 }, 5*time.Second, 10*time.Millisecond)
		close(release)

		// the pool keeps serving once the busy worker gave its outcome back
		require.NoError(t, r.Spawn(ctx, next, "s", wake))
		require.NoError(t, s.StoreMessages(message.New(client, next, "ping")))
		assert.Equal(t, "ping", wait(t, handled))
		require.Eventually(t, func() bool { return s.ProcessingActorCount() == 0 }, 5*time.Second, 10*time.Millisecond)
		assert.EqualValues(t, 1, s.ActorCount())
	})
	t.Run("With stale outcome not checkpointed", func(t *testing.T) {
		s := newStore(t)
		checkpointer, err := checkpoint.NewFileCheckpointer(t.TempDir(), log.DiscardLogger)
		require.NoError(t, err)

		addr := prefix.Append("contended")
		release := make(chan struct{})
		woke := make(chan struct{}, 1)
		returned := make(chan struct{}, 1)
		keep := &store.Checkpoint{Timeout: time.Hour, Payload: "wake"}

		handler := HandlerFunc(func(_ context.Context, msg message.Message, _ *store.Actor) (Outcome, error) {
			if msg.Payload == "wake" {
				woke <- struct{}{}
				return Outcome{State: "fresh", Checkpoint: keep}, nil
			}
			<-release
			returned <- struct{}{}
			return Outcome{State: "stale", Checkpoint: keep}, nil
		})

		r, err := New(NewConfig(s, handler, WithWorkers(2), WithCheckpointer(checkpointer), WithLogger(log.DiscardLogger)))
		require.NoError(t, err)
		require.NoError(t, r.Spawn(ctx, addr, "initial", &store.Checkpoint{Timeout: 200 * time.Millisecond, Payload: "wake"}))

		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() { done <- r.Run(runCtx) }()

		require.NoError(t, s.StoreMessages(message.New(client, addr, "work")))
		wait(t, woke)
		require.Eventually(t, func() bool { return s.ProcessingActorCount() == 0 }, 5*time.Second, 10*time.Millisecond)

		close(release)
		wait(t, returned)
		cancel()
		require.NoError(t, wait(t, done))

		data, err := checkpointer.Restore(ctx, addr)
		require.NoError(t, err)
		state, err := serializer.NewCBORSerializer().Deserialize(data)
		require.NoError(t, err)
		assert.Equal(t, "fresh", state)
	})
	t.Run("With store closed", func(t *testing.T) {
		s := newStore(t)
		r, err := New(NewConfig(s, HandlerFunc(func(context.Context, message.Message, *store.Actor) (Outcome, error) {
			return Outcome{}, nil
		}), WithWorkers(3), WithLogger(log.DiscardLogger)))
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() { done <- r.Run(ctx) }()

		require.NoError(t, s.Close())
		assert.NoError(t, wait(t, done))
	})
}

func TestRunnerConfig(t *testing.T) {
	s := newStore(t)
	handler := HandlerFunc(func(context.Context, message.Message, *store.Actor) (Outcome, error) {
		return Outcome{}, nil
	})

	t.Run("With invalid config", func(t *testing.T) {
		_, err := New(NewConfig(nil, handler))
		assert.Error(t, err)
		_, err = New(NewConfig(s, nil))
		assert.Error(t, err)
		_, err = New(NewConfig(s, handler, WithWorkers(0)))
		assert.Error(t, err)
	})
	t.Run("With spawn requiring a checkpoint", func(t *testing.T) {
		r, err := New(NewConfig(s, handler, WithLogger(log.DiscardLogger)))
		require.NoError(t, err)
		err = r.Spawn(context.Background(), prefix.Append("a"), 0, nil)
		assert.ErrorIs(t, err, actorerrors.ErrCheckpointRequired)
	})
	t.Run("With recover without checkpointer", func(t *testing.T) {
		r, err := New(NewConfig(s, handler, WithLogger(log.DiscardLogger)))
		require.NoError(t, err)
		err = r.Recover(context.Background(), prefix.Append("a"), wake)
		assert.ErrorIs(t, err, actorerrors.ErrCheckpointNotFound)
	})
}
