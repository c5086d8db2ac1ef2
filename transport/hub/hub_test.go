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
	"context"
	"math/bits"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/goleak"

	"github.com/tochemey/actornet/address"
	"github.com/tochemey/actornet/errors"
	"github.com/tochemey/actornet/log"
	"github.com/tochemey/actornet/message"
	"github.com/tochemey/actornet/transport"
)

type collector struct {
	mu       sync.Mutex
	received []message.Message
}

func (c *collector) Deliver(messages ...message.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.received = append(c.received, messages...)
	return nil
}

func (c *collector) payloads() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.received))
	for i, msg := range c.received {
		out[i] = msg.Payload
	}
	return out
}

var (
	base  = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	alice = address.New("sim", "alice")
	bob   = address.New("sim", "bob")
)

func newHub(t *testing.T, opts ...Option) *Hub {
	t.Helper()
	opts = append([]Option{
		WithLogger(log.DiscardLogger),
		WithMeter(noop.NewMeterProvider().Meter("test")),
	}, opts...)
	hub, err := New(NewConfig(opts...))
	require.NoError(t, err)
	t.Cleanup(func() { _ = hub.Close() })
	return hub
}

func TestHub(t *testing.T) {
	t.Run("With perfect line keeps send order", func(t *testing.T) {
		hub := newHub(t)
		endpoint := new(collector)
		require.NoError(t, hub.Join(bob, endpoint))

		require.NoError(t, hub.Send(message.New(alice, bob, "first")))
		require.NoError(t, hub.Send(message.New(alice, bob, "second")))
		wait, err := hub.Step(base)
		require.NoError(t, err)
		assert.Equal(t, transport.NoDeadline, wait)

		require.NoError(t, hub.Send(message.New(alice, bob.Append("inbox"), "third")))
		_, err = hub.Step(base.Add(time.Millisecond))
		require.NoError(t, err)

		assert.Equal(t, []any{"first", "second", "third"}, endpoint.payloads())
		assert.True(t, endpoint.received[0].Source.Equals(alice))
		assert.True(t, endpoint.received[2].Destination.Equals(bob.Append("inbox")))
	})
	t.Run("With delayed line delivers by arrival time", func(t *testing.T) {
		line, err := NewRandomLine(NewRandomLineConfig(7, WithDelay(100*time.Millisecond, 100*time.Millisecond)))
		require.NoError(t, err)
		hub := newHub(t, WithLine(line))
		endpoint := new(collector)
		require.NoError(t, hub.Join(bob, endpoint))
		_, err = hub.Step(base)
		require.NoError(t, err)

		require.NoError(t, hub.Send(message.New(alice, bob, "early")))
		wait, err := hub.Step(base)
		require.NoError(t, err)
		assert.Equal(t, 100*time.Millisecond, wait)
		assert.EqualValues(t, 1, hub.InFlight())

		require.NoError(t, hub.Send(message.New(alice, bob, "late")))
		wait, err = hub.Step(base.Add(50 * time.Millisecond))
		require.NoError(t, err)
		assert.Equal(t, 50*time.Millisecond, wait)
		assert.Empty(t, endpoint.payloads())

		_, err = hub.Step(base.Add(100 * time.Millisecond))
		require.NoError(t, err)
		assert.Equal(t, []any{"early"}, endpoint.payloads())

		wait, err = hub.Step(base.Add(200 * time.Millisecond))
		require.NoError(t, err)
		assert.Equal(t, transport.NoDeadline, wait)
		assert.Equal(t, []any{"early", "late"}, endpoint.payloads())
		assert.Zero(t, hub.InFlight())
	})
	t.Run("With unreachable destination", func(t *testing.T) {
		hub := newHub(t)
		endpoint := new(collector)
		require.NoError(t, hub.Join(alice, endpoint))

		require.NoError(t, hub.Send(message.New(alice, bob, "lost")))
		_, err := hub.Step(base)
		require.NoError(t, err)
		assert.Empty(t, endpoint.payloads())
	})
	t.Run("With longest prefix routing", func(t *testing.T) {
		hub := newHub(t)
		node := new(collector)
		actor := new(collector)
		require.NoError(t, hub.Join(bob, node))
		require.NoError(t, hub.Join(bob.Append("orders"), actor))

		require.NoError(t, hub.Send(message.New(alice, bob.Append("orders", "42"), "order")))
		require.NoError(t, hub.Send(message.New(alice, bob.Append("billing"), "bill")))
		_, err := hub.Step(base)
		require.NoError(t, err)

		assert.Equal(t, []any{"order"}, actor.payloads())
		assert.Equal(t, []any{"bill"}, node.payloads())
	})
	t.Run("With leave", func(t *testing.T) {
		line, err := NewRandomLine(NewRandomLineConfig(1, WithDelay(time.Second, time.Second)))
		require.NoError(t, err)
		hub := newHub(t, WithLine(line))
		endpoint := new(collector)
		require.NoError(t, hub.Join(bob, endpoint))
		require.NoError(t, hub.Send(message.New(alice, bob, "in flight")))
		_, err = hub.Step(base)
		require.NoError(t, err)

		require.NoError(t, hub.Leave(bob))
		_, err = hub.Step(base.Add(time.Second))
		require.NoError(t, err)
		assert.Empty(t, endpoint.payloads())
	})
	t.Run("With invalid messages", func(t *testing.T) {
		hub := newHub(t)
		assert.ErrorIs(t, hub.Send(message.New(address.Address{}, bob, "x")), errors.ErrInvalidAddress)
		assert.Error(t, hub.Send(message.New(alice, bob, struct{}{})))
		assert.ErrorIs(t, hub.Join(address.Address{}, new(collector)), errors.ErrInvalidAddress)
	})
	t.Run("With closed hub", func(t *testing.T) {
		hub := newHub(t)
		require.NoError(t, hub.Close())
		require.NoError(t, hub.Close())

		assert.ErrorIs(t, hub.Send(message.New(alice, bob, "x")), errors.ErrClosed)
		assert.ErrorIs(t, hub.Join(bob, new(collector)), errors.ErrClosed)
		_, err := hub.Step(base)
		assert.ErrorIs(t, err, errors.ErrClosed)
	})
	t.Run("With invalid config", func(t *testing.T) {
		_, err := New(NewConfig(WithLine(nil)))
		assert.Error(t, err)
	})
}

func TestHubRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := newHub(t)
	endpoint := new(collector)
	require.NoError(t, hub.Join(bob, endpoint))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- transport.Run(ctx, clock.New(), hub) }()

	require.NoError(t, hub.Send(message.New(alice, bob, "ping")))
	require.Eventually(t, func() bool { return len(endpoint.payloads()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRandomLine(t *testing.T) {
	payload := []byte("payload")

	t.Run("With drops", func(t *testing.T) {
		line, err := NewRandomLine(NewRandomLineConfig(1, WithDropRate(1)))
		require.NoError(t, err)
		assert.Empty(t, line.Depart(base, alice, bob, payload))
	})
	t.Run("With duplicates", func(t *testing.T) {
		line, err := NewRandomLine(NewRandomLineConfig(1, WithDuplicateRate(1)))
		require.NoError(t, err)
		copies := line.Depart(base, alice, bob, payload)
		require.Len(t, copies, 2)
		assert.NotEqual(t, copies[0].ID, copies[1].ID)
		assert.Equal(t, payload, copies[1].Payload)
		assert.Len(t, line.Arrive(base, copies), 2)
	})
	t.Run("With corruption", func(t *testing.T) {
		line, err := NewRandomLine(NewRandomLineConfig(1, WithCorruptRate(1)))
		require.NoError(t, err)
		copies := line.Depart(base, alice, bob, payload)
		require.Len(t, copies, 1)

		flipped := 0
		for i := range payload {
			flipped += bits.OnesCount8(payload[i] ^ copies[0].Payload[i])
		}
		assert.Equal(t, 1, flipped)
		assert.Equal(t, []byte("payload"), payload)
	})
	t.Run("With delay range", func(t *testing.T) {
		line, err := NewRandomLine(NewRandomLineConfig(3, WithDelay(10*time.Millisecond, 20*time.Millisecond)))
		require.NoError(t, err)
		for range 50 {
			copies := line.Depart(base, alice, bob, payload)
			require.Len(t, copies, 1)
			delay := copies[0].ArriveAt.Sub(copies[0].DepartAt)
			assert.GreaterOrEqual(t, delay, 10*time.Millisecond)
			assert.LessOrEqual(t, delay, 20*time.Millisecond)
		}
	})
	t.Run("With same seed", func(t *testing.T) {
		config := func() *RandomLineConfig {
			return NewRandomLineConfig(42, WithDropRate(0.5), WithDelay(0, time.Second))
		}
		left, err := NewRandomLine(config())
		require.NoError(t, err)
		right, err := NewRandomLine(config())
		require.NoError(t, err)
		for range 20 {
			l := left.Depart(base, alice, bob, payload)
			r := right.Depart(base, alice, bob, payload)
			require.Equal(t, len(l), len(r))
			if len(l) == 1 {
				assert.Equal(t, l[0].ArriveAt, r[0].ArriveAt)
			}
		}
	})
	t.Run("With invalid config", func(t *testing.T) {
		_, err := NewRandomLine(NewRandomLineConfig(1, WithDropRate(2), WithDelay(time.Second, 0)))
		assert.Error(t, err)
	})
}
