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

// Package transport defines the contracts shared by message transports.
//
// A transport is driven by repeated calls to Step from a single goroutine.
// Each call does a bounded amount of work and reports how long the caller
// may wait before calling again, so several transports can be embedded in
// one cooperative scheduler. Run provides such a scheduler for one Stepper.
package transport

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/benbjohnson/clock"

	actorerrors "github.com/tochemey/actornet/errors"
	"github.com/tochemey/actornet/message"
)

// NoDeadline is returned by Step when nothing is scheduled.
const NoDeadline = time.Duration(math.MaxInt64)

// Endpoint receives the messages routed to it.
type Endpoint interface {
	Deliver(messages ...message.Message) error
}

// EndpointFunc adapts a function to Endpoint.
type EndpointFunc func(messages ...message.Message) error

// Deliver implements Endpoint.
func (f EndpointFunc) Deliver(messages ...message.Message) error {
	return f(messages...)
}

// Sender queues a message for delivery. Send never blocks on the network
// and delivery is best effort.
type Sender interface {
	Send(msg message.Message) error
}

// Stepper is a component driven by a cooperative scheduler.
type Stepper interface {
	// Step performs the pending work at now and returns the time to wait
	// before the next call, or NoDeadline.
	Step(now time.Time) (time.Duration, error)
	// Wake is signaled when work arrives before the reported wait elapsed.
	Wake() <-chan struct{}
}

// Run drives stepper until ctx is done or the stepper is closed.
func Run(ctx context.Context, clk clock.Clock, stepper Stepper) error {
	for {
		wait, err := stepper.Step(clk.Now())
		if err != nil {
			if errors.Is(err, actorerrors.ErrClosed) {
				return nil
			}
			return err
		}

		if wait <= 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				continue
			}
		}

		var timeout <-chan time.Time
		var timer *clock.Timer
		if wait != NoDeadline {
			timer = clk.Timer(wait)
			timeout = timer.C
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			return ctx.Err()
		case <-stepper.Wake():
		case <-timeout:
		}
		stopTimer(timer)
	}
}

// Notify performs a non-blocking send on a wake channel of capacity one.
func Notify(wake chan struct{}) {
	select {
	case wake <- struct{}{}:
	default:
	}
}

func stopTimer(timer *clock.Timer) {
	if timer != nil {
		timer.Stop()
	}
}
