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

	"github.com/tochemey/actornet/message"
	"github.com/tochemey/actornet/store"
)

// Outcome is the result of handling one message.
type Outcome struct {
	// State replaces the actor state.
	State any
	// Messages are routed once the state is stored.
	Messages []message.Message
	// Checkpoint, when set, makes State the new checkpoint of the actor.
	Checkpoint *store.Checkpoint
	// Terminate discards the actor instead of storing State.
	Terminate bool
}

// Handler is the logic of the actors of a runner.
type Handler interface {
	Handle(ctx context.Context, msg message.Message, actor *store.Actor) (Outcome, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg message.Message, actor *store.Actor) (Outcome, error)

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, msg message.Message, actor *store.Actor) (Outcome, error) {
	return f(ctx, msg, actor)
}
