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

// Package message defines the unit of communication between actors.
package message

import (
	"fmt"

	"github.com/tochemey/actornet/address"
)

// Message is an addressed payload exchanged between actors, stores,
// transports and the hub. Payload is opaque to every component that
// routes it; only serializers and actor handlers interpret it.
type Message struct {
	Source      address.Address
	Destination address.Address
	Payload     any
}

// New creates a Message.
func New(source, destination address.Address, payload any) Message {
	return Message{
		Source:      source,
		Destination: destination,
		Payload:     payload,
	}
}

// Validate checks both addresses.
func (m Message) Validate() error {
	if err := m.Source.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := m.Destination.Validate(); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	return nil
}

// Reply creates a message going back to the source of m.
func (m Message) Reply(payload any) Message {
	return New(m.Destination, m.Source, payload)
}

func (m Message) String() string {
	return fmt.Sprintf("%s -> %s (%T)", m.Source, m.Destination, m.Payload)
}
