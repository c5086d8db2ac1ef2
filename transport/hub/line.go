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
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/tochemey/actornet/address"
)

// TransitMessage is a copy of a message travelling through the simulated network.
type TransitMessage struct {
	// ID identifies this copy. Duplicates produced by a line get their own ID.
	ID          uuid.UUID
	Source      address.Address
	Destination address.Address
	Payload     []byte
	DepartAt    time.Time
	ArriveAt    time.Time
}

// ArriveMessage is a message handed over for delivery once its arrival time is reached.
type ArriveMessage struct {
	Source      address.Address
	Destination address.Address
	Payload     []byte
}

// Line decides what happens to messages on the simulated wire.
//
// Depart returns the copies that enter the wire for one send, each with its
// arrival time; an empty result drops the message. Arrive is applied to every
// batch of copies whose arrival time has been reached and returns what is
// actually delivered.
//
// A Line is only called from the goroutine stepping the hub.
type Line interface {
	Depart(now time.Time, source, destination address.Address, payload []byte) []TransitMessage
	Arrive(now time.Time, messages []TransitMessage) []ArriveMessage
}

// PerfectLine delivers exactly one copy of every message without delay.
type PerfectLine struct{}

var _ Line = PerfectLine{}

// Depart implements Line.
func (PerfectLine) Depart(now time.Time, source, destination address.Address, payload []byte) []TransitMessage {
	return []TransitMessage{newTransit(now, now, source, destination, payload)}
}

// Arrive implements Line.
func (PerfectLine) Arrive(_ time.Time, messages []TransitMessage) []ArriveMessage {
	return toArrivals(messages)
}

// RandomLine drops, duplicates, corrupts and delays messages according to its
// configuration. The same seed replays the same decisions.
type RandomLine struct {
	config *RandomLineConfig
	rng    *rand.Rand
}

var _ Line = (*RandomLine)(nil)

// NewRandomLine creates a RandomLine.
func NewRandomLine(config *RandomLineConfig) (*RandomLine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &RandomLine{
		config: config,
		rng:    rand.New(rand.NewPCG(config.seed, config.seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Depart implements Line.
func (l *RandomLine) Depart(now time.Time, source, destination address.Address, payload []byte) []TransitMessage {
	if l.chance(l.config.dropRate) {
		return nil
	}

	copies := 1
	if l.chance(l.config.duplicateRate) {
		copies = 2
	}

	out := make([]TransitMessage, 0, copies)
	for range copies {
		data := payload
		if len(data) > 0 && l.chance(l.config.corruptRate) {
			data = append([]byte(nil), payload...)
			bit := l.rng.IntN(len(data) * 8)
			data[bit/8] ^= 1 << (bit % 8)
		}
		out = append(out, newTransit(now, now.Add(l.delay()), source, destination, data))
	}
	return out
}

// Arrive implements Line.
func (l *RandomLine) Arrive(_ time.Time, messages []TransitMessage) []ArriveMessage {
	return toArrivals(messages)
}

func (l *RandomLine) chance(rate float64) bool {
	return rate > 0 && l.rng.Float64() < rate
}

func (l *RandomLine) delay() time.Duration {
	spread := l.config.maxDelay - l.config.minDelay
	if spread <= 0 {
		return l.config.minDelay
	}
	return l.config.minDelay + time.Duration(l.rng.Int64N(int64(spread)+1))
}

func newTransit(departAt, arriveAt time.Time, source, destination address.Address, payload []byte) TransitMessage {
	return TransitMessage{
		ID:          uuid.New(),
		Source:      source,
		Destination: destination,
		Payload:     payload,
		DepartAt:    departAt,
		ArriveAt:    arriveAt,
	}
}

func toArrivals(messages []TransitMessage) []ArriveMessage {
	out := make([]ArriveMessage, len(messages))
	for i, transit := range messages {
		out[i] = ArriveMessage{
			Source:      transit.Source,
			Destination: transit.Destination,
			Payload:     transit.Payload,
		}
	}
	return out
}
