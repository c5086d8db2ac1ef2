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

package store

import (
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/actornet/address"
	"github.com/tochemey/actornet/internal/queue"
	"github.com/tochemey/actornet/internal/timeout"
)

// Checkpoint is the fallback an actor registers with the store. When the
// actor is not stored again within Timeout, the store restores the state
// saved with the checkpoint and hands the actor a self-addressed message
// carrying Payload.
type Checkpoint struct {
	Timeout time.Duration
	Payload any
}

// Actor is an actor handed out by Take and given back with Store.
type Actor struct {
	Address address.Address
	State   any
	// Instance is the checkpoint instance the state derives from. It is
	// incremented each time a checkpoint fires; stores carrying an older
	// instance are ignored.
	Instance uint64
	// Checkpoint, when set, replaces the actor checkpoint with the current
	// State and this payload. It is required on the first store.
	Checkpoint *Checkpoint

	// set on actors handed out by Take
	taken bool
}

type queuedMessage struct {
	source      address.Address
	destination address.Address
	payload     []byte
}

type actorData struct {
	address address.Address
	state   []byte
	queue   *queue.FIFO[queuedMessage]

	checkpointState   []byte
	checkpointPayload []byte
	checkpointTimeout time.Duration
	instance          uint64
}

// region is one lock partition of the store. An address is in at most one
// of available and processing.
type region struct {
	mu         sync.Mutex
	actors     map[string]*actorData
	timeouts   *timeout.Manager[string]
	available  mapset.Set[string]
	processing mapset.Set[string]
	pending    int64
}

func newRegion() *region {
	return &region{
		actors:     make(map[string]*actorData),
		timeouts:   timeout.NewManager[string](),
		available:  mapset.NewThreadUnsafeSet[string](),
		processing: mapset.NewThreadUnsafeSet[string](),
	}
}

// work is what a region hands out on take.
type work struct {
	address  address.Address
	source   address.Address
	dest     address.Address
	payload  []byte
	state    []byte
	instance uint64
}

// take pops the oldest message of an available actor, or fires the earliest
// expired checkpoint. When neither exists it returns the earliest
// checkpoint deadline, if any.
func (r *region) take(now time.Time) (*work, time.Time, bool) {
	if key, ok := r.available.Pop(); ok {
		data := r.actors[key]
		msg, _ := data.queue.Pop()
		r.pending--
		r.processing.Add(key)
		return &work{
			address:  data.address,
			source:   msg.source,
			dest:     msg.destination,
			payload:  msg.payload,
			state:    data.state,
			instance: data.instance,
		}, time.Time{}, false
	}

	key, deadline, ok := r.timeouts.Next()
	if !ok {
		return nil, time.Time{}, false
	}

	if deadline.After(now) {
		return nil, deadline, true
	}

	r.timeouts.Cancel(key)
	data := r.actors[key]
	data.instance++
	data.state = data.checkpointState
	r.available.Remove(key)
	r.processing.Add(key)

	return &work{
		address:  data.address,
		source:   data.address,
		dest:     data.address,
		payload:  data.checkpointPayload,
		state:    data.state,
		instance: data.instance,
	}, time.Time{}, false
}

func (r *region) discard(key string) {
	data, ok := r.actors[key]
	if !ok {
		return
	}
	r.pending -= int64(data.queue.Len())
	delete(r.actors, key)
	r.timeouts.Cancel(key)
	r.available.Remove(key)
	r.processing.Remove(key)
}
