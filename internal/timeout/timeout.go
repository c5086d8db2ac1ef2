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

// Package timeout tracks ids against absolute deadlines.
package timeout

import (
	"fmt"
	"time"

	"github.com/Workiva/go-datastructures/common"
	"github.com/Workiva/go-datastructures/slice/skip"

	"github.com/tochemey/actornet/errors"
)

type entry[K comparable] struct {
	id       K
	deadline time.Time
	seq      uint64
}

var _ common.Comparator = (*entry[string])(nil)

// Compare orders entries by deadline then by registration order.
func (e *entry[K]) Compare(other common.Comparator) int {
	o := other.(*entry[K])
	switch {
	case e.deadline.Before(o.deadline):
		return -1
	case e.deadline.After(o.deadline):
		return 1
	case e.seq < o.seq:
		return -1
	case e.seq > o.seq:
		return 1
	default:
		return 0
	}
}

// Manager holds (id, deadline) pairs ordered by deadline. Ids sharing a
// deadline expire in the order they were added.
//
// Manager is not safe for concurrent use; the owner serializes access.
type Manager[K comparable] struct {
	ordered *skip.SkipList
	entries map[K]*entry[K]
	seq     uint64
}

// NewManager creates an empty Manager.
func NewManager[K comparable]() *Manager[K] {
	return &Manager[K]{
		ordered: skip.New(uint64(0)),
		entries: make(map[K]*entry[K]),
	}
}

// Add tracks id until deadline. It fails with ErrTimeoutExists when id is already tracked.
func (m *Manager[K]) Add(id K, deadline time.Time) error {
	if _, ok := m.entries[id]; ok {
		return fmt.Errorf("%w: %v", errors.ErrTimeoutExists, id)
	}

	m.seq++
	e := &entry[K]{id: id, deadline: deadline, seq: m.seq}
	m.entries[id] = e
	m.ordered.Insert(e)
	return nil
}

// Reset moves the deadline of id, tracking it when absent.
func (m *Manager[K]) Reset(id K, deadline time.Time) {
	m.Cancel(id)
	_ = m.Add(id, deadline)
}

// Cancel stops tracking id. It is a no-op when id is unknown.
func (m *Manager[K]) Cancel(id K) {
	e, ok := m.entries[id]
	if !ok {
		return
	}
	delete(m.entries, id)
	m.ordered.Delete(e)
}

// Contains reports whether id is tracked.
func (m *Manager[K]) Contains(id K) bool {
	_, ok := m.entries[id]
	return ok
}

// Deadline returns the deadline of id.
func (m *Manager[K]) Deadline(id K) (time.Time, bool) {
	e, ok := m.entries[id]
	if !ok {
		return time.Time{}, false
	}
	return e.deadline, true
}

// Len returns the number of tracked ids.
func (m *Manager[K]) Len() int {
	return len(m.entries)
}

// Next returns the earliest id and its deadline without removing it.
func (m *Manager[K]) Next() (K, time.Time, bool) {
	var zero K
	if m.ordered.Len() == 0 {
		return zero, time.Time{}, false
	}
	e := m.ordered.ByPosition(0).(*entry[K])
	return e.id, e.deadline, true
}

// Process removes and returns every id whose deadline is at or before now,
// earliest first. It also returns the earliest remaining deadline; ok is
// false when nothing is left to wait for.
func (m *Manager[K]) Process(now time.Time) (expired []K, next time.Time, ok bool) {
	for m.ordered.Len() > 0 {
		e := m.ordered.ByPosition(0).(*entry[K])
		if e.deadline.After(now) {
			return expired, e.deadline, true
		}
		m.ordered.Delete(e)
		delete(m.entries, e.id)
		expired = append(expired, e.id)
	}
	return expired, time.Time{}, false
}
