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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when an operation is attempted on a store, transport
	// or hub that has already been closed or stopped.
	ErrClosed = errors.New("resource is closed")

	// ErrInvalidState is returned when a state machine is driven through a
	// transition it does not allow. It always denotes a programming error.
	ErrInvalidState = errors.New("invalid state")

	// ErrTimeoutExists is returned when a deadline is registered twice for the same id.
	ErrTimeoutExists = errors.New("timeout already tracked")

	// ErrCheckpointRequired is returned when an actor is stored for the first time
	// without a checkpoint timeout and payload.
	ErrCheckpointRequired = errors.New("checkpoint is required on first store")

	// ErrInvalidAddress is returned when an address is malformed or lies outside
	// the namespace a component is responsible for.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrMessageTooLarge is returned when a message exceeds the configured maximum size.
	ErrMessageTooLarge = errors.New("message too large")

	// ErrNotStarted is returned when a transport or hub is used before it is started.
	ErrNotStarted = errors.New("not started")

	// ErrAlreadyStarted is returned when a transport or hub is started twice.
	ErrAlreadyStarted = errors.New("already started")

	// ErrCheckpointNotFound is returned when no saved checkpoint exists for an address.
	ErrCheckpointNotFound = errors.New("checkpoint not found")

	// ErrInvalidFrame is returned when wire bytes cannot be decoded.
	ErrInvalidFrame = errors.New("invalid frame")

	// ErrMessageRejected is returned by a filter that refuses to let a message through.
	ErrMessageRejected = errors.New("message rejected")
)

// InvalidStateError reports the state a state machine was in when an
// operation was attempted.
type InvalidStateError struct {
	op    string
	state string
}

// enforce compilation error
var _ error = (*InvalidStateError)(nil)

// NewInvalidStateError returns an InvalidStateError for the given operation and state
func NewInvalidStateError(op, state string) *InvalidStateError {
	return &InvalidStateError{op: op, state: state}
}

// Error implements the standard error interface
func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: %s not allowed in state %s", ErrInvalidState.Error(), e.op, e.state)
}

// Unwrap returns ErrInvalidState so callers can match with errors.Is
func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// NewErrInvalidAddress wraps the cause of an address violation
func NewErrInvalidAddress(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidAddress, err)
}

// NewErrMessageTooLarge reports the size that was rejected along with the limit
func NewErrMessageTooLarge(size, limit int) error {
	return fmt.Errorf("%w: %d bytes exceeds limit of %d bytes", ErrMessageTooLarge, size, limit)
}
