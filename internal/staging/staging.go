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

// Package staging implements the half-duplex byte staging area used by a
// single connection. A buffer first reads then writes (ReadFirst) or first
// writes then reads (WriteFirst); any call outside the allowed state fails
// with an errors.InvalidStateError.
package staging

import (
	"github.com/tochemey/actornet/errors"
)

// Mode fixes the order of the read and write phases.
type Mode int

const (
	// ReadFirst reads a request then writes a reply. Used by accepted connections.
	ReadFirst Mode = iota
	// WriteFirst writes a request then reads a reply. Used by dialed connections.
	WriteFirst
)

func (m Mode) String() string {
	if m == WriteFirst {
		return "WRITE_FIRST"
	}
	return "READ_FIRST"
}

// State is the position of a Buffers in its cycle.
type State int

const (
	Init State = iota
	Read
	ReadDone
	Write
	WriteDone
)

func (s State) String() string {
	switch s {
	case Init:
		return "INIT"
	case Read:
		return "READ"
	case ReadDone:
		return "READ_DONE"
	case Write:
		return "WRITE"
	case WriteDone:
		return "WRITE_DONE"
	default:
		return "UNKNOWN"
	}
}

// Buffers accumulates incoming bytes and stages outgoing bytes for one connection.
// It is not safe for concurrent use.
type Buffers struct {
	mode     Mode
	state    State
	maxBytes int

	readBuf  []byte
	writeBuf []byte
	cursor   int
}

// New creates a Buffers in the Init state. maxBytes bounds both the read
// accumulation and the staged write; zero or less disables the bound.
func New(mode Mode, maxBytes int) *Buffers {
	return &Buffers{
		mode:     mode,
		state:    Init,
		maxBytes: maxBytes,
	}
}

// Mode returns the mode chosen at construction.
func (b *Buffers) Mode() Mode {
	return b.mode
}

// State returns the current state.
func (b *Buffers) State() State {
	return b.state
}

// StartReading enters the Read state.
func (b *Buffers) StartReading() error {
	if (b.mode == ReadFirst && b.state != Init) || (b.mode == WriteFirst && b.state != WriteDone) {
		return b.invalid("StartReading")
	}

	b.readBuf = make([]byte, 0, 512)
	b.state = Read
	return nil
}

// AddReadBlock appends block to the read accumulation.
func (b *Buffers) AddReadBlock(block []byte) error {
	if b.state != Read {
		return b.invalid("AddReadBlock")
	}

	if size := len(b.readBuf) + len(block); b.maxBytes > 0 && size > b.maxBytes {
		return errors.NewErrMessageTooLarge(size, b.maxBytes)
	}

	b.readBuf = append(b.readBuf, block...)
	return nil
}

// FinishReading enters ReadDone and hands over the accumulated bytes.
func (b *Buffers) FinishReading() ([]byte, error) {
	if b.state != Read {
		return nil, b.invalid("FinishReading")
	}

	data := b.readBuf
	b.readBuf = nil
	b.state = ReadDone
	return data, nil
}

// StartWriting stages data and enters the Write state. data must not be
// modified by the caller afterwards.
func (b *Buffers) StartWriting(data []byte) error {
	if (b.mode == ReadFirst && b.state != ReadDone) || (b.mode == WriteFirst && b.state != Init) {
		return b.invalid("StartWriting")
	}

	if b.maxBytes > 0 && len(data) > b.maxBytes {
		return errors.NewErrMessageTooLarge(len(data), b.maxBytes)
	}

	b.writeBuf = data
	b.cursor = 0
	b.state = Write
	return nil
}

// GetWriteBlock copies unwritten bytes into dst and returns how many were
// copied. The cursor does not move; call AdjustWritePointer with the number
// of bytes actually written.
func (b *Buffers) GetWriteBlock(dst []byte) (int, error) {
	if b.state != Write {
		return 0, b.invalid("GetWriteBlock")
	}
	return copy(dst, b.writeBuf[b.cursor:]), nil
}

// AdjustWritePointer advances the write cursor by n bytes.
func (b *Buffers) AdjustWritePointer(n int) error {
	if b.state != Write {
		return b.invalid("AdjustWritePointer")
	}

	if n < 0 || b.cursor+n > len(b.writeBuf) {
		return b.invalid("AdjustWritePointer beyond staged bytes")
	}

	b.cursor += n
	return nil
}

// IsEndOfWrite reports whether every staged byte has been written.
func (b *Buffers) IsEndOfWrite() bool {
	return b.state == Write && b.cursor == len(b.writeBuf)
}

// FinishWriting enters WriteDone.
func (b *Buffers) FinishWriting() error {
	if b.state != Write {
		return b.invalid("FinishWriting")
	}

	b.writeBuf = nil
	b.cursor = 0
	b.state = WriteDone
	return nil
}

// IsDone reports whether the cycle defined by the mode has completed.
func (b *Buffers) IsDone() bool {
	if b.mode == ReadFirst {
		return b.state == WriteDone
	}
	return b.state == ReadDone
}

func (b *Buffers) invalid(op string) error {
	return errors.NewInvalidStateError(op, b.mode.String()+"/"+b.state.String())
}
