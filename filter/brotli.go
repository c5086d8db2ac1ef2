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

package filter

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/andybalholm/brotli"

	"github.com/tochemey/actornet/address"
	actorerrors "github.com/tochemey/actornet/errors"
	"github.com/tochemey/actornet/internal/bufferpool"
)

// Brotli compresses outgoing bytes and decompresses incoming bytes with Brotli.
// Writers and readers are pooled.
type Brotli struct {
	maxSize int64
	writers sync.Pool
	readers sync.Pool
}

// NewBrotli creates a Brotli filter pair. level ranges from
// brotli.BestSpeed to brotli.BestCompression; maxSize bounds the
// decompressed size of incoming bytes.
func NewBrotli(level int, maxSize int64) *Brotli {
	b := &Brotli{maxSize: maxSize}
	b.writers.New = func() any { return brotli.NewWriterLevel(nil, level) }
	b.readers.New = func() any { return brotli.NewReader(nil) }
	return b
}

// Outgoing returns the compressing Filter.
func (b *Brotli) Outgoing() Filter {
	return Func(func(_ address.Address, data []byte) ([]byte, error) {
		buf := bufferpool.Get()
		defer bufferpool.Put(buf)

		writer := b.writers.Get().(*brotli.Writer)
		writer.Reset(buf)
		defer b.writers.Put(writer)

		if _, err := writer.Write(data); err != nil {
			return nil, err
		}
		if err := writer.Close(); err != nil {
			return nil, err
		}
		return bytes.Clone(buf.Bytes()), nil
	})
}

// Incoming returns the decompressing Filter.
func (b *Brotli) Incoming() Filter {
	return Func(func(_ address.Address, data []byte) ([]byte, error) {
		reader := b.readers.Get().(*brotli.Reader)
		defer b.readers.Put(reader)
		if err := reader.Reset(bytes.NewReader(data)); err != nil {
			return nil, errors.Join(actorerrors.ErrInvalidFrame, err)
		}

		buf := bufferpool.Get()
		defer bufferpool.Put(buf)

		n, err := buf.ReadFrom(io.LimitReader(reader, b.maxSize+1))
		if err != nil {
			return nil, errors.Join(actorerrors.ErrInvalidFrame, err)
		}
		if n > b.maxSize {
			return nil, actorerrors.NewErrMessageTooLarge(int(n), int(b.maxSize))
		}
		return bytes.Clone(buf.Bytes()), nil
	})
}
