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
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/tochemey/actornet/address"
	actorerrors "github.com/tochemey/actornet/errors"
)

// Zstd compresses outgoing bytes and decompresses incoming bytes with Zstandard.
// The encoder and decoder run in stateless EncodeAll/DecodeAll mode and are
// safe for concurrent use.
type Zstd struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

type zstdConfig struct {
	level  zstd.EncoderLevel
	maxMem uint64
}

// ZstdOption configures NewZstd.
type ZstdOption func(*zstdConfig)

// WithZstdLevel sets the compression level.
func WithZstdLevel(level zstd.EncoderLevel) ZstdOption {
	return func(c *zstdConfig) { c.level = level }
}

// WithZstdMaxSize bounds the decompressed size of incoming bytes.
func WithZstdMaxSize(n uint64) ZstdOption {
	return func(c *zstdConfig) { c.maxMem = n }
}

// NewZstd creates a Zstd filter pair.
func NewZstd(opts ...ZstdOption) (*Zstd, error) {
	cfg := zstdConfig{
		level:  zstd.SpeedDefault,
		maxMem: 64 << 20,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(cfg.level),
		zstd.WithEncoderConcurrency(1),
		zstd.WithLowerEncoderMem(true))
	if err != nil {
		return nil, fmt.Errorf("invalid zstd encoder options: %w", err)
	}

	decoder, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(0),
		zstd.WithDecoderMaxMemory(cfg.maxMem))
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("invalid zstd decoder options: %w", err)
	}

	return &Zstd{encoder: encoder, decoder: decoder}, nil
}

// Outgoing returns the compressing Filter.
func (z *Zstd) Outgoing() Filter {
	return Func(func(_ address.Address, data []byte) ([]byte, error) {
		return z.encoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
	})
}

// Incoming returns the decompressing Filter.
func (z *Zstd) Incoming() Filter {
	return Func(func(_ address.Address, data []byte) ([]byte, error) {
		out, err := z.decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, errors.Join(actorerrors.ErrInvalidFrame, err)
		}
		return out, nil
	})
}

// Close releases the encoder and decoder.
func (z *Zstd) Close() error {
	z.decoder.Close()
	return z.encoder.Close()
}
