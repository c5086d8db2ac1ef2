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

// Package wire encodes the bytes carried by a single transport connection.
//
// An outgoing frame is a 2-byte big-endian reply port followed by the
// filtered envelope. The envelope holds the source and destination address
// suffixes, each as a uvarint element count followed by uvarint
// length-prefixed elements, and the serialized payload as the remaining
// bytes. An empty suffix has zero elements.
package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/multiformats/go-varint"

	"github.com/tochemey/actornet/errors"
)

// PortSize is the size of the reply port header.
const PortSize = 2

// Ack is the single byte written back once a message has been delivered.
var Ack = []byte{0}

// Envelope carries the routing information of a transported message.
type Envelope struct {
	Source      []string
	Destination []string
	Payload     []byte
}

// Encode returns the envelope bytes.
func (e Envelope) Encode() []byte {
	size := elementsSize(e.Source) + elementsSize(e.Destination) + len(e.Payload)
	out := make([]byte, 0, size)
	out = appendElements(out, e.Source)
	out = appendElements(out, e.Destination)
	return append(out, e.Payload...)
}

// DecodeEnvelope parses envelope bytes. The returned payload aliases data.
func DecodeEnvelope(data []byte) (Envelope, error) {
	source, rest, err := readElements(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("source: %w", err)
	}

	destination, rest, err := readElements(rest)
	if err != nil {
		return Envelope{}, fmt.Errorf("destination: %w", err)
	}

	return Envelope{
		Source:      source,
		Destination: destination,
		Payload:     rest,
	}, nil
}

// Frame prepends the reply port to body.
func Frame(port uint16, body []byte) []byte {
	out := make([]byte, PortSize+len(body))
	binary.BigEndian.PutUint16(out, port)
	copy(out[PortSize:], body)
	return out
}

// Unframe splits a frame into its reply port and body.
func Unframe(frame []byte) (uint16, []byte, error) {
	if len(frame) < PortSize {
		return 0, nil, fmt.Errorf("%w: %d bytes is shorter than the port header", errors.ErrInvalidFrame, len(frame))
	}
	return binary.BigEndian.Uint16(frame), frame[PortSize:], nil
}

func elementsSize(elements []string) int {
	size := varint.UvarintSize(uint64(len(elements)))
	for _, element := range elements {
		size += varint.UvarintSize(uint64(len(element))) + len(element)
	}
	return size
}

func appendElements(out []byte, elements []string) []byte {
	out = append(out, varint.ToUvarint(uint64(len(elements)))...)
	for _, element := range elements {
		out = append(out, varint.ToUvarint(uint64(len(element)))...)
		out = append(out, element...)
	}
	return out
}

func readElements(data []byte) ([]string, []byte, error) {
	count, n, err := varint.FromUvarint(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errors.ErrInvalidFrame, err)
	}

	data = data[n:]
	// every element takes at least one byte
	if uint64(len(data)) < count {
		return nil, nil, fmt.Errorf("%w: %d elements exceed remaining %d bytes", errors.ErrInvalidFrame, count, len(data))
	}

	var elements []string
	for range count {
		var element string
		if element, data, err = readString(data); err != nil {
			return nil, nil, err
		}
		elements = append(elements, element)
	}
	return elements, data, nil
}

func readString(data []byte) (string, []byte, error) {
	size, n, err := varint.FromUvarint(data)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", errors.ErrInvalidFrame, err)
	}

	data = data[n:]
	if uint64(len(data)) < size {
		return "", nil, fmt.Errorf("%w: length %d exceeds remaining %d bytes", errors.ErrInvalidFrame, size, len(data))
	}
	return string(data[:size]), data[size:], nil
}
