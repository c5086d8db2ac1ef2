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

// Package serializer converts payloads and actor state to bytes and back.
//
// The transport and the store never interpret payloads; they rely on the
// Serializer injected through their configuration.
package serializer

import (
	"encoding/binary"
	"errors"
	"fmt"

	actorerrors "github.com/tochemey/actornet/errors"
)

// Serializer encodes values into self-describing bytes. Deserialize must
// return a value with the same dynamic type that was serialized.
// Implementations are safe for concurrent use.
type Serializer interface {
	// Serialize encodes value.
	Serialize(value any) ([]byte, error)
	// Deserialize decodes bytes produced by Serialize.
	Deserialize(data []byte) (any, error)
}

var (
	// ErrNilValue is returned when a nil value is serialized.
	ErrNilValue = errors.New("cannot serialize a nil value")
	// ErrTypeNotRegistered is returned when a type is unknown to the serializer.
	ErrTypeNotRegistered = errors.New("type not registered")
)

const headerSize = 8

// frame layout, integers are big-endian uint32:
//
//	totalLen | nameLen | name | body
func appendFrame(name string, size int, appendBody func([]byte) ([]byte, error)) ([]byte, error) {
	out := make([]byte, headerSize, headerSize+len(name)+size)
	binary.BigEndian.PutUint32(out[4:8], uint32(len(name)))
	out = append(out, name...)

	out, err := appendBody(out)
	if err != nil {
		return nil, err
	}

	binary.BigEndian.PutUint32(out[0:4], uint32(len(out)))
	return out, nil
}

func readFrame(data []byte) (string, []byte, error) {
	if len(data) < headerSize {
		return "", nil, fmt.Errorf("%w: %d bytes is shorter than the header", actorerrors.ErrInvalidFrame, len(data))
	}

	total := int(binary.BigEndian.Uint32(data[0:4]))
	if total < headerSize || total > len(data) {
		return "", nil, fmt.Errorf("%w: total length %d does not match %d bytes", actorerrors.ErrInvalidFrame, total, len(data))
	}

	nameLen := int(binary.BigEndian.Uint32(data[4:8]))
	if headerSize+nameLen > total {
		return "", nil, fmt.Errorf("%w: name length %d overflows frame", actorerrors.ErrInvalidFrame, nameLen)
	}

	return string(data[headerSize : headerSize+nameLen]), data[headerSize+nameLen : total], nil
}
