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

package serializer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/tochemey/actornet/internal/types"
)

// pointer values are tagged so Deserialize hands back the same shape.
const pointerMark = "*"

var (
	cborEncOptions = cbor.EncOptions{
		Sort:        cbor.SortNone,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeUnixDynamic,
	}
	cborDecOptions = cbor.DecOptions{
		MaxNestedLevels: 64,
		IndefLength:     cbor.IndefLengthForbidden,
		UTF8:            cbor.UTF8DecodeInvalid,
	}
)

// CBORSerializer encodes registered Go types with CBOR inside a frame that
// carries the type name. Common scalar types are registered on creation.
//
//	s := serializer.NewCBORSerializer()
//	s.Register(new(Deposit), new(Account))
type CBORSerializer struct {
	registry *types.Registry
	encMode  cbor.EncMode
	decMode  cbor.DecMode
}

var _ Serializer = (*CBORSerializer)(nil)

// NewCBORSerializer creates a CBORSerializer registering the given values.
func NewCBORSerializer(values ...any) *CBORSerializer {
	encMode, _ := cborEncOptions.EncMode()
	decMode, _ := cborDecOptions.DecMode()

	registry := types.NewRegistry()
	registry.Register("", []byte(nil), 0, int64(0), uint64(0), false, float64(0))
	registry.Register(values...)

	return &CBORSerializer{
		registry: registry,
		encMode:  encMode,
		decMode:  decMode,
	}
}

// Register adds types the serializer can handle.
func (s *CBORSerializer) Register(values ...any) {
	s.registry.Register(values...)
}

// Serialize implements Serializer.
func (s *CBORSerializer) Serialize(value any) ([]byte, error) {
	name, isPointer := types.Name(value)
	if name == "" {
		return nil, ErrNilValue
	}

	if _, ok := s.registry.TypeOf(name); !ok {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotRegistered, name)
	}

	body, err := s.encMode.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", name, err)
	}

	if isPointer {
		name = pointerMark + name
	}

	return appendFrame(name, len(body), func(out []byte) ([]byte, error) {
		return append(out, body...), nil
	})
}

// Deserialize implements Serializer.
func (s *CBORSerializer) Deserialize(data []byte) (any, error) {
	name, body, err := readFrame(data)
	if err != nil {
		return nil, err
	}

	isPointer := strings.HasPrefix(name, pointerMark)
	name = strings.TrimPrefix(name, pointerMark)

	typ, ok := s.registry.TypeOf(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotRegistered, name)
	}

	ptr := reflect.New(typ)
	if err := s.decMode.Unmarshal(body, ptr.Interface()); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to decode %s", name), err)
	}

	if isPointer {
		return ptr.Interface(), nil
	}
	return ptr.Elem().Interface(), nil
}
