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

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
)

// ProtoSerializer encodes proto.Message values inside a frame carrying the
// fully qualified message name, resolved on decode through
// protoregistry.GlobalTypes. It is stateless.
type ProtoSerializer struct{}

var _ Serializer = (*ProtoSerializer)(nil)

// NewProtoSerializer creates a ProtoSerializer.
func NewProtoSerializer() *ProtoSerializer {
	return &ProtoSerializer{}
}

// Serialize implements Serializer. value must be a proto.Message.
func (x *ProtoSerializer) Serialize(value any) ([]byte, error) {
	if value == nil {
		return nil, ErrNilValue
	}

	message, ok := value.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a proto message", ErrTypeNotRegistered, value)
	}

	name := string(proto.MessageName(message))
	if name == "" {
		return nil, fmt.Errorf("%w: %T has no message name", ErrTypeNotRegistered, value)
	}

	return appendFrame(name, proto.Size(message), func(out []byte) ([]byte, error) {
		return proto.MarshalOptions{}.MarshalAppend(out, message)
	})
}

// Deserialize implements Serializer.
func (x *ProtoSerializer) Deserialize(data []byte) (any, error) {
	name, body, err := readFrame(data)
	if err != nil {
		return nil, err
	}

	messageType, err := protoregistry.GlobalTypes.FindMessageByName(protoreflect.FullName(name))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("%w: %s", ErrTypeNotRegistered, name), err)
	}

	message := messageType.New().Interface()
	if err := proto.Unmarshal(body, message); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return message, nil
}
