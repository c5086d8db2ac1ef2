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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/tochemey/actornet/errors"
)

type account struct {
	Owner   string
	Balance int64
	Tags    []string
}

type unknown struct {
	Value int
}

func TestCBORSerializer(t *testing.T) {
	t.Run("With registered struct value", func(t *testing.T) {
		s := NewCBORSerializer(new(account))
		data, err := s.Serialize(account{Owner: "alice", Balance: 42, Tags: []string{"gold"}})
		require.NoError(t, err)

		actual, err := s.Deserialize(data)
		require.NoError(t, err)
		assert.Equal(t, account{Owner: "alice", Balance: 42, Tags: []string{"gold"}}, actual)
	})
	t.Run("With registered struct pointer", func(t *testing.T) {
		s := NewCBORSerializer()
		s.Register(account{})
		data, err := s.Serialize(&account{Owner: "bob"})
		require.NoError(t, err)

		actual, err := s.Deserialize(data)
		require.NoError(t, err)
		require.IsType(t, &account{}, actual)
		assert.Equal(t, "bob", actual.(*account).Owner)
	})
	t.Run("With builtin scalars", func(t *testing.T) {
		s := NewCBORSerializer()
		for _, value := range []any{"wake", []byte{1, 2}, 7, int64(-3), uint64(9), true, 1.5} {
			data, err := s.Serialize(value)
			require.NoError(t, err)
			actual, err := s.Deserialize(data)
			require.NoError(t, err)
			assert.Equal(t, value, actual)
		}
	})
	t.Run("With unregistered type", func(t *testing.T) {
		s := NewCBORSerializer()
		_, err := s.Serialize(unknown{Value: 1})
		assert.ErrorIs(t, err, ErrTypeNotRegistered)

		other := NewCBORSerializer(new(unknown))
		data, err := other.Serialize(unknown{Value: 1})
		require.NoError(t, err)
		_, err = s.Deserialize(data)
		assert.ErrorIs(t, err, ErrTypeNotRegistered)
	})
	t.Run("With nil value", func(t *testing.T) {
		_, err := NewCBORSerializer().Serialize(nil)
		assert.ErrorIs(t, err, ErrNilValue)
	})
	t.Run("With malformed frames", func(t *testing.T) {
		s := NewCBORSerializer()
		_, err := s.Deserialize([]byte{0, 0, 0})
		assert.ErrorIs(t, err, errors.ErrInvalidFrame)

		data, err := s.Serialize("text")
		require.NoError(t, err)
		_, err = s.Deserialize(data[:len(data)-1])
		assert.ErrorIs(t, err, errors.ErrInvalidFrame)

		data[7] = 0xff
		_, err = s.Deserialize(data)
		assert.ErrorIs(t, err, errors.ErrInvalidFrame)
	})
}

func TestProtoSerializer(t *testing.T) {
	t.Run("With proto message", func(t *testing.T) {
		s := NewProtoSerializer()
		data, err := s.Serialize(wrapperspb.String("ping"))
		require.NoError(t, err)

		actual, err := s.Deserialize(data)
		require.NoError(t, err)
		require.IsType(t, &wrapperspb.StringValue{}, actual)
		assert.Equal(t, "ping", actual.(*wrapperspb.StringValue).GetValue())

		data, err = s.Serialize(durationpb.New(time.Second))
		require.NoError(t, err)
		actual, err = s.Deserialize(data)
		require.NoError(t, err)
		assert.Equal(t, time.Second, actual.(*durationpb.Duration).AsDuration())
	})
	t.Run("With non proto value", func(t *testing.T) {
		s := NewProtoSerializer()
		_, err := s.Serialize("ping")
		assert.ErrorIs(t, err, ErrTypeNotRegistered)
		_, err = s.Serialize(nil)
		assert.ErrorIs(t, err, ErrNilValue)
	})
	t.Run("With unknown message name", func(t *testing.T) {
		s := NewProtoSerializer()
		data, err := appendFrame("acme.Missing", 0, func(out []byte) ([]byte, error) { return out, nil })
		require.NoError(t, err)
		_, err = s.Deserialize(data)
		assert.ErrorIs(t, err, ErrTypeNotRegistered)
	})
	t.Run("With truncated frame", func(t *testing.T) {
		_, err := NewProtoSerializer().Deserialize([]byte{1})
		assert.ErrorIs(t, err, errors.ErrInvalidFrame)
	})
}
