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

package staging

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/actornet/errors"
)

func TestBuffers(t *testing.T) {
	t.Run("With write then read round trip", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(1, 2))
		for _, size := range []int{0, 1, 7, 64, 1000, 4096} {
			payload := make([]byte, size)
			for i := range payload {
				payload[i] = byte(rng.IntN(256))
			}

			writer := New(WriteFirst, 0)
			reader := New(ReadFirst, 0)
			require.NoError(t, writer.StartWriting(payload))
			require.NoError(t, reader.StartReading())

			scratch := make([]byte, 13)
			for !writer.IsEndOfWrite() {
				n, err := writer.GetWriteBlock(scratch)
				require.NoError(t, err)
				// simulate a partial socket write
				written := max(1, n/2)
				require.NoError(t, reader.AddReadBlock(scratch[:written]))
				require.NoError(t, writer.AdjustWritePointer(written))
			}
			require.NoError(t, writer.FinishWriting())

			received, err := reader.FinishReading()
			require.NoError(t, err)
			assert.True(t, bytes.Equal(payload, received), "size %d", size)
		}
	})
	t.Run("With read first cycle", func(t *testing.T) {
		buffers := New(ReadFirst, 0)
		assert.Equal(t, ReadFirst, buffers.Mode())
		require.NoError(t, buffers.StartReading())
		require.NoError(t, buffers.AddReadBlock([]byte("ab")))
		require.NoError(t, buffers.AddReadBlock([]byte("c")))
		data, err := buffers.FinishReading()
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), data)
		assert.False(t, buffers.IsDone())

		require.NoError(t, buffers.StartWriting([]byte{0}))
		scratch := make([]byte, 4)
		n, err := buffers.GetWriteBlock(scratch)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.False(t, buffers.IsEndOfWrite())
		require.NoError(t, buffers.AdjustWritePointer(n))
		assert.True(t, buffers.IsEndOfWrite())
		require.NoError(t, buffers.FinishWriting())
		assert.True(t, buffers.IsDone())
		assert.Equal(t, WriteDone, buffers.State())
	})
	t.Run("With write first cycle", func(t *testing.T) {
		buffers := New(WriteFirst, 0)
		require.NoError(t, buffers.StartWriting([]byte("req")))
		require.NoError(t, buffers.AdjustWritePointer(3))
		require.NoError(t, buffers.FinishWriting())
		assert.False(t, buffers.IsDone())

		require.NoError(t, buffers.StartReading())
		require.NoError(t, buffers.AddReadBlock([]byte{0}))
		ack, err := buffers.FinishReading()
		require.NoError(t, err)
		assert.Equal(t, []byte{0}, ack)
		assert.True(t, buffers.IsDone())
	})
	t.Run("With illegal transitions", func(t *testing.T) {
		readFirst := New(ReadFirst, 0)
		assert.ErrorIs(t, readFirst.StartWriting(nil), errors.ErrInvalidState)
		assert.ErrorIs(t, readFirst.AddReadBlock(nil), errors.ErrInvalidState)
		_, err := readFirst.FinishReading()
		assert.ErrorIs(t, err, errors.ErrInvalidState)
		_, err = readFirst.GetWriteBlock(make([]byte, 1))
		assert.ErrorIs(t, err, errors.ErrInvalidState)
		assert.ErrorIs(t, readFirst.AdjustWritePointer(0), errors.ErrInvalidState)
		assert.ErrorIs(t, readFirst.FinishWriting(), errors.ErrInvalidState)

		writeFirst := New(WriteFirst, 0)
		assert.ErrorIs(t, writeFirst.StartReading(), errors.ErrInvalidState)
		require.NoError(t, writeFirst.StartWriting([]byte("x")))
		assert.ErrorIs(t, writeFirst.StartWriting([]byte("x")), errors.ErrInvalidState)
		assert.ErrorIs(t, writeFirst.AdjustWritePointer(2), errors.ErrInvalidState)

		var stateErr *errors.InvalidStateError
		err = writeFirst.StartReading()
		require.ErrorAs(t, err, &stateErr)
		assert.Contains(t, err.Error(), "StartReading not allowed in state WRITE_FIRST/WRITE")
	})
	t.Run("With size limit", func(t *testing.T) {
		reader := New(ReadFirst, 4)
		require.NoError(t, reader.StartReading())
		require.NoError(t, reader.AddReadBlock([]byte("abc")))
		assert.ErrorIs(t, reader.AddReadBlock([]byte("de")), errors.ErrMessageTooLarge)

		writer := New(WriteFirst, 4)
		assert.ErrorIs(t, writer.StartWriting([]byte("abcde")), errors.ErrMessageTooLarge)
		assert.NoError(t, writer.StartWriting([]byte("abcd")))
	})
}
