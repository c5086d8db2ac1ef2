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

package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFO(t *testing.T) {
	t.Run("With order preserved across growth", func(t *testing.T) {
		q := NewFIFO[int]()
		assert.True(t, q.IsEmpty())
		for i := range 100 {
			q.Push(i)
		}
		assert.Equal(t, 100, q.Len())

		head, ok := q.Peek()
		require.True(t, ok)
		assert.Equal(t, 0, head)

		for i := range 100 {
			value, ok := q.Pop()
			require.True(t, ok)
			assert.Equal(t, i, value)
		}
		_, ok = q.Pop()
		assert.False(t, ok)
		_, ok = q.Peek()
		assert.False(t, ok)
	})
	t.Run("With wrap around", func(t *testing.T) {
		q := NewFIFO[string]()
		next := 0
		expected := 0
		for round := range 50 {
			for range round%5 + 1 {
				q.Push(string(rune('a' + next%26)))
				next++
			}
			for range round % 3 {
				value, ok := q.Pop()
				if !ok {
					break
				}
				assert.Equal(t, string(rune('a'+expected%26)), value)
				expected++
			}
		}
		for !q.IsEmpty() {
			value, _ := q.Pop()
			assert.Equal(t, string(rune('a'+expected%26)), value)
			expected++
		}
		assert.Equal(t, next, expected)
	})
}
