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

package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/actornet/errors"
)

func TestAddress(t *testing.T) {
	t.Run("With escaping round trip", func(t *testing.T) {
		cases := [][]string{
			{"runtime"},
			{"runtime", "127.0.0.1:9000", "orders"},
			{`a\b`, `c:d\:e`, `\`, ":"},
			{""},
			{"", "", "x"},
		}
		for _, elements := range cases {
			addr := New(elements...)
			parsed, err := Parse(addr.String())
			require.NoError(t, err)
			assert.True(t, addr.Equals(parsed), "elements %q", elements)
			assert.Equal(t, elements, parsed.Elements())
		}
	})
	t.Run("With textual form", func(t *testing.T) {
		addr := New("runtime", "127.0.0.1:9000", `x\y`)
		assert.Equal(t, `runtime:127.0.0.1\:9000:x\\y`, addr.String())
		assert.Equal(t, 3, addr.Size())
		assert.Equal(t, "127.0.0.1:9000", addr.Element(1))
	})
	t.Run("With invalid text", func(t *testing.T) {
		_, err := Parse(`runtime\`)
		assert.ErrorIs(t, err, errors.ErrInvalidAddress)

		_, err = Parse(`run\time`)
		assert.ErrorIs(t, err, errors.ErrInvalidAddress)

		_, err = Parse("bad\x01char")
		assert.ErrorIs(t, err, errors.ErrInvalidAddress)

		assert.Panics(t, func() { MustParse("\x7f") })
	})
	t.Run("With validation", func(t *testing.T) {
		assert.ErrorIs(t, Address{}.Validate(), errors.ErrInvalidAddress)
		assert.ErrorIs(t, New("ok", "caf\xc3\xa9").Validate(), errors.ErrInvalidAddress)
		assert.NoError(t, New("ok", " ~").Validate())
		assert.True(t, Address{}.IsZero())
	})
	t.Run("With prefixes", func(t *testing.T) {
		prefix := New("runtime", "host:1")
		full := prefix.Append("orders", "42")

		assert.True(t, prefix.IsPrefixOf(full))
		assert.True(t, full.IsPrefixOf(full))
		assert.False(t, full.IsPrefixOf(prefix))
		assert.False(t, New("other").IsPrefixOf(full))

		suffix, ok := full.RemovePrefix(prefix)
		require.True(t, ok)
		assert.Equal(t, []string{"orders", "42"}, suffix.Elements())
		assert.True(t, prefix.AppendAddress(suffix).Equals(full))
		assert.True(t, full.Prefix(3).Equals(prefix.Append("orders")))

		empty, ok := prefix.RemovePrefix(prefix)
		require.True(t, ok)
		assert.True(t, empty.IsZero())

		_, ok = prefix.RemovePrefix(full)
		assert.False(t, ok)
	})
	t.Run("With immutability", func(t *testing.T) {
		elements := []string{"a", "b"}
		addr := New(elements...)
		elements[0] = "changed"
		addr.Elements()[1] = "changed"
		assert.Equal(t, "a:b", addr.String())

		base := New("a")
		left := base.Append("l")
		right := base.Append("r")
		assert.Equal(t, "a:l", left.String())
		assert.Equal(t, "a:r", right.String())
	})
	t.Run("With text marshaling", func(t *testing.T) {
		addr := New("runtime", "h:1")
		text, err := addr.MarshalText()
		require.NoError(t, err)

		var decoded Address
		require.NoError(t, decoded.UnmarshalText(text))
		assert.True(t, addr.Equals(decoded))
		assert.Error(t, decoded.UnmarshalText([]byte(`\`)))
	})
}
