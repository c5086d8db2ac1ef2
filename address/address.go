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

// Package address provides hierarchical actor addresses.
//
// An address is an ordered list of printable ASCII elements. Its textual
// form joins the elements with ':' and escapes ':' and '\' inside an
// element with a leading '\':
//
//	runtime:127.0.0.1\:9000:orders:42
//
// Addresses are immutable values. Equality is structural and the textual
// form is suitable as a map key.
package address

import (
	"fmt"
	"strings"

	"github.com/tochemey/actornet/errors"
	"github.com/tochemey/actornet/internal/validation"
)

const (
	separator = ':'
	escape    = '\\'
)

// Address identifies an actor, a transport or any addressable component.
type Address struct {
	elements []string
}

var _ validation.Validator = Address{}

// New creates an Address from the given elements.
// The elements are copied and not validated; call Validate on the result.
func New(elements ...string) Address {
	return Address{elements: append([]string(nil), elements...)}
}

// Parse decodes the textual form of an address.
func Parse(text string) (Address, error) {
	var (
		elements []string
		current  strings.Builder
	)

	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch ch {
		case escape:
			if i+1 >= len(text) {
				return Address{}, errors.NewErrInvalidAddress(fmt.Errorf("dangling escape in %q", text))
			}
			next := text[i+1]
			if next != escape && next != separator {
				return Address{}, errors.NewErrInvalidAddress(fmt.Errorf("unknown escape \\%c in %q", next, text))
			}
			current.WriteByte(next)
			i++
		case separator:
			elements = append(elements, current.String())
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	elements = append(elements, current.String())

	addr := Address{elements: elements}
	if err := addr.Validate(); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// MustParse is like Parse but panics when text is not a valid address.
func MustParse(text string) Address {
	addr, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return addr
}

// Size returns the number of elements.
func (a Address) Size() int {
	return len(a.elements)
}

// Element returns the element at index i.
func (a Address) Element(i int) string {
	return a.elements[i]
}

// Elements returns a copy of the elements.
func (a Address) Elements() []string {
	return append([]string(nil), a.elements...)
}

// IsZero reports whether the address has no elements.
func (a Address) IsZero() bool {
	return len(a.elements) == 0
}

// Equals reports whether both addresses have the same elements.
func (a Address) Equals(other Address) bool {
	if len(a.elements) != len(other.elements) {
		return false
	}
	for i := range a.elements {
		if a.elements[i] != other.elements[i] {
			return false
		}
	}
	return true
}

// IsPrefixOf reports whether the elements of a are the leading elements of other.
// An address is a prefix of itself.
func (a Address) IsPrefixOf(other Address) bool {
	if len(a.elements) > len(other.elements) {
		return false
	}
	for i := range a.elements {
		if a.elements[i] != other.elements[i] {
			return false
		}
	}
	return true
}

// Prefix returns the address made of the first n elements.
func (a Address) Prefix(n int) Address {
	return New(a.elements[:n]...)
}

// RemovePrefix strips prefix from the address. The returned address is zero
// when a equals prefix. ok is false when prefix is not a prefix of a.
func (a Address) RemovePrefix(prefix Address) (Address, bool) {
	if !prefix.IsPrefixOf(a) {
		return Address{}, false
	}
	return New(a.elements[len(prefix.elements):]...), true
}

// Append returns a new address with elements added after the receiver's.
func (a Address) Append(elements ...string) Address {
	out := make([]string, 0, len(a.elements)+len(elements))
	out = append(out, a.elements...)
	out = append(out, elements...)
	return Address{elements: out}
}

// AppendAddress returns a new address made of the receiver followed by suffix.
func (a Address) AppendAddress(suffix Address) Address {
	return a.Append(suffix.elements...)
}

// Validate checks that the address has at least one element and that every
// character lies in the printable ASCII range.
func (a Address) Validate() error {
	if len(a.elements) == 0 {
		return errors.NewErrInvalidAddress(fmt.Errorf("address has no elements"))
	}

	for i, element := range a.elements {
		for j := 0; j < len(element); j++ {
			if ch := element[j]; ch < 0x20 || ch > 0x7E {
				return errors.NewErrInvalidAddress(fmt.Errorf("element %d has non printable character 0x%02x", i, ch))
			}
		}
	}
	return nil
}

// String returns the escaped textual form of the address.
func (a Address) String() string {
	var sb strings.Builder
	for i, element := range a.elements {
		if i > 0 {
			sb.WriteByte(separator)
		}
		for j := 0; j < len(element); j++ {
			ch := element[j]
			if ch == separator || ch == escape {
				sb.WriteByte(escape)
			}
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a Address) MarshalBinary() ([]byte, error) {
	return a.MarshalText()
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *Address) UnmarshalBinary(data []byte) error {
	return a.UnmarshalText(data)
}
