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

package validation

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ListenAddressValidator checks that a named field holds a host:port pair a
// TCP listener can bind. Port 0 is accepted and lets the system pick one.
type ListenAddressValidator struct {
	fieldName string
	value     string
}

var _ Validator = (*ListenAddressValidator)(nil)

// NewListenAddressValidator creates a ListenAddressValidator.
func NewListenAddressValidator(fieldName, value string) *ListenAddressValidator {
	return &ListenAddressValidator{fieldName: fieldName, value: value}
}

// Validate implements Validator.
func (v *ListenAddressValidator) Validate() error {
	host, port, err := net.SplitHostPort(strings.TrimSpace(v.value))
	if err != nil {
		return fmt.Errorf("the [%s] is not a host:port pair: %w", v.fieldName, err)
	}

	if host == "" {
		return fmt.Errorf("the [%s] has no host: %q", v.fieldName, v.value)
	}

	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return fmt.Errorf("the [%s] has an invalid port %q", v.fieldName, port)
	}
	return nil
}
