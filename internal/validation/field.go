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
	"strings"
	"time"
)

// EmptyStringValidator checks that a named string field is set
type EmptyStringValidator struct {
	fieldName  string
	fieldValue string
}

var _ Validator = (*EmptyStringValidator)(nil)

// NewEmptyStringValidator creates an instance of EmptyStringValidator
func NewEmptyStringValidator(fieldName, fieldValue string) *EmptyStringValidator {
	return &EmptyStringValidator{fieldName: fieldName, fieldValue: fieldValue}
}

// Validate implements validation.Validator.
func (v *EmptyStringValidator) Validate() error {
	if strings.TrimSpace(v.fieldValue) == "" {
		return fmt.Errorf("the [%s] is required", v.fieldName)
	}
	return nil
}

// NonNegativeDurationValidator checks that a named duration is not negative
type NonNegativeDurationValidator struct {
	fieldName string
	value     time.Duration
}

var _ Validator = (*NonNegativeDurationValidator)(nil)

// NewNonNegativeDurationValidator creates an instance of NonNegativeDurationValidator
func NewNonNegativeDurationValidator(fieldName string, value time.Duration) *NonNegativeDurationValidator {
	return &NonNegativeDurationValidator{fieldName: fieldName, value: value}
}

// Validate implements validation.Validator.
func (v *NonNegativeDurationValidator) Validate() error {
	if v.value < 0 {
		return fmt.Errorf("the [%s] must not be negative: %s", v.fieldName, v.value)
	}
	return nil
}
