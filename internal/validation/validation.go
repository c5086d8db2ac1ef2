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

// Package validation holds the validators behind the Validate methods of the
// store, runner, checkpoint and transport configurations. A Chain gathers
// the checks of one configuration and reports its violations as one error.
package validation

import (
	"go.uber.org/multierr"
)

// Validator is implemented by anything able to check itself.
type Validator interface {
	Validate() error
}

// Chain runs a list of validators in the order they were added.
// The zero mode reports every violation; FailFast stops at the first one.
type Chain struct {
	failFast   bool
	validators []Validator
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// New creates an empty Chain.
func New(opts ...ChainOption) *Chain {
	chain := new(Chain)
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// FailFast makes the chain return the first violation only.
func FailFast() ChainOption {
	return func(c *Chain) { c.failFast = true }
}

// AllErrors makes the chain combine every violation into one error.
func AllErrors() ChainOption {
	return func(c *Chain) { c.failFast = false }
}

// AddValidator appends v. A nil validator is skipped at validation time.
func (c *Chain) AddValidator(v Validator) *Chain {
	c.validators = append(c.validators, v)
	return c
}

// AddAssertion appends a check failing with message when isTrue is false.
func (c *Chain) AddAssertion(isTrue bool, message string) *Chain {
	return c.AddValidator(NewBooleanValidator(isTrue, message))
}

// Validate runs the chain. Each call starts from a clean slate, so a chain
// can be validated more than once.
func (c *Chain) Validate() error {
	var violations error
	for _, v := range c.validators {
		if v == nil {
			continue
		}

		err := v.Validate()
		if err == nil {
			continue
		}

		if c.failFast {
			return err
		}
		violations = multierr.Append(violations, err)
	}
	return violations
}
