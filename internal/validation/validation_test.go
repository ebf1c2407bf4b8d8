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
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/multierr"
)

type validationTestSuite struct {
	suite.Suite
}

// In order for 'go test' to run this suite, we need to create
// a normal test function and pass our suite to suite.Run
func TestValidation(t *testing.T) {
	suite.Run(t, new(validationTestSuite))
}

func (s *validationTestSuite) TestNewChain() {
	s.Run("new chain without option", func() {
		chain := New()
		s.Assert().NotNil(chain)
		s.Assert().False(chain.failFast)
	})
	s.Run("new chain with options", func() {
		s.Assert().True(New(FailFast()).failFast)
		s.Assert().False(New(FailFast(), AllErrors()).failFast)
	})
}

func (s *validationTestSuite) TestValidate() {
	first := errors.New("first")
	second := errors.New("second")

	s.Run("with no violation", func() {
		err := New().
			AddAssertion(true, first).
			AddValidator(ValidatorFunc(func() error { return nil })).
			Validate()
		s.Assert().NoError(err)
	})
	s.Run("with all errors", func() {
		err := New().
			AddAssertion(false, first).
			AddValidator(ValidatorFunc(func() error { return second })).
			Validate()
		s.Assert().ErrorIs(err, first)
		s.Assert().ErrorIs(err, second)
		s.Assert().Len(multierr.Errors(err), 2)
	})
	s.Run("with fail fast", func() {
		err := New(FailFast()).
			AddAssertion(false, first).
			AddValidator(ValidatorFunc(func() error { return second })).
			Validate()
		s.Assert().ErrorIs(err, first)
		s.Assert().NotErrorIs(err, second)
	})
	s.Run("with repeated validation", func() {
		chain := New().AddAssertion(false, first)
		s.Assert().Len(multierr.Errors(chain.Validate()), 1)
		s.Assert().Len(multierr.Errors(chain.Validate()), 1)
	})
}
