package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives.
//
// These are the error primitives used at every trust boundary of the demo
// flows, so invariants like "wrapped domain errors preserve the original
// code" and "errors.Is matches by code" need to stay pinned down.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeConfiguration, Message: "issuer program map missing"}
		s.Equal("issuer program map missing", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeVerification}
		s.Equal("verification_error", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	s.Run("returns wrapped error", func() {
		inner := errors.New("connection refused")
		err := &Error{Code: CodeIssuance, Message: "issuance call failed", Err: inner}
		s.Equal(inner, err.Unwrap())
	})

	s.Run("works with errors.Unwrap", func() {
		inner := errors.New("root cause")
		err := &Error{Code: CodeInternal, Err: inner}
		s.Equal(inner, errors.Unwrap(err))
	})
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		err1 := &Error{Code: CodeAuthentication, Message: "login cancelled"}
		err2 := &Error{Code: CodeAuthentication, Message: "login rejected"}
		s.True(err1.Is(err2))
	})

	s.Run("does not match different codes", func() {
		err1 := &Error{Code: CodeIssuance}
		err2 := &Error{Code: CodeVerification}
		s.False(err1.Is(err2))
	})

	s.Run("errors.Is traverses wrapped chains", func() {
		inner := New(CodeStorage, "state file unreadable")
		outer := Wrap(inner, CodeInternal, "load failed")
		s.True(errors.Is(outer, New(CodeStorage, "anything")))
	})
}

func (s *DomainErrorsSuite) TestWrapPreservesCode() {
	s.Run("wrapping a domain error keeps its code", func() {
		inner := New(CodeAuthentication, "login rejected")
		wrapped := Wrap(inner, CodeInternal, "login flow failed")
		s.True(HasCode(wrapped, CodeAuthentication))
		s.False(HasCode(wrapped, CodeInternal))
	})

	s.Run("wrapping a plain error applies the given code", func() {
		wrapped := Wrap(errors.New("boom"), CodeVerification, "gate call failed")
		s.True(HasCode(wrapped, CodeVerification))
	})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.False(HasCode(errors.New("plain"), CodeInternal))
	s.True(HasCode(New(CodeNotFound, "missing"), CodeNotFound))
}
