package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives.
//
// Justification: these are the error primitives every engine operation reports
// through. Invariants like "wrapped domain errors preserve original code" and
// "errors.Is matches by code" must hold for the transition error contract.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeNotFound, Message: "grievance not found"}
		s.Equal("grievance not found", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeInvalidTransition}
		s.Equal("invalid_transition", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	s.Run("returns wrapped error", func() {
		inner := errors.New("database connection failed")
		err := &Error{Code: CodeStorage, Message: "store unavailable", Err: inner}
		s.Equal(inner, err.Unwrap())
	})

	s.Run("returns nil when no wrapped error", func() {
		err := &Error{Code: CodeNotFound, Message: "not found"}
		s.Nil(err.Unwrap())
	})
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		err1 := &Error{Code: CodeAlreadyResponded, Message: "satisfaction already recorded"}
		err2 := &Error{Code: CodeAlreadyResponded}
		s.True(errors.Is(err1, err2))
	})

	s.Run("does not match different codes", func() {
		err1 := &Error{Code: CodeNotFound}
		err2 := &Error{Code: CodeValidation}
		s.False(errors.Is(err1, err2))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("preserves code of wrapped domain error", func() {
		inner := New(CodeValidation, "reason too short")
		wrapped := Wrap(inner, CodeInternal, "escalate failed")

		var de *Error
		s.Require().True(errors.As(wrapped, &de))
		s.Equal(CodeValidation, de.Code)
		s.Equal("escalate failed", de.Message)
	})

	s.Run("adopts code for plain errors", func() {
		wrapped := Wrap(errors.New("connection reset"), CodeStorage, "save grievance")
		s.True(HasCode(wrapped, CodeStorage))
	})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.Run("finds code through wrapping", func() {
		inner := New(CodeInvalidTransition, "grievance is not pending")
		outer := Wrap(inner, CodeInternal, "accept failed")
		s.True(HasCode(outer, CodeInvalidTransition))
		s.False(HasCode(outer, CodeNotFound))
	})

	s.Run("false for non-domain errors", func() {
		s.False(HasCode(errors.New("plain"), CodeInternal))
	})
}
