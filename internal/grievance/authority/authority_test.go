package authority

import (
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "gramseva/pkg/domain-errors"
)

// AuthoritySuite tests the ladder function.
//
// Justification: pure and tiny, but every escalation goes through it and the
// saturation rule at the top rung is a hard invariant.
type AuthoritySuite struct {
	suite.Suite
}

func TestAuthoritySuite(t *testing.T) {
	suite.Run(t, new(AuthoritySuite))
}

func (s *AuthoritySuite) TestNextAdvancesOneRung() {
	s.Equal(Block, Next(Panchayat))
	s.Equal(District, Next(Block))
	s.Equal(State, Next(District))
}

func (s *AuthoritySuite) TestNextSaturatesAtState() {
	s.Equal(State, Next(State))
	// Repeated escalation at the top never regresses.
	l := State
	for i := 0; i < 4; i++ {
		l = Next(l)
	}
	s.Equal(State, l)
}

func (s *AuthoritySuite) TestParse() {
	s.Run("accepts ladder levels", func() {
		for _, raw := range []string{"panchayat", "block", "district", "state"} {
			l, err := Parse(raw)
			s.Require().NoError(err)
			s.True(l.Valid())
		}
	})

	s.Run("rejects unknown levels", func() {
		_, err := Parse("national")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *AuthoritySuite) TestIsTop() {
	s.True(State.IsTop())
	s.False(District.IsTop())
	s.False(Panchayat.IsTop())
}
