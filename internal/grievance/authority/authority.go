// Package authority models the fixed escalation ladder a grievance climbs.
package authority

import (
	dErrors "gramseva/pkg/domain-errors"
)

// Level is one rung of the authority ladder.
type Level string

const (
	Panchayat Level = "panchayat"
	Block     Level = "block"
	District  Level = "district"
	State     Level = "state"
)

// ladder is ordered lowest to highest. Levels only ever advance forward and
// saturate at the top.
var ladder = []Level{Panchayat, Block, District, State}

// Next returns the level one rung above the given one, saturating at State.
// Escalating an already-State grievance keeps the level unchanged; the caller
// still records the escalation itself.
func Next(current Level) Level {
	for i, l := range ladder {
		if l == current {
			if i == len(ladder)-1 {
				return l
			}
			return ladder[i+1]
		}
	}
	// Unknown levels never advance; Parse at the boundary prevents them.
	return current
}

// Parse validates a raw level string from a trust boundary.
func Parse(s string) (Level, error) {
	for _, l := range ladder {
		if Level(s) == l {
			return l, nil
		}
	}
	return "", dErrors.New(dErrors.CodeValidation, "unknown authority level")
}

// Valid reports whether l is one of the ladder levels.
func (l Level) Valid() bool {
	for _, v := range ladder {
		if l == v {
			return true
		}
	}
	return false
}

// IsTop reports whether l is the last rung.
func (l Level) IsTop() bool {
	return l == ladder[len(ladder)-1]
}
