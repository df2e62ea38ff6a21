// Package votes holds the community-verification tally policy.
package votes

import (
	"gramseva/internal/grievance/models"
)

// VerifyThreshold is the number of verify votes that closes a grievance.
// The engine consults this constant instead of hardcoding the policy.
const VerifyThreshold = 3

// Outcome is the result of applying one community vote.
type Outcome struct {
	VerifyCount   int
	DisputeCount  int
	Status        models.Status
	StatusChanged bool
}

// Apply tallies one vote against the current counts and decides the status.
// A dispute always forces in_progress in the call that records it, regardless
// of accumulated verify votes; a verify closes the grievance once the
// threshold is reached; otherwise the status is untouched. Counts are never
// decremented and no vote is dropped.
func Apply(status models.Status, verifyCount, disputeCount int, vote models.VoteType) Outcome {
	out := Outcome{
		VerifyCount:  verifyCount,
		DisputeCount: disputeCount,
		Status:       status,
	}

	switch vote {
	case models.VoteDispute:
		out.DisputeCount++
		if status != models.StatusInProgress {
			out.Status = models.StatusInProgress
			out.StatusChanged = true
		}
	case models.VoteVerify:
		out.VerifyCount++
		if out.VerifyCount >= VerifyThreshold && status != models.StatusResolved {
			out.Status = models.StatusResolved
			out.StatusChanged = true
		}
	}
	return out
}
