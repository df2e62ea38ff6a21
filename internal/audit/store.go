package audit

import (
	"context"

	"gramseva/pkg/domain"
)

// Store is the read side of the audit trail. Appends happen inside the
// grievance store's atomic mutation unit, never through this interface.
type Store interface {
	// ListByGrievance returns entries for a grievance in reverse-chronological order.
	ListByGrievance(ctx context.Context, grievanceID domain.GrievanceID) ([]Entry, error)
}
