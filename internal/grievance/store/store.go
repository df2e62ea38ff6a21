// Package store persists grievances together with their vote, escalation, and
// audit records. Implementations must commit a mutation and its changeset as
// one atomic unit: no state change without its audit entry, no orphan entry
// without the state change.
package store

import (
	"context"
	"time"

	"gramseva/internal/audit"
	"gramseva/internal/grievance/models"
	"gramseva/pkg/domain"
)

// Changeset is everything a single engine operation persists besides the
// grievance row itself. Audit is required for every mutation; the other
// records accompany votes and escalations.
type Changeset struct {
	Audit        *audit.Entry
	Verification *models.Verification
	Escalation   *models.EscalationRecord
}

// MutateFunc inspects and updates a grievance snapshot. Returning an error
// aborts the mutation with nothing persisted. Returning a nil changeset marks
// the operation a no-op: the snapshot is discarded and current state returned.
type MutateFunc func(g *models.Grievance) (*Changeset, error)

// Store is the persistence contract the lifecycle engine and query service
// depend on.
//
// Error contract: Get and Mutate return sentinel.ErrNotFound (wrapped) for
// unknown IDs; Create returns sentinel.ErrAlreadyUsed when the grievance
// number is taken. Mutate serializes concurrent calls per grievance, so
// read-modify-write tallies never lose increments; operations on different
// grievances do not contend.
type Store interface {
	Create(ctx context.Context, g *models.Grievance, entry *audit.Entry) error
	Get(ctx context.Context, id domain.GrievanceID) (*models.Grievance, error)
	Mutate(ctx context.Context, id domain.GrievanceID, fn MutateFunc) (*models.Grievance, error)

	// Listings, newest-first. The query service derives its projections from
	// these with no side effects.
	List(ctx context.Context) ([]*models.Grievance, error)
	ListByReporter(ctx context.Context, reporterID domain.UserID) ([]*models.Grievance, error)
	ListByAssignee(ctx context.Context, officialID domain.UserID) ([]*models.Grievance, error)
	ListAssignedOpen(ctx context.Context) ([]*models.Grievance, error)
	ListPendingVerification(ctx context.Context) ([]*models.Grievance, error)
	ListDisputed(ctx context.Context) ([]*models.Grievance, error)
	ListOverdue(ctx context.Context, now time.Time) ([]*models.Grievance, error)

	ListVerifications(ctx context.Context, id domain.GrievanceID) ([]models.Verification, error)
	ListEscalations(ctx context.Context, id domain.GrievanceID) ([]models.EscalationRecord, error)
	AuditTrail(ctx context.Context, id domain.GrievanceID) ([]audit.Entry, error)
}
