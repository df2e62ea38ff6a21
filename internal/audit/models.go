// Package audit implements the append-only event trail for grievances.
//
// Every observable grievance mutation is paired with exactly one entry here,
// committed in the same atomic unit as the mutation itself (see the grievance
// store). Entries are never updated or deleted.
package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"gramseva/pkg/domain"
)

// EventType enumerates the state-affecting events a grievance can record.
type EventType string

const (
	EventGrievanceSubmitted    EventType = "GRIEVANCE_SUBMITTED"
	EventStatusUpdated         EventType = "STATUS_UPDATED"
	EventTaskAccepted          EventType = "TASK_ACCEPTED"
	EventUserSatisfaction      EventType = "USER_SATISFACTION"
	EventCommunityVerification EventType = "COMMUNITY_VERIFICATION"
	EventGrievanceEscalated    EventType = "GRIEVANCE_ESCALATED"
)

// Payload is the tagged union of per-event data. Each variant carries its own
// strongly-typed fields so entries stay machine-checkable instead of being
// opaque JSON blobs.
type Payload interface {
	EventType() EventType
}

// SubmittedPayload records the creation of a grievance.
type SubmittedPayload struct {
	Number   string `json:"grievanceNumber"`
	Category string `json:"category"`
}

func (SubmittedPayload) EventType() EventType { return EventGrievanceSubmitted }

// StatusUpdatedPayload records a plain status transition.
type StatusUpdatedPayload struct {
	Number    string `json:"grievanceNumber"`
	NewStatus string `json:"newStatus"`
}

func (StatusUpdatedPayload) EventType() EventType { return EventStatusUpdated }

// TaskAcceptedPayload records an official taking ownership.
type TaskAcceptedPayload struct {
	Number       string    `json:"grievanceNumber"`
	OfficialID   string    `json:"officialId"`
	TimelineDays int       `json:"resolutionTimeline"`
	DueDate      time.Time `json:"dueDate"`
}

func (TaskAcceptedPayload) EventType() EventType { return EventTaskAccepted }

// SatisfactionPayload records the reporter's one-time verdict.
type SatisfactionPayload struct {
	Number       string `json:"grievanceNumber"`
	Satisfaction string `json:"satisfaction"`
	NewStatus    string `json:"newStatus"`
}

func (SatisfactionPayload) EventType() EventType { return EventUserSatisfaction }

// VerificationPayload records a community verify/dispute vote.
type VerificationPayload struct {
	Number     string `json:"grievanceNumber"`
	VoteType   string `json:"verificationType"`
	VoteStatus string `json:"status"`
}

func (VerificationPayload) EventType() EventType { return EventCommunityVerification }

// EscalatedPayload records one rung climbed (or re-climbed at the top tier).
type EscalatedPayload struct {
	Number        string `json:"grievanceNumber"`
	FromLevel     string `json:"fromLevel"`
	ToLevel       string `json:"toLevel"`
	Reason        string `json:"reason"`
	AutoEscalated bool   `json:"autoEscalated"`
}

func (EscalatedPayload) EventType() EventType { return EventGrievanceEscalated }

// Entry is one immutable audit record. Ref is the 64-hex-character chain hash
// assigned at append time; it is unique across the system.
type Entry struct {
	ID          domain.AuditEntryID
	GrievanceID domain.GrievanceID
	Type        EventType
	Payload     Payload
	Ref         string
	OccurredAt  time.Time
}

// NewEntry builds an unappended entry for the given grievance. The store
// assigns Ref when the entry is committed.
func NewEntry(grievanceID domain.GrievanceID, payload Payload, occurredAt time.Time) *Entry {
	return &Entry{
		ID:          domain.NewAuditEntryID(),
		GrievanceID: grievanceID,
		Type:        payload.EventType(),
		Payload:     payload,
		OccurredAt:  occurredAt.UTC(),
	}
}

// UnmarshalPayload decodes raw payload bytes into the variant matching the
// event type. Used by stores reading entries back from persistence.
func UnmarshalPayload(t EventType, data []byte) (Payload, error) {
	var p Payload
	switch t {
	case EventGrievanceSubmitted:
		p = &SubmittedPayload{}
	case EventStatusUpdated:
		p = &StatusUpdatedPayload{}
	case EventTaskAccepted:
		p = &TaskAcceptedPayload{}
	case EventUserSatisfaction:
		p = &SatisfactionPayload{}
	case EventCommunityVerification:
		p = &VerificationPayload{}
	case EventGrievanceEscalated:
		p = &EscalatedPayload{}
	default:
		return nil, fmt.Errorf("unknown audit event type %q", t)
	}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", t, err)
	}
	return deref(p), nil
}

func deref(p Payload) Payload {
	switch v := p.(type) {
	case *SubmittedPayload:
		return *v
	case *StatusUpdatedPayload:
		return *v
	case *TaskAcceptedPayload:
		return *v
	case *SatisfactionPayload:
		return *v
	case *VerificationPayload:
		return *v
	case *EscalatedPayload:
		return *v
	default:
		return p
	}
}
