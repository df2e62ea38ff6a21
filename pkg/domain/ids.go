// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "gramseva/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a UserID where a GrievanceID is expected.
type (
	GrievanceID    uuid.UUID
	UserID         uuid.UUID
	VerificationID uuid.UUID
	EscalationID   uuid.UUID
	AuditEntryID   uuid.UUID
)

// New functions - generate fresh identifiers.

func NewGrievanceID() GrievanceID       { return GrievanceID(uuid.New()) }
func NewUserID() UserID                 { return UserID(uuid.New()) }
func NewVerificationID() VerificationID { return VerificationID(uuid.New()) }
func NewEscalationID() EscalationID     { return EscalationID(uuid.New()) }
func NewAuditEntryID() AuditEntryID     { return AuditEntryID(uuid.New()) }

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseGrievanceID(s string) (GrievanceID, error) {
	id, err := parseUUID(s, "grievance ID")
	return GrievanceID(id), err
}

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s, "user ID")
	return UserID(id), err
}

func ParseVerificationID(s string) (VerificationID, error) {
	id, err := parseUUID(s, "verification ID")
	return VerificationID(id), err
}

func ParseEscalationID(s string) (EscalationID, error) {
	id, err := parseUUID(s, "escalation ID")
	return EscalationID(id), err
}

// String methods - for logging and debugging.

func (id GrievanceID) String() string    { return uuid.UUID(id).String() }
func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id VerificationID) String() string { return uuid.UUID(id).String() }
func (id EscalationID) String() string   { return uuid.UUID(id).String() }
func (id AuditEntryID) String() string   { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id GrievanceID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id VerificationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id EscalationID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id AuditEntryID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s, kind string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid "+kind)
	}
	return id, nil
}
