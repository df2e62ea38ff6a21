// Package models holds the grievance domain entities shared by the engine,
// stores, and transport layer.
package models

import (
	"time"

	"gramseva/internal/grievance/authority"
	"gramseva/pkg/domain"
)

// Status is the mutually exclusive lifecycle state of a grievance.
type Status string

const (
	StatusPending             Status = "pending"
	StatusInProgress          Status = "in_progress"
	StatusPendingVerification Status = "pending_verification"
	StatusResolved            Status = "resolved"
)

// Priority is carried from intake; the engine does not act on it.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Satisfaction is the reporter's write-once verdict on a resolution.
type Satisfaction string

const (
	Satisfied    Satisfaction = "satisfied"
	NotSatisfied Satisfaction = "not_satisfied"
)

// VoteType classifies a community verification vote.
type VoteType string

const (
	VoteVerify  VoteType = "verify"
	VoteDispute VoteType = "dispute"
)

// Categories is the fixed set of grievance categories accepted at intake.
var Categories = []string{
	"Water Supply",
	"Road & Infrastructure",
	"Electricity",
	"Sanitation & Waste Management",
	"Healthcare",
	"Education",
	"Agriculture Support",
	"Social Welfare Schemes",
	"Other",
}

// ValidCategory reports whether c is one of the enumerated categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Grievance is the central entity. The lifecycle engine is its sole writer;
// all mutations flow through the store's atomic Mutate and pair with exactly
// one audit entry.
type Grievance struct {
	ID     domain.GrievanceID
	Number string // GR + 4-digit year + 5-digit value, unique

	ReporterID     domain.UserID
	ReporterName   string
	ReporterMobile string

	Title       string
	Category    string
	Description string
	VillageName string
	Priority    Priority

	EvidenceFiles      []string
	VoiceRecordingURL  string
	VoiceTranscription string

	Status Status

	AssignedTo         *domain.UserID
	ResolutionTimeline int // days granted at accept time
	DueDate            *time.Time

	ResolvedAt           *time.Time
	ResolutionNotes      string
	ResolutionEvidence   []string
	VerificationDeadline *time.Time

	AuthorityLevel    authority.Level
	EscalationCount   int
	EscalationReason  string
	EscalationDueDate *time.Time
	IsEscalated       bool
	EscalatedAt       *time.Time
	CanResolve        *bool

	Satisfaction   *Satisfaction
	SatisfactionAt *time.Time

	VerifyCount  int
	DisputeCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SatisfactionRecorded reports whether the reporter already responded. Once
// true, community votes no longer change status or tallies.
func (g *Grievance) SatisfactionRecorded() bool {
	return g.Satisfaction != nil
}

// Clone returns a deep copy so store snapshots cannot alias caller state.
func (g *Grievance) Clone() *Grievance {
	c := *g
	c.EvidenceFiles = append([]string(nil), g.EvidenceFiles...)
	c.ResolutionEvidence = append([]string(nil), g.ResolutionEvidence...)
	c.AssignedTo = clonePtr(g.AssignedTo)
	c.DueDate = clonePtr(g.DueDate)
	c.ResolvedAt = clonePtr(g.ResolvedAt)
	c.VerificationDeadline = clonePtr(g.VerificationDeadline)
	c.EscalationDueDate = clonePtr(g.EscalationDueDate)
	c.EscalatedAt = clonePtr(g.EscalatedAt)
	c.CanResolve = clonePtr(g.CanResolve)
	c.Satisfaction = clonePtr(g.Satisfaction)
	c.SatisfactionAt = clonePtr(g.SatisfactionAt)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Verification is one community vote. Immutable once written.
type Verification struct {
	ID          domain.VerificationID
	GrievanceID domain.GrievanceID
	VoterID     domain.UserID
	Type        VoteType
	Status      string // "verified" for verify votes, "disputed" for dispute votes
	Comments    string
	CreatedAt   time.Time
}

// VoteStatus maps a vote type to the record status the original intake used.
func VoteStatus(t VoteType) string {
	if t == VoteDispute {
		return "disputed"
	}
	return "verified"
}

// EscalationRecord is one rung climbed. EscalatedBy is nil for system-driven
// escalations (AutoEscalated true).
type EscalationRecord struct {
	ID            domain.EscalationID
	GrievanceID   domain.GrievanceID
	FromLevel     authority.Level
	ToLevel       authority.Level
	Reason        string
	EscalatedBy   *domain.UserID
	AutoEscalated bool
	CreatedAt     time.Time
}
