package models

import (
	"regexp"
	"strings"

	dErrors "gramseva/pkg/domain-errors"
)

// Intake validation bounds. The engine re-validates what it depends on; these
// keep malformed submissions out at the transport boundary.
const (
	MinTitleLength       = 10
	MinDescriptionLength = 50
	MinReasonLength      = 100
)

var mobilePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// CreateGrievanceRequest is the intake payload for a new grievance.
type CreateGrievanceRequest struct {
	Title              string   `json:"title"`
	Category           string   `json:"category"`
	Description        string   `json:"description"`
	VillageName        string   `json:"villageName"`
	Priority           string   `json:"priority,omitempty"`
	ReporterID         string   `json:"reporterId"`
	FullName           string   `json:"fullName"`
	MobileNumber       string   `json:"mobileNumber"`
	EvidenceFiles      []string `json:"evidenceFiles,omitempty"`
	VoiceRecordingURL  string   `json:"voiceRecordingUrl,omitempty"`
	VoiceTranscription string   `json:"voiceTranscription,omitempty"`
}

func (r *CreateGrievanceRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.VillageName = strings.TrimSpace(r.VillageName)
	r.FullName = strings.TrimSpace(r.FullName)
	r.MobileNumber = strings.TrimSpace(r.MobileNumber)
	if r.Priority == "" {
		r.Priority = string(PriorityMedium)
	}
}

func (r *CreateGrievanceRequest) Validate() error {
	if len(r.Title) < MinTitleLength {
		return dErrors.New(dErrors.CodeValidation, "title must be at least 10 characters")
	}
	if len(r.Description) < MinDescriptionLength {
		return dErrors.New(dErrors.CodeValidation, "description must be at least 50 characters")
	}
	if !ValidCategory(r.Category) {
		return dErrors.New(dErrors.CodeValidation, "unknown grievance category")
	}
	if r.VillageName == "" {
		return dErrors.New(dErrors.CodeValidation, "village name is required")
	}
	if r.FullName == "" || r.ReporterID == "" {
		return dErrors.New(dErrors.CodeValidation, "reporter identity is required")
	}
	if !mobilePattern.MatchString(r.MobileNumber) {
		return dErrors.New(dErrors.CodeValidation, "mobile number is malformed")
	}
	switch Priority(r.Priority) {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return dErrors.New(dErrors.CodeValidation, "unknown priority")
	}
	return nil
}

// AcceptGrievanceRequest assigns an official with a resolution timeline.
type AcceptGrievanceRequest struct {
	OfficialID         string `json:"officialId"`
	ResolutionTimeline int    `json:"resolutionTimeline"`
}

func (r *AcceptGrievanceRequest) Validate() error {
	if r.OfficialID == "" {
		return dErrors.New(dErrors.CodeValidation, "official ID is required")
	}
	if r.ResolutionTimeline <= 0 {
		return dErrors.New(dErrors.CodeValidation, "resolution timeline must be a positive number of days")
	}
	return nil
}

// ResolveGrievanceRequest carries the official's resolution evidence.
type ResolveGrievanceRequest struct {
	ResolutionNotes    string   `json:"resolutionNotes,omitempty"`
	ResolutionEvidence []string `json:"resolutionEvidence,omitempty"`
}

// SatisfactionRequest is the reporter's one-time verdict.
type SatisfactionRequest struct {
	Satisfaction string `json:"satisfaction"`
}

func (r *SatisfactionRequest) Validate() error {
	switch Satisfaction(r.Satisfaction) {
	case Satisfied, NotSatisfied:
		return nil
	default:
		return dErrors.New(dErrors.CodeValidation, "satisfaction must be satisfied or not_satisfied")
	}
}

// CommunityVoteRequest is one citizen's verify/dispute signal.
type CommunityVoteRequest struct {
	VoteType string `json:"voteType"`
	VoterID  string `json:"voterId"`
	Comments string `json:"comments,omitempty"`
}

func (r *CommunityVoteRequest) Normalize() {
	r.Comments = strings.TrimSpace(r.Comments)
}

func (r *CommunityVoteRequest) Validate() error {
	switch VoteType(r.VoteType) {
	case VoteVerify, VoteDispute:
	default:
		return dErrors.New(dErrors.CodeValidation, "vote type must be verify or dispute")
	}
	if r.VoterID == "" {
		return dErrors.New(dErrors.CodeValidation, "voter ID is required")
	}
	return nil
}

// EscalateRequest forces a grievance one rung up the ladder.
type EscalateRequest struct {
	Reason  string `json:"reason"`
	ActorID string `json:"actorId,omitempty"` // empty means system/auto-escalated
}

func (r *EscalateRequest) Normalize() {
	r.Reason = strings.TrimSpace(r.Reason)
}

func (r *EscalateRequest) Validate() error {
	if len(r.Reason) < MinReasonLength {
		return dErrors.New(dErrors.CodeValidation, "escalation reason must be at least 100 characters")
	}
	return nil
}

// CannotResolveRequest records an official declining and escalating.
type CannotResolveRequest struct {
	Reason     string `json:"reason"`
	OfficialID string `json:"officialId"`
}

func (r *CannotResolveRequest) Normalize() {
	r.Reason = strings.TrimSpace(r.Reason)
}

func (r *CannotResolveRequest) Validate() error {
	if len(r.Reason) < MinReasonLength {
		return dErrors.New(dErrors.CodeValidation, "reason must be at least 100 characters")
	}
	if r.OfficialID == "" {
		return dErrors.New(dErrors.CodeValidation, "official ID is required")
	}
	return nil
}
