package handler

import (
	"time"

	"gramseva/internal/audit"
	"gramseva/internal/grievance/models"
)

// GrievanceResponse is the wire shape of a grievance. Field names follow the
// intake conventions the clients already speak.
type GrievanceResponse struct {
	ID                 string     `json:"id"`
	GrievanceNumber    string     `json:"grievanceNumber"`
	ReporterID         string     `json:"reporterId"`
	ReporterName       string     `json:"reporterName"`
	ReporterMobile     string     `json:"reporterMobile"`
	Title              string     `json:"title"`
	Category           string     `json:"category"`
	Description        string     `json:"description"`
	VillageName        string     `json:"villageName"`
	Priority           string     `json:"priority"`
	EvidenceFiles      []string   `json:"evidenceFiles,omitempty"`
	VoiceRecordingURL  string     `json:"voiceRecordingUrl,omitempty"`
	VoiceTranscription string     `json:"voiceTranscription,omitempty"`
	Status             string     `json:"status"`
	AssignedTo         *string    `json:"assignedTo,omitempty"`
	ResolutionTimeline int        `json:"resolutionTimeline,omitempty"`
	DueDate            *time.Time `json:"dueDate,omitempty"`
	ResolvedAt         *time.Time `json:"resolvedAt,omitempty"`
	ResolutionNotes    string     `json:"resolutionNotes,omitempty"`
	ResolutionEvidence []string   `json:"resolutionEvidence,omitempty"`

	VerificationDeadline *time.Time `json:"verificationDeadline,omitempty"`

	CurrentAuthorityLevel string     `json:"currentAuthorityLevel"`
	EscalationCount       int        `json:"escalationCount"`
	EscalationReason      string     `json:"escalationReason,omitempty"`
	EscalationDueDate     *time.Time `json:"escalationDueDate,omitempty"`
	IsEscalated           bool       `json:"isEscalated"`
	EscalatedAt           *time.Time `json:"escalatedAt,omitempty"`
	CanResolve            *bool      `json:"canResolve,omitempty"`

	UserSatisfaction   *string    `json:"userSatisfaction,omitempty"`
	UserSatisfactionAt *time.Time `json:"userSatisfactionAt,omitempty"`

	CommunityVerifyCount  int `json:"communityVerificationCount"`
	CommunityDisputeCount int `json:"communityDisputeCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toGrievanceResponse(g *models.Grievance) *GrievanceResponse {
	resp := &GrievanceResponse{
		ID:                    g.ID.String(),
		GrievanceNumber:       g.Number,
		ReporterID:            g.ReporterID.String(),
		ReporterName:          g.ReporterName,
		ReporterMobile:        g.ReporterMobile,
		Title:                 g.Title,
		Category:              g.Category,
		Description:           g.Description,
		VillageName:           g.VillageName,
		Priority:              string(g.Priority),
		EvidenceFiles:         g.EvidenceFiles,
		VoiceRecordingURL:     g.VoiceRecordingURL,
		VoiceTranscription:    g.VoiceTranscription,
		Status:                string(g.Status),
		ResolutionTimeline:    g.ResolutionTimeline,
		DueDate:               g.DueDate,
		ResolvedAt:            g.ResolvedAt,
		ResolutionNotes:       g.ResolutionNotes,
		ResolutionEvidence:    g.ResolutionEvidence,
		VerificationDeadline:  g.VerificationDeadline,
		CurrentAuthorityLevel: string(g.AuthorityLevel),
		EscalationCount:       g.EscalationCount,
		EscalationReason:      g.EscalationReason,
		EscalationDueDate:     g.EscalationDueDate,
		IsEscalated:           g.IsEscalated,
		EscalatedAt:           g.EscalatedAt,
		CanResolve:            g.CanResolve,
		UserSatisfactionAt:    g.SatisfactionAt,
		CommunityVerifyCount:  g.VerifyCount,
		CommunityDisputeCount: g.DisputeCount,
		CreatedAt:             g.CreatedAt,
		UpdatedAt:             g.UpdatedAt,
	}
	if g.AssignedTo != nil {
		v := g.AssignedTo.String()
		resp.AssignedTo = &v
	}
	if g.Satisfaction != nil {
		v := string(*g.Satisfaction)
		resp.UserSatisfaction = &v
	}
	return resp
}

func toGrievanceResponses(gs []*models.Grievance) []*GrievanceResponse {
	out := make([]*GrievanceResponse, 0, len(gs))
	for _, g := range gs {
		out = append(out, toGrievanceResponse(g))
	}
	return out
}

type VerificationResponse struct {
	ID               string    `json:"id"`
	GrievanceID      string    `json:"grievanceId"`
	VoterID          string    `json:"voterId"`
	VerificationType string    `json:"verificationType"`
	Status           string    `json:"status"`
	Comments         string    `json:"comments,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toVerificationResponses(vs []models.Verification) []VerificationResponse {
	out := make([]VerificationResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, VerificationResponse{
			ID:               v.ID.String(),
			GrievanceID:      v.GrievanceID.String(),
			VoterID:          v.VoterID.String(),
			VerificationType: string(v.Type),
			Status:           v.Status,
			Comments:         v.Comments,
			CreatedAt:        v.CreatedAt,
		})
	}
	return out
}

type EscalationResponse struct {
	ID            string    `json:"id"`
	GrievanceID   string    `json:"grievanceId"`
	FromLevel     string    `json:"fromLevel"`
	ToLevel       string    `json:"toLevel"`
	Reason        string    `json:"reason"`
	EscalatedBy   *string   `json:"escalatedBy,omitempty"`
	AutoEscalated bool      `json:"autoEscalated"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toEscalationResponses(es []models.EscalationRecord) []EscalationResponse {
	out := make([]EscalationResponse, 0, len(es))
	for _, e := range es {
		resp := EscalationResponse{
			ID:            e.ID.String(),
			GrievanceID:   e.GrievanceID.String(),
			FromLevel:     string(e.FromLevel),
			ToLevel:       string(e.ToLevel),
			Reason:        e.Reason,
			AutoEscalated: e.AutoEscalated,
			CreatedAt:     e.CreatedAt,
		}
		if e.EscalatedBy != nil {
			v := e.EscalatedBy.String()
			resp.EscalatedBy = &v
		}
		out = append(out, resp)
	}
	return out
}

// AuditEntryResponse exposes one audit record with its typed payload.
type AuditEntryResponse struct {
	ID          string        `json:"id"`
	GrievanceID string        `json:"grievanceId"`
	EventType   string        `json:"eventType"`
	EventData   audit.Payload `json:"eventData"`
	Ref         string        `json:"ref"`
	OccurredAt  time.Time     `json:"occurredAt"`
}

func toAuditResponses(entries []audit.Entry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryResponse{
			ID:          e.ID.String(),
			GrievanceID: e.GrievanceID.String(),
			EventType:   string(e.Type),
			EventData:   e.Payload,
			Ref:         e.Ref,
			OccurredAt:  e.OccurredAt,
		})
	}
	return out
}
