// Package handler exposes the grievance lifecycle engine over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gramseva/internal/audit"
	"gramseva/internal/grievance/models"
	request "gramseva/internal/platform/middleware/request"
	"gramseva/pkg/domain"
	"gramseva/pkg/platform/httputil"
)

// Service is the engine surface the transport depends on. It returns domain
// objects, not HTTP response DTOs.
type Service interface {
	Create(ctx context.Context, req *models.CreateGrievanceRequest) (*models.Grievance, error)
	Accept(ctx context.Context, id domain.GrievanceID, req *models.AcceptGrievanceRequest) (*models.Grievance, error)
	MarkResolved(ctx context.Context, id domain.GrievanceID, req *models.ResolveGrievanceRequest) (*models.Grievance, error)
	SubmitUserSatisfaction(ctx context.Context, id domain.GrievanceID, req *models.SatisfactionRequest) (*models.Grievance, error)
	SubmitCommunityVote(ctx context.Context, id domain.GrievanceID, req *models.CommunityVoteRequest) (*models.Grievance, error)
	Escalate(ctx context.Context, id domain.GrievanceID, req *models.EscalateRequest) (*models.Grievance, error)
	CannotResolve(ctx context.Context, id domain.GrievanceID, req *models.CannotResolveRequest) (*models.Grievance, error)

	Get(ctx context.Context, id domain.GrievanceID) (*models.Grievance, error)
	List(ctx context.Context) ([]*models.Grievance, error)
	ListByReporter(ctx context.Context, reporterID domain.UserID) ([]*models.Grievance, error)
	ListByAssignee(ctx context.Context, officialID domain.UserID) ([]*models.Grievance, error)
	ListAssigned(ctx context.Context) ([]*models.Grievance, error)
	ListPendingVerification(ctx context.Context) ([]*models.Grievance, error)
	ListDisputed(ctx context.Context) ([]*models.Grievance, error)
	ListOverdue(ctx context.Context) ([]*models.Grievance, error)
	GetVerifications(ctx context.Context, id domain.GrievanceID) ([]models.Verification, error)
	GetEscalationHistory(ctx context.Context, id domain.GrievanceID) ([]models.EscalationRecord, error)
	GetAuditTrail(ctx context.Context, id domain.GrievanceID) ([]audit.Entry, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/grievances", h.HandleCreate)
	r.Get("/api/grievances", h.HandleList)
	r.Get("/api/grievances/assigned", h.HandleListAssigned)
	r.Get("/api/grievances/verification/pending", h.HandleListPendingVerification)
	r.Get("/api/grievances/{id}", h.HandleGet)
	r.Post("/api/grievances/{id}/accept", h.HandleAccept)
	r.Post("/api/grievances/{id}/resolve", h.HandleMarkResolved)
	r.Post("/api/grievances/{id}/user-satisfaction", h.HandleUserSatisfaction)
	r.Post("/api/grievances/{id}/community-vote", h.HandleCommunityVote)
	r.Post("/api/grievances/{id}/escalate", h.HandleEscalate)
	r.Post("/api/grievances/{id}/cannot-resolve", h.HandleCannotResolve)
	r.Get("/api/verifications/{grievanceId}", h.HandleVerifications)
	r.Get("/api/escalation-history/{grievanceId}", h.HandleEscalationHistory)
	r.Get("/api/audit-trail/{grievanceId}", h.HandleAuditTrail)
	r.Get("/api/admin/disputed", h.HandleListDisputed)
	r.Get("/api/admin/overdue", h.HandleListOverdue)
}

// grievanceID parses the route parameter, writing the error response itself
// on failure.
func (h *Handler) grievanceID(w http.ResponseWriter, r *http.Request, param string) (domain.GrievanceID, bool) {
	id, err := domain.ParseGrievanceID(chi.URLParam(r, param))
	if err != nil {
		httputil.WriteError(w, err)
		return domain.GrievanceID{}, false
	}
	return id, true
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateGrievanceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	g, err := h.service.Create(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "create grievance failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toGrievanceResponse(g))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.grievanceID(w, r, "id")
	if !ok {
		return
	}

	g, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toGrievanceResponse(g))
}

// HandleList returns all grievances, optionally filtered by reporter or
// assigned official.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		out []*models.Grievance
		err error
	)
	switch {
	case r.URL.Query().Get("reporterId") != "":
		var reporterID domain.UserID
		reporterID, err = domain.ParseUserID(r.URL.Query().Get("reporterId"))
		if err == nil {
			out, err = h.service.ListByReporter(ctx, reporterID)
		}
	case r.URL.Query().Get("officialId") != "":
		var officialID domain.UserID
		officialID, err = domain.ParseUserID(r.URL.Query().Get("officialId"))
		if err == nil {
			out, err = h.service.ListByAssignee(ctx, officialID)
		}
	default:
		out, err = h.service.List(ctx)
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toGrievanceResponses(out))
}

func (h *Handler) HandleListAssigned(w http.ResponseWriter, r *http.Request) {
	h.writeListing(w, r, h.service.ListAssigned)
}

func (h *Handler) HandleListPendingVerification(w http.ResponseWriter, r *http.Request) {
	h.writeListing(w, r, h.service.ListPendingVerification)
}

func (h *Handler) HandleListDisputed(w http.ResponseWriter, r *http.Request) {
	h.writeListing(w, r, h.service.ListDisputed)
}

func (h *Handler) HandleListOverdue(w http.ResponseWriter, r *http.Request) {
	h.writeListing(w, r, h.service.ListOverdue)
}

func (h *Handler) writeListing(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]*models.Grievance, error)) {
	out, err := list(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toGrievanceResponses(out))
}

func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	id, ok := h.grievanceID(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.AcceptGrievanceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	g, err := h.service.Accept(ctx, id, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "accept grievance failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toGrievanceResponse(g))
}

func (h *Handler) HandleMarkResolved(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	id, ok := h.grievanceID(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.ResolveGrievanceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	g, err := h.service.MarkResolved(ctx, id, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "mark resolved failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toGrievanceResponse(g))
}

func (h *Handler) HandleUserSatisfaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	id, ok := h.grievanceID(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.SatisfactionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	g, err := h.service.SubmitUserSatisfaction(ctx, id, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "record satisfaction failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toGrievanceResponse(g))
}

func (h *Handler) HandleCommunityVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	id, ok := h.grievanceID(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.CommunityVoteRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	g, err := h.service.SubmitCommunityVote(ctx, id, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "community vote failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toGrievanceResponse(g))
}

func (h *Handler) HandleEscalate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	id, ok := h.grievanceID(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.EscalateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	g, err := h.service.Escalate(ctx, id, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "escalate grievance failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toGrievanceResponse(g))
}

func (h *Handler) HandleCannotResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	id, ok := h.grievanceID(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.CannotResolveRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	g, err := h.service.CannotResolve(ctx, id, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "cannot-resolve failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toGrievanceResponse(g))
}

func (h *Handler) HandleVerifications(w http.ResponseWriter, r *http.Request) {
	id, ok := h.grievanceID(w, r, "grievanceId")
	if !ok {
		return
	}

	out, err := h.service.GetVerifications(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVerificationResponses(out))
}

func (h *Handler) HandleEscalationHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.grievanceID(w, r, "grievanceId")
	if !ok {
		return
	}

	out, err := h.service.GetEscalationHistory(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toEscalationResponses(out))
}

func (h *Handler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.grievanceID(w, r, "grievanceId")
	if !ok {
		return
	}

	out, err := h.service.GetAuditTrail(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAuditResponses(out))
}
