package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fixr105/Seven-Render-sub004/internal/adapter/http/middleware"
	"github.com/fixr105/Seven-Render-sub004/internal/adapter/http/response"
	"github.com/fixr105/Seven-Render-sub004/internal/domain"
	"github.com/fixr105/Seven-Render-sub004/internal/usecase"
)

// LifecycleService is the slice of the lifecycle use case the handler depends on
type LifecycleService interface {
	CreateApplication(ctx context.Context, identity domain.Identity, req usecase.CreateApplicationRequest) (*domain.LoanApplication, error)
	GetApplication(ctx context.Context, identity domain.Identity, appID string) (*domain.LoanApplication, error)
	ListApplications(ctx context.Context, identity domain.Identity, filter domain.ApplicationFilter) ([]*domain.LoanApplication, error)
	AllowedStatuses(ctx context.Context, identity domain.Identity, appID string) ([]domain.ApplicationStatus, error)
	SubmitApplication(ctx context.Context, identity domain.Identity, appID string) (*domain.LoanApplication, error)
	TransitionStatus(ctx context.Context, identity domain.Identity, appID string, req usecase.TransitionRequest) (*domain.LoanApplication, error)
	ListAuditTrail(ctx context.Context, identity domain.Identity, appID string, limit int) ([]*domain.AuditLogEntry, error)
}

// ApplicationHandler handles HTTP requests for loan applications
type ApplicationHandler struct {
	lifecycle LifecycleService
	auth      *middleware.AuthMiddleware
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(lifecycle LifecycleService, auth *middleware.AuthMiddleware) *ApplicationHandler {
	return &ApplicationHandler{
		lifecycle: lifecycle,
		auth:      auth,
	}
}

// RegisterRoutes registers application routes
func (h *ApplicationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/applications", h.auth.RequireAuth(h.CreateApplication)).Methods("POST")
	router.HandleFunc("/api/v1/applications", h.auth.RequireAuth(h.ListApplications)).Methods("GET")
	router.HandleFunc("/api/v1/applications/{id}", h.auth.RequireAuth(h.GetApplication)).Methods("GET")
	router.HandleFunc("/api/v1/applications/{id}/submit", h.auth.RequireAuth(h.SubmitApplication)).Methods("POST")
	router.HandleFunc("/api/v1/applications/{id}/transition", h.auth.RequireAuth(h.TransitionStatus)).Methods("POST")
	router.HandleFunc("/api/v1/applications/{id}/statuses", h.auth.RequireAuth(h.AllowedStatuses)).Methods("GET")
	router.HandleFunc("/api/v1/applications/{id}/audit", h.auth.RequireAuth(h.ListAuditTrail)).Methods("GET")
}

// CreateApplication handles loan file creation
func (h *ApplicationHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req usecase.CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	app, err := h.lifecycle.CreateApplication(r.Context(), identity, req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Loan application created", app)
}

// GetApplication handles retrieving a single loan file
func (h *ApplicationHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	app, err := h.lifecycle.GetApplication(r.Context(), identity, mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Loan application retrieved", app)
}

// ListApplications handles listing loan files with filters
func (h *ApplicationHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	filter := domain.ApplicationFilter{}
	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.ApplicationStatus(status)
		if !s.IsValid() {
			response.BadRequest(w, "Unknown status filter")
			return
		}
		filter.Status = &s
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	apps, err := h.lifecycle.ListApplications(r.Context(), identity, filter)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Loan applications retrieved", map[string]interface{}{
		"applications": apps,
		"total":        len(apps),
	})
}

// SubmitApplication handles first submission of a Draft file
func (h *ApplicationHandler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	app, err := h.lifecycle.SubmitApplication(r.Context(), identity, mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Loan application submitted", app)
}

// TransitionStatus handles a status change request
func (h *ApplicationHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req usecase.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.NewStatus == "" {
		response.BadRequest(w, "New status is required")
		return
	}

	app, err := h.lifecycle.TransitionStatus(r.Context(), identity, mux.Vars(r)["id"], req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Status updated", app)
}

// AllowedStatuses handles enumerating reachable statuses for the caller
func (h *ApplicationHandler) AllowedStatuses(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	statuses, err := h.lifecycle.AllowedStatuses(r.Context(), identity, mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Allowed statuses retrieved", map[string]interface{}{
		"statuses": statuses,
	})
}

// ListAuditTrail handles retrieving the audit entries for a loan file
func (h *ApplicationHandler) ListAuditTrail(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}

	entries, err := h.lifecycle.ListAuditTrail(r.Context(), identity, mux.Vars(r)["id"], limit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Audit trail retrieved", map[string]interface{}{
		"entries": entries,
		"total":   len(entries),
	})
}
