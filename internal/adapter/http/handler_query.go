package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fixr105/Seven-Render-sub004/internal/adapter/http/middleware"
	"github.com/fixr105/Seven-Render-sub004/internal/adapter/http/response"
	"github.com/fixr105/Seven-Render-sub004/internal/domain"
	"github.com/fixr105/Seven-Render-sub004/internal/usecase"
)

// QueryService is the slice of the query use case the handler depends on
type QueryService interface {
	RaiseQuery(ctx context.Context, identity domain.Identity, appID string, req usecase.RaiseQueryRequest) (*usecase.QueryView, error)
	ReplyQuery(ctx context.Context, identity domain.Identity, appID, queryID, message string) (*usecase.QueryView, error)
	ResolveQuery(ctx context.Context, identity domain.Identity, appID, queryID string) (*usecase.QueryView, error)
	ReopenQuery(ctx context.Context, identity domain.Identity, appID, queryID string) (*usecase.QueryView, error)
	ListQueries(ctx context.Context, identity domain.Identity, appID string) ([]*usecase.QueryView, error)
}

// QueryHandler handles HTTP requests for query threads
type QueryHandler struct {
	queries QueryService
	auth    *middleware.AuthMiddleware
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(queries QueryService, auth *middleware.AuthMiddleware) *QueryHandler {
	return &QueryHandler{
		queries: queries,
		auth:    auth,
	}
}

// RegisterRoutes registers query routes
func (h *QueryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/applications/{id}/queries", h.auth.RequireAuth(h.RaiseQuery)).Methods("POST")
	router.HandleFunc("/api/v1/applications/{id}/queries", h.auth.RequireAuth(h.ListQueries)).Methods("GET")
	router.HandleFunc("/api/v1/applications/{id}/queries/{queryId}/reply", h.auth.RequireAuth(h.ReplyQuery)).Methods("POST")
	router.HandleFunc("/api/v1/applications/{id}/queries/{queryId}/resolve", h.auth.RequireAuth(h.ResolveQuery)).Methods("POST")
	router.HandleFunc("/api/v1/applications/{id}/queries/{queryId}/reopen", h.auth.RequireAuth(h.ReopenQuery)).Methods("POST")
}

// RaiseQuery handles starting a query thread against a loan file
func (h *QueryHandler) RaiseQuery(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req usecase.RaiseQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Message == "" {
		response.BadRequest(w, "Query message is required")
		return
	}

	view, err := h.queries.RaiseQuery(r.Context(), identity, mux.Vars(r)["id"], req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Query raised", view)
}

// ListQueries handles listing the thread nodes for a loan file
func (h *QueryHandler) ListQueries(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	views, err := h.queries.ListQueries(r.Context(), identity, mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Queries retrieved", map[string]interface{}{
		"queries": views,
		"total":   len(views),
	})
}

// ReplyQuery handles appending a reply to a thread
func (h *QueryHandler) ReplyQuery(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Message == "" {
		response.BadRequest(w, "Reply message is required")
		return
	}

	vars := mux.Vars(r)
	view, err := h.queries.ReplyQuery(r.Context(), identity, vars["id"], vars["queryId"], req.Message)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Reply added", view)
}

// ResolveQuery handles resolving a thread
func (h *QueryHandler) ResolveQuery(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	vars := mux.Vars(r)
	view, err := h.queries.ResolveQuery(r.Context(), identity, vars["id"], vars["queryId"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Query resolved", view)
}

// ReopenQuery handles reopening a resolved thread
func (h *QueryHandler) ReopenQuery(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	vars := mux.Vars(r)
	view, err := h.queries.ReopenQuery(r.Context(), identity, vars["id"], vars["queryId"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Query reopened", view)
}
