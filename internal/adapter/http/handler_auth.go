package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fixr105/Seven-Render-sub004/internal/adapter/http/response"
	"github.com/fixr105/Seven-Render-sub004/internal/usecase"
)

// AuthService is the slice of the auth use case the handler depends on
type AuthService interface {
	Login(ctx context.Context, req usecase.LoginRequest) (*usecase.LoginResponse, error)
}

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/auth/login", h.Login).Methods("POST")
}

// Login handles credential verification and token issuance
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req usecase.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		response.BadRequest(w, "Email and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		// Every credential failure renders the same way
		response.Unauthorized(w, "Invalid email or password")
		return
	}

	response.Success(w, http.StatusOK, "Login successful", result)
}
