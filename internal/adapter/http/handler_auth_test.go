package http

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
	"github.com/fixr105/Seven-Render-sub004/internal/usecase"
)

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req usecase.LoginRequest) (*usecase.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.LoginResponse), args.Error(1)
}

func TestLoginEndpoint(t *testing.T) {
	mockService := &MockAuthService{}
	router := mux.NewRouter()
	NewAuthHandler(mockService).RegisterRoutes(router)

	mockService.On("Login", mock.Anything, usecase.LoginRequest{Email: "kam@example.com", Password: "s3cret"}).
		Return(&usecase.LoginResponse{
			Token:     "jwt-token",
			ExpiresAt: time.Now().Add(time.Hour),
			Identity:  domain.Identity{Email: "kam@example.com", Role: domain.RoleKam, KamID: "KAM1"},
		}, nil)
	mockService.On("Login", mock.Anything, usecase.LoginRequest{Email: "kam@example.com", Password: "wrong"}).
		Return(nil, fmt.Errorf("invalid email or password"))

	t.Run("valid credentials", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/api/v1/auth/login", "",
			`{"email":"kam@example.com","password":"s3cret"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"jwt-token"`)
		assert.Contains(t, rec.Body.String(), `"kam"`)
	})

	t.Run("wrong password renders the generic message", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/api/v1/auth/login", "",
			`{"email":"kam@example.com","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid email or password")
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/api/v1/auth/login", "", `{"email":"kam@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/api/v1/auth/login", "", `{"email":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
