package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpmiddleware "github.com/fixr105/Seven-Render-sub004/internal/adapter/http/middleware"
	"github.com/fixr105/Seven-Render-sub004/internal/domain"
	"github.com/fixr105/Seven-Render-sub004/internal/usecase"
)

// MockQueryService is a mock implementation of QueryService
type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) RaiseQuery(ctx context.Context, identity domain.Identity, appID string, req usecase.RaiseQueryRequest) (*usecase.QueryView, error) {
	args := m.Called(ctx, identity, appID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.QueryView), args.Error(1)
}

func (m *MockQueryService) ReplyQuery(ctx context.Context, identity domain.Identity, appID, queryID, message string) (*usecase.QueryView, error) {
	args := m.Called(ctx, identity, appID, queryID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.QueryView), args.Error(1)
}

func (m *MockQueryService) ResolveQuery(ctx context.Context, identity domain.Identity, appID, queryID string) (*usecase.QueryView, error) {
	args := m.Called(ctx, identity, appID, queryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.QueryView), args.Error(1)
}

func (m *MockQueryService) ReopenQuery(ctx context.Context, identity domain.Identity, appID, queryID string) (*usecase.QueryView, error) {
	args := m.Called(ctx, identity, appID, queryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.QueryView), args.Error(1)
}

func (m *MockQueryService) ListQueries(ctx context.Context, identity domain.Identity, appID string) ([]*usecase.QueryView, error) {
	args := m.Called(ctx, identity, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*usecase.QueryView), args.Error(1)
}

func newQueryRouter(queries QueryService) *mux.Router {
	auth := httpmiddleware.NewAuthMiddleware(tokenStub())
	handler := NewQueryHandler(queries, auth)
	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func TestRaiseQueryEndpoint(t *testing.T) {
	mockService := &MockQueryService{}
	router := newQueryRouter(mockService)

	view := &usecase.QueryView{ID: "qry_1", Status: domain.QueryStatusOpen, Message: "Need bank statements"}
	mockService.On("RaiseQuery", mock.Anything, testIdentity, "app_1",
		usecase.RaiseQueryRequest{TargetRole: domain.RoleClient, Message: "Need bank statements"}).
		Return(view, nil)

	rec := doRequest(router, http.MethodPost, "/api/v1/applications/app_1/queries", "good",
		`{"target_role":"client","message":"Need bank statements"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"qry_1"`)

	t.Run("empty message rejected", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/api/v1/applications/app_1/queries", "good",
			`{"target_role":"client"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestResolveQueryEndpoint(t *testing.T) {
	mockService := &MockQueryService{}
	router := newQueryRouter(mockService)

	resolved := &usecase.QueryView{ID: "qry_1", Status: domain.QueryStatusResolved}
	mockService.On("ResolveQuery", mock.Anything, testIdentity, "app_1", "qry_1").Return(resolved, nil)
	mockService.On("ResolveQuery", mock.Anything, testIdentity, "app_1", "qry_2").
		Return(nil, domain.ErrNotQueryAuthor)
	mockService.On("ResolveQuery", mock.Anything, testIdentity, "app_1", "qry_x").
		Return(nil, domain.ErrQueryNotFound)

	t.Run("author resolves", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/api/v1/applications/app_1/queries/qry_1/resolve", "good", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"resolved"`)
	})

	t.Run("non-author maps to 403 with the canonical message", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/api/v1/applications/app_1/queries/qry_2/resolve", "good", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "Only the query author can resolve this query")
	})

	t.Run("unknown query maps to 404", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/api/v1/applications/app_1/queries/qry_x/resolve", "good", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Query not found")
	})
}

func TestReplyQueryEndpoint(t *testing.T) {
	mockService := &MockQueryService{}
	router := newQueryRouter(mockService)

	reply := &usecase.QueryView{ID: "qry_2", ParentID: "qry_1", Message: "Uploaded"}
	mockService.On("ReplyQuery", mock.Anything, testIdentity, "app_1", "qry_1", "Uploaded").Return(reply, nil)

	rec := doRequest(router, http.MethodPost, "/api/v1/applications/app_1/queries/qry_1/reply", "good",
		`{"message":"Uploaded"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"parent_id":"qry_1"`)
}

func TestListQueriesEndpoint(t *testing.T) {
	mockService := &MockQueryService{}
	router := newQueryRouter(mockService)

	mockService.On("ListQueries", mock.Anything, testIdentity, "app_1").
		Return([]*usecase.QueryView{{ID: "qry_1"}, {ID: "qry_2"}}, nil)

	rec := doRequest(router, http.MethodGet, "/api/v1/applications/app_1/queries", "good", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":2`)
}
