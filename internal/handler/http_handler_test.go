package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vrusavuk/fundlyhub-sub006/internal/domain"
)

type mockSearchService struct {
	mock.Mock
}

func (m *mockSearchService) Search(ctx context.Context, query *domain.SearchQuery, session domain.Session) (*domain.SearchResponse, error) {
	args := m.Called(ctx, query, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchResponse), args.Error(1)
}

func (m *mockSearchService) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	args := m.Called(ctx, prefix, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func newTestRouter(svc *mockSearchService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware())
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func doRequest(r *gin.Engine, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := doRequest(newTestRouter(new(mockSearchService)), http.MethodGet, "/search/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var body domain.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.False(t, body.Timestamp.IsZero())
}

func TestSearchOK(t *testing.T) {
	svc := new(mockSearchService)
	svc.On("Search", mock.Anything, mock.Anything, mock.Anything).Return(&domain.SearchResponse{
		Results: []domain.SearchResult{
			{ID: "u1", Type: domain.ResultTypeUser, Title: "Jane Doe", Link: "/profile/u1", Score: 0.9},
		},
		Total:  1,
		Cached: false,
	}, nil)

	w := doRequest(newTestRouter(svc), http.MethodGet, "/search?q=jane&scope=all&limit=20", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	var body domain.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	assert.False(t, body.Cached)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "Jane Doe", body.Results[0].Title)

	// The handler owns timing, so the field is always present.
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Contains(t, raw, "executionTimeMs")
}

func TestSearchPassesQueryParams(t *testing.T) {
	svc := new(mockSearchService)
	svc.On("Search", mock.Anything, mock.MatchedBy(func(q *domain.SearchQuery) bool {
		return q.Text == "jane" &&
			q.Scope == domain.ScopeCampaigns &&
			q.Limit == 5 &&
			q.Offset == 10 &&
			q.Filters["category"] == "education"
	}), mock.Anything).Return(&domain.SearchResponse{Results: []domain.SearchResult{}}, nil)

	w := doRequest(newTestRouter(svc), http.MethodGet, "/search?q=jane&scope=campaigns&limit=5&offset=10&category=education", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestSearchQueryTooShort(t *testing.T) {
	svc := new(mockSearchService)
	svc.On("Search", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrQueryTooShort)

	w := doRequest(newTestRouter(svc), http.MethodGet, "/search?q=a", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
	assert.Empty(t, body["results"])
	assert.EqualValues(t, 0, body["total"])
	assert.Contains(t, body, "executionTimeMs")
}

func TestSearchInternalError(t *testing.T) {
	svc := new(mockSearchService)
	svc.On("Search", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	w := doRequest(newTestRouter(svc), http.MethodGet, "/search?q=jane", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "search failed", body["error"])
	assert.Contains(t, body, "executionTimeMs")
}

func TestSearchSessionFromHeader(t *testing.T) {
	svc := new(mockSearchService)
	svc.On("Search", mock.Anything, mock.Anything, mock.MatchedBy(func(s domain.Session) bool {
		return s.ID == "sess-42"
	})).Return(&domain.SearchResponse{Results: []domain.SearchResult{}}, nil)

	w := doRequest(newTestRouter(svc), http.MethodGet, "/search?q=jane", map[string]string{"X-Session-ID": "sess-42"})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestSearchSessionGenerated(t *testing.T) {
	svc := new(mockSearchService)
	svc.On("Search", mock.Anything, mock.Anything, mock.MatchedBy(func(s domain.Session) bool {
		return s.ID != ""
	})).Return(&domain.SearchResponse{Results: []domain.SearchResult{}}, nil)

	w := doRequest(newTestRouter(svc), http.MethodGet, "/search?q=jane", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestSuggestOK(t *testing.T) {
	svc := new(mockSearchService)
	svc.On("Suggest", mock.Anything, "wat", 10).Return([]string{"water well"}, nil)

	w := doRequest(newTestRouter(svc), http.MethodGet, "/search/suggest?q=wat", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var body domain.SuggestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"water well"}, body.Suggestions)
}

func TestSuggestShortQueryIsEmptyNotError(t *testing.T) {
	svc := new(mockSearchService)
	svc.On("Suggest", mock.Anything, "a", 10).Return([]string{}, nil)

	w := doRequest(newTestRouter(svc), http.MethodGet, "/search/suggest?q=a", nil)

	// Unlike /search, a short suggest prefix is a 200 with no items.
	assert.Equal(t, http.StatusOK, w.Code)

	var body domain.SuggestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Suggestions)
}

func TestOptionsPreflight(t *testing.T) {
	w := doRequest(newTestRouter(new(mockSearchService)), http.MethodOptions, "/search", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "authorization, x-client-info, apikey, content-type", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestUnknownPath(t *testing.T) {
	w := doRequest(newTestRouter(new(mockSearchService)), http.MethodGet, "/donations", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSOnEveryResponse(t *testing.T) {
	svc := new(mockSearchService)
	svc.On("Search", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrQueryTooShort)

	for _, target := range []string{"/search/health", "/search?q=a", "/nope"} {
		w := doRequest(newTestRouter(svc), http.MethodGet, target, nil)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"), target)
	}
}
