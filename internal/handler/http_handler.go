package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vrusavuk/fundlyhub-sub006/internal/domain"
	"github.com/vrusavuk/fundlyhub-sub006/internal/service"
	"github.com/vrusavuk/fundlyhub-sub006/pkg/log"
	"github.com/vrusavuk/fundlyhub-sub006/pkg/response"
)

const headerSessionID = "X-Session-ID"

// Handler handles HTTP requests for the search gateway.
type Handler struct {
	searchService service.SearchService
}

// NewHandler creates a new HTTP handler.
func NewHandler(searchService service.SearchService) *Handler {
	return &Handler{
		searchService: searchService,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/search", h.Search)
	r.GET("/search/suggest", h.Suggest)
	r.GET("/search/health", h.Health)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "not found", 0)
	})
}

// Health reports gateway liveness.
func (h *Handler) Health(c *gin.Context) {
	response.OK(c, domain.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	})
}

// Search handles GET /search?q=&scope=&limit=&offset=.
func (h *Handler) Search(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	query := &domain.SearchQuery{
		Text:   c.Query("q"),
		Scope:  domain.ParseScope(c.Query("scope")),
		Limit:  intQuery(c, "limit", domain.DefaultLimit),
		Offset: intQuery(c, "offset", 0),
	}
	if category := c.Query("category"); category != "" {
		query.Filters = map[string]string{"category": category}
	}

	resp, err := h.searchService.Search(ctx, query, sessionFrom(c))
	if err != nil {
		if errors.Is(err, domain.ErrQueryTooShort) {
			response.BadRequest(c, err.Error(), elapsedMs(start))
			return
		}
		l.Error().Err(err).Str(log.FieldQuery, query.Text).Msg("search failed")
		response.InternalError(c, "search failed", elapsedMs(start))
		return
	}

	resp.ExecutionTimeMs = elapsedMs(start)
	response.OK(c, resp)
}

// Suggest handles GET /search/suggest?q=&limit=. Short prefixes are a
// normal empty response, not an error; the user is still typing.
func (h *Handler) Suggest(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	prefix := c.Query("q")
	limit := intQuery(c, "limit", domain.DefaultSuggestLimit)

	terms, err := h.searchService.Suggest(ctx, prefix, limit)
	if err != nil {
		l.Error().Err(err).Str(log.FieldQuery, prefix).Msg("suggest failed")
		response.InternalError(c, "suggest failed", elapsedMs(start))
		return
	}

	response.OK(c, domain.SuggestResponse{
		Suggestions:     terms,
		ExecutionTimeMs: elapsedMs(start),
	})
}

// sessionFrom builds the caller's session: the session ID comes from
// the X-Session-ID header or is generated per request, and the user ID
// is set by the identity middleware for authenticated callers.
func sessionFrom(c *gin.Context) domain.Session {
	sessionID := c.GetHeader(headerSessionID)
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	c.Set(log.FieldSessionID, sessionID)

	session := domain.Session{ID: sessionID}
	if userID, ok := c.Get(log.FieldUserID); ok {
		session.UserID = userID.(string)
	}
	return session
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
