package eventbus

import "strings"

// Channel naming conventions for the search pipeline.
const (
	// ChannelSearchSubmitted carries one event per accepted search,
	// emitted before the projection reads run.
	ChannelSearchSubmitted = "search.submitted"

	// ChannelSearchAnalytics carries one event per completed search,
	// emitted after the response has been sent.
	ChannelSearchAnalytics = "search.analytics"
)

// Event types.
const (
	EventSearchSubmitted = "search_submitted"
	EventSearchAnalytics = "search_analytics"
)

// ChannelTopic converts a dotted channel name to its Kafka topic.
//
//	"search.submitted" -> "search-submitted"
//	"search.analytics" -> "search-analytics"
func ChannelTopic(channel string) string {
	return strings.ReplaceAll(channel, ".", "-")
}

// SearchSubmittedPayload is emitted when a query is accepted for execution.
type SearchSubmittedPayload struct {
	Query     string `json:"query"`
	Scope     string `json:"scope"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id,omitempty"`
}

// SearchAnalyticsPayload is emitted after a search completes. CacheKey
// and Cached let the analytics consumer maintain cache hit counters
// without touching the request path.
type SearchAnalyticsPayload struct {
	Query           string `json:"query"`
	Scope           string `json:"scope"`
	CacheKey        string `json:"cache_key"`
	ResultCount     int    `json:"result_count"`
	ExecutionTimeMs int64  `json:"execution_time_ms"`
	Cached          bool   `json:"cached"`
	SessionID       string `json:"session_id"`
	UserID          string `json:"user_id,omitempty"`
}
