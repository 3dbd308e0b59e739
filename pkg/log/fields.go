package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor (matches internal/middleware/identity.go keys)
	FieldUserID    = "user_id"
	FieldSessionID = "session_id"

	// Service
	FieldService = "service"

	// Search
	FieldQuery    = "query"
	FieldScope    = "scope"
	FieldCacheKey = "cache_key"
)
