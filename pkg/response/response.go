package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK sends a 200 response with the payload serialized as-is. Gateway
// payloads carry executionTimeMs at top level, so there is no envelope.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// ErrorBody is the flat error payload for 4xx/5xx responses.
type ErrorBody struct {
	Error           string `json:"error"`
	ExecutionTimeMs int64  `json:"executionTimeMs"`
}

// ValidationBody is the 400 payload for rejected queries. It mirrors
// the search response shape with an empty result set so clients can
// render it without special-casing.
type ValidationBody struct {
	Error           string        `json:"error"`
	Results         []interface{} `json:"results"`
	Total           int           `json:"total"`
	ExecutionTimeMs int64         `json:"executionTimeMs"`
}

// BadRequest sends a 400 error with an empty result shape.
func BadRequest(c *gin.Context, message string, elapsedMs int64) {
	c.JSON(http.StatusBadRequest, ValidationBody{
		Error:           message,
		Results:         []interface{}{},
		Total:           0,
		ExecutionTimeMs: elapsedMs,
	})
}

// InternalError sends a 500 error.
func InternalError(c *gin.Context, message string, elapsedMs int64) {
	c.JSON(http.StatusInternalServerError, ErrorBody{
		Error:           message,
		ExecutionTimeMs: elapsedMs,
	})
}

// NotFound sends a 404 for routes the gateway does not serve.
func NotFound(c *gin.Context, message string, elapsedMs int64) {
	c.JSON(http.StatusNotFound, ErrorBody{
		Error:           message,
		ExecutionTimeMs: elapsedMs,
	})
}
