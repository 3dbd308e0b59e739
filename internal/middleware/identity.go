// Package middleware provides optional request identity extraction.
// Search is a public read path: a missing or invalid token never
// rejects the request, it only leaves the caller anonymous.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vrusavuk/fundlyhub-sub006/pkg/jwt"
	"github.com/vrusavuk/fundlyhub-sub006/pkg/log"
)

// Identity returns a middleware that resolves an optional user ID from
// a bearer token and stores it in the gin context under user_id.
func Identity(verifier *jwt.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.Next()
			return
		}

		auth := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token == "" {
			c.Next()
			return
		}

		claims, err := verifier.ValidateToken(token)
		if err != nil {
			// Anonymous search is fine; just note the bad token.
			l := log.Ctx(c.Request.Context())
			l.Debug().Err(err).Msg("ignoring invalid bearer token")
			c.Next()
			return
		}

		if userID := claims.ResolveUserID(); userID != "" {
			c.Set(log.FieldUserID, userID)
		}
		c.Next()
	}
}
