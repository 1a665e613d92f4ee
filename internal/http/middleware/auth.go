// Package middleware contains the shared Gin middleware for the HTTP layer.
//
// This file implements bearer-token authentication. RequireAuth guards the
// protected route group: it extracts the Authorization header, verifies the
// JWT, and stores the authenticated user ID under the "userID" context key
// where the logger, rate limiter, and handlers pick it up.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gesturepath/go-gesture-backend/internal/auth"
)

// ctxKeyUserID is the Gin context key for the authenticated user's ID.
const ctxKeyUserID = "userID"

// UserIDFrom returns the authenticated user ID set by RequireAuth.
// The second return value reports presence.
func UserIDFrom(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyUserID)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// RequireAuth returns a middleware that rejects requests lacking a valid
// "Authorization: Bearer <token>" header.
//
// Failure responses use the standard error envelope with 401 and one of:
//   - "No token provided"      (header absent)
//   - "Invalid token format"   (not a Bearer scheme or empty token)
//   - "Token expired"          (code token_expired, so clients can refresh)
//   - "Invalid token"          (any other verification failure)
func RequireAuth(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "unauthorized", "No token provided")
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			unauthorized(c, "unauthorized", "Invalid token format")
			return
		}

		uid, err := issuer.Verify(strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				unauthorized(c, "token_expired", "Token expired")
				return
			}
			unauthorized(c, "unauthorized", "Invalid token")
			return
		}

		c.Set(ctxKeyUserID, uid)
		c.Next()
	}
}

// unauthorized writes the standard 401 envelope. The handlers package cannot
// be imported here (it depends on this one), so the body is built inline.
func unauthorized(c *gin.Context, code, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       code,
		"message":    msg,
	})
}
