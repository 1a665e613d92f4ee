// Package middleware contains the shared Gin middleware for the HTTP layer.
//
// Idempotency support for unsafe methods. The validator checks the
// Idempotency-Key header, stashes the normalized key in the request context,
// and consults a pluggable lookup to detect requests that already completed.
// Handlers stay in control of how a replay is served; the middleware only
// annotates the context so they (and the rate limiter) can react.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header clients use to deduplicate
// retried unsafe operations. The value must be stable per semantic operation.
const HeaderIdempotencyKey = "Idempotency-Key"

// Context keys stashing idempotency state, read via the accessors below.
const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

// GetIdempotencyKey returns the validated key stored by IdempotencyValidator.
// Handlers should use this instead of reading the header directly.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether the lookup found a completed prior request for
// this (user, scope, key). Handlers may then serve the persisted result.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// RequestScope derives the idempotency scope for the current route. Routes
// with a chat ID parameter are scoped to that chat, so a client may reuse a
// key across different chats; other routes are scoped by their route path.
func RequestScope(c *gin.Context) string {
	if id := c.Param("id"); id != "" {
		return "chat:" + id
	}
	return c.FullPath()
}

// IdempotencyOptions configures header validation. TTL enforcement lives in
// the lookup, not here.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. Nil selects a conservative
	// token pattern: ^[A-Za-z0-9._~\-:]+$
	Pattern *regexp.Regexp
}

// IdempotencyLookup answers whether a successful, still-valid result exists
// for (userID, scope, key) at the given time. Lookup failures should be
// returned as errors but never block normal processing.
type IdempotencyLookup func(ctx context.Context, userID, scope, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator validates the Idempotency-Key header when present,
// stashes it in the context, and marks detected replays so downstream
// components can short-circuit (and the rate limiter can wave them through).
//
// Requests without the header pass through untouched. A malformed key is
// rejected with 400 before any handler runs.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "bad_idempotency_key",
				"message":    "invalid Idempotency-Key",
			})
			return
		}

		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			uid, _ := UserIDFrom(c)
			now := time.Now().UTC()
			if exists, _ := lookup(c.Request.Context(), uid, RequestScope(c), key, now); exists {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}

		c.Next()
	}
}
