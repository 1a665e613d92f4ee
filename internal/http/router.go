// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, compression,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/gesturepath/go-gesture-backend/internal/auth"
	"github.com/gesturepath/go-gesture-backend/internal/config"
	"github.com/gesturepath/go-gesture-backend/internal/convert"
	"github.com/gesturepath/go-gesture-backend/internal/http/handlers"
	"github.com/gesturepath/go-gesture-backend/internal/http/middleware"
	"github.com/gesturepath/go-gesture-backend/internal/repo"
	"github.com/gesturepath/go-gesture-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine: observability (tracing, metrics), compression, CORS and security
// headers, health and metrics endpoints, the public auth routes, and the
// token-guarded API mounted under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter (upload route gets the upload cap)
//  6. Gzip compression
//  7. Metrics
//  8. CORS and security headers
//
// Idempotency validation and rate limiting run inside the route groups so
// the validator sees the authenticated user on protected routes.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Body size limits. Uploads carry file payloads and get the
	// configured upload cap (plus multipart overhead); everything else is
	// JSON and capped at 1 MiB.
	uploadRoute := cfg.APIBasePath + "/upload"
	r.Use(func(c *gin.Context) {
		max := int64(1 << 20)
		if c.FullPath() == uploadRoute && c.Request.Method == http.MethodPost {
			max = cfg.Upload.MaxSizeBytes + (1 << 20)
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	})

	// 6) Compress responses
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) CORS posture (safe defaults: allow all if none configured)
	corsHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs (disabled by default; enable via SWAGGER_ENABLED)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← db/config
	issuer := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
	authSvc := &services.AuthService{DB: db, Tokens: issuer}
	chatSvc := services.NewChatService(db)
	chatSvc.TitleLocale = language.English
	msgSvc := services.NewMessageService(db)
	msgSvc.TitleLocale = language.English
	convSvc := services.NewConversionService(db, convert.NewRouter())
	uploadSvc := services.NewUploadService(db, cfg.Upload.Dir, cfg.Upload.MaxSizeBytes)

	h := handlers.New(db, authSvc, chatSvc, msgSvc, convSvc, uploadSvc)
	h.IdempotencyTTL = cfg.IdempotencyTTL

	// Token-bucket rate limiter per user/IP, shared by both groups so a
	// client cannot dodge its budget by mixing authed and unauthed calls.
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())

	api := groupWithPrefix(r, cfg.APIBasePath)

	// Public credential endpoints
	authGroup := api.Group("/auth")
	authGroup.Use(rl.Handler())
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
	}

	// Everything else requires a bearer token. The idempotency validator
	// runs after auth so replay lookups see the real user, and before the
	// limiter so detected replays bypass it.
	protected := api.Group("")
	protected.Use(middleware.RequireAuth(issuer))
	protected.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, scope, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))
	protected.Use(rl.Handler())
	{
		// Chats
		protected.POST("/chat", h.CreateChat)
		protected.GET("/chat", h.ListChats)
		protected.GET("/chat/:id", h.GetChat)
		protected.DELETE("/chat/:id", h.DeleteChat)

		// Messages
		protected.POST("/chat/:id/messages", h.PostMessage)
		protected.GET("/chat/:id/messages", h.ListMessages)

		// Conversion
		protected.POST("/convert", h.Convert)
		protected.POST("/convert/instant", h.Instant)
		protected.GET("/convert/history", h.History)

		// Uploads
		protected.POST("/upload", h.Upload)
		protected.GET("/upload/:id", h.GetUpload)
		protected.DELETE("/upload/:id", h.DeleteUpload)
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
