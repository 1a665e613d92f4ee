package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gesturepath/go-gesture-backend/internal/auth"
	"github.com/gesturepath/go-gesture-backend/internal/convert"
	"github.com/gesturepath/go-gesture-backend/internal/domain"
	"github.com/gesturepath/go-gesture-backend/internal/http/middleware"
	"github.com/gesturepath/go-gesture-backend/internal/repo"
	"github.com/gesturepath/go-gesture-backend/internal/services"
)

// testEnv bundles a real database, real services, and a Gin engine with the
// protected routes mounted behind the auth middleware, mirroring the wiring
// in the router.
type testEnv struct {
	db     *gorm.DB
	r      *gin.Engine
	h      *Handlers
	issuer *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// Unique DSN per call to avoid cross-test contamination.
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{}, &domain.Chat{}, &domain.Message{},
		&domain.Conversion{}, &domain.FileUpload{}, &domain.Idempotency{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	h := New(db,
		&services.AuthService{DB: db, Tokens: issuer},
		services.NewChatService(db),
		services.NewMessageService(db),
		services.NewConversionService(db, convert.NewRouter()),
		services.NewUploadService(db, t.TempDir(), 1<<20),
	)
	h.IdempotencyTTL = time.Hour

	r := gin.New()
	r.Use(middleware.RequestID())

	r.POST("/api/auth/signup", h.Signup)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/refresh", h.Refresh)

	protected := r.Group("/api")
	protected.Use(middleware.RequireAuth(issuer))
	protected.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{},
		func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, scope, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		}))
	{
		protected.POST("/chat", h.CreateChat)
		protected.GET("/chat", h.ListChats)
		protected.GET("/chat/:id", h.GetChat)
		protected.DELETE("/chat/:id", h.DeleteChat)
		protected.POST("/chat/:id/messages", h.PostMessage)
		protected.GET("/chat/:id/messages", h.ListMessages)
		protected.POST("/convert", h.Convert)
		protected.POST("/convert/instant", h.Instant)
		protected.GET("/convert/history", h.History)
		protected.POST("/upload", h.Upload)
		protected.GET("/upload/:id", h.GetUpload)
		protected.DELETE("/upload/:id", h.DeleteUpload)
	}

	return &testEnv{db: db, r: r, h: h, issuer: issuer}
}

// signup creates a user and returns a valid bearer token.
func (e *testEnv) signup(t *testing.T, name, email, password string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"name": name, "email": email, "password": password,
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body %s", w.Code, w.Body.String())
	}
	var resp AuthResponse
	decode(t, w, &resp)
	if resp.Token == "" {
		t.Fatalf("signup returned no token")
	}
	return resp.Token
}

// do performs a JSON request. A non-nil body is marshaled; extra headers are
// applied after Authorization.
func (e *testEnv) do(t *testing.T, method, path, token string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// errCode extracts the machine-readable code from an error envelope.
func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	decode(t, w, &resp)
	return resp.Code
}
