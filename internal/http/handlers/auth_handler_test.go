package handlers

import (
	"net/http"
	"strings"
	"testing"
)

func TestSignup_CreatesAccountWithToken(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"name": "Ann", "email": "Ann@Example.com", "password": "secret1",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp AuthResponse
	decode(t, w, &resp)
	if resp.User == nil || resp.User.Email != "ann@example.com" {
		t.Fatalf("user = %+v", resp.User)
	}
	if resp.Token == "" {
		t.Fatalf("missing token")
	}
	// PasswordHash is tagged json:"-", it must never appear on the wire.
	if got := strings.ToLower(w.Body.String()); strings.Contains(got, "password") || strings.Contains(got, "hash") {
		t.Fatalf("credential material leaked: %s", got)
	}
}

func TestSignup_Validation(t *testing.T) {
	e := newTestEnv(t)

	cases := []struct {
		name string
		body map[string]any
		code string
	}{
		{"short name", map[string]any{"name": "A", "email": "a@x.com", "password": "secret1"}, ErrCodeBadRequest},
		{"bad email", map[string]any{"name": "Ann", "email": "nope", "password": "secret1"}, ErrCodeBadRequest},
		{"short password", map[string]any{"name": "Ann", "email": "a@x.com", "password": "12345"}, ErrCodeBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := e.do(t, http.MethodPost, "/api/auth/signup", "", tc.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			if got := errCode(t, w); got != tc.code {
				t.Fatalf("code = %q, want %q", got, tc.code)
			}
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	e := newTestEnv(t)
	e.signup(t, "Ann", "ann@x.com", "secret1")

	w := e.do(t, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"name": "Ann Again", "email": "ANN@x.com", "password": "secret2",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got := errCode(t, w); got != ErrCodeEmailTaken {
		t.Fatalf("code = %q, want %q", got, ErrCodeEmailTaken)
	}
}

func TestLogin_RoundTripAndFailures(t *testing.T) {
	e := newTestEnv(t)
	e.signup(t, "Ann", "ann@x.com", "secret1")

	w := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "ann@x.com", "password": "secret1",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp AuthResponse
	decode(t, w, &resp)
	if resp.Token == "" || resp.User == nil {
		t.Fatalf("incomplete response: %+v", resp)
	}

	// Wrong password and unknown email fail identically.
	for _, body := range []map[string]any{
		{"email": "ann@x.com", "password": "wrong00"},
		{"email": "ghost@x.com", "password": "secret1"},
	} {
		w := e.do(t, http.MethodPost, "/api/auth/login", "", body, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d for %v", w.Code, body)
		}
		if got := errCode(t, w); got != ErrCodeUnauthorized {
			t.Fatalf("code = %q for %v", got, body)
		}
	}
}

func TestRefresh_IssuesNewToken(t *testing.T) {
	e := newTestEnv(t)
	token := e.signup(t, "Ann", "ann@x.com", "secret1")

	w := e.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]any{"token": token}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp AuthResponse
	decode(t, w, &resp)
	if resp.Token == "" || resp.User == nil || resp.User.Email != "ann@x.com" {
		t.Fatalf("incomplete response: %+v", resp)
	}

	// The fresh token must work against a protected route.
	w = e.do(t, http.MethodGet, "/api/chat", resp.Token, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("refreshed token rejected: %d %s", w.Code, w.Body.String())
	}
}

func TestRefresh_RejectsGarbage(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]any{"token": "not.a.jwt"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}
