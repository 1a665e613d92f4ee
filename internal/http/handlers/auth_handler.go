// Authentication HTTP handlers.
//
// This file exposes the public credential endpoints:
//   - POST /auth/signup   (create account, returns user + token)
//   - POST /auth/login    (verify credentials, returns user + token)
//   - POST /auth/refresh  (exchange a still-valid token for a fresh one)
//
// Handlers are transport-thin: they validate input shape, call the auth
// service, and translate typed service errors into HTTP responses. Login
// failures never reveal whether the email or the password was wrong.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gesturepath/go-gesture-backend/internal/auth"
	"github.com/gesturepath/go-gesture-backend/internal/domain"
	"github.com/gesturepath/go-gesture-backend/internal/services"
)

// SignupRequest is the JSON payload for creating an account.
type SignupRequest struct {
	Name     string `json:"name" example:"Ann"`
	Email    string `json:"email" example:"ann@x.com"`
	Password string `json:"password" example:"secret1"`
}

// LoginRequest is the JSON payload for logging in.
type LoginRequest struct {
	Email    string `json:"email" example:"ann@x.com"`
	Password string `json:"password" example:"secret1"`
}

// RefreshRequest is the JSON payload for refreshing a token.
type RefreshRequest struct {
	Token string `json:"token"`
}

// AuthResponse carries the authenticated user and a bearer token.
type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Signup godoc
// @ID          signup
// @Summary     Create an account
// @Description Registers a new user and returns the user with a bearer token.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.SignupRequest  true  "Signup payload"
// @Success     201  {object}  handlers.AuthResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation error or duplicate email"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/signup [post]
func (h *Handlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	user, token, err := h.Auth.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			fail(c, http.StatusBadRequest, ErrCodeEmailTaken, err.Error())
		case errors.Is(err, services.ErrNameTooShort),
			errors.Is(err, services.ErrInvalidEmail),
			errors.Is(err, services.ErrPasswordTooShort):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to create account")
		}
		return
	}
	ok(c, http.StatusCreated, AuthResponse{User: user, Token: token})
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Verifies email/password and returns the user with a bearer token.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.LoginRequest  true  "Login payload"
// @Success     200  {object}  handlers.AuthResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password required")
		return
	}

	user, token, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to authenticate")
		return
	}
	ok(c, http.StatusOK, AuthResponse{User: user, Token: token})
}

// Refresh godoc
// @ID          refreshToken
// @Summary     Refresh a token
// @Description Exchanges a still-valid token for a freshly issued one.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.RefreshRequest  true  "Refresh payload"
// @Success     200  {object}  handlers.AuthResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid or expired token"
// @Router      /auth/refresh [post]
func (h *Handlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "token required")
		return
	}

	user, token, err := h.Auth.Refresh(c.Request.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			fail(c, http.StatusUnauthorized, ErrCodeTokenExpired, "token expired")
		case errors.Is(err, auth.ErrTokenMalformed), errors.Is(err, auth.ErrTokenInvalid):
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid or expired token")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to refresh token")
		}
		return
	}
	ok(c, http.StatusOK, AuthResponse{User: user, Token: token})
}
