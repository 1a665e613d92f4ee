// Chat HTTP handlers.
//
// This file exposes REST endpoints for chat resources:
//   - POST   /chat       (create)
//   - GET    /chat       (list, newest activity first, weak ETag support)
//   - GET    /chat/{id}  (fetch one chat with its messages)
//   - DELETE /chat/{id}  (delete a chat and its messages)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gesturepath/go-gesture-backend/internal/modes"
	"github.com/gesturepath/go-gesture-backend/internal/repo"
	"github.com/gesturepath/go-gesture-backend/internal/services"
)

// Handlers groups the HTTP endpoints for auth, chats, messages, conversion,
// and uploads. Services are injected so transport stays separate from
// business logic.
type Handlers struct {
	Auth        *services.AuthService
	Chats       *services.ChatService
	Messages    *services.MessageService
	Conversions *services.ConversionService
	Uploads     *services.UploadService

	// DB and IdempotencyTTL back idempotent message creation.
	DB             *gorm.DB
	IdempotencyTTL time.Duration
}

// New constructs a Handlers instance bound to the given services.
func New(db *gorm.DB, authSvc *services.AuthService, chatSvc *services.ChatService, msgSvc *services.MessageService, convSvc *services.ConversionService, uploadSvc *services.UploadService) *Handlers {
	return &Handlers{
		Auth:        authSvc,
		Chats:       chatSvc,
		Messages:    msgSvc,
		Conversions: convSvc,
		Uploads:     uploadSvc,
		DB:          db,
	}
}

// userID extracts the authenticated user id set by the auth middleware.
// Protected routes always have it; an empty string only occurs when a
// handler is invoked outside the guarded group.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// CreateChatRequest is the JSON payload for creating a chat.
type CreateChatRequest struct {
	Title      string `json:"title" example:"Trip planning"`
	InputMode  string `json:"inputMode" example:"text"`
	OutputMode string `json:"outputMode" example:"visual"`
}

// MessageResponse is the standard wrapper for mutation acknowledgements.
type MessageResponse struct {
	Message string `json:"message" example:"Chat deleted successfully"`
}

// CreateChat godoc
// @ID          createChat
// @Summary     Create a new chat
// @Description Creates a chat with a title and a mode pair for the current user.
// @Tags        Chats
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body  handlers.CreateChatRequest  true  "Create chat payload"
// @Success     201  {object}  domain.Chat
// @Failure     400  {object}  handlers.ErrorResponse  "Missing title or invalid mode"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat [post]
func (h *Handlers) CreateChat(c *gin.Context) {
	var req CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ch, err := h.Chats.Create(c.Request.Context(), userID(c), req.Title, req.InputMode, req.OutputMode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyTitle):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, modes.ErrInvalidMode):
			fail(c, http.StatusBadRequest, ErrCodeInvalidMode, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to create chat")
		}
		return
	}
	ok(c, http.StatusCreated, ch)
}

// ListChats godoc
// @ID          listChats
// @Summary     List chats
// @Description Returns the user's chats ordered by last activity. Supports weak ETag via If-None-Match.
// @Tags        Chats
// @Produce     json
// @Security    BearerAuth
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Success     200  {array}   domain.Chat
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat [get]
func (h *Handlers) ListChats(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	// ETag pre-check (best effort): count and last activity are enough to
	// detect staleness without loading the rows.
	if count, maxTS, err := repo.ChatsStats(ctx, h.DB, uid); err == nil {
		// Nanosecond precision so appends within the same second still
		// invalidate the tag.
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		etag := fmt.Sprintf(`W/"chats:%s:%d:%d"`, uid, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	chats, err := h.Chats.List(ctx, uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to list chats")
		return
	}
	ok(c, http.StatusOK, chats)
}

// GetChat godoc
// @ID          getChat
// @Summary     Fetch a chat
// @Description Returns a chat owned by the current user, messages included.
// @Tags        Chats
// @Produce     json
// @Security    BearerAuth
// @Param       id  path  string  true  "Chat ID"
// @Success     200  {object}  domain.Chat
// @Failure     404  {object}  handlers.ErrorResponse  "Chat not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/{id} [get]
func (h *Handlers) GetChat(c *gin.Context) {
	ch, err := h.Chats.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrChatNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Chat not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to fetch chat")
		return
	}
	ok(c, http.StatusOK, ch)
}

// DeleteChat godoc
// @ID          deleteChat
// @Summary     Delete a chat
// @Description Deletes a chat owned by the current user together with its messages.
// @Tags        Chats
// @Produce     json
// @Security    BearerAuth
// @Param       id  path  string  true  "Chat ID"
// @Success     200  {object}  handlers.MessageResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Chat not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/{id} [delete]
func (h *Handlers) DeleteChat(c *gin.Context) {
	if err := h.Chats.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		if errors.Is(err, services.ErrChatNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Chat not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to delete chat")
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: "Chat deleted successfully"})
}
