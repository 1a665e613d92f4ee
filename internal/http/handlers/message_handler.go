// Message HTTP handlers.
//
// This file exposes message endpoints within a chat:
//   - POST /chat/{id}/messages  (append, idempotent via Idempotency-Key)
//   - GET  /chat/{id}/messages  (paginated listing)
//
// Appends support safe retries: when a request carries an Idempotency-Key
// that already completed, the previously persisted message is replayed with
// its original status code instead of creating a duplicate.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gesturepath/go-gesture-backend/internal/domain"
	"github.com/gesturepath/go-gesture-backend/internal/http/middleware"
	"github.com/gesturepath/go-gesture-backend/internal/modes"
	"github.com/gesturepath/go-gesture-backend/internal/repo"
	"github.com/gesturepath/go-gesture-backend/internal/services"
	"github.com/gesturepath/go-gesture-backend/internal/utils"
)

// PostMessageRequest is the JSON payload for appending a message to a chat.
type PostMessageRequest struct {
	// Role must be "user" or "assistant".
	Role    string `json:"role" example:"user"`
	Content string `json:"content" example:"show me the route as a map"`
	// Type is the content modality; defaults to "text".
	Type     string              `json:"type" example:"text"`
	Metadata *domain.MessageMeta `json:"metadata,omitempty"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListMessagesResponse wraps a page of messages and pagination information.
type ListMessagesResponse struct {
	Messages   []domain.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

// clampPagination parses and bounds page and page_size query params,
// returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	page = utils.AtoiDefault(c.Query("page"), 1)
	pageSize = utils.AtoiDefault(c.Query("page_size"), 20)
	return utils.ClampPage(page, pageSize, 20, 100)
}

// PostMessage godoc
// @ID          postMessage
// @Summary     Append a message to a chat
// @Description Appends a message to a chat owned by the current user. Honors Idempotency-Key for safe retries.
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id               path    string  true   "Chat ID"
// @Param       Idempotency-Key  header  string  false  "Client-chosen key for safe retries"
// @Param       body             body    handlers.PostMessageRequest  true  "Message payload"
// @Success     201  {object}  domain.Message
// @Failure     400  {object}  handlers.ErrorResponse  "Missing content or invalid role/type"
// @Failure     404  {object}  handlers.ErrorResponse  "Chat not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/{id}/messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	chatID := c.Param("id")

	// Serve a stored result when the validator detected a replay. A failed
	// fetch falls through to normal processing rather than erroring out.
	idemKey, hasKey := middleware.GetIdempotencyKey(c)
	if hasKey && middleware.IsReplay(c) {
		scope := middleware.RequestScope(c)
		if rec, err := repo.GetIdempotency(ctx, h.DB, uid, scope, idemKey, time.Now().UTC()); err == nil {
			if msg, err := repo.GetMessage(h.DB.WithContext(ctx), rec.ResultID); err == nil {
				ok(c, rec.Status, msg)
				return
			}
		}
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	msg, err := h.Messages.Append(ctx, uid, chatID, req.Role, req.Content, req.Type, req.Metadata)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChatNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Chat not found")
		case errors.Is(err, services.ErrEmptyContent), errors.Is(err, services.ErrInvalidRole):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, modes.ErrInvalidMode):
			fail(c, http.StatusBadRequest, ErrCodeInvalidMode, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to append message")
		}
		return
	}

	// Record the completed operation for future replays, best effort. A
	// duplicate insert means a concurrent retry won; the stored result wins.
	if hasKey && h.IdempotencyTTL > 0 {
		scope := middleware.RequestScope(c)
		if _, err := repo.CreateIdempotency(ctx, h.DB, uid, scope, idemKey, msg.ID, http.StatusCreated, h.IdempotencyTTL); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record write failed")
		}
	}

	ok(c, http.StatusCreated, msg)
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List messages in a chat
// @Description Returns a page of messages, oldest first, for a chat owned by the current user.
// @Tags        Messages
// @Produce     json
// @Security    BearerAuth
// @Param       id         path   string  true   "Chat ID"
// @Param       page       query  int     false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListMessagesResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Chat not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.Messages.ListPage(c.Request.Context(), userID(c), c.Param("id"), page, pageSize)
	if err != nil {
		if errors.Is(err, services.ErrChatNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Chat not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to list messages")
		return
	}

	totalPages := utils.TotalPages(total, pageSize)
	ok(c, http.StatusOK, ListMessagesResponse{
		Messages: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}
