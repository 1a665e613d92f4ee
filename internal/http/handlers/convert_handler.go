// Conversion HTTP handlers.
//
// This file exposes the mode-conversion endpoints:
//   - POST /convert          (single mode-pair conversion)
//   - POST /convert/instant  (fan-out to every target mode at once)
//   - GET  /convert/history  (paginated per-user conversion log)
//
// Single conversions distinguish an unsupported pair (no converter route)
// from a conversion that was attempted and failed; both map to 422 with
// their own error codes.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gesturepath/go-gesture-backend/internal/convert"
	"github.com/gesturepath/go-gesture-backend/internal/domain"
	"github.com/gesturepath/go-gesture-backend/internal/modes"
	"github.com/gesturepath/go-gesture-backend/internal/services"
	"github.com/gesturepath/go-gesture-backend/internal/utils"
)

// ConvertRequest is the JSON payload for a single conversion.
type ConvertRequest struct {
	Content    string `json:"content" example:"turn left at the fountain"`
	InputMode  string `json:"inputMode" example:"text"`
	OutputMode string `json:"outputMode" example:"visual"`
	// InstantMode is echoed back so clients can correlate; the fan-out
	// endpoint is /convert/instant.
	InstantMode bool `json:"instantMode"`
}

// InstantRequest is the JSON payload for an instant fan-out conversion.
type InstantRequest struct {
	Content string `json:"content" example:"turn left at the fountain"`
}

// ConvertMetadata annotates a conversion result.
type ConvertMetadata struct {
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
}

// ConvertResponse is the result of a single conversion.
type ConvertResponse struct {
	ConvertedContent string          `json:"convertedContent"`
	ProcessingTime   int64           `json:"processingTime"`
	InputMode        string          `json:"inputMode"`
	OutputMode       string          `json:"outputMode"`
	InstantMode      bool            `json:"instantMode"`
	Metadata         ConvertMetadata `json:"metadata"`
}

// InstantResponse is the result of an instant fan-out. Conversions holds the
// converted content per target mode; branches that failed are absent from it
// and reported in Errors instead.
type InstantResponse struct {
	Conversions    map[string]string `json:"conversions"`
	Errors         map[string]string `json:"errors,omitempty"`
	ProcessingTime int64             `json:"processingTime"`
	InputContent   string            `json:"inputContent"`
	Timestamp      time.Time         `json:"timestamp"`
}

// HistoryPagination mirrors the paging envelope used by the history endpoint.
type HistoryPagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// HistoryResponse wraps a page of past conversions.
type HistoryResponse struct {
	History    []domain.Conversion `json:"history"`
	Pagination HistoryPagination   `json:"pagination"`
}

// Convert godoc
// @ID          convertContent
// @Summary     Convert content between modes
// @Description Converts content from inputMode to outputMode and records the result in history.
// @Tags        Conversion
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body  handlers.ConvertRequest  true  "Conversion payload"
// @Success     200  {object}  handlers.ConvertResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing content or invalid mode"
// @Failure     422  {object}  handlers.ErrorResponse  "Unsupported pair or failed conversion"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /convert [post]
func (h *Handlers) Convert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	res, err := h.Conversions.Convert(c.Request.Context(), userID(c), req.Content, req.InputMode, req.OutputMode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyContent):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, modes.ErrInvalidMode):
			fail(c, http.StatusBadRequest, ErrCodeInvalidMode, err.Error())
		case errors.Is(err, convert.ErrUnsupportedConversion):
			fail(c, http.StatusUnprocessableEntity, ErrCodeUnsupportedConversion, err.Error())
		case errors.Is(err, convert.ErrConversionFailed):
			fail(c, http.StatusUnprocessableEntity, ErrCodeConversionFailed, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "conversion failed")
		}
		return
	}

	ok(c, http.StatusOK, ConvertResponse{
		ConvertedContent: res.Content,
		ProcessingTime:   res.ProcessingTime,
		InputMode:        res.InputMode.String(),
		OutputMode:       res.OutputMode.String(),
		InstantMode:      req.InstantMode,
		Metadata:         ConvertMetadata{Timestamp: res.Timestamp, Success: true},
	})
}

// Instant godoc
// @ID          instantConvert
// @Summary     Convert content to every mode at once
// @Description Runs the content through all target modes in parallel and returns each branch's result.
// @Tags        Conversion
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body  handlers.InstantRequest  true  "Instant conversion payload"
// @Success     200  {object}  handlers.InstantResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing content"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /convert/instant [post]
func (h *Handlers) Instant(c *gin.Context) {
	var req InstantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	fan, err := h.Conversions.Instant(c.Request.Context(), userID(c), req.Content)
	if err != nil {
		if errors.Is(err, services.ErrEmptyContent) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "instant conversion failed")
		return
	}

	resp := InstantResponse{
		Conversions:    make(map[string]string, len(fan.Outcomes)),
		ProcessingTime: fan.ProcessingTime,
		InputContent:   req.Content,
		Timestamp:      fan.Timestamp,
	}
	for target, out := range fan.Outcomes {
		if out.Err != nil {
			if resp.Errors == nil {
				resp.Errors = make(map[string]string)
			}
			resp.Errors[target.String()] = out.Err.Error()
			continue
		}
		resp.Conversions[target.String()] = out.Result.Content
	}
	ok(c, http.StatusOK, resp)
}

// History godoc
// @ID          conversionHistory
// @Summary     List past conversions
// @Description Returns the current user's conversion history, newest first.
// @Tags        Conversion
// @Produce     json
// @Security    BearerAuth
// @Param       page   query  int  false  "Page number"     minimum(1) default(1)
// @Param       limit  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.HistoryResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /convert/history [get]
func (h *Handlers) History(c *gin.Context) {
	page, limit := utils.ClampPage(
		utils.AtoiDefault(c.Query("page"), 1),
		utils.AtoiDefault(c.Query("limit"), 20),
		20, 100,
	)

	items, total, err := h.Conversions.History(c.Request.Context(), userID(c), page, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to load history")
		return
	}

	totalPages := utils.TotalPages(total, limit)
	ok(c, http.StatusOK, HistoryResponse{
		History: items,
		Pagination: HistoryPagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  total,
			HasNext:     page < totalPages,
			HasPrev:     page > 1,
		},
	})
}
