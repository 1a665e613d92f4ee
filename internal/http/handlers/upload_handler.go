// Upload HTTP handlers.
//
// This file exposes the file endpoints:
//   - POST   /upload       (multipart upload, sniffed and mode-classified)
//   - GET    /upload/{id}  (metadata for an owned upload)
//   - DELETE /upload/{id}  (remove an owned upload and its bytes)
//
// The declared size from the multipart header is checked before the payload
// is read so an oversized request fails fast; the service re-checks the real
// byte count as it buffers.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gesturepath/go-gesture-backend/internal/domain"
	"github.com/gesturepath/go-gesture-backend/internal/services"
)

// UploadedFile is the file portion of an upload response: the stored model
// plus the extracted content.
type UploadedFile struct {
	domain.FileUpload
	ProcessedContent string `json:"processedContent"`
}

// UploadResponse acknowledges a processed upload.
type UploadResponse struct {
	Message string       `json:"message" example:"File uploaded and processed successfully"`
	File    UploadedFile `json:"file"`
}

// Upload godoc
// @ID          uploadFile
// @Summary     Upload a file
// @Description Accepts a multipart file, sniffs its real type, classifies it into a mode, and extracts content.
// @Tags        Uploads
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file  formData  file  true  "File to upload"
// @Success     200  {object}  handlers.UploadResponse
// @Failure     400  {object}  handlers.ErrorResponse  "No file, oversized, or unsupported type"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /upload [post]
func (h *Handlers) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		// The body limiter trips mid-parse when the payload exceeds the
		// route's cap; report that as a size failure, not a missing file.
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			fail(c, http.StatusBadRequest, ErrCodeFileTooLarge, "file too large")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "no file uploaded")
		return
	}
	if max := h.Uploads.MaxSizeBytes; max > 0 && header.Size > max {
		fail(c, http.StatusBadRequest, ErrCodeFileTooLarge, "file too large")
		return
	}

	f, err := header.Open()
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to read upload")
		return
	}
	defer f.Close()

	res, err := h.Uploads.Store(c.Request.Context(), userID(c), header.Filename, f)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoFile):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrFileTooLarge):
			fail(c, http.StatusBadRequest, ErrCodeFileTooLarge, err.Error())
		case errors.Is(err, services.ErrUnsupportedFileType):
			fail(c, http.StatusBadRequest, ErrCodeUnsupportedFileType, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to store upload")
		}
		return
	}

	ok(c, http.StatusOK, UploadResponse{
		Message: "File uploaded and processed successfully",
		File: UploadedFile{
			FileUpload:       *res.File,
			ProcessedContent: res.ProcessedContent,
		},
	})
}

// GetUpload godoc
// @ID          getUpload
// @Summary     Fetch upload metadata
// @Description Returns metadata for an upload owned by the current user.
// @Tags        Uploads
// @Produce     json
// @Security    BearerAuth
// @Param       id  path  string  true  "Upload ID"
// @Success     200  {object}  domain.FileUpload
// @Failure     404  {object}  handlers.ErrorResponse  "File not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /upload/{id} [get]
func (h *Handlers) GetUpload(c *gin.Context) {
	f, err := h.Uploads.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrUploadNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "File not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to fetch file")
		return
	}
	ok(c, http.StatusOK, f)
}

// DeleteUpload godoc
// @ID          deleteUpload
// @Summary     Delete an upload
// @Description Removes an upload owned by the current user, bytes included.
// @Tags        Uploads
// @Produce     json
// @Security    BearerAuth
// @Param       id  path  string  true  "Upload ID"
// @Success     200  {object}  handlers.MessageResponse
// @Failure     404  {object}  handlers.ErrorResponse  "File not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /upload/{id} [delete]
func (h *Handlers) DeleteUpload(c *gin.Context) {
	if err := h.Uploads.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		if errors.Is(err, services.ErrUploadNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "File not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to delete file")
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: "File deleted successfully"})
}
