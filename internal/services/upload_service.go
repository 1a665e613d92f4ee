// Package services – UploadService
//
// This file implements UploadService, which accepts a single uploaded file,
// sniffs its real content type, maps it to a content mode, stores the bytes
// under the upload directory, and persists a metadata row. The sniff happens
// on the buffered payload before anything touches the disk, so a rejected
// file is never retained.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gesturepath/go-gesture-backend/internal/domain"
	"github.com/gesturepath/go-gesture-backend/internal/modes"
	"github.com/gesturepath/go-gesture-backend/internal/repo"
)

// UploadService stores uploaded files and their metadata.
type UploadService struct {
	DB *gorm.DB

	// Dir is the storage directory for uploaded bytes.
	Dir string
	// MaxSizeBytes rejects larger payloads before storage.
	MaxSizeBytes int64
}

// NewUploadService constructs an UploadService writing into dir.
func NewUploadService(db *gorm.DB, dir string, maxSize int64) *UploadService {
	return &UploadService{DB: db, Dir: dir, MaxSizeBytes: maxSize}
}

// UploadResult is the outcome of a stored upload: the persisted metadata plus
// the processed content derived from the file, which is returned to the
// client but not stored.
type UploadResult struct {
	File             *domain.FileUpload
	ProcessedContent string
}

// Store reads the payload, sniffs its MIME type, maps it to a mode, writes
// the bytes under Dir with a unique sanitized name, and persists the metadata
// row. It returns ErrNoFile for an empty payload, ErrFileTooLarge past the
// configured limit, and ErrUnsupportedFileType for content outside the
// allow-map; in every error case nothing remains on disk.
func (s *UploadService) Store(ctx context.Context, userID, originalName string, r io.Reader) (*UploadResult, error) {
	if r == nil || strings.TrimSpace(originalName) == "" {
		return nil, ErrNoFile
	}

	limit := s.MaxSizeBytes
	if limit <= 0 {
		limit = 50 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoFile
	}
	if int64(len(data)) > limit {
		return nil, ErrFileTooLarge
	}

	mime := baseMIME(mimetype.Detect(data).String())
	mode, ok := modeForMIME(mime)
	if !ok {
		return nil, ErrUnsupportedFileType
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, err
	}
	name := uniqueFilename(originalName)
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, err
	}

	f, err := repo.CreateFileUpload(ctx, s.DB, userID, name, originalName, mime, int64(len(data)), mode.String(), path)
	if err != nil {
		// Metadata write failed: the stored bytes must not outlive the row.
		if rerr := os.Remove(path); rerr != nil {
			log.Warn().Err(rerr).Str("path", path).Msg("orphaned upload cleanup failed")
		}
		return nil, err
	}

	return &UploadResult{
		File:             f,
		ProcessedContent: processedContent(f, data, mode),
	}, nil
}

// Get fetches upload metadata by id, scoped to its owner.
func (s *UploadService) Get(ctx context.Context, userID, id string) (*domain.FileUpload, error) {
	f, err := repo.GetFileUpload(ctx, s.DB, id, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, err
	}
	return f, nil
}

// Delete removes an upload's metadata row and its on-disk bytes, scoped to
// its owner. A failure to unlink the file after the row is gone is logged
// and swallowed.
func (s *UploadService) Delete(ctx context.Context, userID, id string) error {
	f, err := repo.GetFileUpload(ctx, s.DB, id, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUploadNotFound
		}
		return err
	}
	if err := repo.DeleteFileUpload(ctx, s.DB, id, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUploadNotFound
		}
		return err
	}
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("path", f.Path).Msg("upload file removal failed")
	}
	return nil
}

// modeForMIME maps a sniffed MIME type onto a content mode. The allow-map is
// prefix-based: images and video are visual, audio is audio, and text-bearing
// document types are text.
func modeForMIME(mime string) (modes.Mode, bool) {
	switch {
	case strings.HasPrefix(mime, "image/"), strings.HasPrefix(mime, "video/"):
		return modes.Visual, true
	case strings.HasPrefix(mime, "audio/"):
		return modes.Audio, true
	case strings.HasPrefix(mime, "text/"),
		mime == "application/pdf",
		mime == "application/msword",
		strings.HasPrefix(mime, "application/vnd.openxmlformats-officedocument"):
		return modes.Text, true
	}
	return "", false
}

// baseMIME strips parameters such as "; charset=utf-8".
func baseMIME(mime string) string {
	base, _, _ := strings.Cut(mime, ";")
	return strings.TrimSpace(base)
}

// unsafeFilenameRE matches every byte we refuse to keep in a stored filename.
var unsafeFilenameRE = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// uniqueFilename prefixes the sanitized original name with a random id so two
// uploads of the same file never collide.
func uniqueFilename(originalName string) string {
	sanitized := unsafeFilenameRE.ReplaceAllString(filepath.Base(originalName), "_")
	return uuid.NewString() + "-" + sanitized
}

// processedContent derives the client-facing processed payload. Plain text
// comes back verbatim; other types return a summary of what a real processing
// pipeline would extract.
func processedContent(f *domain.FileUpload, data []byte, mode modes.Mode) string {
	switch mode {
	case modes.Visual:
		return fmt.Sprintf("Visual file processed: %s\nType: %s\nSize: %d bytes", f.OriginalName, f.MimeType, f.Size)
	case modes.Audio:
		return fmt.Sprintf("Audio file processed: %s\nType: %s\nSize: %d bytes", f.OriginalName, f.MimeType, f.Size)
	default:
		if f.MimeType == "text/plain" {
			return string(data)
		}
		return fmt.Sprintf("Text document processed: %s\nType: %s\nSize: %d bytes", f.OriginalName, f.MimeType, f.Size)
	}
}
