// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for uploaded file
// metadata.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gesturepath/go-gesture-backend/internal/domain"
)

// CreateFileUpload records metadata for a stored file owned by userID.
func CreateFileUpload(ctx context.Context, db *gorm.DB, userID, filename, originalName, mimeType string, size int64, mode, path string) (*domain.FileUpload, error) {
	f := &domain.FileUpload{
		ID:           uuid.NewString(),
		UserID:       userID,
		Filename:     filename,
		OriginalName: originalName,
		MimeType:     mimeType,
		Size:         size,
		Mode:         mode,
		Path:         path,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

// GetFileUpload fetches an upload by id scoped to its owner. Returns
// ErrNotFound when missing or owned by another user.
func GetFileUpload(ctx context.Context, db *gorm.DB, id, userID string) (*domain.FileUpload, error) {
	var f domain.FileUpload
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// DeleteFileUpload removes an upload row scoped to its owner. Returns
// ErrNotFound when no row matched; removing the on-disk file is the caller's
// concern.
func DeleteFileUpload(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.FileUpload{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
