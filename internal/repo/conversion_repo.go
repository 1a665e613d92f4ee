// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Conversion
// history read-model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gesturepath/go-gesture-backend/internal/domain"
)

// CreateConversion records one completed conversion for userID.
func CreateConversion(ctx context.Context, db *gorm.DB, userID, inputMode, outputMode, inputContent, outputContent string, processingMs int64) (*domain.Conversion, error) {
	c := &domain.Conversion{
		ID:             uuid.NewString(),
		UserID:         userID,
		InputMode:      inputMode,
		OutputMode:     outputMode,
		InputContent:   inputContent,
		OutputContent:  outputContent,
		ProcessingTime: processingMs,
		CreatedAt:      time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// CountConversions returns the total number of recorded conversions for userID.
func CountConversions(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Conversion{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListConversionsPage returns a page of conversions for userID, newest first.
func ListConversionsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Conversion, error) {
	out := []domain.Conversion{}
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
