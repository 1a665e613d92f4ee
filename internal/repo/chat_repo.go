// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Chat model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a chat is not found, functions return ErrNotFound (an alias of
//     gorm.ErrRecordNotFound). Ownership is part of every lookup, so a chat
//     owned by another user is indistinguishable from a missing one.
//   - On DB errors (constraint violations, connectivity issues, etc.), the
//     raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gesturepath/go-gesture-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist. It aliases
// gorm.ErrRecordNotFound for convenience across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// messageOrder keeps preloaded message logs in insertion order.
func messageOrder(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}

// CreateChat inserts a new Chat row owned by userID with the given title and
// mode pair. The chat ID is a randomly generated UUID, and CreatedAt equals
// UpdatedAt at creation time.
func CreateChat(ctx context.Context, db *gorm.DB, userID, title, inputMode, outputMode string) (*domain.Chat, error) {
	now := time.Now().UTC()
	c := &domain.Chat{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      title,
		InputMode:  inputMode,
		OutputMode: outputMode,
		CreatedAt:  now,
		UpdatedAt:  now,
		Messages:   []domain.Message{},
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListChats returns all chats belonging to userID, ordered by last activity
// descending (most recently updated first), each with its full ordered
// message log. It returns an empty slice if the user has no chats.
func ListChats(ctx context.Context, db *gorm.DB, userID string) ([]domain.Chat, error) {
	out := []domain.Chat{}
	err := db.WithContext(ctx).
		Preload("Messages", messageOrder).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&out).Error
	return out, err
}

// GetChat fetches a single chat by its ID and owner (userID), including its
// ordered message log. If the record does not exist or is owned by a
// different user, it returns ErrNotFound.
func GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error) {
	var c domain.Chat
	err := db.WithContext(ctx).
		Preload("Messages", messageOrder).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	if c.Messages == nil {
		c.Messages = []domain.Message{}
	}
	return &c, nil
}

// DeleteChat removes a chat and all of its messages atomically. The message
// deletion and the chat deletion run in one transaction so a concurrent
// append cannot resurrect rows for a chat whose delete has completed.
// Returns ErrNotFound when the chat is missing or owned by another user.
func DeleteChat(ctx context.Context, db *gorm.DB, id, userID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Chat{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		// FK cascade covers drivers that enforce it; the explicit delete keeps
		// the invariant when PRAGMA foreign_keys is off.
		return tx.Where("chat_id = ?", id).Delete(&domain.Message{}).Error
	})
}

// TouchChat bumps a chat's updated_at to the given time.
func TouchChat(db *gorm.DB, id string, at time.Time) error {
	return db.Model(&domain.Chat{}).Where("id = ?", id).Update("updated_at", at).Error
}

// CountChats returns the total number of chats owned by userID.
func CountChats(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}
