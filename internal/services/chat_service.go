// Package services – ChatService
//
// This file implements the ChatService, which manages the lifecycle of chats.
// It validates titles and mode pairs, enforces ownership rules, and coordinates
// repository operations for creating, listing, fetching, and deleting chats.
// A chat's mode pair is declared at creation and fixed for the chat's life.
//
// Service-level errors (e.g., ErrChatNotFound) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"golang.org/x/text/language"

	"github.com/gesturepath/go-gesture-backend/internal/domain"
	"github.com/gesturepath/go-gesture-backend/internal/modes"
	"github.com/gesturepath/go-gesture-backend/internal/repo"
)

// ChatService provides chat-level operations such as creating, listing,
// fetching, and deleting chats. It enforces title rules, mode-pair validity,
// and ownership constraints.
type ChatService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// TitleMaxLen caps stored titles by rune length.
	TitleMaxLen int
	// TitleLocale selects the casing locale for auto-generated titles
	// (see MessageService).
	TitleLocale language.Tag
}

// NewChatService constructs a ChatService with sane defaults for title handling.
func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{
		DB:          db,
		TitleMaxLen: 120,
		TitleLocale: language.Und,
	}
}

// Create inserts a new chat owned by userID with the provided title and mode
// pair. Titles are normalized, trimmed, and clipped; a blank title is
// rejected. Both modes must belong to the closed mode set; equal input and
// output modes are legal.
func (s *ChatService) Create(ctx context.Context, userID, title, inputMode, outputMode string) (*domain.Chat, error) {
	title = normalizeTitle(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	in := modes.Mode(strings.TrimSpace(inputMode))
	out := modes.Mode(strings.TrimSpace(outputMode))
	if err := modes.ValidatePair(in, out); err != nil {
		return nil, err
	}
	return repo.CreateChat(ctx, s.DB, userID, s.clip(title), in.String(), out.String())
}

// List returns all chats for a user, most recently active first, each with its
// full ordered message log.
func (s *ChatService) List(ctx context.Context, userID string) ([]domain.Chat, error) {
	return repo.ListChats(ctx, s.DB, userID)
}

// Get fetches a single chat by id, ensuring it belongs to the given user.
// A chat owned by someone else is indistinguishable from a missing one.
func (s *ChatService) Get(ctx context.Context, userID, chatID string) (*domain.Chat, error) {
	c, err := repo.GetChat(ctx, s.DB, chatID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return c, nil
}

// Delete removes a chat and its entire message log atomically, ensuring the
// chat belongs to the given user.
func (s *ChatService) Delete(ctx context.Context, userID, chatID string) error {
	err := repo.DeleteChat(ctx, s.DB, chatID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrChatNotFound
	}
	return err
}

// clip truncates a chat title to the configured maximum rune length.
func (s *ChatService) clip(title string) string {
	if s.TitleMaxLen > 0 && utf8.RuneCountInString(title) > s.TitleMaxLen {
		return string([]rune(title)[:s.TitleMaxLen])
	}
	return title
}

// normalizeTitle trims whitespace and collapses multiple spaces to one.
func normalizeTitle(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
