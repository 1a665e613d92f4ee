// Package services – MessageService
//
// This file implements MessageService, the application-level component that
// owns the append-only message log of a chat. It validates inputs, checks chat
// ownership, and persists messages while bumping the chat's last-activity
// timestamp in the same transaction.
//
// Optional enhancement: it auto-generates a chat title from the first user
// message when the chat still carries a default/placeholder title.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// chat/user identifiers and pagination parameters where applicable.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gesturepath/go-gesture-backend/internal/domain"
	"github.com/gesturepath/go-gesture-backend/internal/modes"
	"github.com/gesturepath/go-gesture-backend/internal/repo"
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"

	// default titles considered placeholders and eligible for auto-generation
	defaultTitleNew      = "New chat"
	defaultTitleUntitled = "Untitled"
)

// MessageService coordinates message persistence within owned chats.
type MessageService struct {
	DB *gorm.DB

	// MaxContentRunes caps message content length when > 0.
	MaxContentRunes int

	// Title generation config
	TitleLocale language.Tag
	TitleMaxLen int
}

// NewMessageService constructs a MessageService with default title handling.
func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{
		DB:          db,
		TitleLocale: language.Und,
		TitleMaxLen: 120,
	}
}

// Append validates and persists one message in the given chat. The message
// type defaults to "text" and must otherwise name a known mode. The chat's
// updated_at is bumped to the message timestamp in the same transaction, and
// the chat's existence is re-checked inside that transaction so an append
// racing a delete cannot write an orphan row.
func (s *MessageService) Append(ctx context.Context, userID, chatID, role, content, msgType string, meta *domain.MessageMeta) (*domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Append",
		trace.WithAttributes(
			attribute.String("chat.id", chatID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if s.MaxContentRunes > 0 && utf8.RuneCountInString(content) > s.MaxContentRunes {
		content = string([]rune(content)[:s.MaxContentRunes])
	}
	if role != roleUser && role != roleAssistant {
		return nil, ErrInvalidRole
	}
	if msgType == "" {
		msgType = modes.Text.String()
	}
	if !modes.IsValid(modes.Mode(msgType)) {
		return nil, modes.ErrInvalidMode
	}

	chat, err := repo.GetChat(ctx, s.DB, chatID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}

	var msg *domain.Message
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-check under the transaction: a concurrent delete between the
		// ownership check above and this point must win.
		var live int64
		if err := tx.Model(&domain.Chat{}).
			Where("id = ? AND user_id = ?", chatID, userID).
			Count(&live).Error; err != nil {
			return err
		}
		if live == 0 {
			return ErrChatNotFound
		}

		m, err := repo.CreateMessage(tx, chatID, role, content, msgType, meta)
		if err != nil {
			return err
		}
		msg = m

		if err := repo.TouchChat(tx, chatID, m.CreatedAt); err != nil {
			return err
		}

		if role == roleUser && s.shouldAutoTitle(chat.Title) {
			if gen := s.generateTitle(content); gen != "" {
				if uerr := tx.Model(&domain.Chat{}).
					Where("id = ?", chatID).
					Update("title", s.clipTitle(gen)).Error; uerr != nil {
					return uerr
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ListPage returns a page of messages for a chat owned by userID, in
// insertion order.
func (s *MessageService) ListPage(ctx context.Context, userID, chatID string, page, pageSize int) ([]domain.Message, int64, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("chat.id", chatID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var owned int64
	if err := s.DB.WithContext(ctx).Model(&domain.Chat{}).
		Where("id = ? AND user_id = ?", chatID, userID).
		Count(&owned).Error; err != nil {
		return nil, 0, err
	}
	if owned == 0 {
		return nil, 0, ErrChatNotFound
	}

	total, err := repo.CountMessages(s.DB.WithContext(ctx), chatID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Message{}, 0, nil
	}

	items, err := repo.ListMessagesPage(s.DB.WithContext(ctx), chatID, offset, pageSize)
	return items, total, err
}

// shouldAutoTitle reports whether the current title is a placeholder.
func (s *MessageService) shouldAutoTitle(current string) bool {
	t := strings.TrimSpace(strings.ToLower(current))
	return t == "" || t == strings.ToLower(defaultTitleNew) || t == strings.ToLower(defaultTitleUntitled)
}

// generateTitle derives a concise title from the first user message.
func (s *MessageService) generateTitle(content string) string {
	toks := titleWordRE.FindAllString(strings.ToLower(content), -1)
	if len(toks) == 0 {
		return ""
	}

	locale := s.TitleLocale
	if locale == language.Und {
		locale = language.English
	}
	titleCaser := cases.Title(locale)

	out := make([]string, 0, 8)
	for _, w := range toks {
		if _, skip := titleStopWords[w]; skip {
			continue
		}
		out = append(out, titleCaser.String(w))
		if len(out) >= 8 {
			break
		}
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, " ")
}

// clipTitle truncates a generated title to the configured maximum rune length.
func (s *MessageService) clipTitle(title string) string {
	max := s.TitleMaxLen
	if max <= 0 {
		max = 120
	}
	if utf8.RuneCountInString(title) > max {
		return string([]rune(title)[:max])
	}
	return title
}

// titleWordRE extracts Unicode letters with optional trailing digits.
var titleWordRE = regexp.MustCompile(`[\p{L}]+[\p{N}]*`)

// titleStopWords is a minimal English stop-word set for compact titles.
var titleStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {}, "in": {},
	"is": {}, "are": {}, "for": {}, "on": {}, "with": {}, "by": {}, "from": {},
	"at": {}, "as": {}, "that": {}, "this": {}, "it": {}, "be": {}, "was": {}, "were": {},
}
