package services

import (
	"context"
	"errors"
	"testing"

	"github.com/gesturepath/go-gesture-backend/internal/domain"
	"github.com/gesturepath/go-gesture-backend/internal/modes"
)

func newMessageFixture(t *testing.T) (*ChatService, *MessageService, *domain.Chat) {
	t.Helper()
	db := newServiceDB(t)
	chats := NewChatService(db)
	msgs := NewMessageService(db)
	chat, err := chats.Create(context.Background(), "u1", "My chat", "text", "audio")
	if err != nil {
		t.Fatalf("Create chat: %v", err)
	}
	return chats, msgs, chat
}

func TestAppend_Validation(t *testing.T) {
	_, msgs, chat := newMessageFixture(t)
	ctx := context.Background()

	if _, err := msgs.Append(ctx, "u1", chat.ID, "user", "   ", "", nil); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("blank content err = %v, want ErrEmptyContent", err)
	}
	if _, err := msgs.Append(ctx, "u1", chat.ID, "system", "hi", "", nil); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("bad role err = %v, want ErrInvalidRole", err)
	}
	if _, err := msgs.Append(ctx, "u1", chat.ID, "user", "hi", "hologram", nil); !errors.Is(err, modes.ErrInvalidMode) {
		t.Fatalf("bad type err = %v, want ErrInvalidMode", err)
	}
	if _, err := msgs.Append(ctx, "u1", "missing-chat", "user", "hi", "", nil); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("missing chat err = %v, want ErrChatNotFound", err)
	}
	if _, err := msgs.Append(ctx, "u2", chat.ID, "user", "hi", "", nil); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("cross-user err = %v, want ErrChatNotFound", err)
	}
}

func TestAppend_DefaultsAndActivityBump(t *testing.T) {
	chats, msgs, chat := newMessageFixture(t)
	ctx := context.Background()

	m, err := msgs.Append(ctx, "u1", chat.ID, "user", "hello there", "", nil)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if m.Type != "text" {
		t.Fatalf("type default = %q, want text", m.Type)
	}
	if m.ID == "" || m.CreatedAt.IsZero() {
		t.Fatalf("server-assigned fields missing: %+v", m)
	}

	got, err := chats.Get(ctx, "u1", chat.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UpdatedAt.Before(m.CreatedAt) {
		t.Fatalf("UpdatedAt %v not bumped to message time %v", got.UpdatedAt, m.CreatedAt)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "hello there" {
		t.Fatalf("message log = %+v", got.Messages)
	}
}

func TestAppend_ConversionMetadataRoundTrip(t *testing.T) {
	chats, msgs, chat := newMessageFixture(t)
	ctx := context.Background()

	meta := &domain.MessageMeta{OriginalMode: "text", TargetMode: "audio", ProcessingTime: 37}
	if _, err := msgs.Append(ctx, "u1", chat.ID, "assistant", "converted", "audio", meta); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := chats.Get(ctx, "u1", chat.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	m := got.Messages[0]
	if m.Metadata == nil || m.Metadata.TargetMode != "audio" || m.Metadata.ProcessingTime != 37 {
		t.Fatalf("metadata round-trip mismatch: %+v", m.Metadata)
	}
}

func TestAppend_AutoTitlesPlaceholderChat(t *testing.T) {
	db := newServiceDB(t)
	chats := NewChatService(db)
	msgs := NewMessageService(db)
	ctx := context.Background()

	chat, err := chats.Create(ctx, "u1", "New chat", "text", "text")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := msgs.Append(ctx, "u1", chat.ID, "user", "the weather in lisbon this weekend", "", nil); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := chats.Get(ctx, "u1", chat.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Weather Lisbon Weekend" {
		t.Fatalf("auto title = %q", got.Title)
	}

	// A deliberate title is left alone.
	named, _ := chats.Create(ctx, "u1", "Trip planning", "text", "text")
	if _, err := msgs.Append(ctx, "u1", named.ID, "user", "something else entirely", "", nil); err != nil {
		t.Fatalf("Append: %v", err)
	}
	kept, _ := chats.Get(ctx, "u1", named.ID)
	if kept.Title != "Trip planning" {
		t.Fatalf("deliberate title overwritten: %q", kept.Title)
	}
}

func TestMessageListPage(t *testing.T) {
	_, msgs, chat := newMessageFixture(t)
	ctx := context.Background()

	for _, content := range []string{"a", "b", "c", "d", "e"} {
		if _, err := msgs.Append(ctx, "u1", chat.ID, "user", content, "", nil); err != nil {
			t.Fatalf("Append(%s): %v", content, err)
		}
	}

	page, total, err := msgs.ListPage(ctx, "u1", chat.ID, 2, 2)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	if len(page) != 2 || page[0].Content != "c" || page[1].Content != "d" {
		t.Fatalf("page = %+v", page)
	}

	if _, _, err := msgs.ListPage(ctx, "u2", chat.ID, 1, 10); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("cross-user ListPage err = %v, want ErrChatNotFound", err)
	}
}
