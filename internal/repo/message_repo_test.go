package repo

import (
	"context"
	"testing"

	"github.com/gesturepath/go-gesture-backend/internal/domain"
)

func TestCreateMessage_DefaultsAndMetadata(t *testing.T) {
	db := newRepoDB(t, &domain.Chat{}, &domain.Message{})
	chat, err := CreateChat(context.Background(), db, "u1", "T", "text", "audio")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	meta := &domain.MessageMeta{OriginalMode: "text", TargetMode: "audio", ProcessingTime: 12}
	m, err := CreateMessage(db, chat.ID, "assistant", "converted", "audio", meta)
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if m.ID == "" || m.CreatedAt.IsZero() {
		t.Fatalf("server-assigned fields missing: %+v", m)
	}

	got, err := GetMessage(db, m.ID)
	if err != nil {
		t.Fatalf("GetMessage: %v", err)
	}
	if got.Type != "audio" || got.Role != "assistant" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.Metadata == nil || got.Metadata.TargetMode != "audio" || got.Metadata.ProcessingTime != 12 {
		t.Fatalf("metadata round-trip mismatch: %+v", got.Metadata)
	}
}

func TestListMessages_InsertionOrderAndLimit(t *testing.T) {
	db := newRepoDB(t, &domain.Chat{}, &domain.Message{})
	chat, _ := CreateChat(context.Background(), db, "u1", "T", "text", "audio")

	for _, content := range []string{"a", "b", "c"} {
		if _, err := CreateMessage(db, chat.ID, "user", content, "text", nil); err != nil {
			t.Fatalf("CreateMessage(%s): %v", content, err)
		}
	}

	all, err := ListMessages(db, chat.ID, 0)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(all) != 3 || all[0].Content != "a" || all[2].Content != "c" {
		t.Fatalf("order broken: %+v", all)
	}

	limited, err := ListMessages(db, chat.ID, 2)
	if err != nil {
		t.Fatalf("ListMessages limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("limit ignored: %d", len(limited))
	}
}

func TestCountMessages_ErrorWithoutTable(t *testing.T) {
	db := newRepoDB(t /* no migrations */)
	if _, err := CountMessages(db, "c1"); err == nil {
		t.Fatal("expected error counting without table")
	}
}

func TestListMessagesPage(t *testing.T) {
	db := newRepoDB(t, &domain.Chat{}, &domain.Message{})
	chat, _ := CreateChat(context.Background(), db, "u1", "T", "text", "audio")
	for _, content := range []string{"a", "b", "c", "d"} {
		if _, err := CreateMessage(db, chat.ID, "user", content, "text", nil); err != nil {
			t.Fatalf("CreateMessage: %v", err)
		}
	}

	page, err := ListMessagesPage(db, chat.ID, 1, 2)
	if err != nil {
		t.Fatalf("ListMessagesPage: %v", err)
	}
	if len(page) != 2 || page[0].Content != "b" || page[1].Content != "c" {
		t.Fatalf("page = %+v", page)
	}
}
