package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestInMemoryStoreDerivesTitleFromFirstUserMessage(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	conv, err := store.Upsert(ctx, &Conversation{
		ID: "conv-1",
		Messages: []ChatMessage{
			{Role: ChatRoleSystem, Content: "system prompt"},
			{Role: ChatRoleUser, Content: "I want to get stronger for rugby season"},
			{Role: ChatRoleAssistant, Content: "Great goal!"},
		},
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if conv.Title != "I want to get stronger for rugby season" {
		t.Fatalf("unexpected title: %q", conv.Title)
	}
}

func TestInMemoryStoreTruncatesLongTitles(t *testing.T) {
	store := NewInMemoryStore()
	long := strings.Repeat("a", 80)

	conv, err := store.Upsert(context.Background(), &Conversation{
		ID:       "conv-1",
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: long}},
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if conv.Title != strings.Repeat("a", 50)+"..." {
		t.Fatalf("unexpected title: %q", conv.Title)
	}
}

func TestInMemoryStorePreservesCreatedAtAndTitle(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	first, err := store.Upsert(ctx, &Conversation{
		ID:       "conv-1",
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hello there"}},
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	second, err := store.Upsert(ctx, &Conversation{
		ID: "conv-1",
		Messages: []ChatMessage{
			{Role: ChatRoleUser, Content: "hello there"},
			{Role: ChatRoleAssistant, Content: "hi"},
			{Role: ChatRoleUser, Content: "completely different message"},
		},
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("expected CreatedAt to be preserved across upserts")
	}
	if second.Title != "hello there" {
		t.Fatalf("expected original title kept, got %q", second.Title)
	}
}

func TestInMemoryStoreListSortsByRecency(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	if _, err := store.Upsert(ctx, &Conversation{
		ID:       "older",
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: "first"}},
	}); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, err := store.Upsert(ctx, &Conversation{
		ID: "newer",
		Messages: []ChatMessage{
			{Role: ChatRoleSystem, Content: "prompt"},
			{Role: ChatRoleUser, Content: "second"},
		},
	}); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	summaries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ID != "newer" {
		t.Fatalf("expected most recent first, got %s", summaries[0].ID)
	}
	if summaries[0].MessageCount != 1 {
		t.Fatalf("system prompts must not count, got %d", summaries[0].MessageCount)
	}
}

func TestInMemoryStoreDelete(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	if _, err := store.Upsert(ctx, &Conversation{
		ID:       "conv-1",
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hello"}},
	}); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	if err := store.Delete(ctx, "conv-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := store.Delete(ctx, "conv-1"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}
