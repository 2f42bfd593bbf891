package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestPostgresStoreUpsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := &PostgresStore{pool: mock}
	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO conversations").
		WithArgs("conv-1", "hello coach", pgxmock.AnyArg(), false, DefaultTitle).
		WillReturnRows(pgxmock.NewRows([]string{"title", "created_at", "updated_at"}).
			AddRow("hello coach", now, now))

	conv, err := store.Upsert(context.Background(), &Conversation{
		ID: "conv-1",
		Messages: []ChatMessage{
			{Role: ChatRoleSystem, Content: "prompt"},
			{Role: ChatRoleUser, Content: "hello coach"},
		},
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if conv.Title != "hello coach" {
		t.Fatalf("unexpected title: %q", conv.Title)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStoreGetNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := &PostgresStore{pool: mock}
	mock.ExpectQuery("SELECT id, title, messages").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestPostgresStoreGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := &PostgresStore{pool: mock}
	now := time.Now().UTC()
	raw := []byte(`[{"role":"user","content":"hello"},{"role":"assistant","content":"hi"}]`)
	mock.ExpectQuery("SELECT id, title, messages").
		WithArgs("conv-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "messages", "escalated", "created_at", "updated_at"}).
			AddRow("conv-1", "hello", raw, false, now, now))

	conv, err := store.Get(context.Background(), "conv-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(conv.Messages))
	}
	if conv.Messages[1].Content != "hi" {
		t.Fatalf("unexpected message: %#v", conv.Messages[1])
	}
}

func TestPostgresStoreList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := &PostgresStore{pool: mock}
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, title, escalated").
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "escalated", "created_at", "updated_at", "count"}).
			AddRow("conv-2", "newer", false, now, now, 4).
			AddRow("conv-1", "older", true, now.Add(-time.Hour), now.Add(-time.Hour), 2))

	summaries, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ID != "conv-2" || summaries[0].MessageCount != 4 {
		t.Fatalf("unexpected first summary: %#v", summaries[0])
	}
}

func TestPostgresStoreDeleteStale(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := &PostgresStore{pool: mock}
	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	mock.ExpectExec("DELETE FROM conversations WHERE updated_at").
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	deleted, err := store.DeleteStale(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("DeleteStale returned error: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected 3 deletions, got %d", deleted)
	}
}
