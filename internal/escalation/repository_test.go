package escalation

import (
	"context"
	"errors"
	"testing"
)

func TestInMemoryRepositoryCreateAndGet(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	esc, err := repo.Create(ctx, &CreateRequest{
		ConversationID: "conv-1",
		Reason:         "Visitor asked for a coach",
		Priority:       PriorityHigh,
		Contact:        ContactInfo{Name: "Sarah", Mobile: "0412 000 000"},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if esc.Status != StatusPending {
		t.Fatalf("expected pending status, got %s", esc.Status)
	}
	if esc.Priority != PriorityHigh {
		t.Fatalf("expected high priority, got %s", esc.Priority)
	}

	got, err := repo.GetByConversation(ctx, "conv-1")
	if err != nil {
		t.Fatalf("GetByConversation returned error: %v", err)
	}
	if got.ID != esc.ID {
		t.Fatalf("expected %s, got %s", esc.ID, got.ID)
	}
}

func TestInMemoryRepositoryRejectsDuplicateConversation(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, &CreateRequest{ConversationID: "conv-1"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := repo.Create(ctx, &CreateRequest{ConversationID: "conv-1"}); !errors.Is(err, ErrAlreadyEscalated) {
		t.Fatalf("expected ErrAlreadyEscalated, got %v", err)
	}
}

func TestInMemoryRepositoryValidation(t *testing.T) {
	repo := NewInMemoryRepository()

	if _, err := repo.Create(context.Background(), &CreateRequest{}); !errors.Is(err, ErrMissingConversationID) {
		t.Fatalf("expected ErrMissingConversationID, got %v", err)
	}

	esc, err := repo.Create(context.Background(), &CreateRequest{ConversationID: "conv-2", Priority: "urgent"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if esc.Priority != PriorityLow {
		t.Fatalf("unknown priorities should normalize to low, got %s", esc.Priority)
	}
	if esc.Reason == "" {
		t.Fatal("expected default reason")
	}
}

func TestInMemoryRepositoryUpdateStatus(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	esc, err := repo.Create(ctx, &CreateRequest{ConversationID: "conv-1"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := repo.UpdateStatus(ctx, esc.ID, StatusResolved); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	got, err := repo.GetByConversation(ctx, "conv-1")
	if err != nil {
		t.Fatalf("GetByConversation returned error: %v", err)
	}
	if got.Status != StatusResolved {
		t.Fatalf("expected resolved, got %s", got.Status)
	}

	if err := repo.UpdateStatus(ctx, "missing", StatusResolved); !errors.Is(err, ErrEscalationNotFound) {
		t.Fatalf("expected ErrEscalationNotFound, got %v", err)
	}
}
