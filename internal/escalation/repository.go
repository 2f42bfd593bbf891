package escalation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for escalation storage
type Repository interface {
	Create(ctx context.Context, req *CreateRequest) (*Escalation, error)
	GetByConversation(ctx context.Context, conversationID string) (*Escalation, error)
	// List returns escalations sorted by CreatedAt, most recent first.
	List(ctx context.Context) ([]*Escalation, error)
	UpdateStatus(ctx context.Context, id string, status string) error
}

// InMemoryRepository keeps escalations in memory for development and tests.
type InMemoryRepository struct {
	mu          sync.RWMutex
	escalations map[string]*Escalation
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		escalations: make(map[string]*Escalation),
	}
}

// Create records a new escalation. A conversation can only be escalated once.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateRequest) (*Escalation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, esc := range r.escalations {
		if esc.ConversationID == req.ConversationID {
			return nil, ErrAlreadyEscalated
		}
	}

	esc := &Escalation{
		ID:             uuid.New().String(),
		ConversationID: req.ConversationID,
		Reason:         req.Reason,
		Priority:       req.Priority,
		Status:         StatusPending,
		Contact:        req.Contact,
		CreatedAt:      time.Now().UTC(),
	}
	r.escalations[esc.ID] = esc
	return esc, nil
}

// GetByConversation finds the escalation for a conversation.
func (r *InMemoryRepository) GetByConversation(ctx context.Context, conversationID string) (*Escalation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, esc := range r.escalations {
		if esc.ConversationID == conversationID {
			copied := *esc
			return &copied, nil
		}
	}
	return nil, ErrEscalationNotFound
}

// List returns all escalations, most recent first.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Escalation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	escalations := make([]*Escalation, 0, len(r.escalations))
	for _, esc := range r.escalations {
		copied := *esc
		escalations = append(escalations, &copied)
	}
	sort.Slice(escalations, func(i, j int) bool {
		return escalations[i].CreatedAt.After(escalations[j].CreatedAt)
	})
	return escalations, nil
}

// UpdateStatus transitions an escalation to a new status.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	esc, ok := r.escalations[id]
	if !ok {
		return ErrEscalationNotFound
	}
	esc.Status = status
	return nil
}
