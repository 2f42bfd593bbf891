package conversation

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultTitle is the placeholder title until the visitor sends their first
// message.
const DefaultTitle = "New Chat"

var ErrConversationNotFound = errors.New("conversation not found")

// Conversation is an archived chat with its full transcript.
type Conversation struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Messages  []ChatMessage `json:"messages"`
	Escalated bool          `json:"escalated"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Summary is the listing view of an archived conversation. MessageCount
// excludes system prompts.
type Summary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Escalated    bool      `json:"escalated"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Store archives conversations so they survive the live Redis session.
type Store interface {
	// Upsert writes the transcript, preserving CreatedAt and a previously
	// assigned title. The title is derived from the first user message the
	// first time one appears.
	Upsert(ctx context.Context, conv *Conversation) (*Conversation, error)
	Get(ctx context.Context, id string) (*Conversation, error)
	// List returns summaries sorted by UpdatedAt, most recent first.
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id string) error
	// DeleteStale removes conversations not updated since the cutoff and
	// returns how many were removed.
	DeleteStale(ctx context.Context, cutoff time.Time) (int, error)
}

// deriveTitle takes the first 50 characters of the first user message.
func deriveTitle(messages []ChatMessage) string {
	for _, msg := range messages {
		if msg.Role != ChatRoleUser {
			continue
		}
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		if len(content) > 50 {
			return content[:50] + "..."
		}
		return content
	}
	return DefaultTitle
}

func countVisibleMessages(messages []ChatMessage) int {
	n := 0
	for _, msg := range messages {
		if msg.Role != ChatRoleSystem {
			n++
		}
	}
	return n
}

// InMemoryStore keeps archived conversations in memory. It backs local
// development and tests where Postgres is not configured.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
}

// NewInMemoryStore creates a new in-memory archive.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		conversations: make(map[string]*Conversation),
	}
}

func (s *InMemoryStore) Upsert(ctx context.Context, conv *Conversation) (*Conversation, error) {
	if conv == nil || strings.TrimSpace(conv.ID) == "" {
		return nil, errors.New("conversation: id required")
	}

	now := time.Now().UTC()
	stored := &Conversation{
		ID:        conv.ID,
		Title:     conv.Title,
		Messages:  append([]ChatMessage(nil), conv.Messages...),
		Escalated: conv.Escalated,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.conversations[conv.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
		if stored.Title == "" {
			stored.Title = existing.Title
		}
	}
	if stored.Title == "" || stored.Title == DefaultTitle {
		stored.Title = deriveTitle(stored.Messages)
	}

	s.conversations[conv.ID] = stored
	return stored, nil
}

func (s *InMemoryStore) Get(ctx context.Context, id string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	copied := *conv
	copied.Messages = append([]ChatMessage(nil), conv.Messages...)
	return &copied, nil
}

func (s *InMemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]Summary, 0, len(s.conversations))
	for _, conv := range s.conversations {
		summaries = append(summaries, Summary{
			ID:           conv.ID,
			Title:        conv.Title,
			Escalated:    conv.Escalated,
			MessageCount: countVisibleMessages(conv.Messages),
			CreatedAt:    conv.CreatedAt,
			UpdatedAt:    conv.UpdatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return ErrConversationNotFound
	}
	delete(s.conversations, id)
	return nil
}

func (s *InMemoryStore) DeleteStale(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, conv := range s.conversations {
		if conv.UpdatedAt.Before(cutoff) {
			delete(s.conversations, id)
			deleted++
		}
	}
	return deleted, nil
}
