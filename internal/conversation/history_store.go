package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// sessionTTL bounds how long an idle chat session stays live in Redis. It
// matches the cleanup window for archived conversations.
const sessionTTL = 24 * time.Hour

// SessionState is the live state of a chat session kept in Redis while the
// visitor is talking to the widget.
type SessionState struct {
	Messages  []ChatMessage `json:"messages"`
	Escalated bool          `json:"escalated"`
}

type historyStore struct {
	redis  *redis.Client
	tracer trace.Tracer
}

func newHistoryStore(redisClient *redis.Client, tracer trace.Tracer) *historyStore {
	if redisClient == nil {
		panic("conversation: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("strengthclub.internal.conversation.history")
	}
	return &historyStore{
		redis:  redisClient,
		tracer: tracer,
	}
}

func (s *historyStore) Save(ctx context.Context, conversationID string, state SessionState) error {
	ctx, span := s.tracer.Start(ctx, "conversation.save_session")
	defer span.End()

	data, err := json.Marshal(state)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(conversationID), data, sessionTTL).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to persist session: %w", err)
	}
	return nil
}

func (s *historyStore) Load(ctx context.Context, conversationID string) (SessionState, bool, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.load_session")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(conversationID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return SessionState{}, false, nil
		}
		span.RecordError(err)
		return SessionState{}, false, fmt.Errorf("conversation: failed to load session: %w", err)
	}

	var state SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		span.RecordError(err)
		return SessionState{}, false, fmt.Errorf("conversation: failed to decode session: %w", err)
	}
	return state, true, nil
}

func (s *historyStore) Delete(ctx context.Context, conversationID string) error {
	ctx, span := s.tracer.Start(ctx, "conversation.delete_session")
	defer span.End()

	if err := s.redis.Del(ctx, sessionKey(conversationID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to delete session: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("conversation:%s", id)
}
