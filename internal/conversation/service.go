package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/strengthclub/coaching-ai-platform/internal/discovery"
	"github.com/strengthclub/coaching-ai-platform/internal/observability/metrics"
	"github.com/strengthclub/coaching-ai-platform/pkg/logging"
)

const (
	// WelcomeMessage greets the visitor when a new session starts.
	WelcomeMessage = "Hello! I'm here to help you with any questions about Strength Club. How can I assist you today?"

	// escalatedNotice is returned instead of an LLM reply once a
	// conversation has been handed to a coach.
	escalatedNotice = "Your request has been escalated to our team. A coach will contact you shortly."
)

var serviceTracer = otel.Tracer("strengthclub.internal.conversation")

// Settings carries LLM generation parameters for the chat service.
type Settings struct {
	SystemPrompt string
	Model        string
	Temperature  float32
	MaxTokens    int32
}

// Service runs the chat widget conversation loop: it keeps the live session
// in Redis, archives transcripts, and decorates assistant replies with
// discovery question options.
type Service struct {
	llm        LLMClient
	history    *historyStore
	archive    Store
	classifier *discovery.Classifier
	metrics    *metrics.ChatMetrics
	logger     *logging.Logger
	settings   Settings
}

// NewService creates the conversation service. archive may not be nil; a
// nil classifier falls back to the built-in discovery table.
func NewService(llm LLMClient, redisClient *redis.Client, archive Store, classifier *discovery.Classifier, m *metrics.ChatMetrics, logger *logging.Logger, settings Settings) *Service {
	if llm == nil {
		panic("conversation: llm client cannot be nil")
	}
	if archive == nil {
		panic("conversation: archive store cannot be nil")
	}
	if classifier == nil {
		classifier = discovery.NewClassifier()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(settings.SystemPrompt) == "" {
		settings.SystemPrompt = defaultSystemPrompt
	}

	return &Service{
		llm:        llm,
		history:    newHistoryStore(redisClient, serviceTracer),
		archive:    archive,
		classifier: classifier,
		metrics:    m,
		logger:     logger,
		settings:   settings,
	}
}

// StartRequest opens a new session or resumes an archived conversation.
type StartRequest struct {
	ConversationID string
	LoadExisting   bool
}

// StartResult reports the session the widget should attach to. Messages only
// carries the visible transcript when an existing conversation was loaded.
type StartResult struct {
	ConversationID string        `json:"conversation_id"`
	Loaded         bool          `json:"loaded"`
	Title          string        `json:"title,omitempty"`
	Messages       []ChatMessage `json:"messages,omitempty"`
	Escalated      bool          `json:"escalated"`
	WelcomeMessage string        `json:"welcome_message,omitempty"`
}

// Reply is one assistant turn as delivered to the widget.
type Reply struct {
	ConversationID   string           `json:"conversation_id"`
	Message          string           `json:"message"`
	Escalated        bool             `json:"escalated"`
	EscalationNeeded bool             `json:"escalation_needed"`
	Suggestions      *discovery.Match `json:"suggestions,omitempty"`
	Timestamp        time.Time        `json:"timestamp"`
}

// Start opens a new chat session, or resumes an archived conversation when
// req.LoadExisting is set and the transcript still exists.
func (s *Service) Start(ctx context.Context, req StartRequest) (*StartResult, error) {
	ctx, span := serviceTracer.Start(ctx, "conversation.start")
	defer span.End()

	if req.LoadExisting && req.ConversationID != "" {
		conv, err := s.archive.Get(ctx, req.ConversationID)
		if err == nil {
			state := SessionState{Messages: conv.Messages, Escalated: conv.Escalated}
			if err := s.history.Save(ctx, conv.ID, state); err != nil {
				return nil, err
			}
			span.SetAttributes(attribute.String("chat.conversation_id", conv.ID), attribute.Bool("chat.resumed", true))
			return &StartResult{
				ConversationID: conv.ID,
				Loaded:         true,
				Title:          conv.Title,
				Messages:       visibleMessages(conv.Messages),
				Escalated:      conv.Escalated,
			}, nil
		}
		if !errors.Is(err, ErrConversationNotFound) {
			span.RecordError(err)
			return nil, err
		}
	}

	conversationID := uuid.NewString()
	state := SessionState{
		Messages: []ChatMessage{{Role: ChatRoleSystem, Content: s.settings.SystemPrompt}},
	}
	if err := s.history.Save(ctx, conversationID, state); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if _, err := s.archive.Upsert(ctx, &Conversation{ID: conversationID, Messages: state.Messages}); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("chat.conversation_id", conversationID))
	return &StartResult{
		ConversationID: conversationID,
		WelcomeMessage: WelcomeMessage,
	}, nil
}

// Send processes one visitor message and returns the assistant reply. An
// already-escalated conversation short-circuits without calling the LLM.
func (s *Service) Send(ctx context.Context, conversationID, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if conversationID == "" || message == "" {
		return nil, errors.New("conversation: conversationID and message required")
	}

	ctx, span := serviceTracer.Start(ctx, "conversation.send")
	defer span.End()
	span.SetAttributes(attribute.String("chat.conversation_id", conversationID))

	state, err := s.loadState(ctx, conversationID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if state.Escalated {
		return &Reply{
			ConversationID: conversationID,
			Message:        escalatedNotice,
			Escalated:      true,
			Timestamp:      time.Now().UTC(),
		}, nil
	}

	userEscalation := IsEscalationRequest(message)
	state.Messages = append(state.Messages, ChatMessage{Role: ChatRoleUser, Content: message})

	started := time.Now()
	resp, err := s.llm.Complete(ctx, LLMRequest{
		Model:       s.settings.Model,
		Messages:    state.Messages,
		Temperature: s.settings.Temperature,
		MaxTokens:   s.settings.MaxTokens,
	})
	s.metrics.ObserveLLMLatency("primary", time.Since(started).Seconds())
	if err != nil {
		s.metrics.ObserveTurn("error")
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: completion failed: %w", err)
	}

	botEscalation := IsEscalationRequest(resp.Text)
	state.Messages = append(state.Messages, ChatMessage{Role: ChatRoleAssistant, Content: resp.Text})

	if err := s.history.Save(ctx, conversationID, state); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if _, err := s.archive.Upsert(ctx, &Conversation{
		ID:        conversationID,
		Messages:  state.Messages,
		Escalated: state.Escalated,
	}); err != nil {
		span.RecordError(err)
		return nil, err
	}

	reply := &Reply{
		ConversationID:   conversationID,
		Message:          resp.Text,
		EscalationNeeded: userEscalation || botEscalation,
		Timestamp:        time.Now().UTC(),
	}
	if match := s.classifier.Classify(resp.Text); match != nil {
		reply.Suggestions = match
		s.metrics.ObserveDiscoveryMatch(match.ID)
	} else if rule, excluded := s.classifier.Excluded(resp.Text); excluded {
		s.metrics.ObserveDiscoveryExclusion(rule)
	}
	s.metrics.ObserveTurn("ok")

	if reply.EscalationNeeded {
		s.logger.Info("escalation suggested",
			"conversation_id", conversationID,
			"user_requested", userEscalation,
			"assistant_indicated", botEscalation,
		)
	}
	return reply, nil
}

// History returns the visible transcript for a conversation.
func (s *Service) History(ctx context.Context, conversationID string) ([]ChatMessage, bool, error) {
	state, found, err := s.history.Load(ctx, conversationID)
	if err != nil {
		return nil, false, err
	}
	if !found {
		conv, err := s.archive.Get(ctx, conversationID)
		if err != nil {
			if errors.Is(err, ErrConversationNotFound) {
				return nil, false, nil
			}
			return nil, false, err
		}
		return visibleMessages(conv.Messages), conv.Escalated, nil
	}
	return visibleMessages(state.Messages), state.Escalated, nil
}

// List returns archived conversation summaries, most recent first.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	return s.archive.List(ctx)
}

// Delete removes a conversation from both the live session store and the
// archive.
func (s *Service) Delete(ctx context.Context, conversationID string) error {
	if err := s.history.Delete(ctx, conversationID); err != nil {
		return err
	}
	return s.archive.Delete(ctx, conversationID)
}

// MarkEscalated flags the conversation so subsequent messages short-circuit,
// and returns its transcript for handover processing.
func (s *Service) MarkEscalated(ctx context.Context, conversationID string) ([]ChatMessage, error) {
	ctx, span := serviceTracer.Start(ctx, "conversation.mark_escalated")
	defer span.End()
	span.SetAttributes(attribute.String("chat.conversation_id", conversationID))

	state, err := s.loadState(ctx, conversationID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	state.Escalated = true

	if err := s.history.Save(ctx, conversationID, state); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if _, err := s.archive.Upsert(ctx, &Conversation{
		ID:        conversationID,
		Messages:  state.Messages,
		Escalated: true,
	}); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return state.Messages, nil
}

// CleanupStale removes archived conversations idle longer than maxAge.
func (s *Service) CleanupStale(ctx context.Context, maxAge time.Duration) (int, error) {
	return s.archive.DeleteStale(ctx, time.Now().UTC().Add(-maxAge))
}

// RunCleanup periodically prunes stale conversations until ctx is cancelled.
func (s *Service) RunCleanup(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.CleanupStale(ctx, maxAge)
			if err != nil {
				s.logger.Error("conversation cleanup failed", "error", err.Error())
				continue
			}
			if deleted > 0 {
				s.logger.Info("stale conversations removed", "count", deleted)
			}
		}
	}
}

// loadState fetches the live session, falling back to the archive, and
// finally to a fresh session seeded with the system prompt.
func (s *Service) loadState(ctx context.Context, conversationID string) (SessionState, error) {
	state, found, err := s.history.Load(ctx, conversationID)
	if err != nil {
		return SessionState{}, err
	}
	if found {
		return state, nil
	}

	conv, err := s.archive.Get(ctx, conversationID)
	if err == nil {
		return SessionState{Messages: conv.Messages, Escalated: conv.Escalated}, nil
	}
	if !errors.Is(err, ErrConversationNotFound) {
		return SessionState{}, err
	}

	return SessionState{
		Messages: []ChatMessage{{Role: ChatRoleSystem, Content: s.settings.SystemPrompt}},
	}, nil
}

func visibleMessages(messages []ChatMessage) []ChatMessage {
	visible := make([]ChatMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == ChatRoleSystem {
			continue
		}
		visible = append(visible, msg)
	}
	return visible
}
