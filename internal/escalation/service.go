package escalation

import (
	"context"
	"errors"
	"fmt"

	"github.com/strengthclub/coaching-ai-platform/internal/conversation"
	"github.com/strengthclub/coaching-ai-platform/internal/discovery"
	"github.com/strengthclub/coaching-ai-platform/internal/notify"
	"github.com/strengthclub/coaching-ai-platform/internal/observability/metrics"
	"github.com/strengthclub/coaching-ai-platform/pkg/logging"
)

// ConversationMarker flags a conversation as escalated and hands back its
// transcript. The conversation service implements it.
type ConversationMarker interface {
	MarkEscalated(ctx context.Context, conversationID string) ([]conversation.ChatMessage, error)
}

// Notifier delivers escalation emails: a confirmation to the visitor and an
// alert to the coach inbox. The notify service implements it.
type Notifier interface {
	SendEscalationConfirmation(ctx context.Context, email, name, priority string) error
	NotifyCoach(ctx context.Context, alert notify.CoachAlert) error
}

// Service creates escalation records from chat conversations, enriching the
// contact details from the transcript before a coach picks them up.
type Service struct {
	repo          Repository
	conversations ConversationMarker
	notifier      Notifier
	metrics       *metrics.ChatMetrics
	logger        *logging.Logger
}

// NewService wires the escalation workflow. notifier may be nil when email
// is not configured.
func NewService(repo Repository, conversations ConversationMarker, notifier Notifier, m *metrics.ChatMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		panic("escalation: repository cannot be nil")
	}
	if conversations == nil {
		panic("escalation: conversation marker cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:          repo,
		conversations: conversations,
		notifier:      notifier,
		metrics:       m,
		logger:        logger,
	}
}

// EscalateRequest asks for a conversation to be handed to a human coach.
// Contact fields left empty are filled from the transcript where possible.
type EscalateRequest struct {
	ConversationID string      `json:"conversation_id"`
	Reason         string      `json:"reason"`
	Priority       string      `json:"priority"`
	Contact        ContactInfo `json:"contact_info"`
}

// Escalate marks the conversation, records the escalation, and sends the
// visitor a confirmation email when we have an address for them.
func (s *Service) Escalate(ctx context.Context, req EscalateRequest) (*Escalation, error) {
	if req.ConversationID == "" {
		return nil, ErrMissingConversationID
	}

	transcript, err := s.conversations.MarkEscalated(ctx, req.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("escalation: failed to mark conversation: %w", err)
	}

	contact := enrichContact(req.Contact, transcript)

	esc, err := s.repo.Create(ctx, &CreateRequest{
		ConversationID: req.ConversationID,
		Reason:         req.Reason,
		Priority:       req.Priority,
		Contact:        contact,
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyEscalated) {
			return s.repo.GetByConversation(ctx, req.ConversationID)
		}
		return nil, err
	}

	s.metrics.ObserveEscalation(esc.Priority)
	s.logger.Info("conversation escalated",
		"conversation_id", esc.ConversationID,
		"escalation_id", esc.ID,
		"priority", esc.Priority,
	)

	// Email failures must not lose the escalation.
	if s.notifier != nil {
		if contact.Email != "" {
			if err := s.notifier.SendEscalationConfirmation(ctx, contact.Email, contact.Name, esc.Priority); err != nil {
				s.logger.Error("escalation confirmation email failed",
					"conversation_id", esc.ConversationID,
					"error", err.Error(),
				)
			}
		}
		if err := s.notifier.NotifyCoach(ctx, notify.CoachAlert{
			ConversationID: esc.ConversationID,
			Reason:         esc.Reason,
			Priority:       esc.Priority,
			Name:           contact.Name,
			Mobile:         contact.Mobile,
			Email:          contact.Email,
			Goal:           contact.Goal,
			Plan:           contact.Plan,
		}); err != nil {
			s.logger.Error("coach alert email failed",
				"conversation_id", esc.ConversationID,
				"error", err.Error(),
			)
		}
	}
	return esc, nil
}

// List returns recorded escalations for the coach dashboard.
func (s *Service) List(ctx context.Context) ([]*Escalation, error) {
	return s.repo.List(ctx)
}

// Resolve marks an escalation as handled.
func (s *Service) Resolve(ctx context.Context, id string) error {
	return s.repo.UpdateStatus(ctx, id, StatusResolved)
}

// enrichContact fills empty contact fields from the transcript: handover
// blocks in assistant messages first, then a direct email scan of visitor
// messages, then the extracted goal/plan profile.
func enrichContact(contact ContactInfo, transcript []conversation.ChatMessage) ContactInfo {
	for i := len(transcript) - 1; i >= 0; i-- {
		msg := transcript[i]
		if msg.Role != conversation.ChatRoleAssistant {
			continue
		}
		info := ExtractHandoverInfo(msg.Content)
		if info == nil {
			continue
		}
		if contact.Name == "" {
			contact.Name = info.Name
		}
		if contact.Mobile == "" {
			contact.Mobile = info.Mobile
		}
		if contact.Email == "" {
			contact.Email = info.Email
		}
		if contact.Goal == "" {
			contact.Goal = info.Goal
		}
		if contact.Plan == "" {
			contact.Plan = info.Plan
		}
		break
	}

	if contact.Email == "" {
		for i := len(transcript) - 1; i >= 0; i-- {
			msg := transcript[i]
			if msg.Role != conversation.ChatRoleUser {
				continue
			}
			if email := ExtractEmailFromText(msg.Content); email != "" {
				contact.Email = email
				break
			}
		}
	}

	if contact.Goal == "" || contact.Plan == "" {
		turns := make([]discovery.Turn, 0, len(transcript))
		for _, msg := range transcript {
			if msg.Role == conversation.ChatRoleSystem {
				continue
			}
			turns = append(turns, discovery.Turn{Role: msg.Role, Content: msg.Content})
		}
		profile := discovery.ExtractProfile(turns)
		if contact.Goal == "" {
			contact.Goal = profile.Goal
		}
		if contact.Plan == "" {
			contact.Plan = profile.Plan
		}
	}
	return contact
}
