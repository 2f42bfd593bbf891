package escalation

import (
	"strings"
	"time"
)

const (
	StatusPending  = "pending"
	StatusResolved = "resolved"

	PriorityLow  = "low"
	PriorityHigh = "high"
)

// ContactInfo is what we know about the visitor at handover time.
type ContactInfo struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Email  string `json:"email"`
	Goal   string `json:"goal"`
	Plan   string `json:"plan"`
}

// Escalation is a request for a human coach to take over a conversation.
type Escalation struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversation_id"`
	Reason         string      `json:"reason"`
	Priority       string      `json:"priority"`
	Status         string      `json:"status"`
	Contact        ContactInfo `json:"contact_info"`
	CreatedAt      time.Time   `json:"created_at"`
}

// CreateRequest carries a new escalation into the repository.
type CreateRequest struct {
	ConversationID string      `json:"conversation_id"`
	Reason         string      `json:"reason"`
	Priority       string      `json:"priority"`
	Contact        ContactInfo `json:"contact_info"`
}

// Validate checks required fields and normalizes the priority.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.ConversationID) == "" {
		return ErrMissingConversationID
	}
	if r.Priority != PriorityHigh {
		r.Priority = PriorityLow
	}
	if strings.TrimSpace(r.Reason) == "" {
		r.Reason = "Visitor requested human assistance"
	}
	return nil
}
