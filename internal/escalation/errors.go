package escalation

import "errors"

var (
	// ErrMissingConversationID is returned when no conversation is referenced
	ErrMissingConversationID = errors.New("conversation id is required")

	// ErrEscalationNotFound is returned when no escalation exists for a conversation
	ErrEscalationNotFound = errors.New("escalation not found")

	// ErrAlreadyEscalated is returned when the conversation was escalated before
	ErrAlreadyEscalated = errors.New("conversation already escalated")
)
