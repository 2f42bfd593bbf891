// Package validation checks widget input before it reaches the chat service.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// MaxMessageLength bounds a single chat message.
const MaxMessageLength = 10000

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether the address looks like an email.
func ValidEmail(email string) bool {
	return emailRE.MatchString(strings.TrimSpace(email))
}

// ValidConversationID reports whether the id is a well-formed UUID.
func ValidConversationID(id string) bool {
	if strings.TrimSpace(id) == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// ValidateMessage checks a chat message, returning a visitor-facing error
// message when it is rejected.
func ValidateMessage(message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if len(message) > MaxMessageLength {
		return fmt.Errorf("message is too long, please keep it under %d characters", MaxMessageLength)
	}
	return nil
}

// Sanitize trims whitespace and caps the input at maxLength bytes.
func Sanitize(text string, maxLength int) string {
	text = strings.TrimSpace(text)
	if maxLength > 0 && len(text) > maxLength {
		text = text[:maxLength]
	}
	return text
}
