package conversation

import (
	"regexp"
	"strings"
)

// escalationPatterns matches messages indicating the conversation should be
// handed to a human coach, either because the visitor asked for a person or
// because the assistant admitted it cannot help.
var escalationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)i cannot help with`),
	regexp.MustCompile(`(?i)i can't help with`),
	regexp.MustCompile(`(?i)i'm unable to help`),
	regexp.MustCompile(`(?i)escalate`),
	regexp.MustCompile(`(?i)human assistance needed`),
	regexp.MustCompile(`(?i)speak to a (?:human|person|representative|agent|coach|support)`),
	regexp.MustCompile(`(?i)transfer to (?:human|person|representative|agent|coach|support)`),
	regexp.MustCompile(`(?i)connect me with (?:a )?(?:human|person|representative|agent|coach|support)`),
	regexp.MustCompile(`(?i)talk to (?:a )?(?:human|person|representative|agent|coach|support)`),
	regexp.MustCompile(`(?i)need (?:a )?(?:human|person|representative|agent|coach|support)`),
	regexp.MustCompile(`(?i)want (?:to )?speak (?:to|with) (?:a )?(?:human|person|representative|agent|coach|support)`),
}

// IsEscalationRequest returns true if the message indicates a handover to a
// human coach is needed. It is applied to both visitor messages and assistant
// replies.
func IsEscalationRequest(message string) bool {
	message = strings.TrimSpace(message)
	if message == "" {
		return false
	}
	for _, pat := range escalationPatterns {
		if pat.MatchString(message) {
			return true
		}
	}
	return false
}
