package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/strengthclub/coaching-ai-platform/pkg/logging"
)

const (
	subjectLowPriority  = "Thank You for Your Interest - Strength Club"
	subjectHighPriority = "Your Request Has Been Received - Strength Club"
)

// Service sends escalation emails: a confirmation to the visitor and an
// alert to the coach inbox.
type Service struct {
	email      EmailSender
	coachInbox string
	logger     *logging.Logger
}

// NewService creates a notification service. coachInbox may be empty, in
// which case coach alerts are skipped.
func NewService(email EmailSender, coachInbox string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:      email,
		coachInbox: coachInbox,
		logger:     logger,
	}
}

// SendEscalationConfirmation emails the visitor that a coach will be in
// touch. High priority means they asked for immediate assistance.
func (s *Service) SendEscalationConfirmation(ctx context.Context, email, name, priority string) error {
	if s.email == nil {
		s.logger.Debug("notify: email sender not configured, skipping confirmation")
		return nil
	}
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("notify: recipient email required")
	}
	if strings.TrimSpace(name) == "" {
		name = "there"
	}

	subject := subjectLowPriority
	body := fmt.Sprintf(`Dear %s,

Thank you for your interest in Strength Club coaching services. We've received your information and our team will be in touch with you soon to discuss how we can help you reach your goals.

We're excited to work with you and look forward to connecting!

Best regards,
The Strength Club Team

---
Strength Club
hello@strengthclub.com.au`, name)

	if priority == "high" {
		subject = subjectHighPriority
		body = fmt.Sprintf(`Dear %s,

Thank you for reaching out to Strength Club. We've received your request for immediate assistance, and our team is working to connect you with a coach as soon as possible.

A member of our team will be in touch with you shortly to discuss your needs and help you get started.

If you have any urgent questions in the meantime, please feel free to call us or reply to this email.

Best regards,
The Strength Club Team

---
Strength Club
hello@strengthclub.com.au`, name)
	}

	return s.email.Send(ctx, EmailMessage{
		To:      email,
		ToName:  name,
		Subject: subject,
		Body:    body,
	})
}

// CoachAlert carries the handover details for the coach inbox.
type CoachAlert struct {
	ConversationID string
	Reason         string
	Priority       string
	Name           string
	Mobile         string
	Email          string
	Goal           string
	Plan           string
}

// NotifyCoach alerts the coach inbox that a conversation needs a human.
func (s *Service) NotifyCoach(ctx context.Context, alert CoachAlert) error {
	if s.email == nil || s.coachInbox == "" {
		s.logger.Debug("notify: coach inbox not configured, skipping alert")
		return nil
	}

	name := alert.Name
	if name == "" {
		name = "A visitor"
	}
	subject := fmt.Sprintf("New coaching lead - %s", name)
	if alert.Priority == "high" {
		subject = fmt.Sprintf("Urgent: visitor needs assistance - %s", name)
	}

	body := fmt.Sprintf(`%s has asked to be connected with a coach.

Name: %s
Mobile: %s
Email: %s
Goal: %s
Plan: %s

Reason: %s
Conversation: %s

Please follow up as soon as possible.`,
		name,
		alert.Name,
		alert.Mobile,
		alert.Email,
		alert.Goal,
		alert.Plan,
		alert.Reason,
		alert.ConversationID,
	)

	return s.email.Send(ctx, EmailMessage{
		To:      s.coachInbox,
		Subject: subject,
		Body:    body,
	})
}
