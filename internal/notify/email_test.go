package notify

import (
	"context"
	"testing"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "",
		FromEmail: "hello@strengthclub.com.au",
	}, nil)

	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "hello@strengthclub.com.au",
	}, nil)

	if sender == nil {
		t.Fatal("expected non-nil sender")
	}
	if sender.fromName != "Strength Club" {
		t.Errorf("expected default from name 'Strength Club', got %q", sender.fromName)
	}
}

func TestNewSESSender_NilWithoutClient(t *testing.T) {
	if sender := NewSESSender(nil, SESConfig{FromEmail: "hello@strengthclub.com.au"}, nil); sender != nil {
		t.Error("expected nil sender without SES client")
	}
}

func TestStubEmailSender(t *testing.T) {
	sender := NewStubEmailSender(nil)
	if err := sender.Send(context.Background(), EmailMessage{
		To:      "sarah@example.com",
		Subject: "hi",
		Body:    "hello",
	}); err != nil {
		t.Fatalf("stub sender should never fail: %v", err)
	}
}
