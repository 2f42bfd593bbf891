package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/strengthclub/coaching-ai-platform/pkg/logging"
)

func TestFallbackLLMClientUsesPrimary(t *testing.T) {
	primary := &stubLLMClient{reply: "from primary"}
	fallback := &stubLLMClient{reply: "from fallback"}
	client := NewFallbackLLMClient(primary, fallback, logging.Default())

	resp, err := client.Complete(context.Background(), LLMRequest{
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if resp.Text != "from primary" {
		t.Fatalf("unexpected reply: %s", resp.Text)
	}
	if fallback.calls != 0 {
		t.Fatal("fallback should not be called when primary succeeds")
	}
}

func TestFallbackLLMClientFallsBack(t *testing.T) {
	primary := &stubLLMClient{err: errors.New("primary down")}
	fallback := &stubLLMClient{reply: "from fallback"}
	client := NewFallbackLLMClient(primary, fallback, logging.Default())

	resp, err := client.Complete(context.Background(), LLMRequest{
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if resp.Text != "from fallback" {
		t.Fatalf("unexpected reply: %s", resp.Text)
	}
}

func TestFallbackLLMClientNoFallbackConfigured(t *testing.T) {
	primary := &stubLLMClient{err: errors.New("primary down")}
	client := NewFallbackLLMClient(primary, nil, logging.Default())

	if _, err := client.Complete(context.Background(), LLMRequest{
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}},
	}); err == nil {
		t.Fatal("expected primary error to propagate")
	}
}
