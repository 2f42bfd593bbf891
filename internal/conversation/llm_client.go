package conversation

import "context"

// Chat roles as stored in session state and the archive. The widget only
// ever renders user and assistant turns; system turns carry the sales
// prompt and are filtered out of every visible transcript.
const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one turn of a widget conversation. The JSON tags match the
// OpenAI wire format and the archive's JSONB column, so a transcript
// round-trips through both without translation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMRequest asks a provider for the next assistant turn. Messages carries
// the full session transcript including the system prompt; System is for
// providers that take instructions out of band and is normally empty here.
type LLMRequest struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// LLMResponse is the provider's reply. StopReason is the provider's own
// vocabulary and is only logged, never branched on.
type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// TokenUsage mirrors the provider's token accounting for cost logging.
type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// LLMClient generates assistant replies. Implementations: the OpenAI
// chat-completions client, the Gemini client, and the fallback wrapper
// that chains the two.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}
