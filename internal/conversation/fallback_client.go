package conversation

import (
	"context"

	"github.com/strengthclub/coaching-ai-platform/pkg/logging"
)

// FallbackLLMClient keeps the widget answering when the primary model
// provider has an outage: a failed completion is retried once against the
// fallback provider with the same transcript.
type FallbackLLMClient struct {
	primary  LLMClient
	fallback LLMClient
	logger   *logging.Logger
}

// NewFallbackLLMClient chains two providers. A nil fallback is allowed and
// leaves only the primary in play, so callers can wire the chain
// unconditionally.
func NewFallbackLLMClient(primary, fallback LLMClient, logger *logging.Logger) *FallbackLLMClient {
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackLLMClient{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *FallbackLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	resp, err := c.primary.Complete(ctx, req)
	if err == nil {
		return resp, nil
	}

	if c.fallback == nil {
		return LLMResponse{}, err
	}

	c.logger.Warn("primary LLM failed, retrying with fallback", "error", err.Error())

	resp, fallbackErr := c.fallback.Complete(ctx, req)
	if fallbackErr != nil {
		c.logger.Error("fallback LLM also failed",
			"primary_error", err.Error(),
			"fallback_error", fallbackErr.Error(),
		)
		return LLMResponse{}, fallbackErr
	}

	c.logger.Info("fallback LLM answered after primary failure", "model", req.Model)
	return resp, nil
}

var _ LLMClient = (*FallbackLLMClient)(nil)
