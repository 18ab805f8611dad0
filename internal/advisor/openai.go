package advisor

import (
	"context"
	"fmt"
	"strings"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient is a TextCompleter over an OpenAI-compatible chat
// completion endpoint.
type OpenAIClient struct {
	client openaigo.Client
	model  string
}

var _ TextCompleter = (*OpenAIClient)(nil)

// OpenAIConfig configures the completion client.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // empty = api.openai.com
	Model   string
}

// NewOpenAIClient creates a completion client.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("model is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(strings.TrimSpace(cfg.APIKey))}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(base, "/")))
	}

	return &OpenAIClient{
		client: openaigo.NewClient(opts...),
		model:  strings.TrimSpace(cfg.Model),
	}, nil
}

// Complete sends a single-message chat completion request.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(c.model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices returned")
	}
	return completion.Choices[0].Message.Content, nil
}
