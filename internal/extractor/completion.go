package extractor

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"

	"call-analysis-go/internal/apperrors"
	"call-analysis-go/internal/logger"
)

// Service is the collaborator name used in RemoteService errors.
const Service = "completion"

// DefaultMaxTokens is the generation budget used when none is configured.
const DefaultMaxTokens = 500

// Completer sends one prompt and returns the model's free-form text.
type Completer interface {
	Complete(ctx context.Context, prompt, modelID string, maxTokens int) (string, error)
}

// OpenAICompleter calls the chat completions endpoint with the prompt as the
// only (system) message.
type OpenAICompleter struct {
	client *openai.Client
	log    *logger.Logger
}

// NewOpenAICompleter wraps a shared client; it holds no per-call state.
func NewOpenAICompleter(client *openai.Client, log *logger.Logger) *OpenAICompleter {
	return &OpenAICompleter{client: client, log: log.Component("completion")}
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt, modelID string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	log := c.log.WithField("model", modelID).WithField("max_tokens", maxTokens)
	log.WithField("prompt_len", len(prompt)).Debug("sending completion request")

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: modelID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		log.WithField("error", err.Error()).Warn("completion request failed")
		return "", apperrors.RemoteService(Service, err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.RemoteService(Service, errors.New("completion returned no choices"))
	}

	content := resp.Choices[0].Message.Content
	log.WithField("finish_reason", resp.Choices[0].FinishReason).Debug("completion received:\n" + content)
	return content, nil
}

var _ Completer = (*OpenAICompleter)(nil)
