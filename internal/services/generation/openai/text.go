package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	domainerrors "github.com/unifiedui/card-service/internal/domain/errors"
	"github.com/unifiedui/card-service/internal/services/card"
)

// TextGenerator implements card.TextGenerator with chat completions.
type TextGenerator struct {
	*client
}

// NewTextGenerator creates a new OpenAI text generator.
func NewTextGenerator(cfg *Config) (*TextGenerator, error) {
	c, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	return &TextGenerator{client: c}, nil
}

// GenerateText writes one card text.
func (g *TextGenerator) GenerateText(ctx context.Context, prompt card.TextPrompt) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.config.ChatModel,
		Temperature: g.config.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: textSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildTextPrompt(prompt.Style, prompt.RecipientName, prompt.Reason, prompt.Message)},
		},
	}

	var result string
	err := g.doWithRetry(ctx, domainerrors.ElementText, func() error {
		resp, err := g.api.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty chat response")
		}
		result = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}
