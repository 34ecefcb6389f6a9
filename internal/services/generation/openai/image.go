package openai

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sashabaranov/go-openai"

	domainerrors "github.com/unifiedui/card-service/internal/domain/errors"
	"github.com/unifiedui/card-service/internal/services/card"
)

// ImageGenerator implements card.ImageGenerator with the images API.
type ImageGenerator struct {
	*client
}

// NewImageGenerator creates a new OpenAI image generator.
func NewImageGenerator(cfg *Config) (*ImageGenerator, error) {
	c, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	return &ImageGenerator{client: c}, nil
}

// GenerateImage renders one card image and returns its bytes with the prompt used.
func (g *ImageGenerator) GenerateImage(ctx context.Context, prompt card.ImagePrompt) (*card.GeneratedImage, error) {
	text := buildImagePrompt(prompt.Style, prompt.RecipientName, prompt.Reason)
	req := openai.ImageRequest{
		Prompt:         text,
		Model:          g.config.ImageModel,
		N:              1,
		Size:           g.config.ImageSize,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	}

	var image *card.GeneratedImage
	err := g.doWithRetry(ctx, domainerrors.ElementImage, func() error {
		resp, err := g.api.CreateImage(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
			return fmt.Errorf("empty image response")
		}
		data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
		if err != nil {
			return fmt.Errorf("failed to decode image: %w", err)
		}

		used := text
		if resp.Data[0].RevisedPrompt != "" {
			used = resp.Data[0].RevisedPrompt
		}
		image = &card.GeneratedImage{Data: data, Prompt: used}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return image, nil
}
