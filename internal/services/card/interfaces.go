// Package card orchestrates card generation: recipient validation, concurrent
// variant generation, session lifecycle and final delivery.
package card

import (
	"context"

	"github.com/unifiedui/card-service/internal/domain/models"
)

// RecipientLookup resolves recipients by full name.
type RecipientLookup interface {
	// FindByName returns the recipient whose full name matches name,
	// ignoring case and surrounding whitespace. It returns nil, nil when absent.
	FindByName(ctx context.Context, name string) (*models.Recipient, error)
}

// TextPrompt carries the parameters of one text generation call.
type TextPrompt struct {
	Style         models.TextStyle
	RecipientName string
	Reason        string
	Message       string
}

// TextGenerator produces card texts.
// Implementations own their retry policy; failures should be generation domain errors.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt TextPrompt) (string, error)
}

// ImagePrompt carries the parameters of one image generation call.
type ImagePrompt struct {
	RecipientName string
	Reason        string
	Style         models.ImageStyle
}

// GeneratedImage is the result of one image generation call.
type GeneratedImage struct {
	Data []byte
	// Prompt is the prompt actually sent to the backend.
	Prompt string
}

// ImageGenerator produces card images.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt ImagePrompt) (*GeneratedImage, error)
}

// Delivery is a finished card handed to the messaging channel.
type Delivery struct {
	Image         []byte
	RecipientName string
	Reason        string
	Text          string
	SenderName    string
}

// DeliveryClient transmits finished cards.
type DeliveryClient interface {
	// Send delivers the card and returns the channel's delivery identifier.
	Send(ctx context.Context, delivery *Delivery) (string, error)
}

// ReceiptRecorder keeps receipts of delivered cards.
type ReceiptRecorder interface {
	Record(ctx context.Context, receipt *models.DeliveryReceipt) error
}

// AuditRecorder accepts audit events. Record must not block the caller.
type AuditRecorder interface {
	Record(event *models.GenerationEvent)
}
