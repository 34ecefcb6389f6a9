package dto

import (
	"fmt"
	"time"

	"github.com/unifiedui/card-service/internal/domain/models"
	"github.com/unifiedui/card-service/internal/services/card"
)

// APIBasePath is the prefix of every service route.
const APIBasePath = "/api/v1/card-service"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Details     string `json:"details,omitempty"`
	ElementType string `json:"elementType,omitempty"`
	Index       *int   `json:"index,omitempty"`
	Max         *int   `json:"max,omitempty"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
	Sessions   int               `json:"sessions"`
}

// TextVariantResponse is one text variant with its selection index.
type TextVariantResponse struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Style string `json:"style"`
}

// ImageVariantResponse is one image variant with its selection index and download URL.
type ImageVariantResponse struct {
	Index  int    `json:"index"`
	ID     string `json:"id"`
	Style  string `json:"style"`
	Prompt string `json:"prompt,omitempty"`
	URL    string `json:"url"`
}

// GenerateCardResponse represents the response for generating a card.
type GenerateCardResponse struct {
	SessionID              string                 `json:"sessionId"`
	Recipient              *models.Recipient      `json:"recipient"`
	TextVariants           []TextVariantResponse  `json:"textVariants"`
	ImageVariants          []ImageVariantResponse `json:"imageVariants"`
	RemainingRegenerations int                    `json:"remainingRegenerations"`
	ExpiresAt              time.Time              `json:"expiresAt"`
}

// RegenerateTextResponse represents the response for regenerating text.
type RegenerateTextResponse struct {
	Variant                TextVariantResponse `json:"variant"`
	RemainingRegenerations int                 `json:"remainingRegenerations"`
}

// RegenerateImageResponse represents the response for regenerating an image.
type RegenerateImageResponse struct {
	Variant                ImageVariantResponse `json:"variant"`
	RemainingRegenerations int                  `json:"remainingRegenerations"`
}

// SendCardResponse represents the response for sending a card.
type SendCardResponse struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message"`
	DeliveryID *string `json:"deliveryId"`
}

// SessionStatusResponse describes a live session.
type SessionStatusResponse struct {
	SessionID              string                   `json:"sessionId"`
	Request                models.GenerationRequest `json:"request"`
	TextVariants           []TextVariantResponse    `json:"textVariants"`
	ImageVariants          []ImageVariantResponse   `json:"imageVariants"`
	TextRegenerationsLeft  int                      `json:"textRegenerationsLeft"`
	ImageRegenerationsLeft int                      `json:"imageRegenerationsLeft"`
	MaxRegenerations       int                      `json:"maxRegenerations"`
	CreatedAt              time.Time                `json:"createdAt"`
	ExpiresAt              time.Time                `json:"expiresAt"`
}

// StylesResponse lists the supported styles.
type StylesResponse struct {
	TextStyles  []models.TextStyle  `json:"textStyles"`
	ImageStyles []models.ImageStyle `json:"imageStyles"`
}

// RecipientsResponse represents a recipient search result.
type RecipientsResponse struct {
	Recipients []models.Recipient `json:"recipients"`
	Total      int                `json:"total"`
}

// SessionEventsResponse lists the audit events of a session.
type SessionEventsResponse struct {
	SessionID string                    `json:"sessionId"`
	Events    []*models.GenerationEvent `json:"events"`
}

// ImageURL builds the download URL of an image variant.
func ImageURL(sessionID, imageID string) string {
	return fmt.Sprintf("%s/cards/sessions/%s/images/%s", APIBasePath, sessionID, imageID)
}

// NewTextVariants converts text variants, numbering them by position.
func NewTextVariants(variants []models.TextVariant) []TextVariantResponse {
	out := make([]TextVariantResponse, 0, len(variants))
	for i, v := range variants {
		out = append(out, NewTextVariant(i, v))
	}
	return out
}

// NewTextVariant converts one text variant.
func NewTextVariant(index int, v models.TextVariant) TextVariantResponse {
	return TextVariantResponse{Index: index, Text: v.Text, Style: string(v.Style)}
}

// NewImageVariants converts image variants, numbering them by position.
func NewImageVariants(sessionID string, variants []models.ImageVariant) []ImageVariantResponse {
	out := make([]ImageVariantResponse, 0, len(variants))
	for i, v := range variants {
		out = append(out, NewImageVariant(sessionID, i, v))
	}
	return out
}

// NewImageVariant converts one image variant.
func NewImageVariant(sessionID string, index int, v models.ImageVariant) ImageVariantResponse {
	return ImageVariantResponse{
		Index:  index,
		ID:     v.ID,
		Style:  string(v.Style),
		Prompt: v.Prompt,
		URL:    ImageURL(sessionID, v.ID),
	}
}

// NewGenerateCardResponse converts a generation result.
func NewGenerateCardResponse(r *card.GenerateResult) *GenerateCardResponse {
	return &GenerateCardResponse{
		SessionID:              r.SessionID,
		Recipient:              r.Recipient,
		TextVariants:           NewTextVariants(r.TextVariants),
		ImageVariants:          NewImageVariants(r.SessionID, r.ImageVariants),
		RemainingRegenerations: r.RemainingRegenerations,
		ExpiresAt:              r.ExpiresAt,
	}
}

// NewSendCardResponse converts a send result. DeliveryID is null on failure.
func NewSendCardResponse(r *card.SendResult) *SendCardResponse {
	resp := &SendCardResponse{
		Success: r.Success,
		Message: r.Message,
	}
	if r.Success && r.DeliveryID != "" {
		id := r.DeliveryID
		resp.DeliveryID = &id
	}
	return resp
}

// NewSessionStatusResponse converts a session status.
func NewSessionStatusResponse(s *card.SessionStatus) *SessionStatusResponse {
	return &SessionStatusResponse{
		SessionID:              s.SessionID,
		Request:                s.Request,
		TextVariants:           NewTextVariants(s.TextVariants),
		ImageVariants:          NewImageVariants(s.SessionID, s.ImageVariants),
		TextRegenerationsLeft:  s.TextRegenerationsLeft,
		ImageRegenerationsLeft: s.ImageRegenerationsLeft,
		MaxRegenerations:       s.MaxRegenerations,
		CreatedAt:              s.CreatedAt,
		ExpiresAt:              s.ExpiresAt,
	}
}
