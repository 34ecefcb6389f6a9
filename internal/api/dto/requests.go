// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/unifiedui/card-service/internal/domain/models"

// GenerateCardRequest represents the request body for generating a card.
type GenerateCardRequest struct {
	RecipientName string `json:"recipientName" example:"Jane Doe"`
	SenderName    string `json:"senderName,omitempty" example:"John Smith"`
	Reason        string `json:"reason,omitempty" example:"10 years with the company"`
	Message       string `json:"message,omitempty"`
	EnhanceText   bool   `json:"enhanceText"`
	TextStyle     string `json:"textStyle,omitempty" example:"warm"`
	ImageStyle    string `json:"imageStyle" example:"watercolor"`
}

// ToModel converts the request into a generation request.
func (r *GenerateCardRequest) ToModel() models.GenerationRequest {
	return models.GenerationRequest{
		RecipientName: r.RecipientName,
		SenderName:    r.SenderName,
		Reason:        r.Reason,
		Message:       r.Message,
		EnhanceText:   r.EnhanceText,
		TextStyle:     models.TextStyle(r.TextStyle),
		ImageStyle:    models.ImageStyle(r.ImageStyle),
	}
}

// RegenerateRequest represents the request body for regenerating text or image.
// Request is optional; the session's original parameters are used when absent.
type RegenerateRequest struct {
	SessionID string               `json:"sessionId" binding:"required"`
	Request   *GenerateCardRequest `json:"request,omitempty"`
}

// Generation returns the override request or nil.
func (r *RegenerateRequest) Generation() *models.GenerationRequest {
	if r.Request == nil {
		return nil
	}
	m := r.Request.ToModel()
	return &m
}

// SendCardRequest represents the request body for sending a card.
type SendCardRequest struct {
	SessionID          string `json:"sessionId" binding:"required"`
	SelectedTextIndex  *int   `json:"selectedTextIndex" binding:"required"`
	SelectedImageIndex *int   `json:"selectedImageIndex" binding:"required"`
}

// SearchRecipientsRequest represents the query parameters for searching recipients.
type SearchRecipientsRequest struct {
	Query string `form:"q"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// SessionEventsRequest represents the query parameters for listing session events.
type SessionEventsRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}
