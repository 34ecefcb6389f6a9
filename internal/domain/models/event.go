package models

import "time"

// EventType identifies the workflow step an audit event describes.
type EventType string

const (
	EventGenerate        EventType = "generate"
	EventRegenerateText  EventType = "regenerate_text"
	EventRegenerateImage EventType = "regenerate_image"
	EventSend            EventType = "send"
)

// GenerationEvent is an audit record of one orchestrator operation.
type GenerationEvent struct {
	ID            string     `json:"id" bson:"_id"`
	SessionID     string     `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	Type          EventType  `json:"type" bson:"type"`
	RecipientName string     `json:"recipientName" bson:"recipientName"`
	TextStyle     TextStyle  `json:"textStyle,omitempty" bson:"textStyle,omitempty"`
	ImageStyle    ImageStyle `json:"imageStyle,omitempty" bson:"imageStyle,omitempty"`
	// Prompts holds the image prompts actually sent to the generation backend.
	Prompts    []string  `json:"prompts,omitempty" bson:"prompts,omitempty"`
	DeliveryID string    `json:"deliveryId,omitempty" bson:"deliveryId,omitempty"`
	Success    bool      `json:"success" bson:"success"`
	Error      string    `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}
