package models

import "time"

// Recipient is a person cards can be addressed to.
type Recipient struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
}

// DeliveryReceipt records a card that reached the messaging channel.
type DeliveryReceipt struct {
	DeliveryID    string     `json:"deliveryId"`
	SessionID     string     `json:"sessionId"`
	RecipientName string     `json:"recipientName"`
	SenderName    string     `json:"senderName,omitempty"`
	TextStyle     TextStyle  `json:"textStyle"`
	ImageStyle    ImageStyle `json:"imageStyle"`
	SentAt        time.Time  `json:"sentAt"`
}
