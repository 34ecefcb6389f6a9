// Package models contains domain models for the greeting card service.
package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	domainerrors "github.com/unifiedui/card-service/internal/domain/errors"
)

// Field length limits for generation requests.
const (
	MaxRecipientNameLength = 100
	MaxSenderNameLength    = 100
	MaxReasonLength        = 200
	MaxMessageLength       = 1000
)

// TextStyle is the tone used to write a card text.
type TextStyle string

const (
	TextStyleWarm     TextStyle = "warm"
	TextStyleFormal   TextStyle = "formal"
	TextStyleHumorous TextStyle = "humorous"
	TextStylePoetic   TextStyle = "poetic"

	// TextStyleOriginal marks the user's own text with no AI enhancement applied.
	TextStyleOriginal TextStyle = "original"
)

// TextStyles lists the styles a caller may request.
var TextStyles = []TextStyle{TextStyleWarm, TextStyleFormal, TextStyleHumorous, TextStylePoetic}

// IsValid reports whether s can be requested for generation.
// TextStyleOriginal is produced by the service, never requested.
func (s TextStyle) IsValid() bool {
	for _, style := range TextStyles {
		if s == style {
			return true
		}
	}
	return false
}

// ImageStyle is the visual style of a card image.
type ImageStyle string

const (
	ImageStyleRealistic  ImageStyle = "realistic"
	ImageStyleCartoon    ImageStyle = "cartoon"
	ImageStyleWatercolor ImageStyle = "watercolor"
	ImageStyleMinimalist ImageStyle = "minimalist"
)

// ImageStyles lists the supported image styles.
var ImageStyles = []ImageStyle{ImageStyleRealistic, ImageStyleCartoon, ImageStyleWatercolor, ImageStyleMinimalist}

// IsValid reports whether s is a supported image style.
func (s ImageStyle) IsValid() bool {
	for _, style := range ImageStyles {
		if s == style {
			return true
		}
	}
	return false
}

// TextVariant is one candidate card text.
type TextVariant struct {
	Text  string    `json:"text"`
	Style TextStyle `json:"style"`
}

// ImageVariant is one candidate card image. The bytes live in the session store.
type ImageVariant struct {
	ID     string     `json:"id"`
	Style  ImageStyle `json:"style"`
	Prompt string     `json:"prompt"`
}

// GenerationRequest captures what the caller asked for.
type GenerationRequest struct {
	RecipientName string     `json:"recipientName"`
	SenderName    string     `json:"senderName,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Message       string     `json:"message,omitempty"`
	EnhanceText   bool       `json:"enhanceText"`
	TextStyle     TextStyle  `json:"textStyle,omitempty"`
	ImageStyle    ImageStyle `json:"imageStyle"`
}

// Normalize trims surrounding whitespace from the free-text fields.
func (r GenerationRequest) Normalize() GenerationRequest {
	r.RecipientName = strings.TrimSpace(r.RecipientName)
	r.SenderName = strings.TrimSpace(r.SenderName)
	r.Reason = strings.TrimSpace(r.Reason)
	r.Message = strings.TrimSpace(r.Message)
	return r
}

// Validate checks the request fields and names the first offending field.
func (r GenerationRequest) Validate() error {
	name := strings.TrimSpace(r.RecipientName)
	if name == "" {
		return domainerrors.NewValidationError("recipient name is required", "recipientName")
	}
	if err := checkLength("recipientName", name, MaxRecipientNameLength); err != nil {
		return err
	}
	if err := checkLength("senderName", r.SenderName, MaxSenderNameLength); err != nil {
		return err
	}
	if err := checkLength("reason", r.Reason, MaxReasonLength); err != nil {
		return err
	}
	if err := checkLength("message", r.Message, MaxMessageLength); err != nil {
		return err
	}

	if r.EnhanceText {
		if r.TextStyle == "" {
			return domainerrors.NewValidationError("text style is required when enhancing text", "textStyle")
		}
		if !r.TextStyle.IsValid() {
			return domainerrors.NewValidationError(fmt.Sprintf("unsupported text style %q", r.TextStyle), "textStyle")
		}
	} else if r.TextStyle != "" && !r.TextStyle.IsValid() {
		return domainerrors.NewValidationError(fmt.Sprintf("unsupported text style %q", r.TextStyle), "textStyle")
	}

	if r.ImageStyle == "" {
		return domainerrors.NewValidationError("image style is required", "imageStyle")
	}
	if !r.ImageStyle.IsValid() {
		return domainerrors.NewValidationError(fmt.Sprintf("unsupported image style %q", r.ImageStyle), "imageStyle")
	}
	return nil
}

func checkLength(field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return domainerrors.NewValidationError(field+" is too long", field)
	}
	return nil
}
