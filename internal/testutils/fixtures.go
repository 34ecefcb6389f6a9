// Package testutils provides test utilities and helpers.
package testutils

import (
	"sync"
	"time"

	"github.com/unifiedui/card-service/internal/domain/models"
)

// Test constants
const (
	TestRecipientID   = "emp-001"
	TestRecipientName = "Jane Doe"
	TestSenderName    = "John Smith"
	TestReason        = "10 years with the company"
	TestMessage       = "Thank you for everything"
	TestDeliveryID    = "delivery-test-123"
)

// TestPNG is the PNG signature followed by an IHDR chunk prefix; enough for content sniffing.
var TestPNG = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

// NewTestRecipient creates a test recipient with default values.
func NewTestRecipient() *models.Recipient {
	return &models.Recipient{
		ID:         TestRecipientID,
		FullName:   TestRecipientName,
		Email:      "jane.doe@example.com",
		Department: "Engineering",
		Position:   "Staff Engineer",
	}
}

// NewTestRecipients creates a small directory listing.
func NewTestRecipients() []models.Recipient {
	return []models.Recipient{
		*NewTestRecipient(),
		{ID: "emp-002", FullName: "John Smith", Department: "Sales"},
		{ID: "emp-003", FullName: "Maria Garcia", Department: "People"},
	}
}

// NewTestRequest creates an enhanced-text generation request.
func NewTestRequest() models.GenerationRequest {
	return models.GenerationRequest{
		RecipientName: TestRecipientName,
		SenderName:    TestSenderName,
		Reason:        TestReason,
		Message:       TestMessage,
		EnhanceText:   true,
		TextStyle:     models.TextStyleWarm,
		ImageStyle:    models.ImageStyleWatercolor,
	}
}

// NewTestPlainRequest creates a request that keeps the caller's message as-is.
func NewTestPlainRequest() models.GenerationRequest {
	return models.GenerationRequest{
		RecipientName: TestRecipientName,
		SenderName:    TestSenderName,
		Reason:        TestReason,
		Message:       TestMessage,
		EnhanceText:   false,
		ImageStyle:    models.ImageStyleCartoon,
	}
}

// NewTestReceipt creates a delivery receipt.
func NewTestReceipt() *models.DeliveryReceipt {
	return &models.DeliveryReceipt{
		DeliveryID:    TestDeliveryID,
		SessionID:     "session-test-456",
		RecipientName: TestRecipientName,
		SenderName:    TestSenderName,
		TextStyle:     models.TextStyleWarm,
		ImageStyle:    models.ImageStyleWatercolor,
		SentAt:        time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Clock is a manually advanced clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a clock stopped at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
