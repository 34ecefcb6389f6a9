package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/unifiedui/card-service/internal/domain/models"
	"github.com/unifiedui/card-service/internal/services/card"
)

// MockRecipientLookup is a mock implementation of card.RecipientLookup.
type MockRecipientLookup struct {
	mock.Mock
}

// FindByName resolves a recipient.
func (m *MockRecipientLookup) FindByName(ctx context.Context, name string) (*models.Recipient, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipient), args.Error(1)
}

// MockTextGenerator is a mock implementation of card.TextGenerator.
type MockTextGenerator struct {
	mock.Mock
}

// GenerateText produces a card text.
func (m *MockTextGenerator) GenerateText(ctx context.Context, prompt card.TextPrompt) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockImageGenerator is a mock implementation of card.ImageGenerator.
type MockImageGenerator struct {
	mock.Mock
}

// GenerateImage produces a card image.
func (m *MockImageGenerator) GenerateImage(ctx context.Context, prompt card.ImagePrompt) (*card.GeneratedImage, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*card.GeneratedImage), args.Error(1)
}

// MockDeliveryClient is a mock implementation of card.DeliveryClient.
type MockDeliveryClient struct {
	mock.Mock
}

// Send delivers a card.
func (m *MockDeliveryClient) Send(ctx context.Context, delivery *card.Delivery) (string, error) {
	args := m.Called(ctx, delivery)
	return args.String(0), args.Error(1)
}

// MockReceiptRecorder is a mock implementation of card.ReceiptRecorder.
type MockReceiptRecorder struct {
	mock.Mock
}

// Record stores a receipt.
func (m *MockReceiptRecorder) Record(ctx context.Context, receipt *models.DeliveryReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

// MockAuditRecorder is a mock implementation of card.AuditRecorder.
type MockAuditRecorder struct {
	mock.Mock
}

// Record accepts an audit event.
func (m *MockAuditRecorder) Record(event *models.GenerationEvent) {
	m.Called(event)
}

// MockCardService is a mock implementation of card.Service.
type MockCardService struct {
	mock.Mock
}

// GenerateCard runs the generation workflow.
func (m *MockCardService) GenerateCard(ctx context.Context, req models.GenerationRequest) (*card.GenerateResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*card.GenerateResult), args.Error(1)
}

// RegenerateText regenerates the text variants.
func (m *MockCardService) RegenerateText(ctx context.Context, sessionID string, req *models.GenerationRequest) (*card.RegenerateTextResult, error) {
	args := m.Called(ctx, sessionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*card.RegenerateTextResult), args.Error(1)
}

// RegenerateImage regenerates the image variants.
func (m *MockCardService) RegenerateImage(ctx context.Context, sessionID string, req *models.GenerationRequest) (*card.RegenerateImageResult, error) {
	args := m.Called(ctx, sessionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*card.RegenerateImageResult), args.Error(1)
}

// SendCard delivers the selected variants.
func (m *MockCardService) SendCard(ctx context.Context, req *card.SendRequest) (*card.SendResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*card.SendResult), args.Error(1)
}

// GetSessionStatus describes a session.
func (m *MockCardService) GetSessionStatus(ctx context.Context, sessionID string) (*card.SessionStatus, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*card.SessionStatus), args.Error(1)
}

// GetImage returns image bytes.
func (m *MockCardService) GetImage(ctx context.Context, sessionID, imageID string) ([]byte, error) {
	args := m.Called(ctx, sessionID, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
