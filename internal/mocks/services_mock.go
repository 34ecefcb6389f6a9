package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/unifiedui/card-service/internal/domain/models"
)

// MockReceiptsService is a mock implementation of receipts.Service.
type MockReceiptsService struct {
	mock.Mock
}

// Record stores a receipt.
func (m *MockReceiptsService) Record(ctx context.Context, receipt *models.DeliveryReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

// Get reads a receipt.
func (m *MockReceiptsService) Get(ctx context.Context, deliveryID string) (*models.DeliveryReceipt, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeliveryReceipt), args.Error(1)
}

// MockHistory is a mock implementation of audit.History.
type MockHistory struct {
	mock.Mock
}

// SessionEvents returns the events of a session.
func (m *MockHistory) SessionEvents(ctx context.Context, sessionID string, limit int) ([]*models.GenerationEvent, error) {
	args := m.Called(ctx, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GenerationEvent), args.Error(1)
}
