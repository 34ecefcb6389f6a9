package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/unifiedui/card-service/internal/core/docdb"
	"github.com/unifiedui/card-service/internal/domain/models"
)

// MockEventsCollection is a mock implementation of docdb.EventsCollection.
type MockEventsCollection struct {
	mock.Mock
}

// Insert stores one event.
func (m *MockEventsCollection) Insert(ctx context.Context, event *models.GenerationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// InsertMany stores a batch of events.
func (m *MockEventsCollection) InsertMany(ctx context.Context, events []*models.GenerationEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// List returns matching events.
func (m *MockEventsCollection) List(ctx context.Context, opts *docdb.ListEventsOptions) ([]*models.GenerationEvent, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GenerationEvent), args.Error(1)
}

// EnsureIndexes creates indexes.
func (m *MockEventsCollection) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockDocDBClient is a mock implementation of docdb.Client.
type MockDocDBClient struct {
	mock.Mock
	events *MockEventsCollection
}

// NewMockDocDBClient creates a new MockDocDBClient.
func NewMockDocDBClient() *MockDocDBClient {
	return &MockDocDBClient{
		events: &MockEventsCollection{},
	}
}

// Events returns the events collection.
func (m *MockDocDBClient) Events() docdb.EventsCollection {
	return m.events
}

// GetMockEvents returns the mock events collection for setting expectations.
func (m *MockDocDBClient) GetMockEvents() *MockEventsCollection {
	return m.events
}

// EnsureIndexes creates indexes.
func (m *MockDocDBClient) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Ping checks the database connection.
func (m *MockDocDBClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close closes the database connection.
func (m *MockDocDBClient) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
