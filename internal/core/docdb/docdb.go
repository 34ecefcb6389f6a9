// Package docdb defines the document database interfaces.
package docdb

import (
	"context"

	"github.com/unifiedui/card-service/internal/domain/models"
)

// Type represents the type of document database.
type Type string

const (
	// TypeMongoDB represents a MongoDB database.
	TypeMongoDB Type = "mongodb"
	// TypeCosmosDB represents an Azure Cosmos DB database (MongoDB API).
	TypeCosmosDB Type = "cosmosdb"
)

// SortOrder represents the ordering of list results.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// ListEventsOptions filters and paginates audit events.
type ListEventsOptions struct {
	SessionID string
	Type      models.EventType
	Limit     int64
	Skip      int64
	OrderBy   SortOrder
}

// EventsCollection stores generation audit events.
type EventsCollection interface {
	// Insert stores one event.
	Insert(ctx context.Context, event *models.GenerationEvent) error

	// InsertMany stores a batch of events.
	InsertMany(ctx context.Context, events []*models.GenerationEvent) error

	// List returns events matching opts, newest first by default.
	List(ctx context.Context, opts *ListEventsOptions) ([]*models.GenerationEvent, error)

	// EnsureIndexes creates the collection's indexes.
	EnsureIndexes(ctx context.Context) error
}

// Client defines the interface for a document database client.
type Client interface {
	// Events returns the audit events collection.
	Events() EventsCollection

	// EnsureIndexes creates indexes for all collections.
	EnsureIndexes(ctx context.Context) error

	// Ping verifies the database connection.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close(ctx context.Context) error
}
