package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/unifiedui/card-service/internal/core/docdb"
	"github.com/unifiedui/card-service/internal/domain/models"
)

const (
	// EventsCollectionName is the name of the audit events collection.
	EventsCollectionName = "generation_events"

	defaultListLimit = 100
)

// EventsCollection implements docdb.EventsCollection for MongoDB.
type EventsCollection struct {
	collection *mongo.Collection
}

// NewEventsCollection creates a new events collection wrapper.
func NewEventsCollection(db *mongo.Database) *EventsCollection {
	return &EventsCollection{
		collection: db.Collection(EventsCollectionName),
	}
}

// Insert stores one event.
func (c *EventsCollection) Insert(ctx context.Context, event *models.GenerationEvent) error {
	if event == nil || event.ID == "" {
		return fmt.Errorf("event ID is required")
	}

	if _, err := c.collection.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// InsertMany stores a batch of events in one round trip.
func (c *EventsCollection) InsertMany(ctx context.Context, events []*models.GenerationEvent) error {
	if len(events) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(events))
	for _, e := range events {
		if e == nil || e.ID == "" {
			return fmt.Errorf("event ID is required")
		}
		docs = append(docs, e)
	}

	// Unordered so one duplicate does not drop the rest of the batch.
	if _, err := c.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return fmt.Errorf("failed to insert events: %w", err)
	}
	return nil
}

// List retrieves events with filtering and pagination.
func (c *EventsCollection) List(ctx context.Context, opts *docdb.ListEventsOptions) ([]*models.GenerationEvent, error) {
	cursor, err := c.collection.Find(ctx, buildFilter(opts), buildFindOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []*models.GenerationEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

// EnsureIndexes creates necessary indexes for the events collection.
func (c *EventsCollection) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "sessionId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("idx_session_created_at").SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "type", Value: 1}},
			Options: options.Index().SetName("idx_type"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
	}

	if _, err := c.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create events indexes: %w", err)
	}
	return nil
}

// buildFilter creates a MongoDB filter from list options.
func buildFilter(opts *docdb.ListEventsOptions) bson.M {
	filter := bson.M{}
	if opts == nil {
		return filter
	}
	if opts.SessionID != "" {
		filter["sessionId"] = opts.SessionID
	}
	if opts.Type != "" {
		filter["type"] = opts.Type
	}
	return filter
}

// buildFindOptions creates MongoDB find options from list options.
func buildFindOptions(opts *docdb.ListEventsOptions) *options.FindOptions {
	findOpts := options.Find().SetLimit(defaultListLimit)

	sortOrder := -1
	if opts != nil {
		if opts.Limit > 0 {
			findOpts.SetLimit(opts.Limit)
		}
		if opts.Skip > 0 {
			findOpts.SetSkip(opts.Skip)
		}
		if opts.OrderBy == docdb.SortOrderAsc {
			sortOrder = 1
		}
	}
	findOpts.SetSort(bson.D{{Key: "createdAt", Value: sortOrder}})

	return findOpts
}
