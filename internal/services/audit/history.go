package audit

import (
	"context"

	"github.com/unifiedui/card-service/internal/core/docdb"
	domainerrors "github.com/unifiedui/card-service/internal/domain/errors"
	"github.com/unifiedui/card-service/internal/domain/models"
)

const (
	// DefaultHistoryLimit is the page size when the caller passes none.
	DefaultHistoryLimit = 50
	// MaxHistoryLimit caps the page size.
	MaxHistoryLimit = 200
)

// History reads recorded audit events. Events outlive their sessions.
type History interface {
	SessionEvents(ctx context.Context, sessionID string, limit int) ([]*models.GenerationEvent, error)
}

type history struct {
	collection docdb.EventsCollection
}

// NewHistory creates a reader over the events collection.
func NewHistory(collection docdb.EventsCollection) History {
	return &history{collection: collection}
}

// SessionEvents returns the events of one session, oldest first.
func (h *history) SessionEvents(ctx context.Context, sessionID string, limit int) ([]*models.GenerationEvent, error) {
	if sessionID == "" {
		return nil, domainerrors.NewValidationError("session id is required", "")
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	events, err := h.collection.List(ctx, &docdb.ListEventsOptions{
		SessionID: sessionID,
		Limit:     int64(limit),
		OrderBy:   docdb.SortOrderAsc,
	})
	if err != nil {
		return nil, domainerrors.NewServiceUnavailableError("audit store", err)
	}
	return events, nil
}
