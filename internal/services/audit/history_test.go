package audit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/card-service/internal/core/docdb"
	domainerrors "github.com/unifiedui/card-service/internal/domain/errors"
	"github.com/unifiedui/card-service/internal/domain/models"
	"github.com/unifiedui/card-service/internal/mocks"
	"github.com/unifiedui/card-service/internal/services/audit"
)

func TestSessionEvents_Limits(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int64
	}{
		{name: "default", limit: 0, wantLimit: audit.DefaultHistoryLimit},
		{name: "explicit", limit: 10, wantLimit: 10},
		{name: "capped", limit: 5000, wantLimit: audit.MaxHistoryLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			collection := &mocks.MockEventsCollection{}
			want := []*models.GenerationEvent{newEvent("e1")}
			collection.On("List", mock.Anything, &docdb.ListEventsOptions{
				SessionID: "session-1",
				Limit:     tt.wantLimit,
				OrderBy:   docdb.SortOrderAsc,
			}).Return(want, nil)

			// Act
			events, err := audit.NewHistory(collection).SessionEvents(context.Background(), "session-1", tt.limit)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, want, events)
			collection.AssertExpectations(t)
		})
	}
}

func TestSessionEvents_RequiresSessionID(t *testing.T) {
	collection := &mocks.MockEventsCollection{}

	_, err := audit.NewHistory(collection).SessionEvents(context.Background(), "", 10)

	assert.True(t, domainerrors.IsValidationError(err))
	collection.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestSessionEvents_StoreFailure(t *testing.T) {
	collection := &mocks.MockEventsCollection{}
	collection.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("no primary"))

	_, err := audit.NewHistory(collection).SessionEvents(context.Background(), "session-1", 10)

	assert.True(t, domainerrors.HasCode(err, domainerrors.ErrCodeServiceUnavailable))
	assert.ErrorContains(t, err, "audit store")
}
