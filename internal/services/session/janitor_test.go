package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/card-service/internal/services/session"
)

func TestJanitor_RemovesExpiredSessions(t *testing.T) {
	// Arrange - real clock, TTL shorter than the test timeout
	store, err := session.NewStore(&session.Config{TTL: 20 * time.Millisecond, MaxRegenerations: 3})
	require.NoError(t, err)
	createTestSession(t, store)
	require.Equal(t, 1, store.SessionCount())

	// Act
	store.StartJanitor(5 * time.Millisecond)
	defer store.Stop()

	// Assert
	assert.Eventually(t, func() bool {
		return store.SessionCount() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestJanitor_StartStopIdempotent(t *testing.T) {
	store, err := session.NewStore(&session.Config{MaxRegenerations: 3})
	require.NoError(t, err)

	store.StartJanitor(time.Millisecond)
	store.StartJanitor(time.Millisecond)
	store.Stop()
	store.Stop()

	assert.NoError(t, store.Close())
}
