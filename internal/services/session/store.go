// Package session provides the in-memory card session store with TTL expiry
// and per-element regeneration budgets.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	domainerrors "github.com/unifiedui/card-service/internal/domain/errors"
	"github.com/unifiedui/card-service/internal/domain/models"
)

const (
	// DefaultSessionTTL is the default lifetime of a card session.
	DefaultSessionTTL = 30 * time.Minute

	// DefaultMaxRegenerations is the default regeneration budget per element type.
	DefaultMaxRegenerations = 3
)

// Store is the authoritative registry of card sessions.
// Returned sessions are snapshots; all mutation goes through the Store.
type Store interface {
	// CreateSession stores a new session with full regeneration budgets and returns its ID.
	CreateSession(request models.GenerationRequest, originalText string, textVariants []models.TextVariant, imageVariants []models.ImageVariant, imageData map[string][]byte) (string, error)

	// GetSession returns the session if it exists and has not expired.
	// An expired session is evicted by this call.
	GetSession(id string) (*models.Session, error)

	// ReplaceTextVariants swaps the whole text variant list and consumes one text regeneration.
	ReplaceTextVariants(id string, variants []models.TextVariant) (int, error)

	// ReplaceImageVariants swaps the whole image variant list and its image data,
	// consuming one image regeneration.
	ReplaceImageVariants(id string, variants []models.ImageVariant, imageData map[string][]byte) (int, error)

	// GetImageData returns the bytes of one image of a live session.
	GetImageData(id, imageID string) ([]byte, error)

	// CleanupExpired evicts every expired session and returns how many were removed.
	CleanupExpired() int

	// SessionCount returns the number of stored sessions, expired or not.
	SessionCount() int

	// TTL returns the configured session lifetime.
	TTL() time.Duration

	// MaxRegenerations returns the configured regeneration budget.
	MaxRegenerations() int
}

// Config holds the configuration for the session store.
type Config struct {
	TTL              time.Duration
	MaxRegenerations int
	// Clock overrides time.Now, mainly for tests.
	Clock func() time.Time
	// Logger defaults to the global zerolog logger.
	Logger *zerolog.Logger
}

// MemoryStore implements Store with a single mutex around a map.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session

	ttl              time.Duration
	maxRegenerations int
	now              func() time.Time
	logger           zerolog.Logger

	janitorMu   sync.Mutex
	janitorStop chan struct{}
	janitorDone chan struct{}
}

// NewStore creates a new in-memory session store.
func NewStore(cfg *Config) (*MemoryStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.TTL < 0 {
		return nil, fmt.Errorf("ttl must not be negative")
	}
	if cfg.MaxRegenerations < 0 {
		return nil, fmt.Errorf("max regenerations must not be negative")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &MemoryStore{
		sessions:         make(map[string]*models.Session),
		ttl:              ttl,
		maxRegenerations: cfg.MaxRegenerations,
		now:              clock,
		logger:           logger.With().Str("component", "session_store").Logger(),
	}, nil
}

// CreateSession stores a new session.
func (s *MemoryStore) CreateSession(
	request models.GenerationRequest,
	originalText string,
	textVariants []models.TextVariant,
	imageVariants []models.ImageVariant,
	imageData map[string][]byte,
) (string, error) {
	if !models.ImageDataMatches(imageVariants, imageData) {
		return "", domainerrors.NewInternalError("image data does not match image variants", nil)
	}

	sess := &models.Session{
		ID:                     uuid.NewString(),
		CreatedAt:              s.now(),
		Request:                request,
		OriginalText:           originalText,
		TextVariants:           textVariants,
		ImageVariants:          imageVariants,
		ImageData:              imageData,
		TextRegenerationsLeft:  s.maxRegenerations,
		ImageRegenerationsLeft: s.maxRegenerations,
	}
	// Keep our own copies so the caller cannot reach stored state.
	sess = sess.Clone()

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	count := len(s.sessions)
	s.mu.Unlock()

	s.logger.Debug().
		Str("session_id", sess.ID).
		Int("text_variants", len(textVariants)).
		Int("image_variants", len(imageVariants)).
		Int("sessions", count).
		Msg("session created")

	return sess.ID, nil
}

// GetSession returns a snapshot of a live session.
func (s *MemoryStore) GetSession(id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.liveLocked(id)
	if err != nil {
		return nil, err
	}
	return sess.Clone(), nil
}

// ReplaceTextVariants swaps the text variants of a live session.
func (s *MemoryStore) ReplaceTextVariants(id string, variants []models.TextVariant) (int, error) {
	if len(variants) == 0 {
		return 0, domainerrors.NewInternalError("at least one text variant is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.liveLocked(id)
	if err != nil {
		return 0, err
	}
	if sess.TextRegenerationsLeft <= 0 {
		return 0, domainerrors.NewRegenerationLimitError(domainerrors.ElementText, s.maxRegenerations)
	}

	sess.TextVariants = append([]models.TextVariant(nil), variants...)
	sess.TextRegenerationsLeft--
	return sess.TextRegenerationsLeft, nil
}

// ReplaceImageVariants swaps the image variants and image data of a live session.
func (s *MemoryStore) ReplaceImageVariants(id string, variants []models.ImageVariant, imageData map[string][]byte) (int, error) {
	if len(variants) == 0 {
		return 0, domainerrors.NewInternalError("at least one image variant is required", nil)
	}
	if !models.ImageDataMatches(variants, imageData) {
		return 0, domainerrors.NewInternalError("image data does not match image variants", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.liveLocked(id)
	if err != nil {
		return 0, err
	}
	if sess.ImageRegenerationsLeft <= 0 {
		return 0, domainerrors.NewRegenerationLimitError(domainerrors.ElementImage, s.maxRegenerations)
	}

	// Drop the previous generation's bytes before installing the new set.
	clear(sess.ImageData)
	data := make(map[string][]byte, len(imageData))
	for k, v := range imageData {
		data[k] = v
	}
	sess.ImageVariants = append([]models.ImageVariant(nil), variants...)
	sess.ImageData = data
	sess.ImageRegenerationsLeft--
	return sess.ImageRegenerationsLeft, nil
}

// GetImageData returns the bytes for imageID within a live session.
func (s *MemoryStore) GetImageData(id, imageID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.liveLocked(id)
	if err != nil {
		return nil, err
	}
	data, ok := sess.ImageData[imageID]
	if !ok {
		return nil, domainerrors.NewNotFoundError("image", imageID)
	}
	return data, nil
}

// CleanupExpired evicts all expired sessions.
func (s *MemoryStore) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if sess.IsExpired(now, s.ttl) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// SessionCount returns the number of stored sessions.
func (s *MemoryStore) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// TTL returns the configured session lifetime.
func (s *MemoryStore) TTL() time.Duration {
	return s.ttl
}

// MaxRegenerations returns the configured regeneration budget.
func (s *MemoryStore) MaxRegenerations() int {
	return s.maxRegenerations
}

// liveLocked resolves id to a stored session, evicting it when expired.
// The caller must hold s.mu.
func (s *MemoryStore) liveLocked(id string) (*models.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domainerrors.NewSessionNotFoundError(id)
	}
	if sess.IsExpired(s.now(), s.ttl) {
		delete(s.sessions, id)
		s.logger.Debug().Str("session_id", id).Msg("expired session evicted on access")
		return nil, domainerrors.NewSessionExpiredError(id)
	}
	return sess, nil
}
