package models

import (
	"maps"
	"slices"
	"time"
)

// Session is the server-side record of one card generation lifecycle.
type Session struct {
	ID                     string
	CreatedAt              time.Time
	Request                GenerationRequest
	OriginalText           string
	TextVariants           []TextVariant
	ImageVariants          []ImageVariant
	ImageData              map[string][]byte
	TextRegenerationsLeft  int
	ImageRegenerationsLeft int
}

// Clone returns a copy whose slices and map can be changed without affecting s.
// Image bytes are shared; they are never modified after generation.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.TextVariants = slices.Clone(s.TextVariants)
	c.ImageVariants = slices.Clone(s.ImageVariants)
	c.ImageData = maps.Clone(s.ImageData)
	return &c
}

// ExpiresAt returns the instant the session stops being accessible.
func (s *Session) ExpiresAt(ttl time.Duration) time.Time {
	return s.CreatedAt.Add(ttl)
}

// IsExpired reports whether the session is at least ttl old at now.
func (s *Session) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.CreatedAt) >= ttl
}

// ImageDataMatches reports whether data holds exactly one entry per variant ID.
func ImageDataMatches(variants []ImageVariant, data map[string][]byte) bool {
	if len(variants) != len(data) {
		return false
	}
	for _, v := range variants {
		if _, ok := data[v.ID]; !ok {
			return false
		}
	}
	return true
}
