package session

import (
	"time"
)

// DefaultCleanupInterval is how often the janitor sweeps expired sessions.
const DefaultCleanupInterval = time.Minute

// StartJanitor sweeps expired sessions every interval until Stop is called.
// Calling it on a running janitor is a no-op.
func (s *MemoryStore) StartJanitor(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}

	s.janitorMu.Lock()
	defer s.janitorMu.Unlock()

	if s.janitorStop != nil {
		return
	}
	s.janitorStop = make(chan struct{})
	s.janitorDone = make(chan struct{})

	go s.runJanitor(interval, s.janitorStop, s.janitorDone)

	s.logger.Info().Dur("interval", interval).Msg("session janitor started")
}

func (s *MemoryStore) runJanitor(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if removed := s.CleanupExpired(); removed > 0 {
				s.logger.Info().
					Int("removed", removed).
					Int("remaining", s.SessionCount()).
					Msg("expired sessions cleaned up")
			}
		}
	}
}

// Stop stops the janitor and waits for it to exit.
func (s *MemoryStore) Stop() {
	s.janitorMu.Lock()
	defer s.janitorMu.Unlock()

	if s.janitorStop == nil {
		return
	}
	close(s.janitorStop)
	<-s.janitorDone
	s.janitorStop = nil
	s.janitorDone = nil
}

// Close stops background work. Stored sessions are dropped with the process.
func (s *MemoryStore) Close() error {
	s.Stop()
	return nil
}
