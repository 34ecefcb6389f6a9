// Package audit records generation audit events in the document database
// without blocking the request path.
package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unifiedui/card-service/internal/core/docdb"
	"github.com/unifiedui/card-service/internal/domain/models"
)

const (
	// DefaultBufferSize is the number of events held before Record starts dropping.
	DefaultBufferSize = 256
	// DefaultWorkers is the number of concurrent writers.
	DefaultWorkers = 2
	// DefaultWriteTimeout bounds a single write to the database.
	DefaultWriteTimeout = 5 * time.Second
)

// QueueConfig holds the configuration for the audit queue.
type QueueConfig struct {
	Collection   docdb.EventsCollection
	BufferSize   int
	Workers      int
	WriteTimeout time.Duration
	Logger       *zerolog.Logger
}

// Queue buffers audit events and writes them from background workers.
type Queue struct {
	events       chan *models.GenerationEvent
	collection   docdb.EventsCollection
	workers      int
	writeTimeout time.Duration
	logger       zerolog.Logger

	wg      sync.WaitGroup
	mu      sync.RWMutex
	started bool
	closed  bool

	written atomic.Uint64
	dropped atomic.Uint64
	failed  atomic.Uint64
}

// NewQueue creates a new audit queue. Call Start to begin writing.
func NewQueue(cfg QueueConfig) *Queue {
	bufferSize := cfg.BufferSize
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Queue{
		events:       make(chan *models.GenerationEvent, bufferSize),
		collection:   cfg.Collection,
		workers:      workers,
		writeTimeout: writeTimeout,
		logger:       logger.With().Str("component", "audit").Logger(),
	}
}

// Start starts the queue workers. Calling Start twice has no effect.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started || q.closed {
		return
	}
	q.started = true

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()

	for event := range q.events {
		q.write(event)
	}
}

func (q *Queue) write(event *models.GenerationEvent) {
	if q.collection == nil {
		q.written.Add(1)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), q.writeTimeout)
	defer cancel()

	if err := q.collection.Insert(ctx, event); err != nil {
		q.failed.Add(1)
		q.logger.Warn().Err(err).
			Str("event_id", event.ID).
			Str("session_id", event.SessionID).
			Str("type", string(event.Type)).
			Msg("failed to write audit event")
		return
	}
	q.written.Add(1)
}

// Record enqueues an event and returns immediately.
// Events are dropped when the buffer is full or the queue is stopped.
func (q *Queue) Record(event *models.GenerationEvent) {
	if event == nil {
		return
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.dropped.Add(1)
		return
	}

	select {
	case q.events <- event:
	default:
		q.dropped.Add(1)
		q.logger.Warn().
			Str("event_id", event.ID).
			Str("type", string(event.Type)).
			Msg("audit queue full, dropping event")
	}
}

// Stop stops accepting events, drains the buffer and waits for the workers.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	started := q.started
	close(q.events)
	q.mu.Unlock()

	if !started {
		return
	}
	q.wg.Wait()

	q.logger.Info().
		Uint64("written", q.written.Load()).
		Uint64("dropped", q.dropped.Load()).
		Uint64("failed", q.failed.Load()).
		Msg("audit queue stopped")
}

// Close stops the queue. It implements io.Closer.
func (q *Queue) Close() error {
	q.Stop()
	return nil
}

// QueueSize returns the number of buffered events.
func (q *Queue) QueueSize() int {
	return len(q.events)
}

// Stats reports the number of written, dropped and failed events.
func (q *Queue) Stats() (written, dropped, failed uint64) {
	return q.written.Load(), q.dropped.Load(), q.failed.Load()
}
