package remote

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/glimt/levelforge/saved"
	"github.com/glimt/levelforge/status"
)

const (
	defaultMaxAttempts  = 3
	defaultRetryBackoff = time.Second
)

// Saver is the persistence target. Client saves to the hosting backend; a
// self-hosted server can save straight to its project store.
type Saver interface {
	SaveProject(ctx context.Context, projectID string, doc *saved.Document) error
}

// Scheduler persists scene documents in the background. Writes for the same
// project coalesce: only the newest pending snapshot is ever sent, so a burst
// of commands costs one request. Failures are retried a bounded number of
// times and then dropped; the next command schedules a fresh snapshot anyway.
type Scheduler struct {
	saver Saver

	mu      sync.Mutex
	pending map[string]*saved.Document

	kick chan struct{}
	done chan struct{}

	maxAttempts int
	backoff     time.Duration
}

func NewScheduler(saver Saver) *Scheduler {
	return &Scheduler{
		saver:       saver,
		pending:     make(map[string]*saved.Document),
		kick:        make(chan struct{}, 1),
		done:        make(chan struct{}),
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultRetryBackoff,
	}
}

// WithRetry overrides the bounded-retry tuning. Zero values keep defaults.
func (s *Scheduler) WithRetry(maxAttempts int, backoff time.Duration) *Scheduler {
	if maxAttempts > 0 {
		s.maxAttempts = maxAttempts
	}
	if backoff > 0 {
		s.backoff = backoff
	}
	return s
}

// Schedule queues a snapshot for persistence, replacing any not-yet-sent
// snapshot of the same project. The document must not be mutated after the
// call; hand over a clone.
func (s *Scheduler) Schedule(projectID string, doc *saved.Document) {
	s.mu.Lock()
	s.pending[projectID] = doc
	s.mu.Unlock()
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Run drains the pending map until ctx is cancelled. Call it on its own
// goroutine.
func (s *Scheduler) Run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.kick:
		}
		for {
			projectID, doc, ok := s.take()
			if !ok {
				break
			}
			s.persist(ctx, projectID, doc)
		}
	}
}

// Wait blocks until Run has returned.
func (s *Scheduler) Wait() { <-s.done }

func (s *Scheduler) take() (string, *saved.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for projectID, doc := range s.pending {
		delete(s.pending, projectID)
		return projectID, doc, true
	}
	return "", nil, false
}

func (s *Scheduler) persist(ctx context.Context, projectID string, doc *saved.Document) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err := s.saver.SaveProject(ctx, projectID, doc)
		if err == nil {
			status.PersistDone(projectID)
			return
		}
		log.Printf("[remote] save project %q attempt %d/%d: %v", projectID, attempt, s.maxAttempts, err)
		if attempt == s.maxAttempts {
			status.Error("giving up saving project %s: %v", projectID, err)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.backoff * time.Duration(attempt)):
		}
	}
}
