package gallery

import (
	"context"
	"sync"
	"time"

	"gallery/internal/model"

	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"
)

// DefaultIdleTimeout is how long a collection nobody asked for is kept.
const DefaultIdleTimeout = 30 * time.Minute

type session struct {
	collection *Collection
	lastSeen   time.Time
}

type Option func(*Sessions)

// WithClock replaces time.Now for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(s *Sessions) {
		s.now = now
	}
}

// Sessions keeps one loaded collection per viewer. Anonymous viewers share a
// single collection.
type Sessions struct {
	remote Remote
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
	loads    singleflight.Group
}

func NewSessions(remote Remote, opts ...Option) *Sessions {
	s := &Sessions{
		remote:   remote,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// For returns the viewer's collection, loading it on first use. A failed load
// still yields the placeholder collection; the failure is available from
// Collection.Err.
func (s *Sessions) For(ctx context.Context, viewer model.Viewer) *Collection {
	if c, ok := s.touch(viewer.ID); ok {
		return c
	}

	v, _, _ := s.loads.Do(viewer.ID, func() (any, error) {
		if c, ok := s.touch(viewer.ID); ok {
			return c, nil
		}

		c := NewCollection(viewer, s.remote)
		_, _ = c.Load(context.WithoutCancel(ctx))

		s.mu.Lock()
		s.sessions[viewer.ID] = &session{collection: c, lastSeen: s.now()}
		s.mu.Unlock()
		return c, nil
	})
	return v.(*Collection)
}

func (s *Sessions) touch(viewerID string) (*Collection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[viewerID]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.collection, true
}

// Forget drops the viewer's collection so the next access reloads it.
func (s *Sessions) Forget(viewerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, viewerID)
}

// Evict drops every collection not accessed within idle and returns how many
// were dropped.
func (s *Sessions) Evict(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	var n int
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Run evicts idle collections until ctx is done.
func (s *Sessions) Run(ctx context.Context, idle time.Duration) {
	ticker := time.NewTicker(max(idle/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Evict(idle); n > 0 {
				log.Debug().Int("evicted", n).Int("remaining", s.Len()).Msg("Evicted idle sessions")
			}
		}
	}
}

// Reload bulk-reloads every live collection.
func (s *Sessions) Reload(ctx context.Context) error {
	s.mu.Lock()
	collections := make([]*Collection, 0, len(s.sessions))
	for _, sess := range s.sessions {
		collections = append(collections, sess.collection)
	}
	s.mu.Unlock()

	var err error
	for _, c := range collections {
		_, loadErr := c.Load(ctx)
		err = multierr.Append(err, loadErr)
	}
	return err
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
