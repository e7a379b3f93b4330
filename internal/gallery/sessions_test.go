package gallery_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gallery/internal/gallery"
	"gallery/internal/model"
	"gallery/internal/store"
	"gallery/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSessions_ViewerScopedCollections(t *testing.T) {
	remote := store.NewMemory(
		store.Wallpaper{ID: "w1", Title: "Neon Alley", Category: "DARK", Likes: 10},
	)
	s := gallery.NewSessions(remote)
	ctx := context.Background()

	alice := s.For(ctx, model.Viewer{ID: "alice"})
	_, err := alice.ToggleLike(ctx, "w1")
	require.NoError(t, err)

	assert.Same(t, alice, s.For(ctx, model.Viewer{ID: "alice"}))

	bob := s.For(ctx, model.Viewer{ID: "bob"})
	w := get(t, bob, "w1")
	assert.False(t, w.IsLiked)
	assert.Equal(t, 11, w.Likes)

	anon := s.For(ctx, model.Viewer{})
	assert.Same(t, anon, s.For(ctx, model.Viewer{}))
	assert.Equal(t, 3, s.Len())

	s.Forget("alice")
	reloaded := s.For(ctx, model.Viewer{ID: "alice"})
	assert.NotSame(t, alice, reloaded)
	assert.True(t, get(t, reloaded, "w1").IsLiked)
}

func TestSessions_ConcurrentFirstAccessLoadsOnce(t *testing.T) {
	remote := mocks.NewRemote(t)
	remote.On("FetchForViewer", mock.Anything, "u1").Return(records(), nil).Once()
	s := gallery.NewSessions(remote)

	var wg sync.WaitGroup
	got := make([]*gallery.Collection, 8)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = s.For(context.Background(), viewer)
		}()
	}
	wg.Wait()

	for _, c := range got {
		assert.Same(t, got[0], c)
	}
}

func TestSessions_Reload(t *testing.T) {
	remote := mocks.NewRemote(t)
	remote.On("FetchAll", mock.Anything).Return(records(), nil).Once()
	remote.On("FetchForViewer", mock.Anything, "u1").Return(records(), nil).Once()
	s := gallery.NewSessions(remote)

	anon := s.For(context.Background(), anonymous)
	s.For(context.Background(), viewer)

	updated := records()[:1]
	remote.On("FetchAll", mock.Anything).Return(updated, nil).Once()
	remote.On("FetchForViewer", mock.Anything, "u1").Return(nil, errors.New("down")).Once()

	err := s.Reload(context.Background())

	assert.True(t, errors.Is(err, gallery.ErrLoadFailed))
	assert.Len(t, anon.Snapshot(), 1)
	assert.Equal(t, gallery.Placeholder(), s.For(context.Background(), viewer).Snapshot())
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestSessions_EvictDropsIdleCollections(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	s := gallery.NewSessions(store.NewMemory(store.Wallpaper{ID: "w1"}), gallery.WithClock(clock.Now))
	ctx := context.Background()

	alice := s.For(ctx, model.Viewer{ID: "alice"})
	s.For(ctx, model.Viewer{ID: "bob"})

	clock.Advance(20 * time.Minute)
	assert.Same(t, alice, s.For(ctx, model.Viewer{ID: "alice"}))

	clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, s.Evict(30*time.Minute))
	assert.Equal(t, 1, s.Len())
	assert.Same(t, alice, s.For(ctx, model.Viewer{ID: "alice"}))

	clock.Advance(31 * time.Minute)
	assert.Equal(t, 1, s.Evict(30*time.Minute))
	assert.Equal(t, 0, s.Len())
	assert.NotSame(t, alice, s.For(ctx, model.Viewer{ID: "alice"}))
}

func TestSessions_RunStopsWithContext(t *testing.T) {
	s := gallery.NewSessions(store.NewMemory())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Minute)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
