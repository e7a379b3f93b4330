package store_test

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"gallery/internal/store"

	"cloud.google.com/go/firestore"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newEmulatorStore returns a store over a fresh wallpaper collection in the
// Firestore emulator, and a viewer id unique to the test.
func newEmulatorStore(t *testing.T) (*store.Store, *firestore.Client, string) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "gallery-test")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	suffix := strconv.FormatInt(time.Now().UnixNano(), 36)
	collection := "wallpapers-" + suffix

	for _, w := range []store.Wallpaper{
		{ID: "w1", Title: "Neon Alley", Category: "DARK", Likes: 10},
		{ID: "w2", Title: "Glacier", Category: "NATURE", Downloads: 5},
	} {
		_, err := client.Collection(collection).Doc(w.ID).Set(ctx, w)
		require.NoError(t, err)
	}

	return store.New(collection, client), client, "viewer-" + suffix
}

func TestStore_SetLikeStateIsIdempotent(t *testing.T) {
	s, _, viewerID := newEmulatorStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetLikeState(ctx, viewerID, "w1", true))
	require.NoError(t, s.SetLikeState(ctx, viewerID, "w1", true))

	mine, err := s.FetchForViewer(ctx, viewerID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, 11, mine[0].Likes)
	assert.True(t, mine[0].IsLiked)
	assert.False(t, mine[1].IsLiked)

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.False(t, all[0].IsLiked)

	require.NoError(t, s.SetLikeState(ctx, viewerID, "w1", false))
	require.NoError(t, s.SetLikeState(ctx, viewerID, "w1", false))
	require.NoError(t, s.SetLikeState(ctx, viewerID, "w2", false))

	mine, err = s.FetchForViewer(ctx, viewerID)
	require.NoError(t, err)
	assert.Equal(t, 10, mine[0].Likes)
	assert.False(t, mine[0].IsLiked)
	assert.Equal(t, 0, mine[1].Likes)
}

func TestStore_RecordDownload(t *testing.T) {
	s, client, viewerID := newEmulatorStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordDownload(ctx, viewerID, "w2"))
	require.NoError(t, s.RecordDownload(ctx, viewerID, "w2"))

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, all[1].Downloads)

	docs, err := client.Collection(store.DownloadsCollection).Where("userId", "==", viewerID).Documents(ctx).GetAll()
	require.NoError(t, err)
	require.Len(t, docs, 2)

	var d store.Download
	require.NoError(t, docs[0].DataTo(&d))
	assert.Equal(t, "w2", d.WallpaperID)
	assert.False(t, d.CreatedAt.IsZero())
}

func TestStore_UnknownWallpaper(t *testing.T) {
	s, _, viewerID := newEmulatorStore(t)
	ctx := context.Background()

	assert.True(t, errors.Is(s.SetLikeState(ctx, viewerID, "missing", true), store.ErrNotFound))
	assert.True(t, errors.Is(s.RecordDownload(ctx, viewerID, "missing"), store.ErrNotFound))
}
