package pubsub_test

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"gallery/internal/gallery"
	"gallery/internal/model"
	"gallery/internal/pubsub"
	"gallery/internal/store"

	gpubsub "cloud.google.com/go/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want pubsub.Message
	}{
		{"empty body", "", pubsub.Message{}},
		{"empty object", "{}", pubsub.Message{}},
		{"viewer", `{"viewer":"u1"}`, pubsub.Message{Viewer: "u1"}},
		{"null viewer", `{"viewer":null}`, pubsub.Message{}},
		{"unknown fields", `{"source":"ingest","count":3,"viewer":"u2"}`, pubsub.Message{Viewer: "u2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pubsub.Decode([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	for _, in := range []string{`{"viewer":5}`, `[1,2]`, `{"viewer":`} {
		_, err := pubsub.Decode([]byte(in))
		assert.Error(t, err, in)
	}
}

func TestReload(t *testing.T) {
	remote := store.NewMemory(store.Wallpaper{ID: "w1", Title: "Neon Alley"})
	sessions := gallery.NewSessions(remote)
	ctx := context.Background()
	reload := pubsub.Reload(sessions)

	anon := sessions.For(ctx, model.Viewer{})
	sessions.For(ctx, model.Viewer{ID: "u1"})

	remote.Put(store.Wallpaper{ID: "w2", Title: "Glacier"})
	require.NoError(t, reload(ctx, pubsub.Message{}))
	assert.Len(t, anon.Snapshot(), 2)

	require.NoError(t, reload(ctx, pubsub.Message{Viewer: "u1"}))
	assert.Equal(t, 1, sessions.Len())
}

func TestStart_Emulator(t *testing.T) {
	if os.Getenv("PUBSUB_EMULATOR_HOST") == "" {
		t.Skip("PUBSUB_EMULATOR_HOST not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	suffix := strconv.FormatInt(time.Now().UnixNano(), 36)
	topicID, subID := "wallpapers-"+suffix, "gallery-"+suffix

	got := make(chan pubsub.Message, 1)
	started := make(chan error, 1)
	go func() {
		started <- pubsub.Start(ctx, "gallery-test", topicID, subID, func(_ context.Context, m pubsub.Message) error {
			select {
			case got <- m:
			default:
			}
			return nil
		})
	}()

	client, err := gpubsub.NewClient(ctx, "gallery-test")
	require.NoError(t, err)
	defer client.Close()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case m := <-got:
			assert.Equal(t, pubsub.Message{Viewer: "u1"}, m)
			return
		case err := <-started:
			t.Fatalf("Start returned early: %v", err)
		case <-ticker.C:
			// the subscription may not exist yet, keep publishing until one lands
			client.Topic(topicID).Publish(ctx, &gpubsub.Message{Data: []byte(`{"viewer":"u1"}`)})
		case <-ctx.Done():
			t.Fatal("no message received")
		}
	}
}
