package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gallery/internal/client"
	"gallery/internal/config"
	"gallery/internal/fetch"
	"gallery/internal/gallery"
	"gallery/internal/middleware"
	"gallery/internal/pubsub"
	"gallery/internal/server"
	"gallery/internal/store"
	"gallery/internal/telemetry"

	"cloud.google.com/go/storage"
	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const serviceName = "wallpaper-gallery"

func Bootstrap() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogger(cfg)

	if cfg.TraceStdout {
		shutdown, err := telemetry.InitStdout(serviceName)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	httpFetcher := &fetch.HTTP{HC: &http.Client{Timeout: cfg.FetchTimeout}}
	fetchers := fetch.Mux{"http": httpFetcher, "https": httpFetcher}

	errs := make(chan error, 2)

	var sessions *gallery.Sessions
	var verifier middleware.Verifier

	if cfg.Remote() {
		sa, err := client.Credentials(cfg.FirestoreSA)
		if err != nil {
			return err
		}

		app, err := client.Firebase(ctx, cfg.ProjectID, sa)
		if err != nil {
			return err
		}

		firestore, err := app.Firestore(ctx)
		if err != nil {
			return err
		}
		defer firestore.Close()

		authClient, err := app.Auth(ctx)
		if err != nil {
			return err
		}
		verifier = middleware.FirebaseVerifier{Client: authClient}

		storageClient, err := storage.NewClient(ctx, sa)
		if err != nil {
			return err
		}
		defer storageClient.Close()

		bucket := &fetch.Bucket{Client: storageClient, Default: cfg.StorageBucket}
		fetchers["gs"] = bucket
		if cfg.StorageBucket != "" {
			fetchers[""] = bucket
		}

		sessions = gallery.NewSessions(store.New(cfg.WallpaperCollection, firestore))

		go func() {
			err := pubsub.Start(ctx, cfg.ProjectID, cfg.PubSubTopic, cfg.PubSubSubscription, pubsub.Reload(sessions), sa)
			if err != nil && ctx.Err() == nil {
				errs <- errors.Wrap(err, "pubsub")
			}
		}()
	} else {
		log.Warn().Msg("FIRESTORE_SA not set, serving sample wallpapers from memory")
		memory := store.NewMemory()
		for _, w := range gallery.Placeholder() {
			memory.Put(store.FromModel(w))
		}
		sessions = gallery.NewSessions(memory)
	}

	go sessions.Run(ctx, cfg.SessionIdleTimeout)

	srv := server.New(sessions, fetchers, verifier, cfg.CORSAllowedOrigins)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Server started on http://localhost:" + cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-errs:
	case sig := <-exit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server...")
	}

	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Error().Err(shutdownErr).Msg("Failed to gracefully stop server")
	}

	log.Info().Msg("Server stopped")
	return err
}

func setupLogger(cfg config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Dev() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
