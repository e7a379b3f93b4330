// Package config reads the service settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

type Config struct {
	Env  string
	Port string

	// FirestoreSA is the base64 encoded service account JSON. When empty the
	// service runs against an in-memory store.
	FirestoreSA         string
	ProjectID           string
	WallpaperCollection string

	CORSAllowedOrigins []string

	StorageBucket      string
	PubSubTopic        string
	PubSubSubscription string

	FetchTimeout       time.Duration
	SessionIdleTimeout time.Duration
	TraceStdout        bool
}

const (
	defaultEnv          = "dev"
	defaultPort         = "8080"
	defaultCollection   = "wallpapers"
	defaultTopic        = "wallpapers-changed"
	defaultSubscription = "wallpapers-changed-gallery"
	defaultFetchTimeout = 15 * time.Second
	defaultSessionIdle  = 30 * time.Minute
)

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

func Load() (Config, error) {
	cfg := Config{
		Env:                 getEnv("ENV", defaultEnv),
		Port:                getEnv("PORT", defaultPort),
		FirestoreSA:         os.Getenv("FIRESTORE_SA"),
		ProjectID:           os.Getenv("PROJECT_ID"),
		WallpaperCollection: getEnv("WALLPAPER_COLLECTION", defaultCollection),
		CORSAllowedOrigins:  defaultOrigins,
		StorageBucket:       os.Getenv("STORAGE_BUCKET"),
		PubSubTopic:         getEnv("PUBSUB_TOPIC", defaultTopic),
		PubSubSubscription:  getEnv("PUBSUB_SUBSCRIPTION", defaultSubscription),
		FetchTimeout:        defaultFetchTimeout,
		SessionIdleTimeout:  defaultSessionIdle,
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}

	var err error
	if cfg.FetchTimeout, err = duration("FETCH_TIMEOUT", cfg.FetchTimeout); err != nil {
		return cfg, err
	}
	if cfg.SessionIdleTimeout, err = duration("SESSION_IDLE_TIMEOUT", cfg.SessionIdleTimeout); err != nil {
		return cfg, err
	}

	if v := os.Getenv("TRACE_STDOUT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.Wrap(err, "TRACE_STDOUT")
		}
		cfg.TraceStdout = b
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return cfg, errors.Errorf("PORT must be numeric, got %q", cfg.Port)
	}

	if cfg.FirestoreSA != "" && cfg.ProjectID == "" {
		return cfg, errors.New("PROJECT_ID is required with FIRESTORE_SA")
	}

	return cfg, nil
}

// Dev reports whether the service runs in the development environment.
func (c Config) Dev() bool {
	return c.Env == defaultEnv
}

// Remote reports whether a hosted store is configured.
func (c Config) Remote() bool {
	return c.FirestoreSA != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// duration reads a positive duration from key, keeping fallback when unset.
func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, errors.Wrap(err, key)
	}
	if d <= 0 {
		return fallback, errors.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func splitList(v string) []string {
	var res []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			res = append(res, s)
		}
	}
	return res
}
