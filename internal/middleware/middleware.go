package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"gallery/internal/model"

	"firebase.google.com/go/auth"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// ViewerHeader carries the viewer id when no token verifier is configured.
const ViewerHeader = "X-Viewer-ID"

func JSONHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		next.ServeHTTP(w, r)
	})
}

// Verifier turns a bearer token into a viewer id.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

type FirebaseVerifier struct {
	Client *auth.Client
}

func (v FirebaseVerifier) Verify(ctx context.Context, token string) (string, error) {
	t, err := v.Client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}
	return t.UID, nil
}

type viewerKey struct{}

func WithViewer(ctx context.Context, v model.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// ViewerFrom returns the request's viewer, anonymous when none was resolved.
func ViewerFrom(ctx context.Context) model.Viewer {
	v, _ := ctx.Value(viewerKey{}).(model.Viewer)
	return v
}

// Viewer resolves who is making the request. With a verifier the bearer token
// decides and an invalid token is rejected; without one the ViewerHeader is
// trusted. Requests without credentials are anonymous.
func Viewer(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var viewer model.Viewer

			if verifier == nil {
				viewer.ID = strings.TrimSpace(r.Header.Get(ViewerHeader))
			} else if token := bearer(r); token != "" {
				uid, err := verifier.Verify(r.Context(), token)
				if err != nil {
					log.Debug().Err(err).Msg("Rejected bearer token")
					w.Header().Set("Content-Type", "application/json; charset=UTF-8")
					w.WriteHeader(http.StatusUnauthorized)
					_, _ = w.Write([]byte(`{"error":"invalid token","requiresAuth":true}`))
					return
				}
				viewer.ID = uid
			}

			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), viewer)))
		})
	}
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// Logger writes one structured line per request.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("requestID", chimw.GetReqID(r.Context())).
			Msg("Request completed")
	})
}
