package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"gallery/internal/fetch"
	"gallery/internal/gallery"
	"gallery/internal/middleware"
	"gallery/internal/model"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-faster/errors"
	rscors "github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

func New(sessions *gallery.Sessions, fetcher fetch.Fetcher, verifier middleware.Verifier, origins []string) Server {
	s := Server{sessions: sessions, fetcher: fetcher}

	cors := rscors.New(rscors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.ViewerHeader},
		ExposedHeaders:   []string{"Content-Disposition", "ETag"},
		AllowCredentials: true,
		Debug:            false,
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(""))
	})
	r.Route("/wallpapers", func(r chi.Router) {
		r.Use(middleware.Viewer(verifier))
		r.Group(func(r chi.Router) {
			r.Use(middleware.JSONHeaders)
			r.With(WrapResponseWriter).Get("/", s.ListWallpapersHandler)
			r.With(WrapResponseWriter).Get("/categories", s.ListCategoriesHandler)
			r.With(WrapResponseWriter).Get("/{id}", s.GetWallpaperHandler)
			r.Post("/reload", s.ReloadHandler)
			r.Post("/{id}/like", s.ToggleLikeHandler)
		})
		r.Post("/{id}/download", s.DownloadHandler)
	})
	s.Handler = r
	return s
}

type Server struct {
	http.Handler
	sessions *gallery.Sessions
	fetcher  fetch.Fetcher
}

func (s *Server) collection(r *http.Request) *gallery.Collection {
	return s.sessions.For(r.Context(), middleware.ViewerFrom(r.Context()))
}

func (s *Server) ListWallpapersHandler(w http.ResponseWriter, r *http.Request) {
	c := s.collection(r)

	res := ListResponse{
		Data: c.Filter(r.URL.Query().Get("category"), r.URL.Query().Get("q")),
	}
	if err := c.Err(); err != nil {
		res.Error = "Error loading wallpapers"
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	c := s.collection(r)

	res := CategoriesResponse{Data: c.Categories()}
	if res.Data == nil {
		res.Data = []model.Category{}
	}
	for _, v := range res.Data {
		res.Total += v.Count
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) GetWallpaperHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	wallpaper, ok := s.collection(r).Get(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, WallpaperResponse{Data: wallpaper, Resolution: wallpaper.Resolution()})
}

func (s *Server) ReloadHandler(w http.ResponseWriter, r *http.Request) {
	data, err := s.collection(r).Load(r.Context())

	res := ListResponse{Data: data}
	if err != nil {
		res.Error = "Error loading wallpapers"
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) ToggleLikeHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	wallpaper, err := s.collection(r).ToggleLike(r.Context(), id)
	switch {
	case errors.Is(err, gallery.ErrAuthRequired):
		writeJSON(w, http.StatusUnauthorized, WallpaperResponse{RequiresAuth: true, Error: "Sign in to like wallpapers"})
	case errors.Is(err, gallery.ErrRemoteWrite):
		writeJSON(w, http.StatusBadGateway, WallpaperResponse{Data: wallpaper, Error: "Could not save your like, please try again"})
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	case wallpaper == nil:
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSON(w, http.StatusOK, WallpaperResponse{Data: wallpaper})
	}
}

func (s *Server) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	wallpaper := s.collection(r).RecordDownload(r.Context(), id)
	if wallpaper == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	obj, err := s.fetcher.Open(r.Context(), wallpaper.URL)
	if err != nil {
		log.Error().Err(err).Str("wallpaperID", id).Msg("Failed to open wallpaper file")
		if errors.Is(err, fetch.ErrNotFound) {
			http.Error(w, "wallpaper file not found", http.StatusNotFound)
			return
		}
		http.Error(w, "wallpaper file unavailable", http.StatusBadGateway)
		return
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("wallpaper-%s.%s", id, fetch.Extension(obj.ContentType, wallpaper.URL))))
	w.Header().Set("X-Downloads", strconv.Itoa(wallpaper.Downloads))
	if obj.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}

	if _, err := io.Copy(w, obj.Body); err != nil {
		log.Warn().Err(err).Str("wallpaperID", id).Msg("Download interrupted")
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(code)
	_, _ = w.Write(b)
}
