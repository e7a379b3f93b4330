package server

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"net/http"
)

// WrapResponseWriter buffers successful responses to tag them with an ETag
// and answers 304 when the client already holds that version. Collections
// are per viewer, so responses are never cached by shared caches.
func WrapResponseWriter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := NewWrapperResponseWriter(w)
		next.ServeHTTP(ww, r)
		_, _ = ww.Flush(r.Header.Get("If-None-Match"))
	})
}

type wrapperResponseWriter struct {
	http.ResponseWriter
	buf        *bytes.Buffer
	statusCode int
}

func NewWrapperResponseWriter(w http.ResponseWriter) *wrapperResponseWriter {
	return &wrapperResponseWriter{w, new(bytes.Buffer), http.StatusOK}
}

func (w *wrapperResponseWriter) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

func (w *wrapperResponseWriter) WriteHeader(code int) {
	w.statusCode = code
}

func (w *wrapperResponseWriter) Flush(ifNoneMatch string) (int64, error) {
	if w.statusCode == http.StatusOK {
		etag := fmt.Sprintf("\"%x\"", md5.Sum(w.buf.Bytes()))
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "private, no-cache")
		if ifNoneMatch == etag {
			w.ResponseWriter.WriteHeader(http.StatusNotModified)
			return 0, nil
		}
	}

	w.ResponseWriter.WriteHeader(w.statusCode)
	return w.buf.WriteTo(w.ResponseWriter)
}
