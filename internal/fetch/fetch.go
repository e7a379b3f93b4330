// Package fetch retrieves wallpaper image files for download.
package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/go-faster/errors"
)

var (
	ErrNotFound          = errors.New("object not found")
	ErrUnsupportedScheme = errors.New("unsupported url scheme")
)

// Object is an open image file. The caller closes Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	// Size is -1 when unknown.
	Size int64
}

type Fetcher interface {
	Open(ctx context.Context, rawURL string) (*Object, error)
}

type HTTP struct {
	HC *http.Client
}

func (c *HTTP) Open(ctx context.Context, rawURL string) (*Object, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	resp, err := c.HC.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "download %s", rawURL)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, errors.Wrapf(ErrNotFound, "download %s", rawURL)
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, errors.Errorf("download %s: status %d", rawURL, resp.StatusCode)
	}

	return &Object{
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}, nil
}

// Bucket reads gs://bucket/object URLs from Cloud Storage. URLs without a
// scheme name an object in Default.
type Bucket struct {
	Client  *storage.Client
	Default string
}

func (b *Bucket) Open(ctx context.Context, rawURL string) (*Object, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse url")
	}

	bucket, name := u.Host, strings.TrimPrefix(u.Path, "/")
	if u.Scheme == "" {
		bucket = b.Default
	}
	if bucket == "" || name == "" {
		return nil, errors.Errorf("no bucket object in %q", rawURL)
	}

	r, err := b.Client.Bucket(bucket).Object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, errors.Wrapf(ErrNotFound, "read %s", rawURL)
		}
		return nil, errors.Wrapf(err, "read %s", rawURL)
	}

	return &Object{
		Body:        r,
		ContentType: r.Attrs.ContentType,
		Size:        r.Attrs.Size,
	}, nil
}

// Mux picks a fetcher by URL scheme.
type Mux map[string]Fetcher

func (m Mux) Open(ctx context.Context, rawURL string) (*Object, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse url")
	}

	f, ok := m[u.Scheme]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedScheme, "%q", u.Scheme)
	}
	return f.Open(ctx, rawURL)
}

// Extension picks the file extension for a downloaded image, defaulting to
// jpg.
func Extension(contentType, rawURL string) string {
	switch strings.TrimSpace(strings.Split(contentType, ";")[0]) {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/jpeg":
		return "jpg"
	}

	if u, err := url.Parse(rawURL); err == nil {
		switch ext := strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), ".")); ext {
		case "png", "webp", "jpg":
			return ext
		case "jpeg":
			return "jpg"
		}
	}
	return "jpg"
}
