package gallery

import (
	"context"

	"gallery/internal/model"

	"github.com/go-faster/errors"
)

// Remote is the persistence service a collection reconciles with.
type Remote interface {
	FetchAll(ctx context.Context) ([]model.Wallpaper, error)
	FetchForViewer(ctx context.Context, viewerID string) ([]model.Wallpaper, error)
	SetLikeState(ctx context.Context, viewerID, wallpaperID string, liked bool) error
	RecordDownload(ctx context.Context, viewerID, wallpaperID string) error
}

var (
	ErrAuthRequired = errors.New("authentication required")
	ErrRemoteWrite  = errors.New("remote write failed")
	ErrLoadFailed   = errors.New("load failed")
)

// OpError describes a failed remote operation. It matches its Kind with
// errors.Is and unwraps to the remote cause.
type OpError struct {
	Op   string
	ID   string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	if e.ID == "" {
		return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
	}
	return e.Op + " " + e.ID + ": " + e.Kind.Error() + ": " + e.Err.Error()
}

func (e *OpError) Is(target error) bool {
	return target == e.Kind
}

func (e *OpError) Unwrap() error {
	return e.Err
}
