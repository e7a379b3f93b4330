package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/go-faster/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gallery/internal/model"
)

const (
	DefaultCollection   = "wallpapers"
	LikesCollection     = "user_likes"
	DownloadsCollection = "user_downloads"
)

var ErrNotFound = errors.New("wallpaper not found")

func New(collection string, firestore *firestore.Client) *Store {
	return &Store{
		collection: collection,
		firestore:  firestore,
	}
}

// Store reads wallpapers from Firestore and keeps the per-viewer like and
// download relations in their own collections.
type Store struct {
	collection string
	firestore  *firestore.Client
}

func (s *Store) FetchAll(ctx context.Context) ([]model.Wallpaper, error) {
	wallpapers, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return ToModel(wallpapers, nil), nil
}

func (s *Store) FetchForViewer(ctx context.Context, viewerID string) ([]model.Wallpaper, error) {
	wallpapers, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	liked, err := s.likedBy(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	return ToModel(wallpapers, liked), nil
}

func (s *Store) list(ctx context.Context) ([]Wallpaper, error) {
	dsnap, err := s.firestore.Collection(s.collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Wrap(err, "list wallpapers")
	}

	wallpapers := make([]Wallpaper, 0, len(dsnap))
	for _, doc := range dsnap {
		var wallpaper Wallpaper
		if err := doc.DataTo(&wallpaper); err != nil {
			return nil, errors.Wrapf(err, "decode wallpaper %s", doc.Ref.ID)
		}
		if wallpaper.ID == "" {
			wallpaper.ID = doc.Ref.ID
		}
		wallpapers = append(wallpapers, wallpaper)
	}

	return wallpapers, nil
}

func (s *Store) likedBy(ctx context.Context, viewerID string) (map[string]bool, error) {
	iter := s.firestore.Collection(LikesCollection).Where("userId", "==", viewerID).Documents(ctx)
	defer iter.Stop()

	liked := make(map[string]bool)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "list likes")
		}

		var like Like
		if err := doc.DataTo(&like); err != nil {
			return nil, errors.Wrapf(err, "decode like %s", doc.Ref.ID)
		}
		liked[like.WallpaperID] = true
	}

	return liked, nil
}

// SetLikeState makes the like relation match liked and moves the wallpaper's
// counter accordingly. Setting the state it already has changes nothing.
func (s *Store) SetLikeState(ctx context.Context, viewerID, wallpaperID string, liked bool) error {
	wallpaperRef := s.firestore.Collection(s.collection).Doc(wallpaperID)
	likeRef := s.firestore.Collection(LikesCollection).Doc(likeID(viewerID, wallpaperID))

	err := s.firestore.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		wallpaper, err := getWallpaper(tx, wallpaperRef)
		if err != nil {
			return err
		}

		exists, err := docExists(tx, likeRef)
		if err != nil {
			return err
		}

		switch {
		case liked && !exists:
			if err := tx.Create(likeRef, Like{UserID: viewerID, WallpaperID: wallpaperID}); err != nil {
				return err
			}
			return tx.Update(wallpaperRef, []firestore.Update{{Path: "likes", Value: firestore.Increment(1)}})
		case !liked && exists:
			if err := tx.Delete(likeRef); err != nil {
				return err
			}
			if wallpaper.Likes <= 0 {
				return nil
			}
			return tx.Update(wallpaperRef, []firestore.Update{{Path: "likes", Value: firestore.Increment(-1)}})
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "set like state %s", wallpaperID)
	}
	return nil
}

// RecordDownload appends to the viewer's download history and bumps the
// wallpaper's counter.
func (s *Store) RecordDownload(ctx context.Context, viewerID, wallpaperID string) error {
	wallpaperRef := s.firestore.Collection(s.collection).Doc(wallpaperID)
	downloadRef := s.firestore.Collection(DownloadsCollection).NewDoc()

	err := s.firestore.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := getWallpaper(tx, wallpaperRef); err != nil {
			return err
		}
		if err := tx.Create(downloadRef, Download{UserID: viewerID, WallpaperID: wallpaperID}); err != nil {
			return err
		}
		return tx.Update(wallpaperRef, []firestore.Update{{Path: "downloads", Value: firestore.Increment(1)}})
	})
	if err != nil {
		return errors.Wrapf(err, "record download %s", wallpaperID)
	}
	return nil
}

func getWallpaper(tx *firestore.Transaction, ref *firestore.DocumentRef) (*Wallpaper, error) {
	doc, err := tx.Get(ref)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var wallpaper Wallpaper
	if err := doc.DataTo(&wallpaper); err != nil {
		return nil, err
	}
	return &wallpaper, nil
}

func docExists(tx *firestore.Transaction, ref *firestore.DocumentRef) (bool, error) {
	doc, err := tx.Get(ref)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	return doc.Exists(), nil
}
