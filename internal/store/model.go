package store

import (
	"time"

	"gallery/internal/model"
)

type Wallpaper struct {
	ID        string    `json:"id" firestore:"id"`
	Title     string    `json:"title" firestore:"title"`
	Category  string    `json:"category" firestore:"category"`
	URL       string    `json:"url" firestore:"url"`
	Width     int       `json:"width" firestore:"width"`
	Height    int       `json:"height" firestore:"height"`
	Downloads int       `json:"downloads" firestore:"downloads"`
	Likes     int       `json:"likes" firestore:"likes"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// Like is one row of the viewer/wallpaper like relation.
type Like struct {
	UserID      string    `firestore:"userId"`
	WallpaperID string    `firestore:"wallpaperId"`
	CreatedAt   time.Time `firestore:"createdAt,serverTimestamp"`
}

type Download struct {
	UserID      string    `firestore:"userId"`
	WallpaperID string    `firestore:"wallpaperId"`
	CreatedAt   time.Time `firestore:"createdAt,serverTimestamp"`
}

func likeID(viewerID, wallpaperID string) string {
	return viewerID + "_" + wallpaperID
}

func ToModel(w []Wallpaper, liked map[string]bool) []model.Wallpaper {
	res := make([]model.Wallpaper, len(w))
	for i, v := range w {
		res[i] = model.Wallpaper{
			ID:        v.ID,
			Title:     v.Title,
			Category:  v.Category,
			URL:       v.URL,
			Width:     v.Width,
			Height:    v.Height,
			Downloads: v.Downloads,
			Likes:     v.Likes,
			IsLiked:   liked[v.ID],
		}
	}
	return res
}

func FromModel(w model.Wallpaper) Wallpaper {
	return Wallpaper{
		ID:        w.ID,
		Title:     w.Title,
		Category:  w.Category,
		URL:       w.URL,
		Width:     w.Width,
		Height:    w.Height,
		Downloads: w.Downloads,
		Likes:     w.Likes,
	}
}
