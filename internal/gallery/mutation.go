package gallery

import "gallery/internal/model"

// mutation records one optimistic change: the record before and after it, and
// for like changes the like version stamped when it was applied.
type mutation struct {
	id      string
	version uint64
	prev    model.Wallpaper
	next    model.Wallpaper
}

func toggleLike(w model.Wallpaper) model.Wallpaper {
	w.IsLiked = !w.IsLiked
	if w.IsLiked {
		w.Likes++
	} else if w.Likes > 0 {
		w.Likes--
	}
	return w
}

func countDownload(w model.Wallpaper) model.Wallpaper {
	w.Downloads++
	return w
}

// restoreLike puts back the like state captured in prev, leaving every other
// field as it is now.
func restoreLike(prev model.Wallpaper) func(model.Wallpaper) model.Wallpaper {
	return func(w model.Wallpaper) model.Wallpaper {
		w.IsLiked = prev.IsLiked
		w.Likes = prev.Likes
		return w
	}
}
