package gallery

import (
	"fmt"

	"gallery/internal/model"
)

// Placeholder returns the sample collection shown when the remote store is
// empty or unreachable.
func Placeholder() []model.Wallpaper {
	samples := []struct {
		category      string
		color         string
		width, height int
	}{
		{"ABSTRACT", "FF00FF", 1920, 1080},
		{"NATURE", "00FF00", 2560, 1440},
		{"URBAN", "FFFF00", 3840, 2160},
		{"MINIMAL", "00FFFF", 1920, 1080},
		{"COLORFUL", "FF0000", 2560, 1440},
		{"DARK", "000000", 3840, 2160},
	}

	res := make([]model.Wallpaper, len(samples))
	for i, s := range samples {
		res[i] = model.Wallpaper{
			ID:       fmt.Sprintf("sample-%d", i+1),
			Title:    fmt.Sprintf("%s %d", s.category, i+1),
			Category: s.category,
			URL:      fmt.Sprintf("https://placehold.co/%dx%d/%s/FFFFFF?text=%s", s.width, s.height, s.color, s.category),
			Width:    s.width,
			Height:   s.height,
		}
	}
	return res
}
