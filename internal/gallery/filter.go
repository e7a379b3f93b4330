package gallery

import (
	"strings"

	"gallery/internal/model"

	"golang.org/x/text/cases"
)

// Filter returns the records in category whose title or category contains
// query, ignoring case. An empty category or query matches everything.
// Input order is preserved.
func Filter(records []model.Wallpaper, category, query string) []model.Wallpaper {
	fold := cases.Fold()
	q := fold.String(query)

	out := make([]model.Wallpaper, 0, len(records))
	for _, w := range records {
		if category != "" && w.Category != category {
			continue
		}
		if q != "" && !strings.Contains(fold.String(w.Title), q) && !strings.Contains(fold.String(w.Category), q) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Categories counts records per category in first-seen order. Records
// without a category are skipped.
func Categories(records []model.Wallpaper) []model.Category {
	index := make(map[string]int)
	var res []model.Category
	for _, w := range records {
		if w.Category == "" {
			continue
		}
		if i, ok := index[w.Category]; ok {
			res[i].Count++
			continue
		}
		index[w.Category] = len(res)
		res = append(res, model.Category{
			ID:    model.CategoryID(w.Category),
			Name:  w.Category,
			Count: 1,
		})
	}
	return res
}
