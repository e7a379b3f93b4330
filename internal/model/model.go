package model

import (
	"fmt"
	"regexp"
	"strings"
)

type Wallpaper struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	URL       string `json:"url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Downloads int    `json:"downloads"`
	Likes     int    `json:"likes"`
	IsLiked   bool   `json:"isLiked"`
}

// Resolution renders the image dimensions as WIDTHxHEIGHT.
func (w Wallpaper) Resolution() string {
	return fmt.Sprintf("%dx%d", w.Width, w.Height)
}

// Viewer identifies the user the collection is scoped to. The zero value is
// the anonymous viewer.
type Viewer struct {
	ID string `json:"id"`
}

func (v Viewer) Anonymous() bool {
	return v.ID == ""
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

var whitespace = regexp.MustCompile(`\s+`)

// CategoryID derives the slug used to address a category.
func CategoryID(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(name), "-")
}
