package server

import "gallery/internal/model"

type ListResponse struct {
	Data  []model.Wallpaper `json:"data"`
	Error string            `json:"error,omitempty"`
}

type WallpaperResponse struct {
	Data         *model.Wallpaper `json:"data,omitempty"`
	Resolution   string           `json:"resolution,omitempty"`
	RequiresAuth bool             `json:"requiresAuth,omitempty"`
	Error        string           `json:"error,omitempty"`
}

type CategoriesResponse struct {
	Data  []model.Category `json:"data"`
	Total int              `json:"total"`
}
