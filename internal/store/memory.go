package store

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"gallery/internal/model"
)

// Memory is an in-process remote with the same relation semantics as Store.
// It backs development runs without Firestore credentials.
type Memory struct {
	mu         sync.RWMutex
	wallpapers []Wallpaper
	index      map[string]int
	likes      map[string]map[string]bool // viewer -> wallpaper
	downloads  map[string][]string        // viewer -> wallpapers, in order
}

func NewMemory(wallpapers ...Wallpaper) *Memory {
	m := &Memory{
		index:     make(map[string]int),
		likes:     make(map[string]map[string]bool),
		downloads: make(map[string][]string),
	}
	for _, w := range wallpapers {
		m.Put(w)
	}
	return m
}

// Put inserts or replaces a wallpaper.
func (m *Memory) Put(w Wallpaper) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i, ok := m.index[w.ID]; ok {
		m.wallpapers[i] = w
		return
	}
	m.index[w.ID] = len(m.wallpapers)
	m.wallpapers = append(m.wallpapers, w)
}

func (m *Memory) FetchAll(_ context.Context) ([]model.Wallpaper, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return ToModel(m.wallpapers, nil), nil
}

func (m *Memory) FetchForViewer(_ context.Context, viewerID string) ([]model.Wallpaper, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return ToModel(m.wallpapers, m.likes[viewerID]), nil
}

func (m *Memory) SetLikeState(_ context.Context, viewerID, wallpaperID string, liked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[wallpaperID]
	if !ok {
		return errors.Wrapf(ErrNotFound, "set like state %s", wallpaperID)
	}

	viewerLikes := m.likes[viewerID]
	if viewerLikes == nil {
		viewerLikes = make(map[string]bool)
		m.likes[viewerID] = viewerLikes
	}

	switch {
	case liked && !viewerLikes[wallpaperID]:
		viewerLikes[wallpaperID] = true
		m.wallpapers[i].Likes++
	case !liked && viewerLikes[wallpaperID]:
		delete(viewerLikes, wallpaperID)
		if m.wallpapers[i].Likes > 0 {
			m.wallpapers[i].Likes--
		}
	}
	return nil
}

func (m *Memory) RecordDownload(_ context.Context, viewerID, wallpaperID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[wallpaperID]
	if !ok {
		return errors.Wrapf(ErrNotFound, "record download %s", wallpaperID)
	}

	m.downloads[viewerID] = append(m.downloads[viewerID], wallpaperID)
	m.wallpapers[i].Downloads++
	return nil
}

// Downloads lists the wallpapers the viewer downloaded, oldest first.
func (m *Memory) Downloads(viewerID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.downloads[viewerID]...)
}
