package gallery

import (
	"context"
	"sync"

	"gallery/internal/model"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// entry carries the clock value of the last change to the record's like
// state. Downloads leave it alone.
type entry struct {
	wallpaper   model.Wallpaper
	likeVersion uint64
}

// Collection is one viewer's ordered list of wallpapers. Local mutations are
// applied before the remote write is issued. Like toggles and loads stamp the
// record's like state with a new version, so a like rollback only lands on
// the like state it replaced.
type Collection struct {
	viewer model.Viewer
	remote Remote

	mu      sync.RWMutex
	entries []entry
	index   map[string]int
	clock   uint64
	err     error
}

func NewCollection(viewer model.Viewer, remote Remote) *Collection {
	return &Collection{
		viewer: viewer,
		remote: remote,
		index:  make(map[string]int),
	}
}

// Load replaces the collection with the remote state for the viewer. When the
// remote returns nothing the placeholder collection is used. When the remote
// fails the placeholder collection is used as well and the failure is
// returned next to it.
func (c *Collection) Load(ctx context.Context) ([]model.Wallpaper, error) {
	ctx, span := tracer.Start(ctx, "gallery.Load", trace.WithAttributes(attribute.Bool("viewer.anonymous", c.viewer.Anonymous())))
	defer span.End()

	var (
		records []model.Wallpaper
		err     error
	)
	if c.viewer.Anonymous() {
		records, err = c.remote.FetchAll(ctx)
	} else {
		records, err = c.remote.FetchForViewer(ctx, c.viewer.ID)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		loadFallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "error")))
		log.Error().Err(err).Str("viewer", c.viewer.ID).Msg("Failed to load wallpapers, using placeholders")

		err = &OpError{Op: "load", Kind: ErrLoadFailed, Err: err}
		records = Placeholder()
	} else if len(records) == 0 {
		loadFallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "empty")))
		log.Info().Str("viewer", c.viewer.ID).Msg("No wallpapers stored, using placeholders")
		records = Placeholder()
	}

	c.replace(records, err)
	return c.Snapshot(), err
}

func (c *Collection) replace(records []model.Wallpaper, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make([]entry, 0, len(records))
	c.index = make(map[string]int, len(records))
	for _, w := range records {
		if _, ok := c.index[w.ID]; ok {
			continue
		}
		if c.viewer.Anonymous() {
			w.IsLiked = false
		}
		w.Likes = max(w.Likes, 0)
		w.Downloads = max(w.Downloads, 0)

		c.clock++
		c.index[w.ID] = len(c.entries)
		c.entries = append(c.entries, entry{wallpaper: w, likeVersion: c.clock})
	}
	c.err = err
}

// Err returns the failure of the last load, if any.
func (c *Collection) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Snapshot returns a copy of the records in collection order.
func (c *Collection) Snapshot() []model.Wallpaper {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]model.Wallpaper, len(c.entries))
	for i, e := range c.entries {
		res[i] = e.wallpaper
	}
	return res
}

func (c *Collection) Get(id string) (*model.Wallpaper, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	w := c.entries[i].wallpaper
	return &w, true
}

func (c *Collection) Filter(category, query string) []model.Wallpaper {
	return Filter(c.Snapshot(), category, query)
}

func (c *Collection) Categories() []model.Category {
	return Categories(c.Snapshot())
}

// ToggleLike flips the viewer's like on the record and writes it through to
// the remote. Anonymous viewers get ErrAuthRequired and nothing changes. An
// unknown id is a no-op returning nil. When the remote write fails the like
// state captured before the toggle is restored, unless a later mutation
// already replaced it, and an error matching ErrRemoteWrite is returned with
// the current record.
func (c *Collection) ToggleLike(ctx context.Context, id string) (*model.Wallpaper, error) {
	if c.viewer.Anonymous() {
		return nil, ErrAuthRequired
	}

	ctx, span := tracer.Start(ctx, "gallery.ToggleLike", trace.WithAttributes(attribute.String("wallpaper.id", id)))
	defer span.End()

	m, ok := c.apply(id, toggleLike, true)
	if !ok {
		return nil, nil
	}

	err := c.remote.SetLikeState(ctx, c.viewer.ID, id, m.next.IsLiked)
	if err == nil {
		return &m.next, nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "set like state failed")

	restored := c.rollback(m)
	likeRollbacks.Add(ctx, 1, metric.WithAttributes(attribute.Bool("restored", restored)))
	log.Warn().Err(err).
		Str("viewer", c.viewer.ID).
		Str("wallpaperID", id).
		Bool("restored", restored).
		Msg("Failed to set like state")

	current, _ := c.Get(id)
	return current, &OpError{Op: "like", ID: id, Kind: ErrRemoteWrite, Err: err}
}

// RecordDownload counts a download of the record. The local counter always
// moves; the remote counter is only written for identified viewers and a
// failed write is logged, never rolled back or returned. An unknown id is a
// no-op returning nil.
func (c *Collection) RecordDownload(ctx context.Context, id string) *model.Wallpaper {
	ctx, span := tracer.Start(ctx, "gallery.RecordDownload", trace.WithAttributes(attribute.String("wallpaper.id", id)))
	defer span.End()

	m, ok := c.apply(id, countDownload, false)
	if !ok {
		return nil
	}

	if c.viewer.Anonymous() {
		return &m.next
	}

	if err := c.remote.RecordDownload(ctx, c.viewer.ID, id); err != nil {
		span.RecordError(err)
		downloadWriteFailures.Add(ctx, 1)
		log.Warn().Err(err).
			Str("viewer", c.viewer.ID).
			Str("wallpaperID", id).
			Msg("Failed to record download")
	}

	return &m.next
}

// apply runs fn on the record. When like is set the change is stamped as a
// like change and m.version carries the stamp.
func (c *Collection) apply(id string, fn func(model.Wallpaper) model.Wallpaper, like bool) (mutation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[id]
	if !ok {
		return mutation{}, false
	}

	e := &c.entries[i]
	m := mutation{id: id, prev: e.wallpaper, next: fn(e.wallpaper)}

	e.wallpaper = m.next
	if like {
		c.clock++
		e.likeVersion = c.clock
		m.version = c.clock
	}

	return m, true
}

// rollback restores the like state m replaced if the record's like state
// still carries the version m stamped. It reports whether anything was
// restored.
func (c *Collection) rollback(m mutation) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[m.id]
	if !ok {
		return false
	}

	e := &c.entries[i]
	if e.likeVersion != m.version {
		return false
	}

	c.clock++
	e.wallpaper = restoreLike(m.prev)(e.wallpaper)
	e.likeVersion = c.clock
	return true
}
