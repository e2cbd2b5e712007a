package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Bravo-Actual/timegrid/pkg/cache"
	"github.com/Bravo-Actual/timegrid/pkg/errors"
	"github.com/Bravo-Actual/timegrid/pkg/event"
	timegridio "github.com/Bravo-Actual/timegrid/pkg/io"
	"github.com/Bravo-Actual/timegrid/pkg/observability"
	"github.com/Bravo-Actual/timegrid/pkg/schedule"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → compose → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Source)
	events, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	observability.Pipeline().OnLoadComplete(ctx, opts.Source, len(events), time.Since(loadStart), err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Events = events
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.EventCount = len(events)
	result.CacheInfo.LoadHit = loadHit

	// Compute events hash for cache keys and API responses
	if data, err := marshalEvents(events); err == nil {
		result.EventsHash = cache.Hash(data)
	}

	r.Logger.Info("loaded events",
		"count", len(events),
		"duration", result.Stats.LoadTime)

	// Stage 2: Compose
	composeStart := time.Now()
	observability.Pipeline().OnComposeStart(ctx, opts.View, len(events))
	layout, composeHit, err := r.ComposeWithCacheInfo(ctx, events, opts)
	observability.Pipeline().OnComposeComplete(ctx, opts.View, time.Since(composeStart), err)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	result.Layout = layout
	result.Stats.ComposeTime = time.Since(composeStart)
	result.Stats.BoxCount = len(layout.Boxes)
	result.CacheInfo.ComposeHit = composeHit

	r.Logger.Info("composed layout",
		"view", layout.View,
		"boxes", len(layout.Boxes),
		"duration", result.Stats.ComposeTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, events, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads events with caching and returns cache hit info.
// Inline events bypass the cache; there is nothing to re-fetch.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) ([]event.Event, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	if opts.Source == "" {
		if err := event.ValidateAll(opts.Events); err != nil {
			return nil, false, err
		}
		return opts.Events, false, nil
	}

	// Compute cache key
	cacheKey := r.Keyer.SourceKey(opts.Source, opts.SourceKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			events, err := timegridio.ReadJSON(bytes.NewReader(data))
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "source")
				return events, true, nil // Cache hit
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "source")

	// Load
	events, err := Load(ctx, r.Cache, r.Keyer, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := marshalEvents(events); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLSource)
		observability.Cache().OnCacheSet(ctx, "source", len(data))
	}

	return events, false, nil // Cache miss
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) ([]event.Event, error) {
	events, _, err := r.LoadWithCacheInfo(ctx, opts)
	return events, err
}

// ComposeWithCacheInfo composes a layout with caching and returns cache hit info.
func (r *Runner) ComposeWithCacheInfo(ctx context.Context, events []event.Event, opts Options) (schedule.Layout, bool, error) {
	if err := opts.ValidateForCompose(); err != nil {
		return schedule.Layout{}, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key
	data, _ := marshalEvents(events)
	eventsHash := cache.Hash(data)
	cacheKey := r.Keyer.LayoutKey(eventsHash, opts.LayoutKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		cached, err := schedule.UnmarshalLayout(data)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompose
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	// Compose layout
	layout, err := Compose(events, opts)
	if err != nil {
		return schedule.Layout{}, false, err
	}

	// Cache the result
	if data, err := schedule.MarshalLayout(layout); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return layout, false, nil // Cache miss
}

// Compose is a convenience wrapper that calls ComposeWithCacheInfo and discards the cache hit info.
func (r *Runner) Compose(ctx context.Context, events []event.Event, opts Options) (schedule.Layout, error) {
	layout, _, err := r.ComposeWithCacheInfo(ctx, events, opts)
	return layout, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// The events are needed for the conflict-graph formats (dot, png); calendar
// formats render from the layout alone.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout schedule.Layout, events []event.Event, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := schedule.MarshalLayout(layout)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	rendered, err := RenderFromLayout(ctx, layout, events, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout schedule.Layout, events []event.Event, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, events, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// marshalEvents serializes events for cache storage and hashing.
func marshalEvents(events []event.Event) ([]byte, error) {
	var buf bytes.Buffer
	if err := timegridio.WriteJSON(events, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
