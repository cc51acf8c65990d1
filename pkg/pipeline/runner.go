package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hessam/chronos/pkg/cache"
	"github.com/hessam/chronos/pkg/errors"
	"github.com/hessam/chronos/pkg/layout"
	"github.com/hessam/chronos/pkg/layout/graphview"
	"github.com/hessam/chronos/pkg/layout/swimlane"
	"github.com/hessam/chronos/pkg/observability"
	"github.com/hessam/chronos/pkg/store"
	"github.com/hessam/chronos/pkg/story"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner doesn't hold pipeline results, only a one-deep memo per view
// above the byte cache. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Store  store.Store
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	graphMemo    layout.Memo[graphview.Layout]
	timelineMemo layout.Memo[swimlane.Layout]
}

// NewRunner creates a runner over the given store and cache.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(st store.Store, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
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
		Store:  st,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Project)
	snap, snapHit, err := r.LoadWithCacheInfo(ctx, opts)
	result.Stats.LoadTime = time.Since(loadStart)
	observability.Pipeline().OnLoadComplete(ctx, opts.Project, len(snap.Entities), result.Stats.LoadTime, err)
	if err != nil {
		return nil, wrapStage(err, errors.ErrCodeStorage, "loading project %q", opts.Project)
	}
	result.Snapshot = snap
	result.Stats.EntityCount = len(snap.Entities)
	result.Stats.RelationshipCount = len(snap.Relationships)
	result.CacheInfo.SnapshotHit = snapHit

	// Compute snapshot hash for cache keys and API responses
	if data, err := store.MarshalSnapshot(snap); err == nil {
		result.SnapshotHash = cache.Hash(data)
	}

	r.Logger.Info("loaded snapshot",
		"project", opts.Project,
		"entities", len(snap.Entities),
		"relationships", len(snap.Relationships),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, string(opts.ViewMode), len(snap.Entities))
	layoutHit, err := r.computeLayoutWithCacheInfo(ctx, result, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	observability.Pipeline().OnLayoutComplete(ctx, string(opts.ViewMode), result.Stats.LayoutTime, err)
	if err != nil {
		return nil, wrapStage(err, errors.ErrCodeInternal, "computing %s layout", opts.ViewMode)
	}
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"view", opts.ViewMode,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, wrapStage(err, errors.ErrCodeInternal, "rendering formats %v", opts.Formats)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads the project snapshot with caching and returns
// cache hit info.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (story.Snapshot, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return story.Snapshot{}, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.SnapshotKey(opts.Project)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "snapshot")
			snap, err := store.ReadSnapshot(bytes.NewReader(data))
			if err == nil {
				return snap, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "snapshot")
	}

	snap, err := r.Store.LoadSnapshot(ctx, opts.Project)
	if err != nil {
		if stderrors.Is(err, store.ErrProjectNotFound) {
			err = errors.Wrap(errors.ErrCodeProjectNotFound, err, "project %q has no stored snapshot", opts.Project)
		}
		return story.Snapshot{}, false, err
	}

	// Cache the result
	if !opts.Refresh {
		if data, err := store.MarshalSnapshot(snap); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLSnapshot)
			observability.Cache().OnCacheSet(ctx, "snapshot", len(data))
		}
	}

	return snap, false, nil // Cache miss
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (story.Snapshot, error) {
	snap, _, err := r.LoadWithCacheInfo(ctx, opts)
	return snap, err
}

// ComputeLayout computes the layout for an already-loaded snapshot and
// stores it on a fresh Result.
func (r *Runner) ComputeLayout(ctx context.Context, snap story.Snapshot, opts Options) (*Result, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{Snapshot: snap}
	if data, err := store.MarshalSnapshot(snap); err == nil {
		result.SnapshotHash = cache.Hash(data)
	}
	if _, err := r.computeLayoutWithCacheInfo(ctx, result, opts); err != nil {
		return nil, err
	}
	return result, nil
}

// Close releases resources held by the runner (the cache and the store).
func (r *Runner) Close() error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(context.Background()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// wrapStage wraps a stage error with a fallback code, preserving the code
// of an already-classified error.
func wrapStage(err error, fallback errors.Code, format string, args ...any) error {
	if code := errors.GetCode(err); code != "" {
		return errors.Wrap(code, err, format, args...)
	}
	return errors.Wrap(fallback, err, format, args...)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
