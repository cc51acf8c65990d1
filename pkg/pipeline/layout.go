package pipeline

import (
	"context"
	"encoding/json"

	"github.com/hessam/chronos/pkg/cache"
	"github.com/hessam/chronos/pkg/layout"
	"github.com/hessam/chronos/pkg/layout/graphview"
	"github.com/hessam/chronos/pkg/layout/swimlane"
	"github.com/hessam/chronos/pkg/observability"
)

// computeLayoutWithCacheInfo fills result.Graph or result.Timeline from the
// cache or by running the engine, and reports whether the cache was hit.
//
// Both engines are pure functions of their inputs, so a cached layout keyed
// by snapshot hash plus layout options is always valid to serve.
func (r *Runner) computeLayoutWithCacheInfo(ctx context.Context, result *Result, opts Options) (bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return false, err
	}

	cacheKey := r.Keyer.LayoutKey(result.SnapshotHash, opts.LayoutKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "layout")
		if opts.IsTimeline() {
			var cached swimlane.Layout
			if err := json.Unmarshal(data, &cached); err == nil {
				result.Timeline = &cached
				return true, nil
			}
		} else {
			var cached graphview.Layout
			if err := json.Unmarshal(data, &cached); err == nil {
				result.Graph = &cached
				return true, nil
			}
		}
		// Fall through to recompute on deserialization failure.
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	in := opts.LayoutInputs(result.Snapshot)

	// The memo sits above the byte cache: repeated runs over unchanged
	// inputs (file cache disabled, or watch-style callers) skip both the
	// engine and the JSON round-trip.
	var computed any
	if opts.IsTimeline() {
		l := r.timelineMemo.Get(in, swimlane.Compute)
		result.Timeline = &l
		computed = l
	} else {
		l := r.graphMemo.Get(in, graphview.Compute)
		result.Graph = &l
		computed = l
	}

	if data, err := json.Marshal(computed); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return false, nil
}

// layoutJSON marshals whichever layout the result holds.
func (result *Result) layoutJSON() ([]byte, error) {
	if result.Timeline != nil {
		return json.Marshal(result.Timeline)
	}
	return json.Marshal(result.Graph)
}

// filtersHash derives a stable hash of the filter set for cache keys. The
// zero filter hashes to a fixed value, so unfiltered runs share keys.
func filtersHash(f layout.Filters) string {
	data, _ := json.Marshal(f)
	return cache.Hash(data)
}
