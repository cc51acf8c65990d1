package pipeline

import (
	"context"

	"github.com/hessam/chronos/pkg/cache"
	"github.com/hessam/chronos/pkg/errors"
	"github.com/hessam/chronos/pkg/observability"
	"github.com/hessam/chronos/pkg/render/nodelink"
	renderswim "github.com/hessam/chronos/pkg/render/swimlane"
)

// RenderWithCacheInfo renders artifacts for the result's layout with
// caching and returns cache hit info. The result must already carry a
// computed layout.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	if result.Graph == nil && result.Timeline == nil {
		return nil, false, errors.New(errors.ErrCodeInternal, "render called before layout")
	}

	layoutData, err := result.layoutJSON()
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
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		} else {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	rendered, err := r.renderFormats(ctx, result, layoutData, opts)
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

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, result *Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, result, opts)
	return artifacts, err
}

// renderFormats produces every requested format from the computed layout.
func (r *Runner) renderFormats(ctx context.Context, result *Result, layoutData []byte, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			artifacts[format] = layoutData

		case FormatDOT:
			// Validation already rejects DOT for the timeline view.
			dot := nodelink.ToDOT(*result.Graph, nodelink.Options{Detailed: opts.Detailed})
			artifacts[format] = []byte(dot)

		case FormatSVG:
			if result.Timeline != nil {
				artifacts[format] = renderswim.Render(*result.Timeline, renderswim.Options{
					Background: opts.Background,
				})
				continue
			}
			dot := nodelink.ToDOT(*result.Graph, nodelink.Options{Detailed: opts.Detailed})
			svg, err := nodelink.RenderSVG(ctx, dot)
			if err != nil {
				return nil, err
			}
			artifacts[format] = svg

		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
		}
	}

	return artifacts, nil
}
