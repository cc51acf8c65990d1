// Package pipeline provides the core layout pipeline for Chronos.
//
// This package implements the complete load → layout → render pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read the project's story snapshot from a store
//  2. Layout: Compute the graph or timeline layout for the snapshot
//  3. Render: Generate output in various formats (SVG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(store, cache, nil, logger)
//	opts := pipeline.Options{
//	    Project:  "aurora",
//	    ViewMode: "graph",
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	snap, err := runner.Load(ctx, opts)
//
//	// Layout with an existing snapshot
//	result, err := runner.ComputeLayout(ctx, snap, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hessam/chronos/pkg/cache"
	"github.com/hessam/chronos/pkg/errors"
	"github.com/hessam/chronos/pkg/layout"
	"github.com/hessam/chronos/pkg/layout/graphview"
	"github.com/hessam/chronos/pkg/layout/swimlane"
	"github.com/hessam/chronos/pkg/story"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultViewMode is the view computed when none is requested.
const DefaultViewMode = layout.ViewGraph

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Project string `json:"project"`
	Refresh bool   `json:"refresh,omitempty"` // bypass the snapshot cache

	// Layout options
	ViewMode        layout.ViewMode `json:"view_mode,omitempty"`
	SelectedID      string          `json:"selected_id,omitempty"`
	FocusTimelineID string          `json:"focus_timeline_id,omitempty"`
	Filters         layout.Filters  `json:"filters,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"`   // verbose node labels in DOT/SVG output
	Background string   `json:"background,omitempty"` // SVG background color; empty is transparent

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Snapshot is the loaded story data.
	Snapshot story.Snapshot

	// SnapshotHash is the content hash of the snapshot.
	SnapshotHash string

	// Graph holds the graph-view layout when ViewMode is "graph".
	Graph *graphview.Layout

	// Timeline holds the swimlane layout when ViewMode is "timeline".
	Timeline *swimlane.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	EntityCount       int
	RelationshipCount int
	LoadTime          time.Duration
	LayoutTime        time.Duration
	RenderTime        time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SnapshotHit bool // Whether the snapshot came from cache
	LayoutHit   bool // Whether the layout came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateViewMode checks that a view mode is valid.
func ValidateViewMode(mode layout.ViewMode) error {
	if !layout.ValidViewMode(mode) {
		return errors.New(errors.ErrCodeInvalidViewMode,
			"invalid view mode: %q (must be graph or timeline)", mode)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	if err := ValidateViewMode(o.ViewMode); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading a snapshot.
func (o *Options) ValidateForLoad() error {
	if err := errors.ValidateProjectName(o.Project); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.ViewMode == "" {
		o.ViewMode = DefaultViewMode
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return ValidateViewMode(o.ViewMode)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateViewMode(o.ViewMode); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	// DOT output is a projection of the node-link graph; the swimlane view
	// has no DOT form.
	if o.ViewMode == layout.ViewTimeline {
		for _, f := range o.Formats {
			if f == FormatDOT {
				return errors.New(errors.ErrCodeUnsupported,
					"dot output is only available for the graph view")
			}
		}
	}
	return nil
}

// IsGraph returns true if this run computes the graph view.
func (o *Options) IsGraph() bool {
	return o.ViewMode == "" || o.ViewMode == layout.ViewGraph
}

// IsTimeline returns true if this run computes the timeline view.
func (o *Options) IsTimeline() bool {
	return o.ViewMode == layout.ViewTimeline
}

// LayoutInputs assembles the layout engine inputs for a loaded snapshot.
func (o *Options) LayoutInputs(snap story.Snapshot) layout.Inputs {
	return layout.Inputs{
		Snapshot:        snap,
		SelectedID:      o.SelectedID,
		FocusTimelineID: o.FocusTimelineID,
		ViewMode:        o.ViewMode,
		Filters:         o.Filters,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		ViewMode:        string(o.ViewMode),
		SelectedID:      o.SelectedID,
		FocusTimelineID: o.FocusTimelineID,
		FiltersHash:     filtersHash(o.Filters),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
	}
}
