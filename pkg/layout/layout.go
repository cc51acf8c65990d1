package layout

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/hessam/chronos/pkg/story"
)

// ViewMode selects which layout engine the host runs over the snapshot.
type ViewMode string

// Supported view modes.
const (
	ViewGraph    ViewMode = "graph"
	ViewTimeline ViewMode = "timeline"
)

// ValidViewMode reports whether m is a known view mode.
func ValidViewMode(m ViewMode) bool {
	return m == ViewGraph || m == ViewTimeline
}

// Filters narrows the visible entity and relationship sets before either
// engine runs. The zero value hides nothing.
type Filters struct {
	// Search keeps only entities whose name or description contains the
	// query (case-insensitive). Empty means no search filter.
	Search string `json:"search,omitempty"`

	// HiddenTypes removes whole entity types from the layout. Timeline
	// entities are exempt: they define lanes and colors, not nodes.
	HiddenTypes []story.EntityType `json:"hidden_types,omitempty"`

	// RelationshipTypes keeps only relationships of the listed types.
	// Empty means all types are visible.
	RelationshipTypes []string `json:"relationship_types,omitempty"`
}

// HidesType reports whether entity type t is filtered out.
func (f Filters) HidesType(t story.EntityType) bool {
	for _, h := range f.HiddenTypes {
		if h == t {
			return true
		}
	}
	return false
}

// AllowsRelType reports whether relationship type rt passes the filter.
func (f Filters) AllowsRelType(rt string) bool {
	if len(f.RelationshipTypes) == 0 {
		return true
	}
	for _, allowed := range f.RelationshipTypes {
		if allowed == rt {
			return true
		}
	}
	return false
}

// Inputs is the complete declared input of a layout computation. Engines
// are pure functions of an Inputs value; anything not carried here must not
// influence the output.
type Inputs struct {
	Snapshot        story.Snapshot `json:"snapshot"`
	SelectedID      string         `json:"selected_id,omitempty"`
	FocusTimelineID string         `json:"focus_timeline_id,omitempty"`
	ViewMode        ViewMode       `json:"view_mode,omitempty"`
	Filters         Filters        `json:"filters,omitempty"`
}

// Fingerprint returns a structural hash of the inputs, suitable as a
// memoization or cache key. Identical inputs always produce identical
// fingerprints: encoding/json sorts map keys, and slice order is part of
// the input contract.
func (in Inputs) Fingerprint() string {
	data, _ := json.Marshal(in)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
