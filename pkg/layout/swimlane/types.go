package swimlane

import "github.com/hessam/chronos/pkg/story"

// CanonicalLaneID identifies the always-present lane for events without a
// timeline association.
const CanonicalLaneID = "canonical"

// Arrow types.
const (
	// ArrowCausal marks a causal-typed relationship between two events.
	ArrowCausal = "causal"
	// ArrowLink marks an associative relationship between two events.
	ArrowLink = "link"
	// ArrowShared is the dashed connector joining duplicate occurrences of
	// one event across lanes.
	ArrowShared = "shared"
)

// Lane is a horizontal track in the swimlane view.
type Lane struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Color      string  `json:"color"`
	Y          float64 `json:"y"`
	Height     float64 `json:"height"`
	EventCount int     `json:"event_count"`
	Collapsed  bool    `json:"collapsed"`
}

// EventNode is one visual occurrence of an event inside a lane. An event
// associated with several timelines yields several occurrences sharing the
// same resolved entity.
type EventNode struct {
	Entity         story.Entity `json:"entity"`
	LaneID         string       `json:"lane_id"`
	X              float64      `json:"x"`
	Y              float64      `json:"y"`
	Width          float64      `json:"width"`
	Height         float64      `json:"height"`
	HasConflict    bool         `json:"has_conflict,omitempty"`
	ConflictReason string       `json:"conflict_reason,omitempty"`
}

// Arrow is a drawn connection between two occurrences: a causal or
// associative relationship arrow, or a dashed shared-event connector.
type Arrow struct {
	FromID string  `json:"from_id"`
	ToID   string  `json:"to_id"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Type   string  `json:"type"`
}

// Summary carries counts for surrounding UI chrome.
type Summary struct {
	LaneCount     int `json:"lane_count"`
	EventCount    int `json:"event_count"`
	ConflictCount int `json:"conflict_count"`
}

// Layout is the complete swimlane output. Width and Height are the canvas
// bounds: the maximum extent over all placed elements plus fixed padding.
type Layout struct {
	Lanes   []Lane      `json:"lanes"`
	Events  []EventNode `json:"events"`
	Arrows  []Arrow     `json:"arrows"`
	Width   float64     `json:"width"`
	Height  float64     `json:"height"`
	Summary Summary     `json:"summary"`
}

// Lane returns the lane with the given ID and true, or a zero lane and false.
func (l Layout) Lane(id string) (Lane, bool) {
	for _, lane := range l.Lanes {
		if lane.ID == id {
			return lane, true
		}
	}
	return Lane{}, false
}

// Occurrences returns every placed occurrence of the given event entity.
func (l Layout) Occurrences(entityID string) []EventNode {
	var out []EventNode
	for _, ev := range l.Events {
		if ev.Entity.ID == entityID {
			out = append(out, ev)
		}
	}
	return out
}
