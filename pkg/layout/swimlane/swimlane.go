package swimlane

import (
	"github.com/hessam/chronos/pkg/layout"
	"github.com/hessam/chronos/pkg/story"
)

// Compute derives the swimlane layout for the given inputs. Pure and
// deterministic; safe to re-invoke on every input change.
func Compute(in layout.Inputs) Layout {
	view := layout.NewView(in)
	size := tierFor(len(view.Timelines))

	lanes := buildLanes(view, in.FocusTimelineID)
	assignments := assignEvents(view, in, lanes)

	out := Layout{}

	// Vertical stacking: collapsed lanes shrink, occupied lanes take the
	// tier height.
	y := canvasPadding
	for _, lane := range lanes {
		lane.EventCount = len(assignments[lane.ID])
		lane.Collapsed = lane.EventCount == 0
		lane.Y = y
		if lane.Collapsed {
			lane.Height = collapsedLaneHeight
		} else {
			lane.Height = size.laneH
		}
		y += lane.Height
		out.Lanes = append(out.Lanes, lane)
	}

	// Horizontal placement: arrival order at fixed spacing, no causal
	// reordering at this stage.
	maxX := laneGutter
	for _, lane := range out.Lanes {
		for i, entity := range assignments[lane.ID] {
			x := laneGutter + float64(i)*(size.eventW+eventGap)
			out.Events = append(out.Events, EventNode{
				Entity: entity,
				LaneID: lane.ID,
				X:      x,
				Y:      lane.Y + (lane.Height-size.eventH)/2,
				Width:  size.eventW,
				Height: size.eventH,
			})
			if right := x + size.eventW; right > maxX {
				maxX = right
			}
		}
	}

	out.Arrows = append(out.Arrows, sharedConnectors(out.Events)...)
	relationshipArrows(&out, view.Relationships)

	out.Width = maxX + canvasPadding
	out.Height = y + canvasPadding
	out.Summary.LaneCount = len(out.Lanes)
	out.Summary.EventCount = len(out.Events)
	for _, ev := range out.Events {
		if ev.HasConflict {
			out.Summary.ConflictCount++
		}
	}
	return out
}

// buildLanes returns the canonical lane followed by one lane per timeline
// in given order, or only the focused timeline's lane in focus mode.
func buildLanes(view layout.View, focusID string) []Lane {
	lanes := []Lane{{ID: CanonicalLaneID, Label: "Canonical", Color: canonicalLaneColor}}
	for _, tl := range view.Timelines {
		if focusID != "" && tl.ID != focusID {
			continue
		}
		lanes = append(lanes, Lane{ID: tl.ID, Label: tl.DisplayName(), Color: view.Colors[tl.ID]})
	}
	return lanes
}

// assignEvents maps lane ID to its events in arrival order.
//
// Association follows the graph-view rule: a direct visible relationship to
// the timeline entity (either direction) or a variant record. In focus mode
// an event appears exactly once: in the focused lane when associated,
// otherwise in canonical. Outside focus mode a multi-timeline event is
// duplicated into each associated lane and an unassociated event falls to
// canonical.
func assignEvents(view layout.View, in layout.Inputs, lanes []Lane) map[string][]story.Entity {
	present := make(map[string]bool, len(lanes))
	for _, lane := range lanes {
		present[lane.ID] = true
	}

	assignments := make(map[string][]story.Entity, len(lanes))
	for _, e := range view.Entities {
		if e.Type != story.TypeEvent {
			continue
		}
		resolved := story.Resolve(e, in.FocusTimelineID, view.Variants)

		if in.FocusTimelineID != "" {
			laneID := CanonicalLaneID
			if view.AssociatedWith(e.ID, in.FocusTimelineID) {
				laneID = in.FocusTimelineID
			}
			assignments[laneID] = append(assignments[laneID], resolved)
			continue
		}

		placed := false
		for _, tlID := range view.TimelineIDs(e.ID) {
			if present[tlID] {
				assignments[tlID] = append(assignments[tlID], resolved)
				placed = true
			}
		}
		if !placed {
			assignments[CanonicalLaneID] = append(assignments[CanonicalLaneID], resolved)
		}
	}
	return assignments
}

// sharedConnectors links consecutive occurrences of the same event across
// lanes with dashed connectors.
func sharedConnectors(events []EventNode) []Arrow {
	byEntity := make(map[string][]int)
	var order []string
	for i, ev := range events {
		if _, seen := byEntity[ev.Entity.ID]; !seen {
			order = append(order, ev.Entity.ID)
		}
		byEntity[ev.Entity.ID] = append(byEntity[ev.Entity.ID], i)
	}

	var arrows []Arrow
	for _, id := range order {
		occ := byEntity[id]
		for i := 1; i < len(occ); i++ {
			a, b := events[occ[i-1]], events[occ[i]]
			arrows = append(arrows, Arrow{
				FromID: id,
				ToID:   id,
				X1:     a.X + a.Width/2,
				Y1:     a.Y + a.Height/2,
				X2:     b.X + b.Width/2,
				Y2:     b.Y + b.Height/2,
				Type:   ArrowShared,
			})
		}
	}
	return arrows
}
