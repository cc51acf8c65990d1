package swimlane

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hessam/chronos/pkg/layout"
	"github.com/hessam/chronos/pkg/story"
)

func timelineEntity(id, name string) story.Entity {
	return story.Entity{ID: id, Type: story.TypeTimeline, Name: name}
}

func eventEntity(id string) story.Entity {
	return story.Entity{ID: id, Type: story.TypeEvent, Name: id}
}

func occursIn(id, eventID, timelineID string) story.Relationship {
	return story.Relationship{ID: id, FromEntityID: eventID, ToEntityID: timelineID, Type: "occurs_in"}
}

func TestCompute_EmptyInputs(t *testing.T) {
	got := Compute(layout.Inputs{})

	if len(got.Lanes) != 1 || got.Lanes[0].ID != CanonicalLaneID {
		t.Fatalf("lanes = %v, want only canonical", got.Lanes)
	}
	if !got.Lanes[0].Collapsed || got.Lanes[0].Height != collapsedLaneHeight {
		t.Errorf("empty canonical lane = %+v, want collapsed height %v", got.Lanes[0], collapsedLaneHeight)
	}
}

func TestCompute_LaneCompleteness(t *testing.T) {
	in := layout.Inputs{Snapshot: story.Snapshot{
		Entities: []story.Entity{
			timelineEntity("tl-1", "Prime"),
			timelineEntity("tl-2", "Mirror"), // stays empty
			eventEntity("fall"),
		},
		Relationships: []story.Relationship{occursIn("r1", "fall", "tl-1")},
	}}

	got := Compute(in)

	if len(got.Lanes) != 3 {
		t.Fatalf("lanes = %d, want canonical + 2 timelines", len(got.Lanes))
	}
	if got.Lanes[0].ID != CanonicalLaneID || got.Lanes[1].ID != "tl-1" || got.Lanes[2].ID != "tl-2" {
		t.Errorf("lane order = %v, want canonical first then timeline order", got.Lanes)
	}
	empty, _ := got.Lane("tl-2")
	if !empty.Collapsed || empty.Height != collapsedLaneHeight {
		t.Errorf("empty timeline lane = %+v, want collapsed", empty)
	}
	occupied, _ := got.Lane("tl-1")
	if occupied.Collapsed || occupied.EventCount != 1 {
		t.Errorf("occupied lane = %+v", occupied)
	}
}

func TestCompute_AdaptiveSizingTiers(t *testing.T) {
	tests := []struct {
		timelines int
		eventW    float64
		eventH    float64
		laneH     float64
	}{
		{3, 180, 72, 120},
		{6, 150, 56, 90},
		{10, 150, 56, 90},
		{11, 120, 48, 70},
	}

	for _, tt := range tests {
		got := tierFor(tt.timelines)
		if got.eventW != tt.eventW || got.eventH != tt.eventH || got.laneH != tt.laneH {
			t.Errorf("tierFor(%d) = %+v, want %vx%v lane %v", tt.timelines, got, tt.eventW, tt.eventH, tt.laneH)
		}
	}
}

func TestCompute_MultiTimelineEventDuplicated(t *testing.T) {
	in := layout.Inputs{Snapshot: story.Snapshot{
		Entities: []story.Entity{
			timelineEntity("tl-1", "Prime"),
			timelineEntity("tl-2", "Mirror"),
			eventEntity("split"),
		},
		Relationships: []story.Relationship{
			occursIn("r1", "split", "tl-1"),
			occursIn("r2", "split", "tl-2"),
		},
	}}

	got := Compute(in)

	occ := got.Occurrences("split")
	if len(occ) != 2 {
		t.Fatalf("occurrences = %d, want duplicate per lane", len(occ))
	}
	if occ[0].LaneID == occ[1].LaneID {
		t.Error("duplicates share a lane")
	}

	shared := 0
	for _, a := range got.Arrows {
		if a.Type == ArrowShared {
			shared++
		}
	}
	if shared != 1 {
		t.Errorf("shared connectors = %d, want 1 linking the duplicates", shared)
	}
}

func TestCompute_FocusModePlacesEventOnce(t *testing.T) {
	snap := story.Snapshot{
		Entities: []story.Entity{
			timelineEntity("tl-1", "Prime"),
			timelineEntity("tl-2", "Mirror"),
			eventEntity("split"),
			eventEntity("aside"),
		},
		Relationships: []story.Relationship{
			occursIn("r1", "split", "tl-1"),
			occursIn("r2", "split", "tl-2"),
		},
	}

	got := Compute(layout.Inputs{Snapshot: snap, FocusTimelineID: "tl-1"})

	if len(got.Lanes) != 2 || got.Lanes[0].ID != CanonicalLaneID || got.Lanes[1].ID != "tl-1" {
		t.Fatalf("focus lanes = %v, want canonical + focused", got.Lanes)
	}
	if occ := got.Occurrences("split"); len(occ) != 1 || occ[0].LaneID != "tl-1" {
		t.Errorf("focused occurrences = %v, want single placement in tl-1", occ)
	}
	// Unassociated event falls back to canonical.
	if occ := got.Occurrences("aside"); len(occ) != 1 || occ[0].LaneID != CanonicalLaneID {
		t.Errorf("aside occurrences = %v, want canonical", occ)
	}
}

func TestCompute_TemporalConflict(t *testing.T) {
	// filler precedes cause in lane tl-1, so cause lands at x=400 while
	// effect sits at x=180 in lane tl-2: effect drawn left of its cause.
	snap := story.Snapshot{
		Entities: []story.Entity{
			timelineEntity("tl-1", "Prime"),
			timelineEntity("tl-2", "Mirror"),
			eventEntity("filler"),
			eventEntity("cause"),
			eventEntity("effect"),
		},
		Relationships: []story.Relationship{
			occursIn("r1", "filler", "tl-1"),
			occursIn("r2", "cause", "tl-1"),
			occursIn("r3", "effect", "tl-2"),
			{ID: "r4", FromEntityID: "cause", ToEntityID: "effect", Type: story.RelCauses},
		},
	}

	got := Compute(layout.Inputs{Snapshot: snap})

	effect := got.Occurrences("effect")[0]
	if !effect.HasConflict {
		t.Fatal("effect placed before its cause but not flagged")
	}
	if !strings.Contains(effect.ConflictReason, "cause") {
		t.Errorf("conflict reason %q does not name the offending cause", effect.ConflictReason)
	}
	if got.Summary.ConflictCount != 1 {
		t.Errorf("ConflictCount = %d, want 1", got.Summary.ConflictCount)
	}
}

func TestCompute_NoConflictWhenOrdered(t *testing.T) {
	// Same shape but effect arrives after a filler in its own lane, so it
	// sits to the right of its cause.
	snap := story.Snapshot{
		Entities: []story.Entity{
			timelineEntity("tl-1", "Prime"),
			timelineEntity("tl-2", "Mirror"),
			eventEntity("cause"),
			eventEntity("filler"),
			eventEntity("effect"),
		},
		Relationships: []story.Relationship{
			occursIn("r1", "cause", "tl-1"),
			occursIn("r2", "filler", "tl-2"),
			occursIn("r3", "effect", "tl-2"),
			{ID: "r4", FromEntityID: "cause", ToEntityID: "effect", Type: story.RelCauses},
		},
	}

	got := Compute(layout.Inputs{Snapshot: snap})

	if effect := got.Occurrences("effect")[0]; effect.HasConflict {
		t.Errorf("ordered layout flagged a conflict: %q", effect.ConflictReason)
	}
}

func TestCompute_NoConflictWithinSameLane(t *testing.T) {
	// Backwards arrow inside one lane is not a cross-lane conflict.
	snap := story.Snapshot{
		Entities: []story.Entity{
			timelineEntity("tl-1", "Prime"),
			eventEntity("later"),
			eventEntity("earlier"),
		},
		Relationships: []story.Relationship{
			occursIn("r1", "later", "tl-1"),
			occursIn("r2", "earlier", "tl-1"),
			{ID: "r3", FromEntityID: "earlier", ToEntityID: "later", Type: story.RelCauses},
		},
	}

	got := Compute(layout.Inputs{Snapshot: snap})

	if got.Summary.ConflictCount != 0 {
		t.Errorf("ConflictCount = %d, want 0 for same-lane arrow", got.Summary.ConflictCount)
	}
}

func TestCompute_ArrowTypes(t *testing.T) {
	snap := story.Snapshot{
		Entities: []story.Entity{eventEntity("a"), eventEntity("b"), eventEntity("c")},
		Relationships: []story.Relationship{
			{ID: "r1", FromEntityID: "a", ToEntityID: "b", Type: story.RelCauses},
			{ID: "r2", FromEntityID: "b", ToEntityID: "c", Type: "echoes"},
		},
	}

	got := Compute(layout.Inputs{Snapshot: snap})

	types := map[string]string{}
	for _, a := range got.Arrows {
		types[a.FromID+"→"+a.ToID] = a.Type
	}
	if types["a→b"] != ArrowCausal {
		t.Errorf("a→b arrow type = %q, want causal", types["a→b"])
	}
	if types["b→c"] != ArrowLink {
		t.Errorf("b→c arrow type = %q, want link", types["b→c"])
	}
}

func TestCompute_FocusResolvesVariantFields(t *testing.T) {
	snap := story.Snapshot{
		Entities: []story.Entity{timelineEntity("tl-1", "Prime"), eventEntity("fall")},
		Relationships: []story.Relationship{
			occursIn("r1", "fall", "tl-1"),
		},
		Variants: []story.TimelineVariant{
			{EntityID: "fall", TimelineID: "tl-1", Name: "The Slow Collapse"},
		},
	}

	got := Compute(layout.Inputs{Snapshot: snap, FocusTimelineID: "tl-1"})

	occ := got.Occurrences("fall")
	if len(occ) != 1 || occ[0].Entity.Name != "The Slow Collapse" {
		t.Errorf("occurrences = %v, want variant-resolved name", occ)
	}
}

func TestCompute_CanvasBounds(t *testing.T) {
	snap := story.Snapshot{Entities: []story.Entity{eventEntity("a"), eventEntity("b")}}

	got := Compute(layout.Inputs{Snapshot: snap})

	var maxRight, maxBottom float64
	for _, ev := range got.Events {
		if ev.X+ev.Width > maxRight {
			maxRight = ev.X + ev.Width
		}
	}
	for _, lane := range got.Lanes {
		if lane.Y+lane.Height > maxBottom {
			maxBottom = lane.Y + lane.Height
		}
	}
	if got.Width != maxRight+canvasPadding {
		t.Errorf("Width = %v, want extent %v + padding", got.Width, maxRight)
	}
	if got.Height != maxBottom+canvasPadding {
		t.Errorf("Height = %v, want extent %v + padding", got.Height, maxBottom)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	snap := story.Snapshot{
		Entities: []story.Entity{
			timelineEntity("tl-1", "Prime"),
			timelineEntity("tl-2", "Mirror"),
			eventEntity("a"), eventEntity("b"), eventEntity("c"),
		},
		Relationships: []story.Relationship{
			occursIn("r1", "a", "tl-1"),
			occursIn("r2", "a", "tl-2"),
			{ID: "r3", FromEntityID: "a", ToEntityID: "b", Type: story.RelCauses},
		},
	}
	in := layout.Inputs{Snapshot: snap}

	first, _ := json.Marshal(Compute(in))
	second, _ := json.Marshal(Compute(in))

	if string(first) != string(second) {
		t.Error("two invocations with identical inputs differ")
	}
}
