package graphview

import (
	"encoding/json"
	"testing"

	"github.com/hessam/chronos/pkg/layout"
	"github.com/hessam/chronos/pkg/story"
)

func event(id string) story.Entity {
	return story.Entity{ID: id, Type: story.TypeEvent, Name: id}
}

func character(id string) story.Entity {
	return story.Entity{ID: id, Type: story.TypeCharacter, Name: id}
}

func causes(id, from, to string) story.Relationship {
	return story.Relationship{ID: id, FromEntityID: from, ToEntityID: to, Type: story.RelCauses}
}

func TestCompute_SimpleChain(t *testing.T) {
	in := layout.Inputs{Snapshot: story.Snapshot{
		Entities:      []story.Entity{event("a"), event("b")},
		Relationships: []story.Relationship{causes("r1", "a", "b")},
	}}

	got := Compute(in)

	a, _ := got.Node("a")
	b, _ := got.Node("b")
	if a.Zone != ZoneCausal || b.Zone != ZoneCausal {
		t.Errorf("zones = %v/%v, want both causal", a.Zone, b.Zone)
	}
	if a.Layer != 0 {
		t.Errorf("layer(a) = %d, want 0", a.Layer)
	}
	if b.Layer != 1 {
		t.Errorf("layer(b) = %d, want 1", b.Layer)
	}
	if got.Summary.CausalCount != 2 || got.Summary.MaxLayer != 1 {
		t.Errorf("summary = %+v", got.Summary)
	}
}

func TestCompute_IsolatedCharacterIsContext(t *testing.T) {
	in := layout.Inputs{Snapshot: story.Snapshot{
		Entities: []story.Entity{character("c")},
	}}

	got := Compute(in)

	c, ok := got.Node("c")
	if !ok {
		t.Fatal("isolated character missing from layout")
	}
	if c.Zone != ZoneContext {
		t.Errorf("zone(c) = %v, want context", c.Zone)
	}
	if c.X != contextBandX {
		t.Errorf("x(c) = %v, want context band %v", c.X, contextBandX)
	}
	if got.Summary.ContextCount != 1 || got.Summary.CausalCount != 0 {
		t.Errorf("summary = %+v", got.Summary)
	}
}

func TestCompute_ZoneTotality(t *testing.T) {
	in := layout.Inputs{Snapshot: story.Snapshot{
		Entities: []story.Entity{event("a"), event("b"), character("c"), character("d")},
		Relationships: []story.Relationship{
			causes("r1", "a", "b"),
			{ID: "r2", FromEntityID: "c", ToEntityID: "a", Type: "witnesses"}, // associative
		},
	}}

	got := Compute(in)

	if len(got.Nodes) != 4 {
		t.Fatalf("nodes = %d, want 4", len(got.Nodes))
	}
	for _, n := range got.Nodes {
		if n.Zone != ZoneCausal && n.Zone != ZoneContext {
			t.Errorf("node %s has zone %q", n.ID, n.Zone)
		}
	}
	// c touches only an associative edge: context despite connectivity.
	c, _ := got.Node("c")
	if c.Zone != ZoneContext {
		t.Errorf("zone(c) = %v, want context", c.Zone)
	}
}

func TestCompute_LayerMonotonicity(t *testing.T) {
	// Diamond with a long arm: a→b→c→d plus a→d.
	in := layout.Inputs{Snapshot: story.Snapshot{
		Entities: []story.Entity{event("a"), event("b"), event("c"), event("d")},
		Relationships: []story.Relationship{
			causes("r1", "a", "b"),
			causes("r2", "b", "c"),
			causes("r3", "c", "d"),
			causes("r4", "a", "d"),
		},
	}}

	got := Compute(in)

	nodes := map[string]Node{}
	for _, n := range got.Nodes {
		nodes[n.ID] = n
	}
	for _, e := range got.Edges {
		if !e.Causal {
			continue
		}
		src, dst := nodes[e.SourceID], nodes[e.TargetID]
		if dst.Layer < src.Layer+1 {
			t.Errorf("edge %s→%s: layer %d < %d+1", e.SourceID, e.TargetID, dst.Layer, src.Layer)
		}
	}
	if nodes["d"].Layer != 3 {
		t.Errorf("layer(d) = %d, want max-path 3", nodes["d"].Layer)
	}
}

func TestCompute_RootlessCycleBoundedAndFrozen(t *testing.T) {
	// A pure cycle has no roots: the worklist never reaches it, so both
	// nodes stay at the default layer 0 and Compute terminates.
	in := layout.Inputs{Snapshot: story.Snapshot{
		Entities:      []story.Entity{event("a"), event("b")},
		Relationships: []story.Relationship{causes("r1", "a", "b"), causes("r2", "b", "a")},
	}}

	got := Compute(in)

	for _, id := range []string{"a", "b"} {
		n, _ := got.Node(id)
		if n.Zone != ZoneCausal {
			t.Errorf("zone(%s) = %v, want causal", id, n.Zone)
		}
		if n.Layer != 0 {
			t.Errorf("layer(%s) = %d, want default 0", id, n.Layer)
		}
	}
}

func TestCompute_RootedCycleTerminates(t *testing.T) {
	// root→a→b→a: the cycle is reachable, so relayering must hit the
	// re-enqueue bound and freeze rather than loop.
	in := layout.Inputs{Snapshot: story.Snapshot{
		Entities: []story.Entity{event("root"), event("a"), event("b")},
		Relationships: []story.Relationship{
			causes("r1", "root", "a"),
			causes("r2", "a", "b"),
			causes("r3", "b", "a"),
		},
	}}

	got := Compute(in)

	root, _ := got.Node("root")
	if root.Layer != 0 {
		t.Errorf("layer(root) = %d, want 0", root.Layer)
	}
	a, _ := got.Node("a")
	b, _ := got.Node("b")
	if a.Layer < 1 || b.Layer < 1 {
		t.Errorf("cycle members at layers %d/%d, want ≥1", a.Layer, b.Layer)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	in := layout.Inputs{
		Snapshot: story.Snapshot{
			Entities: []story.Entity{
				{ID: "tl-1", Type: story.TypeTimeline, Name: "Prime"},
				event("a"), event("b"), character("c"),
			},
			Relationships: []story.Relationship{
				causes("r1", "a", "b"),
				{ID: "r2", FromEntityID: "a", ToEntityID: "tl-1", Type: "occurs_in"},
			},
			Variants: []story.TimelineVariant{{EntityID: "b", TimelineID: "tl-1", Name: "B'"}},
		},
		SelectedID: "a",
	}

	first, _ := json.Marshal(Compute(in))
	second, _ := json.Marshal(Compute(in))

	if string(first) != string(second) {
		t.Error("two invocations with identical inputs differ")
	}
}

func TestCompute_HighlightDepthCapped(t *testing.T) {
	// Chain of six: a-b-c-d-e-f. Selecting a should highlight up to depth
	// 4 (through e) but not f.
	ids := []string{"a", "b", "c", "d", "e", "f"}
	var ents []story.Entity
	var rels []story.Relationship
	for i, id := range ids {
		ents = append(ents, event(id))
		if i > 0 {
			rels = append(rels, story.Relationship{
				ID: "r" + id, FromEntityID: ids[i-1], ToEntityID: id, Type: "precedes",
			})
		}
	}
	in := layout.Inputs{Snapshot: story.Snapshot{Entities: ents, Relationships: rels}, SelectedID: "a"}

	got := Compute(in)

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		if n, _ := got.Node(id); !n.Highlighted {
			t.Errorf("node %s not highlighted, want within depth 4", id)
		}
	}
	if n, _ := got.Node("f"); n.Highlighted {
		t.Error("node f highlighted beyond depth cap")
	}
}

func TestCompute_HighlightUsesAssociativeEdges(t *testing.T) {
	in := layout.Inputs{
		Snapshot: story.Snapshot{
			Entities: []story.Entity{event("a"), character("c")},
			Relationships: []story.Relationship{
				{ID: "r1", FromEntityID: "c", ToEntityID: "a", Type: "witnesses"},
			},
		},
		SelectedID: "a",
	}

	got := Compute(in)

	c, _ := got.Node("c")
	if !c.Highlighted {
		t.Error("associative neighbor not highlighted")
	}
	if len(got.Edges) != 1 || !got.Edges[0].Highlighted {
		t.Error("edge between highlighted endpoints should be highlighted")
	}
}

func TestCompute_TimelineColoring(t *testing.T) {
	in := layout.Inputs{Snapshot: story.Snapshot{
		Entities: []story.Entity{
			{ID: "tl-1", Type: story.TypeTimeline},
			{ID: "tl-2", Type: story.TypeTimeline},
			event("a"),
		},
		Relationships: []story.Relationship{
			{ID: "r1", FromEntityID: "a", ToEntityID: "tl-2", Type: "occurs_in"},
		},
	}}

	got := Compute(in)

	a, _ := got.Node("a")
	if len(a.TimelineIDs) != 1 || a.TimelineIDs[0] != "tl-2" {
		t.Fatalf("TimelineIDs(a) = %v, want [tl-2]", a.TimelineIDs)
	}
	if a.Color != layout.TimelinePalette[1] {
		t.Errorf("color(a) = %q, want second palette entry", a.Color)
	}
	if got.Summary.TimelineCount != 2 {
		t.Errorf("TimelineCount = %d, want 2", got.Summary.TimelineCount)
	}
}

func TestCompute_TimelineEntitiesAreNotNodes(t *testing.T) {
	in := layout.Inputs{Snapshot: story.Snapshot{
		Entities: []story.Entity{{ID: "tl-1", Type: story.TypeTimeline}, event("a")},
	}}

	got := Compute(in)

	if _, ok := got.Node("tl-1"); ok {
		t.Error("timeline entity laid out as a graph node")
	}
}

func TestCompute_FocusResolvesVariants(t *testing.T) {
	in := layout.Inputs{
		Snapshot: story.Snapshot{
			Entities: []story.Entity{{ID: "tl-1", Type: story.TypeTimeline}, character("hero")},
			Variants: []story.TimelineVariant{{EntityID: "hero", TimelineID: "tl-1", Name: "Shadow"}},
		},
		FocusTimelineID: "tl-1",
	}

	got := Compute(in)

	hero, _ := got.Node("hero")
	if hero.Entity.Name != "Shadow" {
		t.Errorf("resolved name = %q, want variant %q", hero.Entity.Name, "Shadow")
	}
}

func TestCompute_EdgesRequireBothEndpointsPresent(t *testing.T) {
	in := layout.Inputs{
		Snapshot: story.Snapshot{
			Entities: []story.Entity{event("a"), character("c")},
			Relationships: []story.Relationship{
				causes("r1", "a", "c"),
				causes("r2", "a", "ghost"), // dangling
			},
		},
		Filters: layout.Filters{HiddenTypes: []story.EntityType{story.TypeCharacter}},
	}

	got := Compute(in)

	if len(got.Edges) != 0 {
		t.Errorf("edges = %d, want 0 (hidden endpoint and dangling target)", len(got.Edges))
	}
	// With its only causal edge hidden, a degrades to context.
	a, _ := got.Node("a")
	if a.Zone != ZoneContext {
		t.Errorf("zone(a) = %v, want context after filter", a.Zone)
	}
}

func TestCompute_DuplicateEdgesRenderedSeparately(t *testing.T) {
	in := layout.Inputs{Snapshot: story.Snapshot{
		Entities: []story.Entity{event("a"), event("b")},
		Relationships: []story.Relationship{
			causes("r1", "a", "b"),
			causes("r2", "a", "b"),
		},
	}}

	got := Compute(in)

	if len(got.Edges) != 2 {
		t.Errorf("edges = %d, want duplicate pair kept", len(got.Edges))
	}
}

func TestCompute_EmptyInputs(t *testing.T) {
	got := Compute(layout.Inputs{})

	if len(got.Nodes) != 0 || len(got.Edges) != 0 {
		t.Errorf("empty inputs produced %d nodes / %d edges", len(got.Nodes), len(got.Edges))
	}
}

func TestCompute_CausalColumnsToTheRightOfContext(t *testing.T) {
	in := layout.Inputs{Snapshot: story.Snapshot{
		Entities:      []story.Entity{event("a"), event("b"), character("c")},
		Relationships: []story.Relationship{causes("r1", "a", "b")},
	}}

	got := Compute(in)

	a, _ := got.Node("a")
	b, _ := got.Node("b")
	c, _ := got.Node("c")
	if a.X != causalBandX {
		t.Errorf("x(a) = %v, want causal band start", a.X)
	}
	if b.X != causalBandX+layerSpacing {
		t.Errorf("x(b) = %v, want one layer right of a", b.X)
	}
	if c.X >= a.X {
		t.Errorf("context x(c) = %v, want left of causal band", c.X)
	}
}

func TestCompute_WideContextGridPushesCausalBand(t *testing.T) {
	// 16 characters form a 4x4 grid; the causal band must clear its right
	// edge instead of starting at the fixed offset.
	entities := []story.Entity{event("a"), event("b")}
	for i := 0; i < 16; i++ {
		entities = append(entities, character(string(rune('c'+i))))
	}
	in := layout.Inputs{Snapshot: story.Snapshot{
		Entities:      entities,
		Relationships: []story.Relationship{causes("r1", "a", "b")},
	}}

	got := Compute(in)

	gridRight := contextBandX + 4*contextCellW
	a, _ := got.Node("a")
	if a.X <= gridRight {
		t.Errorf("x(a) = %v, want right of context grid edge %v", a.X, gridRight)
	}
	if want := gridRight + causalGap; a.X != want {
		t.Errorf("x(a) = %v, want %v", a.X, want)
	}
	for _, n := range got.Nodes {
		if n.Zone == ZoneContext && n.X >= a.X {
			t.Errorf("context x(%s) = %v, overlaps causal band at %v", n.ID, n.X, a.X)
		}
	}
}

func TestCompute_CausalEdgeIntoTimelineLeavesEventInContext(t *testing.T) {
	// Relationships touching timeline entities feed lane association only;
	// they are dropped before zone partitioning. An event whose sole
	// causal-typed relationship points at a timeline stays context.
	in := layout.Inputs{Snapshot: story.Snapshot{
		Entities: []story.Entity{{ID: "tl-1", Type: story.TypeTimeline, Name: "Prime"}, event("fork")},
		Relationships: []story.Relationship{
			{ID: "r1", FromEntityID: "fork", ToEntityID: "tl-1", Type: story.RelBranchesInto},
		},
	}}

	got := Compute(in)

	n, ok := got.Node("fork")
	if !ok {
		t.Fatal("event missing from layout")
	}
	if n.Zone != ZoneContext {
		t.Errorf("zone = %v, want context", n.Zone)
	}
	if len(n.TimelineIDs) != 1 || n.TimelineIDs[0] != "tl-1" {
		t.Errorf("timelineIDs = %v, want association with tl-1", n.TimelineIDs)
	}
	if len(got.Edges) != 0 {
		t.Errorf("edges = %d, want none (timelines are not graph nodes)", len(got.Edges))
	}
}
