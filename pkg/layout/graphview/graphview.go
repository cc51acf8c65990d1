package graphview

import (
	"github.com/hessam/chronos/pkg/layout"
	"github.com/hessam/chronos/pkg/story"
)

// Compute derives the full causal graph layout for the given inputs. It is
// a pure function: no I/O, no retained state, and identical inputs produce
// identical output.
func Compute(in layout.Inputs) Layout {
	view := layout.NewView(in)

	// Graph nodes are the visible non-timeline entities; relationships
	// between them become edges. Relationships touching timeline entities
	// only feed the association map inside the view.
	nodeRels := betweenNodes(view)

	zones := partition(view.Entities, nodeRels)
	layers := assignLayers(view.Entities, nodeRels, zones)
	positions := place(view.Entities, zones, layers)
	distances := causalDistances(in.SelectedID, view.Entities, nodeRels)

	out := Layout{Summary: Summary{TimelineCount: len(view.Timelines)}}

	for _, e := range view.Entities {
		zone := zones[e.ID]
		timelineIDs := view.TimelineIDs(e.ID)
		_, highlighted := distances[e.ID]

		n := Node{
			ID:          e.ID,
			Entity:      story.Resolve(e, in.FocusTimelineID, view.Variants),
			Color:       nodeColor(e, timelineIDs, view.Colors),
			Zone:        zone,
			Layer:       layers[e.ID],
			Highlighted: highlighted,
			TimelineIDs: timelineIDs,
		}
		n.X, n.Y = positions[e.ID].x, positions[e.ID].y
		out.Nodes = append(out.Nodes, n)

		if zone == ZoneCausal {
			out.Summary.CausalCount++
			if n.Layer > out.Summary.MaxLayer {
				out.Summary.MaxLayer = n.Layer
			}
		} else {
			out.Summary.ContextCount++
		}
	}

	for _, r := range nodeRels {
		_, fromNear := distances[r.FromEntityID]
		_, toNear := distances[r.ToEntityID]
		out.Edges = append(out.Edges, Edge{
			ID:           r.ID,
			SourceID:     r.FromEntityID,
			TargetID:     r.ToEntityID,
			Relationship: r,
			Causal:       r.IsCausal(),
			Highlighted:  fromNear && toNear,
		})
	}

	return out
}

// betweenNodes keeps the visible relationships whose endpoints are both
// graph nodes (visible non-timeline entities). Edges into timeline entities
// never render in the graph view.
func betweenNodes(v layout.View) []story.Relationship {
	node := make(map[string]bool, len(v.Entities))
	for _, e := range v.Entities {
		node[e.ID] = true
	}
	var out []story.Relationship
	for _, r := range v.Relationships {
		if node[r.FromEntityID] && node[r.ToEntityID] {
			out = append(out, r)
		}
	}
	return out
}

// partition assigns every visible entity to exactly one zone: causal when
// it is an endpoint of at least one visible causal-typed relationship,
// context otherwise.
func partition(entities []story.Entity, rels []story.Relationship) map[string]Zone {
	causal := make(map[string]bool)
	for _, r := range rels {
		if r.IsCausal() {
			causal[r.FromEntityID] = true
			causal[r.ToEntityID] = true
		}
	}

	zones := make(map[string]Zone, len(entities))
	for _, e := range entities {
		if causal[e.ID] {
			zones[e.ID] = ZoneCausal
		} else {
			zones[e.ID] = ZoneContext
		}
	}
	return zones
}

func nodeColor(e story.Entity, timelineIDs []string, colors map[string]string) string {
	if len(timelineIDs) > 0 {
		return colors[timelineIDs[0]]
	}
	if e.Color != "" {
		return e.Color
	}
	return defaultNodeColor
}
