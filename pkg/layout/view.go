package layout

import (
	"strings"

	"github.com/hessam/chronos/pkg/story"
)

// View is the derived visibility state both engines share: which entities
// and relationships survive the filters, which color each timeline carries,
// and which timelines each entity is associated with.
//
// A View is recomputed from scratch on every input change; it holds no
// state across computations.
type View struct {
	// Entities are the visible non-timeline entities in snapshot order.
	Entities []story.Entity

	// Timelines are the timeline entities in snapshot order. Timelines are
	// exempt from type/search filters: they define lanes and colors, not
	// layout nodes.
	Timelines []story.Entity

	// Relationships are the visible relationships in snapshot order: type
	// passes the filter and both endpoints reference visible entities
	// (timelines count as visible endpoints for association purposes).
	// Dangling relationships are silently dropped.
	Relationships []story.Relationship

	// Colors maps timeline ID to its palette color.
	Colors map[string]string

	// Variants carries the snapshot's variant records, filtered to pairs
	// whose entity and timeline both exist.
	Variants []story.TimelineVariant

	assoc map[string][]string
}

// NewView computes the shared visibility state for the given inputs.
func NewView(in Inputs) View {
	snap := in.Snapshot
	v := View{Colors: make(map[string]string)}

	for _, e := range snap.Entities {
		if e.IsTimeline() {
			v.Colors[e.ID] = TimelineColor(len(v.Timelines))
			v.Timelines = append(v.Timelines, e)
			continue
		}
		if visibleEntity(e, in.Filters) {
			v.Entities = append(v.Entities, e)
		}
	}

	present := make(map[string]bool, len(v.Entities)+len(v.Timelines))
	for _, e := range v.Entities {
		present[e.ID] = true
	}
	for _, tl := range v.Timelines {
		present[tl.ID] = true
	}

	for _, r := range snap.Relationships {
		if !in.Filters.AllowsRelType(r.Type) {
			continue
		}
		if !present[r.FromEntityID] || !present[r.ToEntityID] {
			continue
		}
		v.Relationships = append(v.Relationships, r)
	}

	exists := snap.Index()
	for _, rec := range snap.Variants {
		tl, ok := exists[rec.TimelineID]
		if !ok || !tl.IsTimeline() {
			continue
		}
		if _, ok := exists[rec.EntityID]; !ok {
			continue
		}
		v.Variants = append(v.Variants, rec)
	}

	v.assoc = v.buildAssociations()
	return v
}

// TimelineIDs returns the IDs of the timelines associated with the entity,
// in timeline order. An entity is associated with timeline T when a visible
// relationship directly connects it to T (either direction) or a variant
// record exists for the (entity, T) pair.
func (v View) TimelineIDs(entityID string) []string {
	return v.assoc[entityID]
}

// AssociatedWith reports whether the entity is associated with the timeline.
func (v View) AssociatedWith(entityID, timelineID string) bool {
	for _, id := range v.assoc[entityID] {
		if id == timelineID {
			return true
		}
	}
	return false
}

func (v View) buildAssociations() map[string][]string {
	timeline := make(map[string]bool, len(v.Timelines))
	for _, tl := range v.Timelines {
		timeline[tl.ID] = true
	}

	linked := make(map[string]map[string]bool)
	mark := func(entityID, timelineID string) {
		set, ok := linked[entityID]
		if !ok {
			set = make(map[string]bool)
			linked[entityID] = set
		}
		set[timelineID] = true
	}

	for _, r := range v.Relationships {
		switch {
		case timeline[r.FromEntityID] && !timeline[r.ToEntityID]:
			mark(r.ToEntityID, r.FromEntityID)
		case timeline[r.ToEntityID] && !timeline[r.FromEntityID]:
			mark(r.FromEntityID, r.ToEntityID)
		}
	}
	for _, rec := range v.Variants {
		if timeline[rec.TimelineID] {
			mark(rec.EntityID, rec.TimelineID)
		}
	}

	// Emit in timeline order for deterministic output.
	assoc := make(map[string][]string, len(linked))
	for entityID, set := range linked {
		var ids []string
		for _, tl := range v.Timelines {
			if set[tl.ID] {
				ids = append(ids, tl.ID)
			}
		}
		assoc[entityID] = ids
	}
	return assoc
}

func visibleEntity(e story.Entity, f Filters) bool {
	if f.HidesType(e.Type) {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(e.Name), q) ||
		strings.Contains(strings.ToLower(e.Description), q)
}
