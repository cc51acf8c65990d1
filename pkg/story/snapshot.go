package story

// Snapshot is the read-only bundle of collections the layout engines
// consume. The hosting application (CRUD layer, stores) assembles it; the
// engines only derive ephemeral layout structures from it.
//
// Slice order is significant: timelines keep their given order for lane
// ordering and palette coloring, and entities keep their given order for
// deterministic placement.
type Snapshot struct {
	Entities      []Entity          `json:"entities" bson:"entities"`
	Relationships []Relationship    `json:"relationships" bson:"relationships"`
	Variants      []TimelineVariant `json:"variants,omitempty" bson:"variants,omitempty"`
}

// Entity returns the entity with the given ID and true, or a zero entity
// and false.
func (s Snapshot) Entity(id string) (Entity, bool) {
	for _, e := range s.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return Entity{}, false
}

// Has reports whether an entity with the given ID exists.
func (s Snapshot) Has(id string) bool {
	_, ok := s.Entity(id)
	return ok
}

// Timelines returns the timeline-typed entities in their given order.
func (s Snapshot) Timelines() []Entity {
	var out []Entity
	for _, e := range s.Entities {
		if e.IsTimeline() {
			out = append(out, e)
		}
	}
	return out
}

// EntitiesOfType returns entities of type t in their given order.
func (s Snapshot) EntitiesOfType(t EntityType) []Entity {
	var out []Entity
	for _, e := range s.Entities {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Index builds an ID → entity lookup map. Relationships or variants whose
// endpoints are missing from the map are dangling and get dropped by the
// engines, never reported as errors.
func (s Snapshot) Index() map[string]Entity {
	idx := make(map[string]Entity, len(s.Entities))
	for _, e := range s.Entities {
		idx[e.ID] = e
	}
	return idx
}
