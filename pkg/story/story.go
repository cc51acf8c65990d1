package story

import (
	"time"
)

// EntityType classifies a story entity.
type EntityType string

// The closed set of entity types. A type never changes after creation.
const (
	TypeCharacter EntityType = "character"
	TypeTimeline  EntityType = "timeline"
	TypeEvent     EntityType = "event"
	TypeArc       EntityType = "arc"
	TypeTheme     EntityType = "theme"
	TypeLocation  EntityType = "location"
	TypeNote      EntityType = "note"
	TypeChapter   EntityType = "chapter"
)

// EntityTypes lists all entity types in their display order. The graph view
// uses this order when stacking context-zone groups, so it must stay stable.
var EntityTypes = []EntityType{
	TypeCharacter,
	TypeEvent,
	TypeArc,
	TypeTheme,
	TypeLocation,
	TypeNote,
	TypeChapter,
	TypeTimeline,
}

// ValidEntityType reports whether t is one of the known entity types.
func ValidEntityType(t EntityType) bool {
	for _, known := range EntityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Entity is the canonical, timeline-independent record for a story element.
//
// Identity (ID) and Type are immutable after creation. Timeline-typed
// entities are never laid out as graph nodes themselves; they define lanes
// and colors for the entities associated with them.
type Entity struct {
	ID          string     `json:"id" bson:"id" toml:"id"`
	Type        EntityType `json:"entity_type" bson:"entity_type" toml:"type"`
	Name        string     `json:"name" bson:"name" toml:"name"`
	Description string     `json:"description,omitempty" bson:"description,omitempty" toml:"description"`
	Properties  Properties `json:"properties,omitempty" bson:"properties,omitempty" toml:"properties"`
	PositionX   float64    `json:"position_x,omitempty" bson:"position_x,omitempty" toml:"position_x"`
	PositionY   float64    `json:"position_y,omitempty" bson:"position_y,omitempty" toml:"position_y"`
	Color       string     `json:"color,omitempty" bson:"color,omitempty" toml:"color"`
	SortOrder   int        `json:"sort_order,omitempty" bson:"sort_order,omitempty" toml:"sort_order"`
	CreatedAt   time.Time  `json:"created_at,omitempty" bson:"created_at,omitempty" toml:"-"`
	UpdatedAt   time.Time  `json:"updated_at,omitempty" bson:"updated_at,omitempty" toml:"-"`
}

// IsTimeline reports whether the entity defines a timeline.
func (e Entity) IsTimeline() bool { return e.Type == TypeTimeline }

// DisplayName returns the name if set, otherwise the ID.
func (e Entity) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// Causal relationship types. Edges of these types drive DAG layering in the
// graph view; every other type is associative.
const (
	RelCauses       = "causes"
	RelBranchesInto = "branches_into"
	RelCreates      = "creates"
	RelInspires     = "inspires"
	RelMakes        = "makes"
	RelParentOf     = "parent_of"
	RelOriginatesIn = "originates_in"
)

var causalTypes = map[string]bool{
	RelCauses:       true,
	RelBranchesInto: true,
	RelCreates:      true,
	RelInspires:     true,
	RelMakes:        true,
	RelParentOf:     true,
	RelOriginatesIn: true,
}

// IsCausalType reports whether a relationship type participates in causal
// layering.
func IsCausalType(relType string) bool { return causalTypes[relType] }

// Relationship is a directed, typed edge between two entities.
//
// There is no uniqueness constraint: duplicate typed edges between the same
// pair are legal and rendered separately. Relationships referencing a
// nonexistent entity are tolerated and silently dropped by the engines.
type Relationship struct {
	ID           string         `json:"id" bson:"id" toml:"id"`
	FromEntityID string         `json:"from_entity_id" bson:"from_entity_id" toml:"from"`
	ToEntityID   string         `json:"to_entity_id" bson:"to_entity_id" toml:"to"`
	Type         string         `json:"relationship_type" bson:"relationship_type" toml:"type"`
	Label        string         `json:"label,omitempty" bson:"label,omitempty" toml:"label"`
	Metadata     map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty" toml:"metadata"`
}

// IsCausal reports whether the relationship's type is in the causal set.
func (r Relationship) IsCausal() bool { return IsCausalType(r.Type) }

// Touches reports whether the relationship has id as either endpoint.
func (r Relationship) Touches(id string) bool {
	return r.FromEntityID == id || r.ToEntityID == id
}

// TimelineVariant is a partial override of an entity's displayed fields for
// one timeline. Absent fields (empty name/description, nil properties) mean
// "inherit the canonical value". At most one record exists per
// (entity, timeline) pair; variants never alter identity, type, or position.
type TimelineVariant struct {
	EntityID    string     `json:"entity_id" bson:"entity_id" toml:"entity"`
	TimelineID  string     `json:"timeline_id" bson:"timeline_id" toml:"timeline"`
	Name        string     `json:"variant_name,omitempty" bson:"variant_name,omitempty" toml:"name"`
	Description string     `json:"variant_description,omitempty" bson:"variant_description,omitempty" toml:"description"`
	Properties  Properties `json:"variant_properties,omitempty" bson:"variant_properties,omitempty" toml:"properties"`
}
