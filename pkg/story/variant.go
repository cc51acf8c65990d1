package story

// Resolve merges a canonical entity with its variant for the given timeline
// and returns the display-ready copy.
//
// With an empty timelineID (no focus), or when no variant matches
// (entity.ID, timelineID), the canonical entity is returned unchanged.
// Otherwise each displayed field falls back individually: a variant name
// replaces the canonical name, a variant description the canonical
// description, and a non-nil variant properties bag replaces the canonical
// bag wholesale. Properties are substituted, never deep-merged.
//
// Resolve is total and pure: it never fails and never mutates its inputs.
func Resolve(entity Entity, timelineID string, variants []TimelineVariant) Entity {
	if timelineID == "" {
		return entity
	}
	v, ok := FindVariant(variants, entity.ID, timelineID)
	if !ok {
		return entity
	}

	resolved := entity
	if v.Name != "" {
		resolved.Name = v.Name
	}
	if v.Description != "" {
		resolved.Description = v.Description
	}
	if v.Properties != nil {
		resolved.Properties = v.Properties.Clone()
	}
	return resolved
}

// FindVariant returns the variant for (entityID, timelineID) and true, or a
// zero variant and false. Upstream guarantees at most one record per pair;
// if duplicates slip through, the first in slice order wins.
func FindVariant(variants []TimelineVariant, entityID, timelineID string) (TimelineVariant, bool) {
	for _, v := range variants {
		if v.EntityID == entityID && v.TimelineID == timelineID {
			return v, true
		}
	}
	return TimelineVariant{}, false
}

// HasVariant reports whether a variant record exists for the pair. This is
// one half of the timeline-association rule used by both layout engines.
func HasVariant(variants []TimelineVariant, entityID, timelineID string) bool {
	_, ok := FindVariant(variants, entityID, timelineID)
	return ok
}
