// Package manifest reads hand-written TOML story manifests.
//
// A manifest is the writer-friendly authoring format: entities (timelines
// included), relationships, and per-timeline variants in one file. The
// import command converts a manifest to a snapshot and hands it to a store;
// the layout engines never see manifests.
//
//	name = "The Sunken City"
//
//	[[entities]]
//	id   = "tl-prime"
//	type = "timeline"
//	name = "Prime"
//
//	[[entities]]
//	id   = "betrayal"
//	type = "event"
//	name = "The Betrayal"
//
//	[[relationships]]
//	from = "betrayal"
//	to   = "exile"
//	type = "causes"
//
//	[[variants]]
//	entity   = "betrayal"
//	timeline = "tl-prime"
//	name     = "The Quiet Betrayal"
package manifest

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/hessam/chronos/pkg/errors"
	"github.com/hessam/chronos/pkg/story"
)

// Manifest is the decoded TOML document.
type Manifest struct {
	Name          string                  `toml:"name"`
	Entities      []story.Entity          `toml:"entities"`
	Relationships []story.Relationship    `toml:"relationships"`
	Variants      []story.TimelineVariant `toml:"variants"`
}

// Load reads and validates a manifest file.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, errors.New(errors.ErrCodeFileNotFound, "manifest %s not found", path)
		}
		return Manifest{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates manifest bytes.
func Parse(data []byte) (Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return Manifest{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode manifest")
	}
	if err := m.validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func (m Manifest) validate() error {
	seen := make(map[string]bool, len(m.Entities))
	for i, e := range m.Entities {
		if e.ID == "" {
			return errors.New(errors.ErrCodeInvalidManifest, "entity %d has no id", i)
		}
		if seen[e.ID] {
			return errors.New(errors.ErrCodeInvalidManifest, "duplicate entity id %q", e.ID)
		}
		seen[e.ID] = true
		if !story.ValidEntityType(e.Type) {
			return errors.New(errors.ErrCodeInvalidEntityType, "entity %q has unknown type %q", e.ID, e.Type)
		}
	}
	for i, r := range m.Relationships {
		if r.FromEntityID == "" || r.ToEntityID == "" {
			return errors.New(errors.ErrCodeInvalidManifest, "relationship %d is missing an endpoint", i)
		}
		if r.Type == "" {
			return errors.New(errors.ErrCodeInvalidManifest, "relationship %d has no type", i)
		}
	}
	for i, v := range m.Variants {
		if v.EntityID == "" || v.TimelineID == "" {
			return errors.New(errors.ErrCodeInvalidManifest, "variant %d is missing entity or timeline", i)
		}
	}
	return nil
}

// Snapshot converts the manifest into a story snapshot, assigning fresh
// IDs to relationships that don't carry one. Dangling endpoint references
// are left in place: the layout engines tolerate and drop them.
func (m Manifest) Snapshot() story.Snapshot {
	snap := story.Snapshot{
		Entities: append([]story.Entity(nil), m.Entities...),
		Variants: append([]story.TimelineVariant(nil), m.Variants...),
	}
	for _, r := range m.Relationships {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		snap.Relationships = append(snap.Relationships, r)
	}
	return snap
}
