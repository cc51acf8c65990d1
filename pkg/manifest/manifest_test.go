package manifest

import (
	"testing"

	"github.com/hessam/chronos/pkg/errors"
	"github.com/hessam/chronos/pkg/story"
)

const sampleManifest = `
name = "The Sunken City"

[[entities]]
id   = "tl-prime"
type = "timeline"
name = "Prime"

[[entities]]
id   = "betrayal"
type = "event"
name = "The Betrayal"

[entities.properties]
emotion_level = 8

[[entities]]
id   = "exile"
type = "event"
name = "The Exile"

[[relationships]]
from = "betrayal"
to   = "exile"
type = "causes"

[[variants]]
entity   = "betrayal"
timeline = "tl-prime"
name     = "The Quiet Betrayal"
`

func TestParse_Sample(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if m.Name != "The Sunken City" {
		t.Errorf("Name = %q", m.Name)
	}
	if len(m.Entities) != 3 || len(m.Relationships) != 1 || len(m.Variants) != 1 {
		t.Fatalf("counts = %d/%d/%d", len(m.Entities), len(m.Relationships), len(m.Variants))
	}
	if m.Entities[1].Properties.Int("emotion_level", 0) != 8 {
		t.Errorf("properties = %v", m.Entities[1].Properties)
	}
}

func TestSnapshot_AssignsRelationshipIDs(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	snap := m.Snapshot()

	if len(snap.Relationships) != 1 {
		t.Fatalf("relationships = %d", len(snap.Relationships))
	}
	if snap.Relationships[0].ID == "" {
		t.Error("relationship without id should receive a generated one")
	}
	if snap.Relationships[0].Type != story.RelCauses {
		t.Errorf("type = %q", snap.Relationships[0].Type)
	}
}

func TestParse_RejectsUnknownEntityType(t *testing.T) {
	_, err := Parse([]byte(`
[[entities]]
id   = "x"
type = "spaceship"
`))
	if !errors.Is(err, errors.ErrCodeInvalidEntityType) {
		t.Errorf("err = %v, want INVALID_ENTITY_TYPE", err)
	}
}

func TestParse_RejectsDuplicateIDs(t *testing.T) {
	_, err := Parse([]byte(`
[[entities]]
id   = "x"
type = "event"

[[entities]]
id   = "x"
type = "event"
`))
	if !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("err = %v, want INVALID_MANIFEST", err)
	}
}

func TestParse_RejectsBareRelationship(t *testing.T) {
	_, err := Parse([]byte(`
[[relationships]]
from = "a"
`))
	if !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("err = %v, want INVALID_MANIFEST", err)
	}
}

func TestParse_MalformedTOML(t *testing.T) {
	_, err := Parse([]byte(`[[entities]`))
	if !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("err = %v, want INVALID_MANIFEST", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/story.toml")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}
