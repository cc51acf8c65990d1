package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hessam/chronos/pkg/layout/graphview"
	"github.com/hessam/chronos/pkg/layout/swimlane"
	"github.com/hessam/chronos/pkg/pipeline"
	"github.com/hessam/chronos/pkg/store"
	"github.com/hessam/chronos/pkg/story"
)

const sampleManifest = `
name = "aurora"

[[entities]]
id   = "tl-dark"
type = "timeline"
name = "Dark Timeline"

[[entities]]
id   = "spark"
type = "event"
name = "The Spark"

[[entities]]
id   = "blaze"
type = "event"
name = "The Blaze"

[[relationships]]
from = "spark"
to   = "blaze"
type = "causes"

[[relationships]]
from = "blaze"
to   = "tl-dark"
type = "occurs_in"
`

// runCommand executes the root command with the given args.
func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

// writeManifest writes the sample manifest into a temp dir and returns its path.
func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aurora.toml")
	if err := os.WriteFile(path, []byte(sampleManifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestImportCommand(t *testing.T) {
	manifestPath := writeManifest(t)

	if err := runCommand(t, "import", manifestPath); err != nil {
		t.Fatalf("import: %v", err)
	}

	snapPath := strings.TrimSuffix(manifestPath, ".toml") + ".json"
	snap, err := store.ReadSnapshotFile(snapPath)
	if err != nil {
		t.Fatalf("read imported snapshot: %v", err)
	}
	if len(snap.Entities) != 3 {
		t.Errorf("entities = %d, want 3", len(snap.Entities))
	}
	if len(snap.Relationships) != 2 {
		t.Errorf("relationships = %d, want 2", len(snap.Relationships))
	}
}

func TestImportIntoStore(t *testing.T) {
	manifestPath := writeManifest(t)
	storeDir := t.TempDir()

	if err := runCommand(t, "import", manifestPath, "--store", storeDir, "--project", "aurora"); err != nil {
		t.Fatalf("import --store: %v", err)
	}

	if _, err := os.Stat(filepath.Join(storeDir, "aurora.json")); err != nil {
		t.Errorf("store should contain aurora.json: %v", err)
	}
}

func importedSnapshot(t *testing.T) string {
	t.Helper()
	manifestPath := writeManifest(t)
	if err := runCommand(t, "import", manifestPath); err != nil {
		t.Fatalf("import: %v", err)
	}
	return strings.TrimSuffix(manifestPath, ".toml") + ".json"
}

func TestLayoutCommand(t *testing.T) {
	snapPath := importedSnapshot(t)

	if err := runCommand(t, "layout", snapPath, "--no-cache"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	outPath := strings.TrimSuffix(snapPath, ".json") + ".layout.json"
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read layout output: %v", err)
	}

	var l graphview.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if len(l.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2 (timeline excluded)", len(l.Nodes))
	}
	if l.Summary.CausalCount != 2 {
		t.Errorf("causal count = %d, want 2", l.Summary.CausalCount)
	}
}

func TestTimelineCommand(t *testing.T) {
	snapPath := importedSnapshot(t)

	if err := runCommand(t, "timeline", snapPath, "--no-cache"); err != nil {
		t.Fatalf("timeline: %v", err)
	}

	outPath := strings.TrimSuffix(snapPath, ".json") + ".timeline.json"
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read timeline output: %v", err)
	}

	var l swimlane.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		t.Fatalf("decode timeline layout: %v", err)
	}
	if l.Summary.LaneCount != 2 {
		t.Errorf("lanes = %d, want 2", l.Summary.LaneCount)
	}
}

func TestRenderCommandDOT(t *testing.T) {
	snapPath := importedSnapshot(t)

	if err := runCommand(t, "render", snapPath, "--formats", "dot,json", "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}

	base := strings.TrimSuffix(snapPath, ".json")
	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatalf("read dot output: %v", err)
	}
	if !strings.Contains(string(dot), "digraph story") {
		t.Error("dot output should contain the graph header")
	}
	if _, err := os.Stat(base + ".json"); err != nil {
		t.Errorf("json output missing: %v", err)
	}
}

func TestLayoutCommandMissingFile(t *testing.T) {
	if err := runCommand(t, "layout", filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("missing snapshot should fail")
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"layout", "timeline", "render", "import", "view", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing %q subcommand", name)
		}
	}
}

func TestLoadServeConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chronos.toml")
	content := "addr = \":9090\"\nstore = \"/var/lib/chronos\"\nredis = \"localhost:6379\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadServeConfig(path)
	if err != nil {
		t.Fatalf("loadServeConfig: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.StoreDir != "/var/lib/chronos" || cfg.Redis != "localhost:6379" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadServeConfigMissing(t *testing.T) {
	if _, err := loadServeConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing config file should fail")
	}
}

func TestViewFlagsApply(t *testing.T) {
	f := viewFlags{
		selectedID: "spark",
		focusID:    "tl-dark",
		search:     "bla",
		hideTypes:  []string{"note", " theme"},
		relTypes:   []string{"causes"},
	}

	var p pipeline.Options
	f.apply(&p)

	if p.SelectedID != "spark" || p.FocusTimelineID != "tl-dark" {
		t.Error("selection flags not applied")
	}
	if p.Filters.Search != "bla" {
		t.Error("search flag not applied")
	}
	if len(p.Filters.HiddenTypes) != 2 || p.Filters.HiddenTypes[1] != story.TypeTheme {
		t.Errorf("hidden types = %v", p.Filters.HiddenTypes)
	}
	if len(p.Filters.RelationshipTypes) != 1 {
		t.Errorf("relationship types = %v", p.Filters.RelationshipTypes)
	}
}
