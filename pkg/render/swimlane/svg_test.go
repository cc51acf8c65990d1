package swimlane

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/hessam/chronos/pkg/layout/swimlane"
	"github.com/hessam/chronos/pkg/story"
)

func sampleLayout() swimlane.Layout {
	return swimlane.Layout{
		Lanes: []swimlane.Lane{
			{ID: swimlane.CanonicalLaneID, Label: "Canonical", Color: "#94a3b8", Y: 60, Height: 150, EventCount: 1},
			{ID: "tl-dark", Label: "Dark Timeline", Color: "#f97316", Y: 210, Height: 150, EventCount: 1},
		},
		Events: []swimlane.EventNode{
			{
				Entity: story.Entity{ID: "spark", Type: story.TypeEvent, Name: "The Spark"},
				LaneID: swimlane.CanonicalLaneID,
				X:      180, Y: 99, Width: 180, Height: 72,
			},
			{
				Entity: story.Entity{ID: "blaze", Type: story.TypeEvent, Name: "The Blaze"},
				LaneID: "tl-dark",
				X:      400, Y: 249, Width: 180, Height: 72,
			},
		},
		Arrows: []swimlane.Arrow{
			{FromID: "spark", ToID: "blaze", X1: 360, Y1: 135, X2: 400, Y2: 285, Type: swimlane.ArrowCausal},
		},
		Width:  700,
		Height: 420,
		Summary: swimlane.Summary{
			LaneCount:  2,
			EventCount: 2,
		},
	}
}

func TestRenderDocument(t *testing.T) {
	svg := string(Render(sampleLayout(), Options{}))

	for _, want := range []string{
		`<svg width="700" height="420" viewBox="0 0 700 420"`,
		`data-lane-id="canonical"`,
		`data-lane-id="tl-dark"`,
		`data-entity-id="spark"`,
		`>The Spark</text>`,
		`marker-end="url(#arrowhead)"`,
		"</svg>",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestRenderBackground(t *testing.T) {
	svg := string(Render(sampleLayout(), Options{Background: "#ffffff"}))
	if !strings.Contains(svg, `<rect width="100%" height="100%" fill="#ffffff"/>`) {
		t.Error("background rect not emitted")
	}

	plain := string(Render(sampleLayout(), Options{}))
	if strings.Contains(plain, `width="100%"`) {
		t.Error("transparent render should omit the background rect")
	}
}

func TestRenderConflictMarking(t *testing.T) {
	l := sampleLayout()
	l.Events[1].HasConflict = true
	l.Events[1].ConflictReason = `The Blaze appears before its cause "The Spark"`

	svg := string(Render(l, Options{}))

	if !strings.Contains(svg, `stroke="#dc2626"`) {
		t.Error("conflicted event should carry the warning stroke")
	}
	if !strings.Contains(svg, `<title>The Blaze appears before its cause &quot;The Spark&quot;</title>`) {
		t.Error("conflict reason should be escaped into a tooltip")
	}
}

func TestRenderSharedConnectorDashed(t *testing.T) {
	l := sampleLayout()
	l.Arrows = append(l.Arrows, swimlane.Arrow{
		FromID: "blaze", ToID: "blaze",
		X1: 490, Y1: 285, X2: 490, Y2: 135,
		Type: swimlane.ArrowShared,
	})

	svg := string(Render(l, Options{}))

	dashed := false
	for _, line := range strings.Split(svg, "\n") {
		if strings.Contains(line, `stroke-dasharray="4 3"`) && !strings.Contains(line, "marker-end") {
			dashed = true
		}
	}
	if !dashed {
		t.Error("shared connector should be dashed without an arrowhead")
	}
}

func TestRenderLaneLabels(t *testing.T) {
	l := sampleLayout()
	l.Lanes[0].EventCount = 3

	svg := string(Render(l, Options{}))
	if !strings.Contains(svg, ">Canonical (3)</text>") {
		t.Error("occupied lane label should include the event count")
	}
}

func TestRenderCollapsedLaneLabel(t *testing.T) {
	l := sampleLayout()
	l.Lanes[1].Collapsed = true
	l.Lanes[1].EventCount = 0

	svg := string(Render(l, Options{}))
	if !strings.Contains(svg, ">Dark Timeline (empty)</text>") {
		t.Error("collapsed lane label should be marked empty")
	}
}

func TestEscapeXML(t *testing.T) {
	got := escapeXML(`a<b>&"c"'d'`)
	want := "a&lt;b&gt;&amp;&quot;c&quot;&apos;d&apos;"
	if got != want {
		t.Errorf("escapeXML = %q, want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 20); got != "short" {
		t.Errorf("short label should be untouched, got %q", got)
	}
	if got := truncate("a very long event name indeed", 10); got != "a very lo…" {
		t.Errorf("truncate = %q", got)
	}
}

func TestTruncateMultiByteNames(t *testing.T) {
	got := truncate("Die Zerstörung der alten Welt", 12)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
	if got != "Die Zerstör…" {
		t.Errorf("truncate = %q", got)
	}

	// Exactly at the limit stays whole.
	if got := truncate("Révélation", 10); got != "Révélation" {
		t.Errorf("truncate = %q, want untouched", got)
	}
}
