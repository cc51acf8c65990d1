package swimlane

import (
	"fmt"
	"strings"

	"github.com/hessam/chronos/pkg/layout/swimlane"
)

// Options controls SVG generation.
type Options struct {
	// Background is the canvas fill. Empty means transparent.
	Background string
}

const (
	fontFamily      = "Helvetica, Arial, sans-serif"
	laneLabelSize   = 12
	eventLabelSize  = 11
	laneBandOpacity = "0.08"
	laneLineColor   = "#e2e8f0"
	eventFill       = "#ffffff"
	eventTextColor  = "#0f172a"
	conflictStroke  = "#dc2626"
	arrowColor      = "#64748b"
	sharedColor     = "#94a3b8"
)

// Render produces a complete SVG document for a swimlane layout.
func Render(l swimlane.Layout, opts Options) []byte {
	var svg strings.Builder

	fmt.Fprintf(&svg, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprintf(&svg, `<svg width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" xmlns="http://www.w3.org/2000/svg">`+"\n",
		l.Width, l.Height, l.Width, l.Height)

	if opts.Background != "" {
		fmt.Fprintf(&svg, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", opts.Background)
	}

	svg.WriteString(`<defs>` + "\n")
	svg.WriteString(`<marker id="arrowhead" markerWidth="8" markerHeight="6" refX="8" refY="3" orient="auto">` +
		`<polygon points="0 0, 8 3, 0 6" fill="` + arrowColor + `"/></marker>` + "\n")
	svg.WriteString(`</defs>` + "\n")

	for _, lane := range l.Lanes {
		writeLane(&svg, lane, l.Width)
	}
	for _, a := range l.Arrows {
		writeArrow(&svg, a)
	}
	for _, ev := range l.Events {
		writeEvent(&svg, ev)
	}

	svg.WriteString("</svg>\n")
	return []byte(svg.String())
}

func writeLane(svg *strings.Builder, lane swimlane.Lane, width float64) {
	fmt.Fprintf(svg, `<g class="lane" data-lane-id="%s">`+"\n", escapeXML(lane.ID))
	fmt.Fprintf(svg, `<rect x="0" y="%.0f" width="%.0f" height="%.0f" fill="%s" opacity="%s"/>`+"\n",
		lane.Y, width, lane.Height, lane.Color, laneBandOpacity)
	fmt.Fprintf(svg, `<line x1="0" y1="%.0f" x2="%.0f" y2="%.0f" stroke="%s" stroke-width="1"/>`+"\n",
		lane.Y+lane.Height, width, lane.Y+lane.Height, laneLineColor)

	label := lane.Label
	switch {
	case lane.Collapsed:
		label += " (empty)"
	case lane.EventCount > 0:
		label = fmt.Sprintf("%s (%d)", label, lane.EventCount)
	}
	fmt.Fprintf(svg, `<text x="12" y="%.0f" font-family="%s" font-size="%d" font-weight="bold" fill="%s">%s</text>`+"\n",
		lane.Y+lane.Height/2+4, fontFamily, laneLabelSize, lane.Color, escapeXML(label))
	svg.WriteString("</g>\n")
}

func writeEvent(svg *strings.Builder, ev swimlane.EventNode) {
	stroke := ev.Entity.Color
	strokeWidth := "1.5"
	if stroke == "" {
		stroke = arrowColor
	}
	if ev.HasConflict {
		stroke = conflictStroke
		strokeWidth = "2.5"
	}

	fmt.Fprintf(svg, `<g class="event" data-entity-id="%s">`+"\n", escapeXML(ev.Entity.ID))
	fmt.Fprintf(svg, `<rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" rx="6" fill="%s" stroke="%s" stroke-width="%s"/>`+"\n",
		ev.X, ev.Y, ev.Width, ev.Height, eventFill, stroke, strokeWidth)
	fmt.Fprintf(svg, `<text x="%.0f" y="%.0f" text-anchor="middle" font-family="%s" font-size="%d" fill="%s">%s</text>`+"\n",
		ev.X+ev.Width/2, ev.Y+ev.Height/2+4, fontFamily, eventLabelSize, eventTextColor,
		escapeXML(truncate(ev.Entity.DisplayName(), int(ev.Width/7))))
	if ev.HasConflict {
		fmt.Fprintf(svg, `<title>%s</title>`+"\n", escapeXML(ev.ConflictReason))
	}
	svg.WriteString("</g>\n")
}

func writeArrow(svg *strings.Builder, a swimlane.Arrow) {
	switch a.Type {
	case swimlane.ArrowShared:
		fmt.Fprintf(svg, `<line x1="%.0f" y1="%.0f" x2="%.0f" y2="%.0f" stroke="%s" stroke-width="1" stroke-dasharray="4 3"/>`+"\n",
			a.X1, a.Y1, a.X2, a.Y2, sharedColor)
	case swimlane.ArrowCausal:
		fmt.Fprintf(svg, `<line x1="%.0f" y1="%.0f" x2="%.0f" y2="%.0f" stroke="%s" stroke-width="1.5" marker-end="url(#arrowhead)"/>`+"\n",
			a.X1, a.Y1, a.X2, a.Y2, arrowColor)
	default:
		fmt.Fprintf(svg, `<line x1="%.0f" y1="%.0f" x2="%.0f" y2="%.0f" stroke="%s" stroke-width="1" stroke-dasharray="6 3" marker-end="url(#arrowhead)"/>`+"\n",
			a.X1, a.Y1, a.X2, a.Y2, arrowColor)
	}
}

// truncate shortens a label to at most max runes, appending an ellipsis.
// Counting runes rather than bytes keeps multi-byte names valid UTF-8.
func truncate(s string, max int) string {
	if max < 4 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func escapeXML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
