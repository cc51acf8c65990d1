package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/hessam/chronos/pkg/errors"
	"github.com/hessam/chronos/pkg/layout/graphview"
)

// Options controls node-link diagram generation.
type Options struct {
	// Detailed includes zone, layer, and entity properties in node labels.
	Detailed bool
}

const (
	contextFillColor  = "#f1f5f9"
	contextFontColor  = "#475569"
	highlightPenwidth = "2.4"
	dimmedColor       = "#cbd5e1"
)

// ToDOT converts a graph layout into Graphviz DOT source.
//
// Causal nodes are grouped per layer into same-rank subgraphs so the
// Graphviz ranking matches the engine's layer assignment. Context nodes
// live in a dashed cluster to the side.
func ToDOT(l graphview.Layout, opts Options) string {
	var b strings.Builder

	b.WriteString("digraph story {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  bgcolor=\"transparent\";\n")
	b.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=11];\n")
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=9, color=\"#64748b\"];\n\n")

	causalByLayer := map[int][]graphview.Node{}
	var contextNodes []graphview.Node
	for _, n := range l.Nodes {
		if n.Zone == graphview.ZoneCausal {
			causalByLayer[n.Layer] = append(causalByLayer[n.Layer], n)
		} else {
			contextNodes = append(contextNodes, n)
		}
	}

	layers := make([]int, 0, len(causalByLayer))
	for layer := range causalByLayer {
		layers = append(layers, layer)
	}
	sort.Ints(layers)

	for _, layer := range layers {
		fmt.Fprintf(&b, "  { rank=same;\n")
		for _, n := range causalByLayer[layer] {
			writeNode(&b, n, opts, "    ")
		}
		b.WriteString("  }\n")
	}

	if len(contextNodes) > 0 {
		b.WriteString("\n  subgraph cluster_context {\n")
		b.WriteString("    label=\"context\";\n")
		b.WriteString("    style=dashed;\n")
		b.WriteString("    color=\"#94a3b8\";\n")
		b.WriteString("    fontcolor=\"#94a3b8\";\n")
		for _, n := range contextNodes {
			writeNode(&b, n, opts, "    ")
		}
		b.WriteString("  }\n")
	}

	b.WriteString("\n")
	for _, e := range l.Edges {
		writeEdge(&b, e)
	}

	b.WriteString("}\n")
	return b.String()
}

func writeNode(b *strings.Builder, n graphview.Node, opts Options, indent string) {
	attrs := map[string]string{
		"label":     nodeLabel(n, opts),
		"fillcolor": n.Color,
		"fontcolor": "#ffffff",
	}
	if n.Color == "" {
		attrs["fillcolor"] = contextFillColor
		attrs["fontcolor"] = contextFontColor
	}
	if n.Zone == graphview.ZoneContext {
		attrs["fillcolor"] = contextFillColor
		attrs["fontcolor"] = contextFontColor
		attrs["color"] = dimmedColor
	}
	if n.Highlighted {
		attrs["penwidth"] = highlightPenwidth
		attrs["color"] = "#0f172a"
	}
	fmt.Fprintf(b, "%s%s [%s];\n", indent, quoteID(n.ID), fmtAttrs(attrs))
}

func writeEdge(b *strings.Builder, e graphview.Edge) {
	attrs := map[string]string{
		"label": e.Relationship.Type,
	}
	if !e.Causal {
		attrs["style"] = "dashed"
		attrs["color"] = dimmedColor
		attrs["fontcolor"] = dimmedColor
	}
	if e.Highlighted {
		attrs["penwidth"] = highlightPenwidth
		attrs["color"] = "#0f172a"
	}
	fmt.Fprintf(b, "  %s -> %s [%s];\n", quoteID(e.SourceID), quoteID(e.TargetID), fmtAttrs(attrs))
}

func nodeLabel(n graphview.Node, opts Options) string {
	label := n.Entity.Name
	if label == "" {
		label = n.ID
	}
	if !opts.Detailed {
		return label
	}

	var parts []string
	parts = append(parts, label)
	parts = append(parts, fmt.Sprintf("%s | %s", n.Entity.Type, n.Zone))
	if n.Zone == graphview.ZoneCausal {
		parts = append(parts, fmt.Sprintf("layer %d", n.Layer))
	}
	if len(n.Entity.Properties) > 0 {
		keys := make([]string, 0, len(n.Entity.Properties))
		for k := range n.Entity.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %v", k, n.Entity.Properties[k]))
		}
	}
	return strings.Join(parts, "\\n")
}

// fmtAttrs renders a DOT attribute list in sorted key order.
func fmtAttrs(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%q", k, attrs[k]))
	}
	return strings.Join(pairs, ", ")
}

func quoteID(id string) string {
	return fmt.Sprintf("%q", id)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="[^"]*"`)
)

// RenderSVG renders DOT source to SVG bytes using the embedded Graphviz
// engine. The output's svg tag is normalized so the document scales to
// its container instead of a fixed pixel size.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "initializing graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parsing DOT source")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rendering SVG")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// normalizeViewBox strips fixed width/height from the root svg tag,
// keeping only the viewBox so browsers scale the diagram responsively.
func normalizeViewBox(svg []byte) []byte {
	loc := svgTagRe.FindIndex(svg)
	if loc == nil {
		return svg
	}
	tag := svg[loc[0]:loc[1]]
	vb := viewBoxRe.Find(tag)
	if vb == nil {
		return svg
	}
	replacement := append([]byte(`<svg xmlns="http://www.w3.org/2000/svg" `), vb...)
	replacement = append(replacement, '>')

	out := make([]byte, 0, len(svg))
	out = append(out, svg[:loc[0]]...)
	out = append(out, replacement...)
	out = append(out, svg[loc[1]:]...)
	return out
}
