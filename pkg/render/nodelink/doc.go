// Package nodelink renders the causal graph view as a node-link diagram.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz.
// Causal-zone entities appear as rounded boxes ranked left-to-right by
// layer; context-zone entities are grouped into a cluster on the side.
// Associative edges render dashed, causal edges solid, and the selection
// highlight thickens node and edge strokes.
//
// # Usage
//
// Convert a computed layout to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(out, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include zone, layer, and the
//     entity's properties bag
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// The generated DOT uses left-to-right layout (rankdir=LR) so Graphviz's
// ranks mirror the engine's causal layers.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
