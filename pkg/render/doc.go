// Package render holds the output renderers for computed story layouts.
//
// The layout engines in pkg/layout produce plain positioned structures;
// the subpackages here turn them into shareable artifacts:
//
//   - [nodelink]: the causal graph view as Graphviz DOT and SVG
//   - [swimlane]: the timeline swimlane chart as SVG
//
// Renderers are presentation only. They never reorder, reposition, or
// otherwise correct a layout. A temporal conflict, for example, is drawn
// as flagged, not resolved.
package render
