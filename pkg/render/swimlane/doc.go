// Package swimlane renders timeline-view layouts as standalone SVG
// documents.
//
// The renderer is a straight projection of the computed layout: lanes
// become tinted bands with labels, event occurrences become rounded
// rectangles, and arrows become lines or elbow paths. No positioning
// decisions happen here.
//
// Shared-event connectors render dashed; conflict-flagged occurrences get
// a warning border and a tooltip carrying the conflict reason.
package swimlane
