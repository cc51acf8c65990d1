// Package swimlane computes the multi-timeline swimlane layout of a story.
//
// Events are placed into one horizontal lane per timeline plus an
// always-present canonical lane for events with no timeline association.
// Lane and event sizes adapt to the timeline count, events flow
// left-to-right in arrival order, and causal relationships between placed
// events become directed arrows. When an arrow points backwards across
// lanes (the effect drawn at or before its cause), the target event is
// flagged with an advisory temporal conflict; the engine never reflows to
// resolve one.
//
// Outside focus mode an event associated with several timelines appears
// once per associated lane, with the duplicate occurrences joined by dashed
// connectors. The canonical entity stays single-source-of-truth: each
// occurrence carries the same resolved entity plus its own lane tag and
// coordinates.
//
// Like the graph view, [Compute] is pure and deterministic.
package swimlane
