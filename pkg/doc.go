// Package pkg provides the core libraries for Chronos story layout.
//
// # Overview
//
// Chronos turns a story world (entities, relationships, and per-timeline
// variants) into two visualizations: a causally layered graph view and a
// timeline swimlane view. The pkg directory is organized into five areas:
//
//  1. [story] - Domain types (entities, relationships, variants, snapshots)
//  2. [layout] - The two layout engines (graphview, swimlane) and memoization
//  3. [render] - Presentation-only renderers (Graphviz node-link, SVG chart)
//  4. [store] / [cache] / [manifest] - Snapshot storage, caching, TOML import
//  5. [pipeline] - Orchestration (load → layout → render)
//
// # Architecture
//
// The typical data flow through Chronos:
//
//	TOML manifest / JSON snapshot / MongoDB project
//	         ↓
//	    [store] package (load a story snapshot)
//	         ↓
//	    [layout/graphview] or [layout/swimlane] (compute positions)
//	         ↓
//	    [render] package (SVG/DOT/JSON output)
//
// Layout engines are pure functions of their declared inputs: identical
// snapshots and options always produce identical output, which is what makes
// the content-addressed [cache] sound.
package pkg
