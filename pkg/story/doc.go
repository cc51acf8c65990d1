// Package story defines the data model for story graphs.
//
// A story is a flat collection of typed entities (characters, events,
// timelines, locations, themes, arcs, notes, chapters) connected by typed
// directed relationships. Entities may additionally carry per-timeline
// variant records that override displayed fields when a timeline is focused.
//
// # Core Types
//
//   - [Entity]: a story element with a stable identity and an open-ended
//     properties bag
//   - [Relationship]: a directed, typed edge between two entities
//   - [TimelineVariant]: a partial per-timeline override of an entity's
//     displayed fields
//   - [Snapshot]: the flat collections handed to the layout engines
//
// # Causal Relationship Types
//
// A fixed subset of relationship types is designated causal and drives DAG
// layering in the graph view:
//
//	causes, branches_into, creates, inspires, makes, parent_of, originates_in
//
// All other types are associative: they contribute to connectivity and
// timeline coloring but never to layering. Use [IsCausalType] to test.
//
// # Variant Resolution
//
// [Resolve] merges a canonical entity with its variant for a focused
// timeline. Resolution is field-level fallback, not a deep merge: each of
// name, description, and properties is taken from the variant when the
// variant supplies it, otherwise from the canonical record.
//
//	display := story.Resolve(hero, "tl-mirror", snap.Variants)
//
// # Purity
//
// Nothing in this package performs I/O or mutates its inputs. Snapshots are
// read-only views supplied by the hosting application; all derived layout
// data lives in pkg/layout.
package story
