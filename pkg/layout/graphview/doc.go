// Package graphview computes the causal dependency layout of a story graph.
//
// The engine partitions visible entities into two zones: the causal zone
// (entities touching at least one visible causal-typed relationship) and
// the context zone (everything else). Causal-zone entities are layered into
// a left-to-right DAG by worklist relayering; context-zone entities are
// packed into compact per-type grids in a band on the left.
//
// A selected entity additionally seeds a breadth-first causal-distance
// search (over all visible relationship types, undirected, capped at depth
// four) that marks nearby nodes and edges as highlighted without moving
// anything.
//
// [Compute] is pure and deterministic: it iterates collections in snapshot
// order, never in map order, so identical inputs yield byte-identical
// layouts.
package graphview
