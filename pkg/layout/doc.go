// Package layout provides the shared input plumbing for the story layout
// engines.
//
// Both engines, the causal graph view (pkg/layout/graphview) and the
// timeline swimlane view (pkg/layout/swimlane), consume the same
// [Inputs]: a story snapshot plus selection, focus, and filter state. This
// package derives the pieces the engines share:
//
//   - [View]: the visible entity/relationship sets after filters, the
//     timeline palette colors, and the entity → timeline association map
//   - [Inputs.Fingerprint]: a structural hash for memoization and cache keys
//   - [Memo]: a cache-and-compare wrapper so reactive hosts can recompute
//     on every input change without paying for identical inputs twice
//
// Every computation here is a pure function of its inputs: recomputing with
// identical inputs yields identical output, and nothing accumulates state
// between runs. Memoization is an optimization only; dropping it changes
// performance, never results.
package layout
