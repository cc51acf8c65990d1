package graphview

import "github.com/hessam/chronos/pkg/story"

// maxHighlightDepth caps the causal-distance search. Nodes farther than
// this from the selection are not highlighted.
const maxHighlightDepth = 4

// causalDistances runs a breadth-first search from the selected entity over
// the undirected graph of all visible relationship types (associative edges
// included) and records the shortest distance to each reachable entity,
// capped at maxHighlightDepth. Distances affect highlighting only, never
// position.
//
// An empty or non-visible selection yields an empty map (nothing
// highlighted).
func causalDistances(selectedID string, entities []story.Entity, rels []story.Relationship) map[string]int {
	distances := map[string]int{}
	if selectedID == "" {
		return distances
	}
	visible := false
	for _, e := range entities {
		if e.ID == selectedID {
			visible = true
			break
		}
	}
	if !visible {
		return distances
	}

	adjacent := make(map[string][]string)
	for _, r := range rels {
		adjacent[r.FromEntityID] = append(adjacent[r.FromEntityID], r.ToEntityID)
		adjacent[r.ToEntityID] = append(adjacent[r.ToEntityID], r.FromEntityID)
	}

	distances[selectedID] = 0
	queue := []string{selectedID}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		depth := distances[curr]
		if depth >= maxHighlightDepth {
			continue
		}
		for _, next := range adjacent[curr] {
			if _, seen := distances[next]; seen {
				continue
			}
			distances[next] = depth + 1
			queue = append(queue, next)
		}
	}
	return distances
}
