package graphview

import "github.com/hessam/chronos/pkg/story"

// assignLayers computes DAG layers for causal-zone entities.
//
// The adjacency is restricted to causal-typed relationships between two
// causal-zone entities. Roots (zero causal in-degree) start at layer 0; a
// breadth-first worklist then raises every forward neighbor to
// max(current, layer+1), re-enqueuing a node only when its layer strictly
// increased. Causal entities the worklist never reaches (for example nodes
// only inside a rootless cycle) stay at layer 0.
//
// A causal cycle would otherwise keep raising layers forever, so each node
// may be re-enqueued at most |causal nodes| times. That bound never fires
// on an acyclic subgraph (a layer can only increase along a simple path,
// which is shorter than the node count); when it does fire, the affected
// nodes freeze at their last-known layer instead of looping.
//
// Context-zone entities are absent from the result; callers treat their
// layer as 0.
func assignLayers(entities []story.Entity, rels []story.Relationship, zones map[string]Zone) map[string]int {
	var causal []string
	for _, e := range entities {
		if zones[e.ID] == ZoneCausal {
			causal = append(causal, e.ID)
		}
	}
	if len(causal) == 0 {
		return map[string]int{}
	}

	forward := make(map[string][]string, len(causal))
	inDegree := make(map[string]int, len(causal))
	for _, r := range rels {
		if !r.IsCausal() || zones[r.FromEntityID] != ZoneCausal || zones[r.ToEntityID] != ZoneCausal {
			continue
		}
		forward[r.FromEntityID] = append(forward[r.FromEntityID], r.ToEntityID)
		inDegree[r.ToEntityID]++
	}

	layers := make(map[string]int, len(causal))
	requeues := make(map[string]int, len(causal))
	maxRequeues := len(causal)

	var queue []string
	for _, id := range causal {
		layers[id] = 0
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, next := range forward[curr] {
			if raised := layers[curr] + 1; raised > layers[next] {
				layers[next] = raised
				if requeues[next] < maxRequeues {
					requeues[next]++
					queue = append(queue, next)
				}
			}
		}
	}

	return layers
}
