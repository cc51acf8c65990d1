package graphview

import "github.com/hessam/chronos/pkg/story"

// Zone classifies a node as causally connected or contextual.
type Zone string

// The two zones. Every visible entity lands in exactly one.
const (
	ZoneCausal  Zone = "causal"
	ZoneContext Zone = "context"
)

// Node is a positioned entity in the graph view.
type Node struct {
	ID string `json:"id"`

	// Entity is the display-ready record: the canonical entity, or its
	// variant-resolved copy when a timeline is focused.
	Entity story.Entity `json:"entity"`

	Color       string   `json:"color"`
	Zone        Zone     `json:"zone"`
	Layer       int      `json:"layer"` // meaningful for causal nodes; 0 for context
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Highlighted bool     `json:"highlighted,omitempty"`
	TimelineIDs []string `json:"timeline_ids,omitempty"`
}

// Edge is a rendered relationship between two laid-out nodes. Both
// endpoints are guaranteed to be present in the node list.
type Edge struct {
	ID           string             `json:"id"`
	SourceID     string             `json:"source_id"`
	TargetID     string             `json:"target_id"`
	Relationship story.Relationship `json:"relationship"`
	Causal       bool               `json:"causal"`
	Highlighted  bool               `json:"highlighted,omitempty"`
}

// Summary carries counts for surrounding UI chrome.
type Summary struct {
	CausalCount   int `json:"causal_count"`
	ContextCount  int `json:"context_count"`
	MaxLayer      int `json:"max_layer"`
	TimelineCount int `json:"timeline_count"`
}

// Layout is the complete graph-view output.
type Layout struct {
	Nodes   []Node  `json:"nodes"`
	Edges   []Edge  `json:"edges"`
	Summary Summary `json:"summary"`
}

// Node returns the laid-out node with the given ID and true, or a zero
// node and false.
func (l Layout) Node(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
