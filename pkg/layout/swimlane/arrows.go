package swimlane

import (
	"fmt"

	"github.com/hessam/chronos/pkg/story"
)

// relationshipArrows draws a directed arrow for every visible relationship
// whose endpoints are both placed events, and flags temporal conflicts.
//
// A conflict exists when the source occurrence sits at or to the right of
// the target occurrence while the two are in different lanes: the diagram
// then shows the effect before (or level with) its cause. Conflicts are
// advisory annotations on the target event; the layout is never reflowed
// to resolve them.
func relationshipArrows(out *Layout, rels []story.Relationship) {
	primary := make(map[string]int, len(out.Events))
	for i, ev := range out.Events {
		if _, seen := primary[ev.Entity.ID]; !seen {
			primary[ev.Entity.ID] = i
		}
	}

	for _, r := range rels {
		si, ok := primary[r.FromEntityID]
		if !ok {
			continue
		}
		ti, ok := primary[r.ToEntityID]
		if !ok {
			continue
		}
		src, tgt := out.Events[si], out.Events[ti]

		arrowType := ArrowLink
		if r.IsCausal() {
			arrowType = ArrowCausal
		}
		out.Arrows = append(out.Arrows, Arrow{
			FromID: r.FromEntityID,
			ToID:   r.ToEntityID,
			X1:     src.X + src.Width,
			Y1:     src.Y + src.Height/2,
			X2:     tgt.X,
			Y2:     tgt.Y + tgt.Height/2,
			Type:   arrowType,
		})

		if src.X >= tgt.X && src.LaneID != tgt.LaneID {
			reason := fmt.Sprintf("%s appears before its cause %q", tgt.Entity.DisplayName(), src.Entity.DisplayName())
			for i := range out.Events {
				if out.Events[i].Entity.ID == tgt.Entity.ID {
					out.Events[i].HasConflict = true
					out.Events[i].ConflictReason = reason
				}
			}
		}
	}
}
