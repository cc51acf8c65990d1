package layout

// TimelinePalette is the fixed color cycle for timeline entities. A
// timeline's color is palette[index % len], where index is its position in
// the snapshot's timeline order, so colors stay stable across recomputation
// as long as that order is stable.
var TimelinePalette = []string{
	"#f97316", // orange
	"#8b5cf6", // violet
	"#06b6d4", // cyan
	"#ec4899", // pink
	"#84cc16", // lime
	"#eab308", // amber
	"#3b82f6", // blue
	"#ef4444", // red
	"#14b8a6", // teal
	"#a855f7", // purple
}

// TimelineColor returns the palette color for the timeline at the given
// position in the snapshot's timeline order.
func TimelineColor(index int) string {
	if index < 0 {
		index = 0
	}
	return TimelinePalette[index%len(TimelinePalette)]
}
