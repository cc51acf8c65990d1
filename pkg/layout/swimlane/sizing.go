package swimlane

// Geometry constants shared by all tiers.
const (
	laneGutter    = 180.0 // label column before the first event slot
	eventGap      = 40.0  // horizontal gap between events in a lane
	canvasPadding = 60.0

	// collapsedLaneHeight is the fixed height of a lane with no events,
	// regardless of tier.
	collapsedLaneHeight = 28.0

	canonicalLaneColor = "#94a3b8"
)

// tier bundles the adaptive event and lane dimensions.
type tier struct {
	eventW float64
	eventH float64
	laneH  float64
}

// tierFor selects the size tier by total timeline count: crowded charts get
// compact nodes so many lanes stay on screen.
func tierFor(timelineCount int) tier {
	switch {
	case timelineCount > 10:
		return tier{eventW: 120, eventH: 48, laneH: 70}
	case timelineCount >= 6:
		return tier{eventW: 150, eventH: 56, laneH: 90}
	default:
		return tier{eventW: 180, eventH: 72, laneH: 120}
	}
}
