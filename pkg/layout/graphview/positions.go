package graphview

import (
	"math"

	"github.com/hessam/chronos/pkg/story"
)

// Geometry constants for the two zones. The context band sits at a fixed
// horizontal offset on the left; causal columns start to its right.
const (
	topMargin = 60.0

	contextBandX   = 80.0
	contextCellW   = 200.0
	contextCellH   = 90.0
	contextGapRows = 50.0

	causalBandX  = 640.0
	causalGap    = 160.0
	layerSpacing = 260.0
	rowSpacing   = 110.0

	defaultNodeColor = "#64748b"
)

type point struct{ x, y float64 }

// place computes final coordinates for every visible entity.
//
// Context-zone entities are grouped by type, each group arranged in a
// near-square grid, groups stacked vertically inside the left band. Causal
// entities form one column per layer at uniform spacing, rows evenly spaced
// and vertically centered against the tallest column.
func place(entities []story.Entity, zones map[string]Zone, layers map[string]int) map[string]point {
	positions := make(map[string]point, len(entities))
	maxCols := placeContext(entities, zones, positions)

	// Wide context grids push the causal band right so the columns never
	// overlap the grid.
	start := causalBandX
	if right := contextBandX + float64(maxCols)*contextCellW + causalGap; right > start {
		start = right
	}
	placeCausal(entities, zones, layers, start, positions)
	return positions
}

func placeContext(entities []story.Entity, zones map[string]Zone, positions map[string]point) int {
	groups := make(map[story.EntityType][]string)
	for _, e := range entities {
		if zones[e.ID] == ZoneContext {
			groups[e.Type] = append(groups[e.Type], e.ID)
		}
	}

	y := topMargin
	maxCols := 0
	for _, t := range story.EntityTypes {
		ids := groups[t]
		if len(ids) == 0 {
			continue
		}
		cols := int(math.Ceil(math.Sqrt(float64(len(ids)))))
		if cols > maxCols {
			maxCols = cols
		}
		rows := 0
		for i, id := range ids {
			col, row := i%cols, i/cols
			positions[id] = point{
				x: contextBandX + float64(col)*contextCellW,
				y: y + float64(row)*contextCellH,
			}
			if row+1 > rows {
				rows = row + 1
			}
		}
		y += float64(rows)*contextCellH + contextGapRows
	}
	return maxCols
}

func placeCausal(entities []story.Entity, zones map[string]Zone, layers map[string]int, bandX float64, positions map[string]point) {
	columns := make(map[int][]string)
	maxRows := 0
	for _, e := range entities {
		if zones[e.ID] != ZoneCausal {
			continue
		}
		layer := layers[e.ID]
		columns[layer] = append(columns[layer], e.ID)
		if len(columns[layer]) > maxRows {
			maxRows = len(columns[layer])
		}
	}

	// Center every column against the tallest one.
	tallest := float64(maxRows-1) * rowSpacing
	for layer, ids := range columns {
		offset := (tallest - float64(len(ids)-1)*rowSpacing) / 2
		for i, id := range ids {
			positions[id] = point{
				x: bandX + float64(layer)*layerSpacing,
				y: topMargin + offset + float64(i)*rowSpacing,
			}
		}
	}
}
