// Package layout assigns a rectangle to every node of a diagram.
//
// Layout is deterministic and non-iterative: no physics, no randomness, no
// overlap resolution. Flowcharts with edges are leveled topologically and
// placed level by level along the flow direction; everything else lands on a
// fixed grid or row. Two runs over the same diagram always produce identical
// positions.
package layout

import (
	"math"

	"github.com/matzehuels/drawbridge/pkg/diagram"
)

// Position is the rectangle assigned to one node, in page units.
type Position struct {
	X int
	Y int
	W int
	H int
}

// Compute assigns exactly one Position to every node of d, keyed by node id.
// Edges never receive positions, only routing styles.
func Compute(d *diagram.Diagram, g Geometry) map[string]Position {
	switch d.Kind {
	case diagram.Sequence:
		return sequenceRow(d, g.Sequence)
	case diagram.ER:
		return erGrid(d, g.ER)
	case diagram.State:
		return stateGrid(d, g.State)
	default:
		return flowchartLayout(d, g.Flowchart)
	}
}

// sequenceRow places participants on one row, left to right in first-seen
// order.
func sequenceRow(d *diagram.Diagram, g SequenceGeometry) map[string]Position {
	pos := make(map[string]Position, d.NodeCount())
	for i, n := range d.Nodes() {
		pos[n.ID] = Position{
			X: g.OffsetX + i*g.SpacingX,
			Y: g.OffsetY,
			W: g.NodeWidth,
			H: g.NodeHeight,
		}
	}
	return pos
}

// squareColumns returns the column count for a near-square grid of n nodes,
// clamped to the 2..4 band.
func squareColumns(n int) int {
	return clampColumns(int(math.Ceil(math.Sqrt(float64(n)))))
}

func clampColumns(cols int) int {
	if cols < 2 {
		return 2
	}
	if cols > 4 {
		return 4
	}
	return cols
}
