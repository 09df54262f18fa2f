package layout

import "github.com/matzehuels/drawbridge/pkg/diagram"

// erGrid places entities on a near-square grid. Entity height grows with the
// attribute count so stacked attribute rows fit inside the shape.
func erGrid(d *diagram.Diagram, g ERGeometry) map[string]Position {
	nodes := d.Nodes()
	cols := squareColumns(len(nodes))

	pos := make(map[string]Position, len(nodes))
	for i, n := range nodes {
		h := g.HeaderHeight + len(n.Attributes)*g.AttrHeight
		if h < g.BaseHeight {
			h = g.BaseHeight
		}
		pos[n.ID] = Position{
			X: g.OffsetX + (i%cols)*g.SpacingX,
			Y: g.OffsetY + (i/cols)*g.SpacingY,
			W: g.NodeWidth,
			H: h,
		}
	}
	return pos
}

// stateGrid places states on a grid whose column count tracks the state
// count, clamped to the 2..4 band.
func stateGrid(d *diagram.Diagram, g StateGeometry) map[string]Position {
	nodes := d.Nodes()
	cols := clampColumns(len(nodes))

	pos := make(map[string]Position, len(nodes))
	for i, n := range nodes {
		pos[n.ID] = Position{
			X: g.OffsetX + (i%cols)*g.SpacingX,
			Y: g.OffsetY + (i/cols)*g.SpacingY,
			W: g.NodeWidth,
			H: g.NodeHeight,
		}
	}
	return pos
}

// flowchartGrid is the fallback for flowcharts without edges, where leveling
// has nothing to work with.
func flowchartGrid(d *diagram.Diagram, g FlowchartGeometry) map[string]Position {
	nodes := d.Nodes()
	cols := squareColumns(len(nodes))

	pos := make(map[string]Position, len(nodes))
	for i, n := range nodes {
		pos[n.ID] = Position{
			X: g.OffsetX + (i%cols)*g.SpacingX,
			Y: g.OffsetY + (i/cols)*g.SpacingY,
			W: g.NodeWidth,
			H: g.NodeHeight,
		}
	}
	return pos
}
