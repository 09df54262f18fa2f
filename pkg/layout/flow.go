package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/drawbridge/pkg/diagram"
)

// Levels computes the hierarchical level of every node, keyed by node id,
// using Kahn's algorithm frontier by frontier:
//
//  1. All nodes with zero remaining in-degree form the current frontier, in
//     first-registered order, and take the current level number.
//  2. Their outgoing edges are removed; newly freed nodes form the next
//     frontier.
//  3. Repeat until the frontier empties.
//
// For acyclic edge sets every edge ends on a strictly deeper level than it
// starts. Nodes that never reach zero in-degree sit on a cycle (or behind
// one); they are all dumped on the level after the last completed frontier
// rather than breaking the cycle properly, which keeps the computation a
// single terminating pass.
func Levels(d *diagram.Diagram) map[string]int {
	nodes := d.Nodes()

	inDegree := make(map[string]int, len(nodes))
	order := make(map[string]int, len(nodes))
	for i, n := range nodes {
		inDegree[n.ID] = 0
		order[n.ID] = i
	}

	children := make(map[string][]string, len(nodes))
	for _, e := range d.Edges() {
		inDegree[e.To]++
		children[e.From] = append(children[e.From], e.To)
	}

	frontier := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			frontier = append(frontier, n.ID)
		}
	}

	levels := make(map[string]int, len(nodes))
	level := 0
	for len(frontier) > 0 {
		var next []string
		for _, id := range frontier {
			levels[id] = level
			for _, child := range children[id] {
				inDegree[child]--
				if inDegree[child] == 0 {
					next = append(next, child)
				}
			}
		}
		slices.SortFunc(next, func(a, b string) int {
			return cmp.Compare(order[a], order[b])
		})
		frontier = next
		level++
	}

	for _, n := range nodes {
		if _, ok := levels[n.ID]; !ok {
			levels[n.ID] = level
		}
	}
	return levels
}

// flowchartLayout places flowchart nodes level by level along the flow
// direction. TD/BT flow stacks levels as horizontal rows centered within the
// canvas width; LR/RL flow stacks them as vertical columns centered within
// the canvas height. Flowcharts without edges fall back to the plain grid.
func flowchartLayout(d *diagram.Diagram, g FlowchartGeometry) map[string]Position {
	if d.EdgeCount() == 0 {
		return flowchartGrid(d, g)
	}

	levels := Levels(d)
	maxLevel := 0
	for _, l := range levels {
		if l > maxLevel {
			maxLevel = l
		}
	}
	byLevel := make([][]*diagram.Node, maxLevel+1)
	for _, n := range d.Nodes() {
		byLevel[levels[n.ID]] = append(byLevel[levels[n.ID]], n)
	}

	pos := make(map[string]Position, d.NodeCount())
	for level, group := range byLevel {
		if d.Direction.Horizontal() {
			span := (len(group)-1)*g.SpacingY + g.NodeHeight
			start := (g.CanvasHeight - span) / 2
			for i, n := range group {
				pos[n.ID] = Position{
					X: g.OffsetX + level*g.SpacingX,
					Y: start + i*g.SpacingY,
					W: g.NodeWidth,
					H: g.NodeHeight,
				}
			}
		} else {
			span := (len(group)-1)*g.SpacingX + g.NodeWidth
			start := (g.CanvasWidth - span) / 2
			for i, n := range group {
				pos[n.ID] = Position{
					X: start + i*g.SpacingX,
					Y: g.OffsetY + level*g.SpacingY,
					W: g.NodeWidth,
					H: g.NodeHeight,
				}
			}
		}
	}
	return pos
}
