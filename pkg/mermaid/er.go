package mermaid

import (
	"regexp"
	"strings"

	"github.com/matzehuels/drawbridge/pkg/diagram"
)

var (
	// relationshipPattern captures "EntityA <markers> EntityB : label" where
	// the markers are a two-character cardinality pair on each side of a 2-3
	// character dash/dot run, e.g. "||--o{" or "}|..||".
	relationshipPattern = regexp.MustCompile(`([A-Za-z0-9_]+)\s*([|}][|}o][-.]{2,3}[o|}][{|])\s*([A-Za-z0-9_]+)\s*:\s*(.+)`)

	// bareEntityPattern matches a line declaring an attribute-less entity by
	// name alone.
	bareEntityPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

func parseER(source string) *diagram.Diagram {
	d := diagram.New(diagram.ER)

	// current is the entity whose attribute block is open, nil outside any
	// block. Attribute lines are kept verbatim in source order.
	var current *diagram.Node

	for _, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "erDiagram") {
			continue
		}

		if strings.HasSuffix(line, "{") {
			name := strings.TrimSpace(strings.TrimSuffix(line, "{"))
			current = d.EnsureNode(name, name, diagram.NodeStyle{Shape: diagram.ShapeEntity})
			continue
		}
		if line == "}" {
			current = nil
			continue
		}
		if current != nil {
			current.Attributes = append(current.Attributes, line)
			continue
		}

		if m := relationshipPattern.FindStringSubmatch(line); m != nil {
			from := d.EnsureNode(m[1], m[1], diagram.NodeStyle{Shape: diagram.ShapeEntity})
			to := d.EnsureNode(m[3], m[3], diagram.NodeStyle{Shape: diagram.ShapeEntity})
			d.AddEdge(from, to, strings.TrimSpace(m[4]), RelationshipStyle(m[2]))
			continue
		}

		if bareEntityPattern.MatchString(line) {
			d.EnsureNode(line, line, diagram.NodeStyle{Shape: diagram.ShapeEntity})
		}
	}

	return d
}
