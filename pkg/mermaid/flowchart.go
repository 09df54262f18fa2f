package mermaid

import (
	"regexp"
	"strings"

	"github.com/matzehuels/drawbridge/pkg/diagram"
)

// shapeGroup matches one bracketed shape token. The alternation mirrors
// shapeDelims: nested delimiters come first so they win over the shorter
// pairs they contain.
const shapeGroup = `\[\[[^\]]+\]\]|\{\{[^}]+\}\}|\(\([^)]+\)\)|\[\([^)]+\)\]|>[^\]]+\]|\[[^\]]+\]|\([^)]+\)|\{[^}]+\}`

// connectorGroup matches one arrow token: a 1-3 character dash/dot/equals
// run, optionally ending in an arrowhead character.
const connectorGroup = `[-.=]{1,3}>?[ox]?|[-.=]{1,3}`

var (
	// inlineLabelPattern matches the "-->|label|" form so the label can be
	// lifted off the connector before the main pattern runs.
	inlineLabelPattern = regexp.MustCompile(`(` + connectorGroup + `)\|([^|]+)\|`)

	// connectorPattern captures name, optional shape token, arrow, name,
	// optional shape token, and an optional trailing |label|.
	connectorPattern = regexp.MustCompile(`([A-Za-z0-9_]+)(` + shapeGroup + `)?\s*(` + connectorGroup + `)\s*([A-Za-z0-9_]+)(` + shapeGroup + `)?(?:\s*\|\s*([^|]+)\s*\|)?`)

	// standalonePattern matches a node declaration that carries a shape
	// token but no connector.
	standalonePattern = regexp.MustCompile(`([A-Za-z0-9_]+)(` + shapeGroup + `)`)
)

// flowDirection reads the flow direction off a type-declaration line by
// substring scan. TD and TB both fall through to the TopDown default.
func flowDirection(line string) diagram.Direction {
	switch {
	case strings.Contains(line, "LR"):
		return diagram.LeftRight
	case strings.Contains(line, "RL"):
		return diagram.RightLeft
	case strings.Contains(line, "BT"):
		return diagram.BottomTop
	default:
		return diagram.TopDown
	}
}

func parseFlowchart(source string) *diagram.Diagram {
	d := diagram.New(diagram.Flowchart)

	for _, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "graph") || strings.HasPrefix(line, "flowchart") {
			d.Direction = flowDirection(line)
			continue
		}

		// Normalize "A -->|label| B" to "A --> B" and remember the label,
		// so the connector pattern only deals with one label position.
		var inlineLabel string
		if m := inlineLabelPattern.FindStringSubmatch(line); m != nil {
			inlineLabel = m[2]
			line = inlineLabelPattern.ReplaceAllString(line, "$1")
		}

		if m := connectorPattern.FindStringSubmatch(line); m != nil {
			from := ensureFlowNode(d, m[1], m[2])
			to := ensureFlowNode(d, m[4], m[5])
			label := inlineLabel
			if label == "" {
				label = m[6]
			}
			d.AddEdge(from, to, strings.TrimSpace(label), ArrowStyle(m[3]))
			continue
		}

		if m := standalonePattern.FindStringSubmatch(line); m != nil {
			label, style := ShapeStyle(m[2])
			d.EnsureNode(m[1], label, style)
		}
	}

	return d
}

// ensureFlowNode registers name on first sight, using the shape token when
// present and the bare name otherwise. A node first seen bare keeps
// label == name, and the first later sighting that carries a shape token
// rewrites label and style in place; once the label differs from the bare
// name, further sightings change nothing.
func ensureFlowNode(d *diagram.Diagram, name, shapeToken string) *diagram.Node {
	if n, ok := d.Node(name); ok {
		if shapeToken != "" && n.Label == name {
			n.Label, n.Style = ShapeStyle(shapeToken)
		}
		return n
	}
	if shapeToken == "" {
		return d.EnsureNode(name, name, diagram.NodeStyle{})
	}
	label, style := ShapeStyle(shapeToken)
	return d.EnsureNode(name, label, style)
}
