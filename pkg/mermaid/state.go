package mermaid

import (
	"regexp"
	"strings"

	"github.com/matzehuels/drawbridge/pkg/diagram"
)

// Synthetic start/end states are rendered as circle glyphs instead of text.
const (
	startStateName = "Start"
	endStateName   = "End"
	startGlyph     = "●"
	endGlyph       = "◉"
)

// transitionPattern captures "From --> To" with an optional ": label". Either
// endpoint may be the [*] sentinel (bare * is accepted too).
var transitionPattern = regexp.MustCompile(`(\[\*\]|\*|[A-Za-z0-9_]+)\s*-->\s*(\[\*\]|\*|[A-Za-z0-9_]+)(?:\s*:\s*(.+))?`)

func parseState(source string) *diagram.Diagram {
	d := diagram.New(diagram.State)

	for _, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "stateDiagram") {
			continue
		}

		m := transitionPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		from := ensureState(d, resolveSentinel(m[1], startStateName))
		to := ensureState(d, resolveSentinel(m[2], endStateName))
		d.AddEdge(from, to, strings.TrimSpace(m[3]), diagram.EdgeStyle{})
	}

	return d
}

// resolveSentinel maps the [*] marker to the synthetic state for its side of
// the transition: Start as a source, End as a target. Named states pass
// through unchanged.
func resolveSentinel(token, synthetic string) string {
	if token == "[*]" || token == "*" {
		return synthetic
	}
	return token
}

// ensureState registers a state on first sight. The synthetic start and end
// states get their glyph labels and are shared by every transition that
// touches them.
func ensureState(d *diagram.Diagram, name string) *diagram.Node {
	label := name
	switch name {
	case startStateName:
		label = startGlyph
	case endStateName:
		label = endGlyph
	}
	return d.EnsureNode(name, label, diagram.NodeStyle{})
}
