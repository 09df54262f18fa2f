// Package mermaid extracts diagram graphs from a subset of the Mermaid
// diagramming language: flowcharts, sequence diagrams, entity-relationship
// diagrams, and state diagrams.
//
// Parsing is deliberately permissive and never fails. Unrecognized lines
// produce nothing, malformed bracket tokens fall back to the default
// rectangle, and references to undeclared participants or entities register
// them on first use. The output of every extractor is a fully populated
// [diagram.Diagram] ready for layout and serialization.
package mermaid

import (
	"strings"

	"github.com/matzehuels/drawbridge/pkg/diagram"
)

// Detect classifies a source by scanning for the keyword unique to each
// diagram kind, probed in a fixed order. Sources matching none of the
// keywords are treated as flowcharts, which also makes flowchart the default
// for sources without any type declaration.
func Detect(source string) diagram.Kind {
	switch {
	case strings.Contains(source, "sequenceDiagram"):
		return diagram.Sequence
	case strings.Contains(source, "erDiagram"):
		return diagram.ER
	case strings.Contains(source, "stateDiagram"):
		return diagram.State
	default:
		return diagram.Flowchart
	}
}

// Parse extracts the diagram graph from source, dispatching to the extractor
// selected by [Detect]. Parse is total: any input yields a diagram, possibly
// an empty one.
func Parse(source string) *diagram.Diagram {
	switch Detect(source) {
	case diagram.Sequence:
		return parseSequence(source)
	case diagram.ER:
		return parseER(source)
	case diagram.State:
		return parseState(source)
	default:
		return parseFlowchart(source)
	}
}
