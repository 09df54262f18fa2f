package mermaid

import (
	"strings"

	"github.com/matzehuels/drawbridge/pkg/diagram"
)

// shapeDelims maps bracket pairs to shapes, ordered most specific first.
// Longer delimiters must be probed before the shorter pairs they contain,
// otherwise [[x]] would classify as a rectangle labeled "[x]".
var shapeDelims = []struct {
	open  string
	close string
	shape diagram.Shape
}{
	{"[[", "]]", diagram.ShapeSubroutine},
	{"{{", "}}", diagram.ShapeHexagon},
	{"((", "))", diagram.ShapeCircle},
	{"[(", ")]", diagram.ShapeCylinder},
	{">", "]", diagram.ShapeFlag},
	{"[", "]", diagram.ShapeRect},
	{"(", ")", diagram.ShapeEllipse},
	{"{", "}", diagram.ShapeDiamond},
}

// ShapeStyle classifies a bracketed node token, returning the label with the
// delimiters stripped and the shape they encode. Tokens matching no bracket
// pair come back unchanged as a plain rectangle, which makes ShapeStyle total
// and idempotent on already-stripped labels.
func ShapeStyle(token string) (string, diagram.NodeStyle) {
	for _, d := range shapeDelims {
		if len(token) < len(d.open)+len(d.close) {
			continue
		}
		if strings.HasPrefix(token, d.open) && strings.HasSuffix(token, d.close) {
			label := token[len(d.open) : len(token)-len(d.close)]
			return label, diagram.NodeStyle{Shape: d.shape}
		}
	}
	return token, diagram.NodeStyle{}
}

// ArrowStyle classifies a flowchart connector token such as "-->", "-.->",
// "==>", or "--o". Dash runs containing ".-" or ".." select dashing, "=="
// selects the heavy stroke, and the trailing character selects the arrowhead.
func ArrowStyle(token string) diagram.EdgeStyle {
	s := diagram.EdgeStyle{}
	if strings.Contains(token, ".-") || strings.Contains(token, "..") {
		s.Dashed = true
	}
	if strings.Contains(token, "==") {
		s.StrokeWidth = 3
	}
	switch {
	case strings.HasSuffix(token, ">"):
		s.Arrowhead = diagram.ArrowClassic
	case strings.HasSuffix(token, "-"):
		s.Arrowhead = diagram.ArrowNone
	case strings.HasSuffix(token, "o"):
		s.Arrowhead = diagram.ArrowOval
	case strings.HasSuffix(token, "x"):
		s.Arrowhead = diagram.ArrowCross
	default:
		s.Arrowhead = diagram.ArrowClassic
	}
	return s
}

// SequenceArrowStyle classifies a message arrow from the fixed sequence
// vocabulary: "->" solid, "->>" dashed open-headed async, ".->" and "-->"
// dashed replies, "+" and "-" activation with a heavy stroke, a trailing "x"
// the lost-message cross. Unrecognized tokens fall back to the solid classic
// arrow.
func SequenceArrowStyle(token string) diagram.EdgeStyle {
	switch {
	case token == "->":
		return diagram.EdgeStyle{Arrowhead: diagram.ArrowClassic}
	case token == "->>":
		return diagram.EdgeStyle{Arrowhead: diagram.ArrowOpen, Dashed: true}
	case strings.Contains(token, ".->"):
		return diagram.EdgeStyle{Arrowhead: diagram.ArrowClassic, Dashed: true}
	case token == "+", token == "-":
		return diagram.EdgeStyle{Arrowhead: diagram.ArrowClassic, StrokeWidth: 2}
	case strings.Contains(token, "-->"):
		return diagram.EdgeStyle{Arrowhead: diagram.ArrowClassic, Dashed: true}
	case strings.HasSuffix(token, "x"):
		return diagram.EdgeStyle{Arrowhead: diagram.ArrowCross}
	default:
		return diagram.EdgeStyle{Arrowhead: diagram.ArrowClassic}
	}
}

// RelationshipStyle classifies an ER cardinality marker pair such as
// "||--o{". A dot run selects dashing; the leading and trailing two-character
// markers map to crow's-foot cardinalities, with unknown markers left bare.
func RelationshipStyle(token string) diagram.EdgeStyle {
	s := diagram.EdgeStyle{}
	if strings.Contains(token, "..") {
		s.Dashed = true
	}
	switch {
	case strings.HasPrefix(token, "||"):
		s.StartCard = diagram.CardOne
	case strings.HasPrefix(token, "}|"):
		s.StartCard = diagram.CardMany
	case strings.HasPrefix(token, "|o"):
		s.StartCard = diagram.CardZeroOrOne
	case strings.HasPrefix(token, "}o"):
		s.StartCard = diagram.CardZeroOrMany
	}
	switch {
	case strings.HasSuffix(token, "||"):
		s.EndCard = diagram.CardOne
	case strings.HasSuffix(token, "|{"):
		s.EndCard = diagram.CardMany
	case strings.HasSuffix(token, "o|"):
		s.EndCard = diagram.CardZeroOrOne
	case strings.HasSuffix(token, "o{"):
		s.EndCard = diagram.CardZeroOrMany
	}
	return s
}
