package diagram

// Shape enumerates the vertex shapes a node can carry. The zero value is the
// default rectangle, so nodes declared without bracket syntax need no special
// casing anywhere downstream.
type Shape int

const (
	// ShapeRect is the default rounded rectangle ([...] or bare name).
	ShapeRect Shape = iota
	// ShapeEllipse is the rounded/stadium form ((...)).
	ShapeEllipse
	// ShapeDiamond is the decision rhombus ({...}).
	ShapeDiamond
	// ShapeCircle is the fixed-aspect circle (((...))).
	ShapeCircle
	// ShapeSubroutine is the double-edged rectangle ([[...]]).
	ShapeSubroutine
	// ShapeHexagon is the hexagon ({{...}}).
	ShapeHexagon
	// ShapeCylinder is the database cylinder ([(...)]).
	ShapeCylinder
	// ShapeFlag is the parallelogram (>...]).
	ShapeFlag
	// ShapeEntity is an ER entity container with stacked attribute rows.
	ShapeEntity
)

// String returns a short shape name for logs and DOT output.
func (s Shape) String() string {
	switch s {
	case ShapeEllipse:
		return "ellipse"
	case ShapeDiamond:
		return "diamond"
	case ShapeCircle:
		return "circle"
	case ShapeSubroutine:
		return "subroutine"
	case ShapeHexagon:
		return "hexagon"
	case ShapeCylinder:
		return "cylinder"
	case ShapeFlag:
		return "flag"
	case ShapeEntity:
		return "entity"
	default:
		return "rect"
	}
}

// Arrowhead enumerates edge-ending markers.
type Arrowhead int

const (
	// ArrowClassic is the filled triangular head, the default for "...>"
	// connectors and all unrecognized forms.
	ArrowClassic Arrowhead = iota
	// ArrowNone is an open line with no head.
	ArrowNone
	// ArrowOval is a circle marker ("...o").
	ArrowOval
	// ArrowCross is an x marker ("...x").
	ArrowCross
	// ArrowOpen is the thin open head used by async sequence messages.
	ArrowOpen
)

// String returns the marker name used in the interchange style string.
func (a Arrowhead) String() string {
	switch a {
	case ArrowNone:
		return "none"
	case ArrowOval:
		return "oval"
	case ArrowCross:
		return "cross"
	case ArrowOpen:
		return "open"
	default:
		return "classic"
	}
}

// Cardinality enumerates ER relationship endpoint markers. The zero value
// CardNone means the endpoint carries no marker, which is the case for every
// non-ER edge.
type Cardinality int

const (
	// CardNone marks a plain endpoint without cardinality decoration.
	CardNone Cardinality = iota
	// CardOne is exactly one (||).
	CardOne
	// CardMany is one or more (}| left, |{ right).
	CardMany
	// CardZeroOrOne is zero or one (|o left, o| right).
	CardZeroOrOne
	// CardZeroOrMany is zero or more (}o left, o{ right).
	CardZeroOrMany
)

// String returns the crow's-foot marker name.
func (c Cardinality) String() string {
	switch c {
	case CardOne:
		return "one"
	case CardMany:
		return "many"
	case CardZeroOrOne:
		return "zero-or-one"
	case CardZeroOrMany:
		return "zero-or-many"
	default:
		return "none"
	}
}

// NodeStyle is the structured cosmetic description of a node. Extractors fill
// it from source syntax; only the serializer turns it into a concrete style
// string, so layout and intermediate stages never parse style text.
type NodeStyle struct {
	Shape Shape
}

// EdgeStyle is the structured cosmetic description of an edge.
//
// StrokeWidth zero means the renderer default; extractors set it explicitly
// only for emphasized connectors. StartCard and EndCard are meaningful only
// on ER relationship edges.
type EdgeStyle struct {
	Arrowhead   Arrowhead
	Dashed      bool
	StrokeWidth int
	StartCard   Cardinality
	EndCard     Cardinality
}
