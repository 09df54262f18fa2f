package drawio

import (
	"fmt"
	"strings"

	"github.com/matzehuels/drawbridge/pkg/diagram"
)

// entityStyle renders ER entities as swimlane containers whose attribute
// rows stack under a fixed-height header.
const entityStyle = "swimlane;fontStyle=0;childLayout=stackLayout;horizontal=1;startSize=30;horizontalStack=0;resizeParent=1;resizeParentMax=0;resizeLast=0;collapsible=1;marginBottom=0;"

// edgeBaseStyle is shared by every edge: orthogonal routing with automatic
// jetties.
const edgeBaseStyle = "edgeStyle=orthogonalEdgeStyle;rounded=0;orthogonalLoop=1;jettySize=auto;html=1;"

// vertexStyle maps a structured node style to its mxGraph style string.
func vertexStyle(s diagram.NodeStyle) string {
	switch s.Shape {
	case diagram.ShapeEllipse:
		return "ellipse;whiteSpace=wrap;html=1;"
	case diagram.ShapeDiamond:
		return "rhombus;whiteSpace=wrap;html=1;"
	case diagram.ShapeCircle:
		return "ellipse;whiteSpace=wrap;html=1;aspect=fixed;"
	case diagram.ShapeSubroutine:
		return "rounded=1;whiteSpace=wrap;html=1;strokeWidth=2;"
	case diagram.ShapeHexagon:
		return "shape=hexagon;perimeter=hexagonPerimeter2;whiteSpace=wrap;html=1;"
	case diagram.ShapeCylinder:
		return "shape=cylinder3;whiteSpace=wrap;html=1;"
	case diagram.ShapeFlag:
		return "shape=parallelogram;perimeter=parallelogramPerimeter;whiteSpace=wrap;html=1;"
	case diagram.ShapeEntity:
		return entityStyle
	default:
		return "rounded=1;whiteSpace=wrap;html=1;"
	}
}

// edgeStyle maps a structured edge style to its mxGraph style string. ER
// edges express their endpoints through crow's-foot markers; every other
// kind carries a single endArrow marker.
func edgeStyle(kind diagram.Kind, s diagram.EdgeStyle) string {
	var b strings.Builder
	b.WriteString(edgeBaseStyle)
	if s.Dashed {
		b.WriteString("dashed=1;")
	}
	if s.StrokeWidth > 0 {
		fmt.Fprintf(&b, "strokeWidth=%d;", s.StrokeWidth)
	}
	if kind == diagram.ER {
		if m := erMarker(s.StartCard); m != "" {
			fmt.Fprintf(&b, "startArrow=%s;", m)
		}
		if m := erMarker(s.EndCard); m != "" {
			fmt.Fprintf(&b, "endArrow=%s;", m)
		}
		return b.String()
	}
	fmt.Fprintf(&b, "endArrow=%s;", s.Arrowhead)
	return b.String()
}

// erMarker returns the mxGraph crow's-foot marker name, or "" for a bare
// endpoint.
func erMarker(c diagram.Cardinality) string {
	switch c {
	case diagram.CardOne:
		return "ERone"
	case diagram.CardMany:
		return "ERmany"
	case diagram.CardZeroOrOne:
		return "ERzeroToOne"
	case diagram.CardZeroOrMany:
		return "ERzeroToMany"
	default:
		return ""
	}
}
