// Package dot renders diagrams to Graphviz DOT and, via the embedded
// Graphviz engine, to SVG. It is an alternative output path to the
// draw.io serializer: DOT delegates placement to Graphviz instead of
// using the deterministic layout engine.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/drawbridge/pkg/diagram"
	"github.com/matzehuels/drawbridge/pkg/errors"
)

// ToDOT converts a diagram to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(d *diagram.Diagram) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir(d))
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range d.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges() {
		attrs := edgeAttrs(d.Kind, e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// rankdir picks the layout direction. Flowcharts honor the declared
// direction, sequence diagrams always flow left to right, and the grid
// kinds fall back to top-to-bottom ranking.
func rankdir(d *diagram.Diagram) string {
	switch d.Kind {
	case diagram.Sequence:
		return "LR"
	case diagram.Flowchart:
		switch d.Direction {
		case diagram.LeftRight:
			return "LR"
		case diagram.RightLeft:
			return "RL"
		case diagram.BottomTop:
			return "BT"
		}
	}
	return "TB"
}

func nodeAttrs(n *diagram.Node) []string {
	if n.Style.Shape == diagram.ShapeEntity {
		return []string{fmt.Sprintf(`label="%s"`, recordLabel(n)), "shape=record", "style=filled"}
	}

	attrs := []string{fmt.Sprintf("label=%q", n.Label)}
	switch n.Style.Shape {
	case diagram.ShapeEllipse:
		attrs = append(attrs, "shape=ellipse")
	case diagram.ShapeDiamond:
		attrs = append(attrs, "shape=diamond")
	case diagram.ShapeCircle:
		attrs = append(attrs, "shape=circle")
	case diagram.ShapeSubroutine:
		attrs = append(attrs, "peripheries=2")
	case diagram.ShapeHexagon:
		attrs = append(attrs, "shape=hexagon")
	case diagram.ShapeCylinder:
		attrs = append(attrs, "shape=cylinder")
	case diagram.ShapeFlag:
		attrs = append(attrs, "shape=cds")
	}
	return attrs
}

// recordEscaper neutralizes record-label metacharacters so entity names
// and attribute rows render as literal text.
var recordEscaper = strings.NewReplacer(
	`"`, `\"`,
	"{", `\{`,
	"}", `\}`,
	"|", `\|`,
	"<", `\<`,
	">", `\>`,
)

// recordLabel builds a Graphviz record label for an entity: the name in
// the head compartment, one left-aligned row per attribute below it.
func recordLabel(n *diagram.Node) string {
	if len(n.Attributes) == 0 {
		return "{" + recordEscaper.Replace(n.Label) + "}"
	}
	var rows strings.Builder
	for _, a := range n.Attributes {
		rows.WriteString(recordEscaper.Replace(a))
		rows.WriteString(`\l`)
	}
	return "{" + recordEscaper.Replace(n.Label) + "|" + rows.String() + "}"
}

func edgeAttrs(kind diagram.Kind, e *diagram.Edge) []string {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	if e.Style.Dashed {
		attrs = append(attrs, "style=dashed")
	}
	if e.Style.StrokeWidth > 0 {
		attrs = append(attrs, fmt.Sprintf("penwidth=%d", e.Style.StrokeWidth))
	}

	if kind == diagram.ER {
		attrs = append(attrs, "dir=both",
			"arrowtail="+cardArrow(e.Style.StartCard),
			"arrowhead="+cardArrow(e.Style.EndCard))
		return attrs
	}

	if a := headArrow(e.Style.Arrowhead); a != "normal" {
		attrs = append(attrs, "arrowhead="+a)
	}
	return attrs
}

func headArrow(a diagram.Arrowhead) string {
	switch a {
	case diagram.ArrowNone:
		return "none"
	case diagram.ArrowOval:
		return "odot"
	case diagram.ArrowCross:
		return "tee"
	case diagram.ArrowOpen:
		return "vee"
	default:
		return "normal"
	}
}

// cardArrow approximates crow's-foot cardinality markers with Graphviz
// arrow primitives.
func cardArrow(c diagram.Cardinality) string {
	switch c {
	case diagram.CardOne:
		return "tee"
	case diagram.CardMany:
		return "crow"
	case diagram.CardZeroOrOne:
		return "teeodot"
	case diagram.CardZeroOrMany:
		return "crowodot"
	default:
		return "none"
	}
}

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the opening svg tag so the view box starts
// at the origin and width/height are plain pixel values. Graphviz emits
// pt-based dimensions that embed poorly.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
