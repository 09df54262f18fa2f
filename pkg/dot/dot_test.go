package dot

import (
	"strings"
	"testing"

	"github.com/matzehuels/drawbridge/pkg/diagram"
)

func TestToDOTFlowchart(t *testing.T) {
	d := diagram.New(diagram.Flowchart)
	d.Direction = diagram.LeftRight
	a := d.EnsureNode("A", "Start", diagram.NodeStyle{})
	b := d.EnsureNode("B", "Decide", diagram.NodeStyle{Shape: diagram.ShapeDiamond})
	d.AddEdge(a, b, "yes", diagram.EdgeStyle{Arrowhead: diagram.ArrowClassic, Dashed: true})

	out := ToDOT(d)

	for _, want := range []string{
		"digraph G {",
		"rankdir=LR;",
		`"node1" [label="Start"];`,
		`"node2" [label="Decide", shape=diamond];`,
		`"node1" -> "node2" [label="yes", style=dashed];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT missing %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Error("DOT not closed")
	}
}

func TestToDOTArrowheads(t *testing.T) {
	tests := []struct {
		name  string
		style diagram.EdgeStyle
		want  string
	}{
		{"Classic", diagram.EdgeStyle{Arrowhead: diagram.ArrowClassic}, `"node1" -> "node2";`},
		{"Open", diagram.EdgeStyle{Arrowhead: diagram.ArrowOpen}, "[arrowhead=vee]"},
		{"None", diagram.EdgeStyle{Arrowhead: diagram.ArrowNone}, "[arrowhead=none]"},
		{"Oval", diagram.EdgeStyle{Arrowhead: diagram.ArrowOval}, "[arrowhead=odot]"},
		{"Cross", diagram.EdgeStyle{Arrowhead: diagram.ArrowCross}, "[arrowhead=tee]"},
		{"Thick", diagram.EdgeStyle{StrokeWidth: 3}, "[penwidth=3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := diagram.New(diagram.Flowchart)
			a := d.EnsureNode("A", "A", diagram.NodeStyle{})
			b := d.EnsureNode("B", "B", diagram.NodeStyle{})
			d.AddEdge(a, b, "", tt.style)

			if out := ToDOT(d); !strings.Contains(out, tt.want) {
				t.Errorf("DOT missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestToDOTEntities(t *testing.T) {
	d := diagram.New(diagram.ER)
	u := d.EnsureNode("USER", "USER", diagram.NodeStyle{Shape: diagram.ShapeEntity})
	u.Attributes = []string{"string name", "int id"}
	o := d.EnsureNode("ORDER", "ORDER", diagram.NodeStyle{Shape: diagram.ShapeEntity})
	d.AddEdge(u, o, "places", diagram.EdgeStyle{StartCard: diagram.CardOne, EndCard: diagram.CardZeroOrMany})

	out := ToDOT(d)

	for _, want := range []string{
		`"node1" [label="{USER|string name\lint id\l}", shape=record, style=filled];`,
		`"node2" [label="{ORDER}", shape=record, style=filled];`,
		`"node1" -> "node2" [label="places", dir=both, arrowtail=tee, arrowhead=crowodot];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT missing %q:\n%s", want, out)
		}
	}
}

func TestRecordLabelEscapes(t *testing.T) {
	n := &diagram.Node{Label: "A|B", Attributes: []string{"x {y}"}}
	if got, want := recordLabel(n), `{A\|B|x \{y\}\l}`; got != want {
		t.Errorf("recordLabel = %q, want %q", got, want)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">
<g></g>
</svg>`)

	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("viewBox not normalized:\n%s", out)
	}

	// Without a viewBox the input passes through untouched.
	plain := []byte("<svg><g></g></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("passthrough changed input: %s", got)
	}
}
