package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/drawbridge/pkg/diagram"
	"github.com/matzehuels/drawbridge/pkg/errors"
)

func TestSequenceRow(t *testing.T) {
	d := diagram.New(diagram.Sequence)
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		d.EnsureNode(name, name, diagram.NodeStyle{})
	}

	pos := Compute(d, DefaultGeometry())

	for i, n := range d.Nodes() {
		p := pos[n.ID]
		if p.X != 50+i*200 {
			t.Errorf("%s.X = %d, want %d", n.Name, p.X, 50+i*200)
		}
		if p.Y != 50 {
			t.Errorf("%s.Y = %d, want 50", n.Name, p.Y)
		}
		if p.W != 150 || p.H != 60 {
			t.Errorf("%s size = %dx%d, want 150x60", n.Name, p.W, p.H)
		}
	}
}

func TestERGridHeights(t *testing.T) {
	d := diagram.New(diagram.ER)
	small := d.EnsureNode("SMALL", "SMALL", diagram.NodeStyle{Shape: diagram.ShapeEntity})
	small.Attributes = []string{"int id"}
	big := d.EnsureNode("BIG", "BIG", diagram.NodeStyle{Shape: diagram.ShapeEntity})
	for i := 0; i < 6; i++ {
		big.Attributes = append(big.Attributes, fmt.Sprintf("string f%d", i))
	}

	pos := Compute(d, DefaultGeometry())

	// 30 header + 1x20 = 50, below the 100 floor.
	if got := pos[small.ID].H; got != 100 {
		t.Errorf("small height = %d, want 100", got)
	}
	// 30 header + 6x20 = 150, above the floor.
	if got := pos[big.ID].H; got != 150 {
		t.Errorf("big height = %d, want 150", got)
	}
}

func TestERGridColumns(t *testing.T) {
	tests := []struct {
		nodes    int
		wantCols int
	}{
		{1, 2},
		{4, 2},
		{5, 3},
		{20, 4},
	}

	for _, tt := range tests {
		d := diagram.New(diagram.ER)
		for i := 0; i < tt.nodes; i++ {
			d.EnsureNode(fmt.Sprintf("E%d", i), "", diagram.NodeStyle{})
		}

		pos := Compute(d, DefaultGeometry())

		// The node after a full first row starts the second row at the
		// left offset.
		if tt.nodes > tt.wantCols {
			wrap := d.Nodes()[tt.wantCols]
			if p := pos[wrap.ID]; p.X != 50 || p.Y != 250 {
				t.Errorf("%d nodes: wrap position = (%d, %d), want (50, 250)", tt.nodes, p.X, p.Y)
			}
		}
		last := d.Nodes()[tt.nodes-1]
		wantX := 50 + ((tt.nodes-1)%tt.wantCols)*250
		if p := pos[last.ID]; p.X != wantX {
			t.Errorf("%d nodes: last X = %d, want %d", tt.nodes, p.X, wantX)
		}
	}
}

func TestStateGridClampsColumns(t *testing.T) {
	d := diagram.New(diagram.State)
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		d.EnsureNode(name, name, diagram.NodeStyle{})
	}

	pos := Compute(d, DefaultGeometry())

	// Five states clamp to four columns; the fifth wraps.
	if p := pos["node4"]; p.X != 650 || p.Y != 50 {
		t.Errorf("node4 = (%d, %d), want (650, 50)", p.X, p.Y)
	}
	if p := pos["node5"]; p.X != 50 || p.Y != 200 {
		t.Errorf("node5 = (%d, %d), want (50, 200)", p.X, p.Y)
	}
	if p := pos["node1"]; p.W != 150 || p.H != 70 {
		t.Errorf("node1 size = %dx%d, want 150x70", p.W, p.H)
	}
}

func TestComputeCoversEveryNode(t *testing.T) {
	kinds := []diagram.Kind{diagram.Flowchart, diagram.Sequence, diagram.ER, diagram.State}

	for _, kind := range kinds {
		d := diagram.New(kind)
		a := d.EnsureNode("A", "A", diagram.NodeStyle{})
		b := d.EnsureNode("B", "B", diagram.NodeStyle{})
		d.AddEdge(a, b, "", diagram.EdgeStyle{})

		pos := Compute(d, DefaultGeometry())

		if len(pos) != d.NodeCount() {
			t.Errorf("%s: %d positions for %d nodes", kind, len(pos), d.NodeCount())
		}
		for _, n := range d.Nodes() {
			if _, ok := pos[n.ID]; !ok {
				t.Errorf("%s: node %s has no position", kind, n.ID)
			}
		}
	}
}

func TestLoadGeometry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geometry.toml")
	content := `[flowchart]
node_width = 180

[er]
spacing_x = 300
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	g, err := LoadGeometry(path)
	if err != nil {
		t.Fatalf("LoadGeometry: %v", err)
	}

	if g.Flowchart.NodeWidth != 180 {
		t.Errorf("flowchart node_width = %d, want 180", g.Flowchart.NodeWidth)
	}
	// Values not named in the file keep their defaults.
	if g.Flowchart.NodeHeight != 80 {
		t.Errorf("flowchart node_height = %d, want 80", g.Flowchart.NodeHeight)
	}
	if g.ER.SpacingX != 300 {
		t.Errorf("er spacing_x = %d, want 300", g.ER.SpacingX)
	}
	if g.Sequence.SpacingX != 200 {
		t.Errorf("sequence spacing_x = %d, want 200", g.Sequence.SpacingX)
	}
}

func TestLoadGeometryMissingFile(t *testing.T) {
	_, err := LoadGeometry(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeInvalidConfig {
		t.Errorf("code = %v, want %v", code, errors.ErrCodeInvalidConfig)
	}
}

func TestLoadGeometryInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.toml")
	if err := os.WriteFile(path, []byte("[flowchart\nnode_width ="), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadGeometry(path)
	if err == nil {
		t.Fatal("expected error for malformed TOML")
	}
}
