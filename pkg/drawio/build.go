package drawio

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/drawbridge/pkg/diagram"
	"github.com/matzehuels/drawbridge/pkg/errors"
	"github.com/matzehuels/drawbridge/pkg/layout"
)

const (
	hostName      = "app.diagrams.net"
	agentName     = "drawbridge"
	formatVersion = "22.1.0"
)

// Options pins the volatile parts of the document envelope. Zero values pick
// the current time and a random etag; tests set both for byte-stable output.
type Options struct {
	Modified time.Time
	Etag     string
}

// BuildPage assembles one page from a diagram and its computed positions.
// Cell order is fixed: the two root cells, then vertices in first-seen order,
// then edges in discovery order. The page id is provisional until the page
// joins a document.
func BuildPage(d *diagram.Diagram, pos map[string]layout.Position, name string) Page {
	cells := make([]Cell, 0, d.NodeCount()+d.EdgeCount()+2)
	cells = append(cells,
		Cell{ID: "0"},
		Cell{ID: "1", Parent: "0"},
	)

	for _, n := range d.Nodes() {
		p := pos[n.ID]
		label := nodeLabel(d.Kind, n)
		cells = append(cells, Cell{
			ID:     n.ID,
			Value:  &label,
			Style:  vertexStyle(n.Style),
			Vertex: "1",
			Parent: "1",
			Geometry: &Geometry{
				X:      strconv.Itoa(p.X),
				Y:      strconv.Itoa(p.Y),
				Width:  strconv.Itoa(p.W),
				Height: strconv.Itoa(p.H),
				As:     "geometry",
			},
		})
	}

	for _, e := range d.Edges() {
		label := e.Label
		cells = append(cells, Cell{
			ID:       e.ID,
			Value:    &label,
			Style:    edgeStyle(d.Kind, e.Style),
			Edge:     "1",
			Parent:   "1",
			Source:   e.From,
			Target:   e.To,
			Geometry: &Geometry{Relative: "1", As: "geometry"},
		})
	}

	return Page{ID: "diagram1", Name: name, Model: newGraphModel(cells)}
}

// nodeLabel renders a node's display label. ER entities stack their
// attribute lines under the entity name, one per line.
func nodeLabel(kind diagram.Kind, n *diagram.Node) string {
	if kind == diagram.ER && len(n.Attributes) > 0 {
		return n.Label + "\n" + strings.Join(n.Attributes, "\n")
	}
	return n.Label
}

// NewDocument wraps pages in an mxfile envelope, renumbering page ids
// sequentially from "diagram1". Each page keeps its own node and edge id
// namespace.
func NewDocument(pages []Page, opts Options) *File {
	modified := opts.Modified
	if modified.IsZero() {
		modified = time.Now()
	}
	etag := opts.Etag
	if etag == "" {
		etag = uuid.NewString()
	}

	f := &File{
		Host:     hostName,
		Modified: modified.UTC().Format("2006-01-02T15:04:05.000Z"),
		Agent:    agentName,
		Etag:     etag,
		Version:  formatVersion,
		Pages:    pages,
	}
	for i := range f.Pages {
		f.Pages[i].ID = fmt.Sprintf("diagram%d", i+1)
	}
	return f
}

// Marshal pretty-prints the document with two-space indentation behind an
// XML declaration. Output is deterministic for a given document.
func Marshal(f *File) ([]byte, error) {
	data, err := xml.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal document")
	}
	out := make([]byte, 0, len(xml.Header)+len(data)+1)
	out = append(out, xml.Header...)
	out = append(out, data...)
	out = append(out, '\n')
	return out, nil
}
