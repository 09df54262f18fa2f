// Package drawio serializes laid-out diagrams to the draw.io interchange
// format: an mxfile envelope holding one page per diagram, each page an
// mxGraphModel with a fixed root layer, one vertex cell per node, and one
// edge cell per edge.
//
// The document model mirrors the XML structure one to one, so marshaling is
// a plain encoding/xml pass. Structured node and edge styles are turned into
// mxGraph style strings only here, at the output boundary; nothing upstream
// ever handles style text.
package drawio

import "encoding/xml"

// File is the mxfile document envelope. Pages are serialized in order; their
// ids are assigned by [NewDocument].
type File struct {
	XMLName  xml.Name `xml:"mxfile"`
	Host     string   `xml:"host,attr"`
	Modified string   `xml:"modified,attr"`
	Agent    string   `xml:"agent,attr"`
	Etag     string   `xml:"etag,attr"`
	Version  string   `xml:"version,attr"`
	Pages    []Page   `xml:"diagram"`
}

// Page is one diagram element. Every page carries its own graph model with an
// independent cell id namespace.
type Page struct {
	ID    string     `xml:"id,attr"`
	Name  string     `xml:"name,attr"`
	Model GraphModel `xml:"mxGraphModel"`
}

// GraphModel is the mxGraphModel element with the canvas attributes a fresh
// editor document carries.
type GraphModel struct {
	Dx         int  `xml:"dx,attr"`
	Dy         int  `xml:"dy,attr"`
	Grid       int  `xml:"grid,attr"`
	GridSize   int  `xml:"gridSize,attr"`
	Guides     int  `xml:"guides,attr"`
	Tooltips   int  `xml:"tooltips,attr"`
	Connect    int  `xml:"connect,attr"`
	Arrows     int  `xml:"arrows,attr"`
	Fold       int  `xml:"fold,attr"`
	Page       int  `xml:"page,attr"`
	PageScale  int  `xml:"pageScale,attr"`
	PageWidth  int  `xml:"pageWidth,attr"`
	PageHeight int  `xml:"pageHeight,attr"`
	Math       int  `xml:"math,attr"`
	Shadow     int  `xml:"shadow,attr"`
	Root       Root `xml:"root"`
}

// Root holds the cell list: the two fixed cells (root "0" and default layer
// "1") followed by vertices and edges.
type Root struct {
	Cells []Cell `xml:"mxCell"`
}

// Cell is one mxCell. Value is a pointer so the fixed root cells omit the
// attribute entirely while vertices and edges keep value="" for empty
// labels.
type Cell struct {
	ID       string    `xml:"id,attr"`
	Value    *string   `xml:"value,attr"`
	Style    string    `xml:"style,attr,omitempty"`
	Vertex   string    `xml:"vertex,attr,omitempty"`
	Edge     string    `xml:"edge,attr,omitempty"`
	Parent   string    `xml:"parent,attr,omitempty"`
	Source   string    `xml:"source,attr,omitempty"`
	Target   string    `xml:"target,attr,omitempty"`
	Geometry *Geometry `xml:"mxGeometry"`
}

// Geometry is an mxGeometry element: a rectangle for vertices, a bare
// relative marker for edges. Coordinates are kept as strings so zero values
// still serialize while edge geometries omit them.
type Geometry struct {
	X        string `xml:"x,attr,omitempty"`
	Y        string `xml:"y,attr,omitempty"`
	Width    string `xml:"width,attr,omitempty"`
	Height   string `xml:"height,attr,omitempty"`
	Relative string `xml:"relative,attr,omitempty"`
	As       string `xml:"as,attr"`
}

// newGraphModel wraps cells in a model with the default canvas attributes.
// Page dimensions are A4 portrait, matching the layout engine's centering
// canvas.
func newGraphModel(cells []Cell) GraphModel {
	return GraphModel{
		Dx:         1422,
		Dy:         794,
		Grid:       1,
		GridSize:   10,
		Guides:     1,
		Tooltips:   1,
		Connect:    1,
		Arrows:     1,
		Fold:       1,
		Page:       1,
		PageScale:  1,
		PageWidth:  827,
		PageHeight: 1169,
		Math:       0,
		Shadow:     0,
		Root:       Root{Cells: cells},
	}
}
