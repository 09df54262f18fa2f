// Package diagram defines the in-memory graph model shared by all diagram
// kinds: ordered node and edge collections, structured cosmetic styles, and
// the per-diagram id allocator.
//
// A Diagram is built once by an extractor (pkg/mermaid), consumed once by the
// layout engine (pkg/layout) and the serializer (pkg/drawio), then discarded.
// Nothing in this package is shared across diagrams: each Diagram owns its own
// Allocator, so independent diagrams can be processed concurrently and ids
// deliberately repeat across pages.
package diagram

import "fmt"

// Kind identifies the diagram type a source was classified as.
type Kind int

const (
	// Flowchart is the default kind when no other keyword matches.
	Flowchart Kind = iota
	// Sequence is a participant/message diagram.
	Sequence
	// ER is an entity-relationship diagram.
	ER
	// State is a state-transition diagram.
	State
)

// String returns the lowercase kind name used in logs and cache keys.
func (k Kind) String() string {
	switch k {
	case Sequence:
		return "sequence"
	case ER:
		return "er"
	case State:
		return "state"
	default:
		return "flowchart"
	}
}

// Direction is the flow direction of a flowchart, taken from its
// type-declaration line. Only flowcharts carry a direction; the zero value
// TopDown is the default.
type Direction int

const (
	// TopDown stacks levels as horizontal rows, top to bottom (TD/TB).
	TopDown Direction = iota
	// LeftRight stacks levels as vertical columns, left to right (LR).
	LeftRight
	// RightLeft is laid out on the same axis as LeftRight (RL).
	RightLeft
	// BottomTop is laid out on the same axis as TopDown (BT).
	BottomTop
)

// String returns the two-letter direction token.
func (d Direction) String() string {
	switch d {
	case LeftRight:
		return "LR"
	case RightLeft:
		return "RL"
	case BottomTop:
		return "BT"
	default:
		return "TD"
	}
}

// Horizontal reports whether levels advance along the x axis
// (LR/RL flow) rather than the y axis (TD/BT flow).
func (d Direction) Horizontal() bool {
	return d == LeftRight || d == RightLeft
}

// Node is a vertex in the diagram graph.
//
// Identity is the source-level Name (case-sensitive, unique within one
// diagram); ID is the generated "node<N>" identifier used by edges and the
// interchange output. Attributes is populated only for ER entities and
// preserves source order.
type Node struct {
	ID         string    // generated id, "node1", "node2", ...
	Name       string    // source-level name, deduplication key
	Label      string    // display label (defaults to Name)
	Style      NodeStyle // structured cosmetic style
	Attributes []string  // ER attribute lines, in source order
}

// Edge is a directed connection between two nodes of the same diagram.
// From and To are generated node ids and always resolve: edges can only be
// created through [Diagram.AddEdge], which takes the node values themselves.
type Edge struct {
	ID    string // generated id, "edge1", "edge2", ...
	From  string // source node id
	To    string // target node id
	Label string // edge label, possibly empty
	Style EdgeStyle
}

// Allocator hands out monotonically increasing node and edge ids.
//
// Each Diagram owns one Allocator value, created fresh by [New]; counters
// start at 1 and are never shared between diagrams.
type Allocator struct {
	node int
	edge int
}

// NextNode returns the next node id ("node1", "node2", ...).
func (a *Allocator) NextNode() string {
	a.node++
	return fmt.Sprintf("node%d", a.node)
}

// NextEdge returns the next edge id ("edge1", "edge2", ...).
func (a *Allocator) NextEdge() string {
	a.edge++
	return fmt.Sprintf("edge%d", a.edge)
}

// Diagram is the fully extracted graph for one diagram source: an ordered,
// name-keyed node collection plus an ordered edge list.
//
// Node order is first-seen order and edge order is source-text discovery
// order; both orders are significant. Node order determines the tie-break for
// same-level siblings during layout, edge order determines rendering order.
//
// Diagram is not safe for concurrent use; it is built and consumed by a
// single goroutine per conversion.
type Diagram struct {
	Kind      Kind
	Direction Direction

	nodes  []*Node
	byName map[string]*Node
	edges  []*Edge
	ids    Allocator
}

// New creates an empty diagram of the given kind with a fresh id allocator.
func New(kind Kind) *Diagram {
	return &Diagram{
		Kind:   kind,
		byName: make(map[string]*Node),
	}
}

// EnsureNode returns the node registered under name, creating it on first
// sight with the given label and style. Creation assigns the next node id.
//
// EnsureNode never fails: referencing an undeclared name registers it, which
// is how extractors auto-register message endpoints and relationship
// entities. The returned pointer is the live node; callers may update its
// Label, Style, or Attributes in place.
func (d *Diagram) EnsureNode(name, label string, style NodeStyle) *Node {
	if n, ok := d.byName[name]; ok {
		return n
	}
	n := &Node{
		ID:    d.ids.NextNode(),
		Name:  name,
		Label: label,
		Style: style,
	}
	d.nodes = append(d.nodes, n)
	d.byName[name] = n
	return n
}

// Node returns the node registered under name and true, or nil and false.
func (d *Diagram) Node(name string) (*Node, bool) {
	n, ok := d.byName[name]
	return n, ok
}

// AddEdge appends a directed edge between two registered nodes, assigning the
// next edge id. The append order is the discovery order later used by layout
// and serialization.
func (d *Diagram) AddEdge(from, to *Node, label string, style EdgeStyle) *Edge {
	e := &Edge{
		ID:    d.ids.NextEdge(),
		From:  from.ID,
		To:    to.ID,
		Label: label,
		Style: style,
	}
	d.edges = append(d.edges, e)
	return e
}

// Nodes returns all nodes in first-seen order.
// The returned slice contains pointers to the actual node structs.
func (d *Diagram) Nodes() []*Node { return d.nodes }

// Edges returns all edges in discovery order.
func (d *Diagram) Edges() []*Edge { return d.edges }

// NodeCount returns the number of distinct nodes.
func (d *Diagram) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges.
func (d *Diagram) EdgeCount() int { return len(d.edges) }
