// Package tree lowers a finished derivation into an explicit node/edge
// graph, with trace nodes and movement edges standing in for the
// derivation's move steps, and renders that graph as DOT or LaTeX.
package tree

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/arashi-lang/mg/derivation"
	"github.com/arashi-lang/mg/feature"
)

// NodeKind tags the three shapes a tree node can take.
type NodeKind uint8

const (
	NodeComposite NodeKind = iota
	NodeLexical
	NodeTrace
)

// EdgeKind tags how a node relates to its parent.
type EdgeKind uint8

const (
	EdgeLeft EdgeKind = iota
	EdgeRight
	EdgeMove
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeLeft:
		return "L"
	case EdgeRight:
		return "R"
	case EdgeMove:
		return "move"
	default:
		return "?"
	}
}

// Node is one vertex of the lowered tree: a composite constituent, a
// lexical leaf, or a trace standing in for a moved constituent's
// original position.
type Node struct {
	ID       int
	Kind     NodeKind
	Form     string // lexical surface form, or the trace's display text
	Features string // rendered feature list (lexical) or remaining head chain (composite)
	TraceID  int    // valid when Kind == NodeTrace
	Grey     bool   // trace nodes and excorporated head-movement sites render grey
}

// Edge connects a parent node to a child. Move edges form cycles with
// the ordinary L/R edges when a node is both a trace's origin and (via a
// different path) an ancestor of its landing site, so the tree is stored
// as an index arena rather than an owning pointer structure.
type Edge struct {
	From, To int
	Kind     EdgeKind
}

// Tree is the lowered, explicit graph of a finished derivation.
type Tree struct {
	Nodes []*Node
	Edges []*Edge
	Root  int
	id    uuid.UUID

	// moverLanding maps a trace id to the node id holding that mover's
	// live content at its landing site; landingTrace is its inverse.
	// Both back NormalString/BaseString (see linearize.go).
	moverLanding map[int]int
	landingTrace map[int]int
}

// ID returns the tree's correlation identifier, minted when it was
// lowered from a derivation.
func (t *Tree) ID() uuid.UUID { return t.id }

// ErrImageRenderingUnsupported is returned by ToImage: rasterising a
// tree to an image is the out-of-scope "graph rendering to images"
// collaborator (see spec's non-goals); this method exists only so
// callers see the full method set of the public contract.
var ErrImageRenderingUnsupported = fmt.Errorf("tree: image rendering is not part of this engine")

// ToImage always fails with ErrImageRenderingUnsupported.
func (t *Tree) ToImage() ([]byte, error) {
	return nil, ErrImageRenderingUnsupported
}

type builder struct {
	in      *feature.Interner
	nodes   []*Node
	edges   []*Edge
	traceOf map[*derivation.State]int
	traceNd map[int]int
	landing map[int]int // trace id -> node id of the mover's live content
	next    int
}

// Lower builds a Tree from a finished derivation state.
func Lower(s *derivation.State, in *feature.Interner) *Tree {
	b := &builder{
		in:      in,
		traceOf: map[*derivation.State]int{},
		traceNd: map[int]int{},
		landing: map[int]int{},
	}
	b.collectMoveOrigins(s, map[*derivation.State]bool{})
	root := b.mint(s)
	id, err := uuid.NewRandom()
	if err != nil {
		id = uuid.Nil
	}
	landingTrace := make(map[int]int, len(b.landing))
	for tid, nodeID := range b.landing {
		landingTrace[nodeID] = tid
	}
	return &Tree{
		Nodes:        b.nodes,
		Edges:        b.edges,
		Root:         root,
		id:           id,
		moverLanding: b.landing,
		landingTrace: landingTrace,
	}
}

// collectMoveOrigins finds every subderivation that is ever the target
// of a Move step and assigns it a trace id. Because a mover chain
// re-enters the movers store under the same *derivation.State pointer
// (see derivation.MoverSlot), successive moves of one constituent are
// naturally keyed to the same trace id here without a separate
// union-find pass.
func (b *builder) collectMoveOrigins(s *derivation.State, seen map[*derivation.State]bool) {
	if s == nil || seen[s] {
		return
	}
	seen[s] = true
	switch s.Kind {
	case derivation.KindMerge:
		b.collectMoveOrigins(s.Host, seen)
		b.collectMoveOrigins(s.Selectee, seen)
	case derivation.KindMove:
		if _, ok := b.traceOf[s.Mover]; !ok {
			b.traceOf[s.Mover] = b.next
			b.next++
		}
		b.collectMoveOrigins(s.Pred, seen)
		b.collectMoveOrigins(s.Mover, seen)
	}
}

func (b *builder) addNode(n *Node) int {
	n.ID = len(b.nodes)
	b.nodes = append(b.nodes, n)
	return n.ID
}

func (b *builder) mint(s *derivation.State) int {
	switch s.Kind {
	case derivation.KindLexical:
		return b.mintLexical(s)
	case derivation.KindMerge:
		return b.mintMerge(s)
	case derivation.KindMove:
		return b.mintMove(s)
	default:
		return -1
	}
}

func (b *builder) mintLexical(s *derivation.State) int {
	form := s.Item.Form
	if form == "" {
		form = "ε" // epsilon, the empty-form display placeholder
	}
	return b.addNode(&Node{
		Kind:     NodeLexical,
		Form:     form,
		Features: feature.FormatAll(b.in, s.Item.Features),
	})
}

func (b *builder) mintMerge(s *derivation.State) int {
	hostNode := b.mint(s.Host)

	var selNode int
	if tid, isOrigin := b.traceOf[s.Selectee]; isOrigin {
		selNode = b.addNode(&Node{
			Kind:    NodeTrace,
			Form:    fmt.Sprintf("Trace(%d)", tid),
			TraceID: tid,
			Grey:    true,
		})
		b.traceNd[tid] = selNode
	} else {
		selNode = b.mint(s.Selectee)
	}

	id := b.addNode(&Node{
		Kind:     NodeComposite,
		Features: feature.FormatAll(b.in, s.Features),
	})

	switch s.Shape {
	case derivation.ShapeHeadLeft:
		b.edges = append(b.edges, &Edge{From: id, To: selNode, Kind: EdgeLeft})
		b.edges = append(b.edges, &Edge{From: id, To: hostNode, Kind: EdgeRight})
		b.edges = append(b.edges, &Edge{From: selNode, To: hostNode, Kind: EdgeMove})
		b.nodes[selNode].Grey = true
	case derivation.ShapeHeadRight:
		b.edges = append(b.edges, &Edge{From: id, To: hostNode, Kind: EdgeLeft})
		b.edges = append(b.edges, &Edge{From: id, To: selNode, Kind: EdgeRight})
		b.edges = append(b.edges, &Edge{From: selNode, To: hostNode, Kind: EdgeMove})
		b.nodes[selNode].Grey = true
	default:
		b.edges = append(b.edges, &Edge{From: id, To: hostNode, Kind: EdgeLeft})
		b.edges = append(b.edges, &Edge{From: id, To: selNode, Kind: EdgeRight})
	}

	return id
}

func (b *builder) mintMove(s *derivation.State) int {
	predNode := b.mint(s.Pred) // mint first: ensures the base merge site's trace node already exists
	moverNode := b.mint(s.Mover)

	id := b.addNode(&Node{
		Kind:     NodeComposite,
		Features: feature.FormatAll(b.in, s.Features),
	})
	b.edges = append(b.edges, &Edge{From: id, To: moverNode, Kind: EdgeLeft})
	b.edges = append(b.edges, &Edge{From: id, To: predNode, Kind: EdgeRight})

	if tid, ok := b.traceOf[s.Mover]; ok {
		b.landing[tid] = moverNode
		if traceNode, ok := b.traceNd[tid]; ok {
			b.edges = append(b.edges, &Edge{From: traceNode, To: moverNode, Kind: EdgeMove})
		}
	}

	return id
}
