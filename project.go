package wireframe

import (
	"github.com/soypat/wireframe/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Surface receives the 2D output of a Draw call. Implementations own
// rasterization and any IO; both methods are infallible from the
// point of view of the scene graph.
type Surface interface {
	// DrawMarker draws a small square centered on a projected vertex.
	DrawMarker(center r2.Vec)
	// DrawLine draws a line between two projected vertices.
	DrawLine(a, b r2.Vec)
}

// Projection is the projected geometry of a single node during a traversal.
type Projection struct {
	Node *Node
	// Depth is 0 for the node the traversal started at.
	Depth int
	// Size is the scale applied to the node's vertices. It halves with every level.
	Size float64
	// Points holds the projected vertices in mesh vertex order.
	// Only X and Y are used for drawing.
	Points []r3.Vec
}

// Draw projects the subtree rooted at n and draws it onto s. Vertices of
// n are scaled by size, vertices of its children by size/2 and so on.
// For every node, in pre-order, a marker is drawn for each vertex and then a
// line for each edge, after which its children are drawn in attachment order.
func (n *Node) Draw(s Surface, size float64) {
	n.Walk(size, func(p Projection) error {
		for _, pt := range p.Points {
			s.DrawMarker(d3.XY(pt))
		}
		for _, e := range p.Node.mesh.edges {
			s.DrawLine(d3.XY(p.Points[e[0]]), d3.XY(p.Points[e[1]]))
		}
		return nil
	})
}

// Project returns the projection of every node in the subtree rooted at n, in pre-order.
func (n *Node) Project(size float64) []Projection {
	out := make([]Projection, 0, n.Len())
	n.Walk(size, func(p Projection) error {
		p.Points = append([]r3.Vec(nil), p.Points...)
		out = append(out, p)
		return nil
	})
	return out
}

// Walk calls fn with the projection of every node in the subtree rooted at n,
// in the same order Draw visits them. The Points slice passed to fn is reused
// between calls and must not be retained. Walk stops at and returns the first
// non-nil error returned by fn.
func (n *Node) Walk(size float64, fn func(Projection) error) error {
	w := walker{visit: fn}
	return w.root(n, size)
}

type walker struct {
	buf   []r3.Vec
	visit func(Projection) error
}

func (w *walker) points(n int) []r3.Vec {
	if cap(w.buf) < n {
		w.buf = make([]r3.Vec, n)
	}
	return w.buf[:n]
}

// root projects the node the traversal starts at. It has no accumulated
// transform so its vertices are rotated about their own origin and translated.
func (w *walker) root(n *Node, size float64) error {
	pts := w.points(len(n.mesh.vertices))
	for i, v := range n.mesh.vertices {
		pts[i] = r3.Add(n.rotation.MulVec(r3.Scale(size, v)), n.origin)
	}
	err := w.visit(Projection{Node: n, Size: size, Points: pts})
	if err != nil {
		return err
	}
	for _, c := range n.children {
		err = w.child(c, n.rotation, n.origin, size/2, 1)
		if err != nil {
			return err
		}
	}
	return nil
}

// child projects a descendant. The accumulated parent rotation is applied
// with the node's own origin as pivot, then the node's rotation about that
// same pivot, and the result is translated by the accumulated parent origin.
// This makes children placed away from the root orbit it instead of spinning in place.
func (w *walker) child(n *Node, parentRot Mat3, parentOrigin r3.Vec, size float64, depth int) error {
	pts := w.points(len(n.mesh.vertices))
	for i, v := range n.mesh.vertices {
		p := r3.Add(r3.Scale(size, v), n.origin)
		p = r3.Sub(parentRot.MulVec(p), n.origin)
		p = r3.Add(n.rotation.MulVec(p), n.origin)
		pts[i] = r3.Add(p, parentOrigin)
	}
	err := w.visit(Projection{Node: n, Depth: depth, Size: size, Points: pts})
	if err != nil {
		return err
	}
	rot := n.rotation.Mul(parentRot)
	origin := r3.Add(n.origin, parentOrigin)
	for _, c := range n.children {
		err = w.child(c, rot, origin, size/2, depth+1)
		if err != nil {
			return err
		}
	}
	return nil
}
