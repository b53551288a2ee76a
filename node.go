package wireframe

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrEdgeIndex is returned by NewMesh when an edge references a vertex that does not exist.
var ErrEdgeIndex = errors.New("edge index out of range")

// Mesh is wireframe geometry: an ordered list of local-space vertices and
// pairs of vertex indices joined by a line. A Mesh does not change after construction.
type Mesh struct {
	vertices []r3.Vec
	edges    [][2]int
}

// NewMesh validates edges against vertices and returns a Mesh holding copies of both.
func NewMesh(vertices []r3.Vec, edges [][2]int) (Mesh, error) {
	n := len(vertices)
	for i, e := range edges {
		if e[0] < 0 || e[0] >= n || e[1] < 0 || e[1] >= n {
			return Mesh{}, fmt.Errorf("edge %d (%d,%d) with %d vertices: %w", i, e[0], e[1], n, ErrEdgeIndex)
		}
	}
	m := Mesh{
		vertices: make([]r3.Vec, n),
		edges:    make([][2]int, len(edges)),
	}
	copy(m.vertices, vertices)
	copy(m.edges, edges)
	return m, nil
}

// MustMesh is like NewMesh but panics on invalid edges.
func MustMesh(vertices []r3.Vec, edges [][2]int) Mesh {
	m, err := NewMesh(vertices, edges)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// Vertices returns a copy of the mesh vertices.
func (m Mesh) Vertices() []r3.Vec {
	v := make([]r3.Vec, len(m.vertices))
	copy(v, m.vertices)
	return v
}

// Edges returns a copy of the mesh edges.
func (m Mesh) Edges() [][2]int {
	e := make([][2]int, len(m.edges))
	copy(e, m.edges)
	return e
}

// NumVertices returns the number of vertices in the mesh.
func (m Mesh) NumVertices() int { return len(m.vertices) }

// NumEdges returns the number of edges in the mesh.
func (m Mesh) NumEdges() int { return len(m.edges) }

// Node is a scene graph node: a Mesh plus a local rotation and origin,
// and an ordered list of child nodes it owns. A *Node is the handle
// callers keep to change the local transform between frames.
type Node struct {
	name     string
	mesh     Mesh
	rotation Mat3
	origin   r3.Vec
	parent   *Node
	children []*Node
}

// NewNode returns a node with identity rotation and zero origin.
// It panics if an edge references a vertex outside vertices.
func NewNode(vertices []r3.Vec, edges [][2]int) *Node {
	return NewNodeFromMesh(MustMesh(vertices, edges))
}

// NewNodeFromMesh returns a node drawing m with identity rotation and zero origin.
func NewNodeFromMesh(m Mesh) *Node {
	return &Node{mesh: m, rotation: Identity3()}
}

// SetRotation sets the node's local rotation and returns the node.
func (n *Node) SetRotation(rotation Mat3) *Node {
	n.rotation = rotation
	return n
}

// SetOrigin sets the node's local origin and returns the node.
func (n *Node) SetOrigin(origin r3.Vec) *Node {
	n.origin = origin
	return n
}

// SetName names the node for diagnostics and returns the node.
func (n *Node) SetName(name string) *Node {
	n.name = name
	return n
}

// AddChild appends child to the node's children and returns child.
// The node takes ownership of child. AddChild panics if child already
// has a parent or if attaching it would create a cycle.
func (n *Node) AddChild(child *Node) *Node {
	if child == nil {
		panic("nil child node")
	}
	if child.parent != nil {
		panic("node already has a parent")
	}
	for a := n; a != nil; a = a.parent {
		if a == child {
			panic("adding child would create a cycle")
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	return child
}

// Name returns the name set with SetName.
func (n *Node) Name() string { return n.name }

// Mesh returns the node's geometry.
func (n *Node) Mesh() Mesh { return n.mesh }

// Rotation returns the node's local rotation.
func (n *Node) Rotation() Mat3 { return n.rotation }

// Origin returns the node's local origin.
func (n *Node) Origin() r3.Vec { return n.origin }

// Parent returns the node's owner or nil for a root node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in attachment order.
// The returned slice is a copy; the nodes are not.
func (n *Node) Children() []*Node {
	c := make([]*Node, len(n.children))
	copy(c, n.children)
	return c
}

// Len returns the number of nodes in the subtree rooted at n, n included.
func (n *Node) Len() int {
	count := 1
	for _, c := range n.children {
		count += c.Len()
	}
	return count
}
