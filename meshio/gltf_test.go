package meshio_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/soypat/wireframe"
	"github.com/soypat/wireframe/internal/d3"
	"github.com/soypat/wireframe/meshio"
	"gonum.org/v1/gonum/spatial/r3"
)

// quadDocument returns a document whose scene holds a unit quad node with a
// rotated, translated and scaled child sharing the same mesh.
func quadDocument() *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Mode:       gltf.PrimitiveTriangles,
			Indices:    gltf.Index(idx),
			Attributes: map[string]uint32{"POSITION": pos},
		}},
	})
	s := float32(math.Sqrt2 / 2)
	doc.Nodes = append(doc.Nodes,
		&gltf.Node{Name: "root", Mesh: gltf.Index(0), Children: []uint32{1}},
		&gltf.Node{
			Name:        "child",
			Mesh:        gltf.Index(0),
			Translation: [3]float32{2, 0, 0},
			Rotation:    [4]float32{0, 0, s, s},
			Scale:       [3]float32{2, 2, 2},
		},
	)
	doc.Scenes[0].Nodes = []uint32{0}
	return doc
}

func checkQuadTree(t *testing.T, root *wireframe.Node) {
	t.Helper()
	if root.Name() != "root" || root.Len() != 2 {
		t.Fatalf("got root %q with %d nodes, want root with 2", root.Name(), root.Len())
	}
	m := root.Mesh()
	if m.NumVertices() != 4 || m.NumEdges() != 5 {
		t.Errorf("quad has %d vertices and %d edges, want 4 and 5", m.NumVertices(), m.NumEdges())
	}
	if !root.Rotation().EqualWithin(wireframe.Identity3(), 0) {
		t.Errorf("root rotation should be identity, got %v", root.Rotation())
	}
	child := root.Children()[0]
	if !d3.EqualWithin(child.Origin(), r3.Vec{X: 2}, 1e-6) {
		t.Errorf("child origin %v, want (2,0,0)", child.Origin())
	}
	got := child.Rotation().MulVec(r3.Vec{X: 1})
	if !d3.EqualWithin(got, r3.Vec{Y: 1}, 1e-6) {
		t.Errorf("child rotation maps X to %v, want Y", got)
	}
	v := child.Mesh().Vertices()
	if !d3.EqualWithin(v[2], r3.Vec{X: 2, Y: 2}, 1e-6) {
		t.Errorf("child scale not baked into vertices: %v", v[2])
	}
}

func TestFromGLTF(t *testing.T) {
	root, err := meshio.FromGLTF(quadDocument())
	if err != nil {
		t.Fatal(err)
	}
	checkQuadTree(t, root)
}

func TestScaleOrigins(t *testing.T) {
	root, err := meshio.FromGLTF(quadDocument())
	if err != nil {
		t.Fatal(err)
	}
	meshio.ScaleOrigins(root, 50)
	child := root.Children()[0]
	if !d3.EqualWithin(child.Origin(), r3.Vec{X: 100}, 1e-4) {
		t.Errorf("scaled child origin %v, want (100,0,0)", child.Origin())
	}
	if root.Origin() != (r3.Vec{}) {
		t.Errorf("zero root origin changed to %v", root.Origin())
	}
	// The rotated child quad spans 50 units to the left of its origin, so
	// it touches the root quad edge at x=50 instead of covering it.
	proj := root.Project(50)
	childMin, rootMax := d3.Set(proj[1].Points).Min().X, d3.Set(proj[0].Points).Max().X
	if childMin < rootMax-1e-3 {
		t.Errorf("scaled child starts at x=%g inside its parent ending at x=%g", childMin, rootMax)
	}
}

func TestDecodeGLB(t *testing.T) {
	var b bytes.Buffer
	enc := gltf.NewEncoder(&b)
	enc.AsBinary = true
	if err := enc.Encode(quadDocument()); err != nil {
		t.Fatal(err)
	}
	root, err := meshio.DecodeGLTF(&b)
	if err != nil {
		t.Fatal(err)
	}
	checkQuadTree(t, root)
}

func TestGLTFLinesAndSceneRoot(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Primitives: []*gltf.Primitive{{
			Mode:       gltf.PrimitiveLineStrip,
			Attributes: map[string]uint32{"POSITION": pos},
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Mesh: gltf.Index(0)}, &gltf.Node{Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = []uint32{0, 1}
	root, err := meshio.FromGLTF(doc)
	if err != nil {
		t.Fatal(err)
	}
	if root.Mesh().NumVertices() != 0 || len(root.Children()) != 2 {
		t.Fatalf("expected empty root with 2 children")
	}
	for _, c := range root.Children() {
		if c.Mesh().NumEdges() != 2 {
			t.Errorf("line strip of 3 points should have 2 edges, got %d", c.Mesh().NumEdges())
		}
	}

	// Referencing a node twice cannot map onto an owned tree.
	doc.Nodes[0].Children = []uint32{1}
	if _, err = meshio.FromGLTF(doc); err == nil {
		t.Error("expected error for node referenced twice")
	}
	if _, err = meshio.FromGLTF(&gltf.Document{}); err == nil {
		t.Error("expected error for document without scenes")
	}
}
