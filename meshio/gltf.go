package meshio

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/soypat/wireframe"
	"gonum.org/v1/gonum/spatial/r3"
)

// LoadGLTF opens a .gltf or .glb file and converts its default scene.
func LoadGLTF(path string) (*wireframe.Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return FromGLTF(doc)
}

// DecodeGLTF decodes a self contained glTF or GLB stream and converts its
// default scene.
func DecodeGLTF(r io.Reader) (*wireframe.Node, error) {
	doc := &gltf.Document{}
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, errors.Wrapf(err, "Failed to read gltf")
	}
	return FromGLTF(doc)
}

// FromGLTF converts the default scene of doc into a node tree. A scene with a
// single top level node maps onto that node, otherwise an empty root holds
// every top level node as a child.
//
// Node translation becomes the node origin and the rotation quaternion
// becomes the node rotation. Scale is baked into the node's own vertices.
// Origins are used by Draw as they are, in surface units, while vertices are
// multiplied by the draw size of their depth. A child translated by one
// model unit therefore lands one pixel from its parent: use ScaleOrigins to
// bring translations to the scene's size.
// Triangle primitives contribute their sides, line primitives their
// segments and point primitives only their vertices.
func FromGLTF(doc *gltf.Document) (*wireframe.Node, error) {
	if len(doc.Scenes) == 0 {
		return nil, errors.New("gltf document has no scenes")
	}
	scene := 0
	if doc.Scene != nil {
		scene = int(*doc.Scene)
	}
	if scene >= len(doc.Scenes) {
		return nil, errors.Errorf("default scene %d out of range", scene)
	}
	c := gltfConverter{doc: doc, used: make(map[uint32]bool)}
	top := doc.Scenes[scene].Nodes
	if len(top) == 1 {
		return c.node(top[0])
	}
	root := wireframe.NewNode(nil, nil).SetName(doc.Scenes[scene].Name)
	for _, idx := range top {
		child, err := c.node(idx)
		if err != nil {
			return nil, err
		}
		root.AddChild(child)
	}
	return root, nil
}

// ScaleOrigins multiplies the origin of every node under root, root included,
// by k.
func ScaleOrigins(root *wireframe.Node, k float64) {
	root.SetOrigin(r3.Scale(k, root.Origin()))
	for _, c := range root.Children() {
		ScaleOrigins(c, k)
	}
}

type gltfConverter struct {
	doc  *gltf.Document
	used map[uint32]bool
}

func (c *gltfConverter) node(idx uint32) (*wireframe.Node, error) {
	if int(idx) >= len(c.doc.Nodes) {
		return nil, errors.Errorf("node index %d out of range", idx)
	}
	// glTF nodes form a forest: a node referenced twice is either shared
	// or part of a cycle.
	if c.used[idx] {
		return nil, errors.Errorf("node %d referenced more than once", idx)
	}
	c.used[idx] = true

	gn := c.doc.Nodes[idx]
	name := gn.Name
	if name == "" {
		name = fmt.Sprintf("node%d", idx)
	}
	var (
		verts []r3.Vec
		edges [][2]int
	)
	if gn.Mesh != nil {
		var err error
		verts, edges, err = c.mesh(*gn.Mesh)
		if err != nil {
			return nil, errors.Wrapf(err, "node %q", name)
		}
	}
	scale := r3.Vec{X: 1, Y: 1, Z: 1}
	if gn.Scale != ([3]float32{}) {
		scale = r3.Vec{X: float64(gn.Scale[0]), Y: float64(gn.Scale[1]), Z: float64(gn.Scale[2])}
	}
	for i, v := range verts {
		verts[i] = r3.Vec{X: v.X * scale.X, Y: v.Y * scale.Y, Z: v.Z * scale.Z}
	}
	mesh, err := wireframe.NewMesh(verts, edges)
	if err != nil {
		return nil, errors.Wrapf(err, "node %q", name)
	}
	n := wireframe.NewNodeFromMesh(mesh).SetName(name)
	rot, origin := nodeTransform(gn)
	n.SetRotation(rot).SetOrigin(origin)
	for _, ci := range gn.Children {
		child, err := c.node(ci)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

// nodeTransform extracts rotation and translation from a node's TRS
// properties, or from its matrix when TRS is absent.
func nodeTransform(gn *gltf.Node) (wireframe.Mat3, r3.Vec) {
	m := gn.Matrix
	if m != ([16]float32{}) && m != identity4 {
		// Column-major with translation in the last column. Columns are
		// normalized to discard scale.
		var cols [3]r3.Vec
		for j := range cols {
			cols[j] = r3.Unit(r3.Vec{X: float64(m[4*j]), Y: float64(m[4*j+1]), Z: float64(m[4*j+2])})
		}
		return matFromColumns(cols), r3.Vec{X: float64(m[12]), Y: float64(m[13]), Z: float64(m[14])}
	}
	origin := r3.Vec{X: float64(gn.Translation[0]), Y: float64(gn.Translation[1]), Z: float64(gn.Translation[2])}
	q := gn.Rotation
	if q == ([4]float32{}) {
		return wireframe.Identity3(), origin
	}
	quat := mgl64.Quat{
		W: float64(q[3]),
		V: mgl64.Vec3{float64(q[0]), float64(q[1]), float64(q[2])},
	}.Normalize()
	var cols [3]r3.Vec
	for j, axis := range []mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		c := quat.Rotate(axis)
		cols[j] = r3.Vec{X: c[0], Y: c[1], Z: c[2]}
	}
	return matFromColumns(cols), origin
}

var identity4 = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func matFromColumns(c [3]r3.Vec) wireframe.Mat3 {
	return wireframe.NewMat3([]float64{
		c[0].X, c[1].X, c[2].X,
		c[0].Y, c[1].Y, c[2].Y,
		c[0].Z, c[1].Z, c[2].Z,
	})
}

// mesh gathers the vertices and unique edges of every primitive of a mesh.
func (c *gltfConverter) mesh(idx uint32) ([]r3.Vec, [][2]int, error) {
	if int(idx) >= len(c.doc.Meshes) {
		return nil, nil, errors.Errorf("mesh index %d out of range", idx)
	}
	var (
		verts []r3.Vec
		edges [][2]int
		seen  = make(map[[2]int]bool)
	)
	addEdge := func(a, b int) {
		if a == b {
			return
		}
		if a > b {
			a, b = b, a
		}
		e := [2]int{a, b}
		if !seen[e] {
			seen[e] = true
			edges = append(edges, e)
		}
	}
	for pi, primitive := range c.doc.Meshes[idx].Primitives {
		pos, ok := primitive.Attributes["POSITION"]
		if !ok {
			return nil, nil, errors.Errorf("primitive %d has no POSITION attribute", pi)
		}
		if int(pos) >= len(c.doc.Accessors) {
			return nil, nil, errors.Errorf("primitive %d position accessor out of range", pi)
		}
		positions, err := modeler.ReadPosition(c.doc, c.doc.Accessors[pos], nil)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "Failed to read mesh vertices")
		}
		var indices []uint32
		if primitive.Indices != nil {
			if int(*primitive.Indices) >= len(c.doc.Accessors) {
				return nil, nil, errors.Errorf("primitive %d index accessor out of range", pi)
			}
			indices, err = modeler.ReadIndices(c.doc, c.doc.Accessors[*primitive.Indices], nil)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "Failed to read mesh indices")
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}
		offset := len(verts)
		for _, p := range positions {
			verts = append(verts, r3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])})
		}
		at := func(i int) (int, error) {
			if int(indices[i]) >= len(positions) {
				return 0, errors.Errorf("primitive %d index %d out of range", pi, indices[i])
			}
			return offset + int(indices[i]), nil
		}
		var pairs [][2]int
		n := len(indices)
		switch primitive.Mode {
		case gltf.PrimitivePoints:
		case gltf.PrimitiveLines:
			for i := 0; i+1 < n; i += 2 {
				pairs = append(pairs, [2]int{i, i + 1})
			}
		case gltf.PrimitiveLineStrip, gltf.PrimitiveLineLoop:
			for i := 0; i+1 < n; i++ {
				pairs = append(pairs, [2]int{i, i + 1})
			}
			if primitive.Mode == gltf.PrimitiveLineLoop && n > 2 {
				pairs = append(pairs, [2]int{n - 1, 0})
			}
		case gltf.PrimitiveTriangles:
			for i := 0; i+2 < n; i += 3 {
				pairs = append(pairs, [2]int{i, i + 1}, [2]int{i + 1, i + 2}, [2]int{i + 2, i})
			}
		case gltf.PrimitiveTriangleStrip:
			for i := 0; i+1 < n; i++ {
				pairs = append(pairs, [2]int{i, i + 1})
				if i+2 < n {
					pairs = append(pairs, [2]int{i, i + 2})
				}
			}
		case gltf.PrimitiveTriangleFan:
			for i := 1; i < n; i++ {
				pairs = append(pairs, [2]int{0, i})
				if i+1 < n {
					pairs = append(pairs, [2]int{i, i + 1})
				}
			}
		default:
			return nil, nil, errors.Errorf("primitive %d has unsupported mode %v", pi, primitive.Mode)
		}
		for _, p := range pairs {
			a, err := at(p[0])
			if err != nil {
				return nil, nil, err
			}
			b, err := at(p[1])
			if err != nil {
				return nil, nil, err
			}
			addEdge(a, b)
		}
	}
	return verts, edges, nil
}
