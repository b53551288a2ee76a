package form

import (
	"testing"

	"github.com/soypat/wireframe"
	"github.com/soypat/wireframe/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestBuiltinMeshes(t *testing.T) {
	ring6, err := Ring(6)
	if err != nil {
		t.Fatal(err)
	}
	grid4, err := Grid(4)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name         string
		mesh         wireframe.Mesh
		verts, edges int
		maxComponent float64
	}{
		{"cube", Cube(), 8, 12, 1},
		{"tetrahedron", Tetrahedron(), 4, 6, 1},
		{"octahedron", Octahedron(), 6, 12, 1},
		{"pyramid", Pyramid(), 5, 8, 1},
		{"axes", Axes(), 4, 3, 1},
		{"ring:6", ring6, 6, 6, 1},
		{"grid:4", grid4, 20, 10, 1},
	} {
		if test.mesh.NumVertices() != test.verts || test.mesh.NumEdges() != test.edges {
			t.Errorf("%s: got %d vertices %d edges, want %d and %d", test.name,
				test.mesh.NumVertices(), test.mesh.NumEdges(), test.verts, test.edges)
		}
		bb := d3.Set(test.mesh.Vertices()).Bounds()
		if d3.Max(d3.MaxElem(bb.Max, r3.Scale(-1, bb.Min))) > test.maxComponent+1e-12 {
			t.Errorf("%s: bounds %v exceed unit cube", test.name, bb)
		}
		byName, err := ByName(test.name)
		if err != nil {
			t.Errorf("ByName(%q): %v", test.name, err)
			continue
		}
		if byName.NumEdges() != test.edges {
			t.Errorf("ByName(%q) returned a different mesh", test.name)
		}
	}
}

func TestByNameErrors(t *testing.T) {
	for _, name := range []string{"", "sphere", "cube:2", "ring:2", "ring:x", "grid:0", "teapot:1"} {
		if _, err := ByName(name); err == nil {
			t.Errorf("ByName(%q) expected error", name)
		}
	}
	if len(Names()) != 7 {
		t.Errorf("Names: %v", Names())
	}
}

func TestFractal(t *testing.T) {
	for depth, want := range []int{1, 7, 43, 259} {
		root, err := Fractal(Cube(), depth, 200)
		if err != nil {
			t.Fatal(err)
		}
		if got := root.Len(); got != want {
			t.Errorf("depth %d: got %d nodes, want %d", depth, got, want)
		}
	}
	root, _ := Fractal(Cube(), 2, 200)
	children := root.Children()
	if len(children) != 6 {
		t.Fatalf("got %d children", len(children))
	}
	if got := children[3].Origin(); got != (r3.Vec{Y: -200}) {
		t.Errorf("fourth child origin: got %v", got)
	}
	if got := children[0].Children()[4].Origin(); got != (r3.Vec{Z: 100}) {
		t.Errorf("grandchild origin: got %v", got)
	}
	if _, err := Fractal(Cube(), -1, 1); err == nil {
		t.Error("expected error for negative depth")
	}
	if _, err := Fractal(Cube(), 7, 1); err == nil {
		t.Error("expected error for large depth")
	}
}
