package form

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/soypat/wireframe"
	"gonum.org/v1/gonum/spatial/r3"
)

// Cube returns a cube with corners at ±1 and its 12 edges.
func Cube() wireframe.Mesh {
	return wireframe.MustMesh([]r3.Vec{
		{X: -1, Y: -1, Z: 1},
		{X: -1, Y: 1, Z: 1},
		{X: 1, Y: -1, Z: 1},
		{X: 1, Y: 1, Z: 1},

		{X: -1, Y: -1, Z: -1},
		{X: -1, Y: 1, Z: -1},
		{X: 1, Y: -1, Z: -1},
		{X: 1, Y: 1, Z: -1},
	}, [][2]int{
		{0, 1}, {1, 3}, {3, 2}, {2, 0},
		{4, 5}, {5, 7}, {7, 6}, {6, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	})
}

// Tetrahedron returns a regular tetrahedron inscribed in the ±1 cube.
func Tetrahedron() wireframe.Mesh {
	return wireframe.MustMesh([]r3.Vec{
		{X: 1, Y: 1, Z: 1},
		{X: 1, Y: -1, Z: -1},
		{X: -1, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: 1},
	}, [][2]int{
		{0, 1}, {0, 2}, {0, 3},
		{1, 2}, {1, 3}, {2, 3},
	})
}

// Octahedron returns an octahedron with vertices on the axes at distance 1.
func Octahedron() wireframe.Mesh {
	return wireframe.MustMesh([]r3.Vec{
		{X: 1}, {X: -1},
		{Y: 1}, {Y: -1},
		{Z: 1}, {Z: -1},
	}, [][2]int{
		{0, 2}, {0, 3}, {0, 4}, {0, 5},
		{1, 2}, {1, 3}, {1, 4}, {1, 5},
		{2, 4}, {4, 3}, {3, 5}, {5, 2},
	})
}

// Pyramid returns a square pyramid with its base on y=1 and apex at y=-1.
// Screen Y grows downwards so the apex points up when drawn unrotated.
func Pyramid() wireframe.Mesh {
	return wireframe.MustMesh([]r3.Vec{
		{X: -1, Y: 1, Z: -1},
		{X: 1, Y: 1, Z: -1},
		{X: 1, Y: 1, Z: 1},
		{X: -1, Y: 1, Z: 1},
		{Y: -1},
	}, [][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{0, 4}, {1, 4}, {2, 4}, {3, 4},
	})
}

// Axes returns the three unit axis segments starting at the origin.
func Axes() wireframe.Mesh {
	return wireframe.MustMesh([]r3.Vec{
		{}, {X: 1}, {Y: 1}, {Z: 1},
	}, [][2]int{
		{0, 1}, {0, 2}, {0, 3},
	})
}

// Ring returns a closed regular polygon of n sides with radius 1 in the XY plane.
func Ring(n int) (wireframe.Mesh, error) {
	if n < 3 {
		return wireframe.Mesh{}, ErrMsg("ring needs at least 3 sides")
	}
	vertices := make([]r3.Vec, n)
	edges := make([][2]int, n)
	for i := range vertices {
		s, c := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		vertices[i] = r3.Vec{X: c, Y: s}
		edges[i] = [2]int{i, (i + 1) % n}
	}
	return wireframe.NewMesh(vertices, edges)
}

// Grid returns a square grid on the XZ plane spanning ±1 with n cells per side.
func Grid(n int) (wireframe.Mesh, error) {
	if n < 1 {
		return wireframe.Mesh{}, ErrMsg("grid needs at least 1 cell")
	}
	var (
		vertices []r3.Vec
		edges    [][2]int
	)
	step := 2 / float64(n)
	for i := 0; i <= n; i++ {
		k := -1 + float64(i)*step
		base := len(vertices)
		vertices = append(vertices,
			r3.Vec{X: k, Z: -1}, r3.Vec{X: k, Z: 1},
			r3.Vec{X: -1, Z: k}, r3.Vec{X: 1, Z: k},
		)
		edges = append(edges, [2]int{base, base + 1}, [2]int{base + 2, base + 3})
	}
	return wireframe.NewMesh(vertices, edges)
}

var named = map[string]func() wireframe.Mesh{
	"cube":        Cube,
	"tetrahedron": Tetrahedron,
	"octahedron":  Octahedron,
	"pyramid":     Pyramid,
	"axes":        Axes,
}

// ByName returns a built-in mesh. Parametric meshes take their parameter
// after a colon, i.e. "ring:6" or "grid:4".
func ByName(name string) (wireframe.Mesh, error) {
	base, param, hasParam := strings.Cut(name, ":")
	if f, ok := named[base]; ok && !hasParam {
		return f(), nil
	}
	if !hasParam {
		return wireframe.Mesh{}, ErrMsg("unknown mesh " + strconv.Quote(name))
	}
	n, err := strconv.Atoi(param)
	if err != nil {
		return wireframe.Mesh{}, ErrMsg("bad mesh parameter in " + strconv.Quote(name))
	}
	switch base {
	case "ring":
		return Ring(n)
	case "grid":
		return Grid(n)
	}
	return wireframe.Mesh{}, ErrMsg("unknown mesh " + strconv.Quote(name))
}

// Names returns the names accepted by ByName, sorted.
func Names() []string {
	names := []string{"grid:N", "ring:N"}
	for k := range named {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
