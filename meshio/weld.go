package meshio

import (
	"math"

	"github.com/pkg/errors"
	"github.com/soypat/wireframe"
	"github.com/soypat/wireframe/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// WeldConfig controls how triangles are turned into a wireframe mesh.
type WeldConfig struct {
	// Tolerance is the distance below which two vertices are merged.
	// If zero it is inferred from the shortest triangle side.
	Tolerance float64
	// FeatureAngle drops edges shared by exactly two faces whose normals
	// differ by less than this angle in radians. Zero keeps every edge.
	FeatureAngle float64
}

// Wireframe welds the vertices of a triangle soup and returns the mesh made
// of the unique triangle sides. Degenerate sides are skipped.
func Wireframe(model []Triangle, cfg WeldConfig) (wireframe.Mesh, error) {
	if len(model) == 0 {
		return wireframe.Mesh{}, errors.New("no triangles to weld")
	}
	if cfg.FeatureAngle < 0 || cfg.FeatureAngle > math.Pi {
		return wireframe.Mesh{}, errors.Errorf("feature angle %g outside [0, pi]", cfg.FeatureAngle)
	}
	minSide2 := math.MaxFloat64
	maxSide2 := 0.0
	for _, tri := range model {
		for j, vert := range tri {
			if !d3.IsFinite(vert) {
				return wireframe.Mesh{}, errors.New("non-finite triangle vertex")
			}
			side2 := r3.Norm2(r3.Sub(tri[(j+1)%3], vert))
			if side2 > 0 {
				minSide2 = math.Min(minSide2, side2)
			}
			maxSide2 = math.Max(maxSide2, side2)
		}
	}
	if maxSide2 == 0 {
		return wireframe.Mesh{}, errors.New("all triangles are degenerate")
	}
	suggested := math.Sqrt(minSide2) / 256
	tol := cfg.Tolerance
	if tol > math.Sqrt(maxSide2)/2 {
		return wireframe.Mesh{}, errors.Errorf("weld tolerance too large for mesh, suggested tolerance: %g", suggested)
	}
	if tol <= 0 {
		tol = suggested
	}

	w := welder{tol2: tol * tol}
	type face struct {
		n     r3.Vec
		count int
	}
	var (
		edges [][2]int
		// first adjacent face normal and face count per edge.
		faces = make(map[[2]int]face)
	)
	for _, tri := range model {
		idx := [3]int{w.index(tri[0]), w.index(tri[1]), w.index(tri[2])}
		n := tri.Normal()
		for j := range idx {
			e := [2]int{idx[j], idx[(j+1)%3]}
			if e[0] == e[1] {
				continue
			}
			if e[0] > e[1] {
				e[0], e[1] = e[1], e[0]
			}
			f, seen := faces[e]
			if !seen {
				edges = append(edges, e)
				f.n = n
			} else if f.count == 1 && cfg.FeatureAngle > 0 && d3.IsFinite(n) && d3.IsFinite(f.n) {
				// Mark smooth edges by zeroing the stored normal.
				if math.Acos(math.Max(-1, math.Min(1, r3.Dot(f.n, n)))) < cfg.FeatureAngle {
					f.n = r3.Vec{}
				}
			}
			f.count++
			faces[e] = f
		}
	}
	if cfg.FeatureAngle > 0 {
		kept := edges[:0]
		for _, e := range edges {
			f := faces[e]
			if f.count == 2 && f.n == (r3.Vec{}) {
				continue
			}
			kept = append(kept, e)
		}
		edges = kept
	}
	return wireframe.NewMesh(w.vertices, edges)
}

// welder deduplicates vertices through a kd-tree nearest neighbour query.
type welder struct {
	tree     kdtree.Tree
	vertices []r3.Vec
	tol2     float64
}

func (w *welder) index(v r3.Vec) int {
	q := weldPoint{v: v}
	if w.tree.Root != nil {
		near, dist2 := w.tree.Nearest(q)
		if near != nil && dist2 <= w.tol2 {
			return near.(weldPoint).idx
		}
	}
	q.idx = len(w.vertices)
	w.vertices = append(w.vertices, v)
	w.tree.Insert(q, false)
	return q.idx
}

type weldPoint struct {
	v   r3.Vec
	idx int
}

func (p weldPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(weldPoint)
	switch d {
	case 0:
		return p.v.X - q.v.X
	case 1:
		return p.v.Y - q.v.Y
	case 2:
		return p.v.Z - q.v.Z
	}
	panic("unreachable")
}

func (p weldPoint) Dims() int { return 3 }

func (p weldPoint) Distance(c kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(p.v, c.(weldPoint).v))
}

// BiUnit returns a copy of m scaled uniformly and centered so that its
// bounding box fits in [-1, 1] along every axis.
func BiUnit(m wireframe.Mesh) wireframe.Mesh {
	verts := m.Vertices()
	if len(verts) == 0 {
		return m
	}
	bb := d3.Set(verts).Bounds()
	size := bb.Size()
	maxDim := d3.Max(size)
	scale := 1.0
	if maxDim > 0 {
		scale = 2 / maxDim
	}
	center := bb.Center()
	for i, v := range verts {
		verts[i] = r3.Scale(scale, r3.Sub(v, center))
	}
	return wireframe.MustMesh(verts, m.Edges())
}
