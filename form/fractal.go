package form

import (
	"github.com/soypat/wireframe"
	"gonum.org/v1/gonum/spatial/r3"
)

// axisDirections are the six unit directions children are placed along.
var axisDirections = [6]r3.Vec{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}

// Fractal returns a tree of meshes where every node has six children placed
// along ±X, ±Y and ±Z at distance spacing from it. Each level places its
// children at half the distance of the level above, matching the size
// falloff applied by Draw. depth is the number of levels below the root;
// depth 1 with a cube mesh and spacing 200 gives a cube with six satellites.
func Fractal(m wireframe.Mesh, depth int, spacing float64) (*wireframe.Node, error) {
	if depth < 0 {
		return nil, ErrMsg("negative fractal depth")
	}
	if depth > 6 {
		// Depth 7 is over 300k nodes.
		return nil, ErrMsg("fractal depth too large")
	}
	root := wireframe.NewNodeFromMesh(m).SetName("fractal")
	addSatellites(root, m, depth, spacing)
	return root, nil
}

func addSatellites(parent *wireframe.Node, m wireframe.Mesh, depth int, spacing float64) {
	if depth == 0 {
		return
	}
	for _, dir := range axisDirections {
		child := parent.AddChild(wireframe.NewNodeFromMesh(m)).SetOrigin(r3.Scale(spacing, dir))
		addSatellites(child, m, depth-1, spacing/2)
	}
}
