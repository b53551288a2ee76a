// Package scenefile reads YAML scene descriptions into wireframe node trees.
//
// A scene file has a view section with rendering settings and a scene
// section holding the root node:
//
//	view:
//	  width: 640
//	  height: 480
//	  foreground: "#ff0000"
//	scene:
//	  mesh: cube
//	  children:
//	    - mesh: octahedron
//	      origin: [200, 0, 0]
//	      rotation: [0, 45, 0]
//
// Meshes are built-in shape names (see form.Names), ring:N or grid:N, paths
// to .stl, .gltf or .glb files, or inline vertices and edges. A node loading
// a glTF file takes the imported root's place, with the node's own origin and
// rotation replacing the root's.
//
// The root node of the scene has no origin or rotation: every frame the
// spinner sets them to the view center and the current spin. Setting either
// on the root is an error. A glTF file loaded at the root loses its root
// transform the same way, so load it in a child to keep one.
package scenefile

import (
	"bytes"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/soypat/wireframe"
	"github.com/soypat/wireframe/driver"
	"github.com/soypat/wireframe/form"
	"github.com/soypat/wireframe/meshio"
	"github.com/soypat/wireframe/render"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// File is the document layout of a scene file.
type File struct {
	View  View `yaml:"view"`
	Scene Node `yaml:"scene"`
}

// View holds display settings.
type View struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// BaseSize is the root scale factor applied to vertices. Children draw
	// at half their parent's size.
	BaseSize float64 `yaml:"base_size"`
	// Rate is the spin rate in radians per second.
	Rate        float64 `yaml:"rate"`
	MarkerSize  float64 `yaml:"marker_size"`
	Supersample int     `yaml:"supersample"`
	Foreground  string  `yaml:"foreground"`
	Background  string  `yaml:"background"`
}

// Node describes one scene node and its children.
type Node struct {
	Name string `yaml:"name"`
	Mesh string `yaml:"mesh"`
	// Inline geometry, exclusive with Mesh.
	Vertices [][3]float64 `yaml:"vertices"`
	Edges    [][2]int     `yaml:"edges"`
	Origin   [3]float64   `yaml:"origin"`
	// Rotation holds Euler angles in degrees applied about X, then Y, then Z.
	Rotation [3]float64 `yaml:"rotation"`
	// Scale multiplies the node's vertices. Zero means 1.
	Scale float64 `yaml:"scale"`
	// Normalize fits the geometry into [-1, 1] before scaling.
	Normalize bool `yaml:"normalize"`
	// FeatureAngle in degrees drops STL edges between near coplanar faces.
	FeatureAngle float64 `yaml:"feature_angle"`
	// TranslationScale multiplies the node translations of a glTF scene,
	// which are otherwise taken as surface units. Zero means 1.
	TranslationScale float64  `yaml:"translation_scale"`
	Fractal          *Fractal `yaml:"fractal"`
	Children         []Node   `yaml:"children"`
}

// Fractal expands a node's mesh into satellite copies along the axes.
type Fractal struct {
	Depth   int     `yaml:"depth"`
	Spacing float64 `yaml:"spacing"`
}

// Scene is a decoded scene file.
type Scene struct {
	Root *wireframe.Node
	View View
}

// DefaultView returns the view used for fields a scene file omits.
func DefaultView() View {
	return View{
		Width:       640,
		Height:      480,
		BaseSize:    50,
		Rate:        driver.DefaultRate,
		MarkerSize:  render.DefaultMarkerSize,
		Supersample: 1,
		Foreground:  "#ff0000",
		Background:  "#00ffff",
	}
}

// Load reads a scene file. Relative mesh paths are resolved against the
// directory holding the file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := parse(data, filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrapf(err, "scene %s", path)
	}
	return s, nil
}

// Parse decodes a scene from YAML. Relative mesh paths are resolved against
// the working directory.
func Parse(data []byte) (*Scene, error) {
	return parse(data, "")
}

func parse(data []byte, dir string) (*Scene, error) {
	f := File{View: DefaultView()}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, errors.New("empty scene file")
		}
		return nil, errors.Wrap(err, "decoding yaml")
	}
	if err := f.View.Validate(); err != nil {
		return nil, err
	}
	if f.Scene.Origin != [3]float64{} || f.Scene.Rotation != [3]float64{} {
		return nil, errors.New("scene root takes no origin or rotation: the spinner drives them, place the transform on a child")
	}
	b := builder{dir: dir}
	root, err := b.build(f.Scene, "scene")
	if err != nil {
		return nil, err
	}
	return &Scene{Root: root, View: f.View}, nil
}

// Validate checks that the view can be rendered.
func (v View) Validate() error {
	switch {
	case v.Width <= 0 || v.Height <= 0:
		return errors.Errorf("view size %dx%d must be positive", v.Width, v.Height)
	case v.BaseSize <= 0:
		return errors.Errorf("base_size %g must be positive", v.BaseSize)
	case v.MarkerSize <= 0:
		return errors.Errorf("marker_size %g must be positive", v.MarkerSize)
	case v.Supersample < 1 || v.Supersample > 8:
		return errors.Errorf("supersample %d outside [1, 8]", v.Supersample)
	}
	if _, _, err := v.Colors(); err != nil {
		return err
	}
	return nil
}

// Fit returns v scaled down to at most maxWidth pixels wide, keeping its
// aspect ratio. Base and marker sizes shrink with it, markers to no less
// than one pixel. A view already narrow enough is returned unchanged.
func (v View) Fit(maxWidth int) View {
	if maxWidth <= 0 || v.Width <= maxWidth {
		return v
	}
	k := float64(maxWidth) / float64(v.Width)
	v.Width = maxWidth
	v.Height = max(1, int(math.Round(float64(v.Height)*k)))
	v.BaseSize *= k
	v.MarkerSize = max(1, math.Round(v.MarkerSize*k))
	return v
}

// Colors parses the foreground and background colors.
func (v View) Colors() (fg, bg color.RGBA, err error) {
	fg, err = ParseColor(v.Foreground)
	if err != nil {
		return fg, bg, errors.Wrap(err, "foreground")
	}
	bg, err = ParseColor(v.Background)
	if err != nil {
		return fg, bg, errors.Wrap(err, "background")
	}
	return fg, bg, nil
}

type builder struct {
	dir string
}

func (b builder) build(desc Node, path string) (*wireframe.Node, error) {
	if desc.Name != "" {
		path = desc.Name
	}
	n, err := b.node(desc)
	if err != nil {
		return nil, errors.Wrapf(err, "node %q", path)
	}
	rot := desc.Rotation
	n.SetRotation(wireframe.Euler(wireframe.DtoR(rot[0]), wireframe.DtoR(rot[1]), wireframe.DtoR(rot[2]))).
		SetOrigin(r3.Vec{X: desc.Origin[0], Y: desc.Origin[1], Z: desc.Origin[2]})
	if desc.Name != "" {
		n.SetName(desc.Name)
	}
	for i, c := range desc.Children {
		child, err := b.build(c, path+"/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

// node creates the node for desc without its transform and children.
func (b builder) node(desc Node) (*wireframe.Node, error) {
	if desc.Scale < 0 {
		return nil, errors.Errorf("negative scale %g", desc.Scale)
	}
	if desc.TranslationScale < 0 {
		return nil, errors.Errorf("negative translation_scale %g", desc.TranslationScale)
	}
	if isGLTF(desc.Mesh) {
		if desc.Scale != 0 || desc.Normalize || desc.Fractal != nil || desc.FeatureAngle != 0 {
			return nil, errors.New("scale, normalize, fractal and feature_angle do not apply to glTF scenes")
		}
		n, err := meshio.LoadGLTF(b.resolve(desc.Mesh))
		if err != nil {
			return nil, err
		}
		if desc.TranslationScale != 0 {
			meshio.ScaleOrigins(n, desc.TranslationScale)
		}
		return n, nil
	}
	if desc.TranslationScale != 0 {
		return nil, errors.New("translation_scale only applies to glTF scenes")
	}
	m, err := b.mesh(desc)
	if err != nil {
		return nil, err
	}
	if desc.Normalize {
		m = meshio.BiUnit(m)
	}
	if desc.Scale != 0 && desc.Scale != 1 {
		v := m.Vertices()
		for i := range v {
			v[i] = r3.Scale(desc.Scale, v[i])
		}
		m = wireframe.MustMesh(v, m.Edges())
	}
	if desc.Fractal != nil {
		return form.Fractal(m, desc.Fractal.Depth, desc.Fractal.Spacing)
	}
	return wireframe.NewNodeFromMesh(m), nil
}

func (b builder) mesh(desc Node) (wireframe.Mesh, error) {
	inline := len(desc.Vertices) > 0 || len(desc.Edges) > 0
	switch {
	case inline && desc.Mesh != "":
		return wireframe.Mesh{}, errors.New("mesh and inline vertices are exclusive")
	case inline:
		v := make([]r3.Vec, len(desc.Vertices))
		for i, p := range desc.Vertices {
			v[i] = r3.Vec{X: p[0], Y: p[1], Z: p[2]}
		}
		return wireframe.NewMesh(v, desc.Edges)
	case desc.Mesh == "":
		// Group node without geometry.
		return wireframe.Mesh{}, nil
	case strings.EqualFold(filepath.Ext(desc.Mesh), ".stl"):
		tris, err := meshio.LoadSTL(b.resolve(desc.Mesh))
		if err != nil {
			return wireframe.Mesh{}, err
		}
		return meshio.Wireframe(tris, meshio.WeldConfig{FeatureAngle: wireframe.DtoR(desc.FeatureAngle)})
	}
	return form.ByName(desc.Mesh)
}

func (b builder) resolve(path string) string {
	if b.dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(b.dir, path)
}

func isGLTF(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".gltf" || ext == ".glb"
}
