// Package render provides wireframe.Surface implementations: an in-memory
// display list, a software rasterized image and a pixel sink for small
// embedded displays.
package render

import (
	"image/color"

	"github.com/soypat/wireframe"
)

// DefaultMarkerSize is the side in pixels of the square drawn at every vertex.
const DefaultMarkerSize = 5

// Default colors: red wireframe on a cyan background.
var (
	DefaultForeground = color.RGBA{R: 255, A: 255}
	DefaultBackground = color.RGBA{G: 255, B: 255, A: 255}
)

var (
	_ wireframe.Surface = (*DisplayList)(nil)
	_ wireframe.Surface = (*ImageSurface)(nil)
	_ wireframe.Surface = (*DisplayerSurface)(nil)
)
