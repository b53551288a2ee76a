package render

import (
	"image/color"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/r2"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// maxCoord bounds coordinates handed to the line rasterizer so that a
// wild projection cannot stall a frame walking off-screen pixels.
const maxCoord = 1 << 14

// DisplayerSurface draws onto any tinygo display driver through SetPixel.
// Pixels outside the display are skipped. Call Display to flush a frame.
type DisplayerSurface struct {
	d          drivers.Displayer
	w, h       int16
	Color      color.RGBA
	MarkerSize int16
}

// NewDisplayerSurface returns a surface drawing onto d in color c.
func NewDisplayerSurface(d drivers.Displayer, c color.RGBA) *DisplayerSurface {
	w, h := d.Size()
	return &DisplayerSurface{
		d:          d,
		w:          w,
		h:          h,
		Color:      c,
		MarkerSize: DefaultMarkerSize,
	}
}

// Size returns the display size in pixels.
func (s *DisplayerSurface) Size() (w, h int16) { return s.w, s.h }

// Clear sets every pixel to c.
func (s *DisplayerSurface) Clear(c color.RGBA) {
	for y := int16(0); y < s.h; y++ {
		for x := int16(0); x < s.w; x++ {
			s.d.SetPixel(x, y, c)
		}
	}
}

// DrawMarker fills a MarkerSize square whose top left corner is the
// truncated center minus half the marker size.
func (s *DisplayerSurface) DrawMarker(center r2.Vec) {
	x0, y0, ok := MarkerCorner(center, int(s.MarkerSize))
	if !ok {
		return
	}
	for y := y0; y < y0+int(s.MarkerSize); y++ {
		for x := x0; x < x0+int(s.MarkerSize); x++ {
			s.setPixel(x, y)
		}
	}
}

// DrawLine draws a one pixel wide line using Bresenham's algorithm.
func (s *DisplayerSurface) DrawLine(a, b r2.Vec) {
	x1, y1, ok1 := pixel(a)
	x2, y2, ok2 := pixel(b)
	if !ok1 || !ok2 {
		return
	}
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	for {
		s.setPixel(x1, y1)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

// Caption writes text with its baseline at (x, y) using a small built-in font.
func (s *DisplayerSurface) Caption(x, y int16, text string) {
	tinyfont.WriteLine(s.d, &proggy.TinySZ8pt7b, x, y, text, s.Color)
}

// Display flushes the frame to the device.
func (s *DisplayerSurface) Display() error {
	return s.d.Display()
}

func (s *DisplayerSurface) setPixel(x, y int) {
	if x < 0 || y < 0 || x >= int(s.w) || y >= int(s.h) {
		return
	}
	s.d.SetPixel(int16(x), int16(y), s.Color)
}

// MarkerCorner returns the top left pixel of a marker of the given size
// centered on center. The center is truncated toward zero before the half
// size is subtracted. ok is false for non-finite or far off-screen centers.
func MarkerCorner(center r2.Vec, size int) (x, y int, ok bool) {
	cx, cy, ok := pixel(center)
	return cx - size/2, cy - size/2, ok
}

// pixel truncates v to integer pixel coordinates like a C cast would.
// ok is false for non-finite or far off-screen coordinates.
func pixel(v r2.Vec) (x, y int, ok bool) {
	fx, fy := float32(v.X), float32(v.Y)
	if math32.IsNaN(fx) || math32.IsNaN(fy) || math32.IsInf(fx, 0) || math32.IsInf(fy, 0) {
		return 0, 0, false
	}
	if math32.Abs(fx) > maxCoord || math32.Abs(fy) > maxCoord {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
