package render

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r2"
)

// ImageConfig configures an ImageSurface. Zero fields take defaults.
type ImageConfig struct {
	Width, Height int
	// Supersample renders at Supersample times the output resolution and
	// downsamples when the image is read. 1 disables it.
	Supersample int
	// MarkerSize is the side of vertex markers in output pixels.
	MarkerSize float64
	// LineWidth is the line thickness in output pixels.
	LineWidth  float64
	Foreground color.Color
	Background color.Color
}

// ImageSurface rasterizes markers and lines in software onto an in-memory
// image. Coordinates are in pixels with the origin at the top left corner.
type ImageSurface struct {
	cfg ImageConfig
	ctx *fauxgl.Context
	bg  fauxgl.Color
}

// NewImageSurface returns a cleared ImageSurface.
func NewImageSurface(cfg ImageConfig) (*ImageSurface, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("image surface needs positive width and height")
	}
	if cfg.Supersample <= 0 {
		cfg.Supersample = 1
	}
	if cfg.Supersample > 8 {
		return nil, errors.New("supersample factor above 8")
	}
	if cfg.MarkerSize <= 0 {
		cfg.MarkerSize = DefaultMarkerSize
	}
	if cfg.LineWidth <= 0 {
		cfg.LineWidth = 1
	}
	if cfg.Foreground == nil {
		cfg.Foreground = DefaultForeground
	}
	if cfg.Background == nil {
		cfg.Background = DefaultBackground
	}
	k := cfg.Supersample
	ctx := fauxgl.NewContext(cfg.Width*k, cfg.Height*k)
	ctx.Cull = fauxgl.CullNone
	ctx.ReadDepth = false
	ctx.WriteDepth = false
	ctx.LineWidth = cfg.LineWidth * float64(k)
	// Pixel space with Y pointing down. The projection is independent of
	// the supersampled buffer size.
	matrix := fauxgl.Orthographic(0, float64(cfg.Width), float64(cfg.Height), 0, -1, 1)
	ctx.Shader = fauxgl.NewSolidColorShader(matrix, fauxgl.MakeColor(cfg.Foreground))
	s := &ImageSurface{
		cfg: cfg,
		ctx: ctx,
		bg:  fauxgl.MakeColor(cfg.Background),
	}
	s.Clear()
	return s, nil
}

// Clear fills the surface with the background color.
func (s *ImageSurface) Clear() {
	s.ctx.ClearColorBufferWith(s.bg)
}

// DrawMarker fills a square of side MarkerSize centered on center.
func (s *ImageSurface) DrawMarker(center r2.Vec) {
	h := s.cfg.MarkerSize / 2
	p0 := fauxgl.V(center.X-h, center.Y-h, 0)
	p1 := fauxgl.V(center.X+h, center.Y-h, 0)
	p2 := fauxgl.V(center.X+h, center.Y+h, 0)
	p3 := fauxgl.V(center.X-h, center.Y+h, 0)
	s.ctx.DrawTriangle(fauxgl.NewTriangleForPoints(p0, p1, p2))
	s.ctx.DrawTriangle(fauxgl.NewTriangleForPoints(p0, p2, p3))
}

// DrawLine draws a line of width LineWidth between a and b.
func (s *ImageSurface) DrawLine(a, b r2.Vec) {
	s.ctx.DrawLine(fauxgl.NewLineForPoints(fauxgl.V(a.X, a.Y, 0), fauxgl.V(b.X, b.Y, 0)))
}

// Bounds returns the output image rectangle.
func (s *ImageSurface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.cfg.Width, s.cfg.Height)
}

// Image returns the rendered image at output resolution.
func (s *ImageSurface) Image() image.Image {
	img := s.ctx.Image()
	if s.cfg.Supersample == 1 {
		return img
	}
	return resize.Resize(uint(s.cfg.Width), uint(s.cfg.Height), img, resize.Bilinear)
}

// EncodePNG writes the rendered image to w in PNG format.
func (s *ImageSurface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.Image())
}

// SavePNG writes the rendered image to a PNG file at path.
func (s *ImageSurface) SavePNG(path string) error {
	return fauxgl.SavePNG(path, s.Image())
}
