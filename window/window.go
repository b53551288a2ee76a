//go:build !tinygo

// Package window shows a spinning scene in a desktop window.
package window

import (
	"image/color"
	"time"

	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/soypat/wireframe"
	"github.com/soypat/wireframe/driver"
	"github.com/soypat/wireframe/render"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Config configures the window.
type Config struct {
	Title         string
	Width, Height int
	// Scale multiplies the window size. The scene is drawn at Width x Height.
	Scale      int
	Rate       float64
	BaseSize   float64
	MarkerSize int
	Foreground color.Color
	Background color.Color
}

// Run opens a window and spins root in its center at 60 ticks per second.
// Escape closes the window and space pauses. It blocks until the window closes.
func Run(root *wireframe.Node, cfg Config) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.MarkerSize <= 0 {
		cfg.MarkerSize = render.DefaultMarkerSize
	}
	if cfg.Foreground == nil {
		cfg.Foreground = render.DefaultForeground
	}
	if cfg.Background == nil {
		cfg.Background = render.DefaultBackground
	}
	g := &game{
		root: root,
		cfg:  cfg,
		spin: driver.Spinner{
			Rate:     cfg.Rate,
			Center:   r3.Vec{X: float64(cfg.Width) / 2, Y: float64(cfg.Height) / 2},
			BaseSize: cfg.BaseSize,
		},
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width*cfg.Scale, cfg.Height*cfg.Scale)
	ebiten.SetTPS(driver.DefaultFPS)
	return ebiten.RunGame(g)
}

type game struct {
	root   *wireframe.Node
	cfg    Config
	spin   driver.Spinner
	ticks  int
	paused bool
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if !g.paused {
		g.ticks++
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.Background)
	// Elapsed time follows ticks so every update advances the same angle.
	elapsed := time.Duration(g.ticks) * time.Second / time.Duration(ebiten.TPS())
	g.spin.Frame(g.root, &Surface{
		Dst:        screen,
		Color:      g.cfg.Foreground,
		MarkerSize: g.cfg.MarkerSize,
	}, elapsed)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

var _ wireframe.Surface = (*Surface)(nil)

// Surface draws markers and lines onto an ebiten image.
type Surface struct {
	Dst        *ebiten.Image
	Color      color.Color
	MarkerSize int
}

// DrawMarker fills a MarkerSize square around the truncated center.
func (s *Surface) DrawMarker(center r2.Vec) {
	x, y, ok := render.MarkerCorner(center, s.MarkerSize)
	if !ok {
		return
	}
	size := float32(s.MarkerSize)
	vector.DrawFilledRect(s.Dst, float32(x), float32(y), size, size, s.Color, false)
}

// DrawLine strokes a one pixel wide line between a and b.
func (s *Surface) DrawLine(a, b r2.Vec) {
	x0, y0 := float32(a.X), float32(a.Y)
	x1, y1 := float32(b.X), float32(b.Y)
	if !finite(x0) || !finite(y0) || !finite(x1) || !finite(y1) {
		return
	}
	vector.StrokeLine(s.Dst, x0, y0, x1, y1, 1, s.Color, false)
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
