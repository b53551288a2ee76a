// Package driver animates a scene: it turns elapsed time into the root
// transform and paces frames.
package driver

import (
	"context"
	"errors"
	"time"

	"github.com/soypat/wireframe"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultRate is the spin rate in radians per second: 0.05 rad per frame at 60 frames per second.
	DefaultRate = 3.0
	// DefaultFPS is the frame rate of Loop when none is configured.
	DefaultFPS = 60
)

// Spinner rotates the root node about its X and Y axes at a constant rate
// and keeps it at Center.
type Spinner struct {
	// Rate in radians per second.
	Rate float64
	// Center is the root origin, usually the middle of the surface.
	Center r3.Vec
	// BaseSize is the scale of the root's vertices.
	BaseSize float64
}

// Angle returns the spin angle after elapsed time, wrapped to [0, 2π).
func (s Spinner) Angle(elapsed time.Duration) float64 {
	return wireframe.WrapAngle(s.Rate * elapsed.Seconds())
}

// Transform returns the root rotation RotateY(a)*RotateX(a) for the angle
// a reached after elapsed time, and the root origin.
func (s Spinner) Transform(elapsed time.Duration) (wireframe.Mat3, r3.Vec) {
	a := s.Angle(elapsed)
	return wireframe.RotateY(a).Mul(wireframe.RotateX(a)), s.Center
}

// Frame sets the root transform for elapsed time and draws the scene onto surface.
func (s Spinner) Frame(root *wireframe.Node, surface wireframe.Surface, elapsed time.Duration) {
	rot, origin := s.Transform(elapsed)
	root.SetRotation(rot).SetOrigin(origin).Draw(surface, s.BaseSize)
}

// Config configures Loop.
type Config struct {
	Spinner
	// FPS is the frame rate. Zero means DefaultFPS.
	FPS int
	// MaxFrames stops the loop after that many frames. Zero runs until
	// the context is cancelled.
	MaxFrames int
	// Fixed derives elapsed time from the frame number instead of the wall
	// clock, making output independent of scheduling.
	Fixed bool
}

// PresentFunc receives each drawn frame. Returning an error stops the loop.
type PresentFunc func(seq int, elapsed time.Duration, s wireframe.Surface) error

// ErrStop can be returned by a PresentFunc to end Loop without error.
var ErrStop = errors.New("stop loop")

// Loop draws frames at a fixed cadence. For every frame it obtains a fresh
// surface from newSurface, draws root onto it through the Spinner and hands
// it to present. The first frame is drawn immediately with zero elapsed time.
//
// Loop runs on the calling goroutine and is the only writer of the root
// transform while it runs. It returns the number of frames presented and
// ctx.Err() on cancellation.
func Loop(ctx context.Context, cfg Config, root *wireframe.Node, newSurface func() wireframe.Surface, present PresentFunc) (int, error) {
	if root == nil {
		return 0, errors.New("nil root node")
	}
	fps := cfg.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	period := time.Second / time.Duration(fps)
	if period <= 0 {
		// Rates above one frame per nanosecond.
		period = time.Nanosecond
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	start := time.Now()
	for seq := 0; cfg.MaxFrames <= 0 || seq < cfg.MaxFrames; seq++ {
		if seq > 0 {
			select {
			case <-ctx.Done():
				return seq, ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return 0, err
		}
		elapsed := time.Since(start)
		if cfg.Fixed {
			elapsed = time.Duration(seq) * period
		}
		s := newSurface()
		cfg.Spinner.Frame(root, s, elapsed)
		if err := present(seq, elapsed, s); err != nil {
			if errors.Is(err, ErrStop) {
				return seq + 1, nil
			}
			return seq + 1, err
		}
	}
	return cfg.MaxFrames, nil
}
