// Package stream broadcasts drawn frames to browsers over websockets.
package stream

import (
	"math"
	"time"

	"github.com/soypat/wireframe/render"
	"gonum.org/v1/gonum/spatial/r2"
)

// Frame is the JSON message sent to clients for every published frame.
// Coordinates are in surface pixels. Markers and lines with non-finite
// coordinates are left out since JSON cannot encode them.
type Frame struct {
	Seq     int          `json:"seq"`
	Elapsed float64      `json:"elapsed"`
	Width   int          `json:"width,omitempty"`
	Height  int          `json:"height,omitempty"`
	Markers [][2]float64 `json:"markers"`
	Lines   [][4]float64 `json:"lines"`
}

// NewFrame converts a recorded display list into a Frame.
func NewFrame(seq int, elapsed time.Duration, dl *render.DisplayList) Frame {
	f := Frame{
		Seq:     seq,
		Elapsed: elapsed.Seconds(),
		Markers: [][2]float64{},
		Lines:   [][4]float64{},
	}
	for _, op := range dl.Ops {
		switch op.Kind {
		case render.OpMarker:
			if finite(op.A) {
				f.Markers = append(f.Markers, [2]float64{op.A.X, op.A.Y})
			}
		case render.OpLine:
			if finite(op.A) && finite(op.B) {
				f.Lines = append(f.Lines, [4]float64{op.A.X, op.A.Y, op.B.X, op.B.Y})
			}
		}
	}
	return f
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
