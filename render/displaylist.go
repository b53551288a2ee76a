package render

import (
	"github.com/soypat/wireframe"
	"github.com/soypat/wireframe/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// OpKind identifies a recorded drawing operation.
type OpKind uint8

const (
	OpMarker OpKind = iota
	OpLine
)

func (k OpKind) String() string {
	switch k {
	case OpMarker:
		return "marker"
	case OpLine:
		return "line"
	}
	return "unknown"
}

// Op is a recorded drawing operation. B is only used by OpLine.
type Op struct {
	Kind OpKind
	A, B r2.Vec
}

// DisplayList is a Surface that records operations in call order.
// The zero value is ready to use.
type DisplayList struct {
	Ops []Op
}

// DrawMarker records a marker.
func (d *DisplayList) DrawMarker(center r2.Vec) {
	d.Ops = append(d.Ops, Op{Kind: OpMarker, A: center})
}

// DrawLine records a line.
func (d *DisplayList) DrawLine(a, b r2.Vec) {
	d.Ops = append(d.Ops, Op{Kind: OpLine, A: a, B: b})
}

// Reset empties the list keeping its storage.
func (d *DisplayList) Reset() { d.Ops = d.Ops[:0] }

// Count returns the number of recorded markers and lines.
func (d *DisplayList) Count() (markers, lines int) {
	for _, op := range d.Ops {
		if op.Kind == OpLine {
			lines++
		} else {
			markers++
		}
	}
	return markers, lines
}

// Markers returns the centers of recorded markers in call order.
func (d *DisplayList) Markers() []r2.Vec {
	var m []r2.Vec
	for _, op := range d.Ops {
		if op.Kind == OpMarker {
			m = append(m, op.A)
		}
	}
	return m
}

// Lines returns the endpoints of recorded lines in call order.
func (d *DisplayList) Lines() [][2]r2.Vec {
	var l [][2]r2.Vec
	for _, op := range d.Ops {
		if op.Kind == OpLine {
			l = append(l, [2]r2.Vec{op.A, op.B})
		}
	}
	return l
}

// Bounds returns the box enclosing every recorded point. ok is false when the list is empty.
func (d *DisplayList) Bounds() (box r2.Box, ok bool) {
	bb := d2.EmptyBox()
	for _, op := range d.Ops {
		bb = bb.Include(op.A)
		if op.Kind == OpLine {
			bb = bb.Include(op.B)
		}
	}
	return r2.Box(bb), !bb.Empty()
}

// Transform scales every recorded point by scale about the origin and then
// translates it by offset.
func (d *DisplayList) Transform(scale float64, offset r2.Vec) {
	for i := range d.Ops {
		op := &d.Ops[i]
		op.A = r2.Add(r2.Scale(scale, op.A), offset)
		op.B = r2.Add(r2.Scale(scale, op.B), offset)
	}
}

// Fit uniformly scales and centers the recorded points so that their bounds
// fit inside a width by height area leaving margin on every side.
func (d *DisplayList) Fit(width, height, margin float64) {
	bb, ok := d.Bounds()
	if !ok {
		return
	}
	size := d2.Box(bb).Size()
	scale := 1.0
	avail := r2.Vec{X: width - 2*margin, Y: height - 2*margin}
	if size.X > 0 && size.Y > 0 {
		scale = avail.X / size.X
		if s := avail.Y / size.Y; s < scale {
			scale = s
		}
	} else if size.X > 0 {
		scale = avail.X / size.X
	} else if size.Y > 0 {
		scale = avail.Y / size.Y
	}
	center := d2.Box(bb).Center()
	offset := r2.Sub(r2.Vec{X: width / 2, Y: height / 2}, r2.Scale(scale, center))
	d.Transform(scale, offset)
}

// Replay issues every recorded operation on s in order.
func (d *DisplayList) Replay(s wireframe.Surface) {
	for _, op := range d.Ops {
		if op.Kind == OpLine {
			s.DrawLine(op.A, op.B)
		} else {
			s.DrawMarker(op.A)
		}
	}
}
