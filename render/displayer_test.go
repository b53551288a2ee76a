package render

import (
	"errors"
	"image/color"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

// memDisplay is an in-memory drivers.Displayer.
type memDisplay struct {
	w, h      int16
	pix       map[[2]int16]color.RGBA
	displayed int
	err       error
}

func newMemDisplay(w, h int16) *memDisplay {
	return &memDisplay{w: w, h: h, pix: make(map[[2]int16]color.RGBA)}
}

func (m *memDisplay) Size() (x, y int16) { return m.w, m.h }

func (m *memDisplay) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		panic("pixel out of range")
	}
	m.pix[[2]int16{x, y}] = c
}

func (m *memDisplay) Display() error {
	m.displayed++
	return m.err
}

func centerOf(x, y float64) r2.Vec { return r2.Vec{X: x, Y: y} }

func TestDisplayerLine(t *testing.T) {
	d := newMemDisplay(128, 64)
	s := NewDisplayerSurface(d, DefaultForeground)
	s.DrawLine(centerOf(0, 0), centerOf(10, 0))
	if len(d.pix) != 11 {
		t.Errorf("horizontal line: got %d pixels, want 11", len(d.pix))
	}
	d = newMemDisplay(128, 64)
	s = NewDisplayerSurface(d, DefaultForeground)
	s.DrawLine(centerOf(10.9, 3.2), centerOf(2, 11))
	for _, p := range [][2]int16{{10, 3}, {2, 11}, {6, 7}} {
		if _, ok := d.pix[p]; !ok {
			t.Errorf("diagonal line missing pixel %v", p)
		}
	}
	if len(d.pix) != 9 {
		t.Errorf("diagonal line: got %d pixels, want 9", len(d.pix))
	}
}

func TestDisplayerMarkerClipping(t *testing.T) {
	d := newMemDisplay(32, 32)
	s := NewDisplayerSurface(d, DefaultForeground)
	s.DrawMarker(centerOf(10, 10))
	if len(d.pix) != 25 {
		t.Fatalf("marker: got %d pixels, want 25", len(d.pix))
	}
	for p := range d.pix {
		if p[0] < 8 || p[0] > 12 || p[1] < 8 || p[1] > 12 {
			t.Errorf("marker pixel %v outside [8,12]", p)
		}
	}
	// Partially and fully off-screen geometry must not reach SetPixel out of range.
	s.DrawMarker(centerOf(0, 31))
	s.DrawMarker(centerOf(-100, 500))
	s.DrawLine(centerOf(-50, -50), centerOf(80, 80))
	s.DrawLine(centerOf(math.NaN(), 0), centerOf(1, 1))
	s.DrawLine(centerOf(0, 0), centerOf(math.Inf(1), 1))
	s.DrawLine(centerOf(0, 0), centerOf(1e12, 1))
}

func TestDisplayerClearCaptionDisplay(t *testing.T) {
	d := newMemDisplay(64, 16)
	s := NewDisplayerSurface(d, DefaultForeground)
	s.Clear(DefaultBackground)
	if len(d.pix) != 64*16 {
		t.Fatalf("clear: got %d pixels", len(d.pix))
	}
	s.Caption(1, 10, "wire")
	var fg int
	for _, c := range d.pix {
		if c == DefaultForeground {
			fg++
		}
	}
	if fg == 0 {
		t.Error("caption drew no pixels")
	}
	d.err = errors.New("bus error")
	if err := s.Display(); err == nil || d.displayed != 1 {
		t.Errorf("Display: err=%v displayed=%d", err, d.displayed)
	}
}

func TestMarkerCorner(t *testing.T) {
	for _, tc := range []struct {
		c      r2.Vec
		x, y   int
		wantOK bool
	}{
		{c: centerOf(10, 10), x: 8, y: 8, wantOK: true},
		{c: centerOf(10.9, 3.2), x: 8, y: 1, wantOK: true},
		// Truncation toward zero, as an integer cast does.
		{c: centerOf(-0.5, -1.5), x: -2, y: -3, wantOK: true},
		{c: centerOf(math.NaN(), 0)},
		{c: centerOf(0, math.Inf(-1))},
		{c: centerOf(1e9, 0)},
	} {
		x, y, ok := MarkerCorner(tc.c, 5)
		if ok != tc.wantOK || (ok && (x != tc.x || y != tc.y)) {
			t.Errorf("MarkerCorner(%v) = (%d, %d, %v), want (%d, %d, %v)", tc.c, x, y, ok, tc.x, tc.y, tc.wantOK)
		}
	}
}

func TestTextDisplay(t *testing.T) {
	var b strings.Builder
	td := NewTextDisplay(&b, 4, 4)
	s := NewDisplayerSurface(td, DefaultForeground)
	s.Clear(DefaultBackground)
	s.DrawLine(centerOf(0, 0), centerOf(3, 0))
	s.DrawLine(centerOf(0, 3), centerOf(1, 3))
	if !td.Lit(2, 0) || td.Lit(2, 1) || !td.Lit(1, 3) || td.Lit(2, 3) {
		t.Fatal("unexpected lit pixels")
	}
	if err := s.Display(); err != nil {
		t.Fatal(err)
	}
	want := "▀▀▀▀\n▄▄  \n"
	if b.String() != want {
		t.Errorf("got %q, want %q", b.String(), want)
	}
}
