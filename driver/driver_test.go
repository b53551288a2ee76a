package driver_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soypat/wireframe"
	"github.com/soypat/wireframe/driver"
	"github.com/soypat/wireframe/form"
	"github.com/soypat/wireframe/internal/d3"
	"github.com/soypat/wireframe/render"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-12

func TestSpinnerTransform(t *testing.T) {
	center := r3.Vec{X: 320, Y: 240}
	s := driver.Spinner{Rate: driver.DefaultRate, Center: center, BaseSize: 50}
	rot, origin := s.Transform(0)
	if !rot.EqualWithin(wireframe.Identity3(), tol) {
		t.Errorf("zero elapsed should give identity rotation, got %v", rot.Slice())
	}
	if origin != center {
		t.Errorf("origin %v, want %v", origin, center)
	}

	// 60 frames at 0.05 rad per frame.
	angle := 0.0
	for i := 0; i < 60; i++ {
		angle += 0.05
	}
	want := wireframe.RotateY(angle).Mul(wireframe.RotateX(angle))
	rot, _ = s.Transform(time.Second)
	if !rot.EqualWithin(want, 1e-9) {
		t.Errorf("one second of spin does not match 60 stepped frames:\n%v\n%v", rot.Slice(), want.Slice())
	}
}

func TestSpinnerAngleWraps(t *testing.T) {
	s := driver.Spinner{Rate: driver.DefaultRate}
	for _, d := range []time.Duration{0, time.Second, time.Minute, 10 * time.Hour} {
		a := s.Angle(d)
		if a < 0 || a >= 2*3.141592653589793 {
			t.Errorf("angle %g for %v not wrapped", a, d)
		}
	}
	// Wrapping does not change the rotation.
	r1, _ := s.Transform(time.Minute)
	a := driver.DefaultRate * time.Minute.Seconds()
	r2 := wireframe.RotateY(a).Mul(wireframe.RotateX(a))
	if !r1.EqualWithin(r2, 1e-9) {
		t.Error("wrapped angle rotation differs from unwrapped")
	}
}

func TestSpinnerFrame(t *testing.T) {
	root := wireframe.NewNodeFromMesh(form.Cube())
	s := driver.Spinner{Rate: driver.DefaultRate, Center: r3.Vec{X: 100, Y: 80}, BaseSize: 50}
	var dl render.DisplayList
	s.Frame(root, &dl, 250*time.Millisecond)
	if len(dl.Markers()) != 8 || len(dl.Lines()) != 12 {
		t.Fatalf("got %d markers and %d lines, want 8 and 12", len(dl.Markers()), len(dl.Lines()))
	}
	rot, origin := s.Transform(250 * time.Millisecond)
	if !root.Rotation().EqualWithin(rot, 0) || root.Origin() != origin {
		t.Error("Frame did not set the root transform")
	}
	v := form.Cube().Vertices()[0]
	want := d3.XY(r3.Add(rot.MulVec(r3.Scale(50, v)), origin))
	got := dl.Markers()[0]
	if got != want {
		t.Errorf("first marker %v, want %v", got, want)
	}
}

func TestLoopFixedFrames(t *testing.T) {
	root := wireframe.NewNodeFromMesh(form.Tetrahedron())
	cfg := driver.Config{
		Spinner:   driver.Spinner{Rate: 1, BaseSize: 10},
		FPS:       1000,
		MaxFrames: 5,
		Fixed:     true,
	}
	var seqs []int
	var elapsed []time.Duration
	n, err := driver.Loop(context.Background(), cfg, root,
		func() wireframe.Surface { return &render.DisplayList{} },
		func(seq int, e time.Duration, s wireframe.Surface) error {
			seqs = append(seqs, seq)
			elapsed = append(elapsed, e)
			if len(s.(*render.DisplayList).Ops) == 0 {
				t.Error("surface presented without drawing")
			}
			return nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 || len(seqs) != 5 {
		t.Fatalf("got %d frames, want 5", n)
	}
	for i := range seqs {
		if seqs[i] != i || elapsed[i] != time.Duration(i)*time.Millisecond {
			t.Errorf("frame %d: seq %d elapsed %v", i, seqs[i], elapsed[i])
		}
	}
}

func TestLoopStop(t *testing.T) {
	root := wireframe.NewNodeFromMesh(form.Cube())
	newSurface := func() wireframe.Surface { return &render.DisplayList{} }
	cfg := driver.Config{FPS: 1000, Fixed: true}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := driver.Loop(ctx, cfg, root, newSurface, func(int, time.Duration, wireframe.Surface) error {
		t.Error("cancelled loop presented a frame")
		return nil
	})
	if n != 0 || !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled loop: got %d, %v", n, err)
	}

	n, err = driver.Loop(context.Background(), cfg, root, newSurface, func(seq int, _ time.Duration, _ wireframe.Surface) error {
		if seq == 2 {
			return driver.ErrStop
		}
		return nil
	})
	if n != 3 || err != nil {
		t.Errorf("ErrStop: got %d frames, err %v", n, err)
	}

	errBoom := errors.New("boom")
	_, err = driver.Loop(context.Background(), cfg, root, newSurface, func(int, time.Duration, wireframe.Surface) error {
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Errorf("expected present error, got %v", err)
	}

	ctx, cancel = context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	n, err = driver.Loop(ctx, cfg, root, newSurface, func(int, time.Duration, wireframe.Surface) error { return nil })
	if !errors.Is(err, context.DeadlineExceeded) || n == 0 {
		t.Errorf("deadline: got %d frames, err %v", n, err)
	}
}

func TestLoopFrameRateAboveClock(t *testing.T) {
	root := wireframe.NewNodeFromMesh(form.Tetrahedron())
	cfg := driver.Config{
		Spinner:   driver.Spinner{Rate: 1, BaseSize: 10},
		FPS:       2_000_000_000,
		MaxFrames: 3,
		Fixed:     true,
	}
	var last time.Duration
	n, err := driver.Loop(context.Background(), cfg, root,
		func() wireframe.Surface { return &render.DisplayList{} },
		func(_ int, e time.Duration, _ wireframe.Surface) error {
			last = e
			return nil
		})
	if err != nil || n != 3 {
		t.Fatalf("got %d frames, err %v", n, err)
	}
	if last != 2*time.Nanosecond {
		t.Errorf("fixed step clamped to 1ns should reach 2ns, got %v", last)
	}
}
