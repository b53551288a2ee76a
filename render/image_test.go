package render

import (
	"bytes"
	"image/color"
	"testing"

	"gonum.org/v1/plot/cmpimg"
)

func encode(t *testing.T, s *ImageSurface) []byte {
	t.Helper()
	var b bytes.Buffer
	if err := s.EncodePNG(&b); err != nil {
		t.Fatal(err)
	}
	return b.Bytes()
}

func TestImageSurfaceReplayMatchesDraw(t *testing.T) {
	cfg := ImageConfig{Width: 640, Height: 480, Supersample: 2}
	direct, err := NewImageSurface(cfg)
	if err != nil {
		t.Fatal(err)
	}
	replayed, err := NewImageSurface(cfg)
	if err != nil {
		t.Fatal(err)
	}
	scene := testScene()
	scene.Draw(direct, 50)
	var dl DisplayList
	scene.Draw(&dl, 50)
	dl.Replay(replayed)

	b1, b2 := encode(t, direct), encode(t, replayed)
	equal, err := cmpimg.EqualApprox("png", b1, b2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("replayed display list renders differently from direct draw")
	}
	if got := direct.Image().Bounds(); got != direct.Bounds() {
		t.Errorf("image bounds %v, want %v", got, direct.Bounds())
	}

	blank, _ := NewImageSurface(cfg)
	equal, err = cmpimg.EqualApprox("png", b1, encode(t, blank), 0)
	if err != nil {
		t.Fatal(err)
	}
	if equal {
		t.Error("drawn image equals a blank image")
	}
}

func TestImageSurfaceColors(t *testing.T) {
	s, err := NewImageSurface(ImageConfig{Width: 100, Height: 100})
	if err != nil {
		t.Fatal(err)
	}
	var dl DisplayList
	dl.DrawMarker(centerOf(50, 50))
	dl.Replay(s)
	img := s.Image()
	if got := color.RGBAModel.Convert(img.At(50, 50)).(color.RGBA); got.R < 200 || got.G > 50 {
		t.Errorf("marker pixel: got %v, want red", got)
	}
	if got := color.RGBAModel.Convert(img.At(2, 2)).(color.RGBA); got.R > 50 || got.G < 200 || got.B < 200 {
		t.Errorf("background pixel: got %v, want cyan", got)
	}
	s.Clear()
	if got := color.RGBAModel.Convert(s.Image().At(50, 50)).(color.RGBA); got.G < 200 {
		t.Errorf("after Clear: got %v, want cyan", got)
	}
}

func TestImageConfigValidation(t *testing.T) {
	for _, cfg := range []ImageConfig{
		{},
		{Width: 10},
		{Width: 10, Height: -1},
		{Width: 10, Height: 10, Supersample: 9},
	} {
		if _, err := NewImageSurface(cfg); err == nil {
			t.Errorf("%+v: expected error", cfg)
		}
	}
}
