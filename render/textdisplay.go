package render

import (
	"bufio"
	"image/color"
	"io"

	"tinygo.org/x/drivers"
)

var _ drivers.Displayer = (*TextDisplay)(nil)

// TextDisplay is a monochrome drivers.Displayer that prints frames to a
// terminal. Every character cell shows two pixel rows using half block
// glyphs. Pixels set to a color other than Off are lit.
type TextDisplay struct {
	w, h int16
	pix  []bool
	out  *bufio.Writer
	// Off is the color of unlit pixels.
	Off color.RGBA
	// Home moves the cursor to the top left corner before every frame.
	Home bool
}

// NewTextDisplay returns a w by h pixel display writing to out.
func NewTextDisplay(out io.Writer, w, h int16) *TextDisplay {
	if w <= 0 || h <= 0 {
		panic("text display size must be positive")
	}
	return &TextDisplay{
		w:   w,
		h:   h,
		pix: make([]bool, int(w)*int(h)),
		out: bufio.NewWriter(out),
		Off: DefaultBackground,
	}
}

func (t *TextDisplay) Size() (x, y int16) { return t.w, t.h }

func (t *TextDisplay) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= t.w || y >= t.h {
		return
	}
	t.pix[int(y)*int(t.w)+int(x)] = c != t.Off
}

// Lit reports whether the pixel at x, y is lit.
func (t *TextDisplay) Lit(x, y int16) bool {
	if x < 0 || y < 0 || x >= t.w || y >= t.h {
		return false
	}
	return t.pix[int(y)*int(t.w)+int(x)]
}

// Display writes the frame to the output.
func (t *TextDisplay) Display() error {
	if t.Home {
		t.out.WriteString("\x1b[H")
	}
	for y := int16(0); y < t.h; y += 2 {
		for x := int16(0); x < t.w; x++ {
			top, bottom := t.Lit(x, y), t.Lit(x, y+1)
			switch {
			case top && bottom:
				t.out.WriteRune('█')
			case top:
				t.out.WriteRune('▀')
			case bottom:
				t.out.WriteRune('▄')
			default:
				t.out.WriteByte(' ')
			}
		}
		t.out.WriteByte('\n')
	}
	return t.out.Flush()
}
