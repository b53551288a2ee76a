// Command wirescene spins a hierarchical wireframe scene.
//
// Modes:
//
//	window  desktop window (default)
//	png     render frames to PNG files
//	serve   stream frames to browsers over websockets
//	text    print frames to the terminal
//	dump    print the projected scene of the first frame
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/soypat/wireframe"
	"github.com/soypat/wireframe/driver"
	"github.com/soypat/wireframe/form"
	"github.com/soypat/wireframe/render"
	"github.com/soypat/wireframe/scenefile"
	"github.com/soypat/wireframe/stream"
	"github.com/soypat/wireframe/window"
	"gonum.org/v1/gonum/spatial/r3"
)

func main() {
	var (
		mode, scenePath, mesh, out, addr string
		fg, bg                           string
		depth, frames, fps, scale, cols  int
		width, height, supersample       int
		spacing, size, rate, marker      float64
	)
	def := scenefile.DefaultView()
	flag.StringVar(&mode, "mode", "window", "window, png, serve, text or dump")
	flag.StringVar(&scenePath, "scene", "", "YAML scene file. Without it a fractal of -mesh is shown")
	flag.StringVar(&mesh, "mesh", "cube", "built-in mesh ("+strings.Join(form.Names(), ", ")+")")
	flag.IntVar(&depth, "depth", 1, "fractal depth when no scene file is given")
	flag.Float64Var(&spacing, "spacing", 200, "distance of first level satellites when no scene file is given")
	flag.IntVar(&width, "width", def.Width, "surface width in pixels")
	flag.IntVar(&height, "height", def.Height, "surface height in pixels")
	flag.Float64Var(&size, "size", def.BaseSize, "root vertex scale")
	flag.Float64Var(&rate, "rate", def.Rate, "spin rate in radians per second")
	flag.Float64Var(&marker, "marker", def.MarkerSize, "vertex marker size in pixels")
	flag.IntVar(&supersample, "supersample", def.Supersample, "png supersampling factor")
	flag.StringVar(&fg, "fg", def.Foreground, "foreground color")
	flag.StringVar(&bg, "bg", def.Background, "background color")
	flag.IntVar(&scale, "scale", 1, "window scale")
	flag.IntVar(&cols, "cols", 120, "terminal columns in text mode, the view is scaled down to fit")
	flag.IntVar(&frames, "frames", 1, "frames to render in png and text modes, 0 runs until interrupted in text mode")
	flag.IntVar(&fps, "fps", driver.DefaultFPS, "frames per second")
	flag.StringVar(&out, "o", "frame%03d.png", "png output path, may contain a %d verb for the frame number")
	flag.StringVar(&addr, "i", ":8000", "address of stream server")
	flag.Parse()

	var (
		root *wireframe.Node
		view = def
	)
	if scenePath != "" {
		s, err := scenefile.Load(scenePath)
		if err != nil {
			log.Fatal(err)
		}
		root, view = s.Root, s.View
	} else {
		m, err := form.ByName(mesh)
		if err != nil {
			log.Fatal(err)
		}
		root, err = form.Fractal(m, depth, spacing)
		if err != nil {
			log.Fatal(err)
		}
	}
	// Flags set on the command line override the scene file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			view.Width = width
		case "height":
			view.Height = height
		case "size":
			view.BaseSize = size
		case "rate":
			view.Rate = rate
		case "marker":
			view.MarkerSize = marker
		case "supersample":
			view.Supersample = supersample
		case "fg":
			view.Foreground = fg
		case "bg":
			view.Background = bg
		}
	})
	if err := view.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cfg := driver.Config{
		Spinner: driver.Spinner{
			Rate:     view.Rate,
			Center:   r3.Vec{X: float64(view.Width) / 2, Y: float64(view.Height) / 2},
			BaseSize: view.BaseSize,
		},
		FPS:       fps,
		MaxFrames: frames,
	}
	var err error
	switch mode {
	case "window":
		err = runWindow(root, view, scale)
	case "png":
		cfg.Fixed = true
		err = runPNG(ctx, root, view, cfg, out)
	case "serve":
		cfg.MaxFrames = 0
		err = runServe(ctx, root, view, cfg, addr)
	case "text":
		view = view.Fit(cols)
		cfg.Spinner.Center = r3.Vec{X: float64(view.Width) / 2, Y: float64(view.Height) / 2}
		cfg.Spinner.BaseSize = view.BaseSize
		err = runText(ctx, root, view, cfg)
	case "dump":
		err = runDump(root, cfg.Spinner)
	default:
		err = errors.Errorf("unknown mode %q", mode)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("[wirescene] %v", err)
	}
}

func runWindow(root *wireframe.Node, view scenefile.View, scale int) error {
	fg, bg, err := view.Colors()
	if err != nil {
		return err
	}
	return window.Run(root, window.Config{
		Title:      "wirescene",
		Width:      view.Width,
		Height:     view.Height,
		Scale:      scale,
		Rate:       view.Rate,
		BaseSize:   view.BaseSize,
		MarkerSize: int(view.MarkerSize),
		Foreground: fg,
		Background: bg,
	})
}

func runPNG(ctx context.Context, root *wireframe.Node, view scenefile.View, cfg driver.Config, out string) error {
	if cfg.MaxFrames <= 0 {
		return errors.New("png mode needs a positive frame count")
	}
	if cfg.MaxFrames > 1 && !strings.Contains(out, "%") {
		return errors.Errorf("output %q needs a %%d verb to hold %d frames", out, cfg.MaxFrames)
	}
	fg, bg, err := view.Colors()
	if err != nil {
		return err
	}
	img, err := render.NewImageSurface(render.ImageConfig{
		Width:       view.Width,
		Height:      view.Height,
		Supersample: view.Supersample,
		MarkerSize:  view.MarkerSize,
		Foreground:  fg,
		Background:  bg,
	})
	if err != nil {
		return err
	}
	newSurface := func() wireframe.Surface {
		img.Clear()
		return img
	}
	_, err = driver.Loop(ctx, cfg, root, newSurface, func(seq int, _ time.Duration, _ wireframe.Surface) error {
		path := out
		if strings.Contains(out, "%") {
			path = fmt.Sprintf(out, seq)
		}
		if err := img.SavePNG(path); err != nil {
			return errors.Wrapf(err, "saving frame %d", seq)
		}
		log.Printf("[wirescene] wrote %s", path)
		return nil
	})
	return err
}

func runServe(ctx context.Context, root *wireframe.Node, view scenefile.View, cfg driver.Config, addr string) error {
	hub := stream.NewHub(view.Width, view.Height)
	var dl render.DisplayList
	newSurface := func() wireframe.Surface {
		dl.Reset()
		return &dl
	}
	return stream.Serve(ctx, addr, hub, func(ctx context.Context) error {
		_, err := driver.Loop(ctx, cfg, root, newSurface, hub.Present)
		return err
	})
}

func runText(ctx context.Context, root *wireframe.Node, view scenefile.View, cfg driver.Config) error {
	fg, bg, err := view.Colors()
	if err != nil {
		return err
	}
	td := render.NewTextDisplay(os.Stdout, int16(view.Width), int16(view.Height))
	td.Off = bg
	td.Home = cfg.MaxFrames != 1
	s := render.NewDisplayerSurface(td, fg)
	s.MarkerSize = int16(view.MarkerSize)
	newSurface := func() wireframe.Surface {
		s.Clear(bg)
		return s
	}
	if td.Home {
		fmt.Print("\x1b[2J")
	}
	_, err = driver.Loop(ctx, cfg, root, newSurface, func(seq int, elapsed time.Duration, _ wireframe.Surface) error {
		s.Caption(1, 8, fmt.Sprintf("%d %.1fs", seq, elapsed.Seconds()))
		return s.Display()
	})
	return err
}

type dumpEntry struct {
	Name   string
	Depth  int
	Size   float64
	Points []r3.Vec
}

func runDump(root *wireframe.Node, spin driver.Spinner) error {
	rot, origin := spin.Transform(0)
	root.SetRotation(rot).SetOrigin(origin)
	var entries []dumpEntry
	err := root.Walk(spin.BaseSize, func(p wireframe.Projection) error {
		entries = append(entries, dumpEntry{
			Name:   p.Node.Name(),
			Depth:  p.Depth,
			Size:   p.Size,
			Points: append([]r3.Vec(nil), p.Points...),
		})
		return nil
	})
	if err != nil {
		return err
	}
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
	cfg.Fdump(os.Stdout, entries)
	return nil
}
