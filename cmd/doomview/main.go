package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/stuarthighley/doomview/config"
	"github.com/stuarthighley/doomview/fixed"
	"github.com/stuarthighley/doomview/hal"
	"github.com/stuarthighley/doomview/render"
	"github.com/stuarthighley/doomview/wad"
)

const (
	turnSpeed = fixed.Angle(fixed.Ang90 / 32)
	moveSpeed = 8 * fixed.Unit
)

func main() {
	var (
		configPath = flag.String("config", "", "JSON config file")
		flags      config.Flags
		window     = flag.Bool("window", false, "show the view in a window")
		tree       = flag.Bool("tree", false, "print the level's BSP tree and exit")
	)
	flag.StringVar(&flags.WAD, "wad", "", "WAD file")
	flag.StringVar(&flags.Level, "level", "", "level name, e.g. E1M1")
	flag.StringVar(&flags.Output, "out", "", "snapshot file (.webp, .tga or .png)")
	flag.IntVar(&flags.Scale, "scale", 0, "window and snapshot scale")
	flag.IntVar(&flags.Frames, "frames", 0, "frames to render without a window")
	flag.BoolVar(&flags.Verbose, "v", false, "verbose logging")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalln(err)
		}
	}
	cfg.Resolve(flags, config.BaseDir(*configPath))

	if cfg.Verbose {
		l := log.New(os.Stdout, "", log.LstdFlags)
		wad.SetLogger(l)
		render.SetLogger(l)
	}

	log.Println("Starting")

	flash, closer, err := hal.NewFileFlash(cfg.WAD)
	if err != nil {
		log.Fatalln(err)
	}
	defer closer.Close()

	w, err := wad.New(hal.NewFlashReader(flash, cfg.CacheBlocks))
	if err != nil {
		log.Fatalln(err)
	}

	level, err := w.ReadLevel(cfg.Level)
	if err != nil {
		log.Fatalln(err)
	}

	if *tree {
		wad.FprintTree(os.Stdout, level.Root)
		return
	}

	v, err := newViewer(w, level, cfg)
	if err != nil {
		log.Fatalln(err)
	}

	if *window {
		title := fmt.Sprintf("doomview %s", cfg.Level)
		if err := hal.RunWindow(title, cfg.Scale, v.step); err != nil {
			log.Fatalln(err)
		}
		return
	}

	for range cfg.Frames {
		if _, err := v.step(hal.Input{}); err != nil {
			log.Fatalf("frame %d: %v", v.frames, err)
		}
	}
	stats := v.renderer.Stats()
	log.Printf("%d frames, last: %d subsectors, %d wall ranges, %d visplanes, %d spans",
		v.frames, stats.SubSectors, stats.WallRanges, stats.Visplanes, stats.Spans)

	if cfg.Output != "" {
		if err := hal.SaveSnapshot(cfg.Output, v.display.Panel(), cfg.Scale); err != nil {
			log.Fatalln(err)
		}
		log.Printf("Wrote %s", cfg.Output)
	}
}

// viewer moves the viewpoint and draws frames band by band.
type viewer struct {
	level    *wad.Level
	name     string
	renderer *render.Renderer
	display  *hal.BandDisplay
	overlay  *hal.Overlay
	vp       render.Viewpoint
	frames   int
}

func newViewer(w *wad.WAD, level *wad.Level, cfg config.Config) (*viewer, error) {
	start, ok := level.PlayerStart()
	if !ok {
		return nil, errors.New("level has no player start")
	}

	r, err := render.New(level, w, render.WithExtraLight(cfg.ExtraLight))
	if err != nil {
		return nil, err
	}

	display := hal.NewBandDisplay(w.Palette())
	v := &viewer{
		level:    level,
		name:     cfg.Level,
		renderer: r,
		display:  display,
		overlay:  hal.NewOverlay(display.Panel()),
	}
	v.vp = render.ViewpointFromThing(start, v.floorHeight(start.X, start.Y))
	return v, nil
}

func (v *viewer) floorHeight(x, y fixed.Fixed) fixed.Fixed {
	ss := render.PointInSubSector(v.level.Root, x, y)
	if ss == nil || ss.Sector == nil {
		return v.vp.Z - render.ViewHeight
	}
	return ss.Sector.FloorHeight
}

// step applies one tick of input and draws a frame.
func (v *viewer) step(in hal.Input) (*image.RGBA, error) {
	if in.Left {
		v.vp.Angle += turnSpeed
	}
	if in.Right {
		v.vp.Angle -= turnSpeed
	}
	move := fixed.Fixed(0)
	if in.Forward {
		move += moveSpeed
	}
	if in.Back {
		move -= moveSpeed
	}
	if move != 0 {
		v.vp.X += fixed.Mul(move, fixed.Cosine(v.vp.Angle))
		v.vp.Y += fixed.Mul(move, fixed.Sine(v.vp.Angle))
	}
	v.vp.Z = v.floorHeight(v.vp.X, v.vp.Y) + render.ViewHeight

	// Draw the frame one band at a time through the single band buffer
	for i := range render.NumBands {
		band, err := v.display.Band(i)
		if err != nil {
			return nil, err
		}
		band.Clear(0)
		if err := v.renderer.RenderPlayerView(v.vp, band); err != nil {
			return nil, err
		}
		v.display.FlushBand()
	}
	v.frames++

	v.overlay.WriteLine(1, 1, fmt.Sprintf("%s %d,%d", v.name, v.vp.X.Int(), v.vp.Y.Int()))
	return v.display.Panel(), nil
}
