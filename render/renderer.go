// Package render draws a first-person view of a BSP level into a banded
// 8-bit framebuffer using only fixed-point arithmetic.
//
// A frame is drawn in two passes. The BSP walk visits subsectors front to
// back, drawing wall columns as soon as they are found and recording floor
// and ceiling extents in visplanes. Once the walk is over the visplanes are
// drawn as horizontal spans, and sky planes as columns indexed by view
// angle. Memory use is bounded by the screen width: there is no depth
// buffer, only the per-column clip spans and a fixed pool of visplanes.
//
// The renderer keeps no global mutable state. Each Renderer is a render
// context bound to one level, reused for every frame and band.
package render

import (
	"errors"
	"fmt"

	"github.com/stuarthighley/doomview/fixed"
	"github.com/stuarthighley/doomview/wad"
)

var (
	ErrDrawSegOverflow  = errors.New("draw seg pool exhausted")
	ErrSolidSegOverflow = errors.New("solid seg list exhausted")
	ErrNoLevel          = errors.New("level has no BSP")
)

// fatalError carries a resource exhaustion error from deep inside the walk
// to RenderPlayerView.
type fatalError struct {
	err error
}

func fatal(err error) {
	panic(fatalError{err})
}

// Viewpoint is the eye position and direction for one frame.
type Viewpoint struct {
	X, Y, Z fixed.Fixed
	Angle   fixed.Angle
}

// ViewpointFromThing places the eye at a thing, ViewHeight above floorHeight.
func ViewpointFromThing(t wad.Thing, floorHeight fixed.Fixed) Viewpoint {
	return Viewpoint{X: t.X, Y: t.Y, Z: floorHeight + ViewHeight, Angle: t.Angle}
}

// FrameStats counts the work done by the last RenderPlayerView call.
type FrameStats struct {
	Nodes        int // BSP nodes visited
	SubSectors   int // subsectors visited
	CulledBoxes  int // far subtrees skipped by the bounding box test
	Segs         int // segs that reached the wall clipper
	WallRanges   int // stored wall ranges
	Visplanes    int
	Columns      int // column jobs
	SkyColumns   int // sky column jobs
	Spans        int // span jobs
	Skipped      int // malformed segs, subsectors and nodes skipped
	Placeholders int // texture and flat substitutions
}

// DrawSeg records one stored wall range.
type DrawSeg struct {
	Seg            *wad.LineSegment
	X1, X2         int
	Scale1, Scale2 fixed.Fixed
	ScaleStep      fixed.Fixed
	Top            bool // an upper wall was drawn
	Mid            bool // a one-sided wall was drawn
	Bottom         bool // a lower wall was drawn
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRasterizer replaces the rasterizer that writes pixels.
func WithRasterizer(rz Rasterizer) Option {
	return func(r *Renderer) {
		r.raster = rz
	}
}

// WithSky sets the flat that marks sky ceilings and the texture drawn there.
func WithSky(flatNum, textureNum int) Option {
	return func(r *Renderer) {
		r.skyFlat = flatNum
		r.skyTexture = textureNum
	}
}

// WithExtraLight brightens every surface by n light levels.
func WithExtraLight(n int) Option {
	return func(r *Renderer) {
		r.extraLight = n
	}
}

// Renderer is the render context for one level.
type Renderer struct {
	level  *wad.Level
	assets Assets
	raster Rasterizer

	skyFlat    int
	skyTexture int
	extraLight int

	// Per-level pools, reset every frame
	planes   *VisplanePool
	drawSegs arena[DrawSeg]

	// Per-frame state
	view     view
	band     *Band
	clip     ClipSpans
	solid    solidSegs
	spans    spanCache
	stats    FrameStats
	reported map[missingKey]bool

	// State of the subsector and seg being drawn
	frontSector  *wad.Sector
	floorPlane   *Visplane
	ceilingPlane *Visplane
	seg          *wad.LineSegment
	angle1       fixed.Angle // angle from the viewer to the seg's first vertex
}

// view holds the viewpoint and the values derived from it for one frame.
type view struct {
	x, y, z    fixed.Fixed
	angle      fixed.Angle
	sin, cos   fixed.Fixed
	baseXScale fixed.Fixed
	baseYScale fixed.Fixed
}

// New returns a renderer for level. If assets can resolve names, the sky
// defaults to the standard sky flat and texture.
func New(level *wad.Level, assets Assets, opts ...Option) (*Renderer, error) {
	if level == nil || level.Root == nil {
		return nil, ErrNoLevel
	}
	r := &Renderer{
		level:      level,
		assets:     assets,
		raster:     BandRasterizer{},
		skyFlat:    wad.MissingFlat,
		skyTexture: wad.NoTexture,
		planes:     NewVisplanePool(MaxVisplanes),
		drawSegs:   newArena[DrawSeg](MaxDrawSegs, ErrDrawSegOverflow),
		solid:      newSolidSegs(),
		reported:   make(map[missingKey]bool),
	}
	if names, ok := assets.(skyNamer); ok {
		r.skyFlat, _ = names.FlatNum(wad.SkyFlatName)
		r.skyTexture, _ = names.TextureNum(wad.SkyTextureName)
	}
	for _, opt := range opts {
		opt(r)
	}
	r.ResetPlanes()
	return r, nil
}

// ResetPlanes clears the visplanes, draw segs and clip state.
func (r *Renderer) ResetPlanes() {
	r.planes.Reset()
	r.drawSegs.reset()
	r.clip.Reset()
	r.solid.reset()
	r.spans.reset()
}

// RenderPlayerView draws the view from vp into band. The whole BSP walk is
// repeated for every band; only rows inside the band are written.
// Exhausting a fixed pool aborts the frame with an error.
func (r *Renderer) RenderPlayerView(vp Viewpoint, band *Band) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			fe, ok := rec.(fatalError)
			if !ok {
				panic(rec)
			}
			err = fmt.Errorf("render: %w", fe.err)
		}
	}()

	r.setupFrame(vp, band)
	r.renderBSPNode(r.level.Root)
	r.drawPlanes()
	r.stats.Visplanes = r.planes.Len()
	return nil
}

func (r *Renderer) setupFrame(vp Viewpoint, band *Band) {
	r.ResetPlanes()
	r.band = band
	r.stats = FrameStats{}

	v := &r.view
	v.x, v.y, v.z = vp.X, vp.Y, vp.Z
	v.angle = vp.Angle
	v.sin = fixed.Sine(vp.Angle)
	v.cos = fixed.Cosine(vp.Angle)

	// Left to right mapping for planes
	a := vp.Angle - fixed.Ang90
	v.baseXScale = fixed.Div(fixed.Cosine(a), centerXFrac)
	v.baseYScale = -fixed.Div(fixed.Sine(a), centerXFrac)
}

// Stats returns the counters of the last frame.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

// Visplanes returns the visplanes of the last frame.
func (r *Renderer) Visplanes() []*Visplane {
	return r.planes.Planes()
}

// DrawSegs returns the wall ranges stored in the last frame.
func (r *Renderer) DrawSegs() []DrawSeg {
	return append([]DrawSeg(nil), r.drawSegs.items...)
}

// Clip returns the clip spans left by the last frame.
func (r *Renderer) Clip() *ClipSpans {
	return &r.clip
}

// SkyFlat returns the flat number treated as sky.
func (r *Renderer) SkyFlat() int {
	return r.skyFlat
}

func (r *Renderer) isSky(flat int) bool {
	return flat >= 0 && flat == r.skyFlat
}
