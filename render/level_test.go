package render

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stuarthighley/doomview/fixed"
	"github.com/stuarthighley/doomview/wad"
)

const numTestAssets = 8

// testAssets serves solid colour flats and textures: flat n is filled with
// 10+n and texture n with 50+n. Every colormap is the identity.
type testAssets struct {
	flats    [numTestAssets]*wad.Flat
	textures [numTestAssets]*wad.Texture
	colormap wad.ColorMap
}

func newTestAssets() *testAssets {
	a := &testAssets{}
	for i := range a.colormap {
		a.colormap[i] = byte(i)
	}
	for n := range numTestAssets {
		data := make([]byte, wad.FlatWidth*wad.FlatHeight)
		for i := range data {
			data[i] = byte(10 + n)
		}
		a.flats[n] = &wad.Flat{Index: n, Data: data}

		picture := &wad.Picture{Width: 64, Height: 64, Columns: make([]wad.Column, 64)}
		for x := range picture.Columns {
			c := make(wad.Column, 64)
			for y := range c {
				c[y] = byte(50 + n)
			}
			picture.Columns[x] = c
		}
		a.textures[n] = &wad.Texture{Index: n, Width: 64, Height: 64, Picture: picture}
	}
	return a
}

func (a *testAssets) Flat(num int) (*wad.Flat, error) {
	if num < 0 || num >= numTestAssets {
		return nil, wad.ErrFlatNotFound
	}
	return a.flats[num], nil
}

func (a *testAssets) Texture(num int) (*wad.Texture, error) {
	if num < 0 || num >= numTestAssets {
		return nil, wad.ErrTextureNotFound
	}
	return a.textures[num], nil
}

func (a *testAssets) ColorMap(int) *wad.ColorMap {
	return &a.colormap
}

func vertex(x, y int) wad.Vertex {
	return wad.Vertex{X: fixed.FromInt(x), Y: fixed.FromInt(y)}
}

func wallSide(sector, texture int) wad.Side {
	return wad.Side{
		SectorNum:     sector,
		UpperTexture:  wad.NoTexture,
		MiddleTexture: texture,
		LowerTexture:  wad.NoTexture,
	}
}

func oneSided(v1, v2, side int) wad.Line {
	return wad.Line{V1Num: v1, V2Num: v2, SideRNum: side, SideLNum: -1}
}

func seg(v1, v2, line int, sideL bool) wad.LineSegment {
	return wad.LineSegment{V1Num: v1, V2Num: v2, LineNum: line, IsSideL: sideL}
}

// link links the level and sets the seg angles from their vertexes.
func link(t *testing.T, l *wad.Level) *wad.Level {
	t.Helper()
	require.NoError(t, l.Link())
	for i := range l.LineSegments {
		s := &l.LineSegments[i]
		s.Angle = fixed.PointToAngle(s.V2.X-s.V1.X, s.V2.Y-s.V1.Y)
	}
	return l
}

// newRoom returns a 256x256 room, floor 0 and ceiling 128, as a single
// subsector with no nodes. Wall n uses texture n+1.
func newRoom(t *testing.T, ceilingFlat int) *wad.Level {
	return link(t, &wad.Level{
		Vertexes: []wad.Vertex{vertex(0, 0), vertex(0, 256), vertex(256, 256), vertex(256, 0)},
		Sectors: []wad.Sector{{
			CeilingHeight: fixed.FromInt(128),
			FloorFlat:     0,
			CeilingFlat:   ceilingFlat,
			LightLevel:    160,
		}},
		Sides: []wad.Side{wallSide(0, 1), wallSide(0, 2), wallSide(0, 3), wallSide(0, 4)},
		Lines: []wad.Line{oneSided(0, 1, 0), oneSided(1, 2, 1), oneSided(2, 3, 2), oneSided(3, 0, 3)},
		LineSegments: []wad.LineSegment{
			seg(0, 1, 0, false), seg(1, 2, 1, false), seg(2, 3, 2, false), seg(3, 0, 3, false),
		},
		SubSectors: []wad.SubSector{{NumLineSegments: 4}},
	})
}

// Doorway level: two 256x256 rooms side by side joined along x=256. The
// east room's floor is 24 higher, so the opening shows a step drawn with
// texture stepTexture.
const (
	stepTexture = 3
	portalSeg   = 2
)

func newDoorway(t *testing.T) *wad.Level {
	portal := wallSide(0, wad.NoTexture)
	portal.LowerTexture = stepTexture
	return link(t, &wad.Level{
		Vertexes: []wad.Vertex{
			vertex(0, 0), vertex(0, 256), vertex(256, 256), vertex(256, 0), vertex(512, 256), vertex(512, 0),
		},
		Sectors: []wad.Sector{
			{Index: 0, CeilingHeight: fixed.FromInt(128), FloorFlat: 0, CeilingFlat: 2, LightLevel: 160},
			{Index: 1, FloorHeight: fixed.FromInt(24), CeilingHeight: fixed.FromInt(128), FloorFlat: 1, CeilingFlat: 2, LightLevel: 160},
		},
		Sides: []wad.Side{
			wallSide(0, 1), wallSide(0, 1), portal, wallSide(0, 1),
			wallSide(1, wad.NoTexture), wallSide(1, 2), wallSide(1, 2), wallSide(1, 2),
		},
		Lines: []wad.Line{
			oneSided(0, 1, 0), oneSided(1, 2, 1),
			{V1Num: 2, V2Num: 3, SideRNum: 2, SideLNum: 4, TwoSided: true},
			oneSided(3, 0, 3),
			oneSided(2, 4, 5), oneSided(4, 5, 6), oneSided(5, 3, 7),
		},
		LineSegments: []wad.LineSegment{
			seg(0, 1, 0, false), seg(1, 2, 1, false), seg(2, 3, 2, false), seg(3, 0, 3, false),
			seg(3, 2, 2, true), seg(2, 4, 4, false), seg(4, 5, 5, false), seg(5, 3, 6, false),
		},
		SubSectors: []wad.SubSector{
			{NumLineSegments: 4, StartLineSegment: 0},
			{NumLineSegments: 4, StartLineSegment: 4},
		},
		Nodes: []wad.Node{{
			X:         fixed.FromInt(256),
			DY:        fixed.FromInt(256),
			BBoxR:     wad.BoundBox{Top: fixed.FromInt(256), Left: fixed.FromInt(256), Right: fixed.FromInt(512)},
			BBoxL:     wad.BoundBox{Top: fixed.FromInt(256), Right: fixed.FromInt(256)},
			ChildNumR: wad.SubSectorFlag | 1,
			ChildNumL: wad.SubSectorFlag | 0,
		}},
	})
}

func eye(x, y, z int, degrees float64) Viewpoint {
	return Viewpoint{
		X:     fixed.FromInt(x),
		Y:     fixed.FromInt(y),
		Z:     fixed.FromInt(z),
		Angle: fixed.FromDegrees(degrees),
	}
}

// recorder is a Rasterizer that keeps every job and counts the writes to
// each pixel, optionally passing jobs on to a BandRasterizer.
type recorder struct {
	columns []ColumnJob
	spans   []SpanJob
	writes  [ScreenHeight][ScreenWidth]int
	onWall  func(j *ColumnJob)
	draw    bool
}

func (rec *recorder) DrawColumn(b *Band, j *ColumnJob) {
	if rec.onWall != nil && !j.Sky {
		rec.onWall(j)
	}
	rec.columns = append(rec.columns, *j)
	for y := j.YL; y <= j.YH; y++ {
		rec.writes[y][j.X]++
	}
	if rec.draw {
		BandRasterizer{}.DrawColumn(b, j)
	}
}

func (rec *recorder) DrawSpan(b *Band, j *SpanJob) {
	rec.spans = append(rec.spans, *j)
	for x := j.X1; x <= j.X2; x++ {
		rec.writes[j.Y][x]++
	}
	if rec.draw {
		BandRasterizer{}.DrawSpan(b, j)
	}
}

func newTestRenderer(t *testing.T, level *wad.Level, opts ...Option) *Renderer {
	t.Helper()
	r, err := New(level, newTestAssets(), opts...)
	require.NoError(t, err)
	return r
}

func renderFrame(t *testing.T, r *Renderer, vp Viewpoint, band *Band) *Band {
	t.Helper()
	require.NoError(t, r.RenderPlayerView(vp, band))
	return band
}
