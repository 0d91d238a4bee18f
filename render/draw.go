package render

import (
	"github.com/stuarthighley/doomview/fixed"
	"github.com/stuarthighley/doomview/wad"
)

// Band is the part of the framebuffer the renderer may write during one
// pass: screen rows [StartY, StopY). Pix holds only those rows, so screen
// row y starts at Pix[(y-StartY)*Stride].
type Band struct {
	Pix    []byte
	Stride int
	StartY int
	StopY  int
}

// NewBand allocates a band covering rows [startY, stopY).
func NewBand(startY, stopY int) *Band {
	return &Band{
		Pix:    make([]byte, (stopY-startY)*ScreenWidth),
		Stride: ScreenWidth,
		StartY: startY,
		StopY:  stopY,
	}
}

// FullScreen returns a band covering the whole screen.
func FullScreen() *Band {
	return NewBand(0, ScreenHeight)
}

// Clear fills the band with c.
func (b *Band) Clear(c byte) {
	for i := range b.Pix {
		b.Pix[i] = c
	}
}

// clipRows limits [yl, yh] to the band's rows.
func (b *Band) clipRows(yl, yh int) (int, int) {
	return max(yl, b.StartY), min(yh, b.StopY-1)
}

func (b *Band) hasRow(y int) bool {
	return y >= b.StartY && y < b.StopY
}

// ColumnJob draws rows [YL, YH] of screen column X from one texture column.
// Frac is the texture row at YL and IScale the texture rows per screen row.
type ColumnJob struct {
	X, YL, YH int
	Frac      fixed.Fixed
	IScale    fixed.Fixed
	Source    []byte // texture column
	ColorMap  *wad.ColorMap
	Sky       bool
}

// SpanJob draws columns [X1, X2] of screen row Y from a flat. XFrac and
// YFrac are the flat coordinates at X1, stepped by XStep and YStep.
type SpanJob struct {
	Y, X1, X2    int
	XFrac, YFrac fixed.Fixed
	XStep, YStep fixed.Fixed
	Source       []byte // FlatWidth*FlatHeight texels, row major
	ColorMap     *wad.ColorMap
}

// Rasterizer turns column and span jobs into pixels. Jobs are already
// clipped to the band.
type Rasterizer interface {
	DrawColumn(b *Band, j *ColumnJob)
	DrawSpan(b *Band, j *SpanJob)
}

// BandRasterizer writes jobs into the band's pixels.
type BandRasterizer struct{}

func (BandRasterizer) DrawColumn(b *Band, j *ColumnJob) {
	if j.YL > j.YH {
		return
	}
	height := len(j.Source)
	if height == 0 {
		return
	}
	cm := j.ColorMap
	frac := j.Frac
	i := (j.YL-b.StartY)*b.Stride + j.X

	if height&(height-1) == 0 {
		mask := height - 1
		for y := j.YL; y <= j.YH; y++ {
			b.Pix[i] = cm[j.Source[int(frac>>fixed.FracBits)&mask]]
			i += b.Stride
			frac += j.IScale
		}
		return
	}

	for y := j.YL; y <= j.YH; y++ {
		row := int(frac>>fixed.FracBits) % height
		if row < 0 {
			row += height
		}
		b.Pix[i] = cm[j.Source[row]]
		i += b.Stride
		frac += j.IScale
	}
}

func (BandRasterizer) DrawSpan(b *Band, j *SpanJob) {
	cm := j.ColorMap
	xfrac, yfrac := j.XFrac, j.YFrac
	row := b.Pix[(j.Y-b.StartY)*b.Stride:]
	for x := j.X1; x <= j.X2; x++ {
		// Current texture index in u,v
		spot := int(yfrac>>(fixed.FracBits-6))&(63*64) + int(xfrac>>fixed.FracBits)&63
		row[x] = cm[j.Source[spot]]
		xfrac += j.XStep
		yfrac += j.YStep
	}
}
