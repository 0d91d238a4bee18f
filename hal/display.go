package hal

import (
	"fmt"
	"image"

	"github.com/stuarthighley/doomview/render"
	"github.com/stuarthighley/doomview/wad"
)

// BandDisplay drives a panel through a single band sized buffer: the
// renderer draws one band into the buffer, FlushBand sends it to the panel
// through the palette, and the buffer is reused for the next band.
type BandDisplay struct {
	band    *render.Band
	panel   *image.RGBA
	palette *wad.Palette

	// Flushes counts bands sent to the panel.
	Flushes int
}

// NewBandDisplay returns a display for the renderer's screen size.
func NewBandDisplay(palette *wad.Palette) *BandDisplay {
	return &BandDisplay{
		band:    render.NewBand(0, render.BandHeight),
		panel:   image.NewRGBA(image.Rect(0, 0, render.ScreenWidth, render.ScreenHeight)),
		palette: palette,
	}
}

// Band returns the band buffer positioned for band i. The buffer is shared
// by all bands.
func (d *BandDisplay) Band(i int) (*render.Band, error) {
	if i < 0 || i >= render.NumBands {
		return nil, fmt.Errorf("band %d: %w", i, ErrOutOfRange)
	}
	d.band.StartY = i * render.BandHeight
	d.band.StopY = d.band.StartY + render.BandHeight
	return d.band, nil
}

// FlushBand copies the band buffer into the panel rows it covers.
func (d *BandDisplay) FlushBand() {
	b := d.band
	for y := b.StartY; y < b.StopY; y++ {
		src := b.Pix[(y-b.StartY)*b.Stride:][:render.ScreenWidth]
		dst := d.panel.Pix[y*d.panel.Stride:]
		for x, c := range src {
			rgb := d.palette[c]
			j := x * 4
			dst[j+0] = rgb.Red
			dst[j+1] = rgb.Green
			dst[j+2] = rgb.Blue
			dst[j+3] = 0xff
		}
	}
	d.Flushes++
}

// Panel returns the panel contents.
func (d *BandDisplay) Panel() *image.RGBA {
	return d.panel
}
