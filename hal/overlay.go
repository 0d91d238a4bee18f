package hal

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var overlayColor = color.RGBA{R: 0xff, G: 0xdd, B: 0x66, A: 0xff}

// Overlay draws status text onto the panel.
type Overlay struct {
	img    *image.RGBA
	font   tinyfont.Fonter
	height int16
}

var _ drivers.Displayer = (*Overlay)(nil)

// NewOverlay returns an overlay drawing into img.
func NewOverlay(img *image.RGBA) *Overlay {
	return &Overlay{img: img, font: &proggy.TinySZ8pt7b, height: 8}
}

// WriteLine draws s with its top left corner at (x, y).
func (o *Overlay) WriteLine(x, y int, s string) {
	tinyfont.WriteLine(o, o.font, int16(x), int16(y)+o.height, s, overlayColor)
}

func (o *Overlay) Size() (x, y int16) {
	b := o.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (o *Overlay) SetPixel(x, y int16, c color.RGBA) {
	p := image.Pt(int(x), int(y))
	if !p.In(o.img.Bounds()) {
		return
	}
	o.img.SetRGBA(p.X, p.Y, c)
}

func (o *Overlay) Display() error { return nil }
