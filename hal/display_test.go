package hal

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stuarthighley/doomview/render"
	"github.com/stuarthighley/doomview/wad"
)

func testPalette() *wad.Palette {
	var p wad.Palette
	for i := range p {
		p[i] = wad.RGB{Red: uint8(i), Green: uint8(255 - i), Blue: 0x10}
	}
	return &p
}

func TestBandDisplayFlush(t *testing.T) {
	d := NewBandDisplay(testPalette())

	for i := range render.NumBands {
		band, err := d.Band(i)
		require.NoError(t, err)
		assert.Equal(t, i*render.BandHeight, band.StartY)
		band.Clear(byte(10 + i))
		d.FlushBand()
	}
	assert.Equal(t, render.NumBands, d.Flushes)

	panel := d.Panel()
	for i := range render.NumBands {
		y := i*render.BandHeight + 3
		assert.Equal(t, color.RGBA{R: uint8(10 + i), G: uint8(245 - i), B: 0x10, A: 0xff}, panel.RGBAAt(5, y))
	}

	_, err := d.Band(render.NumBands)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestSaveSnapshot(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.SetRGBA(1, 1, color.RGBA{R: 0xff, A: 0xff})
	dir := t.TempDir()

	for _, name := range []string{"a.png", "a.webp", "a.tga"} {
		path := filepath.Join(dir, name)
		require.NoError(t, SaveSnapshot(path, img, 2), name)
		st, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, st.Size(), name)
	}

	data, err := os.ReadFile(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 6), decoded.Bounds())
	r, _, _, _ := decoded.At(3, 3).RGBA()
	assert.Equal(t, uint32(0xffff), r)

	assert.Error(t, SaveSnapshot(filepath.Join(dir, "a.bmp"), img, 1))
}

func TestOverlayWritesText(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, render.ScreenWidth, 16))
	o := NewOverlay(img)
	o.WriteLine(2, 2, "E1M1")

	lit := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			lit++
		}
	}
	assert.NotZero(t, lit)

	// Off-panel pixels are ignored
	o.SetPixel(-1, 500, overlayColor)
	x, y := o.Size()
	assert.Equal(t, int16(render.ScreenWidth), x)
	assert.Equal(t, int16(16), y)
}
