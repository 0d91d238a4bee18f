package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stuarthighley/doomview/fixed"
	"github.com/stuarthighley/doomview/wad"
)

func identity() *wad.ColorMap {
	var cm wad.ColorMap
	for i := range cm {
		cm[i] = byte(i)
	}
	return &cm
}

func TestDrawColumnWrapsPowerOfTwo(t *testing.T) {
	b := NewBand(32, 64)
	source := make([]byte, 4)
	for i := range source {
		source[i] = byte(i + 1)
	}
	BandRasterizer{}.DrawColumn(b, &ColumnJob{
		X: 7, YL: 32, YH: 39,
		Frac:     fixed.FromInt(2),
		IScale:   fixed.Unit,
		Source:   source,
		ColorMap: identity(),
	})
	var got []byte
	for y := 0; y < 8; y++ {
		got = append(got, b.Pix[y*b.Stride+7])
	}
	assert.Equal(t, []byte{3, 4, 1, 2, 3, 4, 1, 2}, got)
	assert.Zero(t, b.Pix[8*b.Stride+7])
}

func TestDrawColumnWrapsOtherHeights(t *testing.T) {
	b := FullScreen()
	source := []byte{1, 2, 3}
	BandRasterizer{}.DrawColumn(b, &ColumnJob{
		X: 0, YL: 0, YH: 5,
		Frac:     -fixed.Unit,
		IScale:   fixed.Unit,
		Source:   source,
		ColorMap: identity(),
	})
	var got []byte
	for y := range 6 {
		got = append(got, b.Pix[y*b.Stride])
	}
	assert.Equal(t, []byte{3, 1, 2, 3, 1, 2}, got)
}

func TestDrawColumnAppliesColorMap(t *testing.T) {
	b := FullScreen()
	var dark wad.ColorMap
	dark[9] = 200
	BandRasterizer{}.DrawColumn(b, &ColumnJob{
		X: 1, YL: 10, YH: 10,
		IScale:   fixed.Unit,
		Source:   []byte{9},
		ColorMap: &dark,
	})
	assert.Equal(t, byte(200), b.Pix[10*b.Stride+1])
}

func TestDrawSpan(t *testing.T) {
	b := NewBand(96, 128)
	source := make([]byte, wad.FlatWidth*wad.FlatHeight)
	for i := range source {
		source[i] = byte(i % 251)
	}
	BandRasterizer{}.DrawSpan(b, &SpanJob{
		Y: 100, X1: 10, X2: 13,
		XFrac:    fixed.FromInt(62),
		YFrac:    fixed.FromInt(3),
		XStep:    fixed.Unit,
		Source:   source,
		ColorMap: identity(),
	})
	row := b.Pix[4*b.Stride:]
	// x wraps from 63 to 0 on the same flat row
	assert.Equal(t, []byte{
		source[3*64+62], source[3*64+63], source[3*64+0], source[3*64+1],
	}, row[10:14])
	assert.Zero(t, row[9])
	assert.Zero(t, row[14])
}

func TestBandRows(t *testing.T) {
	b := NewBand(32, 64)
	assert.Len(t, b.Pix, 32*ScreenWidth)
	yl, yh := b.clipRows(0, 127)
	assert.Equal(t, 32, yl)
	assert.Equal(t, 63, yh)
	assert.True(t, b.hasRow(32))
	assert.False(t, b.hasRow(64))

	b.Clear(7)
	assert.Equal(t, byte(7), b.Pix[len(b.Pix)-1])
}
