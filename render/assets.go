package render

import "github.com/stuarthighley/doomview/wad"

// Assets is the texture source the renderer reads from. Lookups may block
// on slow storage. *wad.WAD implements it.
type Assets interface {
	Flat(num int) (*wad.Flat, error)
	Texture(num int) (*wad.Texture, error)
	ColorMap(level int) *wad.ColorMap
}

// skyNamer is implemented by asset sources that can resolve the sky by
// name.
type skyNamer interface {
	FlatNum(name string) (int, bool)
	TextureNum(name string) (int, bool)
}

const placeholderSize = 64

// Placeholder colors: a checkerboard of two palette indices.
const (
	placeholderDark  = 0
	placeholderLight = 4
)

var (
	placeholderFlat    = newPlaceholderFlat()
	placeholderTexture = newPlaceholderTexture()
)

func checker(x, y int) byte {
	if (x/8+y/8)%2 == 0 {
		return placeholderLight
	}
	return placeholderDark
}

func newPlaceholderFlat() *wad.Flat {
	data := make([]byte, wad.FlatWidth*wad.FlatHeight)
	for y := range wad.FlatHeight {
		for x := range wad.FlatWidth {
			data[y*wad.FlatWidth+x] = checker(x, y)
		}
	}
	return &wad.Flat{Name: "PLACEHOLDER", Index: wad.MissingFlat, Data: data}
}

func newPlaceholderTexture() *wad.Texture {
	picture := &wad.Picture{
		Name:    "PLACEHOLDER",
		Width:   placeholderSize,
		Height:  placeholderSize,
		Columns: make([]wad.Column, placeholderSize),
	}
	for x := range picture.Columns {
		c := make(wad.Column, placeholderSize)
		for y := range c {
			c[y] = checker(x, y)
		}
		picture.Columns[x] = c
	}
	return &wad.Texture{
		Name:    picture.Name,
		Index:   wad.MissingTexture,
		Width:   placeholderSize,
		Height:  placeholderSize,
		Picture: picture,
	}
}

// flat returns flat num, or the placeholder if it cannot be read.
func (r *Renderer) flat(num int) *wad.Flat {
	f, err := r.assets.Flat(num)
	if err != nil || len(f.Data) < wad.FlatWidth*wad.FlatHeight {
		r.missing("flat", num, err)
		return placeholderFlat
	}
	return f
}

// texture returns texture num, nil for NoTexture, or the placeholder if it
// cannot be read.
func (r *Renderer) texture(num int) *wad.Texture {
	if num == wad.NoTexture {
		return nil
	}
	t, err := r.assets.Texture(num)
	if err != nil || t.Picture == nil || len(t.Picture.Columns) == 0 {
		r.missing("texture", num, err)
		return placeholderTexture
	}
	return t
}

// textureColumn returns column col of t, wrapping around its width.
func textureColumn(t *wad.Texture, col int) []byte {
	columns := t.Picture.Columns
	width := len(columns)
	if width&(width-1) == 0 {
		return columns[col&(width-1)]
	}
	col %= width
	if col < 0 {
		col += width
	}
	return columns[col]
}

type missingKey struct {
	kind string
	num  int
}

// missing logs a failed lookup the first time it happens.
func (r *Renderer) missing(kind string, num int, err error) {
	r.stats.Placeholders++
	k := missingKey{kind, num}
	if r.reported[k] {
		return
	}
	r.reported[k] = true
	logger.Printf("%s %d: using placeholder: %v", kind, num, err)
}
