package wad

import (
	"encoding/binary"
	"fmt"
	"strings"
)

type binTextureHeader struct {
	TextureName String8
	Masked      int32
	Width       int16
	Height      int16
	Unused      int32 // ColumnDirectory
	NumPatches  int16
}

type binPatch struct {
	XOffset      int16
	YOffset      int16
	PatchNameIdx int16
	Unused1      int16 // StepDir
	Unused2      int16 // ColorMap
}

// Texture is a wall texture composed from one or more patches.
type Texture struct {
	Name          string   // Texture name and key into the textures map
	Index         int      // Index into TexturesList
	IsMasked      bool     // Has transparent gaps
	Width, Height int      // total width and height of the map texture
	Patches       []Patch  // List of component Patches
	Picture       *Picture // Expanded Picture, composed on first lookup
}

type Patch struct {
	XOffset  int // horizontal offset of patch relative to upper-left of texture
	YOffset  int // vertical offset of patch relative to upper-left of texture
	PatchNum int // index into the PNAMES list
}

// A flat is an image that is drawn on the floors and ceilings of sectors.
// Flats are a raw collection of pixel values with no offset or other dimension information; each
// flat is a named lump of 4096 bytes representing a 64x64 square, stored row by row.
// Flats are always drawn aligned to a fixed grid. This ensures that floor and ceiling textures
// flow smoothly from sector to sector.
type Flat struct {
	Name  string // Flat name and key into the flat directory
	Index int    // Index into the flat list
	Data  []byte
}

const FlatWidth, FlatHeight = 64, 64

// Special lump names
const (
	SkyFlatName    = "F_SKY1"
	SkyTextureName = "SKY1"
)

// Texture numbers stored on sides that do not refer to a real texture.
const (
	NoTexture      = -1 // "-" in the WAD: nothing is drawn
	MissingTexture = -2 // named texture absent from the WAD
)

// MissingFlat is stored on sectors whose flat name is absent from the WAD.
const MissingFlat = -1

// readPatchNames reads the PNAMES lump to populate a slice of patch names
func (w *WAD) readPatchNames() ([]string, error) {
	logger.Printf("Loading patch names ...\n")
	r, err := w.lumpReader("PNAMES")
	if err != nil {
		return nil, err
	}

	// Read PNAMES header
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read PNAMES: %w", err)
	}

	// Read and translate PNAMES body
	pnames := make([]String8, count)
	patchNames := make([]string, count)
	if err := binary.Read(r, binary.LittleEndian, pnames); err != nil {
		return nil, fmt.Errorf("read PNAMES: %w", err)
	}
	for i, p := range pnames {
		patchNames[i] = strings.ToUpper(p.String()) // ToUpper required for "w94_1" patch
	}
	return patchNames, nil
}

// readTextures reads the TEXTUREn definitions. Pictures are not composed
// until the texture is first looked up.
func (w *WAD) readTextures() error {
	logger.Println("Loading textures ...")

	w.textures = make(map[string]*Texture)
	w.TexturesList = nil
	for i := 1; i < 10; i++ {
		name := fmt.Sprintf("TEXTURE%v", i)
		lumpNum, ok := w.lumpNums[name]
		if !ok {
			continue
		}
		logger.Printf("Loading %v ...", name)
		lump, err := w.readLump(&w.lumpInfos[lumpNum])
		if err != nil {
			return err
		}
		if err := w.parseTextureLump(name, lump); err != nil {
			return err
		}
	}
	logger.Printf("Loaded %v texture definitions", len(w.textures))
	return nil
}

func (w *WAD) parseTextureLump(name string, lump []byte) error {
	if len(lump) < 4 {
		return fmt.Errorf("%v: truncated lump", name)
	}
	count := int(binary.LittleEndian.Uint32(lump))
	if 4+count*4 > len(lump) {
		return fmt.Errorf("%v: truncated offsets", name)
	}

	for i := range count {
		offset := int(binary.LittleEndian.Uint32(lump[4+i*4:]))
		const headerSize = 22
		if offset < 0 || offset+headerSize > len(lump) {
			return fmt.Errorf("%v: texture %d out of range", name, i)
		}

		var bh binTextureHeader
		if _, err := binary.Decode(lump[offset:], binary.LittleEndian, &bh); err != nil {
			return fmt.Errorf("%v: texture %d: %w", name, i, err)
		}
		texture := &Texture{
			Name:     strings.ToUpper(bh.TextureName.String()),
			IsMasked: bh.Masked != 0,
			Width:    int(bh.Width),
			Height:   int(bh.Height),
		}

		binPatches := make([]binPatch, bh.NumPatches)
		if _, err := binary.Decode(lump[offset+headerSize:], binary.LittleEndian, binPatches); err != nil {
			return fmt.Errorf("%v: %v patches: %w", name, texture.Name, err)
		}
		texture.Patches = make([]Patch, len(binPatches))
		for pi, p := range binPatches {
			texture.Patches[pi] = Patch{
				XOffset:  int(p.XOffset),
				YOffset:  int(p.YOffset),
				PatchNum: int(p.PatchNameIdx),
			}
		}

		texture.Index = len(w.TexturesList)
		w.textures[texture.Name] = texture
		w.TexturesList = append(w.TexturesList, texture)
	}
	return nil
}

// TextureNum returns the index of the named texture, NoTexture for "-".
func (w *WAD) TextureNum(name string) (int, bool) {
	name = strings.ToUpper(name)
	if name == "" || name == "-" {
		return NoTexture, true
	}
	t, ok := w.textures[name]
	if !ok {
		return MissingTexture, false
	}
	return t.Index, true
}

// Texture returns a wall texture with its picture composed.
func (w *WAD) Texture(num int) (*Texture, error) {
	if num < 0 || num >= len(w.TexturesList) {
		return nil, fmt.Errorf("texture %d: %w", num, ErrTextureNotFound)
	}
	texture := w.TexturesList[num]
	if texture.Picture == nil {
		picture, err := w.composeTexture(texture)
		if err != nil {
			return nil, err
		}
		texture.Picture = picture
	}
	return texture, nil
}

// composeTexture expands the texture's patches into a single column-major
// picture.
func (w *WAD) composeTexture(texture *Texture) (*Picture, error) {
	if texture.Width <= 0 || texture.Height <= 0 {
		return nil, fmt.Errorf("%v: bad size %dx%d", texture.Name, texture.Width, texture.Height)
	}
	picture := &Picture{
		Name:    texture.Name,
		Width:   texture.Width,
		Height:  texture.Height,
		Columns: make([]Column, texture.Width),
	}
	for i := range picture.Columns {
		picture.Columns[i] = make(Column, texture.Height)
	}

	for _, p := range texture.Patches {
		if p.PatchNum < 0 || p.PatchNum >= len(w.patchNames) {
			logger.Printf("%v: bad patch number %d", texture.Name, p.PatchNum)
			continue
		}
		patch, err := w.GetPicture(w.patchNames[p.PatchNum])
		if err != nil {
			logger.Printf("%v: %v", texture.Name, err)
			continue
		}
		sourceYOffset, yOffset := 0, p.YOffset
		if yOffset < 0 {
			sourceYOffset = -yOffset
			yOffset = 0
		}
		for x, c := range patch.Columns {
			dx := p.XOffset + x
			if dx < 0 || dx >= len(picture.Columns) || yOffset >= texture.Height || sourceYOffset >= len(c) {
				continue
			}
			// Transparent patch pixels leave what is underneath
			dst := picture.Columns[dx][yOffset:]
			for y, b := range c[sourceYOffset:] {
				if y >= len(dst) {
					break
				}
				if b != w.TransparentIndex {
					dst[y] = b
				}
			}
		}
	}
	return picture, nil
}

// readFlatDirectory records the lumps between F_START and F_END.
func (w *WAD) readFlatDirectory() error {
	logger.Println("Loading flat directory ...")

	startLump, ok := w.lumpNums["F_START"]
	if !ok {
		return fmt.Errorf("F_START: %w", ErrLumpNotFound)
	}
	endLump, ok := w.lumpNums["F_END"]
	if !ok {
		return fmt.Errorf("F_END: %w", ErrLumpNotFound)
	}

	w.flatNums = make(map[string]int)
	w.flatLumps = nil
	for i := startLump + 1; i < endLump; i++ {
		// Skip marker lumps
		if w.lumpInfos[i].Size == 0 {
			continue
		}
		w.flatNums[w.lumpInfos[i].Name] = len(w.flatLumps)
		w.flatLumps = append(w.flatLumps, i)
	}
	w.flats = make([]*Flat, len(w.flatLumps))
	logger.Printf("Found %v flats", len(w.flatLumps))
	return nil
}

// FlatNum returns the index of the named flat.
func (w *WAD) FlatNum(name string) (int, bool) {
	n, ok := w.flatNums[strings.ToUpper(name)]
	if !ok {
		return MissingFlat, false
	}
	return n, true
}

// NumFlats returns the number of flats in the directory.
func (w *WAD) NumFlats() int {
	return len(w.flatLumps)
}

// Flat reads a flat, caching it for subsequent lookups.
func (w *WAD) Flat(num int) (*Flat, error) {
	if num < 0 || num >= len(w.flatLumps) {
		return nil, fmt.Errorf("flat %d: %w", num, ErrFlatNotFound)
	}
	if f := w.flats[num]; f != nil {
		return f, nil
	}
	lumpInfo := &w.lumpInfos[w.flatLumps[num]]
	if lumpInfo.Size < FlatWidth*FlatHeight {
		return nil, fmt.Errorf("%v: short flat (%d bytes)", lumpInfo.Name, lumpInfo.Size)
	}
	data := make([]byte, FlatWidth*FlatHeight)
	if n, err := w.r.ReadAt(data, int64(lumpInfo.Filepos)); n < len(data) {
		return nil, fmt.Errorf("%v: %w", lumpInfo.Name, err)
	}
	flat := &Flat{Name: lumpInfo.Name, Index: num, Data: data}
	w.flats[num] = flat
	return flat, nil
}
