// Package wad provides access to Doom's data archives also known as WAD files.
// The file format is documented in The Unofficial DOOM Specs:
// http://www.gamers.org/dhs/helpdocs/dmsp1666.html
//
// The archive is read through an io.ReaderAt so it can live on slow block
// storage. Only the lump directory, palettes, colormaps and texture
// definitions are read up front; flats and composed wall textures are read
// on first lookup and cached.
package wad

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrLumpNotFound    = errors.New("lump not found")
	ErrLevelNotFound   = errors.New("level not found")
	ErrFlatNotFound    = errors.New("flat not found")
	ErrTextureNotFound = errors.New("texture not found")
)

// WAD is a struct that represents Doom's data archive that contains graphics, sounds, and level
// data. The data is organized as named lumps.
type WAD struct {
	r         io.ReaderAt
	closer    io.Closer
	header    Header
	lumpInfos []LumpInfo
	lumpNums  map[string]int
	levels    map[string]int

	Palettes         *Palettes
	ColorMaps        *ColorMaps
	TransparentIndex byte

	patchNames   []string
	pictures     map[string]*Picture
	textures     map[string]*Texture
	TexturesList []*Texture
	flatNums     map[string]int
	flatLumps    []int
	flats        []*Flat
}

type binHeader struct {
	Magic        [4]byte
	NumLumps     int32
	InfoTableOfs int32
}

type Header struct {
	Magic        string
	NumLumps     int
	InfoTableOfs int
}

type binLumpInfo struct {
	Filepos int32
	Size    int32
	Name    String8
}

type LumpInfo struct {
	Name    string
	Filepos int
	Size    int
}

type RGB struct {
	Red, Green, Blue uint8
}

// PLAYPAL lump. A set of color palettes used to set the main graphics colors. The Doom engine can
// only display 256 simultaneous colors, so it performs palette swaps to achieve these effects.
type Palettes [14]Palette

// Each palette in PLAYPAL contains 256 three-ubyte colors totaling 768 bytes (RGB).
type Palette [256]RGB

// The COLORMAP lump contains 34 color maps of indices into the PLAYPAL palette chosen at that time
// through which colors can be remapped for sector lighting, distance fading, and partial screen
// color changes (such as the invulnerability effect).
type ColorMaps [NumColorMaps + 2]ColorMap

// NumColorMaps is the number of light-level colormaps; the two extra maps in
// the lump are the invulnerability map and an all-black map.
const NumColorMaps = 32

// Each color map is a table 256 bytes long. It is indexed using a pixel value (from 0 to 255) and
// yields a new, brightness-adjusted pixel value.
type ColorMap [256]byte

// WAD eight-character string type. Null-terminated for short strings.
type String8 [8]byte

// String converts String8 to string
func (s String8) String() string {
	i := bytes.IndexByte(s[:], 0)
	if i == -1 {
		i = len(s)
	}
	return string(s[0:i])
}

// Open opens a WAD file from disk.
func Open(filename string) (*WAD, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	w, err := New(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	w.closer = file
	return w, nil
}

// New reads WAD metadata through r. It returns a WAD object that can be used
// to read individual lumps.
func New(r io.ReaderAt) (*WAD, error) {
	logger.Println("Start reading WAD")

	w := &WAD{
		r:                r,
		pictures:         make(map[string]*Picture),
		TransparentIndex: 255,
	}

	// Read header
	var bh binHeader
	if err := binary.Read(io.NewSectionReader(r, 0, 12), binary.LittleEndian, &bh); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	magic := string(bh.Magic[:])
	if magic != "IWAD" && magic != "PWAD" {
		return nil, fmt.Errorf("bad magic: %q", magic)
	}
	w.header = Header{magic, int(bh.NumLumps), int(bh.InfoTableOfs)}

	if err := w.readInfoTables(); err != nil {
		return nil, err
	}

	playpal, err := w.readPlaypal()
	if err != nil {
		return nil, err
	}
	w.Palettes = playpal

	colorMaps, err := w.readColorMaps()
	if err != nil {
		return nil, err
	}
	w.ColorMaps = colorMaps

	if w.patchNames, err = w.readPatchNames(); err != nil {
		return nil, err
	}
	if err := w.readTextures(); err != nil {
		return nil, err
	}
	if err := w.readFlatDirectory(); err != nil {
		return nil, err
	}
	return w, nil
}

// Close releases the underlying file when the WAD was opened with Open.
func (w *WAD) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

func (w *WAD) readInfoTables() error {
	n := w.header.NumLumps
	if n < 0 {
		return fmt.Errorf("bad lump count %d", n)
	}
	binInfos := make([]binLumpInfo, n)
	sr := io.NewSectionReader(w.r, int64(w.header.InfoTableOfs), int64(n)*16)
	if err := binary.Read(sr, binary.LittleEndian, binInfos); err != nil {
		return fmt.Errorf("read lump directory: %w", err)
	}

	lumpNums := map[string]int{}
	levels := map[string]int{}
	lumpInfos := make([]LumpInfo, n)
	for i, bi := range binInfos {
		lumpInfo := LumpInfo{bi.Name.String(), int(bi.Filepos), int(bi.Size)}
		if lumpInfo.Name == "THINGS" && i > 0 {
			levels[lumpInfos[i-1].Name] = i - 1
		}
		// Later lumps override earlier ones, as with PWADs
		lumpNums[lumpInfo.Name] = i
		lumpInfos[i] = lumpInfo
	}
	w.levels = levels
	w.lumpNums = lumpNums
	w.lumpInfos = lumpInfos
	return nil
}

// readPlaypal
func (w *WAD) readPlaypal() (*Palettes, error) {
	logger.Println("Loading PLAYPAL ...")
	r, err := w.lumpReader("PLAYPAL")
	if err != nil {
		return nil, err
	}
	playpal := Palettes{}
	if err := binary.Read(r, binary.LittleEndian, &playpal); err != nil {
		return nil, fmt.Errorf("read PLAYPAL: %w", err)
	}
	return &playpal, nil
}

// readColorMaps
func (w *WAD) readColorMaps() (*ColorMaps, error) {
	logger.Println("Loading COLORMAP ...")
	r, err := w.lumpReader("COLORMAP")
	if err != nil {
		return nil, err
	}
	colormaps := ColorMaps{}
	if err := binary.Read(r, binary.LittleEndian, &colormaps); err != nil {
		return nil, fmt.Errorf("read COLORMAP: %w", err)
	}
	return &colormaps, nil
}

// Palette returns the base game palette.
func (w *WAD) Palette() *Palette {
	return &w.Palettes[0]
}

// ColorMap returns the light-level colormap at level, 0 being full
// brightness.
func (w *WAD) ColorMap(level int) *ColorMap {
	return &w.ColorMaps[level]
}

// LumpNum returns the directory index of the named lump.
func (w *WAD) LumpNum(name string) (int, bool) {
	n, ok := w.lumpNums[name]
	return n, ok
}

// lumpReader returns a reader over the named lump.
func (w *WAD) lumpReader(name string) (*io.SectionReader, error) {
	lumpNum, ok := w.lumpNums[name]
	if !ok {
		return nil, fmt.Errorf("%v: %w", name, ErrLumpNotFound)
	}
	return w.sectionReader(&w.lumpInfos[lumpNum]), nil
}

func (w *WAD) sectionReader(lumpInfo *LumpInfo) *io.SectionReader {
	return io.NewSectionReader(w.r, int64(lumpInfo.Filepos), int64(lumpInfo.Size))
}

// Read entire lump
func (w *WAD) readLump(lumpInfo *LumpInfo) ([]byte, error) {
	lump := make([]byte, lumpInfo.Size)
	n, err := w.r.ReadAt(lump, int64(lumpInfo.Filepos))
	if n == len(lump) {
		return lump, nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return nil, fmt.Errorf("%v: truncated lump", lumpInfo.Name)
}
