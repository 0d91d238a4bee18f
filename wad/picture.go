package wad

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

type binPatchImageHeader struct {
	Width, Height, LeftOffset, TopOffset int16
}

// The doom picture (image) format. Sometimes called a patch, but this code considers a patch to
// be a parent entity that makes up part of a texture, and points to a picture
type Picture struct {
	Name                  string // Useful for debugging
	Width, Height         int
	LeftOffset, TopOffset int
	Columns               []Column
}

// Rather than implement column posts, just set column to transparent and fill in post data.
type Column []byte

// GetPicture reads a picture lump
func (w *WAD) GetPicture(name string) (*Picture, error) {
	name = strings.ToUpper(name)

	// If cache hit, return it
	if p, ok := w.pictures[name]; ok {
		return p, nil
	}

	lumpNum, ok := w.lumpNums[name]
	if !ok {
		return nil, fmt.Errorf("%v: %w", name, ErrLumpNotFound)
	}
	lump, err := w.readLump(&w.lumpInfos[lumpNum])
	if err != nil {
		return nil, err
	}
	pic, err := decodePicture(name, lump, w.TransparentIndex)
	if err != nil {
		return nil, err
	}

	w.pictures[name] = pic
	return pic, nil
}

// decodePicture expands the column posts of a patch lump into a rectangular
// picture, leaving gaps as transparent.
func decodePicture(name string, lump []byte, transparent byte) (*Picture, error) {
	reader := bytes.NewReader(lump)
	var header binPatchImageHeader
	if err := binary.Read(reader, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%v: read header: %w", name, err)
	}
	if header.Width <= 0 || header.Height <= 0 {
		return nil, fmt.Errorf("%v: bad size %dx%d", name, header.Width, header.Height)
	}

	// Initialise rectangular picture space to transparent
	columns := make([]Column, header.Width)
	for i := range columns {
		columns[i] = bytes.Repeat([]byte{transparent}, int(header.Height))
	}

	// Read column offsets
	offsets := make([]int32, header.Width)
	if err := binary.Read(reader, binary.LittleEndian, offsets); err != nil {
		return nil, fmt.Errorf("%v: read column offsets: %w", name, err)
	}

	// For each column offset, expand out the posts into columns
	for columnIndex, o := range offsets {
		offset := int(o)
		for {
			if offset < 0 || offset >= len(lump) {
				return nil, fmt.Errorf("%v: column %d runs past lump", name, columnIndex)
			}
			topDelta := int(lump[offset])
			if topDelta == 255 {
				break
			}
			if offset+3 > len(lump) {
				return nil, fmt.Errorf("%v: column %d runs past lump", name, columnIndex)
			}
			numPixels := int(lump[offset+1])
			offset += 3 // topdelta, length, padding
			if offset+numPixels > len(lump) {
				return nil, fmt.Errorf("%v: column %d runs past lump", name, columnIndex)
			}
			for i := range numPixels {
				if y := topDelta + i; y < len(columns[columnIndex]) {
					columns[columnIndex][y] = lump[offset+i]
				}
			}
			offset += numPixels + 1 // pixels, padding
		}
	}

	return &Picture{
		Name:       name,
		Width:      int(header.Width),
		Height:     int(header.Height),
		LeftOffset: int(header.LeftOffset),
		TopOffset:  int(header.TopOffset),
		Columns:    columns,
	}, nil
}
