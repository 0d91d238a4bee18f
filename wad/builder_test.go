package wad

import (
	"bytes"
	"encoding/binary"
)

// wadBuilder assembles an in-memory WAD archive for tests.
type wadBuilder struct {
	names []string
	lumps [][]byte
}

func (b *wadBuilder) add(name string, data []byte) *wadBuilder {
	b.names = append(b.names, name)
	b.lumps = append(b.lumps, data)
	return b
}

func (b *wadBuilder) addStructs(name string, v any) *wadBuilder {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
		panic(err)
	}
	return b.add(name, buf.Bytes())
}

func (b *wadBuilder) bytes() []byte {
	var body bytes.Buffer
	offsets := make([]int32, len(b.lumps))
	for i, l := range b.lumps {
		offsets[i] = int32(12 + body.Len())
		body.Write(l)
	}

	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, binHeader{
		Magic:        [4]byte{'P', 'W', 'A', 'D'},
		NumLumps:     int32(len(b.lumps)),
		InfoTableOfs: int32(12 + body.Len()),
	})
	out.Write(body.Bytes())
	for i, name := range b.names {
		binary.Write(&out, binary.LittleEndian, binLumpInfo{
			Filepos: offsets[i],
			Size:    int32(len(b.lumps[i])),
			Name:    str8(name),
		})
	}
	return out.Bytes()
}

func str8(s string) String8 {
	var out String8
	copy(out[:], s)
	return out
}

// picture encodes a single-post-per-column patch of the given colour.
func picture(width, height int, color byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, binPatchImageHeader{Width: int16(width), Height: int16(height)})
	headerSize := 8 + 4*width
	columnSize := 3 + height + 1 + 1
	for x := range width {
		binary.Write(&buf, binary.LittleEndian, int32(headerSize+x*columnSize))
	}
	for range width {
		buf.Write([]byte{0, byte(height), 0})
		buf.Write(bytes.Repeat([]byte{color}, height))
		buf.Write([]byte{0, 0xff})
	}
	return buf.Bytes()
}

// textureLump encodes a TEXTUREn lump with one single-patch texture.
func textureLump(name string, width, height int) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(1))
	binary.Write(&buf, binary.LittleEndian, uint32(8))
	binary.Write(&buf, binary.LittleEndian, binTextureHeader{
		TextureName: str8(name),
		Width:       int16(width),
		Height:      int16(height),
		NumPatches:  1,
	})
	binary.Write(&buf, binary.LittleEndian, binPatch{})
	return buf.Bytes()
}

// testWAD returns a small archive holding one texture, two flats and a
// single square room level named MAP01.
func testWAD() []byte {
	colormaps := make([]byte, (NumColorMaps+2)*256)
	for i := range colormaps {
		colormaps[i] = byte(i % 256)
	}
	pnames := []byte{1, 0, 0, 0}
	w8 := str8("WALL")
	pnames = append(pnames, w8[:]...)

	b := &wadBuilder{}
	b.add("PLAYPAL", make([]byte, 14*256*3)).
		add("COLORMAP", colormaps).
		add("PNAMES", pnames).
		add("TEXTURE1", textureLump("STARTAN", 16, 16)).
		add("WALL", picture(16, 16, 7)).
		add("F_START", nil).
		add("FLOOR", bytes.Repeat([]byte{3}, FlatWidth*FlatHeight)).
		add("F_SKY1", bytes.Repeat([]byte{4}, FlatWidth*FlatHeight)).
		add("F_END", nil).
		add("MAP01", nil).
		addStructs("THINGS", []binThing{{X: 64, Y: 96, Angle: 90, Type: PlayerStartType, Options: 7}}).
		addStructs("LINEDEFS", []binLine{
			{VertexStart: 0, VertexEnd: 1, Flags: LineBlocking, SideR: 0, SideL: -1},
			{VertexStart: 1, VertexEnd: 2, Flags: LineBlocking | LineDontPegBottom, SideR: 1, SideL: -1},
			{VertexStart: 2, VertexEnd: 3, Flags: LineBlocking, SideR: 2, SideL: -1},
			{VertexStart: 3, VertexEnd: 0, Flags: LineBlocking, SideR: 3, SideL: -1},
		}).
		addStructs("SIDEDEFS", []binSide{
			{MiddleTexture: str8("STARTAN"), UpperTexture: str8("-"), LowerTexture: str8("-")},
			{MiddleTexture: str8("STARTAN"), UpperTexture: str8("-"), LowerTexture: str8("-")},
			{MiddleTexture: str8("NOPE"), UpperTexture: str8("-"), LowerTexture: str8("-")},
			{MiddleTexture: str8("startan"), UpperTexture: str8("-"), LowerTexture: str8("-")},
		}).
		addStructs("VERTEXES", []binVertex{{0, 0}, {0, 256}, {256, 256}, {256, 0}}).
		addStructs("SEGS", []binLineSegment{
			{V1: 0, V2: 1, Angle: 0x4000, LineNum: 0},
			{V1: 1, V2: 2, Angle: 0, LineNum: 1},
			{V1: 2, V2: 3, Angle: -0x4000, LineNum: 2},
			{V1: 3, V2: 0, Angle: -0x8000, LineNum: 3},
		}).
		addStructs("SSECTORS", []binSubSector{{NumSegments: 4, StartLineSegment: 0}}).
		addStructs("NODES", []binNode{}).
		addStructs("SECTORS", []binSector{{
			FloorHeight:    0,
			CeilingHeight:  128,
			FloorTexture:   str8("FLOOR"),
			CeilingTexture: str8("F_SKY1"),
			LightLevel:     160,
		}})
	return b.bytes()
}
