package wad

import "github.com/stuarthighley/doomview/fixed"

type binLine struct {
	VertexStart, VertexEnd int16
	Flags                  int16
	Type                   int16
	SectorTag              int16
	SideR, SideL           int16
}

// Line flag bits as stored in LINEDEFS.
const (
	LineBlocking      = 0x0001
	LineBlockMonsters = 0x0002
	LineTwoSided      = 0x0004
	LineDontPegTop    = 0x0008
	LineDontPegBottom = 0x0010
	LineSecret        = 0x0020
	LineSoundBlock    = 0x0040
	LineDontDraw      = 0x0080
	LineMapped        = 0x0100
)

type Line struct {
	V1Num                  int
	V2Num                  int
	BlockPlayerAndMonsters bool
	BlockMonsters          bool
	TwoSided               bool
	UpperTextureUnpegged   bool // upper texture drawn from the top down
	LowerTextureUnpegged   bool // lower and middle textures drawn from the bottom up
	Secret                 bool
	BlocksSound            bool
	NeverMap               bool
	AlwaysMap              bool
	Special                int
	SectorTagNum           int
	SideRNum, SideLNum     int

	// References
	V1, V2                  Vertex
	DX, DY                  fixed.Fixed // Precalculated V2-V1 for side checking
	SideR, SideL            *Side       // SideL is nil if one-sided
	FrontSector, BackSector *Sector
}

func lineFromBin(line binLine) Line {
	flags := int(line.Flags)
	return Line{
		V1Num:                  int(line.VertexStart),
		V2Num:                  int(line.VertexEnd),
		BlockPlayerAndMonsters: flags&LineBlocking != 0,
		BlockMonsters:          flags&LineBlockMonsters != 0,
		TwoSided:               flags&LineTwoSided != 0,
		UpperTextureUnpegged:   flags&LineDontPegTop != 0,
		LowerTextureUnpegged:   flags&LineDontPegBottom != 0,
		Secret:                 flags&LineSecret != 0,
		BlocksSound:            flags&LineSoundBlock != 0,
		NeverMap:               flags&LineDontDraw != 0,
		AlwaysMap:              flags&LineMapped != 0,
		Special:                int(line.Type),
		SectorTagNum:           int(line.SectorTag),
		SideRNum:               int(line.SideR),
		SideLNum:               int(line.SideL),
	}
}
