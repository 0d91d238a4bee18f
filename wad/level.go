package wad

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/stuarthighley/doomview/fixed"
	"golang.org/x/exp/constraints"
)

type binVertex struct {
	X, Y int16
}

type Vertex struct {
	X, Y fixed.Fixed
}

type binSide struct {
	XOffset       int16
	YOffset       int16
	UpperTexture  String8
	LowerTexture  String8
	MiddleTexture String8
	SectorNum     int16
}

type Side struct {
	TextureOffset     fixed.Fixed // added to the texture column
	RowOffset         fixed.Fixed // added to the texture row
	UpperTextureName  string
	LowerTextureName  string
	MiddleTextureName string
	UpperTexture      int // index into TexturesList, or NoTexture / MissingTexture
	LowerTexture      int
	MiddleTexture     int
	SectorNum         int
	Sector            *Sector
}

type binLineSegment struct {
	V1        int16
	V2        int16
	Angle     int16 // Full circle is -32768 to 32767.
	LineNum   int16
	Direction int16 // 0 - same as linedef, 1 - opposite to linedef
	Offset    int16 // Distance along line to start of segment
}

// LineSegment (seg) is the part of a line bounding a single subsector.
type LineSegment struct {
	V1Num   int
	V2Num   int
	Angle   fixed.Angle
	LineNum int
	IsSideL bool        // false - same as linedef, true - opposite to linedef
	Offset  fixed.Fixed // Distance along line to start of segment

	V1          Vertex
	V2          Vertex
	Line        *Line
	Side        *Side
	FrontSector *Sector
	BackSector  *Sector // nil for one-sided lines
}

type binSubSector struct {
	NumSegments      int16
	StartLineSegment int16
}

// SubSector is a convex leaf of the BSP tree.
type SubSector struct {
	NumLineSegments  int
	StartLineSegment int

	LineSegments []LineSegment // slice of Level.LineSegments
	Sector       *Sector
}

// BoundBox is an axis aligned box in map coordinates.
type BoundBox struct {
	Top, Bottom, Left, Right fixed.Fixed
}

type binBBox struct {
	Top    int16
	Bottom int16
	Left   int16
	Right  int16
}

type binNode struct {
	X, Y                 int16
	DX, DY               int16
	BBoxR, BBoxL         binBBox
	ChildNumR, ChildNumL int16
}

// Node is an interior BSP node. The partition line runs from (X, Y) in
// direction (DX, DY); the right child is the front side.
type Node struct {
	X, Y                 fixed.Fixed
	DX, DY               fixed.Fixed
	BBoxR, BBoxL         BoundBox
	ChildNumR, ChildNumL int
	ChildR, ChildL       BSPMember
}

// Child returns the child for side, 0 being the front (right) side.
func (n *Node) Child(side int) BSPMember {
	if side == 0 {
		return n.ChildR
	}
	return n.ChildL
}

// BoundBox returns the bounding box of the child on side.
func (n *Node) BoundBox(side int) *BoundBox {
	if side == 0 {
		return &n.BBoxR
	}
	return &n.BBoxL
}

// SubSectorFlag marks a child number as a subsector index.
const SubSectorFlag = 0x8000

type BSPType int

const (
	BSPNode BSPType = iota
	BSPSubSector
)

type BSPMember interface {
	BSPType() BSPType
}

func (s *SubSector) BSPType() BSPType {
	return BSPSubSector
}

func (s *Node) BSPType() BSPType {
	return BSPNode
}

type binSector struct {
	FloorHeight    int16
	CeilingHeight  int16
	FloorTexture   String8
	CeilingTexture String8
	LightLevel     int16
	Type           int16
	TagNum         int16
}

type Sector struct {
	Index              int
	FloorHeight        fixed.Fixed
	CeilingHeight      fixed.Fixed
	FloorTextureName   string
	CeilingTextureName string
	FloorFlat          int // index into the flat directory, or MissingFlat
	CeilingFlat        int
	LightLevel         int
	Special            int
	TagNum             int
}

type binThing struct {
	X       int16
	Y       int16
	Angle   int16
	Type    int16
	Options int16
}

type Thing struct {
	X, Y            fixed.Fixed
	Angle           fixed.Angle
	Type            int
	Skill1and2      bool
	Skill3          bool
	Skill4and5      bool
	Ambush          bool
	MultiplayerOnly bool
}

// PlayerStartType is the thing type of player one's start.
const PlayerStartType = 1

type Level struct {
	Name         string
	Things       []Thing
	Lines        []Line
	Sides        []Side
	Vertexes     []Vertex
	LineSegments []LineSegment
	SubSectors   []SubSector
	Nodes        []Node
	Sectors      []Sector
	Root         BSPMember // last node, or the only subsector of a nodeless map
}

// PlayerStart returns player one's start thing.
func (l *Level) PlayerStart() (Thing, bool) {
	for _, t := range l.Things {
		if t.Type == PlayerStartType {
			return t, true
		}
	}
	return Thing{}, false
}

var levelLumps = map[string]bool{
	"THINGS": true, "LINEDEFS": true, "SIDEDEFS": true, "VERTEXES": true, "SEGS": true,
	"SSECTORS": true, "NODES": true, "SECTORS": true, "REJECT": true, "BLOCKMAP": true,
}

// LevelNames returns a slice of level names found in the WAD archive, in
// directory order.
func (w *WAD) LevelNames() []string {
	result := make([]string, 0, len(w.levels))
	for i, li := range w.lumpInfos {
		if idx, ok := w.levels[li.Name]; ok && idx == i {
			result = append(result, li.Name)
		}
	}
	return result
}

// ReadLevel reads level data from WAD archive and returns a Level struct.
// Broken references in the level data are logged and left nil rather than
// failing the load.
func (w *WAD) ReadLevel(name string) (*Level, error) {
	logger.Printf("Reading Level %v ...", name)

	levelIdx, ok := w.levels[name]
	if !ok {
		return nil, fmt.Errorf("%v: %w", name, ErrLevelNotFound)
	}

	level := &Level{Name: name}
	for i := levelIdx + 1; i < len(w.lumpInfos) && levelLumps[w.lumpInfos[i].Name]; i++ {
		lumpInfo := &w.lumpInfos[i]
		var err error
		switch lumpInfo.Name {
		case "THINGS":
			level.Things, err = w.readThings(lumpInfo)
		case "SIDEDEFS":
			level.Sides, err = w.readSides(lumpInfo)
		case "LINEDEFS":
			level.Lines, err = w.readLines(lumpInfo)
		case "VERTEXES":
			level.Vertexes, err = w.readVertexes(lumpInfo)
		case "SEGS":
			level.LineSegments, err = w.readLineSegments(lumpInfo)
		case "SSECTORS":
			level.SubSectors, err = w.readSubSectors(lumpInfo)
		case "NODES":
			level.Nodes, err = w.readNodes(lumpInfo)
		case "SECTORS":
			level.Sectors, err = w.readSectors(lumpInfo)
		default:
			logger.Printf("Unhandled lump %s\n", lumpInfo.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("%v: %w", name, err)
		}
	}

	if err := level.Link(); err != nil {
		logger.Printf("%v: %v", name, err)
	}
	return level, nil
}

// Link sets the references between level elements from their stored
// indices. References that are out of range, and child nodes that do not
// precede their parent, are left nil and reported in the returned error;
// the rest of the level is still linked.
func (l *Level) Link() error {
	logger.Println("Setting references ...")
	var errs []error

	vertex := func(what string, i, num int) (Vertex, bool) {
		if num < 0 || num >= len(l.Vertexes) {
			errs = append(errs, fmt.Errorf("%s %d: vertex %d out of range", what, i, num))
			return Vertex{}, false
		}
		return l.Vertexes[num], true
	}
	side := func(what string, i, num int) *Side {
		if num < 0 {
			return nil
		}
		if num >= len(l.Sides) {
			errs = append(errs, fmt.Errorf("%s %d: side %d out of range", what, i, num))
			return nil
		}
		return &l.Sides[num]
	}

	// Sides
	for i := range l.Sides {
		s := &l.Sides[i]
		s.Sector = nil
		if s.SectorNum < 0 || s.SectorNum >= len(l.Sectors) {
			errs = append(errs, fmt.Errorf("side %d: sector %d out of range", i, s.SectorNum))
			continue
		}
		s.Sector = &l.Sectors[s.SectorNum]
	}

	// Lines - dependent on Sides
	for i := range l.Lines {
		li := &l.Lines[i]
		li.V1, _ = vertex("line", i, li.V1Num)
		li.V2, _ = vertex("line", i, li.V2Num)
		li.DX = li.V2.X - li.V1.X
		li.DY = li.V2.Y - li.V1.Y
		li.SideR = side("line", i, li.SideRNum)
		li.SideL = side("line", i, li.SideLNum)
		li.FrontSector, li.BackSector = nil, nil
		if li.SideR != nil {
			li.FrontSector = li.SideR.Sector
		}
		if li.SideL != nil {
			li.BackSector = li.SideL.Sector
		}
	}

	// Line Segments
	for i := range l.LineSegments {
		s := &l.LineSegments[i]
		s.V1, _ = vertex("seg", i, s.V1Num)
		s.V2, _ = vertex("seg", i, s.V2Num)
		s.Line, s.Side, s.FrontSector, s.BackSector = nil, nil, nil, nil
		if s.LineNum < 0 || s.LineNum >= len(l.Lines) {
			errs = append(errs, fmt.Errorf("seg %d: line %d out of range", i, s.LineNum))
			continue
		}
		s.Line = &l.Lines[s.LineNum]
		front, back := s.Line.SideR, s.Line.SideL
		if s.IsSideL {
			front, back = back, front
		}
		s.Side = front
		if front == nil || front.Sector == nil {
			errs = append(errs, fmt.Errorf("seg %d: no front sector", i))
			continue
		}
		s.FrontSector = front.Sector
		if s.Line.TwoSided && back != nil {
			s.BackSector = back.Sector
		}
	}

	// SubSectors
	for i := range l.SubSectors {
		s := &l.SubSectors[i]
		s.LineSegments, s.Sector = nil, nil
		start, end := s.StartLineSegment, s.StartLineSegment+s.NumLineSegments
		if s.NumLineSegments <= 0 || start < 0 || end > len(l.LineSegments) {
			errs = append(errs, fmt.Errorf("subsector %d: segs %d+%d out of range", i, start, s.NumLineSegments))
			continue
		}
		s.LineSegments = l.LineSegments[start:end:end]
		for j := range s.LineSegments {
			if s.LineSegments[j].FrontSector != nil {
				s.Sector = s.LineSegments[j].FrontSector
				break
			}
		}
		if s.Sector == nil {
			errs = append(errs, fmt.Errorf("subsector %d: no sector", i))
		}
	}

	// Nodes
	child := func(i, num int) BSPMember {
		if num&SubSectorFlag != 0 {
			ss := num &^ SubSectorFlag
			if ss >= len(l.SubSectors) {
				errs = append(errs, fmt.Errorf("node %d: subsector %d out of range", i, ss))
				return nil
			}
			return &l.SubSectors[ss]
		}
		if num < 0 || num >= len(l.Nodes) {
			errs = append(errs, fmt.Errorf("node %d: child node %d out of range", i, num))
			return nil
		}
		// Node builders emit children before their parent; anything else
		// could make a cycle
		if num >= i {
			errs = append(errs, fmt.Errorf("node %d: child node %d does not precede it", i, num))
			return nil
		}
		return &l.Nodes[num]
	}
	for i := range l.Nodes {
		n := &l.Nodes[i]
		n.ChildR = child(i, n.ChildNumR)
		n.ChildL = child(i, n.ChildNumL)
	}

	switch {
	case len(l.Nodes) > 0:
		l.Root = &l.Nodes[len(l.Nodes)-1]
	case len(l.SubSectors) > 0:
		l.Root = &l.SubSectors[0]
	default:
		l.Root = nil
		errs = append(errs, errors.New("level has no BSP"))
	}

	return errors.Join(errs...)
}

// readLumpStructs reads a lump as a packed array of binary records.
func readLumpStructs[T any](w *WAD, lumpInfo *LumpInfo) ([]T, error) {
	var zero T
	count := lumpInfo.Size / binary.Size(zero)
	out := make([]T, count)
	if err := binary.Read(w.sectionReader(lumpInfo), binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("%v: %w", lumpInfo.Name, err)
	}
	return out, nil
}

func (w *WAD) readThings(lumpInfo *LumpInfo) ([]Thing, error) {
	logger.Println("Reading Things ...")
	binThings, err := readLumpStructs[binThing](w, lumpInfo)
	if err != nil {
		return nil, err
	}

	// Translate to canonical
	things := make([]Thing, len(binThings))
	for i, t := range binThings {
		things[i] = Thing{
			X:               fixed.FromInt(t.X),
			Y:               fixed.FromInt(t.Y),
			Angle:           fixed.FromDegrees(t.Angle),
			Type:            int(t.Type),
			Skill1and2:      t.Options&1 != 0,
			Skill3:          t.Options&2 != 0,
			Skill4and5:      t.Options&4 != 0,
			Ambush:          t.Options&8 != 0,
			MultiplayerOnly: t.Options&0x10 != 0,
		}
	}
	logger.Printf("Read %v things", len(things))
	return things, nil
}

func (w *WAD) readLines(lumpInfo *LumpInfo) ([]Line, error) {
	logger.Println("Reading Lines ...")
	binLines, err := readLumpStructs[binLine](w, lumpInfo)
	if err != nil {
		return nil, err
	}

	lines := make([]Line, len(binLines))
	for i, line := range binLines {
		lines[i] = lineFromBin(line)
	}
	logger.Printf("Read %v lines", len(lines))
	return lines, nil
}

func (w *WAD) readSides(lumpInfo *LumpInfo) ([]Side, error) {
	logger.Println("Reading Sides ...")
	binSides, err := readLumpStructs[binSide](w, lumpInfo)
	if err != nil {
		return nil, err
	}

	sides := make([]Side, len(binSides))
	for i, s := range binSides {
		sides[i] = Side{
			TextureOffset:     fixed.FromInt(s.XOffset),
			RowOffset:         fixed.FromInt(s.YOffset),
			UpperTextureName:  s.UpperTexture.String(),
			MiddleTextureName: s.MiddleTexture.String(),
			LowerTextureName:  s.LowerTexture.String(),
			SectorNum:         int(s.SectorNum),
		}
		sides[i].UpperTexture = w.sideTexture(sides[i].UpperTextureName)
		sides[i].MiddleTexture = w.sideTexture(sides[i].MiddleTextureName)
		sides[i].LowerTexture = w.sideTexture(sides[i].LowerTextureName)
	}
	logger.Printf("Read %v sides", len(sides))
	return sides, nil
}

func (w *WAD) sideTexture(name string) int {
	num, ok := w.TextureNum(name)
	if !ok {
		logger.Printf("Texture %v not found", name)
	}
	return num
}

func (w *WAD) readVertexes(lumpInfo *LumpInfo) ([]Vertex, error) {
	logger.Println("Reading Vertexes ...")
	binVertexes, err := readLumpStructs[binVertex](w, lumpInfo)
	if err != nil {
		return nil, err
	}

	vertexes := make([]Vertex, len(binVertexes))
	for i, v := range binVertexes {
		vertexes[i] = Vertex{X: fixed.FromInt(v.X), Y: fixed.FromInt(v.Y)}
	}
	logger.Printf("Read %v vertexes", len(vertexes))
	return vertexes, nil
}

func (w *WAD) readLineSegments(lumpInfo *LumpInfo) ([]LineSegment, error) {
	logger.Println("Reading Line Segments ...")
	binSegments, err := readLumpStructs[binLineSegment](w, lumpInfo)
	if err != nil {
		return nil, err
	}

	segments := make([]LineSegment, len(binSegments))
	for i, s := range binSegments {
		segments[i] = LineSegment{
			V1Num:   int(uint16(s.V1)),
			V2Num:   int(uint16(s.V2)),
			Angle:   bamToAngle(s.Angle),
			LineNum: int(uint16(s.LineNum)),
			IsSideL: s.Direction == 1,
			Offset:  fixed.FromInt(s.Offset),
		}
	}
	logger.Printf("Read %v line segments", len(segments))
	return segments, nil
}

func (w *WAD) readSubSectors(lumpInfo *LumpInfo) ([]SubSector, error) {
	logger.Println("Reading Sub Sectors ...")
	binSubSectors, err := readLumpStructs[binSubSector](w, lumpInfo)
	if err != nil {
		return nil, err
	}

	subSectors := make([]SubSector, len(binSubSectors))
	for i, s := range binSubSectors {
		subSectors[i] = SubSector{
			NumLineSegments:  int(uint16(s.NumSegments)),
			StartLineSegment: int(uint16(s.StartLineSegment)),
		}
	}
	logger.Printf("Read %v sub sectors", len(subSectors))
	return subSectors, nil
}

func bboxFromBin(b binBBox) BoundBox {
	return BoundBox{
		Top:    fixed.FromInt(b.Top),
		Bottom: fixed.FromInt(b.Bottom),
		Left:   fixed.FromInt(b.Left),
		Right:  fixed.FromInt(b.Right),
	}
}

func (w *WAD) readNodes(lumpInfo *LumpInfo) ([]Node, error) {
	logger.Println("Reading Nodes ...")
	binNodes, err := readLumpStructs[binNode](w, lumpInfo)
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, len(binNodes))
	for i, n := range binNodes {
		nodes[i] = Node{
			X:         fixed.FromInt(n.X),
			Y:         fixed.FromInt(n.Y),
			DX:        fixed.FromInt(n.DX),
			DY:        fixed.FromInt(n.DY),
			BBoxR:     bboxFromBin(n.BBoxR),
			BBoxL:     bboxFromBin(n.BBoxL),
			ChildNumR: int(uint16(n.ChildNumR)),
			ChildNumL: int(uint16(n.ChildNumL)),
		}
	}
	logger.Printf("Read %v nodes", len(nodes))
	return nodes, nil
}

func (w *WAD) readSectors(lumpInfo *LumpInfo) ([]Sector, error) {
	logger.Println("Reading Sectors ...")
	binSectors, err := readLumpStructs[binSector](w, lumpInfo)
	if err != nil {
		return nil, err
	}

	sectors := make([]Sector, len(binSectors))
	for i, s := range binSectors {
		sectors[i] = Sector{
			Index:              i,
			FloorHeight:        fixed.FromInt(s.FloorHeight),
			CeilingHeight:      fixed.FromInt(s.CeilingHeight),
			FloorTextureName:   s.FloorTexture.String(),
			CeilingTextureName: s.CeilingTexture.String(),
			LightLevel:         int(s.LightLevel),
			Special:            int(s.Type),
			TagNum:             int(s.TagNum),
		}
		sectors[i].FloorFlat = w.sectorFlat(sectors[i].FloorTextureName)
		sectors[i].CeilingFlat = w.sectorFlat(sectors[i].CeilingTextureName)
	}
	logger.Printf("Read %v Sectors", len(sectors))
	return sectors, nil
}

func (w *WAD) sectorFlat(name string) int {
	num, ok := w.FlatNum(name)
	if !ok {
		logger.Printf("Flat %v not found", name)
	}
	return num
}

// bamToAngle widens a 16-bit binary angle to a full binary angle.
func bamToAngle[T constraints.Signed](n T) fixed.Angle {
	return fixed.Angle(uint32(uint16(n)) << 16)
}
