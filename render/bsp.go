package render

import (
	"github.com/stuarthighley/doomview/fixed"
	"github.com/stuarthighley/doomview/wad"
)

// pointOnSide reports which side of the node's partition (x, y) lies on:
// 0 for the front (right) side, 1 for the back. A point exactly on the
// partition line is on the front side.
func pointOnSide(x, y fixed.Fixed, n *wad.Node) int {
	dx := int64(x) - int64(n.X)
	dy := int64(y) - int64(n.Y)
	// Partition directions are whole map units
	ndx := int64(n.DX >> fixed.FracBits)
	ndy := int64(n.DY >> fixed.FracBits)
	if ndy*dx-ndx*dy >= 0 {
		return 0
	}
	return 1
}

// pointToAngle returns the angle from the viewer to (x, y).
func (r *Renderer) pointToAngle(x, y fixed.Fixed) fixed.Angle {
	return fixed.PointToAngle(x-r.view.x, y-r.view.y)
}

// pointToDist returns the distance from the viewer to (x, y).
func (r *Renderer) pointToDist(x, y fixed.Fixed) fixed.Fixed {
	dx := fixed.Abs(x - r.view.x)
	dy := fixed.Abs(y - r.view.y)
	if dy > dx {
		dx, dy = dy, dx
	}
	if dx == 0 {
		return 0
	}
	angle := (fixed.TanToAngle(int(fixed.Div(dy, dx)>>fixed.DBits)) + fixed.Ang90) >> fixed.AngleToFineShift
	return fixed.Div(dx, fixed.FineSine(int(angle)))
}

// renderBSPNode walks the tree front to back from m, skipping back
// subtrees whose bounding box is hidden behind solid walls.
func (r *Renderer) renderBSPNode(m wad.BSPMember) {
	if r.solid.full() {
		return
	}
	switch n := m.(type) {
	case *wad.SubSector:
		r.subsector(n)
	case *wad.Node:
		r.stats.Nodes++
		side := pointOnSide(r.view.x, r.view.y, n)

		r.renderBSPNode(n.Child(side))

		if r.checkBBox(n.BoundBox(side ^ 1)) {
			r.renderBSPNode(n.Child(side ^ 1))
		} else {
			r.stats.CulledBoxes++
		}
	default:
		// A child left unlinked by bad level data
		r.stats.Skipped++
	}
}

// Bounding box coordinate indices.
const (
	boxTop = iota
	boxBottom
	boxLeft
	boxRight
)

// checkCoord picks the two box corners that bound the box's silhouette for
// each of the nine positions of the viewer relative to the box.
var checkCoord = [12][4]int{
	{boxRight, boxTop, boxLeft, boxBottom},
	{boxRight, boxTop, boxLeft, boxTop},
	{boxRight, boxBottom, boxLeft, boxTop},
	{},
	{boxLeft, boxTop, boxLeft, boxBottom},
	{},
	{boxRight, boxBottom, boxRight, boxTop},
	{},
	{boxLeft, boxTop, boxRight, boxBottom},
	{boxLeft, boxBottom, boxRight, boxBottom},
	{boxLeft, boxBottom, boxRight, boxTop},
	{},
}

func boxCoord(b *wad.BoundBox, i int) fixed.Fixed {
	switch i {
	case boxTop:
		return b.Top
	case boxBottom:
		return b.Bottom
	case boxLeft:
		return b.Left
	default:
		return b.Right
	}
}

// checkBBox reports whether some part of the box may be visible.
func (r *Renderer) checkBBox(b *wad.BoundBox) bool {
	var boxX, boxY int
	switch {
	case r.view.x <= b.Left:
		boxX = 0
	case r.view.x < b.Right:
		boxX = 1
	default:
		boxX = 2
	}
	switch {
	case r.view.y >= b.Top:
		boxY = 0
	case r.view.y > b.Bottom:
		boxY = 1
	default:
		boxY = 2
	}

	boxPos := boxY<<2 + boxX
	if boxPos == 5 {
		return true
	}

	coord := checkCoord[boxPos]
	x1, y1 := boxCoord(b, coord[0]), boxCoord(b, coord[1])
	x2, y2 := boxCoord(b, coord[2]), boxCoord(b, coord[3])

	angle1 := r.pointToAngle(x1, y1) - r.view.angle
	angle2 := r.pointToAngle(x2, y2) - r.view.angle

	span := angle1 - angle2

	// On the box edge
	if span >= fixed.Ang180 {
		return true
	}

	sx1, sx2, ok := r.angleSpanToColumns(angle1, angle2, span)
	if !ok {
		return false
	}

	if sx1 == sx2 {
		return false
	}

	return !r.solid.covered(sx1, sx2-1)
}

// angleSpanToColumns clips the view-relative angles of an edge to the
// field of view and returns its first column and the column after its
// last. ok is false if the edge is outside the field of view.
func (r *Renderer) angleSpanToColumns(angle1, angle2, span fixed.Angle) (x1, x2 int, ok bool) {
	tspan := angle1 + clipAngle
	if tspan > 2*clipAngle {
		tspan -= 2 * clipAngle

		if tspan >= span {
			return 0, 0, false
		}
		angle1 = clipAngle
	}
	tspan = clipAngle - angle2
	if tspan > 2*clipAngle {
		tspan -= 2 * clipAngle

		if tspan >= span {
			return 0, 0, false
		}
		angle2 = -clipAngle
	}

	x1 = viewAngleToX[(angle1+fixed.Ang90)>>fixed.AngleToFineShift]
	x2 = viewAngleToX[(angle2+fixed.Ang90)>>fixed.AngleToFineShift]
	return x1, x2, true
}

// subsector draws the walls of a subsector and sets up its floor and
// ceiling planes.
func (r *Renderer) subsector(ss *wad.SubSector) {
	r.stats.SubSectors++
	sector := ss.Sector
	if sector == nil || len(ss.LineSegments) == 0 {
		r.stats.Skipped++
		return
	}
	r.frontSector = sector

	r.floorPlane = nil
	if sector.FloorHeight < r.view.z {
		r.floorPlane = r.findPlane(sector.FloorHeight, sector.FloorFlat, sector.LightLevel)
	}

	r.ceilingPlane = nil
	if sector.CeilingHeight > r.view.z || r.isSky(sector.CeilingFlat) {
		r.ceilingPlane = r.findPlane(sector.CeilingHeight, sector.CeilingFlat, sector.LightLevel)
	}

	for i := range ss.LineSegments {
		r.addLine(&ss.LineSegments[i])
	}
}

func (r *Renderer) findPlane(height fixed.Fixed, flat, light int) *Visplane {
	if r.isSky(flat) {
		// All skies map together
		height, light = 0, 0
	}
	pl, err := r.planes.FindPlane(PlaneKey{Height: height, Flat: flat, Light: light})
	if err != nil {
		fatal(err)
	}
	return pl
}

// addLine clips a seg to the field of view and passes its visible columns
// to the wall drawer.
func (r *Renderer) addLine(seg *wad.LineSegment) {
	if seg.FrontSector == nil || seg.Side == nil {
		r.stats.Skipped++
		return
	}
	r.stats.Segs++
	r.seg = seg

	angle1 := r.pointToAngle(seg.V1.X, seg.V1.Y)
	angle2 := r.pointToAngle(seg.V2.X, seg.V2.Y)

	span := angle1 - angle2

	// Facing away
	if span >= fixed.Ang180 {
		return
	}

	r.angle1 = angle1
	angle1 -= r.view.angle
	angle2 -= r.view.angle

	x1, x2, ok := r.angleSpanToColumns(angle1, angle2, span)
	if !ok {
		return
	}

	if x1 == x2 {
		return
	}

	front, back := seg.FrontSector, seg.BackSector
	store := r.storeWallRange
	switch {
	case back == nil:
		// Single sided line
		r.solid.clipSolid(x1, x2-1, store)
	case back.CeilingHeight <= front.FloorHeight || back.FloorHeight >= front.CeilingHeight:
		// Closed door
		r.solid.clipSolid(x1, x2-1, store)
	case back.CeilingHeight != front.CeilingHeight || back.FloorHeight != front.FloorHeight:
		// Window
		r.solid.clipPass(x1, x2-1, store)
	case back.CeilingFlat == front.CeilingFlat && back.FloorFlat == front.FloorFlat &&
		back.LightLevel == front.LightLevel && seg.Side.MiddleTexture == wad.NoTexture:
		// Identical floor and ceiling on both sides and no middle texture:
		// nothing to draw
	default:
		r.solid.clipPass(x1, x2-1, store)
	}
}

// PointInSubSector returns the subsector of the tree rooted at root that
// contains (x, y), or nil if the walk reaches an unlinked child.
func PointInSubSector(root wad.BSPMember, x, y fixed.Fixed) *wad.SubSector {
	m := root
	for {
		switch n := m.(type) {
		case *wad.SubSector:
			return n
		case *wad.Node:
			m = n.Child(pointOnSide(x, y, n))
		default:
			return nil
		}
	}
}
