package render

import (
	"errors"
	"fmt"

	"github.com/stuarthighley/doomview/fixed"
)

var (
	ErrVisplaneOverflow = errors.New("visplane pool exhausted")
	ErrColumnClaimed    = errors.New("visplane column already claimed")
)

// PlaneKey identifies a horizontal surface. Two subsectors whose floors (or
// ceilings) share a key can be drawn as one visplane.
type PlaneKey struct {
	Height fixed.Fixed // world height of the surface
	Flat   int         // flat number, or the sky flat
	Light  int         // sector light level
	XOffs  fixed.Fixed // flat scroll offsets
	YOffs  fixed.Fixed
}

// Visplane is a floor or ceiling surface with a top and bottom row for
// every screen column it covers. Columns in [MinX, MaxX] with no extent
// hold the unclaimed sentinel.
type Visplane struct {
	PlaneKey
	MinX, MaxX int

	// top and bottom are indexed by column+1 so that the columns either
	// side of the screen can act as padding.
	top    [ScreenWidth + 2]uint8
	bottom [ScreenWidth + 2]uint8

	next *Visplane // hash chain
}

// Column returns the extent of column x, with ok false if the plane has
// none there.
func (pl *Visplane) Column(x int) (top, bottom int, ok bool) {
	if x < pl.MinX || x > pl.MaxX {
		return 0, 0, false
	}
	t := pl.top[x+1]
	if t == unclaimed {
		return 0, 0, false
	}
	return int(t), int(pl.bottom[x+1]), true
}

// Empty reports whether the plane has no columns.
func (pl *Visplane) Empty() bool {
	return pl.MinX > pl.MaxX
}

func (pl *Visplane) clearColumns() {
	for i := range pl.top {
		pl.top[i] = unclaimed
	}
}

// VisplanePool is a fixed-capacity hash table of visplanes. Planes are
// append-only within a frame and released all at once by Reset.
type VisplanePool struct {
	buckets [VisplaneHashBuckets]*Visplane
	planes  arena[Visplane]
}

// NewVisplanePool allocates a pool with room for capacity planes.
func NewVisplanePool(capacity int) *VisplanePool {
	return &VisplanePool{planes: newArena[Visplane](capacity, ErrVisplaneOverflow)}
}

// Reset empties the pool.
func (p *VisplanePool) Reset() {
	p.buckets = [VisplaneHashBuckets]*Visplane{}
	p.planes.reset()
}

// Len returns the number of planes allocated this frame.
func (p *VisplanePool) Len() int {
	return p.planes.len()
}

// Planes returns the planes allocated this frame, in allocation order.
func (p *VisplanePool) Planes() []*Visplane {
	out := make([]*Visplane, p.planes.len())
	for i := range p.planes.items {
		out[i] = &p.planes.items[i]
	}
	return out
}

func planeHash(k PlaneKey) int {
	return int((uint32(k.Flat)*3 + uint32(k.Light) + uint32(k.Height)*7) & (VisplaneHashBuckets - 1))
}

// FindPlane returns the first plane with key k, allocating an empty one if
// there is none.
func (p *VisplanePool) FindPlane(k PlaneKey) (*Visplane, error) {
	bucket := planeHash(k)
	for pl := p.buckets[bucket]; pl != nil; pl = pl.next {
		if pl.PlaneKey == k {
			return pl, nil
		}
	}
	return p.newPlane(bucket, k)
}

func (p *VisplanePool) newPlane(bucket int, k PlaneKey) (*Visplane, error) {
	pl, err := p.planes.alloc()
	if err != nil {
		return nil, fmt.Errorf("%w (%d planes)", err, p.planes.len())
	}
	pl.PlaneKey = k
	pl.MinX = ScreenWidth
	pl.MaxX = -1
	pl.clearColumns()
	pl.next = p.buckets[bucket]
	p.buckets[bucket] = pl
	return pl, nil
}

// CheckPlane makes pl cover columns [start, stop]. If none of the columns
// pl already covers in that range are claimed, pl is widened and returned;
// otherwise a new plane with the same key is allocated for the range.
func (p *VisplanePool) CheckPlane(pl *Visplane, start, stop int) (*Visplane, error) {
	intrl, unionl := start, pl.MinX
	if start < pl.MinX {
		intrl, unionl = pl.MinX, start
	}
	intrh, unionh := stop, pl.MaxX
	if stop > pl.MaxX {
		intrh, unionh = pl.MaxX, stop
	}

	x := intrl
	for x <= intrh && pl.top[x+1] == unclaimed {
		x++
	}
	if x > intrh {
		pl.MinX = unionl
		pl.MaxX = unionh
		return pl, nil
	}

	// Make a new visplane
	np, err := p.newPlane(planeHash(pl.PlaneKey), pl.PlaneKey)
	if err != nil {
		return nil, err
	}
	np.MinX = start
	np.MaxX = stop
	return np, nil
}

// FindOrCreate returns a plane with key k that can take columns
// [start, stop].
func (p *VisplanePool) FindOrCreate(k PlaneKey, start, stop int) (*Visplane, error) {
	pl, err := p.FindPlane(k)
	if err != nil {
		return nil, err
	}
	return p.CheckPlane(pl, start, stop)
}

// StoreColumn sets the extent of column x. Each column of a plane may be
// claimed only once per frame.
func (p *VisplanePool) StoreColumn(pl *Visplane, x, top, bottom int) error {
	if x < pl.MinX || x > pl.MaxX {
		return fmt.Errorf("column %d outside plane [%d, %d]", x, pl.MinX, pl.MaxX)
	}
	if pl.top[x+1] != unclaimed {
		return fmt.Errorf("column %d: %w", x, ErrColumnClaimed)
	}
	pl.top[x+1] = uint8(top)
	pl.bottom[x+1] = uint8(bottom)
	return nil
}
