package render

// ClipSpans tracks, for every screen column, the rows still open to
// farther geometry. Walls are drawn front to back, so a column's covered
// rows only ever grow inwards from the top and bottom edges: the open rows
// of column x are always the single interval (top[x], bottom[x]).
type ClipSpans struct {
	top    [ScreenWidth]int16 // last covered row from the top, -1 if none
	bottom [ScreenWidth]int16 // first covered row from the bottom, ScreenHeight if none
	closed int
}

// NewClipSpans returns a tracker with every column fully open.
func NewClipSpans() *ClipSpans {
	c := &ClipSpans{}
	c.Reset()
	return c
}

// Reset opens every column.
func (c *ClipSpans) Reset() {
	for x := range c.top {
		c.top[x] = -1
		c.bottom[x] = ScreenHeight
	}
	c.closed = 0
}

// OpenColumnRange returns the open rows [yl, yh] of column x. ok is false
// when the column is fully occluded.
func (c *ClipSpans) OpenColumnRange(x int) (yl, yh int, ok bool) {
	yl, yh = int(c.top[x])+1, int(c.bottom[x])-1
	return yl, yh, yl <= yh
}

// MarkSolid commits rows [yl, yh] of columns [x1, x2] as covered. The
// tracker keeps one open interval per column, so only coverage anchored at
// the top or bottom edge of the open rows is recorded. An interval floating
// strictly inside them leaves the column unchanged; MarkSolid returns the
// number of columns where that happened.
func (c *ClipSpans) MarkSolid(x1, x2, yl, yh int) (ignored int) {
	x1, x2 = max(x1, 0), min(x2, ScreenWidth-1)
	for x := x1; x <= x2; x++ {
		top, bottom := int(c.top[x]), int(c.bottom[x])
		if top+1 >= bottom || yl > yh {
			continue
		}
		switch {
		case yl <= top+1 && yh >= bottom-1:
			c.closeColumn(x)
		case yl <= top+1:
			c.coverTop(x, yh)
		case yh >= bottom-1:
			c.coverBottom(x, yl)
		default:
			ignored++
		}
	}
	return ignored
}

// Full reports whether column x is fully occluded.
func (c *ClipSpans) Full(x int) bool {
	return c.top[x]+1 >= c.bottom[x]
}

// Closed returns the number of fully occluded columns.
func (c *ClipSpans) Closed() int {
	return c.closed
}

// coverTop marks rows up to and including y covered from the top.
func (c *ClipSpans) coverTop(x, y int) {
	if y <= int(c.top[x]) {
		return
	}
	wasFull := c.Full(x)
	c.top[x] = int16(min(y, ScreenHeight))
	c.noteClosed(x, wasFull)
}

// coverBottom marks rows from y down covered from the bottom.
func (c *ClipSpans) coverBottom(x, y int) {
	if y >= int(c.bottom[x]) {
		return
	}
	wasFull := c.Full(x)
	c.bottom[x] = int16(max(y, -1))
	c.noteClosed(x, wasFull)
}

func (c *ClipSpans) closeColumn(x int) {
	wasFull := c.Full(x)
	c.top[x] = ScreenHeight
	c.bottom[x] = -1
	c.noteClosed(x, wasFull)
}

func (c *ClipSpans) noteClosed(x int, wasFull bool) {
	if !wasFull && c.Full(x) {
		c.closed++
	}
}
