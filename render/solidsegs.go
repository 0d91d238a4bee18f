package render

import "math"

// clipRange is an inclusive run of screen columns covered by solid walls.
type clipRange struct {
	first, last int
}

// solidSegs is the sorted list of column ranges fully covered by one-sided
// walls or closed doors, bracketed by two sentinel ranges that cover
// everything off screen.
type solidSegs struct {
	segs []clipRange
}

func newSolidSegs() solidSegs {
	s := solidSegs{segs: make([]clipRange, 0, MaxSolidSegs)}
	s.reset()
	return s
}

func (s *solidSegs) reset() {
	s.segs = append(s.segs[:0],
		clipRange{first: math.MinInt32, last: -1},
		clipRange{first: ScreenWidth, last: math.MaxInt32},
	)
}

// full reports whether every column is covered, in which case the two
// sentinels have merged into one range.
func (s *solidSegs) full() bool {
	return len(s.segs) == 1
}

// covered reports whether [first, last] lies within a single solid range.
func (s *solidSegs) covered(first, last int) bool {
	i := 0
	for s.segs[i].last < last {
		i++
	}
	return first >= s.segs[i].first && last <= s.segs[i].last
}

// clipSolid calls store for every part of [first, last] not yet covered,
// then adds the whole range to the list.
func (s *solidSegs) clipSolid(first, last int, store func(start, stop int)) {
	segs := s.segs

	// Find the first range that touches the range (adjacent pixels are
	// touching)
	start := 0
	for segs[start].last < first-1 {
		start++
	}

	if first < segs[start].first {
		if last < segs[start].first-1 {
			// Post is entirely visible (above start), so insert a new
			// clippost
			store(first, last)
			if len(segs) == cap(segs) {
				fatal(ErrSolidSegOverflow)
			}
			segs = append(segs, clipRange{})
			copy(segs[start+1:], segs[start:len(segs)-1])
			segs[start] = clipRange{first, last}
			s.segs = segs
			return
		}

		// There is a fragment above *start
		store(first, segs[start].first-1)
		segs[start].first = first
	}

	// Bottom contained in start?
	if last <= segs[start].last {
		return
	}

	next := start
	for last >= segs[next+1].first-1 {
		// There is a fragment between two posts
		store(segs[next].last+1, segs[next+1].first-1)
		next++
		if last <= segs[next].last {
			// Bottom is contained in next. Adjust the clip size
			segs[start].last = segs[next].last
			s.crunch(start, next)
			return
		}
	}

	// There is a fragment after *next
	store(segs[next].last+1, last)
	segs[start].last = last
	s.crunch(start, next)
}

// crunch removes the ranges in (start, next] that were merged into start.
func (s *solidSegs) crunch(start, next int) {
	if next == start {
		return
	}
	n := copy(s.segs[start+1:], s.segs[next+1:])
	s.segs = s.segs[:start+1+n]
}

// clipPass calls store for every part of [first, last] not yet covered,
// without adding anything to the list. Used for walls that can be seen
// past.
func (s *solidSegs) clipPass(first, last int, store func(start, stop int)) {
	segs := s.segs

	start := 0
	for segs[start].last < first-1 {
		start++
	}

	if first < segs[start].first {
		if last < segs[start].first-1 {
			// Post is entirely visible
			store(first, last)
			return
		}

		// There is a fragment above *start
		store(first, segs[start].first-1)
	}

	// Bottom contained in start?
	if last <= segs[start].last {
		return
	}

	for last >= segs[start+1].first-1 {
		// There is a fragment between two posts
		store(segs[start].last+1, segs[start+1].first-1)
		start++
		if last <= segs[start].last {
			return
		}
	}

	// There is a fragment after *next
	store(segs[start].last+1, last)
}
