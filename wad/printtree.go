package wad

import (
	"fmt"
	"io"
)

// FprintTree writes an indented outline of the BSP subtree rooted at m,
// front child first.
func FprintTree(w io.Writer, m BSPMember) {
	var printRecursive func(BSPMember, string)
	printRecursive = func(member BSPMember, prefix string) {
		switch v := member.(type) {
		case *SubSector:
			sector := -1
			if v.Sector != nil {
				sector = v.Sector.Index
			}
			fmt.Fprintf(w, "%s- subsector segs=%d+%d sector=%d\n", prefix, v.StartLineSegment, v.NumLineSegments, sector)
		case *Node:
			fmt.Fprintf(w, "%s- node (%v,%v) d=(%v,%v)\n", prefix, v.X.Int(), v.Y.Int(), v.DX.Int(), v.DY.Int())
			printRecursive(v.ChildR, prefix+"   ")
			printRecursive(v.ChildL, prefix+"   ")
		default:
			fmt.Fprintln(w, prefix+"- null")
		}
	}

	printRecursive(m, "")
}
