// Package hal is the boundary between the renderer and the device: block
// addressed flash holding the WAD, and a panel that receives the frame one
// band at a time. The host implementations here back flash with a file or
// memory and show the panel in a desktop window.
package hal

import "errors"

var ErrOutOfRange = errors.New("out of range")

// Flash provides raw, block addressed access to non-volatile memory.
type Flash interface {
	SizeBytes() uint32
	BlockBytes() uint32
	ReadAt(p []byte, off uint32) (int, error)
}
