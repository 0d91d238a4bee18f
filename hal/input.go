package hal

import "github.com/stuarthighley/doomview/render"

const (
	panelWidth  = render.ScreenWidth
	panelHeight = render.ScreenHeight
)

// Input is the set of movement keys held during a tick.
type Input struct {
	Forward, Back bool
	Left, Right   bool
}

func scaledSize(scale int) (int, int) {
	scale = max(scale, 1)
	return panelWidth * scale, panelHeight * scale
}
