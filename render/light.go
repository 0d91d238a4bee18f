package render

import (
	"github.com/stuarthighley/doomview/fixed"
	"github.com/stuarthighley/doomview/wad"
)

// Lighting. Sector light levels are quantised into LightLevels steps and
// darkened further with distance: walls by their projected scale, planes by
// their depth.
const (
	LightLevels     = 16
	lightSegShift   = 4
	maxLightScale   = 48
	lightScaleShift = 12
	maxLightZ       = 128
	lightZShift     = 20

	// distMap halves the rate at which light falls off with distance.
	distMap = 2
)

var (
	// scaleLight and zLight hold colormap indices.
	scaleLight [LightLevels][maxLightScale]uint8
	zLight     [LightLevels][maxLightZ]uint8
)

func initLightTables() {
	for i := range LightLevels {
		startMap := ((LightLevels - 1 - i) * 2) * wad.NumColorMaps / LightLevels
		for j := range maxLightZ {
			scale := int(fixed.Div(fixed.FromInt(ScreenWidth/2), fixed.Fixed((j+1)<<lightZShift)))
			scale >>= lightScaleShift
			zLight[i][j] = clampColorMap(startMap - scale/distMap)
		}
		for j := range maxLightScale {
			scaleLight[i][j] = clampColorMap(startMap - j/distMap)
		}
	}
}

func clampColorMap(level int) uint8 {
	return uint8(max(0, min(wad.NumColorMaps-1, level)))
}

// lightIndex returns the light table row for a sector light level, with
// the extra light and any fake contrast offset applied.
func lightIndex(lightLevel, extra, contrast int) int {
	return max(0, min(LightLevels-1, lightLevel>>lightSegShift+extra+contrast))
}
