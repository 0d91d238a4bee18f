package render

import "github.com/stuarthighley/doomview/fixed"

// Build-time configuration for the target panel. None of these are
// runtime settings.
const (
	ScreenWidth  = 160
	ScreenHeight = 128

	// BandHeight is the number of rows the display can hold at once.
	BandHeight = 32
	NumBands   = ScreenHeight / BandHeight

	// VisplaneHashBuckets must be a power of two.
	VisplaneHashBuckets = 32
	MaxVisplanes        = 96
	MaxDrawSegs         = 128

	// MaxSolidSegs bounds the solid range list: at most every other column
	// can start a new range, plus the two sentinels.
	MaxSolidSegs = ScreenWidth/2 + 2
)

const (
	centerX = ScreenWidth / 2
	centerY = ScreenHeight / 2

	centerXFrac = fixed.Fixed(centerX << fixed.FracBits)
	centerYFrac = fixed.Fixed(centerY << fixed.FracBits)
	projection  = centerXFrac

	// fieldOfView is 90 degrees in fine angles.
	fieldOfView = 2048

	// Wall edges are stepped with 4 fewer fraction bits to keep the
	// products of world heights and scales in range.
	heightBits = 12
	heightUnit = 1 << heightBits

	// ViewHeight is the eye height above the floor of the player start.
	ViewHeight = 41 * fixed.Unit
)

// Sky rendering constants: one texel per pixel, with the top of the
// screen on the top row of the sky texture.
const (
	SkyIScale       = fixed.Unit
	SkyTextureMid   = centerYFrac
	angleToSkyShift = 22
)

// unclaimed marks a visplane column that has no extent yet.
const unclaimed = 0xff
