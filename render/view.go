package render

import "github.com/stuarthighley/doomview/fixed"

// Projection tables. They depend only on the screen size, so they are
// built once and shared by every renderer.
var (
	// viewAngleToX maps a fine angle in the half circle ahead of the
	// viewer to the first screen column at or right of it.
	viewAngleToX [fixed.FineAngles / 2]int

	// xToViewAngle maps a screen column to the view-relative angle of its
	// left edge. The extra entry is the right edge of the last column.
	xToViewAngle [ScreenWidth + 1]fixed.Angle

	// clipAngle is the angle of the left edge of the screen.
	clipAngle fixed.Angle

	// yslope is the plane distance per unit of height for each row.
	yslope [ScreenHeight]fixed.Fixed

	// distScale corrects the plane distance for the column's angle.
	distScale [ScreenWidth]fixed.Fixed
)

func init() {
	initTextureMapping()
	initViewSize()
	initLightTables()
}

func initTextureMapping() {
	focalLength := fixed.Div(centerXFrac, fixed.FineTangent(fixed.FineAngles/4+fieldOfView/2))

	for i := range viewAngleToX {
		tangent := fixed.FineTangent(i)
		var t int
		switch {
		case tangent > 2*fixed.Unit:
			t = -1
		case tangent < -2*fixed.Unit:
			t = ScreenWidth + 1
		default:
			t = int((centerXFrac - fixed.Mul(tangent, focalLength) + fixed.Unit - 1) >> fixed.FracBits)
			t = max(-1, min(ScreenWidth+1, t))
		}
		viewAngleToX[i] = t
	}

	// Scan for the lowest view angle that maps to each column
	for x := range xToViewAngle {
		i := 0
		for viewAngleToX[i] > x {
			i++
		}
		xToViewAngle[x] = fixed.Angle(i<<fixed.AngleToFineShift) - fixed.Ang90
	}

	// Take out the fencepost cases
	for i, t := range viewAngleToX {
		switch t {
		case -1:
			viewAngleToX[i] = 0
		case ScreenWidth + 1:
			viewAngleToX[i] = ScreenWidth
		}
	}

	clipAngle = xToViewAngle[0]
}

func initViewSize() {
	for i := range yslope {
		dy := fixed.Abs(fixed.FromInt(i-ScreenHeight/2) + fixed.Unit/2)
		yslope[i] = fixed.Div(fixed.FromInt(ScreenWidth/2), dy)
	}
	for i := range distScale {
		cosAdj := fixed.Abs(fixed.Cosine(xToViewAngle[i]))
		distScale[i] = fixed.Div(fixed.Unit, cosAdj)
	}
}
