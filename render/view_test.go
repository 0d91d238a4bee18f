package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stuarthighley/doomview/fixed"
)

func TestProjectionTables(t *testing.T) {
	// The screen edges sit just outside 45 degrees either side of centre
	assert.InDelta(t, 45, clipAngle.Degrees(), 0.1)
	assert.Equal(t, 0, viewAngleToX[(clipAngle+fixed.Ang90)>>fixed.AngleToFineShift])
	assert.Equal(t, ScreenWidth, viewAngleToX[(fixed.Ang90-clipAngle)>>fixed.AngleToFineShift])
	assert.Equal(t, centerX, viewAngleToX[fixed.Ang90>>fixed.AngleToFineShift])

	// Columns run from left to right, so view angles fall
	for x := 1; x <= ScreenWidth; x++ {
		assert.Less(t, int32(xToViewAngle[x]), int32(xToViewAngle[x-1]), "column %d", x)
	}
	for i := 1; i < len(viewAngleToX); i++ {
		assert.LessOrEqual(t, viewAngleToX[i], viewAngleToX[i-1])
	}
}

func TestPlaneTables(t *testing.T) {
	// Rows either side of the horizon are the same distance away
	for i := range centerY {
		assert.Equal(t, yslope[centerY-1-i], yslope[centerY+i])
	}
	assert.Greater(t, yslope[centerY], yslope[ScreenHeight-1])

	// Distance correction grows towards the screen edges
	assert.Greater(t, distScale[0], distScale[centerX])
	assert.InDelta(t, 1.0, distScale[centerX].Float(), 0.01)
}

func TestLightTables(t *testing.T) {
	for i := range LightLevels {
		for j := 1; j < maxLightScale; j++ {
			// Nearer walls (larger scale) are at least as bright
			assert.LessOrEqual(t, scaleLight[i][j], scaleLight[i][j-1])
		}
		for j := 1; j < maxLightZ; j++ {
			// Farther planes are at least as dark
			assert.GreaterOrEqual(t, zLight[i][j], zLight[i][j-1])
		}
	}
	// Full brightness up close in a fully lit sector
	assert.Equal(t, uint8(0), scaleLight[LightLevels-1][maxLightScale-1])
}

func TestLightIndex(t *testing.T) {
	assert.Equal(t, 10, lightIndex(160, 0, 0))
	assert.Equal(t, 9, lightIndex(160, 0, -1))
	assert.Equal(t, 11, lightIndex(160, 0, 1))
	assert.Equal(t, LightLevels-1, lightIndex(255, 2, 1))
	assert.Equal(t, 0, lightIndex(0, 0, -1))
}

func TestSkyColumn(t *testing.T) {
	assert.Equal(t, 0, SkyColumn(-xToViewAngle[0], 0))
	// Turning a full sky texture width (256 columns) wraps around
	a := fixed.FromDegrees(30)
	assert.Equal(t, SkyColumn(a, 40)+256, SkyColumn(a+fixed.Ang90, 40))
}
