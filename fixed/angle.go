package fixed

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Angle is a binary angle measurement: the full circle is 2^32, so angle
// arithmetic wraps for free.
type Angle uint32

const (
	Ang45  Angle = 0x20000000
	Ang90  Angle = 0x40000000
	Ang180 Angle = 0x80000000
	Ang270 Angle = 0xc0000000
)

const (
	// FineAngles is the resolution of the sine and tangent tables.
	FineAngles = 8192
	FineMask   = FineAngles - 1

	// AngleToFineShift converts an Angle to a fine table index.
	AngleToFineShift = 19

	// SlopeRange is the resolution of the tangent to angle table.
	SlopeRange = 2048
	SlopeBits  = 11

	// DBits shifts a fixed slope down to a SlopeRange index.
	DBits = FracBits - SlopeBits
)

var (
	// finesine has a quarter turn of extra entries so that the cosine can
	// be read from the same table with an offset.
	finesine    [5 * FineAngles / 4]Fixed
	finetangent [FineAngles / 2]Fixed
	tantoangle  [SlopeRange + 1]Angle
)

func init() {
	for i := range finesine {
		a := (float64(i) + 0.5) * 2 * math.Pi / FineAngles
		finesine[i] = Fixed(math.Sin(a) * float64(Unit))
	}
	for i := range finetangent {
		a := (float64(i-FineAngles/4) + 0.5) * 2 * math.Pi / FineAngles
		finetangent[i] = Fixed(math.Tan(a) * float64(Unit))
	}
	for i := range tantoangle {
		a := math.Atan(float64(i)/SlopeRange) / (2 * math.Pi)
		tantoangle[i] = Angle(uint32(int64(a * (1 << 32))))
	}
}

// Fine returns the fine table index of a.
func (a Angle) Fine() int {
	return int(a >> AngleToFineShift)
}

// Sine returns sin(a).
func Sine(a Angle) Fixed {
	return finesine[a>>AngleToFineShift]
}

// Cosine returns cos(a).
func Cosine(a Angle) Fixed {
	return finesine[(a>>AngleToFineShift)+FineAngles/4]
}

// FineSine returns the sine at a fine table index in [0, FineAngles).
func FineSine(i int) Fixed {
	return finesine[i&FineMask]
}

// FineCosine returns the cosine at a fine table index in [0, FineAngles).
func FineCosine(i int) Fixed {
	return finesine[(i&FineMask)+FineAngles/4]
}

// FineTangent returns the tangent at index i of the half circle table, which
// spans -90 to +90 degrees.
func FineTangent(i int) Fixed {
	return finetangent[i&(FineAngles/2-1)]
}

// TanToAngle returns atan(i/SlopeRange) for i in [0, SlopeRange].
func TanToAngle(i int) Angle {
	return tantoangle[i]
}

// SlopeDiv returns num/den scaled to a tantoangle index, saturating at
// SlopeRange.
func SlopeDiv(num, den uint32) int {
	if den < 512 {
		return SlopeRange
	}
	ans := (uint64(num) << 3) / uint64(den>>8)
	if ans > SlopeRange {
		return SlopeRange
	}
	return int(ans)
}

// PointToAngle returns the angle of the vector (x, y) from the origin,
// resolved per octant through the tangent table.
func PointToAngle(x, y Fixed) Angle {
	if x == 0 && y == 0 {
		return 0
	}
	if x >= 0 {
		if y >= 0 {
			if x > y {
				return tantoangle[SlopeDiv(uint32(y), uint32(x))]
			}
			return Ang90 - 1 - tantoangle[SlopeDiv(uint32(x), uint32(y))]
		}
		y = -y
		if x > y {
			return -tantoangle[SlopeDiv(uint32(y), uint32(x))]
		}
		return Ang270 + tantoangle[SlopeDiv(uint32(x), uint32(y))]
	}
	x = -x
	if y >= 0 {
		if x > y {
			return Ang180 - 1 - tantoangle[SlopeDiv(uint32(y), uint32(x))]
		}
		return Ang90 + tantoangle[SlopeDiv(uint32(x), uint32(y))]
	}
	y = -y
	if x > y {
		return Ang180 + tantoangle[SlopeDiv(uint32(y), uint32(x))]
	}
	return Ang270 - 1 - tantoangle[SlopeDiv(uint32(x), uint32(y))]
}

// FromDegrees converts degrees to a binary angle. Used when loading map
// things, never while rendering.
func FromDegrees[T constraints.Integer | constraints.Float](d T) Angle {
	turns := math.Mod(float64(d)/360, 1)
	if turns < 0 {
		turns++
	}
	return Angle(uint32(int64(turns * (1 << 32))))
}

// Degrees is for diagnostics only.
func (a Angle) Degrees() float64 {
	return float64(a) * 360 / (1 << 32)
}
