package render

import "github.com/stuarthighley/doomview/fixed"

// spanCache memoises the per-row plane distance and texture steps while
// consecutive spans on a row share a plane height.
type spanCache struct {
	height   [ScreenHeight]fixed.Fixed
	distance [ScreenHeight]fixed.Fixed
	xStep    [ScreenHeight]fixed.Fixed
	yStep    [ScreenHeight]fixed.Fixed
}

func (c *spanCache) reset() {
	*c = spanCache{}
}

// planeDraw is the state shared by the spans of one visplane.
type planeDraw struct {
	height    fixed.Fixed // distance of the plane from the eye
	source    []byte
	lights    *[maxLightZ]uint8
	spanStart [ScreenHeight]int
}

// drawPlanes rasterizes every visplane collected by the BSP walk.
func (r *Renderer) drawPlanes() {
	var pd planeDraw
	for i := range r.planes.planes.items {
		pl := &r.planes.planes.items[i]
		if pl.Empty() {
			continue
		}
		if r.isSky(pl.Flat) {
			r.drawSky(pl)
			continue
		}

		pd.height = fixed.Abs(pl.Height - r.view.z)
		pd.source = r.flat(pl.Flat).Data
		pd.lights = &zLight[lightIndex(pl.Light, r.extraLight, 0)]

		// Padding either side of the plane closes any open spans
		pl.top[pl.MaxX+2] = unclaimed
		pl.top[pl.MinX] = unclaimed

		stop := pl.MaxX + 1
		for x := pl.MinX; x <= stop; x++ {
			r.makeSpans(&pd, x,
				int(pl.top[x]), int(pl.bottom[x]),
				int(pl.top[x+1]), int(pl.bottom[x+1]))
		}
	}
}

// makeSpans closes the spans that ended in column x-1 and opens the ones
// starting in column x, given the extents (t1, b1) of column x-1 and
// (t2, b2) of column x.
func (r *Renderer) makeSpans(pd *planeDraw, x, t1, b1, t2, b2 int) {
	for t1 < t2 && t1 <= b1 {
		r.mapPlane(pd, t1, pd.spanStart[t1], x-1)
		t1++
	}
	for b1 > b2 && b1 >= t1 {
		r.mapPlane(pd, b1, pd.spanStart[b1], x-1)
		b1--
	}
	for t2 < t1 && t2 <= b2 {
		pd.spanStart[t2] = x
		t2++
	}
	for b2 > b1 && b2 >= t2 {
		pd.spanStart[b2] = x
		b2--
	}
}

// mapPlane issues the span of row y from x1 to x2, if the row is in the
// band.
func (r *Renderer) mapPlane(pd *planeDraw, y, x1, x2 int) {
	if !r.band.hasRow(y) || x1 > x2 {
		return
	}
	c := &r.spans
	v := &r.view

	var distance fixed.Fixed
	if pd.height != c.height[y] {
		c.height[y] = pd.height
		distance = fixed.Mul(pd.height, yslope[y])
		c.distance[y] = distance
		c.xStep[y] = fixed.Mul(distance, v.baseXScale)
		c.yStep[y] = fixed.Mul(distance, v.baseYScale)
	} else {
		distance = c.distance[y]
	}

	length := fixed.Mul(distance, distScale[x1])
	angle := v.angle + xToViewAngle[x1]

	index := min(int(distance>>lightZShift), maxLightZ-1)

	r.stats.Spans++
	r.raster.DrawSpan(r.band, &SpanJob{
		Y:        y,
		X1:       x1,
		X2:       x2,
		XFrac:    v.x + fixed.Mul(fixed.Cosine(angle), length),
		YFrac:    -v.y - fixed.Mul(fixed.Sine(angle), length),
		XStep:    c.xStep[y],
		YStep:    c.yStep[y],
		Source:   pd.source,
		ColorMap: r.assets.ColorMap(int(pd.lights[index])),
	})
}

// drawSky draws a sky plane as columns of the sky texture. The texture
// column depends only on the view angle of the screen column, and the
// texture row only on the screen row, so the sky appears infinitely far
// away.
func (r *Renderer) drawSky(pl *Visplane) {
	sky := r.texture(r.skyTexture)
	if sky == nil {
		sky = placeholderTexture
	}
	colormap := r.assets.ColorMap(0)

	for x := pl.MinX; x <= pl.MaxX; x++ {
		top, bottom, ok := pl.Column(x)
		if !ok || top > bottom {
			continue
		}
		yl, yh := r.band.clipRows(top, bottom)
		if yl > yh {
			continue
		}
		r.stats.SkyColumns++
		r.raster.DrawColumn(r.band, &ColumnJob{
			X:        x,
			YL:       yl,
			YH:       yh,
			Frac:     SkyTextureMid + fixed.Fixed(yl-centerY)*SkyIScale,
			IScale:   SkyIScale,
			Source:   textureColumn(sky, SkyColumn(r.view.angle, x)),
			ColorMap: colormap,
			Sky:      true,
		})
	}
}

// SkyColumn returns the sky texture column shown at screen column x when
// looking along viewAngle.
func SkyColumn(viewAngle fixed.Angle, x int) int {
	return int((viewAngle + xToViewAngle[x]) >> angleToSkyShift)
}
