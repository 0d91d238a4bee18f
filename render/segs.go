package render

import (
	"github.com/stuarthighley/doomview/fixed"
	"github.com/stuarthighley/doomview/wad"
)

// wall holds the values stepped across the columns of one wall range.
type wall struct {
	x, stopX int

	scale, scaleStep fixed.Fixed
	normalAngle      fixed.Angle
	centerAngle      fixed.Angle
	distance         fixed.Fixed
	offset           fixed.Fixed

	// Screen rows of the front sector's ceiling and floor, and of the back
	// sector's where it shows an upper or lower wall, in heightBits fixed
	// point
	topFrac, topStep       fixed.Fixed
	bottomFrac, bottomStep fixed.Fixed
	pixHigh, pixHighStep   fixed.Fixed
	pixLow, pixLowStep     fixed.Fixed

	mid, top, bottom       *wad.Texture
	midTexMid, topTexMid   fixed.Fixed
	bottomTexMid           fixed.Fixed
	markFloor, markCeiling bool
	textured               bool
	lights                 *[maxLightScale]uint8
}

// scaleFromGlobalAngle returns the projected scale of the wall at visAngle.
func (r *Renderer) scaleFromGlobalAngle(w *wall, visAngle fixed.Angle) fixed.Fixed {
	angleA := fixed.Ang90 + (visAngle - r.view.angle)
	angleB := fixed.Ang90 + (visAngle - w.normalAngle)

	sineA := fixed.Sine(angleA)
	sineB := fixed.Sine(angleB)
	num := fixed.Mul(projection, sineB)
	den := fixed.Mul(w.distance, sineA)

	if den > num>>fixed.FracBits {
		scale := fixed.Div(num, den)
		return max(256, min(64*fixed.Unit, scale))
	}
	return 64 * fixed.Unit
}

func textureHeight(t *wad.Texture) fixed.Fixed {
	if t == nil {
		return 0
	}
	return fixed.FromInt(t.Height)
}

// storeWallRange draws columns [start, stop] of the current seg and records
// the floor and ceiling extents around it.
func (r *Renderer) storeWallRange(start, stop int) {
	if start > stop {
		return
	}
	seg := r.seg
	side := seg.Side
	line := seg.Line
	front, back := seg.FrontSector, seg.BackSector
	v := &r.view
	r.stats.WallRanges++

	ds, err := r.drawSegs.alloc()
	if err != nil {
		fatal(err)
	}

	w := wall{x: start, stopX: stop + 1}

	// Calculate distance to the wall plane
	w.normalAngle = seg.Angle + fixed.Ang90
	offsetAngle := absAngle(w.normalAngle - r.angle1)
	if offsetAngle > fixed.Ang90 {
		offsetAngle = fixed.Ang90
	}
	distAngle := fixed.Ang90 - offsetAngle
	hyp := r.pointToDist(seg.V1.X, seg.V1.Y)
	w.distance = fixed.Mul(hyp, fixed.Sine(distAngle))

	// Scales at both ends, for stepping
	ds.Seg = seg
	ds.X1, ds.X2 = start, stop
	w.scale = r.scaleFromGlobalAngle(&w, v.angle+xToViewAngle[start])
	ds.Scale1, ds.Scale2 = w.scale, w.scale
	if stop > start {
		ds.Scale2 = r.scaleFromGlobalAngle(&w, v.angle+xToViewAngle[stop])
		w.scaleStep = (ds.Scale2 - w.scale) / fixed.Fixed(stop-start)
		ds.ScaleStep = w.scaleStep
	}

	// Texture boundaries relative to the eye
	worldTop := front.CeilingHeight - v.z
	worldBottom := front.FloorHeight - v.z
	var worldHigh, worldLow fixed.Fixed

	if back == nil {
		// Single sided line
		w.mid = r.texture(side.MiddleTexture)
		w.markFloor, w.markCeiling = true, true
		if line.LowerTextureUnpegged {
			vTop := front.FloorHeight + textureHeight(w.mid)
			w.midTexMid = vTop - v.z
		} else {
			// Top of texture at top
			w.midTexMid = worldTop
		}
		w.midTexMid += side.RowOffset
	} else {
		worldHigh = back.CeilingHeight - v.z
		worldLow = back.FloorHeight - v.z

		// Hack to allow height changes in outdoor areas
		if r.isSky(front.CeilingFlat) && r.isSky(back.CeilingFlat) {
			worldTop = worldHigh
		}

		w.markFloor = worldLow != worldBottom ||
			back.FloorFlat != front.FloorFlat ||
			back.LightLevel != front.LightLevel
		w.markCeiling = worldHigh != worldTop ||
			back.CeilingFlat != front.CeilingFlat ||
			back.LightLevel != front.LightLevel

		if back.CeilingHeight <= front.FloorHeight || back.FloorHeight >= front.CeilingHeight {
			// Closed door
			w.markCeiling, w.markFloor = true, true
		}

		if worldHigh < worldTop {
			// Upper wall
			w.top = r.texture(side.UpperTexture)
			if line.UpperTextureUnpegged {
				// Top of texture at top
				w.topTexMid = worldTop
			} else {
				// Bottom of texture at the back ceiling
				vTop := back.CeilingHeight + textureHeight(w.top)
				w.topTexMid = vTop - v.z
			}
		}
		if worldLow > worldBottom {
			// Lower wall
			w.bottom = r.texture(side.LowerTexture)
			if line.LowerTextureUnpegged {
				// Bottom of texture at bottom, top of texture at top
				w.bottomTexMid = worldTop
			} else {
				// Top of texture at the back floor
				w.bottomTexMid = worldLow
			}
		}
		w.topTexMid += side.RowOffset
		w.bottomTexMid += side.RowOffset
	}

	// Calculate the texture column offset and light at each column
	w.textured = w.mid != nil || w.top != nil || w.bottom != nil
	if w.textured {
		offsetAngle = w.normalAngle - r.angle1
		if offsetAngle > fixed.Ang180 {
			offsetAngle = -offsetAngle
		}
		if offsetAngle > fixed.Ang90 {
			offsetAngle = fixed.Ang90
		}
		w.offset = fixed.Mul(hyp, fixed.Sine(offsetAngle))
		if w.normalAngle-r.angle1 < fixed.Ang180 {
			w.offset = -w.offset
		}
		w.offset += side.TextureOffset + seg.Offset
		w.centerAngle = fixed.Ang90 + v.angle - w.normalAngle

		// Fake contrast: walls along the axes are darker or lighter
		contrast := 0
		switch {
		case seg.V1.Y == seg.V2.Y:
			contrast = -1
		case seg.V1.X == seg.V2.X:
			contrast = 1
		}
		w.lights = &scaleLight[lightIndex(front.LightLevel, r.extraLight, contrast)]
	}

	// No floor or ceiling plane on the far side of the eye
	if front.FloorHeight >= v.z {
		w.markFloor = false
	}
	if front.CeilingHeight <= v.z && !r.isSky(front.CeilingFlat) {
		w.markCeiling = false
	}

	// Calculate incremental stepping values for texture edges
	worldTop >>= 4
	worldBottom >>= 4

	w.topStep = -fixed.Mul(w.scaleStep, worldTop)
	w.topFrac = centerYFrac>>4 - fixed.Mul(worldTop, w.scale)
	w.bottomStep = -fixed.Mul(w.scaleStep, worldBottom)
	w.bottomFrac = centerYFrac>>4 - fixed.Mul(worldBottom, w.scale)

	if back != nil {
		worldHigh >>= 4
		worldLow >>= 4
		if w.top != nil {
			w.pixHigh = centerYFrac>>4 - fixed.Mul(worldHigh, w.scale)
			w.pixHighStep = -fixed.Mul(w.scaleStep, worldHigh)
		}
		if w.bottom != nil {
			w.pixLow = centerYFrac>>4 - fixed.Mul(worldLow, w.scale)
			w.pixLowStep = -fixed.Mul(w.scaleStep, worldLow)
		}
	}

	// Render it
	if w.markCeiling && r.ceilingPlane != nil {
		r.ceilingPlane = r.checkPlane(r.ceilingPlane, start, stop)
	} else {
		w.markCeiling = false
	}
	if w.markFloor && r.floorPlane != nil {
		r.floorPlane = r.checkPlane(r.floorPlane, start, stop)
	} else {
		w.markFloor = false
	}

	r.renderSegLoop(&w, back == nil)

	ds.Mid = w.mid != nil
	ds.Top = w.top != nil
	ds.Bottom = w.bottom != nil
}

func (r *Renderer) checkPlane(pl *Visplane, start, stop int) *Visplane {
	pl, err := r.planes.CheckPlane(pl, start, stop)
	if err != nil {
		fatal(err)
	}
	return pl
}

func (r *Renderer) storeColumn(pl *Visplane, x, top, bottom int) {
	if err := r.planes.StoreColumn(pl, x, top, bottom); err != nil {
		fatal(err)
	}
}

// renderSegLoop draws the wall columns of w and updates the clip spans.
// One-sided walls close every column they cover.
func (r *Renderer) renderSegLoop(w *wall, solid bool) {
	clip := &r.clip
	for ; w.x < w.stopX; w.x++ {
		x := w.x
		ceilingClip, floorClip := int(clip.top[x]), int(clip.bottom[x])

		// Mark floor and ceiling areas
		yl := int((w.topFrac + heightUnit - 1) >> heightBits)

		// No space above wall?
		if yl < ceilingClip+1 {
			yl = ceilingClip + 1
		}

		if w.markCeiling {
			top := ceilingClip + 1
			bottom := min(yl-1, floorClip-1)
			if top <= bottom {
				r.storeColumn(r.ceilingPlane, x, top, bottom)
			}
		}

		yh := int(w.bottomFrac >> heightBits)
		if yh >= floorClip {
			yh = floorClip - 1
		}

		if w.markFloor {
			top := max(yh+1, ceilingClip+1)
			bottom := floorClip - 1
			if top <= bottom {
				r.storeColumn(r.floorPlane, x, top, bottom)
			}
		}

		// Texture column and lighting are independent of wall tiers
		var texColumn int
		var colormap *wad.ColorMap
		var iscale fixed.Fixed
		if w.textured {
			angle := (w.centerAngle + xToViewAngle[x]) >> fixed.AngleToFineShift
			texColumn = int((w.offset - fixed.Mul(fixed.FineTangent(int(angle)), w.distance)) >> fixed.FracBits)
			index := min(int(w.scale>>lightScaleShift), maxLightScale-1)
			colormap = r.assets.ColorMap(int(w.lights[index]))
			iscale = fixed.Fixed(0xffffffff / uint32(w.scale))
		}

		switch {
		case solid:
			// Single sided line
			if w.mid != nil {
				r.drawColumn(x, yl, yh, w.midTexMid, iscale, textureColumn(w.mid, texColumn), colormap)
			}
			clip.closeColumn(x)
		default:
			// Two sided line
			if w.top != nil {
				mid := int(w.pixHigh >> heightBits)
				w.pixHigh += w.pixHighStep
				if mid >= floorClip {
					mid = floorClip - 1
				}
				if mid >= yl {
					r.drawColumn(x, yl, mid, w.topTexMid, iscale, textureColumn(w.top, texColumn), colormap)
					clip.coverTop(x, mid)
				} else {
					clip.coverTop(x, yl-1)
				}
			} else if w.markCeiling {
				// No top wall
				clip.coverTop(x, yl-1)
			}

			if w.bottom != nil {
				mid := int((w.pixLow + heightUnit - 1) >> heightBits)
				w.pixLow += w.pixLowStep

				// No space above wall?
				if mid <= int(clip.top[x]) {
					mid = int(clip.top[x]) + 1
				}
				if mid <= yh {
					r.drawColumn(x, mid, yh, w.bottomTexMid, iscale, textureColumn(w.bottom, texColumn), colormap)
					clip.coverBottom(x, mid)
				} else {
					clip.coverBottom(x, yh+1)
				}
			} else if w.markFloor {
				// No bottom wall
				clip.coverBottom(x, yh+1)
			}
		}

		w.scale += w.scaleStep
		w.topFrac += w.topStep
		w.bottomFrac += w.bottomStep
	}
}

// drawColumn issues a wall column job for screen rows [yl, yh], clipped to
// the band.
func (r *Renderer) drawColumn(x, yl, yh int, texMid, iscale fixed.Fixed, source []byte, colormap *wad.ColorMap) {
	yl, yh = r.band.clipRows(yl, yh)
	if yl > yh {
		return
	}
	r.stats.Columns++
	r.raster.DrawColumn(r.band, &ColumnJob{
		X:        x,
		YL:       yl,
		YH:       yh,
		Frac:     texMid + fixed.Fixed(yl-centerY)*iscale,
		IScale:   iscale,
		Source:   source,
		ColorMap: colormap,
	})
}

// absAngle returns the magnitude of a signed angle difference.
func absAngle(a fixed.Angle) fixed.Angle {
	if int32(a) < 0 {
		return -a
	}
	return a
}
