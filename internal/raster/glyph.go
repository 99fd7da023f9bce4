/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package raster

import (
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"inkstamp/internal/textlayout"
	"inkstamp/internal/vector"
)

// FillGlyphs draws each pose centered on its position in the current ink.
// Upright glyphs are drawn straight onto the canvas; rotated ones are drawn
// into a small tile first and resampled into place.
func (c *Canvas) FillGlyphs(face font.Face, m textlayout.Metrics, poses []textlayout.GlyphPose) {
	if face == nil {
		return
	}
	src := image.NewUniform(c.ink)
	for _, gp := range poses {
		adv, ok := face.GlyphAdvance(gp.Rune)
		r := gp.Rune
		if !ok {
			r = '?'
			adv, _ = face.GlyphAdvance(r)
		}
		w := float64(adv) / 64
		if math.Abs(gp.Angle) < 1e-9 {
			d := font.Drawer{Dst: c.img, Src: src, Face: face, Dot: toFixed(gp.Pos.X-w/2, gp.Pos.Y+m.Middle())}
			d.DrawString(string(r))
			continue
		}
		c.drawRotated(face, src, r, w, m, gp)
	}
}

func (c *Canvas) drawRotated(face font.Face, src image.Image, r rune, w float64, m textlayout.Metrics, gp textlayout.GlyphPose) {
	side := int(math.Ceil(math.Max(w, m.Ascent+m.Descent))) + 4
	tile := image.NewRGBA(image.Rect(0, 0, side, side))
	half := float64(side) / 2
	d := font.Drawer{Dst: tile, Src: src, Face: face, Dot: toFixed(half-w/2, half+m.Middle())}
	d.DrawString(string(r))

	// tile center -> glyph position, rotated clockwise by gp.Angle
	a := vector.Translate(gp.Pos.X, gp.Pos.Y).Mul(vector.Rotate(gp.Angle)).Mul(vector.Translate(-half, -half))
	s2d := f64.Aff3{a.A, a.C, a.E, a.B, a.D, a.F}
	xdraw.BiLinear.Transform(c.img, s2d, tile, tile.Bounds(), draw.Over, nil)
}

func toFixed(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(math.Round(x * 64)), Y: fixed.Int26_6(math.Round(y * 64))}
}
