/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Glyph placement is computed in closed form: every glyph gets an absolute
// position and rotation, so there is no transform state to save or restore.
// Poses are rendering-agnostic; the raster package turns them into pixels.

import (
	"math"

	"golang.org/x/image/font"

	"inkstamp/internal/vector"
)

// GlyphPose is the placement of one glyph. Pos is the glyph center (the glyph
// is drawn with centered horizontal and vertical alignment); Angle is the
// clockwise screen rotation in radians.
type GlyphPose struct {
	Rune  rune
	Pos   vector.Pt
	Angle float64
}

// ArcSide selects the top or bottom arc of a circle.
type ArcSide int

const (
	ArcTop ArcSide = iota
	ArcBottom
)

// GlyphWidthFactor approximates a glyph's advance as a fraction of the font
// size. It is a fixed layout heuristic, not a measurement.
const GlyphWidthFactor = 0.6

// ArcLayout is the result of LayoutArc.
type ArcLayout struct {
	Poses        []GlyphPose
	AnglePerChar float64
	TotalAngle   float64
	// Clamped is set when MaxArc shrank the spacing.
	Clamped bool
}

// ArcParams describes one arc text run.
type ArcParams struct {
	Center   vector.Pt
	Radius   float64
	FontSize float64
	Side     ArcSide
	// MaxArc, when > 0, bounds TotalAngle by tightening the per-glyph spacing.
	// Zero keeps the unclamped behavior where long strings may wrap past a
	// half circle.
	MaxArc float64
}

// LayoutArc distributes text evenly along a circular arc so that it reads
// left to right and upright on both the top and the bottom of the circle.
//
// Each glyph spans anglePerChar = FontSize*GlyphWidthFactor/Radius and the run
// is centered on the top (-π/2) or bottom (+π/2) axis. Glyph i sits at the
// middle of its angular slot.
func LayoutArc(text string, p ArcParams) ArcLayout {
	runes := []rune(text)
	n := len(runes)
	if n == 0 || !(p.Radius > 0) || !(p.FontSize > 0) {
		return ArcLayout{}
	}
	a := p.FontSize * GlyphWidthFactor / p.Radius
	total := a * float64(n)
	out := ArcLayout{AnglePerChar: a, TotalAngle: total}
	if p.MaxArc > 0 && total > p.MaxArc {
		a = p.MaxArc / float64(n)
		total = p.MaxArc
		out = ArcLayout{AnglePerChar: a, TotalAngle: total, Clamped: true}
	}

	out.Poses = make([]GlyphPose, n)
	for i, r := range runes {
		slot := a * (float64(i) + 0.5)
		var theta, rot float64
		if p.Side == ArcBottom {
			// Moving left to right along the bottom means decreasing theta.
			theta = math.Pi/2 + total/2 - slot
			rot = theta - math.Pi/2
		} else {
			theta = -math.Pi/2 - total/2 + slot
			rot = theta + math.Pi/2
		}
		out.Poses[i] = GlyphPose{Rune: r, Pos: vector.Polar(p.Center, p.Radius, theta), Angle: rot}
	}
	return out
}

// PoseAngle returns the polar angle of a pose around center.
func PoseAngle(center vector.Pt, gp GlyphPose) float64 {
	return math.Atan2(gp.Pos.Y-center.Y, gp.Pos.X-center.X)
}

// LayoutLine lays text out on a straight horizontal line centered at
// (centerX, y) using the face's real advances and kerning. y is the vertical
// middle of the line.
func LayoutLine(face font.Face, text string, centerX, y float64) []GlyphPose {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	adv := make([]float64, len(runes))
	var width float64
	prev := rune(-1)
	for i, r := range runes {
		a, ok := face.GlyphAdvance(r)
		if !ok {
			a, _ = face.GlyphAdvance('?')
		}
		w := fixedToFloat(a)
		if prev >= 0 {
			w += fixedToFloat(face.Kern(prev, r))
		}
		adv[i] = w
		width += w
		prev = r
	}
	poses := make([]GlyphPose, len(runes))
	x := centerX - width/2
	for i, r := range runes {
		poses[i] = GlyphPose{Rune: r, Pos: vector.Pt{X: x + adv[i]/2, Y: y}}
		x += adv[i]
	}
	return poses
}
