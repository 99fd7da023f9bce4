/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package layout computes the geometric anchors of a stamp: frame radii or
// rectangles, the arc radius for curved text, baselines for straight text and
// the center artwork box. All proportions are defined on a 400×400 reference
// canvas and scale linearly with the actual canvas size.
package layout

import (
	"inkstamp/internal/domain"
	"inkstamp/internal/vector"
)

// ReferenceSize is the canvas edge the proportions below are expressed in.
const ReferenceSize = 400

// Reference proportions.
const (
	OuterRadius    = 180
	RingGap        = 10 // inner ring / inner rect inset
	ArcInset       = 35 // arc text radius = OuterRadius - ArcInset
	RectWidth      = 360
	RectHeight     = 200
	RectTextInset  = 45
	CircleArtSize  = 100
	RectArtSize    = 80
	InnerLineWidth = 2
	TextLineWidth  = 1
)

// Layout is the result of planning one stamp.
type Layout struct {
	Shape  domain.Shape
	Size   int // canvas edge in pixels
	Scale  float64
	Center vector.Pt

	// Circle
	OuterRadius float64
	InnerRadius float64
	ArcRadius   float64

	// Rectangle
	Outer          vector.Rect
	Inner          vector.Rect
	TopBaseline    float64
	BottomBaseline float64

	// ArtSize is the edge of the square center artwork.
	ArtSize int
}

// Plan returns the anchors for shape on a square canvas of the given size.
// A non-positive size falls back to ReferenceSize.
func Plan(shape domain.Shape, size int) Layout {
	if size <= 0 {
		size = ReferenceSize
	}
	s := float64(size) / ReferenceSize
	l := Layout{
		Shape:  shape,
		Size:   size,
		Scale:  s,
		Center: vector.Pt{X: float64(size) / 2, Y: float64(size) / 2},
	}
	if shape == domain.Rectangle {
		l.Outer = vector.CenteredRect(l.Center, RectWidth*s, RectHeight*s)
		l.Inner = l.Outer.Inset(RingGap * s)
		l.TopBaseline = l.Outer.Y + RectTextInset*s
		l.BottomBaseline = l.Outer.Y + l.Outer.H - RectTextInset*s
		l.ArtSize = scaledInt(RectArtSize, s)
		return l
	}
	l.OuterRadius = OuterRadius * s
	l.InnerRadius = (OuterRadius - RingGap) * s
	l.ArcRadius = (OuterRadius - ArcInset) * s
	l.ArtSize = scaledInt(CircleArtSize, s)
	return l
}

// ArtRect is the integer pixel box the center artwork is composited into.
func (l Layout) ArtRect() (x0, y0, x1, y1 int) {
	x0 = int(l.Center.X) - l.ArtSize/2
	y0 = int(l.Center.Y) - l.ArtSize/2
	return x0, y0, x0 + l.ArtSize, y0 + l.ArtSize
}

func scaledInt(v int, s float64) int {
	n := int(float64(v)*s + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}
