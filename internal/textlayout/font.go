/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Font resolution is isolated behind Provider so rendering stays deterministic
// in tests and can swap in user supplied faces.

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FontSpec describes a requested font. Size is in pixels (the canvas is 72 DPI).
type FontSpec struct {
	Family string
	Size   float64
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent float64
}

// Middle is the offset from the baseline up to the vertical middle of the em
// box, used for "middle" text alignment.
func (m Metrics) Middle() float64 { return (m.Ascent - m.Descent) / 2 }

// Provider maps a FontSpec to a concrete face. Faces are not safe for
// concurrent use, so callers resolve one per render pass.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// BasicProvider uses basicfont.Face7x13 regardless of the requested size.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	return f, metricsOf(f)
}

func metricsOf(f font.Face) Metrics {
	m := f.Metrics()
	return Metrics{Ascent: fixedToFloat(m.Ascent), Descent: fixedToFloat(m.Descent)}
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// Advance measures the advance width of s in pixels.
func Advance(face font.Face, s string) float64 {
	return fixedToFloat(font.MeasureString(face, s))
}
