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
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Tint scales src to a size×size square and recolors it with ink, keeping only
// the source alpha (a "source-in" fill). Fully transparent source pixels stay
// transparent; every other pixel becomes ink at the source's coverage.
func Tint(src image.Image, size int, ink color.RGBA) *image.RGBA {
	r := image.Rect(0, 0, size, size)
	out := image.NewRGBA(r)
	if src == nil || size <= 0 || src.Bounds().Empty() {
		return out
	}
	mask := image.NewRGBA(r)
	xdraw.CatmullRom.Scale(mask, r, src, src.Bounds(), xdraw.Src, nil)
	draw.DrawMask(out, r, image.NewUniform(ink), image.Point{}, mask, image.Point{}, draw.Src)
	return out
}

// Composite draws img over dst with its top-left corner at at.
func Composite(dst *image.RGBA, img image.Image, at image.Point) {
	if dst == nil || img == nil {
		return
	}
	b := img.Bounds()
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(b.Size())}, img, b.Min, draw.Over)
}
