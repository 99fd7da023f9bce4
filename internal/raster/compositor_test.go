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
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func near(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	return d >= -tol && d <= tol
}

func TestTint_OpaqueSourceBecomesSolidInk(t *testing.T) {
	out := Tint(solid(7, 13, color.White), 100, red)
	if out.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			p := out.RGBAAt(x, y)
			if !near(p.A, 0xff, 2) || !near(p.R, red.R, 2) || !near(p.G, red.G, 2) || !near(p.B, red.B, 2) {
				t.Fatalf("pixel (%d,%d) = %v, want ~%v", x, y, p, red)
			}
		}
	}
}

func TestTint_TransparentSourceIsEmpty(t *testing.T) {
	for _, src := range []image.Image{solid(10, 10, color.Transparent), nil, image.NewRGBA(image.Rectangle{})} {
		out := Tint(src, 50, red)
		for _, v := range out.Pix {
			if v != 0 {
				t.Fatalf("expected empty composite for %T", src)
			}
		}
	}
}

func TestTint_KeepsMaskShape(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	draw.Draw(src, image.Rect(5, 0, 10, 10), image.NewUniform(color.Black), image.Point{}, draw.Src)
	out := Tint(src, 100, red)
	if a := out.RGBAAt(10, 50).A; a != 0 {
		t.Fatalf("left half alpha = %d, want 0", a)
	}
	if p := out.RGBAAt(90, 50); !near(p.A, 0xff, 2) || !near(p.R, red.R, 2) {
		t.Fatalf("right half = %v, want ink", p)
	}
}

func TestComposite_DrawsOverAtOffset(t *testing.T) {
	dst := solid(20, 20, color.Transparent)
	Composite(dst, solid(4, 4, red), image.Pt(8, 8))
	if dst.RGBAAt(9, 9) != red || dst.RGBAAt(7, 7).A != 0 || dst.RGBAAt(12, 12).A != 0 {
		t.Fatalf("composite placed incorrectly")
	}
	Composite(nil, solid(1, 1, red), image.Point{})
	Composite(dst, nil, image.Point{})
}
