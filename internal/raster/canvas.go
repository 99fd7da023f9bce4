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

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"inkstamp/internal/vector"
)

// Canvas wraps an RGBA surface with the small amount of pen state the stamp
// pipeline needs: one ink color and the current stroke width.
type Canvas struct {
	img       *image.RGBA
	ink       color.RGBA
	lineWidth float64
}

// NewCanvas allocates a transparent size×size surface.
func NewCanvas(size int) *Canvas {
	return wrapCanvas(image.NewRGBA(image.Rect(0, 0, size, size)))
}

func wrapCanvas(img *image.RGBA) *Canvas {
	return &Canvas{img: img, ink: color.RGBA{A: 0xff}, lineWidth: 1}
}

// Image exposes the underlying surface.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Clear resets every pixel to transparent.
func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

func (c *Canvas) SetInk(ink color.RGBA)   { c.ink = ink }
func (c *Canvas) SetLineWidth(w float64)  { c.lineWidth = w }
func (c *Canvas) LineWidth() float64      { return c.lineWidth }
func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

// StrokePath strokes p with the current pen using an anti-aliased rasterizer.
// Joins are mitered like a 2D canvas context.
func (c *Canvas) StrokePath(p *vector.Path) {
	if p == nil || len(p.Cmds) == 0 || c.lineWidth <= 0 {
		return
	}
	b := c.img.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), c.img, b)
	d := rasterx.NewDasher(b.Dx(), b.Dy(), scanner)
	d.SetStroke(fixed.Int26_6(c.lineWidth*64), 10*64, rasterx.ButtCap, rasterx.ButtCap, rasterx.RoundGap, rasterx.Miter, nil, 0)
	d.SetColor(c.ink)
	feedPath(d, p)
	d.Draw()
}

// feedPath replays a vector.Path into a rasterx adder.
func feedPath(a rasterx.Adder, p *vector.Path) {
	open := false
	for _, cmd := range p.Cmds {
		v := cmd.Data
		switch cmd.Op {
		case vector.MoveTo:
			if open {
				a.Stop(false)
			}
			a.Start(rasterx.ToFixedP(v[0], v[1]))
			open = true
		case vector.LineTo:
			a.Line(rasterx.ToFixedP(v[0], v[1]))
		case vector.CubicTo:
			a.CubeBezier(rasterx.ToFixedP(v[0], v[1]), rasterx.ToFixedP(v[2], v[3]), rasterx.ToFixedP(v[4], v[5]))
		case vector.Close:
			if open {
				a.Stop(true)
				open = false
			}
		}
	}
	if open {
		a.Stop(false)
	}
}
