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
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"inkstamp/internal/domain"
	"inkstamp/internal/layout"
	"inkstamp/internal/textlayout"
)

// CenterTextScale is the center text size relative to the arc text size.
const CenterTextScale = 1.5

// Options configures a Renderer. The zero value renders 400×400 stamps with
// the basic bitmap font and time-seeded grunge.
type Options struct {
	Size   int
	Fonts  textlayout.Provider
	Family string
	// MaxArc bounds the angular span of arc text; 0 disables the clamp.
	MaxArc float64
	Grunge GrungeParams
	// Seed makes grunge reproducible: every render reseeds from it. Zero seeds
	// from the clock.
	Seed   int64
	Logger *slog.Logger
}

// Renderer turns a StampConfig (plus already decoded center artwork) into
// pixels. It never fails: anything it cannot draw is skipped.
type Renderer struct {
	opts Options
	log  *slog.Logger
}

func NewRenderer(opts Options) *Renderer {
	if opts.Size <= 0 {
		opts.Size = layout.ReferenceSize
	}
	if opts.Fonts == nil {
		opts.Fonts = textlayout.BasicProvider{}
	}
	if opts.Grunge == (GrungeParams{}) {
		opts.Grunge = DefaultGrunge
	}
	l := opts.Logger
	if l == nil {
		l = slog.Default()
	}
	return &Renderer{opts: opts, log: l.With(slog.String("component", "raster"))}
}

// Size is the canvas edge used by Render.
func (r *Renderer) Size() int { return r.opts.Size }

// Render draws cfg onto a fresh canvas.
func (r *Renderer) Render(cfg domain.StampConfig, art image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, r.opts.Size, r.opts.Size))
	r.RenderInto(dst, cfg, art)
	return dst
}

// RenderInto clears dst and draws cfg onto it. dst is expected to be anchored
// at the origin. A nil dst is ignored.
func (r *Renderer) RenderInto(dst *image.RGBA, cfg domain.StampConfig, art image.Image) {
	r.RenderWithRand(dst, cfg, art, r.newRand())
}

// RenderWithRand is RenderInto with an explicit grunge random source.
func (r *Renderer) RenderWithRand(dst *image.RGBA, cfg domain.StampConfig, art image.Image, rng *rand.Rand) {
	if dst == nil {
		r.log.Debug("render skipped: no canvas")
		return
	}
	c := wrapCanvas(dst)
	c.Clear()
	size := min(dst.Bounds().Dx(), dst.Bounds().Dy())
	l := layout.Plan(cfg.Shape, size)
	ink := cfg.InkColor.ToRGBA()
	c.SetInk(ink)

	DrawFrame(c, l, cfg.BorderWidth)
	r.drawText(c, l, cfg)

	if cfg.HasImage() {
		if art != nil {
			x0, y0, _, _ := l.ArtRect()
			Composite(dst, Tint(art, l.ArtSize, ink), image.Pt(x0, y0))
		}
	} else if txt := upper(cfg.CenterText); txt != "" {
		face, m := r.opts.Fonts.Resolve(textlayout.FontSpec{Family: r.opts.Family, Size: cfg.FontSize * CenterTextScale * l.Scale})
		c.FillGlyphs(face, m, textlayout.LayoutLine(face, txt, l.Center.X, l.Center.Y))
	}

	if cfg.Grunge {
		st := Grunge(dst, rng, r.opts.Grunge)
		r.log.Debug("grunge applied", slog.Int("visited", st.Visited), slog.Int("erased", st.Erased), slog.Int("thinned", st.Thinned))
	}
}

func (r *Renderer) drawText(c *Canvas, l layout.Layout, cfg domain.StampConfig) {
	fontSize := cfg.FontSize * l.Scale
	if fontSize <= 0 {
		return
	}
	face, m := r.opts.Fonts.Resolve(textlayout.FontSpec{Family: r.opts.Family, Size: fontSize})
	top, bottom := upper(cfg.TopText), upper(cfg.BottomText)
	if l.Shape == domain.Rectangle {
		c.FillGlyphs(face, m, textlayout.LayoutLine(face, top, l.Center.X, l.TopBaseline))
		c.FillGlyphs(face, m, textlayout.LayoutLine(face, bottom, l.Center.X, l.BottomBaseline))
		return
	}
	for _, run := range []struct {
		text string
		side textlayout.ArcSide
	}{{top, textlayout.ArcTop}, {bottom, textlayout.ArcBottom}} {
		arc := textlayout.LayoutArc(run.text, textlayout.ArcParams{
			Center:   l.Center,
			Radius:   l.ArcRadius,
			FontSize: fontSize,
			Side:     run.side,
			MaxArc:   r.opts.MaxArc,
		})
		if arc.Clamped {
			r.log.Debug("arc text clamped", slog.Int("runes", len(arc.Poses)), slog.Float64("span", arc.TotalAngle))
		}
		c.FillGlyphs(face, m, arc.Poses)
	}
}

func (r *Renderer) newRand() *rand.Rand {
	seed := r.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func upper(s string) string { return strings.ToUpper(s) }
