/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package raster

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"sync"
	"time"

	"inkstamp/internal/domain"
	"inkstamp/internal/export"
)

// ImageSource turns a center image reference into pixels. Decoder is the
// production implementation.
type ImageSource interface {
	Decode(ctx context.Context, ref string) (image.Image, error)
}

// Frame is one published rendering. Complete is false while the center image
// of Config is still being decoded.
type Frame struct {
	Gen      uint64
	Image    *image.RGBA
	Config   domain.StampConfig
	Complete bool
}

// ErrNoFrame is returned by Export before the first Update.
var ErrNoFrame = errors.New("no frame rendered yet")

// Display keeps the latest rendering of an edited stamp. Every Update takes a
// new generation; an image decode that finishes after a newer Update is
// discarded instead of overwriting the newer frame.
type Display struct {
	r   *Renderer
	src ImageSource
	log *slog.Logger
	now func() time.Time

	mu      sync.Mutex
	gen     uint64
	frame   Frame
	cancel  context.CancelFunc
	onFrame func(Frame)

	wg sync.WaitGroup
}

// NewDisplay wires a renderer to an image source. src may be nil, in which
// case center images are never drawn.
func NewDisplay(r *Renderer, src ImageSource, logger *slog.Logger) *Display {
	if logger == nil {
		logger = slog.Default()
	}
	return &Display{r: r, src: src, log: logger.With(slog.String("component", "display")), now: time.Now}
}

// OnFrame registers fn to receive every published frame. fn runs with the
// display locked and must not call back into the Display synchronously.
func (d *Display) OnFrame(fn func(Frame)) {
	d.mu.Lock()
	d.onFrame = fn
	d.mu.Unlock()
}

// Update renders cfg and returns its generation. Everything except the center
// image is published immediately; the image follows asynchronously.
func (d *Display) Update(ctx context.Context, cfg domain.StampConfig) uint64 {
	d.mu.Lock()
	d.gen++
	g := d.gen
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	pending := cfg.HasImage() && d.src != nil
	var dctx context.Context
	if pending {
		dctx, d.cancel = context.WithCancel(ctx)
	}
	d.mu.Unlock()

	d.publish(Frame{Gen: g, Image: d.r.Render(cfg, nil), Config: cfg, Complete: !pending})
	if pending {
		d.wg.Add(1)
		go d.decode(dctx, g, cfg)
	}
	return g
}

func (d *Display) decode(ctx context.Context, g uint64, cfg domain.StampConfig) {
	defer d.wg.Done()
	l := d.log.With(slog.Uint64("gen", g))
	art, err := d.src.Decode(ctx, cfg.CenterImage)
	if err != nil {
		if ctx.Err() != nil {
			l.Debug("center image decode cancelled")
			return
		}
		// The frame without art stays; center text is not substituted.
		l.Warn("center image decode failed", slog.Any("err", err))
		d.mu.Lock()
		f := d.frame
		d.mu.Unlock()
		if f.Gen == g {
			f.Complete = true
			d.publish(f)
		}
		return
	}
	img := d.r.Render(cfg, art)
	if !d.publish(Frame{Gen: g, Image: img, Config: cfg, Complete: true}) {
		l.Debug("discarding stale center image")
	}
}

// publish installs f if it still belongs to the current generation.
func (d *Display) publish(f Frame) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if f.Gen != d.gen {
		return false
	}
	d.frame = f
	if d.onFrame != nil {
		d.onFrame(f)
	}
	return true
}

// Frame returns the latest published frame.
func (d *Display) Frame() Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

// Generation is the token of the most recent Update.
func (d *Display) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen
}

// Wait blocks until no decode is in flight.
func (d *Display) Wait() { d.wg.Wait() }

// Close cancels an outstanding decode and waits for it to finish.
func (d *Display) Close() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// Export writes the current frame as PNG and returns the suggested download
// name.
func (d *Display) Export(w io.Writer) (string, error) {
	f := d.Frame()
	if f.Image == nil {
		return "", ErrNoFrame
	}
	name := export.Filename(d.now())
	if err := export.EncodePNG(w, f.Image); err != nil {
		return "", err
	}
	d.log.Info("frame exported", slog.String("file", name), slog.Uint64("gen", f.Gen))
	return name, nil
}
