/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package server exposes the stamp renderer over HTTP: presets, a query-string
// renderer for quick links and a JSON document endpoint.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"inkstamp/internal/domain"
	"inkstamp/internal/export"
	"inkstamp/internal/raster"
	"inkstamp/internal/stampdoc"
	"inkstamp/internal/version"
)

// Options configures a Handler.
type Options struct {
	Renderer *raster.Renderer
	// Images decodes centerImage references. It must not read local files.
	Images      raster.ImageSource
	MaxBodySize int64
	PDF         export.PDFOptions
	Logger      *slog.Logger
	Now         func() time.Time
}

// Handler holds the dependencies of the HTTP routes.
type Handler struct {
	opts Options
	log  *slog.Logger
}

// New returns a Handler; zero options get working defaults.
func New(opts Options) *Handler {
	if opts.Renderer == nil {
		opts.Renderer = raster.NewRenderer(raster.Options{Logger: opts.Logger})
	}
	if opts.Images == nil {
		opts.Images = raster.Decoder{MaxBytes: opts.MaxBodySize}
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = 2 << 20
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	l := opts.Logger
	if l == nil {
		l = slog.Default()
	}
	return &Handler{opts: opts, log: l.With(slog.String("component", "server"))}
}

// Router builds the gin engine with all routes registered. The gin mode is
// left to the caller.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(h.accessLog())

	r.GET("/healthz", h.Health)
	api := r.Group("/api")
	{
		api.GET("/presets", h.Presets)
		api.GET("/palette", h.PaletteHandler)
		api.GET("/schema", h.SchemaHandler)
		api.GET("/stamp", h.StampFromQuery)
		api.POST("/stamp", h.StampFromDocument)
	}
	return r
}

// Serve runs the router on addr until ctx is cancelled.
func (h *Handler) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: h.Router(), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	h.log.Info("listening", slog.String("addr", addr))
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (h *Handler) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("took", time.Since(start)))
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.String()})
}

// Presets lists the built-in stamps as full documents.
func (h *Handler) Presets(c *gin.Context) {
	out := make([]gin.H, 0, len(domain.PresetNames()))
	for _, n := range domain.PresetNames() {
		cfg, _ := domain.Preset(n)
		out = append(out, gin.H{"name": n, "stamp": cfg})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) PaletteHandler(c *gin.Context) {
	c.JSON(http.StatusOK, domain.Palette)
}

func (h *Handler) SchemaHandler(c *gin.Context) {
	c.Data(http.StatusOK, "application/schema+json", stampdoc.Schema())
}

// StampFromQuery renders a stamp described by query parameters, starting
// from ?preset= (or the default stamp).
func (h *Handler) StampFromQuery(c *gin.Context) {
	cfg, err := configFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respond(c, cfg, nil)
}

// StampFromDocument renders a JSON stamp document. A centerImage must be a
// data URI; it is decoded before rendering.
func (h *Handler) StampFromDocument(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxBodySize))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("request body: %v", err)})
		return
	}
	cfg, err := stampdoc.Parse(body, stampdoc.FormatJSON)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var art image.Image
	if cfg.HasImage() {
		if !strings.HasPrefix(strings.TrimSpace(cfg.CenterImage), "data:") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "centerImage must be a data URI"})
			return
		}
		art, err = h.opts.Images.Decode(c.Request.Context(), cfg.CenterImage)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	h.respond(c, cfg, art)
}

func (h *Handler) respond(c *gin.Context, cfg domain.StampConfig, art image.Image) {
	img := h.opts.Renderer.Render(cfg, art)
	name := export.Filename(h.opts.Now())
	format := strings.ToLower(c.DefaultQuery("format", "png"))
	var buf bytes.Buffer
	var ctype string
	switch format {
	case "png":
		if err := export.EncodePNG(&buf, img); err != nil {
			h.fail(c, err)
			return
		}
		ctype = "image/png"
	case "pdf":
		if err := export.WritePDF(&buf, img, h.opts.PDF); err != nil {
			h.fail(c, err)
			return
		}
		ctype = "application/pdf"
		name = strings.TrimSuffix(name, ".png") + ".pdf"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown format %q (valid: png, pdf)", format)})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, ctype, buf.Bytes())
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.log.Error("export failed", slog.Any("err", err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func configFromQuery(c *gin.Context) (domain.StampConfig, error) {
	cfg := domain.DefaultStamp()
	if p := c.Query("preset"); p != "" {
		var ok bool
		if cfg, ok = domain.Preset(domain.PresetName(p)); !ok {
			return cfg, fmt.Errorf("unknown preset %q", p)
		}
	}
	if v, ok := c.GetQuery("shape"); ok {
		s, err := domain.ParseShape(v)
		if err != nil {
			return cfg, err
		}
		cfg.Shape = s
	}
	if v, ok := c.GetQuery("color"); ok {
		col, err := domain.ParseColor(v)
		if err != nil {
			return cfg, err
		}
		cfg.InkColor = col
	}
	if v, ok := c.GetQuery("top"); ok {
		cfg.TopText = v
	}
	if v, ok := c.GetQuery("bottom"); ok {
		cfg.BottomText = v
	}
	if v, ok := c.GetQuery("center"); ok {
		cfg = cfg.WithCenterText(v)
	}
	for key, dst := range map[string]*float64{"border": &cfg.BorderWidth, "font": &cfg.FontSize} {
		if v, ok := c.GetQuery(key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return cfg, fmt.Errorf("%s: %w", key, err)
			}
			*dst = f
		}
	}
	if v, ok := c.GetQuery("grunge"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("grunge: %w", err)
		}
		cfg.Grunge = b
	}
	return cfg, cfg.Validate()
}
