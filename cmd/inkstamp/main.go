/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"inkstamp/internal/config"
	"inkstamp/internal/crash"
	"inkstamp/internal/domain"
	"inkstamp/internal/export"
	applog "inkstamp/internal/log"
	"inkstamp/internal/raster"
	"inkstamp/internal/server"
	"inkstamp/internal/stampdoc"
	"inkstamp/internal/textlayout"
	"inkstamp/internal/ui"
	"inkstamp/internal/version"
)

func usage() {
	fmt.Println("Ink Stamp — rubber stamp renderer")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  inkstamp version|-v|--version               Show version")
	fmt.Println("  inkstamp presets                            List built-in stamps")
	fmt.Println("  inkstamp render <stamp|preset> [out.png]    Render a stamp document or preset to PNG")
	fmt.Println("  inkstamp pdf <stamp|preset> [out.pdf]       Render a printable PDF sheet")
	fmt.Println("  inkstamp export <stamp|preset> <web|print> [dir]  Export with a preset (png, pdf)")
	fmt.Println("  inkstamp serve [addr]                       Serve the HTTP rendering API")
	fmt.Println("  inkstamp ui [<stamp>]                       Launch desktop UI (build with -tags fyne for full UI)")
}

// app bundles what every command needs after configuration is loaded.
type app struct {
	cfg      config.AppConfig
	renderer *raster.Renderer
	images   raster.Decoder
	log      *slog.Logger
	stamp    domain.StampConfig
}

func newApp(cfg config.AppConfig) (*app, error) {
	fonts, err := textlayout.NewFontLibrary()
	if err != nil {
		return nil, err
	}
	family := textlayout.DefaultFamily
	if cfg.Render.FontFile != "" {
		family = "custom"
		if err := fonts.LoadFile(family, cfg.Render.FontFile); err != nil {
			return nil, err
		}
	}
	l := applog.WithComponent("cli")
	r := raster.NewRenderer(raster.Options{
		Size:   cfg.Render.CanvasSize,
		Fonts:  textlayout.OTProvider{Lib: fonts, Fallback: textlayout.BasicProvider{}},
		Family: family,
		MaxArc: cfg.Render.ArcClamp,
		Seed:   cfg.Render.GrungeSeed,
		Logger: applog.L(),
	})
	return &app{
		cfg:      cfg,
		renderer: r,
		images:   raster.Decoder{AllowFiles: cfg.Render.AllowFiles},
		log:      l,
		stamp:    domain.DefaultStamp(),
	}, nil
}

func (a *app) pdfOptions() export.PDFOptions {
	return export.PDFOptions{
		PageSize: a.cfg.Export.PageSize,
		StampMM:  a.cfg.Export.PDFStampMM,
		Copies:   a.cfg.Export.PDFCopies,
	}
}

// loadStamp resolves a preset name or reads a stamp document; an empty
// argument yields the default stamp.
func (a *app) loadStamp(arg string) (domain.StampConfig, error) {
	if arg == "" {
		return domain.DefaultStamp(), nil
	}
	if p, ok := domain.Preset(domain.PresetName(arg)); ok {
		return p, nil
	}
	abs, _ := filepath.Abs(arg)
	return stampdoc.Load(abs)
}

// render draws s. A center image that fails to decode leaves the center empty.
func (a *app) render(ctx context.Context, s domain.StampConfig) *image.RGBA {
	var art image.Image
	if s.HasImage() {
		img, err := a.images.Decode(ctx, s.CenterImage)
		if err != nil {
			a.log.Warn("center image skipped", slog.Any("err", err))
		} else {
			art = img
		}
	}
	return a.renderer.Render(s, art)
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")

	a, err := newApp(cfg)
	if err != nil {
		fail(l, "setup failed", err)
	}
	defer crash.Recover(&crash.Session{Dir: cfg.Export.Dir, Stamp: func() domain.StampConfig { return a.stamp }})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	arg := func(i int) string {
		if len(args) > i {
			return args[i]
		}
		return ""
	}
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Ink Stamp")
			fmt.Println(version.String())
			return
		case "presets":
			for _, n := range domain.PresetNames() {
				p, _ := domain.Preset(n)
				fmt.Printf("%-10s %-9s %s  %s / %s\n", n, p.Shape, p.InkColor.Hex(), p.TopText, p.BottomText)
			}
			return
		case "render":
			s, err := a.loadStamp(arg(2))
			if err != nil {
				fail(l, "load stamp failed", err)
			}
			a.stamp = s
			img := a.render(ctx, s)
			var path string
			if out := arg(3); out != "" {
				path = out
				err = export.WritePNGFile(out, img)
			} else {
				path, err = export.WritePNG(a.cfg.Export.Dir, img, time.Now())
			}
			if err != nil {
				fail(l, "write png failed", err)
			}
			l.Info("rendered", slog.String("path", path))
			fmt.Println("Wrote", path)
			return
		case "pdf":
			s, err := a.loadStamp(arg(2))
			if err != nil {
				fail(l, "load stamp failed", err)
			}
			a.stamp = s
			out := arg(3)
			if out == "" {
				out = filepath.Join(a.cfg.Export.Dir, strings.TrimSuffix(export.Filename(time.Now()), ".png")+".pdf")
			}
			if err := export.WritePDFFile(out, a.render(ctx, s), a.pdfOptions()); err != nil {
				fail(l, "write pdf failed", err)
			}
			fmt.Println("Wrote", out)
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <stamp|preset> and <web|print>")
				usage()
				os.Exit(2)
			}
			s, err := a.loadStamp(args[2])
			if err != nil {
				fail(l, "load stamp failed", err)
			}
			a.stamp = s
			pdfOpt := a.pdfOptions()
			pdfOpt.Copies = 0 // preset decides
			paths, err := export.BatchExport(a.render(ctx, s), export.BatchOptions{
				Preset: export.PresetName(args[3]),
				OutDir: arg(4),
				PDF:    pdfOpt,
			})
			if err != nil {
				fail(l, "export failed", err)
			}
			for _, p := range paths {
				fmt.Println("Wrote", p)
			}
			return
		case "serve":
			addr := a.cfg.Server.Addr
			if v := arg(2); v != "" {
				addr = v
			}
			gin.SetMode(gin.ReleaseMode)
			h := server.New(server.Options{
				Renderer:    a.renderer,
				Images:      raster.Decoder{MaxBytes: a.cfg.Server.MaxUploadBytes()},
				MaxBodySize: a.cfg.Server.MaxUploadBytes(),
				PDF:         a.pdfOptions(),
				Logger:      applog.L(),
			})
			fmt.Println("Listening on", addr)
			if err := h.Serve(ctx, addr); err != nil {
				fail(l, "serve failed", err)
			}
			return
		case "ui":
			s, err := a.loadStamp(arg(2))
			if err != nil {
				fail(l, "load stamp failed", err)
			}
			a.stamp = s
			if err := ui.Run(ui.Options{
				Renderer:  a.renderer,
				Images:    a.images,
				Stamp:     s,
				ExportDir: a.cfg.Export.Dir,
				PDF:       a.pdfOptions(),
				Logger:    applog.L(),
			}); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}
