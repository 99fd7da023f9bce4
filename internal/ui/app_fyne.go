//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"inkstamp/internal/crash"
	"inkstamp/internal/domain"
	"inkstamp/internal/export"
	"inkstamp/internal/raster"
	"inkstamp/internal/stampdoc"
	"inkstamp/internal/version"
)

// Run starts the Fyne-based live stamp preview.
func Run(opts Options) error {
	opts = opts.withDefaults()
	l := opts.Logger.With(slog.String("component", "ui"))
	l.Info("starting UI")

	disp := raster.NewDisplay(opts.Renderer, opts.Images, opts.Logger)
	defer crash.Recover(&crash.Session{Dir: opts.ExportDir, Stamp: func() domain.StampConfig { return disp.Frame().Config }})

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		disp.Close()
	}()

	fyneApp := app.NewWithID("inkstamp")
	w := fyneApp.NewWindow("Ink Stamp")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 900)
	winH := prefs.IntWithFallback("window.height", 600)
	w.Resize(fyne.NewSize(float32(max(winW, 700)), float32(max(winH, 500))))

	status := widget.NewLabel("Ready")
	size := opts.Renderer.Size()
	preview := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, size, size)))
	preview.FillMode = canvas.ImageFillContain
	preview.ScaleMode = canvas.ImageScaleSmooth
	preview.SetMinSize(fyne.NewSize(400, 400))

	disp.OnFrame(func(f raster.Frame) {
		img, complete := f.Image, f.Complete
		fyne.Do(func() {
			preview.Image = img
			preview.Refresh()
			if complete {
				status.SetText("Ready")
			} else {
				status.SetText("Loading center image…")
			}
		})
	})

	// cfg is only touched on the UI goroutine.
	cfg := opts.Stamp
	syncing := false
	update := func() {
		if syncing {
			return
		}
		if err := cfg.Validate(); err != nil {
			status.SetText(err.Error())
			return
		}
		disp.Update(ctx, cfg)
	}

	shapeRadio := widget.NewRadioGroup([]string{"Circle", "Rectangle"}, func(s string) {
		cfg.Shape, _ = domain.ParseShape(s)
		update()
	})
	shapeRadio.Horizontal = true

	paletteNames := make([]string, len(domain.Palette))
	for i, p := range domain.Palette {
		paletteNames[i] = p.Name
	}
	hexEntry := widget.NewEntry()
	hexEntry.SetPlaceHolder("#rrggbb")
	colorSelect := widget.NewSelect(paletteNames, func(name string) {
		if c, ok := domain.PaletteColor(name); ok {
			cfg.InkColor = c
			hexEntry.SetText(c.Hex())
			update()
		}
	})
	hexEntry.OnSubmitted = func(s string) {
		c, err := domain.ParseColor(s)
		if err != nil {
			status.SetText(err.Error())
			return
		}
		cfg.InkColor = c
		update()
	}

	topEntry := widget.NewEntry()
	topEntry.OnChanged = func(s string) { cfg.TopText = s; update() }
	bottomEntry := widget.NewEntry()
	bottomEntry.OnChanged = func(s string) { cfg.BottomText = s; update() }
	centerEntry := widget.NewEntry()
	centerEntry.OnChanged = func(s string) {
		if s == "" && cfg.HasImage() {
			return
		}
		cfg = cfg.WithCenterText(s)
		update()
	}

	borderSlider := widget.NewSlider(1, 20)
	borderSlider.Step = 1
	borderLabel := widget.NewLabel("")
	borderSlider.OnChanged = func(v float64) {
		cfg.BorderWidth = v
		borderLabel.SetText(fmt.Sprintf("%.0f", v))
		update()
	}
	fontSlider := widget.NewSlider(12, 48)
	fontSlider.Step = 1
	fontLabel := widget.NewLabel("")
	fontSlider.OnChanged = func(v float64) {
		cfg.FontSize = v
		fontLabel.SetText(fmt.Sprintf("%.0f", v))
		update()
	}
	grungeCheck := widget.NewCheck("Grunge effect", func(b bool) { cfg.Grunge = b; update() })

	// load copies cfg into the widgets without triggering a render per field.
	load := func(c domain.StampConfig) {
		syncing = true
		cfg = c
		if c.Shape == domain.Rectangle {
			shapeRadio.SetSelected("Rectangle")
		} else {
			shapeRadio.SetSelected("Circle")
		}
		colorSelect.ClearSelected()
		for _, p := range domain.Palette {
			if p.Color == c.InkColor {
				colorSelect.SetSelected(p.Name)
			}
		}
		hexEntry.SetText(c.InkColor.Hex())
		topEntry.SetText(c.TopText)
		bottomEntry.SetText(c.BottomText)
		centerEntry.SetText(c.CenterText)
		borderSlider.SetValue(c.BorderWidth)
		fontSlider.SetValue(c.FontSize)
		grungeCheck.SetChecked(c.Grunge)
		cfg = c
		syncing = false
		update()
	}

	presetNames := make([]string, 0, len(domain.PresetNames()))
	for _, n := range domain.PresetNames() {
		presetNames = append(presetNames, string(n))
	}
	presetSelect := widget.NewSelect(presetNames, func(name string) {
		if p, ok := domain.Preset(domain.PresetName(name)); ok {
			load(p)
			status.SetText("Preset: " + name)
		}
	})
	presetSelect.PlaceHolder = "Preset…"

	uploadBtn := widget.NewButton("Upload Image…", func() {
		open := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if rc == nil {
				return
			}
			defer func() { _ = rc.Close() }()
			b, err := io.ReadAll(io.LimitReader(rc, raster.DefaultMaxImageBytes+1))
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			syncing = true
			centerEntry.SetText("")
			syncing = false
			cfg = cfg.WithImage(DataURI(b))
			status.SetText("Image: " + rc.URI().Name())
			update()
		}, w)
		open.SetFilter(fstorage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"}))
		open.Show()
	})
	clearImageBtn := widget.NewButton("Remove Image", func() {
		cfg.CenterImage = ""
		update()
	})

	exportPNG := func() {
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			defer func() { _ = uc.Close() }()
			if _, err := disp.Export(uc); err != nil {
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Exported " + uc.URI().Name())
		}, w)
		save.SetFileName(export.Filename(time.Now()))
		save.SetFilter(fstorage.NewExtensionFileFilter([]string{".png"}))
		save.Show()
	}
	exportPDF := func() {
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			defer func() { _ = uc.Close() }()
			f := disp.Frame()
			if f.Image == nil {
				dialog.ShowError(raster.ErrNoFrame, w)
				return
			}
			if err := export.WritePDF(uc, f.Image, opts.PDF); err != nil {
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Exported " + uc.URI().Name())
		}, w)
		save.SetFileName("stamp-sheet.pdf")
		save.SetFilter(fstorage.NewExtensionFileFilter([]string{".pdf"}))
		save.Show()
	}
	openDoc := func() {
		open := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if rc == nil {
				return
			}
			path := rc.URI().Path()
			_ = rc.Close()
			c, err := stampdoc.Load(path)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			load(c)
			status.SetText("Opened " + filepath.Base(path))
		}, w)
		open.SetFilter(fstorage.NewExtensionFileFilter([]string{".yaml", ".yml", ".json"}))
		open.Show()
	}
	saveDoc := func() {
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			path := uc.URI().Path()
			_ = uc.Close()
			if err := stampdoc.Save(path, cfg); err != nil {
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Saved " + filepath.Base(path))
		}, w)
		save.SetFileName("stamp.yaml")
		save.Show()
	}

	form := widget.NewForm(
		widget.NewFormItem("Preset", presetSelect),
		widget.NewFormItem("Shape", shapeRadio),
		widget.NewFormItem("Ink Color", container.NewGridWithColumns(2, colorSelect, hexEntry)),
		widget.NewFormItem("Top Text", topEntry),
		widget.NewFormItem("Bottom Text", bottomEntry),
		widget.NewFormItem("Center Text", centerEntry),
		widget.NewFormItem("Center Image", container.NewHBox(uploadBtn, clearImageBtn)),
		widget.NewFormItem("Border Width", container.NewBorder(nil, nil, nil, borderLabel, borderSlider)),
		widget.NewFormItem("Font Size", container.NewBorder(nil, nil, nil, fontLabel, fontSlider)),
		widget.NewFormItem("", grungeCheck),
	)
	downloadBtn := widget.NewButton("Download Stamp", exportPNG)
	downloadBtn.Importance = widget.HighImportance
	left := container.NewBorder(nil, downloadBtn, nil, nil, container.NewVScroll(form))
	split := container.NewHSplit(left, container.NewCenter(preview))
	split.Offset = 0.45
	w.SetContent(container.NewBorder(nil, status, nil, nil, split))

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Stamp…", openDoc),
		fyne.NewMenuItem("Save Stamp…", saveDoc),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG…", exportPNG),
		fyne.NewMenuItem("Export PDF Sheet…", exportPDF),
	)
	aboutMenu := fyne.NewMenu("About", fyne.NewMenuItem("About Ink Stamp", func() {
		dialog.ShowInformation("About", version.String(), w)
	}))
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, aboutMenu))

	// Persist preferences on close
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})

	load(cfg)
	w.ShowAndRun()
	return nil
}
