/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

// PDFOptions controls the printable stamp sheet. Units are millimetres.
//
// The sheet places Copies instances of the stamp in a grid, left to right and
// top to bottom, inside Margin. Copies beyond what fits on one page are
// dropped.
type PDFOptions struct {
	PageSize string  // gofpdf size name, default "A4"
	StampMM  float64 // printed stamp edge, default 40
	Copies   int     // default 1
	Margin   float64 // default 15
	Gap      float64 // default 5
	Title    string
	Guides   bool // hairline box around each copy
}

func (o PDFOptions) withDefaults() PDFOptions {
	if o.PageSize == "" {
		o.PageSize = "A4"
	}
	if o.StampMM <= 0 {
		o.StampMM = 40
	}
	if o.Copies <= 0 {
		o.Copies = 1
	}
	if o.Margin <= 0 {
		o.Margin = 15
	}
	if o.Gap <= 0 {
		o.Gap = 5
	}
	if o.Title == "" {
		o.Title = "Ink Stamp"
	}
	return o
}

// SheetSlots returns how many copies fit on one page for the given options.
func SheetSlots(pageW, pageH float64, opt PDFOptions) (cols, rows int) {
	opt = opt.withDefaults()
	fit := func(extent float64) int {
		n := int(math.Floor((extent - 2*opt.Margin + opt.Gap) / (opt.StampMM + opt.Gap)))
		return max(n, 0)
	}
	return fit(pageW), fit(pageH)
}

// WritePDF writes a one-page PDF sheet carrying img (as an embedded PNG with
// transparency) to w.
func WritePDF(w io.Writer, img image.Image, opt PDFOptions) error {
	opt = opt.withDefaults()
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", opt.PageSize, "")
	pdf.SetTitle(opt.Title, true)
	pdf.SetAuthor("Ink Stamp", false)
	pdf.SetMargins(opt.Margin, opt.Margin, opt.Margin)
	pdf.SetAutoPageBreak(false, opt.Margin)
	pdf.AddPage()

	imgOpt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("stamp", imgOpt, &buf)

	pageW, pageH := pdf.GetPageSize()
	cols, rows := SheetSlots(pageW, pageH, opt)
	if cols == 0 || rows == 0 {
		return fmt.Errorf("stamp of %.1fmm does not fit on %s", opt.StampMM, opt.PageSize)
	}
	n := min(opt.Copies, cols*rows)
	pdf.SetLineWidth(0.1)
	pdf.SetDrawColor(200, 200, 200)
	for i := 0; i < n; i++ {
		x := opt.Margin + float64(i%cols)*(opt.StampMM+opt.Gap)
		y := opt.Margin + float64(i/cols)*(opt.StampMM+opt.Gap)
		pdf.ImageOptions("stamp", x, y, opt.StampMM, opt.StampMM, false, imgOpt, 0, "")
		if opt.Guides {
			pdf.Rect(x, y, opt.StampMM, opt.StampMM, "D")
		}
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// WritePDFFile is WritePDF to a file, creating parent directories.
func WritePDFFile(path string, img image.Image, opt PDFOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create pdf: %w", err)
	}
	if err := WritePDF(f, img, opt); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close pdf: %w", err)
	}
	return nil
}
