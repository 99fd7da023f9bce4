/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls exporting one rendered stamp into several formats.
//
// Path semantics:
//   - Files land in OutDir (default: the preset name, relative to the working
//     directory).
//   - PNG files use the timestamped download name; the PDF sheet shares the
//     same stem with a .pdf extension.
type BatchOptions struct {
	Preset  PresetName
	Formats []string // allowed: png, pdf; empty means preset defaults
	OutDir  string
	PDF     PDFOptions
	Now     time.Time
}

// BatchExport writes img in every requested format and returns the paths.
func BatchExport(img image.Image, opt BatchOptions) ([]string, error) {
	if img == nil {
		return nil, fmt.Errorf("image is nil")
	}
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	outDir := opt.OutDir
	if outDir == "" {
		outDir = string(opt.Preset)
	}
	now := opt.Now
	if now.IsZero() {
		now = time.Now()
	}
	pdfOpt := opt.PDF
	if opt.Preset == PresetPrint && pdfOpt.Copies == 0 {
		pdfOpt.Copies = 12
		pdfOpt.Guides = true
	}

	stem := strings.TrimSuffix(Filename(now), ".png")
	var written []string
	for _, f := range formats {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "png":
			p, err := WritePNG(outDir, img, now)
			if err != nil {
				return written, fmt.Errorf("png: %w", err)
			}
			written = append(written, p)
		case "pdf":
			p := filepath.Join(outDir, stem+".pdf")
			if err := WritePDFFile(p, img, pdfOpt); err != nil {
				return written, fmt.Errorf("pdf: %w", err)
			}
			written = append(written, p)
		default:
			return written, fmt.Errorf("unknown format: %s", f)
		}
	}
	return written, nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetPrint:
		return []string{"png", "pdf"}
	default:
		return []string{"png"}
	}
}
