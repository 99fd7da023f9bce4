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
	"encoding/base64"
	"log/slog"
	"net/http"

	"inkstamp/internal/domain"
	"inkstamp/internal/export"
	"inkstamp/internal/raster"
)

// Options carries everything the desktop preview needs. Zero fields fall
// back to defaults.
type Options struct {
	Renderer  *raster.Renderer
	Images    raster.ImageSource
	Stamp     domain.StampConfig
	ExportDir string
	PDF       export.PDFOptions
	Logger    *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Renderer == nil {
		o.Renderer = raster.NewRenderer(raster.Options{Logger: o.Logger})
	}
	if o.Images == nil {
		o.Images = raster.Decoder{}
	}
	if o.Stamp == (domain.StampConfig{}) {
		o.Stamp = domain.DefaultStamp()
	}
	return o
}

// DataURI embeds an uploaded file the same way a browser FileReader would.
func DataURI(b []byte) string {
	return "data:" + http.DetectContentType(b) + ";base64," + base64.StdEncoding.EncodeToString(b)
}
