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
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Filename returns the download name for a stamp exported at t:
// stamp-<unix milliseconds>.png.
func Filename(t time.Time) string {
	return fmt.Sprintf("stamp-%d.png", t.UnixMilli())
}

// EncodePNG writes img as a PNG, keeping its alpha channel.
func EncodePNG(w io.Writer, img image.Image) error {
	if img == nil {
		return fmt.Errorf("image is nil")
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WritePNG saves img under dir with a timestamped name and returns the path.
func WritePNG(dir string, img image.Image, now time.Time) (string, error) {
	return writePNGFile(filepath.Join(dir, Filename(now)), img)
}

// WritePNGFile saves img to path, creating parent directories.
func WritePNGFile(path string, img image.Image) error {
	_, err := writePNGFile(path, img)
	return err
}

func writePNGFile(path string, img image.Image) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create png: %w", err)
	}
	if err := EncodePNG(f, img); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close png: %w", err)
	}
	return path, nil
}
