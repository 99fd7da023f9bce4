/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	"github.com/vincent-petithory/dataurl"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrDecode is wrapped by every failure to turn an image reference into pixels.
var ErrDecode = errors.New("decode center image")

// DefaultMaxImageBytes bounds the decoded payload of one image reference.
const DefaultMaxImageBytes = 8 << 20

// DefaultMaxImagePixels bounds width×height as declared by the image header.
const DefaultMaxImagePixels = 4096 * 4096

// Decoder resolves center image references: data URIs always, file paths
// only when AllowFiles is set.
type Decoder struct {
	AllowFiles bool
	MaxBytes   int64
	MaxPixels  int64
}

// Decode resolves ref and decodes it. ctx is checked before and after the
// (non-interruptible) decode so superseded work is dropped promptly.
func (d Decoder) Decode(ctx context.Context, ref string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := d.load(ref)
	if err != nil {
		return nil, err
	}
	img, err := decodeBounded(data, d.pixelLimit())
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}

func (d Decoder) limit() int64 {
	if d.MaxBytes > 0 {
		return d.MaxBytes
	}
	return DefaultMaxImageBytes
}

func (d Decoder) pixelLimit() int64 {
	if d.MaxPixels > 0 {
		return d.MaxPixels
	}
	return DefaultMaxImagePixels
}

func (d Decoder) load(ref string) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, fmt.Errorf("%w: empty reference", ErrDecode)
	case strings.HasPrefix(ref, "data:"):
		b, _, err := ParseDataURI(ref)
		if err != nil {
			return nil, err
		}
		if int64(len(b)) > d.limit() {
			return nil, fmt.Errorf("%w: payload exceeds %d bytes", ErrDecode, d.limit())
		}
		return b, nil
	case d.AllowFiles:
		f, err := os.Open(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		defer func() { _ = f.Close() }()
		b, err := io.ReadAll(io.LimitReader(f, d.limit()+1))
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrDecode, ref, err)
		}
		if int64(len(b)) > d.limit() {
			return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrDecode, ref, d.limit())
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: only data URIs are accepted", ErrDecode)
	}
}

// ParseDataURI splits an RFC 2397 data URI into payload and media type.
// Base64 payloads whose trailing padding was dropped are accepted.
func ParseDataURI(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, "", fmt.Errorf("%w: not a data URI", ErrDecode)
	}
	du, err := dataurl.DecodeString(uri)
	if err != nil {
		padded, ok := repad(uri)
		if !ok {
			return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
		}
		if du, err = dataurl.DecodeString(padded); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
		}
	}
	return du.Data, du.MediaType.ContentType(), nil
}

// repad restores the "=" padding of a base64 data URI payload.
func repad(uri string) (string, bool) {
	meta, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") || len(payload)%4 == 0 {
		return "", false
	}
	return uri + strings.Repeat("=", 4-len(payload)%4), true
}

// DecodeBytes decodes any registered format (PNG, JPEG, GIF, WebP, BMP),
// refusing images larger than DefaultMaxImagePixels.
func DecodeBytes(b []byte) (image.Image, error) {
	return decodeBounded(b, DefaultMaxImagePixels)
}

// decodeBounded reads the header first so oversized images are rejected
// before their pixel buffer is allocated.
func decodeBounded(b []byte, maxPixels int64) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrDecode, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrDecode, cfg.Width, cfg.Height, maxPixels)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}
