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
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(3, 2, red)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecoder_DataURIFormats(t *testing.T) {
	var bm bytes.Buffer
	if err := bmp.Encode(&bm, solid(5, 4, color.White)); err != nil {
		t.Fatalf("bmp encode: %v", err)
	}
	cases := map[string]struct {
		uri  string
		w, h int
	}{
		"png":      {"data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t)), 3, 2},
		"bmp":      {"data:image/bmp;base64," + base64.StdEncoding.EncodeToString(bm.Bytes()), 5, 4},
		"unpadded": {"data:image/png;base64," + base64.RawStdEncoding.EncodeToString(pngBytes(t)), 3, 2},
	}
	for name, tc := range cases {
		img, err := Decoder{}.Decode(context.Background(), tc.uri)
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if b := img.Bounds(); b.Dx() != tc.w || b.Dy() != tc.h {
			t.Fatalf("%s: bounds = %v", name, b)
		}
	}
}

func TestDecoder_Errors(t *testing.T) {
	ctx := context.Background()
	bad := []string{
		"",
		"/etc/passwd",
		"data:image/png;base64",
		"data:image/png;base64,!!!!",
		"data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not an image")),
	}
	for _, ref := range bad {
		if _, err := (Decoder{}).Decode(ctx, ref); !errors.Is(err, ErrDecode) {
			t.Fatalf("Decode(%q) err = %v, want ErrDecode", ref, err)
		}
	}
	big := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t))
	if _, err := (Decoder{MaxBytes: 8}).Decode(ctx, big); !errors.Is(err, ErrDecode) {
		t.Fatalf("oversized payload err = %v", err)
	}
	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := (Decoder{}).Decode(cctx, big); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled decode err = %v", err)
	}
}

func TestDecoder_FilesAreOptIn(t *testing.T) {
	p := filepath.Join(t.TempDir(), "art.png")
	if err := os.WriteFile(p, pngBytes(t), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := (Decoder{}).Decode(context.Background(), p); !errors.Is(err, ErrDecode) {
		t.Fatalf("file path accepted without AllowFiles")
	}
	img, err := Decoder{AllowFiles: true}.Decode(context.Background(), p)
	if err != nil {
		t.Fatalf("decode file: %v", err)
	}
	if img.Bounds().Dx() != 3 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if _, err := (Decoder{AllowFiles: true}).Decode(context.Background(), p+".missing"); !errors.Is(err, ErrDecode) {
		t.Fatalf("missing file err = %v", err)
	}
}

func TestParseDataURI(t *testing.T) {
	b, mt, err := ParseDataURI("data:text/plain;charset=utf-8,hello%20world")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if string(b) != "hello world" || mt != "text/plain" {
		t.Fatalf("got %q %q", b, mt)
	}
	b, mt, err = ParseDataURI("data:,x")
	if err != nil || string(b) != "x" || mt != "text/plain" {
		t.Fatalf("default media type: %q %q %v", b, mt, err)
	}
	if _, _, err := ParseDataURI("http://example.com/a.png"); err == nil || !strings.Contains(err.Error(), "data URI") {
		t.Fatalf("non data URI err = %v", err)
	}

	raw := pngBytes(t)
	for _, uri := range []string{
		"data:image/png;name=art.png;base64," + base64.StdEncoding.EncodeToString(raw),
		"data:image/png;base64," + base64.RawStdEncoding.EncodeToString(raw),
	} {
		b, mt, err := ParseDataURI(uri)
		if err != nil {
			t.Fatalf("parse %q: %v", uri[:30], err)
		}
		if mt != "image/png" || !bytes.Equal(b, raw) {
			t.Fatalf("got %q and %d bytes, want image/png and %d", mt, len(b), len(raw))
		}
	}
	for _, uri := range []string{"data:image/png;base64,a$b=", "data:image/png;base64,abcde", "data:image/png"} {
		if _, _, err := ParseDataURI(uri); !errors.Is(err, ErrDecode) {
			t.Fatalf("ParseDataURI(%q) err = %v, want ErrDecode", uri, err)
		}
	}
}

// hugePNG returns a valid PNG header declaring w×h pixels; only the IHDR
// chunk is consistent, which is all DecodeConfig reads.
func hugePNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	b := pngBytes(t)
	binary.BigEndian.PutUint32(b[16:20], w)
	binary.BigEndian.PutUint32(b[20:24], h)
	binary.BigEndian.PutUint32(b[29:33], crc32.ChecksumIEEE(b[12:29]))
	return b
}

func TestDecoder_PixelBudget(t *testing.T) {
	ctx := context.Background()
	huge := "data:image/png;base64," + base64.StdEncoding.EncodeToString(hugePNG(t, 6000, 6000))
	_, err := (Decoder{}).Decode(ctx, huge)
	if !errors.Is(err, ErrDecode) || !strings.Contains(err.Error(), "6000x6000") {
		t.Fatalf("oversized image err = %v", err)
	}
	if _, err := DecodeBytes(hugePNG(t, 6000, 6000)); !errors.Is(err, ErrDecode) {
		t.Fatalf("DecodeBytes oversized err = %v", err)
	}

	small := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t))
	if _, err := (Decoder{MaxPixels: 5}).Decode(ctx, small); !errors.Is(err, ErrDecode) {
		t.Fatalf("3x2 image under a 5 pixel budget err = %v", err)
	}
	if _, err := (Decoder{MaxPixels: 6}).Decode(ctx, small); err != nil {
		t.Fatalf("3x2 image under a 6 pixel budget: %v", err)
	}
}
