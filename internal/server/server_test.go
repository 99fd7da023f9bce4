/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"inkstamp/internal/log"
	"inkstamp/internal/raster"
)

func newTestHandler() *Handler {
	return New(Options{
		Renderer:    raster.NewRenderer(raster.Options{Seed: 1, Logger: log.Discard()}),
		Logger:      log.Discard(),
		MaxBodySize: 64 << 10,
		Now:         func() time.Time { return time.UnixMilli(1700000000123) },
	})
}

func do(t *testing.T, h *Handler, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestHandler(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("healthz = %d %s", rec.Code, rec.Body.String())
	}
}

func TestPresets(t *testing.T) {
	rec := do(t, newTestHandler(), http.MethodGet, "/api/presets", "")
	var out []struct {
		Name  string         `json:"name"`
		Stamp map[string]any `json:"stamp"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode presets: %v", err)
	}
	if len(out) != 4 || out[0].Name != "approved" || out[0].Stamp["centerText"] != "APPROVED" {
		t.Fatalf("unexpected presets: %+v", out)
	}
}

func TestPaletteAndSchema(t *testing.T) {
	h := newTestHandler()
	if rec := do(t, h, http.MethodGet, "/api/palette", ""); !strings.Contains(rec.Body.String(), `"#a855f7"`) {
		t.Fatalf("palette = %s", rec.Body.String())
	}
	if rec := do(t, h, http.MethodGet, "/api/schema", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "isGrunge") {
		t.Fatalf("schema = %d", rec.Code)
	}
}

func TestStampFromQuery_PNG(t *testing.T) {
	rec := do(t, newTestHandler(), http.MethodGet, "/api/stamp?shape=rect&color=blue&top=paid&grunge=false", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="stamp-1700000000123.png"` {
		t.Fatalf("content disposition %q", cd)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// left edge of the rectangle frame in blue
	if r, g, b, a := img.At(20, 200).RGBA(); a == 0 || b>>8 != 0xf6 || r>>8 != 0x3b || g>>8 != 0x82 {
		t.Fatalf("frame pixel = %x %x %x %x", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestStampFromQuery_PDF(t *testing.T) {
	rec := do(t, newTestHandler(), http.MethodGet, "/api/stamp?preset=received&format=pdf", "")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("status %d type %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("not a pdf")
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "stamp-1700000000123.pdf") {
		t.Fatalf("content disposition %q", rec.Header().Get("Content-Disposition"))
	}
}

func TestStampFromQuery_BadInput(t *testing.T) {
	h := newTestHandler()
	for _, q := range []string{"preset=nope", "shape=hexagon", "color=#12", "font=big", "font=500", "font=NaN", "border=nan", "font=Inf", "grunge=maybe", "format=gif"} {
		rec := do(t, h, http.MethodGet, "/api/stamp?"+strings.ReplaceAll(q, "#", "%23"), "")
		if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"error"`) {
			t.Fatalf("%s: status %d body %s", q, rec.Code, rec.Body.String())
		}
	}
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetRGBA(0, 0, color.RGBA{})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestStampFromDocument_WithImage(t *testing.T) {
	doc := `{"color":"green","isGrunge":false,"centerText":"IGNORED","centerImage":"` + pngDataURI(t) + `"}`
	rec := do(t, newTestHandler(), http.MethodPost, "/api/stamp", doc)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, g, _, a := img.At(200, 200).RGBA(); a>>8 < 0xf0 || g>>8 < 0xc0 {
		t.Fatalf("center artwork missing or not tinted green")
	}
}

func TestStampFromDocument_Rejects(t *testing.T) {
	h := newTestHandler()
	cases := map[string]string{
		"schema":       `{"fontSize":1000}`,
		"file path":    `{"centerImage":"/etc/hosts"}`,
		"broken image": `{"centerImage":"data:image/png;base64,AAAA"}`,
		"not json":     `shape: circle`,
	}
	for name, body := range cases {
		rec := do(t, h, http.MethodPost, "/api/stamp", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status %d body %s", name, rec.Code, rec.Body.String())
		}
	}
	big := `{"topText":"` + strings.Repeat("x", 70<<10) + `"}`
	if rec := do(t, h, http.MethodPost, "/api/stamp", big); rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized body status %d", rec.Code)
	}
}

func TestRouterLeavesGinModeAlone(t *testing.T) {
	prev := gin.Mode()
	t.Cleanup(func() { gin.SetMode(prev) })
	gin.SetMode(gin.TestMode)
	h := newTestHandler()
	_ = h.Router()
	_ = h.Router()
	if m := gin.Mode(); m != gin.TestMode {
		t.Fatalf("gin mode = %q after building routers, want %q", m, gin.TestMode)
	}
}
