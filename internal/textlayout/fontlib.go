/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
)

// DefaultFamily is the family name of the embedded bold monospace face.
const DefaultFamily = "mono-bold"

var (
	defaultOnce sync.Once
	defaultFont *opentype.Font
	defaultErr  error
)

func embeddedMonoBold() (*opentype.Font, error) {
	defaultOnce.Do(func() {
		defaultFont, defaultErr = opentype.Parse(gomonobold.TTF)
	})
	return defaultFont, defaultErr
}

// FontLibrary stores parsed OpenType fonts by family name. Parsed fonts are
// immutable and may be shared; faces created from them may not.
type FontLibrary struct {
	mu    sync.RWMutex
	fonts map[string]*opentype.Font
}

// NewFontLibrary returns a library preloaded with the embedded mono bold face.
func NewFontLibrary() (*FontLibrary, error) {
	f, err := embeddedMonoBold()
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}
	return &FontLibrary{fonts: map[string]*opentype.Font{DefaultFamily: f}}, nil
}

// LoadFile loads a TTF/OTF file under family.
func (fl *FontLibrary) LoadFile(family, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	if err := fl.LoadBytes(family, data); err != nil {
		return fmt.Errorf("font %s: %w", path, err)
	}
	return nil
}

// LoadBytes parses raw font data and registers it under family.
func (fl *FontLibrary) LoadBytes(family string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.fonts == nil {
		fl.fonts = make(map[string]*opentype.Font)
	}
	fl.fonts[family] = f
	return nil
}

// Families lists registered family names (unordered).
func (fl *FontLibrary) Families() []string {
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	out := make([]string, 0, len(fl.fonts))
	for k := range fl.fonts {
		out = append(out, k)
	}
	return out
}

func (fl *FontLibrary) find(family string) *opentype.Font {
	if fl == nil {
		return nil
	}
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	if f, ok := fl.fonts[family]; ok {
		return f
	}
	return fl.fonts[DefaultFamily]
}

// OTProvider resolves FontSpec through a FontLibrary at 72 DPI so that font
// size equals pixel size. Unknown families fall back to the embedded face and
// then to Fallback.
type OTProvider struct {
	Lib      *FontLibrary
	Fallback Provider
}

func (p OTProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if spec.Size <= 0 {
		spec.Size = 12
	}
	if f := p.Lib.find(spec.Family); f != nil {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: spec.Size, DPI: 72, Hinting: font.HintingNone})
		if err == nil {
			return face, metricsOf(face)
		}
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{}
	}
	return fb.Resolve(spec)
}
