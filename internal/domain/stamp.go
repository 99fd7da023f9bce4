/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the stamp data model. A StampConfig fully determines the
// rendered output (apart from the grunge random source); it serializes to the
// same camelCase document shape in JSON and YAML.

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Shape selects the stamp frame.
type Shape string

const (
	Circle    Shape = "circle"
	Rectangle Shape = "rectangle"
)

// ParseShape accepts the canonical names plus a few aliases ("rect", "round").
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "circle", "round", "":
		return Circle, nil
	case "rectangle", "rect":
		return Rectangle, nil
	default:
		return Circle, fmt.Errorf("unknown shape %q (valid: circle, rectangle)", s)
	}
}

func (s Shape) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s *Shape) UnmarshalText(b []byte) error {
	v, err := ParseShape(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// StampConfig is the declarative description of one stamp.
//
// CenterImage holds an image reference (data URI or, where the caller allows
// it, a file path). When it is non-empty the center image wins and CenterText
// is never drawn.
type StampConfig struct {
	Shape       Shape   `json:"shape" yaml:"shape"`
	InkColor    Color   `json:"color" yaml:"color"`
	TopText     string  `json:"topText" yaml:"topText"`
	BottomText  string  `json:"bottomText" yaml:"bottomText"`
	CenterText  string  `json:"centerText" yaml:"centerText"`
	CenterImage string  `json:"centerImage,omitempty" yaml:"centerImage,omitempty"`
	BorderWidth float64 `json:"borderWidth" yaml:"borderWidth"`
	FontSize    float64 `json:"fontSize" yaml:"fontSize"`
	Grunge      bool    `json:"isGrunge" yaml:"isGrunge"`
}

// HasImage reports whether the center image slot is in use.
func (c StampConfig) HasImage() bool { return strings.TrimSpace(c.CenterImage) != "" }

// ActiveCenterText returns the center text that will actually be drawn:
// empty whenever an image is configured.
func (c StampConfig) ActiveCenterText() string {
	if c.HasImage() {
		return ""
	}
	return c.CenterText
}

// WithImage returns a copy using ref as center artwork; center text is cleared.
func (c StampConfig) WithImage(ref string) StampConfig {
	c.CenterImage = ref
	c.CenterText = ""
	return c
}

// WithCenterText returns a copy with text as center mark; any image is cleared.
func (c StampConfig) WithCenterText(text string) StampConfig {
	c.CenterText = text
	c.CenterImage = ""
	return c
}

// Limits applied by Validate. The renderer itself does not check them.
const (
	MinFontSize    = 6
	MaxFontSize    = 96
	MinBorderWidth = 1
	MaxBorderWidth = 40
	MaxTextRunes   = 64
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid stamp config")

// Validate bounds-checks the numeric and text fields so degenerate values never
// reach the renderer. All problems are reported together.
func (c StampConfig) Validate() error {
	var problems []string
	if c.Shape != Circle && c.Shape != Rectangle {
		problems = append(problems, fmt.Sprintf("shape %q", c.Shape))
	}
	if !inRange(c.FontSize, MinFontSize, MaxFontSize) {
		problems = append(problems, fmt.Sprintf("fontSize %v outside [%d,%d]", c.FontSize, MinFontSize, MaxFontSize))
	}
	if !inRange(c.BorderWidth, MinBorderWidth, MaxBorderWidth) {
		problems = append(problems, fmt.Sprintf("borderWidth %v outside [%d,%d]", c.BorderWidth, MinBorderWidth, MaxBorderWidth))
	}
	texts := []struct{ name, s string }{
		{"topText", c.TopText},
		{"bottomText", c.BottomText},
		{"centerText", c.CenterText},
	}
	for _, f := range texts {
		if n := utf8.RuneCountInString(f.s); n > MaxTextRunes {
			problems = append(problems, fmt.Sprintf("%s has %d characters (max %d)", f.name, n, MaxTextRunes))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}

// inRange is false for NaN.
func inRange(v, lo, hi float64) bool { return v >= lo && v <= hi }
