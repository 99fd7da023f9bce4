/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package domain

import "sort"

// PaletteEntry is one of the named ink colors offered to users.
type PaletteEntry struct {
	Name  string `json:"name" yaml:"name"`
	Color Color  `json:"value" yaml:"value"`
}

// Palette lists the ink colors in display order.
var Palette = []PaletteEntry{
	{Name: "red", Color: Color{R: 0xef, G: 0x44, B: 0x44}},
	{Name: "blue", Color: Color{R: 0x3b, G: 0x82, B: 0xf6}},
	{Name: "black", Color: Color{R: 0x1e, G: 0x29, B: 0x3b}},
	{Name: "green", Color: Color{R: 0x22, G: 0xc5, B: 0x5e}},
	{Name: "purple", Color: Color{R: 0xa8, G: 0x55, B: 0xf7}},
}

// PaletteColor looks up a palette entry by name.
func PaletteColor(name string) (Color, bool) {
	for _, p := range Palette {
		if p.Name == name {
			return p.Color, true
		}
	}
	return Color{}, false
}

// DefaultStamp is the stamp a fresh session starts with.
func DefaultStamp() StampConfig {
	return StampConfig{
		Shape:       Circle,
		InkColor:    Palette[0].Color,
		TopText:     "COMPANY NAME",
		BottomText:  "EST. 2024",
		BorderWidth: 5,
		FontSize:    24,
		Grunge:      true,
	}
}

// PresetName identifies a built-in stamp.
type PresetName string

const (
	PresetClassic  PresetName = "classic"
	PresetClean    PresetName = "clean"
	PresetApproved PresetName = "approved"
	PresetReceived PresetName = "received"
)

var presets = map[PresetName]func() StampConfig{
	PresetClassic: DefaultStamp,
	PresetClean: func() StampConfig {
		c := DefaultStamp()
		c.Grunge = false
		return c
	},
	PresetApproved: func() StampConfig {
		c := DefaultStamp()
		c.InkColor = Palette[3].Color
		c.TopText = "QUALITY CONTROL"
		c.BottomText = "INSPECTED"
		c.CenterText = "APPROVED"
		return c
	},
	PresetReceived: func() StampConfig {
		return StampConfig{
			Shape:       Rectangle,
			InkColor:    Palette[1].Color,
			TopText:     "RECEIVED",
			BottomText:  "ACCOUNTS DEPT.",
			BorderWidth: 4,
			FontSize:    22,
			Grunge:      true,
		}
	},
}

// Preset returns a copy of the named preset.
func Preset(name PresetName) (StampConfig, bool) {
	f, ok := presets[name]
	if !ok {
		return StampConfig{}, false
	}
	return f(), true
}

// PresetNames returns the preset names sorted alphabetically.
func PresetNames() []PresetName {
	out := make([]PresetName, 0, len(presets))
	for n := range presets {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
