/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package raster

import (
	"image"
	"math/rand"
)

// GrungeParams controls the worn-ink effect. Each visible pixel is erased with
// probability Erase; otherwise it loses Fade alpha with probability Thin.
type GrungeParams struct {
	Erase float64
	Thin  float64
	Fade  uint8
}

// DefaultGrunge erases about 5% of the ink and thins another 15% of the rest.
var DefaultGrunge = GrungeParams{Erase: 0.05, Thin: 0.15, Fade: 100}

// GrungeStats reports how many pixels Grunge touched.
type GrungeStats struct {
	Visited, Erased, Thinned int
}

// Grunge randomly erodes the visible pixels of img in place. Transparent
// pixels are skipped and alpha never increases. Because img is premultiplied,
// color channels are scaled down together with alpha.
func Grunge(img *image.RGBA, rng *rand.Rand, p GrungeParams) GrungeStats {
	var st GrungeStats
	if img == nil || rng == nil {
		return st
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(row); i += 4 {
			a := row[i+3]
			if a == 0 {
				continue
			}
			st.Visited++
			if rng.Float64() < p.Erase {
				row[i], row[i+1], row[i+2], row[i+3] = 0, 0, 0, 0
				st.Erased++
				continue
			}
			if rng.Float64() >= p.Thin {
				continue
			}
			na := uint8(0)
			if a > p.Fade {
				na = a - p.Fade
			}
			for k := 0; k < 3; k++ {
				row[i+k] = uint8(uint32(row[i+k]) * uint32(na) / uint32(a))
			}
			row[i+3] = na
			st.Thinned++
		}
	}
	return st
}
