/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package raster

import (
	"inkstamp/internal/domain"
	"inkstamp/internal/layout"
	"inkstamp/internal/vector"
)

// DrawFrame strokes the outer border with borderWidth and the inner ring or
// rectangle with the fixed inner width. The pen is left at width 1 so text
// drawn afterwards is unaffected by the border.
func DrawFrame(c *Canvas, l layout.Layout, borderWidth float64) {
	var outer, inner vector.Path
	if l.Shape == domain.Rectangle {
		outer.Rect(l.Outer)
		inner.Rect(l.Inner)
	} else {
		outer.Circle(l.Center, l.OuterRadius)
		inner.Circle(l.Center, l.InnerRadius)
	}
	c.SetLineWidth(borderWidth * l.Scale)
	c.StrokePath(&outer)
	c.SetLineWidth(layout.InnerLineWidth * l.Scale)
	c.StrokePath(&inner)
	c.SetLineWidth(layout.TextLineWidth)
}
