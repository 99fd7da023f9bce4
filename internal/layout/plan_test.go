/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package layout

import (
	"testing"

	"inkstamp/internal/domain"
	"inkstamp/internal/vector"
)

func TestPlanCircleReference(t *testing.T) {
	l := Plan(domain.Circle, 400)
	if l.Center != (vector.Pt{X: 200, Y: 200}) {
		t.Fatalf("center = %+v", l.Center)
	}
	if l.OuterRadius != 180 || l.InnerRadius != 170 || l.ArcRadius != 145 {
		t.Fatalf("radii = %v/%v/%v", l.OuterRadius, l.InnerRadius, l.ArcRadius)
	}
	if l.ArtSize != 100 {
		t.Fatalf("art size = %d", l.ArtSize)
	}
	x0, y0, x1, y1 := l.ArtRect()
	if x0 != 150 || y0 != 150 || x1 != 250 || y1 != 250 {
		t.Fatalf("art rect = %d,%d,%d,%d", x0, y0, x1, y1)
	}
}

func TestPlanRectangleReference(t *testing.T) {
	l := Plan(domain.Rectangle, 400)
	if l.Outer != vector.R(20, 100, 360, 200) {
		t.Fatalf("outer = %+v", l.Outer)
	}
	if l.Inner != vector.R(30, 110, 340, 180) {
		t.Fatalf("inner = %+v", l.Inner)
	}
	if l.Outer.Center() != l.Center {
		t.Fatalf("outer rect not centered: %+v", l.Outer.Center())
	}
	if l.TopBaseline != 145 || l.BottomBaseline != 255 {
		t.Fatalf("baselines = %v/%v", l.TopBaseline, l.BottomBaseline)
	}
	if l.ArtSize != 80 {
		t.Fatalf("art size = %d", l.ArtSize)
	}
}

func TestPlanScalesWithCanvas(t *testing.T) {
	l := Plan(domain.Circle, 800)
	if l.OuterRadius != 360 || l.ArcRadius != 290 || l.ArtSize != 200 {
		t.Fatalf("scaled circle = %+v", l)
	}
	if d := Plan(domain.Circle, 0); d.Size != ReferenceSize {
		t.Fatalf("non-positive size should fall back, got %d", d.Size)
	}
}
