/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
)

func TestRectContainsAndInset(t *testing.T) {
	r := CenteredRect(Pt{200, 200}, 360, 200)
	if r.X != 20 || r.Y != 100 || r.W != 360 || r.H != 200 {
		t.Fatalf("unexpected centered rect: %+v", r)
	}
	if !r.Contains(Pt{20, 100}) || !r.Contains(Pt{380, 300}) {
		t.Fatalf("expected edge points to be contained")
	}
	in := r.Inset(10)
	if in.X != 30 || in.Y != 110 || in.W != 340 || in.H != 180 {
		t.Fatalf("unexpected inset: %+v", in)
	}
	if c := in.Center(); c != (Pt{200, 200}) {
		t.Fatalf("inset changed center: %+v", c)
	}
}

func TestAffineBasic(t *testing.T) {
	m := Translate(10, 5).Mul(Scale(2, 3))
	p := m.Apply(Pt{1, 1})
	if p.X != 12 || p.Y != 8 {
		t.Fatalf("unexpected transform result: %+v", p)
	}
	// Quarter turn clockwise on screen maps +x to +y.
	q := RotateAbout(Pt{10, 10}, math.Pi/2).Apply(Pt{20, 10})
	if !q.Eq(Pt{10, 20}, 1e-9) {
		t.Fatalf("RotateAbout = %+v", q)
	}
}

func TestPolar(t *testing.T) {
	c := Pt{200, 200}
	if p := Polar(c, 145, -math.Pi/2); !p.Eq(Pt{200, 55}, 1e-9) {
		t.Fatalf("top of circle = %+v", p)
	}
	if d := Polar(c, 145, 1.234).Dist(c); math.Abs(d-145) > 1e-9 {
		t.Fatalf("distance = %v", d)
	}
}

func TestPathCircleAndRectBounds(t *testing.T) {
	var p Path
	p.Circle(Pt{200, 200}, 180)
	b := p.Bounds()
	if math.Abs(b.X-20) > 1e-9 || math.Abs(b.W-360) > 1e-9 || math.Abs(b.H-360) > 1e-9 {
		t.Fatalf("circle bounds: %+v", b)
	}
	if p.Cmds[0].Op != MoveTo || p.Cmds[len(p.Cmds)-1].Op != Close {
		t.Fatalf("circle must be a closed subpath")
	}

	var q Path
	q.Rect(R(30, 110, 340, 180))
	if got := q.Bounds(); got != R(30, 110, 340, 180) {
		t.Fatalf("rect bounds: %+v", got)
	}
	var empty Path
	if got := empty.Bounds(); got != (Rect{}) {
		t.Fatalf("empty bounds: %+v", got)
	}
}
