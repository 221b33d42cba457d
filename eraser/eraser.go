// seehuhn.de/go/pdfink - freehand ink annotations for PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package eraser removes whole strokes touched by an eraser gesture.
//
// The eraser works on the finished gesture: while the user drags the eraser,
// the sampled positions are collected as [Segment] values, and when the
// gesture ends, every stroke which comes close to any of them is removed
// from the store in its entirety.
package eraser

import (
	"math"
	"slices"

	"golang.org/x/exp/maps"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pdfink"
	"seehuhn.de/go/pdfink/coord"
	"seehuhn.de/go/pdfink/store"
)

// Segment is one step of an eraser gesture, in page pixels.  For the first
// sample of a gesture, LastX == X and LastY == Y.
type Segment struct {
	X, Y, LastX, LastY float64
}

func (s Segment) ends() (vec.Vec2, vec.Vec2) {
	return vec.Vec2{X: s.LastX, Y: s.LastY}, vec.Vec2{X: s.X, Y: s.Y}
}

// Hits returns the draw orders of all strokes which come within radius page
// pixels of the eraser path.
//
// Every stored point p is treated as the segment from its predecessor
// position to its own position, mapped to page pixels with t.  A stroke is
// hit if the distance between any such segment and any eraser segment is at
// most radius.  Distances are computed exactly, so that neither long nor
// short segments depend on a sampling step.
func Hits(points []pdfink.Point, eraser []Segment, radius float64, t coord.Transform) map[pdfink.DrawOrder]bool {
	res := make(map[pdfink.DrawOrder]bool)
	if len(eraser) == 0 {
		return res
	}

	for _, p := range points {
		if res[p.DrawOrder] {
			continue
		}
		a := t.Denormalize(p.LastX, p.LastY)
		b := t.Denormalize(p.X, p.Y)
		for _, e := range eraser {
			c, d := e.ends()
			if segmentDistance(a, b, c, d) <= radius {
				res[p.DrawOrder] = true
				break
			}
		}
	}
	return res
}

// Erase removes all strokes on the page which are hit by the eraser path.
// The draw orders of the removed strokes are returned in increasing order.
// The caller must redraw the page afterwards.
func Erase(s *store.Store, page int, eraser []Segment, radius float64, t coord.Transform) []pdfink.DrawOrder {
	hits := Hits(s.Points(page), eraser, radius, t)
	if len(hits) == 0 {
		return nil
	}
	n := s.Remove(page, hits)

	orders := maps.Keys(hits)
	slices.Sort(orders)
	pdfink.Logger().Debug("erased strokes",
		"page", page, "strokes", len(orders), "points", n)
	return orders
}

// pointDistance returns the distance between p and the segment from a to b.
func pointDistance(p, a, b vec.Vec2) float64 {
	ab := b.Sub(a)
	ap := p.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return ap.Length()
	}
	s := (ap.X*ab.X + ap.Y*ab.Y) / l2
	s = math.Max(0, math.Min(1, s))
	q := vec.Vec2{X: a.X + s*ab.X, Y: a.Y + s*ab.Y}
	return p.Sub(q).Length()
}

// segmentDistance returns the distance between the segments a-b and c-d.
func segmentDistance(a, b, c, d vec.Vec2) float64 {
	if segmentsCross(a, b, c, d) {
		return 0
	}
	return min(
		pointDistance(a, c, d),
		pointDistance(b, c, d),
		pointDistance(c, a, b),
		pointDistance(d, a, b),
	)
}

// segmentsCross reports whether the segments a-b and c-d intersect in a
// single interior point.  Touching and collinear cases are covered by the
// endpoint distances in segmentDistance.
func segmentsCross(a, b, c, d vec.Vec2) bool {
	d1 := cross(c, d, a)
	d2 := cross(c, d, b)
	d3 := cross(a, b, c)
	d4 := cross(a, b, d)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// cross returns the z-component of (q-o) × (p-o).
func cross(o, q, p vec.Vec2) float64 {
	return (q.X-o.X)*(p.Y-o.Y) - (q.Y-o.Y)*(p.X-o.X)
}
