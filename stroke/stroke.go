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

// Package stroke reconstructs strokes from the flat point stream of a page.
//
// Every renderer and the PDF writer use [Groups], so that strokes look the
// same on screen, in thumbnails and in exported files.
package stroke

import (
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdfink"
)

// Group is a maximal run of adjacent points, drawn as one stroke.
// The style fields are taken from the first point of the run.
type Group struct {
	Points []pdfink.Point

	Color     pdfink.Color
	LineWidth float64
	Alpha     float64
	DrawOrder pdfink.DrawOrder
}

// IsDot reports whether the group consists of a single tap.
func (g *Group) IsDot() bool {
	return len(g.Points) == 1
}

// IsHighlight reports whether the group was drawn with the highlighter.
func (g *Group) IsHighlight() bool {
	return g.Alpha < 1
}

// Groups splits a point stream into strokes.  A point continues the
// current group if its predecessor position equals the position of the
// previous point and both carry the same draw order.  The returned groups
// share memory with points.
func Groups(points []pdfink.Point) []*Group {
	var res []*Group
	start := 0
	for i := 1; i <= len(points); i++ {
		if i < len(points) && points[i].Continues(points[i-1]) {
			continue
		}
		first := points[start]
		res = append(res, &Group{
			Points:    points[start:i:i],
			Color:     first.Color,
			LineWidth: first.LineWidth,
			Alpha:     first.Alpha,
			DrawOrder: first.DrawOrder,
		})
		start = i
	}
	return res
}

// Vertices returns the positions along the stroke, in normalized
// coordinates.  The first entry is the start of the stroke.  Each point
// contributes its own position, and the first point also contributes its
// predecessor position if it differs.
func (g *Group) Vertices() []pdfink.Point {
	if len(g.Points) == 0 {
		return nil
	}
	first := g.Points[0]
	res := make([]pdfink.Point, 0, len(g.Points)+1)
	if !first.IsStart() {
		res = append(res, pdfink.Point{X: first.LastX, Y: first.LastY})
	}
	for _, p := range g.Points {
		res = append(res, pdfink.Point{X: p.X, Y: p.Y})
	}
	return res
}

// BBox returns the bounding box of the stroke centre line, in normalized
// coordinates.
func (g *Group) BBox() rect.Rect {
	var res rect.Rect
	for i, p := range g.Vertices() {
		if i == 0 {
			res = rect.Rect{LLx: p.X, LLy: p.Y, URx: p.X, URy: p.Y}
			continue
		}
		res.LLx = min(res.LLx, p.X)
		res.LLy = min(res.LLy, p.Y)
		res.URx = max(res.URx, p.X)
		res.URy = max(res.URy, p.Y)
	}
	return res
}
