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

package pdfink

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// DrawOrder identifies a stroke.  All points of a stroke share the same
// DrawOrder.  Values are assigned in increasing order and are never reused,
// so the DrawOrder also gives the paint order of the strokes on a page.
type DrawOrder uint64

// UnmarshalJSON accepts both JSON numbers and decimal strings.
// Older hosts send the draw order as a string.
func (d *DrawOrder) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid draw order %q", s)
		}
		*d = DrawOrder(v)
		return nil
	}

	var v uint64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid draw order %s", data)
	}
	*d = DrawOrder(v)
	return nil
}

// Opacity values used for the two drawing tools.
const (
	PenAlpha       = 1.0
	HighlightAlpha = 0.4
)

// Point is a single sample of a drawing gesture.
//
// X and Y give the position as a fraction of the page width and height,
// LastX and LastY give the position of the preceding sample of the same
// gesture.  For the first sample of a gesture, LastX == X and LastY == Y.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	LastX float64 `json:"lastX"`
	LastY float64 `json:"lastY"`

	// LineWidth is the stroke width, as a fraction of the page width.
	LineWidth float64 `json:"lineWidth"`

	Color Color   `json:"color"`
	Alpha float64 `json:"alpha"`

	DrawOrder DrawOrder `json:"drawOrder"`
}

// IsStart reports whether p is the first sample of a gesture.
func (p Point) IsStart() bool {
	return p.X == p.LastX && p.Y == p.LastY
}

// Continues reports whether p extends the stroke which ends in prev.
func (p Point) Continues(prev Point) bool {
	return p.LastX == prev.X && p.LastY == prev.Y && p.DrawOrder == prev.DrawOrder
}

// IsHighlight reports whether p was drawn with the semi-transparent
// highlighter.
func (p Point) IsHighlight() bool {
	return p.Alpha < 1
}

// ErrInvalidPoint is returned by [Point.Check] for points which violate the
// invariants of the point model.
var ErrInvalidPoint = errors.New("invalid point")

// Check verifies that all coordinates are in the range [0, 1], that the line
// width is positive, and that the opacity is one of the tool values.
func (p Point) Check() error {
	for _, v := range []float64{p.X, p.Y, p.LastX, p.LastY} {
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("%w: coordinate %g outside [0,1]", ErrInvalidPoint, v)
		}
	}
	if !(p.LineWidth > 0) {
		return fmt.Errorf("%w: line width %g", ErrInvalidPoint, p.LineWidth)
	}
	if p.Alpha != PenAlpha && p.Alpha != HighlightAlpha {
		return fmt.Errorf("%w: alpha %g", ErrInvalidPoint, p.Alpha)
	}
	if !p.Color.IsValid() {
		return fmt.Errorf("%w: color %d", ErrInvalidPoint, p.Color)
	}
	return nil
}
