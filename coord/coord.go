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

// Package coord converts between the coordinate spaces used by the ink
// engine.
//
// Three spaces are involved:
//
//   - client space: pointer coordinates as reported by the input system,
//   - page-pixel space: pixels of the rendered page, independent of the
//     pinch-zoom factor,
//   - normalized space: fractions of the page width and height.
//
// Only normalized coordinates are ever stored.  Page-pixel coordinates are
// derived again from the current page size whenever something is drawn.
package coord

import (
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Transform describes the geometry of a page canvas at one moment in time.
type Transform struct {
	// DevicePixelRatio is the number of device pixels per client unit.
	DevicePixelRatio float64

	// OffsetX and OffsetY give the top-left corner of the canvas bounding
	// box, in client units.
	OffsetX, OffsetY float64

	// Zoom is the current pinch-zoom scale factor.
	Zoom float64

	// PageWidth and PageHeight give the size of the rendered page, in page
	// pixels.
	PageWidth, PageHeight float64
}

// ErrDegenerate is returned by [Transform.Check] if the transformation
// cannot be inverted.
var ErrDegenerate = errors.New("degenerate coordinate transform")

// Check verifies that all scale factors and page dimensions are positive.
func (t Transform) Check() error {
	switch {
	case !(t.DevicePixelRatio > 0):
		return fmt.Errorf("%w: device pixel ratio %g", ErrDegenerate, t.DevicePixelRatio)
	case !(t.Zoom > 0):
		return fmt.Errorf("%w: zoom %g", ErrDegenerate, t.Zoom)
	case !(t.PageWidth > 0 && t.PageHeight > 0):
		return fmt.Errorf("%w: page size %gx%g", ErrDegenerate, t.PageWidth, t.PageHeight)
	}
	return nil
}

// ClientToPage returns the matrix which maps client coordinates to page
// pixels: the position is scaled to device pixels, the canvas offset is
// removed, and the result is divided by the zoom factor.
func (t Transform) ClientToPage() matrix.Matrix {
	dpr := t.DevicePixelRatio
	return matrix.Scale(dpr, dpr).
		Mul(matrix.Translate(-t.OffsetX*dpr, -t.OffsetY*dpr)).
		Mul(matrix.Scale(1/t.Zoom, 1/t.Zoom))
}

// PageToNormalized returns the matrix which maps page pixels to fractions of
// the page size.
func (t Transform) PageToNormalized() matrix.Matrix {
	return matrix.Scale(1/t.PageWidth, 1/t.PageHeight)
}

// NormalizedToPage returns the matrix which maps fractions of the page size
// to page pixels, using the current page size.
func (t Transform) NormalizedToPage() matrix.Matrix {
	return matrix.Scale(t.PageWidth, t.PageHeight)
}

// Page converts a client position into page pixels.
func (t Transform) Page(clientX, clientY float64) vec.Vec2 {
	x, y := t.ClientToPage().Apply(clientX, clientY)
	return vec.Vec2{X: x, Y: y}
}

// Normalize converts a page-pixel position into normalized coordinates.
// The result is clamped to the page.
func (t Transform) Normalize(p vec.Vec2) vec.Vec2 {
	x, y := t.PageToNormalized().Apply(p.X, p.Y)
	return vec.Vec2{X: clamp01(x), Y: clamp01(y)}
}

// Denormalize converts normalized coordinates into page pixels.
func (t Transform) Denormalize(x, y float64) vec.Vec2 {
	px, py := t.NormalizedToPage().Apply(x, y)
	return vec.Vec2{X: px, Y: py}
}

// WidthToNormalized converts a width in page pixels into a fraction of the
// page width.
func (t Transform) WidthToNormalized(w float64) float64 {
	return w / t.PageWidth
}

// WidthToPage converts a width given as a fraction of the page width into
// page pixels.
func (t Transform) WidthToPage(w float64) float64 {
	return w * t.PageWidth
}

// WithPageSize returns a copy of t for a page of the given size.
func (t Transform) WithPageSize(width, height float64) Transform {
	t.PageWidth = width
	t.PageHeight = height
	return t
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Min(math.Max(x, 0), 1)
}
