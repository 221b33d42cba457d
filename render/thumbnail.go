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

package render

import (
	"math"

	"seehuhn.de/go/pdfink"
)

// Thumbnail draws the ink of a page into a new canvas.  The canvas has the
// aspect ratio pageWidth:pageHeight, and its longer side is maxSide pixels.
// The caller must close the returned canvas.
func Thumbnail(points []pdfink.Point, pageWidth, pageHeight float64, maxSide int) *Canvas {
	w, h := thumbSize(pageWidth, pageHeight, maxSide)
	c := NewCanvas(w, h)
	c.Redraw(points)
	return c
}

func thumbSize(pageWidth, pageHeight float64, maxSide int) (int, int) {
	if !(pageWidth > 0 && pageHeight > 0) || maxSide < 1 {
		return 1, 1
	}
	scale := float64(maxSide) / math.Max(pageWidth, pageHeight)
	w := int(math.Round(pageWidth * scale))
	h := int(math.Round(pageHeight * scale))
	return max(w, 1), max(h, 1)
}
