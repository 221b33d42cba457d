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

package coord

import (
	"seehuhn.de/go/geom/matrix"
)

// Box is a page box in PDF default user space.
type Box struct {
	LLx, LLy, URx, URy float64
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 {
	return b.URx - b.LLx
}

// Height returns the vertical extent of the box.
func (b Box) Height() float64 {
	return b.URy - b.LLy
}

// ToPDF returns the matrix which maps normalized coordinates to PDF user
// space on a page with the given box.
//
// Normalized coordinates have their origin at the top-left corner of the
// page, PDF user space has its origin at the bottom left.  The matrix scales
// by the true page size and flips the y-axis.
func ToPDF(box Box) matrix.Matrix {
	return matrix.Scale(box.Width(), -box.Height()).
		Mul(matrix.Translate(box.LLx, box.URy))
}

// FromPDF returns the inverse of [ToPDF].
func FromPDF(box Box) matrix.Matrix {
	return matrix.Translate(-box.LLx, -box.URy).
		Mul(matrix.Scale(1/box.Width(), -1/box.Height()))
}
