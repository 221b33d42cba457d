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

package inkpdf

import (
	"bytes"
	"fmt"
	"strconv"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/pdfink/coord"
	"seehuhn.de/go/pdfink/stroke"
)

// contentWriter emits PDF content stream operators.
type contentWriter struct {
	bytes.Buffer
}

func format(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func (w *contentWriter) op(args ...string) {
	for i, a := range args {
		if i > 0 {
			w.WriteByte(' ')
		}
		w.WriteString(a)
	}
	w.WriteByte('\n')
}

func (w *contentWriter) PushGraphicsState() { w.op("q") }
func (w *contentWriter) PopGraphicsState()  { w.op("Q") }

func (w *contentWriter) MoveTo(x, y float64) { w.op(format(x), format(y), "m") }
func (w *contentWriter) LineTo(x, y float64) { w.op(format(x), format(y), "l") }
func (w *contentWriter) Stroke()             { w.op("S") }

func (w *contentWriter) SetStrokeRGB(r, g, b float64) {
	w.op(format(r), format(g), format(b), "RG")
}

func (w *contentWriter) SetLineWidth(width float64) { w.op(format(width), "w") }

// SetRoundLines selects round line caps and round line joins.
func (w *contentWriter) SetRoundLines() { w.op("1 J 1 j") }

func (w *contentWriter) SetExtGState(name pdf.Name) {
	w.op("/"+string(name), "gs")
}

// strokeStyle holds the PDF drawing parameters of one group.
type strokeStyle struct {
	r, g, b float64
	width   float64
	alpha   float64
}

func styleOf(g *stroke.Group, box coord.Box) strokeStyle {
	r, gr, b := g.Color.RGB()
	return strokeStyle{
		r: r, g: gr, b: b,
		width: g.LineWidth * box.Width(),
		alpha: g.Alpha,
	}
}

// drawGroup writes the operators which paint one group, in PDF user space.
// M maps normalized coordinates to user space.  If the group is translucent,
// gsName must refer to an ExtGState with the group opacity.
//
// Opaque strokes are drawn as one straight segment per point, translucent
// strokes as a single subpath so that overlapping caps do not darken.
// A single point is drawn as a zero-length segment, which the round cap
// turns into a dot.
func (w *contentWriter) drawGroup(g *stroke.Group, M matrix.Matrix, style strokeStyle, gsName pdf.Name) {
	w.PushGraphicsState()
	if style.alpha < 1 {
		w.SetExtGState(gsName)
	}
	w.SetStrokeRGB(style.r, style.g, style.b)
	w.SetLineWidth(style.width)
	w.SetRoundLines()

	switch {
	case g.IsDot():
		p := g.Points[0]
		x, y := M.Apply(p.X, p.Y)
		w.MoveTo(x, y)
		w.LineTo(x, y)
		w.Stroke()
	case style.alpha < 1:
		for i, p := range g.Vertices() {
			x, y := M.Apply(p.X, p.Y)
			if i == 0 {
				w.MoveTo(x, y)
			} else {
				w.LineTo(x, y)
			}
		}
		w.Stroke()
	default:
		for _, p := range g.Points {
			if p.IsStart() {
				continue
			}
			w.MoveTo(M.Apply(p.LastX, p.LastY))
			w.LineTo(M.Apply(p.X, p.Y))
		}
		w.Stroke()
	}

	w.PopGraphicsState()
}

// opacityState returns an ExtGState dictionary which sets stroking and
// non-stroking opacity.
func opacityState(alpha float64) pdf.Dict {
	return pdf.Dict{
		"Type": pdf.Name("ExtGState"),
		"CA":   pdf.Number(alpha),
		"ca":   pdf.Number(alpha),
	}
}

func gsName(i int) pdf.Name {
	return pdf.Name(fmt.Sprintf("pdfinkGS%d", i))
}
