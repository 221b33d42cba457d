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
	"context"
	"io"

	"seehuhn.de/go/pdf"

	"seehuhn.de/go/pdfink"
	"seehuhn.de/go/pdfink/coord"
)

// alphaThreshold separates pen strokes from highlighter strokes when
// reading an opacity from a file.
const alphaThreshold = (pdfink.PenAlpha + pdfink.HighlightAlpha) / 2

// Import reads all ink annotations from a PDF file.
//
// Strokes written by [Export] keep their draw order.  Ink annotations from
// other sources are given fresh draw orders above the largest one found.
// The context is checked between pages.
func Import(ctx context.Context, src io.ReadSeeker, opt *Options) (pdfink.Pages, error) {
	doc, err := Read(src, opt)
	if err != nil {
		return nil, err
	}
	return Extract(ctx, doc)
}

// inkStroke is one path read from an ink annotation.
type inkStroke struct {
	page   int
	order  pdfink.DrawOrder
	known  bool
	points []pdfink.Point
}

// Extract reads all ink annotations from an in-memory PDF document.
func Extract(ctx context.Context, doc *Document) (pdfink.Pages, error) {
	all, err := pagesOf(doc)
	if err != nil {
		return nil, err
	}

	log := pdfink.Logger()
	var strokes []*inkStroke
	for i, p := range all {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pageNo := i + 1
		page := p.Dict

		annots, err := annotations(doc, page)
		if err != nil {
			log.Warn("unreadable annotations", "page", pageNo, "err", err)
			continue
		}
		if len(annots) == 0 {
			continue
		}
		box, err := mediaBox(doc, page)
		if err != nil {
			log.Warn("unreadable page size", "page", pageNo, "err", err)
			continue
		}

		for _, a := range annots {
			annot, err := pdf.GetDict(doc, a)
			if err != nil || annot == nil {
				continue
			}
			if subtype, _ := pdf.GetName(doc, annot["Subtype"]); subtype != "Ink" {
				continue
			}
			strokes = append(strokes, readInk(doc, annot, pageNo, box)...)
		}
	}

	assignOrders(strokes)

	res := pdfink.Pages{}
	for _, s := range strokes {
		for j := range s.points {
			s.points[j].DrawOrder = s.order
		}
		res[s.page] = append(res[s.page], s.points...)
	}

	log.Info("strokes imported", "pages", len(all), "strokes", len(strokes))
	return res, nil
}

// assignOrders keeps the draw orders read from annotation names, as long
// as they are unique, and numbers all other strokes consecutively after the
// largest kept value.
func assignOrders(strokes []*inkStroke) {
	seen := make(map[pdfink.DrawOrder]bool)
	var next pdfink.DrawOrder
	for _, s := range strokes {
		if !s.known {
			continue
		}
		if seen[s.order] {
			s.known = false
			continue
		}
		seen[s.order] = true
		next = max(next, s.order+1)
	}
	for _, s := range strokes {
		if !s.known {
			s.order = next
			next++
		}
	}
}

// readInk converts the paths of an ink annotation into point streams.
// Only the first path keeps the draw order from the annotation name.
func readInk(r pdf.Getter, annot pdf.Dict, pageNo int, box coord.Box) []*inkStroke {
	inkList, err := pdf.GetArray(r, annot["InkList"])
	if err != nil || len(inkList) == 0 {
		return nil
	}

	style := pdfink.Point{
		LineWidth: readWidth(r, annot) / box.Width(),
		Color:     readColor(r, annot["C"]),
		Alpha:     readAlpha(r, annot["CA"]),
	}
	order, known := annotationOrder(r, annot)
	M := coord.FromPDF(box)

	var res []*inkStroke
	for _, path := range inkList {
		coords, err := pdf.GetArray(r, path)
		if err != nil || len(coords) < 2 {
			continue
		}
		var points []pdfink.Point
		for k := 0; k+1 < len(coords); k += 2 {
			x, err1 := pdf.GetNumber(r, coords[k])
			y, err2 := pdf.GetNumber(r, coords[k+1])
			if err1 != nil || err2 != nil {
				continue
			}
			nx, ny := M.Apply(float64(x), float64(y))
			p := style
			p.X, p.Y = clamp01(nx), clamp01(ny)
			if len(points) == 0 {
				p.LastX, p.LastY = p.X, p.Y
			} else {
				prev := points[len(points)-1]
				p.LastX, p.LastY = prev.X, prev.Y
			}
			points = append(points, p)
		}
		if len(points) == 0 {
			continue
		}
		res = append(res, &inkStroke{
			page:   pageNo,
			order:  order,
			known:  known && len(res) == 0,
			points: points,
		})
	}
	return res
}

// readWidth returns the line width of an annotation, in PDF units.
// The BS entry takes precedence over Border.  The default is 1.
func readWidth(r pdf.Getter, annot pdf.Dict) float64 {
	if bs, err := pdf.GetDict(r, annot["BS"]); err == nil && bs != nil {
		if w, err := pdf.GetNumber(r, bs["W"]); err == nil && w > 0 {
			return float64(w)
		}
	}
	if border, err := pdf.GetArray(r, annot["Border"]); err == nil && len(border) >= 3 {
		if w, err := pdf.GetNumber(r, border[2]); err == nil && w > 0 {
			return float64(w)
		}
	}
	return 1
}

// readColor maps the C entry of an annotation to the nearest palette color.
func readColor(r pdf.Getter, obj pdf.Object) pdfink.Color {
	a, err := pdf.GetArray(r, obj)
	if err != nil {
		return pdfink.Black
	}
	v := make([]float64, 0, len(a))
	for _, x := range a {
		f, err := pdf.GetNumber(r, x)
		if err != nil {
			return pdfink.Black
		}
		v = append(v, float64(f))
	}
	switch len(v) {
	case 1:
		return pdfink.NearestColor(v[0], v[0], v[0])
	case 3:
		return pdfink.NearestColor(v[0], v[1], v[2])
	case 4:
		k := 1 - v[3]
		return pdfink.NearestColor((1-v[0])*k, (1-v[1])*k, (1-v[2])*k)
	default:
		return pdfink.Black
	}
}

// readAlpha snaps the CA entry of an annotation to one of the tool
// opacities.
func readAlpha(r pdf.Getter, obj pdf.Object) float64 {
	ca, err := pdf.GetNumber(r, obj)
	if err != nil || obj == nil || float64(ca) >= alphaThreshold {
		return pdfink.PenAlpha
	}
	return pdfink.HighlightAlpha
}

func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
