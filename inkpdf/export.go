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
	"fmt"
	"io"
	"time"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/pdfink"
	"seehuhn.de/go/pdfink/coord"
	"seehuhn.de/go/pdfink/stroke"
)

// Export reads the PDF file src, adds the strokes of all pages, and writes
// the result to w.  Page numbers in pages start at 1.
//
// The pages map is only read.  Callers which own a live store should pass a
// snapshot.
func Export(w io.Writer, src io.ReadSeeker, pages pdfink.Pages, opt *Options) error {
	doc, err := Read(src, opt)
	if err != nil {
		return err
	}
	err = Apply(doc, pages, opt)
	if err != nil {
		return err
	}
	return doc.Write(w)
}

// Apply adds the strokes to an in-memory PDF document.
// Annotations from an earlier export are removed first.
func Apply(doc *Document, pages pdfink.Pages, opt *Options) error {
	all, err := pagesOf(doc)
	if err != nil {
		return err
	}
	log := pdfink.Logger()
	for _, pageNo := range pages.PageNumbers() {
		if pageNo > len(all) && len(pages[pageNo]) > 0 {
			log.Warn("strokes for missing page dropped", "page", pageNo, "pages", len(all))
		}
	}

	now := opt.now()
	flatten := opt != nil && opt.Flatten
	strokes := 0
	for i, p := range all {
		pageNo := i + 1
		groups := stroke.Groups(pages[pageNo])
		err := exportPage(doc, p, groups, flatten, now)
		if err != nil {
			return fmt.Errorf("page %d: %w", pageNo, err)
		}
		strokes += len(groups)
	}

	err = writeMetadata(doc, now, opt.producer())
	if err != nil {
		return err
	}

	log.Info("strokes exported", "pages", len(all), "strokes", strokes, "flatten", flatten)
	return nil
}

// exportPage replaces the strokes of one page.  The page dictionary is
// read again without the inherited attributes, so that only the entries
// present in the file are written back.
func exportPage(doc *Document, p pageInfo, groups []*stroke.Group, flatten bool, now time.Time) error {
	annots, err := annotations(doc, p.Dict)
	if err != nil {
		return err
	}
	if len(groups) == 0 && !hasOwnAnnotations(doc, annots) {
		return nil
	}

	page, err := pdf.GetDict(doc, p.Ref)
	if err != nil {
		return err
	}
	kept := removeOwnAnnotations(doc, annots)

	if len(groups) > 0 {
		box, err := mediaBox(doc, p.Dict)
		if err != nil {
			return err
		}
		if flatten {
			err = flattenPage(doc, page, p.Dict, groups, box)
			if err != nil {
				return err
			}
		} else {
			for _, g := range groups {
				annotRef, err := writeAnnotation(doc, p.Ref, g, box, now)
				if err != nil {
					return err
				}
				kept = append(kept, annotRef)
			}
		}
	}

	if len(kept) > 0 {
		page["Annots"] = kept
	} else {
		delete(page, "Annots")
	}
	doc.Put(p.Ref, page)
	return nil
}

func hasOwnAnnotations(doc *Document, annots pdf.Array) bool {
	for _, a := range annots {
		dict, err := pdf.GetDict(doc, a)
		if err == nil && dict != nil && isOwnAnnotation(doc, dict) {
			return true
		}
	}
	return false
}

// removeOwnAnnotations deletes the annotations written by an earlier export,
// together with their appearance streams.  The remaining entries are
// returned.
func removeOwnAnnotations(doc *Document, annots pdf.Array) pdf.Array {
	var kept pdf.Array
	for _, a := range annots {
		dict, err := pdf.GetDict(doc, a)
		if err != nil || dict == nil || !isOwnAnnotation(doc, dict) {
			kept = append(kept, a)
			continue
		}
		if ap, _ := pdf.GetDict(doc, dict["AP"]); ap != nil {
			if n, ok := ap["N"].(pdf.Reference); ok {
				doc.Put(n, nil)
			}
		}
		if aRef, ok := a.(pdf.Reference); ok {
			doc.Put(aRef, nil)
		}
	}
	return kept
}

// writeAnnotation adds an ink annotation with appearance stream for one
// group.
func writeAnnotation(doc *Document, pageRef pdf.Reference, g *stroke.Group, box coord.Box, now time.Time) (pdf.Reference, error) {
	M := coord.ToPDF(box)
	style := styleOf(g, box)

	verts := g.Vertices()
	inkPath := make(pdf.Array, 0, 2*len(verts))
	var bbox rect.Rect
	for i, v := range verts {
		x, y := M.Apply(v.X, v.Y)
		inkPath = append(inkPath, pdf.Number(x), pdf.Number(y))
		if i == 0 {
			bbox = rect.Rect{LLx: x, LLy: y, URx: x, URy: y}
		} else {
			bbox.LLx = min(bbox.LLx, x)
			bbox.LLy = min(bbox.LLy, y)
			bbox.URx = max(bbox.URx, x)
			bbox.URy = max(bbox.URy, y)
		}
	}
	pad := style.width/2 + 1
	rectArray := pdf.Array{
		pdf.Number(bbox.LLx - pad), pdf.Number(bbox.LLy - pad),
		pdf.Number(bbox.URx + pad), pdf.Number(bbox.URy + pad),
	}

	cw := &contentWriter{}
	gs := gsName(0)
	res := pdf.Dict{}
	if style.alpha < 1 {
		res["ExtGState"] = pdf.Dict{gs: opacityState(style.alpha)}
	}
	cw.drawGroup(g, M, style, gs)

	apRef := doc.Alloc()
	apDict := pdf.Dict{
		"Type":      pdf.Name("XObject"),
		"Subtype":   pdf.Name("Form"),
		"BBox":      rectArray,
		"Resources": res,
	}
	err := doc.PutStream(apRef, apDict, cw.Bytes(), pdf.FilterFlate{})
	if err != nil {
		return 0, err
	}

	annot := pdf.Dict{
		"Type":    pdf.Name("Annot"),
		"Subtype": pdf.Name("Ink"),
		"Rect":    rectArray,
		"InkList": pdf.Array{inkPath},
		"C":       pdf.Array{pdf.Number(style.r), pdf.Number(style.g), pdf.Number(style.b)},
		"CA":      pdf.Number(style.alpha),
		"BS": pdf.Dict{
			"Type": pdf.Name("Border"),
			"W":    pdf.Number(style.width),
			"S":    pdf.Name("S"),
		},
		"NM": pdf.TextString(annotationName(g.DrawOrder)),
		"F":  pdf.Integer(4), // print
		"M":  pdf.Date(now),
		"P":  pageRef,
		"AP": pdf.Dict{"N": apRef},
	}
	ref := doc.Alloc()
	doc.Put(ref, annot)
	return ref, nil
}

// flattenPage appends the strokes to the page content stream.  The existing
// content is wrapped in q/Q, so that its graphics state does not leak into
// the strokes.  Resources are looked up in full, which has the inherited
// attributes filled in, and the result is stored in page.
func flattenPage(doc *Document, page, full pdf.Dict, groups []*stroke.Group, box coord.Box) error {
	res, extGState, err := resources(doc, full, "ExtGState")
	if err != nil {
		return err
	}

	M := coord.ToPDF(box)
	cw := &contentWriter{}
	cw.PopGraphicsState()
	names := map[float64]pdf.Name{}
	for _, g := range groups {
		style := styleOf(g, box)
		var gs pdf.Name
		if style.alpha < 1 {
			var ok bool
			gs, ok = names[style.alpha]
			if !ok {
				gs = gsName(len(names))
				for extGState[gs] != nil {
					gs += "x"
				}
				names[style.alpha] = gs
				extGState[gs] = opacityState(style.alpha)
			}
		}
		cw.drawGroup(g, M, style, gs)
	}
	if len(extGState) == 0 {
		delete(res, "ExtGState")
	}

	var parts pdf.Array
	contents, err := pdf.Resolve(doc, page["Contents"])
	if err != nil {
		return err
	}
	switch c := contents.(type) {
	case pdf.Array:
		parts = append(parts, c...)
	case *pdf.Stream:
		parts = append(parts, page["Contents"])
	}

	open, err := writeStream(doc, []byte("q\n"))
	if err != nil {
		return err
	}
	ink, err := writeStream(doc, cw.Bytes())
	if err != nil {
		return err
	}

	page["Contents"] = append(append(pdf.Array{open}, parts...), ink)
	page["Resources"] = res
	return nil
}

func writeStream(doc *Document, body []byte) (pdf.Reference, error) {
	ref := doc.Alloc()
	err := doc.PutStream(ref, nil, body, pdf.FilterFlate{})
	if err != nil {
		return 0, err
	}
	return ref, nil
}
