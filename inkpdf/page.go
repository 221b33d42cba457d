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
	"errors"
	"fmt"
	"maps"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"seehuhn.de/go/pdfink"
	"seehuhn.de/go/pdfink/coord"
)

var errNoMediaBox = errors.New("page has no MediaBox")

// pageInfo is a page of the document.  Dict has the inheritable attributes
// filled in from the page tree.
type pageInfo struct {
	Ref  pdf.Reference
	Dict pdf.Dict
}

// pagesOf returns all pages of the document, in page tree order.
func pagesOf(r pdf.Getter) ([]pageInfo, error) {
	it := pagetree.NewIterator(r)
	var res []pageInfo
	for ref, dict := range it.All() {
		res = append(res, pageInfo{Ref: ref, Dict: dict})
	}
	if it.Err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, it.Err)
	}
	return res, nil
}

// mediaBox returns the page size in default user space.
func mediaBox(r pdf.Getter, page pdf.Dict) (coord.Box, error) {
	rect, err := pdf.GetRectangle(r, page["MediaBox"])
	if err != nil {
		return coord.Box{}, err
	}
	if rect == nil || rect.URx <= rect.LLx || rect.URy <= rect.LLy {
		return coord.Box{}, errNoMediaBox
	}
	return coord.Box{LLx: rect.LLx, LLy: rect.LLy, URx: rect.URx, URy: rect.URy}, nil
}

// resources returns a copy of the resource dictionary of the page, with
// the named sub-dictionary also copied so that the caller can add entries.
// The page must have its inherited attributes filled in.
func resources(r pdf.Getter, page pdf.Dict, sub pdf.Name) (pdf.Dict, pdf.Dict, error) {
	res, err := pdf.GetDict(r, page["Resources"])
	if err != nil {
		return nil, nil, err
	}
	res = maps.Clone(res)
	if res == nil {
		res = pdf.Dict{}
	}

	subDict, err := pdf.GetDict(r, res[sub])
	if err != nil {
		return nil, nil, err
	}
	subDict = maps.Clone(subDict)
	if subDict == nil {
		subDict = pdf.Dict{}
	}
	res[sub] = subDict
	return res, subDict, nil
}

// annotations returns the annotation array of a page.
func annotations(r pdf.Getter, page pdf.Dict) (pdf.Array, error) {
	return pdf.GetArray(r, page["Annots"])
}

// isOwnAnnotation reports whether an annotation was written by this package.
func isOwnAnnotation(r pdf.Getter, annot pdf.Dict) bool {
	subtype, _ := pdf.GetName(r, annot["Subtype"])
	if subtype != "Ink" {
		return false
	}
	_, ok := annotationOrder(r, annot)
	return ok
}

// annotationOrder reads the draw order from the NM entry.
func annotationOrder(r pdf.Getter, annot pdf.Dict) (pdfink.DrawOrder, bool) {
	nm, err := pdf.GetString(r, annot["NM"])
	if err != nil || nm == nil {
		return 0, false
	}
	return parseAnnotationName(string(nm.AsTextString()))
}

// PageBoxes returns the MediaBox of every page, in page tree order.
// Pages without a usable MediaBox get a US letter sized box.
func PageBoxes(doc *Document) ([]coord.Box, error) {
	all, err := pagesOf(doc)
	if err != nil {
		return nil, err
	}
	res := make([]coord.Box, len(all))
	for i, p := range all {
		res[i] = letterBox
		if box, err := mediaBox(doc, p.Dict); err == nil {
			res[i] = box
		}
	}
	return res, nil
}

var letterBox = coord.Box{URx: 612, URy: 792}
