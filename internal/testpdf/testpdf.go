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

// Package testpdf builds small PDF files for tests.
package testpdf

import (
	"bytes"
	"io"

	"seehuhn.de/go/pdf"
)

// Page describes one page of a test document.
type Page struct {
	Width, Height float64

	// Content is the page content stream.
	Content string

	// Annots are added as indirect annotation objects.
	Annots []pdf.Dict
}

// Letter is a US letter sized page.
var Letter = Page{Width: 612, Height: 792}

// Write writes a PDF file with the given pages to w.
//
// The MediaBox of the first page is stored on the root of the page tree,
// and inherited by all pages of the same size.  Pages of a different size
// carry their own MediaBox.
func Write(w io.Writer, pages ...Page) error {
	doc, err := pdf.NewWriter(w, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	pagesRef := doc.Alloc()
	var rootBox pdf.Array
	if len(pages) > 0 {
		rootBox = box(pages[0])
	}

	var kids pdf.Array
	for _, p := range pages {
		ref := doc.Alloc()

		contentRef := doc.Alloc()
		stm, err := doc.OpenStream(contentRef, nil)
		if err != nil {
			return err
		}
		if _, err := stm.Write([]byte(p.Content)); err != nil {
			return err
		}
		if err := stm.Close(); err != nil {
			return err
		}

		dict := pdf.Dict{
			"Type":      pdf.Name("Page"),
			"Parent":    pagesRef,
			"Contents":  contentRef,
			"Resources": pdf.Dict{},
		}
		if p.Width != pages[0].Width || p.Height != pages[0].Height {
			dict["MediaBox"] = box(p)
		}

		var annots pdf.Array
		for _, a := range p.Annots {
			aRef := doc.Alloc()
			if err := doc.Put(aRef, a); err != nil {
				return err
			}
			annots = append(annots, aRef)
		}
		if annots != nil {
			dict["Annots"] = annots
		}

		if err := doc.Put(ref, dict); err != nil {
			return err
		}
		kids = append(kids, ref)
	}

	err = doc.Put(pagesRef, pdf.Dict{
		"Type":     pdf.Name("Pages"),
		"Kids":     kids,
		"Count":    pdf.Integer(len(pages)),
		"MediaBox": rootBox,
	})
	if err != nil {
		return err
	}
	doc.GetMeta().Catalog = &pdf.Catalog{Pages: pagesRef}

	return doc.Close()
}

// Bytes returns a PDF file with the given pages.  It panics on error.
func Bytes(pages ...Page) []byte {
	buf := &bytes.Buffer{}
	if err := Write(buf, pages...); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func box(p Page) pdf.Array {
	return pdf.Array{
		pdf.Integer(0), pdf.Integer(0),
		pdf.Number(p.Width), pdf.Number(p.Height),
	}
}
