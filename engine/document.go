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

package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"seehuhn.de/go/pdfink"
	"seehuhn.de/go/pdfink/coord"
	"seehuhn.de/go/pdfink/inkpdf"
	"seehuhn.de/go/pdfink/pdfimage"
)

// ErrNoDocument is returned by operations which need a loaded document.
var ErrNoDocument = errors.New("no document loaded")

// Document is a PDF file together with the strokes read from it.
// Documents are created by [Open] and are not modified afterwards, so they
// can be built on any goroutine and handed to the engine.
type Document struct {
	data     []byte
	password string
	boxes    []coord.Box
	pages    pdfink.Pages
}

// Open reads a PDF file.  If paths is non-empty, it holds the JSON form of a
// path map which is used instead of the ink annotations found in the file.
// The context is checked while annotations are read.
func Open(ctx context.Context, data, paths []byte, password string) (*Document, error) {
	opt := &inkpdf.Options{Password: password}
	doc, err := inkpdf.Read(bytes.NewReader(data), opt)
	if err != nil {
		return nil, err
	}
	boxes, err := inkpdf.PageBoxes(doc)
	if err != nil {
		return nil, err
	}

	var pages pdfink.Pages
	if len(paths) > 0 {
		pages, err = pdfink.DecodePages(paths)
		if err != nil {
			return nil, fmt.Errorf("path map: %w", err)
		}
	} else {
		pages, err = inkpdf.Extract(ctx, doc)
		if err != nil {
			return nil, err
		}
	}

	return &Document{
		data:     data,
		password: password,
		boxes:    boxes,
		pages:    pages,
	}, nil
}

// OpenImage converts an image into a single-page PDF file and opens it.
func OpenImage(ctx context.Context, img []byte) (*Document, error) {
	buf := &bytes.Buffer{}
	err := pdfimage.Convert(buf, img, nil)
	if err != nil {
		return nil, err
	}
	return Open(ctx, buf.Bytes(), nil, "")
}

// NumPages returns the number of pages of the document.
func (d *Document) NumPages() int {
	return len(d.boxes)
}

// PageBox returns the MediaBox of a page.  Pages are numbered from 1.
func (d *Document) PageBox(page int) (coord.Box, bool) {
	if page < 1 || page > len(d.boxes) {
		return coord.Box{}, false
	}
	return d.boxes[page-1], true
}

// ExportJob holds everything needed to write an annotated copy of a
// document.  Run does not touch the engine and can be called on any
// goroutine.
type ExportJob struct {
	src   []byte
	pages pdfink.Pages
	opt   inkpdf.Options
}

// Run writes the annotated PDF file to w.
func (j *ExportJob) Run(w io.Writer) error {
	return inkpdf.Export(w, bytes.NewReader(j.src), j.pages, &j.opt)
}

// Bytes returns the annotated PDF file.
func (j *ExportJob) Bytes() ([]byte, error) {
	buf := &bytes.Buffer{}
	err := j.Run(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
