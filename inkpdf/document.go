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
	"io"
	"maps"
	"slices"

	"github.com/xdg-go/stringprep"
	"seehuhn.de/go/pdf"
)

// Document is a PDF file held in memory.
//
// Only the objects reachable from the document catalog are kept.  Stream
// data is stored in its encoded form, so that unchanged streams are written
// back byte for byte.  Document implements [pdf.Getter].
type Document struct {
	meta    pdf.MetaInfo
	objects map[pdf.Reference]pdf.Native
	streams map[pdf.Reference][]byte
	lastRef uint32
}

// Read loads a complete PDF file into memory, for use with [Extract] and
// [Apply].  Passwords are normalized with SASLprep before use.
//
// Encrypted files are decrypted while reading.  [Document.Write] writes an
// unencrypted file.
func Read(r io.ReadSeeker, opt *Options) (*Document, error) {
	var password string
	if opt != nil && opt.Password != "" {
		prepped, err := stringprep.SASLprep.Prepare(opt.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPassword, err)
		}
		password = prepped
	}

	asked := false
	ropt := &pdf.ReaderOptions{
		ReadPassword: func(_ []byte, try int) string {
			asked = true
			if try == 0 {
				return password
			}
			return ""
		},
	}
	wrap := func(err error) error {
		if asked {
			return fmt.Errorf("%w: %w", ErrPassword, err)
		}
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	file, err := pdf.NewReader(r, ropt)
	if err != nil {
		return nil, wrap(err)
	}
	defer file.Close()

	meta := file.GetMeta()
	if meta.Catalog == nil || meta.Catalog.Pages == 0 {
		return nil, fmt.Errorf("%w: missing page tree", ErrMalformed)
	}

	doc := &Document{
		meta: pdf.MetaInfo{
			Version: meta.Version,
			ID:      meta.ID,
			Catalog: meta.Catalog,
			Info:    meta.Info,
		},
		objects: map[pdf.Reference]pdf.Native{},
		streams: map[pdf.Reference][]byte{},
	}
	err = doc.load(file, pdf.AsDict(meta.Catalog))
	if err != nil {
		return nil, wrap(err)
	}
	return doc, nil
}

// load copies all objects reachable from root into memory.
func (d *Document) load(r pdf.Getter, root pdf.Object) error {
	seen := map[pdf.Reference]bool{}
	todo := []pdf.Object{root}
	for len(todo) > 0 {
		k := len(todo) - 1
		obj := todo[k]
		todo = todo[:k]

		switch x := obj.(type) {
		case pdf.Dict:
			for _, val := range x {
				todo = append(todo, val)
			}
		case pdf.Array:
			todo = append(todo, x...)
		case pdf.Reference:
			if seen[x] {
				continue
			}
			seen[x] = true
			d.lastRef = max(d.lastRef, x.Number())

			val, err := r.Get(x, true)
			if err != nil {
				return err
			}
			switch val := val.(type) {
			case nil:
				// missing objects are null
			case *pdf.Stream:
				data, err := io.ReadAll(val.R)
				if err != nil {
					return err
				}
				dict := maps.Clone(val.Dict)
				dict["Length"] = pdf.Integer(len(data))
				d.objects[x] = &pdf.Stream{Dict: dict}
				d.streams[x] = data
				todo = append(todo, dict)
			default:
				d.objects[x] = val
				todo = append(todo, val)
			}
		}
	}
	return nil
}

// GetMeta implements [pdf.Getter].
func (d *Document) GetMeta() *pdf.MetaInfo {
	return &d.meta
}

// Get implements [pdf.Getter].  Dictionaries and arrays are returned as
// shallow copies, so that callers can modify them without changing the
// document.
func (d *Document) Get(ref pdf.Reference, _ bool) (pdf.Native, error) {
	switch obj := d.objects[ref].(type) {
	case *pdf.Stream:
		return &pdf.Stream{
			Dict: maps.Clone(obj.Dict),
			R:    bytes.NewReader(d.streams[ref]),
		}, nil
	case pdf.Dict:
		return maps.Clone(obj), nil
	case pdf.Array:
		return slices.Clone(obj), nil
	case nil:
		return nil, nil
	default:
		return obj, nil
	}
}

// Alloc returns an unused object reference.
func (d *Document) Alloc() pdf.Reference {
	d.lastRef++
	return pdf.NewReference(d.lastRef, 0)
}

// Put stores an object.  If obj is nil, the object is removed.
// Streams must be stored using [Document.PutStream].
func (d *Document) Put(ref pdf.Reference, obj pdf.Native) {
	delete(d.streams, ref)
	if obj == nil {
		delete(d.objects, ref)
		return
	}
	d.objects[ref] = obj
}

// PutStream stores a stream object.  The data is encoded with the given
// filters, and the corresponding Filter entry is added to the stream
// dictionary.
func (d *Document) PutStream(ref pdf.Reference, dict pdf.Dict, data []byte, filters ...pdf.Filter) error {
	dict = maps.Clone(dict)
	if dict == nil {
		dict = pdf.Dict{}
	}

	var names pdf.Array
	for i := len(filters) - 1; i >= 0; i-- {
		filter := filters[i]
		buf := &bytes.Buffer{}
		w, err := filter.Encode(d.meta.Version, nopCloser{buf})
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		data = buf.Bytes()

		name, parms, err := filter.Info(d.meta.Version)
		if err != nil {
			return err
		}
		if len(parms) > 0 {
			return fmt.Errorf("filter %s: parameters not supported", name)
		}
		names = append(pdf.Array{name}, names...)
	}
	switch len(names) {
	case 0:
		delete(dict, "Filter")
	case 1:
		dict["Filter"] = names[0]
	default:
		dict["Filter"] = names
	}
	delete(dict, "DecodeParms")
	dict["Length"] = pdf.Integer(len(data))

	d.objects[ref] = &pdf.Stream{Dict: dict}
	d.streams[ref] = data
	return nil
}

// Write writes the document as a new PDF file.  Objects which are no
// longer reachable from the catalog are dropped.
func (d *Document) Write(w io.Writer) error {
	opt := &pdf.WriterOptions{}
	if d.meta.Version > pdf.V1_0 {
		opt.ID = d.meta.ID
	}
	out, err := pdf.NewWriter(w, d.meta.Version, opt)
	if err != nil {
		return err
	}

	c := pdf.NewCopier(out, d)
	catalog, err := pdf.CopierCopyStruct(c, d.meta.Catalog)
	if err != nil {
		return err
	}
	meta := out.GetMeta()
	meta.Catalog = catalog
	meta.Info = d.meta.Info

	return out.Close()
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
