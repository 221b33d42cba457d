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

package pdfimage

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encode(t *testing.T, enc func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := enc(buf, testImage(40, 30)); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// pageSize returns the media box size of the only page of a PDF file.
func pageSize(t *testing.T, file []byte) (float64, float64) {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(file), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	n, err := pagetree.NumPages(r)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("got %d pages, want 1", n)
	}
	_, dict, err := pagetree.GetPage(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	box, err := pdf.GetRectangle(r, dict["MediaBox"])
	if err != nil || box == nil {
		t.Fatalf("no MediaBox: %v", err)
	}
	return box.URx - box.LLx, box.URy - box.LLy
}

func TestConvert(t *testing.T) {
	cases := []struct {
		name string
		mime string
		data []byte
	}{
		{"png", "image/png", encode(t, func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) })},
		{"jpeg", "image/jpeg", encode(t, func(b *bytes.Buffer, img image.Image) error { return jpeg.Encode(b, img, nil) })},
		{"gif", "image/gif", encode(t, func(b *bytes.Buffer, img image.Image) error { return gif.Encode(b, img, nil) })},
		{"bmp", "image/bmp", encode(t, func(b *bytes.Buffer, img image.Image) error { return bmp.Encode(b, img) })},
		{"tiff", "image/tiff", encode(t, func(b *bytes.Buffer, img image.Image) error { return tiff.Encode(b, img, nil) })},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mime, err := Format(c.data)
			if err != nil {
				t.Fatal(err)
			}
			if mime != c.mime {
				t.Errorf("got %q, want %q", mime, c.mime)
			}

			out := &bytes.Buffer{}
			err = Convert(out, c.data, nil)
			if err != nil {
				t.Fatal(err)
			}
			w, h := pageSize(t, out.Bytes())
			if d := cmp.Diff([]float64{40, 30}, []float64{w, h}); d != "" {
				t.Errorf("page size (-want +got):\n%s", d)
			}
		})
	}
}

func TestDPI(t *testing.T) {
	data := encode(t, func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) })
	out := &bytes.Buffer{}
	err := Convert(out, data, &Options{DPI: 144, Title: "scan"})
	if err != nil {
		t.Fatal(err)
	}
	w, h := pageSize(t, out.Bytes())
	if w != 20 || h != 15 {
		t.Errorf("got %gx%g, want 20x15", w, h)
	}
}

func TestUnsupported(t *testing.T) {
	cases := map[string][]byte{
		"empty": nil,
		"text":  []byte("hello, world"),
		"zip":   {'P', 'K', 3, 4, 20, 0, 0, 0, 8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		"pdf":   []byte("%PDF-1.7\n"),
	}
	for name, data := range cases {
		err := Convert(&bytes.Buffer{}, data, nil)
		if !errors.Is(err, ErrUnsupportedImage) {
			t.Errorf("%s: got %v, want ErrUnsupportedImage", name, err)
		}
	}
}
