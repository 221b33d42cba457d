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

// Package pdfimage creates single-page PDF files from images, so that
// photos and scans can be annotated like any other document.
//
// JPEG, PNG and GIF images are embedded directly.  BMP, TIFF and WebP images
// are decoded and embedded as PNG.
package pdfimage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	"image/png"
	"io"

	"github.com/h2non/filetype"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"seehuhn.de/go/pdfink"
)

// ErrUnsupportedImage is returned for data which is not in one of the
// supported image formats.
var ErrUnsupportedImage = errors.New("unsupported image format")

// Options control the page layout.
type Options struct {
	// DPI is the image resolution used to compute the page size.
	// The default is 72, so that one pixel becomes one PDF unit.
	DPI float64

	// Title is stored in the document information dictionary.
	Title string
}

func (opt *Options) dpi() float64 {
	if opt == nil || opt.DPI <= 0 {
		return 72
	}
	return opt.DPI
}

// Format returns the MIME type of an image, or an error wrapping
// [ErrUnsupportedImage] if the data is not a supported image.
func Format(data []byte) (string, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "", fmt.Errorf("%w: unknown file type", ErrUnsupportedImage)
	}
	mime := kind.MIME.Value
	if _, ok := gofpdfType[mime]; ok {
		return mime, nil
	}
	if _, ok := decoders[mime]; ok {
		return mime, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, mime)
}

// gofpdfType lists the formats gofpdf can embed directly.
var gofpdfType = map[string]string{
	"image/jpeg": "JPG",
	"image/png":  "PNG",
	"image/gif":  "GIF",
}

// decoders lists the formats which are converted to PNG first.
var decoders = map[string]func(io.Reader) (image.Image, error){
	"image/bmp":  bmp.Decode,
	"image/tiff": tiff.Decode,
	"image/webp": webp.Decode,
}

// Convert writes a PDF file with one page showing the image to w.
// The page has the size of the image.
func Convert(w io.Writer, data []byte, opt *Options) error {
	mime, err := Format(data)
	if err != nil {
		return err
	}

	imgType, ok := gofpdfType[mime]
	if !ok {
		img, err := decoders[mime](bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("decoding %s: %w", mime, err)
		}
		buf := &bytes.Buffer{}
		err = png.Encode(buf, img)
		if err != nil {
			return err
		}
		data = buf.Bytes()
		imgType = "PNG"
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decoding %s: %w", mime, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: empty image", ErrUnsupportedImage)
	}
	scale := 72 / opt.dpi()
	width := float64(cfg.Width) * scale
	height := float64(cfg.Height) * scale

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator("seehuhn.de/go/pdfink", true)
	if opt != nil && opt.Title != "" {
		doc.SetTitle(opt.Title, true)
	}
	doc.AddPage()

	imgOpt := gofpdf.ImageOptions{ImageType: imgType}
	doc.RegisterImageOptionsReader("image", imgOpt, bytes.NewReader(data))
	doc.ImageOptions("image", 0, 0, width, height, false, imgOpt, 0, "")
	if err := doc.Error(); err != nil {
		return fmt.Errorf("creating PDF: %w", err)
	}

	err = doc.Output(w)
	if err != nil {
		return err
	}
	pdfink.Logger().Debug("image converted", "type", mime,
		"width", cfg.Width, "height", cfg.Height)
	return nil
}
