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

// Package inkpdf stores strokes in PDF files as ink annotations, and reads
// them back.
//
// Every stroke becomes one /Ink annotation.  The annotation records the
// stroke geometry in its InkList, the color in C, the opacity in CA and the
// line width in BS.  The draw order of the stroke is kept in the annotation
// name (NM) as "pdfink:<drawOrder>", so that it survives a round trip
// through a PDF file.  A Form XObject appearance stream makes sure that all
// viewers show the same picture as the live canvas.
//
// Annotations written by an earlier export are replaced on the next export.
// Ink annotations created by other software are left in place on export,
// and are imported as new strokes.
package inkpdf

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"seehuhn.de/go/pdfink"
)

// Errors reported when a PDF file cannot be read.
var (
	ErrMalformed = errors.New("malformed PDF file")
	ErrPassword  = errors.New("wrong or missing PDF password")
)

// DefaultProducer is recorded in the XMP metadata of exported files, unless
// [Options.Producer] is set.
const DefaultProducer = "seehuhn.de/go/pdfink"

// namePrefix marks annotations written by this package.
const namePrefix = "pdfink:"

// Options control reading and writing of PDF files.
// The zero value is valid and gives the defaults.
type Options struct {
	// Password is used to open encrypted files.
	Password string

	// Flatten draws the strokes into the page content instead of adding
	// annotations.  Flattened strokes cannot be imported again.
	Flatten bool

	// Producer is recorded in the XMP metadata of exported files.
	Producer string

	// Now returns the modification time recorded in exported files.
	// If nil, time.Now is used.
	Now func() time.Time
}

func (opt *Options) producer() string {
	if opt == nil || opt.Producer == "" {
		return DefaultProducer
	}
	return opt.Producer
}

func (opt *Options) now() time.Time {
	if opt == nil || opt.Now == nil {
		return time.Now()
	}
	return opt.Now()
}

// annotationName returns the NM value for a stroke.
func annotationName(order pdfink.DrawOrder) string {
	return namePrefix + strconv.FormatUint(uint64(order), 10)
}

// parseAnnotationName recovers the draw order from an NM value.
func parseAnnotationName(nm string) (pdfink.DrawOrder, bool) {
	rest, ok := strings.CutPrefix(nm, namePrefix)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return pdfink.DrawOrder(v), true
}
