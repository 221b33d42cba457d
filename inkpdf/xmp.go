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
	"time"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/xmp"
)

// xmpPDF is the XMP namespace for PDF metadata.
// See https://developer.adobe.com/xmp/docs/XMPNamespaces/pdf/
type xmpPDF struct {
	_        xmp.Namespace `xmp:"http://ns.adobe.com/pdf/1.3/"`
	_        xmp.Prefix    `xmp:"pdf"`
	Producer xmp.AgentName
}

// writeMetadata records the modification time and the producer in the
// document XMP metadata stream.  An existing stream is replaced.
func writeMetadata(doc *Document, now time.Time, producer string) error {
	basic := &xmp.Basic{}
	basic.ModifyDate = xmp.NewDate(now)
	info := &xmpPDF{}
	info.Producer = xmp.NewAgentName(producer)

	packet := xmp.NewPacket()
	err := packet.Set(basic, info)
	if err != nil {
		return err
	}
	buf := &bytes.Buffer{}
	err = packet.Write(buf, &xmp.PacketOptions{})
	if err != nil {
		return err
	}

	catalog := doc.GetMeta().Catalog
	ref := catalog.Metadata
	if ref == 0 {
		ref = doc.Alloc()
	}
	dict := pdf.Dict{
		"Type":    pdf.Name("Metadata"),
		"Subtype": pdf.Name("XML"),
	}
	err = doc.PutStream(ref, dict, buf.Bytes())
	if err != nil {
		return err
	}

	catalog.Metadata = ref
	return nil
}
