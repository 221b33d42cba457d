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

package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"seehuhn.de/go/pdfink"
)

// Inbound message types, sent by the host.
const (
	TypeLoadDocument  = "load-document"
	TypeLoadImage     = "load-image"
	TypeRequestExport = "request-export"
	TypeSetSearchText = "set-search-text"
	TypeJumpToPage    = "jump-to-page"
	TypeSetTool       = "set-tool"
	TypeSetColor      = "set-color"
	TypeSetWidth      = "set-width"
	TypeSetInputMode  = "set-input-mode"
	TypeErasePage     = "erase-page"
	TypeEraseAll      = "erase-all"
	TypeRequestPaths  = "request-paths"
	TypeUnload        = "unload"
)

// Outbound message types, sent to the host.
const (
	TypeDocumentLoaded = "document-loaded"
	TypeExportResult   = "export-result"
	TypePaths          = "paths"
	TypeSearchText     = "search-text"
	TypePageChanged    = "page-changed"
	TypeError          = "error"
)

// Envelope is the wire form of all messages.
//
// Replies carry the ID of the request they answer.  Messages which are not
// replies get a fresh random ID.
type Envelope struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope wraps a payload.  If id is empty, a new UUID is used.
func NewEnvelope(typ, id string, payload any) (*Envelope, error) {
	if id == "" {
		id = uuid.NewString()
	}
	env := &Envelope{Type: typ, ID: id}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s payload: %w", typ, err)
		}
		env.Payload = data
	}
	return env, nil
}

// Decode unpacks the payload into v.
func (env *Envelope) Decode(v any) error {
	if len(env.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", env.Type)
	}
	err := json.Unmarshal(env.Payload, v)
	if err != nil {
		return fmt.Errorf("%s payload: %w", env.Type, err)
	}
	return nil
}

// LoadDocument opens a PDF file.  The file is base64 encoded on the wire.
type LoadDocument struct {
	PDF []byte `json:"pdf"`

	// Paths is an optional path map which replaces the annotations found in
	// the file.  Both a JSON object and a string holding JSON are accepted.
	Paths json.RawMessage `json:"paths,omitempty"`

	Password string `json:"password,omitempty"`
}

// pathMap returns the path map as raw JSON, or nil.
func (m *LoadDocument) pathMap() ([]byte, error) {
	raw := m.Paths
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		if s == "" {
			return nil, nil
		}
		return []byte(s), nil
	}
	return raw, nil
}

// LoadImage opens an image as a single-page document.
type LoadImage struct {
	Image []byte `json:"image"`
}

// RequestExport asks for the annotated PDF file.
type RequestExport struct {
	Flatten bool `json:"flatten,omitempty"`
}

// SetSearchText sets the text to search for in the document.
type SetSearchText struct {
	Text string `json:"text"`
}

// JumpToPage selects the current page.
type JumpToPage struct {
	Page int `json:"page"`
}

// SetTool selects the drawing tool.
type SetTool struct {
	Tool pdfink.Tool `json:"tool"`
}

// SetColor selects the ink color, as one of the palette hex strings.
type SetColor struct {
	Color pdfink.Color `json:"color"`
}

// SetWidth selects the stroke width.
type SetWidth struct {
	Width pdfink.Width `json:"width"`
}

// SetInputMode selects the input devices which may draw.
type SetInputMode struct {
	Mode pdfink.InputMode `json:"mode"`
}

// ErasePage removes all strokes of one page.
type ErasePage struct {
	Page int `json:"page"`
}

// DocumentLoaded answers [LoadDocument] and [LoadImage].
type DocumentLoaded struct {
	Pages int    `json:"pages"`
	Error string `json:"error,omitempty"`
}

// ExportResult answers [RequestExport].
type ExportResult struct {
	PDF   []byte `json:"pdf,omitempty"`
	Error string `json:"error,omitempty"`
}

// SearchText reports the normalized search text.
type SearchText struct {
	Text string `json:"text"`
}

// PageChanged reports a new current page.
type PageChanged struct {
	Page int `json:"page"`
}

// Error reports a request which could not be carried out.
type Error struct {
	Message string `json:"message"`
}
