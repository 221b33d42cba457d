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

package pdfink

import "fmt"

// Tool is the drawing tool selected by the user.
type Tool uint8

// The available tools.
const (
	Pen Tool = iota
	Highlight
	Eraser
)

func (t Tool) String() string {
	switch t {
	case Pen:
		return "pen"
	case Highlight:
		return "highlight"
	case Eraser:
		return "eraser"
	default:
		return fmt.Sprintf("Tool(%d)", uint8(t))
	}
}

// ParseTool converts the name of a tool back into a Tool.
func ParseTool(s string) (Tool, error) {
	switch s {
	case "pen":
		return Pen, nil
	case "highlight", "highlighter":
		return Highlight, nil
	case "eraser":
		return Eraser, nil
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// Alpha returns the opacity of strokes drawn with the tool.
// The eraser does not leave strokes and returns 0.
func (t Tool) Alpha() float64 {
	switch t {
	case Pen:
		return PenAlpha
	case Highlight:
		return HighlightAlpha
	default:
		return 0
	}
}

// WidthFactor is the factor applied to the configured stroke width.
// The highlighter draws twice as wide as the pen.
func (t Tool) WidthFactor() float64 {
	if t == Highlight {
		return 2
	}
	return 1
}

// MarshalText implements [encoding.TextMarshaler].
func (t Tool) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (t *Tool) UnmarshalText(text []byte) error {
	v, err := ParseTool(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// InputMode decides which kinds of pointer input may draw.
type InputMode uint8

const (
	// AnyInput lets mouse, pen and touch input draw.
	AnyInput InputMode = iota

	// PenOnly lets only pen and mouse input draw, so that a resting hand or
	// a finger used for scrolling does not leave marks.
	PenOnly
)

func (m InputMode) String() string {
	switch m {
	case AnyInput:
		return "any"
	case PenOnly:
		return "pen-only"
	default:
		return fmt.Sprintf("InputMode(%d)", uint8(m))
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (m InputMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (m *InputMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "any", "":
		*m = AnyInput
	case "pen-only", "pen":
		*m = PenOnly
	default:
		return fmt.Errorf("unknown input mode %q", text)
	}
	return nil
}

// Width is a stroke width in page pixels.  Only the values listed in
// [Widths] can be selected.
type Width int

// Widths lists the stroke widths offered to the user.
var Widths = []Width{4, 8, 12, 16, 20}

// DefaultWidth is the stroke width used before the user picks one.
const DefaultWidth Width = 12

// IsValid reports whether w is one of the selectable widths.
func (w Width) IsValid() bool {
	for _, v := range Widths {
		if v == w {
			return true
		}
	}
	return false
}
