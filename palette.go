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

import (
	"fmt"
	"image/color"
	"strings"
)

// Color is one of the five ink colors offered to the user.
type Color uint8

// The available ink colors.
const (
	Black Color = iota
	Red
	Blue
	Green
	Yellow

	numColors
)

type paletteEntry struct {
	name    string
	hex     string
	r, g, b uint8
}

var palette = [numColors]paletteEntry{
	Black:  {"black", "#000000", 0x00, 0x00, 0x00},
	Red:    {"red", "#F34A47", 0xF3, 0x4A, 0x47},
	Blue:   {"blue", "#2F6FDE", 0x2F, 0x6F, 0xDE},
	Green:  {"green", "#2EA55A", 0x2E, 0xA5, 0x5A},
	Yellow: {"yellow", "#F6C344", 0xF6, 0xC3, 0x44},
}

// Palette lists all colors in display order.
func Palette() []Color {
	res := make([]Color, numColors)
	for i := range res {
		res[i] = Color(i)
	}
	return res
}

// IsValid reports whether c is one of the palette colors.
func (c Color) IsValid() bool {
	return c < numColors
}

func (c Color) String() string {
	if !c.IsValid() {
		return fmt.Sprintf("Color(%d)", uint8(c))
	}
	return palette[c].name
}

// Hex returns the display form of the color, for example "#F34A47".
func (c Color) Hex() string {
	if !c.IsValid() {
		return ""
	}
	return palette[c].hex
}

// RGB returns the color as DeviceRGB components in the range [0, 1],
// as used in PDF files.
func (c Color) RGB() (r, g, b float64) {
	if !c.IsValid() {
		return 0, 0, 0
	}
	e := palette[c]
	return float64(e.r) / 255, float64(e.g) / 255, float64(e.b) / 255
}

// NRGBA returns the color with the given opacity.
func (c Color) NRGBA(alpha float64) color.NRGBA {
	var e paletteEntry
	if c.IsValid() {
		e = palette[c]
	}
	return color.NRGBA{R: e.r, G: e.g, B: e.b, A: uint8(alpha*255 + 0.5)}
}

// ParseColor converts a hex string like "#f34a47" into a palette color.
// Colors outside the palette are rejected.
func ParseColor(hex string) (Color, error) {
	for i, e := range palette {
		if strings.EqualFold(e.hex, hex) {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("color %q is not in the palette", hex)
}

// NearestColor returns the palette color closest to the given DeviceRGB
// components.
func NearestColor(r, g, b float64) Color {
	best := Black
	bestDist := -1.0
	for i, e := range palette {
		dr := r - float64(e.r)/255
		dg := g - float64(e.g)/255
		db := b - float64(e.b)/255
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best = Color(i)
			bestDist = d
		}
	}
	return best
}

// MarshalText implements [encoding.TextMarshaler].
func (c Color) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("invalid color %d", uint8(c))
	}
	return []byte(palette[c].hex), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (c *Color) UnmarshalText(text []byte) error {
	col, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = col
	return nil
}
