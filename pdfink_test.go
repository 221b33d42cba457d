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
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPalette(t *testing.T) {
	for _, c := range Palette() {
		got, err := ParseColor(c.Hex())
		if err != nil || got != c {
			t.Errorf("%s: ParseColor(%q) = %s, %v", c, c.Hex(), got, err)
		}
		r, g, b := c.RGB()
		if got := NearestColor(r, g, b); got != c {
			t.Errorf("%s: nearest color is %s", c, got)
		}
	}
	if c, err := ParseColor("#f34a47"); err != nil || c != Red {
		t.Errorf("lower case hex: %s, %v", c, err)
	}
	if _, err := ParseColor("#123456"); err == nil {
		t.Error("color outside palette accepted")
	}
	if Color(17).IsValid() || Color(17).Hex() != "" {
		t.Error("invalid color accepted")
	}
}

func TestDrawOrderJSON(t *testing.T) {
	cases := []struct {
		in   string
		want DrawOrder
		ok   bool
	}{
		{`0`, 0, true},
		{`42`, 42, true},
		{`"42"`, 42, true},
		{`"18446744073709551615"`, 1<<64 - 1, true},
		{`-1`, 0, false},
		{`"x"`, 0, false},
		{`1.5`, 0, false},
	}
	for _, c := range cases {
		var d DrawOrder
		err := json.Unmarshal([]byte(c.in), &d)
		if (err == nil) != c.ok || (c.ok && d != c.want) {
			t.Errorf("%s: got %d, %v", c.in, d, err)
		}
	}

	data, err := json.Marshal(DrawOrder(7))
	if err != nil || string(data) != "7" {
		t.Errorf("marshal: %s, %v", data, err)
	}
}

func TestDecodePages(t *testing.T) {
	in := `{
		"2": [{"x": 0.5, "y": 0.25, "lastX": 0.5, "lastY": 0.25, "lineWidth": 0.02,
			"color": "#F6C344", "drawOrder": "5", "alpha": 0.4}],
		"1": []
	}`
	got, err := DecodePages([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	want := Pages{
		1: {},
		2: {{X: 0.5, Y: 0.25, LastX: 0.5, LastY: 0.25, LineWidth: 0.02,
			Color: Yellow, Alpha: HighlightAlpha, DrawOrder: 5}},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("pages (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]int{1, 2}, got.PageNumbers()); d != "" {
		t.Errorf("page numbers (-want +got):\n%s", d)
	}
	if m, ok := got.MaxDrawOrder(); !ok || m != 5 {
		t.Errorf("MaxDrawOrder = %d, %t", m, ok)
	}

	bad := []string{
		`{"1": [{"x": 1.5, "y": 0, "lastX": 0, "lastY": 0, "lineWidth": 0.1, "color": "#000000", "alpha": 1}]}`,
		`{"1": [{"x": 0, "y": 0, "lastX": 0, "lastY": 0, "lineWidth": 0, "color": "#000000", "alpha": 1}]}`,
		`{"1": [{"x": 0, "y": 0, "lastX": 0, "lastY": 0, "lineWidth": 0.1, "color": "#000000", "alpha": 0.7}]}`,
		`{"0": [{"x": 0, "y": 0, "lastX": 0, "lastY": 0, "lineWidth": 0.1, "color": "#000000", "alpha": 1}]}`,
		`{"1": [{"color": "red"}]}`,
		`[]`,
	}
	for _, in := range bad {
		if _, err := DecodePages([]byte(in)); err == nil {
			t.Errorf("%s: accepted", in)
		}
	}

	empty, err := DecodePages([]byte(`null`))
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("null: %v, %v", empty, err)
	}
}

func TestPointCheck(t *testing.T) {
	p := Point{X: 0.5, Y: 0.5, LastX: 0.5, LastY: 0.5, LineWidth: 0.01, Alpha: 1}
	if err := p.Check(); err != nil {
		t.Error(err)
	}
	p.LastY = -0.1
	if err := p.Check(); !errors.Is(err, ErrInvalidPoint) {
		t.Errorf("got %v, want ErrInvalidPoint", err)
	}
}

func TestContinues(t *testing.T) {
	a := Point{X: 0.1, Y: 0.1, LastX: 0.1, LastY: 0.1, DrawOrder: 1}
	b := Point{X: 0.2, Y: 0.1, LastX: 0.1, LastY: 0.1, DrawOrder: 1}
	if !b.Continues(a) || a.Continues(b) {
		t.Error("wrong continuation")
	}
	// a new stroke which starts where the last one ended
	c := Point{X: 0.2, Y: 0.1, LastX: 0.2, LastY: 0.1, DrawOrder: 2}
	if c.Continues(b) {
		t.Error("new stroke continues old one")
	}
	if !c.IsStart() || b.IsStart() {
		t.Error("wrong IsStart")
	}
}

func TestTool(t *testing.T) {
	for _, tool := range []Tool{Pen, Highlight, Eraser} {
		got, err := ParseTool(tool.String())
		if err != nil || got != tool {
			t.Errorf("%s: got %s, %v", tool, got, err)
		}
	}
	if Highlight.Alpha() != HighlightAlpha || Highlight.WidthFactor() != 2 {
		t.Error("wrong highlighter style")
	}
	if Pen.Alpha() != PenAlpha || Pen.WidthFactor() != 1 {
		t.Error("wrong pen style")
	}
	for _, w := range Widths {
		if !w.IsValid() {
			t.Errorf("width %d invalid", w)
		}
	}
	if Width(13).IsValid() || !DefaultWidth.IsValid() {
		t.Error("wrong width validation")
	}
}
