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

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdfink"
)

func TestDecode(t *testing.T) {
	in := `
min_distance = 3.5
default_width = 16
default_color = "#F34A47"
input_mode = "pen-only"
advertise = true
`
	got, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.MinDistance = 3.5
	want.DefaultWidth = 16
	want.DefaultColor = pdfink.Red
	want.InputMode = pdfink.PenOnly
	want.Advertise = true
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("config (-want +got):\n%s", d)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []string{
		`default_width = 13`,
		`default_color = "#123456"`,
		`input_mode = "finger"`,
		`min_distance = -1.0`,
		`colour = "#000000"`,
		`listen = `,
	}
	for _, in := range cases {
		if _, err := Decode(strings.NewReader(in)); err == nil {
			t.Errorf("%q: no error", in)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	c := Default()
	c.DefaultColor = pdfink.Yellow
	c.Listen = ":9000"

	buf := &bytes.Buffer{}
	if err := c.Encode(buf); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(c, got); d != "" {
		t.Errorf("config (-want +got):\n%s", d)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	err := os.WriteFile(path, []byte("producer = \"test\"\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Producer != "test" || c.DefaultWidth != pdfink.DefaultWidth {
		t.Errorf("unexpected config %+v", c)
	}
	if opt := c.EngineOptions(); opt.Producer != "test" || opt.Width != pdfink.DefaultWidth {
		t.Errorf("unexpected engine options %+v", opt)
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if err == nil {
		t.Error("missing explicit file accepted")
	}
}
