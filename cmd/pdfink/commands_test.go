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

package main

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"seehuhn.de/go/pdfink"
	"seehuhn.de/go/pdfink/config"
	"seehuhn.de/go/pdfink/internal/testpdf"
)

const pathMap = `{"1": [
	{"x": 0.1, "y": 0.2, "lastX": 0.1, "lastY": 0.2, "lineWidth": 0.01, "color": "#2EA55A", "drawOrder": 3, "alpha": 1},
	{"x": 0.4, "y": 0.6, "lastX": 0.1, "lastY": 0.2, "lineWidth": 0.01, "color": "#2EA55A", "drawOrder": 3, "alpha": 1}
]}`

func TestExportImport(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	paths := filepath.Join(dir, "paths.json")
	out := filepath.Join(dir, "out.pdf")
	back := filepath.Join(dir, "back.json")
	if err := os.WriteFile(in, testpdf.Bytes(testpdf.Letter), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths, []byte(pathMap), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	err := runExport(cfg, []string{"-paths", paths, "-o", out, in})
	if err != nil {
		t.Fatal(err)
	}
	err = runExport(cfg, []string{"-paths", paths, "-o", out, in})
	if err == nil {
		t.Error("existing output file overwritten")
	}
	err = runImport(cfg, []string{"-o", back, out})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(back)
	if err != nil {
		t.Fatal(err)
	}
	got, err := pdfink.DecodePages(data)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := pdfink.DecodePages([]byte(pathMap))
	if d := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("paths (-want +got):\n%s", d)
	}

	pic := filepath.Join(dir, "ink.png")
	err = runRender(cfg, []string{"-size", "200", out, pic})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(pic); err != nil {
		t.Error(err)
	}
}

func TestImg2PDF(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.pdf")
	fd, err := os.Create(in)
	if err != nil {
		t.Fatal(err)
	}
	png.Encode(fd, image.NewGray(image.Rect(0, 0, 20, 10)))
	fd.Close()

	err = runImg2PDF(config.Default(), []string{in, out})
	if err != nil {
		t.Fatal(err)
	}
	err = runRender(config.Default(), []string{out, filepath.Join(dir, "x.png")})
	if err != nil {
		t.Fatal(err)
	}
}

func TestUsage(t *testing.T) {
	cfg := config.Default()
	for _, c := range commands {
		var uErr *usageError
		if err := c.run(cfg, []string{"-no-such-flag"}); !errors.As(err, &uErr) {
			t.Errorf("%s: got %v, want usage error", c.name, err)
		}
	}
}
