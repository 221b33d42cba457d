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

package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/pdfink"
)

func pt(x, y, lastX, lastY float64) pdfink.Point {
	return pdfink.Point{
		X: x, Y: y, LastX: lastX, LastY: lastY,
		LineWidth: 0.01,
		Color:     pdfink.Red,
		Alpha:     pdfink.PenAlpha,
	}
}

func drawStroke(t *testing.T, s *Store, page int, points ...pdfink.Point) pdfink.DrawOrder {
	t.Helper()
	order, err := s.Begin(page, points[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range points[1:] {
		if err := s.Append(p); err != nil {
			t.Fatal(err)
		}
	}
	if got, n := s.End(); got != order || n != len(points) {
		t.Fatalf("End() = %d, %d; want %d, %d", got, n, order, len(points))
	}
	return order
}

func TestDrawOrderIncreases(t *testing.T) {
	s := New()
	a := drawStroke(t, s, 1, pt(0.1, 0.1, 0.1, 0.1))
	b := drawStroke(t, s, 1, pt(0.2, 0.2, 0.2, 0.2), pt(0.3, 0.2, 0.2, 0.2))
	c := drawStroke(t, s, 2, pt(0.5, 0.5, 0.5, 0.5))
	if !(a < b && b < c) {
		t.Errorf("draw orders %d, %d, %d not increasing", a, b, c)
	}

	for _, p := range s.Points(1)[1:] {
		if p.DrawOrder != b {
			t.Errorf("point %v has draw order %d, want %d", p, p.DrawOrder, b)
		}
	}
}

func TestNeverReused(t *testing.T) {
	s := New()
	a := drawStroke(t, s, 1, pt(0.1, 0.1, 0.1, 0.1))
	s.Remove(1, map[pdfink.DrawOrder]bool{a: true})
	b := drawStroke(t, s, 1, pt(0.1, 0.1, 0.1, 0.1))
	s.ClearAll()
	c := drawStroke(t, s, 1, pt(0.1, 0.1, 0.1, 0.1))
	if !(a < b && b < c) {
		t.Errorf("draw orders %d, %d, %d reused", a, b, c)
	}
}

func TestBeginTwice(t *testing.T) {
	s := New()
	if _, err := s.Begin(1, pt(0.1, 0.1, 0.1, 0.1)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Begin(1, pt(0.2, 0.2, 0.2, 0.2)); err != ErrStrokeOpen {
		t.Errorf("second Begin: got %v, want %v", err, ErrStrokeOpen)
	}
	if err := New().Append(pt(0.1, 0.1, 0.1, 0.1)); err != ErrNoStroke {
		t.Errorf("Append without Begin: got %v, want %v", err, ErrNoStroke)
	}
	if _, err := New().Begin(0, pt(0.1, 0.1, 0.1, 0.1)); err != ErrBadPage {
		t.Errorf("Begin on page 0: got %v, want %v", err, ErrBadPage)
	}
}

// TestSnapshotMidGesture checks that a snapshot taken while a stroke is
// being drawn contains only the finished strokes.
func TestSnapshotMidGesture(t *testing.T) {
	s := New()
	done := drawStroke(t, s, 1, pt(0.1, 0.1, 0.1, 0.1), pt(0.2, 0.1, 0.1, 0.1))

	if _, err := s.Begin(1, pt(0.5, 0.5, 0.5, 0.5)); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(pt(0.6, 0.5, 0.5, 0.5)); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()

	// later changes must not show up in the snapshot
	if err := s.Append(pt(0.7, 0.5, 0.6, 0.5)); err != nil {
		t.Fatal(err)
	}
	s.End()

	want := pdfink.Pages{
		1: {
			withOrder(pt(0.1, 0.1, 0.1, 0.1), done),
			withOrder(pt(0.2, 0.1, 0.1, 0.1), done),
		},
	}
	if d := cmp.Diff(want, snap); d != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", d)
	}
	if n := len(s.Points(1)); n != 5 {
		t.Errorf("store has %d points, want 5", n)
	}
}

func TestSnapshotOpenStrokeOnly(t *testing.T) {
	s := New()
	if _, err := s.Begin(3, pt(0.5, 0.5, 0.5, 0.5)); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if len(snap) != 0 {
		t.Errorf("snapshot has %d pages, want 0", len(snap))
	}
}

func TestRemove(t *testing.T) {
	s := New()
	a := drawStroke(t, s, 1, pt(0.1, 0.1, 0.1, 0.1), pt(0.2, 0.1, 0.1, 0.1))
	b := drawStroke(t, s, 1, pt(0.5, 0.5, 0.5, 0.5))

	n := s.Remove(1, map[pdfink.DrawOrder]bool{a: true})
	if n != 2 {
		t.Errorf("removed %d points, want 2", n)
	}
	want := []pdfink.Point{withOrder(pt(0.5, 0.5, 0.5, 0.5), b)}
	if d := cmp.Diff(want, s.Points(1)); d != "" {
		t.Errorf("points mismatch (-want +got):\n%s", d)
	}

	s.Remove(1, map[pdfink.DrawOrder]bool{b: true})
	if pages := s.PageNumbers(); len(pages) != 0 {
		t.Errorf("pages %v left after removing everything", pages)
	}
}

func TestClearPage(t *testing.T) {
	s := New()
	drawStroke(t, s, 1, pt(0.1, 0.1, 0.1, 0.1))
	drawStroke(t, s, 2, pt(0.1, 0.1, 0.1, 0.1))

	if _, err := s.Begin(2, pt(0.3, 0.3, 0.3, 0.3)); err != nil {
		t.Fatal(err)
	}
	next := s.Next()
	s.ClearPage(2)
	if _, open := s.InProgress(); open {
		t.Error("stroke still open after clearing its page")
	}
	if s.Next() <= next {
		t.Error("draw order of abandoned stroke is reused")
	}
	if d := cmp.Diff([]int{1}, s.PageNumbers()); d != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", d)
	}
}

func TestReplace(t *testing.T) {
	s := New()
	drawStroke(t, s, 1, pt(0.1, 0.1, 0.1, 0.1))

	in := pdfink.Pages{
		2: {withOrder(pt(0.4, 0.4, 0.4, 0.4), 41)},
	}
	s.Replace(in)
	in[2][0].X = 0.9 // the store must own its copy

	if got := s.Points(2)[0].X; got != 0.4 {
		t.Errorf("X = %g, want 0.4", got)
	}
	if len(s.Points(1)) != 0 {
		t.Error("old points survived Replace")
	}
	if s.Next() != 42 {
		t.Errorf("Next() = %d, want 42", s.Next())
	}

	s.Replace(nil)
	if s.Next() != 42 {
		t.Errorf("counter decreased to %d", s.Next())
	}
}

func withOrder(p pdfink.Point, order pdfink.DrawOrder) pdfink.Point {
	p.DrawOrder = order
	return p
}
