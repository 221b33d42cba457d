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

package capture

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"seehuhn.de/go/pdfink"
	"seehuhn.de/go/pdfink/coord"
	"seehuhn.de/go/pdfink/eraser"
	"seehuhn.de/go/pdfink/store"
)

type recorder struct {
	points []pdfink.Point
	guides []eraser.Segment
}

func (r *recorder) PaintPoint(p pdfink.Point)    { r.points = append(r.points, p) }
func (r *recorder) PaintGuide(s eraser.Segment) { r.guides = append(r.guides, s) }

func newTarget(page int, w, h float64) (Target, *recorder) {
	r := &recorder{}
	return Target{
		Page: page,
		Transform: coord.Transform{
			DevicePixelRatio: 1, Zoom: 1, PageWidth: w, PageHeight: h,
		},
		Painter: r,
	}, r
}

func mouse(x, y float64) Event {
	return Event{Kind: Mouse, ID: 1, ClientX: x, ClientY: y, Contacts: 1}
}

var approx = cmpopts.EquateApprox(0, 1e-12)

// TestConcreteStroke draws a red pen stroke from (100,100) to (150,100) on
// a 1000x1000 canvas.
func TestConcreteStroke(t *testing.T) {
	s := store.New()
	c := New(s)
	c.Settings.Color = pdfink.Red
	c.Settings.Width = 12
	target, r := newTarget(1, 1000, 1000)

	if !c.Start(target, mouse(100, 100)) {
		t.Fatal("start rejected")
	}
	c.Move(mouse(150, 100))
	c.End(mouse(150, 100))

	points := s.Points(1)
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	want := pdfink.Point{
		X: 0.15, Y: 0.1, LastX: 0.1, LastY: 0.1,
		LineWidth: 0.012,
		Color:     pdfink.Red,
		Alpha:     1,
	}
	if d := cmp.Diff(want, points[1], approx); d != "" {
		t.Errorf("stored point (-want +got):\n%s", d)
	}
	if hex := points[1].Color.Hex(); hex != "#F34A47" {
		t.Errorf("color %s", hex)
	}
	if !points[0].IsStart() {
		t.Error("first point is not a start point")
	}
	if len(r.points) != 2 {
		t.Errorf("painted %d segments, want 2", len(r.points))
	}
	if s.Next() != 1 {
		t.Errorf("draw order counter %d, want 1", s.Next())
	}
}

func TestDebounce(t *testing.T) {
	s := store.New()
	c := New(s)
	target, r := newTarget(1, 1000, 1000)

	c.Start(target, mouse(100, 100))
	c.Move(mouse(101, 100))
	c.Move(mouse(101.5, 101))
	c.Move(mouse(110, 100))
	c.End(mouse(110, 100))

	if n := len(s.Points(1)); n != 2 {
		t.Errorf("got %d points, want 2", n)
	}
	if n := len(r.points); n != 2 {
		t.Errorf("painted %d times, want 2", n)
	}
}

func TestFastFlick(t *testing.T) {
	s := store.New()
	c := New(s)
	target, _ := newTarget(1, 1000, 1000)

	c.Start(target, mouse(100, 100))
	c.End(mouse(300, 400))

	points := s.Points(1)
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if math.Abs(points[1].X-0.3) > 1e-12 || math.Abs(points[1].Y-0.4) > 1e-12 {
		t.Errorf("end point %v", points[1])
	}
}

// TestEndAfterDebouncedMove checks that the pointer-up position is kept
// when the only move event fell inside the debounce distance.
func TestEndAfterDebouncedMove(t *testing.T) {
	s := store.New()
	c := New(s)
	target, r := newTarget(1, 1000, 1000)

	c.Start(target, mouse(100, 100))
	c.Move(mouse(101, 100))
	c.End(mouse(150, 100))

	points := s.Points(1)
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	want := pdfink.Point{
		X: 0.15, Y: 0.1, LastX: 0.1, LastY: 0.1,
		LineWidth: points[0].LineWidth,
		Color:     pdfink.Black,
		Alpha:     1,
	}
	if d := cmp.Diff(want, points[1], approx); d != "" {
		t.Errorf("end point (-want +got):\n%s", d)
	}
	if len(r.points) != 2 {
		t.Errorf("painted %d segments, want 2", len(r.points))
	}

	// an end position inside the debounce distance adds nothing
	c.Start(target, mouse(500, 500))
	c.Move(mouse(501, 500))
	c.End(mouse(501.5, 500))
	if n := len(s.Points(1)); n != 3 {
		t.Errorf("got %d points, want 3", n)
	}
}

func TestTap(t *testing.T) {
	s := store.New()
	c := New(s)
	target, _ := newTarget(1, 1000, 1000)

	c.Start(target, mouse(500, 500))
	c.End(mouse(500, 500))

	points := s.Points(1)
	if len(points) != 1 || !points[0].IsStart() {
		t.Errorf("tap stored as %v", points)
	}
}

func TestHighlighter(t *testing.T) {
	s := store.New()
	c := New(s)
	c.Settings.Tool = pdfink.Highlight
	c.Settings.Width = 8
	target, _ := newTarget(1, 800, 1000)

	c.Start(target, mouse(100, 100))
	c.End(mouse(100, 100))

	p := s.Points(1)[0]
	if p.Alpha != pdfink.HighlightAlpha {
		t.Errorf("alpha %g", p.Alpha)
	}
	if math.Abs(p.LineWidth-16.0/800) > 1e-12 {
		t.Errorf("line width %g, want %g", p.LineWidth, 16.0/800)
	}
}

func TestRejectedStarts(t *testing.T) {
	target, _ := newTarget(1, 1000, 1000)

	c := New(store.New())
	c.Settings.Disabled = true
	if c.Start(target, mouse(1, 1)) {
		t.Error("disabled capturer accepted a gesture")
	}

	c = New(store.New())
	c.Settings.InputMode = pdfink.PenOnly
	if c.Start(target, Event{Kind: Touch, ID: 3, Contacts: 1}) {
		t.Error("pen-only mode accepted touch input")
	}
	if !c.Start(target, Event{Kind: Pen, ID: 4, Contacts: 1}) {
		t.Error("pen-only mode rejected pen input")
	}

	c = New(store.New())
	if c.Start(target, Event{Kind: Touch, ID: 5, Contacts: 2}) {
		t.Error("multi-touch start accepted")
	}

	c = New(store.New())
	c.Start(target, Event{Kind: Touch, ID: 6, Contacts: 1})
	if c.Start(target, Event{Kind: Touch, ID: 7, Contacts: 2}) {
		t.Error("second contact accepted while drawing")
	}
}

func TestOtherPointerIgnored(t *testing.T) {
	s := store.New()
	c := New(s)
	target, _ := newTarget(1, 1000, 1000)

	c.Start(target, mouse(100, 100))
	c.Move(Event{Kind: Touch, ID: 9, ClientX: 500, ClientY: 500, Contacts: 2})
	c.End(Event{Kind: Touch, ID: 9, ClientX: 500, ClientY: 500})
	if !c.Active() {
		t.Error("gesture ended by foreign pointer")
	}
	c.End(mouse(100, 100))
	if n := len(s.Points(1)); n != 1 {
		t.Errorf("got %d points, want 1", n)
	}
}

func TestEraserGesture(t *testing.T) {
	s := store.New()
	c := New(s)
	c.Settings.Tool = pdfink.Eraser
	target, r := newTarget(2, 1000, 1000)

	var got []eraser.Segment
	calls := 0
	c.OnErase = func(tg Target, path []eraser.Segment) {
		calls++
		got = path
		if tg.Page != 2 {
			t.Errorf("erase on page %d", tg.Page)
		}
	}

	c.Start(target, mouse(10, 10))
	c.Move(mouse(50, 10))
	c.Move(mouse(51, 10))
	c.Move(mouse(90, 10))
	c.End(mouse(90, 10))

	want := []eraser.Segment{
		{X: 10, Y: 10, LastX: 10, LastY: 10},
		{X: 50, Y: 10, LastX: 10, LastY: 10},
		{X: 90, Y: 10, LastX: 50, LastY: 10},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("eraser path (-want +got):\n%s", d)
	}
	if calls != 1 {
		t.Errorf("OnErase called %d times", calls)
	}
	if len(r.guides) != 3 {
		t.Errorf("painted %d guide steps, want 3", len(r.guides))
	}
	if len(s.PageNumbers()) != 0 || s.Next() != 0 {
		t.Error("eraser gesture changed the store")
	}

	c.Start(target, mouse(10, 10))
	c.Cancel(mouse(10, 10))
	if got != nil || calls != 2 {
		t.Errorf("cancelled gesture: path %v, %d calls", got, calls)
	}
}

func TestCancelKeepsPoints(t *testing.T) {
	s := store.New()
	c := New(s)
	target, _ := newTarget(1, 1000, 1000)

	c.Start(target, mouse(100, 100))
	c.Move(mouse(200, 100))
	c.Cancel(mouse(200, 100))

	if _, open := s.InProgress(); open {
		t.Error("stroke still open")
	}
	if n := len(s.Snapshot()[1]); n != 2 {
		t.Errorf("%d points after cancel, want 2", n)
	}
}
