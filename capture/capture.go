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

// Package capture turns pointer and touch events into stored points.
//
// A [Capturer] follows one gesture at a time.  Pen and highlighter gestures
// append points to a [store.Store] and paint each new segment immediately.
// Eraser gestures leave the store alone; the sampled eraser path is handed
// to a callback when the gesture ends.
//
// The event handlers never block.  They must be called from the goroutine
// which owns the store.
package capture

import (
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pdfink"
	"seehuhn.de/go/pdfink/coord"
	"seehuhn.de/go/pdfink/eraser"
	"seehuhn.de/go/pdfink/store"
)

// DefaultMinDistance is the default debounce distance, in page pixels.
const DefaultMinDistance = 2.0

// Kind describes the device which generated an event.
type Kind uint8

// The supported input devices.
const (
	Mouse Kind = iota
	Touch
	Pen
)

func (k Kind) String() string {
	switch k {
	case Mouse:
		return "mouse"
	case Touch:
		return "touch"
	case Pen:
		return "pen"
	default:
		return "unknown"
	}
}

// Event is a pointer or touch event in client coordinates.
type Event struct {
	Kind Kind

	// ID identifies the pointer.  All events of a gesture share the same ID.
	ID int

	ClientX, ClientY float64

	// Contacts is the number of touch points currently on the surface,
	// including this one.  Mouse and pen events use 1.
	Contacts int
}

// Settings are the drawing parameters chosen by the user.
type Settings struct {
	Disabled  bool
	Tool      pdfink.Tool
	Color     pdfink.Color
	Width     pdfink.Width
	InputMode pdfink.InputMode

	// MinDistance is the distance in page pixels the pointer must move
	// before a new point is recorded.  If this is zero,
	// [DefaultMinDistance] is used.
	MinDistance float64
}

// Accepts reports whether events of the given kind may draw.
func (s *Settings) Accepts(k Kind) bool {
	if s.Disabled {
		return false
	}
	return s.InputMode != pdfink.PenOnly || k != Touch
}

// Painter draws live feedback while a gesture is in progress.
type Painter interface {
	// PaintPoint draws the segment from (p.LastX, p.LastY) to (p.X, p.Y),
	// or a dot if both positions agree.  Coordinates are normalized.
	PaintPoint(p pdfink.Point)

	// PaintGuide draws one step of the dashed eraser guide.
	// Coordinates are in page pixels.
	PaintGuide(s eraser.Segment)
}

// Target is the page canvas a gesture is drawn on.
type Target struct {
	Page      int
	Transform coord.Transform
	Painter   Painter
}

// Capturer is the gesture state machine.
type Capturer struct {
	Settings Settings

	// OnErase is called at the end of an eraser gesture, with the sampled
	// eraser path.  After a cancelled eraser gesture it is called with a nil
	// path, so that the guide can be removed.
	OnErase func(target Target, path []eraser.Segment)

	store *store.Store

	active  bool
	target  Target
	pointer int
	tool    pdfink.Tool
	style   pdfink.Point
	start   vec.Vec2 // page pixels
	last    vec.Vec2 // page pixels
	lastN   vec.Vec2 // normalized
	moves   int
	path    []eraser.Segment
}

// New returns a capturer which records into s.
func New(s *store.Store) *Capturer {
	return &Capturer{
		Settings: Settings{
			Color: pdfink.Black,
			Width: pdfink.DefaultWidth,
		},
		store: s,
	}
}

// Active reports whether a gesture is in progress.
func (c *Capturer) Active() bool {
	return c.active
}

// Start begins a gesture.  It returns false if the event is rejected:
// drawing is disabled, the input device does not match the input mode, a
// gesture is already in progress, or more than one contact touches the
// surface.
func (c *Capturer) Start(target Target, ev Event) bool {
	if !c.Settings.Accepts(ev.Kind) || c.active || ev.Contacts > 1 {
		return false
	}
	if target.Transform.Check() != nil || target.Page < 1 {
		return false
	}

	tool := c.Settings.Tool
	t := target.Transform
	p := t.Page(ev.ClientX, ev.ClientY)

	c.target = target
	c.pointer = ev.ID
	c.tool = tool
	c.start = p
	c.last = p
	c.moves = 0
	c.path = c.path[:0]

	if tool == pdfink.Eraser {
		seg := eraser.Segment{X: p.X, Y: p.Y, LastX: p.X, LastY: p.Y}
		c.path = append(c.path, seg)
		c.paintGuide(seg)
		c.active = true
		return true
	}

	width := float64(c.Settings.Width) * tool.WidthFactor()
	c.style = pdfink.Point{
		LineWidth: t.WidthToNormalized(width),
		Color:     c.Settings.Color,
		Alpha:     tool.Alpha(),
	}
	n := t.Normalize(p)
	pt := c.style
	pt.X, pt.Y, pt.LastX, pt.LastY = n.X, n.Y, n.X, n.Y
	order, err := c.store.Begin(target.Page, pt)
	if err != nil {
		pdfink.Logger().Debug("stroke rejected", "page", target.Page, "err", err)
		return false
	}
	c.style.DrawOrder = order
	pt.DrawOrder = order
	c.lastN = n
	c.paintPoint(pt)

	c.active = true
	return true
}

// Move continues the gesture.  Events from other pointers are ignored, as
// are movements shorter than the debounce distance.
func (c *Capturer) Move(ev Event) {
	if !c.active || ev.ID != c.pointer {
		return
	}
	c.moves++

	p := c.target.Transform.Page(ev.ClientX, ev.ClientY)
	if p.Sub(c.last).Length() <= c.minDistance() {
		return
	}
	c.advance(p)
}

// End finishes the gesture.  The end position is recorded if it lies
// beyond the debounce distance from the last recorded point.  If the
// pointer went straight from start to end without any move event in
// between, any end position other than the start is recorded, so that fast
// flicks are not lost.
func (c *Capturer) End(ev Event) {
	if !c.active || ev.ID != c.pointer {
		return
	}

	p := c.target.Transform.Page(ev.ClientX, ev.ClientY)
	switch {
	case c.moves == 0 && p != c.start:
		c.advance(p)
	case p.Sub(c.last).Length() > c.minDistance():
		c.advance(p)
	}
	c.finish(false)
}

// Cancel aborts the gesture.  Points recorded so far are kept, an eraser
// gesture erases nothing.
func (c *Capturer) Cancel(ev Event) {
	if !c.active || ev.ID != c.pointer {
		return
	}
	c.finish(true)
}

func (c *Capturer) advance(p vec.Vec2) {
	if c.tool == pdfink.Eraser {
		seg := eraser.Segment{X: p.X, Y: p.Y, LastX: c.last.X, LastY: c.last.Y}
		c.path = append(c.path, seg)
		c.paintGuide(seg)
		c.last = p
		return
	}

	n := c.target.Transform.Normalize(p)
	pt := c.style
	pt.X, pt.Y = n.X, n.Y
	pt.LastX, pt.LastY = c.lastN.X, c.lastN.Y
	if err := c.store.Append(pt); err != nil {
		pdfink.Logger().Warn("point dropped", "err", err)
		return
	}
	c.paintPoint(pt)
	c.last = p
	c.lastN = n
}

func (c *Capturer) finish(cancelled bool) {
	target := c.target
	c.active = false
	c.target = Target{}

	if c.tool == pdfink.Eraser {
		var path []eraser.Segment
		if !cancelled {
			path = c.path
		}
		c.path = nil
		if c.OnErase != nil {
			c.OnErase(target, path)
		}
		return
	}

	c.store.End()
}

func (c *Capturer) minDistance() float64 {
	if c.Settings.MinDistance > 0 {
		return c.Settings.MinDistance
	}
	return DefaultMinDistance
}

func (c *Capturer) paintPoint(p pdfink.Point) {
	if c.target.Painter != nil {
		c.target.Painter.PaintPoint(p)
	}
}

func (c *Capturer) paintGuide(s eraser.Segment) {
	if c.target.Painter != nil {
		c.target.Painter.PaintGuide(s)
	}
}

// Reset aborts a gesture in progress without calling OnErase.  Points
// recorded so far are kept.
func (c *Capturer) Reset() {
	if !c.active {
		return
	}
	if c.tool != pdfink.Eraser {
		c.store.End()
	}
	c.active = false
	c.target = Target{}
	c.path = nil
}
