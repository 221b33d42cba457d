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

// Package store holds the canonical ink of a document.
//
// A [Store] keeps one ordered point stream per page and the document-wide
// draw order counter.  Points are only ever appended by stroke capture and
// removed, stroke by stroke, by the eraser.  A Store is not safe for
// concurrent use; it is owned by the goroutine which processes input events.
// Other goroutines work on a [Store.Snapshot].
package store

import (
	"errors"
	"slices"

	"seehuhn.de/go/pdfink"
)

// Store is the per-document point storage.
type Store struct {
	pages pdfink.Pages
	next  pdfink.DrawOrder
	open  *openStroke
}

type openStroke struct {
	page  int
	order pdfink.DrawOrder
	n     int
}

// Errors returned by the stroke methods.
var (
	ErrStrokeOpen = errors.New("a stroke is already in progress")
	ErrNoStroke   = errors.New("no stroke in progress")
	ErrBadPage    = errors.New("invalid page number")
)

// New returns an empty store.
func New() *Store {
	return &Store{pages: pdfink.Pages{}}
}

// Next returns the draw order which will be assigned to the next stroke.
func (s *Store) Next() pdfink.DrawOrder {
	return s.next
}

// Begin starts a new stroke on the given page and appends its first point.
// The draw order of pt is overwritten with the current counter value.
func (s *Store) Begin(page int, pt pdfink.Point) (pdfink.DrawOrder, error) {
	if s.open != nil {
		return 0, ErrStrokeOpen
	}
	if page < 1 {
		return 0, ErrBadPage
	}
	pt.DrawOrder = s.next
	s.pages[page] = append(s.pages[page], pt)
	s.open = &openStroke{page: page, order: s.next, n: 1}
	return s.next, nil
}

// Append adds a point to the stroke in progress.
func (s *Store) Append(pt pdfink.Point) error {
	if s.open == nil {
		return ErrNoStroke
	}
	pt.DrawOrder = s.open.order
	s.pages[s.open.page] = append(s.pages[s.open.page], pt)
	s.open.n++
	return nil
}

// End finalizes the stroke in progress and increments the draw order
// counter.  The return values give the draw order of the finished stroke and
// the number of points it has.  If no stroke is in progress, End does
// nothing and returns n == 0.
func (s *Store) End() (order pdfink.DrawOrder, n int) {
	if s.open == nil {
		return 0, 0
	}
	order, n = s.open.order, s.open.n
	s.open = nil
	s.next++

	pdfink.Logger().Debug("stroke finished", "drawOrder", order, "points", n)
	return order, n
}

// InProgress reports whether a stroke is open, and on which page.
func (s *Store) InProgress() (page int, ok bool) {
	if s.open == nil {
		return 0, false
	}
	return s.open.page, true
}

// Points returns the point stream of a page.  The returned slice is owned by
// the store and must not be modified.
func (s *Store) Points(page int) []pdfink.Point {
	return s.pages[page]
}

// PageNumbers lists the pages which carry at least one point, in increasing
// order.
func (s *Store) PageNumbers() []int {
	var res []int
	for _, page := range s.pages.PageNumbers() {
		if len(s.pages[page]) > 0 {
			res = append(res, page)
		}
	}
	return res
}

// Remove deletes all points of the page whose draw order is in the set.
// It returns the number of points removed.  Points of an open stroke are
// never removed.
func (s *Store) Remove(page int, orders map[pdfink.DrawOrder]bool) int {
	points := s.pages[page]
	if len(points) == 0 || len(orders) == 0 {
		return 0
	}

	var keepOpen pdfink.DrawOrder
	hasOpen := s.open != nil && s.open.page == page
	if hasOpen {
		keepOpen = s.open.order
	}

	kept := slices.DeleteFunc(slices.Clone(points), func(p pdfink.Point) bool {
		if hasOpen && p.DrawOrder == keepOpen {
			return false
		}
		return orders[p.DrawOrder]
	})
	removed := len(points) - len(kept)
	s.setPage(page, kept)
	return removed
}

// ClearPage removes all points of a page.  A stroke in progress on the page
// is abandoned.  The draw order counter is not reset.
func (s *Store) ClearPage(page int) {
	if s.open != nil && s.open.page == page {
		s.abandon()
	}
	delete(s.pages, page)
}

// ClearAll removes all points of all pages.  The draw order counter is not
// reset.
func (s *Store) ClearAll() {
	if s.open != nil {
		s.abandon()
	}
	s.pages = pdfink.Pages{}
}

// abandon closes the open stroke.  The draw order stays used.
func (s *Store) abandon() {
	s.open = nil
	s.next++
}

// Snapshot returns a deep copy of all finished strokes.  Points of a stroke
// which is still in progress are omitted, so that a snapshot never contains
// half-drawn strokes.
func (s *Store) Snapshot() pdfink.Pages {
	res := make(pdfink.Pages, len(s.pages))
	for page, points := range s.pages {
		if s.open != nil && s.open.page == page {
			order := s.open.order
			points = slices.DeleteFunc(slices.Clone(points), func(p pdfink.Point) bool {
				return p.DrawOrder == order
			})
		} else {
			points = slices.Clone(points)
		}
		if len(points) > 0 {
			res[page] = points
		}
	}
	return res
}

// Replace discards the current contents of the store and installs the given
// pages instead.  The draw order counter is advanced past the largest draw
// order found in p, and never decreases.
func (s *Store) Replace(p pdfink.Pages) {
	s.open = nil
	s.pages = p.Clone()
	if last, ok := p.MaxDrawOrder(); ok && last >= s.next {
		s.next = last + 1
	}
}

func (s *Store) setPage(page int, points []pdfink.Point) {
	if len(points) == 0 {
		delete(s.pages, page)
		return
	}
	s.pages[page] = points
}
