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
	"fmt"
	"slices"

	"golang.org/x/exp/maps"
)

// Pages maps 1-based page numbers to the point stream of the page.
// The order of points within a page is significant.
//
// The JSON form is the one exchanged with host applications:
//
//	{"1": [{"x": 0.1, "y": 0.1, "lastX": 0.1, "lastY": 0.1, ...}], ...}
type Pages map[int][]Point

// PageNumbers returns the page numbers in increasing order.
func (p Pages) PageNumbers() []int {
	res := maps.Keys(p)
	slices.Sort(res)
	return res
}

// Clone returns a deep copy of p.
func (p Pages) Clone() Pages {
	res := make(Pages, len(p))
	for page, points := range p {
		res[page] = slices.Clone(points)
	}
	return res
}

// MaxDrawOrder returns the largest draw order used on any page,
// and false if there are no points.
func (p Pages) MaxDrawOrder() (DrawOrder, bool) {
	var res DrawOrder
	found := false
	for _, points := range p {
		for _, pt := range points {
			if !found || pt.DrawOrder > res {
				res = pt.DrawOrder
				found = true
			}
		}
	}
	return res, found
}

// Check verifies all points of all pages.
func (p Pages) Check() error {
	for _, page := range p.PageNumbers() {
		if page < 1 {
			return fmt.Errorf("invalid page number %d", page)
		}
		for i, pt := range p[page] {
			if err := pt.Check(); err != nil {
				return fmt.Errorf("page %d, point %d: %w", page, i, err)
			}
		}
	}
	return nil
}

// DecodePages parses the JSON form of a path map and checks the result.
func DecodePages(data []byte) (Pages, error) {
	var res Pages
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	if err := res.Check(); err != nil {
		return nil, err
	}
	if res == nil {
		res = Pages{}
	}
	return res, nil
}
