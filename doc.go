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

// Package pdfink implements freehand ink annotations for PDF pages.
//
// Ink is kept as a flat, ordered stream of [Point] values per page.  All
// positions are fractions of the page width and height, so annotations
// survive zooming, resizing and re-rendering at a different resolution.
// Consecutive points which share an endpoint form a stroke, and all points of
// one stroke share a [DrawOrder].
//
// The sub-packages implement the parts of the engine:
//
//   - coord converts between screen, page-pixel and normalized coordinates,
//   - store owns the per-page point streams,
//   - stroke reconstructs strokes from a point stream,
//   - capture turns pointer events into points,
//   - render draws strokes onto a canvas,
//   - eraser removes strokes touched by an eraser gesture,
//   - inkpdf reads and writes strokes as PDF ink annotations,
//   - engine and bridge tie everything together for a host application.
package pdfink
