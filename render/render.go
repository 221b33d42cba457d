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

// Package render draws ink strokes into raster images.
//
// All drawing is done with a [gg.Context] whose size is the current size of
// the page in page pixels.  Stored points are converted to page pixels at
// drawing time, so a canvas can be recreated at any size without losing
// precision.
package render

import (
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"

	"seehuhn.de/go/pdfink"
	"seehuhn.de/go/pdfink/eraser"
	"seehuhn.de/go/pdfink/stroke"
)

// Guide style for the eraser feedback.
var guideColor = gg.Hex("#808080")

const (
	guideWidth = 1.5
	guideOn    = 6.0
	guideOff   = 4.0
)

// Canvas is the ink layer of one page.
type Canvas struct {
	dc            *gg.Context
	width, height int

	// guidePhase is the position within the dash pattern where the next
	// guide segment starts.
	guidePhase float64
}

// NewCanvas allocates a transparent canvas of the given size in page
// pixels.
func NewCanvas(width, height int) *Canvas {
	width = max(width, 1)
	height = max(height, 1)
	return &Canvas{
		dc:     gg.NewContext(width, height),
		width:  width,
		height: height,
	}
}

// Size returns the canvas dimensions in page pixels.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Redraw clears the canvas and draws all strokes of the point stream.
// Calling Redraw twice with the same points gives identical pixels.
func (c *Canvas) Redraw(points []pdfink.Point) {
	c.dc.Clear()
	c.dc.ClearPath()
	c.guidePhase = 0
	Draw(c.dc, stroke.Groups(points), float64(c.width), float64(c.height))
}

// PaintPoint draws the newest segment of a stroke in progress.
func (c *Canvas) PaintPoint(p pdfink.Point) {
	w, h := float64(c.width), float64(c.height)
	setStyle(c.dc, p.Color, p.Alpha, p.LineWidth*w)
	if p.IsStart() {
		drawDot(c.dc, p.X*w, p.Y*h, p.LineWidth*w)
		return
	}
	c.dc.MoveTo(p.LastX*w, p.LastY*h)
	c.dc.LineTo(p.X*w, p.Y*h)
	strokePath(c.dc)
}

// PaintGuide draws one step of the dashed eraser guide.  The guide is
// removed by the next [Canvas.Redraw].
func (c *Canvas) PaintGuide(s eraser.Segment) {
	dx, dy := s.X-s.LastX, s.Y-s.LastY
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	dc := c.dc
	dc.SetColor(guideColor.Color())
	dc.SetLineWidth(guideWidth)
	dc.SetLineCap(gg.LineCapButt)

	// The dash pattern continues across segments.
	period := guideOn + guideOff
	pos := 0.0
	for pos < length {
		phase := math.Mod(c.guidePhase+pos, period)
		if phase < guideOn {
			end := math.Min(length, pos+guideOn-phase)
			dc.MoveTo(s.LastX+dx*pos/length, s.LastY+dy*pos/length)
			dc.LineTo(s.LastX+dx*end/length, s.LastY+dy*end/length)
			pos = end
		} else {
			pos += period - phase
		}
	}
	strokePath(dc)
	c.guidePhase = math.Mod(c.guidePhase+length, period)
}

// Image returns the current canvas contents.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// EncodePNG writes the canvas contents in PNG format.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

// Close releases the drawing context.
func (c *Canvas) Close() error {
	return c.dc.Close()
}

// Draw paints the given strokes onto dc, for a page of the given size in
// pixels.
//
// Single points are drawn as filled dots of diameter LineWidth.  Pen
// strokes use round caps and joins.  Highlighter strokes use butt caps and
// are stroked as a single path, so that overlapping segments do not
// darken.
func Draw(dc *gg.Context, groups []*stroke.Group, width, height float64) {
	for _, g := range groups {
		lw := g.LineWidth * width
		setStyle(dc, g.Color, g.Alpha, lw)

		if g.IsDot() {
			p := g.Points[0]
			drawDot(dc, p.X*width, p.Y*height, lw)
			continue
		}

		for i, v := range g.Vertices() {
			if i == 0 {
				dc.MoveTo(v.X*width, v.Y*height)
			} else {
				dc.LineTo(v.X*width, v.Y*height)
			}
		}
		strokePath(dc)
	}
}

func setStyle(dc *gg.Context, col pdfink.Color, alpha, lineWidth float64) {
	r, g, b := col.RGB()
	dc.SetRGBA(r, g, b, alpha)
	dc.SetLineWidth(lineWidth)
	if alpha < 1 {
		dc.SetLineCap(gg.LineCapButt)
	} else {
		dc.SetLineCap(gg.LineCapRound)
	}
	dc.SetLineJoin(gg.LineJoinRound)
}

func drawDot(dc *gg.Context, x, y, diameter float64) {
	dc.DrawCircle(x, y, diameter/2)
	if err := dc.Fill(); err != nil {
		pdfink.Logger().Warn("cannot draw dot", "err", err)
	}
}

func strokePath(dc *gg.Context) {
	if err := dc.Stroke(); err != nil {
		pdfink.Logger().Warn("cannot stroke path", "err", err)
	}
}
