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

// Package engine holds the annotation state of one open document.
//
// The engine ties the other packages together: pointer events go to a
// [capture.Capturer] which records into a [store.Store], page canvases are
// redrawn by [render], eraser gestures are resolved by [eraser], and
// documents are read and written by [inkpdf].
//
// An Engine is not safe for concurrent use.  It must be owned by a single
// goroutine, for example the session loop of package bridge.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"golang.org/x/exp/maps"

	"seehuhn.de/go/pdfink"
	"seehuhn.de/go/pdfink/capture"
	"seehuhn.de/go/pdfink/coord"
	"seehuhn.de/go/pdfink/eraser"
	"seehuhn.de/go/pdfink/inkpdf"
	"seehuhn.de/go/pdfink/render"
	"seehuhn.de/go/pdfink/store"
)

// Options are the initial settings of an engine.
type Options struct {
	Color     pdfink.Color
	Width     pdfink.Width
	InputMode pdfink.InputMode

	// MinDistance is the debounce distance for pointer moves, in page
	// pixels.  Zero selects [capture.DefaultMinDistance].
	MinDistance float64

	// Producer is recorded in exported files.
	Producer string
}

// Engine is the annotation state of one document.
type Engine struct {
	store    *store.Store
	capture  *capture.Capturer
	views    map[int]*view
	doc      *Document
	producer string
	current  int
}

// view is the on-screen state of one rendered page.
type view struct {
	transform coord.Transform
	canvas    *render.Canvas
}

// New returns an engine without a document.
func New(opt *Options) *Engine {
	s := store.New()
	e := &Engine{
		store:   s,
		capture: capture.New(s),
		views:   make(map[int]*view),
	}
	if opt != nil {
		if opt.Color.IsValid() {
			e.capture.Settings.Color = opt.Color
		}
		if opt.Width.IsValid() {
			e.capture.Settings.Width = opt.Width
		}
		e.capture.Settings.InputMode = opt.InputMode
		e.capture.Settings.MinDistance = opt.MinDistance
		e.producer = opt.Producer
	}
	e.capture.OnErase = e.onErase
	return e
}

// Settings returns the current drawing settings.
func (e *Engine) Settings() capture.Settings {
	return e.capture.Settings
}

// SetTool selects pen, highlighter or eraser.
func (e *Engine) SetTool(t pdfink.Tool) {
	e.capture.Settings.Tool = t
}

// SetColor selects the ink color.
func (e *Engine) SetColor(c pdfink.Color) error {
	if !c.IsValid() {
		return fmt.Errorf("invalid color %d", c)
	}
	e.capture.Settings.Color = c
	return nil
}

// SetWidth selects the stroke width.
func (e *Engine) SetWidth(w pdfink.Width) error {
	if !w.IsValid() {
		return fmt.Errorf("width %d not in %v", w, pdfink.Widths)
	}
	e.capture.Settings.Width = w
	return nil
}

// SetInputMode selects which input devices may draw.
func (e *Engine) SetInputMode(m pdfink.InputMode) {
	e.capture.Settings.InputMode = m
}

// SetEnabled switches drawing on or off.  While drawing is off, pointer
// events are ignored so that the page can be scrolled.
func (e *Engine) SetEnabled(enabled bool) {
	e.capture.Settings.Disabled = !enabled
}

// Load reads a PDF file and installs it as the current document.
// On failure the engine is left without a document and the error is
// returned.
func (e *Engine) Load(ctx context.Context, data, paths []byte, password string) error {
	doc, err := Open(ctx, data, paths, password)
	if err != nil {
		e.Unload()
		return err
	}
	e.SetDocument(doc)
	return nil
}

// SetDocument installs a document opened by [Open].  All previous
// strokes and canvases are discarded.
func (e *Engine) SetDocument(doc *Document) {
	e.Unload()
	e.doc = doc
	e.store.Replace(doc.pages)
	e.current = 1

	pdfink.Logger().Info("document loaded",
		"pages", doc.NumPages(), "inkPages", len(doc.pages.PageNumbers()))
}

// Unload discards the document, all strokes and all canvases.
func (e *Engine) Unload() {
	e.capture.Reset()
	e.store.ClearAll()
	for _, v := range e.views {
		v.canvas.Close()
	}
	clear(e.views)
	e.doc = nil
	e.current = 0
}

// Document returns the current document, or nil.
func (e *Engine) Document() *Document {
	return e.doc
}

// NumPages returns the number of pages of the current document.
func (e *Engine) NumPages() int {
	if e.doc == nil {
		return 0
	}
	return e.doc.NumPages()
}

// CurrentPage returns the page last selected by [Engine.JumpToPage].
func (e *Engine) CurrentPage() int {
	return e.current
}

// JumpToPage selects the current page.
func (e *Engine) JumpToPage(page int) error {
	if e.doc == nil {
		return ErrNoDocument
	}
	if page < 1 || page > e.doc.NumPages() {
		return fmt.Errorf("page %d out of range 1-%d", page, e.doc.NumPages())
	}
	e.current = page
	return nil
}

// PageRendered is called when a page has been laid out on screen.
// The ink canvas of the page is recreated at the new size and redrawn.
func (e *Engine) PageRendered(page int, t coord.Transform) error {
	if err := t.Check(); err != nil {
		return err
	}
	if page < 1 {
		return fmt.Errorf("invalid page %d", page)
	}
	w := int(math.Round(t.PageWidth))
	h := int(math.Round(t.PageHeight))

	v := e.views[page]
	if v == nil {
		v = &view{}
		e.views[page] = v
	}
	v.transform = t
	if v.canvas != nil {
		if cw, ch := v.canvas.Size(); cw != w || ch != h {
			v.canvas.Close()
			v.canvas = nil
		}
	}
	if v.canvas == nil {
		v.canvas = render.NewCanvas(w, h)
	}
	v.canvas.Redraw(e.store.Points(page))
	return nil
}

// PageHidden releases the canvas of a page which is no longer visible.
func (e *Engine) PageHidden(page int) {
	if v := e.views[page]; v != nil {
		v.canvas.Close()
		delete(e.views, page)
	}
}

// Canvas returns the ink canvas of a rendered page, or nil.
func (e *Engine) Canvas(page int) *render.Canvas {
	if v := e.views[page]; v != nil {
		return v.canvas
	}
	return nil
}

// PointerDown starts a gesture on a rendered page.  It reports whether the
// event was accepted.
func (e *Engine) PointerDown(page int, ev capture.Event) bool {
	v := e.views[page]
	if v == nil || e.doc == nil {
		return false
	}
	target := capture.Target{Page: page, Transform: v.transform, Painter: v.canvas}
	return e.capture.Start(target, ev)
}

// PointerMove continues a gesture.
func (e *Engine) PointerMove(ev capture.Event) {
	e.capture.Move(ev)
}

// PointerUp finishes a gesture.  The page is redrawn from the store, so
// that overlapping live segments of a highlighter stroke are replaced by a
// single translucent path.
func (e *Engine) PointerUp(ev capture.Event) {
	page, drawing := e.store.InProgress()
	e.capture.End(ev)
	if drawing && !e.capture.Active() {
		e.redraw(page)
	}
}

// PointerCancel aborts a gesture.
func (e *Engine) PointerCancel(ev capture.Event) {
	page, drawing := e.store.InProgress()
	e.capture.Cancel(ev)
	if drawing && !e.capture.Active() {
		e.redraw(page)
	}
}

// onErase is called by the capturer at the end of an eraser gesture.
func (e *Engine) onErase(target capture.Target, path []eraser.Segment) {
	if len(path) > 0 {
		radius := float64(e.capture.Settings.Width)
		removed := eraser.Erase(e.store, target.Page, path, radius, target.Transform)
		if len(removed) > 0 {
			pdfink.Logger().Debug("strokes erased", "page", target.Page, "drawOrders", removed)
		}
	}
	// the redraw also removes the eraser guide
	e.redraw(target.Page)
}

// EraseAllOnPage removes all strokes of one page.
func (e *Engine) EraseAllOnPage(page int) {
	if p, ok := e.store.InProgress(); ok && p == page {
		e.capture.Reset()
	}
	e.store.ClearPage(page)
	e.redraw(page)
}

// EraseAll removes all strokes of all pages.
func (e *Engine) EraseAll() {
	e.capture.Reset()
	e.store.ClearAll()
	e.redrawAll()
}

// Paths returns a copy of all finished strokes.
func (e *Engine) Paths() pdfink.Pages {
	return e.store.Snapshot()
}

// PathsJSON returns the JSON form of all finished strokes.
func (e *Engine) PathsJSON() ([]byte, error) {
	return json.Marshal(e.store.Snapshot())
}

// SetPaths replaces all strokes.
func (e *Engine) SetPaths(p pdfink.Pages) error {
	if err := p.Check(); err != nil {
		return err
	}
	e.capture.Reset()
	e.store.Replace(p)
	e.redrawAll()
	return nil
}

// PrepareExport takes a snapshot of the strokes for writing the document.
// A stroke which is still being drawn is not included.
func (e *Engine) PrepareExport(flatten bool) (*ExportJob, error) {
	if e.doc == nil {
		return nil, ErrNoDocument
	}
	return &ExportJob{
		src:   e.doc.data,
		pages: e.store.Snapshot(),
		opt: inkpdf.Options{
			Password: e.doc.password,
			Flatten:  flatten,
			Producer: e.producer,
		},
	}, nil
}

// Export returns the document with all finished strokes added.
func (e *Engine) Export(flatten bool) ([]byte, error) {
	job, err := e.PrepareExport(flatten)
	if err != nil {
		return nil, err
	}
	return job.Bytes()
}

// Thumbnail renders the strokes of a page into a small canvas.  The page
// size is taken from the document.
func (e *Engine) Thumbnail(page, maxSide int) (*render.Canvas, error) {
	if e.doc == nil {
		return nil, ErrNoDocument
	}
	box, ok := e.doc.PageBox(page)
	if !ok {
		return nil, fmt.Errorf("page %d out of range 1-%d", page, e.doc.NumPages())
	}
	return render.Thumbnail(e.store.Points(page), box.Width(), box.Height(), maxSide), nil
}

func (e *Engine) redraw(page int) {
	if v := e.views[page]; v != nil {
		v.canvas.Redraw(e.store.Points(page))
	}
}

func (e *Engine) redrawAll() {
	pages := maps.Keys(e.views)
	slices.Sort(pages)
	for _, page := range pages {
		e.redraw(page)
	}
}
