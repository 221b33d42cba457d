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

// Package bridge connects an annotation engine to a host application.
//
// The host and the engine exchange JSON messages wrapped in an [Envelope].
// A [Session] owns one [engine.Engine] and handles all messages on a single
// goroutine.  Slow work, like reading or writing PDF files, runs on helper
// goroutines which post their results back into the session loop.
package bridge

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"seehuhn.de/go/pdfink"
	"seehuhn.de/go/pdfink/engine"
)

// Transport carries envelopes between host and session.
//
// Receive blocks until a message arrives.  Close must unblock a pending
// Receive, which then returns an error.  Send is only called from the
// session loop.
type Transport interface {
	Receive() (*Envelope, error)
	Send(env *Envelope) error
	Close() error
}

// Session serves one host connection.
type Session struct {
	engine *engine.Engine
	t      Transport

	posted chan func()
	done   chan struct{}

	// loadGen identifies the newest load request.  Results of older loads
	// are discarded.
	loadGen    uint64
	cancelLoad context.CancelFunc

	search string

	open      func(ctx context.Context, data, paths []byte, password string) (*engine.Document, error)
	openImage func(ctx context.Context, img []byte) (*engine.Document, error)
}

// NewSession returns a session which serves e over t.
func NewSession(e *engine.Engine, t Transport) *Session {
	return &Session{
		engine:    e,
		t:         t,
		posted:    make(chan func(), 16),
		done:      make(chan struct{}),
		open:      engine.Open,
		openImage: engine.OpenImage,
	}
}

// Run handles messages until the transport fails or ctx is cancelled.
// The transport is closed when Run returns.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	defer s.t.Close()
	defer s.abortLoad()

	type received struct {
		env *Envelope
		err error
	}
	in := make(chan received)
	go func() {
		for {
			env, err := s.t.Receive()
			select {
			case in <- received{env, err}:
			case <-s.done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	log := pdfink.Logger()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-s.posted:
			f()
		case r := <-in:
			if r.err != nil {
				log.Debug("bridge receive", "err", r.err)
				return r.err
			}
			err := s.handle(ctx, r.env)
			if err != nil {
				log.Warn("bridge request failed", "type", r.env.Type, "err", err)
				s.reply(r.env.ID, TypeError, &Error{Message: err.Error()})
			}
		}
	}
}

// Do runs f on the session loop, with exclusive access to the engine.
// It returns false if the session has stopped.
func (s *Session) Do(f func(e *engine.Engine)) bool {
	return s.post(func() { f(s.engine) })
}

// post queues f for the session loop.
func (s *Session) post(f func()) bool {
	select {
	case s.posted <- f:
		return true
	case <-s.done:
		return false
	}
}

func (s *Session) handle(ctx context.Context, env *Envelope) error {
	e := s.engine
	switch env.Type {
	case TypeLoadDocument:
		var m LoadDocument
		if err := env.Decode(&m); err != nil {
			return err
		}
		paths, err := m.pathMap()
		if err != nil {
			return fmt.Errorf("paths: %w", err)
		}
		s.load(ctx, env.ID, func(ctx context.Context) (*engine.Document, error) {
			return s.open(ctx, m.PDF, paths, m.Password)
		})

	case TypeLoadImage:
		var m LoadImage
		if err := env.Decode(&m); err != nil {
			return err
		}
		s.load(ctx, env.ID, func(ctx context.Context) (*engine.Document, error) {
			return s.openImage(ctx, m.Image)
		})

	case TypeUnload:
		s.abortLoad()
		e.Unload()

	case TypeRequestExport:
		var m RequestExport
		if len(env.Payload) > 0 {
			if err := env.Decode(&m); err != nil {
				return err
			}
		}
		job, err := e.PrepareExport(m.Flatten)
		if err != nil {
			s.reply(env.ID, TypeExportResult, &ExportResult{Error: err.Error()})
			return nil
		}
		go func() {
			data, err := job.Bytes()
			res := &ExportResult{PDF: data}
			if err != nil {
				res = &ExportResult{Error: err.Error()}
			}
			s.post(func() { s.reply(env.ID, TypeExportResult, res) })
		}()

	case TypeSetSearchText:
		var m SetSearchText
		if err := env.Decode(&m); err != nil {
			return err
		}
		s.search = NormalizeSearch(m.Text)
		s.reply(env.ID, TypeSearchText, &SearchText{Text: s.search})

	case TypeJumpToPage:
		var m JumpToPage
		if err := env.Decode(&m); err != nil {
			return err
		}
		if err := e.JumpToPage(m.Page); err != nil {
			return err
		}
		s.reply(env.ID, TypePageChanged, &PageChanged{Page: e.CurrentPage()})

	case TypeSetTool:
		var m SetTool
		if err := env.Decode(&m); err != nil {
			return err
		}
		e.SetTool(m.Tool)

	case TypeSetColor:
		var m SetColor
		if err := env.Decode(&m); err != nil {
			return err
		}
		return e.SetColor(m.Color)

	case TypeSetWidth:
		var m SetWidth
		if err := env.Decode(&m); err != nil {
			return err
		}
		return e.SetWidth(m.Width)

	case TypeSetInputMode:
		var m SetInputMode
		if err := env.Decode(&m); err != nil {
			return err
		}
		e.SetInputMode(m.Mode)

	case TypeErasePage:
		var m ErasePage
		if err := env.Decode(&m); err != nil {
			return err
		}
		e.EraseAllOnPage(m.Page)

	case TypeEraseAll:
		e.EraseAll()

	case TypeRequestPaths:
		data, err := e.PathsJSON()
		if err != nil {
			return err
		}
		s.send(&Envelope{Type: TypePaths, ID: env.ID, Payload: data})

	default:
		return fmt.Errorf("unknown message type %q", env.Type)
	}
	return nil
}

// load opens a document on a helper goroutine.  A newer load or an unload
// cancels the context of an older load, and its result is dropped.
func (s *Session) load(ctx context.Context, id string, open func(context.Context) (*engine.Document, error)) {
	s.abortLoad()
	s.loadGen++
	gen := s.loadGen
	ctx, cancel := context.WithCancel(ctx)
	s.cancelLoad = cancel

	go func() {
		doc, err := open(ctx)
		s.post(func() {
			if gen != s.loadGen {
				pdfink.Logger().Debug("stale load discarded", "id", id)
				return
			}
			s.cancelLoad = nil
			cancel()
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				s.engine.Unload()
				s.reply(id, TypeDocumentLoaded, &DocumentLoaded{Error: err.Error()})
				return
			}
			s.engine.SetDocument(doc)
			s.reply(id, TypeDocumentLoaded, &DocumentLoaded{Pages: doc.NumPages()})
		})
	}()
}

func (s *Session) abortLoad() {
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}
	s.loadGen++
}

func (s *Session) reply(id, typ string, payload any) {
	env, err := NewEnvelope(typ, id, payload)
	if err != nil {
		pdfink.Logger().Error("bridge encode", "type", typ, "err", err)
		return
	}
	s.send(env)
}

func (s *Session) send(env *Envelope) {
	err := s.t.Send(env)
	if err != nil {
		pdfink.Logger().Warn("bridge send", "type", env.Type, "err", err)
	}
}

// NormalizeSearch brings a search string into a canonical form for
// matching: Unicode NFC with full case folding.
func NormalizeSearch(text string) string {
	return cases.Fold().String(norm.NFC.String(text))
}
