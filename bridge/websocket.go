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

package bridge

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"seehuhn.de/go/pdfink"
	"seehuhn.de/go/pdfink/engine"
)

// maxMessageSize limits inbound messages.  Documents travel base64 encoded
// inside a single message.
const maxMessageSize = 256 << 20

// WebSocket is a [Transport] which sends each envelope as one JSON text
// message.
type WebSocket struct {
	conn      *websocket.Conn
	closeOnce sync.Once
	closeErr  error
}

// NewWebSocket wraps an established connection.
func NewWebSocket(conn *websocket.Conn) *WebSocket {
	conn.SetReadLimit(maxMessageSize)
	return &WebSocket{conn: conn}
}

// Dial connects to a bridge server.
func Dial(url string) (*WebSocket, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return NewWebSocket(conn), nil
}

// Receive implements [Transport].
func (ws *WebSocket) Receive() (*Envelope, error) {
	env := &Envelope{}
	err := ws.conn.ReadJSON(env)
	if err != nil {
		return nil, err
	}
	return env, nil
}

// Send implements [Transport].
func (ws *WebSocket) Send(env *Envelope) error {
	return ws.conn.WriteJSON(env)
}

// Close implements [Transport].  A close message is sent before the
// connection is shut down.
func (ws *WebSocket) Close() error {
	ws.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		ws.conn.WriteMessage(websocket.CloseMessage, msg)
		ws.closeErr = ws.conn.Close()
	})
	return ws.closeErr
}

// Server accepts WebSocket connections and runs one session per
// connection.
type Server struct {
	Upgrader websocket.Upgrader

	// NewEngine creates the engine for a new connection.
	// If nil, engines with default settings are used.
	NewEngine func() *engine.Engine
}

// ServeHTTP implements [http.Handler].
func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := srv.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied with an HTTP error
		return
	}

	var e *engine.Engine
	if srv.NewEngine != nil {
		e = srv.NewEngine()
	} else {
		e = engine.New(nil)
	}

	log := pdfink.Logger()
	log.Info("bridge connected", "remote", r.RemoteAddr)
	err = NewSession(e, NewWebSocket(conn)).Run(r.Context())
	log.Info("bridge disconnected", "remote", r.RemoteAddr, "err", err)
	e.Unload()
}
