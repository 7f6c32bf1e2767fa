// Package websocket serves navigation sessions over a single long-lived
// connection, mirroring the HTTP surface operation for operation.
package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
)

// SessionConn is one WebSocket bound to one session.
type SessionConn struct {
	SessionID string
	Conn      *websocket.Conn
	writeMu   sync.Mutex // protects concurrent writes to Conn
}

// WriteJSON sends v as one text message, serialized against the ping loop.
func (sc *SessionConn) WriteJSON(v interface{}) error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()
	return sc.Conn.WriteJSON(v)
}

func (sc *SessionConn) ping() error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()
	return sc.Conn.WriteMessage(websocket.PingMessage, nil)
}

// registry tracks open connections per session so they can be torn down
// when the session closes.
type registry struct {
	mu    sync.RWMutex
	conns map[string]map[*SessionConn]bool
}

var conns = &registry{conns: make(map[string]map[*SessionConn]bool)}

func (r *registry) add(sc *SessionConn) {
	r.mu.Lock()
	set := r.conns[sc.SessionID]
	if set == nil {
		set = make(map[*SessionConn]bool)
		r.conns[sc.SessionID] = set
	}
	set[sc] = true
	r.mu.Unlock()
}

func (r *registry) remove(sc *SessionConn) {
	r.mu.Lock()
	if set := r.conns[sc.SessionID]; set != nil {
		delete(set, sc)
		if len(set) == 0 {
			delete(r.conns, sc.SessionID)
		}
	}
	r.mu.Unlock()
	sc.Conn.Close()
}

func (r *registry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, set := range r.conns {
		n += len(set)
	}
	return n
}

func (r *registry) closeSession(id string) {
	r.mu.RLock()
	targets := make([]*SessionConn, 0, len(r.conns[id]))
	for sc := range r.conns[id] {
		targets = append(targets, sc)
	}
	r.mu.RUnlock()

	// Closing makes each connection's read loop fail, which unregisters it.
	for _, sc := range targets {
		sc.Conn.Close()
	}
}

// ConnectionCount reports the number of open WebSocket connections.
func ConnectionCount() int {
	return conns.count()
}

// CloseSession disconnects every WebSocket bound to the session.
func CloseSession(id string) {
	conns.closeSession(id)
}
