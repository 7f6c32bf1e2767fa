// Package services owns the live state behind the HTTP and WebSocket
// surfaces: the registry of navigation sessions and their lifecycle.
package services

import (
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/BBBSnowball/lwip-ftpd/internal/types"
	"github.com/BBBSnowball/lwip-ftpd/vfs"

	"github.com/google/uuid"
)

// ErrUnknownSession is returned for IDs with no live session, either never
// opened or already closed.
var ErrUnknownSession = errors.New("unknown session")

// sweepInterval is how often the janitor looks for idle sessions.
const sweepInterval = time.Minute

// Manager owns every live session. A vfs.Session serves one caller at a
// time, so the manager holds one mutex per session and funnels all work
// through With.
type Manager struct {
	// SessionLogger receives engine diagnostics for every session the
	// manager opens. Assign before the first Open; nil means silent.
	SessionLogger vfs.Logger

	// OnClose runs with the session's ID after every teardown, whether
	// closed explicitly, swept for idleness, or shut down. Assign before
	// the first Open; nil means skipped.
	OnClose func(id string)

	fs       vfs.Filesystem
	root     string
	capacity int
	ttl      time.Duration

	mu       sync.RWMutex
	sessions map[string]*managedSession
	ops      int64
	refusals int64

	stop     chan struct{}
	stopOnce sync.Once
}

type managedSession struct {
	id        string
	createdAt time.Time
	lastUsed  time.Time // guarded by Manager.mu

	mu      sync.Mutex // serializes engine calls
	session *vfs.Session
}

// ManagerMetrics is a point-in-time view of the manager's counters.
type ManagerMetrics struct {
	ActiveSessions int   `json:"activeSessions"`
	Operations     int64 `json:"operations"`
	Refusals       int64 `json:"refusals"`
}

// NewManager creates a session manager whose sessions are all rooted at
// root on fsys, with the given per-session path capacity. Sessions idle for
// longer than ttl are closed in the background; ttl <= 0 disables expiry.
func NewManager(fsys vfs.Filesystem, root string, capacity int, ttl time.Duration) *Manager {
	m := &Manager{
		fs:       fsys,
		root:     root,
		capacity: capacity,
		ttl:      ttl,
		sessions: make(map[string]*managedSession),
		stop:     make(chan struct{}),
	}
	if ttl > 0 {
		go m.janitor()
	}
	return m
}

// Open creates a session at the manager's root and registers it under a
// fresh ID.
func (m *Manager) Open() (*types.SessionInfo, error) {
	opts := []vfs.Option{vfs.WithPathCapacity(m.capacity)}
	if m.SessionLogger != nil {
		opts = append(opts, vfs.WithLogger(m.SessionLogger))
	}
	s, err := vfs.OpenSession(m.fs, m.root, opts...)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	ms := &managedSession{
		id:        uuid.NewString(),
		createdAt: now,
		lastUsed:  now,
		session:   s,
	}
	info := m.snapshot(ms)

	m.mu.Lock()
	m.sessions[ms.id] = ms
	m.mu.Unlock()

	log.Printf("Opened session %s rooted at %s", ms.id, info.Root)
	return info, nil
}

// Info returns a snapshot of the session's state.
func (m *Manager) Info(id string) (*types.SessionInfo, error) {
	m.mu.RLock()
	ms := m.sessions[id]
	m.mu.RUnlock()
	if ms == nil {
		return nil, ErrUnknownSession
	}
	return m.snapshot(ms), nil
}

// With runs fn against the session, serialized with every other caller of
// the same session. The closure must not retain the *vfs.Session.
func (m *Manager) With(id string, fn func(s *vfs.Session) error) error {
	m.mu.Lock()
	ms := m.sessions[id]
	if ms != nil {
		ms.lastUsed = time.Now()
		m.ops++
	}
	m.mu.Unlock()
	if ms == nil {
		return ErrUnknownSession
	}

	ms.mu.Lock()
	err := fn(ms.session)
	ms.mu.Unlock()

	if errors.Is(err, vfs.ErrTraversalRefused) {
		m.mu.Lock()
		m.refusals++
		m.mu.Unlock()
	}
	return err
}

// Close ends the session and forgets its ID.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	ms := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ms == nil {
		return ErrUnknownSession
	}
	m.closeSession(ms)
	log.Printf("Closed session %s", id)
	return nil
}

// Count reports the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Metrics reports the live session count and cumulative operation counters.
// Refusals counts operations rejected for escaping the sandbox.
func (m *Manager) Metrics() ManagerMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return ManagerMetrics{
		ActiveSessions: len(m.sessions),
		Operations:     m.ops,
		Refusals:       m.refusals,
	}
}

// CloseIdle closes every session that was last used before now minus the
// manager's TTL and reports how many it closed. The janitor calls this
// periodically; it is exported so operators can force a sweep.
func (m *Manager) CloseIdle(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-m.ttl)

	m.mu.Lock()
	var expired []*managedSession
	for id, ms := range m.sessions {
		if ms.lastUsed.Before(cutoff) {
			delete(m.sessions, id)
			expired = append(expired, ms)
		}
	}
	m.mu.Unlock()

	for _, ms := range expired {
		m.closeSession(ms)
		log.Printf("Expired idle session %s", ms.id)
	}
	return len(expired)
}

// Shutdown stops the janitor and closes every remaining session. The
// manager must not be used afterwards.
func (m *Manager) Shutdown() {
	m.stopOnce.Do(func() { close(m.stop) })

	m.mu.Lock()
	remaining := make([]*managedSession, 0, len(m.sessions))
	for id, ms := range m.sessions {
		delete(m.sessions, id)
		remaining = append(remaining, ms)
	}
	m.mu.Unlock()

	for _, ms := range remaining {
		m.closeSession(ms)
	}
}

func (m *Manager) janitor() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.CloseIdle(time.Now())
		case <-m.stop:
			return
		}
	}
}

// closeSession waits for any in-flight operation before closing the engine
// session, then notifies OnClose. The entry is already out of the registry,
// so no new work can reach it.
func (m *Manager) closeSession(ms *managedSession) {
	ms.mu.Lock()
	_ = ms.session.Close()
	ms.mu.Unlock()
	if m.OnClose != nil {
		m.OnClose(ms.id)
	}
}

func (m *Manager) snapshot(ms *managedSession) *types.SessionInfo {
	ms.mu.Lock()
	root := ms.session.Root()
	cwd := ms.session.Getwd()
	ms.mu.Unlock()
	if len(root) > 1 {
		root = strings.TrimSuffix(root, "/")
	}

	m.mu.RLock()
	created, used := ms.createdAt, ms.lastUsed
	m.mu.RUnlock()

	return &types.SessionInfo{
		ID:        ms.id,
		Root:      root,
		Cwd:       cwd,
		CreatedAt: created.UTC().Format(time.RFC3339),
		LastUsed:  used.UTC().Format(time.RFC3339),
	}
}
