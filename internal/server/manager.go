package server

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kilupskalvis/gitsim/internal/core"
	"github.com/kilupskalvis/gitsim/internal/layout"
	"github.com/kilupskalvis/gitsim/internal/models"
	"github.com/kilupskalvis/gitsim/internal/shell"
)

// ErrTooManySessions is returned when the manager is at capacity.
var ErrTooManySessions = errors.New("too many sessions")

// ErrSessionClosed is returned for a session that was deleted or reaped
// while a caller still held it.
var ErrSessionClosed = errors.New("session closed")

// Session is one playground session. Its simulator state is only touched
// while mu is held.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	lastUsed time.Time
	closed   bool
	sim      *core.Session
}

func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// ManagerConfig holds limits and layout for new sessions.
type ManagerConfig struct {
	Timeout         time.Duration
	MaxSessions     int // zero means unlimited
	CleanupInterval time.Duration
	Params          layout.Params
	Origin          models.Point
}

// DefaultManagerConfig returns reasonable defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Timeout:         30 * time.Minute,
		MaxSessions:     1000,
		CleanupInterval: time.Minute,
		Params:          layout.DefaultParams(),
		Origin:          models.Point{X: 30, Y: 30},
	}
}

// SessionManager owns every live session and reaps idle ones.
type SessionManager struct {
	cfg      ManagerConfig
	logger   *slog.Logger
	now      func() time.Time
	mu       sync.RWMutex
	sessions map[string]*Session
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewSessionManager creates a manager and starts its cleanup loop. Call
// Close to stop it.
func NewSessionManager(cfg ManagerConfig, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}
	sm := &SessionManager{
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}
	sm.wg.Add(1)
	go sm.cleanupLoop()
	return sm
}

// CreateSession creates a new, uninitialized simulator session.
func (sm *SessionManager) CreateSession() (*Session, error) {
	now := sm.now()
	session := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		lastUsed:  now,
		sim: core.NewSession(
			core.WithParams(sm.cfg.Params),
			core.WithOrigin(sm.cfg.Origin.X, sm.cfg.Origin.Y),
			core.WithLogger(sm.logger),
		),
	}

	sm.mu.Lock()
	if sm.cfg.MaxSessions > 0 && len(sm.sessions) >= sm.cfg.MaxSessions {
		sm.mu.Unlock()
		return nil, ErrTooManySessions
	}
	sm.sessions[session.ID] = session
	sm.mu.Unlock()

	sm.logger.Info("session created", "session", session.ID)
	return session, nil
}

// GetSession retrieves a session by ID, or nil.
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// DeleteSession discards a session and closes it for callers still holding
// it. It returns false if there was none.
func (sm *SessionManager) DeleteSession(id string) bool {
	sm.mu.Lock()
	session, ok := sm.sessions[id]
	delete(sm.sessions, id)
	sm.mu.Unlock()

	if !ok {
		return false
	}
	session.close()
	sm.logger.Info("session deleted", "session", id)
	return true
}

// Len returns the number of live sessions
func (sm *SessionManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// Execute runs one command line in session. Commands on the same session are
// serialized. A closed session returns ErrSessionClosed and runs nothing.
func (sm *SessionManager) Execute(session *Session, line string) (shell.Result, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.closed {
		return shell.Result{}, ErrSessionClosed
	}
	session.lastUsed = sm.now()
	return shell.Execute(session.sim, line), nil
}

// Snapshot returns a detached copy of the session's graph.
func (sm *SessionManager) Snapshot(session *Session) models.GraphSnapshot {
	session.mu.Lock()
	defer session.mu.Unlock()

	session.lastUsed = sm.now()
	return session.sim.Snapshot()
}

// Params returns the layout parameters sessions are created with
func (sm *SessionManager) Params() layout.Params {
	return sm.cfg.Params
}

// Close stops the cleanup loop and drops all sessions.
func (sm *SessionManager) Close() {
	close(sm.done)
	sm.wg.Wait()

	sm.mu.Lock()
	sessions := sm.sessions
	sm.sessions = make(map[string]*Session)
	sm.mu.Unlock()

	for _, session := range sessions {
		session.close()
	}
}

// cleanupLoop periodically removes expired sessions.
func (sm *SessionManager) cleanupLoop() {
	defer sm.wg.Done()
	ticker := time.NewTicker(sm.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := sm.reap(); n > 0 {
				sm.logger.Info("expired sessions removed", "count", n)
			}
		case <-sm.done:
			return
		}
	}
}

// reap removes sessions idle for longer than the timeout and returns how
// many it removed.
func (sm *SessionManager) reap() int {
	if sm.cfg.Timeout <= 0 {
		return 0
	}
	now := sm.now()

	sm.mu.RLock()
	var expired []string
	for id, session := range sm.sessions {
		session.mu.Lock()
		idle := now.Sub(session.lastUsed)
		session.mu.Unlock()
		if idle > sm.cfg.Timeout {
			expired = append(expired, id)
		}
	}
	sm.mu.RUnlock()

	for _, id := range expired {
		sm.DeleteSession(id)
	}
	return len(expired)
}
