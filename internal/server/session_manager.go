package server

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// sessionInfo tracks session metadata for cleanup
type sessionInfo struct {
	account    string
	lastAccess time.Time
}

// SessionIDManager implements session management for multi-account support.
// Each session maps to an account, and the session ID keys the two-phase
// delete: a proposal made in one session can only be confirmed by the same
// session. Expired sessions drop their pending proposals via the onExpire
// hook.
type SessionIDManager struct {
	sessions       map[string]*sessionInfo
	mu             sync.RWMutex
	cleanupTicker  *time.Ticker
	cleanupDone    chan bool
	sessionTimeout time.Duration
	onExpire       func(sessionID string)
	logger         *slog.Logger
}

// NewSessionIDManager creates a new session ID manager with default logger
func NewSessionIDManager() *SessionIDManager {
	return NewSessionIDManagerWithLogger(24*time.Hour, slog.Default())
}

// NewSessionIDManagerWithLogger creates a new session ID manager with custom timeout and logger
func NewSessionIDManagerWithLogger(timeout time.Duration, logger *slog.Logger) *SessionIDManager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &SessionIDManager{
		sessions:       make(map[string]*sessionInfo),
		cleanupTicker:  time.NewTicker(10 * time.Minute),
		cleanupDone:    make(chan bool),
		sessionTimeout: timeout,
		logger:         logger,
	}

	go m.cleanupExpiredSessions()

	return m
}

// SetOnExpire registers a hook invoked with each expired session ID.
// Used to discard a session's pending deletion proposal.
func (m *SessionIDManager) SetOnExpire(fn func(sessionID string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = fn
}

// ErrNoAuthorizationHeader is returned when no Authorization header is provided
var ErrNoAuthorizationHeader = errors.New("no authorization header provided")

// ResolveSessionID resolves the session ID from an HTTP request.
// The Bearer token in the Authorization header determines which session
// (account) the request belongs to.
func (m *SessionIDManager) ResolveSessionID(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrNoAuthorizationHeader
	}

	return m.generateSessionID(authHeader), nil
}

// GetAccountForSession returns the account associated with a session ID
func (m *SessionIDManager) GetAccountForSession(sessionID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if info, ok := m.sessions[sessionID]; ok {
		info.lastAccess = time.Now()
		return info.account
	}
	return "default"
}

// TrackSession registers a session ID so it participates in expiry
// cleanup. The account binding stays at "default" until a tool sets one.
func (m *SessionIDManager) TrackSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if info, ok := m.sessions[sessionID]; ok {
		info.lastAccess = time.Now()
		return
	}
	m.sessions[sessionID] = &sessionInfo{
		account:    "default",
		lastAccess: time.Now(),
	}
}

// SetAccountForSession associates an account with a session ID
func (m *SessionIDManager) SetAccountForSession(sessionID, account string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = &sessionInfo{
		account:    account,
		lastAccess: time.Now(),
	}
}

// generateSessionID creates a stable session ID from the auth token
func (m *SessionIDManager) generateSessionID(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// RemoveSession removes a session from the manager
func (m *SessionIDManager) RemoveSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// ListSessions returns all active session IDs
func (m *SessionIDManager) ListSessions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]string, 0, len(m.sessions))
	for sessionID := range m.sessions {
		sessions = append(sessions, sessionID)
	}
	return sessions
}

// cleanupExpiredSessions periodically removes expired sessions
func (m *SessionIDManager) cleanupExpiredSessions() {
	for {
		select {
		case <-m.cleanupTicker.C:
			m.expireSessions()
		case <-m.cleanupDone:
			return
		}
	}
}

// expireSessions runs one expiry pass, dropping sessions idle past the
// timeout and invoking the onExpire hook for each.
func (m *SessionIDManager) expireSessions() {
	m.mu.Lock()
	now := time.Now()
	var expired []string
	for sessionID, info := range m.sessions {
		if now.Sub(info.lastAccess) > m.sessionTimeout {
			delete(m.sessions, sessionID)
			expired = append(expired, sessionID)
		}
	}
	onExpire := m.onExpire
	m.mu.Unlock()

	if onExpire != nil {
		for _, sessionID := range expired {
			onExpire(sessionID)
		}
	}
	if len(expired) > 0 {
		m.logger.Info("Cleaned up expired sessions", "count", len(expired))
	}
}

// Stop stops the session cleanup goroutine
func (m *SessionIDManager) Stop() {
	if m.cleanupTicker != nil {
		m.cleanupTicker.Stop()
	}
	if m.cleanupDone != nil {
		close(m.cleanupDone)
	}
}
