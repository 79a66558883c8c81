package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// flowTimeout bounds how long a login attempt may sit between the redirect
// to the provider and the callback.
const flowTimeout = 10 * time.Minute

// Manager stores sessions and pending login flows in-memory with TTL-based
// cleanup. It is the only shared mutable state in the gateway and is safe
// for concurrent use; reads never block writes to a different key beyond
// the duration of a map access.
type Manager struct {
	mu             sync.RWMutex
	sessions       map[string]*Session     // sessionID -> Session
	flows          map[string]*PendingFlow // state -> PendingFlow
	sessionTimeout time.Duration
	cleanupTicker  *time.Ticker
	stopCleanup    chan struct{}
}

// NewManager creates a new session manager with the specified session
// timeout. It starts a background cleanup goroutine that runs every minute.
func NewManager(sessionTimeout time.Duration) *Manager {
	m := &Manager{
		sessions:       make(map[string]*Session),
		flows:          make(map[string]*PendingFlow),
		sessionTimeout: sessionTimeout,
		cleanupTicker:  time.NewTicker(1 * time.Minute),
		stopCleanup:    make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

// Stop stops the session manager's cleanup goroutine.
// Call this when shutting down the server.
func (m *Manager) Stop() {
	m.cleanupTicker.Stop()
	close(m.stopCleanup)
}

// BeginFlow records a pending login flow keyed by its state parameter.
// It is called when an anonymous visit gets its authorization URL.
func (m *Manager) BeginFlow(state, codeVerifier string) {
	now := time.Now()

	m.mu.Lock()
	m.flows[state] = &PendingFlow{
		State:        state,
		CodeVerifier: codeVerifier,
		CreatedAt:    now,
		ExpiresAt:    now.Add(flowTimeout),
	}
	m.mu.Unlock()
}

// TakeFlow removes and returns the pending flow for state. A flow can be
// taken exactly once; a second callback with the same state finds nothing.
// Returns an error if the flow is unknown or expired.
func (m *Manager) TakeFlow(state string) (*PendingFlow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	flow, ok := m.flows[state]
	if !ok {
		return nil, fmt.Errorf("login flow not found")
	}
	delete(m.flows, state)

	if time.Now().After(flow.ExpiresAt) {
		return nil, fmt.Errorf("login flow expired")
	}

	return flow, nil
}

// Create stores a new session for an authenticated identity and returns it.
// The session ID is generated with crypto/rand (64 hex characters).
// Role may be empty for an authenticated identity without a directory entry.
func (m *Manager) Create(name, email, accessToken, role string) (*Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := time.Now()
	sess := &Session{
		ID:          sessionID,
		Name:        name,
		Email:       email,
		AccessToken: accessToken,
		Role:        role,
		LoggedIn:    true,
		CreatedAt:   now,
		ExpiresAt:   now.Add(m.sessionTimeout),
	}

	m.mu.Lock()
	m.sessions[sessionID] = sess
	m.mu.Unlock()

	return sess, nil
}

// Get retrieves a session by its ID.
// Returns an error if the session is not found or has expired.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session not found")
	}

	if time.Now().After(sess.ExpiresAt) {
		return nil, fmt.Errorf("session expired")
	}

	return sess, nil
}

// Delete removes a session. Deleting an unknown or already-deleted session
// is a no-op, so logout is idempotent.
func (m *Manager) Delete(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// Count returns the current number of stored sessions (including ones that
// expired but were not yet swept). Used for monitoring and tests.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID generates a cryptographically secure random session ID.
// The ID is 64 hex characters (32 random bytes).
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
