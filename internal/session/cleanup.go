package session

import (
	"log/slog"
	"time"
)

// cleanupLoop runs in a background goroutine and periodically removes
// expired sessions and abandoned login flows. It stops when the
// stopCleanup channel is closed.
func (m *Manager) cleanupLoop() {
	for {
		select {
		case <-m.cleanupTicker.C:
			m.cleanup()
		case <-m.stopCleanup:
			return
		}
	}
}

// cleanup sweeps expired sessions and pending flows. An expired session
// simply disappears; the next request from that browser behaves as
// anonymous.
func (m *Manager) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	expiredSessions := 0
	expiredFlows := 0

	for id, sess := range m.sessions {
		if now.After(sess.ExpiresAt) {
			delete(m.sessions, id)
			expiredSessions++
		}
	}

	for state, flow := range m.flows {
		if now.After(flow.ExpiresAt) {
			delete(m.flows, state)
			expiredFlows++
		}
	}

	if expiredSessions > 0 || expiredFlows > 0 {
		slog.Info("cleaned up expired entries",
			"sessions", expiredSessions,
			"flows", expiredFlows,
		)
	}
}
