// Package session owns the registry of live game sessions. The manager is
// the only shared mutable map in the server; per-session command locking
// lives inside the game package.
package session

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"merge-tactics-server/config"
	"merge-tactics-server/game"
)

// Store is the session registry seen by command handlers.
type Store interface {
	Get(id string) (*game.Session, bool)
	Put(s *game.Session)
	Remove(id string)
}

// Manager keeps live sessions in memory and knows how to create and restore
// them. Implements Store.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session

	cfg   *config.Config
	cards game.CardSource
	mods  game.ModifierProvider
}

// NewManager creates an empty session manager.
func NewManager(cfg *config.Config, cards game.CardSource, mods game.ModifierProvider) *Manager {
	return &Manager{
		sessions: make(map[string]*game.Session),
		cfg:      cfg,
		cards:    cards,
		mods:     mods,
	}
}

// Create builds a new session from the options, assigns it a fresh ID, and
// registers it.
func (m *Manager) Create(opts game.Options) (*game.Session, error) {
	opts.ID = uuid.NewString()
	opts.Cards = m.cards
	opts.Mods = m.mods

	s, err := game.NewSession(m.cfg, opts)
	if err != nil {
		return nil, err
	}
	m.Put(s)
	return s, nil
}

// Restore rebuilds a session from a saved snapshot and registers it. A
// snapshot without an ID gets a fresh one.
func (m *Manager) Restore(snap game.Snapshot) (*game.Session, error) {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	s, err := game.Restore(m.cfg, snap, m.cards, m.mods)
	if err != nil {
		return nil, err
	}
	m.Put(s)
	return s, nil
}

// Get returns the live session with the given ID.
func (m *Manager) Get(id string) (*game.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Put registers (or replaces) a session.
func (m *Manager) Put(s *game.Session) {
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
}

// Remove evicts a session. Removing an unknown ID is a no-op.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	if _, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		slog.Info("session removed", "tag", "session", "session", id)
	}
	m.mu.Unlock()
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
