// Package checkin implements the per-user check-in dialogue state machine.
package checkin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/MaxRosokha/mood-bot/internal/domain"
	"github.com/MaxRosokha/mood-bot/internal/store"
)

// Manager owns the session registry: a mapping from user id to the
// transient check-in session. Sessions are created lazily on Begin and
// destroyed when the dialogue reaches its end (note, skip or cancel).
//
// Events for one user are strictly serialized through a per-user mutex,
// so at most one session is ever authoritative for a user; events for
// different users proceed in parallel.
type Manager struct {
	repo store.Repository

	mu       sync.Mutex
	sessions map[int64]*domain.Session
	locks    map[int64]*sync.Mutex
}

// NewManager creates a session manager backed by the given repository.
func NewManager(repo store.Repository) *Manager {
	return &Manager{
		repo:     repo,
		sessions: make(map[int64]*domain.Session),
		locks:    make(map[int64]*sync.Mutex),
	}
}

// userLock returns the serialization mutex for a user, creating it on
// first use. Locks are tiny and bounded by the user count, so they are
// never reclaimed.
func (m *Manager) userLock(userID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[userID] = lock
	}
	return lock
}

func (m *Manager) session(userID int64) *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[userID]
}

func (m *Manager) setSession(userID int64, s *domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s == nil {
		delete(m.sessions, userID)
		return
	}
	m.sessions[userID] = s
}

// Begin opens a check-in dialogue for the user. No entry is created
// yet. A second Begin while a session is open is rejected so that the
// pending entry id can never be silently overwritten.
func (m *Manager) Begin(ctx context.Context, userID int64) error {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if m.session(userID) != nil {
		return domain.ErrCheckInActive
	}

	m.setSession(userID, &domain.Session{
		UserID: userID,
		State:  domain.StateAwaitingMood,
	})
	slog.Debug("check-in started", "user_id", userID)
	return nil
}

// SelectMood records the chosen mood. Only valid from AwaitingMood;
// creates the entry and moves the session to AwaitingNote. An invalid
// label is rejected without any state change or store write.
func (m *Manager) SelectMood(ctx context.Context, userID int64, label string) (domain.Mood, error) {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session := m.session(userID)
	if session == nil || session.State != domain.StateAwaitingMood {
		return "", domain.ErrNoActiveCheckIn
	}

	mood, err := domain.ParseMood(label)
	if err != nil {
		return "", err
	}

	entryID, err := m.repo.CreateMoodEntry(ctx, userID, mood)
	if err != nil {
		// Session state is not advanced on a store failure.
		return "", fmt.Errorf("create mood entry: %w", err)
	}

	session.State = domain.StateAwaitingNote
	session.PendingEntryID = entryID
	slog.Debug("mood recorded", "user_id", userID, "mood", mood, "entry_id", entryID)
	return mood, nil
}

// SubmitNote attaches the freeform text to the pending entry and closes
// the session. With no open session the text is a no-op error: an older
// entry must never be mutated.
func (m *Manager) SubmitNote(ctx context.Context, userID int64, text string) error {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session := m.session(userID)
	if session == nil || session.State != domain.StateAwaitingNote {
		return domain.ErrNoActiveCheckIn
	}

	if err := m.repo.SetNote(ctx, session.PendingEntryID, text); err != nil {
		return fmt.Errorf("set note: %w", err)
	}

	m.setSession(userID, nil)
	slog.Debug("note saved", "user_id", userID, "entry_id", session.PendingEntryID)
	return nil
}

// SkipNote closes the session without writing a note; the entry keeps
// its post-creation state.
func (m *Manager) SkipNote(ctx context.Context, userID int64) error {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session := m.session(userID)
	if session == nil || session.State != domain.StateAwaitingNote {
		return domain.ErrNoActiveCheckIn
	}

	m.setSession(userID, nil)
	slog.Debug("note skipped", "user_id", userID, "entry_id", session.PendingEntryID)
	return nil
}

// Cancel discards the session from any state, without a store write.
// An already-created entry persists with an absent note. Reports
// whether a session existed.
func (m *Manager) Cancel(ctx context.Context, userID int64) bool {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if m.session(userID) == nil {
		return false
	}
	m.setSession(userID, nil)
	slog.Debug("check-in cancelled", "user_id", userID)
	return true
}

// State reports the user's current dialogue state, if a session is open.
func (m *Manager) State(userID int64) (domain.SessionState, bool) {
	session := m.session(userID)
	if session == nil {
		return "", false
	}
	return session.State, true
}
