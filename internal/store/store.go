// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/MaxRosokha/mood-bot/internal/domain"
)

// ErrEntryNotFound is returned when an entry id does not exist.
var ErrEntryNotFound = errors.New("mood entry not found")

// Repository defines the persistence contract for users and mood entries.
// Every operation is an atomic unit; no transaction spans two calls.
type Repository interface {
	// UpsertUser creates a user on first contact. Re-upserting an
	// existing user is a no-op; users are never mutated after creation.
	UpsertUser(ctx context.Context, user *domain.User) error

	// CreateMoodEntry inserts a new entry with an empty note and returns
	// its monotonic id.
	CreateMoodEntry(ctx context.Context, userID int64, mood domain.Mood) (int64, error)

	// SetNote attaches freeform text to an existing entry. Returns
	// ErrEntryNotFound if the id is unknown.
	SetNote(ctx context.Context, entryID int64, text string) error

	// ListUserIDs returns the ids of all known users, for broadcast fan-out.
	ListUserIDs(ctx context.Context) ([]int64, error)

	// EntriesSince returns the moods a user recorded after the given
	// instant, in insertion order.
	EntriesSince(ctx context.Context, userID int64, since time.Time) ([]domain.Mood, error)

	// RecentEntries returns up to limit of the user's entries, newest first.
	RecentEntries(ctx context.Context, userID int64, limit int) ([]*domain.MoodEntry, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
