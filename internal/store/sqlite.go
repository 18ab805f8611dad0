package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/MaxRosokha/mood-bot/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Repository = (*SQLiteStore)(nil)

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT '',
		joined_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS mood_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		mood TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_user_created ON mood_entries(user_id, created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// UpsertUser creates a user record on first contact. An existing record
// is left untouched: users are never mutated after creation.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user *domain.User) error {
	query := `
	INSERT INTO users (user_id, display_name, joined_at)
	VALUES (?, ?, ?)
	ON CONFLICT(user_id) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.DisplayName, user.JoinedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// CreateMoodEntry inserts a new entry with an empty note.
func (s *SQLiteStore) CreateMoodEntry(ctx context.Context, userID int64, mood domain.Mood) (int64, error) {
	query := `INSERT INTO mood_entries (user_id, mood, note, created_at) VALUES (?, ?, '', ?)`

	result, err := s.db.ExecContext(ctx, query, userID, string(mood), time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("insert mood entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("entry last insert id: %w", err)
	}
	return id, nil
}

// SetNote attaches freeform text to an existing entry.
func (s *SQLiteStore) SetNote(ctx context.Context, entryID int64, text string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE mood_entries SET note = ? WHERE id = ?`, text, entryID)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("set note for entry %d: %w", entryID, ErrEntryNotFound)
	}
	return nil
}

// GetEntry retrieves a single entry by id. It is not part of the
// Repository contract; the bot never reads entries individually, so it
// exists as a verification accessor for the store's tests.
func (s *SQLiteStore) GetEntry(ctx context.Context, entryID int64) (*domain.MoodEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, mood, note, created_at FROM mood_entries WHERE id = ?`, entryID)

	var entry domain.MoodEntry
	var mood string
	var createdAt int64

	err := row.Scan(&entry.ID, &entry.UserID, &mood, &entry.Note, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get entry %d: %w", entryID, ErrEntryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan entry row: %w", err)
	}

	entry.Mood = domain.Mood(mood)
	entry.CreatedAt = time.Unix(createdAt, 0)
	return &entry, nil
}

// ListUserIDs returns the ids of all known users.
func (s *SQLiteStore) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("query user ids: %w", err)
	}
	defer closeRows(rows, "user ids")

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user ids: %w", err)
	}
	return ids, nil
}

// EntriesSince returns the moods recorded after the given instant, in
// insertion order.
func (s *SQLiteStore) EntriesSince(ctx context.Context, userID int64, since time.Time) ([]domain.Mood, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mood FROM mood_entries WHERE user_id = ? AND created_at > ? ORDER BY id`,
		userID, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("query entries since: %w", err)
	}
	defer closeRows(rows, "entries since")

	var moods []domain.Mood
	for rows.Next() {
		var mood string
		if err := rows.Scan(&mood); err != nil {
			return nil, fmt.Errorf("scan mood: %w", err)
		}
		moods = append(moods, domain.Mood(mood))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries since: %w", err)
	}
	return moods, nil
}

// RecentEntries returns up to limit entries, newest first.
func (s *SQLiteStore) RecentEntries(ctx context.Context, userID int64, limit int) ([]*domain.MoodEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, mood, note, created_at
		 FROM mood_entries WHERE user_id = ? ORDER BY id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent entries: %w", err)
	}
	defer closeRows(rows, "recent entries")

	var entries []*domain.MoodEntry
	for rows.Next() {
		var entry domain.MoodEntry
		var mood string
		var createdAt int64

		if err := rows.Scan(&entry.ID, &entry.UserID, &mood, &entry.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("scan recent entry: %w", err)
		}
		entry.Mood = domain.Mood(mood)
		entry.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent entries: %w", err)
	}
	return entries, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Warn("failed to close rows", "query", what, "error", err)
	}
}
