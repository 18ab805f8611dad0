package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/MaxRosokha/mood-bot/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "mood.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return s
}

func TestUpsertUser_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := &domain.User{ID: 42, DisplayName: "Max", JoinedAt: time.Now()}
	if err := s.UpsertUser(ctx, user); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	renamed := &domain.User{ID: 42, DisplayName: "Mallory", JoinedAt: time.Now()}
	if err := s.UpsertUser(ctx, renamed); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	ids, err := s.ListUserIDs(ctx)
	if err != nil {
		t.Fatalf("ListUserIDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != 42 {
		t.Errorf("Expected [42], got %v", ids)
	}

	// The record from the first contact must survive untouched.
	var name string
	if err := s.db.QueryRowContext(ctx,
		`SELECT display_name FROM users WHERE user_id = ?`, 42).Scan(&name); err != nil {
		t.Fatalf("read display_name: %v", err)
	}
	if name != "Max" {
		t.Errorf("User record mutated after creation: display_name = %q, want %q", name, "Max")
	}
}

func TestCreateMoodEntry_MonotonicIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateMoodEntry(ctx, 1, domain.MoodGood)
	if err != nil {
		t.Fatalf("CreateMoodEntry failed: %v", err)
	}
	second, err := s.CreateMoodEntry(ctx, 1, domain.MoodSad)
	if err != nil {
		t.Fatalf("CreateMoodEntry failed: %v", err)
	}
	if second <= first {
		t.Errorf("Expected monotonic ids, got %d then %d", first, second)
	}

	entry, err := s.GetEntry(ctx, first)
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if entry.Mood != domain.MoodGood {
		t.Errorf("Expected mood %q, got %q", domain.MoodGood, entry.Mood)
	}
	if entry.HasNote() {
		t.Errorf("Expected absent note on fresh entry, got %q", entry.Note)
	}
}

func TestSetNote(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateMoodEntry(ctx, 1, domain.MoodOkay)
	if err != nil {
		t.Fatalf("CreateMoodEntry failed: %v", err)
	}
	if err := s.SetNote(ctx, id, "long day"); err != nil {
		t.Fatalf("SetNote failed: %v", err)
	}

	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if entry.Note != "long day" {
		t.Errorf("Expected note %q, got %q", "long day", entry.Note)
	}
}

func TestSetNote_UnknownEntry(t *testing.T) {
	s := newTestStore(t)

	err := s.SetNote(context.Background(), 9999, "text")
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound, got %v", err)
	}
}

func TestEntriesSince_WindowAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, m := range []domain.Mood{domain.MoodGood, domain.MoodGood, domain.MoodSad} {
		if _, err := s.CreateMoodEntry(ctx, 7, m); err != nil {
			t.Fatalf("CreateMoodEntry failed: %v", err)
		}
	}
	// A different user must not leak into the window.
	if _, err := s.CreateMoodEntry(ctx, 8, domain.MoodTerrible); err != nil {
		t.Fatalf("CreateMoodEntry failed: %v", err)
	}

	moods, err := s.EntriesSince(ctx, 7, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("EntriesSince failed: %v", err)
	}
	want := []domain.Mood{domain.MoodGood, domain.MoodGood, domain.MoodSad}
	if len(moods) != len(want) {
		t.Fatalf("Expected %d moods, got %d", len(want), len(moods))
	}
	for i := range want {
		if moods[i] != want[i] {
			t.Errorf("Position %d: expected %q, got %q", i, want[i], moods[i])
		}
	}

	empty, err := s.EntriesSince(ctx, 7, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("EntriesSince failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected empty window, got %v", empty)
	}
}

func TestRecentEntries_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	moods := []domain.Mood{domain.MoodGreat, domain.MoodOkay, domain.MoodSad}
	for _, m := range moods {
		if _, err := s.CreateMoodEntry(ctx, 3, m); err != nil {
			t.Fatalf("CreateMoodEntry failed: %v", err)
		}
	}

	entries, err := s.RecentEntries(ctx, 3, 2)
	if err != nil {
		t.Fatalf("RecentEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Mood != domain.MoodSad || entries[1].Mood != domain.MoodOkay {
		t.Errorf("Expected newest-first [sad okay], got [%s %s]", entries[0].Mood, entries[1].Mood)
	}
}
