package domain

import "time"

// MoodEntry is one persisted mood record. The note is written at most
// once, while the entry is the pending target of an open check-in, and
// is immutable afterwards. Entries are never deleted.
type MoodEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Mood      Mood      `json:"mood"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HasNote reports whether the entry carries an annotation.
func (e *MoodEntry) HasNote() bool {
	return e.Note != ""
}
