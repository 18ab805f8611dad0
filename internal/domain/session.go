package domain

// SessionState is the position of an in-progress check-in dialogue.
type SessionState string

const (
	// StateAwaitingMood means the dialogue is open and no entry exists yet.
	StateAwaitingMood SessionState = "awaiting_mood"
	// StateAwaitingNote means an entry was created and the bot waits for
	// freeform text or a skip.
	StateAwaitingNote SessionState = "awaiting_note"
)

// Session is the transient per-user check-in state. It is never
// persisted; at most one session exists per user at any time.
type Session struct {
	UserID         int64
	State          SessionState
	PendingEntryID int64
}
