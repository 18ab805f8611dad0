// Package dispatch maps front-end events onto the bot's components and
// renders replies as text plus abstract choice sets. User-initiated
// events and the scheduled broadcast flow through this one path.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/MaxRosokha/mood-bot/internal/checkin"
	"github.com/MaxRosokha/mood-bot/internal/domain"
	"github.com/MaxRosokha/mood-bot/internal/stats"
	"github.com/MaxRosokha/mood-bot/internal/store"
)

// statsPeriods is the closed set of offered trailing windows, in days.
var statsPeriods = []int{7, 30}

const genericFailureText = "Something went wrong, please try again. 😕"

// Reflector is the advisor surface the dispatcher consumes.
type Reflector interface {
	MotivationalLine(ctx context.Context, statsText string) string
	Advice(ctx context.Context, userID int64) (string, error)
}

// Dispatcher wires events to the session machine, aggregator and advisor.
type Dispatcher struct {
	repo      store.Repository
	sessions  *checkin.Manager
	stats     *stats.Aggregator
	reflector Reflector
}

// New creates a dispatcher.
func New(repo store.Repository, sessions *checkin.Manager, agg *stats.Aggregator, reflector Reflector) *Dispatcher {
	return &Dispatcher{repo: repo, sessions: sessions, stats: agg, reflector: reflector}
}

// Start registers the user (idempotent upsert) and greets them.
func (d *Dispatcher) Start(ctx context.Context, userID int64, displayName string) *Response {
	user := &domain.User{ID: userID, DisplayName: displayName, JoinedAt: time.Now()}
	if err := d.repo.UpsertUser(ctx, user); err != nil {
		slog.Error("failed to upsert user", "user_id", userID, "error", err)
		return &Response{Text: genericFailureText}
	}

	greeting := "Hi! 👋 I'm your personal mood tracker."
	if displayName != "" {
		greeting = fmt.Sprintf("Hi, %s! 👋 I'm your personal mood tracker.", displayName)
	}
	return &Response{Text: greeting, Choices: mainMenu()}
}

// BeginCheckIn opens the mood dialogue. A check-in already in progress
// is rejected with a notice; the open session is left untouched.
func (d *Dispatcher) BeginCheckIn(ctx context.Context, userID int64) *Response {
	if err := d.sessions.Begin(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrCheckInActive) {
			// Offer the choices that actually move the open session along.
			if state, ok := d.sessions.State(userID); ok && state == domain.StateAwaitingMood {
				return &Response{
					Text:    "You already have a check-in in progress — pick your mood, or cancel. 🙂",
					Choices: append(moodMenu(), cancelChoice()),
				}
			}
			return &Response{
				Text:    "You already have a check-in in progress — write a note, skip it, or cancel. 🙂",
				Choices: append(skipMenu(), cancelChoice()),
			}
		}
		slog.Error("failed to begin check-in", "user_id", userID, "error", err)
		return &Response{Text: genericFailureText}
	}
	return &Response{Text: "How are you feeling right now?", Choices: moodMenu()}
}

// SelectMood records the chosen mood and asks for an optional note.
func (d *Dispatcher) SelectMood(ctx context.Context, userID int64, label string) *Response {
	mood, err := d.sessions.SelectMood(ctx, userID, label)
	switch {
	case errors.Is(err, domain.ErrUnknownMood):
		return &Response{Text: "I don't know that mood — pick one of the buttons. 🙂", Choices: moodMenu()}
	case errors.Is(err, domain.ErrNoActiveCheckIn):
		return &Response{Text: "Start a check-in first. 📝", Choices: mainMenu()}
	case err != nil:
		slog.Error("failed to record mood", "user_id", userID, "error", err)
		return &Response{Text: genericFailureText, Choices: mainMenu()}
	}

	return &Response{
		Text:    fmt.Sprintf("Mood %q recorded! ✅\n\nWhat influenced it? Write a short note.", mood.Label()),
		Choices: skipMenu(),
	}
}

// SubmitText routes freeform text: while a note is awaited it becomes
// the pending entry's annotation, otherwise it is gently redirected.
func (d *Dispatcher) SubmitText(ctx context.Context, userID int64, text string) *Response {
	err := d.sessions.SubmitNote(ctx, userID, text)
	switch {
	case errors.Is(err, domain.ErrNoActiveCheckIn):
		return &Response{Text: "I'm not expecting a note right now — use the menu. 🙂", Choices: mainMenu()}
	case err != nil:
		slog.Error("failed to save note", "user_id", userID, "error", err)
		return &Response{Text: genericFailureText, Choices: mainMenu()}
	}
	return &Response{Text: "Thanks! Your note is saved. ✍️", Choices: mainMenu()}
}

// SkipNote closes the check-in keeping only the mood.
func (d *Dispatcher) SkipNote(ctx context.Context, userID int64) *Response {
	if err := d.sessions.SkipNote(ctx, userID); err != nil {
		return &Response{Text: "There is nothing to skip. 🙂", Choices: mainMenu()}
	}
	return &Response{Text: "Alright, noted just the mood! 👌", Choices: mainMenu()}
}

// Cancel discards an in-progress check-in from any state.
func (d *Dispatcher) Cancel(ctx context.Context, userID int64) *Response {
	if d.sessions.Cancel(ctx, userID) {
		return &Response{Text: "Check-in cancelled.", Choices: mainMenu()}
	}
	return &Response{Text: "Nothing to cancel. 🙂", Choices: mainMenu()}
}

// StatsMenu offers the period selection.
func (d *Dispatcher) StatsMenu(ctx context.Context, userID int64) *Response {
	return &Response{Text: "Which period should I analyze?", Choices: periodMenu()}
}

// SelectPeriod reports the mood distribution for the chosen window,
// decorated with an AI one-liner (or its fallback — the numbers are
// never blocked on the provider).
func (d *Dispatcher) SelectPeriod(ctx context.Context, userID int64, days int) *Response {
	if !slices.Contains(statsPeriods, days) {
		return &Response{Text: "That period is not on offer. 🙂", Choices: periodMenu()}
	}

	dist, err := d.stats.Distribution(ctx, userID, days)
	if err != nil {
		slog.Error("failed to compute distribution", "user_id", userID, "days", days, "error", err)
		return &Response{Text: genericFailureText, Choices: mainMenu()}
	}
	if dist.Empty() {
		return &Response{
			Text:    fmt.Sprintf("No records in the last %d days. 🤷", days),
			Choices: mainMenu(),
		}
	}

	statsText := dist.Render()
	comment := d.reflector.MotivationalLine(ctx, statsText)
	return &Response{
		Text:    fmt.Sprintf("%s\n💡 AI says:\n%s", statsText, comment),
		Choices: mainMenu(),
	}
}

// Advice returns an AI reflection over the latest entries. An empty
// history and a provider failure are deliberately distinct outcomes.
func (d *Dispatcher) Advice(ctx context.Context, userID int64) *Response {
	text, err := d.reflector.Advice(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrNoEntries):
		return &Response{Text: "Make at least one record first! 📝", Choices: mainMenu()}
	case err != nil:
		slog.Warn("advice request failed", "user_id", userID, "error", err)
		return &Response{
			Text:    fmt.Sprintf("AI error: %v. Try again later.", err),
			Choices: mainMenu(),
		}
	}
	return &Response{Text: fmt.Sprintf("💭 Advice:\n\n%s", text), Choices: mainMenu()}
}

// CheckInInvite is the scheduled broadcast message. Receiving it never
// creates a session; the dialogue starts only when the user acts on it.
func (d *Dispatcher) CheckInInvite() *Response {
	return &Response{
		Text:    "☀️ Good morning!\n\nTime to check in with yourself. How are you today?",
		Choices: mainMenu(),
	}
}
