// Package advisor obtains short AI reflections over a user's mood history.
package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MaxRosokha/mood-bot/internal/domain"
)

// FallbackMotivation replaces the AI one-liner whenever the provider
// fails; the stats report itself is never blocked on the provider.
const FallbackMotivation = "Keep your chin up — every day you track is a win! ✨"

const defaultTimeout = 30 * time.Second

// recentEntriesLimit is how much history feeds the advice prompt.
const recentEntriesLimit = 5

// TextCompleter is the black-box text completion collaborator.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// EntryHistory is the slice of the store the advisor consumes.
type EntryHistory interface {
	RecentEntries(ctx context.Context, userID int64, limit int) ([]*domain.MoodEntry, error)
}

// Advisor builds prompts from entries and statistics and requests
// reflections from the text provider. Every provider call is bounded by
// a timeout; a timeout takes the same path as a provider failure.
type Advisor struct {
	llm     TextCompleter
	history EntryHistory
	timeout time.Duration
}

// New creates an advisor. A non-positive timeout falls back to the default.
func New(llm TextCompleter, history EntryHistory, timeout time.Duration) *Advisor {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Advisor{llm: llm, history: history, timeout: timeout}
}

// MotivationalLine returns a short AI comment on a rendered stats
// report. Provider failure is absorbed: the fallback line is returned
// and the failure is only logged, so the numbers always reach the user.
func (a *Advisor) MotivationalLine(ctx context.Context, statsText string) string {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.llm.Complete(ctx, motivationPrompt(statsText))
	if err != nil {
		slog.Warn("motivational line request failed, using fallback", "error", err)
		return FallbackMotivation
	}
	text = strings.TrimSpace(text)
	if text == "" {
		slog.Warn("motivational line request returned empty response, using fallback")
		return FallbackMotivation
	}
	return text
}

// Advice returns a reflection over the user's last entries.
//
// Unlike MotivationalLine there is no canned fallback: a provider
// failure surfaces to the caller so "the provider has nothing to say"
// is never confused with real numbers. A user with no history gets
// domain.ErrNoEntries instead.
func (a *Advisor) Advice(ctx context.Context, userID int64) (string, error) {
	entries, err := a.history.RecentEntries(ctx, userID, recentEntriesLimit)
	if err != nil {
		return "", fmt.Errorf("load recent entries: %w", err)
	}
	if len(entries) == 0 {
		return "", domain.ErrNoEntries
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.llm.Complete(ctx, advicePrompt(entries))
	if err != nil {
		return "", fmt.Errorf("request reflection: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("request reflection: %w", errEmptyResponse)
	}
	return text, nil
}
