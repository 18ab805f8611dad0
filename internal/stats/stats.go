// Package stats computes mood-frequency distributions over trailing windows.
package stats

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/MaxRosokha/mood-bot/internal/domain"
)

// EntrySource is the slice of the store the aggregator consumes.
type EntrySource interface {
	EntriesSince(ctx context.Context, userID int64, since time.Time) ([]domain.Mood, error)
}

// MoodCount is one row of a distribution.
type MoodCount struct {
	Mood  domain.Mood
	Count int
}

// Distribution is a mood-frequency report over a trailing window.
// Counts are ordered by count descending; ties keep the first-seen
// order of the underlying entries.
type Distribution struct {
	WindowDays int
	Total      int
	Counts     []MoodCount
}

// Empty reports whether the window held no entries. An empty window is
// a valid, reportable state, not an error.
func (d *Distribution) Empty() bool {
	return d.Total == 0
}

// Percentage returns count/total as a percentage.
func (d *Distribution) Percentage(count int) float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(count) / float64(d.Total) * 100
}

// Render formats the distribution with one-decimal percentages.
func (d *Distribution) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Mood stats for the last %d days:\n\n", d.WindowDays)
	for _, mc := range d.Counts {
		fmt.Fprintf(&b, "%s: %d (%.1f%%)\n", mc.Mood.Label(), mc.Count, d.Percentage(mc.Count))
	}
	return b.String()
}

// Aggregator computes distributions from stored entries.
type Aggregator struct {
	src EntrySource
	now func() time.Time
}

// NewAggregator creates an aggregator backed by the given entry source.
func NewAggregator(src EntrySource) *Aggregator {
	return &Aggregator{src: src, now: time.Now}
}

// Distribution counts the user's moods recorded within the trailing
// window of windowDays days.
func (a *Aggregator) Distribution(ctx context.Context, userID int64, windowDays int) (*Distribution, error) {
	since := a.now().AddDate(0, 0, -windowDays)

	moods, err := a.src.EntriesSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("entries since %s: %w", since.Format(time.DateOnly), err)
	}

	counts := make(map[domain.Mood]int, len(moods))
	var order []domain.Mood
	for _, mood := range moods {
		if counts[mood] == 0 {
			order = append(order, mood)
		}
		counts[mood]++
	}

	dist := &Distribution{WindowDays: windowDays, Total: len(moods)}
	for _, mood := range order {
		dist.Counts = append(dist.Counts, MoodCount{Mood: mood, Count: counts[mood]})
	}
	sort.SliceStable(dist.Counts, func(i, j int) bool {
		return dist.Counts[i].Count > dist.Counts[j].Count
	})

	return dist, nil
}
