package stats

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MaxRosokha/mood-bot/internal/domain"
)

// moodsRepo stubs only the call the aggregator consumes.
type moodsRepo struct {
	moods []domain.Mood
	err   error
	since time.Time
}

func (r *moodsRepo) EntriesSince(ctx context.Context, userID int64, since time.Time) ([]domain.Mood, error) {
	r.since = since
	return r.moods, r.err
}

var _ EntrySource = (*moodsRepo)(nil)

func newAggregator(repo *moodsRepo) *Aggregator {
	return NewAggregator(repo)
}

func TestDistribution_CountsAndPercentages(t *testing.T) {
	repo := &moodsRepo{moods: []domain.Mood{domain.MoodGood, domain.MoodGood, domain.MoodSad}}
	a := newAggregator(repo)

	dist, err := a.Distribution(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("Distribution failed: %v", err)
	}

	if dist.Total != 3 {
		t.Errorf("Expected total 3, got %d", dist.Total)
	}
	if len(dist.Counts) != 2 {
		t.Fatalf("Expected 2 mood rows, got %d", len(dist.Counts))
	}
	if dist.Counts[0].Mood != domain.MoodGood || dist.Counts[0].Count != 2 {
		t.Errorf("Expected good:2 first, got %s:%d", dist.Counts[0].Mood, dist.Counts[0].Count)
	}
	if dist.Counts[1].Mood != domain.MoodSad || dist.Counts[1].Count != 1 {
		t.Errorf("Expected sad:1 second, got %s:%d", dist.Counts[1].Mood, dist.Counts[1].Count)
	}

	rendered := dist.Render()
	if !strings.Contains(rendered, "66.7%") || !strings.Contains(rendered, "33.3%") {
		t.Errorf("Expected 66.7%% and 33.3%% in render, got %q", rendered)
	}
}

func TestDistribution_TiesKeepFirstSeenOrder(t *testing.T) {
	repo := &moodsRepo{moods: []domain.Mood{
		domain.MoodSad, domain.MoodGreat, domain.MoodSad, domain.MoodGreat,
	}}
	a := newAggregator(repo)

	dist, err := a.Distribution(context.Background(), 1, 30)
	if err != nil {
		t.Fatalf("Distribution failed: %v", err)
	}
	if dist.Counts[0].Mood != domain.MoodSad || dist.Counts[1].Mood != domain.MoodGreat {
		t.Errorf("Expected stable tie order [sad great], got [%s %s]",
			dist.Counts[0].Mood, dist.Counts[1].Mood)
	}
}

func TestDistribution_EmptyWindowIsNotAnError(t *testing.T) {
	a := newAggregator(&moodsRepo{})

	dist, err := a.Distribution(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("Expected empty window to succeed, got %v", err)
	}
	if !dist.Empty() {
		t.Errorf("Expected empty distribution, got total %d", dist.Total)
	}
	if len(dist.Counts) != 0 {
		t.Errorf("Expected no rows, got %v", dist.Counts)
	}
}

func TestDistribution_WindowBoundary(t *testing.T) {
	repo := &moodsRepo{}
	a := newAggregator(repo)

	if _, err := a.Distribution(context.Background(), 1, 7); err != nil {
		t.Fatalf("Distribution failed: %v", err)
	}

	want := time.Now().AddDate(0, 0, -7)
	if diff := repo.since.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("Expected since ≈ %v, got %v", want, repo.since)
	}
}

func TestDistribution_StoreErrorPropagates(t *testing.T) {
	repo := &moodsRepo{err: errors.New("db gone")}
	a := newAggregator(repo)

	if _, err := a.Distribution(context.Background(), 1, 7); err == nil {
		t.Fatal("Expected store error to propagate")
	}
}
