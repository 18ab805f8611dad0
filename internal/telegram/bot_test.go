package telegram

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestPoll_ClosedChannelIsAnError(t *testing.T) {
	b := &Bot{}
	updates := make(chan tgbotapi.Update)
	close(updates)

	err := b.poll(context.Background(), updates)
	if err == nil {
		t.Fatal("Expected an error when the updates channel closes without shutdown")
	}
}

func TestPoll_CancelledContextIsACleanExit(t *testing.T) {
	b := &Bot{}
	updates := make(chan tgbotapi.Update)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.poll(ctx, updates); err != nil {
		t.Fatalf("Expected clean exit on cancellation, got %v", err)
	}
}

func TestPoll_ChannelClosedDuringShutdownIsClean(t *testing.T) {
	b := &Bot{}
	updates := make(chan tgbotapi.Update)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.poll(ctx, updates) }()

	cancel()
	close(updates)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Expected clean exit when close races shutdown, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("poll did not return after cancellation")
	}
}
