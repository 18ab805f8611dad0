// Package telegram adapts the Telegram Bot API to the dispatcher's
// event model. It is a thin collaborator: all conversation logic lives
// behind the dispatcher.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/MaxRosokha/mood-bot/internal/dispatch"
	"github.com/MaxRosokha/mood-bot/internal/scheduler"
)

// Bot runs the long-polling update loop.
type Bot struct {
	api        *tgbotapi.BotAPI
	dispatcher *dispatch.Dispatcher
}

var _ scheduler.Deliverer = (*Bot)(nil)

// New creates a bot for the given token.
func New(token string, dispatcher *dispatch.Dispatcher) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram client: %w", err)
	}
	slog.Info("telegram bot authorized", "username", api.Self.UserName)
	return &Bot{api: api, dispatcher: dispatcher}, nil
}

// Run polls for updates until the context is cancelled. Each update is
// handled in its own goroutine: a slow AI call for one user never
// blocks other users' events, while per-user ordering is enforced by
// the session registry's locks.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)
	defer b.api.StopReceivingUpdates()

	return b.poll(ctx, updates)
}

// poll consumes the updates channel. A channel closed without a
// shutdown request means the polling loop died underneath us; that is
// an error, not a clean exit.
func (b *Bot) poll(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("telegram updates channel closed unexpectedly")
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	userID := msg.From.ID

	var resp *dispatch.Response
	switch {
	case msg.IsCommand() && msg.Command() == "start":
		resp = b.dispatcher.Start(ctx, userID, msg.From.FirstName)
	case msg.IsCommand() && msg.Command() == "cancel":
		resp = b.dispatcher.Cancel(ctx, userID)
	case msg.IsCommand():
		return
	default:
		resp = b.dispatcher.SubmitText(ctx, userID, msg.Text)
	}
	b.send(msg.Chat.ID, resp)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	userID := cb.From.ID
	event := cb.Data

	var resp *dispatch.Response
	switch {
	case event == dispatch.EventCheckIn:
		resp = b.dispatcher.BeginCheckIn(ctx, userID)
	case event == dispatch.EventStatsMenu:
		resp = b.dispatcher.StatsMenu(ctx, userID)
	case event == dispatch.EventAdvice:
		resp = b.dispatcher.Advice(ctx, userID)
	case event == dispatch.EventSkipNote:
		resp = b.dispatcher.SkipNote(ctx, userID)
	case event == dispatch.EventCancel:
		resp = b.dispatcher.Cancel(ctx, userID)
	default:
		if label, ok := dispatch.ParseMoodEvent(event); ok {
			resp = b.dispatcher.SelectMood(ctx, userID, label)
			break
		}
		if days, ok := dispatch.ParsePeriodEvent(event); ok {
			resp = b.dispatcher.SelectPeriod(ctx, userID, days)
			break
		}
		slog.Warn("unknown callback event", "user_id", userID, "event", event)
	}

	// Always acknowledge the button press, even for unknown events.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		slog.Warn("failed to answer callback", "user_id", userID, "error", err)
	}
	if resp != nil && cb.Message != nil {
		b.send(cb.Message.Chat.ID, resp)
	}
}

// DeliverCheckIn sends the broadcast invitation to one user. For
// direct chats the chat id equals the user id.
func (b *Bot) DeliverCheckIn(ctx context.Context, userID int64) error {
	resp := b.dispatcher.CheckInInvite()
	msg := tgbotapi.NewMessage(userID, resp.Text)
	msg.ReplyMarkup = keyboard(resp.Choices)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send invitation: %w", err)
	}
	return nil
}

func (b *Bot) send(chatID int64, resp *dispatch.Response) {
	msg := tgbotapi.NewMessage(chatID, resp.Text)
	if len(resp.Choices) > 0 {
		msg.ReplyMarkup = keyboard(resp.Choices)
	}
	if _, err := b.api.Send(msg); err != nil {
		slog.Warn("failed to send message", "chat_id", chatID, "error", err)
	}
}

// keyboard renders a choice set as an inline keyboard, one button per row.
func keyboard(choices []dispatch.Choice) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(choices))
	for _, c := range choices {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Label, c.Event),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
