package notify

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier is the side channel the batch jobs report progress on. Delivery is
// best effort: a failed notification is logged and never fails the job.
type Notifier interface {
	Send(ctx context.Context, text string)
}

type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

func NewTelegram(token string, chatID int64, logger *zap.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Telegram{
		bot:    bot,
		chatID: chatID,
		logger: logger,
	}, nil
}

func (t *Telegram) Send(ctx context.Context, text string) {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML"

	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Error("Failed to send Telegram notification",
			zap.Int64("chat_id", t.chatID),
			zap.Error(err))
	}
}

// Noop is used when Telegram is not configured, e.g. in local runs.
type Noop struct{}

func (Noop) Send(ctx context.Context, text string) {}

// New picks the Telegram notifier when a token is configured and the no-op
// notifier otherwise.
func New(token string, chatID int64, logger *zap.Logger) (Notifier, error) {
	if token == "" || chatID == 0 {
		logger.Warn("Telegram notifications disabled - no token or chat ID configured")
		return Noop{}, nil
	}
	return NewTelegram(token, chatID, logger)
}
