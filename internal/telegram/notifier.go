// Package telegram delivers quiz results to a parent's Telegram chat
// through the Bot API.
package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Mkhisamo/learn-english/internal/logger"
)

// Credentials identify the bot and the destination chat.
type Credentials struct {
	Token  string
	ChatID string
}

// Configured reports whether both the token and the chat id are set.
func (c Credentials) Configured() bool {
	return c.Token != "" && c.ChatID != ""
}

// Notifier sends a text message to the configured chat.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// BotNotifier is a Notifier backed by the Telegram Bot API.
type BotNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *logger.Logger
}

// NewBotNotifier authenticates the bot and resolves the destination chat.
func NewBotNotifier(creds Credentials) (*BotNotifier, error) {
	chatID, err := strconv.ParseInt(creds.ChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat id %q: %w", creds.ChatID, err)
	}

	bot, err := tgbotapi.NewBotAPI(creds.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot auth failed: %w", err)
	}

	log := logger.Default().WithPrefix("telegram")
	log.Info("telegram bot authorized: %s", bot.Self.UserName)
	return &BotNotifier{bot: bot, chatID: chatID, log: log}, nil
}

// Send delivers the text to the configured chat.
func (n *BotNotifier) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.log.Error("failed to send telegram message: %v", err)
		return err
	}
	n.log.Debug("telegram message delivered to chat %d", n.chatID)
	return nil
}
