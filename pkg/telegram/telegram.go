// Package telegram posts notifications into a single Telegram chat.
package telegram

import (
	"context"
	"fmt"
	"html"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier sends messages to one chat through a bot account.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// New authorizes the bot token.
func New(token string, chatID int64) (*Notifier, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat id is required")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log.Printf("[Telegram] Bot authorized as %s", api.Self.UserName)
	return &Notifier{api: api, chatID: chatID}, nil
}

// Format renders a bold title line followed by the body, HTML-escaped.
func Format(title, body string) string {
	return fmt.Sprintf("<b>%s</b>\n%s", html.EscapeString(title), html.EscapeString(body))
}

// Send posts an HTML message. The bot API has no context support, so ctx is
// only checked before sending.
func (n *Notifier) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
