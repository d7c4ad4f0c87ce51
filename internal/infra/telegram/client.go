// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// chatRecipient lets numeric ids and @channel usernames be used as telebot recipients.
type chatRecipient string

func (r chatRecipient) Recipient() string { return string(r) }

// NewBot creates a send-only bot. Offline mode skips the getMe call, so no network
// traffic happens before the first message.
func NewBot(token, apiURL string, timeout time.Duration) (*telebot.Bot, error) {
	b, err := telebot.NewBot(telebot.Settings{
		URL:     apiURL,
		Token:   token,
		Offline: true,
		Client:  &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Telegram bot: %w", err)
	}
	return b, nil
}

// TelebotAdapter implements delivery.Sender using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot     *telebot.Bot
	limiter *rate.Limiter
}

// NewTelebotAdapter throttles sends to one message per second with a burst of two,
// which stays under Telegram's per-chat limit.
func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{
		bot:     b,
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// Send sends a plain text message to the chat identified by destination.
func (tba *TelebotAdapter) Send(ctx context.Context, destination, text string) error {
	if err := tba.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram send throttled: %w", err)
	}
	if _, err := tba.bot.Send(chatRecipient(destination), text); err != nil {
		return fmt.Errorf("telegram sendMessage failed: %w", err)
	}
	return nil
}
