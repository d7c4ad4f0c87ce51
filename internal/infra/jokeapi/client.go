// internal/infra/jokeapi/client.go
package jokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"joke_notification_bot/internal/domain/joke"
)

const (
	DefaultTimeout = 10 * time.Second
	userAgent      = "jokes-telegram-bot/1.0"
	maxBodyBytes   = 1 << 20
)

// ErrUnexpectedPayload is returned for JSON that is neither a single nor a two-part joke.
var ErrUnexpectedPayload = errors.New("unexpected joke payload")

type payload struct {
	Error    bool   `json:"error"`
	Message  string `json:"message"`
	ID       int    `json:"id"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Joke     string `json:"joke"`
	Setup    string `json:"setup"`
	Delivery string `json:"delivery"`
}

// Client implements joke.Source against JokeAPI (https://v2.jokeapi.dev).
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch performs one GET and decodes the joke.
func (c *Client) Fetch(ctx context.Context) (joke.Joke, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return joke.Joke{}, fmt.Errorf("failed to build joke request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return joke.Joke{}, fmt.Errorf("joke request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return joke.Joke{}, fmt.Errorf("joke api returned status %d", resp.StatusCode)
	}

	var p payload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&p); err != nil {
		return joke.Joke{}, fmt.Errorf("invalid joke payload: %w", err)
	}
	return p.toJoke()
}

func (p payload) toJoke() (joke.Joke, error) {
	if p.Error {
		return joke.Joke{}, fmt.Errorf("%w: api error: %s", ErrUnexpectedPayload, p.Message)
	}
	switch joke.Kind(p.Type) {
	case joke.KindSingle:
		return joke.Joke{ID: p.ID, Category: p.Category, Kind: joke.KindSingle, Text: p.Joke}, nil
	case joke.KindTwoPart:
		return joke.Joke{ID: p.ID, Category: p.Category, Kind: joke.KindTwoPart, Setup: p.Setup, Delivery: p.Delivery}, nil
	default:
		return joke.Joke{}, fmt.Errorf("%w: type %q", ErrUnexpectedPayload, p.Type)
	}
}
