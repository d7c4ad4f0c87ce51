package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"joke_notification_bot/internal/domain/schedule"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile     = "secrets.json"
	DefaultJokeAPIURL     = "https://v2.jokeapi.dev/joke/Any?lang=fr&blacklistFlags=nsfw,racist,sexist,explicit"
	DefaultTelegramAPIURL = "https://api.telegram.org"
	DefaultTwilioAPIURL   = "https://api.twilio.com"
	DefaultInterval       = 10 * time.Minute
)

var (
	ErrMissingCredential     = errors.New("required credential is not set")
	ErrPlaceholderCredential = errors.New("credential still holds a placeholder value")
	ErrPartialWhatsApp       = errors.New("WhatsApp configuration is incomplete")
)

// placeholders are template values shipped in sample configs; they are never real credentials.
var placeholders = map[string]bool{
	"ton_token_bot":  true,
	"ton_chat_id":    true,
	"your_bot_token": true,
	"your_chat_id":   true,
	"changeme":       true,
	"<token>":        true,
	"<chat_id>":      true,
	"xxx":            true,
}

// IsPlaceholder reports whether v is a known template value.
func IsPlaceholder(v string) bool {
	return placeholders[strings.ToLower(strings.TrimSpace(v))]
}

// WhatsAppConfig holds the optional Twilio WhatsApp channel settings.
type WhatsAppConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	To         string
	APIURL     string
}

// Enabled reports whether every WhatsApp field is set.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccountSID != "" && w.AuthToken != "" && w.From != "" && w.To != ""
}

func (w WhatsAppConfig) partial() bool {
	return !w.Enabled() && (w.AccountSID != "" || w.AuthToken != "" || w.From != "" || w.To != "")
}

// AppConfig holds all configuration for the application
type AppConfig struct {
	ConfigFile     string
	TelegramToken  string
	TelegramChatID string
	TelegramAPIURL string
	WhatsApp       WhatsAppConfig
	JokeAPIURL     string
	Schedule       schedule.Config
	DatabaseURL    string
	LogLevel       string
	Environment    string
}

// Prompter collects missing values interactively before the loop starts.
type Prompter interface {
	Ask(question, def string) (string, error)
	AskSecret(question string) (string, error)
}

// Load reads configuration from the config file, the environment (and .env file, if
// present) and, when p is non-nil, interactive prompts. The first non-empty source wins.
// An empty path falls back to BOT_CONFIG_FILE, then DefaultConfigFile.
func Load(path string, p Prompter) (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	path = ConfigFilePath(path)
	file, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Resolve(file, os.Getenv, p)
	if err != nil {
		return nil, err
	}
	cfg.ConfigFile = path
	return cfg, nil
}

// LoadDatabaseURL returns DATABASE_URL without validating the messaging credentials.
func LoadDatabaseURL(path string) (string, error) {
	_ = godotenv.Load()

	file, err := ReadFile(ConfigFilePath(path))
	if err != nil {
		return "", err
	}
	if v := strings.TrimSpace(file["DATABASE_URL"]); v != "" {
		return v, nil
	}
	return strings.TrimSpace(os.Getenv("DATABASE_URL")), nil
}

func ConfigFilePath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv("BOT_CONFIG_FILE"); env != "" {
		return env
	}
	return DefaultConfigFile
}

// ReadFile parses a flat JSON or YAML key/value file. A missing file yields an empty map.
func ReadFile(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// YAML is a superset of JSON, so one decoder covers both formats.
	raw := map[string]any{}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		out[k] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out, nil
}

// Resolve builds and validates an AppConfig from already gathered sources.
func Resolve(file map[string]string, getenv func(string) string, p Prompter) (*AppConfig, error) {
	lookup := func(key string) string {
		if v := strings.TrimSpace(file[key]); v != "" {
			return v
		}
		return strings.TrimSpace(getenv(key))
	}
	orDefault := func(key, def string) string {
		if v := lookup(key); v != "" {
			return v
		}
		return def
	}

	cfg := &AppConfig{
		TelegramToken:  lookup("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: lookup("TELEGRAM_CHAT_ID"),
		TelegramAPIURL: orDefault("TELEGRAM_API_URL", DefaultTelegramAPIURL),
		WhatsApp: WhatsAppConfig{
			AccountSID: lookup("TWILIO_ACCOUNT_SID"),
			AuthToken:  lookup("TWILIO_AUTH_TOKEN"),
			From:       lookup("WHATSAPP_FROM"),
			To:         lookup("WHATSAPP_TO"),
			APIURL:     orDefault("TWILIO_API_URL", DefaultTwilioAPIURL),
		},
		JokeAPIURL:  orDefault("JOKE_API_URL", DefaultJokeAPIURL),
		DatabaseURL: lookup("DATABASE_URL"),
		LogLevel:    strings.ToLower(orDefault("LOG_LEVEL", "info")),
		Environment: strings.ToLower(orDefault("ENVIRONMENT", "development")),
	}

	intervalRaw := lookup("JOKE_INTERVAL_SEC")
	intervalUnit := time.Second
	if intervalRaw == "" {
		if v := lookup("JOKE_INTERVAL_MIN"); v != "" {
			intervalRaw, intervalUnit = v, time.Minute
		}
	}
	windowStart := lookup("ACTIVE_START")
	windowEnd := lookup("ACTIVE_END")

	if p != nil {
		var err error
		if cfg.TelegramToken == "" {
			if cfg.TelegramToken, err = p.AskSecret("Telegram bot token"); err != nil {
				return nil, fmt.Errorf("prompt for TELEGRAM_BOT_TOKEN: %w", err)
			}
		}
		if cfg.TelegramChatID == "" {
			if cfg.TelegramChatID, err = p.Ask("Telegram chat id", ""); err != nil {
				return nil, fmt.Errorf("prompt for TELEGRAM_CHAT_ID: %w", err)
			}
		}
		if intervalRaw == "" {
			def := strconv.Itoa(int(DefaultInterval / time.Second))
			if intervalRaw, err = p.Ask("Interval between jokes (seconds)", def); err != nil {
				return nil, fmt.Errorf("prompt for JOKE_INTERVAL_SEC: %w", err)
			}
			intervalUnit = time.Second
		}
		if windowStart == "" && windowEnd == "" {
			if windowStart, err = p.Ask("Active hours start HH:MM (empty = always)", ""); err != nil {
				return nil, fmt.Errorf("prompt for ACTIVE_START: %w", err)
			}
			if windowStart != "" {
				if windowEnd, err = p.Ask("Active hours end HH:MM", ""); err != nil {
					return nil, fmt.Errorf("prompt for ACTIVE_END: %w", err)
				}
			}
		}
	}

	interval, err := parseInterval(intervalRaw, intervalUnit)
	if err != nil {
		return nil, err
	}
	cfg.Schedule.Interval = interval

	if windowStart != "" || windowEnd != "" {
		if windowStart == "" || windowEnd == "" {
			return nil, fmt.Errorf("ACTIVE_START and ACTIVE_END must be set together")
		}
		w, err := schedule.ParseWindow(windowStart, windowEnd)
		if err != nil {
			return nil, fmt.Errorf("invalid active window: %w", err)
		}
		cfg.Schedule.Window = w
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseInterval converts an integer count of unit into a duration, clamped to the minimum.
func parseInterval(raw string, unit time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultInterval, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", raw, err)
	}
	d := time.Duration(n) * unit
	if d < schedule.MinInterval {
		d = schedule.MinInterval
	}
	return d, nil
}

// Validate checks the credentials. Every problem is reported, not only the first one.
func (c *AppConfig) Validate() error {
	var errs []error
	check := func(key, value string) {
		switch {
		case value == "":
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingCredential, key))
		case IsPlaceholder(value):
			errs = append(errs, fmt.Errorf("%w: %s", ErrPlaceholderCredential, key))
		}
	}
	check("TELEGRAM_BOT_TOKEN", c.TelegramToken)
	check("TELEGRAM_CHAT_ID", c.TelegramChatID)

	if c.WhatsApp.partial() {
		errs = append(errs, fmt.Errorf("%w: TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, WHATSAPP_FROM and WHATSAPP_TO are all required", ErrPartialWhatsApp))
	} else if c.WhatsApp.Enabled() {
		check("TWILIO_ACCOUNT_SID", c.WhatsApp.AccountSID)
		check("TWILIO_AUTH_TOKEN", c.WhatsApp.AuthToken)
	}
	if c.Schedule.Interval < schedule.MinInterval {
		errs = append(errs, fmt.Errorf("interval must be at least %s", schedule.MinInterval))
	}
	return errors.Join(errs...)
}
