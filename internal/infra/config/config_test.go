package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

type scriptedPrompter struct {
	answers []string
	asked   []string
}

func (p *scriptedPrompter) next(q string) string {
	p.asked = append(p.asked, q)
	if len(p.answers) == 0 {
		return ""
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a
}

func (p *scriptedPrompter) Ask(q, def string) (string, error) {
	if a := p.next(q); a != "" {
		return a, nil
	}
	return def, nil
}

func (p *scriptedPrompter) AskSecret(q string) (string, error) { return p.next(q), nil }

func TestResolveFileWinsOverEnv(t *testing.T) {
	t.Parallel()
	file := map[string]string{"TELEGRAM_BOT_TOKEN": "file-token", "TELEGRAM_CHAT_ID": "42"}
	env := envFrom(map[string]string{"TELEGRAM_BOT_TOKEN": "env-token", "TELEGRAM_CHAT_ID": "7", "JOKE_INTERVAL_SEC": "30"})

	cfg, err := Resolve(file, env, nil)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if cfg.TelegramToken != "file-token" || cfg.TelegramChatID != "42" {
		t.Fatalf("file values should win, got token=%q chat=%q", cfg.TelegramToken, cfg.TelegramChatID)
	}
	if cfg.Schedule.Interval != 30*time.Second {
		t.Fatalf("Interval = %v, want 30s", cfg.Schedule.Interval)
	}
	if cfg.Schedule.Window != nil {
		t.Fatal("window should be nil when not configured")
	}
	if cfg.WhatsApp.Enabled() {
		t.Fatal("WhatsApp should be disabled")
	}
	if cfg.JokeAPIURL != DefaultJokeAPIURL {
		t.Fatalf("JokeAPIURL = %q", cfg.JokeAPIURL)
	}
}

func TestResolveIntervalVariants(t *testing.T) {
	t.Parallel()
	base := map[string]string{"TELEGRAM_BOT_TOKEN": "123:abc", "TELEGRAM_CHAT_ID": "1"}
	tests := []struct {
		name string
		env  map[string]string
		want time.Duration
	}{
		{name: "default", env: map[string]string{}, want: DefaultInterval},
		{name: "seconds", env: map[string]string{"JOKE_INTERVAL_SEC": "45"}, want: 45 * time.Second},
		{name: "legacy minutes", env: map[string]string{"JOKE_INTERVAL_MIN": "2"}, want: 2 * time.Minute},
		{name: "seconds beat minutes", env: map[string]string{"JOKE_INTERVAL_SEC": "5", "JOKE_INTERVAL_MIN": "2"}, want: 5 * time.Second},
		{name: "clamped", env: map[string]string{"JOKE_INTERVAL_SEC": "0"}, want: time.Second},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := Resolve(base, envFrom(tt.env), nil)
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if cfg.Schedule.Interval != tt.want {
				t.Fatalf("Interval = %v, want %v", cfg.Schedule.Interval, tt.want)
			}
		})
	}

	if _, err := Resolve(base, envFrom(map[string]string{"JOKE_INTERVAL_SEC": "ten"}), nil); err == nil {
		t.Fatal("expected error for non-numeric interval")
	}
}

func TestResolveRejectsMissingAndPlaceholderCredentials(t *testing.T) {
	t.Parallel()
	_, err := Resolve(map[string]string{}, envFrom(nil), nil)
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}

	_, err = Resolve(map[string]string{"TELEGRAM_BOT_TOKEN": "TON_TOKEN_BOT", "TELEGRAM_CHAT_ID": "TON_CHAT_ID"}, envFrom(nil), nil)
	if !errors.Is(err, ErrPlaceholderCredential) {
		t.Fatalf("expected ErrPlaceholderCredential, got %v", err)
	}
}

func TestResolveWhatsApp(t *testing.T) {
	t.Parallel()
	base := map[string]string{"TELEGRAM_BOT_TOKEN": "123:abc", "TELEGRAM_CHAT_ID": "1"}

	_, err := Resolve(base, envFrom(map[string]string{"TWILIO_ACCOUNT_SID": "AC1"}), nil)
	if !errors.Is(err, ErrPartialWhatsApp) {
		t.Fatalf("expected ErrPartialWhatsApp, got %v", err)
	}

	cfg, err := Resolve(base, envFrom(map[string]string{
		"TWILIO_ACCOUNT_SID": "AC1",
		"TWILIO_AUTH_TOKEN":  "secret",
		"WHATSAPP_FROM":      "+100",
		"WHATSAPP_TO":        "+200",
	}), nil)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if !cfg.WhatsApp.Enabled() {
		t.Fatal("WhatsApp should be enabled")
	}
}

func TestResolveWindow(t *testing.T) {
	t.Parallel()
	base := map[string]string{"TELEGRAM_BOT_TOKEN": "123:abc", "TELEGRAM_CHAT_ID": "1"}

	cfg, err := Resolve(base, envFrom(map[string]string{"ACTIVE_START": "22:00", "ACTIVE_END": "06:00"}), nil)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if cfg.Schedule.Window == nil || !cfg.Schedule.Window.Wraps() {
		t.Fatalf("expected wrapping window, got %v", cfg.Schedule.Window)
	}

	if _, err := Resolve(base, envFrom(map[string]string{"ACTIVE_START": "22:00"}), nil); err == nil {
		t.Fatal("expected error for one-sided window")
	}
	if _, err := Resolve(base, envFrom(map[string]string{"ACTIVE_START": "25:00", "ACTIVE_END": "06:00"}), nil); err == nil {
		t.Fatal("expected error for invalid window")
	}
}

func TestResolvePromptsForMissingValuesOnly(t *testing.T) {
	t.Parallel()
	p := &scriptedPrompter{answers: []string{"99", "120", "09:00", "18:00"}}
	file := map[string]string{"TELEGRAM_BOT_TOKEN": "123:abc"}

	cfg, err := Resolve(file, envFrom(nil), p)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if len(p.asked) != 4 {
		t.Fatalf("expected 4 prompts (chat id, interval, start, end), got %v", p.asked)
	}
	if cfg.TelegramToken != "123:abc" || cfg.TelegramChatID != "99" {
		t.Fatalf("unexpected credentials %q %q", cfg.TelegramToken, cfg.TelegramChatID)
	}
	if cfg.Schedule.Interval != 120*time.Second {
		t.Fatalf("Interval = %v", cfg.Schedule.Interval)
	}
	if cfg.Schedule.Window == nil || cfg.Schedule.Window.String() != "09:00-18:00" {
		t.Fatalf("Window = %v", cfg.Schedule.Window)
	}
}

func TestReadFileJSONAndYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "secrets.json")
	if err := os.WriteFile(jsonPath, []byte(`{"TELEGRAM_BOT_TOKEN": "t", "JOKE_INTERVAL_MIN": 3}`), 0o600); err != nil {
		t.Fatal(err)
	}
	m, err := ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("ReadFile json: %v", err)
	}
	if m["TELEGRAM_BOT_TOKEN"] != "t" || m["JOKE_INTERVAL_MIN"] != "3" {
		t.Fatalf("unexpected json values: %v", m)
	}

	yamlPath := filepath.Join(dir, "secrets.yaml")
	if err := os.WriteFile(yamlPath, []byte("TELEGRAM_CHAT_ID: \"-100\"\nACTIVE_START: \"08:00\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	m, err = ReadFile(yamlPath)
	if err != nil {
		t.Fatalf("ReadFile yaml: %v", err)
	}
	if m["TELEGRAM_CHAT_ID"] != "-100" || m["ACTIVE_START"] != "08:00" {
		t.Fatalf("unexpected yaml values: %v", m)
	}

	m, err = ReadFile(filepath.Join(dir, "missing.json"))
	if err != nil || len(m) != 0 {
		t.Fatalf("missing file should yield empty map, got %v, %v", m, err)
	}

	badPath := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(badPath, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(badPath); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadGit(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("GIT_USER=alice\nGIT_REPO=jokes\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	g, err := LoadGit(envFile)
	if err != nil {
		t.Fatalf("LoadGit error: %v", err)
	}
	if g.User != "alice" || g.Repo != "jokes" || g.Branch != "main" || g.RepoPath != "." {
		t.Fatalf("unexpected git config: %+v", g)
	}
	if err := g.RequireRepo(); err != nil {
		t.Fatalf("RequireRepo: %v", err)
	}

	g, err = LoadGit(filepath.Join(dir, "absent.env"))
	if err != nil {
		t.Fatalf("LoadGit on missing file: %v", err)
	}
	if g.User == "" && g.Repo == "" && g.RequireRepo() == nil {
		t.Fatal("RequireRepo should fail without user/repo")
	}
}

func TestLoadReadsConfiguredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.yaml")
	content := "TELEGRAM_BOT_TOKEN: abc:123\nTELEGRAM_CHAT_ID: -100200\nDATABASE_URL: sqlite://jokes.db\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOT_CONFIG_FILE", path)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ConfigFile != path {
		t.Fatalf("ConfigFile = %q", cfg.ConfigFile)
	}
	if cfg.TelegramToken != "abc:123" || cfg.TelegramChatID != "-100200" {
		t.Fatalf("unexpected credentials: %q %q", cfg.TelegramToken, cfg.TelegramChatID)
	}

	dbURL, err := LoadDatabaseURL(path)
	if err != nil {
		t.Fatalf("LoadDatabaseURL: %v", err)
	}
	if dbURL != "sqlite://jokes.db" {
		t.Fatalf("DATABASE_URL = %q", dbURL)
	}
}

func TestConfigFilePath(t *testing.T) {
	t.Setenv("BOT_CONFIG_FILE", "")
	if got := ConfigFilePath(""); got != DefaultConfigFile {
		t.Fatalf("got %q", got)
	}
	t.Setenv("BOT_CONFIG_FILE", "/etc/jokebot.yaml")
	if got := ConfigFilePath(""); got != "/etc/jokebot.yaml" {
		t.Fatalf("got %q", got)
	}
	if got := ConfigFilePath("explicit.json"); got != "explicit.json" {
		t.Fatalf("got %q", got)
	}
}
