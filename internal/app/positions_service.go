// internal/app/positions_service.go
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"joke_notification_bot/internal/domain/position"
)

// DefaultPositionsLog is used when no log file is given.
const DefaultPositionsLog = "open_positions.log"

type positionEntry struct {
	position.Position
	Gain        float64 `json:"gain"`
	GainPercent float64 `json:"gain_percent"`
	Timestamp   string  `json:"timestamp"`
}

// LogPositions appends one JSON line per position to logFile, creating parent directories.
func LogPositions(positions []position.Position, logFile string, now time.Time) error {
	if logFile == "" {
		logFile = DefaultPositionsLog
	}
	if dir := filepath.Dir(logFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open positions log: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	for _, p := range positions {
		entry := positionEntry{
			Position:    p,
			Gain:        p.Gain(),
			GainPercent: p.GainPercent(),
			Timestamp:   now.Format(time.RFC3339),
		}
		if err := enc.Encode(entry); err != nil {
			return fmt.Errorf("failed to write position %s: %w", p.Symbol, err)
		}
	}
	return nil
}
