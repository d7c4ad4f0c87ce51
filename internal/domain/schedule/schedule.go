// internal/domain/schedule/schedule.go
package schedule

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// MinInterval is the smallest allowed delay between two jokes.
const MinInterval = time.Second

// Config is fixed at startup and never mutated afterwards.
type Config struct {
	Interval time.Duration
	Window   *Window // nil means "always active"
}

// TimeOfDay is a wall-clock HH:MM.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts "HH:MM" (24h clock).
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	s := strings.TrimSpace(raw)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: expected HH:MM", raw)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", raw)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", raw)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) seconds() int {
	return t.Hour*3600 + t.Minute*60
}

// Window is a daily active range. When Start > End the window wraps past midnight.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay

	startSchedule cron.Schedule
}

// NewWindow builds a window; the start instant is kept as a daily cron schedule
// so next-start computation follows the local calendar (DST included).
func NewWindow(start, end TimeOfDay) (*Window, error) {
	sched, err := cron.ParseStandard(fmt.Sprintf("%d %d * * *", start.Minute, start.Hour))
	if err != nil {
		return nil, fmt.Errorf("invalid window start %s: %w", start, err)
	}
	return &Window{Start: start, End: end, startSchedule: sched}, nil
}

// ParseWindow parses a pair of HH:MM strings.
func ParseWindow(start, end string) (*Window, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return nil, fmt.Errorf("window start: %w", err)
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return nil, fmt.Errorf("window end: %w", err)
	}
	return NewWindow(s, e)
}

func (w *Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// Wraps reports whether the window crosses midnight.
func (w *Window) Wraps() bool {
	return w.Start.seconds() > w.End.seconds()
}

// Contains reports whether now falls inside the window (bounds inclusive).
func (w *Window) Contains(now time.Time) bool {
	cur := now.Hour()*3600 + now.Minute()*60 + now.Second()
	start, end := w.Start.seconds(), w.End.seconds()
	if start <= end {
		return start <= cur && cur <= end
	}
	return cur >= start || cur <= end
}

// NextStart returns the first start instant strictly after now.
func (w *Window) NextStart(now time.Time) time.Time {
	return w.startSchedule.Next(now)
}

// UntilNextStart is the delay until NextStart in whole seconds, rounded up, never zero.
func (w *Window) UntilNextStart(now time.Time) time.Duration {
	secs := math.Ceil(w.NextStart(now).Sub(now).Seconds())
	if secs < 1 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}
