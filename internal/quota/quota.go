// Package quota tracks daily generation usage in a small JSON state file.
// The counter resets when the calendar date changes.
package quota

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultDailyLimit applies to unlicensed callers
const DefaultDailyLimit = 3

type state struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Tracker is a file-backed daily usage counter
type Tracker struct {
	path  string
	limit int
	now   func() time.Time
}

// NewTracker creates a tracker persisting to path with the given daily limit.
// A limit <= 0 falls back to DefaultDailyLimit.
func NewTracker(path string, limit int) *Tracker {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &Tracker{path: path, limit: limit, now: time.Now}
}

// Limit returns the configured daily limit
func (t *Tracker) Limit() int {
	return t.limit
}

// Remaining returns how many generations are left today
func (t *Tracker) Remaining() (int, error) {
	s, err := t.load()
	if err != nil {
		return 0, err
	}
	remaining := t.limit - s.Count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Allow reports whether another generation is permitted today, along with
// the count that would remain after it
func (t *Tracker) Allow() (bool, int, error) {
	remaining, err := t.Remaining()
	if err != nil {
		return false, 0, err
	}
	if remaining == 0 {
		return false, 0, nil
	}
	return true, remaining - 1, nil
}

// Consume records one generation and persists the counter
func (t *Tracker) Consume() error {
	s, err := t.load()
	if err != nil {
		return err
	}
	s.Count++
	return t.save(s)
}

func (t *Tracker) today() string {
	return t.now().Format("2006-01-02")
}

func (t *Tracker) load() (state, error) {
	s := state{Date: t.today()}

	data, err := os.ReadFile(t.path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("quota: read state: %w", err)
	}

	var stored state
	if err := json.Unmarshal(data, &stored); err != nil {
		// Corrupt state file: start the day over rather than locking out
		return s, nil
	}
	if stored.Date == s.Date {
		s.Count = stored.Count
	}
	return s, nil
}

func (t *Tracker) save(s state) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("quota: encode state: %w", err)
	}
	if dir := filepath.Dir(t.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("quota: create state dir: %w", err)
		}
	}
	if err := os.WriteFile(t.path, data, 0o644); err != nil {
		return fmt.Errorf("quota: write state: %w", err)
	}
	return nil
}
