package impact

import (
	"fmt"
	"time"

	"jariyah/internal/models"
)

// Window is an inclusive date range [From, To].
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t lies in the window, both ends included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// Validate rejects windows whose start is after their end.
func (w Window) Validate() error {
	if w.From.After(w.To) {
		return fmt.Errorf("%w: window starts after it ends", models.ErrInvalidInput)
	}
	return nil
}

// FilterByWindow keeps donations dated inside w, preserving entry order.
func FilterByWindow(donations []models.Donation, w Window) []models.Donation {
	out := make([]models.Donation, 0, len(donations))
	for _, d := range donations {
		if w.Contains(d.Date) {
			out = append(out, d)
		}
	}
	return out
}

// Preset is a named window relative to now.
type Preset string

const (
	Preset24h Preset = "24h"
	Preset7d  Preset = "7d"
	Preset30d Preset = "30d"
	Preset1y  Preset = "1y"
	PresetAll Preset = "all"
)

// AllTimeStart is where the "all" preset begins.
var AllTimeStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// WindowFor resolves a preset against now.
func WindowFor(p Preset, now time.Time) (Window, error) {
	switch p {
	case Preset24h:
		return Window{From: now.AddDate(0, 0, -1), To: now}, nil
	case Preset7d:
		return Window{From: now.AddDate(0, 0, -7), To: now}, nil
	case Preset30d, "":
		return Window{From: now.AddDate(0, 0, -30), To: now}, nil
	case Preset1y:
		return Window{From: now.AddDate(-1, 0, 0), To: now}, nil
	case PresetAll:
		return Window{From: AllTimeStart, To: now}, nil
	}
	return Window{}, fmt.Errorf("%w: unknown window preset %q", models.ErrInvalidInput, p)
}
