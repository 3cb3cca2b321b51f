package core

import (
	"context"
	"time"
)

type (
	// DailyCompletion records that a user granted the daily prompt on a
	// given calendar day.
	DailyCompletion struct {
		Date        string    `json:"date"` // calendar day, "2006-01-02"
		PromptID    int       `json:"promptId"`
		WishID      int64     `json:"wishId"`
		CompletedAt time.Time `json:"completedAt"`
	}

	// Settings holds per-user preferences. Most fields are opaque to the
	// lifecycle manager; it only reads the request quota and records daily
	// completions.
	Settings struct {
		MaxRequestsPerHour int               `json:"maxRequestsPerHour,omitempty"`
		Model              string            `json:"model,omitempty"`
		ImageWidth         int               `json:"imageWidth,omitempty"`
		ImageHeight        int               `json:"imageHeight,omitempty"`
		Theme              string            `json:"theme,omitempty"`
		DailyCompletions   []DailyCompletion `json:"dailyCompletions,omitempty"`
		Extra              map[string]string `json:"extra,omitempty"`
	}

	// SettingsStore persists per-user settings.
	SettingsStore interface {
		// LoadSettings returns the stored settings, or nil when the user has
		// none yet.
		LoadSettings(ctx context.Context, userID string) (*Settings, error)

		// SaveSettings replaces the stored settings for a user.
		SaveSettings(ctx context.Context, userID string, settings *Settings) error
	}
)

// Clone returns a deep copy of the settings.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	c := *s
	if s.DailyCompletions != nil {
		c.DailyCompletions = append([]DailyCompletion(nil), s.DailyCompletions...)
	}
	if s.Extra != nil {
		c.Extra = make(map[string]string, len(s.Extra))
		for k, v := range s.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}
