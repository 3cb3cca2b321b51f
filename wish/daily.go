package wish

import "time"

const dailyDateFormat = "2006-01-02"

// DailyStatus is today's suggested prompt plus the caller's completion
// bookkeeping.
type DailyStatus struct {
	Prompt         CatalogPrompt `json:"prompt"`
	Date           string        `json:"date"`
	CompletedToday bool          `json:"completedToday"`
	Streak         int           `json:"streak"`
}

// promptForDay picks the catalog entry for a calendar day. The pick is a
// pure function of the date (day of year modulo catalog size): repeated
// calls within the same day always return the same prompt, and no cached
// pick has to be persisted.
func promptForDay(catalog []CatalogPrompt, day time.Time) CatalogPrompt {
	return catalog[day.YearDay()%len(catalog)]
}

// DailyPrompt returns today's prompt and the user's completion state.
func (m *Manager) DailyPrompt(today time.Time) DailyStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	date := today.Format(dailyDateFormat)
	status := DailyStatus{
		Prompt: promptForDay(m.catalog, today),
		Date:   date,
		Streak: m.streakLocked(today),
	}
	for _, c := range m.settings.DailyCompletions {
		if c.Date == date {
			status.CompletedToday = true
			break
		}
	}
	return status
}

// streakLocked counts consecutive completed days ending at today.
func (m *Manager) streakLocked(today time.Time) int {
	completed := make(map[string]bool, len(m.settings.DailyCompletions))
	for _, c := range m.settings.DailyCompletions {
		completed[c.Date] = true
	}
	streak := 0
	for day := today; completed[day.Format(dailyDateFormat)]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}
