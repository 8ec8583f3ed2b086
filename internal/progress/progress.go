// Package progress implements the daily-streak and minute-tracking state
// machine as pure transitions over the singleton progress record. Callers
// (the session orchestrator) are responsible for persisting the returned
// record; nothing here touches storage.
package progress

import (
	"time"

	"github.com/speakeng/go-tutor-backend/internal/domain"
)

// DateLayout is the calendar-date form stored in LastActiveDate.
const DateLayout = "2006-01-02"

// LocalDates derives the (today, yesterday) calendar dates from now, in
// now's location. Streaks are a local-time concept: two sessions either
// side of local midnight belong to different days.
func LocalDates(now time.Time) (today, yesterday string) {
	return now.Format(DateLayout), now.AddDate(0, 0, -1).Format(DateLayout)
}

// RecordActivity applies the session-start transition for the calendar day
// given by today/yesterday (local dates in DateLayout form):
//
//   - already active today: streak and todayMinutes unchanged
//   - last active yesterday: streak+1, todayMinutes reset
//   - anything else (including first run): streak reset to 1, never 0
//
// Every branch counts the session and stamps lastActiveDate. Applied once
// per session start, not per message.
func RecordActivity(today, yesterday string, p domain.UserProgress) domain.UserProgress {
	switch p.LastActiveDate {
	case today:
		// no streak change
	case yesterday:
		p.DailyStreak++
		p.TodayMinutes = 0
	default:
		p.DailyStreak = 1
		p.TodayMinutes = 0
	}
	p.TotalSessions++
	p.LastActiveDate = today
	return p
}

// AddSpokenMinutes accumulates speaking time. No streak side effects.
func AddSpokenMinutes(n int, p domain.UserProgress) domain.UserProgress {
	if n <= 0 {
		return p
	}
	p.MinutesSpoken += n
	p.TodayMinutes += n
	return p
}

// AddLearnedWord set-inserts word into WordsLearned; a word already present
// leaves the record unchanged.
func AddLearnedWord(word string, p domain.UserProgress) domain.UserProgress {
	if word == "" || p.HasLearned(word) {
		return p
	}
	out := make([]string, 0, len(p.WordsLearned)+1)
	out = append(out, p.WordsLearned...)
	out = append(out, word)
	p.WordsLearned = out
	return p
}
