package core

import (
	"time"

	"zenwork.app/wellness-server/internal/store"
)

// Insights are aggregate statistics over a user's journal history. They are
// recomputed from the entries and the action ledger on every read; nothing
// here is a source of truth.
type Insights struct {
	AverageMood    float64        `json:"average_mood"`
	TagFrequency   map[string]int `json:"tag_frequency"`
	CompletionRate float64        `json:"completion_rate"`
	EntryStreak    int            `json:"entry_streak"`
}

// ComputeInsights derives insights from already-loaded data. Pure function,
// no I/O. An empty entry list yields zero values, never NaN or a division
// error. Calendar-day boundaries for the streak are taken in loc, so the
// reference timezone is explicit rather than ambient.
func ComputeInsights(entries []store.JournalEntry, actions []store.UserAction, loc *time.Location) Insights {
	insights := Insights{
		TagFrequency: make(map[string]int),
	}

	if len(entries) > 0 {
		var moodSum int
		for _, entry := range entries {
			moodSum += entry.Mood
			// An entry counts once per tag; tags are already deduplicated
			// within an entry.
			for _, tag := range entry.Tags {
				insights.TagFrequency[tag]++
			}
		}
		insights.AverageMood = float64(moodSum) / float64(len(entries))
	}

	if len(actions) > 0 {
		completed := 0
		for _, action := range actions {
			if action.Completed {
				completed++
			}
		}
		insights.CompletionRate = float64(completed) / float64(len(actions))
	}

	insights.EntryStreak = entryStreak(entries, loc)
	return insights
}

// entryStreak counts consecutive calendar days with at least one entry,
// walking backwards from the most recent entry's day.
func entryStreak(entries []store.JournalEntry, loc *time.Location) int {
	if len(entries) == 0 {
		return 0
	}

	days := make(map[string]struct{}, len(entries))
	latest := entries[0].CreatedAt.In(loc)
	for _, entry := range entries {
		local := entry.CreatedAt.In(loc)
		if local.After(latest) {
			latest = local
		}
		days[local.Format("2006-01-02")] = struct{}{}
	}

	streak := 0
	day := latest
	for {
		if _, ok := days[day.Format("2006-01-02")]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
