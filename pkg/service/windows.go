package service

import (
	"time"

	"github.com/AccelByte/extend-cognitive-gate/pkg/gating"
	"github.com/AccelByte/extend-cognitive-gate/pkg/rq"
)

// Rolling-window derivations over the append-only completion log. Counters
// are recomputed from records on every evaluation so a cap can never go
// stale beyond the enclosing request.

// StartOfDayUTC returns midnight UTC for the instant's calendar day.
func StartOfDayUTC(now time.Time) time.Time {
	year, month, day := now.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// WeekWindowStart returns the start of the rolling 7-day window.
func WeekWindowStart(now time.Time) time.Time {
	return now.Add(-7 * 24 * time.Hour)
}

// BuildCaps derives the cap usage counts for a gating evaluation from raw
// completion records.
func BuildCaps(records []CompletionRecord, now time.Time) gating.Caps {
	dayStart := StartOfDayUTC(now)
	weekStart := WeekWindowStart(now)

	var caps gating.Caps
	for _, record := range records {
		if record.IsContentTask() || record.CompletedAt.After(now) {
			continue
		}

		inDay := !record.CompletedAt.Before(dayStart)
		inWeek := !record.CompletedAt.Before(weekStart)

		switch record.SystemType {
		case string(gating.SystemOne):
			if inDay {
				caps.S1DailyUsed++
			}
		case string(gating.SystemTwo):
			if inDay {
				caps.S2DailyUsed++
			}
			if inWeek {
				caps.S2WeeklyUsed++
				if gating.IsInsight(gating.GameType(record.GameType)) {
					caps.InsightWeeklyUsed++
				}
			}
		}
	}

	return caps
}

// S2GameScores extracts the most recent System-2 session scores, oldest
// first, bounded to the RQ score window.
func S2GameScores(records []CompletionRecord) []float64 {
	var scores []float64
	for _, record := range records {
		if record.IsContentTask() || record.SystemType != string(gating.SystemTwo) {
			continue
		}
		scores = append(scores, record.Score)
	}
	if len(scores) > rq.ScoreWindowSize {
		scores = scores[len(scores)-rq.ScoreWindowSize:]
	}
	return scores
}

// TaskCompletions extracts content-completion events for the RQ priming
// window.
func TaskCompletions(records []CompletionRecord) []rq.TaskCompletion {
	var tasks []rq.TaskCompletion
	for _, record := range records {
		if !record.IsContentTask() {
			continue
		}
		tasks = append(tasks, rq.TaskCompletion{
			Type:        rq.TaskType(record.ContentType),
			CompletedAt: record.CompletedAt,
		})
	}
	return tasks
}

// LastActivity returns the latest System-2 session and content task
// timestamps; zero values mean no such activity is on record.
func LastActivity(records []CompletionRecord) (lastS2GameAt, lastTaskAt time.Time) {
	for _, record := range records {
		if record.IsContentTask() {
			if record.CompletedAt.After(lastTaskAt) {
				lastTaskAt = record.CompletedAt
			}
			continue
		}
		if record.SystemType == string(gating.SystemTwo) && record.CompletedAt.After(lastS2GameAt) {
			lastS2GameAt = record.CompletedAt
		}
	}
	return lastS2GameAt, lastTaskAt
}
