package garden

import (
	"fmt"
	"math"
	"time"
)

// GrowthStage represents how far a plant has progressed toward harvest.
type GrowthStage string

const (
	StageSprout   GrowthStage = "sprout"
	StageSeedling GrowthStage = "seedling"
	StageBudding  GrowthStage = "budding"
	StageBlooming GrowthStage = "blooming"
	StageReady    GrowthStage = "ready"
)

const (
	// MinDurationMinutes is the shortest allowed growth duration.
	MinDurationMinutes = 1
	// MaxDurationMinutes is the longest allowed growth duration: 7 days.
	MaxDurationMinutes = 7 * 24 * 60

	// hydrationWindow is the time it takes a freshly watered plant to dry out
	// completely.
	hydrationWindow = 24 * time.Hour
)

// growthProgress returns elapsed/total clamped to [0, 1].
func growthProgress(plantedAt time.Time, durationMinutes int, now time.Time) float64 {
	total := time.Duration(durationMinutes) * time.Minute
	if total <= 0 {
		return 1
	}
	progress := float64(now.Sub(plantedAt)) / float64(total)
	return math.Min(math.Max(progress, 0), 1)
}

// Stage derives the growth stage from the planting instant and duration.
// Thresholds are closed on the lower bound; once progress reaches 1 the
// plant is ready and stays ready.
func Stage(plantedAt time.Time, durationMinutes int, now time.Time) GrowthStage {
	progress := growthProgress(plantedAt, durationMinutes, now)

	switch {
	case progress >= 1:
		return StageReady
	case progress >= 0.75:
		return StageBlooming
	case progress >= 0.5:
		return StageBudding
	case progress >= 0.25:
		return StageSeedling
	default:
		return StageSprout
	}
}

// ProgressPercent returns growth progress as a whole percentage, capped at 100.
func ProgressPercent(plantedAt time.Time, durationMinutes int, now time.Time) int {
	return int(math.Round(growthProgress(plantedAt, durationMinutes, now) * 100))
}

// Hydration returns the 0-100 freshness level of a plant. It decays linearly
// from 100 to 0 over 24 hours since the last watering; watering resets it to
// 100 with no partial credit.
func Hydration(lastWateredAt, now time.Time) int {
	elapsed := now.Sub(lastWateredAt)
	hydration := 100 - float64(elapsed)/float64(hydrationWindow)*100
	return int(math.Min(math.Max(math.Round(hydration), 0), 100))
}

// TimeRemaining is the countdown until a plant is ready to harvest.
type TimeRemaining struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
	Total   time.Duration
	IsReady bool
	IsNear  bool
}

// Remaining computes the countdown until harvest. A plant is "near" when less
// than 10% of its total duration or less than one hour remains, whichever is
// more lenient.
func Remaining(plantedAt time.Time, durationMinutes int, now time.Time) TimeRemaining {
	total := time.Duration(durationMinutes) * time.Minute
	remaining := total - now.Sub(plantedAt)
	if remaining < 0 {
		remaining = 0
	}

	ms := remaining.Milliseconds()
	days := ms / 86400000
	hours := (ms % 86400000) / 3600000
	minutes := (ms % 3600000) / 60000
	seconds := (ms % 60000) / 1000

	near := remaining > 0 &&
		(float64(remaining) < float64(total)*0.1 || remaining < time.Hour)

	return TimeRemaining{
		Days:    int(days),
		Hours:   int(hours),
		Minutes: int(minutes),
		Seconds: int(seconds),
		Total:   remaining,
		IsReady: remaining == 0,
		IsNear:  near,
	}
}

// FormatDuration renders a whole-minute duration using its two most
// significant non-zero units, falling back to "0m" when nothing remains.
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}

	days := minutes / (24 * 60)
	hours := (minutes % (24 * 60)) / 60
	mins := minutes % 60

	parts := make([]string, 0, 2)
	for _, part := range []struct {
		value int
		unit  string
	}{{days, "d"}, {hours, "h"}, {mins, "m"}} {
		if part.value > 0 && len(parts) < 2 {
			parts = append(parts, fmt.Sprintf("%d%s", part.value, part.unit))
		}
	}

	if len(parts) == 0 {
		return "0m"
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + " " + parts[1]
}

// FormatCountdown renders a countdown using its two most significant units,
// or "Ready!" once the plant can be harvested.
func FormatCountdown(t TimeRemaining) string {
	if t.IsReady {
		return "Ready!"
	}
	if t.Days > 0 {
		return fmt.Sprintf("%dd %dh", t.Days, t.Hours)
	}
	if t.Hours > 0 {
		return fmt.Sprintf("%dh %dm", t.Hours, t.Minutes)
	}
	if t.Minutes > 0 {
		return fmt.Sprintf("%dm %ds", t.Minutes, t.Seconds)
	}
	return fmt.Sprintf("%ds", t.Seconds)
}
