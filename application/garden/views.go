package gardenapp

import (
	"time"

	"gardend/domain/garden"
)

// Read models pushed to clients. Growth, hydration and countdown are derived
// from the stored timestamps at view-build time; positions are resolved into
// current canvas units.

// PositionView is a point in current canvas units.
type PositionView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SeedView is the read model of an unplanted seed.
type SeedView struct {
	ID              string              `json:"id"`
	Message         string              `json:"message"`
	DurationMinutes int                 `json:"durationMinutes"`
	Color           garden.SeedColor    `json:"color"`
	Palette         garden.PaletteEntry `json:"palette"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// PlantView is the read model of a growing plant, including every derived
// value a client needs to render it.
type PlantView struct {
	ID              string           `json:"id"`
	SeedID          string           `json:"seedId"`
	Message         string           `json:"message"`
	Color           garden.SeedColor `json:"color"`
	DurationMinutes int              `json:"durationMinutes"`
	Position        PositionView     `json:"position"`
	PlantedAt       time.Time        `json:"plantedAt"`
	LastWateredAt   time.Time        `json:"lastWateredAt"`
	WaterStreak     int              `json:"waterStreak"`

	Stage           garden.GrowthStage `json:"stage"`
	ProgressPercent int                `json:"progressPercent"`
	Hydration       int                `json:"hydration"`
	Countdown       string             `json:"countdown"`
	IsReady         bool               `json:"isReady"`
	IsNear          bool               `json:"isNear"`
}

// MemoryView is the read model of a harvested memory.
type MemoryView struct {
	ID              string           `json:"id"`
	Message         string           `json:"message"`
	Color           garden.SeedColor `json:"color"`
	PlantedAt       time.Time        `json:"plantedAt"`
	HarvestedAt     time.Time        `json:"harvestedAt"`
	DurationMinutes int              `json:"durationMinutes"`
	Duration        string           `json:"duration"`
	Position        PositionView     `json:"position"`
}

// CommentView is the read model of a memory comment.
type CommentView struct {
	ID        string    `json:"id"`
	MemoryID  string    `json:"memoryId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// SettingsView is the read model of the shared settings singleton.
type SettingsView struct {
	Weather     garden.Weather `json:"weather"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

// GardenView is the full synchronized state of the garden.
type GardenView struct {
	Seeds    []SeedView   `json:"seeds"`
	Plants   []PlantView  `json:"plants"`
	Memories []MemoryView `json:"memories"`
	Settings SettingsView `json:"settings"`
	Loading  bool         `json:"loading"`
}

func newSeedView(s *garden.Seed) SeedView {
	return SeedView{
		ID:              s.ID(),
		Message:         s.Message(),
		DurationMinutes: s.DurationMinutes(),
		Color:           s.Color(),
		Palette:         s.Color().Display(),
		CreatedAt:       s.CreatedAt(),
	}
}

func newPlantView(p *garden.Plant, now time.Time) PlantView {
	pos := garden.Normalize(p.Position())
	remaining := p.Remaining(now)

	return PlantView{
		ID:              p.ID(),
		SeedID:          p.SeedID(),
		Message:         p.Message(),
		Color:           p.Color(),
		DurationMinutes: p.DurationMinutes(),
		Position:        PositionView{X: pos.X, Y: pos.Y},
		PlantedAt:       p.PlantedAt(),
		LastWateredAt:   p.LastWateredAt(),
		WaterStreak:     p.WaterStreak(),
		Stage:           p.Stage(now),
		ProgressPercent: p.ProgressPercent(now),
		Hydration:       p.Hydration(now),
		Countdown:       garden.FormatCountdown(remaining),
		IsReady:         remaining.IsReady,
		IsNear:          remaining.IsNear,
	}
}

// MemoryViewOf builds the read model of a single memory, for presenting a
// harvest reveal before the next snapshot arrives.
func MemoryViewOf(m *garden.Memory) MemoryView {
	return newMemoryView(m)
}

func newMemoryView(m *garden.Memory) MemoryView {
	pos := garden.Normalize(m.Position())
	return MemoryView{
		ID:              m.ID(),
		Message:         m.Message(),
		Color:           m.Color(),
		PlantedAt:       m.PlantedAt(),
		HarvestedAt:     m.HarvestedAt(),
		DurationMinutes: m.DurationMinutes(),
		Duration:        garden.FormatDuration(m.DurationMinutes()),
		Position:        PositionView{X: pos.X, Y: pos.Y},
	}
}

func newCommentView(c *garden.Comment) CommentView {
	return CommentView{
		ID:        c.ID(),
		MemoryID:  c.MemoryID(),
		Text:      c.Text(),
		CreatedAt: c.CreatedAt(),
	}
}

func newSettingsView(s garden.Settings) SettingsView {
	return SettingsView{Weather: s.Weather, LastUpdated: s.LastUpdated}
}
