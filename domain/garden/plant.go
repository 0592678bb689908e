package garden

import "time"

// Plant is a placed, growing seed tracked by elapsed time and watering
// history. Its position is written once at planting and never moves.
type Plant struct {
	id              string
	seedID          string
	message         string
	color           SeedColor
	durationMinutes int
	position        Position
	plantedAt       time.Time
	lastWateredAt   time.Time
	waterStreak     int
}

// ReconstructPlant rebuilds a plant from store data.
func ReconstructPlant(
	id, seedID, message string,
	color SeedColor,
	durationMinutes int,
	position Position,
	plantedAt, lastWateredAt time.Time,
	waterStreak int,
) *Plant {
	return &Plant{
		id:              id,
		seedID:          seedID,
		message:         message,
		color:           color,
		durationMinutes: durationMinutes,
		position:        position,
		plantedAt:       plantedAt,
		lastWateredAt:   lastWateredAt,
		waterStreak:     waterStreak,
	}
}

// WithID returns a copy of the plant carrying the store-assigned id.
func (p *Plant) WithID(id string) *Plant {
	copied := *p
	copied.id = id
	return &copied
}

// Water refreshes the plant's hydration clock and extends the streak.
func (p *Plant) Water(now time.Time) {
	p.lastWateredAt = now
	p.waterStreak++
}

// Stage returns the plant's current growth stage.
func (p *Plant) Stage(now time.Time) GrowthStage {
	return Stage(p.plantedAt, p.durationMinutes, now)
}

// ProgressPercent returns growth progress as a whole percentage.
func (p *Plant) ProgressPercent(now time.Time) int {
	return ProgressPercent(p.plantedAt, p.durationMinutes, now)
}

// Hydration returns the plant's current 0-100 freshness level.
func (p *Plant) Hydration(now time.Time) int {
	return Hydration(p.lastWateredAt, now)
}

// Remaining returns the countdown until the plant is ready to harvest.
func (p *Plant) Remaining(now time.Time) TimeRemaining {
	return Remaining(p.plantedAt, p.durationMinutes, now)
}

// ID returns the store-assigned identifier.
func (p *Plant) ID() string { return p.id }

// SeedID returns the id of the seed this plant grew from. Provenance only;
// the seed document is gone once the plant exists.
func (p *Plant) SeedID() string { return p.seedID }

// Message returns the hidden message the plant carries.
func (p *Plant) Message() string { return p.message }

// Color returns the plant's palette color.
func (p *Plant) Color() SeedColor { return p.color }

// DurationMinutes returns the growth duration fixed at seed creation.
func (p *Plant) DurationMinutes() int { return p.durationMinutes }

// Position returns the raw stored planting position. Callers wanting current
// canvas units must pass it through Normalize.
func (p *Plant) Position() Position { return p.position }

// PlantedAt returns the planting instant.
func (p *Plant) PlantedAt() time.Time { return p.plantedAt }

// LastWateredAt returns the most recent watering instant.
func (p *Plant) LastWateredAt() time.Time { return p.lastWateredAt }

// WaterStreak returns how many times the plant has been watered, planting
// included.
func (p *Plant) WaterStreak() int { return p.waterStreak }
