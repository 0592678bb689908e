package garden

import "time"

// Memory is the permanent record left after a plant is harvested. Memories
// are immutable once created.
type Memory struct {
	id              string
	message         string
	color           SeedColor
	plantedAt       time.Time
	harvestedAt     time.Time
	durationMinutes int
	position        Position
}

// ReconstructMemory rebuilds a memory from store data.
func ReconstructMemory(
	id, message string,
	color SeedColor,
	plantedAt, harvestedAt time.Time,
	durationMinutes int,
	position Position,
) *Memory {
	return &Memory{
		id:              id,
		message:         message,
		color:           color,
		plantedAt:       plantedAt,
		harvestedAt:     harvestedAt,
		durationMinutes: durationMinutes,
		position:        position,
	}
}

// WithID returns a copy of the memory carrying the store-assigned id.
func (m *Memory) WithID(id string) *Memory {
	copied := *m
	copied.id = id
	return &copied
}

// ID returns the store-assigned identifier.
func (m *Memory) ID() string { return m.id }

// Message returns the revealed message.
func (m *Memory) Message() string { return m.message }

// Color returns the memory's palette color.
func (m *Memory) Color() SeedColor { return m.color }

// PlantedAt returns the original planting instant.
func (m *Memory) PlantedAt() time.Time { return m.plantedAt }

// HarvestedAt returns when the plant was harvested.
func (m *Memory) HarvestedAt() time.Time { return m.harvestedAt }

// DurationMinutes returns the growth duration fixed at seed creation.
func (m *Memory) DurationMinutes() int { return m.durationMinutes }

// Position returns the raw stored planting position.
func (m *Memory) Position() Position { return m.position }
