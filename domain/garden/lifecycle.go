package garden

import (
	"time"

	pkgerrors "gardend/pkg/errors"
)

// The lifecycle is a strict one-way chain: Seed -> Plant -> Memory, with
// uprooting as the only other exit. Each allowed edge has exactly one
// transition function here; no other transition is representable.

// SeedToPlant consumes a seed and produces the plant that replaces it. The
// position is stored raw; callers clamp it to the plantable rectangle before
// writing. The plant starts with a full hydration clock and a streak of 1.
func SeedToPlant(seed *Seed, position Position, now time.Time) (*Plant, error) {
	if seed == nil || seed.ID() == "" {
		return nil, pkgerrors.NewValidationError("cannot plant a seed that was never stored")
	}

	return &Plant{
		seedID:          seed.id,
		message:         seed.message,
		color:           seed.color,
		durationMinutes: seed.durationMinutes,
		position:        position,
		plantedAt:       now,
		lastWateredAt:   now,
		waterStreak:     1,
	}, nil
}

// PlantToMemory harvests a plant, producing the permanent memory that
// replaces it. Message, color, duration, position and the planting instant
// are carried over unchanged; only harvestedAt is stamped.
func PlantToMemory(plant *Plant, now time.Time) (*Memory, error) {
	if plant == nil || plant.ID() == "" {
		return nil, pkgerrors.NewValidationError("cannot harvest a plant that was never stored")
	}

	return &Memory{
		message:         plant.message,
		color:           plant.color,
		plantedAt:       plant.plantedAt,
		harvestedAt:     now,
		durationMinutes: plant.durationMinutes,
		position:        plant.position,
	}, nil
}

// PlantToVoid uproots a plant. Irreversible, and deliberately produces
// nothing: no memory is created. It returns the id of the document to delete.
func PlantToVoid(plant *Plant) (string, error) {
	if plant == nil || plant.ID() == "" {
		return "", pkgerrors.NewValidationError("cannot uproot a plant that was never stored")
	}
	return plant.id, nil
}
