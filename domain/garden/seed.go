package garden

import (
	"strings"
	"time"

	pkgerrors "gardend/pkg/errors"
)

// Seed is an unplanted, time-delayed message awaiting placement. Seeds are
// created by an administrative action and consumed exactly once by planting.
type Seed struct {
	id              string
	message         string
	durationMinutes int
	color           SeedColor
	createdAt       time.Time
}

// NewSeed creates a seed with full boundary validation. The id is assigned by
// the store on creation; until then it is empty.
func NewSeed(message string, durationMinutes int, color SeedColor, now time.Time) (*Seed, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, pkgerrors.NewValidationError("message cannot be empty")
	}
	if durationMinutes < MinDurationMinutes {
		return nil, pkgerrors.NewValidationError("duration must be at least 1 minute")
	}
	if durationMinutes > MaxDurationMinutes {
		return nil, pkgerrors.NewValidationError("duration cannot exceed 7 days")
	}
	if !color.IsValid() {
		return nil, pkgerrors.NewValidationError("unknown seed color")
	}

	return &Seed{
		message:         message,
		durationMinutes: durationMinutes,
		color:           color,
		createdAt:       now,
	}, nil
}

// ReconstructSeed rebuilds a seed from store data with preserved timestamps.
func ReconstructSeed(id, message string, durationMinutes int, color SeedColor, createdAt time.Time) *Seed {
	return &Seed{
		id:              id,
		message:         message,
		durationMinutes: durationMinutes,
		color:           color,
		createdAt:       createdAt,
	}
}

// WithID returns a copy of the seed carrying the store-assigned id.
func (s *Seed) WithID(id string) *Seed {
	copied := *s
	copied.id = id
	return &copied
}

// ID returns the store-assigned identifier.
func (s *Seed) ID() string { return s.id }

// Message returns the hidden message the seed carries.
func (s *Seed) Message() string { return s.message }

// DurationMinutes returns the growth duration fixed at creation.
func (s *Seed) DurationMinutes() int { return s.durationMinutes }

// Color returns the seed's palette color.
func (s *Seed) Color() SeedColor { return s.color }

// CreatedAt returns when the seed was created.
func (s *Seed) CreatedAt() time.Time { return s.createdAt }
