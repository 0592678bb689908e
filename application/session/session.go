package session

import (
	"sync"

	gardenapp "gardend/application/garden"
	pkgerrors "gardend/pkg/errors"
)

// Mode is the client's current interaction mode. Exactly one is active;
// selecting one clears the other.
type Mode string

const (
	ModeNone      Mode = "none"
	ModeWatering  Mode = "watering"
	ModeUprooting Mode = "uprooting"
)

// IsValid reports whether the mode is one of the known modes.
func (m Mode) IsValid() bool {
	switch m {
	case ModeNone, ModeWatering, ModeUprooting:
		return true
	}
	return false
}

// Season is the cosmetic season toggle.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

// IsValid reports whether the season is one of the four.
func (s Season) IsValid() bool {
	switch s {
	case SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter:
		return true
	}
	return false
}

// State is the snapshot of a session sent back to its client.
type State struct {
	SelectedSeedID string                `json:"selectedSeedId,omitempty"`
	Mode           Mode                  `json:"mode"`
	Season         Season                `json:"season"`
	Night          bool                  `json:"night"`
	HarvestReveal  *gardenapp.MemoryView `json:"harvestReveal,omitempty"`
}

// Session is per-connected-client ephemeral state. It is never persisted and
// resets to defaults on reconnect.
type Session struct {
	mu             sync.Mutex
	selectedSeedID string
	mode           Mode
	season         Season
	night          bool
	reveal         *gardenapp.MemoryView
}

// New creates a session in its default state.
func New() *Session {
	return &Session{
		mode:   ModeNone,
		season: SeasonSummer,
	}
}

// State returns the current session snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		SelectedSeedID: s.selectedSeedID,
		Mode:           s.mode,
		Season:         s.season,
		Night:          s.night,
		HarvestReveal:  s.reveal,
	}
}

// SelectSeed enters placement-pending for the given seed. At most one seed is
// selected at a time, and selecting a seed leaves any interaction mode.
func (s *Session) SelectSeed(seedID string) error {
	if seedID == "" {
		return pkgerrors.NewValidationError("seedId cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedSeedID = seedID
	s.mode = ModeNone
	return nil
}

// ClearSelection leaves placement-pending without planting.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedSeedID = ""
}

// PendingSeed returns the seed awaiting placement, if any.
func (s *Session) PendingSeed() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedSeedID, s.selectedSeedID != ""
}

// ConsumePendingSeed clears the selection after a successful planting and
// returns the seed that was pending.
func (s *Session) ConsumePendingSeed() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seedID := s.selectedSeedID
	s.selectedSeedID = ""
	return seedID, seedID != ""
}

// SetMode switches the interaction mode. Entering a mode drops any pending
// seed selection.
func (s *Session) SetMode(mode Mode) error {
	if !mode.IsValid() {
		return pkgerrors.NewValidationError("unknown interaction mode")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	if mode != ModeNone {
		s.selectedSeedID = ""
	}
	return nil
}

// Mode returns the current interaction mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetSeason switches the cosmetic season.
func (s *Session) SetSeason(season Season) error {
	if !season.IsValid() {
		return pkgerrors.NewValidationError("unknown season")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.season = season
	return nil
}

// SetNight toggles the day/night cosmetic state.
func (s *Session) SetNight(night bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.night = night
}

// ShowReveal records the memory presented after a harvest.
func (s *Session) ShowReveal(memory gardenapp.MemoryView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reveal = &memory
}

// DismissReveal closes the harvest reveal.
func (s *Session) DismissReveal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reveal = nil
}
