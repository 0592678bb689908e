package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	gardenapp "gardend/application/garden"
	"gardend/domain/garden"
	"gardend/pkg/common"
	pkgerrors "gardend/pkg/errors"
	"gardend/pkg/utils"
)

// SeedHandler handles the administrative seed-creation surface.
type SeedHandler struct {
	garden *gardenapp.Service
	logger *zap.Logger
}

// NewSeedHandler creates a new seed handler
func NewSeedHandler(garden *gardenapp.Service, logger *zap.Logger) *SeedHandler {
	return &SeedHandler{garden: garden, logger: logger}
}

// CreateSeedRequest represents the request body for creating a seed
type CreateSeedRequest struct {
	Message         string `json:"message" validate:"required"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,min=1,max=10080"`
	Color           string `json:"color" validate:"required,oneof=sunset blush golden sapphire lavender moonlight"`
}

// CreateSeed handles POST /seeds
func (h *SeedHandler) CreateSeed(w http.ResponseWriter, r *http.Request) {
	var req CreateSeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}

	seed, err := h.garden.CreateSeed(r.Context(), req.Message, req.DurationMinutes, garden.SeedColor(req.Color))
	if err != nil {
		common.RespondError(w, err)
		return
	}

	h.logger.Info("Seed created",
		zap.String("seedID", seed.ID()),
		zap.Int("durationMinutes", seed.DurationMinutes()),
		zap.String("color", string(seed.Color())))

	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":        seed.ID(),
		"createdAt": seed.CreatedAt(),
	})
}

// GetPalette handles GET /palette
func (h *SeedHandler) GetPalette(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, garden.Palette())
}
