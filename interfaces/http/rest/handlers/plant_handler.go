package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	gardenapp "gardend/application/garden"
	"gardend/domain/garden"
	"gardend/pkg/common"
	pkgerrors "gardend/pkg/errors"
	"gardend/pkg/utils"
)

// PlantHandler handles plant lifecycle requests: planting, watering,
// uprooting and harvesting.
type PlantHandler struct {
	garden *gardenapp.Service
	logger *zap.Logger
}

// NewPlantHandler creates a new plant handler
func NewPlantHandler(garden *gardenapp.Service, logger *zap.Logger) *PlantHandler {
	return &PlantHandler{garden: garden, logger: logger}
}

// PlantSeedRequest represents the request body for planting a seed
type PlantSeedRequest struct {
	SeedID string  `json:"seedId" validate:"required"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// PlantSeed handles POST /plants
func (h *PlantHandler) PlantSeed(w http.ResponseWriter, r *http.Request) {
	var req PlantSeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}

	plant, err := h.garden.PlantSeed(r.Context(), req.SeedID, garden.Position{X: req.X, Y: req.Y})
	if err != nil {
		common.RespondError(w, err)
		return
	}

	h.logger.Info("Seed planted",
		zap.String("seedID", req.SeedID),
		zap.String("plantID", plant.ID()))

	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":        plant.ID(),
		"plantedAt": plant.PlantedAt(),
	})
}

// WaterPlant handles POST /plants/{plantID}/water
func (h *PlantHandler) WaterPlant(w http.ResponseWriter, r *http.Request) {
	plantID := chi.URLParam(r, "plantID")

	if err := h.garden.WaterPlant(r.Context(), plantID); err != nil {
		common.RespondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "watered"})
}

// UprootPlant handles DELETE /plants/{plantID}
func (h *PlantHandler) UprootPlant(w http.ResponseWriter, r *http.Request) {
	plantID := chi.URLParam(r, "plantID")

	if err := h.garden.UprootPlant(r.Context(), plantID); err != nil {
		common.RespondError(w, err)
		return
	}

	h.logger.Info("Plant uprooted", zap.String("plantID", plantID))

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "uprooted"})
}

// HarvestPlant handles POST /plants/{plantID}/harvest. The created memory is
// returned directly so the caller can present the reveal without waiting for
// the next snapshot.
func (h *PlantHandler) HarvestPlant(w http.ResponseWriter, r *http.Request) {
	plantID := chi.URLParam(r, "plantID")

	memory, err := h.garden.HarvestPlant(r.Context(), plantID)
	if err != nil {
		common.RespondError(w, err)
		return
	}

	h.logger.Info("Plant harvested",
		zap.String("plantID", plantID),
		zap.String("memoryID", memory.ID()))

	common.RespondJSON(w, http.StatusOK, gardenapp.MemoryViewOf(memory))
}
