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

// GardenHandler serves the synchronized garden view and the shared settings
// singleton.
type GardenHandler struct {
	garden *gardenapp.Service
	logger *zap.Logger
}

// NewGardenHandler creates a new garden handler
func NewGardenHandler(garden *gardenapp.Service, logger *zap.Logger) *GardenHandler {
	return &GardenHandler{garden: garden, logger: logger}
}

// GetGarden handles GET /garden
func (h *GardenHandler) GetGarden(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.garden.View())
}

// SetWeatherRequest represents the request body for updating the weather
type SetWeatherRequest struct {
	Weather string `json:"weather" validate:"required,oneof=sunny rainy misty"`
}

// SetWeather handles PUT /weather. Last writer wins; there is no merge.
func (h *GardenHandler) SetWeather(w http.ResponseWriter, r *http.Request) {
	var req SetWeatherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}

	if err := h.garden.SetWeather(r.Context(), garden.Weather(req.Weather)); err != nil {
		common.RespondError(w, err)
		return
	}

	h.logger.Info("Weather updated", zap.String("weather", req.Weather))

	common.RespondJSON(w, http.StatusOK, map[string]string{"weather": req.Weather})
}
