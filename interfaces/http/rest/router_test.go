package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	gardenapp "gardend/application/garden"
	"gardend/domain/garden"
	"gardend/infrastructure/config"
	"gardend/infrastructure/persistence/memory"
	ws "gardend/interfaces/websocket"
	"gardend/pkg/common"
)

func newTestRouter(t *testing.T) (http.Handler, *gardenapp.Service) {
	t.Helper()

	logger := zap.NewNop()
	store := memory.NewStore(logger)
	service := gardenapp.NewService(store, logger,
		gardenapp.WithClock(func() time.Time {
			return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		}))
	require.NoError(t, service.Start(context.Background()))
	t.Cleanup(service.Stop)

	hub := ws.NewHub(service, logger)
	wsHandler := ws.NewHandler(hub, service, logger)

	cfg := &config.Config{
		ServerAddress: ":8080",
		Environment:   "development",
		StoreBackend:  config.StoreMemory,
		EnableCORS:    false,
	}

	return NewRouter(cfg, service, wsHandler, logger).Setup(), service
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, common.APIResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var parsed common.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&parsed))
	return rec, parsed
}

func TestRouter_HealthAndReadiness(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec, resp := doJSON(t, handler, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	// The in-memory store replays synchronously, so the garden is ready as
	// soon as Start returns.
	rec, resp = doJSON(t, handler, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestRouter_SeedLifecycleOverHTTP(t *testing.T) {
	handler, service := newTestRouter(t)

	rec, resp := doJSON(t, handler, http.MethodPost, "/api/v1/seeds",
		`{"message":"planted over http","durationMinutes":60,"color":"golden"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, resp.Success)

	seedID := resp.Data.(map[string]interface{})["id"].(string)
	require.NotEmpty(t, seedID)

	rec, resp = doJSON(t, handler, http.MethodPost, "/api/v1/plants",
		`{"seedId":"`+seedID+`","x":250,"y":500}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	plantID := resp.Data.(map[string]interface{})["id"].(string)

	rec, _ = doJSON(t, handler, http.MethodPost, "/api/v1/plants/"+plantID+"/water", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp = doJSON(t, handler, http.MethodPost, "/api/v1/plants/"+plantID+"/harvest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	memory := resp.Data.(map[string]interface{})
	assert.Equal(t, "planted over http", memory["message"])

	assert.Empty(t, service.PlantViews())
	assert.Len(t, service.MemoryViews(), 1)
}

func TestRouter_CreateSeedValidation(t *testing.T) {
	handler, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing message", `{"durationMinutes":60,"color":"golden"}`},
		{"duration too long", `{"message":"hi","durationMinutes":99999,"color":"golden"}`},
		{"unknown color", `{"message":"hi","durationMinutes":60,"color":"plaid"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doJSON(t, handler, http.MethodPost, "/api/v1/seeds", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "VALIDATION", resp.Error.Type)
		})
	}
}

func TestRouter_PlantUnknownSeedIs404(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec, resp := doJSON(t, handler, http.MethodPost, "/api/v1/plants",
		`{"seedId":"ghost","x":250,"y":500}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Type)
}

func TestRouter_Weather(t *testing.T) {
	handler, service := newTestRouter(t)

	rec, _ := doJSON(t, handler, http.MethodPut, "/api/v1/weather", `{"weather":"rainy"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rainy", string(service.SettingsView().Weather))

	rec, resp := doJSON(t, handler, http.MethodPut, "/api/v1/weather", `{"weather":"hail"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
}

func TestRouter_GardenSnapshot(t *testing.T) {
	handler, _ := newTestRouter(t)

	_, resp := doJSON(t, handler, http.MethodPost, "/api/v1/seeds",
		`{"message":"snapshot me","durationMinutes":60,"color":"blush"}`)
	require.True(t, resp.Success)

	rec, resp := doJSON(t, handler, http.MethodGet, "/api/v1/garden", "")
	require.Equal(t, http.StatusOK, rec.Code)

	view := resp.Data.(map[string]interface{})
	assert.Len(t, view["seeds"], 1)
	assert.Empty(t, view["plants"])
	assert.Equal(t, false, view["loading"])
}

func TestRouter_Comments(t *testing.T) {
	handler, service := newTestRouter(t)

	// Walk a seed to a memory through the service, then comment over HTTP.
	seed, err := service.CreateSeed(context.Background(), "memorable", 1, "sunset")
	require.NoError(t, err)
	plant, err := service.PlantSeed(context.Background(), seed.ID(), garden.Position{X: 250, Y: 500})
	require.NoError(t, err)
	memory, err := service.HarvestPlant(context.Background(), plant.ID())
	require.NoError(t, err)

	base := "/api/v1/memories/" + memory.ID() + "/comments"

	rec, resp := doJSON(t, handler, http.MethodPost, base, `{"text":"  so lovely  "}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	comment := resp.Data.(map[string]interface{})
	assert.Equal(t, "so lovely", comment["text"])

	rec, resp = doJSON(t, handler, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data, 1)

	rec, _ = doJSON(t, handler, http.MethodDelete, base+"/"+comment["id"].(string), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp = doJSON(t, handler, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp.Data)
}
