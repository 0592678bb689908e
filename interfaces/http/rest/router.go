package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	gardenapp "gardend/application/garden"
	"gardend/infrastructure/config"
	"gardend/interfaces/http/rest/handlers"
	"gardend/interfaces/http/rest/middleware"
	ws "gardend/interfaces/websocket"
	"gardend/pkg/common"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg       *config.Config
	garden    *gardenapp.Service
	wsHandler *ws.Handler
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, garden *gardenapp.Service, wsHandler *ws.Handler, logger *zap.Logger) *Router {
	return &Router{
		cfg:       cfg,
		garden:    garden,
		wsHandler: wsHandler,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health checks
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// Realtime snapshot stream
	router.Get("/ws", rt.wsHandler.ServeHTTP)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		gardenHandler := handlers.NewGardenHandler(rt.garden, rt.logger)
		seedHandler := handlers.NewSeedHandler(rt.garden, rt.logger)
		plantHandler := handlers.NewPlantHandler(rt.garden, rt.logger)
		memoryHandler := handlers.NewMemoryHandler(rt.garden, rt.logger)

		r.Get("/garden", gardenHandler.GetGarden)
		r.Put("/weather", gardenHandler.SetWeather)
		r.Get("/palette", seedHandler.GetPalette)

		r.Route("/seeds", func(r chi.Router) {
			r.Post("/", seedHandler.CreateSeed)
		})

		r.Route("/plants", func(r chi.Router) {
			r.Post("/", plantHandler.PlantSeed)
			r.Post("/{plantID}/water", plantHandler.WaterPlant)
			r.Post("/{plantID}/harvest", plantHandler.HarvestPlant)
			r.Delete("/{plantID}", plantHandler.UprootPlant)
		})

		r.Route("/memories/{memoryID}/comments", func(r chi.Router) {
			r.Get("/", memoryHandler.ListComments)
			r.Post("/", memoryHandler.AddComment)
			r.Delete("/{commentID}", memoryHandler.DeleteComment)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck reports ready once the first plants snapshot has arrived.
func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	if rt.garden.Loading() {
		common.RespondErrorMessage(w, http.StatusServiceUnavailable, "UNAVAILABLE", "garden is still synchronizing")
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
