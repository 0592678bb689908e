package di

import (
	"go.uber.org/zap"

	gardenapp "gardend/application/garden"
	"gardend/application/ports"
	"gardend/infrastructure/config"
	ws "gardend/interfaces/websocket"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     ports.DocumentStore
	Garden    *gardenapp.Service
	Hub       *ws.Hub
	WSHandler *ws.Handler
}
