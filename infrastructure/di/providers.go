package di

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	gardenapp "gardend/application/garden"
	"gardend/application/ports"
	"gardend/infrastructure/config"
	dynamostore "gardend/infrastructure/persistence/dynamodb"
	memorystore "gardend/infrastructure/persistence/memory"
	ws "gardend/interfaces/websocket"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideDocumentStore creates the configured store backend
func ProvideDocumentStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.DocumentStore, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return memorystore.NewStore(logger), nil

	case config.StoreDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		client := awsdynamodb.NewFromConfig(awsCfg)
		return dynamostore.NewStore(client, cfg.TableName, cfg.PollInterval, logger), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// ProvideGardenService creates the garden sync service
func ProvideGardenService(store ports.DocumentStore, logger *zap.Logger) *gardenapp.Service {
	return gardenapp.NewService(store, logger)
}

// ProvideHub creates the websocket hub
func ProvideHub(garden *gardenapp.Service, logger *zap.Logger) *ws.Hub {
	return ws.NewHub(garden, logger)
}

// ProvideWSHandler creates the websocket upgrade handler
func ProvideWSHandler(hub *ws.Hub, garden *gardenapp.Service, logger *zap.Logger) *ws.Handler {
	return ws.NewHandler(hub, garden, logger)
}
