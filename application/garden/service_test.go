package gardenapp

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gardend/domain/garden"
	"gardend/infrastructure/persistence/memory"
	pkgerrors "gardend/pkg/errors"
)

// newTestService wires a service over the in-memory store with a fixed clock.
// The store replays and notifies synchronously, so views are current as soon
// as a mutation returns.
func newTestService(t *testing.T, now time.Time) (*Service, context.Context) {
	t.Helper()
	return newTestServiceWithClock(t, func() time.Time { return now })
}

func TestService_LoadingClearsOnFirstPlantSnapshot(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	store := memory.NewStore(zap.NewNop())
	service := NewService(store, zap.NewNop(), WithClock(func() time.Time { return now }))
	assert.True(t, service.Loading())

	require.NoError(t, service.Start(context.Background()))
	defer service.Stop()

	assert.False(t, service.Loading(), "empty plants snapshot still counts as loaded")
}

func TestService_CreateSeed(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service, ctx := newTestService(t, now)

	seed, err := service.CreateSeed(ctx, "a message for later", 90, garden.ColorSapphire)
	require.NoError(t, err)
	assert.NotEmpty(t, seed.ID())

	seeds := service.SeedViews()
	require.Len(t, seeds, 1)
	assert.Equal(t, seed.ID(), seeds[0].ID)
	assert.Equal(t, 90, seeds[0].DurationMinutes)
	assert.Equal(t, "Sapphire Orchid", seeds[0].Palette.Name)
}

func TestService_CreateSeed_ValidationFailsBeforeStore(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service, ctx := newTestService(t, now)

	_, err := service.CreateSeed(ctx, "   ", 90, garden.ColorSapphire)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Empty(t, service.SeedViews())
}

func TestService_PlantSeed(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service, ctx := newTestService(t, now)

	seed, err := service.CreateSeed(ctx, "buried treasure", 60, garden.ColorGolden)
	require.NoError(t, err)

	plant, err := service.PlantSeed(ctx, seed.ID(), garden.Position{X: 250, Y: 500})
	require.NoError(t, err)
	assert.NotEmpty(t, plant.ID())

	assert.Empty(t, service.SeedViews(), "planting consumes the seed")

	plants := service.PlantViews()
	require.Len(t, plants, 1)
	assert.Equal(t, plant.ID(), plants[0].ID)
	assert.Equal(t, "buried treasure", plants[0].Message)
	assert.Equal(t, 250.0, plants[0].Position.X)
	assert.Equal(t, 500.0, plants[0].Position.Y)
	assert.Equal(t, garden.StageSprout, plants[0].Stage)
	assert.Equal(t, 100, plants[0].Hydration)
	assert.Equal(t, 1, plants[0].WaterStreak)
}

func TestService_PlantSeed_ClampsThePosition(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service, ctx := newTestService(t, now)

	seed, err := service.CreateSeed(ctx, "edge case", 60, garden.ColorGolden)
	require.NoError(t, err)

	plant, err := service.PlantSeed(ctx, seed.ID(), garden.Position{X: -300, Y: 12000})
	require.NoError(t, err)
	assert.Equal(t, garden.Position{X: 40, Y: 840}, plant.Position())
}

func TestService_PlantSeed_UnknownSeed(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service, ctx := newTestService(t, now)

	_, err := service.PlantSeed(ctx, "no-such-seed", garden.Position{X: 250, Y: 500})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestService_WaterPlant(t *testing.T) {
	plantedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := plantedAt
	service, ctx := newTestServiceWithClock(t, func() time.Time { return now })

	seed, err := service.CreateSeed(ctx, "thirsty", 60, garden.ColorBlush)
	require.NoError(t, err)
	plant, err := service.PlantSeed(ctx, seed.ID(), garden.Position{X: 250, Y: 500})
	require.NoError(t, err)

	// Twelve hours later the plant has dried halfway.
	now = plantedAt.Add(12 * time.Hour)
	plants := service.PlantViews()
	require.Len(t, plants, 1)
	assert.Equal(t, 50, plants[0].Hydration)

	require.NoError(t, service.WaterPlant(ctx, plant.ID()))

	plants = service.PlantViews()
	require.Len(t, plants, 1)
	assert.Equal(t, 100, plants[0].Hydration, "watering resets hydration in full")
	assert.Equal(t, 2, plants[0].WaterStreak)
}

func TestService_WaterPlant_GonePlantIsBenign(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service, ctx := newTestService(t, now)

	assert.NoError(t, service.WaterPlant(ctx, "already-gone"))
}

func TestService_UprootPlant(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service, ctx := newTestService(t, now)

	seed, err := service.CreateSeed(ctx, "a mistake", 60, garden.ColorMoonlight)
	require.NoError(t, err)
	plant, err := service.PlantSeed(ctx, seed.ID(), garden.Position{X: 250, Y: 500})
	require.NoError(t, err)

	require.NoError(t, service.UprootPlant(ctx, plant.ID()))

	assert.Empty(t, service.PlantViews())
	assert.Empty(t, service.MemoryViews(), "uprooting produces no memory")
}

func TestService_HarvestPlant(t *testing.T) {
	plantedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := plantedAt
	service, ctx := newTestServiceWithClock(t, func() time.Time { return now })

	seed, err := service.CreateSeed(ctx, "worth the wait", 60, garden.ColorLavender)
	require.NoError(t, err)
	plant, err := service.PlantSeed(ctx, seed.ID(), garden.Position{X: 250, Y: 500})
	require.NoError(t, err)

	now = plantedAt.Add(61 * time.Minute)
	memory, err := service.HarvestPlant(ctx, plant.ID())
	require.NoError(t, err)

	assert.Equal(t, "worth the wait", memory.Message())
	assert.Equal(t, plantedAt, memory.PlantedAt())
	assert.Equal(t, now, memory.HarvestedAt())

	assert.Empty(t, service.PlantViews(), "harvesting consumes the plant")
	memories := service.MemoryViews()
	require.Len(t, memories, 1)
	assert.Equal(t, memory.ID(), memories[0].ID)
	assert.Equal(t, "1h", memories[0].Duration)
}

func TestService_ConcurrentHarvest(t *testing.T) {
	plantedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := plantedAt
	service, ctx := newTestServiceWithClock(t, func() time.Time { return now })

	seed, err := service.CreateSeed(ctx, "raced", 60, garden.ColorLavender)
	require.NoError(t, err)
	plant, err := service.PlantSeed(ctx, seed.ID(), garden.Position{X: 250, Y: 500})
	require.NoError(t, err)
	now = plantedAt.Add(61 * time.Minute)

	// Two clients tap the same ready plant at once. Create-then-delete means
	// both creates may land; the loser of the delete sees NotFound at worst.
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.HarvestPlant(ctx, plant.ID())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			assert.True(t, pkgerrors.IsNotFound(err), "unexpected error: %v", err)
		}
	}

	assert.Empty(t, service.PlantViews())
	memories := service.MemoryViews()
	assert.GreaterOrEqual(t, len(memories), 1, "at least one memory must survive")
	assert.LessOrEqual(t, len(memories), 2)
	for _, view := range memories {
		assert.Equal(t, "raced", view.Message)
	}
}

func TestService_HarvestPlant_UnknownPlant(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service, ctx := newTestService(t, now)

	_, err := service.HarvestPlant(ctx, "no-such-plant")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestService_SetWeather(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service, ctx := newTestService(t, now)

	assert.Equal(t, garden.WeatherSunny, service.SettingsView().Weather)

	require.NoError(t, service.SetWeather(ctx, garden.WeatherRainy))
	assert.Equal(t, garden.WeatherRainy, service.SettingsView().Weather)

	// Last writer wins; a second write simply replaces the first.
	require.NoError(t, service.SetWeather(ctx, garden.WeatherMisty))
	assert.Equal(t, garden.WeatherMisty, service.SettingsView().Weather)
}

func TestService_Comments(t *testing.T) {
	harvestedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := harvestedAt
	service, ctx := newTestServiceWithClock(t, func() time.Time { return now })

	seed, err := service.CreateSeed(ctx, "remembered", 1, garden.ColorSunset)
	require.NoError(t, err)
	plant, err := service.PlantSeed(ctx, seed.ID(), garden.Position{X: 250, Y: 500})
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	memory, err := service.HarvestPlant(ctx, plant.ID())
	require.NoError(t, err)

	first, err := service.AddComment(ctx, memory.ID(), "  beautiful  ")
	require.NoError(t, err)
	assert.Equal(t, "beautiful", first.Text, "comment text is trimmed")

	now = now.Add(time.Minute)
	second, err := service.AddComment(ctx, memory.ID(), "agreed")
	require.NoError(t, err)

	comments, err := service.ListComments(ctx, memory.ID())
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, second.ID, comments[0].ID, "newest first")
	assert.Equal(t, first.ID, comments[1].ID)

	require.NoError(t, service.DeleteComment(ctx, memory.ID(), first.ID))
	comments, err = service.ListComments(ctx, memory.ID())
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, second.ID, comments[0].ID)

	_, err = service.AddComment(ctx, memory.ID(), "   ")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestService_WatchSeesEveryViewChange(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service, ctx := newTestService(t, now)

	var kinds []ChangeKind
	remove := service.Watch(func(kind ChangeKind) { kinds = append(kinds, kind) })
	defer remove()

	seed, err := service.CreateSeed(ctx, "watched", 60, garden.ColorSunset)
	require.NoError(t, err)
	assert.Contains(t, kinds, ChangeSeeds)

	kinds = nil
	_, err = service.PlantSeed(ctx, seed.ID(), garden.Position{X: 250, Y: 500})
	require.NoError(t, err)
	assert.Contains(t, kinds, ChangePlants)
	assert.Contains(t, kinds, ChangeSeeds, "seed deletion notifies too")

	remove()
	kinds = nil
	require.NoError(t, service.SetWeather(ctx, garden.WeatherRainy))
	assert.Empty(t, kinds)
}

func newTestServiceWithClock(t *testing.T, now func() time.Time) (*Service, context.Context) {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore(zap.NewNop())
	service := NewService(store, zap.NewNop(), WithClock(now))
	require.NoError(t, service.Start(ctx))
	t.Cleanup(service.Stop)

	return service, ctx
}
