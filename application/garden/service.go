package gardenapp

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"gardend/application/ports"
	"gardend/domain/garden"
	pkgerrors "gardend/pkg/errors"
	"gardend/pkg/utils"
)

// ChangeKind names the synchronized view that changed.
type ChangeKind string

const (
	ChangeSeeds    ChangeKind = "seeds"
	ChangePlants   ChangeKind = "plants"
	ChangeMemories ChangeKind = "memories"
	ChangeSettings ChangeKind = "settings"
)

// ChangeListener is notified whenever a synchronized view is replaced by a
// fresh store snapshot.
type ChangeListener func(kind ChangeKind)

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source. Tests use this to drive growth and
// hydration deterministically.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service maintains live, ordered views of the four persisted collections and
// issues the mutation intents that move entities along the lifecycle. All
// writes go to the external store; the views only ever change in response to
// store notifications, so a failed mutation never corrupts them.
type Service struct {
	store  ports.DocumentStore
	logger *zap.Logger
	now    func() time.Time

	mu       sync.RWMutex
	seeds    []*garden.Seed
	plants   []*garden.Plant
	memories []*garden.Memory
	settings garden.Settings
	loading  bool

	unsubs []ports.Unsubscribe

	watchMu   sync.Mutex
	watchers  map[int]ChangeListener
	nextWatch int
}

// NewService creates a garden service over a document store. Call Start to
// begin synchronizing.
func NewService(store ports.DocumentStore, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		logger:   logger,
		now:      time.Now,
		settings: garden.DefaultSettings(),
		loading:  true,
		watchers: make(map[int]ChangeListener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start subscribes to the four collections. Each subscription replays the
// current state immediately, so the views are populated before Start returns
// when the store can serve them synchronously.
func (s *Service) Start(ctx context.Context) error {
	subscriptions := []struct {
		collection string
		orderBy    ports.OrderBy
		handler    ports.SnapshotHandler
	}{
		{ports.SeedsCollection, ports.OrderBy{Field: "createdAt", Order: ports.SortDescending}, s.applySeeds},
		{ports.PlantsCollection, ports.OrderBy{Field: "plantedAt", Order: ports.SortAscending}, s.applyPlants},
		{ports.MemoriesCollection, ports.OrderBy{Field: "harvestedAt", Order: ports.SortDescending}, s.applyMemories},
		{ports.SettingsCollection, ports.OrderBy{Field: "lastUpdated", Order: ports.SortDescending}, s.applySettings},
	}

	for _, sub := range subscriptions {
		unsub, err := s.store.Subscribe(ctx, sub.collection, sub.orderBy, sub.handler)
		if err != nil {
			s.Stop()
			return pkgerrors.NewDatabaseError("subscribe "+sub.collection, err)
		}
		s.unsubs = append(s.unsubs, unsub)
	}
	return nil
}

// Stop tears down all subscriptions.
func (s *Service) Stop() {
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
}

// Watch registers a change listener and returns its removal function.
func (s *Service) Watch(listener ChangeListener) func() {
	s.watchMu.Lock()
	id := s.nextWatch
	s.nextWatch++
	s.watchers[id] = listener
	s.watchMu.Unlock()

	return func() {
		s.watchMu.Lock()
		delete(s.watchers, id)
		s.watchMu.Unlock()
	}
}

func (s *Service) notifyChange(kind ChangeKind) {
	s.watchMu.Lock()
	listeners := make([]ChangeListener, 0, len(s.watchers))
	for _, l := range s.watchers {
		listeners = append(listeners, l)
	}
	s.watchMu.Unlock()

	for _, l := range listeners {
		l(kind)
	}
}

// Snapshot handlers. Malformed documents are skipped with a warning rather
// than poisoning the whole view.

func (s *Service) applySeeds(snapshot ports.Snapshot) {
	seeds := make([]*garden.Seed, 0, len(snapshot.Documents))
	for _, doc := range snapshot.Documents {
		seed, err := decodeSeed(doc)
		if err != nil {
			s.logger.Warn("Skipping malformed seed document",
				zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		seeds = append(seeds, seed)
	}

	s.mu.Lock()
	s.seeds = seeds
	s.mu.Unlock()

	s.notifyChange(ChangeSeeds)
}

func (s *Service) applyPlants(snapshot ports.Snapshot) {
	plants := make([]*garden.Plant, 0, len(snapshot.Documents))
	for _, doc := range snapshot.Documents {
		plant, err := decodePlant(doc)
		if err != nil {
			s.logger.Warn("Skipping malformed plant document",
				zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		plants = append(plants, plant)
	}

	s.mu.Lock()
	s.plants = plants
	s.loading = false
	s.mu.Unlock()

	s.notifyChange(ChangePlants)
}

func (s *Service) applyMemories(snapshot ports.Snapshot) {
	memories := make([]*garden.Memory, 0, len(snapshot.Documents))
	for _, doc := range snapshot.Documents {
		memory, err := decodeMemory(doc)
		if err != nil {
			s.logger.Warn("Skipping malformed memory document",
				zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		memories = append(memories, memory)
	}

	s.mu.Lock()
	s.memories = memories
	s.mu.Unlock()

	s.notifyChange(ChangeMemories)
}

func (s *Service) applySettings(snapshot ports.Snapshot) {
	for _, doc := range snapshot.Documents {
		if doc.ID != ports.SettingsDocumentID {
			continue
		}
		settings, err := decodeSettings(doc)
		if err != nil {
			s.logger.Warn("Skipping malformed settings document", zap.Error(err))
			return
		}
		s.mu.Lock()
		s.settings = settings
		s.mu.Unlock()
		s.notifyChange(ChangeSettings)
		return
	}
}

// View accessors.

// Loading reports whether the first plants snapshot has arrived.
func (s *Service) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SeedViews returns the seed pouch, newest first.
func (s *Service) SeedViews() []SeedView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	views := make([]SeedView, len(s.seeds))
	for i, seed := range s.seeds {
		views[i] = newSeedView(seed)
	}
	return views
}

// PlantViews returns the growing plants, oldest planting first, with growth,
// hydration and countdown derived as of now.
func (s *Service) PlantViews() []PlantView {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	views := make([]PlantView, len(s.plants))
	for i, plant := range s.plants {
		views[i] = newPlantView(plant, now)
	}
	return views
}

// MemoryViews returns the harvested memories, newest harvest first.
func (s *Service) MemoryViews() []MemoryView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	views := make([]MemoryView, len(s.memories))
	for i, memory := range s.memories {
		views[i] = newMemoryView(memory)
	}
	return views
}

// PlantViewByID returns the view of a single plant, derived as of now.
func (s *Service) PlantViewByID(id string) (PlantView, bool) {
	plant := s.plantByID(id)
	if plant == nil {
		return PlantView{}, false
	}
	return newPlantView(plant, s.now()), true
}

// SettingsView returns the shared settings singleton.
func (s *Service) SettingsView() SettingsView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newSettingsView(s.settings)
}

// View returns the full synchronized garden state.
func (s *Service) View() GardenView {
	return GardenView{
		Seeds:    s.SeedViews(),
		Plants:   s.PlantViews(),
		Memories: s.MemoryViews(),
		Settings: s.SettingsView(),
		Loading:  s.Loading(),
	}
}

func (s *Service) seedByID(id string) *garden.Seed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, seed := range s.seeds {
		if seed.ID() == id {
			return seed
		}
	}
	return nil
}

func (s *Service) plantByID(id string) *garden.Plant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, plant := range s.plants {
		if plant.ID() == id {
			return plant
		}
	}
	return nil
}

// Mutations. Every store call is context-bound; validation failures are
// rejected before any store call; a failure leaves the views untouched.

// CreateSeed validates and stores a new seed. This is the administrative
// entry point of the lifecycle.
func (s *Service) CreateSeed(ctx context.Context, message string, durationMinutes int, color garden.SeedColor) (*garden.Seed, error) {
	seed, err := garden.NewSeed(message, durationMinutes, color, s.now())
	if err != nil {
		return nil, err
	}

	id, err := s.store.Create(ctx, ports.SeedsCollection, seedFields(seed))
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("create seed", err)
	}
	return seed.WithID(id), nil
}

// PlantSeed consumes a seed at the requested position. The position is
// clamped to the legal planting rectangle, then stored raw. The plant is
// created before the seed is deleted, so a crash in between leaves a
// harmless duplicate rather than losing the message.
func (s *Service) PlantSeed(ctx context.Context, seedID string, position garden.Position) (*garden.Plant, error) {
	seed := s.seedByID(seedID)
	if seed == nil {
		return nil, pkgerrors.NewNotFoundError("seed")
	}

	plant, err := garden.SeedToPlant(seed, garden.ClampToPlantable(position), s.now())
	if err != nil {
		return nil, err
	}

	plantID, err := s.store.Create(ctx, ports.PlantsCollection, plantFields(plant))
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("create plant", err)
	}

	if err := s.store.Delete(ctx, ports.SeedsCollection, seed.ID()); err != nil {
		s.logger.Error("Seed not deleted after planting; duplicate seed remains",
			zap.String("seedID", seed.ID()), zap.Error(err))
		return nil, pkgerrors.NewDatabaseError("delete seed", err)
	}

	return plant.WithID(plantID), nil
}

// WaterPlant refreshes a plant's hydration clock and extends its streak. If
// the plant is already gone the watering is a benign race and a no-op.
func (s *Service) WaterPlant(ctx context.Context, plantID string) error {
	plant := s.plantByID(plantID)
	if plant == nil {
		return nil
	}

	fields := map[string]interface{}{
		"lastWateredAt": utils.FormatInstant(s.now()),
		"waterStreak":   plant.WaterStreak() + 1,
	}
	err := s.store.Update(ctx, ports.PlantsCollection, plantID, fields)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil
		}
		return pkgerrors.NewDatabaseError("water plant", err)
	}
	return nil
}

// UprootPlant deletes a plant unconditionally. Irreversible; no memory is
// produced.
func (s *Service) UprootPlant(ctx context.Context, plantID string) error {
	plant := s.plantByID(plantID)
	if plant != nil {
		if _, err := garden.PlantToVoid(plant); err != nil {
			return err
		}
	}

	if err := s.store.Delete(ctx, ports.PlantsCollection, plantID); err != nil {
		return pkgerrors.NewDatabaseError("uproot plant", err)
	}
	return nil
}

// HarvestPlant turns a plant into a permanent memory and returns it so the
// caller can present the reveal without waiting for the next snapshot. Two
// clients racing to harvest the same plant may both succeed, leaving two
// memories; the plant deletion tolerates the document already being gone.
func (s *Service) HarvestPlant(ctx context.Context, plantID string) (*garden.Memory, error) {
	plant := s.plantByID(plantID)
	if plant == nil {
		return nil, pkgerrors.NewNotFoundError("plant")
	}

	memory, err := garden.PlantToMemory(plant, s.now())
	if err != nil {
		return nil, err
	}

	memoryID, err := s.store.Create(ctx, ports.MemoriesCollection, memoryFields(memory))
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("create memory", err)
	}

	if err := s.store.Delete(ctx, ports.PlantsCollection, plantID); err != nil {
		s.logger.Error("Plant not deleted after harvest; duplicate plant remains",
			zap.String("plantID", plantID), zap.Error(err))
		return nil, pkgerrors.NewDatabaseError("delete plant", err)
	}

	return memory.WithID(memoryID), nil
}

// SetWeather overwrites the settings singleton. Last writer wins; no merge.
func (s *Service) SetWeather(ctx context.Context, weather garden.Weather) error {
	settings, err := garden.NewSettings(weather, s.now())
	if err != nil {
		return err
	}

	if err := s.store.Set(ctx, ports.SettingsCollection, ports.SettingsDocumentID, settingsFields(settings)); err != nil {
		return pkgerrors.NewDatabaseError("set weather", err)
	}
	return nil
}

// ListComments loads the comments of a memory on demand, newest first.
func (s *Service) ListComments(ctx context.Context, memoryID string) ([]CommentView, error) {
	orderBy := ports.OrderBy{Field: "createdAt", Order: ports.SortDescending}
	docs, err := s.store.QueryOnce(ctx, ports.CommentsCollection(memoryID), orderBy)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list comments", err)
	}

	views := make([]CommentView, 0, len(docs))
	for _, doc := range docs {
		comment, err := decodeComment(memoryID, doc)
		if err != nil {
			s.logger.Warn("Skipping malformed comment document",
				zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		views = append(views, newCommentView(comment))
	}
	return views, nil
}

// AddComment appends a trimmed, length-capped comment to a memory.
func (s *Service) AddComment(ctx context.Context, memoryID, text string) (CommentView, error) {
	comment, err := garden.NewComment(memoryID, text, s.now())
	if err != nil {
		return CommentView{}, err
	}

	id, err := s.store.Create(ctx, ports.CommentsCollection(memoryID), commentFields(comment))
	if err != nil {
		return CommentView{}, pkgerrors.NewDatabaseError("add comment", err)
	}
	return newCommentView(comment.WithID(id)), nil
}

// DeleteComment removes a single comment from a memory.
func (s *Service) DeleteComment(ctx context.Context, memoryID, commentID string) error {
	if err := s.store.Delete(ctx, ports.CommentsCollection(memoryID), commentID); err != nil {
		return pkgerrors.NewDatabaseError("delete comment", err)
	}
	return nil
}
