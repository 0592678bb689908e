package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gardend/application/ports"
	pkgerrors "gardend/pkg/errors"
)

// Store is an in-memory DocumentStore with push-based snapshot delivery. It
// backs local development and lets the sync layer be tested by injecting
// synthetic snapshot sequences instead of a live store.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
	subscribers map[string]map[int]subscriber
	nextSubID   int
	logger      *zap.Logger
}

type subscriber struct {
	orderBy ports.OrderBy
	handler ports.SnapshotHandler
}

// NewStore creates an empty in-memory store.
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		collections: make(map[string]map[string]map[string]interface{}),
		subscribers: make(map[string]map[int]subscriber),
		logger:      logger,
	}
}

// Subscribe registers a snapshot handler and immediately replays the current
// state of the collection.
func (s *Store) Subscribe(ctx context.Context, collection string, orderBy ports.OrderBy, handler ports.SnapshotHandler) (ports.Unsubscribe, error) {
	s.mu.Lock()
	if s.subscribers[collection] == nil {
		s.subscribers[collection] = make(map[int]subscriber)
	}
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[collection][id] = subscriber{orderBy: orderBy, handler: handler}
	snapshot := s.snapshotLocked(collection, orderBy)
	s.mu.Unlock()

	handler(snapshot)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers[collection], id)
			s.mu.Unlock()
		})
	}
	return unsubscribe, nil
}

// Create stores a new document under a generated id.
func (s *Store) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	id := uuid.New().String()
	if err := s.Set(ctx, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

// Set writes a document at a known id, creating or replacing it.
func (s *Store) Set(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]map[string]interface{})
	}
	s.collections[collection][id] = copyFields(fields)
	s.mu.Unlock()

	s.logger.Debug("Document written",
		zap.String("collection", collection), zap.String("id", id))

	s.notify(collection)
	return nil
}

// Update merges partial fields into an existing document.
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	doc, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return pkgerrors.NewNotFoundError("document " + collection + "/" + id)
	}
	for k, v := range fields {
		doc[k] = v
	}
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

// Delete removes a document along with any child collections scoped under it.
// Deleting an absent document is a no-op.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	childPrefix := collection + "/" + id + "/"

	s.mu.Lock()
	_, existed := s.collections[collection][id]
	delete(s.collections[collection], id)
	var children []string
	for name := range s.collections {
		if strings.HasPrefix(name, childPrefix) {
			children = append(children, name)
		}
	}
	for _, name := range children {
		delete(s.collections, name)
	}
	s.mu.Unlock()

	if existed {
		s.notify(collection)
	}
	for _, name := range children {
		s.notify(name)
	}
	return nil
}

// QueryOnce returns the current ordered contents of a collection.
func (s *Store) QueryOnce(ctx context.Context, collection string, orderBy ports.OrderBy) ([]ports.Document, error) {
	s.mu.RLock()
	snapshot := s.snapshotLocked(collection, orderBy)
	s.mu.RUnlock()
	return snapshot.Documents, nil
}

// notify pushes a fresh snapshot to every subscriber of the collection.
// Handlers run outside the store lock so they may mutate the store.
func (s *Store) notify(collection string) {
	s.mu.RLock()
	subs := make([]subscriber, 0, len(s.subscribers[collection]))
	for _, sub := range s.subscribers[collection] {
		subs = append(subs, sub)
	}
	snapshots := make([]ports.Snapshot, len(subs))
	for i, sub := range subs {
		snapshots[i] = s.snapshotLocked(collection, sub.orderBy)
	}
	s.mu.RUnlock()

	for i, sub := range subs {
		sub.handler(snapshots[i])
	}
}

// snapshotLocked builds an ordered snapshot. Callers must hold at least a
// read lock.
func (s *Store) snapshotLocked(collection string, orderBy ports.OrderBy) ports.Snapshot {
	docs := make([]ports.Document, 0, len(s.collections[collection]))
	for id, fields := range s.collections[collection] {
		docs = append(docs, ports.Document{ID: id, Fields: copyFields(fields)})
	}
	ports.SortDocuments(docs, orderBy)
	return ports.Snapshot{Collection: collection, Documents: docs}
}

func copyFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if nested, ok := v.(map[string]interface{}); ok {
			v = copyFields(nested)
		}
		out[k] = v
	}
	return out
}
