package ports

import "context"

// Collection paths used by the garden. Comments live in a child collection
// scoped under their memory.
const (
	SeedsCollection    = "seeds"
	PlantsCollection   = "plants"
	MemoriesCollection = "memories"
	SettingsCollection = "settings"

	// SettingsDocumentID is the fixed id of the settings singleton document.
	SettingsDocumentID = "global"
)

// CommentsCollection returns the path of the comment collection owned by a
// memory.
func CommentsCollection(memoryID string) string {
	return MemoriesCollection + "/" + memoryID + "/comments"
}

// SortOrder defines the sorting direction of a collection view.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// OrderBy names the field a collection view is ordered by. The field value is
// the authoritative ordering key; ties break on document id, which the store
// keeps stable.
type OrderBy struct {
	Field string
	Order SortOrder
}

// Document is one stored entity: a store-assigned id plus a flat field map.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

// Snapshot is a full, ordered view of one collection as of one store
// notification.
type Snapshot struct {
	Collection string
	Documents  []Document
}

// SnapshotHandler receives collection snapshots pushed by the store.
type SnapshotHandler func(Snapshot)

// Unsubscribe tears down a subscription. Safe to call more than once.
type Unsubscribe func()

// DocumentStore is the persistence collaborator boundary: a document-oriented
// realtime store providing subscribe/query/mutate primitives. Its internals
// are out of scope; the garden depends only on this surface.
//
// Subscribe replays the current state immediately on registration, so a
// reconnecting client always rebuilds its views from scratch.
type DocumentStore interface {
	// Subscribe registers for ordered snapshots of a collection. The handler
	// is invoked with the current state before Subscribe returns, then on
	// every subsequent change.
	Subscribe(ctx context.Context, collection string, orderBy OrderBy, handler SnapshotHandler) (Unsubscribe, error)

	// Create stores a new document and returns its generated id.
	Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error)

	// Set writes a document at a known id, creating or fully replacing it.
	Set(ctx context.Context, collection, id string, fields map[string]interface{}) error

	// Update merges partial fields into an existing document. Returns a
	// not-found error if the document does not exist.
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error

	// Delete removes a document. Deleting an absent document is not an error.
	Delete(ctx context.Context, collection, id string) error

	// QueryOnce returns the current ordered contents of a collection without
	// subscribing.
	QueryOnce(ctx context.Context, collection string, orderBy OrderBy) ([]Document, error)
}
