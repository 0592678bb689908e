package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gardend/application/ports"
	pkgerrors "gardend/pkg/errors"
)

func TestStore_SubscribeReplaysCurrentState(t *testing.T) {
	ctx := context.Background()
	store := NewStore(zap.NewNop())

	_, err := store.Create(ctx, "seeds", map[string]interface{}{
		"message":   "hello",
		"createdAt": "2025-06-01T12:00:00Z",
	})
	require.NoError(t, err)

	var snapshots []ports.Snapshot
	unsub, err := store.Subscribe(ctx, "seeds",
		ports.OrderBy{Field: "createdAt", Order: ports.SortDescending},
		func(snapshot ports.Snapshot) { snapshots = append(snapshots, snapshot) })
	require.NoError(t, err)
	defer unsub()

	require.Len(t, snapshots, 1, "current state replays on subscribe")
	require.Len(t, snapshots[0].Documents, 1)
	assert.Equal(t, "hello", snapshots[0].Documents[0].Fields["message"])
}

func TestStore_MutationsNotifySubscribers(t *testing.T) {
	ctx := context.Background()
	store := NewStore(zap.NewNop())

	var snapshots []ports.Snapshot
	unsub, err := store.Subscribe(ctx, "plants",
		ports.OrderBy{Field: "plantedAt", Order: ports.SortAscending},
		func(snapshot ports.Snapshot) { snapshots = append(snapshots, snapshot) })
	require.NoError(t, err)
	defer unsub()

	require.Len(t, snapshots, 1, "empty replay")

	id, err := store.Create(ctx, "plants", map[string]interface{}{
		"plantedAt":   "2025-06-01T12:00:00Z",
		"waterStreak": 1,
	})
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	err = store.Update(ctx, "plants", id, map[string]interface{}{"waterStreak": 2})
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.Equal(t, 2, snapshots[2].Documents[0].Fields["waterStreak"])
	assert.Equal(t, "2025-06-01T12:00:00Z", snapshots[2].Documents[0].Fields["plantedAt"],
		"update merges, untouched fields survive")

	err = store.Delete(ctx, "plants", id)
	require.NoError(t, err)
	require.Len(t, snapshots, 4)
	assert.Empty(t, snapshots[3].Documents)
}

func TestStore_SnapshotsAreOrdered(t *testing.T) {
	ctx := context.Background()
	store := NewStore(zap.NewNop())

	instants := []string{
		"2025-06-01T12:00:00Z",
		"2025-06-03T12:00:00Z",
		"2025-06-02T12:00:00Z",
	}
	for _, instant := range instants {
		_, err := store.Create(ctx, "memories", map[string]interface{}{"harvestedAt": instant})
		require.NoError(t, err)
	}

	docs, err := store.QueryOnce(ctx, "memories",
		ports.OrderBy{Field: "harvestedAt", Order: ports.SortDescending})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "2025-06-03T12:00:00Z", docs[0].Fields["harvestedAt"])
	assert.Equal(t, "2025-06-02T12:00:00Z", docs[1].Fields["harvestedAt"])
	assert.Equal(t, "2025-06-01T12:00:00Z", docs[2].Fields["harvestedAt"])
}

func TestStore_UpdateMissingDocument(t *testing.T) {
	ctx := context.Background()
	store := NewStore(zap.NewNop())

	err := store.Update(ctx, "plants", "nope", map[string]interface{}{"waterStreak": 2})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewStore(zap.NewNop())

	assert.NoError(t, store.Delete(ctx, "plants", "never-existed"))
}

func TestStore_DeleteCascadesChildCollections(t *testing.T) {
	ctx := context.Background()
	store := NewStore(zap.NewNop())

	memoryID, err := store.Create(ctx, "memories", map[string]interface{}{
		"harvestedAt": "2025-06-01T12:00:00Z",
	})
	require.NoError(t, err)

	comments := "memories/" + memoryID + "/comments"
	_, err = store.Create(ctx, comments, map[string]interface{}{
		"text":      "lovely",
		"createdAt": "2025-06-01T13:00:00Z",
	})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "memories", memoryID))

	docs, err := store.QueryOnce(ctx, comments,
		ports.OrderBy{Field: "createdAt", Order: ports.SortDescending})
	require.NoError(t, err)
	assert.Empty(t, docs, "comments die with their memory")
}

func TestStore_SetStoresACopy(t *testing.T) {
	ctx := context.Background()
	store := NewStore(zap.NewNop())

	fields := map[string]interface{}{
		"position": map[string]interface{}{"x": 250.0, "y": 500.0},
	}
	require.NoError(t, store.Set(ctx, "plants", "p1", fields))

	// Mutating the caller's map must not reach into the store.
	fields["position"].(map[string]interface{})["x"] = 0.0

	docs, err := store.QueryOnce(ctx, "plants", ports.OrderBy{Field: "plantedAt", Order: ports.SortAscending})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	position := docs[0].Fields["position"].(map[string]interface{})
	assert.Equal(t, 250.0, position["x"])
}

func TestStore_UnsubscribeStopsNotifications(t *testing.T) {
	ctx := context.Background()
	store := NewStore(zap.NewNop())

	calls := 0
	unsub, err := store.Subscribe(ctx, "seeds",
		ports.OrderBy{Field: "createdAt", Order: ports.SortDescending},
		func(ports.Snapshot) { calls++ })
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	unsub()
	unsub() // safe to call twice

	_, err = store.Create(ctx, "seeds", map[string]interface{}{"createdAt": "2025-06-01T12:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
