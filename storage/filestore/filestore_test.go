package filestore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/vecturakit"
)

func TestStoreLoadRoundTripsBitExactEmbedding(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir, "notes")
	require.NoError(t, err)

	ctx := context.Background()
	doc := &vecturakit.Document{
		ID:        uuid.New(),
		Text:      "hello world",
		Embedding: []float32{0.1, -0.2, 3.14159, 0},
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	require.NoError(t, store.Store(ctx, doc))

	loaded, err := store.Load(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Text, loaded.Text)
	assert.Equal(t, doc.Embedding, loaded.Embedding)
	assert.True(t, doc.CreatedAt.Equal(loaded.CreatedAt))
}

func TestLoadMissingReturnsNotFound(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir, "notes")
	require.NoError(t, err)

	_, err = store.Load(context.Background(), uuid.New())
	var notFound *vecturakit.DocumentNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDeleteAllRemovesFilesNotDirectory(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir, "notes")
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Store(ctx, &vecturakit.Document{
			ID:        uuid.New(),
			Text:      "x",
			Embedding: []float32{1},
			CreatedAt: time.Now().UTC(),
		}))
	}

	require.NoError(t, store.DeleteAll(ctx))

	ids, err := store.ListIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	info, err := os.Stat(dir + "/notes")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDeleteNonexistentIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir, "notes")
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), uuid.New()))
}
