package filestore

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medrec/records-api/internal/model"
	apperrors "github.com/medrec/records-api/pkg/errors"
	"github.com/medrec/records-api/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := New(afero.NewMemMapFs(), "data", logger.NewNop(), nil)
	require.NoError(t, store.Initialize())
	return store
}

func TestInitializeIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := New(fs, "data", logger.NewNop(), nil)

	require.NoError(t, store.Initialize())
	require.NoError(t, store.Initialize())

	for _, collection := range model.Collections() {
		ok, err := afero.DirExists(fs, "data/"+string(collection))
		require.NoError(t, err)
		assert.True(t, ok, "missing directory for %s", collection)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := &model.Patient{
		ID:            "PAT-1700000000000-abc123",
		Name:          "John Doe",
		DateOfBirth:   "1990-01-15",
		ContactNumber: "555-1234",
		Address:       "123 Main St",
		CreatedAt:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(ctx, model.CollectionPatients, in.ID, in))

	var out model.Patient
	found, err := store.Load(ctx, model.CollectionPatients, in.ID, &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, *in, out)
}

func TestLoadAbsentIsNotAnError(t *testing.T) {
	store := newTestStore(t)

	var out model.Patient
	found, err := store.Load(context.Background(), model.CollectionPatients, "PAT-missing", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadCorruptedFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, afero.WriteFile(store.fs, "data/patients/PAT-bad.json", []byte("{not json"), 0o644))

	var out model.Patient
	_, err := store.Load(context.Background(), model.CollectionPatients, "PAT-bad", &out)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCorruption, apperrors.CodeOf(err))
}

func TestLoadAllSkipsCorruptedFiles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"PAT-1", "PAT-2", "PAT-3"} {
		require.NoError(t, store.Save(ctx, model.CollectionPatients, id, &model.Patient{ID: id, Name: "p"}))
	}
	require.NoError(t, afero.WriteFile(store.fs, "data/patients/PAT-broken.json", []byte("%%%"), 0o644))

	docs, err := store.LoadAll(ctx, model.CollectionPatients)
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestLoadAllMissingCollectionDirectory(t *testing.T) {
	store := New(afero.NewMemMapFs(), "data", logger.NewNop(), nil)

	docs, err := store.LoadAll(context.Background(), model.CollectionAppointments)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDeleteIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, model.CollectionDoctors, "DOC-1", &model.Doctor{ID: "DOC-1"}))
	require.NoError(t, store.Delete(ctx, model.CollectionDoctors, "DOC-1"))
	require.NoError(t, store.Delete(ctx, model.CollectionDoctors, "DOC-1"))

	exists, err := store.Exists(ctx, model.CollectionDoctors, "DOC-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestExists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	exists, err := store.Exists(ctx, model.CollectionDoctors, "DOC-1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Save(ctx, model.CollectionDoctors, "DOC-1", &model.Doctor{ID: "DOC-1"}))

	exists, err = store.Exists(ctx, model.CollectionDoctors, "DOC-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, model.CollectionPatients, "PAT-1", &model.Patient{ID: "PAT-1", Name: "before"}))
	require.NoError(t, store.Save(ctx, model.CollectionPatients, "PAT-1", &model.Patient{ID: "PAT-1", Name: "after"}))

	var out model.Patient
	found, err := store.Load(ctx, model.CollectionPatients, "PAT-1", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "after", out.Name)
}
