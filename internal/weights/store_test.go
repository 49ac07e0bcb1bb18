package weights

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangarec/pkg/database"
)

func TestLoadDefaults(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	defer db.Close()

	v, err := NewStore(db).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), v)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	ctx := context.Background()

	v := Defaults()
	v[GenreMatch] = 2.5
	v[Chapters] = 0.5
	require.NoError(t, store.Save(ctx, v))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.5, loaded[GenreMatch])
	assert.Equal(t, 0.5, loaded[Chapters])
	assert.Equal(t, 1.0, loaded[MeanScore])
}

func TestSaveClampsNegative(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Vector{MeanScore: -3}))
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, loaded[MeanScore])
}

func TestVectorGetFallback(t *testing.T) {
	v := Vector{GenreMatch: 2}
	assert.Equal(t, 2.0, v.Get(GenreMatch))
	assert.Equal(t, 1.0, v.Get(MeanScore))
}
