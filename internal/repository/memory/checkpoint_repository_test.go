package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elecciones-rag-be/pkg/rag/intent"
	"elecciones-rag-be/pkg/rag/state"
)

func TestCheckpointSaveAndLoad(t *testing.T) {
	repo := NewCheckpointRepository(time.Hour, time.Minute)
	ctx := context.Background()

	st := state.New("¿Qué propone el PLN?", "")
	st.Intent = intent.SpecificParty
	st.Parties = []string{"PLN"}
	require.NoError(t, repo.Save(ctx, "s1", st))

	loaded, found, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "¿Qué propone el PLN?", loaded.Question)
	assert.Equal(t, intent.SpecificParty, loaded.Intent)
	assert.Equal(t, []string{"PLN"}, loaded.Parties)
}

func TestCheckpointLoadMissing(t *testing.T) {
	repo := NewCheckpointRepository(time.Hour, time.Minute)

	_, found, err := repo.Load(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCheckpointOverwrite(t *testing.T) {
	repo := NewCheckpointRepository(time.Hour, time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "s1", state.New("primera", "")))
	require.NoError(t, repo.Save(ctx, "s1", state.New("segunda", "")))

	loaded, found, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "segunda", loaded.Question)
}

func TestCheckpointIsolatedFromCallerMutation(t *testing.T) {
	repo := NewCheckpointRepository(time.Hour, time.Minute)
	ctx := context.Background()

	st := state.New("pregunta", "")
	st.Parties = []string{"PLN"}
	require.NoError(t, repo.Save(ctx, "s1", st))

	st.Parties[0] = "MUTADO"

	loaded, _, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"PLN"}, loaded.Parties)
}

func TestCheckpointDelete(t *testing.T) {
	repo := NewCheckpointRepository(time.Hour, time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "s1", state.New("pregunta", "")))
	repo.Delete("s1")

	_, found, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)
}
