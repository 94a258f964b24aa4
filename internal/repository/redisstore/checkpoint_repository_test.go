package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elecciones-rag-be/pkg/rag/intent"
	"elecciones-rag-be/pkg/rag/state"
	"elecciones-rag-be/pkg/store"
)

func newTestRepository(t *testing.T) (*CheckpointRepository, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return NewFromClient(client), mr
}

func TestRedisCheckpointRoundTrip(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	st := state.New("¿Cuál es el plan del PUSC?", "Usuario: hola")
	st.Intent = intent.PartyGeneralPlan
	st.Parties = []string{"PUSC"}
	st.Sources = []store.Source{{Party: "PUSC", Filename: "PUSC.pdf"}}
	st.Steps = []string{"Intent: party_general_plan"}
	require.NoError(t, repo.Save(ctx, "s1", st))

	loaded, found, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, st.Question, loaded.Question)
	assert.Equal(t, st.Intent, loaded.Intent)
	assert.Equal(t, st.Parties, loaded.Parties)
	assert.Equal(t, st.Sources, loaded.Sources)
	assert.Equal(t, st.Steps, loaded.Steps)
}

func TestRedisCheckpointMissingKey(t *testing.T) {
	repo, _ := newTestRepository(t)

	_, found, err := repo.Load(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCheckpointTTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	repo := NewFromClient(client, WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "s1", state.New("pregunta", "")))

	mr.FastForward(2 * time.Minute)

	_, found, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCheckpointDelete(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "s1", state.New("pregunta", "")))
	require.NoError(t, repo.Delete(ctx, "s1"))

	_, found, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCheckpointKeyPrefix(t *testing.T) {
	repo, mr := newTestRepository(t)

	require.NoError(t, repo.Save(context.Background(), "s1", state.New("pregunta", "")))

	assert.True(t, mr.Exists("elecciones:checkpoint:s1"))
}
