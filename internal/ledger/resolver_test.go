package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pointsx/internal/ledger"
	"github.com/roach88/pointsx/internal/memstore"
)

func TestResolver_ByNamePicksNewest(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	r := ledger.NewResolver(s, nil)

	first, err := s.CreateUser(ctx, "Alice")
	require.NoError(t, err)
	second, err := s.CreateUser(ctx, "Alice")
	require.NoError(t, err)
	require.Greater(t, second.ID, first.ID)

	id, err := r.User(ctx, ledger.UserByName("Alice"))
	require.NoError(t, err)
	assert.Equal(t, second.ID, id)

	id, err = r.User(ctx, ledger.UserByNameOrCreate("Alice"))
	require.NoError(t, err)
	assert.Equal(t, second.ID, id)
}

func TestResolver_ByNameOrCreateCreatesOnce(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	r := ledger.NewResolver(s, nil)

	a, err := r.Token(ctx, ledger.TokenByNameOrCreate("Gold"))
	require.NoError(t, err)
	b, err := r.Token(ctx, ledger.TokenByNameOrCreate(" Gold "))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	tokens, err := s.QueryTokens(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, tokens, 1)
}

func TestResolver_Errors(t *testing.T) {
	ctx := context.Background()
	r := ledger.NewResolver(memstore.New(), nil)

	_, err := r.User(ctx, ledger.UserByName("Ghost"))
	assert.True(t, ledger.IsNotFound(err))

	_, err = r.Token(ctx, ledger.TokenByName("Ghost"))
	assert.True(t, ledger.IsNotFound(err))

	_, err = r.User(ctx, ledger.UserByName(""))
	assert.True(t, ledger.IsInvalidInput(err))

	_, err = r.Token(ctx, nil)
	assert.True(t, ledger.IsInvalidInput(err))

	id, err := r.Token(ctx, ledger.TokenByID(7))
	require.NoError(t, err)
	assert.Equal(t, ledger.TokenID(7), id)
}

func TestResolver_StorageFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := ledger.NewResolver(memstore.New(), nil)

	_, err := r.User(ctx, ledger.UserByNameOrCreate("Alice"))
	require.Error(t, err)
	assert.True(t, ledger.IsStorageFailure(err))
}
