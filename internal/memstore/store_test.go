package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pointsx/internal/ledger"
	"github.com/roach88/pointsx/internal/testutil"
)

func TestStore_PersistenceContract(t *testing.T) {
	testutil.RunPersistenceSuite(t, func(t *testing.T) ledger.Persistence {
		return New()
	})
}

func TestStore_UniqueNamesRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	s := New(WithUniqueNames())

	_, err := s.CreateUser(ctx, "Alice")
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "Alice")
	require.Error(t, err)
	assert.True(t, ledger.IsStorageFailure(err))

	_, err = s.CreateToken(ctx, "Gold")
	require.NoError(t, err)
	_, err = s.CreateToken(ctx, "Gold")
	require.Error(t, err)
	assert.True(t, ledger.IsStorageFailure(err))

	// The rejected create did not consume an id.
	bob, err := s.CreateUser(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, ledger.UserID(2), bob.ID)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New()
	_, err := s.CreateUser(ctx, "Alice")
	require.Error(t, err)
	assert.True(t, ledger.IsStorageFailure(err))

	_, _, err = s.CurrentTotal(ctx, 1, 2, 1)
	require.Error(t, err)
}
