package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberapp/ember/internal/db"
	"github.com/emberapp/ember/internal/repository"
)

func TestMatchCreateStoresCanonicalPair(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	seedUsers(t, dbase, 2)
	repo := repository.NewMatchRepository(dbase)

	// pair given higher-first must still be stored (low, high)
	match, created, err := repo.Create(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint64(1), match.UserLowID)
	assert.Equal(t, uint64(2), match.UserHighID)
}

func TestMatchCreateIsIdempotentPerPair(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	seedUsers(t, dbase, 2)
	repo := repository.NewMatchRepository(dbase)

	first, created, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, created)

	// same unordered pair in either orientation conflicts into a no-op
	second, created, err := repo.Create(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, dbase.Model(&db.Match{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMatchGetByPair(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	seedUsers(t, dbase, 3)
	repo := repository.NewMatchRepository(dbase)

	created, _, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)

	match, err := repo.GetByPair(ctx, 2, 1)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, created.ID, match.ID)

	match, err = repo.GetByPair(ctx, 1, 3)
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestMatchListForUser(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	seedUsers(t, dbase, 4)
	repo := repository.NewMatchRepository(dbase)

	_, _, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)
	_, _, err = repo.Create(ctx, 3, 1)
	require.NoError(t, err)
	_, _, err = repo.Create(ctx, 3, 4) // not user 1's
	require.NoError(t, err)

	matches, err := repo.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.True(t, m.HasParticipant(1))
	}
}

func TestMatchDelete(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	seedUsers(t, dbase, 2)
	repo := repository.NewMatchRepository(dbase)

	match, _, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, match.ID))

	got, err := repo.GetByPair(ctx, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, got)
}
