package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberapp/ember/internal/db"
	"github.com/emberapp/ember/internal/repository"
)

func TestDiscoverFilters(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)

	users := []db.User{
		{ID: 1, Email: "viewer@test.com", PasswordHash: "x", Active: true},
		{ID: 2, Email: "liked@test.com", PasswordHash: "x", Active: true},
		{ID: 3, Email: "inactive@test.com", PasswordHash: "x", Active: false},
		{ID: 4, Email: "noname@test.com", PasswordHash: "x", Active: true},
		{ID: 5, Email: "fresh@test.com", PasswordHash: "x", Active: true},
		{ID: 6, Email: "admirer@test.com", PasswordHash: "x", Active: true},
	}
	require.NoError(t, dbase.Create(&users).Error)

	profiles := []db.Profile{
		{UserID: 1, Name: "Viewer"},
		{UserID: 2, Name: "Liked"},
		{UserID: 3, Name: "Inactive"},
		{UserID: 4, Name: ""},
		{UserID: 5, Name: "Fresh"},
		{UserID: 6, Name: "Admirer"},
	}
	require.NoError(t, dbase.Create(&profiles).Error)

	likes := []db.Like{
		{LikerID: 1, LikedID: 2}, // viewer already liked user 2
		{LikerID: 6, LikedID: 1}, // user 6 likes the viewer; must NOT suppress them
	}
	require.NoError(t, dbase.Create(&likes).Error)

	repo := repository.NewUserRepository(dbase)
	rows, err := repo.Discover(ctx, 1, 20)
	require.NoError(t, err)

	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	// only the viewer's own outgoing likes suppress a candidate
	assert.Equal(t, []uint64{5, 6}, ids)
}

func TestDiscoverLimit(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	seedUsers(t, dbase, 5)

	for i := 1; i <= 5; i++ {
		require.NoError(t, dbase.Create(&db.Profile{UserID: uint64(i), Name: "User"}).Error)
	}

	repo := repository.NewUserRepository(dbase)
	rows, err := repo.Discover(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// ascending id order
	assert.Equal(t, uint64(2), rows[0].UserID)
	assert.Equal(t, uint64(3), rows[1].UserID)
}

func TestUserGetByEmail(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewUserRepository(dbase)

	user := &db.User{Email: "someone@test.com", PasswordHash: "x", Active: true}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByEmail(ctx, "someone@test.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repo.GetByEmail(ctx, "nobody@test.com")
	assert.Error(t, err)
}
