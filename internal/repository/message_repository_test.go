package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emberapp/ember/internal/db"
	"github.com/emberapp/ember/internal/repository"
)

func setupMatch(t *testing.T, dbase *gorm.DB) uint64 {
	t.Helper()
	match := db.NewMatch(1, 2)
	require.NoError(t, dbase.Create(&match).Error)
	return match.ID
}

func TestMessageAppendAndListOrder(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	seedUsers(t, dbase, 2)
	matchID := setupMatch(t, dbase)
	repo := repository.NewMessageRepository(dbase)

	for _, content := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Append(ctx, &db.Message{
			MatchID:  matchID,
			SenderID: 1,
			Content:  content,
		}))
	}

	messages, err := repo.ListByMatch(ctx, matchID, 50)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "third", messages[2].Content)

	// limit applies from the oldest end
	messages, err = repo.ListByMatch(ctx, matchID, 2)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content)
}

func TestMessageMarkRead(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	seedUsers(t, dbase, 2)
	matchID := setupMatch(t, dbase)
	repo := repository.NewMessageRepository(dbase)

	require.NoError(t, repo.Append(ctx, &db.Message{MatchID: matchID, SenderID: 1, Content: "hi"}))
	require.NoError(t, repo.Append(ctx, &db.Message{MatchID: matchID, SenderID: 1, Content: "there"}))
	require.NoError(t, repo.Append(ctx, &db.Message{MatchID: matchID, SenderID: 2, Content: "hey"}))

	// user 2 reads: only user 1's messages flip
	count, err := repo.MarkRead(ctx, matchID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// idempotent: nothing left to flip
	count, err = repo.MarkRead(ctx, matchID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// user 2's own message is still unread from user 1's side
	unread, err := repo.CountUnread(ctx, matchID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestMessageLatest(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	seedUsers(t, dbase, 2)
	matchID := setupMatch(t, dbase)
	repo := repository.NewMessageRepository(dbase)

	latest, err := repo.Latest(ctx, matchID)
	require.NoError(t, err)
	assert.Nil(t, latest)

	require.NoError(t, repo.Append(ctx, &db.Message{MatchID: matchID, SenderID: 1, Content: "older"}))
	require.NoError(t, repo.Append(ctx, &db.Message{MatchID: matchID, SenderID: 2, Content: "newer"}))

	latest, err = repo.Latest(ctx, matchID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "newer", latest.Content)
}
