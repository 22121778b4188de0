package account_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/emberapp/ember/internal/app"
	"github.com/emberapp/ember/internal/cache"
	"github.com/emberapp/ember/internal/config"
	"github.com/emberapp/ember/internal/db"
	svcErr "github.com/emberapp/ember/internal/errors"
	"github.com/emberapp/ember/internal/service/account"
	"github.com/emberapp/ember/internal/service/match"
)

func setupService(t *testing.T) (*account.Service, *app.AppContext) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	appCtx := app.New(dbase, redisCache, logger)
	return account.NewService(appCtx), appCtx
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)

	user, err := svc.Register(ctx, "alice@test.com", "secret123", "Alice")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	var profile db.Profile
	require.NoError(t, appCtx.DB.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, "Alice", profile.Name)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, err := svc.Register(ctx, "alice@test.com", "secret123", "Alice")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice@test.com", "different", "Alia")
	require.Error(t, err)
	assert.True(t, svcErr.Is(err, svcErr.KindValidation))
}

func TestRegisterValidatesInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	cases := []struct {
		name     string
		email    string
		password string
		display  string
	}{
		{"bad email", "not-an-email", "secret123", "Alice"},
		{"short password", "a@test.com", "abc", "Alice"},
		{"short name", "a@test.com", "secret123", "A"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.email, tc.password, tc.display)
			require.Error(t, err)
			assert.True(t, svcErr.Is(err, svcErr.KindValidation))
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)

	registered, err := svc.Register(ctx, "bob@test.com", "secret123", "Bob")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "bob@test.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Authenticate(ctx, "bob@test.com", "wrong")
	require.Error(t, err)
	assert.True(t, svcErr.Is(err, svcErr.KindAccessDenied))

	_, err = svc.Authenticate(ctx, "nobody@test.com", "secret123")
	require.Error(t, err)
	assert.True(t, svcErr.Is(err, svcErr.KindAccessDenied))

	// deactivated accounts cannot log in
	require.NoError(t, appCtx.DB.Model(&db.User{}).Where("id = ?", registered.ID).
		Update("active", false).Error)
	_, err = svc.Authenticate(ctx, "bob@test.com", "secret123")
	require.Error(t, err)
	assert.True(t, svcErr.Is(err, svcErr.KindAccessDenied))
}

func TestGetProfileCreatesLazily(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)

	user := db.User{Email: "bare@test.com", PasswordHash: "x", Active: true}
	require.NoError(t, appCtx.DB.Create(&user).Error)

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "", profile.Name)

	// second call returns the same row
	again, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	user, err := svc.Register(ctx, "carol@test.com", "secret123", "Carol")
	require.NoError(t, err)

	age := 30
	profile, err := svc.UpdateProfile(ctx, user.ID, account.ProfileUpdate{
		Name:     "Carol",
		Age:      &age,
		Gender:   "female",
		Bio:      "Hello there",
		Tags:     []string{" hiking", "", "coffee "},
		Location: "Berlin",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hiking", "coffee"}, profile.TagList())
	assert.Equal(t, "hiking, coffee", profile.Tags)

	underage := 17
	for name, in := range map[string]account.ProfileUpdate{
		"missing name": {},
		"underage":     {Name: "Carol", Age: &underage},
		"bad gender":   {Name: "Carol", Gender: "dragon"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.UpdateProfile(ctx, user.ID, in)
			require.Error(t, err)
			assert.True(t, svcErr.Is(err, svcErr.KindValidation))
		})
	}
}

func TestViewProfileFlags(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)

	viewer, err := svc.Register(ctx, "v@test.com", "secret123", "Viewer")
	require.NoError(t, err)
	other, err := svc.Register(ctx, "o@test.com", "secret123", "Other")
	require.NoError(t, err)

	view, err := svc.ViewProfile(ctx, viewer.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, view.HasLiked)
	assert.False(t, view.HasMatch)

	matching := match.NewService(appCtx)
	_, err = matching.Like(ctx, viewer.ID, other.ID)
	require.NoError(t, err)

	view, err = svc.ViewProfile(ctx, viewer.ID, other.ID)
	require.NoError(t, err)
	assert.True(t, view.HasLiked)
	assert.False(t, view.HasMatch)

	res, err := matching.Like(ctx, other.ID, viewer.ID)
	require.NoError(t, err)
	require.True(t, res.MatchCreated)

	view, err = svc.ViewProfile(ctx, viewer.ID, other.ID)
	require.NoError(t, err)
	assert.True(t, view.HasMatch)
}

func TestViewProfileUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, err := svc.ViewProfile(ctx, 1, 999)
	require.Error(t, err)
	assert.True(t, svcErr.Is(err, svcErr.KindNotFound))
}
