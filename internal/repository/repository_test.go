package repository_test

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/emberapp/ember/internal/db"
)

// setupTestDB opens an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

// seedUsers inserts n bare active users with ids 1..n.
func seedUsers(t *testing.T, database *gorm.DB, n int) {
	t.Helper()
	users := make([]db.User, 0, n)
	for i := 1; i <= n; i++ {
		users = append(users, db.User{
			ID:           uint64(i),
			Email:        emailFor(i),
			PasswordHash: "x",
			Active:       true,
		})
	}
	if err := database.Create(&users).Error; err != nil {
		t.Fatalf("failed to seed users: %v", err)
	}
}

func emailFor(i int) string {
	return fmt.Sprintf("user%d@test.com", i)
}
