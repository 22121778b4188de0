package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedNames = []string{
	"Alex", "Bella", "Chris", "Dana", "Eli", "Freya", "Gabe", "Hana",
	"Ivan", "Jade", "Kai", "Lena", "Milo", "Nora", "Otis", "Pia",
	"Remy", "Sana", "Theo", "Uma",
}

var seedTags = []string{
	"hiking, coffee", "reading, music", "travel, food", "yoga, art",
	"climbing, photography", "cooking, cinema", "running, chess",
}

// SeedTestData resets the database and populates it with demo users,
// profiles, likes, matches and messages.
//
// Behavior:
//  1. Clears all tables in dependency order.
//  2. Creates 20 users with hashed passwords and filled profiles.
//  3. Generates likes with ~70% probability per pair considered; every
//     mutual pair gets its match row and a short message exchange, keeping
//     the stored state consistent with what the engine would produce.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, table := range []string{"messages", "matches", "likes", "profiles", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	// Reset auto-increment sequences
	switch db.Dialector.Name() {
	case "mysql":
		for _, table := range []string{"messages", "matches", "likes", "profiles", "users"} {
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence")
	}

	log.Println("Cleared existing data")

	genders := []string{"male", "female", "non-binary", "other"}
	users := make([]User, 0, len(seedNames))
	for i, name := range seedNames {
		user := User{
			Email:      fmt.Sprintf("%s%d@example.com", name, i+1),
			Active:     true,
			LastSeenAt: time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		if err := user.SetPassword("password"); err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		age := 18 + r.Intn(30)
		profile := Profile{
			UserID:   user.ID,
			Name:     name,
			Age:      &age,
			Gender:   genders[i%len(genders)],
			Bio:      fmt.Sprintf("Hi, I'm %s.", name),
			Tags:     seedTags[i%len(seedTags)],
			Location: "Berlin",
		}
		if err := db.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users", len(users))

	// Likes: walk the unordered pairs, make every 4th considered pair mutual
	// so matches and chats exist out of the box.
	counter := 0
	for i := range users {
		for j := i + 1; j < len(users); j++ {
			if r.Intn(100) >= 40 {
				continue
			}
			counter++

			a, b := users[i].ID, users[j].ID
			forward := Like{LikerID: a, LikedID: b}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&forward).Error; err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}

			if counter%4 != 0 {
				continue
			}
			reverse := Like{LikerID: b, LikedID: a}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&reverse).Error; err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}

			match := NewMatch(a, b)
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&match).Error; err != nil {
				return fmt.Errorf("failed to seed match: %w", err)
			}
			if match.ID == 0 {
				continue
			}

			messages := []Message{
				{MatchID: match.ID, SenderID: a, Content: "Hey, we matched!", IsRead: true},
				{MatchID: match.ID, SenderID: b, Content: "Hey! How is it going?"},
			}
			if err := db.Create(&messages).Error; err != nil {
				return fmt.Errorf("failed to seed messages: %w", err)
			}
		}
	}

	log.Printf("Seeded %d liked pairs", counter)
	return nil
}

// SeedMinimalTestData wipes the DB and inserts a small deterministic dataset
// for repeatable tests: users 1-3 with profiles, a mutual 1<->2 pair with
// its match, and a one-way like 3 -> 1.
func SeedMinimalTestData(db *gorm.DB) error {
	for _, table := range []string{"messages", "matches", "likes", "profiles", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}

	users := []User{
		{ID: 1, Email: "u1@test.com", PasswordHash: "x", Active: true},
		{ID: 2, Email: "u2@test.com", PasswordHash: "x", Active: true},
		{ID: 3, Email: "u3@test.com", PasswordHash: "x", Active: true},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	profiles := []Profile{
		{UserID: 1, Name: "Alice"},
		{UserID: 2, Name: "Bob"},
		{UserID: 3, Name: "Cleo"},
	}
	if err := db.Create(&profiles).Error; err != nil {
		return err
	}

	likes := []Like{
		{LikerID: 1, LikedID: 2}, // mutual with below
		{LikerID: 2, LikedID: 1},
		{LikerID: 3, LikedID: 1}, // one-way
	}
	if err := db.Create(&likes).Error; err != nil {
		return err
	}

	match := NewMatch(1, 2)
	return db.Create(&match).Error
}
