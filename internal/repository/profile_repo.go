package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emberapp/ember/internal/db"
)

// ProfileRepository provides data access methods for the Profile model.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// GetByUserID returns the user's profile, or nil when none exists yet.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uint64) (*db.Profile, error) {
	var profile db.Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetOrCreate returns the user's profile, creating an empty one on first
// access. The unique index on user_id keeps a concurrent double-create
// from producing two rows.
func (r *ProfileRepository) GetOrCreate(ctx context.Context, userID uint64) (*db.Profile, error) {
	profile := db.Profile{UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&profile).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, userID)
}

// Save persists all profile fields.
func (r *ProfileRepository) Save(ctx context.Context, profile *db.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
