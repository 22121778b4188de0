package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emberapp/ember/internal/db"
)

// MatchRepository provides data access methods for the Match model.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// Create inserts the match for the unordered pair (a, b), stored canonically
// with the lower id first.
//
// Behavior:
//   - Returns created=false when the pair already has a match; the unique
//     index on (user_low_id, user_high_id) turns a concurrent double-insert
//     into a conflict, never a duplicate row.
//   - The returned Match is the stored row in both cases.
func (r *MatchRepository) Create(ctx context.Context, a, b uint64) (*db.Match, bool, error) {
	match := db.NewMatch(a, b)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_low_id"}, {Name: "user_high_id"}},
			DoNothing: true,
		}).
		Create(&match)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return &match, true, nil
	}
	existing, err := r.GetByPair(ctx, a, b)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetByID returns the match with the given id, or gorm.ErrRecordNotFound.
func (r *MatchRepository) GetByID(ctx context.Context, id uint64) (*db.Match, error) {
	var match db.Match
	if err := r.db.WithContext(ctx).First(&match, id).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

// GetByPair returns the match for the unordered pair (a, b), or nil when the
// pair is unmatched.
func (r *MatchRepository) GetByPair(ctx context.Context, a, b uint64) (*db.Match, error) {
	canonical := db.NewMatch(a, b)
	var match db.Match
	err := r.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", canonical.UserLowID, canonical.UserHighID).
		First(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// Delete removes the match row. Messages cascade at the store.
func (r *MatchRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&db.Match{}, id).Error
}

// ListForUser returns all matches the user participates in,
// most recent first.
func (r *MatchRepository) ListForUser(ctx context.Context, userID uint64) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&matches).Error
	return matches, err
}
