package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emberapp/ember/internal/db"
)

// LikeRepository provides data access methods for the Like model.
// It encapsulates all queries on the directed interest edges between users.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
// Pass a transaction handle to make the repository transaction-scoped.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// Create inserts the edge liker -> liked if it does not exist yet.
//
// Behavior:
//   - Returns created=true when a new row was inserted.
//   - Returns created=false when the ordered pair already exists; the
//     composite PK makes the insert conflict instead of duplicating, so a
//     lost race with a concurrent insert collapses to the existing-edge case.
//
// Example:
//
//	created, err := repo.Create(ctx, 1, 2) // user 1 likes user 2
func (r *LikeRepository) Create(ctx context.Context, likerID, likedID uint64) (bool, error) {
	like := db.Like{
		LikerID: likerID,
		LikedID: likedID,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "liker_id"}, {Name: "liked_id"}},
			DoNothing: true,
		}).
		Create(&like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Get returns the edge liker -> liked, or gorm.ErrRecordNotFound.
func (r *LikeRepository) Get(ctx context.Context, likerID, likedID uint64) (*db.Like, error) {
	var like db.Like
	err := r.db.WithContext(ctx).
		Where("liker_id = ? AND liked_id = ?", likerID, likedID).
		First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

// Exists reports whether the edge liker -> liked is present.
// Used for the reverse-edge check during match detection and retraction.
func (r *LikeRepository) Exists(ctx context.Context, likerID, likedID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liker_id = ? AND liked_id = ?", likerID, likedID).
		Count(&count).Error
	return count > 0, err
}

// Delete removes the edge liker -> liked.
// Returns deleted=false when no such edge existed.
func (r *LikeRepository) Delete(ctx context.Context, likerID, likedID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("liker_id = ? AND liked_id = ?", likerID, likedID).
		Delete(&db.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
