package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/emberapp/ember/internal/db"
)

// UserRepository provides data access methods for the User model,
// including the discovery query.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create inserts a new user. A duplicate email surfaces as the driver's
// unique-constraint error; callers map it via errors.IsDuplicateKey.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID returns the user with the given id, or gorm.ErrRecordNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns the user with the given email, or gorm.ErrRecordNotFound.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Exists reports whether a user with the given id is present.
func (r *UserRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// TouchLastSeen records activity for the user.
func (r *UserRepository) TouchLastSeen(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Update("last_seen_at", time.Now().UTC()).Error
}

// CandidateRow is one browsable user produced by the discovery query.
type CandidateRow struct {
	UserID   uint64
	Name     string
	Age      *int
	Gender   string
	Bio      string
	Tags     string
	Location string
}

// Discover returns up to limit candidate users browsable by the viewer.
//
// Behavior:
//   - Excludes the viewer, inactive users, and users with an empty
//     profile name.
//   - Excludes users the viewer has an outgoing like for. Incoming likes
//     and existing matches do NOT suppress a candidate; only the viewer's
//     own likes do.
//   - Ordered by ascending user id, the documented stable order.
//
// Example:
//
//	rows, err := repo.Discover(ctx, 42, 20)
func (r *UserRepository) Discover(ctx context.Context, viewerID uint64, limit int) ([]CandidateRow, error) {
	var rows []CandidateRow
	err := r.db.WithContext(ctx).
		Table("users u").
		Select("u.id AS user_id, p.name, p.age, p.gender, p.bio, p.tags, p.location").
		Joins("JOIN profiles p ON p.user_id = u.id").
		Where("u.id <> ?", viewerID).
		Where("u.active = ?", true).
		Where("p.name <> ''").
		Where(`
			NOT EXISTS (
				SELECT 1 FROM likes l
				WHERE l.liker_id = ?
				  AND l.liked_id = u.id
			)`, viewerID).
		Order("u.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
