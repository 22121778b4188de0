package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/emberapp/ember/internal/db"
)

// MessageRepository provides data access methods for the Message model.
// The message log is append-only; the only update is the read flag sweep.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository bound to the given DB connection.
func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// Append inserts a new message. ID and CreatedAt are assigned by the store
// and filled into msg.
func (r *MessageRepository) Append(ctx context.Context, msg *db.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListByMatch returns up to limit messages of the match, oldest first.
// The id tiebreak keeps the order stable when timestamps collide.
func (r *MessageRepository) ListByMatch(ctx context.Context, matchID uint64, limit int) ([]db.Message, error) {
	var messages []db.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// Latest returns the newest message of the match, or nil when the log is empty.
// Used for match-list previews.
func (r *MessageRepository) Latest(ctx context.Context, matchID uint64) (*db.Message, error) {
	var msg db.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkRead flips every unread message in the match that was NOT authored by
// readerID to read, and returns how many rows transitioned.
//
// Idempotent: a sweep with nothing unread returns 0, not an error.
func (r *MessageRepository) MarkRead(ctx context.Context, matchID, readerID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("match_id = ? AND sender_id <> ? AND is_read = ?", matchID, readerID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// CountUnread returns how many messages in the match are unread from
// readerID's point of view (authored by the counterpart, not yet read).
func (r *MessageRepository) CountUnread(ctx context.Context, matchID, readerID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("match_id = ? AND sender_id <> ? AND is_read = ?", matchID, readerID, false).
		Count(&count).Error
	return count, err
}
