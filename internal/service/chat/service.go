package chat

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/emberapp/ember/internal/app"
	"github.com/emberapp/ember/internal/db"
	svcErr "github.com/emberapp/ember/internal/errors"
	"github.com/emberapp/ember/internal/repository"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
	maxContentLength = 1000
)

// Service implements the messaging subsystem: an append-only message log
// scoped to a match, with read/unread tracking. Every entry point passes
// the participant gate before touching the log.
type Service struct {
	appCtx   *app.AppContext
	matches  *repository.MatchRepository
	messages *repository.MessageRepository
	profiles *repository.ProfileRepository
}

// NewService creates the chat service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		matches:  repository.NewMatchRepository(appCtx.DB),
		messages: repository.NewMessageRepository(appCtx.DB),
		profiles: repository.NewProfileRepository(appCtx.DB),
	}
}

// authorize loads the match and enforces the membership gate.
// NotFound for a missing match, AccessDenied for a non-participant.
func (s *Service) authorize(ctx context.Context, actorID, matchID uint64) (*db.Match, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.NotFound("match not found")
		}
		return nil, svcErr.Map(err)
	}
	if !match.HasParticipant(actorID) {
		return nil, svcErr.AccessDenied("you are not a participant of this match")
	}
	return match, nil
}

// Send appends a message authored by actorID to the match's log.
//
// Behavior:
//   - AccessDenied unless actorID is one of the two participants.
//   - Content is trimmed; empty or >1000 characters fails validation
//     before anything is written.
//   - The created message is returned with its assigned id and timestamp.
//   - The counterpart's cached unread counter is bumped best-effort; the
//     DB count stays authoritative.
func (s *Service) Send(ctx context.Context, actorID, matchID uint64, content string) (*db.Message, error) {
	match, err := s.authorize(ctx, actorID, matchID)
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, svcErr.Validation("message cannot be empty")
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return nil, svcErr.Validation("message must be at most 1000 characters")
	}

	msg := &db.Message{
		MatchID:  matchID,
		SenderID: actorID,
		Content:  content,
	}
	if err := s.messages.Append(ctx, msg); err != nil {
		return nil, svcErr.Map(err)
	}

	otherID := match.OtherParticipant(actorID)
	if err := s.appCtx.RedisCache.BumpUnreadCount(ctx, matchID, otherID); err != nil {
		s.appCtx.Logger.Warn("failed to bump unread counter", "match_id", matchID, "user", otherID, "err", err)
	}

	return msg, nil
}

// List returns up to limit messages of the match, oldest first.
// Same membership gate as Send.
func (s *Service) List(ctx context.Context, actorID, matchID uint64, limit int) ([]db.Message, error) {
	if _, err := s.authorize(ctx, actorID, matchID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	messages, err := s.messages.ListByMatch(ctx, matchID, limit)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return messages, nil
}

// MarkRead flips every unread message from the counterpart to read and
// returns the count of messages transitioned. Idempotent: with nothing
// unread it returns 0.
func (s *Service) MarkRead(ctx context.Context, actorID, matchID uint64) (int64, error) {
	if _, err := s.authorize(ctx, actorID, matchID); err != nil {
		return 0, err
	}

	count, err := s.messages.MarkRead(ctx, matchID, actorID)
	if err != nil {
		return 0, svcErr.Map(err)
	}

	if err := s.appCtx.RedisCache.ResetUnreadCount(ctx, matchID, actorID); err != nil {
		s.appCtx.Logger.Warn("failed to reset unread counter", "match_id", matchID, "user", actorID, "err", err)
	}
	return count, nil
}

// Open is the chat-view entry point: the counterpart's unread messages are
// marked read first, then the log is returned. Returns the messages and how
// many flipped to read.
func (s *Service) Open(ctx context.Context, actorID, matchID uint64, limit int) ([]db.Message, int64, error) {
	marked, err := s.MarkRead(ctx, actorID, matchID)
	if err != nil {
		return nil, 0, err
	}
	messages, err := s.List(ctx, actorID, matchID, limit)
	if err != nil {
		return nil, 0, err
	}
	return messages, marked, nil
}

// Info describes a chat thread without its messages.
type Info struct {
	MatchID     uint64 `json:"match_id"`
	OtherUserID uint64 `json:"other_user_id"`
	OtherName   string `json:"other_name"`
	UnreadCount int64  `json:"unread_count"`
	CreatedAt   int64  `json:"created_at"`
}

// GetInfo returns the counterpart and the actor's unread count for the
// match. Cache-first: the Redis counter is used when present and the DB
// count seeds it on a miss.
func (s *Service) GetInfo(ctx context.Context, actorID, matchID uint64) (*Info, error) {
	match, err := s.authorize(ctx, actorID, matchID)
	if err != nil {
		return nil, err
	}

	otherID := match.OtherParticipant(actorID)
	info := &Info{
		MatchID:     matchID,
		OtherUserID: otherID,
		CreatedAt:   match.CreatedAt.Unix(),
	}

	profile, err := s.profiles.GetByUserID(ctx, otherID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if profile != nil {
		info.OtherName = profile.Name
	}

	if count, found, err := s.appCtx.RedisCache.GetUnreadCount(ctx, matchID, actorID); err == nil && found {
		info.UnreadCount = count
		return info, nil
	} else if err != nil {
		s.appCtx.Logger.Warn("unread counter cache read failed", "match_id", matchID, "err", err)
	}

	count, err := s.messages.CountUnread(ctx, matchID, actorID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	info.UnreadCount = count

	if err := s.appCtx.RedisCache.SetUnreadCount(ctx, matchID, actorID, count); err != nil {
		s.appCtx.Logger.Warn("unread counter cache write failed", "match_id", matchID, "err", err)
	}
	return info, nil
}
