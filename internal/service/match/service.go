package match

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/emberapp/ember/internal/app"
	"github.com/emberapp/ember/internal/db"
	svcErr "github.com/emberapp/ember/internal/errors"
	"github.com/emberapp/ember/internal/repository"
)

const (
	defaultDiscoverLimit = 20
	maxDiscoverLimit     = 50
)

// Service implements the like/match engine and the discovery selector.
//
// Matches are a materialized consequence of a symmetric relation over
// directed likes: every mutation that could change reciprocity runs in one
// transaction and updates the matches table incrementally, so match lookup
// stays O(1) on reads.
type Service struct {
	appCtx   *app.AppContext
	users    *repository.UserRepository
	likes    *repository.LikeRepository
	matches  *repository.MatchRepository
	profiles *repository.ProfileRepository
	messages *repository.MessageRepository
}

// NewService creates the match service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		users:    repository.NewUserRepository(appCtx.DB),
		likes:    repository.NewLikeRepository(appCtx.DB),
		matches:  repository.NewMatchRepository(appCtx.DB),
		profiles: repository.NewProfileRepository(appCtx.DB),
		messages: repository.NewMessageRepository(appCtx.DB),
	}
}

// LikeResult is the outcome of a Like call.
type LikeResult struct {
	Like         *db.Like
	MatchCreated bool
	Match        *db.Match
}

// Like records actor's interest in target and materializes a match when the
// interest turns out to be mutual.
//
// Behavior:
//   - Self-likes fail with a validation error; nothing is written.
//   - Liking someone already liked is a no-op success: the existing edge is
//     returned with MatchCreated=false.
//   - When the reverse edge exists and the pair has no match yet, the match
//     is inserted in the same transaction as the like. A concurrent call
//     racing on either insert loses to the unique constraint and is folded
//     into the already-exists case.
func (s *Service) Like(ctx context.Context, actorID, targetID uint64) (*LikeResult, error) {
	if actorID == targetID {
		return nil, svcErr.Validation("cannot like yourself")
	}

	exists, err := s.users.Exists(ctx, targetID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if !exists {
		return nil, svcErr.NotFound("user not found")
	}

	var result LikeResult
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		likes := repository.NewLikeRepository(tx)
		matches := repository.NewMatchRepository(tx)

		created, err := likes.Create(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		like, err := likes.Get(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		result.Like = like

		if !created {
			// edge already existed, nothing else to do
			return nil
		}

		reciprocal, err := likes.Exists(ctx, targetID, actorID)
		if err != nil {
			return err
		}
		if !reciprocal {
			return nil
		}

		match, matchCreated, err := matches.Create(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		result.Match = match
		result.MatchCreated = matchCreated
		return nil
	})
	if err != nil {
		s.appCtx.Logger.Error("like transaction failed", "actor", actorID, "target", targetID, "err", err)
		return nil, svcErr.Map(err)
	}

	if result.MatchCreated {
		s.appCtx.Logger.Info("match created", "match_id", result.Match.ID,
			"user_low", result.Match.UserLowID, "user_high", result.Match.UserHighID)
	}
	return &result, nil
}

// Unlike removes actor's like of target and retracts the pair's match when
// reciprocity is broken.
//
// Retraction rule: after the forward edge actor -> target is removed, the
// match is deleted only when the reverse edge target -> actor is absent at
// that moment. A unilateral retraction of a mutual pair leaves the match
// standing until the other side retracts too.
//
// Returns whether a match was dissolved. Fails with NotFound when the like
// does not exist.
func (s *Service) Unlike(ctx context.Context, actorID, targetID uint64) (bool, error) {
	var dissolved bool
	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		likes := repository.NewLikeRepository(tx)
		matches := repository.NewMatchRepository(tx)

		deleted, err := likes.Delete(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		if !deleted {
			return svcErr.NotFound("like not found")
		}

		match, err := matches.GetByPair(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		if match == nil {
			return nil
		}

		reverse, err := likes.Exists(ctx, targetID, actorID)
		if err != nil {
			return err
		}
		if reverse {
			return nil
		}

		if err := matches.Delete(ctx, match.ID); err != nil {
			return err
		}
		dissolved = true
		return nil
	})
	if err != nil {
		return false, svcErr.Map(err)
	}

	if dissolved {
		s.appCtx.Logger.Info("match dissolved", "actor", actorID, "target", targetID)
	}
	return dissolved, nil
}

// Candidate is one browsable user as shown on the discover page.
type Candidate struct {
	UserID   uint64   `json:"id"`
	Name     string   `json:"name"`
	Age      *int     `json:"age,omitempty"`
	Gender   string   `json:"gender,omitempty"`
	Bio      string   `json:"bio,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Location string   `json:"location,omitempty"`
}

// Discover returns up to limit candidate users for the viewer: active users
// with a non-empty profile name whom the viewer has not liked, excluding the
// viewer. Only the viewer's own outgoing likes suppress a candidate;
// incoming likes and existing matches do not. Ascending user id order.
func (s *Service) Discover(ctx context.Context, viewerID uint64, limit int) ([]Candidate, error) {
	if limit <= 0 {
		limit = defaultDiscoverLimit
	}
	if limit > maxDiscoverLimit {
		limit = maxDiscoverLimit
	}

	rows, err := s.users.Discover(ctx, viewerID, limit)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		p := db.Profile{Tags: row.Tags}
		candidates = append(candidates, Candidate{
			UserID:   row.UserID,
			Name:     row.Name,
			Age:      row.Age,
			Gender:   row.Gender,
			Bio:      row.Bio,
			Tags:     p.TagList(),
			Location: row.Location,
		})
	}
	return candidates, nil
}

// MatchWith returns the match between the two users, or nil when unmatched.
func (s *Service) MatchWith(ctx context.Context, userID, otherID uint64) (*db.Match, error) {
	match, err := s.matches.GetByPair(ctx, userID, otherID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return match, nil
}

// MessagePreview is the latest-message snippet shown in the match list.
type MessagePreview struct {
	ID        uint64    `json:"id"`
	SenderID  uint64    `json:"sender_id"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary is one entry of a user's match list.
type Summary struct {
	MatchID       uint64          `json:"match_id"`
	CreatedAt     time.Time       `json:"created_at"`
	Other         Candidate       `json:"other_user"`
	LatestMessage *MessagePreview `json:"latest_message,omitempty"`
	UnreadCount   int64           `json:"unread_count"`
}

// Matches returns the user's matches, most recent first, each with the
// counterpart's profile, a latest-message preview and the unread count.
// Matches whose counterpart has no profile are skipped, mirroring the
// discover filter.
func (s *Service) Matches(ctx context.Context, userID uint64) ([]Summary, error) {
	matches, err := s.matches.ListForUser(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	summaries := make([]Summary, 0, len(matches))
	for _, m := range matches {
		otherID := m.OtherParticipant(userID)
		profile, err := s.profiles.GetByUserID(ctx, otherID)
		if err != nil {
			return nil, svcErr.Map(err)
		}
		if profile == nil {
			continue
		}

		summary := Summary{
			MatchID:   m.ID,
			CreatedAt: m.CreatedAt,
			Other: Candidate{
				UserID:   otherID,
				Name:     profile.Name,
				Age:      profile.Age,
				Gender:   profile.Gender,
				Bio:      profile.Bio,
				Tags:     profile.TagList(),
				Location: profile.Location,
			},
		}

		latest, err := s.messages.Latest(ctx, m.ID)
		if err != nil {
			return nil, svcErr.Map(err)
		}
		if latest != nil {
			summary.LatestMessage = &MessagePreview{
				ID:        latest.ID,
				SenderID:  latest.SenderID,
				Content:   latest.Content,
				IsRead:    latest.IsRead,
				CreatedAt: latest.CreatedAt,
			}
		}

		unread, err := s.messages.CountUnread(ctx, m.ID, userID)
		if err != nil {
			return nil, svcErr.Map(err)
		}
		summary.UnreadCount = unread

		summaries = append(summaries, summary)
	}
	return summaries, nil
}
