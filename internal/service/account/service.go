package account

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
	minPasswordLength = 6
	minNameLength     = 2
	maxNameLength     = 100
	maxAge            = 120
	minAge            = 18
	maxBioLength      = 500
	maxTagsLength     = 500
	maxLocationLength = 100
)

var validGenders = map[string]struct{}{
	"male":              {},
	"female":            {},
	"non-binary":        {},
	"other":             {},
	"prefer_not_to_say": {},
}

// Service implements registration, credential checks and profile management.
type Service struct {
	appCtx   *app.AppContext
	users    *repository.UserRepository
	profiles *repository.ProfileRepository
	likes    *repository.LikeRepository
	matches  *repository.MatchRepository
}

// NewService creates the account service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		users:    repository.NewUserRepository(appCtx.DB),
		profiles: repository.NewProfileRepository(appCtx.DB),
		likes:    repository.NewLikeRepository(appCtx.DB),
		matches:  repository.NewMatchRepository(appCtx.DB),
	}
}

// Register creates a user with the given credential and an initial profile
// carrying the display name, in one transaction.
//
// The email pre-check is optimistic; the unique index on users.email is the
// real guard, and a lost race surfaces as the same validation failure.
func (s *Service) Register(ctx context.Context, email, password, name string) (*db.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if email == "" || !strings.Contains(email, "@") {
		return nil, svcErr.Validation("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, svcErr.Validation("password must be at least 6 characters")
	}
	if n := utf8.RuneCountInString(name); n < minNameLength || n > maxNameLength {
		return nil, svcErr.Validation("name must be between 2 and 100 characters")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, svcErr.Validation("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.Map(err)
	}

	user := &db.User{Email: email, Active: true}
	if err := user.SetPassword(password); err != nil {
		return nil, svcErr.Map(err)
	}

	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewUserRepository(tx).Create(ctx, user); err != nil {
			return err
		}
		profile := &db.Profile{UserID: user.ID, Name: name}
		return tx.WithContext(ctx).Create(profile).Error
	})
	if err != nil {
		if svcErr.IsDuplicateKey(err) {
			return nil, svcErr.Validation("email already registered")
		}
		return nil, svcErr.Map(err)
	}

	s.appCtx.Logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate verifies the credential and returns the user on success,
// touching their last-seen timestamp. Failures are indistinguishable to the
// caller whether the email or the password was wrong.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*db.User, error) {
	email = strings.TrimSpace(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.AccessDenied("invalid email or password")
		}
		return nil, svcErr.Map(err)
	}
	if !user.VerifyPassword(password) {
		return nil, svcErr.AccessDenied("invalid email or password")
	}
	if !user.Active {
		return nil, svcErr.AccessDenied("account is deactivated")
	}

	if err := s.users.TouchLastSeen(ctx, user.ID); err != nil {
		s.appCtx.Logger.Warn("failed to touch last seen", "user_id", user.ID, "err", err)
	}
	return user, nil
}

// GetProfile returns the user's own profile, creating an empty one on
// first access.
func (s *Service) GetProfile(ctx context.Context, userID uint64) (*db.Profile, error) {
	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return profile, nil
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name     string
	Age      *int
	Gender   string
	Bio      string
	Tags     []string
	Location string
}

// UpdateProfile validates and persists the user's profile fields.
// All validation happens before any write.
func (s *Service) UpdateProfile(ctx context.Context, userID uint64, in ProfileUpdate) (*db.Profile, error) {
	in.Name = strings.TrimSpace(in.Name)
	if n := utf8.RuneCountInString(in.Name); n < minNameLength || n > maxNameLength {
		return nil, svcErr.Validation("name must be between 2 and 100 characters")
	}
	if in.Age != nil && (*in.Age < minAge || *in.Age > maxAge) {
		return nil, svcErr.Validation("age must be between 18 and 120")
	}
	if in.Gender != "" {
		if _, ok := validGenders[in.Gender]; !ok {
			return nil, svcErr.Validation("unknown gender value")
		}
	}
	if utf8.RuneCountInString(in.Bio) > maxBioLength {
		return nil, svcErr.Validation("bio must be less than 500 characters")
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Location)) > maxLocationLength {
		return nil, svcErr.Validation("location must be less than 100 characters")
	}

	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	profile.Name = in.Name
	profile.Age = in.Age
	profile.Gender = in.Gender
	profile.Bio = strings.TrimSpace(in.Bio)
	profile.Location = strings.TrimSpace(in.Location)
	profile.SetTagList(in.Tags)
	if utf8.RuneCountInString(profile.Tags) > maxTagsLength {
		return nil, svcErr.Validation("tags must be less than 500 characters")
	}

	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, svcErr.Map(err)
	}
	return profile, nil
}

// ProfileView is another user's profile as seen by a viewer, including the
// viewer's relationship to them.
type ProfileView struct {
	UserID   uint64   `json:"id"`
	Name     string   `json:"name"`
	Age      *int     `json:"age,omitempty"`
	Gender   string   `json:"gender,omitempty"`
	Bio      string   `json:"bio,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Location string   `json:"location,omitempty"`
	HasLiked bool     `json:"has_liked"`
	HasMatch bool     `json:"has_match"`
}

// ViewProfile returns userID's profile annotated with whether the viewer
// already liked them and whether the two are matched.
func (s *Service) ViewProfile(ctx context.Context, viewerID, userID uint64) (*ProfileView, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.NotFound("user not found")
		}
		return nil, svcErr.Map(err)
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if profile == nil {
		return nil, svcErr.NotFound("profile not found")
	}

	view := &ProfileView{
		UserID:   userID,
		Name:     profile.Name,
		Age:      profile.Age,
		Gender:   profile.Gender,
		Bio:      profile.Bio,
		Tags:     profile.TagList(),
		Location: profile.Location,
	}

	if viewerID != userID {
		liked, err := s.likes.Exists(ctx, viewerID, userID)
		if err != nil {
			return nil, svcErr.Map(err)
		}
		view.HasLiked = liked

		match, err := s.matches.GetByPair(ctx, viewerID, userID)
		if err != nil {
			return nil, svcErr.Map(err)
		}
		view.HasMatch = match != nil
	}
	return view, nil
}
