package db

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User table. Holds the credential and account state; everything the app
// shows about a person lives on the Profile.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Active       bool   `gorm:"not null;default:true"`
	LastSeenAt   time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	Profile *Profile `gorm:"constraint:OnDelete:CASCADE"`
}

// SetPassword hashes plain with bcrypt and stores the hash.
// The plaintext is never persisted.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword reports whether plain matches the stored hash.
func (u *User) VerifyPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// Profile is the 1:1 public face of a User, created lazily on first access.
// Tags are stored as a comma-separated string and exposed as a list.
type Profile struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"uniqueIndex;not null"`
	Name      string `gorm:"size:100;not null;default:''"`
	Age       *int
	Gender    string    `gorm:"size:20"`
	Bio       string    `gorm:"size:500"`
	Tags      string    `gorm:"size:500"`
	Location  string    `gorm:"size:100"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TagList splits the stored tags string into trimmed, non-empty tags.
func (p *Profile) TagList() []string {
	if p.Tags == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(p.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SetTagList stores the given tags as a comma-separated string,
// dropping empty entries.
func (p *Profile) SetTagList(tags []string) {
	var clean []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	p.Tags = strings.Join(clean, ", ")
}

// Like is a directed interest edge liker -> liked.
//
// Composite PK: (LikerID, LikedID)
//   - At most one row per ordered pair; a duplicate insert conflicts instead
//     of creating a second edge, which is what makes concurrent likes safe.
//
// idx_likes_liked supports the reverse-edge lookup during match detection.
// Self-likes are rejected by the engine, not the store.
type Like struct {
	LikerID   uint64    `gorm:"primaryKey;autoIncrement:false"`
	LikedID   uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_likes_liked"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Liker *User `gorm:"foreignKey:LikerID;constraint:OnDelete:CASCADE"`
	Liked *User `gorm:"foreignKey:LikedID;constraint:OnDelete:CASCADE"`
}

// Match is the materialized record of mutual interest between two users.
//
// The pair is stored canonically with the lower id first, so the unique
// index on (user_low_id, user_high_id) guarantees at most one row per
// unordered pair. Always build rows through NewMatch.
type Match struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	UserLowID  uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:1"`
	UserHighID uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:2;index:idx_match_high"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	UserLow  *User     `gorm:"foreignKey:UserLowID;constraint:OnDelete:CASCADE"`
	UserHigh *User     `gorm:"foreignKey:UserHighID;constraint:OnDelete:CASCADE"`
	Messages []Message `gorm:"constraint:OnDelete:CASCADE"`
}

// NewMatch builds a canonically ordered Match for the pair (a, b).
func NewMatch(a, b uint64) Match {
	if a > b {
		a, b = b, a
	}
	return Match{UserLowID: a, UserHighID: b}
}

// HasParticipant reports whether userID is one of the two matched users.
func (m *Match) HasParticipant(userID uint64) bool {
	return m.UserLowID == userID || m.UserHighID == userID
}

// OtherParticipant returns the counterpart of userID in this match.
// Callers must check HasParticipant first.
func (m *Match) OtherParticipant(userID uint64) uint64 {
	if m.UserLowID == userID {
		return m.UserHighID
	}
	return m.UserLowID
}

// Message is one chat entry inside a match. The log is append-only except
// for the IsRead flag, which only ever flips false -> true.
type Message struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	MatchID   uint64    `gorm:"not null;index:idx_messages_match_created,priority:1"`
	SenderID  uint64    `gorm:"not null"`
	Content   string    `gorm:"size:1000;not null"`
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_messages_match_created,priority:2"`

	Sender *User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
}
