package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// UserRecord is a registered account.
type UserRecord struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	HasOnboarded bool      `json:"has_onboarded"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProfileRecord is the onboarding questionnaire snapshot plus the generated
// career analysis. Read paths treat it as an immutable snapshot per request.
type ProfileRecord struct {
	UserID        string    `json:"user_id"`
	FullName      string    `json:"full_name"`
	Age           int       `json:"age"`
	Education     string    `json:"education"`
	CurrentRole   string    `json:"current_role"`
	Experience    int       `json:"experience"`
	Interests     string    `json:"interests"`
	DreamGoal     string    `json:"dream_goal"`
	HardSkills    string    `json:"hard_skills"`
	SoftSkills    string    `json:"soft_skills"`
	MissingSkill  string    `json:"missing_skill"`
	ProbSolving   string    `json:"prob_solving"`
	TeamRole      string    `json:"team_role"`
	Environment   string    `json:"environment"`
	LearningStyle string    `json:"learning_style"`
	Analysis      string    `json:"analysis_result"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProfileUpdate carries the editable subset of profile fields.
type ProfileUpdate struct {
	FullName    string `json:"full_name"`
	Age         int    `json:"age"`
	Education   string `json:"education"`
	CurrentRole string `json:"current_role"`
	HardSkills  string `json:"hard_skills"`
	DreamGoal   string `json:"dream_goal"`
}

// Store persists accounts and onboarding profiles.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string) (UserRecord, error)
	UserByUsername(ctx context.Context, username string) (UserRecord, error)
	Profile(ctx context.Context, userID string) (ProfileRecord, error)
	// SaveOnboarding writes the profile, its analysis, and the user's onboarded
	// flag as a single transaction.
	SaveOnboarding(ctx context.Context, profile ProfileRecord) error
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) error
	Close() error
}
