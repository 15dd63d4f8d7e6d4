package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists accounts and profiles in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			has_onboarded BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			full_name TEXT NOT NULL,
			age INTEGER NOT NULL DEFAULT 0,
			education TEXT NOT NULL DEFAULT '',
			"current_role" TEXT NOT NULL DEFAULT '',
			experience INTEGER NOT NULL DEFAULT 0,
			interests TEXT NOT NULL DEFAULT '',
			dream_goal TEXT NOT NULL DEFAULT '',
			hard_skills TEXT NOT NULL DEFAULT '',
			soft_skills TEXT NOT NULL DEFAULT '',
			missing_skill TEXT NOT NULL DEFAULT '',
			prob_solving TEXT NOT NULL DEFAULT '',
			team_role TEXT NOT NULL DEFAULT '',
			environment TEXT NOT NULL DEFAULT '',
			learning_style TEXT NOT NULL DEFAULT '',
			analysis_result TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, username, passwordHash string) (UserRecord, error) {
	user := UserRecord{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, username, password_hash, has_onboarded, created_at)
		 VALUES ($1, $2, $3, FALSE, $4)`,
		user.ID, user.Username, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return UserRecord{}, ErrUsernameTaken
		}
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) UserByUsername(ctx context.Context, username string) (UserRecord, error) {
	var u UserRecord
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, has_onboarded, created_at
		 FROM users WHERE username=$1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.HasOnboarded, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return UserRecord{}, ErrNotFound
	}
	if err != nil {
		return UserRecord{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) Profile(ctx context.Context, userID string) (ProfileRecord, error) {
	var p ProfileRecord
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, full_name, age, education, "current_role", experience, interests,
		        dream_goal, hard_skills, soft_skills, missing_skill, prob_solving,
		        team_role, environment, learning_style, analysis_result, updated_at
		 FROM profiles WHERE user_id=$1`,
		userID,
	).Scan(
		&p.UserID, &p.FullName, &p.Age, &p.Education, &p.CurrentRole, &p.Experience,
		&p.Interests, &p.DreamGoal, &p.HardSkills, &p.SoftSkills, &p.MissingSkill,
		&p.ProbSolving, &p.TeamRole, &p.Environment, &p.LearningStyle, &p.Analysis,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ProfileRecord{}, ErrNotFound
	}
	if err != nil {
		return ProfileRecord{}, fmt.Errorf("query profile: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) SaveOnboarding(ctx context.Context, profile ProfileRecord) error {
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now().UTC()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (
			user_id, full_name, age, education, "current_role", experience, interests,
			dream_goal, hard_skills, soft_skills, missing_skill, prob_solving,
			team_role, environment, learning_style, analysis_result, updated_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17
		)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name=EXCLUDED.full_name,
			age=EXCLUDED.age,
			education=EXCLUDED.education,
			"current_role"=EXCLUDED."current_role",
			experience=EXCLUDED.experience,
			interests=EXCLUDED.interests,
			dream_goal=EXCLUDED.dream_goal,
			hard_skills=EXCLUDED.hard_skills,
			soft_skills=EXCLUDED.soft_skills,
			missing_skill=EXCLUDED.missing_skill,
			prob_solving=EXCLUDED.prob_solving,
			team_role=EXCLUDED.team_role,
			environment=EXCLUDED.environment,
			learning_style=EXCLUDED.learning_style,
			analysis_result=EXCLUDED.analysis_result,
			updated_at=EXCLUDED.updated_at`,
		profile.UserID, profile.FullName, profile.Age, profile.Education,
		profile.CurrentRole, profile.Experience, profile.Interests, profile.DreamGoal,
		profile.HardSkills, profile.SoftSkills, profile.MissingSkill, profile.ProbSolving,
		profile.TeamRole, profile.Environment, profile.LearningStyle, profile.Analysis,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	tag, err := tx.Exec(ctx, `UPDATE users SET has_onboarded = TRUE WHERE id = $1`, profile.UserID)
	if err != nil {
		return fmt.Errorf("mark onboarded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit onboarding: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE profiles
		 SET full_name=$1, age=$2, education=$3, "current_role"=$4, hard_skills=$5,
		     dream_goal=$6, updated_at=now()
		 WHERE user_id=$7`,
		upd.FullName, upd.Age, upd.Education, upd.CurrentRole, upd.HardSkills,
		upd.DreamGoal, userID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
