package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tweeter-app/server/types"
)

// ProfileRepository handles persistence for profiles.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, username, email, password_hash, bio, avatar_url, created_at`

func scanProfile(row *sql.Row) (types.Profile, error) {
	var profile types.Profile
	var bio, avatarURL sql.NullString
	err := row.Scan(
		&profile.ID,
		&profile.Username,
		&profile.Email,
		&profile.PasswordHash,
		&bio,
		&avatarURL,
		&profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Profile{}, ErrNotFound
		}
		return types.Profile{}, err
	}
	profile.Bio = bio.String
	profile.AvatarURL = avatarURL.String
	return profile, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (types.Profile, error) {
	const query = `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, id))
}

func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (types.Profile, error) {
	const query = `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE username = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, username))
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (types.Profile, error) {
	const query = `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE email = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, email))
}

// Create inserts a new profile. Unique-constraint violations on username or
// email come back as ErrUsernameTaken / ErrEmailTaken.
func (r *ProfileRepository) Create(ctx context.Context, profile types.Profile) (types.Profile, error) {
	profile.CreatedAt = time.Now()

	const query = `
		INSERT INTO profiles (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		profile.ID,
		profile.Username,
		profile.Email,
		profile.PasswordHash,
		profile.CreatedAt,
	); err != nil {
		return types.Profile{}, mapProfileConflict(err)
	}
	return profile, nil
}

// UpdateDisplay mutates the only editable profile fields: bio and avatar URL.
func (r *ProfileRepository) UpdateDisplay(ctx context.Context, id, bio, avatarURL string) error {
	const query = `
		UPDATE profiles
		SET bio = NULLIF($1, ''),
			avatar_url = NULLIF($2, '')
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, bio, avatarURL, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
