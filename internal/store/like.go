package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// LikeRepository handles persistence for tweet likes.
type LikeRepository struct {
	db *sql.DB
}

func NewLikeRepository(db *sql.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Exists(ctx context.Context, tweetID, profileID string) (bool, error) {
	const query = `
		SELECT 1 FROM likes
		WHERE tweet_id = $1 AND profile_id = $2`
	var one int
	err := r.db.QueryRowContext(ctx, query, tweetID, profileID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Add records a like. Inserting the same (tweet, profile) pair twice is a
// no-op thanks to ON CONFLICT, so a racing double-toggle cannot fail.
func (r *LikeRepository) Add(ctx context.Context, tweetID, profileID string) error {
	const query = `
		INSERT INTO likes (tweet_id, profile_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (tweet_id, profile_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, tweetID, profileID, time.Now())
	return err
}

func (r *LikeRepository) Remove(ctx context.Context, tweetID, profileID string) error {
	const query = `
		DELETE FROM likes
		WHERE tweet_id = $1 AND profile_id = $2`
	_, err := r.db.ExecContext(ctx, query, tweetID, profileID)
	return err
}
