package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tweeter-app/server/types"
)

// TweetRepository handles persistence for tweets.
type TweetRepository struct {
	db *sql.DB
}

func NewTweetRepository(db *sql.DB) *TweetRepository {
	return &TweetRepository{db: db}
}

func (r *TweetRepository) Create(ctx context.Context, tweet types.Tweet) (types.Tweet, error) {
	tweet.CreatedAt = time.Now()

	const query = `
		INSERT INTO tweets (id, profile_id, content, created_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		tweet.ID,
		tweet.ProfileID,
		tweet.Content,
		tweet.CreatedAt,
	); err != nil {
		return types.Tweet{}, err
	}
	return tweet, nil
}

func (r *TweetRepository) Get(ctx context.Context, id string) (types.Tweet, error) {
	const query = `
		SELECT id, profile_id, content, created_at
		FROM tweets
		WHERE id = $1`
	var tweet types.Tweet
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tweet.ID,
		&tweet.ProfileID,
		&tweet.Content,
		&tweet.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Tweet{}, ErrNotFound
		}
		return types.Tweet{}, err
	}
	return tweet, nil
}

func (r *TweetRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tweets WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
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

const timelineSelect = `
	SELECT
		t.id,
		t.profile_id,
		t.content,
		t.created_at,
		p.username,
		COALESCE(p.avatar_url, ''),
		COUNT(l.profile_id)::int AS like_count,
		COALESCE(BOOL_OR(l.profile_id = $1), FALSE) AS is_liked
	FROM tweets t
	JOIN profiles p ON p.id = t.profile_id
	LEFT JOIN likes l ON l.tweet_id = t.id`

const timelineGroup = `
	GROUP BY t.id, t.profile_id, t.content, t.created_at, p.username, p.avatar_url
	ORDER BY t.created_at DESC`

// Timeline lists every tweet, newest first, with author fields and like
// aggregates computed for the viewing profile.
func (r *TweetRepository) Timeline(ctx context.Context, viewerID string) ([]types.TimelineTweet, error) {
	rows, err := r.db.QueryContext(ctx, timelineSelect+timelineGroup, viewerID)
	if err != nil {
		return nil, err
	}
	return collectTimeline(rows)
}

// ByProfile lists one author's tweets, newest first, with like aggregates
// computed for the viewing profile.
func (r *TweetRepository) ByProfile(ctx context.Context, profileID, viewerID string) ([]types.TimelineTweet, error) {
	const query = timelineSelect + `
	WHERE t.profile_id = $2` + timelineGroup
	rows, err := r.db.QueryContext(ctx, query, viewerID, profileID)
	if err != nil {
		return nil, err
	}
	return collectTimeline(rows)
}

func (r *TweetRepository) CountByProfile(ctx context.Context, profileID string) (int, error) {
	const query = `SELECT COUNT(1) FROM tweets WHERE profile_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, profileID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func collectTimeline(rows *sql.Rows) ([]types.TimelineTweet, error) {
	defer rows.Close()

	tweets := make([]types.TimelineTweet, 0)
	for rows.Next() {
		var tweet types.TimelineTweet
		if err := rows.Scan(
			&tweet.ID,
			&tweet.ProfileID,
			&tweet.Content,
			&tweet.CreatedAt,
			&tweet.Username,
			&tweet.AvatarURL,
			&tweet.LikeCount,
			&tweet.IsLiked,
		); err != nil {
			return nil, err
		}
		tweets = append(tweets, tweet)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tweets, nil
}
