package types

import "time"

// Tweet represents a single posted update.
type Tweet struct {
	// ID is the unique identifier of the tweet (UUIDv7 string).
	ID string `json:"id" db:"id"`

	// ProfileID identifies the author. Only the author may delete the tweet.
	ProfileID string `json:"profile_id" db:"profile_id"`

	// Content is the tweet text, 1-140 characters after trimming.
	Content string `json:"content" db:"content"`

	// CreatedAt is the timestamp at which the tweet was posted.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TimelineTweet is a tweet joined with its author and like aggregates,
// as rendered on the home timeline and profile pages.
type TimelineTweet struct {
	Tweet

	// Username is the author's handle.
	Username string `json:"username" db:"username"`

	// AvatarURL is the author's avatar, if set.
	AvatarURL string `json:"avatar_url" db:"avatar_url"`

	// LikeCount is the number of likes on the tweet.
	LikeCount int `json:"like_count" db:"like_count"`

	// IsLiked reports whether the viewing profile has liked the tweet.
	IsLiked bool `json:"is_liked" db:"is_liked"`
}
