package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/tweeter-app/server/internal/validate"
	"github.com/tweeter-app/server/types"
)

// TweetCreatedChannel is the broker channel tweet events are published on.
const TweetCreatedChannel = "tweet.created"

// TweetRepository defines persistence operations for tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet types.Tweet) (types.Tweet, error)
	Get(ctx context.Context, id string) (types.Tweet, error)
	Delete(ctx context.Context, id string) error
	Timeline(ctx context.Context, viewerID string) ([]types.TimelineTweet, error)
	ByProfile(ctx context.Context, profileID, viewerID string) ([]types.TimelineTweet, error)
	CountByProfile(ctx context.Context, profileID string) (int, error)
}

// LikeRepository defines persistence operations for likes.
type LikeRepository interface {
	Exists(ctx context.Context, tweetID, profileID string) (bool, error)
	Add(ctx context.Context, tweetID, profileID string) error
	Remove(ctx context.Context, tweetID, profileID string) error
}

// EventPublisher sends domain events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// TweetService encapsulates tweet use-cases.
type TweetService struct {
	tweets TweetRepository
	likes  LikeRepository
	events EventPublisher
}

// NewTweetService constructs a TweetService. events may be nil when no
// broker is configured.
func NewTweetService(tweets TweetRepository, likes LikeRepository, events EventPublisher) *TweetService {
	return &TweetService{tweets: tweets, likes: likes, events: events}
}

// Post validates and stores a new tweet for the given author, then emits a
// tweet.created event when a broker is configured. The tweet is durable
// before the publish, so a broker failure never fails the post.
func (s *TweetService) Post(ctx context.Context, authorID, content string) (types.Tweet, error) {
	trimmed, fieldErrs := validate.TweetContent(content)
	if fieldErrs.Any() {
		return types.Tweet{}, &ValidationError{Fields: fieldErrs}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return types.Tweet{}, fmt.Errorf("generate id: %w", err)
	}

	created, err := s.tweets.Create(ctx, types.Tweet{
		ID:        id.String(),
		ProfileID: authorID,
		Content:   trimmed,
	})
	if err != nil {
		return types.Tweet{}, err
	}

	if s.events != nil {
		if data, err := json.Marshal(created); err == nil {
			_, _ = s.events.Publish(ctx, TweetCreatedChannel, data, map[string]string{
				"profile_id": created.ProfileID,
			})
		}
	}
	return created, nil
}

// Delete removes a tweet after checking the actor owns it. A non-owner gets
// ErrForbidden and the tweet is left untouched.
func (s *TweetService) Delete(ctx context.Context, actorID, tweetID string) error {
	tweet, err := s.tweets.Get(ctx, tweetID)
	if err != nil {
		return err
	}
	if !canMutate(actorID, tweet.ProfileID) {
		return ErrForbidden
	}
	return s.tweets.Delete(ctx, tweetID)
}

// ToggleLike likes the tweet if the profile has not liked it yet, and
// unlikes it otherwise. It reports the resulting liked state.
func (s *TweetService) ToggleLike(ctx context.Context, profileID, tweetID string) (bool, error) {
	if _, err := s.tweets.Get(ctx, tweetID); err != nil {
		return false, err
	}

	liked, err := s.likes.Exists(ctx, tweetID, profileID)
	if err != nil {
		return false, err
	}
	if liked {
		if err := s.likes.Remove(ctx, tweetID, profileID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.likes.Add(ctx, tweetID, profileID); err != nil {
		return false, err
	}
	return true, nil
}

// Timeline lists every tweet for the home feed of the viewing profile.
func (s *TweetService) Timeline(ctx context.Context, viewerID string) ([]types.TimelineTweet, error) {
	return s.tweets.Timeline(ctx, viewerID)
}
