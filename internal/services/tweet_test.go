package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/tweeter-app/server/internal/store"
	"github.com/tweeter-app/server/types"
)

func newTestTweetService() (*TweetService, *fakeTweetRepo, *fakePublisher) {
	profiles := newFakeProfileRepo()
	likes := newFakeLikeRepo()
	tweets := newFakeTweetRepo(profiles, likes)
	publisher := &fakePublisher{}
	return NewTweetService(tweets, likes, publisher), tweets, publisher
}

func TestPostTweet(t *testing.T) {
	service, repo, publisher := newTestTweetService()
	ctx := context.Background()

	created, err := service.Post(ctx, "profile-1", "  hello world  ")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if created.Content != "hello world" {
		t.Fatalf("expected trimmed content, got %q", created.Content)
	}
	if created.ID == "" {
		t.Fatalf("expected tweet id to be set")
	}
	if _, ok := repo.tweets[created.ID]; !ok {
		t.Fatalf("expected tweet to be stored")
	}

	if len(publisher.channels) != 1 || publisher.channels[0] != TweetCreatedChannel {
		t.Fatalf("expected one %s event, got %v", TweetCreatedChannel, publisher.channels)
	}
	var event types.Tweet
	if err := json.Unmarshal(publisher.payloads[0], &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.ID != created.ID {
		t.Fatalf("expected event for tweet %q, got %q", created.ID, event.ID)
	}
}

func TestPostTweetValidation(t *testing.T) {
	service, repo, _ := newTestTweetService()
	ctx := context.Background()

	for _, content := range []string{"", "   ", strings.Repeat("a", 141)} {
		_, err := service.Post(ctx, "profile-1", content)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("expected ValidationError for %q, got %v", content, err)
		}
	}
	if len(repo.tweets) != 0 {
		t.Fatalf("expected no tweets to be stored")
	}
}

func TestPostTweetWithoutBroker(t *testing.T) {
	profiles := newFakeProfileRepo()
	likes := newFakeLikeRepo()
	tweets := newFakeTweetRepo(profiles, likes)
	service := NewTweetService(tweets, likes, nil)

	if _, err := service.Post(context.Background(), "profile-1", "hello"); err != nil {
		t.Fatalf("post without broker: %v", err)
	}
}

func TestDeleteTweetOwnership(t *testing.T) {
	service, repo, _ := newTestTweetService()
	ctx := context.Background()

	created, err := service.Post(ctx, "owner", "mine")
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	// A non-owner is rejected and the tweet survives.
	if err := service.Delete(ctx, "intruder", created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, ok := repo.tweets[created.ID]; !ok {
		t.Fatalf("expected tweet to remain after rejected delete")
	}

	// The owner can delete it.
	if err := service.Delete(ctx, "owner", created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := repo.tweets[created.ID]; ok {
		t.Fatalf("expected tweet to be gone")
	}

	if err := service.Delete(ctx, "owner", created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted tweet, got %v", err)
	}
}

func TestToggleLike(t *testing.T) {
	service, _, _ := newTestTweetService()
	ctx := context.Background()

	created, err := service.Post(ctx, "owner", "likeable")
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	liked, err := service.ToggleLike(ctx, "viewer", created.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !liked {
		t.Fatalf("expected first toggle to like")
	}

	liked, err = service.ToggleLike(ctx, "viewer", created.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if liked {
		t.Fatalf("expected second toggle to unlike")
	}

	if _, err := service.ToggleLike(ctx, "viewer", "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing tweet, got %v", err)
	}
}
