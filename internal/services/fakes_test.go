package services

import (
	"context"
	"sort"
	"time"

	"github.com/tweeter-app/server/internal/store"
	"github.com/tweeter-app/server/types"
)

type fakeProfileRepo struct {
	profiles map[string]types.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]types.Profile{}}
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (types.Profile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return types.Profile{}, store.ErrNotFound
	}
	return profile, nil
}

func (f *fakeProfileRepo) GetByUsername(_ context.Context, username string) (types.Profile, error) {
	for _, profile := range f.profiles {
		if profile.Username == username {
			return profile, nil
		}
	}
	return types.Profile{}, store.ErrNotFound
}

func (f *fakeProfileRepo) GetByEmail(_ context.Context, email string) (types.Profile, error) {
	for _, profile := range f.profiles {
		if profile.Email == email {
			return profile, nil
		}
	}
	return types.Profile{}, store.ErrNotFound
}

func (f *fakeProfileRepo) Create(_ context.Context, profile types.Profile) (types.Profile, error) {
	for _, existing := range f.profiles {
		if existing.Username == profile.Username {
			return types.Profile{}, store.ErrUsernameTaken
		}
		if existing.Email == profile.Email {
			return types.Profile{}, store.ErrEmailTaken
		}
	}
	profile.CreatedAt = time.Now()
	f.profiles[profile.ID] = profile
	return profile, nil
}

func (f *fakeProfileRepo) UpdateDisplay(_ context.Context, id, bio, avatarURL string) error {
	profile, ok := f.profiles[id]
	if !ok {
		return store.ErrNotFound
	}
	profile.Bio = bio
	profile.AvatarURL = avatarURL
	f.profiles[id] = profile
	return nil
}

type fakeTweetRepo struct {
	tweets   map[string]types.Tweet
	profiles *fakeProfileRepo
	likes    *fakeLikeRepo
}

func newFakeTweetRepo(profiles *fakeProfileRepo, likes *fakeLikeRepo) *fakeTweetRepo {
	return &fakeTweetRepo{
		tweets:   map[string]types.Tweet{},
		profiles: profiles,
		likes:    likes,
	}
}

func (f *fakeTweetRepo) Create(_ context.Context, tweet types.Tweet) (types.Tweet, error) {
	tweet.CreatedAt = time.Now()
	f.tweets[tweet.ID] = tweet
	return tweet, nil
}

func (f *fakeTweetRepo) Get(_ context.Context, id string) (types.Tweet, error) {
	tweet, ok := f.tweets[id]
	if !ok {
		return types.Tweet{}, store.ErrNotFound
	}
	return tweet, nil
}

func (f *fakeTweetRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.tweets[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.tweets, id)
	return nil
}

func (f *fakeTweetRepo) Timeline(ctx context.Context, viewerID string) ([]types.TimelineTweet, error) {
	return f.collect(ctx, viewerID, "")
}

func (f *fakeTweetRepo) ByProfile(ctx context.Context, profileID, viewerID string) ([]types.TimelineTweet, error) {
	return f.collect(ctx, viewerID, profileID)
}

func (f *fakeTweetRepo) CountByProfile(_ context.Context, profileID string) (int, error) {
	count := 0
	for _, tweet := range f.tweets {
		if tweet.ProfileID == profileID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTweetRepo) collect(ctx context.Context, viewerID, authorID string) ([]types.TimelineTweet, error) {
	result := make([]types.TimelineTweet, 0)
	for _, tweet := range f.tweets {
		if authorID != "" && tweet.ProfileID != authorID {
			continue
		}
		entry := types.TimelineTweet{Tweet: tweet}
		if author, err := f.profiles.GetByID(ctx, tweet.ProfileID); err == nil {
			entry.Username = author.Username
			entry.AvatarURL = author.AvatarURL
		}
		if f.likes != nil {
			entry.LikeCount = len(f.likes.byTweet[tweet.ID])
			entry.IsLiked = f.likes.byTweet[tweet.ID][viewerID]
		}
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

type fakeLikeRepo struct {
	byTweet map[string]map[string]bool
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{byTweet: map[string]map[string]bool{}}
}

func (f *fakeLikeRepo) Exists(_ context.Context, tweetID, profileID string) (bool, error) {
	return f.byTweet[tweetID][profileID], nil
}

func (f *fakeLikeRepo) Add(_ context.Context, tweetID, profileID string) error {
	if f.byTweet[tweetID] == nil {
		f.byTweet[tweetID] = map[string]bool{}
	}
	f.byTweet[tweetID][profileID] = true
	return nil
}

func (f *fakeLikeRepo) Remove(_ context.Context, tweetID, profileID string) error {
	delete(f.byTweet[tweetID], profileID)
	return nil
}

type fakePublisher struct {
	channels []string
	payloads [][]byte
}

func (f *fakePublisher) Publish(_ context.Context, channel string, data []byte, _ map[string]string) (string, error) {
	f.channels = append(f.channels, channel)
	f.payloads = append(f.payloads, data)
	return "msg-1", nil
}
