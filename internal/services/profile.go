package services

import (
	"context"
	"fmt"
	"io"

	"github.com/tweeter-app/server/internal/validate"
	"github.com/tweeter-app/server/types"
)

const (
	// MaxAvatarBytes caps avatar uploads at 2 MB.
	MaxAvatarBytes = 2 << 20
)

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// AvatarStore uploads avatar images and yields public URLs for them.
type AvatarStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	URL(key string) string
}

// AvatarUpload describes an avatar image submitted through the edit form.
type AvatarUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

// ProfilePage bundles everything the profile view renders.
type ProfilePage struct {
	Profile    types.Profile         `json:"profile"`
	Tweets     []types.TimelineTweet `json:"tweets"`
	TweetCount int                   `json:"tweet_count"`
}

// ProfileService encapsulates profile page and profile edit use-cases.
type ProfileService struct {
	profiles ProfileRepository
	tweets   TweetRepository
	avatars  AvatarStore
}

// NewProfileService constructs a ProfileService. avatars may be nil when no
// object storage is configured, which disables avatar uploads.
func NewProfileService(profiles ProfileRepository, tweets TweetRepository, avatars AvatarStore) *ProfileService {
	return &ProfileService{profiles: profiles, tweets: tweets, avatars: avatars}
}

// Page loads a profile by username together with its tweets and tweet count,
// with like aggregates computed for the viewing profile.
func (s *ProfileService) Page(ctx context.Context, username, viewerID string) (ProfilePage, error) {
	profile, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		return ProfilePage{}, err
	}

	tweets, err := s.tweets.ByProfile(ctx, profile.ID, viewerID)
	if err != nil {
		return ProfilePage{}, err
	}

	count, err := s.tweets.CountByProfile(ctx, profile.ID)
	if err != nil {
		return ProfilePage{}, err
	}

	return ProfilePage{
		Profile:    profile.Public(),
		Tweets:     tweets,
		TweetCount: count,
	}, nil
}

// UpdateDisplay changes the target profile's bio and, when an upload is
// provided, its avatar. Only the profile's owner may edit it; the ownership
// check runs before the upload and before the row is touched.
func (s *ProfileService) UpdateDisplay(ctx context.Context, actorID, targetID, bio string, avatar *AvatarUpload) (types.Profile, error) {
	if !canMutate(actorID, targetID) {
		return types.Profile{}, ErrForbidden
	}

	if fieldErrs := validate.Bio(bio); fieldErrs.Any() {
		return types.Profile{}, &ValidationError{Fields: fieldErrs}
	}

	profile, err := s.profiles.GetByID(ctx, targetID)
	if err != nil {
		return types.Profile{}, err
	}

	avatarURL := profile.AvatarURL
	if avatar != nil {
		avatarURL, err = s.uploadAvatar(ctx, targetID, avatar)
		if err != nil {
			return types.Profile{}, err
		}
	}

	if err := s.profiles.UpdateDisplay(ctx, targetID, bio, avatarURL); err != nil {
		return types.Profile{}, err
	}

	profile.Bio = bio
	profile.AvatarURL = avatarURL
	return profile.Public(), nil
}

func (s *ProfileService) uploadAvatar(ctx context.Context, profileID string, avatar *AvatarUpload) (string, error) {
	if avatar.Size > MaxAvatarBytes {
		return "", &ValidationError{Fields: validate.FieldErrors{"avatar": "File must be under 2MB"}}
	}
	ext, ok := avatarExtensions[avatar.ContentType]
	if !ok {
		return "", &ValidationError{Fields: validate.FieldErrors{"avatar": "Only JPEG, PNG, and WebP images are allowed"}}
	}
	if s.avatars == nil {
		return "", &ValidationError{Fields: validate.FieldErrors{"avatar": "Avatar uploads are not available"}}
	}

	key := "avatars/" + profileID + ext
	if err := s.avatars.Put(ctx, key, avatar.Reader, avatar.Size, avatar.ContentType); err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	return s.avatars.URL(key), nil
}
