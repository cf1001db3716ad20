package services

import (
	"context"
	"fmt"
	"log"

	"madibot_server/models"
)

// PlatformClient is the slice of the messaging platform's API the
// resolver needs. lineapi.Client implements it.
type PlatformClient interface {
	GetProfile(ctx context.Context, userID string) (*models.PlatformProfile, error)
	GetGroupMemberProfile(ctx context.Context, groupID, userID string) (*models.PlatformProfile, error)
	GetRoomMemberProfile(ctx context.Context, roomID, userID string) (*models.PlatformProfile, error)
}

// ProfileService resolves display names, using the store as a cache and
// the platform as the source of truth
type ProfileService struct {
	Store    Store
	Platform PlatformClient
}

// FetchMemberName asks the platform for a member's display name in the
// given conversation. No cache involved; fails when the member is not
// reachable there (left, blocked, never joined).
func (s *ProfileService) FetchMemberName(ctx context.Context, conv models.ConversationRef, userID string) (string, error) {
	var (
		profile *models.PlatformProfile
		err     error
	)
	switch conv.Kind {
	case models.ConversationGroup:
		profile, err = s.Platform.GetGroupMemberProfile(ctx, conv.ID, userID)
	case models.ConversationRoom:
		profile, err = s.Platform.GetRoomMemberProfile(ctx, conv.ID, userID)
	default:
		profile, err = s.Platform.GetProfile(ctx, userID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to fetch profile for %s: %w", userID, err)
	}
	return profile.DisplayName, nil
}

// ResolveDisplayName returns the member's display name, cache first. On
// a miss the platform is asked and the answer cached; a platform
// failure degrades to the sentinel name, which is cached too, so one
// broken lookup does not become one per message.
func (s *ProfileService) ResolveDisplayName(ctx context.Context, conv models.ConversationRef, userID string) string {
	cached, err := s.Store.GetProfile(ctx, conv.ID, userID)
	if err != nil {
		log.Printf("⚠️ Profile cache read failed for %s/%s: %v", conv.ID, userID, err)
	} else if cached != nil && cached.DisplayName != "" {
		return cached.DisplayName
	}

	name, fetchErr := s.FetchMemberName(ctx, conv, userID)
	name = resolveOrUnknown(name, fetchErr)

	if err := s.Store.SetProfile(ctx, conv.ID, userID, name); err != nil {
		log.Printf("⚠️ Profile cache write failed for %s/%s: %v", conv.ID, userID, err)
	}
	return name
}

// resolveOrUnknown is the degrade policy: a failed or empty platform
// lookup becomes the unknown sentinel. Kept as its own function so the
// trade (one unknown result, then free cache hits) stays visible.
func resolveOrUnknown(name string, err error) string {
	if err != nil || name == "" {
		return models.UnknownName
	}
	return name
}
