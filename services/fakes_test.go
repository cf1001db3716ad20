package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"madibot_server/models"
)

// In-memory collaborators shared by the service tests.

type fakeStore struct {
	mu            sync.Mutex
	counts        map[string]int    // count key → count
	profiles      map[string]string // profile key → display name
	writes        int
	failGetCount  bool
	failIncrement bool
	failSearch    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		counts:   make(map[string]int),
		profiles: make(map[string]string),
	}
}

func countMapKey(groupID, userID, date string) string {
	return models.CountPK(groupID, date) + "|" + models.UserSK(userID)
}

func profileMapKey(groupID, userID string) string {
	return models.ProfilePK(groupID) + "|" + models.UserSK(userID)
}

func (f *fakeStore) IncrementDailyCount(ctx context.Context, groupID, userID, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIncrement {
		return errors.New("store unavailable")
	}
	f.counts[countMapKey(groupID, userID, date)]++
	f.writes++
	return nil
}

func (f *fakeStore) GetDailyCount(ctx context.Context, groupID, userID, date string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGetCount {
		return 0, errors.New("store unavailable")
	}
	return f.counts[countMapKey(groupID, userID, date)], nil
}

func (f *fakeStore) GetAllCountsForGroupDate(ctx context.Context, groupID, date string) ([]models.UserCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := models.CountPK(groupID, date) + "|"
	var out []models.UserCount
	for key, count := range f.counts {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, models.UserCount{
				UserID: models.UserIDFromSK(key[len(prefix):]),
				Count:  count,
			})
		}
	}
	return out, nil
}

func (f *fakeStore) SetProfile(ctx context.Context, groupID, userID, displayName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if displayName == "" {
		displayName = models.UnknownName
	}
	f.profiles[profileMapKey(groupID, userID)] = displayName
	f.writes++
	return nil
}

func (f *fakeStore) GetProfile(ctx context.Context, groupID, userID string) (*models.ProfileEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.profiles[profileMapKey(groupID, userID)]
	if !ok {
		return nil, nil
	}
	return &models.ProfileEntry{UserID: userID, DisplayName: name}, nil
}

func (f *fakeStore) SearchProfilesByNameSubstring(ctx context.Context, groupID, query string) ([]models.ProfileEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSearch {
		return nil, errors.New("store unavailable")
	}
	prefix := models.ProfilePK(groupID) + "|"
	var out []models.ProfileEntry
	for key, name := range f.profiles {
		if len(key) <= len(prefix) || key[:len(prefix)] != prefix {
			continue
		}
		if containsFold(name, query) {
			out = append(out, models.ProfileEntry{
				UserID:      models.UserIDFromSK(key[len(prefix):]),
				DisplayName: name,
			})
		}
	}
	return out, nil
}

type fakePlatform struct {
	mu    sync.Mutex
	names map[string]string // lookup key → display name
	calls int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{names: make(map[string]string)}
}

func (p *fakePlatform) lookup(key string) (*models.PlatformProfile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	name, ok := p.names[key]
	if !ok {
		return nil, errors.New("member not found")
	}
	return &models.PlatformProfile{DisplayName: name}, nil
}

func (p *fakePlatform) GetProfile(ctx context.Context, userID string) (*models.PlatformProfile, error) {
	return p.lookup(userID)
}

func (p *fakePlatform) GetGroupMemberProfile(ctx context.Context, groupID, userID string) (*models.PlatformProfile, error) {
	return p.lookup(groupID + "|" + userID)
}

func (p *fakePlatform) GetRoomMemberProfile(ctx context.Context, roomID, userID string) (*models.PlatformProfile, error) {
	return p.lookup(roomID + "|" + userID)
}

func (p *fakePlatform) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type fakeSink struct {
	mu      sync.Mutex
	replies []models.TextMessage
	tokens  []string
	fail    bool
}

func (f *fakeSink) ReplyMessage(ctx context.Context, replyToken string, message models.TextMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("reply failed")
	}
	f.tokens = append(f.tokens, replyToken)
	f.replies = append(f.replies, message)
	return nil
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.replies)
}

func (f *fakeSink) last() models.TextMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.replies[len(f.replies)-1]
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// newTestDispatch wires a DispatchService entirely on fakes
func newTestDispatch(store Store, platform PlatformClient, sink ReplySink, admins []string) *DispatchService {
	profiles := &ProfileService{Store: store, Platform: platform}
	return &DispatchService{
		Store:       store,
		Profiles:    profiles,
		Mentions:    &MentionService{Profiles: profiles, AdminIDs: admins},
		Replies:     sink,
		AdminIDs:    admins,
		WelcomeText: "어서오세요! 공지 먼저 확인해 주세요.",
	}
}

func textEvent(groupID, userID, text string) models.Event {
	return models.Event{
		Type:       "message",
		ReplyToken: "reply-token",
		Source:     models.Source{Type: "group", UserID: userID, GroupID: groupID},
		Message:    &models.MessageContent{ID: "m1", Type: "text", Text: text},
	}
}
