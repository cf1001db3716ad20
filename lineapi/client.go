package lineapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"madibot_server/models"
)

const defaultEndpoint = "https://api.line.me"

// Client is a minimal LINE Messaging API client covering exactly the
// calls the bot makes: member profile lookups and reply messages. The
// reply payload carries the mention object verbatim, which the official
// SDK's typed messages cannot express.
type Client struct {
	Endpoint   string
	Token      string
	HTTPClient *http.Client
}

// NewClient builds a client authenticated with a channel access token
func NewClient(token string) *Client {
	return &Client{
		Endpoint:   defaultEndpoint,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetProfile fetches a user's profile for a 1:1 chat
func (c *Client) GetProfile(ctx context.Context, userID string) (*models.PlatformProfile, error) {
	return c.getProfile(ctx, fmt.Sprintf("/v2/bot/profile/%s", userID))
}

// GetGroupMemberProfile fetches a member's profile inside a group chat.
// Fails when the member is not (or no longer) in the group.
func (c *Client) GetGroupMemberProfile(ctx context.Context, groupID, userID string) (*models.PlatformProfile, error) {
	return c.getProfile(ctx, fmt.Sprintf("/v2/bot/group/%s/member/%s", groupID, userID))
}

// GetRoomMemberProfile fetches a member's profile inside a multi-person
// room
func (c *Client) GetRoomMemberProfile(ctx context.Context, roomID, userID string) (*models.PlatformProfile, error) {
	return c.getProfile(ctx, fmt.Sprintf("/v2/bot/room/%s/member/%s", roomID, userID))
}

func (c *Client) getProfile(ctx context.Context, path string) (*models.PlatformProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var profile models.PlatformProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile response: %w", err)
	}
	return &profile, nil
}

// ReplyMessage sends one reply for the given reply token
func (c *Client) ReplyMessage(ctx context.Context, replyToken string, message models.TextMessage) error {
	body, err := json.Marshal(models.ReplyRequest{
		ReplyToken: replyToken,
		Messages:   []models.TextMessage{message},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reply: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"/v2/bot/message/reply", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("reply request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

func apiError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("LINE API returned %d: %s", resp.StatusCode, string(snippet))
}
